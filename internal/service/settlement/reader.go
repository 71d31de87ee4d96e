package settlement

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"tip-core/pkg/chain"
	"tip-core/pkg/errno"
	"tip-core/pkg/logger"
	"tip-core/pkg/monitor"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultMaxAttempts  = 12
)

// SleepFunc 在两次轮询之间等待，ctx 结束时提前返回 ctx.Err()
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ChainReader 读取交易收据和交易体
// 交易可能已广播但尚未打包，收据按固定间隔重试
type ChainReader struct {
	provider    chain.Provider
	interval    time.Duration
	maxAttempts int
	sleep       SleepFunc
}

func NewChainReader(provider chain.Provider, interval time.Duration, maxAttempts int) *ChainReader {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &ChainReader{
		provider:    provider,
		interval:    interval,
		maxAttempts: maxAttempts,
		sleep:       sleepContext,
	}
}

// WithSleep 替换等待函数 (测试用)
func (r *ChainReader) WithSleep(sleep SleepFunc) *ChainReader {
	r.sleep = sleep
	return r
}

// Read 轮询直到拿到收据和交易体
//
//	收据 status != 1      -> TransactionFailedOnChain (不重试)
//	次数用尽 / ctx 结束   -> ReceiptTimeout
func (r *ChainReader) Read(ctx context.Context, network chain.Network, txHash string) (*OnChainTransaction, error) {
	client, err := r.provider.Client(ctx, network.ChainID)
	if err != nil {
		if errors.Is(err, chain.ErrUnsupported) || errors.Is(err, chain.ErrNoRPCEndpoint) {
			return nil, fmt.Errorf("%w: %v", errno.ErrUnsupportedChain, err)
		}
		return nil, fmt.Errorf("%w: %v", errno.ErrReceiptTimeout, err)
	}

	hash := common.HexToHash(txHash)
	log := logger.With(zap.String("tx_hash", txHash), zap.Uint64("chain_id", network.ChainID), zap.String("stage", "chain_read"))

	var (
		receipt *types.Receipt
		tx      *types.Transaction
		lastErr error
	)

	for attempt := 1; ; attempt++ {
		// 1. 收据 (拿到后不再重复查)
		if receipt == nil {
			receipt, lastErr = client.TransactionReceipt(ctx, hash)
			if lastErr != nil {
				receipt = nil
			} else if receipt == nil {
				lastErr = ethereum.NotFound
			} else if receipt.Status != types.ReceiptStatusSuccessful {
				monitor.ObserveReceiptAttempts(network.Name, attempt)
				log.Info("交易在链上执行失败", zap.Uint64("status", receipt.Status))
				return nil, errno.ErrTransactionFailedOnChain
			}
		}

		// 2. 交易体 (to / value)
		if receipt != nil {
			tx, _, lastErr = client.TransactionByHash(ctx, hash)
			if lastErr == nil && tx != nil {
				monitor.ObserveReceiptAttempts(network.Name, attempt)
				return toOnChain(txHash, receipt, tx), nil
			}
			if lastErr == nil {
				lastErr = ethereum.NotFound
			}
		}

		if errors.Is(lastErr, ethereum.NotFound) {
			log.Debug("收据尚未可用", zap.Int("attempt", attempt))
		} else {
			log.Warn("RPC 调用失败，稍后重试", zap.Int("attempt", attempt), zap.Error(lastErr))
		}

		// 3. 次数用尽
		if attempt >= r.maxAttempts {
			monitor.ObserveReceiptAttempts(network.Name, attempt)
			return nil, fmt.Errorf("%w: after %d attempts: %v", errno.ErrReceiptTimeout, attempt, lastErr)
		}

		// 4. 等待下一轮，客户端断开会在这里中止
		if err := r.sleep(ctx, r.interval); err != nil {
			monitor.ObserveReceiptAttempts(network.Name, attempt)
			return nil, fmt.Errorf("%w: %v", errno.ErrReceiptTimeout, err)
		}
	}
}

func toOnChain(txHash string, receipt *types.Receipt, tx *types.Transaction) *OnChainTransaction {
	out := &OnChainTransaction{
		Hash:    txHash,
		Value:   new(big.Int),
		Success: receipt.Status == types.ReceiptStatusSuccessful,
		GasUsed: receipt.GasUsed,
	}
	if to := tx.To(); to != nil {
		out.To = to.Hex()
	}
	if v := tx.Value(); v != nil {
		out.Value.Set(v)
	}
	if receipt.BlockNumber != nil {
		out.BlockNumber = receipt.BlockNumber.Uint64()
	}

	// 部分链的收据不带 effectiveGasPrice，退回交易自身的 gasPrice
	switch {
	case receipt.EffectiveGasPrice != nil && receipt.EffectiveGasPrice.Sign() > 0:
		out.EffectiveGasPrice = new(big.Int).Set(receipt.EffectiveGasPrice)
	case tx.GasPrice() != nil:
		out.EffectiveGasPrice = new(big.Int).Set(tx.GasPrice())
	default:
		out.EffectiveGasPrice = new(big.Int)
	}
	return out
}
