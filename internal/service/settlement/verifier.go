package settlement

import (
	"context"
	"errors"
	"math/big"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tip-core/internal/model"
	"tip-core/pkg/chain"
	"tip-core/pkg/errno"
	"tip-core/pkg/logger"
	"tip-core/pkg/monitor"
)

// Verifier 加密小费结算流水线
// 幂等守卫 -> 链上读取 -> 校验 -> 折算 -> 入账，任一环节失败立即返回
type Verifier struct {
	db        *gorm.DB
	guard     *Guard
	reader    *ChainReader
	converter *Converter
	recorder  *Recorder
}

func NewVerifier(db *gorm.DB, guard *Guard, reader *ChainReader, converter *Converter, recorder *Recorder) *Verifier {
	return &Verifier{
		db:        db,
		guard:     guard,
		reader:    reader,
		converter: converter,
		recorder:  recorder,
	}
}

// Verify 验证并入账一笔加密小费
// 入账之前的任何失败都不会留下数据
func (v *Verifier) Verify(ctx context.Context, raw Submission) (result *Result, err error) {
	start := time.Now()
	defer func() {
		reason := Reason(err)
		monitor.ObserveVerification(reason, time.Since(start))
		if err != nil {
			monitor.RecordFailure(reason)
		}
	}()

	// 0. 规范化输入
	sub, claimed, err := raw.Normalize()
	if err != nil {
		return nil, err
	}
	log := logger.With(zap.String("tx_hash", sub.TxHash), zap.Uint64("chain_id", sub.ChainID))

	// 1. 幂等守卫 (任何外部调用之前)
	if err := v.guard.Check(ctx, sub.TxHash); err != nil {
		log.Info("重复提交", zap.String("stage", "guard"), zap.Error(err))
		return nil, err
	}

	// 2. 链白名单，未知链不发起任何 RPC
	network, ok := chain.Lookup(sub.ChainID)
	if !ok {
		log.Info("不支持的链", zap.String("stage", "chain_resolve"))
		return nil, errno.ErrUnsupportedChain
	}

	// 3. 二维码 -> 任职 -> 收款地址
	assignment, err := ResolveAssignment(ctx, v.db, sub.QRCode)
	if err != nil {
		log.Info("二维码无效", zap.String("stage", "assignment"), zap.String("qr_code", sub.QRCode), zap.Error(err))
		return nil, err
	}

	// 4. 进行中锁，防止并发的同一笔交易重复走链上流程
	release, err := v.guard.Acquire(ctx, sub.TxHash)
	if err != nil {
		log.Info("同一交易正在验证中", zap.String("stage", "guard"))
		return nil, err
	}
	defer release()

	result, err = v.settle(ctx, log, sub, claimed, network, assignment)
	if err != nil {
		return nil, err
	}

	// 5. 入账
	tip, err := v.recorder.Record(ctx, sub, assignment, network, result.OnChain, result.Conversion)
	if err != nil {
		if errors.Is(err, errno.ErrDuplicateSubmission) {
			log.Info("并发重复提交被唯一索引拦截", zap.String("stage", "record"))
		} else {
			log.Error("小费入账失败", zap.String("stage", "record"), zap.Error(err))
		}
		return nil, err
	}
	result.Tip = tip

	monitor.RecordTip(network.Name, tip.AmountCents)
	log.Info("小费已入账",
		zap.Uint64("tip_id", tip.ID),
		zap.Int64("amount_cents", tip.AmountCents),
		zap.String("symbol", tip.TokenSymbol),
		zap.Uint64("assignment_id", assignment.ID),
	)
	return result, nil
}

// Inspect 只读演练: 链上读取、校验、折算，不查库也不写库
func (v *Verifier) Inspect(ctx context.Context, raw Submission, payout string) (*Result, error) {
	sub, claimed, err := raw.Normalize()
	if err != nil {
		return nil, err
	}
	network, ok := chain.Lookup(sub.ChainID)
	if !ok {
		return nil, errno.ErrUnsupportedChain
	}
	assignment := model.StaffAssignment{PayoutWalletAddress: payout}
	log := logger.With(zap.String("tx_hash", sub.TxHash), zap.Uint64("chain_id", sub.ChainID), zap.Bool("dry_run", true))
	return v.settle(ctx, log, sub, claimed, network, assignment)
}

// settle 链上读取 -> 校验 -> 折算
func (v *Verifier) settle(ctx context.Context, log *zap.Logger, sub Submission, claimed *big.Int, network chain.Network, assignment model.StaffAssignment) (*Result, error) {
	onChain, err := v.reader.Read(ctx, network, sub.TxHash)
	if err != nil {
		log.Info("链上读取失败", zap.String("stage", "chain_read"), zap.Error(err))
		return nil, err
	}

	if err := Validate(onChain, assignment, claimed, network.Name); err != nil {
		return nil, err
	}

	conv, err := v.converter.Convert(ctx, network, onChain)
	if err != nil {
		log.Warn("折算失败", zap.String("stage", "convert"), zap.Error(err))
		return nil, err
	}

	return &Result{
		Assignment: assignment,
		OnChain:    onChain,
		Conversion: conv,
	}, nil
}
