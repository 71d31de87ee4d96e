package settlement

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tip-core/internal/model"
	"tip-core/pkg/address"
	"tip-core/pkg/chain"
	"tip-core/pkg/logger"
)

// 对账差异类型
const (
	DiscrepancyMissing           = "receipt_missing"
	DiscrepancyFailed            = "receipt_failed"
	DiscrepancyBlockMismatch     = "block_mismatch"
	DiscrepancyRecipientMismatch = "recipient_mismatch"
	DiscrepancyValueMismatch     = "value_mismatch"
	DiscrepancyRPCError          = "rpc_error"
)

// Discrepancy 一条对账差异
type Discrepancy struct {
	TipID   uint64 `json:"tip_id"`
	TxHash  string `json:"tx_hash"`
	ChainID uint64 `json:"chain_id"`
	Kind    string `json:"kind"`
	Detail  string `json:"detail,omitempty"`
}

// ReconcileReport 对账结果，只读，不修改任何记录
type ReconcileReport struct {
	Checked       int           `json:"checked"`
	Discrepancies []Discrepancy `json:"discrepancies"`
}

// Reconciler 重新读链核对已入账的小费 (链重组 / 节点数据问题排查)
type Reconciler struct {
	db       *gorm.DB
	provider chain.Provider
}

func NewReconciler(db *gorm.DB, provider chain.Provider) *Reconciler {
	return &Reconciler{db: db, provider: provider}
}

// Run 核对 received_at 落在 [from, to) 的记录
func (r *Reconciler) Run(ctx context.Context, from, to time.Time) (*ReconcileReport, error) {
	// received_at 以 UTC 写入
	from, to = from.UTC(), to.UTC()

	var tips []model.Tip
	if err := r.db.WithContext(ctx).
		Where("received_at >= ? AND received_at < ?", from, to).
		Order("id ASC").
		Find(&tips).Error; err != nil {
		return nil, err
	}

	report := &ReconcileReport{Discrepancies: []Discrepancy{}}
	for _, tip := range tips {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Checked++
		if d := r.check(ctx, tip); d != nil {
			logger.Warn("对账差异", zap.Uint64("tip_id", tip.ID), zap.String("tx_hash", tip.TxHash), zap.String("kind", d.Kind))
			report.Discrepancies = append(report.Discrepancies, *d)
		}
	}
	return report, nil
}

func (r *Reconciler) check(ctx context.Context, tip model.Tip) *Discrepancy {
	d := &Discrepancy{TipID: tip.ID, TxHash: tip.TxHash, ChainID: tip.ChainID}

	client, err := r.provider.Client(ctx, tip.ChainID)
	if err != nil {
		d.Kind, d.Detail = DiscrepancyRPCError, err.Error()
		return d
	}
	hash := common.HexToHash(tip.TxHash)

	// 1. 收据
	receipt, err := client.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) || (err == nil && receipt == nil) {
		d.Kind = DiscrepancyMissing
		return d
	}
	if err != nil {
		d.Kind, d.Detail = DiscrepancyRPCError, err.Error()
		return d
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		d.Kind = DiscrepancyFailed
		return d
	}
	if receipt.BlockNumber == nil || receipt.BlockNumber.Uint64() != tip.BlockNumber {
		d.Kind = DiscrepancyBlockMismatch
		if receipt.BlockNumber != nil {
			d.Detail = "recorded " + new(big.Int).SetUint64(tip.BlockNumber).String() + ", chain " + receipt.BlockNumber.String()
		}
		return d
	}

	// 2. 交易体
	tx, _, err := client.TransactionByHash(ctx, hash)
	if err != nil || tx == nil {
		d.Kind = DiscrepancyRPCError
		if err != nil {
			d.Detail = err.Error()
		}
		return d
	}
	to := ""
	if tx.To() != nil {
		to = tx.To().Hex()
	}
	if !address.Equal(to, tip.ToWalletAddress) {
		d.Kind, d.Detail = DiscrepancyRecipientMismatch, to
		return d
	}
	if recorded, ok := new(big.Int).SetString(tip.AmountNative, 10); !ok || tx.Value().Cmp(recorded) != 0 {
		d.Kind, d.Detail = DiscrepancyValueMismatch, tx.Value().String()
		return d
	}
	return nil
}
