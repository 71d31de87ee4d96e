package settlement

import (
	"math/big"

	"go.uber.org/zap"

	"tip-core/internal/model"
	"tip-core/pkg/address"
	"tip-core/pkg/errno"
	"tip-core/pkg/logger"
	"tip-core/pkg/monitor"
)

const (
	FraudRecipient = "recipient_mismatch"
	FraudAmount    = "amount_mismatch"
)

// Validate 对比链上事实与受信的收款地址、客户端声明的金额
// 收款地址永远取自任职记录，不取客户端提交的任何字段
func Validate(tx *OnChainTransaction, assignment model.StaffAssignment, claimed *big.Int, network string) error {
	// 1. 收款方，大小写不敏感；合约创建 (to 为空) 视为不匹配
	if tx.To == "" || !address.Equal(tx.To, assignment.PayoutWalletAddress) {
		logger.Warn("链上收款方与任职收款地址不一致",
			zap.String("fraud_signal", FraudRecipient),
			zap.String("tx_hash", tx.Hash),
			zap.String("network", network),
			zap.String("on_chain_to", tx.To),
			zap.String("expected_to", assignment.PayoutWalletAddress),
			zap.Uint64("assignment_id", assignment.ID),
		)
		monitor.RecordFraudSignal(FraudRecipient, network)
		return errno.ErrRecipientMismatch
	}

	// 2. 金额，大整数精确比较
	if tx.Value == nil || claimed == nil || tx.Value.Cmp(claimed) != 0 {
		onChain := "<nil>"
		if tx.Value != nil {
			onChain = tx.Value.String()
		}
		logger.Warn("链上金额与提交金额不一致",
			zap.String("fraud_signal", FraudAmount),
			zap.String("tx_hash", tx.Hash),
			zap.String("network", network),
			zap.String("on_chain_value", onChain),
			zap.Stringer("claimed_value", claimed),
		)
		monitor.RecordFraudSignal(FraudAmount, network)
		return errno.ErrAmountMismatch
	}
	return nil
}
