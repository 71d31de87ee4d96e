package settlement

import (
	"context"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"tip-core/internal/model"
	"tip-core/pkg/address"
	"tip-core/pkg/errno"
	"tip-core/pkg/validator"
)

// Submission 客户端提交的小费凭证，除 tx_hash 外一律不可信
type Submission struct {
	QRCode            string
	TxHash            string
	FromAddress       string
	ChainID           uint64
	AmountNativeUnits string // wei, 十进制字符串
}

// Normalize 统一大小写、去空白并做格式校验
func (s Submission) Normalize() (Submission, *big.Int, error) {
	s.QRCode = strings.TrimSpace(s.QRCode)
	s.TxHash = address.Normalize(s.TxHash)
	s.FromAddress = address.Normalize(s.FromAddress)
	s.AmountNativeUnits = strings.TrimSpace(s.AmountNativeUnits)

	if s.QRCode == "" {
		return s, nil, errno.ErrInvalidSubmission.WithMessage("qr_code is required")
	}
	if !address.IsTxHash(s.TxHash) {
		return s, nil, errno.ErrInvalidSubmission.WithMessage("tx_hash must be 0x followed by 64 hex characters")
	}
	if s.FromAddress != "" && !address.IsValid(s.FromAddress) {
		return s, nil, errno.ErrInvalidSubmission.WithMessage("from_address is not a valid address")
	}
	if !validator.IsUintString(s.AmountNativeUnits) {
		return s, nil, errno.ErrInvalidSubmission.WithMessage("amount_in_smallest_unit must be a base-10 integer")
	}
	amount, ok := new(big.Int).SetString(s.AmountNativeUnits, 10)
	if !ok {
		return s, nil, errno.ErrInvalidSubmission.WithMessage("amount_in_smallest_unit must be a base-10 integer")
	}
	return s, amount, nil
}

// OnChainTransaction 链上读到的交易事实
type OnChainTransaction struct {
	Hash              string
	To                string // 合约创建时为空
	Value             *big.Int
	Success           bool
	BlockNumber       uint64
	GasUsed           uint64
	EffectiveGasPrice *big.Int
}

// Conversion 按报价折算后的美元金额
type Conversion struct {
	Symbol       string
	PriceUSD     decimal.Decimal
	AmountCents  int64
	GasPaidCents int64
}

// Result 一次结算的结果
type Result struct {
	Tip        *model.Tip
	Assignment model.StaffAssignment
	OnChain    *OnChainTransaction
	Conversion Conversion
}

// PriceQuoter 报价源
type PriceQuoter interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}
