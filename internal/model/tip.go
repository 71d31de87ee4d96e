package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TipSourceCrypto    = "crypto"
	TipCurrencyUSD     = "USD"
	TipStatusSucceeded = "succeeded"
)

// Tip 小费记录，写入后不再修改
// tx_hash 唯一索引是幂等的最终保证
type Tip struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uint64 `gorm:"not null;index" json:"organization_id"`
	LocationID     uint64 `gorm:"not null;index" json:"location_id"`
	ServerID       uint64 `gorm:"not null;index" json:"server_id"`
	AssignmentID   uint64 `gorm:"not null" json:"assignment_id"`

	Source      string `gorm:"type:varchar(16);not null" json:"source"`
	AmountCents int64  `gorm:"not null" json:"amount_cents"`
	Currency    string `gorm:"type:varchar(8);not null" json:"currency"`
	Status      string `gorm:"type:varchar(16);not null" json:"status"`

	// 链上信息
	BlockchainNetwork string          `gorm:"type:varchar(32);not null" json:"blockchain_network"`
	ChainID           uint64          `gorm:"not null" json:"chain_id"`
	TxHash            string          `gorm:"type:varchar(66);not null;uniqueIndex:idx_tips_tx_hash" json:"tx_hash"`
	FromWalletAddress string          `gorm:"type:varchar(42)" json:"from_wallet_address"`
	ToWalletAddress   string          `gorm:"type:varchar(42);not null" json:"to_wallet_address"`
	TokenSymbol       string          `gorm:"type:varchar(16);not null" json:"token_symbol"`
	AmountNative      string          `gorm:"type:varchar(80);not null" json:"amount_native"` // wei，十进制字符串
	PriceUSD          decimal.Decimal `gorm:"type:decimal(24,8);not null" json:"price_usd"`
	BlockNumber       uint64          `gorm:"not null" json:"block_number"`
	GasPaidCents      int64           `gorm:"not null;default:0" json:"gas_paid_cents"`

	ReceivedAt time.Time `gorm:"not null" json:"received_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Tip) TableName() string {
	return "tips"
}
