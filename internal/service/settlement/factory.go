package settlement

import (
	"gorm.io/gorm"

	"tip-core/pkg/chain"
	"tip-core/pkg/config"
	"tip-core/pkg/utils/lock"
)

// New 按配置组装完整流水线，locker 可为 nil (单实例部署)
func New(db *gorm.DB, locker lock.DistributedLock, provider chain.Provider, quoter PriceQuoter, cfg config.SettlementConfig) *Verifier {
	return NewVerifier(
		db,
		NewGuard(db, locker, cfg.InflightLockTTL),
		NewChainReader(provider, cfg.ReceiptPollInterval, cfg.ReceiptMaxAttempts),
		NewConverter(quoter),
		NewRecorder(db),
	)
}
