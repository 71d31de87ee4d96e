package price

import (
	"fmt"

	"tip-core/pkg/cache"
	"tip-core/pkg/config"
)

// New 按配置组装报价源，外层统一套缓存
func New(cfg config.PriceConfig, c cache.Cache) (*CachedQuoter, error) {
	var src Quoter
	switch cfg.Provider {
	case "", "coingecko":
		src = NewCoinGeckoQuoter(cfg.BaseURL, cfg.APIKey, cfg.RequestTimeout)
	case "static":
		prices, err := ParseStatic(cfg.Static)
		if err != nil {
			return nil, err
		}
		src = NewStaticQuoter(prices)
	default:
		return nil, fmt.Errorf("unknown price provider %q", cfg.Provider)
	}
	return NewCachedQuoter(src, c, cfg.CacheTTL), nil
}
