package price

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"tip-core/pkg/cache"
	"tip-core/pkg/logger"
	"tip-core/pkg/monitor"
)

var ErrUnknownSymbol = errors.New("unknown symbol")

// Quoter 美元报价源
type Quoter interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// CachedQuoter 报价缓存，TTL 到期后重新拉取
// 拉取失败不写缓存，也不延长旧值的 TTL
type CachedQuoter struct {
	next  Quoter
	cache cache.Cache
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedQuoter(next Quoter, c cache.Cache, ttl time.Duration) *CachedQuoter {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &CachedQuoter{next: next, cache: c, ttl: ttl}
}

func cacheKey(symbol string) string {
	return "price:usd:" + strings.ToUpper(symbol)
}

func (q *CachedQuoter) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	key := cacheKey(symbol)

	// 1. 查缓存
	var cached decimal.Decimal
	if err := q.cache.Get(ctx, key, &cached); err == nil {
		monitor.RecordPriceCache(true)
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.Warn("报价缓存读取失败", zap.String("symbol", symbol), zap.Error(err))
	}
	monitor.RecordPriceCache(false)

	// 2. 回源，同一符号的并发未命中只请求一次
	v, err, _ := q.group.Do(key, func() (interface{}, error) {
		return q.Refresh(ctx, symbol)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

// Refresh 强制回源并写缓存 (定时预热也走这里)
func (q *CachedQuoter) Refresh(ctx context.Context, symbol string) (decimal.Decimal, error) {
	p, err := q.next.GetPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	if !p.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive quote %s for %s", p, symbol)
	}
	if err := q.cache.Set(ctx, cacheKey(symbol), p, q.ttl); err != nil {
		logger.Warn("报价缓存写入失败", zap.String("symbol", symbol), zap.Error(err))
	}
	return p, nil
}
