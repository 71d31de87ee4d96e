package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tip-core/pkg/logger"
)

// L2 命中后回写 L1 的最长有效期
const backfillTTL = 10 * time.Second

// MultiLevelCache 实现多级缓存 (L1: Memory, L2: Redis)
// L1 中的条目不会比 L2 活得更久
type MultiLevelCache struct {
	local  Cache
	remote Cache
}

func NewMultiLevelCache(local, remote Cache) *MultiLevelCache {
	return &MultiLevelCache{
		local:  local,
		remote: remote,
	}
}

func (m *MultiLevelCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	// L1 的 TTL 取 L2 的一半，多实例之间报价漂移不超过半个周期
	if err := m.local.Set(ctx, key, value, ttl/2); err != nil {
		logger.Warn("L1 cache set failed", zap.String("key", key), zap.Error(err))
	}
	return m.remote.Set(ctx, key, value, ttl)
}

func (m *MultiLevelCache) Get(ctx context.Context, key string, target interface{}) error {
	// 1. 查 L1
	if err := m.local.Get(ctx, key, target); err == nil {
		return nil
	}

	// 2. 查 L2
	err := m.remote.Get(ctx, key, target)
	if err != nil {
		return err
	}

	// 3. 回写 L1，有效期取 min(L2 剩余 TTL, backfillTTL)
	if ttl, ok := m.backfillTTL(ctx, key); ok {
		_ = m.local.Set(ctx, key, target, ttl)
	}
	return nil
}

// backfillTTL 查不到 L2 剩余有效期时不回写
func (m *MultiLevelCache) backfillTTL(ctx context.Context, key string) (time.Duration, bool) {
	r, ok := m.remote.(TTLReader)
	if !ok {
		return 0, false
	}
	remaining, err := r.TTL(ctx, key)
	if err != nil {
		return 0, false
	}
	if remaining == NoExpiry {
		return backfillTTL, true
	}
	if remaining <= 0 {
		return 0, false
	}
	if remaining < backfillTTL {
		return remaining, true
	}
	return backfillTTL, true
}

func (m *MultiLevelCache) Delete(ctx context.Context, key string) error {
	_ = m.local.Delete(ctx, key)
	return m.remote.Delete(ctx, key)
}
