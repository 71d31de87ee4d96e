package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache 进程内缓存 (L1)
type MemoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		c: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (m *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	// 存 JSON 字节，读出时得到副本，行为与 RedisCache 一致
	bytes, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.c.Set(key, bytes, ttl)
	return nil
}

func (m *MemoryCache) Get(ctx context.Context, key string, target interface{}) error {
	val, found := m.c.Get(key)
	if !found {
		return ErrMiss
	}
	bytes, ok := val.([]byte)
	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(bytes, target)
}

// TTL 剩余有效期
func (m *MemoryCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	_, exp, found := m.c.GetWithExpiration(key)
	if !found {
		return 0, ErrMiss
	}
	if exp.IsZero() {
		return NoExpiry, nil
	}
	return time.Until(exp), nil
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// ItemCount 当前缓存条目数 (含已过期未清理的)
func (m *MemoryCache) ItemCount() int {
	return m.c.ItemCount()
}
