package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss 缓存未命中
var ErrMiss = errors.New("cache miss")

// Cache 定义通用缓存接口
type Cache interface {
	// Set 设置缓存
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get 获取缓存，并将结果 Unmarshal 到 target 中
	Get(ctx context.Context, key string, target interface{}) error
	// Delete 删除缓存
	Delete(ctx context.Context, key string) error
}

// NoExpiry TTL 返回该值表示 key 存在但没有过期时间
const NoExpiry time.Duration = -1

// TTLReader 可以查询 key 剩余有效期的缓存
// key 不存在时返回 ErrMiss
type TTLReader interface {
	TTL(ctx context.Context, key string) (time.Duration, error)
}
