package settlement

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tip-core/internal/model"
	"tip-core/pkg/errno"
	"tip-core/pkg/logger"
	"tip-core/pkg/utils/lock"
)

// Guard 幂等守卫
// 库里的 tx_hash 唯一索引才是最终保证，这里只负责尽早拒绝重复提交，
// 避免浪费 RPC 和报价调用
type Guard struct {
	db      *gorm.DB
	locker  lock.DistributedLock // 可为 nil
	lockTTL time.Duration
}

func NewGuard(db *gorm.DB, locker lock.DistributedLock, lockTTL time.Duration) *Guard {
	return &Guard{db: db, locker: locker, lockTTL: lockTTL}
}

// Check 已入账则返回 DuplicateSubmission
func (g *Guard) Check(ctx context.Context, txHash string) error {
	var count int64
	if err := g.db.WithContext(ctx).Model(&model.Tip{}).Where("tx_hash = ?", txHash).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: %v", errno.ErrRecordingFailed.WithMessage("idempotency lookup failed"), err)
	}
	if count > 0 {
		return errno.ErrDuplicateSubmission
	}
	return nil
}

// Acquire 占用进行中锁，返回释放函数
// 其他实例正在处理同一笔交易时返回 VerificationInProgress (可重试)；
// Redis 故障时降级为无锁，由唯一索引兜底
func (g *Guard) Acquire(ctx context.Context, txHash string) (func(), error) {
	noop := func() {}
	if g.locker == nil {
		return noop, nil
	}

	key := "settlement:tx:" + txHash
	token, ok, err := g.locker.Acquire(ctx, key, g.lockTTL)
	if err != nil {
		logger.Warn("进行中锁不可用，降级为无锁", zap.String("tx_hash", txHash), zap.Error(err))
		return noop, nil
	}
	if !ok {
		return nil, errno.ErrVerificationInProgress
	}

	return func() {
		// 请求 ctx 可能已取消，释放用独立的短超时
		releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := g.locker.Release(releaseCtx, key, token); err != nil {
			logger.Warn("释放进行中锁失败", zap.String("tx_hash", txHash), zap.Error(err))
		}
	}, nil
}
