package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tip-core/pkg/chain"
	"tip-core/pkg/logger"
	"tip-core/pkg/utils/lock"
)

type CronService struct {
	cron    *cron.Cron
	locker  lock.DistributedLock
	refresh func(ctx context.Context, symbol string) error
}

func NewCronService(locker lock.DistributedLock, refresh func(ctx context.Context, symbol string) error) *CronService {
	// 标准配置 (分钟级)
	c := cron.New()
	return &CronService{
		cron:    c,
		locker:  locker,
		refresh: refresh,
	}
}

func (s *CronService) Start() {
	// 注册任务
	_, _ = s.cron.AddFunc("@every 1m", s.WarmPrices) // 每分钟预热报价缓存

	s.cron.Start()
	logger.Info("Cron Service started")
}

func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron Service stopped")
}

// WarmPrices 刷新白名单内全部原生币的报价缓存
// 结算请求基本都能命中缓存，不用在请求路径上等报价源
func (s *CronService) WarmPrices() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	lockKey := "cron:lock:warm_prices"

	// 1. 获取分布式锁 (TTL 50s)，防止多实例同时执行
	if s.locker != nil {
		token, locked, err := s.locker.Acquire(ctx, lockKey, 50*time.Second)
		if err != nil || !locked {
			logger.Debug("WarmPrices: 获取锁失败或已有实例在运行")
			return
		}
		defer func() { _ = s.locker.Release(context.Background(), lockKey, token) }()
	}

	// 2. 逐个刷新
	for _, symbol := range chain.Symbols() {
		if err := s.refresh(ctx, symbol); err != nil {
			logger.Warn("报价预热失败", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		logger.Debug("报价已预热", zap.String("symbol", symbol))
	}
}
