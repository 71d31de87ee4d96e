package mq

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"tip-core/pkg/logger"
)

// newRetryBackOff 消息处理失败时的退避策略，测试时可替换
// MaxElapsedTime = 0: 一直重试到成功或 ctx 结束，失败消息不会被跳过
var newRetryBackOff = func() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 500 * time.Millisecond
	exp.MaxInterval = 30 * time.Second
	exp.MaxElapsedTime = 0
	return exp
}

// handleWithRetry 原地重试 handler 直到成功
// 返回 error 只可能是 ctx 结束，此时调用方不能确认该消息
func handleWithRetry(ctx context.Context, msg *Message, handler func(msg *Message) error) error {
	attempt := 0
	op := func() error {
		attempt++
		return handler(msg)
	}
	notify := func(err error, wait time.Duration) {
		logger.Error("[MQ] 消息处理失败，退避重试",
			zap.String("topic", msg.Topic),
			zap.String("msg_id", msg.ID),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}
	return backoff.RetryNotify(op, backoff.WithContext(newRetryBackOff(), ctx), notify)
}

// sleepCtx 可被 ctx 打断的等待
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
