package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tip-core/internal/model"
	"tip-core/internal/service/mq"
	"tip-core/pkg/logger"
	"tip-core/pkg/monitor"
)

// 超过该次数仍发送失败的消息标记为 FAILED，等待人工处理
const relayMaxAttempts = 10

// RelayService 负责将本地消息表的消息搬运到 MQ
type RelayService struct {
	db        *gorm.DB
	producer  mq.Producer
	interval  time.Duration
	batchSize int
}

func NewRelayService(db *gorm.DB, producer mq.Producer) *RelayService {
	return &RelayService{
		db:        db,
		producer:  producer,
		interval:  500 * time.Millisecond, // 500ms 轮询一次
		batchSize: 50,
	}
}

func (s *RelayService) Start(ctx context.Context) {
	logger.Info("[Relay] 启动消息中继服务...")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("[Relay] 停止服务")
			return
		case <-ticker.C:
			if _, err := s.RelayOnce(ctx); err != nil {
				logger.Error("[Relay] 查询消息失败", zap.Error(err))
			}
		}
	}
}

// RelayOnce 投递一批 PENDING 消息，返回成功条数
// 只有发送成功才更新为 SENT => At-least-once，消费方需幂等
func (s *RelayService) RelayOnce(ctx context.Context) (int, error) {
	// 1. 获取一批 Pending 消息 (按 id 顺序)
	var messages []model.OutboxMessage
	if err := s.db.WithContext(ctx).
		Where("status = ?", model.OutboxPending).
		Order("id ASC").
		Limit(s.batchSize).
		Find(&messages).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, msg := range messages {
		// 2. 发送 MQ
		if err := s.producer.Publish(ctx, msg.Topic, msg.Key, msg.Payload); err != nil {
			s.markFailedAttempt(ctx, msg, err)
			continue
		}

		// 3. 更新状态为 SENT
		if err := s.db.WithContext(ctx).Model(&model.OutboxMessage{}).
			Where("id = ?", msg.ID).
			Update("status", model.OutboxSent).Error; err != nil {
			logger.Error("[Relay] 更新状态失败", zap.Uint64("id", msg.ID), zap.Error(err))
			continue
		}
		monitor.RecordOutboxRelay(msg.Topic, model.OutboxSent)
		sent++
	}

	if sent > 0 {
		logger.Debug("[Relay] 消息已投递", zap.Int("count", sent))
	}
	return sent, nil
}

func (s *RelayService) markFailedAttempt(ctx context.Context, msg model.OutboxMessage, sendErr error) {
	attempts := msg.Attempts + 1
	status := model.OutboxPending
	if attempts >= relayMaxAttempts {
		status = model.OutboxFailed
	}
	logger.Warn("[Relay] 发送消息失败",
		zap.Uint64("id", msg.ID),
		zap.Int("attempts", attempts),
		zap.String("status", status),
		zap.Error(sendErr),
	)

	if err := s.db.WithContext(ctx).Model(&model.OutboxMessage{}).
		Where("id = ?", msg.ID).
		Updates(map[string]interface{}{
			"attempts":   attempts,
			"status":     status,
			"last_error": sendErr.Error(),
		}).Error; err != nil {
		logger.Error("[Relay] 记录失败次数出错", zap.Uint64("id", msg.ID), zap.Error(err))
	}
	if status == model.OutboxFailed {
		monitor.RecordOutboxRelay(msg.Topic, model.OutboxFailed)
	}
}
