package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"tip-core/internal/event"
	"tip-core/internal/service/mq"
	"tip-core/internal/worker/tasks"
	"tip-core/pkg/logger"
)

// TaskEnqueuer 任务入队 (worker.Client 满足)
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NotifierService 消费入账事件，转成 Asynq 通知任务
type NotifierService struct {
	consumer mq.Consumer
	enqueuer TaskEnqueuer
}

func NewNotifierService(consumer mq.Consumer, enqueuer TaskEnqueuer) *NotifierService {
	return &NotifierService{consumer: consumer, enqueuer: enqueuer}
}

func (s *NotifierService) Start(ctx context.Context) error {
	logger.Info("[Notifier] 启动入账通知服务...")
	return s.consumer.Subscribe(ctx, event.TopicTipRecorded, func(msg *mq.Message) error {
		return s.HandleTipRecorded(ctx, msg)
	})
}

// HandleTipRecorded 返回 error 会让 MQ 重新投递
func (s *NotifierService) HandleTipRecorded(ctx context.Context, msg *mq.Message) error {
	// 1. 解析消息
	var evt event.TipRecordedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil || evt.TipID == 0 {
		logger.Error("[Notifier] 消息格式错误，丢弃", zap.String("msg_id", msg.ID), zap.Error(err))
		return nil // 格式错误，不再重试
	}

	// 2. 入队，TaskID 去重
	task, err := tasks.NewTipNotifyTask(evt.TipID)
	if err != nil {
		return err
	}
	if _, err := s.enqueuer.Enqueue(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			logger.Debug("[Notifier] 通知任务已存在", zap.Uint64("tip_id", evt.TipID))
			return nil
		}
		logger.Error("[Notifier] 入队失败", zap.Uint64("tip_id", evt.TipID), zap.Error(err))
		return err
	}

	logger.Info("[Notifier] 通知任务已入队", zap.Uint64("tip_id", evt.TipID), zap.String("tx_hash", evt.TxHash))
	return nil
}
