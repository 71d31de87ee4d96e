package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tip-core/internal/model"
	"tip-core/pkg/logger"
)

// 任务类型常量
const (
	TypeTipNotify = "tip:notify"
)

// TipNotifyPayload 通知任务参数
type TipNotifyPayload struct {
	TipID uint64 `json:"tip_id"`
}

// ---------------------------------------------------------------------
// 1. Producer (Client) Code
// ---------------------------------------------------------------------

// NewTipNotifyTask 创建 "收到小费" 通知任务
// TaskID 固定为 tip id，MQ 重复投递时入队会冲突而不是重复发信
func NewTipNotifyTask(tipID uint64) (*asynq.Task, error) {
	payload, err := json.Marshal(TipNotifyPayload{TipID: tipID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeTipNotify, payload,
		asynq.TaskID(fmt.Sprintf("tip:notify:%d", tipID)),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
	), nil
}

// ---------------------------------------------------------------------
// 2. Consumer (Server) Code
// ---------------------------------------------------------------------

// TipNotifyHandler 给服务员发送到账通知
type TipNotifyHandler struct {
	db     *gorm.DB
	mailer Mailer
}

func NewTipNotifyHandler(db *gorm.DB, mailer Mailer) *TipNotifyHandler {
	return &TipNotifyHandler{db: db, mailer: mailer}
}

func (h *TipNotifyHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p TipNotifyPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// JSON 解析失败，重试也没用，直接跳过 (SkipRetry)
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	// 1. 查小费
	var tip model.Tip
	err := h.db.WithContext(ctx).First(&tip, p.TipID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("tip %d not found: %w", p.TipID, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}

	// 2. 查任职和门店
	var assignment model.StaffAssignment
	if err := h.db.WithContext(ctx).First(&assignment, tip.AssignmentID).Error; err != nil {
		return err
	}
	if assignment.ServerEmail == "" {
		logger.Info("服务员未配置邮箱，跳过通知", zap.Uint64("tip_id", tip.ID))
		return nil
	}
	var location model.Location
	if err := h.db.WithContext(ctx).First(&location, tip.LocationID).Error; err != nil {
		return err
	}

	// 3. 发信
	email := BuildTipEmail(tip, assignment, location)
	if err := h.mailer.Send(ctx, email); err != nil {
		return fmt.Errorf("send tip email: %w", err)
	}

	logger.Info("到账通知已发送", zap.Uint64("tip_id", tip.ID), zap.Uint64("assignment_id", assignment.ID))
	return nil
}

// BuildTipEmail 通知内容
func BuildTipEmail(tip model.Tip, assignment model.StaffAssignment, location model.Location) Email {
	dollars := decimal.New(tip.AmountCents, -2).StringFixed(2)
	return Email{
		To:      assignment.ServerEmail,
		Subject: fmt.Sprintf("You received a $%s tip at %s", dollars, location.Name),
		Body: fmt.Sprintf(
			"Hi %s,\n\nA guest at %s tipped you $%s in %s.\nTransaction: %s (%s)\n",
			assignment.ServerDisplayName, location.Name, dollars, tip.TokenSymbol, tip.TxHash, tip.BlockchainNetwork,
		),
	}
}
