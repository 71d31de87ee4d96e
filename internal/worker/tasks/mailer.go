package tasks

import (
	"context"

	"go.uber.org/zap"

	"tip-core/pkg/logger"
)

// Email 一封待发送的邮件
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer 邮件服务 (外部系统)
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// LogMailer 只记录日志，本地开发和未接入邮件服务时使用
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(ctx context.Context, email Email) error {
	logger.Info("邮件已发送 (log mailer)",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
	)
	return nil
}
