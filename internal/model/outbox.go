package model

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OutboxPending = "PENDING"
	OutboxSent    = "SENT"
	OutboxFailed  = "FAILED"
)

// CreateOutboxMessage 在同一个事务中创建业务数据和 Outbox 消息
// 返回生成的 event_id
func CreateOutboxMessage(tx *gorm.DB, topic, key string, payload interface{}) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	msg := OutboxMessage{
		EventID: uuid.NewString(),
		Topic:   topic,
		Key:     key,
		Payload: payloadBytes,
		Status:  OutboxPending,
	}

	if err := tx.Create(&msg).Error; err != nil {
		return "", err
	}
	return msg.EventID, nil
}
