package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tip-core/internal/event"
	"tip-core/internal/model"
	"tip-core/internal/testutil"
)

func TestRelayOnce_PublishesPendingInOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	for _, key := range []string{"0x01", "0x02"} {
		_, err := model.CreateOutboxMessage(db, event.TopicTipRecorded, key, event.TipRecordedEvent{TipID: 1, TxHash: key})
		require.NoError(t, err)
	}

	producer := &fakeProducer{}
	s := NewRelayService(db, producer)

	sent, err := s.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, producer.published, 2)
	assert.Equal(t, "0x01", producer.published[0].Key)
	assert.Equal(t, "0x02", producer.published[1].Key)
	assert.Equal(t, event.TopicTipRecorded, producer.published[0].Topic)

	var pending int64
	require.NoError(t, db.Model(&model.OutboxMessage{}).Where("status = ?", model.OutboxPending).Count(&pending).Error)
	assert.Zero(t, pending)

	// 已发送的消息不会再次投递
	sent, err = s.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, producer.published, 2)
}

func TestRelayOnce_FailureCountsAttempts(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := model.CreateOutboxMessage(db, event.TopicTipRecorded, "0x01", event.TipRecordedEvent{TipID: 1})
	require.NoError(t, err)

	producer := &fakeProducer{fail: errors.New("broker unavailable")}
	s := NewRelayService(db, producer)

	sent, err := s.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)

	var msg model.OutboxMessage
	require.NoError(t, db.First(&msg).Error)
	assert.Equal(t, model.OutboxPending, msg.Status)
	assert.Equal(t, 1, msg.Attempts)
	assert.Equal(t, "broker unavailable", msg.LastError)
}

func TestRelayOnce_GivesUpAfterMaxAttempts(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := model.CreateOutboxMessage(db, event.TopicTipRecorded, "0x01", event.TipRecordedEvent{TipID: 1})
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.OutboxMessage{}).Where("1 = 1").Update("attempts", relayMaxAttempts-1).Error)

	s := NewRelayService(db, &fakeProducer{fail: errors.New("broker unavailable")})
	_, err = s.RelayOnce(context.Background())
	require.NoError(t, err)

	var msg model.OutboxMessage
	require.NoError(t, db.First(&msg).Error)
	assert.Equal(t, model.OutboxFailed, msg.Status)
	assert.Equal(t, relayMaxAttempts, msg.Attempts)

	// FAILED 不再参与轮询
	producer := &fakeProducer{}
	s = NewRelayService(db, producer)
	sent, err := s.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, producer.published)
}
