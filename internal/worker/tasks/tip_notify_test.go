package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tip-core/internal/model"
	"tip-core/internal/testutil"
)

type recordingMailer struct {
	sent []Email
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, email Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func seedTip(t *testing.T, f testutil.Fixture) model.Tip {
	return model.Tip{
		OrganizationID:    f.Organization.ID,
		LocationID:        f.Location.ID,
		ServerID:          f.Assignment.ServerID,
		AssignmentID:      f.Assignment.ID,
		Source:            model.TipSourceCrypto,
		AmountCents:       1250,
		Currency:          model.TipCurrencyUSD,
		Status:            model.TipStatusSucceeded,
		BlockchainNetwork: "base",
		ChainID:           8453,
		TxHash:            "0x" + strings.Repeat("ab", 32),
		ToWalletAddress:   f.Assignment.PayoutWalletAddress,
		TokenSymbol:       "ETH",
		AmountNative:      "4166666666666667",
		PriceUSD:          decimal.NewFromInt(3000),
		BlockNumber:       1,
		ReceivedAt:        time.Now(),
	}
}

func TestTipNotifyHandler_SendsEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedAssignment(t, db, "NOTIFY22", "0x"+strings.Repeat("b", 40))
	tip := seedTip(t, f)
	require.NoError(t, db.Create(&tip).Error)

	mailer := &recordingMailer{}
	h := NewTipNotifyHandler(db, mailer)

	task, err := NewTipNotifyTask(tip.ID)
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(context.Background(), task))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "sam@example.com", mailer.sent[0].To)
	assert.Equal(t, "You received a $12.50 tip at Downtown", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Body, tip.TxHash)
}

func TestTipNotifyHandler_Errors(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.SeedAssignment(t, db, "NOTIFY23", "0x"+strings.Repeat("b", 40))
	tip := seedTip(t, f)
	require.NoError(t, db.Create(&tip).Error)

	// 格式错误 -> 不重试
	h := NewTipNotifyHandler(db, &recordingMailer{})
	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeTipNotify, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	// 小费不存在 -> 不重试
	payload, _ := json.Marshal(TipNotifyPayload{TipID: 9999})
	err = h.ProcessTask(context.Background(), asynq.NewTask(TypeTipNotify, payload))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	// 邮件服务失败 -> 交给 asynq 重试
	h = NewTipNotifyHandler(db, &recordingMailer{err: errors.New("smtp 451")})
	task, _ := NewTipNotifyTask(tip.ID)
	err = h.ProcessTask(context.Background(), task)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}
