package mq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackOff(t *testing.T) {
	t.Helper()
	orig := newRetryBackOff
	newRetryBackOff = func() backoff.BackOff {
		return backoff.NewConstantBackOff(time.Millisecond)
	}
	t.Cleanup(func() { newRetryBackOff = orig })
}

func TestHandleWithRetry_RetriesSameMessageUntilSuccess(t *testing.T) {
	fastBackOff(t)
	msg := &Message{ID: "0-7", Topic: "tip_events_recorded", Payload: []byte(`{"tip_id":1}`)}

	var seen []string
	calls := 0
	err := handleWithRetry(context.Background(), msg, func(m *Message) error {
		calls++
		seen = append(seen, m.ID)
		if calls < 4 {
			return errors.New("asynq: redis unavailable")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []string{"0-7", "0-7", "0-7", "0-7"}, seen)
}

func TestHandleWithRetry_StopsOnContextCancel(t *testing.T) {
	fastBackOff(t)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- handleWithRetry(ctx, &Message{ID: "1"}, func(*Message) error {
			calls++
			if calls == 3 {
				cancel()
			}
			return errors.New("still failing")
		})
	}()

	select {
	case err := <-done:
		assert.Error(t, err, "ctx 结束时不能当作处理成功")
	case <-time.After(2 * time.Second):
		t.Fatal("retry loop ignored ctx cancellation")
	}
}

func TestSleepCtx(t *testing.T) {
	assert.NoError(t, sleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.ErrorIs(t, sleepCtx(ctx, time.Minute), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
