package price

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tip-core/pkg/cache"
)

func TestCoinGeckoQuoter_GetPrice(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotKey = r.Header.Get(apiKeyHeader)
		_, _ = w.Write([]byte(`{"matic-network":{"usd":0.7123}}`))
	}))
	defer srv.Close()

	q := NewCoinGeckoQuoter(srv.URL+"/", "secret", time.Second)
	p, err := q.GetPrice(context.Background(), "matic")
	require.NoError(t, err)

	assert.True(t, p.Equal(decimal.RequireFromString("0.7123")), p.String())
	assert.Equal(t, "/simple/price?ids=matic-network&vs_currencies=usd", gotPath)
	assert.Equal(t, "secret", gotKey)
}

func TestCoinGeckoQuoter_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ethereum":{"usd":3000}}`))
	}))
	defer srv.Close()

	p, err := NewCoinGeckoQuoter(srv.URL, "", 5*time.Second).GetPrice(context.Background(), "ETH")
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, int32(3), calls.Load())
}

func TestCoinGeckoQuoter_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewCoinGeckoQuoter(srv.URL, "", time.Second).GetPrice(context.Background(), "ETH")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCoinGeckoQuoter_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ethereum":{}}`))
	}))
	defer srv.Close()

	q := NewCoinGeckoQuoter(srv.URL, "", time.Second)

	_, err := q.GetPrice(context.Background(), "ETH")
	assert.Error(t, err)

	_, err = q.GetPrice(context.Background(), "DOGE")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestStaticQuoter(t *testing.T) {
	prices, err := ParseStatic(map[string]string{"eth": "3000", "MATIC": "0.70"})
	require.NoError(t, err)

	q := NewStaticQuoter(prices)
	p, err := q.GetPrice(context.Background(), "ETH")
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(3000)))

	_, err = q.GetPrice(context.Background(), "BTC")
	assert.ErrorIs(t, err, ErrUnknownSymbol)

	_, err = ParseStatic(map[string]string{"ETH": "three thousand"})
	assert.Error(t, err)
}

type countingQuoter struct {
	mu    sync.Mutex
	price decimal.Decimal
	err   error
	calls int
}

func (q *countingQuoter) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls++
	return q.price, q.err
}

func (q *countingQuoter) set(p decimal.Decimal, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.price, q.err = p, err
}

func (q *countingQuoter) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls
}

func TestCachedQuoter_HitWithinTTL(t *testing.T) {
	src := &countingQuoter{price: decimal.NewFromInt(3000)}
	q := NewCachedQuoter(src, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	for i := 0; i < 5; i++ {
		p, err := q.GetPrice(context.Background(), "ETH")
		require.NoError(t, err)
		assert.True(t, p.Equal(decimal.NewFromInt(3000)))
	}
	assert.Equal(t, 1, src.count())
}

func TestCachedQuoter_ExpiresAfterTTL(t *testing.T) {
	src := &countingQuoter{price: decimal.NewFromInt(3000)}
	q := NewCachedQuoter(src, cache.NewMemoryCache(time.Minute, time.Minute), 30*time.Millisecond)

	_, err := q.GetPrice(context.Background(), "ETH")
	require.NoError(t, err)

	src.set(decimal.NewFromInt(3100), nil)
	time.Sleep(60 * time.Millisecond)

	p, err := q.GetPrice(context.Background(), "ETH")
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(3100)))
	assert.Equal(t, 2, src.count())
}

func TestCachedQuoter_FailureIsNotCached(t *testing.T) {
	src := &countingQuoter{err: errors.New("feed down")}
	q := NewCachedQuoter(src, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	_, err := q.GetPrice(context.Background(), "ETH")
	assert.Error(t, err)

	src.set(decimal.Zero, nil)
	_, err = q.GetPrice(context.Background(), "ETH")
	assert.Error(t, err, "非正报价不可用")

	src.set(decimal.NewFromInt(2999), nil)
	p, err := q.GetPrice(context.Background(), "ETH")
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.NewFromInt(2999)))
	assert.Equal(t, 3, src.count())
}
