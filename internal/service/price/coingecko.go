package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tip-core/pkg/logger"
)

// 原生币符号 -> CoinGecko id
var coingeckoIDs = map[string]string{
	"ETH":   "ethereum",
	"MATIC": "matic-network",
}

const apiKeyHeader = "x-cg-pro-api-key"

// CoinGeckoQuoter 通过 /simple/price 查询美元报价
type CoinGeckoQuoter struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxElapsed time.Duration
}

func NewCoinGeckoQuoter(baseURL, apiKey string, timeout time.Duration) *CoinGeckoQuoter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CoinGeckoQuoter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		maxElapsed: timeout,
	}
}

func (q *CoinGeckoQuoter) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	id, ok := coingeckoIDs[strings.ToUpper(symbol)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", q.baseURL, url.QueryEscape(id))

	// 5xx 和网络错误退避重试，4xx 直接失败
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxElapsedTime = q.maxElapsed
	bo := backoff.WithContext(exp, ctx)

	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if q.apiKey != "" {
			req.Header.Set(apiKeyHeader, q.apiKey)
		}

		resp, err := q.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("price feed status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("price feed status %d: %s", resp.StatusCode, data))
		}
		body = data
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("报价请求失败，重试中", zap.String("symbol", symbol), zap.Duration("wait", wait), zap.Error(err))
	}
	if err := backoff.RetryNotify(op, bo, notify); err != nil {
		return decimal.Zero, err
	}

	// {"ethereum":{"usd":3000.12}}
	var parsed map[string]map[string]json.Number
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("decode price response: %w", err)
	}
	raw, ok := parsed[id]["usd"]
	if !ok {
		return decimal.Zero, fmt.Errorf("price response missing %s.usd", id)
	}
	price, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", raw, err)
	}
	return price, nil
}
