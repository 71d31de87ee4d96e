package price

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// StaticQuoter 固定报价，开发环境和测试使用
type StaticQuoter struct {
	prices map[string]decimal.Decimal
}

func NewStaticQuoter(prices map[string]decimal.Decimal) *StaticQuoter {
	normalized := make(map[string]decimal.Decimal, len(prices))
	for symbol, p := range prices {
		normalized[strings.ToUpper(symbol)] = p
	}
	return &StaticQuoter{prices: normalized}
}

// ParseStatic 解析配置 price.static (symbol -> "3000.00")
func ParseStatic(raw map[string]string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(raw))
	for symbol, s := range raw {
		p, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("price.static.%s: %w", symbol, err)
		}
		out[strings.ToUpper(symbol)] = p
	}
	return out, nil
}

func (q *StaticQuoter) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	p, ok := q.prices[strings.ToUpper(symbol)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return p, nil
}
