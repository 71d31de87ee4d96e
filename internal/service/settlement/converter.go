package settlement

import (
	"context"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"tip-core/pkg/chain"
	"tip-core/pkg/errno"
)

var (
	weiExp  = int32(-18)
	hundred = decimal.NewFromInt(100)
)

// Converter 把链上原生币金额折算为美分
type Converter struct {
	quoter PriceQuoter
}

func NewConverter(quoter PriceQuoter) *Converter {
	return &Converter{quoter: quoter}
}

// Convert 币种只由 chain_id 决定 (137 为 MATIC，其余为 ETH)，不看客户端
func (c *Converter) Convert(ctx context.Context, network chain.Network, tx *OnChainTransaction) (Conversion, error) {
	out := Conversion{Symbol: network.Symbol}

	price, err := c.quoter.GetPrice(ctx, network.Symbol)
	if err != nil {
		return out, fmt.Errorf("%w: %v", errno.ErrPriceUnavailable, err)
	}
	if !price.IsPositive() {
		return out, fmt.Errorf("%w: non-positive quote %s for %s", errno.ErrPriceUnavailable, price, network.Symbol)
	}
	out.PriceUSD = price

	amount, err := WeiToCents(tx.Value, price)
	if err != nil {
		return out, err
	}
	out.AmountCents = amount

	gasWei := new(big.Int).Mul(new(big.Int).SetUint64(tx.GasUsed), effectivePrice(tx))
	gas, err := WeiToCents(gasWei, price)
	if err != nil {
		return out, err
	}
	out.GasPaidCents = gas

	return out, nil
}

// WeiToCents round(wei / 1e18 * price * 100)，舍入规则为四舍五入远离零
// 0.001 ETH @ 3000 = 300 美分
func WeiToCents(wei *big.Int, priceUSD decimal.Decimal) (int64, error) {
	if wei == nil {
		return 0, nil
	}
	cents := decimal.NewFromBigInt(wei, weiExp).Mul(priceUSD).Mul(hundred).Round(0)
	// 金额来自已校验的链上数据，溢出是服务端无法入账，不是客户端输入错误
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: converted amount %s cents out of int64 range", errno.InternalServerError, cents)
	}
	return cents.IntPart(), nil
}

func effectivePrice(tx *OnChainTransaction) *big.Int {
	if tx.EffectiveGasPrice == nil {
		return new(big.Int)
	}
	return tx.EffectiveGasPrice
}
