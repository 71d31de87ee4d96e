package settlement

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"tip-core/pkg/chain"
)

var (
	payoutWallet = "0x" + strings.Repeat("b", 40)
	otherWallet  = "0x" + strings.Repeat("c", 40)
	testTxHash   = "0x" + strings.Repeat("1f", 32)
	oneFinney    = big.NewInt(1_000_000_000_000_000) // 0.001 ETH
	oneGwei      = big.NewInt(1_000_000_000)
)

// fakeClient 前 pending 次查询返回 NotFound，之后返回 receipt
type fakeClient struct {
	mu       sync.Mutex
	pending  int
	rpcErr   error // 非 nil 时每次收据查询都返回它
	receipt  *types.Receipt
	tx       *types.Transaction
	receipts atomic.Int32
	txCalls  atomic.Int32
}

func (c *fakeClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	c.receipts.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.rpcErr != nil {
		return nil, c.rpcErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending > 0 {
		c.pending--
		return nil, ethereum.NotFound
	}
	return c.receipt, nil
}

func (c *fakeClient) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	c.txCalls.Add(1)
	if c.tx == nil {
		return nil, false, ethereum.NotFound
	}
	return c.tx, false, nil
}

func (c *fakeClient) rpcCalls() int {
	return int(c.receipts.Load() + c.txCalls.Load())
}

type fakeProvider struct {
	client *fakeClient
	calls  atomic.Int32
}

func (p *fakeProvider) Client(ctx context.Context, chainID uint64) (chain.Client, error) {
	p.calls.Add(1)
	if _, ok := chain.Lookup(chainID); !ok {
		return nil, chain.ErrUnsupported
	}
	return p.client, nil
}

type fakeQuoter struct {
	price decimal.Decimal
	err   error
	calls atomic.Int32
}

func (q *fakeQuoter) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q.calls.Add(1)
	if q.err != nil {
		return decimal.Zero, q.err
	}
	return q.price, nil
}

type fakeLocker struct {
	held     map[string]bool
	err      error
	released []string
	mu       sync.Mutex
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return "", false, l.err
	}
	if l.held[key] {
		return "", false, nil
	}
	l.held[key] = true
	return "token-" + key, true, nil
}

func (l *fakeLocker) Release(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if token != "token-"+key {
		return errors.New("token mismatch")
	}
	delete(l.held, key)
	l.released = append(l.released, key)
	return nil
}

func newTx(to string, value *big.Int) *types.Transaction {
	var toAddr *common.Address
	if to != "" {
		a := common.HexToAddress(to)
		toAddr = &a
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    7,
		To:       toAddr,
		Value:    value,
		Gas:      21000,
		GasPrice: oneGwei,
	})
}

func successReceipt() *types.Receipt {
	return &types.Receipt{
		Status:            types.ReceiptStatusSuccessful,
		BlockNumber:       big.NewInt(19_000_000),
		GasUsed:           21000,
		EffectiveGasPrice: oneGwei,
	}
}

// noSleep 记录等待次数，不真正等待
type noSleep struct {
	calls atomic.Int32
}

func (s *noSleep) sleep(ctx context.Context, d time.Duration) error {
	s.calls.Add(1)
	return ctx.Err()
}
