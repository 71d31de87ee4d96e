package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopClient struct{}

func (nopClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func (nopClient) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	return nil, false, nil
}

func newTestPool(urls map[string]string, dials *int) *Pool {
	p := NewPool(urls, 0)
	p.dial = func(ctx context.Context, url string) (Client, func(), error) {
		*dials++
		return nopClient{}, nil, nil
	}
	return p
}

func TestLookup(t *testing.T) {
	n, ok := Lookup(137)
	require.True(t, ok)
	assert.Equal(t, "MATIC", n.Symbol)
	assert.Equal(t, "polygon", n.Name)

	n, ok = Lookup(8453)
	require.True(t, ok)
	assert.Equal(t, "ETH", n.Symbol)

	_, ok = Lookup(56)
	assert.False(t, ok)
}

func TestAllIsSorted(t *testing.T) {
	list := All()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ChainID, list[i].ChainID)
	}
	assert.ElementsMatch(t, []string{"ETH", "MATIC"}, Symbols())
}

func TestPool_DialsOncePerChain(t *testing.T) {
	dials := 0
	p := newTestPool(map[string]string{"base": "http://base.local"}, &dials)

	c1, err := p.Client(context.Background(), 8453)
	require.NoError(t, err)
	c2, err := p.Client(context.Background(), 8453)
	require.NoError(t, err)

	assert.Same(t, c1, c2)
	assert.Equal(t, 1, dials)
	assert.Equal(t, "http://base.local", p.Endpoint(8453))
}

func TestPool_Errors(t *testing.T) {
	dials := 0
	p := newTestPool(map[string]string{"base": "http://base.local"}, &dials)

	_, err := p.Client(context.Background(), 999)
	assert.True(t, errors.Is(err, ErrUnsupported))

	// 白名单内但未配置 RPC
	_, err = p.Client(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrNoRPCEndpoint))

	assert.Equal(t, 0, dials)
}
