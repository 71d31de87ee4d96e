package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tip-core/pkg/logger"
)

var (
	ErrUnsupported   = errors.New("unsupported chain")
	ErrNoRPCEndpoint = errors.New("no rpc endpoint configured")
)

// Client 结算流程需要的最小 RPC 能力，*ethclient.Client 满足该接口
type Client interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *types.Transaction, isPending bool, err error)
}

// Provider 按链返回客户端
type Provider interface {
	Client(ctx context.Context, chainID uint64) (Client, error)
}

type dialFunc func(ctx context.Context, url string) (Client, func(), error)

// Pool 懒加载的 ethclient 连接池，每条链一个客户端
type Pool struct {
	rpcUrls map[string]string
	rps     float64
	dial    dialFunc

	mu      sync.Mutex
	clients map[uint64]*limitedClient
}

// NewPool rpcUrls: 网络名 -> RPC 地址; rps <= 0 表示不限流
func NewPool(rpcUrls map[string]string, rps float64) *Pool {
	return &Pool{
		rpcUrls: rpcUrls,
		rps:     rps,
		dial:    dialEthclient,
		clients: make(map[uint64]*limitedClient),
	}
}

func dialEthclient(ctx context.Context, url string) (Client, func(), error) {
	c, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

// Client 返回指定链的客户端，首次调用时拨号
func (p *Pool) Client(ctx context.Context, chainID uint64) (Client, error) {
	network, ok := Lookup(chainID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupported, chainID)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[chainID]; ok {
		return c, nil
	}

	url := p.rpcUrls[network.Name]
	if url == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoRPCEndpoint, network.Name)
	}

	raw, closeFn, err := p.dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", network.Name, err)
	}

	c := &limitedClient{Client: raw, close: closeFn}
	if p.rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(p.rps), int(p.rps)*2+1)
	}
	p.clients[chainID] = c
	logger.Info("RPC 客户端已连接", zap.String("network", network.Name), zap.Uint64("chain_id", chainID))
	return c, nil
}

// Endpoint 返回配置的 RPC 地址 (CLI 展示用)
func (p *Pool) Endpoint(chainID uint64) string {
	network, ok := Lookup(chainID)
	if !ok {
		return ""
	}
	return p.rpcUrls[network.Name]
}

// Close 关闭全部已建立的连接
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, c := range p.clients {
		if c.close != nil {
			c.close()
		}
		delete(p.clients, id)
	}
}

// limitedClient 每次调用前按令牌桶限流，保护公共 RPC 配额
type limitedClient struct {
	Client
	limiter *rate.Limiter
	close   func()
}

func (c *limitedClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.Client.TransactionReceipt(ctx, txHash)
}

func (c *limitedClient) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	if err := c.wait(ctx); err != nil {
		return nil, false, err
	}
	return c.Client.TransactionByHash(ctx, hash)
}

func (c *limitedClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}
