package clawnch

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/onchain"
)

// lazyBackend dials the RPC endpoint on first use. A failed dial is retried
// on the next call.
type lazyBackend struct {
	url string

	mu     sync.Mutex
	client *ethclient.Client
}

func (b *lazyBackend) get(ctx context.Context) (*ethclient.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil {
		return b.client, nil
	}
	client, err := ethclient.DialContext(ctx, b.url)
	if err != nil {
		return nil, clawerr.Wrap(clawerr.ErrCodeNetwork, err, "dial %s", b.url)
	}
	b.client = client
	return client, nil
}

func (b *lazyBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil {
		b.client.Close()
		b.client = nil
	}
}

func (b *lazyBackend) ChainID(ctx context.Context) (*big.Int, error) {
	c, err := b.get(ctx)
	if err != nil {
		return nil, err
	}
	return c.ChainID(ctx)
}

func (b *lazyBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	c, err := b.get(ctx)
	if err != nil {
		return nil, err
	}
	return c.CallContract(ctx, msg, block)
}

func (b *lazyBackend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	c, err := b.get(ctx)
	if err != nil {
		return 0, err
	}
	return c.EstimateGas(ctx, msg)
}

func (b *lazyBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	c, err := b.get(ctx)
	if err != nil {
		return nil, err
	}
	return c.SuggestGasTipCap(ctx)
}

func (b *lazyBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	c, err := b.get(ctx)
	if err != nil {
		return nil, err
	}
	return c.HeaderByNumber(ctx, number)
}

func (b *lazyBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	c, err := b.get(ctx)
	if err != nil {
		return 0, err
	}
	return c.PendingNonceAt(ctx, account)
}

func (b *lazyBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	c, err := b.get(ctx)
	if err != nil {
		return err
	}
	return c.SendTransaction(ctx, tx)
}

func (b *lazyBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	c, err := b.get(ctx)
	if err != nil {
		return nil, err
	}
	return c.TransactionReceipt(ctx, hash)
}

var _ onchain.Backend = (*lazyBackend)(nil)
