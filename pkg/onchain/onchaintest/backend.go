// Package onchaintest provides an in-memory [onchain.Backend] for tests.
//
// The fake answers feesToClaim from a table, accepts every transaction and
// mines it after a configurable number of receipt polls.
package onchaintest

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/clawnch/clawctl/pkg/onchain"
)

// Gas parameters reported by the fake.
const (
	GasLimit = 90_000
	TipCap   = 1_000_000
	BaseFee  = 5_000_000
)

// Backend is a fake chain.
type Backend struct {
	mu sync.Mutex

	chainID      int64
	fees         map[common.Address]*big.Int
	callErr      error
	sendErr      error
	revertNext   bool
	pendingPolls int

	reverted map[common.Hash]bool
	sent     []*types.Transaction
	polls    map[common.Hash]int
	calls    int
}

// NewBackend returns a fake Base mainnet.
func NewBackend() *Backend {
	return &Backend{
		chainID:  onchain.DefaultChainID,
		fees:     make(map[common.Address]*big.Int),
		reverted: make(map[common.Hash]bool),
		polls:    make(map[common.Hash]int),
	}
}

// SetFees sets what feesToClaim returns for token, for any owner.
func (b *Backend) SetFees(token common.Address, v *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fees[token] = v
}

// FailCalls makes every eth_call fail with err (nil restores).
func (b *Backend) FailCalls(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callErr = err
}

// FailSends makes SendTransaction fail with err (nil restores).
func (b *Backend) FailSends(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sendErr = err
}

// RevertNext marks the next sent transaction as reverted.
func (b *Backend) RevertNext() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revertNext = true
}

// SetPendingPolls sets how many receipt lookups answer "not found" before
// a transaction is mined.
func (b *Backend) SetPendingPolls(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pendingPolls = n
}

// Sent returns the transactions accepted so far.
func (b *Backend) Sent() []*types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*types.Transaction(nil), b.sent...)
}

// Polls returns how many times the receipt of hash was requested.
func (b *Backend) Polls(hash common.Hash) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.polls[hash]
}

// Calls returns how many eth_calls were made.
func (b *Backend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func (b *Backend) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(b.chainID), nil
}

func (b *Backend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.callErr != nil {
		return nil, b.callErr
	}
	if len(msg.Data) < 4 {
		return nil, errors.New("execution reverted")
	}
	method, err := onchain.FeeLockerABI.MethodById(msg.Data[:4])
	if err != nil || method.Name != "feesToClaim" {
		return nil, errors.New("execution reverted")
	}
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	v, ok := b.fees[args[1].(common.Address)]
	if !ok {
		v = new(big.Int)
	}
	return method.Outputs.Pack(v)
}

func (b *Backend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return GasLimit, nil
}

func (b *Backend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(TipCap), nil
}

func (b *Backend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(100), BaseFee: big.NewInt(BaseFee)}, nil
}

func (b *Backend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(len(b.sent)), nil
}

func (b *Backend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return b.sendErr
	}
	b.sent = append(b.sent, tx)
	if b.revertNext {
		b.reverted[tx.Hash()] = true
		b.revertNext = false
	}
	return nil
}

func (b *Backend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.polls[hash]++
	if b.polls[hash] <= b.pendingPolls {
		return nil, ethereum.NotFound
	}
	status := types.ReceiptStatusSuccessful
	if b.reverted[hash] {
		status = types.ReceiptStatusFailed
	}
	return &types.Receipt{Status: status, TxHash: hash, BlockNumber: big.NewInt(101), GasUsed: 60_000}, nil
}

// DecodeCall returns the method name and arguments of a transaction sent
// to the fee locker or an ERC-20 token.
func DecodeCall(tx *types.Transaction) (string, []any, error) {
	data := tx.Data()
	if len(data) < 4 {
		return "", nil, errors.New("no calldata")
	}
	for _, parsed := range []abi.ABI{onchain.FeeLockerABI, onchain.ERC20ABI} {
		m, err := parsed.MethodById(data[:4])
		if err != nil {
			continue
		}
		args, err := m.Inputs.Unpack(data[4:])
		return m.Name, args, err
	}
	return "", nil, errors.New("unknown method")
}

var _ onchain.Backend = (*Backend)(nil)
