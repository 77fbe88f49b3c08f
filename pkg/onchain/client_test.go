package onchain_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/observability"
	"github.com/clawnch/clawctl/pkg/onchain"
	"github.com/clawnch/clawctl/pkg/onchain/onchaintest"
)

const testKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

var testToken = common.HexToAddress("0x1111111111111111111111111111111111111111")

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, s)
	return v
}

func newTestClient(t *testing.T, b onchain.Backend, withKey bool) *onchain.Client {
	t.Helper()
	opts := []onchain.Option{onchain.WithPollInterval(time.Millisecond), onchain.WithChainID(onchain.DefaultChainID)}
	if withKey {
		opts = append(opts, onchain.WithPrivateKey("0x"+testKey))
	}
	c, err := onchain.New(b, opts...)
	require.NoError(t, err)
	return c
}

func decodeCall(t *testing.T, tx *types.Transaction) (string, []any) {
	t.Helper()
	name, args, err := onchaintest.DecodeCall(tx)
	require.NoError(t, err)
	return name, args
}

func TestNew_PrivateKey(t *testing.T) {
	key, err := crypto.HexToECDSA(testKey)
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey)

	for _, k := range []string{testKey, "0x" + testKey, "  0x" + testKey + "\n"} {
		c, err := onchain.New(onchaintest.NewBackend(), onchain.WithPrivateKey(k))
		require.NoError(t, err)
		addr, ok := c.Address()
		assert.True(t, ok)
		assert.Equal(t, want, addr)
	}

	c, err := onchain.New(onchaintest.NewBackend())
	require.NoError(t, err)
	_, ok := c.Address()
	assert.False(t, ok)

	_, err = onchain.New(onchaintest.NewBackend(), onchain.WithPrivateKey("0xnothex"))
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeInvalidConfig))
}

func TestCheckFees(t *testing.T) {
	b := onchaintest.NewBackend()
	b.SetFees(onchain.WETH, mustBig(t, "1500000000000000000"))
	b.SetFees(testToken, mustBig(t, "250000000000000000000"))
	c := newTestClient(t, b, false)

	info, err := c.CheckFees(context.Background(), "0x742d35Cc6634C0532925a3b844Bc9e7595f2bD12", testToken.Hex())
	require.NoError(t, err)
	assert.Equal(t, "1.5", info.WethFormatted)
	assert.Equal(t, "250", info.TokenFormatted)
	assert.True(t, info.HasFees())
	assert.Equal(t, 2, b.Calls())
}

func TestCheckFees_Zero(t *testing.T) {
	c := newTestClient(t, onchaintest.NewBackend(), false)
	info, err := c.CheckFees(context.Background(), "0x742d35Cc6634C0532925a3b844Bc9e7595f2bD12", testToken.Hex())
	require.NoError(t, err)
	assert.Equal(t, "0", info.WethFormatted)
	assert.Equal(t, "0", info.TokenFormatted)
	assert.False(t, info.HasFees())
}

func TestCheckFees_Errors(t *testing.T) {
	b := onchaintest.NewBackend()
	c := newTestClient(t, b, false)
	ctx := context.Background()

	_, err := c.CheckFees(ctx, "nope", testToken.Hex())
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeInvalidAddress))
	_, err = c.CheckFees(ctx, testToken.Hex(), "0x12")
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeInvalidAddress))
	assert.Zero(t, b.Calls())

	b.FailCalls(errors.New("rpc down"))
	_, err = c.CheckFees(ctx, testToken.Hex(), testToken.Hex())
	require.Error(t, err)
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeChain))
	assert.Contains(t, err.Error(), "rpc down")
}

func TestWritesRequireWallet(t *testing.T) {
	b := onchaintest.NewBackend()
	c := newTestClient(t, b, false)
	ctx := context.Background()

	_, err := c.ClaimWethFees(ctx, testToken.Hex())
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeWalletRequired))
	_, err = c.ClaimTokenFees(ctx, testToken.Hex())
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeWalletRequired))
	_, err = c.ClaimAllFees(ctx, testToken.Hex())
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeWalletRequired))
	_, err = c.BurnForAllocation(ctx, "100")
	require.Error(t, err)
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeWalletRequired))
	assert.Contains(t, clawerr.UserMessage(err), "Private key required for write operations")

	assert.Empty(t, b.Sent())
}

func TestClaimWethFees(t *testing.T) {
	b := onchaintest.NewBackend()
	b.SetPendingPolls(2)
	c := newTestClient(t, b, true)
	self, _ := c.Address()

	res, err := c.ClaimWethFees(context.Background(), testToken.Hex())
	require.NoError(t, err)
	assert.True(t, res.Success, res.Error)
	sent := b.Sent()
	require.Len(t, sent, 1)

	tx := sent[0]
	assert.Equal(t, res.TxHash, tx.Hash().Hex())
	assert.Equal(t, onchain.FeeLocker, *tx.To())
	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	assert.Equal(t, uint64(onchaintest.GasLimit), tx.Gas())
	assert.Equal(t, "11000000", tx.GasFeeCap().String(), "tip + 2*baseFee")

	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(onchain.DefaultChainID)), tx)
	require.NoError(t, err)
	assert.Equal(t, self, from)

	name, args := decodeCall(t, tx)
	assert.Equal(t, "claim", name)
	assert.Equal(t, self, args[0])
	assert.Equal(t, onchain.WETH, args[1])
	assert.Equal(t, 3, b.Polls(tx.Hash()), "polled until mined")
}

func TestClaimTokenFees(t *testing.T) {
	b := onchaintest.NewBackend()
	c := newTestClient(t, b, true)

	res, err := c.ClaimTokenFees(context.Background(), testToken.Hex())
	require.NoError(t, err)
	assert.True(t, res.Success)

	name, args := decodeCall(t, b.Sent()[0])
	assert.Equal(t, "claim", name)
	assert.Equal(t, testToken, args[1])

	_, err = c.ClaimTokenFees(context.Background(), "bad")
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeInvalidAddress))
}

func TestClaim_FailuresAreReported(t *testing.T) {
	b := onchaintest.NewBackend()
	c := newTestClient(t, b, true)
	ctx := context.Background()

	b.RevertNext()
	res, err := c.ClaimWethFees(ctx, testToken.Hex())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.TxHash)
	assert.Equal(t, onchain.ErrReverted.Error(), res.Error)

	b.FailSends(errors.New("insufficient funds for gas"))
	res, err = c.ClaimTokenFees(ctx, testToken.Hex())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, res.TxHash)
	assert.Contains(t, res.Error, "insufficient funds")
}

func TestClaimAllFees_Sequential(t *testing.T) {
	b := onchaintest.NewBackend()
	c := newTestClient(t, b, true)

	b.RevertNext()
	res, err := c.ClaimAllFees(context.Background(), testToken.Hex())
	require.NoError(t, err)
	assert.False(t, res.Weth.Success)
	assert.True(t, res.Token.Success, "token claim still attempted")
	assert.False(t, res.Success())

	sent := b.Sent()
	require.Len(t, sent, 2)
	_, first := decodeCall(t, sent[0])
	_, second := decodeCall(t, sent[1])
	assert.Equal(t, onchain.WETH, first[1])
	assert.Equal(t, testToken, second[1])
	assert.Equal(t, uint64(0), sent[0].Nonce())
	assert.Equal(t, uint64(1), sent[1].Nonce())
}

func TestBurnForAllocation(t *testing.T) {
	b := onchaintest.NewBackend()
	c := newTestClient(t, b, true)

	res, err := c.BurnForAllocation(context.Background(), "1000000")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "1000000", res.Amount)

	tx := b.Sent()[0]
	assert.Equal(t, onchain.ClawnchToken, *tx.To())
	name, args := decodeCall(t, tx)
	assert.Equal(t, "transfer", name)
	assert.Equal(t, onchain.BurnAddress, args[0])
	assert.Equal(t, "1000000000000000000000000", args[1].(*big.Int).String())
}

func TestBurnForAllocation_InvalidAmount(t *testing.T) {
	b := onchaintest.NewBackend()
	c := newTestClient(t, b, true)

	for _, amt := range []string{"", "abc", "0", "-5", "1e6"} {
		_, err := c.BurnForAllocation(context.Background(), amt)
		assert.True(t, clawerr.Is(err, clawerr.ErrCodeInvalidAmount), amt)
	}
	assert.Empty(t, b.Sent())
}

func TestWaitMined_ContextCancel(t *testing.T) {
	b := onchaintest.NewBackend()
	b.SetPendingPolls(1 << 30)
	c := newTestClient(t, b, true)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res, err := c.ClaimWethFees(ctx, testToken.Hex())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.TxHash)
	assert.Contains(t, res.Error, context.DeadlineExceeded.Error())
}

type recordingHooks struct {
	observability.Noop
	mu    sync.Mutex
	sent  []string
	mined []bool
}

func (r *recordingHooks) OnTxSent(_ context.Context, kind, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, kind)
}

func (r *recordingHooks) OnTxMined(_ context.Context, _ string, ok bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mined = append(r.mined, ok)
}

func TestChainHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetChainHooks(hooks)
	t.Cleanup(observability.Reset)

	b := onchaintest.NewBackend()
	c := newTestClient(t, b, true)
	_, err := c.ClaimAllFees(context.Background(), testToken.Hex())
	require.NoError(t, err)

	assert.Equal(t, []string{"claim-weth", "claim-token"}, hooks.sent)
	assert.Equal(t, []bool{true, true}, hooks.mined)
}
