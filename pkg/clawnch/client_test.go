package clawnch_test

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clawnch/clawctl/pkg/clawnch"
	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/history"
	"github.com/clawnch/clawctl/pkg/integrations/molten"
	"github.com/clawnch/clawctl/pkg/integrations/platform"
	"github.com/clawnch/clawctl/pkg/integrations/platformtest"
	"github.com/clawnch/clawctl/pkg/onchain"
	"github.com/clawnch/clawctl/pkg/onchain/onchaintest"
)

const testKey = "0xb71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

var testToken = common.HexToAddress("0x2222222222222222222222222222222222222222")

type fixture struct {
	srv     *platformtest.Server
	chain   *onchaintest.Backend
	history *history.FileStore
	client  *clawnch.Client
}

func newFixture(t *testing.T, key string) *fixture {
	t.Helper()
	srv := platformtest.NewServer()
	t.Cleanup(srv.Close)

	store, err := history.NewFileStore(filepath.Join(t.TempDir(), history.FileName))
	require.NoError(t, err)

	chain := onchaintest.NewBackend()
	c, err := clawnch.New(context.Background(), clawnch.Config{
		BaseURL:             srv.URL,
		PrivateKey:          key,
		MoltenAPIKey:        srv.APIKey(),
		History:             store,
		Backend:             chain,
		ReceiptPollInterval: time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return &fixture{srv: srv, chain: chain, history: store, client: c}
}

func TestNew_InvalidKey(t *testing.T) {
	_, err := clawnch.New(context.Background(), clawnch.Config{PrivateKey: "0x1234"})
	require.Error(t, err)
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeInvalidConfig))
}

func TestNew_DefaultsDoNotDial(t *testing.T) {
	c, err := clawnch.New(context.Background(), clawnch.Config{})
	require.NoError(t, err)
	assert.Equal(t, platform.DefaultBaseURL, c.API().BaseURL())
	_, ok := c.WalletAddress()
	assert.False(t, ok)
	require.NoError(t, c.Close())
}

func TestLazyDialFailure(t *testing.T) {
	c, err := clawnch.New(context.Background(), clawnch.Config{RPCURL: "ftp://127.0.0.1:1/not-rpc"})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.CheckFees(context.Background(), testToken.Hex(), testToken.Hex())
	require.Error(t, err)
}

func TestREST(t *testing.T) {
	f := newFixture(t, "")
	f.srv.AddToken(platform.TokenInfo{Symbol: "CLAW", Address: onchain.ClawnchToken.Hex(), Platform: "moltbook"})
	ctx := context.Background()

	page, err := f.client.ListTokens(ctx, platform.TokenListOptions{}, false)
	require.NoError(t, err)
	require.Len(t, page.Tokens, 1)

	stats, err := f.client.GetStats(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 42.0, stats.TokenCount.Float64())

	up, err := f.client.UploadImage(ctx, "https://example.com/x.png", "x")
	require.NoError(t, err)
	assert.True(t, up.Success)

	post := f.client.BuildLaunchPost(platform.TokenLaunchParams{
		Name: "Lobster", Symbol: "LOB", Wallet: "0x742d35Cc6634C0532925a3b844Bc9e7595f2bD12", Description: "claw",
	})
	v, err := f.client.ValidateLaunch(ctx, post)
	require.NoError(t, err)
	assert.True(t, v.Valid)

	rl, err := f.client.CheckRateLimit(ctx, "lobster")
	require.NoError(t, err)
	assert.False(t, rl.Limited)
}

func TestSubmitPost_Recorded(t *testing.T) {
	f := newFixture(t, "")
	f.srv.SetSubmission(platform.SourceMoltx, "p1", platform.LaunchResult{
		Success: true,
		Token:   &platform.LaunchedToken{Symbol: "LOB", Address: testToken.Hex(), TxHash: "0xdeploy"},
	})
	ctx := context.Background()

	res, err := f.client.SubmitPost(ctx, platform.SourceMoltx, "p1")
	require.NoError(t, err)
	assert.True(t, res.Success)

	_, err = f.client.SubmitPost(ctx, platform.SourceMoltx, "p1")
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeAlreadyProcessed))

	// rejected locally, never recorded
	_, err = f.client.SubmitPost(ctx, "reddit", "p1")
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeInvalidInput))

	recs, err := f.client.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, history.KindSubmit, recs[0].Kind)
	assert.False(t, recs[0].Success)
	assert.Equal(t, "This post has already been processed", recs[0].Error)
	assert.True(t, recs[1].Success)
	assert.Equal(t, testToken.Hex(), recs[1].Token)
	assert.Equal(t, "0xdeploy", recs[1].TxHash)
	assert.Equal(t, "moltx", recs[1].Platform)
	assert.Equal(t, "p1", recs[1].PostID)
}

func TestMolten(t *testing.T) {
	f := newFixture(t, "")
	f.srv.AddMatch(molten.Match{MatchID: "m1", Score: 0.8})
	ctx := context.Background()

	_, err := f.client.MoltenCreateIntent(ctx, molten.Intent{
		Type: molten.IntentOffer, Category: molten.CategoryDevServices, Title: "Audits", Description: "Solidity reviews",
	})
	require.NoError(t, err)
	intents, err := f.client.MoltenListIntents(ctx)
	require.NoError(t, err)
	assert.Len(t, intents, 1)

	matches, err := f.client.MoltenMatches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	_, err = f.client.MoltenAcceptMatch(ctx, "m1")
	require.NoError(t, err)
	_, err = f.client.MoltenSendMessage(ctx, "m1", "gm")
	require.NoError(t, err)
	assert.Len(t, f.srv.Messages(), 1)
}

func TestCheckFees_DefaultsToOwnWallet(t *testing.T) {
	f := newFixture(t, testKey)
	f.chain.SetFees(onchain.WETH, big.NewInt(1e17))
	ctx := context.Background()

	own, ok := f.client.WalletAddress()
	require.True(t, ok)

	info, err := f.client.CheckFees(ctx, "", testToken.Hex())
	require.NoError(t, err)
	assert.Equal(t, own, info.Wallet)
	assert.Equal(t, "0.1", info.WethFormatted)

	readOnly := newFixture(t, "")
	_, err = readOnly.client.CheckFees(ctx, "", testToken.Hex())
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeWalletRequired))
}

func TestClaimFees_Recorded(t *testing.T) {
	f := newFixture(t, testKey)
	ctx := context.Background()

	f.chain.RevertNext()
	res, err := f.client.ClaimFees(ctx, testToken.Hex())
	require.NoError(t, err)
	assert.False(t, res.Weth.Success)
	assert.True(t, res.Token.Success)

	recs, err := f.client.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, history.KindClaimToken, recs[0].Kind)
	assert.True(t, recs[0].Success)
	assert.Equal(t, history.KindClaimWeth, recs[1].Kind)
	assert.False(t, recs[1].Success)
	assert.Equal(t, onchain.ErrReverted.Error(), recs[1].Error)
}

func TestSingleClaimsAndBurn_Recorded(t *testing.T) {
	f := newFixture(t, testKey)
	ctx := context.Background()

	_, err := f.client.ClaimWethFees(ctx, testToken.Hex())
	require.NoError(t, err)
	_, err = f.client.ClaimTokenFees(ctx, testToken.Hex())
	require.NoError(t, err)
	burn, err := f.client.BurnForAllocation(ctx, "2500")
	require.NoError(t, err)
	assert.True(t, burn.Success)

	recs, err := f.client.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, history.KindBurn, recs[0].Kind)
	assert.Equal(t, "2500", recs[0].Amount)
	assert.Equal(t, burn.TxHash, recs[0].TxHash)
	assert.Equal(t, onchain.ClawnchToken.Hex(), recs[0].Token)

	assert.Len(t, f.chain.Sent(), 3)
}

func TestWritesWithoutWallet_NotRecorded(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	_, err := f.client.ClaimFees(ctx, testToken.Hex())
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeWalletRequired))
	_, err = f.client.BurnForAllocation(ctx, "1")
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeWalletRequired))

	recs, err := f.client.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

// strictStore refuses appends on an ended context, like a database driver.
type strictStore struct {
	history.NullStore
	records []history.Record
}

func (s *strictStore) Append(ctx context.Context, r history.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.records = append(s.records, r)
	return nil
}

func TestInterruptedBurn_StillRecorded(t *testing.T) {
	srv := platformtest.NewServer()
	t.Cleanup(srv.Close)
	chain := onchaintest.NewBackend()
	chain.SetPendingPolls(1000)
	store := &strictStore{}

	c, err := clawnch.New(context.Background(), clawnch.Config{
		BaseURL:             srv.URL,
		PrivateKey:          testKey,
		History:             store,
		Backend:             chain,
		ReceiptPollInterval: time.Millisecond,
	})
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := c.BurnForAllocation(ctx, "10")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, context.Canceled.Error())

	require.Len(t, store.records, 1)
	assert.Equal(t, history.KindBurn, store.records[0].Kind)
	assert.False(t, store.records[0].Success)
	assert.NotEmpty(t, store.records[0].TxHash)
}
