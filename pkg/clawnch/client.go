package clawnch

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clawnch/clawctl/pkg/cache"
	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/history"
	"github.com/clawnch/clawctl/pkg/httputil"
	"github.com/clawnch/clawctl/pkg/integrations"
	"github.com/clawnch/clawctl/pkg/integrations/molten"
	"github.com/clawnch/clawctl/pkg/integrations/platform"
	"github.com/clawnch/clawctl/pkg/onchain"
)

// DefaultCacheTTL applies to token listings and stats when Config.CacheTTL
// is zero.
const DefaultCacheTTL = time.Minute

// Config configures a [Client]. Every field is optional.
type Config struct {
	// BaseURL is the Clawnch API root. Defaults to https://clawn.ch.
	BaseURL string
	// RPCURL is the Base JSON-RPC endpoint. Defaults to https://mainnet.base.org.
	RPCURL string
	// ChainID is used to sign transactions. Defaults to 8453.
	ChainID int64
	// PrivateKey enables writes (claims, burns). Hex, 0x prefix optional.
	PrivateKey string
	// MoltenAPIKey authorizes Molten calls other than registration.
	MoltenAPIKey string

	Timeout           time.Duration
	RequestsPerSecond float64

	Cache    cache.Cache
	CacheTTL time.Duration
	History  history.Store
	Logger   *log.Logger

	// Backend replaces the lazily dialed RPC client.
	Backend onchain.Backend
	// ReceiptPollInterval overrides how often receipts are polled.
	ReceiptPollInterval time.Duration
}

// historyTimeout bounds one history append.
const historyTimeout = 5 * time.Second

// Client bundles the platform, Molten and chain clients.
type Client struct {
	api     *platform.Client
	molten  *molten.Client
	chain   *onchain.Client
	lazy    *lazyBackend
	history history.Store
	logger  *log.Logger
}

// New builds a client from cfg. It fails only on an unparseable private
// key; nothing is dialed until it is needed.
func New(ctx context.Context, cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.RPCURL == "" {
		cfg.RPCURL = onchain.DefaultRPCURL
	}
	if cfg.ChainID == 0 {
		cfg.ChainID = onchain.DefaultChainID
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	httpOpts := []integrations.ClientOption{
		integrations.WithLogger(logger),
		integrations.WithTimeout(cfg.Timeout),
	}
	if cfg.RequestsPerSecond > 0 {
		httpOpts = append(httpOpts, integrations.WithLimiter(httputil.NewLimiter(cfg.RequestsPerSecond)))
	}
	api := platform.NewClient(cfg.BaseURL, cfg.Cache, cfg.CacheTTL, httpOpts...)

	c := &Client{
		api:     api,
		molten:  molten.NewClient(api.BaseURL(), cfg.MoltenAPIKey, httpOpts...),
		history: cfg.History,
		logger:  logger,
	}
	if c.history == nil {
		c.history = history.NewNullStore()
	}

	backend := cfg.Backend
	if backend == nil {
		c.lazy = &lazyBackend{url: cfg.RPCURL}
		backend = c.lazy
	}
	chainOpts := []onchain.Option{
		onchain.WithPrivateKey(cfg.PrivateKey),
		onchain.WithChainID(cfg.ChainID),
		onchain.WithLogger(logger),
		onchain.WithPollInterval(cfg.ReceiptPollInterval),
	}
	chain, err := onchain.New(backend, chainOpts...)
	if err != nil {
		return nil, err
	}
	c.chain = chain
	logger.Debug("client ready", "api", api.BaseURL(), "rpc", cfg.RPCURL, "wallet", c.hasWallet())
	return c, nil
}

// Close releases the RPC connection, if one was opened. Caches and history
// stores passed in Config belong to the caller.
func (c *Client) Close() error {
	if c.lazy != nil {
		c.lazy.Close()
	}
	return nil
}

// API returns the underlying REST client.
func (c *Client) API() *platform.Client { return c.api }

// Molten returns the underlying Molten client.
func (c *Client) Molten() *molten.Client { return c.molten }

// Chain returns the underlying chain client.
func (c *Client) Chain() *onchain.Client { return c.chain }

// WalletAddress returns the configured wallet address, or "" and false.
func (c *Client) WalletAddress() (string, bool) {
	addr, ok := c.chain.Address()
	if !ok {
		return "", false
	}
	return addr.Hex(), true
}

func (c *Client) hasWallet() bool {
	_, ok := c.chain.Address()
	return ok
}

// =============================================================================
// REST API
// =============================================================================

// ListTokens returns launched tokens.
func (c *Client) ListTokens(ctx context.Context, opts platform.TokenListOptions, refresh bool) (*platform.TokenPage, error) {
	return c.api.ListTokens(ctx, opts, refresh)
}

// GetStats returns market data and platform metrics.
func (c *Client) GetStats(ctx context.Context, refresh bool) (*platform.Stats, error) {
	return c.api.GetStats(ctx, refresh)
}

// UploadImage uploads imageOrURL (base64 data or an http(s) URL).
func (c *Client) UploadImage(ctx context.Context, imageOrURL, name string) (*platform.UploadResult, error) {
	return c.api.UploadImage(ctx, platform.UploadRequest{Image: imageOrURL, Name: name})
}

// ValidateLaunch asks the platform to check launch post content.
func (c *Client) ValidateLaunch(ctx context.Context, content string) (*platform.ValidateResult, error) {
	return c.api.ValidateLaunch(ctx, content)
}

// SubmitPost asks the platform to process a post. The outcome is recorded.
func (c *Client) SubmitPost(ctx context.Context, src platform.Source, postID string) (*platform.LaunchResult, error) {
	res, err := c.api.SubmitPost(ctx, platform.SubmitRequest{Platform: src, PostID: postID})

	rec := history.NewRecord(history.KindSubmit)
	rec.Platform = string(src)
	rec.PostID = postID
	switch {
	case err != nil:
		if clawerr.Is(err, clawerr.ErrCodeInvalidInput) {
			return nil, err
		}
		rec.Error = clawerr.UserMessage(err)
	default:
		rec.Success = res.Success
		rec.Error = res.Error
		if res.Token != nil {
			rec.Token = res.Token.Address
			rec.TxHash = res.Token.TxHash
		}
	}
	c.record(ctx, rec)
	return res, err
}

// BuildLaunchPost renders params as launch post text.
func (c *Client) BuildLaunchPost(params platform.TokenLaunchParams) string {
	return platform.BuildLaunchPost(params)
}

// CheckRateLimit reports an agent's launch cooldown.
func (c *Client) CheckRateLimit(ctx context.Context, agent string) (*platform.RateLimitStatus, error) {
	return c.api.CheckRateLimit(ctx, agent)
}

// =============================================================================
// Molten
// =============================================================================

// MoltenRegister registers an agent and returns its API key.
func (c *Client) MoltenRegister(ctx context.Context, p molten.RegisterParams) (*molten.RegisterResult, error) {
	return c.molten.Register(ctx, p)
}

// MoltenCreateIntent publishes an offer or request.
func (c *Client) MoltenCreateIntent(ctx context.Context, in molten.Intent) (*molten.CreateIntentResult, error) {
	return c.molten.CreateIntent(ctx, in)
}

// MoltenListIntents returns the agent's intents.
func (c *Client) MoltenListIntents(ctx context.Context) ([]molten.Intent, error) {
	return c.molten.ListIntents(ctx)
}

// MoltenMatches returns pending matches.
func (c *Client) MoltenMatches(ctx context.Context) ([]molten.Match, error) {
	return c.molten.Matches(ctx)
}

// MoltenAcceptMatch accepts a match.
func (c *Client) MoltenAcceptMatch(ctx context.Context, matchID string) (*molten.AcceptResult, error) {
	return c.molten.AcceptMatch(ctx, matchID)
}

// MoltenRejectMatch declines a match.
func (c *Client) MoltenRejectMatch(ctx context.Context, matchID string) (*molten.Result, error) {
	return c.molten.RejectMatch(ctx, matchID)
}

// MoltenSendMessage messages a matched agent.
func (c *Client) MoltenSendMessage(ctx context.Context, matchID, message string) (*molten.Result, error) {
	return c.molten.SendMessage(ctx, matchID, message)
}

// MoltenEvents returns unacknowledged events.
func (c *Client) MoltenEvents(ctx context.Context) ([]molten.Event, error) {
	return c.molten.Events(ctx)
}

// MoltenAckEvents marks events as read.
func (c *Client) MoltenAckEvents(ctx context.Context, ids []string) (*molten.Result, error) {
	return c.molten.AckEvents(ctx, ids)
}

// =============================================================================
// Chain
// =============================================================================

// CheckFees returns claimable fees for token. An empty wallet means the
// configured wallet.
func (c *Client) CheckFees(ctx context.Context, wallet, token string) (*onchain.FeeInfo, error) {
	if wallet == "" {
		addr, ok := c.WalletAddress()
		if !ok {
			return nil, clawerr.New(clawerr.ErrCodeWalletRequired,
				"wallet address required: pass one or set PRIVATE_KEY")
		}
		wallet = addr
	}
	return c.chain.CheckFees(ctx, wallet, token)
}

// ClaimFees claims WETH fees, then token fees, recording both.
func (c *Client) ClaimFees(ctx context.Context, token string) (*onchain.ClaimAllResult, error) {
	res, err := c.chain.ClaimAllFees(ctx, token)
	if err != nil {
		return nil, err
	}
	c.recordClaim(ctx, history.KindClaimWeth, token, res.Weth)
	c.recordClaim(ctx, history.KindClaimToken, token, res.Token)
	return res, nil
}

// ClaimWethFees claims WETH fees.
func (c *Client) ClaimWethFees(ctx context.Context, token string) (*onchain.ClaimResult, error) {
	res, err := c.chain.ClaimWethFees(ctx, token)
	if err != nil {
		return nil, err
	}
	c.recordClaim(ctx, history.KindClaimWeth, token, res)
	return res, nil
}

// ClaimTokenFees claims fees paid in token.
func (c *Client) ClaimTokenFees(ctx context.Context, token string) (*onchain.ClaimResult, error) {
	res, err := c.chain.ClaimTokenFees(ctx, token)
	if err != nil {
		return nil, err
	}
	c.recordClaim(ctx, history.KindClaimToken, token, res)
	return res, nil
}

// BurnForAllocation burns amount whole $CLAWNCH.
func (c *Client) BurnForAllocation(ctx context.Context, amount string) (*onchain.BurnResult, error) {
	res, err := c.chain.BurnForAllocation(ctx, amount)
	if err != nil {
		return nil, err
	}
	rec := history.NewRecord(history.KindBurn)
	rec.Token = onchain.ClawnchToken.Hex()
	rec.Amount = res.Amount
	rec.TxHash = res.TxHash
	rec.Success = res.Success
	rec.Error = res.Error
	c.record(ctx, rec)
	return res, nil
}

// History returns up to limit recorded actions, newest first.
func (c *Client) History(ctx context.Context, limit int) ([]history.Record, error) {
	return c.history.List(ctx, limit)
}

func (c *Client) recordClaim(ctx context.Context, kind history.Kind, token string, res *onchain.ClaimResult) {
	rec := history.NewRecord(kind)
	rec.Token = token
	rec.TxHash = res.TxHash
	rec.Success = res.Success
	rec.Error = res.Error
	c.record(ctx, rec)
}

// record appends rec even when ctx has ended, so interrupted and timed out
// writes still reach the ledger.
func (c *Client) record(ctx context.Context, rec history.Record) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyTimeout)
	defer cancel()
	if err := c.history.Append(ctx, rec); err != nil {
		c.logger.Warn("could not record history", "kind", rec.Kind, "err", err)
	}
}
