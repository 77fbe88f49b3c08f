package onchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/sync/errgroup"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/observability"
)

// Backend is the subset of an Ethereum JSON-RPC client the package needs.
// *ethclient.Client implements it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// walletRequiredMsg is shown when a write is attempted without a key.
const walletRequiredMsg = "Private key required for write operations. Set PRIVATE_KEY env var or pass it to ClawnchClient."

// Client performs fee reads, fee claims and burns.
type Client struct {
	backend      Backend
	addrs        Addresses
	chainID      *big.Int
	key          *ecdsa.PrivateKey
	address      common.Address
	pollInterval time.Duration
	logger       *log.Logger

	rawKey string
}

// Option customizes a Client.
type Option func(*Client)

// WithPrivateKey sets the signing key, hex encoded with or without 0x.
// An empty string leaves the client read-only.
func WithPrivateKey(hexKey string) Option {
	return func(c *Client) { c.rawKey = strings.TrimSpace(hexKey) }
}

// WithChainID fixes the chain ID used for signing. When unset it is read
// from the backend before the first write.
func WithChainID(id int64) Option {
	return func(c *Client) {
		if id > 0 {
			c.chainID = big.NewInt(id)
		}
	}
}

// WithAddresses overrides the contract set.
func WithAddresses(a Addresses) Option {
	return func(c *Client) { c.addrs = a }
}

// WithPollInterval sets how often receipts are polled.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client over backend. It fails only if a private key was
// given and cannot be parsed.
func New(backend Backend, opts ...Option) (*Client, error) {
	c := &Client{
		backend:      backend,
		addrs:        BaseMainnet(),
		pollInterval: 2 * time.Second,
		logger:       log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rawKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimPrefix(c.rawKey, "0x"), "0X"))
		if err != nil {
			return nil, clawerr.Wrap(clawerr.ErrCodeInvalidConfig, err, "invalid private key")
		}
		c.key = key
		c.address = crypto.PubkeyToAddress(key.PublicKey)
		c.rawKey = ""
	}
	return c, nil
}

// Address returns the wallet address and whether a key is configured.
func (c *Client) Address() (common.Address, bool) {
	return c.address, c.key != nil
}

func (c *Client) requireWallet() error {
	if c.key == nil {
		return clawerr.New(clawerr.ErrCodeWalletRequired, walletRequiredMsg)
	}
	return nil
}

// FeeInfo holds claimable fees for one wallet and token.
type FeeInfo struct {
	Wallet         string   `json:"wallet"`
	Token          string   `json:"token"`
	WethFees       *big.Int `json:"wethFees"`
	TokenFees      *big.Int `json:"tokenFees"`
	WethFormatted  string   `json:"wethFormatted"`
	TokenFormatted string   `json:"tokenFormatted"`
}

// HasFees reports whether anything is claimable.
func (f *FeeInfo) HasFees() bool {
	return f.WethFees.Sign() > 0 || f.TokenFees.Sign() > 0
}

// CheckFees returns the WETH and token fees wallet can claim for token.
// Both balances are read concurrently.
func (c *Client) CheckFees(ctx context.Context, wallet, token string) (*FeeInfo, error) {
	if err := clawerr.ValidateAddress("wallet", wallet); err != nil {
		return nil, err
	}
	if err := clawerr.ValidateAddress("token", token); err != nil {
		return nil, err
	}
	owner := common.HexToAddress(wallet)
	tokenAddr := common.HexToAddress(token)

	var weth, tok *big.Int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := c.feesToClaim(gctx, owner, c.addrs.WETH)
		weth = v
		return err
	})
	g.Go(func() error {
		v, err := c.feesToClaim(gctx, owner, tokenAddr)
		tok = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, clawerr.Wrap(clawerr.ErrCodeChain, err, "check fees")
	}

	return &FeeInfo{
		Wallet:         owner.Hex(),
		Token:          tokenAddr.Hex(),
		WethFees:       weth,
		TokenFees:      tok,
		WethFormatted:  FormatEther(weth),
		TokenFormatted: FormatEther(tok),
	}, nil
}

func (c *Client) feesToClaim(ctx context.Context, owner, token common.Address) (v *big.Int, err error) {
	start := time.Now()
	defer func() { observability.Chain().OnCall(ctx, "feesToClaim", time.Since(start), err) }()

	data, err := FeeLockerABI.Pack("feesToClaim", owner, token)
	if err != nil {
		return nil, err
	}
	out, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &c.addrs.FeeLocker, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("feesToClaim(%s): %w", token.Hex(), err)
	}
	res, err := FeeLockerABI.Unpack("feesToClaim", out)
	if err != nil {
		return nil, fmt.Errorf("decode feesToClaim: %w", err)
	}
	amount, ok := res[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("decode feesToClaim: unexpected %T", res[0])
	}
	return amount, nil
}

// ClaimResult reports the outcome of a claim.
type ClaimResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ClaimAllResult holds both claims made by [Client.ClaimAllFees].
type ClaimAllResult struct {
	Weth  *ClaimResult `json:"weth"`
	Token *ClaimResult `json:"token"`
}

// Success reports whether both claims succeeded.
func (r *ClaimAllResult) Success() bool {
	return r.Weth != nil && r.Weth.Success && r.Token != nil && r.Token.Success
}

// ClaimWethFees claims the WETH fees the configured wallet has earned.
// token names the launch the fees came from and is used for logging only;
// the fee locker pools WETH per owner.
func (c *Client) ClaimWethFees(ctx context.Context, token string) (*ClaimResult, error) {
	if err := c.requireWallet(); err != nil {
		return nil, err
	}
	c.logger.Debug("claiming WETH fees", "wallet", c.address.Hex(), "token", token)
	return c.claim(ctx, "claim-weth", c.addrs.WETH), nil
}

// ClaimTokenFees claims fees the configured wallet has earned in token.
func (c *Client) ClaimTokenFees(ctx context.Context, token string) (*ClaimResult, error) {
	if err := c.requireWallet(); err != nil {
		return nil, err
	}
	if err := clawerr.ValidateAddress("token", token); err != nil {
		return nil, err
	}
	c.logger.Debug("claiming token fees", "wallet", c.address.Hex(), "token", token)
	return c.claim(ctx, "claim-token", common.HexToAddress(token)), nil
}

// ClaimAllFees claims WETH fees, then token fees. The token claim is
// attempted even if the WETH claim fails.
func (c *Client) ClaimAllFees(ctx context.Context, token string) (*ClaimAllResult, error) {
	if err := c.requireWallet(); err != nil {
		return nil, err
	}
	if err := clawerr.ValidateAddress("token", token); err != nil {
		return nil, err
	}
	weth, err := c.ClaimWethFees(ctx, token)
	if err != nil {
		return nil, err
	}
	tok, err := c.ClaimTokenFees(ctx, token)
	if err != nil {
		return nil, err
	}
	return &ClaimAllResult{Weth: weth, Token: tok}, nil
}

func (c *Client) claim(ctx context.Context, kind string, feeToken common.Address) *ClaimResult {
	data, err := FeeLockerABI.Pack("claim", c.address, feeToken)
	if err != nil {
		return &ClaimResult{Error: err.Error()}
	}
	hash, err := c.execute(ctx, kind, c.addrs.FeeLocker, data)
	res := &ClaimResult{Success: err == nil}
	if hash != (common.Hash{}) {
		res.TxHash = hash.Hex()
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// BurnResult reports the outcome of [Client.BurnForAllocation].
type BurnResult struct {
	Success bool   `json:"success"`
	Amount  string `json:"amount"`
	TxHash  string `json:"txHash,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BurnForAllocation sends amount whole $CLAWNCH (decimal, e.g. "1000000")
// to the burn address. The resulting tx hash can be quoted as burnTxHash in
// a launch post.
func (c *Client) BurnForAllocation(ctx context.Context, amount string) (*BurnResult, error) {
	if err := c.requireWallet(); err != nil {
		return nil, err
	}
	value, err := ParseEther(amount)
	if err != nil {
		return nil, err
	}
	if value.Sign() <= 0 {
		return nil, clawerr.New(clawerr.ErrCodeInvalidAmount, "burn amount must be positive, got %q", amount)
	}

	data, err := ERC20ABI.Pack("transfer", c.addrs.Burn, value)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("burning", "amount", amount, "wallet", c.address.Hex())
	hash, err := c.execute(ctx, "burn", c.addrs.Clawnch, data)
	res := &BurnResult{Success: err == nil, Amount: strings.TrimSpace(amount)}
	if hash != (common.Hash{}) {
		res.TxHash = hash.Hex()
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res, nil
}
