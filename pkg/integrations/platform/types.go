package platform

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
)

// Source is a social platform the launch scanner watches.
type Source string

const (
	SourceMoltbook Source = "moltbook"
	SourceMoltx    Source = "moltx"
	Source4claw    Source = "4claw"
)

// Sources lists every known source.
var Sources = []Source{SourceMoltbook, SourceMoltx, Source4claw}

// ParseSource validates s as a [Source].
func ParseSource(s string) (Source, error) {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Sources {
		if src == known {
			return src, nil
		}
	}
	return "", clawerr.New(clawerr.ErrCodeInvalidPlatform, "unknown platform %q (want moltbook, moltx or 4claw)", s)
}

// FeeSplitEntry assigns a share of trading fees to a wallet.
type FeeSplitEntry struct {
	Wallet string `json:"wallet" validate:"required,eth_addr"`
	Share  string `json:"share" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

// TokenLaunchParams describes a token to launch.
type TokenLaunchParams struct {
	Name          string          `json:"name" validate:"required"`
	Symbol        string          `json:"symbol" validate:"required,ticker"`
	Wallet        string          `json:"wallet" validate:"required,eth_addr"`
	Description   string          `json:"description" validate:"required"`
	Image         string          `json:"image,omitempty" validate:"omitempty,http_url"`
	Website       string          `json:"website,omitempty" validate:"omitempty,http_url"`
	Twitter       string          `json:"twitter,omitempty"`
	BurnTxHash    string          `json:"burnTxHash,omitempty"`
	FeeSplit      []FeeSplitEntry `json:"feeSplit,omitempty" validate:"omitempty,dive"`
	MoltenIntents string          `json:"moltenIntents,omitempty"`
	MoltenMatchID string          `json:"moltenMatchId,omitempty"`
}

// Validate checks required fields and formats locally. The platform runs
// its own, stricter validation via [Client.ValidateLaunch].
func (p TokenLaunchParams) Validate() error {
	if err := clawerr.ValidateStruct(p); err != nil {
		return err
	}
	if p.BurnTxHash != "" {
		if err := clawerr.ValidateTxHash(p.BurnTxHash); err != nil {
			return err
		}
	}
	return nil
}

// ValidateResult is the platform's verdict on launch post content.
type ValidateResult struct {
	Valid  bool               `json:"valid"`
	Errors []string           `json:"errors,omitempty"`
	Parsed *TokenLaunchParams `json:"parsed,omitempty"`
}

// LaunchedToken identifies a deployed token.
type LaunchedToken struct {
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	Address string `json:"address"`
	TxHash  string `json:"txHash"`
}

// LaunchURLs links to explorers for a launched token.
type LaunchURLs struct {
	Clanker     string `json:"clanker"`
	Basescan    string `json:"basescan"`
	Dexscreener string `json:"dexscreener"`
}

// LaunchResult is the response to [Client.SubmitPost].
type LaunchResult struct {
	Success    bool           `json:"success"`
	Token      *LaunchedToken `json:"token,omitempty"`
	URLs       *LaunchURLs    `json:"urls,omitempty"`
	Agent      string         `json:"agent,omitempty"`
	Platform   string         `json:"platform,omitempty"`
	PostID     string         `json:"postId,omitempty"`
	Message    string         `json:"message,omitempty"`
	Error      string         `json:"error,omitempty"`
	Code       string         `json:"code,omitempty"`
	Details    []string       `json:"details,omitempty"`
	Suggestion string         `json:"suggestion,omitempty"`
}

// TokenInfo describes a launched token.
//
// The listing endpoint has used two field naming schemes; both decode into
// the same struct (contractAddress, source, agentName and launchedAt are
// aliases of Address, Platform, Deployer and CreatedAt).
type TokenInfo struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	TxHash      string `json:"txHash,omitempty"`
	Deployer    string `json:"deployer,omitempty"`
	Platform    string `json:"platform,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Website     string `json:"website,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
}

// UnmarshalJSON accepts both field naming schemes.
func (t *TokenInfo) UnmarshalJSON(data []byte) error {
	type plain TokenInfo
	var raw struct {
		plain
		ContractAddress string `json:"contractAddress"`
		Source          string `json:"source"`
		AgentName       string `json:"agentName"`
		LaunchedAt      string `json:"launchedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = TokenInfo(raw.plain)
	t.Address = firstNonEmpty(t.Address, raw.ContractAddress)
	t.Platform = firstNonEmpty(t.Platform, raw.Source)
	t.Deployer = firstNonEmpty(t.Deployer, raw.AgentName)
	t.CreatedAt = firstNonEmpty(t.CreatedAt, raw.LaunchedAt)
	return nil
}

// Pagination describes the slice of results a [TokenPage] holds.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit,omitempty"`
	Offset  int  `json:"offset,omitempty"`
	HasMore bool `json:"hasMore,omitempty"`
}

// TokenPage is one page of token listings.
type TokenPage struct {
	Tokens     []TokenInfo `json:"launches"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Total returns the total number of matching tokens, falling back to the
// page length when the server sent no pagination.
func (p *TokenPage) Total() int {
	if p.Pagination != nil && p.Pagination.Total > 0 {
		return p.Pagination.Total
	}
	return len(p.Tokens)
}

// UnmarshalJSON accepts a bare array or an object with "launches" (or
// "tokens") and "pagination".
func (p *TokenPage) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		p.Pagination = nil
		return json.Unmarshal(data, &p.Tokens)
	}
	var obj struct {
		Launches   []TokenInfo `json:"launches"`
		Tokens     []TokenInfo `json:"tokens"`
		Pagination *Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.Tokens = obj.Launches
	if p.Tokens == nil {
		p.Tokens = obj.Tokens
	}
	p.Pagination = obj.Pagination
	return nil
}

// TokenListOptions filters [Client.ListTokens]. Zero values are omitted.
type TokenListOptions struct {
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
	Source  Source `json:"source,omitempty"`
	Agent   string `json:"agent,omitempty"`
	Address string `json:"address,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
}

// Number decodes from a JSON number or a numeric string. Anything else,
// including null, decodes as zero.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Float64 returns n as a float64.
func (n Number) Float64() float64 { return float64(n) }

// TopToken is a leaderboard entry in [Stats].
type TopToken struct {
	Symbol         string `json:"symbol"`
	Name           string `json:"name,omitempty"`
	Address        string `json:"address,omitempty"`
	PriceUSD       Number `json:"priceUsd"`
	PriceChange24h Number `json:"priceChange24h"`
	MarketCap      Number `json:"marketCap"`
}

// Stats holds $CLAWNCH market data and platform metrics. Fields the client
// does not model are kept in Extra.
type Stats struct {
	Price                  Number     `json:"price,omitempty"`
	MarketCap              Number     `json:"marketCap,omitempty"`
	TotalLaunches          Number     `json:"totalLaunches,omitempty"`
	TotalMarketCap         Number     `json:"totalMarketCap,omitempty"`
	Volume24h              Number     `json:"volume24h,omitempty"`
	TokenCount             Number     `json:"tokenCount,omitempty"`
	TokenCount24h          Number     `json:"tokenCount24h,omitempty"`
	AgentFees24h           Number     `json:"agentFees24h,omitempty"`
	BurnedClawnchFormatted string     `json:"burnedClawnchFormatted,omitempty"`
	TopTokens              []TopToken `json:"topTokens,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var statsKnownKeys = map[string]bool{
	"price": true, "marketCap": true, "totalLaunches": true, "totalMarketCap": true,
	"volume24h": true, "tokenCount": true, "tokenCount24h": true, "agentFees24h": true,
	"burnedClawnchFormatted": true, "topTokens": true,
}

// UnmarshalJSON decodes known fields and keeps the rest in Extra.
func (s *Stats) UnmarshalJSON(data []byte) error {
	type plain Stats
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	*s = Stats(p)
	for k, v := range all {
		if statsKnownKeys[k] {
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]json.RawMessage)
		}
		s.Extra[k] = v
	}
	return nil
}

// MarshalJSON writes known fields and Extra as one object.
func (s Stats) MarshalJSON() ([]byte, error) {
	type plain Stats
	known, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err
	}
	return mergeExtra(known, s.Extra)
}

// mergeExtra adds extra keys to the encoded object known. Known fields win
// on conflict.
func mergeExtra(known []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return known, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	merged := make(map[string]json.RawMessage, len(extra)+len(fields))
	for k, v := range extra {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UploadRequest uploads an image given as base64 data or a URL.
type UploadRequest struct {
	Image string `json:"image" validate:"required"`
	Name  string `json:"name,omitempty"`
}

// UploadResult is the response to [Client.UploadImage].
type UploadResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SubmitRequest asks the platform to process a post.
type SubmitRequest struct {
	Platform Source `json:"platform" validate:"required,oneof=moltbook moltx 4claw"`
	PostID   string `json:"post_id" validate:"required"`
}

// RateLimitStatus reports an agent's launch cooldown. Fields the client does
// not model are kept in Extra.
type RateLimitStatus struct {
	Limited       bool   `json:"limited"`
	RemainingMs   int64  `json:"remainingMs,omitempty"`
	NextAvailable string `json:"nextAvailable,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes known fields and keeps the rest in Extra.
func (r *RateLimitStatus) UnmarshalJSON(data []byte) error {
	type plain RateLimitStatus
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	*r = RateLimitStatus(p)
	for k, v := range all {
		switch k {
		case "limited", "remainingMs", "nextAvailable":
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage)
		}
		r.Extra[k] = v
	}
	return nil
}

// MarshalJSON writes known fields and Extra as one object.
func (r RateLimitStatus) MarshalJSON() ([]byte, error) {
	type plain RateLimitStatus
	known, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	return mergeExtra(known, r.Extra)
}

// String summarizes the cooldown for display.
func (r RateLimitStatus) String() string {
	if !r.Limited {
		return "not rate limited"
	}
	if r.NextAvailable != "" {
		return fmt.Sprintf("rate limited until %s", r.NextAvailable)
	}
	return fmt.Sprintf("rate limited for %ds", r.RemainingMs/1000)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
