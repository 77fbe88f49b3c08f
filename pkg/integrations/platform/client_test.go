package platform_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clawnch/clawctl/pkg/cache"
	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/integrations"
	"github.com/clawnch/clawctl/pkg/integrations/platform"
	"github.com/clawnch/clawctl/pkg/integrations/platformtest"
)

func newClient(t *testing.T, srv *platformtest.Server, c cache.Cache) *platform.Client {
	t.Helper()
	return platform.NewClient(srv.URL+"/", c, time.Minute, integrations.WithRetry(3, time.Millisecond))
}

func seedTokens(srv *platformtest.Server) {
	srv.AddToken(platform.TokenInfo{Symbol: "CLAW", Name: "Clawnch", Address: "0xa1F72459dfA10BAD200Ac160eCd78C6b77a747be", Platform: "moltbook", Deployer: "lobster", CreatedAt: "2025-01-02T03:04:05Z"})
	srv.AddToken(platform.TokenInfo{Symbol: "PINCH", Name: "Pinch", Address: "0x1111111111111111111111111111111111111111", Platform: "moltx", Deployer: "crab"})
	srv.AddToken(platform.TokenInfo{Symbol: "SHELL", Name: "Shell", Address: "0x2222222222222222222222222222222222222222", Platform: "4claw", Deployer: "lobster"})
}

func TestNewClient_Defaults(t *testing.T) {
	assert.Equal(t, platform.DefaultBaseURL, platform.NewClient("", nil, 0).BaseURL())
	assert.Equal(t, "http://localhost:3000", platform.NewClient("http://localhost:3000/", nil, 0).BaseURL())
}

func TestListTokens(t *testing.T) {
	srv := platformtest.NewServer()
	defer srv.Close()
	seedTokens(srv)
	client := newClient(t, srv, nil)

	page, err := client.ListTokens(context.Background(), platform.TokenListOptions{}, false)
	require.NoError(t, err)
	require.Len(t, page.Tokens, 3)
	assert.Equal(t, 3, page.Total())

	first := page.Tokens[0]
	assert.Equal(t, "CLAW", first.Symbol)
	assert.Equal(t, "0xa1F72459dfA10BAD200Ac160eCd78C6b77a747be", first.Address, "contractAddress alias")
	assert.Equal(t, "moltbook", first.Platform, "source alias")
	assert.Equal(t, "lobster", first.Deployer, "agentName alias")
	assert.Equal(t, "2025-01-02T03:04:05Z", first.CreatedAt, "launchedAt alias")
}

func TestListTokens_Filters(t *testing.T) {
	srv := platformtest.NewServer()
	defer srv.Close()
	seedTokens(srv)
	client := newClient(t, srv, nil)

	page, err := client.ListTokens(context.Background(), platform.TokenListOptions{Agent: "lobster", Limit: 1}, false)
	require.NoError(t, err)
	require.Len(t, page.Tokens, 1)
	assert.Equal(t, 2, page.Total())
	assert.True(t, page.Pagination.HasMore)

	req := srv.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "limit=1&agent=lobster", req.URL.RawQuery, "zero options are omitted")

	page, err = client.ListTokens(context.Background(), platform.TokenListOptions{Source: platform.Source4claw}, false)
	require.NoError(t, err)
	require.Len(t, page.Tokens, 1)
	assert.Equal(t, "SHELL", page.Tokens[0].Symbol)
}

func TestListTokens_InvalidSource(t *testing.T) {
	client := platform.NewClient("http://127.0.0.1:1", nil, 0)
	_, err := client.ListTokens(context.Background(), platform.TokenListOptions{Source: "twitter"}, false)
	require.Error(t, err)
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeInvalidPlatform))
}

func TestListTokens_Cached(t *testing.T) {
	srv := platformtest.NewServer()
	defer srv.Close()
	seedTokens(srv)

	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	client := newClient(t, srv, fc)
	ctx := context.Background()

	_, err = client.ListTokens(ctx, platform.TokenListOptions{Limit: 10}, false)
	require.NoError(t, err)
	page, err := client.ListTokens(ctx, platform.TokenListOptions{Limit: 10}, false)
	require.NoError(t, err)
	assert.Len(t, page.Tokens, 3)
	assert.Equal(t, 1, srv.Hits("/api/launches"))

	// different options use a different key
	_, err = client.ListTokens(ctx, platform.TokenListOptions{Limit: 5}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Hits("/api/launches"))

	_, err = client.ListTokens(ctx, platform.TokenListOptions{Limit: 10}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, srv.Hits("/api/launches"))
}

func TestGetStats(t *testing.T) {
	srv := platformtest.NewServer()
	defer srv.Close()
	client := newClient(t, srv, nil)

	stats, err := client.GetStats(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1250000.0, stats.TotalMarketCap.Float64(), "numeric string")
	assert.Equal(t, 84000.5, stats.Volume24h.Float64())
	assert.Equal(t, 42.0, stats.TokenCount.Float64())
	assert.Equal(t, 120.25, stats.AgentFees24h.Float64())
	assert.Equal(t, "1.5M", stats.BurnedClawnchFormatted)
	require.Len(t, stats.TopTokens, 1)
	assert.InDelta(t, 0.0000123, stats.TopTokens[0].PriceUSD.Float64(), 1e-12)
}

func TestGetStats_RetriesServerErrors(t *testing.T) {
	srv := platformtest.NewServer()
	defer srv.Close()
	srv.FailNext("/api/stats", platformtest.Failure{Status: http.StatusBadGateway, Body: "upstream"})
	client := newClient(t, srv, nil)

	_, err := client.GetStats(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Hits("/api/stats"))
}

func TestUploadImage(t *testing.T) {
	srv := platformtest.NewServer()
	defer srv.Close()
	client := newClient(t, srv, nil)

	res, err := client.UploadImage(context.Background(), platform.UploadRequest{Image: "https://example.com/a.png", Name: "logo"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.URL, "/i/logo-")

	_, err = client.UploadImage(context.Background(), platform.UploadRequest{})
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeInvalidInput))
}

func TestValidateLaunch(t *testing.T) {
	srv := platformtest.NewServer()
	defer srv.Close()
	seedTokens(srv)
	client := newClient(t, srv, nil)
	ctx := context.Background()

	post := platform.BuildLaunchPost(platform.TokenLaunchParams{
		Name:        "Lobster Coin",
		Symbol:      "LOB",
		Wallet:      "0x742d35Cc6634C0532925a3b844Bc9e7595f2bD12",
		Description: "For the claw",
	})
	res, err := client.ValidateLaunch(ctx, post)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	require.NotNil(t, res.Parsed)
	assert.Equal(t, "LOB", res.Parsed.Symbol)

	taken := platform.BuildLaunchPost(platform.TokenLaunchParams{
		Name: "Dup", Symbol: "CLAW", Wallet: "0x742d35Cc6634C0532925a3b844Bc9e7595f2bD12", Description: "dup",
	})
	res, err = client.ValidateLaunch(ctx, taken)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"Ticker already taken"}, res.Errors)

	_, err = client.ValidateLaunch(ctx, "   ")
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeInvalidInput))
}

func TestSubmitPost(t *testing.T) {
	srv := platformtest.NewServer()
	defer srv.Close()
	srv.SetSubmission(platform.SourceMoltbook, "post-1", platform.LaunchResult{
		Success: true,
		Message: "Token deployed",
		Token:   &platform.LaunchedToken{Symbol: "LOB", Address: "0x3333333333333333333333333333333333333333"},
	})
	client := newClient(t, srv, nil)
	ctx := context.Background()

	res, err := client.SubmitPost(ctx, platform.SubmitRequest{Platform: platform.SourceMoltbook, PostID: "post-1"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "LOB", res.Token.Symbol)

	// second submission is rejected and not retried
	_, err = client.SubmitPost(ctx, platform.SubmitRequest{Platform: platform.SourceMoltbook, PostID: "post-1"})
	require.Error(t, err)
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeAlreadyProcessed))
	assert.Equal(t, "This post has already been processed", clawerr.UserMessage(err))
	assert.Equal(t, 2, srv.Hits("/api/submit"))

	_, err = client.SubmitPost(ctx, platform.SubmitRequest{Platform: platform.SourceMoltx, PostID: "missing"})
	assert.True(t, clawerr.Is(err, clawerr.ErrCodePostNotFound))
	assert.ErrorIs(t, err, integrations.ErrNotFound)

	_, err = client.SubmitPost(ctx, platform.SubmitRequest{Platform: "reddit", PostID: "x"})
	assert.True(t, clawerr.Is(err, clawerr.ErrCodeInvalidInput), "rejected locally")
}

func TestCheckRateLimit(t *testing.T) {
	srv := platformtest.NewServer()
	defer srv.Close()
	srv.SetRateLimit("lobster bot", platform.RateLimitStatus{Limited: true, RemainingMs: 3600000, NextAvailable: "2025-01-03T00:00:00Z"})
	client := newClient(t, srv, nil)

	st, err := client.CheckRateLimit(context.Background(), "lobster bot")
	require.NoError(t, err)
	assert.True(t, st.Limited)
	assert.Equal(t, int64(3600000), st.RemainingMs)
	assert.Equal(t, "rate limited until 2025-01-03T00:00:00Z", st.String())
	assert.Equal(t, "agent=lobster+bot", srv.LastRequest().URL.RawQuery)
}
