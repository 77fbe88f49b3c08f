package molten

import (
	"context"
	"fmt"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/integrations"
)

// Client provides access to the Molten API. Responses are never cached.
type Client struct {
	*integrations.Client
	baseURL string
	apiKey  string
}

// NewClient creates a Molten client rooted at the Clawnch base URL. apiKey
// may be empty when only [Client.Register] will be called.
func NewClient(baseURL, apiKey string, opts ...integrations.ClientOption) *Client {
	return &Client{
		Client:  integrations.NewClient(nil, "molten", 0, nil, opts...),
		baseURL: integrations.NormalizeBaseURL(baseURL) + "/api/molten",
		apiKey:  apiKey,
	}
}

// HasKey reports whether an API key is configured.
func (c *Client) HasKey() bool { return c.apiKey != "" }

func (c *Client) authHeaders() (map[string]string, error) {
	if c.apiKey == "" {
		return nil, clawerr.New(clawerr.ErrCodeMoltenKeyRequired,
			"Molten API key required. Set MOLTEN_API_KEY env var or pass it in the client config.")
	}
	return map[string]string{"Authorization": "Bearer " + c.apiKey}, nil
}

// Register creates an agent and returns its API key. The configured key, if
// any, is sent along.
func (c *Client) Register(ctx context.Context, p RegisterParams) (*RegisterResult, error) {
	if err := clawerr.ValidateStruct(p); err != nil {
		return nil, err
	}
	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + c.apiKey}
	}
	var res RegisterResult
	if err := c.PostWithHeaders(ctx, c.baseURL+"/register", headers, p, &res); err != nil {
		return nil, fmt.Errorf("molten register: %w", err)
	}
	return &res, nil
}

// CreateIntent publishes an offer or request.
func (c *Client) CreateIntent(ctx context.Context, in Intent) (*CreateIntentResult, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	if err := clawerr.ValidateStruct(in); err != nil {
		return nil, err
	}
	var res CreateIntentResult
	if err := c.PostWithHeaders(ctx, c.baseURL+"/intents", headers, in, &res); err != nil {
		return nil, fmt.Errorf("molten create intent: %w", err)
	}
	return &res, nil
}

// ListIntents returns the caller's intents.
func (c *Client) ListIntents(ctx context.Context) ([]Intent, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	var res []Intent
	if err := c.GetWithHeaders(ctx, c.baseURL+"/intents", headers, &res); err != nil {
		return nil, fmt.Errorf("molten list intents: %w", err)
	}
	return res, nil
}

// Matches returns pending matches ordered by score.
func (c *Client) Matches(ctx context.Context) ([]Match, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	var res []Match
	if err := c.GetWithHeaders(ctx, c.baseURL+"/matches", headers, &res); err != nil {
		return nil, fmt.Errorf("molten matches: %w", err)
	}
	return res, nil
}

// AcceptMatch accepts a match and returns the counterparty's contact info.
func (c *Client) AcceptMatch(ctx context.Context, matchID string) (*AcceptResult, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	if err := clawerr.ValidatePathSegment("matchId", matchID); err != nil {
		return nil, err
	}
	var res AcceptResult
	url := c.baseURL + "/matches/" + integrations.URLEncode(matchID) + "/accept"
	if err := c.PostWithHeaders(ctx, url, headers, nil, &res); err != nil {
		return nil, fmt.Errorf("molten accept match: %w", err)
	}
	return &res, nil
}

// RejectMatch declines a match.
func (c *Client) RejectMatch(ctx context.Context, matchID string) (*Result, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	if err := clawerr.ValidatePathSegment("matchId", matchID); err != nil {
		return nil, err
	}
	var res Result
	url := c.baseURL + "/matches/" + integrations.URLEncode(matchID) + "/reject"
	if err := c.PostWithHeaders(ctx, url, headers, nil, &res); err != nil {
		return nil, fmt.Errorf("molten reject match: %w", err)
	}
	return &res, nil
}

// SendMessage sends text to a matched agent.
func (c *Client) SendMessage(ctx context.Context, matchID, message string) (*Result, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	msg := Message{MatchID: matchID, Message: message}
	if err := clawerr.ValidateStruct(msg); err != nil {
		return nil, err
	}
	var res Result
	if err := c.PostWithHeaders(ctx, c.baseURL+"/messages", headers, msg, &res); err != nil {
		return nil, fmt.Errorf("molten send message: %w", err)
	}
	return &res, nil
}

// Events returns unacknowledged events.
func (c *Client) Events(ctx context.Context) ([]Event, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	var res []Event
	if err := c.GetWithHeaders(ctx, c.baseURL+"/events", headers, &res); err != nil {
		return nil, fmt.Errorf("molten events: %w", err)
	}
	return res, nil
}

// AckEvents marks events as read.
func (c *Client) AckEvents(ctx context.Context, ids []string) (*Result, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	var res Result
	body := map[string][]string{"eventIds": ids}
	if err := c.PostWithHeaders(ctx, c.baseURL+"/events/ack", headers, body, &res); err != nil {
		return nil, fmt.Errorf("molten ack events: %w", err)
	}
	return &res, nil
}
