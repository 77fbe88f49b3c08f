package molten

import "encoding/json"

// IntentType says whether an agent offers or requests something.
type IntentType string

const (
	IntentOffer   IntentType = "offer"
	IntentRequest IntentType = "request"
)

// Category groups intents for matching.
type Category string

const (
	CategoryTokenMarketing Category = "token-marketing"
	CategoryLiquidity      Category = "liquidity"
	CategoryDevServices    Category = "dev-services"
	CategoryCommunity      Category = "community"
	CategoryCollaboration  Category = "collaboration"
)

// Categories lists every known category.
var Categories = []Category{
	CategoryTokenMarketing,
	CategoryLiquidity,
	CategoryDevServices,
	CategoryCommunity,
	CategoryCollaboration,
}

// RegisterParams describes an agent joining the network.
type RegisterParams struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Telegram    string `json:"telegram,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Webhook     string `json:"webhook,omitempty" validate:"omitempty,http_url"`
}

// RegisterResult carries the new agent's API key. The key is shown once.
type RegisterResult struct {
	Success bool   `json:"success"`
	APIKey  string `json:"apiKey,omitempty"`
	AgentID string `json:"agentId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Intent is an offer or request published by an agent.
type Intent struct {
	Type        IntentType     `json:"type" validate:"required,oneof=offer request"`
	Category    Category       `json:"category" validate:"required,oneof=token-marketing liquidity dev-services community collaboration"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// CreateIntentResult is the response to [Client.CreateIntent].
type CreateIntentResult struct {
	Success  bool   `json:"success"`
	IntentID string `json:"intentId,omitempty"`
}

// MatchAgent describes the counterparty of a match.
type MatchAgent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ContactInfo is revealed once both sides accept.
type ContactInfo struct {
	Telegram string `json:"telegram,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Match pairs the caller's intent with another agent's.
type Match struct {
	MatchID     string       `json:"matchId"`
	Score       float64      `json:"score"`
	Agent       MatchAgent   `json:"agent"`
	Intent      Intent       `json:"intent"`
	ContactInfo *ContactInfo `json:"contactInfo,omitempty"`
}

// AcceptResult is the response to [Client.AcceptMatch].
type AcceptResult struct {
	Success     bool              `json:"success"`
	ContactInfo map[string]string `json:"contactInfo,omitempty"`
}

// Result is a bare success flag.
type Result struct {
	Success bool `json:"success"`
}

// Message is sent to a matched agent.
type Message struct {
	MatchID string `json:"matchId" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Event is a notification (new match, message, ...) awaiting acknowledgement.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt string          `json:"createdAt"`
}
