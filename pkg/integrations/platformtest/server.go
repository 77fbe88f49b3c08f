// Package platformtest provides an in-memory fake of the Clawnch and Molten
// HTTP APIs for tests.
//
//	srv := platformtest.NewServer()
//	defer srv.Close()
//	srv.AddToken(platform.TokenInfo{Symbol: "CLAW", Address: "0x..."})
//	client := platform.NewClient(srv.URL, nil, 0)
package platformtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
	"github.com/clawnch/clawctl/pkg/integrations/molten"
	"github.com/clawnch/clawctl/pkg/integrations/platform"
)

// Failure is a canned error response.
type Failure struct {
	Status int
	Body   string
}

// Server is a fake Clawnch API. All state is guarded by a mutex so tests may
// mutate it while requests are in flight.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	tokens      []platform.TokenInfo
	stats       json.RawMessage
	rateLimits  map[string]platform.RateLimitStatus
	submissions map[string]platform.LaunchResult
	processed   map[string]bool
	failures    map[string][]Failure
	hits        map[string]int
	requests    []*http.Request

	apiKey   string
	agents   map[string]molten.RegisterParams
	intents  []molten.Intent
	matches  map[string]*matchState
	messages []molten.Message
	events   []molten.Event
}

type matchState struct {
	molten.Match
	status string
}

// NewServer starts a fake server with a default stats payload and one
// registered Molten API key ("molten-test-key").
func NewServer() *Server {
	s := &Server{
		stats:       json.RawMessage(`{"totalMarketCap":"1250000","volume24h":84000.5,"tokenCount":42,"tokenCount24h":3,"agentFees24h":"120.25","burnedClawnchFormatted":"1.5M","topTokens":[{"symbol":"CLAW","priceUsd":"0.0000123","priceChange24h":0.12,"marketCap":500000}]}`),
		rateLimits:  make(map[string]platform.RateLimitStatus),
		submissions: make(map[string]platform.LaunchResult),
		processed:   make(map[string]bool),
		failures:    make(map[string][]Failure),
		hits:        make(map[string]int),
		apiKey:      "molten-test-key",
		agents:      make(map[string]molten.RegisterParams),
		matches:     make(map[string]*matchState),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Get("/launches", s.handleLaunches)
		r.Get("/stats", s.handleStats)
		r.Post("/upload", s.handleUpload)
		r.Post("/preview", s.handlePreview)
		r.Post("/submit", s.handleSubmit)

		r.Route("/molten", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Group(func(r chi.Router) {
				r.Use(s.requireKey)
				r.Post("/intents", s.handleCreateIntent)
				r.Get("/intents", s.handleListIntents)
				r.Get("/matches", s.handleMatches)
				r.Post("/matches/{matchID}/accept", s.handleMatchDecision("accepted"))
				r.Post("/matches/{matchID}/reject", s.handleMatchDecision("rejected"))
				r.Post("/messages", s.handleMessage)
				r.Get("/events", s.handleEvents)
				r.Post("/events/ack", s.handleAck)
			})
		})
	})
	return r
}

// =============================================================================
// Test controls
// =============================================================================

// AddToken appends a token to the listing.
func (s *Server) AddToken(t platform.TokenInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = append(s.tokens, t)
}

// SetStats replaces the raw /api/stats payload.
func (s *Server) SetStats(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = json.RawMessage(raw)
}

// SetRateLimit sets the cooldown reported for agent.
func (s *Server) SetRateLimit(agent string, st platform.RateLimitStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateLimits[agent] = st
}

// SetSubmission sets the result returned when platform/postID is submitted.
func (s *Server) SetSubmission(src platform.Source, postID string, res platform.LaunchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[string(src)+"/"+postID] = res
}

// AddMatch makes a match visible to the registered key.
func (s *Server) AddMatch(m molten.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.MatchID] = &matchState{Match: m, status: "pending"}
}

// AddEvent queues an unacknowledged event.
func (s *Server) AddEvent(e molten.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// APIKey returns the Molten key the server accepts.
func (s *Server) APIKey() string { return s.apiKey }

// FailNext makes the next request to path ("/api/stats") answer with the
// given failure. Calls queue.
func (s *Server) FailNext(path string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = append(s.failures[path], f)
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// LastRequest returns the most recent request, or nil.
func (s *Server) LastRequest() *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

// Messages returns messages sent through the fake.
func (s *Server) Messages() []molten.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]molten.Message(nil), s.messages...)
}

// MatchStatus returns "pending", "accepted" or "rejected".
func (s *Server) MatchStatus(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.matches[id]; ok {
		return m.status
	}
	return ""
}

// =============================================================================
// Middleware
// =============================================================================

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.requests = append(s.requests, r.Clone(r.Context()))
		var fail *Failure
		if queue := s.failures[r.URL.Path]; len(queue) > 0 {
			fail = &queue[0]
			s.failures[r.URL.Path] = queue[1:]
		}
		s.mu.Unlock()

		if fail != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(fail.Status)
			_, _ = w.Write([]byte(fail.Body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.apiKey {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Platform handlers
// =============================================================================

func (s *Server) handleLaunches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	s.mu.Lock()
	var matched []platform.TokenInfo
	for _, t := range s.tokens {
		if v := q.Get("source"); v != "" && t.Platform != v {
			continue
		}
		if v := q.Get("agent"); v != "" && !strings.EqualFold(t.Deployer, v) {
			continue
		}
		if v := q.Get("address"); v != "" && !strings.EqualFold(t.Address, v) {
			continue
		}
		if v := q.Get("symbol"); v != "" && !strings.EqualFold(t.Symbol, v) {
			continue
		}
		matched = append(matched, t)
	}
	s.mu.Unlock()

	total := len(matched)
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	// Emit the newer field names, as the live API does.
	launches := make([]map[string]any, 0, len(matched))
	for _, t := range matched {
		launches = append(launches, map[string]any{
			"symbol":          t.Symbol,
			"name":            t.Name,
			"contractAddress": t.Address,
			"source":          t.Platform,
			"agentName":       t.Deployer,
			"launchedAt":      t.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"launches": launches,
		"pagination": map[string]any{
			"total":   total,
			"limit":   limit,
			"offset":  offset,
			"hasMore": offset+len(matched) < total,
		},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if agent := r.URL.Query().Get("agent"); agent != "" {
		writeJSON(w, http.StatusOK, s.rateLimits[agent])
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.stats)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req platform.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
		writeError(w, http.StatusBadRequest, "INVALID_IMAGE_URL", "image is required")
		return
	}
	name := req.Name
	if name == "" {
		name = "image"
	}
	writeJSON(w, http.StatusOK, platform.UploadResult{
		Success: true,
		URL:     fmt.Sprintf("%s/i/%s-%s.png", s.URL, name, uuid.NewString()[:8]),
		Hint:    "Use this URL as the image field in your launch post",
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_TOKEN_DETAILS", "invalid JSON")
		return
	}
	params, err := platform.ParseLaunchPost(req.Content)
	if err != nil {
		writeJSON(w, http.StatusOK, platform.ValidateResult{Valid: false, Errors: []string{err.Error()}})
		return
	}
	if err := params.Validate(); err != nil {
		writeJSON(w, http.StatusOK, platform.ValidateResult{Valid: false, Errors: strings.Split(clawerr.UserMessage(err), "; ")})
		return
	}

	s.mu.Lock()
	for _, t := range s.tokens {
		if strings.EqualFold(t.Symbol, params.Symbol) {
			s.mu.Unlock()
			writeJSON(w, http.StatusOK, platform.ValidateResult{Valid: false, Errors: []string{"Ticker already taken"}})
			return
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, platform.ValidateResult{Valid: true, Parsed: &params})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Platform string `json:"platform"`
		PostID   string `json:"post_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_PLATFORM", "invalid JSON")
		return
	}
	switch {
	case req.Platform == "":
		writeError(w, http.StatusBadRequest, "MISSING_PLATFORM", "platform is required")
		return
	case req.PostID == "":
		writeError(w, http.StatusBadRequest, "MISSING_POST_ID", "post_id is required")
		return
	}
	if _, err := platform.ParseSource(req.Platform); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PLATFORM", "platform must be moltbook, moltx or 4claw")
		return
	}

	key := req.Platform + "/" + req.PostID
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processed[key] {
		writeError(w, http.StatusConflict, "ALREADY_PROCESSED", "This post has already been processed")
		return
	}
	res, ok := s.submissions[key]
	if !ok {
		writeError(w, http.StatusNotFound, "POST_NOT_FOUND", "Post not found")
		return
	}
	s.processed[key] = true
	writeJSON(w, http.StatusOK, res)
}

// =============================================================================
// Molten handlers
// =============================================================================

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req molten.RegisterParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, molten.RegisterResult{Success: false, Error: "name is required"})
		return
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.agents[id] = req
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, molten.RegisterResult{Success: true, APIKey: s.apiKey, AgentID: id})
}

func (s *Server) handleCreateIntent(w http.ResponseWriter, r *http.Request) {
	var in molten.Intent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid JSON")
		return
	}
	s.mu.Lock()
	s.intents = append(s.intents, in)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, molten.CreateIntentResult{Success: true, IntentID: uuid.NewString()})
}

func (s *Server) handleListIntents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]molten.Intent{}, s.intents...)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []molten.Match{}
	for _, m := range s.matches {
		if m.status == "pending" {
			out = append(out, m.Match)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].MatchID < out[j].MatchID
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMatchDecision(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "matchID")
		s.mu.Lock()
		defer s.mu.Unlock()
		m, ok := s.matches[id]
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Match not found")
			return
		}
		m.status = status
		res := map[string]any{"success": true}
		if status == "accepted" && m.ContactInfo != nil {
			res["contactInfo"] = m.ContactInfo
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg molten.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil || msg.MatchID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "matchId is required")
		return
	}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]molten.Event{}, s.events...))
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventIDs []string `json:"eventIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid JSON")
		return
	}
	acked := make(map[string]bool, len(req.EventIDs))
	for _, id := range req.EventIDs {
		acked[id] = true
	}
	s.mu.Lock()
	kept := s.events[:0]
	for _, e := range s.events {
		if !acked[e.ID] {
			kept = append(kept, e)
		}
	}
	s.events = kept
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// =============================================================================
// Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg, "code": code})
}

// NewEvent builds an event stamped with the current time.
func NewEvent(id, typ string, data any) molten.Event {
	raw, _ := json.Marshal(data)
	return molten.Event{ID: id, Type: typ, Data: raw, CreatedAt: time.Now().UTC().Format(time.RFC3339)}
}
