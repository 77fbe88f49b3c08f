package httputil

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles outgoing requests to a fixed rate. The zero value and a
// nil pointer are both unlimited.
type Limiter struct {
	mu      sync.RWMutex
	rps     float64
	limiter *rate.Limiter
}

// NewLimiter returns a limiter allowing rps requests per second with a burst
// of one second's worth of requests. rps <= 0 disables limiting.
func NewLimiter(rps float64) *Limiter {
	l := &Limiter{}
	l.SetRate(rps)
	return l
}

// SetRate changes the allowed request rate. rps <= 0 disables limiting.
func (l *Limiter) SetRate(rps float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rps <= 0 {
		l.rps = 0
		l.limiter = nil
		return
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	l.rps = rps
	l.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// Rate returns the configured requests per second, or 0 when unlimited.
func (l *Limiter) Rate() float64 {
	if l == nil {
		return 0
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rps
}

// Wait blocks until a request may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	limiter := l.limiter
	l.mu.RUnlock()
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}
