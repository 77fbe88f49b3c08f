package httputil

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_NilNeverBlocks(t *testing.T) {
	var l *Limiter
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if l.Rate() != 0 {
		t.Errorf("Rate() = %v, want 0", l.Rate())
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(0)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	for i := 0; i < 100; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Wait() = %v", err)
		}
	}
}

func TestLimiter_Throttles(t *testing.T) {
	l := NewLimiter(20)
	ctx := context.Background()

	start := time.Now()
	// Burst of 20 passes immediately; the next 5 need ~250ms.
	for i := 0; i < 25; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Wait() = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("25 waits at 20 rps took %v, expected throttling", elapsed)
	}
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	l := NewLimiter(1)
	ctx, cancel := context.WithCancel(context.Background())
	_ = l.Wait(ctx) // consume burst
	cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("Wait() on cancelled context = nil, want error")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	l := NewLimiter(5)
	if l.Rate() != 5 {
		t.Errorf("Rate() = %v, want 5", l.Rate())
	}
	l.SetRate(-1)
	if l.Rate() != 0 {
		t.Errorf("Rate() after disable = %v, want 0", l.Rate())
	}
}
