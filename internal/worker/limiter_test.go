package worker

import (
	"context"
	"testing"
	"time"
)

// proceeds reports whether the user gets a token without a real wait
func proceeds(l *Limiter, userID string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	return l.Wait(ctx, userID) == nil
}

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5, time.Minute)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1, time.Minute)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1, time.Minute)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "1001"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different user should also work
	if err := limiter.Wait(ctx, "1002"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if limiter.Tracked() != 2 {
		t.Errorf("expected 2 tracked users, got %d", limiter.Tracked())
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1, time.Minute)

	if !proceeds(limiter, "1001") {
		t.Errorf("first request should pass")
	}

	if proceeds(limiter, "1001") {
		t.Errorf("expected second request to be throttled (exhausted tokens)")
	}

	// Other users are independent
	if !proceeds(limiter, "1002") {
		t.Errorf("expected other user to proceed")
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1, time.Minute)
	_ = proceeds(limiter, "1001")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "1001"); err == nil {
		t.Error("expected wait to fail once the context expires")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1, time.Minute)
	for i := 0; i < 50; i++ {
		if !proceeds(limiter, "1001") {
			t.Fatalf("request %d should pass with limiting disabled", i)
		}
	}
}

func TestLimiter_IdleEviction(t *testing.T) {
	limiter := NewLimiter(1, 1, 20*time.Millisecond)
	_ = proceeds(limiter, "1001")

	time.Sleep(40 * time.Millisecond)

	// Expired entries are not returned, so the user gets a fresh bucket.
	if !proceeds(limiter, "1001") {
		t.Error("expected a fresh limiter after the idle TTL")
	}
}
