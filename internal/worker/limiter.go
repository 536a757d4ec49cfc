package worker

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter implements per-user rate limiting. Limiters for users that stay
// idle longer than the TTL are evicted.
type Limiter struct {
	limiters     *gocache.Cache
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new per-user rate limiter.
// A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int, idleTTL time.Duration) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     gocache.New(idleTTL, idleTTL*2),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until the user may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context, userID string) error {
	return l.getLimiter(userID).Wait(ctx)
}

// Tracked returns the number of users with a live limiter
func (l *Limiter) Tracked() int {
	return l.limiters.ItemCount()
}

// getLimiter returns the user's limiter and refreshes its expiry
func (l *Limiter) getLimiter(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, found := l.limiters.Get(userID); found {
		limiter := v.(*rate.Limiter)
		l.limiters.SetDefault(userID, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters.SetDefault(userID, limiter)
	return limiter
}
