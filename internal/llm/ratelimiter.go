package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrRateLimited is returned when the request budget for the current minute
// is spent. Callers on the user path treat it like any other failure.
var ErrRateLimited = errors.New("llm: request rate limit reached")

// RateLimitedProvider wraps a Provider with a token bucket. Unlike a
// blocking limiter it fails fast, since generation requests come from
// visitors waiting on a page.
type RateLimitedProvider struct {
	provider Provider
	rpm      int
	now      func() time.Time
	mu       sync.Mutex
	tokens   int
	lastFill time.Time
}

// NewRateLimitedProvider wraps the given provider with a limiter that admits
// at most rpm requests per minute. rpm <= 0 returns the provider unchanged.
func NewRateLimitedProvider(provider Provider, rpm int) Provider {
	if rpm <= 0 {
		return provider
	}
	return &RateLimitedProvider{
		provider: provider,
		rpm:      rpm,
		now:      time.Now,
		tokens:   rpm,
		lastFill: time.Now(),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if !r.take() {
		return nil, ErrRateLimited
	}
	return r.provider.Complete(ctx, req)
}

func (r *RateLimitedProvider) take() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	refill := int(now.Sub(r.lastFill).Seconds() * float64(r.rpm) / 60.0)
	if refill > 0 {
		r.tokens += refill
		if r.tokens > r.rpm {
			r.tokens = r.rpm
		}
		r.lastFill = now
	}

	if r.tokens == 0 {
		return false
	}
	r.tokens--
	return true
}
