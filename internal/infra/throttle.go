package infra

import (
	"context"
	"sync"
	"time"
)

// Throttle is a token bucket limiting outbound registry calls.
// A nil *Throttle never blocks.
type Throttle struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// NewThrottle returns nil when perSecond or burst is not positive.
func NewThrottle(burst int, perSecond float64) *Throttle {
	if burst <= 0 || perSecond <= 0 {
		return nil
	}
	return &Throttle{
		tokens:     float64(burst),
		maxTokens:  float64(burst),
		refillRate: perSecond,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}
	for {
		t.mu.Lock()
		t.refill()
		if t.tokens >= 1 {
			t.tokens--
			t.mu.Unlock()
			return nil
		}
		wait := time.Duration((1 - t.tokens) / t.refillRate * float64(time.Second))
		t.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refill must be called with mu held.
func (t *Throttle) refill() {
	now := time.Now()
	t.tokens += now.Sub(t.lastRefill).Seconds() * t.refillRate
	if t.tokens > t.maxTokens {
		t.tokens = t.maxTokens
	}
	t.lastRefill = now
}
