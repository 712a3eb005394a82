package sim

import (
	"fmt"
	"math"
)

// TokenBucket is the first admission gate: tokens accumulate at rate per
// second up to capacity and each admitted packet consumes from them.
// It is independent of queue occupancy and of the congestion window.
type TokenBucket struct {
	capacity   float64
	rate       float64 // tokens per second
	tokens     float64
	lastRefill float64
	clock      Clock
}

// NewTokenBucket creates a full TokenBucket.
// rate and capacity must be finite and non-negative. A zero-rate,
// zero-capacity bucket is legal and rejects everything.
func NewTokenBucket(rate, capacity float64, clock Clock) (*TokenBucket, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return nil, fmt.Errorf("token bucket rate must be finite and non-negative, got %v", rate)
	}
	if math.IsNaN(capacity) || math.IsInf(capacity, 0) || capacity < 0 {
		return nil, fmt.Errorf("token bucket capacity must be finite and non-negative, got %v", capacity)
	}
	if clock == nil {
		return nil, fmt.Errorf("token bucket clock must not be nil")
	}
	return &TokenBucket{
		capacity:   capacity,
		rate:       rate,
		tokens:     capacity,
		lastRefill: clock.Now(),
		clock:      clock,
	}, nil
}

// refill tops the bucket up for the time elapsed since the last refill.
// An interval that runs backwards adds nothing and does not move lastRefill back.
func (tb *TokenBucket) refill() {
	now := tb.clock.Now()
	elapsed := now - tb.lastRefill
	if elapsed <= 0 {
		return
	}
	tb.tokens = min(tb.capacity, tb.tokens+tb.rate*elapsed)
	tb.lastRefill = now
}

// TryConsume refills, then takes n tokens if at least n are available.
// On rejection only the refill is applied. Negative n is always rejected.
func (tb *TokenBucket) TryConsume(n float64) bool {
	tb.refill()
	if n < 0 || math.IsNaN(n) {
		return false
	}
	if tb.tokens >= n {
		tb.tokens -= n
		return true
	}
	return false
}

// Tokens returns the current token count without refilling.
func (tb *TokenBucket) Tokens() float64 { return tb.tokens }

// Capacity returns the bucket capacity.
func (tb *TokenBucket) Capacity() float64 { return tb.capacity }

// Rate returns the refill rate in tokens per second.
func (tb *TokenBucket) Rate() float64 { return tb.rate }
