package meli

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyLimitReached is returned when the daily API call budget is spent.
var ErrDailyLimitReached = errors.New("daily API limit reached")

// Quota is a point-in-time view of the daily call budget.
type Quota struct {
	Limit     int64
	Used      int64
	Remaining int64
	ResetAt   time.Time
}

// RateLimiter throttles outbound MercadoLibre calls with a token bucket and
// caps them with a rolling 24-hour budget. A maxDaily of zero disables the
// daily cap.
type RateLimiter struct {
	limiter  *rate.Limiter
	maxDaily int64
	nowFunc  func() time.Time

	mu      sync.Mutex
	used    int64
	resetAt time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a rate limiter allowing perSecond calls with the
// given burst and at most maxDaily calls per 24-hour window.
func NewRateLimiter(
	perSecond float64,
	burst int,
	maxDaily int64,
	opts ...RateLimiterOption,
) *RateLimiter {
	r := &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		maxDaily: maxDaily,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(24 * time.Hour)
	return r
}

// Wait reserves one call from the daily budget and blocks until the token
// bucket allows it or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.reserve(); err != nil {
		return err
	}
	if err := r.limiter.Wait(ctx); err != nil {
		r.release()
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

// Quota returns the current daily budget state.
func (r *RateLimiter) Quota() Quota {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rollLocked()
	q := Quota{Limit: r.maxDaily, Used: r.used, ResetAt: r.resetAt}
	if r.maxDaily > 0 {
		q.Remaining = max(r.maxDaily-r.used, 0)
	}
	return q
}

func (r *RateLimiter) reserve() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rollLocked()
	if r.maxDaily > 0 && r.used >= r.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, r.used, r.maxDaily)
	}
	r.used++
	return nil
}

func (r *RateLimiter) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.used > 0 {
		r.used--
	}
}

func (r *RateLimiter) rollLocked() {
	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.used = 0
		r.resetAt = now.Add(24 * time.Hour)
	}
}
