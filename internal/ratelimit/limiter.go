// Package ratelimit throttles outbound calls per ILS backend so a
// burst of catalog traffic cannot trip a backend's API quota.
package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with a backend name for logging.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a limiter allowing requestsPerSecond, with burst equal
// to the rate.
func New(name string, requestsPerSecond int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		name:    name,
	}
}

// Wait blocks until the limiter allows a request, or the context is
// cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Allow reports whether a request can proceed without blocking.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Name returns the backend name this limiter throttles.
func (l *Limiter) Name() string {
	return l.name
}

var (
	registryMu sync.Mutex
	registry   = make(map[string]*Limiter)
)

// ForBackend returns the shared limiter for the named backend,
// creating it on first use. Subsequent calls ignore the rate argument
// so every adapter instance for one backend shares a single budget.
func ForBackend(name string, requestsPerSecond int) *Limiter {
	registryMu.Lock()
	defer registryMu.Unlock()
	if l, ok := registry[name]; ok {
		return l
	}
	l := New(name, requestsPerSecond)
	registry[name] = l
	return l
}
