// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

/*
Package ratelimit implements an in-memory sliding-window request limiter.

Each key (typically client IP plus route) owns a list of admission timestamps.
On every check the timestamps older than the trailing window are pruned, the
remaining count is compared against the budget, and only admitted requests are
recorded. A rejected request therefore never extends its own penalty.

Architecture:

  - Limiter: One process-wide instance guarded by a single mutex.
  - State: Lost on restart. Horizontal replicas each enforce their own budget.
  - Tuning: Limits are mutable at runtime via [Limiter.SetLimits].
*/
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits or rejects requests per key over a trailing time window.
//
// # Concurrency
//
// All methods are safe for concurrent use. A single mutex serializes every
// check; at the request volumes this service handles, contention is not a
// concern.
type Limiter struct {
	mu            sync.Mutex
	maxRequests   int
	windowSeconds int
	requests      map[string][]time.Time

	// now is swappable in tests.
	now func() time.Time
}

// NewLimiter creates a Limiter admitting maxRequests per key per
// windowSeconds trailing window.
func NewLimiter(maxRequests, windowSeconds int) *Limiter {
	return &Limiter{
		maxRequests:   maxRequests,
		windowSeconds: windowSeconds,
		requests:      make(map[string][]time.Time),
		now:           time.Now,
	}
}

// Allow reports whether a request for key is admitted right now.
//
// Admitted requests are recorded against the key. Rejected requests are not,
// so a client hammering a full window regains access as soon as the oldest
// admitted timestamps age out.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	currentTime := l.now()
	windowStart := currentTime.Add(-time.Duration(l.windowSeconds) * time.Second)

	// 1. Prune timestamps that fell out of the trailing window.
	history := l.requests[key]
	kept := history[:0]
	for _, stamp := range history {
		if stamp.After(windowStart) {
			kept = append(kept, stamp)
		}
	}

	// 2. Reject without recording when the budget is spent.
	if len(kept) >= l.maxRequests {
		l.requests[key] = kept
		return false
	}

	// 3. Admit and record.
	l.requests[key] = append(kept, currentTime)
	return true
}

// SetLimits replaces the budget and window at runtime.
//
// Existing admission history is kept; the new limits apply from the next
// [Limiter.Allow] call onward.
func (l *Limiter) SetLimits(maxRequests, windowSeconds int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maxRequests = maxRequests
	l.windowSeconds = windowSeconds
}

// Reset discards all recorded admission history for every key.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.requests = make(map[string][]time.Time)
}
