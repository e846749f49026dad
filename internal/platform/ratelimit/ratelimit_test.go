// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// withClock pins the limiter to a controllable clock.
func withClock(l *Limiter, at *time.Time) {
	l.now = func() time.Time { return *at }
}

/*
TestLimiter_BudgetEnforced verifies that the request after the budget is
rejected inside the window.
*/
func TestLimiter_BudgetEnforced(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(2, 60)
	withClock(limiter, &clock)

	assert.True(t, limiter.Allow("10.0.0.1|POST /auth/login"))
	assert.True(t, limiter.Allow("10.0.0.1|POST /auth/login"))
	assert.False(t, limiter.Allow("10.0.0.1|POST /auth/login"))
}

/*
TestLimiter_WindowSlides verifies that admissions age out of the trailing
window and capacity returns.
*/
func TestLimiter_WindowSlides(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(2, 60)
	withClock(limiter, &clock)

	assert.True(t, limiter.Allow("key"))
	assert.True(t, limiter.Allow("key"))
	assert.False(t, limiter.Allow("key"))

	// 61 seconds later both admissions have aged out.
	clock = clock.Add(61 * time.Second)
	assert.True(t, limiter.Allow("key"))
}

/*
TestLimiter_RejectionsNotRecorded verifies a rejected request does not extend
the client's own penalty.
*/
func TestLimiter_RejectionsNotRecorded(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(1, 60)
	withClock(limiter, &clock)

	assert.True(t, limiter.Allow("key"))

	// Hammering while blocked records nothing.
	for i := 0; i < 10; i++ {
		clock = clock.Add(5 * time.Second)
		assert.False(t, limiter.Allow("key"))
	}

	// 61s after the single admitted request, access returns despite the hammering.
	clock = time.Date(2026, 8, 30, 12, 1, 1, 0, time.UTC)
	assert.True(t, limiter.Allow("key"))
}

/*
TestLimiter_KeysAreIndependent verifies one client's budget does not affect
another's.
*/
func TestLimiter_KeysAreIndependent(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(1, 60)
	withClock(limiter, &clock)

	assert.True(t, limiter.Allow("10.0.0.1|POST /auth/login"))
	assert.False(t, limiter.Allow("10.0.0.1|POST /auth/login"))
	assert.True(t, limiter.Allow("10.0.0.2|POST /auth/login"))
}

/*
TestLimiter_SetLimits verifies limits can be raised at runtime without
dropping history.
*/
func TestLimiter_SetLimits(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(1, 60)
	withClock(limiter, &clock)

	assert.True(t, limiter.Allow("key"))
	assert.False(t, limiter.Allow("key"))

	limiter.SetLimits(3, 60)
	assert.True(t, limiter.Allow("key"))
	assert.True(t, limiter.Allow("key"))
	assert.False(t, limiter.Allow("key"))
}

/*
TestLimiter_Reset verifies all history is discarded.
*/
func TestLimiter_Reset(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(1, 60)
	withClock(limiter, &clock)

	assert.True(t, limiter.Allow("key"))
	assert.False(t, limiter.Allow("key"))

	limiter.Reset()
	assert.True(t, limiter.Allow("key"))
}
