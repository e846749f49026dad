// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

package otp

import (
	"context"
	"log/slog"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository is an in-memory Repository with the same single-live-code
// semantics as the PostgreSQL implementation.
type fakeRepository struct {
	mu    sync.Mutex
	rows  map[string]*Code // keyed by row ID
	clock func() time.Time
}

func newFakeRepository(clock func() time.Time) *fakeRepository {
	return &fakeRepository{rows: make(map[string]*Code), clock: clock}
}

func (r *fakeRepository) Replace(_ context.Context, code *Code) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, row := range r.rows {
		if row.UserID == code.UserID {
			delete(r.rows, id)
		}
	}

	stored := *code
	r.rows[code.ID] = &stored
	return nil
}

func (r *fakeRepository) FindValid(_ context.Context, userID, value string) (*Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var newest *Code
	for _, row := range r.rows {
		if row.UserID != userID || row.Value != value || row.Used {
			continue
		}
		if !row.ExpiresAt.After(r.clock()) {
			continue
		}
		if newest == nil || row.CreatedAt.After(newest.CreatedAt) {
			newest = row
		}
	}

	if newest == nil {
		return nil, ErrNoMatchingCode
	}

	found := *newest
	return &found, nil
}

func (r *fakeRepository) MarkUsed(_ context.Context, codeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if row, ok := r.rows[codeID]; ok {
		row.Used = true
	}
	return nil
}

// countForUser reports how many rows (used or not) belong to the user.
func (r *fakeRepository) countForUser(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, row := range r.rows {
		if row.UserID == userID {
			count++
		}
	}
	return count
}

// newTestManager wires a Manager over the fake repository with a pinned clock
// and a no-op notifier.
func newTestManager(clock *time.Time) (*Manager, *fakeRepository) {
	repo := newFakeRepository(func() time.Time { return *clock })
	notify := func(_ context.Context, _, _ string) error { return nil }
	manager := NewManager(repo, notify, slog.Default())
	manager.now = func() time.Time { return *clock }
	return manager, repo
}

/*
TestGenerateCode verifies the shape of generated codes.
*/
func TestGenerateCode(t *testing.T) {
	sixDigits := regexp.MustCompile(`^[0-9]{6}$`)

	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
	}
}

/*
TestManager_Issue_ReplacesPriorCode verifies that a second issuance leaves
exactly one live code and invalidates the first.
*/
func TestManager_Issue_ReplacesPriorCode(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	manager, repo := newTestManager(&clock)

	first, err := manager.Issue(context.Background(), "user-1", "player@skill2win.dev")
	require.NoError(t, err)

	clock = clock.Add(time.Minute)
	second, err := manager.Issue(context.Background(), "user-1", "player@skill2win.dev")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.countForUser("user-1"))

	// The newest code validates; unless the generator collided, the first
	// one is gone with its row.
	_, err = manager.Validate(context.Background(), "user-1", second)
	assert.NoError(t, err)

	if first != second {
		_, err = manager.Validate(context.Background(), "user-1", first)
		assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	}
}

/*
TestManager_Validate_Rejections verifies that wrong, expired, foreign, and
used codes are all rejected identically.
*/
func TestManager_Validate_Rejections(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	manager, _ := newTestManager(&clock)

	code, err := manager.Issue(context.Background(), "user-1", "player@skill2win.dev")
	require.NoError(t, err)

	t.Run("wrong value", func(t *testing.T) {
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		_, err := manager.Validate(context.Background(), "user-1", wrong)
		assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	})

	t.Run("different user", func(t *testing.T) {
		_, err := manager.Validate(context.Background(), "user-2", code)
		assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	})

	t.Run("expired", func(t *testing.T) {
		clock = clock.Add(CodeTTL + time.Second)
		_, err := manager.Validate(context.Background(), "user-1", code)
		assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
		clock = clock.Add(-(CodeTTL + time.Second))
	})

	t.Run("validate does not consume", func(t *testing.T) {
		_, err := manager.Validate(context.Background(), "user-1", code)
		require.NoError(t, err)
		_, err = manager.Validate(context.Background(), "user-1", code)
		assert.NoError(t, err)
	})
}

/*
TestManager_Consume_IsPermanent verifies a consumed code never validates again.
*/
func TestManager_Consume_IsPermanent(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	manager, _ := newTestManager(&clock)

	value, err := manager.Issue(context.Background(), "user-1", "player@skill2win.dev")
	require.NoError(t, err)

	code, err := manager.Validate(context.Background(), "user-1", value)
	require.NoError(t, err)

	require.NoError(t, manager.Consume(context.Background(), code))
	assert.True(t, code.Used)

	_, err = manager.Validate(context.Background(), "user-1", value)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
}

/*
TestManager_Issue_SurvivesNotifierFailure verifies a dead mail relay does not
fail issuance.
*/
func TestManager_Issue_SurvivesNotifierFailure(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepository(func() time.Time { return clock })

	delivered := make(chan error, 1)
	notify := func(_ context.Context, _, _ string) error {
		err := assert.AnError
		delivered <- err
		return err
	}

	manager := NewManager(repo, notify, slog.Default())
	manager.now = func() time.Time { return clock }

	value, err := manager.Issue(context.Background(), "user-1", "player@skill2win.dev")
	require.NoError(t, err)

	// The notifier ran and failed; the code is still live.
	<-delivered
	_, err = manager.Validate(context.Background(), "user-1", value)
	assert.NoError(t, err)
}
