// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

package admin_test

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skill2win/auth-api/internal/platform/apperr"
	"github.com/skill2win/auth-api/internal/platform/sec"
	"github.com/skill2win/auth-api/internal/users/admin"
	"github.com/skill2win/auth-api/internal/users/auth"
	"github.com/skill2win/auth-api/internal/users/otp"
)

// # Test Fakes

// memoryUserRepository is an in-memory auth.UserRepository mirroring the
// PostgreSQL implementation's error behavior.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*auth.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return apperr.BadRequest("Email or nickname is already taken.")
		}
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok {
		found := *user
		return &found, nil
	}
	return nil, apperr.NotFound("User does not exist.")
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, apperr.NotFound("User does not exist.")
}

func (r *memoryUserRepository) FindByNickname(_ context.Context, nickname string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Nickname == nickname {
			found := *user
			return &found, nil
		}
	}
	return nil, apperr.NotFound("User does not exist.")
}

func (r *memoryUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[userID]; ok {
		user.PasswordHash = newHash
	}
	return nil
}

func (r *memoryUserRepository) MarkEmailConfirmed(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[userID]; ok {
		user.IsEmailConfirmed = true
	}
	return nil
}

func (r *memoryUserRepository) UpdateKyc(_ context.Context, userID string, update auth.KycUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[userID]; ok {
		user.FirstName = update.FirstName
		user.LastName = update.LastName
		user.BankAccount = update.BankAccount
		user.BillingAddress = update.BillingAddress
		user.NationalID = update.NationalID
		submittedAt := update.SubmittedAt
		user.KycSubmittedAt = &submittedAt
	}
	return nil
}

func (r *memoryUserRepository) SetBanned(_ context.Context, userID string, banned bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[userID]; ok {
		user.IsBanned = banned
	}
	return nil
}

func (r *memoryUserRepository) MarkAccountVerified(_ context.Context, userID string, verifiedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[userID]; ok {
		user.IsVerifiedAccount = true
		stamp := verifiedAt
		user.KycVerifiedAt = &stamp
	}
	return nil
}

// memoryCodeRepository is an in-memory otp.Repository.
type memoryCodeRepository struct {
	mu   sync.Mutex
	rows map[string]*otp.Code
}

func newMemoryCodeRepository() *memoryCodeRepository {
	return &memoryCodeRepository{rows: make(map[string]*otp.Code)}
}

func (r *memoryCodeRepository) Replace(_ context.Context, code *otp.Code) error {
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

func (r *memoryCodeRepository) FindValid(_ context.Context, userID, value string) (*otp.Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var newest *otp.Code
	for _, row := range r.rows {
		if row.UserID != userID || row.Value != value || row.Used || !row.ExpiresAt.After(time.Now()) {
			continue
		}
		if newest == nil || row.CreatedAt.After(newest.CreatedAt) {
			newest = row
		}
	}
	if newest == nil {
		return nil, otp.ErrNoMatchingCode
	}
	found := *newest
	return &found, nil
}

func (r *memoryCodeRepository) MarkUsed(_ context.Context, codeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if row, ok := r.rows[codeID]; ok {
		row.Used = true
	}
	return nil
}

// # Fixture

type fixture struct {
	adminService *admin.Service
	authService  *auth.Service
	users        *memoryUserRepository

	sentMu    sync.Mutex
	sentCodes map[string][]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:     newMemoryUserRepository(),
		sentCodes: make(map[string][]string),
	}

	notify := func(_ context.Context, recipient, code string) error {
		f.sentMu.Lock()
		defer f.sentMu.Unlock()
		f.sentCodes[recipient] = append(f.sentCodes[recipient], code)
		return nil
	}

	tokens, err := sec.NewTokenService("admin-test-secret", sec.AlgorithmHS256, "skill2win.app", 30*time.Minute)
	require.NoError(t, err)

	verification := otp.NewManager(newMemoryCodeRepository(), notify, slog.Default())
	reset := otp.NewManager(newMemoryCodeRepository(), notify, slog.Default())

	f.authService = auth.NewService(f.users, verification, tokens, slog.Default())
	f.adminService = admin.NewService(f.authService, f.users, reset)
	return f
}

// lastSentCode waits until more than after deliveries have reached the
// recipient and returns the newest one.
func (f *fixture) lastSentCode(t *testing.T, recipient string, after int) string {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.sentMu.Lock()
		codes := f.sentCodes[recipient]
		f.sentMu.Unlock()
		if len(codes) > after {
			return codes[len(codes)-1]
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("no code delivered to %s", recipient)
	return ""
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	appErr := apperr.As(err)
	require.NotNil(t, appErr, "expected an AppError, got %v", err)
	assert.Equal(t, status, appErr.HTTPStatus)
}

// # Admin Identity

/*
TestService_Authenticate_RequiresAdminRole verifies a valid user account is
rejected from the admin login with 403.
*/
func TestService_Authenticate_RequiresAdminRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.authService.Register(ctx, auth.RegisterInput{
		Email:           "player@skill2win.dev",
		Nickname:        "player-one",
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NoError(t, f.users.MarkEmailConfirmed(ctx, user.ID))

	_, err = f.adminService.Authenticate(ctx, user.Email, "hunter2hunter2")
	requireStatus(t, err, http.StatusForbidden)
	assert.EqualError(t, err, "Admin privileges required.")

	// The same credentials still work on the user surface.
	_, err = f.authService.Authenticate(ctx, user.Email, "hunter2hunter2")
	assert.NoError(t, err)
}

// # Password Reset

/*
TestService_PasswordResetFlow runs the full reset scenario: request a code,
reject a wrong code, confirm the right one, reject a mismatched password
pair, set the new password, and verify old and new credentials.
*/
func TestService_PasswordResetFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	adminUser, err := f.adminService.Register(ctx, "admin@skill2win.dev", "old-password-123")
	require.NoError(t, err)
	require.True(t, adminUser.IsAdmin)

	// Registration sends a verification code first. Wait for it so the next
	// delivery is unambiguously the reset code.
	f.lastSentCode(t, adminUser.Email, 0)

	require.NoError(t, f.adminService.CreateResetCode(ctx, adminUser.Email))
	code := f.lastSentCode(t, adminUser.Email, 1)

	t.Run("wrong code rejected", func(t *testing.T) {
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		err := f.adminService.ConfirmResetCode(ctx, adminUser.Email, wrong)
		requireStatus(t, err, http.StatusBadRequest)
		assert.EqualError(t, err, "Code is invalid or has expired.")
	})

	t.Run("right code confirms without consuming", func(t *testing.T) {
		require.NoError(t, f.adminService.ConfirmResetCode(ctx, adminUser.Email, code))
		// Still live for the actual reset.
		require.NoError(t, f.adminService.ConfirmResetCode(ctx, adminUser.Email, code))
	})

	t.Run("mismatched confirmation rejected", func(t *testing.T) {
		err := f.adminService.ResetPassword(ctx, adminUser.Email, code, "new-password-456", "other-password")
		requireStatus(t, err, http.StatusBadRequest)
		assert.EqualError(t, err, "Passwords do not match.")
	})

	t.Run("matching confirmation updates the password", func(t *testing.T) {
		require.NoError(t, f.adminService.ResetPassword(ctx, adminUser.Email, code, "new-password-456", "new-password-456"))

		// Old password no longer authenticates.
		_, err := f.adminService.Authenticate(ctx, adminUser.Email, "old-password-123")
		requireStatus(t, err, http.StatusUnauthorized)

		// New password does.
		_, err = f.adminService.Authenticate(ctx, adminUser.Email, "new-password-456")
		assert.NoError(t, err)
	})

	t.Run("consumed code is dead", func(t *testing.T) {
		err := f.adminService.ConfirmResetCode(ctx, adminUser.Email, code)
		requireStatus(t, err, http.StatusBadRequest)
	})
}

/*
TestService_ResetCode_TargetsAdminsOnly verifies the reset flow hides user
accounts behind the same 404 as unknown emails.
*/
func TestService_ResetCode_TargetsAdminsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.authService.Register(ctx, auth.RegisterInput{
		Email:           "player@skill2win.dev",
		Nickname:        "player-one",
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
	})
	require.NoError(t, err)

	t.Run("user account", func(t *testing.T) {
		err := f.adminService.CreateResetCode(ctx, "player@skill2win.dev")
		requireStatus(t, err, http.StatusNotFound)
		assert.EqualError(t, err, "Admin does not exist.")
	})

	t.Run("unknown email", func(t *testing.T) {
		err := f.adminService.CreateResetCode(ctx, "ghost@skill2win.dev")
		requireStatus(t, err, http.StatusNotFound)
		assert.EqualError(t, err, "Admin does not exist.")
	})
}

// # Moderation

/*
TestService_BanLifecycle verifies banning immediately blocks login and
unbanning restores it.
*/
func TestService_BanLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.authService.Register(ctx, auth.RegisterInput{
		Email:           "player@skill2win.dev",
		Nickname:        "player-one",
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NoError(t, f.users.MarkEmailConfirmed(ctx, user.ID))

	// Baseline: the account can log in.
	_, err = f.authService.Authenticate(ctx, user.Email, "hunter2hunter2")
	require.NoError(t, err)

	banned, err := f.adminService.SetBan(ctx, user.ID, true)
	require.NoError(t, err)
	assert.True(t, banned.IsBanned)

	// Correct password, still blocked.
	_, err = f.authService.Authenticate(ctx, user.Email, "hunter2hunter2")
	requireStatus(t, err, http.StatusForbidden)
	assert.EqualError(t, err, "Account has been banned.")

	unbanned, err := f.adminService.SetBan(ctx, user.ID, false)
	require.NoError(t, err)
	assert.False(t, unbanned.IsBanned)

	_, err = f.authService.Authenticate(ctx, user.Email, "hunter2hunter2")
	assert.NoError(t, err)
}

/*
TestService_VerifyAccount verifies KYC approval stamps the flag and time.
*/
func TestService_VerifyAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.authService.Register(ctx, auth.RegisterInput{
		Email:           "player@skill2win.dev",
		Nickname:        "player-one",
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
	})
	require.NoError(t, err)

	verified, err := f.adminService.VerifyAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerifiedAccount)
	require.NotNil(t, verified.KycVerifiedAt)

	t.Run("unknown target", func(t *testing.T) {
		_, err := f.adminService.VerifyAccount(ctx, "0191d4a8-7a3e-7cce-b7a2-bf72c2d1a8a1")
		requireStatus(t, err, http.StatusNotFound)
		assert.EqualError(t, err, "User does not exist.")
	})
}
