// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

package otp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/skill2win/auth-api/internal/platform/apperr"
	"github.com/skill2win/auth-api/pkg/uuid"
)

// NotifyFunc delivers a freshly issued code to the account's email address.
//
// Bound to the matching mailer method at wiring time: verification codes to
// [mailer.Sender.SendVerificationCode], reset codes to
// [mailer.Sender.SendResetCode].
type NotifyFunc func(ctx context.Context, recipient, code string) error

// Manager drives the issue/validate/consume lifecycle for one code purpose.
//
// Two instances exist in the application: one over the verification code
// table and one over the reset code table. The lifecycle is identical; only
// the storage and the email template differ.
type Manager struct {
	repo   Repository
	notify NotifyFunc
	log    *slog.Logger

	// now is swappable in tests.
	now func() time.Time
}

// NewManager creates a Manager over the given repository and notifier.
func NewManager(repo Repository, notify NotifyFunc, log *slog.Logger) *Manager {
	return &Manager{
		repo:   repo,
		notify: notify,
		log:    log,
		now:    time.Now,
	}
}

/*
Issue generates a fresh code for the user, persists it as the user's only
live code, and dispatches the notification email in the background.

Description: Email delivery is best-effort. The send runs on its own
goroutine with a detached context so a slow or dead relay never blocks the
HTTP response, and failures are logged rather than returned.

Parameters:
  - ctx: context.Context
  - userID: string (owning account)
  - email: string (delivery address)

Returns:
  - string: The generated code value
  - error: Generation or persistence failures
*/
func (manager *Manager) Issue(ctx context.Context, userID, email string) (string, error) {
	value, err := GenerateCode()
	if err != nil {
		return "", apperr.Internal(err)
	}

	currentTime := manager.now()
	code := &Code{
		ID:        uuid.New(),
		UserID:    userID,
		Value:     value,
		ExpiresAt: currentTime.Add(CodeTTL),
		Used:      false,
		CreatedAt: currentTime,
	}

	if err := manager.repo.Replace(ctx, code); err != nil {
		return "", apperr.Internal(err)
	}

	// Detached context: the request may complete long before the relay does.
	go func() {
		if err := manager.notify(context.Background(), email, value); err != nil {
			manager.log.Error("code email delivery failed",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
	}()

	return value, nil
}

/*
Validate checks a submitted code against the user's live code without
consuming it.

Description: Used directly by the reset-code confirmation endpoint, and as
the first half of [Manager.Consume]-style flows. Wrong, expired, and
already-used codes are indistinguishable to the caller.

Parameters:
  - ctx: context.Context
  - userID: string
  - submitted: string (the 6-digit value from the client)

Returns:
  - *Code: The matching live code row
  - error: ErrInvalidOrExpiredCode or storage failures
*/
func (manager *Manager) Validate(ctx context.Context, userID, submitted string) (*Code, error) {
	code, err := manager.repo.FindValid(ctx, userID, submitted)
	if err != nil {
		if errors.Is(err, ErrNoMatchingCode) {
			return nil, ErrInvalidOrExpiredCode
		}
		return nil, apperr.Internal(err)
	}
	return code, nil
}

/*
Consume burns a previously validated code.

Parameters:
  - ctx: context.Context
  - code: *Code (must come from [Manager.Validate])

Returns:
  - error: Storage failures
*/
func (manager *Manager) Consume(ctx context.Context, code *Code) error {
	if err := manager.repo.MarkUsed(ctx, code.ID); err != nil {
		return apperr.Internal(err)
	}
	code.Used = true
	return nil
}
