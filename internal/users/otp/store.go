// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

package otp

import "context"

// Repository defines the persistence contract for single-use codes.
//
// The same contract backs both code tables (email verification and password
// reset); a [Manager] is wired to exactly one implementation.
type Repository interface {
	// Replace atomically deletes every prior code for the user and inserts
	// the new one, so at most one live code exists per account.
	Replace(ctx context.Context, code *Code) error

	// FindValid returns the newest unused, unexpired code for the user whose
	// value matches the submission, or [ErrNoMatchingCode].
	FindValid(ctx context.Context, userID, value string) (*Code, error)

	// MarkUsed burns a code by its row ID. Burning is permanent.
	MarkUsed(ctx context.Context, codeID string) error
}
