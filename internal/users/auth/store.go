// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

package auth

import (
	"context"
	"time"
)

// KycUpdate carries the mutable identity fields for a KYC submission.
//
// Resubmission overwrites every field; there is no partial update.
type KycUpdate struct {
	FirstName      string
	LastName       string
	BankAccount    string
	BillingAddress string
	NationalID     string
	SubmittedAt    time.Time
}

// UserRepository defines the persistence contract for accounts.
//
// Find methods return apperr.NotFound when no matching account exists; the
// service layer decides how much of that to reveal per endpoint.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByNickname(ctx context.Context, nickname string) (*User, error)

	// UpdatePassword replaces the stored bcrypt digest.
	UpdatePassword(ctx context.Context, userID, newHash string) error

	// MarkEmailConfirmed flips is_email_confirmed to true. One-way.
	MarkEmailConfirmed(ctx context.Context, userID string) error

	// UpdateKyc overwrites the identity fields and stamps the submission time.
	UpdateKyc(ctx context.Context, userID string, update KycUpdate) error

	// SetBanned toggles the moderation flag in either direction.
	SetBanned(ctx context.Context, userID string, banned bool) error

	// MarkAccountVerified approves KYC and stamps the verification time.
	MarkAccountVerified(ctx context.Context, userID string, verifiedAt time.Time) error
}
