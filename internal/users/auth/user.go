// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

package auth

import (
	"time"

	"github.com/skill2win/auth-api/internal/platform/apperr"
)

// User is the account entity persisted in users.account.
//
// # State Model
//
// Account state is a set of independent boolean flags rather than a single
// status enum: an account can be banned and email-confirmed at the same
// time. Access decisions are pure predicates over the flag set
// ([User.CanAccess]).
type User struct {
	// ID is the account identifier (UUIDv7).
	ID string
	// Email is the unique login identifier, stored case-sensitively.
	Email string
	// Nickname is the unique public handle. Empty for admin-bootstrap accounts.
	Nickname string
	// PasswordHash is the bcrypt digest. Never serialized.
	PasswordHash string

	// # Lifecycle Flags

	// IsActive gates login. Cleared only through operational intervention.
	IsActive bool
	// IsAdmin marks the account role. Set only at registration time.
	IsAdmin bool
	// IsEmailConfirmed flips once, on successful code confirmation.
	IsEmailConfirmed bool
	// IsVerifiedAccount marks admin-approved KYC.
	IsVerifiedAccount bool
	// IsBanned is toggled freely by moderation.
	IsBanned bool
	// AuthProvider tags how the account authenticates.
	AuthProvider string

	// # KYC Fields

	FirstName      string
	LastName       string
	BankAccount    string
	BillingAddress string
	NationalID     string
	KycSubmittedAt *time.Time
	KycVerifiedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanAccess reports whether the account may log in or use protected routes.
//
// Clause order is contractual: a banned, unconfirmed, inactive account is
// reported as banned. Admins skip the email-confirmation requirement.
func (user *User) CanAccess() error {
	if user.IsBanned {
		return apperr.Forbidden("Account has been banned.")
	}
	if !user.IsEmailConfirmed && !user.IsAdmin {
		return apperr.Forbidden("Account not confirmed. Check your email.")
	}
	if !user.IsActive {
		return apperr.BadRequest("Account is inactive.")
	}
	return nil
}

// # Response Views

// View is the full account representation returned to the account owner.
type View struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	Nickname          string     `json:"nickname"`
	IsActive          bool       `json:"is_active"`
	IsAdmin           bool       `json:"is_admin"`
	IsEmailConfirmed  bool       `json:"is_email_confirmed"`
	IsVerifiedAccount bool       `json:"is_verified_account"`
	IsBanned          bool       `json:"is_banned"`
	AuthProvider      string     `json:"auth_provider"`
	FirstName         *string    `json:"first_name"`
	LastName          *string    `json:"last_name"`
	BankAccount       *string    `json:"bank_account"`
	BillingAddress    *string    `json:"billing_address"`
	NationalID        *string    `json:"national_id"`
	KycSubmittedAt    *time.Time `json:"kyc_submitted_at"`
	KycVerifiedAt     *time.Time `json:"kyc_verified_at"`
}

// ToView shapes the entity for JSON responses. The password hash never
// crosses this boundary.
func (user *User) ToView() View {
	return View{
		ID:                user.ID,
		Email:             user.Email,
		Nickname:          user.Nickname,
		IsActive:          user.IsActive,
		IsAdmin:           user.IsAdmin,
		IsEmailConfirmed:  user.IsEmailConfirmed,
		IsVerifiedAccount: user.IsVerifiedAccount,
		IsBanned:          user.IsBanned,
		AuthProvider:      user.AuthProvider,
		FirstName:         optionalString(user.FirstName),
		LastName:          optionalString(user.LastName),
		BankAccount:       optionalString(user.BankAccount),
		BillingAddress:    optionalString(user.BillingAddress),
		NationalID:        optionalString(user.NationalID),
		KycSubmittedAt:    user.KycSubmittedAt,
		KycVerifiedAt:     user.KycVerifiedAt,
	}
}

// optionalString maps the empty string to JSON null for unset KYC fields.
func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
