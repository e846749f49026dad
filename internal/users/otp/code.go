// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

/*
Package otp implements single-use numeric codes for email verification and
password reset.

A code is a 6-digit decimal string bound to one account. At most one live
code exists per account and purpose: issuing a new code deletes every prior
code for that account first. Codes expire after 15 minutes and are burned on
first successful use.

Architecture:

  - Code: The persisted entity (value, owner, expiry, used flag).
  - Repository: Storage contract, implemented once per code table.
  - Manager: Issue/Validate/Consume lifecycle plus best-effort email dispatch.
*/
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/skill2win/auth-api/internal/platform/apperr"
)

// # Domain Constants

const (
	// CodeLength is the number of digits in every generated code.
	CodeLength = 6

	// CodeTTL is how long a code stays redeemable after issuance.
	CodeTTL = 15 * time.Minute

	// codeAlphabet restricts codes to decimal digits for easy manual entry.
	codeAlphabet = "0123456789"
)

// # Domain Errors

var (
	// ErrNoMatchingCode is the repository sentinel for "no live code row".
	// The Manager translates it before it reaches a client.
	ErrNoMatchingCode = fmt.Errorf("otp: no matching code")

	// ErrInvalidOrExpiredCode is the client-facing rejection for a wrong,
	// already-used, or expired code.
	ErrInvalidOrExpiredCode = apperr.BadRequest("Code is invalid or has expired.")
)

// Code represents a single-use numeric code bound to one account.
type Code struct {
	// ID is the row identifier (UUIDv7).
	ID string
	// UserID is the owning account's identifier.
	UserID string
	// Value is the 6-digit decimal string the user receives by email.
	Value string
	// ExpiresAt is the moment the code stops being redeemable.
	ExpiresAt time.Time
	// Used marks a consumed code. A used code never validates again.
	Used bool
	// CreatedAt is the issuance timestamp.
	CreatedAt time.Time
}

// GenerateCode produces a cryptographically random 6-digit decimal string.
//
// Each digit is drawn independently, so leading zeros are as likely as any
// other digit.
func GenerateCode() (string, error) {
	alphabetSize := big.NewInt(int64(len(codeAlphabet)))

	digits := make([]byte, CodeLength)
	for i := range digits {
		index, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("otp: failed to generate code: %w", err)
		}
		digits[i] = codeAlphabet[index.Int64()]
	}

	return string(digits), nil
}
