// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

/*
Package auth implements account identity for the Skill2Win platform.

It covers registration, credential authentication, email confirmation via
one-time codes, KYC submission, and the access predicates evaluated on every
authenticated request.

Architecture:

  - Service: Orchestrates business logic over the repository and code manager.
  - UserRepository: PostgreSQL-backed account storage.
  - otp.Manager: Verification-code lifecycle, injected per purpose.
  - TokenProvider: JWT minting, satisfied by [sec.TokenService].

The package owns the User entity; the admin package layers moderation and
password reset on top of the same storage.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/skill2win/auth-api/internal/platform/apperr"
	"github.com/skill2win/auth-api/internal/platform/dberr"
	"github.com/skill2win/auth-api/internal/platform/sec"
	"github.com/skill2win/auth-api/internal/users/otp"
	"github.com/skill2win/auth-api/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for minting access tokens.
//
// Satisfied by [sec.TokenService].
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT carrying the account email as
	// subject and the role as the is_admin claim.
	GenerateAccessToken(email string, isAdmin bool) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login
// eligibility, or code confirmation logic must be reviewed by the security
// team.
type Service struct {
	users        UserRepository
	verification *otp.Manager
	tokens       TokenProvider
	log          *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
//
// The verification manager must be wired over the verification-code table;
// the reset-code manager belongs to the admin service.
func NewService(users UserRepository, verification *otp.Manager, tokens TokenProvider, log *slog.Logger) *Service {
	return &Service{
		users:        users,
		verification: verification,
		tokens:       tokens,
		log:          log,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email           string
	Nickname        string
	Password        string
	ConfirmPassword string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: The account starts unconfirmed and a verification code is
issued immediately. The code email is dispatched best-effort; registration
succeeds even when the relay is down.

Parameters:
  - ctx: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: BadRequest on duplicate email/nickname or password mismatch
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	return service.create(ctx, input, false, false)
}

/*
RegisterAdmin persists a new admin account.

Description: Administrative bootstrap path. Admins have no nickname and no
password confirmation step, and may log in before confirming their email.
A verification code is still issued so the mailbox can be proven later.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string

Returns:
  - *User: Created admin entity
  - error: BadRequest on duplicate email
*/
func (service *Service) RegisterAdmin(ctx context.Context, email, password string) (*User, error) {
	input := RegisterInput{
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	}
	return service.create(ctx, input, true, false)
}

// create is the shared enrollment path for users and admins.
func (service *Service) create(ctx context.Context, input RegisterInput, isAdmin, emailConfirmed bool) (*User, error) {

	// Uniqueness checks first. The unique indexes catch the concurrent race.
	if _, err := service.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.BadRequest("Email is already registered.")
	}
	if input.Nickname != "" {
		if _, err := service.users.FindByNickname(ctx, input.Nickname); err == nil {
			return nil, apperr.BadRequest("Nickname is already taken.")
		}
	}
	if input.Password != input.ConfirmPassword {
		return nil, apperr.BadRequest("Passwords do not match.")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:               uuid.New(),
		Email:            input.Email,
		Nickname:         input.Nickname,
		PasswordHash:     hashedPassword,
		IsActive:         true,
		IsAdmin:          isAdmin,
		IsEmailConfirmed: emailConfirmed,
		AuthProvider:     ProviderStandard,
	}

	if err := service.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// A fresh unconfirmed account immediately gets its first code.
	if !user.IsEmailConfirmed {
		if _, err := service.verification.Issue(ctx, user.ID, user.Email); err != nil {
			service.log.ErrorContext(ctx, "verification code issuance failed",
				slog.String("user_id", user.ID),
				slog.Any("error", err),
			)
		}
	}

	return user, nil
}

// # Authentication Flow

/*
Authenticate verifies credentials and login eligibility.

Description: Unknown email and wrong password collapse into one generic 401
so account existence cannot be probed. Eligibility failures are specific
(banned 403, unconfirmed 403, inactive 400) since registration already
implied the account exists.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string

Returns:
  - *User: The authenticated account
  - error: Unauthorized, Forbidden, or BadRequest per the eligibility clause
*/
func (service *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid email or password.")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password.")
	}

	if err := user.CanAccess(); err != nil {
		return nil, err
	}

	return user, nil
}

// BuildAccessToken mints a bearer token for an authenticated account.
func (service *Service) BuildAccessToken(user *User) (string, error) {
	token, err := service.tokens.GenerateAccessToken(user.Email, user.IsAdmin)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_failed: %w", err)
	}
	return token, nil
}

/*
CurrentActiveUser resolves a token subject into a live, access-eligible account.

Description: Called on every authenticated request. A subject that no longer
maps to an account yields 401, not 404: the token itself is what's invalid.

Parameters:
  - ctx: context.Context
  - email: string (token subject)

Returns:
  - *User: The resolved account
  - error: Unauthorized, or an eligibility failure from [User.CanAccess]
*/
func (service *Service) CurrentActiveUser(ctx context.Context, email string) (*User, error) {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid token.")
		}
		return nil, err
	}

	if err := user.CanAccess(); err != nil {
		return nil, err
	}

	return user, nil
}

// # Email Confirmation Flow

/*
ConfirmEmail validates a submitted verification code and confirms the account.

Description: The code is burned before the flag flips. Confirmation is
one-way; confirming an already-confirmed account with a live code is
harmless.

Parameters:
  - ctx: context.Context
  - email: string
  - submittedCode: string

Returns:
  - error: NotFound for an unknown account, BadRequest for a dead code
*/
func (service *Service) ConfirmEmail(ctx context.Context, email, submittedCode string) error {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := service.verification.Validate(ctx, user.ID, submittedCode)
	if err != nil {
		return err
	}

	if err := service.verification.Consume(ctx, code); err != nil {
		return err
	}

	if err := service.users.MarkEmailConfirmed(ctx, user.ID); err != nil {
		return err
	}

	return nil
}

/*
ResendVerificationCode issues a replacement verification code.

Description: The prior code is physically deleted as part of issuance, so
only the newest code ever validates.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - error: NotFound for an unknown account, BadRequest when already confirmed
*/
func (service *Service) ResendVerificationCode(ctx context.Context, email string) error {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if user.IsEmailConfirmed {
		return apperr.BadRequest("Account already confirmed.")
	}

	_, err = service.verification.Issue(ctx, user.ID, user.Email)
	return err
}

// # KYC Flow

// KycInput carries a KYC submission. NationalID is optional.
type KycInput struct {
	FirstName      string
	LastName       string
	BankAccount    string
	BillingAddress string
	NationalID     string
}

/*
SubmitKyc records or overwrites the account's identity details.

Description: Resubmission is allowed any number of times until moderation
approves; each submission restamps kyc_submitted_at. Approval itself is an
admin operation.

Parameters:
  - ctx: context.Context
  - user: *User (the authenticated account)
  - input: KycInput

Returns:
  - *User: The refreshed account entity
  - error: Forbidden when banned, or storage failures
*/
func (service *Service) SubmitKyc(ctx context.Context, user *User, input KycInput) (*User, error) {
	if user.IsBanned {
		return nil, apperr.Forbidden("Account has been banned.")
	}

	update := KycUpdate{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		BankAccount:    input.BankAccount,
		BillingAddress: input.BillingAddress,
		NationalID:     input.NationalID,
		SubmittedAt:    time.Now(),
	}

	if err := service.users.UpdateKyc(ctx, user.ID, update); err != nil {
		return nil, err
	}

	return service.users.FindByID(ctx, user.ID)
}
