// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

/*
Package admin implements the administrative surface of the auth API.

It layers three concerns over the shared account storage:

  - Admin identity: registration and login with the admin role claim.
  - Password reset: the reset-code flow (request, confirm, set new password).
  - Moderation: ban/unban and KYC approval of user accounts.

Architecture:

  - Service: Wraps the user [auth.Service] and adds admin-only rules.
  - otp.Manager: Reset-code lifecycle, wired over the reset-code table.
*/
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/skill2win/auth-api/internal/platform/apperr"
	"github.com/skill2win/auth-api/internal/platform/dberr"
	"github.com/skill2win/auth-api/internal/platform/sec"
	"github.com/skill2win/auth-api/internal/users/auth"
	"github.com/skill2win/auth-api/internal/users/otp"
)

// Service implements admin authentication, password reset, and moderation.
type Service struct {
	authService *auth.Service
	users       auth.UserRepository
	reset       *otp.Manager
}

// NewService constructs a new [Service].
//
// The reset manager must be wired over the reset-code table.
func NewService(authService *auth.Service, users auth.UserRepository, reset *otp.Manager) *Service {
	return &Service{
		authService: authService,
		users:       users,
		reset:       reset,
	}
}

// # Admin Identity

/*
Register creates a new admin account.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string

Returns:
  - *auth.User: Created admin entity
  - error: BadRequest on duplicate email
*/
func (service *Service) Register(ctx context.Context, email, password string) (*auth.User, error) {
	return service.authService.RegisterAdmin(ctx, email, password)
}

/*
Authenticate verifies admin credentials.

Description: Runs the standard eligibility checks first, then requires the
admin role. A valid user account logging in here gets 403, not 401: the
credentials were right, the role was not.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string

Returns:
  - *auth.User: The authenticated admin
  - error: Unauthorized, Forbidden, or BadRequest
*/
func (service *Service) Authenticate(ctx context.Context, email, password string) (*auth.User, error) {
	user, err := service.authService.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin {
		return nil, apperr.Forbidden("Admin privileges required.")
	}

	return user, nil
}

// BuildAccessToken mints a bearer token carrying the admin role claim.
func (service *Service) BuildAccessToken(user *auth.User) (string, error) {
	return service.authService.BuildAccessToken(user)
}

// CurrentAdmin resolves a token subject into a live admin account.
func (service *Service) CurrentAdmin(ctx context.Context, email string) (*auth.User, error) {
	user, err := service.authService.CurrentActiveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin {
		return nil, apperr.Forbidden("Admin privileges required.")
	}

	return user, nil
}

// # Password Reset Flow

// findAdmin resolves an email to an admin account, hiding non-admin accounts.
//
// The reset flow targets admins only: a user-account email gets the same 404
// as an unknown one so the flow cannot be used to probe user accounts.
func (service *Service) findAdmin(ctx context.Context, email string) (*auth.User, error) {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Admin does not exist.")
		}
		return nil, err
	}
	if !user.IsAdmin {
		return nil, apperr.NotFound("Admin does not exist.")
	}
	return user, nil
}

/*
CreateResetCode issues a password reset code for an admin account.

Description: Prior reset codes for the account are deleted as part of
issuance; the code email is dispatched best-effort.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - error: NotFound for unknown or non-admin accounts
*/
func (service *Service) CreateResetCode(ctx context.Context, email string) error {
	admin, err := service.findAdmin(ctx, email)
	if err != nil {
		return err
	}

	_, err = service.reset.Issue(ctx, admin.ID, admin.Email)
	return err
}

/*
ConfirmResetCode checks a reset code without consuming it.

Description: Lets the client verify the code before collecting the new
password. The code stays live for the follow-up [Service.ResetPassword]
call.

Parameters:
  - ctx: context.Context
  - email: string
  - submittedCode: string

Returns:
  - error: NotFound for unknown admins, BadRequest for a dead code
*/
func (service *Service) ConfirmResetCode(ctx context.Context, email, submittedCode string) error {
	admin, err := service.findAdmin(ctx, email)
	if err != nil {
		return err
	}

	_, err = service.reset.Validate(ctx, admin.ID, submittedCode)
	return err
}

/*
ResetPassword sets a new password after validating the reset code.

Description: The code is consumed only after the new digest is stored, so a
storage failure leaves the code redeemable for a retry.

Parameters:
  - ctx: context.Context
  - email: string
  - submittedCode: string
  - password: string
  - confirmPassword: string

Returns:
  - error: NotFound, BadRequest (mismatch or dead code), or storage failures
*/
func (service *Service) ResetPassword(ctx context.Context, email, submittedCode, password, confirmPassword string) error {
	if password != confirmPassword {
		return apperr.BadRequest("Passwords do not match.")
	}

	admin, err := service.findAdmin(ctx, email)
	if err != nil {
		return err
	}

	code, err := service.reset.Validate(ctx, admin.ID, submittedCode)
	if err != nil {
		return err
	}

	newHash, err := sec.HashPassword(password)
	if err != nil {
		return fmt.Errorf("admin_service_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, admin.ID, newHash); err != nil {
		return err
	}

	return service.reset.Consume(ctx, code)
}

// # Moderation

/*
VerifyAccount approves a user's KYC submission.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - *auth.User: The refreshed account entity
  - error: NotFound for an unknown account
*/
func (service *Service) VerifyAccount(ctx context.Context, userID string) (*auth.User, error) {
	if _, err := service.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := service.users.MarkAccountVerified(ctx, userID, time.Now()); err != nil {
		return nil, err
	}

	return service.users.FindByID(ctx, userID)
}

/*
SetBan toggles the moderation flag on a user account.

Description: Banning takes effect on the target's next request: login fails
with 403 and existing bearer tokens stop passing the access predicate.

Parameters:
  - ctx: context.Context
  - userID: string
  - banned: bool

Returns:
  - *auth.User: The refreshed account entity
  - error: NotFound for an unknown account
*/
func (service *Service) SetBan(ctx context.Context, userID string, banned bool) (*auth.User, error) {
	if _, err := service.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := service.users.SetBanned(ctx, userID, banned); err != nil {
		return nil, err
	}

	return service.users.FindByID(ctx, userID)
}
