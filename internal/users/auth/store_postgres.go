// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skill2win/auth-api/internal/platform/dberr"
)

// selectColumns is the canonical column list for hydrating a User.
//
// Nullable text columns are coalesced to the empty string so the entity
// stays free of sql.Null wrappers.
const selectColumns = `
	id, email, COALESCE(nickname, ''), passwordhash,
	isactive, isadmin, isemailconfirmed, isverifiedaccount, isbanned, authprovider,
	COALESCE(firstname, ''), COALESCE(lastname, ''), COALESCE(bankaccount, ''),
	COALESCE(billingaddress, ''), COALESCE(nationalid, ''),
	kycsubmittedat, kycverifiedat, createdat, updatedat`

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new account record into the users.account table.

Description: Empty optional strings are stored as NULL so the partial unique
index on nickname ignores admin-bootstrap accounts without a handle.

Parameters:
  - ctx: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.BadRequest on a unique-index race, or execution errors
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, email, nickname, passwordhash,
			isactive, isadmin, isemailconfirmed, isverifiedaccount, isbanned, authprovider,
			createdat, updatedat
		) VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Nickname,
		user.PasswordHash,
		user.IsActive,
		user.IsAdmin,
		user.IsEmailConfirmed,
		user.IsVerifiedAccount,
		user.IsBanned,
		user.AuthProvider,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		// Concurrent registrations for the same email or nickname both pass
		// the service-level existence check; the unique index breaks the tie.
		return dberr.Map(err, "User does not exist.", "Email or nickname is already taken.")
	}

	return nil
}

/*
FindByEmail retrieves an account by its unique email address.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf("SELECT %s FROM users.account WHERE email = $1", selectColumns)
	return repository.findOne(ctx, query, email)
}

/*
FindByNickname retrieves an account by its unique nickname.

Parameters:
  - ctx: context.Context
  - nickname: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByNickname(ctx context.Context, nickname string) (*User, error) {
	query := fmt.Sprintf("SELECT %s FROM users.account WHERE nickname = $1", selectColumns)
	return repository.findOne(ctx, query, nickname)
}

/*
FindByID retrieves an account by its primary key.

Parameters:
  - ctx: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf("SELECT %s FROM users.account WHERE id = $1", selectColumns)
	return repository.findOne(ctx, query, id)
}

// findOne runs a single-row account query and hydrates the entity.
func (repository *PostgresUserRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Nickname,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsAdmin,
		&user.IsEmailConfirmed,
		&user.IsVerifiedAccount,
		&user.IsBanned,
		&user.AuthProvider,
		&user.FirstName,
		&user.LastName,
		&user.BankAccount,
		&user.BillingAddress,
		&user.NationalID,
		&user.KycSubmittedAt,
		&user.KycVerifiedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Map(err, "User does not exist.", "Email or nickname is already taken.")
	}

	return user, nil
}

/*
UpdatePassword replaces the stored password digest for an account.

Parameters:
  - ctx: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(ctx context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(ctx, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
MarkEmailConfirmed flips isemailconfirmed to TRUE for an account.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) MarkEmailConfirmed(ctx context.Context, userID string) error {
	const query = "UPDATE users.account SET isemailconfirmed = TRUE, updatedat = $2 WHERE id = $1"
	_, err := repository.pool.Exec(ctx, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_mark_confirmed_failed: %w", err)
	}
	return nil
}

/*
UpdateKyc overwrites the identity fields and stamps the submission time.

Description: Resubmission replaces every KYC field. The national ID is
optional and stored as NULL when absent.

Parameters:
  - ctx: context.Context
  - userID: string
  - update: KycUpdate

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateKyc(ctx context.Context, userID string, update KycUpdate) error {
	const query = `
		UPDATE users.account
		SET firstname = $2, lastname = $3, bankaccount = $4, billingaddress = $5,
		    nationalid = NULLIF($6, ''), kycsubmittedat = $7, updatedat = $8
		WHERE id = $1`

	_, err := repository.pool.Exec(ctx, query,
		userID,
		update.FirstName,
		update.LastName,
		update.BankAccount,
		update.BillingAddress,
		update.NationalID,
		update.SubmittedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_kyc_failed: %w", err)
	}

	return nil
}

/*
SetBanned toggles the moderation flag.

Parameters:
  - ctx: context.Context
  - userID: string
  - banned: bool

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetBanned(ctx context.Context, userID string, banned bool) error {
	const query = "UPDATE users.account SET isbanned = $2, updatedat = $3 WHERE id = $1"
	_, err := repository.pool.Exec(ctx, query, userID, banned, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_banned_failed: %w", err)
	}
	return nil
}

/*
MarkAccountVerified approves KYC and stamps the verification time.

Parameters:
  - ctx: context.Context
  - userID: string
  - verifiedAt: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) MarkAccountVerified(ctx context.Context, userID string, verifiedAt time.Time) error {
	const query = `
		UPDATE users.account
		SET isverifiedaccount = TRUE, kycverifiedat = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(ctx, query, userID, verifiedAt, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_mark_verified_failed: %w", err)
	}
	return nil
}
