// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// # Verification Code Repository

// PostgresVerificationCodeRepository persists email verification codes in
// the users.verification_code table.
type PostgresVerificationCodeRepository struct {
	pool *pgxpool.Pool
}

// NewVerificationCodeRepository creates the PostgreSQL implementation backed
// by users.verification_code.
func NewVerificationCodeRepository(pool *pgxpool.Pool) *PostgresVerificationCodeRepository {
	return &PostgresVerificationCodeRepository{pool: pool}
}

/*
Replace deletes all prior verification codes for the user and inserts the new one.

Description: Runs inside a single transaction so a crash between the delete
and the insert cannot leave the account with zero live codes and a client
holding a stale one.

Parameters:
  - ctx: context.Context
  - code: *Code (Entity to persist)

Returns:
  - error: Transaction or execution failures
*/
func (repository *PostgresVerificationCodeRepository) Replace(ctx context.Context, code *Code) error {
	return replaceCode(ctx, repository.pool, "users.verification_code", code)
}

/*
FindValid retrieves the newest live verification code matching the submission.

Parameters:
  - ctx: context.Context
  - userID: string
  - value: string (the submitted 6-digit code)

Returns:
  - *Code: Hydrated code entity
  - error: ErrNoMatchingCode or execution errors
*/
func (repository *PostgresVerificationCodeRepository) FindValid(ctx context.Context, userID, value string) (*Code, error) {
	return findValidCode(ctx, repository.pool, "users.verification_code", userID, value)
}

/*
MarkUsed burns a verification code by its row ID.

Parameters:
  - ctx: context.Context
  - codeID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresVerificationCodeRepository) MarkUsed(ctx context.Context, codeID string) error {
	return markCodeUsed(ctx, repository.pool, "users.verification_code", codeID)
}

// # Reset Code Repository

// PostgresResetCodeRepository persists password reset codes in the
// users.reset_code table.
type PostgresResetCodeRepository struct {
	pool *pgxpool.Pool
}

// NewResetCodeRepository creates the PostgreSQL implementation backed by
// users.reset_code.
func NewResetCodeRepository(pool *pgxpool.Pool) *PostgresResetCodeRepository {
	return &PostgresResetCodeRepository{pool: pool}
}

// Replace deletes all prior reset codes for the user and inserts the new one.
func (repository *PostgresResetCodeRepository) Replace(ctx context.Context, code *Code) error {
	return replaceCode(ctx, repository.pool, "users.reset_code", code)
}

// FindValid retrieves the newest live reset code matching the submission.
func (repository *PostgresResetCodeRepository) FindValid(ctx context.Context, userID, value string) (*Code, error) {
	return findValidCode(ctx, repository.pool, "users.reset_code", userID, value)
}

// MarkUsed burns a reset code by its row ID.
func (repository *PostgresResetCodeRepository) MarkUsed(ctx context.Context, codeID string) error {
	return markCodeUsed(ctx, repository.pool, "users.reset_code", codeID)
}

// # Shared Query Logic

// replaceCode runs the delete-then-insert swap inside one transaction.
//
// The table name is compile-time constant at every call site, never user input.
func replaceCode(ctx context.Context, pool *pgxpool.Pool, table string, code *Code) error {
	transaction, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres_code_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE userid = $1", table)
	if _, err := transaction.Exec(ctx, deleteQuery, code.UserID); err != nil {
		return fmt.Errorf("postgres_code_repo_delete_failed: %w", err)
	}

	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (id, userid, code, expiresat, used, createdat)
		VALUES ($1, $2, $3, $4, $5, $6)`, table)

	_, err = transaction.Exec(ctx, insertQuery,
		code.ID,
		code.UserID,
		code.Value,
		code.ExpiresAt,
		code.Used,
		code.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_code_repo_insert_failed: %w", err)
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_code_repo_commit_failed: %w", err)
	}

	return nil
}

// findValidCode selects the newest unused, unexpired matching code.
func findValidCode(ctx context.Context, pool *pgxpool.Pool, table, userID, value string) (*Code, error) {
	query := fmt.Sprintf(`
		SELECT id, userid, code, expiresat, used, createdat
		FROM %s
		WHERE userid = $1 AND code = $2 AND used = FALSE AND expiresat > NOW()
		ORDER BY createdat DESC, id DESC
		LIMIT 1`, table)

	code := &Code{}
	err := pool.QueryRow(ctx, query, userID, value).Scan(
		&code.ID,
		&code.UserID,
		&code.Value,
		&code.ExpiresAt,
		&code.Used,
		&code.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoMatchingCode
		}
		return nil, fmt.Errorf("postgres_code_repo_find_valid_failed: %w", err)
	}

	return code, nil
}

// markCodeUsed burns a code row permanently.
func markCodeUsed(ctx context.Context, pool *pgxpool.Pool, table, codeID string) error {
	query := fmt.Sprintf("UPDATE %s SET used = TRUE WHERE id = $1", table)
	if _, err := pool.Exec(ctx, query, codeID); err != nil {
		return fmt.Errorf("postgres_code_repo_mark_used_failed: %w", err)
	}
	return nil
}
