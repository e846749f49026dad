// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

/*
Package dberr translates PostgreSQL driver errors into domain-level errors.

Repositories funnel every pgx error through [Map] so the service layer only
ever sees [apperr.AppError] values and sentinel errors, never driver types.
*/
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skill2win/auth-api/internal/platform/apperr"
)

// Map converts a pgx error into an [apperr.AppError].
//
//   - pgx.ErrNoRows becomes a 404 with the given notFoundMsg.
//   - Unique violations become a 400 with the given conflictMsg. This is the
//     race guard behind the pre-insert existence checks: two concurrent
//     registrations for the same email both pass the check, but only one
//     survives the unique index.
//   - Everything else is an internal error carrying the cause.
func Map(err error, notFoundMsg, conflictMsg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(notFoundMsg)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return apperr.BadRequest(conflictMsg)
	}

	return apperr.Internal(err)
}

// IsNotFound reports whether err represents a missing row, either as the raw
// driver sentinel or after mapping.
func IsNotFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	if appErr := apperr.As(err); appErr != nil {
		return appErr.Code == "NOT_FOUND"
	}
	return false
}
