// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

/*
Package respond standardizes HTTP response writing for the auth API.

Success responses serialize the payload as-is; error responses always take
the shape {"detail": "..."} regardless of which layer produced the failure.

Architecture:

  - JSON/OK/Created: Flat JSON serialization with status control.
  - Error: Maps any error to an [apperr.AppError] and writes the detail envelope.
  - Logging: Unhandled causes and 5xx responses are logged via the request logger.
*/
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/skill2win/auth-api/internal/platform/apperr"
	"github.com/skill2win/auth-api/internal/platform/ctxutil"
)

// JSON writes the payload as the response body with the given status code.
//
// A nil payload writes only headers, which keeps 204 responses body-free.
func JSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// The status line is already on the wire, so logging is all that is left.
		ctxutil.GetLogger(r.Context()).ErrorContext(r.Context(),
			"failed to encode response body",
			slog.String("error", err.Error()),
		)
	}
}

// OK writes a 200 response with the given payload.
func OK(w http.ResponseWriter, r *http.Request, payload any) {
	JSON(w, r, http.StatusOK, payload)
}

// Created writes a 201 response with the given payload.
func Created(w http.ResponseWriter, r *http.Request, payload any) {
	JSON(w, r, http.StatusCreated, payload)
}

// NoContent writes a 204 response with no body.
func NoContent(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusNoContent, nil)
}

// Error maps err to an HTTP response.
//
// Known [apperr.AppError] values keep their status and client-safe message.
// Anything else is treated as an internal error: the cause is logged with the
// request ID and the client sees only the generic 500 detail.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.As(err)
	if appErr == nil {
		appErr = apperr.Internal(err)
	}

	logger := ctxutil.GetLogger(r.Context())

	// 1. Field-level failures never reach the client; record them here.
	if len(appErr.Details) > 0 {
		logger.WarnContext(r.Context(), "request payload rejected",
			slog.String("code", appErr.Code),
			slog.Any("details", appErr.Details),
		)
	}

	// 2. Server faults carry a cause worth keeping.
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("code", appErr.Code),
			slog.Int("status", appErr.HTTPStatus),
			slog.Any("cause", appErr.Cause),
		)
	}

	JSON(w, r, appErr.HTTPStatus, appErr)
}
