// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

/*
Package middleware provides the HTTP middleware chain for the auth API.

Chain order (outermost first):

 1. RequestID: Trace identifier generation/propagation.
 2. StructuredLogger: Per-request logging with latency and status.
 3. RateLimit: Admission control before any authentication work.
 4. PanicRecovery: Converts panics into 500 responses.
 5. Authenticate: Optional JWT parsing into the request context.

Authorization gates ([RequireAuth], [RequireAdmin]) are applied per route
group, not globally.
*/
package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/skill2win/auth-api/internal/platform/apperr"
	"github.com/skill2win/auth-api/internal/platform/constants"
	"github.com/skill2win/auth-api/internal/platform/ctxutil"
	"github.com/skill2win/auth-api/internal/platform/ratelimit"
	"github.com/skill2win/auth-api/pkg/uuid"
)

// statusRecorder captures the response status code for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// RequestID ensures every request carries a trace identifier.
//
// An inbound X-Request-ID is trusted and propagated; otherwise a fresh UUIDv7
// is minted. The identifier travels in the context and is echoed back in the
// response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New()
		}

		ctx := ctxutil.WithRequestID(r.Context(), requestID)
		w.Header().Set(constants.HeaderXRequestID, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StructuredLogger logs one line per request and stores a request-scoped
// logger (pre-tagged with the request ID) in the context for downstream use.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(r.Context())),
			)
			ctx := ctxutil.WithLogger(r.Context(), requestLogger)

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r.WithContext(ctx))

			requestLogger.InfoContext(ctx, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", recorder.status),
				slog.String("remote", ClientIP(r)),
				slog.Duration("latency", time.Since(startTime)),
			)
		})
	}
}

// RateLimit applies sliding-window admission control keyed on the client IP
// and the route.
//
// It sits before authentication so that rejected traffic never costs a
// bcrypt comparison or a token parse. Blocked requests receive the
// contractual 429 body.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientIP(r) + "|" + r.Method + " " + r.URL.Path

			if !limiter.Allow(key) {
				writeError(w, apperr.RateLimited())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PanicRecovery converts handler panics into 500 responses.
//
// http.ErrAbortHandler is re-raised so the server can tear the connection
// down the way net/http expects.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				ctxutil.GetLogger(r.Context()).ErrorContext(r.Context(),
					"panic recovered",
					slog.Any("panic", rec),
					slog.String("path", r.URL.Path),
				)
				writeError(w, apperr.Internal(fmt.Errorf("panic: %v", rec)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// ClientIP resolves the originating client address.
//
// Proxy headers win over the socket peer: X-Real-IP first, then the first
// entry of X-Forwarded-For. The port is stripped from the socket fallback.
func ClientIP(r *http.Request) string {
	if realIP := r.Header.Get(constants.HeaderXRealIP); realIP != "" {
		return strings.TrimSpace(realIP)
	}

	if forwarded := r.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeError writes the {"detail": "..."} envelope directly, without the
// respond helpers. Middleware rejections happen before the request-scoped
// logger exists, so there is nothing for the respond layer to add.
func writeError(w http.ResponseWriter, appErr *apperr.AppError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(appErr)
}
