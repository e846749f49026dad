// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

package middleware

import (
	"net/http"
	"strings"

	"github.com/skill2win/auth-api/internal/platform/apperr"
	"github.com/skill2win/auth-api/internal/platform/constants"
	"github.com/skill2win/auth-api/internal/platform/ctxutil"
	"github.com/skill2win/auth-api/internal/platform/sec"
)

// TokenVerifier validates a raw bearer token into claims.
//
// Satisfied by [sec.TokenService].
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Authenticate parses an optional Bearer token into the request context.
//
// Requests without an Authorization header pass through anonymously; the
// per-route gates decide whether that is acceptable. A present but invalid
// token is rejected immediately with 401.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(constants.HeaderAuthorization)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
				writeError(w, apperr.Unauthorized("Invalid authorization header."))
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				writeError(w, apperr.Unauthorized("Invalid token."))
				return
			}

			ctx := ctxutil.WithAuthUser(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctxutil.GetAuthUser(r.Context()) == nil {
			writeError(w, apperr.Unauthorized("Authentication required."))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose token does not carry the admin role.
//
// It implies [RequireAuth]: anonymous callers get 401, authenticated
// non-admins get 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ctxutil.GetAuthUser(r.Context())
		if claims == nil {
			writeError(w, apperr.Unauthorized("Authentication required."))
			return
		}
		if !claims.IsAdmin {
			writeError(w, apperr.Forbidden("Admin privileges required."))
			return
		}
		next.ServeHTTP(w, r)
	})
}
