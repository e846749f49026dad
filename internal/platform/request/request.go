// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

/*
Package request provides helpers for reading data out of incoming HTTP requests.

It covers the two recurring needs of every handler: decoding a JSON body into
a typed struct, and extracting the authenticated caller placed in the context
by the authentication middleware.
*/
package request

import (
	"encoding/json"
	"net/http"

	"github.com/skill2win/auth-api/internal/platform/apperr"
	"github.com/skill2win/auth-api/internal/platform/ctxutil"
	"github.com/skill2win/auth-api/internal/platform/sec"
	"github.com/skill2win/auth-api/internal/platform/validate"
)

// maxBodyBytes caps request bodies at 1 MiB. Auth payloads are tiny; anything
// larger is abuse.
const maxBodyBytes = 1 << 20

// DecodeJSON reads the request body into dst.
//
// Malformed JSON, unknown fields, and trailing garbage all collapse into the
// generic payload rejection so clients cannot probe the schema.
func DecodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return validate.ErrInvalidJSON
	}

	// A second document after the first is also malformed input.
	if decoder.More() {
		return validate.ErrInvalidJSON
	}

	return nil
}

// Claims returns the authenticated caller's token claims, or nil when the
// request is anonymous.
func Claims(r *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(r.Context())
}

// RequiredClaims returns the caller's claims or a 401 error when the request
// carries no valid token.
func RequiredClaims(r *http.Request) (*sec.AuthClaims, error) {
	claims := Claims(r)
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required.")
	}
	return claims, nil
}
