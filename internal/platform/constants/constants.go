// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limit fallbacks, and cross-cutting keys that
are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Default admission-control window parameters.
  - Security: JWT issuer and header names.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "skill2win-auth"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRequests is the fallback request budget per key per window.
	DefaultRateLimitRequests = 100

	// DefaultRateLimitWindowSeconds is the fallback trailing window length.
	DefaultRateLimitWindowSeconds = 60
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "skill2win.app"

	// BearerScheme is the expected Authorization header scheme.
	BearerScheme = "bearer"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldDetail    = "detail"
	FieldMessage   = "message"
	FieldStatus    = "status"
	FieldChecks    = "checks"
	FieldUserEmail = "user_email"
)

// # Database Schemas

const (
	SchemaUsers = "users"
)
