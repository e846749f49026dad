// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [TokenProvider]-style interfaces the domains define.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AlgorithmHS256 is the only token algorithm the service accepts.
//
// The knob exists so a misconfigured deployment fails loudly at startup
// instead of silently signing with an unexpected method.
const AlgorithmHS256 = "HS256"

// AuthClaims represents the payload embedded inside a JWT access token.
//
// # Why custom claims?
//
// By embedding the account email (sub) and the admin flag directly inside the
// JWT, [middleware.Authenticate] can reconstruct the caller's identity and
// role WITHOUT querying the database on every single API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// IsAdmin mirrors the account's role flag at token mint time.
	IsAdmin bool `json:"is_admin"`
}

// Email returns the token subject, which is the account email.
func (c *AuthClaims) Email() string { return c.Subject }

// TokenService handles generation and verification of JWT tokens using HS256.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a new TokenService.
//
// # Parameters
//   - secret: The server-held signing secret (SECRET_KEY).
//   - algorithm: Must be "HS256"; anything else is a configuration error.
//   - issuer: The 'iss' claim stamped on every token.
//   - timeToLive: The validity window for minted tokens.
func NewTokenService(secret, algorithm, issuer string, timeToLive time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: signing secret must not be empty")
	}
	if algorithm != AlgorithmHS256 {
		return nil, fmt.Errorf("sec: unsupported token algorithm %q (only %s)", algorithm, AlgorithmHS256)
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    timeToLive,
	}, nil
}

// GenerateAccessToken creates a new signed JWT for the given account.
//
// The subject claim carries the account email; the role travels as the
// is_admin claim. Expiry is absolute: now + TTL, no refresh mechanism.
func (service *TokenService) GenerateAccessToken(email string, isAdmin bool) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		IsAdmin: isAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
//
// It fails when the signature does not verify, the expiry has passed, or the
// subject claim is absent. The clock is trusted as-is: no leeway window.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	// A token without a subject identifies nobody.
	if claims.Subject == "" {
		return nil, fmt.Errorf("sec: token subject is missing")
	}

	return claims, nil
}
