// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

/*
Package config handles application configuration via environment variables.

It uses caarlos0/env to parse the process environment into a typed struct.
Secrets (signing key, database DSN) are required and fail startup loudly;
everything else carries a development-friendly default.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting for the auth API.
type Config struct {
	// # Server

	ServerPort  int    `env:"SERVER_PORT" envDefault:"8000"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`

	// # Database

	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// # Security

	SecretKey                string `env:"SECRET_KEY,required"`
	TokenAlgorithm           string `env:"TOKEN_ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`

	// # Rate Limiting

	RateLimitRequests      int `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindowSeconds int `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`

	// # SMTP

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SenderEmail  string `env:"SENDER_EMAIL" envDefault:"no-reply@skill2win.app"`

	// # CORS

	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool { return c.Environment == "development" }

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool { return c.Environment == "production" }

// AllowedOrigins splits the comma-separated CORS origin list.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// ListenAddr formats the bind address for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
