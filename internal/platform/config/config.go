// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (roster store, session store,
    notification dispatcher) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// PlaceholderSentinel marks an email-delivery credential that has never been
// replaced with a real value. Any credential containing it keeps the
// dispatcher in demo mode so the demo site works without a mail account.
const PlaceholderSentinel = "YOUR_REAL"

// # Configuration Schema

// Config holds all runtime configuration for the Djembe API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL). Optional: when empty, the server runs
	// on the seeded in-memory roster (demo mode).
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Session Store (Redis). Optional: when empty, sessions live in
	// process memory and do not survive a restart.
	RedisURL string `env:"REDIS_URL"`

	// PartnerJWTSecret is the HS256 shared secret used to verify partner-issued
	// onboarding tokens. When empty, partner tokens are accepted unverified
	// (matching the source behaviour of trusting the third-party session).
	PartnerJWTSecret string `env:"PARTNER_JWT_SECRET"`

	// Email delivery (EmailJS-compatible hosted API). The defaults are the
	// documented placeholders; all three credentials must be replaced before
	// real sends happen. See [Config.IsEmailConfigured].
	EmailServiceID  string        `env:"EMAIL_SERVICE_ID"  envDefault:"YOUR_REAL_SERVICE_ID"`
	EmailTemplateID string        `env:"EMAIL_TEMPLATE_ID" envDefault:"YOUR_REAL_TEMPLATE_ID"`
	EmailPublicKey  string        `env:"EMAIL_PUBLIC_KEY"  envDefault:"YOUR_REAL_PUBLIC_KEY"`
	EmailRecipient  string        `env:"EMAIL_RECIPIENT"   envDefault:"inscriptions@djembe.app"`
	EmailEndpoint   string        `env:"EMAIL_ENDPOINT"    envDefault:"https://api.emailjs.com"`
	EmailDemoDelay  time.Duration `env:"EMAIL_DEMO_DELAY"  envDefault:"2s"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra origins granted CORS access, parsed from
// the comma-separated EXTRA_ORIGINS variable.
func (c *Config) AllowedOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}

	parts := strings.Split(c.ExtraOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// IsEmailConfigured reports whether all three delivery credentials have been
// replaced with real values. A single remaining placeholder keeps the
// dispatcher in demo mode.
func (c *Config) IsEmailConfigured() bool {
	return !strings.Contains(c.EmailServiceID, PlaceholderSentinel) &&
		!strings.Contains(c.EmailTemplateID, PlaceholderSentinel) &&
		!strings.Contains(c.EmailPublicKey, PlaceholderSentinel)
}
