// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

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
  - DI-Friendly: Passed to core components (DB, Redis, Queue) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the StaffHub API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) — password reset tokens
	RedisURL string `env:"REDIS_URL,required"`

	// Message Broker (RabbitMQ) — notification fan-out. Empty disables publishing.
	AMQPURL string `env:"RABBITMQ_URL"`

	// Token signing secrets. The defaults exist only so a fresh checkout can
	// boot locally; production deployments must override both. Load logs a
	// warning through the caller when running on defaults outside development.
	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET"  envDefault:"dev-access-secret"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET" envDefault:"dev-refresh-secret"`

	// Federated login (Google OAuth2). Empty values disable the code-exchange
	// endpoints; the direct federated endpoint stays available.
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	OAuthRedirectURL   string `env:"OAUTH_REDIRECT_URL"`

	// InsecureDemoReset re-enables the legacy password reset path that takes
	// only email + new password with no possession proof. Demo installs only.
	InsecureDemoReset bool `env:"INSECURE_DEMO_RESET" envDefault:"false"`

	// Cross-Origin Resource Sharing: comma-separated origins allowed in
	// addition to the production default (e.g. a staging frontend).
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
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

// UsingDefaultSecrets reports whether either signing secret is still the
// built-in development default. main refuses to start in production when true.
func (c *Config) UsingDefaultSecrets() bool {
	return c.AccessTokenSecret == "dev-access-secret" || c.RefreshTokenSecret == "dev-refresh-secret"
}

// AllowedExtraOrigins returns the additional CORS origins configured for
// this deployment.
func (c *Config) AllowedExtraOrigins() []string {
	return c.ExtraOrigins
}

// FederatedExchangeEnabled reports whether the Google code-exchange flow is configured.
func (c *Config) FederatedExchangeEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.OAuthRedirectURL != ""
}
