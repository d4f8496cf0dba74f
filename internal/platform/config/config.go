// Copyright (c) 2026 Plume. All rights reserved.
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
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrNoSigningKey is returned when neither a shared secret nor an RSA key pair is configured.
var ErrNoSigningKey = errors.New("config: JWT_SECRET or JWT_PRIVATE_KEY_PATH/JWT_PUBLIC_KEY_PATH must be set")

// # Configuration Schema

// Config holds all runtime configuration for the Plume API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL        string        `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns         int32         `env:"DB_MAX_CONNS"         envDefault:"25"`
	DBMinConns         int32         `env:"DB_MIN_CONNS"         envDefault:"5"`
	DBStatementTimeout time.Duration `env:"DB_STATEMENT_TIMEOUT" envDefault:"30s"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis), holds refresh sessions
	RedisURL      string `env:"REDIS_URL,required,notEmpty"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// Token signing. The RSA key pair wins when both are configured.
	JWTSecret      string        `env:"JWT_SECRET"`
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"plume.blog"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints the struct tags cannot express.
func (c *Config) Validate() error {
	if !c.UsesKeyPair() && c.JWTSecret == "" {
		return ErrNoSigningKey
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("config: DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("config: ACCESS_TOKEN_TTL must be positive, got %s", c.AccessTokenTTL)
	}
	return nil
}

// UsesKeyPair reports whether RS256 signing is configured.
func (c *Config) UsesKeyPair() bool {
	return c.JWTPrivKeyPath != "" && c.JWTPubKeyPath != ""
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginSuffix is the domain suffix accepted by the CORS middleware outside development.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
