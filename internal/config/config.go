// Package config loads process configuration once at startup.
//
// Sources, in order of precedence:
//  1. Real environment variables
//  2. A .env file in the working directory, if present (via godotenv)
//  3. Defaults below
//
// The returned Config is a plain value. It is passed down into the services
// at construction time and never re-read per request.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPort       = 8080
	defaultDBPath     = "data/accounts.db"
	defaultSaltRounds = 10
	minSecretLength   = 16
)

// Config holds everything the server needs to start.
type Config struct {
	Port     int
	Env      string // "development" or anything else (treated as production)
	LogLevel string // debug, info, warn, error
	DBPath   string

	// JWTSecret signs and verifies access tokens. Required.
	JWTSecret string
	// SaltRounds is the bcrypt cost factor.
	SaltRounds int
}

// IsDevelopment reports whether the service runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from the environment (and .env) and validates it.
func Load() (Config, error) {
	// A missing .env file is normal in production; any other failure
	// (unreadable or malformed file) is worth stopping for.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: reading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function. Tests pass a map-backed
// lookup instead of mutating the process environment.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:       valueOr(getenv("APP_ENV"), "development"),
		LogLevel:  strings.ToLower(valueOr(getenv("LOG_LEVEL"), "info")),
		DBPath:    valueOr(getenv("DB_PATH"), defaultDBPath),
		JWTSecret: getenv("JWT_SECRET"),
	}

	var err error
	if cfg.Port, err = intOr(getenv, "PORT", defaultPort); err != nil {
		return Config{}, err
	}
	if cfg.SaltRounds, err = intOr(getenv, "SALT_ROUNDS", defaultSaltRounds); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("config: JWT_SECRET must be set and at least %d characters", minSecretLength)
	}
	if c.SaltRounds < bcrypt.MinCost || c.SaltRounds > bcrypt.MaxCost {
		return fmt.Errorf("config: SALT_ROUNDS must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.SaltRounds)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT out of range: %d", c.Port)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(getenv func(string) string, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}
