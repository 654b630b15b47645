// Package config loads and validates service configuration from the
// environment
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type (
	// Config holds configuration settings for the flow service
	Config struct {
		// API server
		APIHost  string
		APIPort  int
		LogLevel string

		// Auth
		JWTSecret string

		// Storage & events
		Redis        RedisConfig
		EventChannel string

		// Behavior
		ConflictWindow  time.Duration
		ShutdownTimeout time.Duration
	}

	// RedisConfig holds connection settings for the Redis backend
	RedisConfig struct {
		Addr     string
		Password string
		Prefix   string
		DB       int
	}
)

const (
	DefaultAPIHost = "0.0.0.0"
	DefaultAPIPort = 8080
	MaxTCPPort     = 65535

	DefaultRedisEndpoint = "localhost:6379"
	DefaultRedisPrefix   = "activepieces"
	DefaultRedisDB       = 0
	MaxRedisDB           = 15

	DefaultEventChannel = "activepieces:events"

	DefaultConflictWindow  = time.Minute
	MaxConflictWindow      = 24 * time.Hour
	DefaultShutdownTimeout = 10 * time.Second
)

var (
	ErrInvalidAPIPort        = errors.New("invalid API port")
	ErrMissingJWTSecret      = errors.New("JWT secret is required")
	ErrInvalidConflictWindow = errors.New(
		"edit conflict window must be positive",
	)
)

// NewDefaultConfig creates a configuration with sensible defaults for all
// service settings
func NewDefaultConfig() *Config {
	return &Config{
		APIHost:  DefaultAPIHost,
		APIPort:  DefaultAPIPort,
		LogLevel: "info",
		Redis: RedisConfig{
			Addr:   DefaultRedisEndpoint,
			Prefix: DefaultRedisPrefix,
			DB:     DefaultRedisDB,
		},
		EventChannel:    DefaultEventChannel,
		ConflictWindow:  DefaultConflictWindow,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed
func (c *Config) LoadFromEnv() error {
	if apiHost := os.Getenv("API_HOST"); apiHost != "" {
		c.APIHost = apiHost
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWTSecret = secret
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.Redis.Password = password
	}
	if prefix := os.Getenv("REDIS_PREFIX"); prefix != "" {
		c.Redis.Prefix = prefix
	}
	if channel := os.Getenv("EVENT_CHANNEL"); channel != "" {
		c.EventChannel = channel
	}

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvInt("REDIS_DB", &c.Redis.DB, -1, MaxRedisDB); err != nil {
		return err
	}

	if err := loadEnvSeconds(
		"CONFLICT_WINDOW_SECONDS", &c.ConflictWindow, MaxConflictWindow,
	); err != nil {
		return err
	}
	return loadEnvSeconds(
		"SHUTDOWN_TIMEOUT_SECONDS", &c.ShutdownTimeout, time.Hour,
	)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.ConflictWindow <= 0 {
		return ErrInvalidConflictWindow
	}
	return nil
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max). Returns an error if
// the value cannot be parsed or falls outside the valid range
func loadEnvInt(key string, dst *int, min, max int) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	if v <= min || v > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, v, min+1, max)
	}
	*dst = v
	return nil
}

// loadEnvSeconds reads key as a whole number of seconds
func loadEnvSeconds(key string, dst *time.Duration, max time.Duration) error {
	secs := 0
	if err := loadEnvInt(key, &secs, 0, int(max/time.Second)); err != nil {
		return err
	}
	if secs > 0 {
		*dst = time.Duration(secs) * time.Second
	}
	return nil
}
