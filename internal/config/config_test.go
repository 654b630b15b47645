package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/liuhuapiaoyuan/activepieces/internal/config"
)

func validConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.JWTSecret = "test-secret"
	return cfg
}

func TestConfigValidation(t *testing.T) {
	t.Run("valid_default_config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	tests := []struct {
		configMod     func(*config.Config)
		name          string
		errorContains string
	}{
		{
			name: "invalid_api_port_zero",
			configMod: func(c *config.Config) {
				c.APIPort = 0
			},
			errorContains: "invalid API port",
		},
		{
			name: "invalid_api_port_too_high",
			configMod: func(c *config.Config) {
				c.APIPort = 70000
			},
			errorContains: "invalid API port",
		},
		{
			name: "missing_jwt_secret",
			configMod: func(c *config.Config) {
				c.JWTSecret = ""
			},
			errorContains: "JWT secret is required",
		},
		{
			name: "zero_conflict_window",
			configMod: func(c *config.Config) {
				c.ConflictWindow = 0
			},
			errorContains: "edit conflict window must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.configMod(cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_HOST", "127.0.0.1")
	t.Setenv("API_PORT", "9090")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_PREFIX", "flows")
	t.Setenv("CONFLICT_WINDOW_SECONDS", "120")

	cfg := config.NewDefaultConfig()
	assert.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "127.0.0.1", cfg.APIHost)
	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "flows", cfg.Redis.Prefix)
	assert.Equal(t, 2*time.Minute, cfg.ConflictWindow)
}

func TestLoadFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("API_PORT", "not-a-port")

	cfg := config.NewDefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())
}

func TestLoadFromEnvRejectsOutOfRange(t *testing.T) {
	t.Setenv("API_PORT", "70000")

	cfg := config.NewDefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())
}
