package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequired sets the required variables and clears the optional ones
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "test_token")
	t.Setenv("API_BASE_URL", "http://localhost:8000")
	t.Setenv("DB_PASSWORD", "test_db_password")
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER",
		"API_TIMEOUT", "EXAMPLE_TIMEOUT", "TRAINING_SEED", "TRAINING_IDLE_TTL", "HEALTH_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestLoad_WithDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test_token", cfg.BotToken)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 20*time.Second, cfg.API.ExampleTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "wordflow", cfg.Database.Name)
	assert.Equal(t, "wordflow", cfg.Database.User)
	assert.Equal(t, int64(0), cfg.Training.Seed)
	assert.Equal(t, 6*time.Hour, cfg.Training.IdleTTL)
	assert.Empty(t, cfg.HealthAddr)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("EXAMPLE_TIMEOUT", "1m")
	t.Setenv("TRAINING_SEED", "42")
	t.Setenv("DB_NAME", "bot")
	t.Setenv("HEALTH_ADDR", ":8081")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, time.Minute, cfg.API.ExampleTimeout)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.Equal(t, "bot", cfg.Database.Name)
	assert.Equal(t, ":8081", cfg.HealthAddr)
}

func TestLoad_MinimumIdleTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("TRAINING_IDLE_TTL", "1m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, MinIdleTTL, cfg.Training.IdleTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		expected string
	}{
		{name: "missing bot token", key: "BOT_TOKEN", value: "", expected: "BOT_TOKEN"},
		{name: "missing api url", key: "API_BASE_URL", value: "", expected: "API_BASE_URL"},
		{name: "relative api url", key: "API_BASE_URL", value: "localhost:8000", expected: "API_BASE_URL"},
		{name: "missing db password", key: "DB_PASSWORD", value: "", expected: "DB_PASSWORD"},
		{name: "bad timeout", key: "API_TIMEOUT", value: "soon", expected: "API_TIMEOUT"},
		{name: "negative timeout", key: "EXAMPLE_TIMEOUT", value: "-1s", expected: "EXAMPLE_TIMEOUT"},
		{name: "bad seed", key: "TRAINING_SEED", value: "abc", expected: "TRAINING_SEED"},
		{name: "idle ttl below minimum", key: "TRAINING_IDLE_TTL", value: "3ns", expected: "at least 1m0s"},
		{name: "idle ttl in seconds", key: "TRAINING_IDLE_TTL", value: "59s", expected: "TRAINING_IDLE_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}
