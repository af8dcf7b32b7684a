package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken   string
	HealthAddr string // empty disables the health server
	API        APIConfig
	Database   DatabaseConfig
	Training   TrainingConfig
}

// APIConfig holds WordFlow backend settings
type APIConfig struct {
	BaseURL        string
	Timeout        time.Duration
	ExampleTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// TrainingConfig holds training engine settings
type TrainingConfig struct {
	Seed    int64         // 0 seeds samplers from the clock
	IdleTTL time.Duration // idle sessions older than this are swept
}

// MinIdleTTL is the shortest accepted TRAINING_IDLE_TTL
const MinIdleTTL = time.Minute

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:   os.Getenv("BOT_TOKEN"),
		HealthAddr: os.Getenv("HEALTH_ADDR"),
		API: APIConfig{
			BaseURL: os.Getenv("API_BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "wordflow"),
			User:     getEnv("DB_USER", "wordflow"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	if u, err := url.Parse(cfg.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", cfg.API.BaseURL)
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	var err error
	if cfg.API.Timeout, err = getDuration("API_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.API.ExampleTimeout, err = getDuration("EXAMPLE_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.Training.IdleTTL, err = getDuration("TRAINING_IDLE_TTL", 6*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Training.IdleTTL < MinIdleTTL {
		return nil, fmt.Errorf("TRAINING_IDLE_TTL must be at least %s, got %s", MinIdleTTL, cfg.Training.IdleTTL)
	}
	if seed := os.Getenv("TRAINING_SEED"); seed != "" {
		cfg.Training.Seed, err = strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TRAINING_SEED: %w", err)
		}
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
