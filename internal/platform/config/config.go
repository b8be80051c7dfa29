// Package config loads application configuration from environment variables.
// All variables use the LEARN_ prefix.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Content  ContentConfig
	Study    StudyConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int
	Host           string
	AllowedOrigins []string // extra WebSocket origins
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL connection settings. An empty URL disables
// the event log.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Redis connection settings. An empty URL disables the
// reply cache.
type CacheConfig struct {
	URL string
	TTL time.Duration
}

// ContentConfig says where study content comes from. An empty Path uses the
// content compiled into the binary.
type ContentConfig struct {
	Path  string
	Watch bool
}

// StudyConfig holds study-mode settings.
type StudyConfig struct {
	QuizSize int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with LEARN_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           envInt("LEARN_SERVER_PORT", 8080),
			Host:           envStr("LEARN_SERVER_HOST", "0.0.0.0"),
			AllowedOrigins: envList("LEARN_SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			URL:      envStr("LEARN_DATABASE_URL", ""),
			MaxConns: envInt("LEARN_DATABASE_MAX_CONNS", 10),
			MinConns: envInt("LEARN_DATABASE_MIN_CONNS", 1),
		},
		Cache: CacheConfig{
			URL: envStr("LEARN_CACHE_URL", ""),
			TTL: envDuration("LEARN_CACHE_TTL", 10*time.Minute),
		},
		Content: ContentConfig{
			Path:  envStr("LEARN_CONTENT_PATH", ""),
			Watch: envBool("LEARN_CONTENT_WATCH", false),
		},
		Study: StudyConfig{
			QuizSize: envInt("LEARN_QUIZ_SIZE", 10),
		},
		Log: LogConfig{
			Level:  envStr("LEARN_LOG_LEVEL", "info"),
			Format: envStr("LEARN_LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Validate checks that the configuration is usable and reports every problem.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("LEARN_SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, fmt.Errorf("LEARN_DATABASE_MIN_CONNS (%d) exceeds LEARN_DATABASE_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("LEARN_CACHE_TTL must not be negative, got %s", c.Cache.TTL))
	}
	if c.Content.Watch && c.Content.Path == "" {
		errs = append(errs, errors.New("LEARN_CONTENT_WATCH requires LEARN_CONTENT_PATH"))
	}
	if c.Study.QuizSize < 1 {
		errs = append(errs, fmt.Errorf("LEARN_QUIZ_SIZE must be positive, got %d", c.Study.QuizSize))
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("LEARN_LOG_LEVEL must be one of debug, info, warn, error, got %q", c.Log.Level))
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("LEARN_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
