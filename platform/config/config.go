// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// MigrationConfig controls schema migrations at startup.
type MigrationConfig interface {
	DatabaseConfig
	GetRunMigrations() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RateLimitConfig provides settings for the public per-IP rate limiter.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// RedisConfig provides settings for the Redis connection.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SearchConfig provides settings for the listing search engine.
type SearchConfig interface {
	GetSearchDefaultLimit() int
	GetSearchMaxLimit() int
	GetRelatedDefaultLimit() int
	GetRelatedMaxLimit() int
	GetImageBaseURL() string
	GetFacetCacheTTL() time.Duration
}

// SchedulerConfig provides settings for the asynq facet refresh worker.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetFacetRefreshSpec() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	ListingsFixturesPath string
	RunMigrations        bool
	RedisURL             string
	RedisTLSInsecure     bool
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	RateLimitRPS         float64
	RateLimitBurst       int
	SearchDefaultLimit   int
	SearchMaxLimit       int
	RelatedDefaultLimit  int
	RelatedMaxLimit      int
	ImageBaseURL         string
	FacetCacheTTL        time.Duration
	FacetRefreshSpec     string
	AsynqQueueName       string
	AsynqConcurrency     int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }
func (c *Config) GetRunMigrations() bool { return c.RunMigrations }

// UsesFixtures reports whether listings are served from an in-memory fixture file.
func (c *Config) UsesFixtures() bool { return c.ListingsFixturesPath != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) IsRedisEnabled() bool      { return c.RedisURL != "" }

// SearchConfig implementation
func (c *Config) GetSearchDefaultLimit() int      { return c.SearchDefaultLimit }
func (c *Config) GetSearchMaxLimit() int          { return c.SearchMaxLimit }
func (c *Config) GetRelatedDefaultLimit() int     { return c.RelatedDefaultLimit }
func (c *Config) GetRelatedMaxLimit() int         { return c.RelatedMaxLimit }
func (c *Config) GetImageBaseURL() string         { return c.ImageBaseURL }
func (c *Config) GetFacetCacheTTL() time.Duration { return c.FacetCacheTTL }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string   { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int    { return c.AsynqConcurrency }
func (c *Config) GetFacetRefreshSpec() string { return c.FacetRefreshSpec }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		ListingsFixturesPath: getEnv("LISTINGS_FIXTURES_PATH", ""),
		RunMigrations:        strings.EqualFold(getEnv("RUN_MIGRATIONS", "false"), "true"),
		RedisURL:             getEnv("REDIS_URL", ""),
		RedisTLSInsecure:     strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitRPS:         mustFloat(getEnv("RATE_LIMIT_RPS", "20"), 20),
		RateLimitBurst:       mustPositiveInt(getEnv("RATE_LIMIT_BURST", "40"), 40),
		SearchDefaultLimit:   mustPositiveInt(getEnv("SEARCH_DEFAULT_LIMIT", "20"), 20),
		SearchMaxLimit:       mustPositiveInt(getEnv("SEARCH_MAX_LIMIT", "100"), 100),
		RelatedDefaultLimit:  mustPositiveInt(getEnv("RELATED_DEFAULT_LIMIT", "10"), 10),
		RelatedMaxLimit:      mustPositiveInt(getEnv("RELATED_MAX_LIMIT", "50"), 50),
		ImageBaseURL:         strings.TrimRight(getEnv("IMAGE_BASE_URL", ""), "/"),
		FacetCacheTTL:        mustDuration(getEnv("FACET_CACHE_TTL", "5m")),
		FacetRefreshSpec:     getEnv("FACET_REFRESH_SPEC", "@every 5m"),
		AsynqQueueName:       getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:     mustPositiveInt(getEnv("ASYNQ_CONCURRENCY", "2"), 2),
	}

	if cfg.DatabaseURL == "" && !cfg.UsesFixtures() {
		return nil, fmt.Errorf("DATABASE_URL is required unless LISTINGS_FIXTURES_PATH is set")
	}
	if cfg.SearchDefaultLimit > cfg.SearchMaxLimit {
		return nil, fmt.Errorf("SEARCH_DEFAULT_LIMIT cannot exceed SEARCH_MAX_LIMIT")
	}
	if cfg.RelatedDefaultLimit > cfg.RelatedMaxLimit {
		return nil, fmt.Errorf("RELATED_DEFAULT_LIMIT cannot exceed RELATED_MAX_LIMIT")
	}
	if !cfg.CORSAllowAll && len(cfg.CORSOrigins) == 0 {
		return nil, fmt.Errorf("CORS_ORIGINS must list at least one origin unless CORS_ALLOW_ALL is true")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustPositiveInt(value string, fallback int) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || result <= 0 {
		return fallback
	}
	return result
}

func mustFloat(value string, fallback float64) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || result <= 0 {
		return fallback
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
