package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Search    SearchConfig    `mapstructure:"search"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Breaker   BreakerConfig   `mapstructure:"breaker"`
	Matching  MatchingConfig  `mapstructure:"matching"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SearchConfig holds the catalog search engine configuration
type SearchConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Index          string        `mapstructure:"index"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	FuzzySize      int           `mapstructure:"fuzzy_size"`
	PriceSize      int           `mapstructure:"price_size"`
	NearbyRadiusKm float64       `mapstructure:"nearby_radius_km"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
}

// DatabaseConfig holds the store catalog database configuration
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // only "memory"
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP  int     `mapstructure:"per_ip"` // requests per minute per client IP
	Search float64 `mapstructure:"search"` // requests per second to the search engine
}

// BreakerConfig holds the catalog circuit breaker configuration
type BreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests uint32        `mapstructure:"max_requests"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
	TripRatio   float64       `mapstructure:"trip_ratio"`
}

// MatchingConfig holds search and coverage tuning
type MatchingConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/liiist/")

	// Environment variable settings: search.base_url <- LIIIST_SEARCH_BASE_URL
	v.SetEnvPrefix("LIIIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so Unmarshal sees its env override.
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Search engine defaults
	v.SetDefault("search.base_url", "http://localhost:9200")
	v.SetDefault("search.index", "products")
	v.SetDefault("search.username", "")
	v.SetDefault("search.password", "")
	v.SetDefault("search.fuzzy_size", 10)
	v.SetDefault("search.price_size", 10)
	v.SetDefault("search.nearby_radius_km", 10.0)
	v.SetDefault("search.timeout", "10s")
	v.SetDefault("search.max_retries", 3)

	// Database defaults
	v.SetDefault("database.url", "")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.search", 20.0)

	// Circuit breaker defaults
	v.SetDefault("breaker.enabled", true)
	v.SetDefault("breaker.max_requests", 3)
	v.SetDefault("breaker.interval", "60s")
	v.SetDefault("breaker.timeout", "30s")
	v.SetDefault("breaker.trip_ratio", 0.6)

	// Matching defaults
	v.SetDefault("matching.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Search.BaseURL == "" {
		return fmt.Errorf("search base URL is required (set LIIIST_SEARCH_BASE_URL)")
	}

	if config.Search.FuzzySize <= 0 || config.Search.PriceSize <= 0 {
		return fmt.Errorf("search result sizes must be positive, got fuzzy=%d price=%d",
			config.Search.FuzzySize, config.Search.PriceSize)
	}

	if config.Search.NearbyRadiusKm <= 0 {
		return fmt.Errorf("search radius must be positive, got: %v", config.Search.NearbyRadiusKm)
	}

	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	if config.Breaker.TripRatio <= 0 || config.Breaker.TripRatio > 1 {
		return fmt.Errorf("breaker trip ratio must be in (0, 1], got: %v", config.Breaker.TripRatio)
	}

	return nil
}

// RequireDatabase reports an error when no database URL is configured. Only the
// HTTP server needs the store catalog; one-shot CLI searches don't.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required (set LIIIST_DATABASE_URL)")
	}
	return nil
}

// LoadEnvFile loads variables from a .env file in the working directory. A missing
// file is not an error and variables already set in the environment win.
func LoadEnvFile() error {
	return loadEnvFile()
}

func loadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}
