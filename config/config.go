package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/recipecost/backend/internal/domain"
	"github.com/recipecost/backend/internal/pkg/logging"
)

// Catalog sources
const (
	CatalogSourceFile   = "file"
	CatalogSourceSQLite = "sqlite"
	CatalogSourceRemote = "remote"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Nutrition NutritionConfig
	Logging   logging.Config
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CatalogConfig selects where products and recipes come from
type CatalogConfig struct {
	Source            string        `mapstructure:"source"` // "file", "sqlite" or "remote"
	Path              string        `mapstructure:"path"`   // dataset file (json or yaml)
	DSN               string        `mapstructure:"dsn"`    // sqlite database
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	RateLimit         float64       `mapstructure:"rate_limit"` // remote requests per second
	Timeout           time.Duration `mapstructure:"timeout"`
	FuzzyMatching     bool          `mapstructure:"fuzzy_matching"`
	FuzzyEditDistance int           `mapstructure:"fuzzy_edit_distance"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type            string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL        string        `mapstructure:"redis_url"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
	Burst int `mapstructure:"burst"`
}

// NutritionConfig holds the quantity recipe nutrients are reported against
type NutritionConfig struct {
	ReferenceAmount float64 `mapstructure:"reference_amount"`
	ReferenceUnit   string  `mapstructure:"reference_unit"`
}

// Reference returns the reference quantity as a unit of measure
func (n NutritionConfig) Reference() (domain.UnitOfMeasure, error) {
	name := domain.UoMName(n.ReferenceUnit)
	uomType, ok := name.Type()
	if !ok {
		return domain.UnitOfMeasure{}, fmt.Errorf("%w: unknown reference unit %q", domain.ErrInvalidUnit, n.ReferenceUnit)
	}
	return domain.UnitOfMeasure{Amount: n.ReferenceAmount, Name: name, Type: uomType}, nil
}

// Load loads configuration from .env, environment variables and the config
// file found on the search paths
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration like Load but reads the given config file
// instead of searching for one. An empty path searches.
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/recipecost/")
	}

	// Environment variable settings: RECIPECOST_CATALOG_API_KEY -> catalog.api_key
	v.SetEnvPrefix("RECIPECOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional when searching)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
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

// loadEnvFile loads .env from the working directory when present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values. Every key gets a default so
// that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Catalog defaults
	v.SetDefault("catalog.source", CatalogSourceFile)
	v.SetDefault("catalog.path", "data/dataset.json")
	v.SetDefault("catalog.dsn", "recipecost.db")
	v.SetDefault("catalog.base_url", "")
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.rate_limit", 5)
	v.SetDefault("catalog.timeout", "30s")
	v.SetDefault("catalog.fuzzy_matching", false)
	v.SetDefault("catalog.fuzzy_edit_distance", 1)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.burst", 20)

	// Nutrition defaults: facts per 100 grams
	v.SetDefault("nutrition.reference_amount", 100)
	v.SetDefault("nutrition.reference_unit", string(domain.UoMGrams))

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.development", false)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case CatalogSourceFile:
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when catalog source is 'file'")
		}
	case CatalogSourceSQLite:
		if config.Catalog.DSN == "" {
			return fmt.Errorf("catalog dsn is required when catalog source is 'sqlite'")
		}
	case CatalogSourceRemote:
		if config.Catalog.BaseURL == "" {
			return fmt.Errorf("catalog base URL is required when catalog source is 'remote' (set RECIPECOST_CATALOG_BASE_URL)")
		}
		if config.Catalog.APIKey == "" {
			return fmt.Errorf("catalog API key is required when catalog source is 'remote' (set RECIPECOST_CATALOG_API_KEY)")
		}
	default:
		return fmt.Errorf("catalog source must be 'file', 'sqlite' or 'remote', got: %s", config.Catalog.Source)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis'")
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	reference, err := config.Nutrition.Reference()
	if err != nil {
		return err
	}
	if reference.Amount <= 0 {
		return fmt.Errorf("nutrition reference amount must be positive, got: %v", reference.Amount)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got: %s", config.Logging.Format)
	}

	return nil
}
