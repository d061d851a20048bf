package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Cache
	Cache CacheConfig

	// Database (used when Cache.Backend == "postgres")
	Database DatabaseConfig

	// Redis (used when Cache.Backend == "redis")
	Redis RedisConfig

	// Market data provider
	Provider ProviderConfig

	// Recommendation engine
	Engine EngineConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Taxonomy reference data
	TaxonomyPath string // empty means embedded defaults

	// Logging
	LogLevel  string
	LogFormat string
}

// CacheConfig holds metrics cache configuration.
type CacheConfig struct {
	Backend string // file, postgres, redis
	Dir     string // file backend only
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// ProviderConfig holds market data provider configuration.
type ProviderConfig struct {
	BaseURL     string
	Timeout     time.Duration // per-symbol fetch timeout
	RatePerSec  float64       // outbound request rate limit
	RateBurst   int
	HistorySpan time.Duration // trailing window for return/volatility
}

// EngineConfig holds recommendation engine configuration.
type EngineConfig struct {
	Workers     int // concurrent metric resolution workers
	DefaultTopN int
}

// SchedulerConfig holds cache warm scheduling configuration.
type SchedulerConfig struct {
	WarmEnabled  bool
	WarmSchedule string // cron expression with seconds field
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8087"),
		Env:  getEnv("ENV", "development"),

		Cache: CacheConfig{
			Backend: getEnv("CACHE_BACKEND", "file"),
			Dir:     getEnv("CACHE_DIR", "data/cache"),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Provider: ProviderConfig{
			BaseURL:     getEnv("PROVIDER_BASE_URL", "https://query1.finance.yahoo.com"),
			Timeout:     getEnvAsDuration("PROVIDER_TIMEOUT", "10s"),
			RatePerSec:  getEnvAsFloat("PROVIDER_RATE_PER_SEC", 5),
			RateBurst:   getEnvAsInt("PROVIDER_RATE_BURST", 5),
			HistorySpan: getEnvAsDuration("PROVIDER_HISTORY_SPAN", "8760h"), // trailing 1y
		},

		Engine: EngineConfig{
			Workers:     getEnvAsInt("ENGINE_WORKERS", 8),
			DefaultTopN: getEnvAsInt("ENGINE_DEFAULT_TOP_N", 5),
		},

		Scheduler: SchedulerConfig{
			WarmEnabled:  getEnvAsBool("WARM_ENABLED", false),
			WarmSchedule: getEnv("WARM_SCHEDULE", "0 30 6 * * *"), // 06:30 daily
		},

		TaxonomyPath: getEnv("TAXONOMY_PATH", ""),

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Cache.Backend {
	case "file":
		if c.Cache.Dir == "" {
			return fmt.Errorf("CACHE_DIR is required for the file cache backend")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres cache backend")
		}
	case "redis":
		if !c.Redis.Enabled {
			return fmt.Errorf("REDIS_ENABLED must be true for the redis cache backend")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: file, postgres, redis")
	}

	if c.Engine.Workers < 1 {
		return fmt.Errorf("ENGINE_WORKERS must be at least 1")
	}

	if c.Engine.DefaultTopN < 1 {
		return fmt.Errorf("ENGINE_DEFAULT_TOP_N must be at least 1")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
