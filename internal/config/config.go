package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Config struct {
	// Telegram
	TelegramToken string

	// Database
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Prefix for every redis key
	RedisNamespace string

	// Jarrib API
	APIBaseURL string
	APITimeout time.Duration

	// Bot settings
	BrandName        string
	CacheRefreshSpec string
	SavedFetchLimit  int
	RateLimit        int

	// Ops HTTP server, empty disables it
	OpsAddr string

	// Logging
	LogLevel string
}

// Load reads .env (when present) and the process environment.
// A missing default .env is fine, an explicitly given file must exist.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		// Defaults
		APIBaseURL:       "http://localhost:5000/api",
		APITimeout:       15 * time.Second,
		BrandName:        "Jarrib",
		CacheRefreshSpec: "@every 10m",
		SavedFetchLimit:  4,
		RateLimit:        50,
		OpsAddr:          ":8080",
		LogLevel:         "info",
		RedisDB:          0,
		RedisNamespace:   "jarrib",
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	} else {
		cfg.RedisAddr = "localhost:6379"
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		db, err := strconv.Atoi(redisDB)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if ns, ok := os.LookupEnv("REDIS_NAMESPACE"); ok {
		cfg.RedisNamespace = ns
	}

	if baseURL := os.Getenv("JARRIB_API_BASE_URL"); baseURL != "" {
		cfg.APIBaseURL = baseURL
	}

	if timeout := os.Getenv("JARRIB_API_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid JARRIB_API_TIMEOUT: %w", err)
		}
		cfg.APITimeout = d
	}

	if brand := os.Getenv("BRAND_NAME"); brand != "" {
		cfg.BrandName = brand
	}

	if spec := os.Getenv("CACHE_REFRESH_SPEC"); spec != "" {
		cfg.CacheRefreshSpec = spec
	}

	if limit := os.Getenv("SAVED_FETCH_LIMIT"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return nil, fmt.Errorf("invalid SAVED_FETCH_LIMIT: %w", err)
		}
		cfg.SavedFetchLimit = n
	}

	if limit := os.Getenv("RATE_LIMIT_PER_MINUTE"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
		}
		cfg.RateLimit = n
	}

	if addr, ok := os.LookupEnv("OPS_ADDR"); ok {
		cfg.OpsAddr = addr
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("telegram token is empty")
	}

	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN is empty")
	}

	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is empty")
	}

	if c.APITimeout < time.Second {
		return fmt.Errorf("api timeout too small: %v", c.APITimeout)
	}

	if _, err := cron.ParseStandard(c.CacheRefreshSpec); err != nil {
		return fmt.Errorf("invalid cache refresh spec %q: %w", c.CacheRefreshSpec, err)
	}

	if c.SavedFetchLimit < 1 || c.SavedFetchLimit > 16 {
		return fmt.Errorf("saved fetch limit must be between 1 and 16")
	}

	if c.RateLimit < 1 {
		return fmt.Errorf("rate limit must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}
