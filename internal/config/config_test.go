package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/jarrib?sslmode=disable")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Errorf("APITimeout = %v", cfg.APITimeout)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.BrandName != "Jarrib" {
		t.Errorf("BrandName = %q", cfg.BrandName)
	}
	if cfg.RedisNamespace != "jarrib" || cfg.RateLimit != 50 {
		t.Errorf("RedisNamespace = %q, RateLimit = %d", cfg.RedisNamespace, cfg.RateLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "bot.env")
	if err := os.WriteFile(path, []byte("JARRIB_API_TIMEOUT=3s\nBRAND_NAME=Jarrib Test\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("JARRIB_API_TIMEOUT")
		os.Unsetenv("BRAND_NAME")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Errorf("APITimeout = %v", cfg.APITimeout)
	}
	if cfg.BrandName != "Jarrib Test" {
		t.Errorf("BrandName = %q", cfg.BrandName)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	setRequired(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Fatal("expected error for missing env file")
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/jarrib")
	chdir(t, t.TempDir())

	if _, err := Load(""); err == nil {
		t.Fatal("expected error without TELEGRAM_TOKEN")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		TelegramToken:    "t",
		PostgresDSN:      "dsn",
		APIBaseURL:       "http://api",
		APITimeout:       5 * time.Second,
		CacheRefreshSpec: "@every 5m",
		SavedFetchLimit:  4,
		LogLevel:         "info",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad cron", func(c *Config) { c.CacheRefreshSpec = "every now and then" }, true},
		{"short timeout", func(c *Config) { c.APITimeout = time.Millisecond }, true},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"zero saved limit", func(c *Config) { c.SavedFetchLimit = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
