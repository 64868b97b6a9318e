package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.DatabasePath != "./data/almanac.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "./data/almanac.db")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	if cfg.CacheWarmSchedule != "@daily" {
		t.Errorf("CacheWarmSchedule = %q, want %q", cfg.CacheWarmSchedule, "@daily")
	}
	if cfg.CacheWarmSpan != 1 {
		t.Errorf("CacheWarmSpan = %d, want 1", cfg.CacheWarmSpan)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if !cfg.CacheWarmEnabled() {
		t.Error("CacheWarmEnabled() = false, want true")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "3000")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_PATH", "/data/test.db")
	t.Setenv("API_KEY", "secret-key-123")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("CACHE_WARM_SCHEDULE", "0 3 * * *")
	t.Setenv("CACHE_WARM_SPAN", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Env != EnvProduction {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvProduction)
	}
	if cfg.DatabasePath != "/data/test.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/data/test.db")
	}
	if cfg.APIKey != "secret-key-123" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "secret-key-123")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v, want two origins", cfg.CORSOrigins)
	}
	if cfg.CacheWarmSchedule != "0 3 * * *" {
		t.Errorf("CacheWarmSchedule = %q, want %q", cfg.CacheWarmSchedule, "0 3 * * *")
	}
	if cfg.CacheWarmSpan != 5 {
		t.Errorf("CacheWarmSpan = %d, want 5", cfg.CacheWarmSpan)
	}
}

func TestLoad_WarmerDisabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_WARM_SCHEDULE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.CacheWarmEnabled() {
		t.Errorf("CacheWarmEnabled() = true with empty schedule")
	}
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_WARM_SPAN", "11")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want span validation error")
	}
}

// validConfig is a development config that passes Validate.
func validConfig() Config {
	return Config{
		Port:         8080,
		Env:          EnvDevelopment,
		DatabasePath: "./data/test.db",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"valid production config", func(c *Config) {
			c.Env = EnvProduction
			c.APIKey = "required-in-prod"
			c.LogFormat = "json"
		}, false},
		{"production requires API key", func(c *Config) { c.Env = EnvProduction }, true},
		{"invalid port - too low", func(c *Config) { c.Port = 0 }, true},
		{"invalid port - too high", func(c *Config) { c.Port = 70000 }, true},
		{"invalid environment", func(c *Config) { c.Env = "invalid" }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"empty database path", func(c *Config) { c.DatabasePath = "" }, true},
		{"valid cron descriptor", func(c *Config) { c.CacheWarmSchedule = "@every 6h" }, false},
		{"invalid cron spec", func(c *Config) { c.CacheWarmSchedule = "at dawn" }, true},
		{"six-field cron spec", func(c *Config) { c.CacheWarmSchedule = "0 0 3 * * *" }, true},
		{"negative span", func(c *Config) { c.CacheWarmSpan = -1 }, true},
		{"maximum span", func(c *Config) { c.CacheWarmSpan = MaxCacheWarmSpan }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: EnvDevelopment}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}

	cfg.Env = EnvProduction
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Env: EnvProduction}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}

	cfg.Env = EnvDevelopment
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false")
	}
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"PORT", "ENV", "DATABASE_PATH", "API_KEY", "CORS_ORIGINS",
		"LOG_LEVEL", "LOG_FORMAT", "CACHE_WARM_SCHEDULE", "CACHE_WARM_SPAN",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}
