// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const (
	testAdminToken = "admin-token-0123456789abcdef"
	testJWTSecret  = "jwt-secret-0123456789abcdef0123456789"
)

// clearConfigEnv unsets every variable the loader reads and points the file
// layers at paths that do not exist. Original values are restored on cleanup.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for key := range envMappings {
		name := strings.ToUpper(key)
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	dir := t.TempDir()
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	t.Setenv(DotEnvPathEnvVar, filepath.Join(dir, "missing.env"))
}

// setRequiredEnv sets the minimum environment for a successful load.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ADMIN_TOKEN", testAdminToken)
	t.Setenv("JWT_SECRET", testJWTSecret)
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	// Feeds are opt-in
	if cfg.Sources.POTA.Enabled || cfg.Sources.RBN.Enabled || cfg.Sources.SOTA.Enabled {
		t.Error("all sources should be disabled by default")
	}

	intervals := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"POTA.Interval", cfg.Sources.POTA.Interval, 60 * time.Second},
		{"RBN.Interval", cfg.Sources.RBN.Interval, 30 * time.Second},
		{"SOTA.Interval", cfg.Sources.SOTA.Interval, 90 * time.Second},
		{"POTA.DefaultTTL", cfg.Sources.POTA.DefaultTTL, 30 * time.Minute},
		{"RBN.DefaultTTL", cfg.Sources.RBN.DefaultTTL, 10 * time.Minute},
		{"SOTA.DefaultTTL", cfg.Sources.SOTA.DefaultTTL, 30 * time.Minute},
		{"Spots.SweepInterval", cfg.Spots.SweepInterval, 120 * time.Second},
		{"Spots.SelfSpotTTL", cfg.Spots.SelfSpotTTL, 30 * time.Minute},
		{"Upstream.Timeout", cfg.Upstream.Timeout, 30 * time.Second},
	}
	for _, iv := range intervals {
		if iv.got != iv.want {
			t.Errorf("%s = %v, want %v", iv.name, iv.got, iv.want)
		}
	}

	if cfg.Sources.RBN.URL != DefaultRBNURL {
		t.Errorf("RBN.URL = %q, want %q", cfg.Sources.RBN.URL, DefaultRBNURL)
	}
	if !cfg.Spots.Enabled {
		t.Error("Spots.Enabled should be true by default")
	}
	if cfg.Spots.DefaultLimit != 100 || cfg.Spots.MaxLimit != 250 {
		t.Errorf("limit bounds = %d/%d, want 100/250", cfg.Spots.DefaultLimit, cfg.Spots.MaxLimit)
	}
	if cfg.Spots.DefaultMaxAgeMinutes != 30 || cfg.Spots.MaxMaxAgeMinutes != 1440 {
		t.Errorf("max age bounds = %d/%d, want 30/1440", cfg.Spots.DefaultMaxAgeMinutes, cfg.Spots.MaxMaxAgeMinutes)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "" {
		t.Errorf("Database.Driver should be resolved after load, got %q", cfg.Database.Driver)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"DATABASE_URL", "database.url"},
		{"ADMIN_TOKEN", "security.admin_token"},
		{"PORT", "server.port"},
		{"HTTP_PORT", "server.port"},
		{"SPOTS_ENABLED", "spots.enabled"},
		{"POTA_AGGREGATOR_ENABLED", "sources.pota.enabled"},
		{"RBN_AGGREGATOR_ENABLED", "sources.rbn.enabled"},
		{"SOTA_AGGREGATOR_ENABLED", "sources.sota.enabled"},
		{"RBN_INTERVAL", "sources.rbn.interval"},
		{"SOTA_URL", "sources.sota.url"},
		{"UPSTREAM_RATE_LIMIT", "upstream.requests_per_second"},
		{"SELF_SPOT_TTL", "spots.self_spot_ttl"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"log_level", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("test: true"), 0o644); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(customPath, []byte("test: true"), 0o644); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		defer os.Remove(customPath)

		t.Setenv(ConfigPathEnvVar, customPath)
		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	clearConfigEnv(t)
	setRequiredEnv(t)

	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RBN_AGGREGATOR_ENABLED", "true")
	t.Setenv("RBN_INTERVAL", "45s")
	t.Setenv("SELF_SPOT_TTL", "15m")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.Sources.RBN.Enabled {
		t.Error("RBN should be enabled")
	}
	if cfg.Sources.RBN.Interval != 45*time.Second {
		t.Errorf("RBN.Interval = %v, want 45s", cfg.Sources.RBN.Interval)
	}
	if cfg.Spots.SelfSpotTTL != 15*time.Minute {
		t.Errorf("SelfSpotTTL = %v, want 15m", cfg.Spots.SelfSpotTTL)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example.org" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if got := cfg.EnabledSources(); len(got) != 1 || got[0] != "rbn" {
		t.Errorf("EnabledSources() = %v, want [rbn]", got)
	}

	// Derived defaults
	if cfg.Database.Driver != DriverDuckDB {
		t.Errorf("Database.Driver = %q, want duckdb when DATABASE_URL is unset", cfg.Database.Driver)
	}
	if len(cfg.Programs) != len(DefaultPrograms()) {
		t.Errorf("Programs = %d entries, want the default catalog", len(cfg.Programs))
	}
}

func TestLoadWithKoanf_DatabaseURLSelectsPostgres(t *testing.T) {
	clearConfigEnv(t)
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "postgres://spotwire:secret@db:5432/spotwire?sslmode=disable")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
}

// TestLoadWithKoanfConfigFile tests loading configuration from a YAML file
func TestLoadWithKoanfConfigFile(t *testing.T) {
	clearConfigEnv(t)

	configContent := `
sources:
  sota:
    enabled: true
    interval: 2m

security:
  admin_token: "` + testAdminToken + `"
  jwt_secret: "` + testJWTSecret + `"

programs:
  - slug: "pota"
    name: "Parks on the Air"
    short_name: "POTA"
    reference_label: "Park"
    capabilities: ["selfSpot"]
  - slug: "iota"
    name: "Islands on the Air"
    short_name: "IOTA"
    reference_label: "Island"

logging:
  level: "warn"
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if !cfg.Sources.SOTA.Enabled || cfg.Sources.SOTA.Interval != 2*time.Minute {
		t.Errorf("SOTA = %+v", cfg.Sources.SOTA)
	}
	if cfg.Sources.SOTA.URL != DefaultSOTAURL {
		t.Errorf("SOTA.URL = %q, want default", cfg.Sources.SOTA.URL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if len(cfg.Programs) != 2 || cfg.Programs[1].Slug != "iota" {
		t.Fatalf("Programs = %+v", cfg.Programs)
	}
	if len(cfg.Programs[0].Capabilities) != 1 || cfg.Programs[0].Capabilities[0] != "selfSpot" {
		t.Errorf("pota capabilities = %v", cfg.Programs[0].Capabilities)
	}
}

// TestLoadWithKoanfEnvOverridesFile tests that env vars override config file
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)
	setRequiredEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  port: 7000\nlogging:\n  level: warn\n"), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("PORT", "7100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("Server.Port = %d, want 7100 (env wins)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn (from file)", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfDotEnv(t *testing.T) {
	clearConfigEnv(t)

	dotenvPath := filepath.Join(t.TempDir(), ".env")
	content := "ADMIN_TOKEN=" + testAdminToken + "\nJWT_SECRET=" + testJWTSecret + "\nLOG_LEVEL=error\nPORT=6000\n"
	if err := os.WriteFile(dotenvPath, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	t.Setenv(DotEnvPathEnvVar, dotenvPath)

	// Real environment wins over .env
	t.Setenv("PORT", "6100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error (from .env)", cfg.Logging.Level)
	}
	if cfg.Server.Port != 6100 {
		t.Errorf("Server.Port = %d, want 6100 (env wins over .env)", cfg.Server.Port)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing admin token",
			env:     map[string]string{"JWT_SECRET": testJWTSecret},
			wantErr: "ADMIN_TOKEN is required",
		},
		{
			name:    "missing jwt secret with spots enabled",
			env:     map[string]string{"ADMIN_TOKEN": testAdminToken},
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"ADMIN_TOKEN": testAdminToken, "JWT_SECRET": testJWTSecret, "DB_DRIVER": "postgres"},
			wantErr: "DATABASE_URL is required",
		},
		{
			name: "enabled source with bad url",
			env: map[string]string{
				"ADMIN_TOKEN": testAdminToken, "JWT_SECRET": testJWTSecret,
				"POTA_AGGREGATOR_ENABLED": "true", "POTA_URL": "ftp://api.pota.app/spot",
			},
			wantErr: "POTA_URL is invalid",
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"ADMIN_TOKEN": testAdminToken, "JWT_SECRET": testJWTSecret, "LOG_LEVEL": "verbose"},
			wantErr: "LOG_LEVEL must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadWithKoanf_SpotsDisabledSkipsJWT(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ADMIN_TOKEN", testAdminToken)
	t.Setenv("SPOTS_ENABLED", "false")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Spots.Enabled {
		t.Error("Spots.Enabled should be false")
	}
}
