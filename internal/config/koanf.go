// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/spotwire/config.yaml",
	"/etc/spotwire/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the location of the optional .env file.
const DotEnvPathEnvVar = "DOTENV_PATH"

const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// Upstream feed defaults.
const (
	DefaultPOTAURL = "https://api.pota.app/spot/activator"
	DefaultRBNURL  = "https://www.vailrerbn.com/api/v1/spots?limit=500"
	DefaultSOTAURL = "https://api2.sota.org.uk/api/spots/-1"
)

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		// Every feed is opt-in.
		Sources: SourcesConfig{
			POTA: SourceConfig{
				Enabled:    false,
				URL:        DefaultPOTAURL,
				Interval:   60 * time.Second,
				DefaultTTL: 30 * time.Minute,
			},
			RBN: SourceConfig{
				Enabled:    false,
				URL:        DefaultRBNURL,
				Interval:   30 * time.Second, // skimmer traffic turns over fastest
				DefaultTTL: 10 * time.Minute,
			},
			SOTA: SourceConfig{
				Enabled:    false,
				URL:        DefaultSOTAURL,
				Interval:   90 * time.Second,
				DefaultTTL: 30 * time.Minute,
			},
		},
		Upstream: UpstreamConfig{
			Timeout:             30 * time.Second,
			UserAgent:           "spotwire/1.0 (+https://github.com/tomtom215/spotwire)",
			RequestsPerSecond:   1,
			BreakerMaxRequests:  1,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      2 * time.Minute,
			BreakerMinRequests:  3,
			BreakerFailureRatio: 0.6,
		},
		Spots: SpotsConfig{
			Enabled:              true,
			SweepInterval:        120 * time.Second,
			SelfSpotTTL:          30 * time.Minute,
			DefaultLimit:         100,
			MaxLimit:             250,
			DefaultMaxAgeMinutes: 30,
			MaxMaxAgeMinutes:     1440,
		},
		Database: DatabaseConfig{
			Driver:       "", // resolved after load: postgres when DATABASE_URL is set
			URL:          "",
			Path:         "/data/spotwire.duckdb",
			MaxMemory:    "512MB",
			Threads:      0, // 0 = use runtime.NumCPU()
			MaxOpenConns: 10,
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			AdminToken:        "",
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. .env File: Optional, copied into the process environment without overriding it
//  4. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: .env (optional)
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	// Layer 4: Environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.applyDerivedDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyDerivedDefaults fills settings whose default depends on other settings.
func (c *Config) applyDerivedDefaults() {
	if c.Database.Driver == "" {
		if c.Database.URL != "" {
			c.Database.Driver = DriverPostgres
		} else {
			c.Database.Driver = DriverDuckDB
		}
	}
	c.Database.Driver = strings.ToLower(c.Database.Driver)

	if len(c.Programs) == 0 {
		c.Programs = DefaultPrograms()
	}
}

// loadDotEnv reads an optional .env file. Variables already present in the
// environment win. A missing file is not an error.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while YAML already yields slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// Names without an entry are ignored so unrelated variables never leak into config.
var envMappings = map[string]string{
	// Names carried over from earlier deployments
	"database_url":            "database.url",
	"admin_token":             "security.admin_token",
	"port":                    "server.port",
	"spots_enabled":           "spots.enabled",
	"pota_aggregator_enabled": "sources.pota.enabled",
	"rbn_aggregator_enabled":  "sources.rbn.enabled",
	"sota_aggregator_enabled": "sources.sota.enabled",

	// Sources
	"pota_url":         "sources.pota.url",
	"pota_interval":    "sources.pota.interval",
	"pota_default_ttl": "sources.pota.default_ttl",
	"rbn_url":          "sources.rbn.url",
	"rbn_interval":     "sources.rbn.interval",
	"rbn_default_ttl":  "sources.rbn.default_ttl",
	"sota_url":         "sources.sota.url",
	"sota_interval":    "sources.sota.interval",
	"sota_default_ttl": "sources.sota.default_ttl",

	// Upstream client
	"upstream_timeout":         "upstream.timeout",
	"upstream_user_agent":      "upstream.user_agent",
	"upstream_rate_limit":      "upstream.requests_per_second",
	"upstream_breaker_timeout": "upstream.breaker_timeout",

	// Spots
	"sweep_interval":        "spots.sweep_interval",
	"self_spot_ttl":         "spots.self_spot_ttl",
	"spots_default_limit":   "spots.default_limit",
	"spots_max_limit":       "spots.max_limit",
	"spots_default_max_age": "spots.default_max_age_minutes",

	// Database
	"db_driver":         "database.driver",
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"db_max_open_conns": "database.max_open_conns",

	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DATABASE_URL -> database.url
//   - POTA_AGGREGATOR_ENABLED -> sources.pota.enabled
//   - RBN_INTERVAL -> sources.rbn.interval
//   - PORT, HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
