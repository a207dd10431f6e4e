// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file, an optional .env file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every optional setting
//  2. Config File: Optional YAML file (config.yaml or CONFIG_PATH)
//  3. .env File: Optional dotenv file, never overriding the real environment
//  4. Environment Variables: Override any setting
//
// Configuration Categories:
//
//  1. Ingestion:
//     - Sources: one block per upstream feed (enable flag, URL, poll interval, TTL)
//     - Upstream: shared HTTP client settings (timeout, user agent, politeness rate)
//
//  2. Spot lifecycle:
//     - Spots: master switch, sweep interval, self-spot window, list bounds
//     - Programs: catalog entries seeded at startup
//
//  3. Infrastructure:
//     - Database: DuckDB (embedded) or PostgreSQL
//     - Server: HTTP listener
//     - Security: JWT, admin token, CORS, rate limiting
//     - Logging: level and output format
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Sources  SourcesConfig   `koanf:"sources"`
	Upstream UpstreamConfig  `koanf:"upstream"`
	Spots    SpotsConfig     `koanf:"spots"`
	Programs []ProgramConfig `koanf:"programs"`
	Database DatabaseConfig  `koanf:"database"`
	Server   ServerConfig    `koanf:"server"`
	Security SecurityConfig  `koanf:"security"`
	Logging  LoggingConfig   `koanf:"logging"`
}

// SourceConfig configures one polled upstream feed.
type SourceConfig struct {
	// Enabled starts a poller for this feed. Default: false
	Enabled bool `koanf:"enabled"`

	// URL is the full endpoint, including path and query.
	URL string `koanf:"url"`

	// Interval between poll cycles. Shorter for more volatile feeds.
	Interval time.Duration `koanf:"interval"`

	// DefaultTTL is the liveness window applied when the feed supplies none.
	DefaultTTL time.Duration `koanf:"default_ttl"`
}

// SourcesConfig groups the three upstream feeds.
type SourcesConfig struct {
	POTA SourceConfig `koanf:"pota"`
	RBN  SourceConfig `koanf:"rbn"`
	SOTA SourceConfig `koanf:"sota"`
}

// UpstreamConfig holds settings shared by every upstream client.
type UpstreamConfig struct {
	Timeout   time.Duration `koanf:"timeout"`
	UserAgent string        `koanf:"user_agent"`

	// RequestsPerSecond caps outbound requests per source. 0 disables the limiter.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// Circuit breaker tuning, per source.
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// SpotsConfig holds spot lifecycle and query bounds.
type SpotsConfig struct {
	// Enabled is the master switch. When false no pollers or sweeper run and
	// spot routes are not mounted.
	Enabled bool `koanf:"enabled"`

	SweepInterval time.Duration `koanf:"sweep_interval"`
	SelfSpotTTL   time.Duration `koanf:"self_spot_ttl"`

	DefaultLimit         int `koanf:"default_limit"`
	MaxLimit             int `koanf:"max_limit"`
	DefaultMaxAgeMinutes int `koanf:"default_max_age_minutes"`
	MaxMaxAgeMinutes     int `koanf:"max_max_age_minutes"`
}

// ProgramConfig seeds one program catalog entry.
type ProgramConfig struct {
	Slug           string   `koanf:"slug" validate:"required,slug,max=64"`
	Name           string   `koanf:"name" validate:"required,max=128"`
	ShortName      string   `koanf:"short_name" validate:"required,max=32"`
	Icon           string   `koanf:"icon" validate:"max=64"`
	Website        string   `koanf:"website" validate:"omitempty,http_url"`
	ReferenceLabel string   `koanf:"reference_label" validate:"required,max=32"`
	Capabilities   []string `koanf:"capabilities" validate:"dive,required"`
	SortOrder      int      `koanf:"sort_order" validate:"gte=0"`
}

// DatabaseConfig selects and tunes the spot store.
type DatabaseConfig struct {
	// Driver is "duckdb" (embedded, default) or "postgres".
	Driver string `koanf:"driver"`

	// URL is the PostgreSQL connection string (DATABASE_URL).
	URL string `koanf:"url"`

	// Path is the DuckDB file; ":memory:" for an ephemeral store.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`

	MaxOpenConns int `koanf:"max_open_conns"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds authentication and request-shaping settings.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	AdminToken        string        `koanf:"admin_token"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from all layers and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// EnabledSources returns the names of the feeds that will be polled.
func (c *Config) EnabledSources() []string {
	var names []string
	if c.Sources.POTA.Enabled {
		names = append(names, "pota")
	}
	if c.Sources.RBN.Enabled {
		names = append(names, "rbn")
	}
	if c.Sources.SOTA.Enabled {
		names = append(names, "sota")
	}
	return names
}

// DefaultPrograms is the catalog seeded when no programs are configured.
func DefaultPrograms() []ProgramConfig {
	return []ProgramConfig{
		{
			Slug:           "pota",
			Name:           "Parks on the Air",
			ShortName:      "POTA",
			Icon:           "tree",
			Website:        "https://pota.app",
			ReferenceLabel: "Park",
			Capabilities:   []string{"selfSpot"},
			SortOrder:      1,
		},
		{
			Slug:           "sota",
			Name:           "Summits on the Air",
			ShortName:      "SOTA",
			Icon:           "mountain",
			Website:        "https://www.sota.org.uk",
			ReferenceLabel: "Summit",
			Capabilities:   []string{"selfSpot"},
			SortOrder:      2,
		},
		{
			Slug:           "wwff",
			Name:           "World Wide Flora and Fauna",
			ShortName:      "WWFF",
			Icon:           "leaf",
			Website:        "https://wwff.co",
			ReferenceLabel: "Reference",
			Capabilities:   []string{},
			SortOrder:      3,
		},
	}
}
