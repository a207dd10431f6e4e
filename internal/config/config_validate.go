// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/spotwire/internal/validation"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateSources(); err != nil {
		return err
	}

	if err := c.validateUpstream(); err != nil {
		return err
	}

	if err := c.validateSpots(); err != nil {
		return err
	}

	if err := c.validatePrograms(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateDatabase validates the selected store driver
func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	case DriverDuckDB:
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DB_DRIVER=duckdb")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be one of: duckdb, postgres")
	}

	if c.Database.MaxOpenConns < 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must not be negative")
	}
	return nil
}

// validateSources validates each enabled feed. Disabled feeds are not checked.
func (c *Config) validateSources() error {
	sources := []struct {
		env string
		cfg SourceConfig
	}{
		{"POTA", c.Sources.POTA},
		{"RBN", c.Sources.RBN},
		{"SOTA", c.Sources.SOTA},
	}

	for _, s := range sources {
		if !s.cfg.Enabled {
			continue
		}
		if err := validateSource(s.env, s.cfg); err != nil {
			return err
		}
	}
	return nil
}

// Poll interval bounds
const (
	minPollInterval = 5 * time.Second
	maxPollInterval = time.Hour
)

func validateSource(envPrefix string, s SourceConfig) error {
	if s.URL == "" {
		return fmt.Errorf("%s_URL is required when %s_AGGREGATOR_ENABLED=true", envPrefix, envPrefix)
	}
	if err := validateEndpointURL(s.URL, envPrefix+"_URL"); err != nil {
		return fmt.Errorf("%s_URL is invalid: %w", envPrefix, err)
	}
	if s.Interval < minPollInterval || s.Interval > maxPollInterval {
		return fmt.Errorf("%s_INTERVAL must be between %v and %v", envPrefix, minPollInterval, maxPollInterval)
	}
	if s.DefaultTTL <= 0 {
		return fmt.Errorf("%s_DEFAULT_TTL must be positive", envPrefix)
	}
	return nil
}

// validateUpstream validates the shared upstream client settings
func (c *Config) validateUpstream() error {
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if c.Upstream.RequestsPerSecond < 0 {
		return fmt.Errorf("UPSTREAM_RATE_LIMIT must not be negative")
	}
	if c.Upstream.BreakerFailureRatio <= 0 || c.Upstream.BreakerFailureRatio > 1 {
		return fmt.Errorf("upstream.breaker_failure_ratio must be in (0, 1]")
	}
	return nil
}

// validateSpots validates spot lifecycle settings
func (c *Config) validateSpots() error {
	if c.Spots.SweepInterval < time.Second {
		return fmt.Errorf("SWEEP_INTERVAL must be at least 1s")
	}
	if c.Spots.SelfSpotTTL < time.Minute {
		return fmt.Errorf("SELF_SPOT_TTL must be at least 1m")
	}
	if c.Spots.MaxLimit < 1 || c.Spots.DefaultLimit < 1 || c.Spots.DefaultLimit > c.Spots.MaxLimit {
		return fmt.Errorf("SPOTS_DEFAULT_LIMIT must be between 1 and spots.max_limit (%d)", c.Spots.MaxLimit)
	}
	if c.Spots.MaxMaxAgeMinutes < 1 || c.Spots.DefaultMaxAgeMinutes < 1 || c.Spots.DefaultMaxAgeMinutes > c.Spots.MaxMaxAgeMinutes {
		return fmt.Errorf("SPOTS_DEFAULT_MAX_AGE must be between 1 and spots.max_max_age_minutes (%d)", c.Spots.MaxMaxAgeMinutes)
	}
	return nil
}

// validatePrograms validates the catalog seed with struct tags and rejects duplicate slugs
func (c *Config) validatePrograms() error {
	seen := make(map[string]bool, len(c.Programs))
	for i := range c.Programs {
		p := &c.Programs[i]
		if err := validation.ValidateStruct(p); err != nil {
			return fmt.Errorf("programs[%d]: %w", i, err)
		}
		if seen[p.Slug] {
			return fmt.Errorf("programs[%d]: duplicate slug %q", i, p.Slug)
		}
		seen[p.Slug] = true
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateAdminToken(); err != nil {
		return err
	}

	if c.Spots.Enabled {
		if err := c.validateJWTSecret(); err != nil {
			return err
		}
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	return c.validateRateLimits()
}

// validateCORS checks every origin is "*" or a bare scheme://host[:port]
func (c *Config) validateCORS() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		if err := validateHTTPURL(origin, "CORS_ORIGINS"); err != nil {
			return err
		}
	}
	return nil
}

const (
	minAdminTokenLength = 16
	minJWTSecretLength  = 32
)

// validateAdminToken validates the static admin bearer token
func (c *Config) validateAdminToken() error {
	if c.Security.AdminToken == "" {
		return fmt.Errorf("ADMIN_TOKEN is required")
	}
	if len(c.Security.AdminToken) < minAdminTokenLength {
		return fmt.Errorf("ADMIN_TOKEN must be at least %d characters", minAdminTokenLength)
	}
	if containsPlaceholder(c.Security.AdminToken) {
		return fmt.Errorf("ADMIN_TOKEN contains a placeholder value - generate one with: openssl rand -hex 24")
	}
	return nil
}

// validateJWTSecret validates the JWT secret configuration
func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when SPOTS_ENABLED=true")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters for security", minJWTSecretLength)
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed. Logged as a warning at startup.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns are fragments that indicate a secret was copied from an example file.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"YOUR_TOKEN",
	"PLACEHOLDER",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
