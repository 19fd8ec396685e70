package config

import (
	"fmt"
	"net/url"
)

const maxBatchSize = 1000

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.API.validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Upload.validate(); err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	if c.Search.Limit <= 0 {
		return fmt.Errorf("search.limit must be > 0 (got %d)", c.Search.Limit)
	}
	if c.Search.DebounceDelay < 0 {
		return fmt.Errorf("search.debounce_delay must be >= 0 (got %v)", c.Search.DebounceDelay)
	}

	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache.capacity must be > 0 (got %d)", c.Cache.Capacity)
	}
	if c.Cache.Snapshots && c.Database.DSN == "" {
		return fmt.Errorf("cache.snapshots requires database.dsn")
	}

	return nil
}

func (a *APIConfig) validate() error {
	u, err := url.Parse(a.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint must be an http(s) URL (got %q)", a.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint must include a host (got %q)", a.Endpoint)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", a.Timeout)
	}
	if a.MaxRequestsPerMinute < 0 {
		return fmt.Errorf("max_requests_per_minute must be >= 0 (got %d)", a.MaxRequestsPerMinute)
	}
	return nil
}

func (u *UploadConfig) validate() error {
	if u.BatchSize <= 0 || u.BatchSize > maxBatchSize {
		return fmt.Errorf("batch_size must be in [1, %d] (got %d)", maxBatchSize, u.BatchSize)
	}
	if u.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1 (got %d)", u.MaxAttempts)
	}
	if u.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be > 0 (got %v)", u.InitialBackoff)
	}
	if u.MaxBackoff < u.InitialBackoff {
		return fmt.Errorf("max_backoff (%v) must be >= initial_backoff (%v)", u.MaxBackoff, u.InitialBackoff)
	}
	return nil
}
