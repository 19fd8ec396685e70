package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Auth     AuthConfig     `yaml:"auth"`
	Upload   UploadConfig   `yaml:"upload"`
	Search   SearchConfig   `yaml:"search"`
	Cache    CacheConfig    `yaml:"cache"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// APIConfig holds settings for the GraphQL query/mutation endpoint.
type APIConfig struct {
	Endpoint             string        `yaml:"endpoint"                env:"API_ENDPOINT"                env-default:"http://localhost:8081/graphql"`
	Timeout              time.Duration `yaml:"timeout"                 env:"API_TIMEOUT"                 env-default:"30s"`
	MaxRequestsPerMinute int           `yaml:"max_requests_per_minute" env:"API_MAX_REQUESTS_PER_MINUTE" env-default:"0"`
	UserAgent            string        `yaml:"user_agent"              env:"API_USER_AGENT"              env-default:"backoffice"`
}

// AuthConfig holds the session token and, optionally, the secret used to
// verify it.
type AuthConfig struct {
	Token       string        `yaml:"token"         env:"AUTH_TOKEN"`
	JWTSecret   string        `yaml:"jwt_secret"    env:"AUTH_JWT_SECRET"`
	JWTIssuer   string        `yaml:"jwt_issuer"    env:"AUTH_JWT_ISSUER"    env-default:"backoffice"`
	DevTokenTTL time.Duration `yaml:"dev_token_ttl" env:"AUTH_DEV_TOKEN_TTL" env-default:"24h"`
}

// Verifies reports whether tokens are signature-checked.
func (c AuthConfig) Verifies() bool { return c.JWTSecret != "" }

// UploadConfig holds chunked word-list upload settings.
type UploadConfig struct {
	BatchSize      int           `yaml:"batch_size"      env:"UPLOAD_BATCH_SIZE"      env-default:"128"`
	MaxAttempts    int           `yaml:"max_attempts"    env:"UPLOAD_MAX_ATTEMPTS"    env-default:"3"`
	InitialBackoff time.Duration `yaml:"initial_backoff" env:"UPLOAD_INITIAL_BACKOFF" env-default:"500ms"`
	MaxBackoff     time.Duration `yaml:"max_backoff"     env:"UPLOAD_MAX_BACKOFF"     env-default:"10s"`
}

// SearchConfig holds list query settings.
type SearchConfig struct {
	Limit         int           `yaml:"limit"          env:"SEARCH_LIMIT"          env-default:"100"`
	DebounceDelay time.Duration `yaml:"debounce_delay" env:"SEARCH_DEBOUNCE_DELAY" env-default:"1s"`
}

// CacheConfig holds ListCache settings.
type CacheConfig struct {
	Capacity  int  `yaml:"capacity"  env:"CACHE_CAPACITY"  env-default:"256"`
	Snapshots bool `yaml:"snapshots" env:"CACHE_SNAPSHOTS" env-default:"false"`
}

// DatabaseConfig holds PostgreSQL connection settings for cache snapshots.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"4"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"0"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
	// File redirects logs away from the terminal, which the console owns.
	File string `yaml:"file" env:"LOG_FILE"`
}
