// Package config loads PatternHive settings from environment variables.
// Every field has a default, so an empty environment yields a working
// configuration; Validate rejects combinations that cannot run.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Extract  ExtractConfig
	Upload   UploadConfig
	Results  ResultsConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout bounds a single request in middleware (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// ExtractConfig holds input limits for extraction.
type ExtractConfig struct {
	// MaxTextLength is the longest accepted text, in characters (default: 1000000)
	MaxTextLength int `env:"EXTRACT_MAX_TEXT_LENGTH" default:"1000000"`

	// MaxFileSize is the largest accepted upload. Accepts suffixes such as MiB (default: 16MiB)
	MaxFileSize int64 `env:"EXTRACT_MAX_FILE_SIZE" envAlt:"MAX_CONTENT_LENGTH" default:"16MiB"`

	// MaxPages caps PDF pages read per document (default: 100)
	MaxPages int `env:"EXTRACT_MAX_PAGES" default:"100"`

	// MaxRows caps spreadsheet and CSV rows read per sheet (default: 10000)
	MaxRows int `env:"EXTRACT_MAX_ROWS" default:"10000"`
}

// UploadConfig bounds concurrent document conversion.
type UploadConfig struct {
	// MaxConcurrent is the number of documents converted at once (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a request waits for a conversion slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// ResultsConfig controls how long extraction results stay retrievable.
type ResultsConfig struct {
	TTL             time.Duration `env:"RESULTS_TTL" default:"1h"`
	CleanupInterval time.Duration `env:"RESULTS_CLEANUP_INTERVAL" default:"5m"`

	// MaxEntries caps stored results; the oldest are evicted first (default: 1000)
	MaxEntries int `env:"RESULTS_MAX_ENTRIES" default:"1000"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for document uploads (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// forwarding headers are honored.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// APIKeys is a comma-separated list of accepted X-API-Key values.
	APIKeys []string `env:"API_KEYS"`

	// RequireAPIKey enforces API keys on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File, when set, also writes logs to a rotated file.
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" default:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" default:"3"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" default:"28"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" default:"true"`
	Path    string `env:"METRICS_PATH" default:"/metrics"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
