package config

import (
	"errors"
	"fmt"
	"time"

	"perangkum/pkg/config"
)

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string

	// Version is reported by /health.
	// Default: "dev"
	Version string

	// RateLimitRPS is the sustained request rate allowed per client IP.
	// Zero disables rate limiting.
	// Default: 10
	RateLimitRPS float64

	// RateLimitBurst is the token bucket size per client IP.
	// Default: 20
	RateLimitBurst int

	// MaxBodySize caps JSON request bodies.
	// Default: 1MB
	MaxBodySize int64

	// MaxUploadSize caps multipart document uploads.
	// Default: 20MB
	MaxUploadSize int64

	// RequestTimeout bounds a single request, remote fetches included.
	// Default: 60s
	RequestTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration

	// CORSAllowedOrigins lists origins allowed to call the API from a browser.
	// Empty disables CORS headers.
	CORSAllowedOrigins []string

	// TrustedProxies lists proxy CIDRs whose X-Forwarded-For header is honoured.
	TrustedProxies []string
}

// LoadServerConfig reads the HTTP_*, RATE_LIMIT_*, CORS_* and VERSION variables.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Addr:               config.GetEnvString("HTTP_ADDR", ":8080"),
		Version:            config.GetEnvString("VERSION", "dev"),
		RateLimitRPS:       config.GetEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     config.GetEnvInt("RATE_LIMIT_BURST", 20),
		MaxBodySize:        config.GetEnvInt64("HTTP_MAX_BODY_SIZE", 1<<20),
		MaxUploadSize:      config.GetEnvInt64("HTTP_MAX_UPLOAD_SIZE", 20<<20),
		RequestTimeout:     config.GetEnvDuration("HTTP_REQUEST_TIMEOUT", 60*time.Second),
		ShutdownTimeout:    config.GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		CORSAllowedOrigins: config.GetEnvStringList("CORS_ALLOWED_ORIGINS", nil),
		TrustedProxies:     config.GetEnvStringList("TRUSTED_PROXIES", nil),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *ServerConfig) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("HTTP_ADDR cannot be empty"))
	}
	if c.RateLimitRPS < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS))
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.RateLimitBurst))
	}
	if c.MaxBodySize <= 0 {
		errs = append(errs, errors.New("HTTP_MAX_BODY_SIZE must be positive"))
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("HTTP_MAX_UPLOAD_SIZE must be positive"))
	}
	if err := config.ValidatePositiveDuration(c.RequestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("HTTP_REQUEST_TIMEOUT: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT: %w", err))
	}
	return errors.Join(errs...)
}

// RateLimitEnabled reports whether per-IP rate limiting is on.
func (c *ServerConfig) RateLimitEnabled() bool {
	return c.RateLimitRPS > 0
}
