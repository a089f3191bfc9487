package fetcher

import (
	"fmt"
	"time"

	"perangkum/pkg/config"
)

// ContentFetchConfig bounds outbound page and feed requests.
type ContentFetchConfig struct {
	// Timeout applies to each HTTP request.
	Timeout time.Duration

	// MaxBodySize is the largest response accepted, in bytes.
	MaxBodySize int64

	// MaxRedirects is the longest redirect chain followed.
	MaxRedirects int

	// DenyPrivateIPs rejects URLs and redirect targets resolving to private networks.
	DenyPrivateIPs bool

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      "PerangkumBot/1.0",
	}
}

// Validate checks that every field is within its allowed range.
func (c *ContentFetchConfig) Validate() error {
	if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if err := config.ValidateIntRange("max redirects", c.MaxRedirects, 0, 10); err != nil {
		return err
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}
	return nil
}

// LoadConfigFromEnv reads FETCH_TIMEOUT, FETCH_MAX_BODY_SIZE,
// FETCH_MAX_REDIRECTS, FETCH_DENY_PRIVATE_IPS and FETCH_USER_AGENT.
// Malformed values fall back to defaults; out-of-range values are an error.
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	def := DefaultConfig()
	cfg := ContentFetchConfig{
		Timeout:        config.GetEnvDuration("FETCH_TIMEOUT", def.Timeout),
		MaxBodySize:    config.GetEnvInt64("FETCH_MAX_BODY_SIZE", def.MaxBodySize),
		MaxRedirects:   config.GetEnvInt("FETCH_MAX_REDIRECTS", def.MaxRedirects),
		DenyPrivateIPs: config.GetEnvBool("FETCH_DENY_PRIVATE_IPS", def.DenyPrivateIPs),
		UserAgent:      config.GetEnvString("FETCH_USER_AGENT", def.UserAgent),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
