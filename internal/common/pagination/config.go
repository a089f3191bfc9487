// Package pagination implements page/limit pagination for list endpoints.
package pagination

import (
	"errors"
	"fmt"

	"perangkum/pkg/config"
)

// Config holds the pagination defaults and bounds.
type Config struct {
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig returns page=1, limit=20, max=100.
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// LoadFromEnv reads PAGINATION_DEFAULT_PAGE, PAGINATION_DEFAULT_LIMIT and
// PAGINATION_MAX_LIMIT, falling back to DefaultConfig.
func LoadFromEnv() (Config, error) {
	d := DefaultConfig()
	cfg := Config{
		DefaultPage:  config.GetEnvInt("PAGINATION_DEFAULT_PAGE", d.DefaultPage),
		DefaultLimit: config.GetEnvInt("PAGINATION_DEFAULT_LIMIT", d.DefaultLimit),
		MaxLimit:     config.GetEnvInt("PAGINATION_MAX_LIMIT", d.MaxLimit),
	}
	return cfg, cfg.Validate()
}

// Validate checks that the defaults fall inside the bounds.
func (c Config) Validate() error {
	var errs []error
	if c.DefaultPage < 1 {
		errs = append(errs, fmt.Errorf("PAGINATION_DEFAULT_PAGE must be positive, got %d", c.DefaultPage))
	}
	if c.MaxLimit < 1 {
		errs = append(errs, fmt.Errorf("PAGINATION_MAX_LIMIT must be positive, got %d", c.MaxLimit))
	}
	if c.DefaultLimit < 1 || c.DefaultLimit > c.MaxLimit {
		errs = append(errs, fmt.Errorf("PAGINATION_DEFAULT_LIMIT must be between 1 and %d, got %d", c.MaxLimit, c.DefaultLimit))
	}
	return errors.Join(errs...)
}
