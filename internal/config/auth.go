package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"perangkum/pkg/config"
)

const (
	minJWTSecretLength = 32
	minPasswordLength  = 12
)

// weakSecrets are rejected as JWT secrets and passwords, also with a numeric suffix.
var weakSecrets = []string{"secret", "password", "admin", "test", "default", "changeme", "123456"}

// AuthConfig holds the credentials guarding the document write endpoints.
type AuthConfig struct {
	// JWTSecret signs access tokens. Empty disables the write endpoints.
	JWTSecret string

	// AdminUser and AdminPassword may create, upload and delete documents.
	AdminUser     string
	AdminPassword string

	// ViewerUser and ViewerPassword get a read-only token. Optional.
	ViewerUser     string
	ViewerPassword string

	// TokenTTL is the lifetime of issued tokens.
	// Default: 1h
	TokenTTL time.Duration
}

// LoadAuthConfig reads JWT_SECRET, ADMIN_USER, ADMIN_USER_PASSWORD,
// VIEWER_USER, VIEWER_USER_PASSWORD and JWT_TOKEN_TTL.
func LoadAuthConfig() (*AuthConfig, error) {
	cfg := &AuthConfig{
		JWTSecret:      config.GetEnvString("JWT_SECRET", ""),
		AdminUser:      config.GetEnvString("ADMIN_USER", ""),
		AdminPassword:  config.GetEnvString("ADMIN_USER_PASSWORD", ""),
		ViewerUser:     config.GetEnvString("VIEWER_USER", ""),
		ViewerPassword: config.GetEnvString("VIEWER_USER_PASSWORD", ""),
		TokenTTL:       config.GetEnvDuration("JWT_TOKEN_TTL", time.Hour),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid auth configuration: %w", err)
	}
	return cfg, nil
}

// Enabled reports whether token authentication, and with it the write
// endpoints, is configured.
func (c *AuthConfig) Enabled() bool {
	return c.JWTSecret != ""
}

// ViewerEnabled reports whether a read-only account is configured.
func (c *AuthConfig) ViewerEnabled() bool {
	return c.ViewerUser != ""
}

// Validate checks the secret and credentials. A config with no JWT secret is
// valid and leaves authentication disabled.
func (c *AuthConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}

	var errs []error
	if len(c.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength))
	} else if isWeak(c.JWTSecret) {
		errs = append(errs, errors.New("JWT_SECRET must not be a common weak value"))
	}

	if c.AdminUser == "" {
		errs = append(errs, errors.New("ADMIN_USER must be set when JWT_SECRET is set"))
	}
	if err := validatePassword("ADMIN_USER_PASSWORD", c.AdminPassword); err != nil {
		errs = append(errs, err)
	}

	if c.ViewerEnabled() {
		if c.ViewerUser == c.AdminUser {
			errs = append(errs, errors.New("VIEWER_USER must differ from ADMIN_USER"))
		}
		if err := validatePassword("VIEWER_USER_PASSWORD", c.ViewerPassword); err != nil {
			errs = append(errs, err)
		}
	}

	if err := config.ValidatePositiveDuration(c.TokenTTL); err != nil {
		errs = append(errs, fmt.Errorf("JWT_TOKEN_TTL: %w", err))
	}
	return errors.Join(errs...)
}

func validatePassword(key, password string) error {
	if password == "" {
		return fmt.Errorf("%s must not be empty", key)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%s must be at least %d characters", key, minPasswordLength)
	}
	if isWeak(password) {
		return fmt.Errorf("%s must not be a common weak value", key)
	}
	return nil
}

// isWeak matches a weak value optionally followed by digits, ignoring case.
func isWeak(value string) bool {
	lower := strings.ToLower(value)
	for _, weak := range weakSecrets {
		rest, ok := strings.CutPrefix(lower, weak)
		if !ok {
			continue
		}
		if strings.Trim(rest, "0123456789") == "" {
			return true
		}
	}
	return false
}
