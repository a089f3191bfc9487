// Package auth issues and verifies the access tokens guarding the document
// write endpoints. It does not depend on net/http so the CLI can reuse it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidCredentials is returned when a username/password pair is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned for malformed, expired or forged tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Credentials represents authentication credentials.
type Credentials struct {
	Username string
	Password string
}

// Claims is the verified content of an access token.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// AuthProvider checks credentials and resolves the caller's role.
type AuthProvider interface {
	// Authenticate returns the role of the account matching creds, or an
	// error wrapping ErrInvalidCredentials.
	Authenticate(ctx context.Context, creds Credentials) (string, error)

	// Name returns the name of this provider.
	Name() string
}

// AuthService handles authentication business logic.
type AuthService struct {
	provider AuthProvider
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates a service signing HS256 tokens with secret.
func NewAuthService(provider AuthProvider, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		provider: provider,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Authenticate validates creds via the configured provider and returns the role.
func (s *AuthService) Authenticate(ctx context.Context, creds Credentials) (string, error) {
	if creds.Username == "" || creds.Password == "" {
		return "", fmt.Errorf("%w: credentials must not be empty", ErrInvalidCredentials)
	}
	return s.provider.Authenticate(ctx, creds)
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for subject with role.
func (s *AuthService) IssueToken(subject, role string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken verifies signature, algorithm and expiry of tokenString.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	var claims tokenClaims
	tok, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: missing subject or role", ErrInvalidToken)
	}
	return &Claims{
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// GetProvider returns the current authentication provider.
func (s *AuthService) GetProvider() AuthProvider {
	return s.provider
}
