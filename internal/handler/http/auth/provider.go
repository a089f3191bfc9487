package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	authservice "perangkum/internal/service/auth"
)

// Account is one configured user.
type Account struct {
	Username string
	Password string
	Role     string
}

// StaticProvider authenticates against a fixed set of accounts loaded from
// the environment at startup.
type StaticProvider struct {
	accounts []Account
}

// NewStaticProvider creates a provider for accounts. Accounts with an empty
// username are skipped.
func NewStaticProvider(accounts ...Account) *StaticProvider {
	p := &StaticProvider{}
	for _, a := range accounts {
		if a.Username != "" {
			p.accounts = append(p.accounts, a)
		}
	}
	return p
}

// Authenticate compares creds against every account in constant time and
// returns the matching account's role.
func (p *StaticProvider) Authenticate(_ context.Context, creds authservice.Credentials) (string, error) {
	role := ""
	for _, a := range p.accounts {
		userMatch := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(a.Username))
		passMatch := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(a.Password))
		if userMatch&passMatch == 1 && role == "" {
			role = a.Role
		}
	}
	if role == "" {
		return "", fmt.Errorf("%w: unknown user or wrong password", authservice.ErrInvalidCredentials)
	}
	return role, nil
}

// Name returns the provider name.
func (p *StaticProvider) Name() string {
	return "static"
}
