// Package auth provides the token endpoint and the middleware guarding the
// document write routes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"perangkum/internal/handler/http/respond"
	authservice "perangkum/internal/service/auth"
)

type ctxKey string

const ctxClaims ctxKey = "auth_claims"

// maxAuthorizationLength bounds the Authorization header accepted.
const maxAuthorizationLength = 8192

// Authz requires a valid bearer token whose role permits the request's method
// and path. The verified claims are stored in the request context.
func Authz(svc *authservice.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				recordDenied("unauthorized", r.Method)
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}

			claims, err := svc.ParseToken(token)
			if err != nil {
				recordDenied("unauthorized", r.Method)
				respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized: invalid token"))
				return
			}

			if !checkRolePermission(claims.Role, r.Method, r.URL.Path) {
				recordDenied("forbidden", r.Method)
				respond.SafeError(w, http.StatusForbidden, fmt.Errorf("role %q must not %s %s", claims.Role, r.Method, r.URL.Path))
				return
			}

			ctx := context.WithValue(r.Context(), ctxClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by Authz.
func ClaimsFromContext(ctx context.Context) (*authservice.Claims, bool) {
	claims, ok := ctx.Value(ctxClaims).(*authservice.Claims)
	return claims, ok
}

func bearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if len(header) > maxAuthorizationLength {
		return "", errors.New("authorization header too large")
	}
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", errors.New("bearer token required")
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", errors.New("bearer token required")
	}
	return token, nil
}
