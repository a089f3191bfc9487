package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"perangkum/internal/handler/http/respond"
	"perangkum/internal/observability/logging"
	authservice "perangkum/internal/service/auth"
)

// TokenRequest is the body of POST /auth/token.
type TokenRequest struct {
	Username string `json:"username" example:"admin@example.com"`
	Password string `json:"password" example:"your_password"`
}

// TokenResponse carries a signed access token.
type TokenResponse struct {
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Role      string    `json:"role" example:"admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenHandler authenticates a username and password and issues a JWT.
//
// @Summary      Issue an access token
// @Description  Exchanges admin or viewer credentials for a bearer token used by the document write endpoints.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body TokenRequest true "Credentials"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} respond.ErrorResponse "Malformed request"
// @Failure      401 {object} respond.ErrorResponse "Invalid credentials"
// @Failure      429 {object} respond.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} respond.ErrorResponse "Token generation failed"
// @Router       /auth/token [post]
func TokenHandler(svc *authservice.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := logging.WithRequestID(r.Context(), logging.FromContext(r.Context()))

		var req TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("authentication failed", slog.String("reason", "invalid_request"))
			recordAuthRequest("", "failure", time.Since(start))
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}

		role, err := svc.Authenticate(r.Context(), authservice.Credentials{
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			logger.Warn("authentication failed", slog.String("reason", "invalid_credentials"))
			recordAuthRequest("", "failure", time.Since(start))
			respond.SafeError(w, http.StatusUnauthorized, errors.New("invalid credentials"))
			return
		}

		token, expiresAt, err := svc.IssueToken(req.Username, role)
		if err != nil {
			logger.Error("token generation failed", slog.Any("error", err))
			recordAuthRequest(role, "failure", time.Since(start))
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}

		logger.Info("authentication successful",
			slog.String("user", req.Username),
			slog.String("role", role),
			slog.Duration("duration", time.Since(start)))
		recordAuthRequest(role, "success", time.Since(start))

		respond.JSON(w, http.StatusOK, TokenResponse{Token: token, Role: role, ExpiresAt: expiresAt})
	}
}
