// Package respond writes JSON responses and maps application errors to HTTP
// status codes without leaking internal details.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error" example:"validation error on field 'name': name is required"`
}

// JSON writes v with the given status. A nil v writes headers only.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode JSON response", slog.Int("status_code", code), slog.Any("error", err))
	}
}

func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, ErrorResponse{Error: err.Error()})
}

// userFacing lists fragments of messages written for callers, such as
// validation failures. Only 4xx messages containing one are echoed back.
var userFacing = []string{
	"required", "invalid", "not found", "already exists", "unsupported",
	"must be", "must not", "cannot be", "too long", "too short", "too large",
}

func isUserFacing(msg string) bool {
	lower := strings.ToLower(msg)
	return slices.ContainsFunc(userFacing, func(s string) bool { return strings.Contains(lower, s) })
}

// SafeError echoes err for user-facing 4xx errors. Anything else is logged
// and replaced by "internal server error".
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}
	if code < http.StatusInternalServerError && isUserFacing(err.Error()) {
		JSON(w, code, ErrorResponse{Error: err.Error()})
		return
	}
	slog.Default().Error("internal server error",
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, ErrorResponse{Error: "internal server error"})
}

// AppError pairs the message shown to the caller with the error that is
// only logged.
type AppError struct {
	UserMsg string
	Err     error
	Code    int
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.UserMsg
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// AppErrorResponse writes an *AppError with its own code and user message.
// Other errors go through SafeError with code.
func AppErrorResponse(w http.ResponseWriter, code int, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		SafeError(w, code, err)
		return
	}
	if appErr.Err != nil {
		level := slog.LevelWarn
		if appErr.Code >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Default().Log(context.Background(), level, "request failed",
			slog.Int("code", appErr.Code),
			slog.String("user_message", appErr.UserMsg),
			slog.String("error", SanitizeError(appErr.Err)))
	}
	JSON(w, appErr.Code, ErrorResponse{Error: appErr.UserMsg})
}
