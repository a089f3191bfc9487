package http

import (
	"net/http"

	"perangkum/internal/handler/http/respond"
)

// Request line and header limits applied before routing.
const (
	maxAuthorizationHeader = 8192
	maxPathLength          = 2048
	maxQueryLength         = 1024
)

// InputValidation rejects requests with an oversized Authorization header,
// URL path or query string. Body limits are applied per route with
// LimitRequestBody.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case len(r.Header.Get("Authorization")) > maxAuthorizationHeader:
				respond.JSON(w, http.StatusBadRequest, respond.ErrorResponse{Error: "authorization header too large"})
			case len(r.URL.Path) > maxPathLength:
				respond.JSON(w, http.StatusRequestURITooLong, respond.ErrorResponse{Error: "URI too long"})
			case len(r.URL.RawQuery) > maxQueryLength:
				respond.JSON(w, http.StatusRequestURITooLong, respond.ErrorResponse{Error: "query string too long"})
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
