// Package http wires the perangkum HTTP API: health probes, metrics,
// request logging, panic recovery and timeouts. Route handlers live in the
// document, summary and auth subpackages.
package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // RFC 3339
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of one health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// Breaker is the view of a circuit breaker the health check needs.
type Breaker interface {
	Name() string
	IsOpen() bool
}

// HealthHandler reports the state of the document store. DB is set for the
// postgres store and DocumentsDir for the filesystem store. An open breaker
// degrades the report without failing it.
type HealthHandler struct {
	DB           *sql.DB
	DocumentsDir string
	Breakers     []Breaker
	Version      string
}

// ServeHTTP answers 200 unless a check is unhealthy, in which case it answers 503.
// A degraded check is reported but keeps the status code at 200.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	switch {
	case h.DB != nil:
		checks["database"] = h.checkDatabase(ctx)
	case h.DocumentsDir != "":
		checks["documents_dir"] = checkDirectory(h.DocumentsDir)
	default:
		checks["store"] = CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}
	for _, b := range h.Breakers {
		checks["breaker:"+b.Name()] = checkBreaker(b)
	}

	status := statusHealthy
	statusCode := http.StatusOK
	for _, c := range checks {
		switch c.Status {
		case statusUnhealthy:
			status = statusUnhealthy
			statusCode = http.StatusServiceUnavailable
		case statusDegraded:
			if status == statusHealthy {
				status = statusDegraded
			}
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

// checkDatabase pings the database and reports connection pool statistics.
func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{Status: statusUnhealthy, Message: err.Error()}
	}

	stats := h.DB.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}

	if stats.MaxOpenConnections == 0 {
		return CheckStatus{
			Status:  statusDegraded,
			Message: "connection pool max connections not configured",
			Details: details,
		}
	}

	utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
	details["utilization_percent"] = utilization
	if utilization >= 80.0 {
		return CheckStatus{
			Status:  statusDegraded,
			Message: "connection pool utilization above 80%",
			Details: details,
		}
	}
	return CheckStatus{Status: statusHealthy, Details: details}
}

func checkBreaker(b Breaker) CheckStatus {
	if b.IsOpen() {
		return CheckStatus{Status: statusDegraded, Message: "circuit open, calls are rejected"}
	}
	return CheckStatus{Status: statusHealthy}
}

// checkDirectory verifies that dir exists and is a directory.
func checkDirectory(dir string) CheckStatus {
	info, err := os.Stat(dir)
	if err != nil {
		return CheckStatus{Status: statusUnhealthy, Message: err.Error()}
	}
	if !info.IsDir() {
		return CheckStatus{Status: statusUnhealthy, Message: fmt.Sprintf("%s is not a directory", dir)}
	}
	return CheckStatus{Status: statusHealthy, Details: map[string]any{"path": dir}}
}

// ReadyHandler is the readiness probe. It answers 200 once the document
// store is reachable.
type ReadyHandler struct {
	DB           *sql.DB
	DocumentsDir string
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	switch {
	case h.DB != nil:
		if err := h.DB.PingContext(ctx); err != nil {
			http.Error(w, "database not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
	case h.DocumentsDir != "":
		if c := checkDirectory(h.DocumentsDir); c.Status != statusHealthy {
			http.Error(w, "documents directory not ready: "+c.Message, http.StatusServiceUnavailable)
			return
		}
	default:
		http.Error(w, "document store not configured", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler is the liveness probe. It always answers 200.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
