package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthServer exposes the worker probes and its Prometheus metrics.
// /health always answers 200. /health/ready answers 503 until SetReady(true)
// and includes the outcome of the most recent export.
type HealthServer struct {
	addr   string
	logger *slog.Logger
	ready  atomic.Bool

	mu         sync.Mutex
	lastExport time.Time
	lastError  string
}

// HealthStatus is the JSON body of both probes.
type HealthStatus struct {
	Status     string     `json:"status"`
	LastExport *time.Time `json:"last_export,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
}

func NewHealthServer(addr string, logger *slog.Logger) *HealthServer {
	return &HealthServer{addr: addr, logger: logger}
}

func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		h.write(w, http.StatusOK, HealthStatus{Status: "ok"})
	})
	mux.HandleFunc("GET /health/ready", h.readiness)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// SetReady flips readiness. The cron loop sets it once jobs are scheduled and
// clears it on shutdown.
func (h *HealthServer) SetReady(ready bool) {
	if h.ready.Swap(ready) != ready {
		h.logger.Info("worker readiness changed", slog.Bool("ready", ready))
	}
}

// RecordExport stores the outcome of a finished export run. errMsg is empty
// for a successful run.
func (h *HealthServer) RecordExport(finishedAt time.Time, errMsg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastExport = finishedAt
	h.lastError = errMsg
}

func (h *HealthServer) readiness(w http.ResponseWriter, _ *http.Request) {
	status := HealthStatus{Status: "ok"}
	h.mu.Lock()
	if !h.lastExport.IsZero() {
		at := h.lastExport
		status.LastExport = &at
		status.LastError = h.lastError
	}
	h.mu.Unlock()

	code := http.StatusOK
	if !h.ready.Load() {
		status.Status = "not ready"
		code = http.StatusServiceUnavailable
	}
	h.write(w, code, status)
}

func (h *HealthServer) write(w http.ResponseWriter, code int, body HealthStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}

// Start serves until ctx is cancelled. It then drains connections for up to
// five seconds and returns http.ErrServerClosed.
func (h *HealthServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              h.addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		h.logger.Info("health server listening", slog.String("addr", h.addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("health server failed", slog.Any("error", err))
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	h.logger.Info("health server stopped")
	return http.ErrServerClosed
}
