package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBreaker struct {
	name string
	open bool
}

func (b fakeBreaker) Name() string { return b.name }
func (b fakeBreaker) IsOpen() bool { return b.open }

func newPingDB(t *testing.T, maxOpen int) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(maxOpen)
	return db, mock
}

func getHealth(t *testing.T, h http.Handler) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestHealthHandler_Database(t *testing.T) {
	tests := []struct {
		name        string
		maxOpen     int
		pingErr     error
		wantCode    int
		wantStatus  string
		wantMessage string
	}{
		{name: "healthy", maxOpen: 10, wantCode: http.StatusOK, wantStatus: statusHealthy},
		{name: "ping fails", maxOpen: 10, pingErr: sql.ErrConnDone, wantCode: http.StatusServiceUnavailable, wantStatus: statusUnhealthy},
		{
			name:        "unbounded pool",
			maxOpen:     0,
			wantCode:    http.StatusOK,
			wantStatus:  statusDegraded,
			wantMessage: "connection pool max connections not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newPingDB(t, tt.maxOpen)
			mock.ExpectPing().WillReturnError(tt.pingErr)

			rec, resp := getHealth(t, &HealthHandler{DB: db, Version: "1.2.0"})

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "1.2.0", resp.Version)
			assert.NotEmpty(t, resp.Timestamp)
			check := resp.Checks["database"]
			assert.Equal(t, tt.wantStatus, check.Status)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, check.Message)
			}
			if tt.pingErr == nil && tt.maxOpen > 0 {
				assert.Contains(t, check.Details, "utilization_percent")
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHealthHandler_DocumentsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "catatan.txt")
	require.NoError(t, os.WriteFile(file, []byte("Budi pergi ke pasar."), 0o600))

	tests := []struct {
		name     string
		dir      string
		wantCode int
		want     string
	}{
		{"existing folder", dir, http.StatusOK, statusHealthy},
		{"missing folder", filepath.Join(dir, "missing"), http.StatusServiceUnavailable, statusUnhealthy},
		{"file instead of folder", file, http.StatusServiceUnavailable, statusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := getHealth(t, &HealthHandler{DocumentsDir: tt.dir})
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.want, resp.Checks["documents_dir"].Status)
		})
	}
}

func TestHealthHandler_NoStoreConfigured(t *testing.T) {
	rec, resp := getHealth(t, &HealthHandler{})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, statusUnhealthy, resp.Status)
	assert.Equal(t, "not configured", resp.Checks["store"].Message)
}

func TestHealthHandler_Breakers(t *testing.T) {
	h := &HealthHandler{
		DocumentsDir: t.TempDir(),
		Breakers:     []Breaker{fakeBreaker{name: "document-store", open: true}, fakeBreaker{name: "page-fetch"}},
	}
	rec, resp := getHealth(t, h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, statusDegraded, resp.Status)
	assert.Equal(t, statusDegraded, resp.Checks["breaker:document-store"].Status)
	assert.Equal(t, statusHealthy, resp.Checks["breaker:page-fetch"].Status)
}

func TestHealthHandler_Headers(t *testing.T) {
	rec := httptest.NewRecorder()
	(&HealthHandler{DocumentsDir: t.TempDir()}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestReadyHandler(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		db, mock := newPingDB(t, 5)
		mock.ExpectPing()
		rec := httptest.NewRecorder()
		(&ReadyHandler{DB: db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", rec.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		db, mock := newPingDB(t, 5)
		mock.ExpectPing().WillReturnError(sql.ErrConnDone)
		rec := httptest.NewRecorder()
		(&ReadyHandler{DB: db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "database not ready")
	})

	t.Run("folder", func(t *testing.T) {
		rec := httptest.NewRecorder()
		(&ReadyHandler{DocumentsDir: t.TempDir()}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		(&ReadyHandler{DocumentsDir: "/nonexistent/perangkum"}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "documents directory not ready")
	})

	t.Run("nothing configured", func(t *testing.T) {
		rec := httptest.NewRecorder()
		(&ReadyHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "document store not configured")
	})
}

func TestLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	(&LiveHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}
