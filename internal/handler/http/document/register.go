package document

import (
	"net/http"

	"perangkum/internal/common/pagination"
)

// Config holds the dependencies of the document routes.
type Config struct {
	Service       Service
	Summarizer    Summarizer
	Pagination    pagination.Config
	MaxBodySize   int64
	MaxUploadSize int64
	// WriteGuard protects the write routes. When nil they are not registered.
	WriteGuard func(http.Handler) http.Handler
}

// Register adds the document routes to mux.
func Register(mux *http.ServeMux, cfg Config) {
	mux.Handle("GET /documents", ListHandler{Svc: cfg.Service, PaginationCfg: cfg.Pagination})
	mux.Handle("GET /documents/{name}", GetHandler{Svc: cfg.Service})
	mux.Handle("GET /documents/{name}/summary", SummaryHandler{Svc: cfg.Summarizer})

	if cfg.WriteGuard == nil {
		return
	}
	mux.Handle("POST /documents", cfg.WriteGuard(limitBody(cfg.MaxBodySize, CreateHandler{Svc: cfg.Service})))
	mux.Handle("POST /documents/upload", cfg.WriteGuard(limitBody(cfg.MaxUploadSize, UploadHandler{Svc: cfg.Service})))
	mux.Handle("DELETE /documents/{name}", cfg.WriteGuard(DeleteHandler{Svc: cfg.Service}))
}

func limitBody(n int64, next http.Handler) http.Handler {
	if n <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		next.ServeHTTP(w, r)
	})
}
