package summary

import "net/http"

// Register adds the summary routes to mux. Request bodies are capped at
// maxBodySize bytes when it is positive.
func Register(mux *http.ServeMux, svc Service, maxBodySize int64) {
	limit := func(h http.Handler) http.Handler {
		if maxBodySize <= 0 {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
			h.ServeHTTP(w, r)
		})
	}

	mux.Handle("POST /summaries", limit(TextHandler{Svc: svc}))
	mux.Handle("POST /summaries/url", limit(URLHandler{Svc: svc}))
	mux.Handle("POST /summaries/feed", limit(FeedHandler{Svc: svc}))
	mux.Handle("POST /summaries/batch", limit(BatchHandler{Svc: svc}))
}
