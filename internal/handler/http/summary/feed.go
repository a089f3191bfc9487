package summary

import (
	"log/slog"
	"net/http"
	"strings"

	"perangkum/internal/domain/entity"
	"perangkum/internal/handler/http/respond"
	"perangkum/internal/observability/logging"
)

type FeedHandler struct{ Svc Service }

// ServeHTTP summarizes every item of an RSS or Atom feed.
//
// @Summary      Summarize a feed
// @Description  Fetches the feed and summarizes each item's content. Items that cannot be summarized are reported with an error instead of failing the request.
// @Tags         summaries
// @Accept       json
// @Produce      json
// @Param        request body URLRequest true "Feed URL"
// @Success      200 {object} BatchResponse
// @Failure      400 {object} respond.ErrorResponse "Invalid or private URL"
// @Failure      502 {object} respond.ErrorResponse "Feed could not be fetched or parsed"
// @Failure      503 {object} respond.ErrorResponse "Upstream temporarily unavailable"
// @Failure      504 {object} respond.ErrorResponse "Request timeout"
// @Router       /summaries/feed [post]
func (h FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		respond.DomainError(w, &entity.ValidationError{Field: "url", Message: "url is required"})
		return
	}

	results, err := h.Svc.SummarizeFeed(r.Context(), req.URL)
	if err != nil {
		respond.DomainError(w, err)
		return
	}

	resp := toBatchResponse(results)
	logging.WithRequestID(r.Context(), logging.FromContext(r.Context())).Info("feed summarized",
		slog.String("feed", req.URL),
		slog.Int("succeeded", resp.Succeeded),
		slog.Int("failed", resp.Failed))
	respond.JSON(w, http.StatusOK, resp)
}
