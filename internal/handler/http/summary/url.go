package summary

import (
	"net/http"
	"strings"

	"perangkum/internal/domain/entity"
	"perangkum/internal/handler/http/respond"
)

type URLHandler struct{ Svc Service }

// ServeHTTP fetches a web page and summarizes its readable text.
//
// @Summary      Summarize a web page
// @Description  Downloads the page, extracts the article body with readability and summarizes it. Private network addresses are refused.
// @Tags         summaries
// @Accept       json
// @Produce      json
// @Param        request body URLRequest true "Page URL"
// @Success      200 {object} entity.Summary
// @Failure      400 {object} respond.ErrorResponse "Invalid or private URL"
// @Failure      422 {object} respond.ErrorResponse "Nothing to score after stop-word removal"
// @Failure      502 {object} respond.ErrorResponse "Fetch failed"
// @Failure      503 {object} respond.ErrorResponse "Upstream temporarily unavailable"
// @Failure      504 {object} respond.ErrorResponse "Request timeout"
// @Router       /summaries/url [post]
func (h URLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		respond.DomainError(w, &entity.ValidationError{Field: "url", Message: "url is required"})
		return
	}

	sum, err := h.Svc.SummarizeURL(r.Context(), req.URL)
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, sum)
}
