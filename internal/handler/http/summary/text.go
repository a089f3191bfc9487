package summary

import (
	"net/http"
	"strings"

	"perangkum/internal/domain/entity"
	"perangkum/internal/handler/http/respond"
)

// TextHandler serves POST /summaries.
type TextHandler struct{ Svc Service }

// ServeHTTP summarizes the text in the request body.
//
// @Summary      Summarize text
// @Description  Scores every sentence with TF-IDF and returns the highest scoring ones, best first, joined with ". ".
// @Tags         summaries
// @Accept       json
// @Produce      json
// @Param        request body TextRequest true "Text to summarize"
// @Success      200 {object} entity.Summary
// @Failure      400 {object} respond.ErrorResponse "Missing text"
// @Failure      413 {object} respond.ErrorResponse "Body too large"
// @Failure      422 {object} respond.ErrorResponse "Nothing to score after stop-word removal"
// @Failure      429 {object} respond.ErrorResponse "Rate limit exceeded"
// @Router       /summaries [post]
func (h TextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respond.DomainError(w, &entity.ValidationError{Field: "text", Message: "text is required"})
		return
	}

	sum, err := h.Svc.SummarizeText(r.Context(), req.Text)
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, sum)
}
