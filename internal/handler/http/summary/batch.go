package summary

import (
	"fmt"
	"net/http"

	"perangkum/internal/domain/entity"
	"perangkum/internal/handler/http/respond"
)

// MaxBatchSize caps the number of texts in one batch request.
const MaxBatchSize = 100

type BatchHandler struct{ Svc Service }

// ServeHTTP summarizes several texts independently.
//
// @Summary      Summarize several texts
// @Description  Each text is summarized on its own; results keep request order and are labelled text[i]. A text that cannot be summarized yields an error entry.
// @Tags         summaries
// @Accept       json
// @Produce      json
// @Param        request body BatchRequest true "Texts to summarize"
// @Success      200 {object} BatchResponse
// @Failure      400 {object} respond.ErrorResponse "Empty or oversized batch"
// @Failure      413 {object} respond.ErrorResponse "Body too large"
// @Failure      504 {object} respond.ErrorResponse "Request timeout"
// @Router       /summaries/batch [post]
func (h BatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decode(w, r, &req) {
		return
	}
	switch {
	case len(req.Texts) == 0:
		respond.DomainError(w, &entity.ValidationError{Field: "texts", Message: "texts is required"})
		return
	case len(req.Texts) > MaxBatchSize:
		respond.DomainError(w, &entity.ValidationError{
			Field:   "texts",
			Message: fmt.Sprintf("texts must not contain more than %d items", MaxBatchSize),
		})
		return
	}

	results, err := h.Svc.SummarizeBatch(r.Context(), req.Texts)
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toBatchResponse(results))
}
