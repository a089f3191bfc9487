package document

import (
	"net/http"

	"perangkum/internal/handler/http/respond"
)

type SummaryHandler struct{ Svc Summarizer }

// ServeHTTP summarizes a stored document.
//
// @Summary      Summarize a document
// @Description  Extracts the text of a stored document and returns its top-ranked sentences.
// @Tags         documents
// @Produce      json
// @Param        name  path  string  true  "Document name including extension"
// @Success      200 {object} entity.Summary
// @Failure      400 {object} respond.ErrorResponse "Invalid name"
// @Failure      404 {object} respond.ErrorResponse "Document not found"
// @Failure      415 {object} respond.ErrorResponse "Unsupported format"
// @Failure      422 {object} respond.ErrorResponse "Nothing to summarize"
// @Router       /documents/{name}/summary [get]
func (h SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s, err := h.Svc.SummarizeDocument(r.Context(), r.PathValue("name"))
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, s)
}
