package document

import (
	"encoding/json"
	"errors"
	"net/http"

	"perangkum/internal/domain/entity"
	"perangkum/internal/handler/http/respond"
)

type CreateHandler struct{ Svc Service }

// ServeHTTP authors a document from plain text.
//
// @Summary      Create a document
// @Description  Saves content as a txt, docx or pdf document. The format's extension is appended to name unless already present.
// @Tags         documents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        document body CreateRequest true "Document"
// @Success      201 {object} DTO
// @Failure      400 {object} respond.ErrorResponse "Missing name or content"
// @Failure      401 {object} respond.ErrorResponse "Authentication required"
// @Failure      403 {object} respond.ErrorResponse "Admin role required"
// @Failure      413 {object} respond.ErrorResponse "Document too large"
// @Failure      415 {object} respond.ErrorResponse "Format cannot be authored"
// @Failure      429 {object} respond.ErrorResponse "Rate limit exceeded"
// @Router       /documents [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respond.DomainError(w, err)
			return
		}
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	if req.Format == "" {
		req.Format = string(entity.FormatText)
	}
	doc, err := h.Svc.Create(r.Context(), req.Name, req.Content, req.Format)
	if err != nil {
		respond.DomainError(w, err)
		return
	}

	w.Header().Set("Location", "/documents/"+doc.Name)
	respond.JSON(w, http.StatusCreated, toDTO(doc))
}
