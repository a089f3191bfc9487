package document

import (
	"net/http"

	"perangkum/internal/handler/http/respond"
)

type GetHandler struct{ Svc Service }

// ServeHTTP returns a document's metadata and extracted text.
//
// @Summary      Get a document
// @Description  Reads a stored document and returns its text, decoded according to its extension.
// @Tags         documents
// @Produce      json
// @Param        name  path  string  true  "Document name including extension"
// @Success      200 {object} ContentDTO
// @Failure      400 {object} respond.ErrorResponse "Invalid name"
// @Failure      404 {object} respond.ErrorResponse "Document not found"
// @Failure      415 {object} respond.ErrorResponse "Unsupported format"
// @Failure      422 {object} respond.ErrorResponse "Unreadable document"
// @Router       /documents/{name} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	content, err := h.Svc.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, ContentDTO{
		DTO:  toDTO(content.Document),
		Text: content.Text,
	})
}
