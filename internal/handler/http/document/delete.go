package document

import (
	"log/slog"
	"net/http"

	"perangkum/internal/handler/http/respond"
	"perangkum/internal/observability/logging"
)

type DeleteHandler struct{ Svc Service }

// ServeHTTP removes a stored document.
//
// @Summary      Delete a document
// @Tags         documents
// @Security     BearerAuth
// @Param        name  path  string  true  "Document name including extension"
// @Success      204 "No Content"
// @Failure      400 {object} respond.ErrorResponse "Invalid name"
// @Failure      401 {object} respond.ErrorResponse "Authentication required"
// @Failure      403 {object} respond.ErrorResponse "Admin role required"
// @Failure      404 {object} respond.ErrorResponse "Document not found"
// @Router       /documents/{name} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.Svc.Delete(r.Context(), name); err != nil {
		respond.DomainError(w, err)
		return
	}
	logging.WithRequestID(r.Context(), logging.FromContext(r.Context())).Info("document deleted", slog.String("name", name))
	w.WriteHeader(http.StatusNoContent)
}
