package document

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"perangkum/internal/domain/entity"
	"perangkum/internal/handler/http/respond"
)

// uploadField is the multipart field carrying the file.
const uploadField = "file"

type UploadHandler struct{ Svc Service }

// ServeHTTP stores an uploaded file under its own name.
//
// @Summary      Upload a document
// @Description  Accepts a txt, pdf, docx or html file as multipart field "file". The file must be readable by the text extractor.
// @Tags         documents
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Document file"
// @Success      201 {object} DTO
// @Failure      400 {object} respond.ErrorResponse "Missing file or invalid name"
// @Failure      401 {object} respond.ErrorResponse "Authentication required"
// @Failure      403 {object} respond.ErrorResponse "Admin role required"
// @Failure      413 {object} respond.ErrorResponse "Document too large"
// @Failure      415 {object} respond.ErrorResponse "Unsupported format"
// @Failure      422 {object} respond.ErrorResponse "Unreadable document"
// @Failure      429 {object} respond.ErrorResponse "Rate limit exceeded"
// @Router       /documents/upload [post]
func (h UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("multipart body is required"))
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				respond.DomainError(w, err)
				return
			}
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid multipart body"))
			return
		}
		if part.FormName() != uploadField {
			_ = part.Close()
			continue
		}

		name := filepath.Base(part.FileName())
		if part.FileName() == "" {
			name = ""
		}
		doc, err := h.Svc.Upload(r.Context(), name, part)
		_ = part.Close()
		if err != nil {
			respond.DomainError(w, err)
			return
		}

		w.Header().Set("Location", "/documents/"+doc.Name)
		respond.JSON(w, http.StatusCreated, toDTO(doc))
		return
	}

	respond.DomainError(w, &entity.ValidationError{Field: uploadField, Message: "file is required"})
}
