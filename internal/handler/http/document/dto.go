// Package document provides the HTTP handlers for the document store:
// listing, reading, authoring, uploading, deleting and summarizing stored
// documents.
package document

import (
	"context"
	"io"
	"time"

	"perangkum/internal/domain/entity"
	docUC "perangkum/internal/usecase/document"
)

// Service is the document use case consumed by the handlers.
type Service interface {
	List(ctx context.Context) ([]*entity.Document, error)
	Get(ctx context.Context, name string) (*docUC.Content, error)
	Upload(ctx context.Context, name string, r io.Reader) (*entity.Document, error)
	Create(ctx context.Context, name, content, format string) (*entity.Document, error)
	Delete(ctx context.Context, name string) error
}

// Summarizer summarizes a stored document by name.
type Summarizer interface {
	SummarizeDocument(ctx context.Context, name string) (*entity.Summary, error)
}

// DTO describes a stored document.
type DTO struct {
	Name       string    `json:"name" example:"laporan.docx"`
	Format     string    `json:"format" example:"docx"`
	Size       int64     `json:"size" example:"18231"`
	ModifiedAt time.Time `json:"modified_at" example:"2026-03-01T09:30:00Z"`
}

// ContentDTO is a stored document with its extracted text.
type ContentDTO struct {
	DTO
	Text string `json:"text" example:"Budi pergi ke pasar. Budi membeli buah."`
}

// CreateRequest is the body of POST /documents.
type CreateRequest struct {
	Name    string `json:"name" example:"catatan"`
	Content string `json:"content" example:"Budi pergi ke pasar. Budi membeli buah."`
	// Format is "txt", "docx" or "pdf". Default: "txt"
	Format string `json:"format,omitempty" example:"txt"`
}

func toDTO(d *entity.Document) DTO {
	return DTO{
		Name:       d.Name,
		Format:     string(d.Format),
		Size:       d.Size,
		ModifiedAt: d.ModifiedAt,
	}
}
