package repository

import (
	"context"

	"perangkum/internal/domain/entity"
)

// DocumentRepository stores raw document files keyed by name.
//
// Get returns (nil, nil) when no document has the given name. Delete returns
// an error wrapping entity.ErrNotFound in that case. List returns documents
// sorted by name without their Content.
type DocumentRepository interface {
	List(ctx context.Context) ([]*entity.Document, error)
	Get(ctx context.Context, name string) (*entity.Document, error)
	Save(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, name string) error
}
