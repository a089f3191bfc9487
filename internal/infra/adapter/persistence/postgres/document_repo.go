package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"perangkum/internal/domain/entity"
	"perangkum/internal/repository"
)

// DBTX is the subset of *sql.DB the repository needs. It is also satisfied by
// circuitbreaker.StoreGuard.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type DocumentRepo struct{ db DBTX }

func NewDocumentRepo(db DBTX) repository.DocumentRepository {
	return &DocumentRepo{db: db}
}

func (repo *DocumentRepo) List(ctx context.Context) ([]*entity.Document, error) {
	const query = `
SELECT name, format, size, modified_at
FROM documents
ORDER BY name ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*entity.Document, 0, 32)
	for rows.Next() {
		var doc entity.Document
		if err := rows.Scan(&doc.Name, &doc.Format, &doc.Size, &doc.ModifiedAt); err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

func (repo *DocumentRepo) Get(ctx context.Context, name string) (*entity.Document, error) {
	const query = `
SELECT name, format, content, size, modified_at
FROM documents
WHERE name = $1
LIMIT 1`
	var doc entity.Document
	err := repo.db.QueryRowContext(ctx, query, name).Scan(
		&doc.Name, &doc.Format, &doc.Content, &doc.Size, &doc.ModifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &doc, nil
}

// Save inserts doc or replaces the stored document with the same name.
func (repo *DocumentRepo) Save(ctx context.Context, doc *entity.Document) error {
	const query = `
INSERT INTO documents (name, format, content, size, modified_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (name) DO UPDATE SET
       format      = EXCLUDED.format,
       content     = EXCLUDED.content,
       size        = EXCLUDED.size,
       modified_at = now()
RETURNING modified_at`
	size := int64(len(doc.Content))
	err := repo.db.QueryRowContext(ctx, query,
		doc.Name, string(doc.Format), doc.Content, size,
	).Scan(&doc.ModifiedAt)
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	doc.Size = size
	return nil
}

func (repo *DocumentRepo) Delete(ctx context.Context, name string) error {
	const query = `DELETE FROM documents WHERE name = $1`
	res, err := repo.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete %q: %w", name, entity.ErrNotFound)
	}
	return nil
}
