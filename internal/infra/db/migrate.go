package db

import (
	"context"
	"database/sql"
)

// MigrateUp creates the documents table and its indexes. It is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS documents (
    name        TEXT PRIMARY KEY,
    format      VARCHAR(8) NOT NULL,
    content     BYTEA NOT NULL,
    size        BIGINT NOT NULL,
    modified_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT chk_documents_format CHECK (format IN ('txt', 'pdf', 'docx', 'html'))
)`); err != nil {
		return err
	}

	indexes := []string{
		// export job walks documents newest first
		`CREATE INDEX IF NOT EXISTS idx_documents_modified_at ON documents(modified_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_format ON documents(format)`,
	}
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown drops the documents table. All stored documents are lost.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_documents_format`,
		`DROP INDEX IF EXISTS idx_documents_modified_at`,
		`DROP TABLE IF EXISTS documents`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
