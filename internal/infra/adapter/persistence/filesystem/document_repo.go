// Package filesystem stores documents as plain files in a single directory,
// one file per document.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"perangkum/internal/domain/entity"
	"perangkum/internal/repository"
)

// DocumentRepo stores documents as plain files in one directory.
type DocumentRepo struct {
	root string
}

// NewDocumentRepo returns a repository rooted at dir. The directory is created
// on first Save; a missing directory lists as empty.
func NewDocumentRepo(dir string) repository.DocumentRepository {
	return &DocumentRepo{root: dir}
}

// List returns files with a supported extension, sorted by name.
// Subdirectories, hidden files and unsupported extensions are skipped.
func (repo *DocumentRepo) List(ctx context.Context) ([]*entity.Document, error) {
	entries, err := os.ReadDir(repo.root)
	if errors.Is(err, fs.ErrNotExist) {
		return []*entity.Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}

	// os.ReadDir returns entries sorted by filename.
	docs := make([]*entity.Document, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() || entity.ValidateDocumentName(e.Name()) != nil {
			continue
		}
		format, err := entity.FormatOf(e.Name())
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			slog.Debug("skipping document", slog.String("name", e.Name()), slog.Any("error", err))
			continue
		}
		docs = append(docs, &entity.Document{
			Name:       e.Name(),
			Format:     format,
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	return docs, nil
}

// Get reads the named file. It returns nil, nil when the file is missing or
// is not a regular file.
func (repo *DocumentRepo) Get(ctx context.Context, name string) (*entity.Document, error) {
	path, err := repo.path(name)
	if err != nil {
		return nil, err
	}
	format, err := entity.FormatOf(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &entity.Document{
		Name:       name,
		Format:     format,
		Size:       int64(len(content)),
		Content:    content,
		ModifiedAt: info.ModTime(),
	}, nil
}

// Save writes the document through a temporary file and renames it into
// place, so readers never observe a partially written file.
func (repo *DocumentRepo) Save(ctx context.Context, doc *entity.Document) error {
	path, err := repo.path(doc.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(repo.root, 0o755); err != nil {
		return fmt.Errorf("Save: %w", err)
	}

	tmp, err := os.CreateTemp(repo.root, ".upload-*")
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(doc.Content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("Save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("Save: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	doc.Size = info.Size()
	doc.ModifiedAt = info.ModTime()
	return nil
}

// Delete removes the named file. A missing file yields an error wrapping
// entity.ErrNotFound.
func (repo *DocumentRepo) Delete(ctx context.Context, name string) error {
	path, err := repo.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("Delete %q: %w", name, entity.ErrNotFound)
		}
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

// path resolves name inside the root, rejecting anything that could escape it.
func (repo *DocumentRepo) path(name string) (string, error) {
	if err := entity.ValidateDocumentName(name); err != nil {
		return "", err
	}
	return filepath.Join(repo.root, name), nil
}
