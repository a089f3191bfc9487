package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"perangkum/internal/domain/entity"
	"perangkum/internal/observability/logging"
	"perangkum/internal/observability/metrics"
	"perangkum/internal/repository"
)

// DefaultMaxSize is the upload size limit used when Config.MaxSize is zero.
const DefaultMaxSize int64 = 20 << 20

// TextExtractor decodes document bytes into plain text by file extension.
type TextExtractor interface {
	Supported(name string) bool
	Extract(ctx context.Context, name string, r io.Reader) (string, error)
}

// Encoder renders plain text into the bytes of a document format.
type Encoder func(text string) ([]byte, error)

// Config holds the document service limits and the encoders used by Create.
type Config struct {
	MaxSize  int64
	Encoders map[entity.Format]Encoder
}

// Content is a stored document together with its extracted text.
type Content struct {
	Document *entity.Document
	Text     string
}

// Service provides document management use cases.
type Service struct {
	Repo      repository.DocumentRepository
	Extractor TextExtractor
	config    Config
	now       func() time.Time
}

// NewService creates a document Service. Plain text encoding is always
// available; other writable formats need an entry in cfg.Encoders.
func NewService(repo repository.DocumentRepository, extractor TextExtractor, cfg Config) *Service {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	encoders := map[entity.Format]Encoder{
		entity.FormatText: func(text string) ([]byte, error) { return []byte(text), nil },
	}
	for f, e := range cfg.Encoders {
		encoders[f] = e
	}
	cfg.Encoders = encoders
	return &Service{Repo: repo, Extractor: extractor, config: cfg, now: time.Now}
}

// List returns every stored document sorted by name, without content.
func (s *Service) List(ctx context.Context) ([]*entity.Document, error) {
	docs, err := s.Repo.List(ctx)
	metrics.RecordDocumentOperation("list", err)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	metrics.UpdateDocumentsTotal(len(docs))
	return docs, nil
}

// Get returns the named document and its extracted text. A missing document
// yields an error wrapping entity.ErrNotFound.
func (s *Service) Get(ctx context.Context, name string) (*Content, error) {
	if err := entity.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	doc, err := s.Repo.Get(ctx, name)
	if err != nil {
		metrics.RecordDocumentOperation("get", err)
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		err = fmt.Errorf("%w: document %q", entity.ErrNotFound, name)
		metrics.RecordDocumentOperation("get", err)
		return nil, err
	}

	text, err := s.Extractor.Extract(ctx, doc.Name, bytes.NewReader(doc.Content))
	metrics.RecordDocumentOperation("get", err)
	if err != nil {
		return nil, fmt.Errorf("extract document: %w", err)
	}
	return &Content{Document: doc, Text: text}, nil
}

// Upload stores the raw bytes read from r under name after checking that
// they decode according to the name's extension. An existing document with
// the same name is replaced.
func (s *Service) Upload(ctx context.Context, name string, r io.Reader) (*entity.Document, error) {
	doc, err := s.upload(ctx, name, r)
	metrics.RecordDocumentOperation("upload", err)
	return doc, err
}

func (s *Service) upload(ctx context.Context, name string, r io.Reader) (*entity.Document, error) {
	name = strings.TrimSpace(name)
	if err := entity.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	if _, err := entity.FormatOf(name); err != nil {
		return nil, err
	}
	if !s.Extractor.Supported(name) {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, name)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.config.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.config.MaxSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrDocumentTooLarge, s.config.MaxSize)
	}
	if len(data) == 0 {
		return nil, &entity.ValidationError{Field: "file", Message: "file is empty"}
	}

	text, err := s.Extractor.Extract(ctx, name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	doc, err := s.save(ctx, name, data)
	if err != nil {
		return nil, err
	}
	logging.WithRequestID(ctx, logging.FromContext(ctx)).Info("document uploaded",
		slog.String("name", doc.Name),
		slog.Int64("size", doc.Size),
		slog.Int("text_length", len(text)))
	return doc, nil
}

// Create authors a document from plain text. The format's extension is
// appended to name unless already present. Only writable formats (txt, docx, pdf)
// are accepted.
func (s *Service) Create(ctx context.Context, name, content, format string) (*entity.Document, error) {
	doc, err := s.create(ctx, name, content, format)
	metrics.RecordDocumentOperation("create", err)
	return doc, err
}

func (s *Service) create(ctx context.Context, name, content, format string) (*entity.Document, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &entity.ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(content) == "" {
		return nil, &entity.ValidationError{Field: "content", Message: "content is required"}
	}

	f, err := entity.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	encode, ok := s.config.Encoders[f]
	if !f.Writable() || !ok {
		return nil, fmt.Errorf("%w: cannot author %s documents", entity.ErrUnsupportedFormat, f)
	}

	fullName := entity.WithExtension(name, f)
	if err := entity.ValidateDocumentName(fullName); err != nil {
		return nil, err
	}

	data, err := encode(content)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}
	if int64(len(data)) > s.config.MaxSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrDocumentTooLarge, s.config.MaxSize)
	}

	doc, err := s.save(ctx, fullName, data)
	if err != nil {
		return nil, err
	}
	logging.WithRequestID(ctx, logging.FromContext(ctx)).Info("document created",
		slog.String("name", doc.Name),
		slog.String("format", string(f)))
	return doc, nil
}

// Delete removes the named document. A missing document yields an error
// wrapping entity.ErrNotFound.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := entity.ValidateDocumentName(name); err != nil {
		return err
	}
	err := s.Repo.Delete(ctx, name)
	metrics.RecordDocumentOperation("delete", err)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, name string, data []byte) (*entity.Document, error) {
	doc := &entity.Document{
		Name:       name,
		Size:       int64(len(data)),
		Content:    data,
		ModifiedAt: s.now(),
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if err := s.Repo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	return doc, nil
}
