// Package extractor decodes stored documents (.txt, .docx, .pdf, .html) into
// plain UTF-8 text ready for summarization.
//
// Paragraphs and pages are joined with "\n". Sentence splitting happens later,
// on the joined text.
//
// Usage:
//
//	reg := extractor.NewRegistry(extractor.DefaultConfig())
//	text, err := reg.Extract(ctx, "laporan.docx", file)
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"perangkum/internal/domain/entity"
	"perangkum/internal/observability/metrics"
)

var (
	// ErrTooLarge is returned when the input exceeds Config.MaxSize.
	ErrTooLarge = errors.New("document too large")

	// ErrMalformed is returned when the input is not a valid file of its format.
	ErrMalformed = errors.New("malformed document")

	// ErrNoText is returned when a well-formed document contains no text.
	ErrNoText = errors.New("document contains no text")
)

// Extractor turns the raw bytes of one format into text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, data []byte) (string, error)

// Extract calls f(ctx, data).
func (f ExtractorFunc) Extract(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

// Config bounds the work an extraction may do.
type Config struct {
	// MaxSize is the largest input accepted, in bytes.
	MaxSize int64
}

// DefaultConfig returns a 20 MiB input limit.
func DefaultConfig() Config {
	return Config{MaxSize: 20 * 1024 * 1024}
}

// Registry dispatches extraction by document format.
type Registry struct {
	cfg        Config
	extractors map[entity.Format]Extractor
}

// NewRegistry returns a registry with the built-in text, DOCX, PDF and HTML
// extractors.
func NewRegistry(cfg Config) *Registry {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultConfig().MaxSize
	}
	return &Registry{
		cfg: cfg,
		extractors: map[entity.Format]Extractor{
			entity.FormatText: ExtractorFunc(extractText),
			entity.FormatDOCX: ExtractorFunc(extractDOCX),
			entity.FormatPDF:  ExtractorFunc(extractPDF),
			entity.FormatHTML: ExtractorFunc(extractHTMLDocument),
		},
	}
}

// Register installs or replaces the extractor for format.
func (r *Registry) Register(format entity.Format, e Extractor) {
	r.extractors[format] = e
}

// Supported reports whether name has an extension the registry can extract.
func (r *Registry) Supported(name string) bool {
	format, err := entity.FormatOf(name)
	if err != nil {
		return false
	}
	_, ok := r.extractors[format]
	return ok
}

// Extract reads src and decodes it according to the extension of name.
func (r *Registry) Extract(ctx context.Context, name string, src io.Reader) (string, error) {
	format, err := entity.FormatOf(name)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(src, r.cfg.MaxSize+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return r.extract(ctx, name, format, data)
}

// ExtractDocument decodes a stored document.
func (r *Registry) ExtractDocument(ctx context.Context, doc *entity.Document) (string, error) {
	format := doc.Format
	if format == "" {
		f, err := entity.FormatOf(doc.Name)
		if err != nil {
			return "", err
		}
		format = f
	}
	return r.extract(ctx, doc.Name, format, doc.Content)
}

func (r *Registry) extract(ctx context.Context, name string, format entity.Format, data []byte) (string, error) {
	if int64(len(data)) > r.cfg.MaxSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, name, r.cfg.MaxSize)
	}
	e, ok := r.extractors[format]
	if !ok {
		return "", fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := time.Now()
	text, err := e.Extract(ctx, data)
	if err != nil {
		return "", fmt.Errorf("extract %s (%s): %w", name, format, err)
	}

	metrics.RecordDocumentExtract(string(format), time.Since(start))
	slog.Debug("document extracted",
		slog.String("name", name),
		slog.String("format", string(format)),
		slog.Int("bytes", len(data)),
		slog.Int("text_length", len(text)),
		slog.Duration("duration", time.Since(start)))
	return text, nil
}

// extractText passes UTF-8 text through, dropping a byte order mark and
// replacing invalid sequences.
func extractText(_ context.Context, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return string(bytes.ToValidUTF8(data, []byte("�"))), nil
}
