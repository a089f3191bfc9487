// Package export writes the summaries of all stored documents to a folder,
// one "<name>.summary.txt" file per document. The worker runs it on a schedule.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"perangkum/internal/domain/entity"
	"perangkum/internal/observability/logging"
	"perangkum/internal/observability/metrics"
	"perangkum/pkg/extractive"
)

// FileSuffix is appended to a document name to form its export file name.
const FileSuffix = ".summary.txt"

// BatchSummarizer summarizes every stored document.
type BatchSummarizer interface {
	SummarizeAll(ctx context.Context) ([]entity.SummaryResult, error)
}

// Stats reports the outcome of one export run.
type Stats struct {
	Documents int
	Written   int
	// Skipped counts documents with nothing to score.
	Skipped  int
	Failed   int
	Duration time.Duration
}

// Service exports summaries to Dir.
type Service struct {
	Summaries BatchSummarizer
	Dir       string
}

// NewService creates an export Service writing into dir.
func NewService(summaries BatchSummarizer, dir string) *Service {
	return &Service{Summaries: summaries, Dir: dir}
}

// Run summarizes every document and writes each summary atomically. A
// document that fails is counted and skipped; the run fails only when the
// documents cannot be listed, the folder cannot be created or ctx ends.
func (s *Service) Run(ctx context.Context) (*Stats, error) {
	stats, err := s.run(ctx)
	metrics.RecordExportRun(stats.Duration, stats.Written, stats.Skipped, stats.Failed, err)
	if err != nil {
		return stats, err
	}
	return stats, nil
}

func (s *Service) run(ctx context.Context) (*Stats, error) {
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))
	start := time.Now()
	stats := &Stats{}
	defer func() { stats.Duration = time.Since(start) }()

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return stats, fmt.Errorf("create export dir: %w", err)
	}

	results, err := s.Summaries.SummarizeAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("summarize documents: %w", err)
	}
	stats.Documents = len(results)

	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		switch {
		case errors.Is(r.Err, extractive.ErrEmptyVocabulary):
			stats.Skipped++
			logger.Info("nothing to summarize, skipping document", slog.String("name", r.Source))
			continue
		case r.Err != nil:
			stats.Failed++
			logger.Warn("summarization failed, skipping document",
				slog.String("name", r.Source),
				slog.Any("error", r.Err))
			continue
		}

		if err := s.write(r.Source, r.Summary.Text); err != nil {
			stats.Failed++
			logger.Warn("failed to write summary",
				slog.String("name", r.Source),
				slog.Any("error", err))
			continue
		}
		stats.Written++
	}

	logger.Info("export completed",
		slog.Int("documents", stats.Documents),
		slog.Int("written", stats.Written),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", time.Since(start)))
	return stats, nil
}

// write replaces Dir/<name>.summary.txt through a temporary file.
func (s *Service) write(name, text string) error {
	tmp, err := os.CreateTemp(s.Dir, ".export-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(text + "\n"); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.Dir, name+FileSuffix))
}
