package export_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perangkum/internal/domain/entity"
	"perangkum/internal/usecase/export"
	"perangkum/pkg/extractive"
)

type stubBatch struct {
	results []entity.SummaryResult
	err     error
}

func (s stubBatch) SummarizeAll(context.Context) ([]entity.SummaryResult, error) {
	return s.results, s.err
}

func TestRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "summaries")
	batch := stubBatch{results: []entity.SummaryResult{
		{Source: "a.txt", Summary: &entity.Summary{Text: "Ringkasan A"}},
		{Source: "b.docx", Summary: &entity.Summary{Text: "Ringkasan B"}},
		{Source: "kosong.txt", Err: fmt.Errorf("summarize: %w", extractive.ErrEmptyVocabulary)},
		{Source: "rusak.pdf", Err: errors.New("malformed pdf")},
	}}

	stats, err := export.NewService(batch, dir).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Documents)
	assert.Equal(t, 2, stats.Written)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Failed)

	data, err := os.ReadFile(filepath.Join(dir, "a.txt"+export.FileSuffix))
	require.NoError(t, err)
	assert.Equal(t, "Ringkasan A\n", string(data))

	_, err = os.Stat(filepath.Join(dir, "kosong.txt"+export.FileSuffix))
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files left behind")
}

func TestRun_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt"+export.FileSuffix)
	require.NoError(t, os.WriteFile(path, []byte("lama\n"), 0o644))

	batch := stubBatch{results: []entity.SummaryResult{
		{Source: "a.txt", Summary: &entity.Summary{Text: "baru"}},
	}}
	_, err := export.NewService(batch, dir).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "baru\n", string(data))
}

func TestRun_SummarizeAllError(t *testing.T) {
	batch := stubBatch{err: errors.New("db down")}

	_, err := export.NewService(batch, t.TempDir()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summarize documents")
}

func TestRun_Cancelled(t *testing.T) {
	batch := stubBatch{results: []entity.SummaryResult{
		{Source: "a.txt", Summary: &entity.Summary{Text: "A"}},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := export.NewService(batch, t.TempDir()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
