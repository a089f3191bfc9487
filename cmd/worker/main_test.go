package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perangkum/internal/domain/entity"
	"perangkum/internal/infra/notifier"
	workerPkg "perangkum/internal/infra/worker"
	"perangkum/internal/observability/logging"
	"perangkum/internal/usecase/export"
)

var testMetrics = workerPkg.NewWorkerMetrics()

type stubSummaries struct {
	results []entity.SummaryResult
	err     error
}

func (s stubSummaries) SummarizeAll(context.Context) ([]entity.SummaryResult, error) {
	return s.results, s.err
}

type capturingNotifier struct {
	reports []notifier.Report
}

func (c *capturingNotifier) NotifyExport(_ context.Context, r notifier.Report) error {
	c.reports = append(c.reports, r)
	return nil
}

func newTestJob(t *testing.T, summaries export.BatchSummarizer, cfg notifier.Config) (*exportJob, *capturingNotifier) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "out")
	sink := &capturingNotifier{}
	wcfg := workerPkg.DefaultConfig()
	wcfg.ExportDir = dir
	wcfg.ExportTimeout = time.Minute
	return &exportJob{
		logger:    logging.NewTextLogger(os.Stderr),
		svc:       export.NewService(summaries, dir),
		cfg:       &wcfg,
		metrics:   testMetrics,
		notifyCfg: cfg,
		notifier:  sink,
	}, sink
}

func TestExportJob_ReportsSuccess(t *testing.T) {
	job, sink := newTestJob(t, stubSummaries{results: []entity.SummaryResult{
		{Source: "a.txt", Summary: &entity.Summary{Source: "a.txt", Text: "Ibu memasak di dapur."}},
	}}, notifier.Config{})

	require.NoError(t, job.run(context.Background()))

	written, err := os.ReadFile(filepath.Join(job.cfg.ExportDir, "a.txt"+export.FileSuffix))
	require.NoError(t, err)
	assert.Contains(t, string(written), "Ibu memasak di dapur.")

	require.Len(t, sink.reports, 1)
	report := sink.reports[0]
	assert.True(t, report.Succeeded())
	assert.Equal(t, 1, report.Documents)
	assert.Equal(t, 1, report.Written)
	assert.Equal(t, job.cfg.ExportDir, report.Dir)
}

func TestExportJob_ReportsFailure(t *testing.T) {
	job, sink := newTestJob(t, stubSummaries{err: errors.New("list documents: connection refused")}, notifier.Config{OnlyFailures: true})
	job.health = workerPkg.NewHealthServer(":0", logging.NewTextLogger(os.Stderr))
	job.health.SetReady(true)

	err := job.run(context.Background())
	require.Error(t, err)

	rec := httptest.NewRecorder()
	job.health.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Contains(t, rec.Body.String(), "connection refused")

	require.Len(t, sink.reports, 1)
	assert.False(t, sink.reports[0].Succeeded())
	assert.Equal(t, "Summary export failed", sink.reports[0].Title())
}

func TestExportJob_OnlyFailuresSkipsCleanRun(t *testing.T) {
	job, sink := newTestJob(t, stubSummaries{}, notifier.Config{OnlyFailures: true})

	require.NoError(t, job.run(context.Background()))
	assert.Empty(t, sink.reports)
}

func TestRunOnce_ExitCode(t *testing.T) {
	ok, _ := newTestJob(t, stubSummaries{}, notifier.Config{})
	assert.Equal(t, exitOK, runOnce(context.Background(), ok))

	failing, _ := newTestJob(t, stubSummaries{err: errors.New("list documents: connection refused")}, notifier.Config{})
	assert.Equal(t, exitFailure, runOnce(context.Background(), failing))
}

func TestRun_Flags(t *testing.T) {
	assert.Equal(t, exitOK, run([]string{"-h"}))
	assert.Equal(t, exitFailure, run([]string{"--no-such-flag"}))
}

func TestSetupExportService_ReturnsConfigErrors(t *testing.T) {
	logger := logging.NewTextLogger(os.Stderr)
	wcfg := workerPkg.DefaultConfig()

	t.Run("unknown store", func(t *testing.T) {
		t.Setenv("DOCUMENT_STORE", "s3")
		svc, cleanup, err := setupExportService(context.Background(), logger, &wcfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load store configuration")
		assert.Nil(t, svc)
		assert.Nil(t, cleanup)
	})

	t.Run("unknown stop-word locale", func(t *testing.T) {
		t.Setenv("DOCUMENT_STORE", "filesystem")
		t.Setenv("DOCUMENTS_DIR", t.TempDir())
		t.Setenv("SUMMARY_STOPWORDS_LOCALE", "xx")
		_, cleanup, err := setupExportService(context.Background(), logger, &wcfg)
		require.Error(t, err)
		assert.Nil(t, cleanup)
	})
}
