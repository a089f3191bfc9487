package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"perangkum/internal/bootstrap"
	"perangkum/internal/config"
	"perangkum/internal/handler/http/respond"
	"perangkum/internal/infra/notifier"
	workerPkg "perangkum/internal/infra/worker"
	"perangkum/internal/observability/logging"
	"perangkum/internal/observability/tracing"
	"perangkum/internal/usecase/export"
)

const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run starts the worker and returns the process exit code. Deferred cleanup
// runs before main exits.
func run(args []string) int {
	fs := flag.NewFlagSet("worker", flag.ContinueOnError)
	once := fs.Bool("once", false, "Run one export and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFailure
	}

	logger := initLogger()
	config.LoadDotEnv(logger)

	shutdownTracing := tracing.Init("perangkum-worker")
	defer func() { _ = shutdownTracing(context.Background()) }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		return exitFailure
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.String("export_dir", workerConfig.ExportDir),
		slog.Duration("export_timeout", workerConfig.ExportTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	svc, cleanup, err := setupExportService(ctx, logger, workerConfig)
	if err != nil {
		logger.Error("failed to set up export service", slog.Any("error", err))
		return exitFailure
	}
	defer cleanup()
	job := &exportJob{
		logger:  logger,
		svc:     svc,
		cfg:     workerConfig,
		metrics: workerMetrics,
	}
	job.notifyCfg, job.notifier = setupNotifier(logger)

	if *once {
		return runOnce(ctx, job)
	}

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	job.health = healthServer
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	if err := startCronWorker(ctx, logger, job, healthServer); err != nil {
		logger.Error("failed to start cron worker", slog.Any("error", err))
		return exitFailure
	}
	return exitOK
}

// runOnce runs a single export for --once and maps its outcome to an exit code.
func runOnce(ctx context.Context, job *exportJob) int {
	if err := job.run(ctx); err != nil {
		return exitFailure
	}
	return exitOK
}

// initLogger builds the process logger and makes it the slog default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// setupExportService opens the document store and wires the export use case.
// The returned function closes the store.
func setupExportService(ctx context.Context, logger *slog.Logger, cfg *workerPkg.WorkerConfig) (*export.Service, func(), error) {
	storeCfg, err := config.LoadStoreConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load store configuration: %w", err)
	}
	summarizerCfg, err := config.LoadSummarizerConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load summarizer configuration: %w", err)
	}

	tfidf, err := bootstrap.NewSummarizer(summarizerCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create summarizer: %w", err)
	}

	store, err := bootstrap.OpenStore(ctx, storeCfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open document store: %w", err)
	}
	registry := bootstrap.NewExtractor(0)
	summaries := bootstrap.NewSummaryService(store, registry, tfidf, summarizerCfg, logger)

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}
	return export.NewService(summaries, cfg.ExportDir), cleanup, nil
}

// setupNotifier builds the export report notifier from the environment.
func setupNotifier(logger *slog.Logger) (notifier.Config, notifier.Notifier) {
	cfg, warning := notifier.LoadConfigFromEnv()
	if warning != "" {
		logger.Warn("configuration fallback applied", slog.String("warning", warning))
	}
	if !cfg.Enabled() {
		logger.Info("export notifications disabled")
	} else {
		logger.Info("export notifications enabled",
			slog.Bool("discord", cfg.DiscordWebhookURL != ""),
			slog.Bool("slack", cfg.SlackWebhookURL != ""),
			slog.Bool("only_failures", cfg.OnlyFailures))
	}
	return cfg, notifier.New(cfg)
}

// startCronWorker schedules the export job and blocks until ctx is done.
func startCronWorker(
	ctx context.Context,
	logger *slog.Logger,
	job *exportJob,
	healthServer *workerPkg.HealthServer,
) error {
	cfg := job.cfg
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelWarn))
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		_ = job.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("add cron job %q: %w", cfg.CronSchedule, err)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	logger.Info("shutting down worker...")
	healthServer.SetReady(false)

	// Wait for a running export to notice the cancelled context.
	<-c.Stop().Done()
	logger.Info("worker stopped")
	return nil
}

// exportJob runs one export and reports its outcome.
type exportJob struct {
	logger    *slog.Logger
	svc       *export.Service
	cfg       *workerPkg.WorkerConfig
	metrics   *workerPkg.WorkerMetrics
	notifyCfg notifier.Config
	notifier  notifier.Notifier
	health    *workerPkg.HealthServer // nil with --once
}

// run executes a single export with timeout and error handling, then sends
// the report to the configured webhooks.
func (j *exportJob) run(ctx context.Context) error {
	j.metrics.SetRunning(true)
	defer j.metrics.SetRunning(false)
	j.logger.Info("export started", slog.String("dir", j.cfg.ExportDir))

	runCtx, cancel := context.WithTimeout(ctx, j.cfg.ExportTimeout)
	defer cancel()

	stats, err := j.svc.Run(runCtx)
	report := newReport(j.cfg.ExportDir, stats, err)
	if j.health != nil {
		j.health.RecordExport(report.FinishedAt, report.Err)
	}
	if err != nil {
		j.logger.Error("export failed", slog.String("error", report.Err))
	} else {
		j.metrics.RecordLastSuccess()
		if stats.Failed > 0 {
			j.logger.Warn("export finished with failures",
				slog.Int("failed", stats.Failed),
				slog.Int("documents", stats.Documents))
		}
	}

	if j.notifyCfg.ShouldNotify(report) {
		notifyCtx, cancelNotify := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
		defer cancelNotify()
		if nerr := j.notifier.NotifyExport(notifyCtx, report); nerr != nil {
			j.logger.Warn("failed to send export notification", slog.Any("error", nerr))
		}
	}
	return err
}

func newReport(dir string, stats *export.Stats, err error) notifier.Report {
	report := notifier.Report{Dir: dir, FinishedAt: time.Now()}
	if stats != nil {
		report.Documents = stats.Documents
		report.Written = stats.Written
		report.Skipped = stats.Skipped
		report.Failed = stats.Failed
		report.Duration = stats.Duration
	}
	if err != nil {
		report.Err = respond.SanitizeError(err)
	}
	return report
}
