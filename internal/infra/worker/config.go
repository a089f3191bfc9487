// Package worker holds the infrastructure of the scheduled export worker:
// its configuration, metrics and health endpoints.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"perangkum/pkg/config"
)

// WorkerConfig controls when the export job runs and where it writes.
//
// Example usage:
//
//	cfg, _ := LoadConfigFromEnv(logger, metrics)
//	c := cron.New(cron.WithLocation(loc))
//	c.AddFunc(cfg.CronSchedule, job)
type WorkerConfig struct {
	// CronSchedule is a five-field cron expression.
	// Default: "*/30 * * * *"
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	// Default: "Asia/Jakarta"
	Timezone string

	// ExportDir is the folder summaries are written to.
	// Default: "summaries"
	ExportDir string

	// ExportTimeout bounds a single export run (1m-4h).
	// Default: 10 minutes
	ExportTimeout time.Duration

	// HealthPort serves /health, /health/ready and /metrics (1024-65535).
	// Default: 9091
	HealthPort int
}

// DefaultConfig returns a WorkerConfig with the default values.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:  "*/30 * * * *",
		Timezone:      "Asia/Jakarta",
		ExportDir:     "summaries",
		ExportTimeout: 10 * time.Minute,
		HealthPort:    9091,
	}
}

// Validate checks every field and returns all failures joined together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if c.ExportDir == "" {
		errs = append(errs, errors.New("export dir: cannot be empty"))
	}
	if err := config.ValidatePositiveDuration(c.ExportTimeout); err != nil {
		errs = append(errs, fmt.Errorf("export timeout: %w", err))
	}
	if err := config.ValidateIntRange("health port", c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// LoadConfigFromEnv loads the worker configuration. It never fails: each
// invalid value is logged, counted in metrics and replaced by its default.
//
// Environment variables:
//   - EXPORT_CRON_SCHEDULE
//   - WORKER_TIMEZONE
//   - EXPORT_DIR
//   - EXPORT_TIMEOUT (1m-4h)
//   - WORKER_HEALTH_PORT
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	track := func(field string, fallback bool, warning string) {
		if !fallback {
			return
		}
		fallbackApplied = true
		metrics.RecordFallback(field)
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	schedule := config.LoadEnv("EXPORT_CRON_SCHEDULE", cfg.CronSchedule, config.ParseString, config.ValidateCronSchedule)
	cfg.CronSchedule = schedule.Value
	track("cron_schedule", schedule.FallbackApplied, schedule.Warning)

	tz := config.LoadEnv("WORKER_TIMEZONE", cfg.Timezone, config.ParseString, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	track("timezone", tz.FallbackApplied, tz.Warning)

	cfg.ExportDir = config.GetEnvString("EXPORT_DIR", cfg.ExportDir)

	timeout := config.LoadEnv("EXPORT_TIMEOUT", cfg.ExportTimeout, config.ParseDuration, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 4*time.Hour)
	})
	cfg.ExportTimeout = timeout.Value
	track("export_timeout", timeout.FallbackApplied, timeout.Warning)

	port := config.LoadEnv("WORKER_HEALTH_PORT", cfg.HealthPort, config.ParseInt, func(v int) error {
		return config.ValidateIntRange("health port", v, 1024, 65535)
	})
	cfg.HealthPort = port.Value
	track("health_port", port.FallbackApplied, port.Warning)

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
