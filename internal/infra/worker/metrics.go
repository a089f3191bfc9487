package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"perangkum/pkg/config"
)

// WorkerMetrics embeds the configuration metrics of the worker and adds the
// cron level gauges. Per-run export counts live in the observability
// metrics package.
//
// Metrics:
//   - worker_config_load_timestamp, worker_config_fallbacks_total, worker_config_fallback_active
//   - worker_cron_job_last_success_timestamp
//   - worker_cron_job_running
type WorkerMetrics struct {
	*config.ConfigMetrics

	CronJobLastSuccessTimestamp prometheus.Gauge
	CronJobRunning              prometheus.Gauge
}

// NewWorkerMetrics creates and registers the worker metrics. Call it once.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		CronJobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful export run",
		}),

		CronJobRunning: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_running",
			Help: "1 while an export run is in progress",
		}),
	}
}

// RecordLastSuccess records the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}

// SetRunning flags whether a run is in progress.
func (m *WorkerMetrics) SetRunning(running bool) {
	if running {
		m.CronJobRunning.Set(1)
		return
	}
	m.CronJobRunning.Set(0)
}
