// Package notifier posts the outcome of a summary export to chat webhooks.
// Discord and Slack are supported; with neither configured the worker uses
// NoOpNotifier.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Report describes one finished export run.
type Report struct {
	Dir       string
	Documents int
	Written   int
	Skipped   int
	Failed    int
	Duration  time.Duration
	// Err is the sanitized failure message of a run that aborted.
	Err        string
	FinishedAt time.Time
}

// Succeeded reports whether the run completed without aborting.
func (r Report) Succeeded() bool {
	return r.Err == ""
}

// Title is the one-line headline shared by all channels.
func (r Report) Title() string {
	switch {
	case !r.Succeeded():
		return "Summary export failed"
	case r.Failed > 0:
		return "Summary export finished with failures"
	default:
		return "Summary export completed"
	}
}

// Body lists the counters of the run, one per line.
func (r Report) Body() string {
	body := fmt.Sprintf("Folder: %s\nDocuments: %d\nWritten: %d\nSkipped: %d\nFailed: %d\nDuration: %s",
		r.Dir, r.Documents, r.Written, r.Skipped, r.Failed, r.Duration.Round(time.Millisecond))
	if !r.Succeeded() {
		body += "\nError: " + r.Err
	}
	return body
}

// Notifier delivers export reports.
type Notifier interface {
	// NotifyExport sends report. Implementations rate limit and retry
	// transient failures themselves and respect ctx cancellation.
	NotifyExport(ctx context.Context, report Report) error
}

// Multi fans a report out to several notifiers.
type Multi []Notifier

// NotifyExport calls every notifier and joins their errors.
func (m Multi) NotifyExport(ctx context.Context, report Report) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyExport(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the notifier described by cfg. It returns NoOpNotifier when no
// webhook is configured.
func New(cfg Config) Notifier {
	var m Multi
	if cfg.DiscordWebhookURL != "" {
		m = append(m, NewDiscordNotifier(DiscordConfig{WebhookURL: cfg.DiscordWebhookURL, Timeout: cfg.Timeout}))
	}
	if cfg.SlackWebhookURL != "" {
		m = append(m, NewSlackNotifier(SlackConfig{WebhookURL: cfg.SlackWebhookURL, Timeout: cfg.Timeout}))
	}
	switch len(m) {
	case 0:
		return NewNoOpNotifier()
	case 1:
		return m[0]
	default:
		return m
	}
}
