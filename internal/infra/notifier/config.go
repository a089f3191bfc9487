package notifier

import (
	"time"

	"perangkum/pkg/config"
)

// Config holds the webhook endpoints of the export notifications.
type Config struct {
	DiscordWebhookURL string
	SlackWebhookURL   string
	// OnlyFailures suppresses reports of clean runs.
	OnlyFailures bool
	// Timeout bounds a single webhook request.
	// Default: 10 seconds
	Timeout time.Duration
}

// Enabled reports whether at least one webhook is configured.
func (c Config) Enabled() bool {
	return c.DiscordWebhookURL != "" || c.SlackWebhookURL != ""
}

// ShouldNotify reports whether report passes the OnlyFailures filter.
func (c Config) ShouldNotify(report Report) bool {
	if !c.OnlyFailures {
		return true
	}
	return !report.Succeeded() || report.Failed > 0
}

// LoadConfigFromEnv reads NOTIFY_DISCORD_WEBHOOK_URL, NOTIFY_SLACK_WEBHOOK_URL,
// NOTIFY_ONLY_FAILURES and NOTIFY_TIMEOUT. An invalid timeout falls back to
// the default; the warning is returned for logging.
func LoadConfigFromEnv() (Config, string) {
	timeout := config.LoadEnv("NOTIFY_TIMEOUT", 10*time.Second, config.ParseDuration, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, time.Minute)
	})
	return Config{
		DiscordWebhookURL: config.GetEnvString("NOTIFY_DISCORD_WEBHOOK_URL", ""),
		SlackWebhookURL:   config.GetEnvString("NOTIFY_SLACK_WEBHOOK_URL", ""),
		OnlyFailures:      config.GetEnvBool("NOTIFY_ONLY_FAILURES", false),
		Timeout:           timeout.Value,
	}, timeout.Warning
}
