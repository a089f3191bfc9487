package notifier

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"perangkum/internal/resilience/retry"
)

// DiscordConfig configures the Discord webhook channel.
type DiscordConfig struct {
	// WebhookURL includes the webhook token.
	WebhookURL string
	Timeout    time.Duration
	// Retry defaults to retry.WebhookConfig.
	Retry retry.Config
}

// DiscordNotifier posts export reports as Discord embeds.
type DiscordNotifier struct {
	hook *webhook
}

// NewDiscordNotifier creates a DiscordNotifier limited to 0.5 requests per
// second with a burst of 3, the webhook quota of 30 per minute.
func NewDiscordNotifier(cfg DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{
		hook: newWebhook("discord", cfg.WebhookURL, cfg.Timeout, rate.Limit(0.5), 3, cfg.Retry),
	}
}

// DiscordWebhookPayload is the body of a Discord webhook request.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed is a single Discord embed.
type DiscordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Color       int                `json:"color"`
	Footer      DiscordEmbedFooter `json:"footer"`
	Timestamp   string             `json:"timestamp"`
}

// DiscordEmbedFooter is the footer line of an embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	maxDescriptionLength = 4096
	truncationSuffix     = "..."

	discordGreen  = 0x57F287
	discordYellow = 0xFEE75C
	discordRed    = 0xED4245
)

func buildDiscordPayload(report Report) DiscordWebhookPayload {
	color := discordGreen
	switch {
	case !report.Succeeded():
		color = discordRed
	case report.Failed > 0:
		color = discordYellow
	}
	return DiscordWebhookPayload{
		Embeds: []DiscordEmbed{{
			Title:       report.Title(),
			Description: truncate(report.Body(), maxDescriptionLength, truncationSuffix),
			Color:       color,
			Footer:      DiscordEmbedFooter{Text: "perangkum-worker"},
			Timestamp:   report.FinishedAt.Format(time.RFC3339),
		}},
	}
}

// NotifyExport implements Notifier.
func (d *DiscordNotifier) NotifyExport(ctx context.Context, report Report) error {
	return d.hook.send(ctx, buildDiscordPayload(report))
}
