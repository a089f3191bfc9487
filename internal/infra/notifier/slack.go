package notifier

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"perangkum/internal/resilience/retry"
)

// SlackConfig configures the Slack Incoming Webhook channel.
type SlackConfig struct {
	WebhookURL string
	Timeout    time.Duration
	// Retry defaults to retry.WebhookConfig.
	Retry retry.Config
}

// SlackNotifier posts export reports using Block Kit.
type SlackNotifier struct {
	hook *webhook
}

// NewSlackNotifier creates a SlackNotifier limited to one message per second.
func NewSlackNotifier(cfg SlackConfig) *SlackNotifier {
	return &SlackNotifier{
		hook: newWebhook("slack", cfg.WebhookURL, cfg.Timeout, rate.Limit(1), 1, cfg.Retry),
	}
}

// SlackWebhookPayload is the body of a Slack webhook request.
type SlackWebhookPayload struct {
	// Text is the fallback shown in notifications.
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

// SlackBlock is a Block Kit block.
type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

// SlackTextObject is a Block Kit text object.
type SlackTextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Block Kit limit for section text.
const maxSectionTextLength = 3000

func buildSlackPayload(report Report) SlackWebhookPayload {
	section := fmt.Sprintf("*%s*\n\n```%s```", report.Title(), report.Body())
	return SlackWebhookPayload{
		Text: report.Title(),
		Blocks: []SlackBlock{
			{
				Type: "section",
				Text: &SlackTextObject{Type: "mrkdwn", Text: truncate(section, maxSectionTextLength, truncationSuffix)},
			},
			{
				Type: "context",
				Elements: []SlackTextObject{
					{Type: "mrkdwn", Text: "perangkum-worker • " + report.FinishedAt.Format(time.RFC3339)},
				},
			},
		},
	}
}

// NotifyExport implements Notifier.
func (s *SlackNotifier) NotifyExport(ctx context.Context, report Report) error {
	return s.hook.send(ctx, buildSlackPayload(report))
}
