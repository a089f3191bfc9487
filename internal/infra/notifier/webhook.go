package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"perangkum/internal/observability/logging"
	"perangkum/internal/observability/metrics"
	"perangkum/internal/resilience/retry"
)

// maxErrorBody caps how much of a webhook error response is kept.
const maxErrorBody = 512

// webhook posts JSON payloads to one endpoint.
type webhook struct {
	channel string
	url     string
	client  *http.Client
	limiter *rate.Limiter
	retry   retry.Config
}

func newWebhook(channel, url string, timeout time.Duration, limit rate.Limit, burst int, cfg retry.Config) *webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg = retry.WebhookConfig()
	}
	return &webhook{
		channel: channel,
		url:     url,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, burst),
		retry:   cfg,
	}
}

// send waits for the rate limiter, then posts payload with retries. 5xx and
// 429 responses are retried; other 4xx responses fail at once.
func (w *webhook) send(ctx context.Context, payload any) error {
	notificationID := uuid.New().String()
	logger := logging.FromContext(ctx).With(
		slog.String("channel", w.channel),
		slog.String("notification_id", notificationID))

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", w.channel, err)
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limiter: %w", w.channel, err)
	}

	attempts := 0
	err = retry.WithBackoff(ctx, w.retry, func() error {
		attempts++
		return w.post(ctx, body)
	})
	metrics.RecordNotification(w.channel, err)
	if err != nil {
		logger.Error("notification failed",
			slog.Int("attempts", attempts),
			slog.Any("error", err))
		return fmt.Errorf("%s notification: %w", w.channel, err)
	}
	logger.Info("notification sent", slog.Int("attempts", attempts))
	return nil
}

func (w *webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &retry.HTTPError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
}

// truncate shortens text to at most maxLength bytes, ending with suffix
// when cut. The cut never splits a multi-byte rune.
func truncate(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}
	cut := max(maxLength-len(suffix), 0)
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + suffix
}
