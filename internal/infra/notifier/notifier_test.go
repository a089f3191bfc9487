package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perangkum/internal/resilience/retry"
)

var fastRetry = retry.Config{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     time.Millisecond,
	Multiplier:   1,
}

func sampleReport() Report {
	return Report{
		Dir:        "summaries",
		Documents:  4,
		Written:    3,
		Skipped:    1,
		Duration:   1500 * time.Millisecond,
		FinishedAt: time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
	}
}

// webhookServer answers with statuses in order, repeating the last one.
func webhookServer(t *testing.T, statuses ...int) (*httptest.Server, *atomic.Int32, func() []byte) {
	t.Helper()
	var (
		calls atomic.Int32
		mu    sync.Mutex
		last  []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		last = body
		mu.Unlock()
		w.WriteHeader(statuses[min(n, len(statuses))-1])
	}))
	t.Cleanup(srv.Close)
	return srv, &calls, func() []byte {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

func TestReport_Title(t *testing.T) {
	r := sampleReport()
	assert.Equal(t, "Summary export completed", r.Title())

	r.Failed = 1
	assert.Equal(t, "Summary export finished with failures", r.Title())

	r.Err = "summarize documents: list failed"
	assert.Equal(t, "Summary export failed", r.Title())
	assert.Contains(t, r.Body(), "Error: summarize documents: list failed")
}

func TestReport_Body(t *testing.T) {
	assert.Equal(t,
		"Folder: summaries\nDocuments: 4\nWritten: 3\nSkipped: 1\nFailed: 0\nDuration: 1.5s",
		sampleReport().Body())
}

func TestDiscordNotifier_NotifyExport(t *testing.T) {
	srv, calls, body := webhookServer(t, http.StatusNoContent)
	n := NewDiscordNotifier(DiscordConfig{WebhookURL: srv.URL, Timeout: time.Second, Retry: fastRetry})

	require.NoError(t, n.NotifyExport(context.Background(), sampleReport()))
	assert.Equal(t, int32(1), calls.Load())

	var payload DiscordWebhookPayload
	require.NoError(t, json.Unmarshal(body(), &payload))
	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]
	assert.Equal(t, "Summary export completed", embed.Title)
	assert.Equal(t, discordGreen, embed.Color)
	assert.Equal(t, "2026-03-01T08:30:00Z", embed.Timestamp)
	assert.Contains(t, embed.Description, "Written: 3")
}

func TestDiscordNotifier_RetriesServerErrors(t *testing.T) {
	srv, calls, _ := webhookServer(t, http.StatusBadGateway, http.StatusNoContent)
	n := NewDiscordNotifier(DiscordConfig{WebhookURL: srv.URL, Retry: fastRetry})

	require.NoError(t, n.NotifyExport(context.Background(), sampleReport()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestDiscordNotifier_ClientErrorNotRetried(t *testing.T) {
	srv, calls, _ := webhookServer(t, http.StatusNotFound)
	n := NewDiscordNotifier(DiscordConfig{WebhookURL: srv.URL, Retry: fastRetry})

	err := n.NotifyExport(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())

	var httpErr *retry.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestDiscordNotifier_GivesUp(t *testing.T) {
	srv, calls, _ := webhookServer(t, http.StatusInternalServerError)
	n := NewDiscordNotifier(DiscordConfig{WebhookURL: srv.URL, Retry: fastRetry})

	err := n.NotifyExport(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord notification")
	assert.Equal(t, int32(3), calls.Load())
}

func TestSlackNotifier_NotifyExport(t *testing.T) {
	srv, _, body := webhookServer(t, http.StatusOK)
	n := NewSlackNotifier(SlackConfig{WebhookURL: srv.URL, Retry: fastRetry})

	report := sampleReport()
	report.Err = "create export dir: permission denied"
	require.NoError(t, n.NotifyExport(context.Background(), report))

	var payload SlackWebhookPayload
	require.NoError(t, json.Unmarshal(body(), &payload))
	assert.Equal(t, "Summary export failed", payload.Text)
	require.Len(t, payload.Blocks, 2)
	assert.Equal(t, "section", payload.Blocks[0].Type)
	assert.True(t, strings.HasPrefix(payload.Blocks[0].Text.Text, "*Summary export failed*"))
	assert.Contains(t, payload.Blocks[0].Text.Text, "permission denied")
	assert.Equal(t, "context", payload.Blocks[1].Type)
}

func TestSlackNotifier_ContextCancelled(t *testing.T) {
	srv, calls, _ := webhookServer(t, http.StatusOK)
	n := NewSlackNotifier(SlackConfig{WebhookURL: srv.URL, Retry: fastRetry})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := n.NotifyExport(ctx, sampleReport())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
}

type recordingNotifier struct {
	err   error
	calls int
}

func (r *recordingNotifier) NotifyExport(context.Context, Report) error {
	r.calls++
	return r.err
}

func TestMulti_JoinsErrors(t *testing.T) {
	ok := &recordingNotifier{}
	bad := &recordingNotifier{err: errors.New("slack down")}

	err := Multi{bad, ok}.NotifyExport(context.Background(), sampleReport())
	assert.EqualError(t, err, "slack down")
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, bad.calls)
}

func TestNew(t *testing.T) {
	_, isNoOp := New(Config{}).(*NoOpNotifier)
	assert.True(t, isNoOp)

	_, isDiscord := New(Config{DiscordWebhookURL: "https://discord.test/hook"}).(*DiscordNotifier)
	assert.True(t, isDiscord)

	multi, isMulti := New(Config{DiscordWebhookURL: "https://discord.test/hook", SlackWebhookURL: "https://slack.test/hook"}).(Multi)
	require.True(t, isMulti)
	assert.Len(t, multi, 2)
}

func TestConfig_ShouldNotify(t *testing.T) {
	cfg := Config{OnlyFailures: true}
	report := sampleReport()
	assert.False(t, cfg.ShouldNotify(report))

	report.Failed = 2
	assert.True(t, cfg.ShouldNotify(report))

	assert.True(t, Config{}.ShouldNotify(sampleReport()))
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("NOTIFY_SLACK_WEBHOOK_URL", "https://hooks.slack.test/T000")
	t.Setenv("NOTIFY_ONLY_FAILURES", "true")
	t.Setenv("NOTIFY_TIMEOUT", "2h")

	cfg, warning := LoadConfigFromEnv()
	assert.True(t, cfg.Enabled())
	assert.True(t, cfg.OnlyFailures)
	assert.Equal(t, "https://hooks.slack.test/T000", cfg.SlackWebhookURL)
	assert.Empty(t, cfg.DiscordWebhookURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.NotEmpty(t, warning)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10, "..."))
	assert.Equal(t, "abcdefg...", truncate(strings.Repeat("abcdefghij", 3), 10, "..."))
}

func TestTruncate_RuneBoundary(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"accented letter", "Kafé enak sekali", 7, "Kaf..."},
		{"emoji", "☕☕☕☕", 8, "☕..."},
		{"cut lands on boundary", "Kafé enak sekali", 8, "Kafé..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.text, tt.max, "...")
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, len(got), tt.max)
		})
	}
}
