package respond

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"perangkum/internal/domain/entity"
	"perangkum/internal/usecase/document"
	"perangkum/internal/usecase/summary"
	"perangkum/pkg/extractive"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: &entity.ValidationError{Field: "name", Message: "name is required"}, want: http.StatusBadRequest},
		{name: "invalid argument", err: fmt.Errorf("summarize: %w", extractive.ErrInvalidArgument), want: http.StatusBadRequest},
		{name: "invalid url", err: fmt.Errorf("fetch: %w", summary.ErrInvalidURL), want: http.StatusBadRequest},
		{name: "private ip", err: summary.ErrPrivateIP, want: http.StatusBadRequest},
		{name: "not found", err: fmt.Errorf("document %q: %w", "a.txt", entity.ErrNotFound), want: http.StatusNotFound},
		{name: "too large", err: document.ErrDocumentTooLarge, want: http.StatusRequestEntityTooLarge},
		{name: "max bytes", err: &http.MaxBytesError{Limit: 10}, want: http.StatusRequestEntityTooLarge},
		{name: "unsupported", err: fmt.Errorf("%w: %q", entity.ErrUnsupportedFormat, ".exe"), want: http.StatusUnsupportedMediaType},
		{name: "empty vocabulary", err: fmt.Errorf("summarize: %w", extractive.ErrEmptyVocabulary), want: http.StatusUnprocessableEntity},
		{name: "unreadable", err: fmt.Errorf("%w: %w", document.ErrUnreadable, errors.New("zip: not a valid zip file")), want: http.StatusUnprocessableEntity},
		{name: "upstream unavailable", err: fmt.Errorf("%w: %w", summary.ErrUpstreamUnavailable, summary.ErrFetchFailed), want: http.StatusServiceUnavailable},
		{name: "fetch failure", err: fmt.Errorf("fetch: %w", summary.ErrTimeout), want: http.StatusBadGateway},
		{name: "deadline", err: context.DeadlineExceeded, want: http.StatusGatewayTimeout},
		{name: "unknown", err: errors.New("disk full"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "client error keeps message",
			err:      fmt.Errorf("summarize: %w", extractive.ErrEmptyVocabulary),
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  "summarize: " + extractive.ErrEmptyVocabulary.Error(),
		},
		{
			name:     "fetch failure hides upstream details",
			err:      fmt.Errorf("%w: GET https://10.0.0.1/secret: %w", summary.ErrFetchFailed, summary.ErrBodyTooLarge),
			wantCode: http.StatusBadGateway,
			wantMsg:  summary.ErrBodyTooLarge.Error(),
		},
		{
			name:     "breaker open",
			err:      fmt.Errorf("%w: circuit breaker is open", summary.ErrUpstreamUnavailable),
			wantCode: http.StatusServiceUnavailable,
			wantMsg:  summary.ErrUpstreamUnavailable.Error(),
		},
		{
			name:     "internal error",
			err:      errors.New("pq: relation documents does not exist"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			DomainError(w, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, w))
		})
	}
}
