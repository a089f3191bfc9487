package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perangkum/internal/handler/http/respond"
)

func serveWithTimeout(d time.Duration, h http.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	Timeout(d)(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/summaries/url", nil))
	return rec
}

func assertGatewayTimeout(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body respond.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "request timeout", body.Error)
}

func TestTimeout_FastHandler(t *testing.T) {
	rec := serveWithTimeout(time.Second, func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline := r.Context().Deadline()
		assert.True(t, hasDeadline)

		w.Header().Set("Location", "/documents/catatan.txt")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"name":"catatan.txt"}`))
		_, _ = w.Write([]byte("\n"))
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/documents/catatan.txt", rec.Header().Get("Location"))
	assert.Equal(t, "{\"name\":\"catatan.txt\"}\n", rec.Body.String())
}

func TestTimeout_ImplicitOK(t *testing.T) {
	rec := serveWithTimeout(time.Second, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Ibu memasak di dapur."))
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ibu memasak di dapur.", rec.Body.String())
}

func TestTimeout_SlowHandler(t *testing.T) {
	rec := serveWithTimeout(50*time.Millisecond, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("too late"))
	})
	assertGatewayTimeout(t, rec)
	assert.NotContains(t, rec.Body.String(), "too late")
}

func TestTimeout_HandlerReturnsOnDeadline(t *testing.T) {
	rec := serveWithTimeout(50*time.Millisecond, func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	assertGatewayTimeout(t, rec)
}

func TestTimeout_WriteAfterTimeoutFails(t *testing.T) {
	writeErr := make(chan error, 1)
	rec := serveWithTimeout(50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		time.Sleep(50 * time.Millisecond)
		_, err := w.Write([]byte("late"))
		writeErr <- err
	})
	assertGatewayTimeout(t, rec)

	select {
	case err := <-writeErr:
		assert.ErrorIs(t, err, http.ErrHandlerTimeout)
	case <-time.After(time.Second):
		t.Fatal("handler never finished")
	}
}

func TestTimeout_PanicReachesCaller(t *testing.T) {
	h := Timeout(time.Second)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("tokenizer exploded")
	}))
	assert.Panics(t, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/summaries", nil))
	})
}

func TestTimeout_WithRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("tokenizer exploded")
	}), Recover(slog.New(slog.NewTextHandler(io.Discard, nil))), Timeout(time.Second))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/summaries", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
