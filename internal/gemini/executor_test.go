package gemini_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/assetgen/internal/gemini"
)

func newTestClient(t *testing.T, baseURL string) *gemini.Client {
	t.Helper()

	log, err := logger.New(t.TempDir(), "gemini_test.log")
	require.NoError(t, err)

	return gemini.NewClient(&gemini.Config{
		APIKey:            "test-api-key",
		BaseURL:           baseURL,
		TextModel:         "text-model",
		ImageModel:        "image-model",
		AudioModel:        "audio-model",
		MaxAttempts:       3,
		InitialRetryDelay: 5 * time.Millisecond,
		TimeoutSeconds:    5,
	}, log)
}

type recordingHandler struct {
	mu        sync.Mutex
	times     []time.Time
	responses []func(w http.ResponseWriter)
}

func (h *recordingHandler) ServeHTTP(writer http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	h.times = append(h.times, time.Now())
	index := len(h.times) - 1
	h.mu.Unlock()

	if index >= len(h.responses) {
		index = len(h.responses) - 1
	}

	h.responses[index](writer)
}

func (h *recordingHandler) attemptCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.times)
}

func (h *recordingHandler) attemptTimes() []time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]time.Time(nil), h.times...)
}

func respondStatus(code int, body string) func(w http.ResponseWriter) {
	return func(writer http.ResponseWriter) {
		writer.WriteHeader(code)
		_, _ = writer.Write([]byte(body))
	}
}

func TestExecute_RetriesTransientFailuresThenSucceeds(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{
		responses: []func(w http.ResponseWriter){
			respondStatus(http.StatusInternalServerError, "boom"),
			respondStatus(http.StatusServiceUnavailable, "still down"),
			respondStatus(http.StatusOK, `{"ok":true}`),
		},
	}
	server := httptest.NewServer(handler)
	defer server.Close()

	client := newTestClient(t, server.URL)

	body, err := client.Execute(context.Background(), server.URL, map[string]string{"k": "v"})
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(body))
	require.Equal(t, 3, handler.attemptCount())
}

func TestExecute_BackoffDelaysIncrease(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{
		responses: []func(w http.ResponseWriter){
			respondStatus(http.StatusTooManyRequests, "slow down"),
			respondStatus(http.StatusTooManyRequests, "slow down"),
			respondStatus(http.StatusOK, `{}`),
		},
	}
	server := httptest.NewServer(handler)
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Execute(context.Background(), server.URL, nil)
	require.NoError(t, err)

	times := handler.attemptTimes()
	require.Len(t, times, 3)

	firstGap := times[1].Sub(times[0])
	secondGap := times[2].Sub(times[1])
	require.GreaterOrEqual(t, firstGap, 5*time.Millisecond)
	require.Greater(t, secondGap, firstGap)
}

func TestExecute_FatalClientErrorShortCircuits(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{
		responses: []func(w http.ResponseWriter){
			respondStatus(
				http.StatusNotFound,
				`{"error":{"message":"model not found"}}`,
			),
		},
	}
	server := httptest.NewServer(handler)
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Execute(context.Background(), server.URL, nil)
	require.Error(t, err)

	var apiErr *gemini.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "model not found", apiErr.Message)
	require.False(t, apiErr.Retryable())

	require.Equal(t, 1, handler.attemptCount(), "fatal status must not be retried")
}

func TestExecute_ExhaustionWrapsLastError(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{
		responses: []func(w http.ResponseWriter){
			respondStatus(http.StatusBadGateway, "upstream down"),
		},
	}
	server := httptest.NewServer(handler)
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Execute(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, gemini.ErrAttemptsExhausted)
	require.Contains(t, err.Error(), "3 attempts")
	require.Contains(t, err.Error(), "upstream down")
	require.Equal(t, 3, handler.attemptCount())
}

func TestExecute_TransportFailureIsRetryable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	serverURL := server.URL
	server.Close() // connection refused from here on

	client := newTestClient(t, serverURL)

	_, err := client.Execute(context.Background(), serverURL, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, gemini.ErrAttemptsExhausted)
}

func TestExecute_ContextCancellationStopsRetries(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{
		responses: []func(w http.ResponseWriter){
			respondStatus(http.StatusInternalServerError, "boom"),
		},
	}
	server := httptest.NewServer(handler)
	defer server.Close()

	client := newTestClient(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Execute(ctx, server.URL, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
}
