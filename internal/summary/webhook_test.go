package summary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transcribeia/transcribeia/internal/logger"
)

func TestWebhookBackendSuccess(t *testing.T) {
	var captured Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"summary":  "## Resumen\n\nContenido.",
			"metadata": map[string]any{"tokensUsed": 99, "model": "gpt-4-turbo"},
		})
	}))
	defer srv.Close()

	backend := NewWebhookBackend(srv.URL, "secret")
	text, usage, err := backend.Summarize(context.Background(), Request{
		Transcript: "hablamos de tareas",
		Metadata:   RequestMetadata{MeetingName: "Daily", Type: "daily"},
	})

	require.NoError(t, err)
	assert.Equal(t, "## Resumen\n\nContenido.", text)
	require.NotNil(t, usage)
	assert.Equal(t, 99, usage.TokensUsed)
	assert.Equal(t, "hablamos de tareas", captured.Transcript)
	assert.Equal(t, "Daily", captured.Metadata.MeetingName)
}

func TestWebhookBackendContentFieldFallsThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"content": "texto alternativo"})
	}))
	defer srv.Close()

	backend := NewWebhookBackend(srv.URL, "")
	text, _, err := backend.Summarize(context.Background(), Request{Transcript: "t"})

	require.NoError(t, err)
	assert.Equal(t, "texto alternativo", text)
}

func TestWebhookBackendEmptyBodyYieldsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	backend := NewWebhookBackend(srv.URL, "")
	text, _, err := backend.Summarize(context.Background(), Request{Transcript: "t"})

	require.NoError(t, err)
	assert.Equal(t, placeholderSummary, text)
}

func TestWebhookBackendNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	backend := NewWebhookBackend(srv.URL, "")
	_, _, err := backend.Summarize(context.Background(), Request{Transcript: "t"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookFailuresResolveThroughServiceFallback(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := New(NewWebhookBackend(srv.URL, ""), logger.Nop(), fastOptions())
	out := svc.Generate(context.Background(), Input{Text: "texto real", WordCount: 2, Duration: 60}, testMeta())

	assert.Equal(t, 3, hits)
	require.True(t, out.Success)
	assert.Contains(t, out.Summary, "Resumen Daily Standup")
}
