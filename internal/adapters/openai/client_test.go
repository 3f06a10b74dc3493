package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearmed/clearmed-api/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.ChatConfig{
		APIKey:    "sk-test",
		Model:     "gpt-4o-mini",
		BaseURL:   srv.URL,
		MaxTokens: 512,
	}
	return NewClient(cfg).WithHTTPClient(srv.Client())
}

func TestComplete(t *testing.T) {
	t.Parallel()

	t.Run("sends system and user messages", func(t *testing.T) {
		t.Parallel()
		var got chatRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Take them with food.  "}}]}`))
		})

		reply, err := client.Complete(context.Background(), "You are a helper.", "When do I take my meds?")
		require.NoError(t, err)
		assert.Equal(t, "Take them with food.", reply)

		require.Len(t, got.Messages, 2)
		assert.Equal(t, "system", got.Messages[0].Role)
		assert.Equal(t, "You are a helper.", got.Messages[0].Content)
		assert.Equal(t, "user", got.Messages[1].Role)
		assert.Equal(t, "gpt-4o-mini", got.Model)
		assert.Equal(t, 512, got.MaxTokens)
	})

	t.Run("provider error carries status", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"rate limited"}}`))
		})

		_, err := client.Complete(context.Background(), "s", "u")
		var pe *ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, http.StatusTooManyRequests, pe.Status)
		assert.Contains(t, pe.Body, "rate limited")
	})

	t.Run("empty choices is an error", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		})

		_, err := client.Complete(context.Background(), "s", "u")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no content")
	})
}
