package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearmed/clearmed-api/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.WorkflowConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		WorkflowID: "wf-1",
		WebhookURL: srv.URL + "/webhook/scan",
	}
	return NewClient(Options{Config: cfg, HTTPClient: srv.Client()}), srv
}

func TestTriggerWebhook(t *testing.T) {
	t.Parallel()

	t.Run("passes content type through and decodes response", func(t *testing.T) {
		t.Parallel()
		var gotContentType, gotBody string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotContentType = r.Header.Get("Content-Type")
			raw, _ := io.ReadAll(r.Body)
			gotBody = string(raw)
			w.Write([]byte(`{"checklist":["rest"],"summary":"ok"}`))
		})

		out, err := client.TriggerWebhook(context.Background(),
			"multipart/form-data; boundary=xyz", strings.NewReader("--xyz--"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/form-data; boundary=xyz", gotContentType)
		assert.Equal(t, "--xyz--", gotBody)
		assert.Equal(t, "ok", out["summary"])
	})

	t.Run("non-2xx yields transport error with body preview", func(t *testing.T) {
		t.Parallel()
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream exploded"))
		})

		_, err := client.TriggerWebhook(context.Background(), "", nil)
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, http.StatusBadGateway, te.Status)
		assert.Equal(t, "upstream exploded", te.Body)
		assert.Contains(t, te.Error(), "502")
	})

	t.Run("empty body is a malformed response", func(t *testing.T) {
		t.Parallel()
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		_, err := client.TriggerWebhook(context.Background(), "", nil)
		var me *MalformedResponseError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, "empty body", me.Reason)
	})

	t.Run("non-JSON body is a malformed response with truncated preview", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("<html>", 100)
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(long))
		})

		_, err := client.TriggerWebhook(context.Background(), "", nil)
		var me *MalformedResponseError
		require.ErrorAs(t, err, &me)
		assert.Len(t, me.Preview, maxBodyPreview+len("..."))
		assert.True(t, strings.HasSuffix(me.Preview, "..."))
	})

	t.Run("unconfigured webhook", func(t *testing.T) {
		t.Parallel()
		client := NewClient(Options{Config: config.WorkflowConfig{}})
		_, err := client.TriggerWebhook(context.Background(), "", nil)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestRunWorkflow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		response string
		wantID   string
	}{
		{"nested executionId preferred", `{"data":{"executionId":"ex-9","id":"other"},"id":"outer"}`, "ex-9"},
		{"nested id second", `{"data":{"id":"ex-7"},"id":"outer"}`, "ex-7"},
		{"top-level executionId third", `{"executionId":"ex-5","id":"outer"}`, "ex-5"},
		{"top-level id last", `{"id":"ex-3"}`, "ex-3"},
		{"numeric id stringified", `{"data":{"executionId":412}}`, "412"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/workflows/wf-1/run", r.URL.Path)
				assert.Equal(t, "test-key", r.Header.Get("X-N8N-API-KEY"))
				var payload map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				assert.Equal(t, map[string]any{"data": map[string]any{"image": "..."}}, payload)
				w.Write([]byte(tc.response))
			})

			id, err := client.RunWorkflow(context.Background(), map[string]any{"image": "..."})
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, id)
		})
	}

	t.Run("missing execution ID", func(t *testing.T) {
		t.Parallel()
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"ok":true}`))
		})

		_, err := client.RunWorkflow(context.Background(), nil)
		var me *MalformedResponseError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, "response missing execution ID", me.Reason)
	})

	t.Run("unconfigured API", func(t *testing.T) {
		t.Parallel()
		client := NewClient(Options{Config: config.WorkflowConfig{WebhookURL: "http://x/webhook"}})
		_, err := client.RunWorkflow(context.Background(), nil)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestGetExecution(t *testing.T) {
	t.Parallel()

	t.Run("decodes execution with numeric ID", func(t *testing.T) {
		t.Parallel()
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/executions/123", r.URL.Path)
			assert.Equal(t, "true", r.URL.Query().Get("includeData"))
			assert.Equal(t, "test-key", r.Header.Get("X-N8N-API-KEY"))
			w.Write([]byte(`{"id":123,"finished":true,"status":"success","data":{"resultData":{"runData":{}}}}`))
		})

		exec, err := client.GetExecution(context.Background(), "123", true)
		require.NoError(t, err)
		assert.Equal(t, "123", exec.ID)
		assert.True(t, exec.Finished)
		assert.Equal(t, "success", exec.Status)
		assert.NotEmpty(t, exec.Data)
	})

	t.Run("includeData=false", func(t *testing.T) {
		t.Parallel()
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "false", r.URL.Query().Get("includeData"))
			w.Write([]byte(`{"id":"9","finished":false}`))
		})

		exec, err := client.GetExecution(context.Background(), "9", false)
		require.NoError(t, err)
		assert.False(t, exec.Finished)
	})

	t.Run("transport error surfaces status", func(t *testing.T) {
		t.Parallel()
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"not found"}`))
		})

		_, err := client.GetExecution(context.Background(), "missing", true)
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, http.StatusNotFound, te.Status)
	})

	t.Run("request error wraps", func(t *testing.T) {
		t.Parallel()
		client := NewClient(Options{Config: config.WorkflowConfig{BaseURL: "http://127.0.0.1:1", APIKey: "k", WorkflowID: "w"}})
		_, err := client.GetExecution(context.Background(), "1", true)
		require.Error(t, err)
		var te *TransportError
		assert.False(t, errors.As(err, &te))
	})
}
