package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/clearmed/clearmed-api/config"
	"github.com/clearmed/clearmed-api/internal/adapters/workflow"
	"github.com/clearmed/clearmed-api/internal/domain/model"
)

var (
	webhookCfg = config.WorkflowConfig{WebhookURL: "http://engine/webhook/scan"}
	apiCfg     = config.WorkflowConfig{BaseURL: "http://engine", APIKey: "k", WorkflowID: "wf-1"}
)

func TestHandleScan(t *testing.T) {
	t.Parallel()

	t.Run("webhook path returns inline result", func(t *testing.T) {
		t.Parallel()
		router, f := newTestRouter(t, webhookCfg, config.ChatConfig{})
		f.expectSession("pat@example.com")
		f.workflow.EXPECT().
			TriggerWebhook(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(map[string]any{"summary": "All good.", "checklist": []any{"Rest"}}, nil)
		f.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.history.EXPECT().Append(gomock.Any(), "pat@example.com", "wh-fixed-id").Return(nil)

		body, contentType := multipartUpload(t, "image", "note.jpg", []byte("jpegdata"))
		req := httptest.NewRequest(http.MethodPost, "/api/scan", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSessionCookie(req))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			ExecutionID string            `json:"executionId"`
			Result      *model.ScanResult `json:"result"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "wh-fixed-id", resp.ExecutionID)
		require.NotNil(t, resp.Result)
		assert.Equal(t, "All good.", resp.Result.Summary)
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, webhookCfg, config.ChatConfig{})

		body, contentType := multipartUpload(t, "image", "note.jpg", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/api/scan", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("JSON body starts a workflow run", func(t *testing.T) {
		t.Parallel()
		router, f := newTestRouter(t, apiCfg, config.ChatConfig{})
		f.expectSession("pat@example.com")
		f.workflow.EXPECT().
			RunWorkflow(gomock.Any(), map[string]any{"image": "aGk=", "text": "note"}).
			Return("412", nil)
		f.history.EXPECT().Append(gomock.Any(), "pat@example.com", "412").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"image":"aGk=","text":"note"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSessionCookie(req))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			ExecutionID string            `json:"executionId"`
			Result      *model.ScanResult `json:"result"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "412", resp.ExecutionID)
		assert.Nil(t, resp.Result)
	})

	t.Run("webhook transport requires multipart", func(t *testing.T) {
		t.Parallel()
		router, f := newTestRouter(t, webhookCfg, config.ChatConfig{})
		f.expectSession("pat@example.com")

		req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"image":"..."}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSessionCookie(req))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_request")
	})

	t.Run("rejects unsupported content types", func(t *testing.T) {
		t.Parallel()
		router, f := newTestRouter(t, webhookCfg, config.ChatConfig{})
		f.expectSession("pat@example.com")

		req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader("plain text"))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSessionCookie(req))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "multipart/form-data or application/json")
	})

	t.Run("malformed JSON body", func(t *testing.T) {
		t.Parallel()
		router, f := newTestRouter(t, apiCfg, config.ChatConfig{})
		f.expectSession("pat@example.com")

		req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"image":`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSessionCookie(req))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_json")
	})

	t.Run("engine failure maps to 502", func(t *testing.T) {
		t.Parallel()
		router, f := newTestRouter(t, webhookCfg, config.ChatConfig{})
		f.expectSession("pat@example.com")
		f.workflow.EXPECT().
			TriggerWebhook(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, &workflow.TransportError{Operation: "webhook", Status: 500, Body: "boom"})

		body, contentType := multipartUpload(t, "image", "note.jpg", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/api/scan", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSessionCookie(req))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "workflow_unavailable")
	})
}

func TestHandleResults(t *testing.T) {
	t.Parallel()

	t.Run("demo fixture", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, config.WorkflowConfig{}, config.ChatConfig{})

		req := httptest.NewRequest(http.MethodGet, "/api/results?executionId=demo", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var res model.Resolution
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.True(t, res.Finished)
		require.NotNil(t, res.Result)
		assert.True(t, res.Result.VerifiedSafe)
	})

	t.Run("missing executionId", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, config.WorkflowConfig{}, config.ChatConfig{})

		req := httptest.NewRequest(http.MethodGet, "/api/results", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("expired webhook result maps to 404", func(t *testing.T) {
		t.Parallel()
		router, f := newTestRouter(t, config.WorkflowConfig{}, config.ChatConfig{})
		f.cache.EXPECT().Get(gomock.Any(), "scan:webhook:wh-gone").Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/results?executionId=wh-gone", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "result_not_found")
	})

	t.Run("unknown execution maps to 400, not 502", func(t *testing.T) {
		t.Parallel()
		router, f := newTestRouter(t, config.WorkflowConfig{}, config.ChatConfig{})
		f.workflow.EXPECT().
			GetExecution(gomock.Any(), "999", true).
			Return(nil, &workflow.TransportError{Operation: "execution", Status: 404, Body: "not found"})

		req := httptest.NewRequest(http.MethodGet, "/api/results?executionId=999", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "workflow_unavailable")
	})

	t.Run("engine outage maps to 502", func(t *testing.T) {
		t.Parallel()
		router, f := newTestRouter(t, config.WorkflowConfig{}, config.ChatConfig{})
		f.workflow.EXPECT().
			GetExecution(gomock.Any(), "55", true).
			Return(nil, &workflow.TransportError{Operation: "execution", Status: 503, Body: "down"})

		req := httptest.NewRequest(http.MethodGet, "/api/results?executionId=55", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("pending execution reports finished=false", func(t *testing.T) {
		t.Parallel()
		router, f := newTestRouter(t, config.WorkflowConfig{}, config.ChatConfig{})
		f.workflow.EXPECT().
			GetExecution(gomock.Any(), "55", true).
			Return(&model.Execution{ID: "55", Finished: false, Status: "running"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/results?executionId=55", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var res model.Resolution
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.False(t, res.Finished)
		assert.Nil(t, res.Result)
	})
}

func TestHandleHistory(t *testing.T) {
	t.Parallel()

	t.Run("lists scans for the signed-in user", func(t *testing.T) {
		t.Parallel()
		router, f := newTestRouter(t, config.WorkflowConfig{}, config.ChatConfig{})
		f.expectSession("pat@example.com")
		f.history.EXPECT().
			ListByUser(gomock.Any(), "pat@example.com").
			Return([]model.ScanRecord{{ExecutionID: "wh-1"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSessionCookie(req))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "wh-1")
	})

	t.Run("append records an execution", func(t *testing.T) {
		t.Parallel()
		router, f := newTestRouter(t, config.WorkflowConfig{}, config.ChatConfig{})
		f.expectSession("pat@example.com")
		f.history.EXPECT().Append(gomock.Any(), "pat@example.com", "wh-9").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/history", strings.NewReader(`{"executionId":"wh-9"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSessionCookie(req))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"ok":true`)
	})

	t.Run("append requires executionId", func(t *testing.T) {
		t.Parallel()
		router, f := newTestRouter(t, config.WorkflowConfig{}, config.ChatConfig{})
		f.expectSession("pat@example.com")

		req := httptest.NewRequest(http.MethodPost, "/api/history", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSessionCookie(req))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, config.WorkflowConfig{}, config.ChatConfig{})

		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t, config.WorkflowConfig{}, config.ChatConfig{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")

	req = httptest.NewRequest(http.MethodHead, "/healthz", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecoverMiddleware(t *testing.T) {
	t.Parallel()
	logger := testLogger()
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("kaboom"))
	})
	handler := Recover(logger)(panicky)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
