// Package workflow talks to an n8n-compatible workflow engine over its
// webhook and REST API surfaces.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/clearmed/clearmed-api/config"
	"github.com/clearmed/clearmed-api/internal/domain/model"
)

const (
	apiKeyHeader = "X-N8N-API-KEY"

	// Raw response bodies are truncated to this many bytes in error
	// messages and previews.
	maxBodyPreview = 200

	defaultTimeout = 60 * time.Second
)

// executionIDPaths is the preference order for extracting an execution ID
// from a workflow-run response. Engines differ in where they put it.
var executionIDPaths = []string{"data.executionId", "data.id", "executionId", "id"}

type Options struct {
	Config     config.WorkflowConfig
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client implements core.WorkflowClient against an n8n-compatible engine.
type Client struct {
	cfg    config.WorkflowConfig
	client *http.Client
	logger *slog.Logger
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: opts.Config, client: httpClient, logger: logger}
}

// TriggerWebhook forwards a request body (typically multipart form data with
// a scanned image) to the engine's webhook URL and returns the decoded JSON
// response. The content type is passed through untouched so the engine sees
// the original multipart boundary.
func (c *Client) TriggerWebhook(ctx context.Context, contentType string, body io.Reader) (map[string]any, error) {
	if !c.cfg.WebhookEnabled() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebhookURL, body)
	if err != nil {
		return nil, fmt.Errorf("building webhook request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	raw, err := c.do(req, "webhook")
	if err != nil {
		return nil, err
	}
	return decodeObject(raw, "webhook")
}

// RunWorkflow starts the configured workflow via the engine's REST API and
// returns the execution ID for later polling.
func (c *Client) RunWorkflow(ctx context.Context, data map[string]any) (string, error) {
	if !c.cfg.APIEnabled() {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		return "", fmt.Errorf("encoding workflow payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/workflows/%s/run", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.WorkflowID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building run request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.cfg.APIKey)

	raw, err := c.do(req, "run")
	if err != nil {
		return "", err
	}
	decoded, err := decodeObject(raw, "run")
	if err != nil {
		return "", err
	}
	return extractExecutionID(decoded)
}

// GetExecution fetches execution state, optionally including step run data,
// for an execution started via RunWorkflow.
func (c *Client) GetExecution(ctx context.Context, id string, includeData bool) (*model.Execution, error) {
	if !c.cfg.APIEnabled() {
		return nil, ErrNotConfigured
	}

	url := fmt.Sprintf("%s/api/v1/executions/%s?includeData=%t", strings.TrimRight(c.cfg.BaseURL, "/"), id, includeData)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building execution request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.cfg.APIKey)

	raw, err := c.do(req, "execution")
	if err != nil {
		return nil, err
	}

	var wire struct {
		ID       json.Number     `json:"id"`
		Finished bool            `json:"finished"`
		Status   string          `json:"status"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &MalformedResponseError{Operation: "execution", Reason: "invalid JSON", Preview: preview(raw)}
	}
	execID := wire.ID.String()
	if execID == "" {
		execID = id
	}
	return &model.Execution{
		ID:       execID,
		Finished: wire.Finished,
		Status:   wire.Status,
		Data:     wire.Data,
	}, nil
}

// do issues the request and returns the raw body, mapping non-2xx statuses
// and empty bodies to the adapter's error types.
func (c *Client) do(req *http.Request, operation string) ([]byte, error) {
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("workflow %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading workflow %s response: %w", operation, err)
	}

	c.logger.Debug("workflow engine call",
		"operation", operation,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Operation: operation, Status: resp.StatusCode, Body: preview(raw)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &MalformedResponseError{Operation: operation, Reason: "empty body"}
	}
	return raw, nil
}

func decodeObject(raw []byte, operation string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded map[string]any
	if err := dec.Decode(&decoded); err != nil {
		return nil, &MalformedResponseError{Operation: operation, Reason: "invalid JSON", Preview: preview(raw)}
	}
	return decoded, nil
}

func extractExecutionID(decoded map[string]any) (string, error) {
	for _, path := range executionIDPaths {
		v, err := jmespath.Search(path, decoded)
		if err != nil || v == nil {
			continue
		}
		switch id := v.(type) {
		case string:
			if id != "" {
				return id, nil
			}
		case json.Number:
			return id.String(), nil
		}
	}
	return "", &MalformedResponseError{Operation: "run", Reason: "response missing execution ID"}
}

func preview(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > maxBodyPreview {
		return s[:maxBodyPreview] + "..."
	}
	return s
}
