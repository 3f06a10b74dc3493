package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clearmed/clearmed-api/config"
	"github.com/clearmed/clearmed-api/internal/core"
	"github.com/clearmed/clearmed-api/internal/domain/model"
)

// ErrNoScanPayload is returned when a scan is triggered without an uploaded
// document.
var ErrNoScanPayload = errors.New("scan request carries no document")

// ScanServiceOptions groups dependencies for ScanService.
type ScanServiceOptions struct {
	Workflow core.WorkflowClient
	Resolver *core.ResultResolver
	History  core.ScanHistoryRepository
	Config   config.WorkflowConfig
	Logger   *slog.Logger

	// NewID overrides webhook execution ID generation (tests).
	NewID func() string
}

// ScanService triggers scans against the workflow engine and resolves their
// results. The transport is picked from configuration: the synchronous
// webhook when one is set, the engine's REST API otherwise, and the built-in
// demo fixture when neither is configured.
type ScanService struct {
	workflow core.WorkflowClient
	resolver *core.ResultResolver
	history  core.ScanHistoryRepository
	cfg      config.WorkflowConfig
	logger   *slog.Logger
	newID    func() string
}

// NewScanService constructs a new ScanService.
func NewScanService(opts ScanServiceOptions) *ScanService {
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanService{
		workflow: opts.Workflow,
		resolver: opts.Resolver,
		history:  opts.History,
		cfg:      opts.Config,
		logger:   logger,
		newID:    newID,
	}
}

// TriggerInput carries one scan upload. ContentType and Body hold the
// client's multipart form for webhook passthrough; Data is the decoded
// payload used on the REST transport. UserEmail is empty for anonymous
// scans.
type TriggerInput struct {
	ContentType string
	Body        io.Reader
	Data        map[string]any
	UserEmail   string
}

// TriggerResult is what a triggered scan hands back to the client. Result is
// populated only on the synchronous webhook path; on the REST path the
// client polls with ExecutionID.
type TriggerResult struct {
	ExecutionID string            `json:"executionId"`
	Result      *model.ScanResult `json:"result,omitempty"`
}

// Trigger starts a scan and returns the execution handle the client uses to
// fetch or re-fetch the result.
func (s *ScanService) Trigger(ctx context.Context, in TriggerInput) (*TriggerResult, error) {
	out, err := s.trigger(ctx, in)
	if err != nil {
		return nil, err
	}
	s.recordHistory(ctx, in.UserEmail, out.ExecutionID)
	return out, nil
}

func (s *ScanService) trigger(ctx context.Context, in TriggerInput) (*TriggerResult, error) {
	switch {
	case s.cfg.WebhookEnabled():
		return s.triggerWebhook(ctx, in)
	case s.cfg.APIEnabled():
		return s.triggerAPI(ctx, in)
	default:
		s.logger.Info("workflow engine not configured, serving demo result")
		res, err := s.resolver.Resolve(ctx, model.DemoExecutionID)
		if err != nil {
			return nil, err
		}
		return &TriggerResult{ExecutionID: model.DemoExecutionID, Result: res.Result}, nil
	}
}

// triggerWebhook forwards the upload to the engine webhook, normalizes the
// synchronous response and caches it under a freshly minted webhook handle.
func (s *ScanService) triggerWebhook(ctx context.Context, in TriggerInput) (*TriggerResult, error) {
	if in.Body == nil {
		return nil, ErrNoScanPayload
	}

	payload, err := s.workflow.TriggerWebhook(ctx, in.ContentType, in.Body)
	if err != nil {
		return nil, fmt.Errorf("trigger webhook: %w", err)
	}

	result := core.Normalize(payload)
	executionID := model.WebhookExecutionPrefix + s.newID()

	// The client receives the result inline, so a failed cache write only
	// costs later re-fetches by ID.
	if err := s.resolver.StoreWebhookResult(ctx, executionID, result); err != nil {
		s.logger.Warn("caching webhook result failed", "execution_id", executionID, "error", err)
	}

	return &TriggerResult{ExecutionID: executionID, Result: result}, nil
}

// triggerAPI starts the workflow over the engine's REST API; the client
// polls for the result.
func (s *ScanService) triggerAPI(ctx context.Context, in TriggerInput) (*TriggerResult, error) {
	if len(in.Data) == 0 {
		return nil, ErrNoScanPayload
	}
	executionID, err := s.workflow.RunWorkflow(ctx, in.Data)
	if err != nil {
		return nil, fmt.Errorf("run workflow: %w", err)
	}
	return &TriggerResult{ExecutionID: executionID}, nil
}

func (s *ScanService) recordHistory(ctx context.Context, email, executionID string) {
	if s.history == nil || email == "" {
		return
	}
	if err := s.history.Append(ctx, email, executionID); err != nil {
		s.logger.Warn("recording scan history failed", "execution_id", executionID, "error", err)
	}
}

// Result resolves the outcome of a previously triggered scan.
func (s *ScanService) Result(ctx context.Context, executionID string) (*model.Resolution, error) {
	if executionID == "" {
		return nil, model.ErrResultNotFound
	}
	return s.resolver.Resolve(ctx, executionID)
}

// RecordScan appends an execution to a user's history log.
func (s *ScanService) RecordScan(ctx context.Context, email, executionID string) error {
	return s.history.Append(ctx, email, executionID)
}

// History returns a user's scan records, newest first.
func (s *ScanService) History(ctx context.Context, email string) ([]model.ScanRecord, error) {
	return s.history.ListByUser(ctx, email)
}
