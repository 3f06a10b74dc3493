package core

import (
	"context"
	"io"

	"github.com/clearmed/clearmed-api/internal/domain/model"
)

// WorkflowClient is the outbound surface of the external workflow engine
// that performs OCR/LLM extraction. Implementations live in
// internal/adapters/workflow.
type WorkflowClient interface {
	// TriggerWebhook posts a multipart form straight to the configured
	// webhook and returns the decoded response payload. The engine answers
	// synchronously on this transport.
	TriggerWebhook(ctx context.Context, contentType string, body io.Reader) (map[string]any, error)

	// RunWorkflow starts the configured workflow with the given payload and
	// returns the execution ID to poll.
	RunWorkflow(ctx context.Context, data map[string]any) (string, error)

	// GetExecution fetches an execution by ID, optionally including run data.
	GetExecution(ctx context.Context, id string, includeData bool) (*model.Execution, error)
}

// CompletionClient is the outbound surface of the chat completion provider.
type CompletionClient interface {
	// Complete produces one assistant reply for a system/user prompt pair.
	Complete(ctx context.Context, system, user string) (string, error)
}

// ScanHistoryRepository is the append/read log of scans keyed by user.
type ScanHistoryRepository interface {
	// Append records a triggered execution for a user.
	Append(ctx context.Context, email, executionID string) error

	// ListByUser returns a user's scan records, newest first.
	ListByUser(ctx context.Context, email string) ([]model.ScanRecord, error)
}

// User is a stored account. PasswordHash is empty for OAuth-established
// accounts.
type User struct {
	Email        string `db:"email"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
}

// UserRepository stores email/password accounts.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrUserExists when the email
	// is already taken.
	Create(ctx context.Context, user *User) error

	// GetByEmail fetches a user; returns nil without error when absent.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
