package model

import (
	"encoding/json"
	"strings"
)

// Execution identifiers ("handles") come in three disjoint namespaces:
//
//   - the literal "demo" sentinel, resolved to a built-in fixture;
//   - "wh-" prefixed IDs minted for synchronous webhook results, backed by a
//     short-lived server-side cache;
//   - everything else, treated as a workflow-engine execution ID to poll.
const (
	DemoExecutionID        = "demo"
	WebhookExecutionPrefix = "wh-"
)

// IsWebhookExecutionID reports whether id belongs to the webhook namespace.
func IsWebhookExecutionID(id string) bool {
	return strings.HasPrefix(id, WebhookExecutionPrefix)
}

// Execution is the status of a workflow-engine execution as reported by the
// engine's executions API.
type Execution struct {
	ID       string `json:"id"`
	Finished bool   `json:"finished"`
	Status   string `json:"status"`

	// Data carries the engine's run data when requested with
	// includeData=true. The shape is engine-internal, so it is kept raw;
	// only the result resolver inspects it.
	Data json.RawMessage `json:"data,omitempty"`
}

// Resolution is the outcome of resolving an execution ID to a scan result.
// Result is nil while the execution is still running.
type Resolution struct {
	ExecutionID string      `json:"executionId"`
	Finished    bool        `json:"finished"`
	Status      string      `json:"status"`
	Result      *ScanResult `json:"result"`
}
