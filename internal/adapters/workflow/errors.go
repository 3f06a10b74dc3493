package workflow

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when a transport is invoked without the
// configuration it needs. Surfaced to users as a remediation hint, never
// retried automatically.
var ErrNotConfigured = errors.New("workflow engine is not configured; set WORKFLOW_WEBHOOK_URL or WORKFLOW_BASE_URL/WORKFLOW_API_KEY/WORKFLOW_ID")

// TransportError is a non-2xx response from the workflow engine. Body holds
// a truncated preview of the raw response for diagnosability.
type TransportError struct {
	Operation string
	Status    int
	Body      string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("workflow %s failed (%d): %s", e.Operation, e.Status, e.Body)
}

// MalformedResponseError means the engine answered 2xx but with an empty or
// non-JSON body, or a body missing required fields. Distinguished from
// TransportError so the user sees "the backend didn't answer correctly"
// instead of a generic parse failure.
type MalformedResponseError struct {
	Operation string
	Reason    string
	Preview   string
}

func (e *MalformedResponseError) Error() string {
	if e.Preview == "" {
		return fmt.Sprintf("workflow %s returned a malformed response: %s", e.Operation, e.Reason)
	}
	return fmt.Sprintf("workflow %s returned a malformed response: %s (preview: %s)", e.Operation, e.Reason, e.Preview)
}
