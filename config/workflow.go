package config

import "strings"

// Default preference order for the workflow step whose output carries the
// scan result. These are the node names of the known note-processing
// workflow; WORKFLOW_RESULT_STEPS overrides them when the workflow changes.
var defaultResultSteps = []string{
	"Prepare Response",
	"Prepare Response1",
	"Transform to Patient-Friendly Format",
	"Code in JavaScript",
	"HTTP Request",
}

// WorkflowConfig contains configuration for the external workflow engine
// that performs OCR/LLM extraction from uploaded notes.
//
// Two transports are supported. If WebhookURL is set, scans POST multipart
// data directly to it and receive a result synchronously. Otherwise, when
// BaseURL, APIKey and WorkflowID are all present, scans run the named
// workflow through the engine's REST API and the result is polled later.
// With neither configured the service falls back to demo mode.
type WorkflowConfig struct {
	BaseURL    string `env:"BASE_URL"`
	APIKey     string `env:"API_KEY"`
	WorkflowID string `env:"ID"`
	WebhookURL string `env:"WEBHOOK_URL"`

	// ResultSteps is the ordered list of workflow step names consulted for
	// the result payload when parsing a finished execution.
	ResultSteps []string `env:"RESULT_STEPS" envSeparator:","`
}

// Sanitize applies guardrails to workflow configuration values.
func (w *WorkflowConfig) Sanitize() {
	w.BaseURL = strings.TrimRight(strings.TrimSpace(w.BaseURL), "/")
	w.APIKey = strings.TrimSpace(w.APIKey)
	w.WorkflowID = strings.TrimSpace(w.WorkflowID)
	w.WebhookURL = strings.TrimSpace(w.WebhookURL)

	steps := make([]string, 0, len(w.ResultSteps))
	for _, s := range w.ResultSteps {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}
	if len(steps) == 0 {
		steps = append(steps, defaultResultSteps...)
	}
	w.ResultSteps = steps
}

// WebhookEnabled returns true when the direct-webhook transport is configured.
func (w *WorkflowConfig) WebhookEnabled() bool { return w.WebhookURL != "" }

// APIEnabled returns true when the workflow-run transport is fully configured.
func (w *WorkflowConfig) APIEnabled() bool {
	return w.BaseURL != "" && w.APIKey != "" && w.WorkflowID != ""
}
