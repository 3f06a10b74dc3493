package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/clearmed/clearmed-api/internal/domain/model"
)

// ExecutionClient is the slice of the workflow engine's API the resolver
// needs: fetching an execution's status and run data.
type ExecutionClient interface {
	GetExecution(ctx context.Context, id string, includeData bool) (*model.Execution, error)
}

// webhookResultKeyPrefix namespaces cached webhook results in the store.
const webhookResultKeyPrefix = "scan:webhook:"

// demoResult is the canned fixture served for the "demo" execution ID when
// no workflow backend is configured.
var demoResult = model.ScanResult{
	Checklist: []model.ChecklistItem{
		{Text: "Take medication with food", Checked: true},
		{Text: "Drink plenty of water daily", Checked: true},
		{Text: "Schedule follow-up in 2 weeks", Checked: false},
		{Text: "Rest and avoid heavy lifting", Checked: true},
	},
	Summary:      "Demo summary. Configure the workflow engine to get real results.",
	VerifiedSafe: true,
}

// ResultResolverOptions bundles dependencies for NewResultResolver.
type ResultResolverOptions struct {
	Cache    CacheRepository
	Workflow ExecutionClient

	// ResultSteps is the ordered preference list of workflow step names
	// consulted for the result payload. When none match, the
	// chronologically last step's output is used.
	ResultSteps []string

	// WebhookTTL is how long stored webhook results stay resolvable.
	WebhookTTL time.Duration

	// Evaluator overrides the JMESPath evaluator (tests).
	Evaluator JSONPathEvaluator
}

// ResultResolver locates the ScanResult for an execution ID across the three
// storage paths: the demo fixture, the short-lived webhook-result cache, and
// the workflow engine's executions API.
type ResultResolver struct {
	cache      CacheRepository
	workflow   ExecutionClient
	steps      []string
	webhookTTL time.Duration
	jsonpath   JSONPathEvaluator
}

// NewResultResolver creates a new ResultResolver.
func NewResultResolver(opts ResultResolverOptions) *ResultResolver {
	jp := opts.Evaluator
	if jp == nil {
		jp = jmespathLibEvaluator{}
	}
	ttl := opts.WebhookTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResultResolver{
		cache:      opts.Cache,
		workflow:   opts.Workflow,
		steps:      opts.ResultSteps,
		webhookTTL: ttl,
		jsonpath:   jp,
	}
}

// StoreWebhookResult caches a synchronously produced result under a
// webhook-namespaced execution ID. The entry expires after the configured
// TTL; afterwards only a client-held copy can resolve it.
func (r *ResultResolver) StoreWebhookResult(
	ctx context.Context,
	executionID string,
	result *model.ScanResult,
) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal scan result: %w", err)
	}
	return r.cache.Set(ctx, webhookResultKeyPrefix+executionID, data, r.webhookTTL)
}

// Resolve locates the ScanResult for the given execution ID.
//
// Outcomes: a Resolution with Result set (found); a Resolution with
// Finished=false and Result=nil (execution still running);
// model.ErrResultNotFound (expired webhook entry, or a finished execution
// with no object output); any other error is a resolution failure talking to
// the workflow engine.
func (r *ResultResolver) Resolve(ctx context.Context, executionID string) (*model.Resolution, error) {
	switch {
	case executionID == model.DemoExecutionID:
		fixture := demoResult
		return &model.Resolution{
			ExecutionID: executionID,
			Finished:    true,
			Status:      "success",
			Result:      &fixture,
		}, nil
	case model.IsWebhookExecutionID(executionID):
		return r.resolveWebhook(ctx, executionID)
	default:
		return r.resolveExecution(ctx, executionID)
	}
}

func (r *ResultResolver) resolveWebhook(ctx context.Context, executionID string) (*model.Resolution, error) {
	data, err := r.cache.Get(ctx, webhookResultKeyPrefix+executionID)
	if err != nil {
		return nil, fmt.Errorf("webhook result cache: %w", err)
	}
	if data == nil {
		return nil, model.ErrResultNotFound
	}
	var result model.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal cached result: %w", err)
	}
	return &model.Resolution{
		ExecutionID: executionID,
		Finished:    true,
		Status:      "success",
		Result:      &result,
	}, nil
}

func (r *ResultResolver) resolveExecution(ctx context.Context, executionID string) (*model.Resolution, error) {
	exec, err := r.workflow.GetExecution(ctx, executionID, true)
	if err != nil {
		return nil, fmt.Errorf("get execution %s: %w", executionID, err)
	}
	res := &model.Resolution{
		ExecutionID: exec.ID,
		Finished:    exec.Finished,
		Status:      exec.Status,
	}
	if !exec.Finished {
		return res, nil
	}

	output, ok := r.stepOutput(exec.Data)
	if !ok {
		return nil, model.ErrResultNotFound
	}
	res.Result = Normalize(output)
	return res, nil
}

// executionData mirrors the engine's run-data envelope just deep enough to
// reach the per-step run data.
type executionData struct {
	ResultData struct {
		RunData json.RawMessage `json:"runData"`
	} `json:"resultData"`
}

// stepOutput picks the output object of the step that carries the scan
// result. Steps from the preference list are tried in order; when none
// produced output, the chronologically last step is used.
func (r *ResultResolver) stepOutput(data json.RawMessage) (map[string]any, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var envelope executionData
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, false
	}
	rawRunData := envelope.ResultData.RunData
	var steps map[string]any
	if err := json.Unmarshal(rawRunData, &steps); err != nil || len(steps) == 0 {
		return nil, false
	}

	for _, name := range r.steps {
		if out := r.stepJSON(steps, name); out != nil {
			return out, true
		}
	}

	// Go maps do not preserve key order, so the chronologically last step is
	// recovered from the raw run-data JSON.
	keys := orderedKeys(rawRunData)
	if len(keys) == 0 {
		return nil, false
	}
	v, err := r.jsonpath.Evaluate(quoteStep(keys[len(keys)-1])+"[0].data.main[0][0]", steps)
	if err != nil {
		return nil, false
	}
	item, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	if wrapped, present := item["json"]; present {
		// A json field that is not an object is no usable output.
		m, ok := wrapped.(map[string]any)
		return m, ok && m != nil
	}
	// Some steps emit bare items without a json wrapper.
	return item, true
}

// stepJSON extracts the first output item's json object for one named step.
func (r *ResultResolver) stepJSON(steps map[string]any, name string) map[string]any {
	v, err := r.jsonpath.Evaluate(quoteStep(name)+"[0].data.main[0][0].json", steps)
	if err != nil {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

// quoteStep quotes a step name as a JMESPath identifier; workflow step names
// routinely contain spaces.
func quoteStep(name string) string {
	return strconv.Quote(name)
}

// orderedKeys returns the top-level object keys of raw JSON in document
// order.
func orderedKeys(raw json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	t, err := dec.Token()
	if err != nil || t != json.Delim('{') {
		return nil
	}
	var keys []string
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := kt.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return keys
		}
	}
	return keys
}

func skipValue(dec *json.Decoder) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := t.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		t, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := t.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
