package core

import (
	"context"
	"strings"

	"github.com/clearmed/clearmed-api/internal/domain/model"
)

const systemPromptBase = `You are a friendly health assistant for ClearMed. You help users understand their doctor's notes and health information in plain language.

Rules:
- Use simple, 6th-grade reading level. Be warm and supportive.
- Do NOT diagnose, prescribe, or give medical advice. Always say "consult your healthcare provider" for medical decisions.
- If the user shares scan results (checklist/summary), you may refer to them to explain terms or answer follow-up questions.
- Keep replies concise (a few short paragraphs max).`

// SystemPrompt returns the assistant's full system instructions, including
// the diagnosis-code reference block.
func SystemPrompt() string {
	return systemPromptBase + "\n\n" + DiagnosisReference()
}

// ContextAssembler builds the scan-context block prepended to chat turns.
// It never passes raw backend payloads to the assistant; only normalized
// results are rendered.
type ContextAssembler struct {
	resolver *ResultResolver
}

// NewContextAssembler creates a new ContextAssembler.
func NewContextAssembler(resolver *ResultResolver) *ContextAssembler {
	return &ContextAssembler{resolver: resolver}
}

// ContextBlock renders the context text for one chat turn.
//
// An explicitly supplied result wins over execution-ID resolution: the
// client-held copy is the only copy that survives webhook-cache expiry and
// cross-process deployments, so it is treated as authoritative. When neither
// source yields a result the block is empty and the assistant answers
// without scan context.
func (a *ContextAssembler) ContextBlock(
	ctx context.Context,
	inline *model.ScanResult,
	executionID string,
) string {
	result := inline
	if result == nil && executionID != "" && a.resolver != nil {
		res, err := a.resolver.Resolve(ctx, executionID)
		if err == nil && res.Result != nil {
			result = res.Result
		}
	}
	if result == nil {
		return ""
	}
	formatted := FormatScanContext(result)
	if formatted == "" {
		return ""
	}
	return "\n\nUser's last scan (for context only):\n" + formatted +
		"\nAnswer from this context directly instead of asking the user to repeat it.\n"
}

// FormatScanContext renders a normalized result as the compact
// "Summary: …" / "Checklist: …" block the assistant consumes.
func FormatScanContext(result *model.ScanResult) string {
	var parts []string
	if result.Summary != "" {
		parts = append(parts, "Summary: "+result.Summary)
	}
	if len(result.Checklist) > 0 {
		items := make([]string, 0, len(result.Checklist))
		for _, item := range result.Checklist {
			state := "todo"
			if item.Checked {
				state = "done"
			}
			items = append(items, item.Text+" ("+state+")")
		}
		parts = append(parts, "Checklist: "+strings.Join(items, "; "))
	}
	if notes := DiagnosisCodeNotes(strings.Join(parts, "\n")); len(notes) > 0 {
		parts = append(parts, "Diagnosis codes: "+strings.Join(notes, "; "))
	}
	return strings.Join(parts, "\n")
}
