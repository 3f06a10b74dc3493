package core

import (
	"fmt"
	"strings"

	"github.com/clearmed/clearmed-api/internal/domain/model"
)

// The note-processing workflow has produced two output shapes over time: the
// "app shape" that already carries a checklist, and the raw LLM extraction
// with Diagnosis/Medications/Warning Signs. Normalize accepts both, plus
// anything else, and always yields a fully populated ScanResult.

// warningSignAliases is the fixed priority order for the warning-signs field.
// Different workflow revisions spelled the key differently; the first alias
// present wins.
var warningSignAliases = []string{"Warning_Signs", "WarningSigns", "Warning Signs"}

// placeholderChecklistText is inserted when extraction produced nothing.
const placeholderChecklistText = "No specific action items extracted"

// fallbackSummary is used when the extraction carries no diagnosis text.
const fallbackSummary = "Medical note processed. See checklist for details."

// Normalize converts a raw backend payload into the canonical ScanResult.
// It is total: any input maps to a result, falling back to placeholder text
// rather than failing.
func Normalize(raw map[string]any) *model.ScanResult {
	obj := unwrapItem(raw)
	if list, ok := obj["checklist"].([]any); ok {
		return fromAppShape(obj, list)
	}
	// Raw extraction shape, or anything else. Running unknown shapes through
	// the extraction path guarantees totality.
	return fromExtraction(obj)
}

// unwrapItem removes one level of { json: {...} } nesting, which the
// workflow engine adds when a step forwards a whole item.
func unwrapItem(raw map[string]any) map[string]any {
	if raw == nil {
		return map[string]any{}
	}
	if inner, ok := raw["json"].(map[string]any); ok {
		return inner
	}
	return raw
}

func fromAppShape(obj map[string]any, list []any) *model.ScanResult {
	checklist := make([]model.ChecklistItem, 0, len(list))
	for _, entry := range list {
		switch v := entry.(type) {
		case string:
			checklist = append(checklist, model.ChecklistItem{Text: v, Checked: true})
		case map[string]any:
			item := model.ChecklistItem{Text: stringField(v, "text"), Checked: true}
			if item.Text == "" {
				item.Text = fmt.Sprint(v)
			}
			if b, ok := v["checked"].(bool); ok {
				item.Checked = b
			}
			checklist = append(checklist, item)
		default:
			checklist = append(checklist, model.ChecklistItem{Text: fmt.Sprint(entry), Checked: true})
		}
	}

	summary := stringField(obj, "summary")
	if summary == "" {
		summary = stringField(obj, "text")
	}
	audioURL := stringField(obj, "audio_url")
	if audioURL == "" {
		audioURL = stringField(obj, "audioUrl")
	}

	return &model.ScanResult{
		Checklist:   checklist,
		Summary:     summary,
		AudioURL:    audioURL,
		AudioBase64: stringField(obj, "audio_base64"),
		// Anything other than a literal false means safe.
		VerifiedSafe: obj["verifiedSafe"] != false,
	}
}

func fromExtraction(obj map[string]any) *model.ScanResult {
	diagnosis := stringField(obj, "Diagnosis")
	meds, _ := obj["Medications"].([]any)
	warnings, warnTotal := warningSigns(obj)

	checklist := make([]model.ChecklistItem, 0, len(meds)+len(warnings)+1)
	if diagnosis != "" {
		checklist = append(checklist, model.ChecklistItem{Text: "Diagnosis: " + diagnosis, Checked: true})
	}
	for _, m := range meds {
		if text := medicationText(m); text != "" {
			checklist = append(checklist, model.ChecklistItem{Text: "Take: " + text, Checked: true})
		}
	}
	for _, w := range warnings {
		if w == "" {
			continue
		}
		checklist = append(checklist, model.ChecklistItem{Text: "Watch for: " + w, Checked: false})
	}
	if len(checklist) == 0 {
		checklist = append(checklist, model.ChecklistItem{Text: placeholderChecklistText, Checked: false})
	}

	// Summary clauses and the safety flag follow the raw list lengths, not
	// the empty-filtered checklist: a warnings list holding only blank
	// entries still flags the result for review.
	summary := fallbackSummary
	if diagnosis != "" {
		summary = diagnosis
		if len(meds) > 0 {
			summary += " Take medications as prescribed."
		}
		if warnTotal > 0 {
			summary += " Watch for warning signs."
		}
	}

	return &model.ScanResult{
		Checklist:    checklist,
		Summary:      summary,
		VerifiedSafe: warnTotal == 0,
	}
}

// medicationText renders one medication entry. Structured entries join the
// non-empty parts of name, dosage, and frequency; plain strings pass through.
func medicationText(m any) string {
	switch v := m.(type) {
	case string:
		return v
	case map[string]any:
		parts := make([]string, 0, 3)
		for _, key := range []string{"Name", "Dosage", "Frequency"} {
			if s := stringField(v, key); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// warningSigns returns the warning texts for the checklist plus the raw list
// length; the summary clause and safety flag count every entry, including
// blank or malformed ones.
func warningSigns(obj map[string]any) ([]string, int) {
	for _, alias := range warningSignAliases {
		list, ok := obj[alias].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(list))
		for _, w := range list {
			if s, ok := w.(string); ok {
				out = append(out, s)
			}
		}
		return out, len(list)
	}
	return nil, 0
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
