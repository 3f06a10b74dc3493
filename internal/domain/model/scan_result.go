package model

// ChecklistItem is one extracted instruction or warning from a doctor's note.
// Checked marks an affirmative instruction ("take this"); unchecked items are
// warnings or unconfirmed entries the user should review.
type ChecklistItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// ScanResult is the canonical normalized output of a note scan. It is
// immutable once produced; every accepted backend payload shape maps onto it.
//
// Field names follow the wire format the results screen and the client-side
// scan cache already speak (audioUrl / audio_base64 / verifiedSafe).
type ScanResult struct {
	// Checklist is never nil on a normalized result; an empty note still
	// yields a placeholder entry.
	Checklist []ChecklistItem `json:"checklist"`

	Summary string `json:"summary,omitempty"`

	// AudioURL and AudioBase64 are mutually substitutable references to a
	// spoken explanation; at most one is authoritative at render time.
	AudioURL    string `json:"audioUrl,omitempty"`
	AudioBase64 string `json:"audio_base64,omitempty"`

	// VerifiedSafe is false when at least one warning sign was extracted and
	// a human should review the note.
	VerifiedSafe bool `json:"verifiedSafe"`
}

// WarningCount returns the number of unchecked (warning) checklist entries.
func (r *ScanResult) WarningCount() int {
	n := 0
	for _, item := range r.Checklist {
		if !item.Checked {
			n++
		}
	}
	return n
}
