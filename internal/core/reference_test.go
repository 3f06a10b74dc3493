package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupDiagnosisCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		code      string
		wantTitle string
		wantOK    bool
	}{
		{name: "common code exact", code: "G43", wantTitle: "Migräne", wantOK: true},
		{name: "common code with subcode", code: "G43.0", wantTitle: "Migräne", wantOK: true},
		{name: "common code lowercase", code: "e11.9", wantTitle: "Diabetes mellitus, Typ 2", wantOK: true},
		{name: "chapter range match", code: "G99", wantTitle: "Krankheiten des Nervensystems", wantOK: true},
		{name: "cross letter range", code: "T42.1", wantTitle: "Verletzungen, Vergiftungen und bestimmte andere Folgen äußerer Ursachen", wantOK: true},
		{name: "gap between chapters", code: "D49", wantOK: false},
		{name: "not a code", code: "hello", wantOK: false},
		{name: "too short", code: "G4", wantOK: false},
		{name: "empty", code: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			title, ok := LookupDiagnosisCode(tt.code)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTitle, title)
		})
	}
}

func TestDiagnosisCodeNotes(t *testing.T) {
	t.Parallel()

	notes := DiagnosisCodeNotes("Diagnosis: Migräne (G43.0), Bluthochdruck I10, siehe G43.0")
	assert.Equal(t, []string{"G43.0: Migräne", "I10: Essentielle (primäre) Hypertonie"}, notes)

	assert.Empty(t, DiagnosisCodeNotes("no codes in here"))
	assert.Empty(t, DiagnosisCodeNotes("D49 falls between chapters"))
}

func TestDiagnosisReference_ListsChaptersAndCommonCodes(t *testing.T) {
	t.Parallel()

	ref := DiagnosisReference()
	assert.Contains(t, ref, "A00-B99: Bestimmte infektiöse und parasitäre Krankheiten")
	assert.Contains(t, ref, "E11: Diabetes mellitus, Typ 2")
	assert.Contains(t, ref, "Common codes (examples):")
}
