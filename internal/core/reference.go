package core

import (
	"regexp"
	"strings"
	"unicode"
)

// ICD-10-GM Version 2024 chapter overview (Kapitelübersicht).
// Source: BfArM – https://klassifikationen.bfarm.de/icd-10-gm/kode-suche/htmlgm2024/index.htm
// Consulted when building the chat assistant's system instructions so it can
// explain diagnosis codes from doctor's notes.

// ReferenceEntry is one static code-or-range to title pair. Read-only,
// loaded at process start, never mutated.
type ReferenceEntry struct {
	CodeOrRange string
	Title       string
}

var icd10gmChapters = []ReferenceEntry{
	{"A00-B99", "Bestimmte infektiöse und parasitäre Krankheiten"},
	{"C00-D48", "Neubildungen"},
	{"D50-D90", "Krankheiten des Blutes und der blutbildenden Organe sowie bestimmte Störungen mit Beteiligung des Immunsystems"},
	{"E00-E90", "Endokrine, Ernährungs- und Stoffwechselkrankheiten"},
	{"F00-F99", "Psychische und Verhaltensstörungen"},
	{"G00-G99", "Krankheiten des Nervensystems"},
	{"H00-H59", "Krankheiten des Auges und der Augenanhangsgebilde"},
	{"H60-H95", "Krankheiten des Ohres und des Warzenfortsatzes"},
	{"I00-I99", "Krankheiten des Kreislaufsystems"},
	{"J00-J99", "Krankheiten des Atmungssystems"},
	{"K00-K93", "Krankheiten des Verdauungssystems"},
	{"L00-L99", "Krankheiten der Haut und der Unterhaut"},
	{"M00-M99", "Krankheiten des Muskel-Skelett-Systems und des Bindegewebes"},
	{"N00-N99", "Krankheiten des Urogenitalsystems"},
	{"O00-O99", "Schwangerschaft, Geburt und Wochenbett"},
	{"P00-P96", "Bestimmte Zustände, die ihren Ursprung in der Perinatalperiode haben"},
	{"Q00-Q99", "Angeborene Fehlbildungen, Deformitäten und Chromosomenanomalien"},
	{"R00-R99", "Symptome und abnorme klinische und Laborbefunde, die anderenorts nicht klassifiziert sind"},
	{"S00-T98", "Verletzungen, Vergiftungen und bestimmte andere Folgen äußerer Ursachen"},
	{"V01-Y84", "Äußere Ursachen von Morbidität und Mortalität"},
	{"Z00-Z99", "Faktoren, die den Gesundheitszustand beeinflussen und zur Inanspruchnahme des Gesundheitswesens führen"},
	{"U00-U99", "Schlüsselnummern für besondere Zwecke"},
}

// Common ICD-10-GM codes often seen on German doctor's notes (subset for context).
var icd10gmCommon = []ReferenceEntry{
	{"E11", "Diabetes mellitus, Typ 2"},
	{"I10", "Essentielle (primäre) Hypertonie"},
	{"G43", "Migräne"},
	{"J06", "Akute Infektionen an mehreren oder nicht näher bezeichneten Lokalisationen der oberen Atemwege"},
	{"M54", "Kreuzschmerz und sonstige Rückenschmerzen"},
	{"F32", "Depressive Episode"},
	{"J45", "Asthma bronchiale"},
	{"K21", "Gastroösophageale Refluxkrankheit"},
	{"M25", "Sonstige Gelenkkrankheiten"},
	{"R51", "Kopfschmerz"},
}

// LookupDiagnosisCode returns the reference title for an ICD-10-GM code such
// as "G43.0". Exact common codes match first, then the chapter whose range
// covers the code's leading root. A miss is not an error; callers silently
// omit the reference.
func LookupDiagnosisCode(code string) (string, bool) {
	root := codeRoot(code)
	if root == "" {
		return "", false
	}
	for _, c := range icd10gmCommon {
		if c.CodeOrRange == root {
			return c.Title, true
		}
	}
	for _, ch := range icd10gmChapters {
		lo, hi, ok := strings.Cut(ch.CodeOrRange, "-")
		// Roots have the fixed form letter + two digits, so the range check
		// is a plain string comparison.
		if ok && root >= lo && root <= hi {
			return ch.Title, true
		}
	}
	return "", false
}

// codeRoot extracts the three-character category root ("G43" from "g43.0"),
// or "" when the input doesn't look like an ICD-10 code.
func codeRoot(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 3 {
		return ""
	}
	if !unicode.IsUpper(rune(code[0])) || !unicode.IsDigit(rune(code[1])) || !unicode.IsDigit(rune(code[2])) {
		return ""
	}
	return code[:3]
}

var icdCodePattern = regexp.MustCompile(`\b[A-Z][0-9]{2}(?:\.[0-9]{1,2})?\b`)

// DiagnosisCodeNotes scans free text for ICD-10-GM codes and returns
// "CODE: Title" notes for the ones the reference table can place. Unknown
// codes are left out.
func DiagnosisCodeNotes(text string) []string {
	var notes []string
	seen := map[string]bool{}
	for _, code := range icdCodePattern.FindAllString(text, -1) {
		if seen[code] {
			continue
		}
		seen[code] = true
		if title, ok := LookupDiagnosisCode(code); ok {
			notes = append(notes, code+": "+title)
		}
	}
	return notes
}

// DiagnosisReference renders the full reference block injected into the
// assistant's system instructions.
func DiagnosisReference() string {
	var b strings.Builder
	b.WriteString("ICD-10-GM 2024 (German modification). Full reference: https://klassifikationen.bfarm.de/icd-10-gm/kode-suche/htmlgm2024/index.htm\n\n")
	b.WriteString("Chapters (Kapitel):\n")
	for _, ch := range icd10gmChapters {
		b.WriteString(ch.CodeOrRange)
		b.WriteString(": ")
		b.WriteString(ch.Title)
		b.WriteString("\n")
	}
	b.WriteString("\nCommon codes (examples):\n")
	for _, c := range icd10gmCommon {
		b.WriteString(c.CodeOrRange)
		b.WriteString(": ")
		b.WriteString(c.Title)
		b.WriteString("\n")
	}
	b.WriteString("\nWhen the user asks about an ICD-10 or ICD-10-GM code (e.g. G43.0, E11.9), use this list to say which chapter/category it belongs to and give a short plain-language explanation. For codes not in the list, infer from the chapter range (e.g. G43 is in G00-G99 Nervensystem).")
	return b.String()
}
