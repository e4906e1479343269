package adapters

import (
	"encoding/json"
	"strings"

	"revq/internal/issues"
)

// pylintRecord mirrors one entry of `pylint --output-format=json`.
type pylintRecord struct {
	Type      string `json:"type"` // convention|refactor|warning|error|fatal
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	MessageID string `json:"message-id"`
	Symbol    string `json:"symbol"`
	Message   string `json:"message"`
}

// pylintTable maps the message ids the original review rules single out.
// Codes not listed fall through to the prefix buckets below.
var pylintTable = map[string]mapping{
	"C0114": {issues.CategoryStandards, issues.SeverityMinor, "Add a module docstring for better readability."},
	"C0115": {issues.CategoryStandards, issues.SeverityMinor, "Add a class docstring for better documentation."},
	"C0116": {issues.CategoryStandards, issues.SeverityMinor, "Add docstrings to functions for better readability."},
	"C0301": {issues.CategoryStandards, issues.SeverityMinor, "Wrap long lines to the configured limit."},
	"C0303": {issues.CategoryStandards, issues.SeverityInfo, "Remove trailing whitespace."},
	"C3001": {issues.CategoryStandards, issues.SeverityMinor, "Replace lambda assignments with proper function definitions."},
	"R0903": {issues.CategoryStructure, issues.SeverityMinor, "Consider adding more public methods or merging the class."},
	"R0912": {issues.CategoryComplexity, issues.SeverityMajor, "Split the function to reduce branching."},
	"R0915": {issues.CategoryComplexity, issues.SeverityMajor, "Split the function to reduce its statement count."},
	"W0101": {issues.CategoryBugs, issues.SeverityMajor, "Remove unreachable code to improve clarity."},
	"W0125": {issues.CategoryBugs, issues.SeverityMajor, "Avoid using constant values in conditional statements."},
	"W0611": {issues.CategoryStandards, issues.SeverityMinor, "Remove the unused import."},
	"W0612": {issues.CategoryBugs, issues.SeverityMinor, "Remove unused variables to improve clarity."},
	"E0602": {issues.CategoryBugs, issues.SeverityCritical, "Define the name before use."},
	"E1101": {issues.CategoryBugs, issues.SeverityMajor, "Check the attribute name against the object's type."},
}

// pylintPrefixBucket classifies unlisted codes by their message-id prefix,
// the same bucketing the original review rules applied: C→standards,
// R→structure, W/E→bugs, F→bugs at critical.
func pylintPrefixBucket(messageID string) mapping {
	if messageID == "" {
		return fallback
	}
	switch messageID[0] {
	case 'C':
		return mapping{category: issues.CategoryStandards, severity: issues.SeverityMinor}
	case 'R':
		return mapping{category: issues.CategoryStructure, severity: issues.SeverityMinor}
	case 'W':
		return mapping{category: issues.CategoryBugs, severity: issues.SeverityMinor}
	case 'E':
		return mapping{category: issues.CategoryBugs, severity: issues.SeverityMajor}
	case 'F':
		return mapping{category: issues.CategoryBugs, severity: issues.SeverityCritical}
	}
	return fallback
}

// PylintAdapter normalizes pylint JSON reports.
type PylintAdapter struct{}

// NewPylintAdapter returns the pylint adapter.
func NewPylintAdapter() *PylintAdapter { return &PylintAdapter{} }

// ID implements Adapter.
func (a *PylintAdapter) ID() string { return "pylint" }

// Normalize implements Adapter.
func (a *PylintAdapter) Normalize(raw []byte) ([]issues.Issue, error) {
	var records []pylintRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return []issues.Issue{parseFailure(a.ID(), err)}, payloadError(a.ID(), err)
	}

	out := make([]issues.Issue, 0, len(records))
	for _, rec := range records {
		if rec.Path == "" {
			out = append(out, parseFailure(a.ID(), errRecordMissingPath))
			continue
		}

		m, ok := pylintTable[rec.MessageID]
		if !ok {
			m = pylintPrefixBucket(rec.MessageID)
		}

		message := rec.Message
		if rec.Symbol != "" {
			message = rec.Message + " (" + rec.Symbol + ")"
		}

		out = append(out, issues.Issue{
			File:       normalizePath(rec.Path),
			Line:       safeLine(rec.Line),
			Column:     safeColumn(rec.Column),
			Code:       rec.MessageID,
			Category:   m.category,
			Severity:   m.severity,
			Message:    message,
			Sources:    []string{a.ID()},
			Suggestion: m.suggestion,
		})
	}
	return out, nil
}

// normalizePath converts native paths to slash-separated change-set
// relative form so (file, line) grouping works across analyzers.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(p, "./")
}

func safeColumn(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
