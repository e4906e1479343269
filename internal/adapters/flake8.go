package adapters

import (
	"encoding/json"

	"revq/internal/issues"
)

// flake8Record mirrors one entry of flake8's JSON report
// (flake8 --format=json, keyed by filename).
type flake8Record struct {
	Code         string `json:"code"`
	Filename     string `json:"filename"`
	LineNumber   int    `json:"line_number"`
	ColumnNumber int    `json:"column_number"`
	Text         string `json:"text"`
}

var flake8Table = map[string]mapping{
	"E231": {issues.CategoryStandards, issues.SeverityInfo, "Add a space after the comma to comply with PEP 8."},
	"E261": {issues.CategoryStandards, issues.SeverityInfo, "Ensure at least two spaces before inline comments."},
	"E302": {issues.CategoryStandards, issues.SeverityMinor, "Add two blank lines before function or class definitions."},
	"E305": {issues.CategoryStandards, issues.SeverityMinor, "Add two blank lines after function or class definitions."},
	"E501": {issues.CategoryStandards, issues.SeverityMinor, "Wrap long lines to the configured limit."},
	"E711": {issues.CategoryBugs, issues.SeverityMinor, "Compare to None with 'is' / 'is not'."},
	"E722": {issues.CategoryBugs, issues.SeverityMajor, "Catch specific exceptions instead of a bare except."},
	"E731": {issues.CategoryStandards, issues.SeverityMinor, "Use 'def' for function definitions instead of lambda assignments."},
	"W291": {issues.CategoryStandards, issues.SeverityInfo, "Remove trailing whitespace."},
	"W605": {issues.CategoryBugs, issues.SeverityMinor, "Escape the sequence or use a raw string."},
	"F401": {issues.CategoryStandards, issues.SeverityMinor, "Remove the unused import."},
	"F811": {issues.CategoryBugs, issues.SeverityMajor, "Remove or rename the redefinition."},
	"F821": {issues.CategoryBugs, issues.SeverityCritical, "Define the name before use."},
	"F841": {issues.CategoryBugs, issues.SeverityMinor, "Remove unused variables to improve clarity."},
	"C901": {issues.CategoryComplexity, issues.SeverityMajor, "Split the function to reduce its cyclomatic complexity."},
}

// flake8PrefixBucket mirrors the original rules' letter bucketing:
// E→bugs, W→standards, F→bugs, C (mccabe)→complexity.
func flake8PrefixBucket(code string) mapping {
	if code == "" {
		return fallback
	}
	switch code[0] {
	case 'E':
		return mapping{category: issues.CategoryBugs, severity: issues.SeverityMinor}
	case 'W':
		return mapping{category: issues.CategoryStandards, severity: issues.SeverityMinor}
	case 'F':
		return mapping{category: issues.CategoryBugs, severity: issues.SeverityMajor}
	case 'C':
		return mapping{category: issues.CategoryComplexity, severity: issues.SeverityMajor}
	}
	return fallback
}

// Flake8Adapter normalizes flake8 JSON reports.
type Flake8Adapter struct{}

// NewFlake8Adapter returns the flake8 adapter.
func NewFlake8Adapter() *Flake8Adapter { return &Flake8Adapter{} }

// ID implements Adapter.
func (a *Flake8Adapter) ID() string { return "flake8" }

// Normalize implements Adapter.
func (a *Flake8Adapter) Normalize(raw []byte) ([]issues.Issue, error) {
	var byFile map[string][]flake8Record
	if err := json.Unmarshal(raw, &byFile); err != nil {
		return []issues.Issue{parseFailure(a.ID(), err)}, payloadError(a.ID(), err)
	}

	var out []issues.Issue
	for file, records := range byFile {
		for _, rec := range records {
			path := rec.Filename
			if path == "" {
				path = file
			}
			if path == "" {
				out = append(out, parseFailure(a.ID(), errRecordMissingPath))
				continue
			}

			m, ok := flake8Table[rec.Code]
			if !ok {
				m = flake8PrefixBucket(rec.Code)
			}

			out = append(out, issues.Issue{
				File:       normalizePath(path),
				Line:       safeLine(rec.LineNumber),
				Column:     safeColumn(rec.ColumnNumber),
				Code:       rec.Code,
				Category:   m.category,
				Severity:   m.severity,
				Message:    rec.Text,
				Sources:    []string{a.ID()},
				Suggestion: m.suggestion,
			})
		}
	}

	// Map iteration order is random; restore the canonical order so the
	// adapter output is deterministic on its own.
	issues.SortCanonical(out)
	return out, nil
}
