package adapters

import (
	"encoding/json"
	"fmt"

	"revq/internal/issues"
)

// radonBlock mirrors one block of `radon cc -j` output, keyed by file.
type radonBlock struct {
	Type       string `json:"type"` // function|method|class
	Name       string `json:"name"`
	Rank       string `json:"rank"` // A..F
	Lineno     int    `json:"lineno"`
	ColOffset  int    `json:"col_offset"`
	Complexity int    `json:"complexity"`
}

// radonRankTable maps radon's maintainability ranks to severities.
// Ranks A and B are within budget and produce no issue.
var radonRankTable = map[string]issues.Severity{
	"C": issues.SeverityMinor,
	"D": issues.SeverityMajor,
	"E": issues.SeverityCritical,
	"F": issues.SeverityCritical,
}

// RadonAdapter normalizes radon cyclomatic-complexity JSON reports.
type RadonAdapter struct{}

// NewRadonAdapter returns the radon adapter.
func NewRadonAdapter() *RadonAdapter { return &RadonAdapter{} }

// ID implements Adapter.
func (a *RadonAdapter) ID() string { return "radon" }

// Normalize implements Adapter.
func (a *RadonAdapter) Normalize(raw []byte) ([]issues.Issue, error) {
	var byFile map[string][]radonBlock
	if err := json.Unmarshal(raw, &byFile); err != nil {
		return []issues.Issue{parseFailure(a.ID(), err)}, payloadError(a.ID(), err)
	}

	var out []issues.Issue
	for file, blocks := range byFile {
		if file == "" {
			out = append(out, parseFailure(a.ID(), errRecordMissingPath))
			continue
		}
		for _, block := range blocks {
			severity, flagged := radonRankTable[block.Rank]
			if !flagged {
				continue
			}

			out = append(out, issues.Issue{
				File:     normalizePath(file),
				Line:     safeLine(block.Lineno),
				Column:   safeColumn(block.ColOffset),
				Code:     "CC-" + block.Rank,
				Category: issues.CategoryComplexity,
				Severity: severity,
				Message: fmt.Sprintf("%s '%s' has cyclomatic complexity %d (rank %s)",
					block.Type, block.Name, block.Complexity, block.Rank),
				Sources:    []string{a.ID()},
				Suggestion: "Extract helper functions to bring the complexity back under the rank-B threshold.",
			})
		}
	}

	issues.SortCanonical(out)
	return out, nil
}
