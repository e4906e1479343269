package adapters

import (
	"encoding/json"
	"strings"

	"revq/internal/issues"
)

// banditReport mirrors the `bandit -f json` envelope.
type banditReport struct {
	Results []banditResult `json:"results"`
}

type banditResult struct {
	Filename        string `json:"filename"`
	LineNumber      int    `json:"line_number"`
	ColOffset       int    `json:"col_offset"`
	TestID          string `json:"test_id"`
	TestName        string `json:"test_name"`
	IssueSeverity   string `json:"issue_severity"`   // LOW|MEDIUM|HIGH
	IssueConfidence string `json:"issue_confidence"` // LOW|MEDIUM|HIGH
	IssueText       string `json:"issue_text"`
}

// banditSeverity derives the canonical severity from bandit's
// severity/confidence pair. High-severity high-confidence findings are
// critical; confidence discounts one step otherwise.
func banditSeverity(severity, confidence string) issues.Severity {
	sev := strings.ToUpper(strings.TrimSpace(severity))
	conf := strings.ToUpper(strings.TrimSpace(confidence))

	switch sev {
	case "HIGH":
		if conf == "HIGH" {
			return issues.SeverityCritical
		}
		return issues.SeverityMajor
	case "MEDIUM":
		if conf == "LOW" {
			return issues.SeverityMinor
		}
		return issues.SeverityMajor
	case "LOW":
		if conf == "LOW" {
			return issues.SeverityInfo
		}
		return issues.SeverityMinor
	}
	return issues.SeverityMinor
}

// BanditAdapter normalizes bandit security-scan JSON reports.
// Every bandit finding is a security issue.
type BanditAdapter struct{}

// NewBanditAdapter returns the bandit adapter.
func NewBanditAdapter() *BanditAdapter { return &BanditAdapter{} }

// ID implements Adapter.
func (a *BanditAdapter) ID() string { return "bandit" }

// Normalize implements Adapter.
func (a *BanditAdapter) Normalize(raw []byte) ([]issues.Issue, error) {
	var report banditReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return []issues.Issue{parseFailure(a.ID(), err)}, payloadError(a.ID(), err)
	}

	out := make([]issues.Issue, 0, len(report.Results))
	for _, rec := range report.Results {
		if rec.Filename == "" {
			out = append(out, parseFailure(a.ID(), errRecordMissingPath))
			continue
		}

		message := rec.IssueText
		if rec.TestName != "" {
			message = rec.IssueText + " (" + rec.TestName + ")"
		}

		out = append(out, issues.Issue{
			File:       normalizePath(rec.Filename),
			Line:       safeLine(rec.LineNumber),
			Column:     safeColumn(rec.ColOffset),
			Code:       rec.TestID,
			Category:   issues.CategorySecurity,
			Severity:   banditSeverity(rec.IssueSeverity, rec.IssueConfidence),
			Message:    message,
			Sources:    []string{a.ID()},
			Suggestion: "Review the flagged call and apply the recommended safe pattern.",
		})
	}
	return out, nil
}
