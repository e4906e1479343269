package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"revq/internal/history"
	"revq/internal/issues"
	"revq/internal/report"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *report.AggregateReport:
		return formatReportHuman(v)
	case []history.Entry:
		return formatHistoryHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatReportHuman(rep *report.AggregateReport) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Review Report - %s\n", rep.Changeset))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Score: %d/100\n", rep.Score))
	b.WriteString(fmt.Sprintf("Risk:  %s\n", rep.RiskLevel))
	b.WriteString(fmt.Sprintf("Files: %d analyzed, %d affected\n", rep.FilesAnalyzed, rep.FilesAffected))
	b.WriteString(fmt.Sprintf("Issues: %d total\n", rep.TotalIssues))

	if len(rep.ByCategory) > 0 {
		b.WriteString("\nBy Category:\n")
		for _, category := range issues.Categories {
			if n := rep.ByCategory[category]; n > 0 {
				b.WriteString(fmt.Sprintf("  %-12s %d\n", category, n))
			}
		}
	}

	if len(rep.Issues) > 0 {
		b.WriteString("\nFindings:\n")
		for _, iss := range rep.Issues {
			location := iss.File
			if iss.Line > 0 {
				location = fmt.Sprintf("%s:%d", iss.File, iss.Line)
			}
			b.WriteString(fmt.Sprintf("  [%s] %s %s - %s (%s)\n",
				iss.Severity, location, iss.Code, iss.Message, strings.Join(iss.Sources, ", ")))
			if iss.Suggestion != "" {
				b.WriteString(fmt.Sprintf("      hint: %s\n", iss.Suggestion))
			}
		}
	}

	if len(rep.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for i, rec := range rep.Recommendations {
			b.WriteString(fmt.Sprintf("  %d. [%s] %s (%d issues)\n", i+1, rec.Priority, rec.Text, rec.Count))
		}
	}

	if len(rep.Coverage) > 0 {
		b.WriteString("\nCoverage Warnings:\n")
		for _, w := range rep.Coverage {
			b.WriteString(fmt.Sprintf("  ! %s: %s\n", w.Analyzer, w.Reason))
		}
	}

	return b.String(), nil
}

func formatHistoryHuman(entries []history.Entry) (string, error) {
	var b strings.Builder

	b.WriteString("Review History\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(entries) == 0 {
		b.WriteString("No reports recorded.\n")
		return b.String(), nil
	}

	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s  %s\n", e.SealedAt.Format("2006-01-02 15:04:05"), e.Changeset))
		b.WriteString(fmt.Sprintf("  id: %s  score: %d  risk: %s  issues: %d\n",
			e.ID, e.Score, e.RiskLevel, e.TotalIssues))
	}

	return b.String(), nil
}
