package report

import (
	"time"

	"github.com/google/uuid"

	"revq/internal/issues"
	"revq/internal/recommend"
	"revq/internal/risk"
)

// CoverageWarning records an analyzer that was expected to run but
// contributed nothing. A clean score caused by a missing analyzer is a
// materially different situation from a clean score caused by clean
// code, so this surfaces as report metadata, never folded into the score.
type CoverageWarning struct {
	Analyzer string `json:"analyzer"`
	Reason   string `json:"reason"`
}

// AggregateReport is the immutable snapshot produced once per analysis
// run. Presentation layers format it but never recompute or alter it.
type AggregateReport struct {
	ID              string                     `json:"id"`
	Changeset       string                     `json:"changeset"`
	SealedAt        time.Time                  `json:"sealedAt"`
	PolicyVersion   int                        `json:"policyVersion"`
	TotalIssues     int                        `json:"totalIssues"`
	ByCategory      map[issues.Category]int    `json:"byCategory"`
	Score           int                        `json:"score"`
	RiskLevel       risk.Level                 `json:"riskLevel"`
	FilesAnalyzed   int                        `json:"filesAnalyzed"`
	FilesAffected   int                        `json:"filesAffected"`
	Issues          []issues.Issue             `json:"issues"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Coverage        []CoverageWarning          `json:"coverage,omitempty"`
}

// Assemble composes the final report from the analysis result and the
// outputs of the scoring, risk, and recommendation stages. No analysis
// logic lives here; the only contract is that totals reconcile.
func Assemble(result *issues.AnalysisResult, policyVersion int, score int, level risk.Level,
	recs []recommend.Recommendation, coverage []CoverageWarning) *AggregateReport {

	return &AggregateReport{
		ID:              uuid.NewString(),
		Changeset:       result.Changeset,
		SealedAt:        time.Now().UTC(),
		PolicyVersion:   policyVersion,
		TotalIssues:     len(result.Issues),
		ByCategory:      result.CountByCategory(),
		Score:           score,
		RiskLevel:       level,
		FilesAnalyzed:   len(result.Files),
		FilesAffected:   result.FilesAffected(),
		Issues:          result.Issues,
		Recommendations: recs,
		Coverage:        coverage,
	}
}

// Reconciled verifies the assembler's totals contract: total equals the
// issue sequence length and the per-category counts sum back to it.
func (r *AggregateReport) Reconciled() bool {
	if r.TotalIssues != len(r.Issues) {
		return false
	}
	sum := 0
	for _, n := range r.ByCategory {
		sum += n
	}
	return sum == r.TotalIssues
}
