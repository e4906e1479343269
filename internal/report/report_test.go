package report

import (
	"testing"
	"time"

	"revq/internal/issues"
	"revq/internal/recommend"
	"revq/internal/risk"
)

func sampleResult() *issues.AnalysisResult {
	return &issues.AnalysisResult{
		Changeset: "abc123",
		Files:     []string{"a.py", "b.py", "clean.py"},
		Issues: []issues.Issue{
			{File: "a.py", Line: 1, Code: "C0114", Category: issues.CategoryStandards,
				Severity: issues.SeverityMinor, Sources: []string{"pylint"}},
			{File: "a.py", Line: 42, Code: "E0602", Category: issues.CategoryBugs,
				Severity: issues.SeverityCritical, Sources: []string{"flake8", "pylint"}},
			{File: "b.py", Line: 12, Code: "B608", Category: issues.CategorySecurity,
				Severity: issues.SeverityMajor, Sources: []string{"bandit"}},
		},
	}
}

func TestAssemble(t *testing.T) {
	result := sampleResult()
	recs := []recommend.Recommendation{
		{Priority: recommend.PriorityHigh, Category: issues.CategoryBugs, Impact: 10, Count: 1, Text: "Fix the bugs."},
	}
	coverage := []CoverageWarning{
		{Analyzer: "radon", Reason: "expected analyzer produced no output"},
	}

	before := time.Now().UTC()
	rep := Assemble(result, 1, 83, risk.LevelLow, recs, coverage)
	after := time.Now().UTC()

	if rep.ID == "" {
		t.Error("report has no id")
	}
	if rep.Changeset != "abc123" {
		t.Errorf("Changeset = %q, want abc123", rep.Changeset)
	}
	if rep.SealedAt.Before(before) || rep.SealedAt.After(after) {
		t.Errorf("SealedAt = %v, want within [%v, %v]", rep.SealedAt, before, after)
	}
	if rep.PolicyVersion != 1 {
		t.Errorf("PolicyVersion = %d, want 1", rep.PolicyVersion)
	}
	if rep.Score != 83 || rep.RiskLevel != risk.LevelLow {
		t.Errorf("score/risk = %d/%s, want 83/LOW", rep.Score, rep.RiskLevel)
	}
	if rep.TotalIssues != 3 {
		t.Errorf("TotalIssues = %d, want 3", rep.TotalIssues)
	}
	if rep.FilesAnalyzed != 3 || rep.FilesAffected != 2 {
		t.Errorf("files = %d analyzed / %d affected, want 3/2", rep.FilesAnalyzed, rep.FilesAffected)
	}
	if len(rep.Recommendations) != 1 || len(rep.Coverage) != 1 {
		t.Errorf("recommendations/coverage not carried: %d, %d", len(rep.Recommendations), len(rep.Coverage))
	}
}

func TestAssembleUniqueIDs(t *testing.T) {
	result := sampleResult()
	a := Assemble(result, 1, 83, risk.LevelLow, nil, nil)
	b := Assemble(result, 1, 83, risk.LevelLow, nil, nil)
	if a.ID == b.ID {
		t.Errorf("two reports share the id %q", a.ID)
	}
}

func TestReconciled(t *testing.T) {
	rep := Assemble(sampleResult(), 1, 83, risk.LevelLow, nil, nil)
	if !rep.Reconciled() {
		t.Error("assembled report does not reconcile")
	}

	rep.TotalIssues++
	if rep.Reconciled() {
		t.Error("Reconciled() missed a total/sequence mismatch")
	}

	rep.TotalIssues--
	rep.ByCategory[issues.CategoryOther] = 5
	if rep.Reconciled() {
		t.Error("Reconciled() missed a category-sum mismatch")
	}
}
