package risk

import (
	"revq/internal/issues"
	"revq/internal/policy"
)

// Level represents the discrete risk classification of a change-set
type Level string

const (
	LevelMinimal Level = "MINIMAL"
	LevelLow     Level = "LOW"
	LevelMedium  Level = "MEDIUM"
	LevelHigh    Level = "HIGH"
)

// Classifier maps a quality score plus the issue-severity distribution
// to a discrete risk level. It is a state-free mapping; thresholds come
// from the policy tables at construction.
type Classifier struct {
	thresholds policy.RiskTable
}

// NewClassifier creates a classifier bound to one policy version.
func NewClassifier(p *policy.Policy) *Classifier {
	return &Classifier{thresholds: p.Risk}
}

// Classify returns the risk level for a score and issue set. Thresholds
// are closed on the lower bound, so every score in [0, 100] maps to
// exactly one level. A critical security finding forces HIGH regardless
// of score: the score alone could understate an isolated severe defect.
func (c *Classifier) Classify(score int, list []issues.Issue) Level {
	for _, iss := range list {
		if iss.Category == issues.CategorySecurity && iss.Severity == issues.SeverityCritical {
			return LevelHigh
		}
	}

	switch {
	case score >= c.thresholds.Minimal:
		return LevelMinimal
	case score >= c.thresholds.Low:
		return LevelLow
	case score >= c.thresholds.Medium:
		return LevelMedium
	default:
		return LevelHigh
	}
}
