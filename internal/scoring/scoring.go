package scoring

import (
	"math"

	"revq/internal/issues"
	"revq/internal/policy"
)

// Engine computes the composite quality score for a deduplicated issue
// set. The score is a pure function of the issue set and the policy
// tables threaded in at construction; identical inputs always yield
// identical scores.
type Engine struct {
	weights policy.WeightTable
	cap     float64
}

// NewEngine creates a scoring engine bound to one policy version.
func NewEngine(p *policy.Policy) *Engine {
	return &Engine{
		weights: p.Weights,
		cap:     p.Scoring.CategoryCap,
	}
}

// Breakdown reports how each category contributed to the deduction.
type Breakdown struct {
	// Raw is the uncapped severity-weighted deduction per category
	Raw map[issues.Category]float64
	// Capped is the deduction actually applied per category
	Capped map[issues.Category]float64
	// Total is the applied deduction after caps, before clamping
	Total float64
}

// Score computes the 0-100 quality score for the result's issue set.
func (e *Engine) Score(result *issues.AnalysisResult) int {
	score, _ := e.ScoreWithBreakdown(result)
	return score
}

// ScoreWithBreakdown computes the score and the per-category deductions
// behind it. Starting from 100, each issue deducts its severity weight;
// no category may deduct more than the configured cap, so one repeated
// style rule cannot mask a genuinely worse structural problem. The final
// score is rounded to an integer and clamped to [0, 100].
func (e *Engine) ScoreWithBreakdown(result *issues.AnalysisResult) (int, *Breakdown) {
	b := &Breakdown{
		Raw:    make(map[issues.Category]float64),
		Capped: make(map[issues.Category]float64),
	}

	for _, iss := range result.Issues {
		b.Raw[iss.Category] += e.weights.Weight(iss.Severity)
	}

	for category, raw := range b.Raw {
		capped := raw
		if capped > e.cap {
			capped = e.cap
		}
		b.Capped[category] = capped
		b.Total += capped
	}

	score := int(math.Round(100 - b.Total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, b
}

// Impact returns the severity-weighted impact of one issue group, using
// the same weights as scoring. Shared with the recommendation generator
// so priorities and scores never disagree about what matters.
func (e *Engine) Impact(group []issues.Issue) float64 {
	total := 0.0
	for _, iss := range group {
		total += e.weights.Weight(iss.Severity)
	}
	return total
}
