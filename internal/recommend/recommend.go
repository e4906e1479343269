package recommend

import (
	"sort"

	"revq/internal/issues"
	"revq/internal/policy"
	"revq/internal/scoring"
)

// Priority represents the urgency tier of a recommendation
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Recommendation is one prioritized remediation action.
type Recommendation struct {
	Priority Priority        `json:"priority"`
	Category issues.Category `json:"category"`
	Impact   float64         `json:"impact"`
	Count    int             `json:"count"`
	Text     string          `json:"text"`
}

// defaultTemplates holds the per-category action texts, distilled from
// the review suggestions the analyzers themselves attach.
var defaultTemplates = map[issues.Category]string{
	issues.CategoryBugs:       "Fix the flagged bug patterns: remove unreachable code, unused variables, and suspect conditionals.",
	issues.CategoryStandards:  "Add missing docstrings and bring formatting in line with the style guide.",
	issues.CategoryStructure:  "Refactor the flagged classes and functions to improve their structure.",
	issues.CategorySecurity:   "Address the security findings before merging; prefer the safe API variants the scanner suggests.",
	issues.CategoryComplexity: "Split the most complex functions to bring them back under the complexity budget.",
	issues.CategoryOther:      "Review the remaining findings individually.",
}

// Generator derives a prioritized action list from the deduplicated
// issue set. Texts are a static per-category lookup, so output is fully
// deterministic given the same input.
type Generator struct {
	templates map[issues.Category]string
	scorer    *scoring.Engine
}

// NewGenerator creates a generator bound to one policy version. Policy
// templates override the defaults per category.
func NewGenerator(p *policy.Policy, scorer *scoring.Engine) *Generator {
	templates := make(map[issues.Category]string, len(defaultTemplates))
	for category, text := range defaultTemplates {
		templates[category] = text
	}
	for name, text := range p.Templates {
		templates[issues.Category(name)] = text
	}
	return &Generator{templates: templates, scorer: scorer}
}

// Recommend groups issues by category, ranks the categories by
// severity-weighted impact, and assigns priorities by relative tier:
// the top third of categories is HIGH, the middle third MEDIUM, the rest
// LOW. Tiers are relative to this run's impact distribution, so the
// output stays meaningful whether 3 or 300 issues were found. Ordering
// is HIGH before MEDIUM before LOW, impact DESC within a tier, category
// name ASC on ties.
func (g *Generator) Recommend(result *issues.AnalysisResult) []Recommendation {
	if len(result.Issues) == 0 {
		return nil
	}

	groups := make(map[issues.Category][]issues.Issue)
	for _, iss := range result.Issues {
		groups[iss.Category] = append(groups[iss.Category], iss)
	}

	recs := make([]Recommendation, 0, len(groups))
	for category, group := range groups {
		recs = append(recs, Recommendation{
			Category: category,
			Impact:   g.scorer.Impact(group),
			Count:    len(group),
			Text:     g.templates[category],
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Impact != recs[j].Impact {
			return recs[i].Impact > recs[j].Impact
		}
		return recs[i].Category < recs[j].Category
	})

	tierSize := (len(recs) + 2) / 3
	for i := range recs {
		switch {
		case i < tierSize:
			recs[i].Priority = PriorityHigh
		case i < 2*tierSize:
			recs[i].Priority = PriorityMedium
		default:
			recs[i].Priority = PriorityLow
		}
	}

	return recs
}
