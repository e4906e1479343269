package issues

// Severity represents the normalized impact of a finding
type Severity string

const (
	// SeverityCritical indicates a defect that must block the change
	SeverityCritical Severity = "critical"
	// SeverityMajor indicates a defect that should be fixed before merge
	SeverityMajor Severity = "major"
	// SeverityMinor indicates a defect worth fixing but not blocking
	SeverityMinor Severity = "minor"
	// SeverityInfo indicates an informational finding
	SeverityInfo Severity = "info"
)

// severityRank defines the canonical severity ordering.
// Lower numbers are more severe.
var severityRank = map[Severity]int{
	SeverityCritical: 1,
	SeverityMajor:    2,
	SeverityMinor:    3,
	SeverityInfo:     4,
}

// SeverityRank returns the canonical rank for a severity.
// Unknown severities rank below info.
func SeverityRank(s Severity) int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return severityRank[SeverityInfo] + 1
}

// MoreSevere reports whether a outranks b in the canonical ordering.
func MoreSevere(a, b Severity) bool {
	return SeverityRank(a) < SeverityRank(b)
}

// Category represents the fixed classification axis for findings
type Category string

const (
	CategoryStructure  Category = "structure"
	CategoryStandards  Category = "standards"
	CategoryBugs       Category = "bugs"
	CategorySecurity   Category = "security"
	CategoryComplexity Category = "complexity"
	CategoryOther      Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryStructure,
	CategoryStandards,
	CategoryBugs,
	CategorySecurity,
	CategoryComplexity,
	CategoryOther,
}

// ValidSeverity reports whether s is one of the four canonical severities.
func ValidSeverity(s Severity) bool {
	_, ok := severityRank[s]
	return ok
}

// ValidCategory reports whether c is one of the six canonical categories.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Issue is one normalized finding. Category and severity are always
// populated; adapters that cannot classify a native code fall back to
// other/minor instead of dropping the finding.
type Issue struct {
	File       string   `json:"file"`
	Line       int      `json:"line"`             // 1-based; 0 means file-level
	Column     int      `json:"column,omitempty"` // 0 means unknown
	Code       string   `json:"code"`
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Sources    []string `json:"sources"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// AnalysisResult is the full canonical issue set for one change-set.
// Files includes every analyzed path, even those with zero issues, so
// downstream consumers have correct denominators.
type AnalysisResult struct {
	Changeset string   `json:"changeset"`
	Issues    []Issue  `json:"issues"`
	Files     []string `json:"files"`
}

// FilesAffected counts the distinct files that carry at least one issue.
func (r *AnalysisResult) FilesAffected() int {
	seen := make(map[string]bool)
	for _, iss := range r.Issues {
		seen[iss.File] = true
	}
	return len(seen)
}

// CountByCategory returns per-category issue counts.
func (r *AnalysisResult) CountByCategory() map[Category]int {
	counts := make(map[Category]int)
	for _, iss := range r.Issues {
		counts[iss.Category]++
	}
	return counts
}
