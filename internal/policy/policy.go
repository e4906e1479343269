package policy

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"revq/internal/errors"
	"revq/internal/issues"
)

// Policy bundles every tunable table the engine consumes: severity
// weights, the per-category deduction cap, risk thresholds, dedup
// code-equivalence classes, and recommendation templates. A Policy is
// loaded once per run and read-only afterwards; changing a table never
// alters an already-sealed report.
type Policy struct {
	Version int `toml:"version" json:"version"`

	Weights     WeightTable        `toml:"weights" json:"weights"`
	Scoring     ScoringTable       `toml:"scoring" json:"scoring"`
	Risk        RiskTable          `toml:"risk" json:"risk"`
	Equivalence []EquivalenceClass `toml:"equivalence" json:"equivalence"`
	Templates   map[string]string  `toml:"templates" json:"templates,omitempty"`
}

// WeightTable maps each severity to its score deduction.
type WeightTable struct {
	Critical float64 `toml:"critical" json:"critical"`
	Major    float64 `toml:"major" json:"major"`
	Minor    float64 `toml:"minor" json:"minor"`
	Info     float64 `toml:"info" json:"info"`
}

// Weight returns the deduction for a severity.
func (w WeightTable) Weight(s issues.Severity) float64 {
	switch s {
	case issues.SeverityCritical:
		return w.Critical
	case issues.SeverityMajor:
		return w.Major
	case issues.SeverityMinor:
		return w.Minor
	case issues.SeverityInfo:
		return w.Info
	}
	return 0
}

// ScoringTable holds scoring knobs beyond the per-severity weights.
type ScoringTable struct {
	// CategoryCap limits how many points a single category may deduct
	CategoryCap float64 `toml:"categoryCap" json:"categoryCap"`
}

// RiskTable holds the score thresholds for the discrete risk levels.
// Boundaries are closed on the lower bound: score >= Minimal is MINIMAL,
// score >= Low is LOW, score >= Medium is MEDIUM, anything below is HIGH.
type RiskTable struct {
	Minimal int `toml:"minimal" json:"minimal"`
	Low     int `toml:"low" json:"low"`
	Medium  int `toml:"medium" json:"medium"`
}

// EquivalenceClass names a set of analyzer-native rule codes that denote
// the same underlying defect across analyzer families.
type EquivalenceClass struct {
	Codes []string `toml:"codes" json:"codes"`
}

// Default returns the compiled-in policy tables.
func Default() *Policy {
	return &Policy{
		Version: 1,
		Weights: WeightTable{
			Critical: 10,
			Major:    5,
			Minor:    2,
			Info:     0.5,
		},
		Scoring: ScoringTable{
			CategoryCap: 40,
		},
		Risk: RiskTable{
			Minimal: 90,
			Low:     70,
			Medium:  40,
		},
		Equivalence: []EquivalenceClass{
			{Codes: []string{"W0612", "F841"}}, // unused local variable
			{Codes: []string{"W0611", "F401"}}, // unused import
			{Codes: []string{"C0301", "E501"}}, // line too long
			{Codes: []string{"C0303", "W291"}}, // trailing whitespace
			{Codes: []string{"E0602", "F821"}}, // undefined name
		},
	}
}

// Load reads policy tables from a TOML file, layered over the defaults.
// A missing path returns the defaults unchanged. The loaded policy is
// validated before it is returned; a policy that fails validation must
// never produce a report.
func Load(path string) (*Policy, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, errors.New(errors.ConfigurationInvalid, "cannot read policy file "+path, err)
	}

	if err := toml.Unmarshal(data, p); err != nil {
		return nil, errors.New(errors.ConfigurationInvalid, "cannot parse policy file "+path, err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces the structural checks every table must pass.
// Any failure is fatal for the run.
func (p *Policy) Validate() error {
	if p.Weights.Critical < 0 || p.Weights.Major < 0 || p.Weights.Minor < 0 || p.Weights.Info < 0 {
		return errors.Newf(errors.ConfigurationInvalid, "weights table: severity weights must be non-negative")
	}
	if p.Weights.Critical < p.Weights.Major || p.Weights.Major < p.Weights.Minor || p.Weights.Minor < p.Weights.Info {
		return errors.Newf(errors.ConfigurationInvalid, "weights table: weights must be monotonic (critical >= major >= minor >= info)")
	}
	if p.Scoring.CategoryCap <= 0 {
		return errors.Newf(errors.ConfigurationInvalid, "scoring table: categoryCap must be positive")
	}
	if p.Risk.Minimal <= p.Risk.Low || p.Risk.Low <= p.Risk.Medium {
		return errors.Newf(errors.ConfigurationInvalid, "risk table: thresholds must be strictly decreasing (minimal > low > medium)")
	}
	if p.Risk.Minimal > 100 || p.Risk.Medium < 0 {
		return errors.Newf(errors.ConfigurationInvalid, "risk table: thresholds must lie within [0, 100]")
	}
	for i, class := range p.Equivalence {
		if len(class.Codes) < 2 {
			return errors.Newf(errors.ConfigurationInvalid, "equivalence table: class %d needs at least two codes", i)
		}
		for _, code := range class.Codes {
			if code == "" {
				return errors.Newf(errors.ConfigurationInvalid, "equivalence table: class %d contains an empty code", i)
			}
		}
	}
	for name := range p.Templates {
		if !issues.ValidCategory(issues.Category(name)) {
			return errors.Newf(errors.ConfigurationInvalid, "templates table: %q is not a known category", name)
		}
	}
	return nil
}

// EquivalenceIndex flattens the equivalence classes into a code→class-id
// lookup. Classes sharing a code are merged transitively so membership
// is a proper equivalence relation.
func (p *Policy) EquivalenceIndex() map[string]int {
	parent := make(map[string]string)

	var find func(code string) string
	find = func(code string) string {
		if parent[code] == code {
			return code
		}
		root := find(parent[code])
		parent[code] = root
		return root
	}

	for _, class := range p.Equivalence {
		for _, code := range class.Codes {
			if _, ok := parent[code]; !ok {
				parent[code] = code
			}
		}
		root := find(class.Codes[0])
		for _, code := range class.Codes[1:] {
			parent[find(code)] = root
		}
	}

	index := make(map[string]int)
	roots := make(map[string]int)
	for code := range parent {
		root := find(code)
		id, ok := roots[root]
		if !ok {
			id = len(roots)
			roots[root] = id
		}
		index[code] = id
	}
	return index
}
