package dedup

import (
	"sort"
	"strings"

	"revq/internal/issues"
	"revq/internal/policy"
)

// Deduplicator collapses issues that multiple analyzers raised for the
// same underlying defect. It never drops an issue outright; at worst it
// merges two findings that were in fact distinct, which is an accepted
// precision/recall tradeoff.
type Deduplicator struct {
	equivalence map[string]int
}

// New creates a Deduplicator using the policy's code-equivalence classes.
func New(p *policy.Policy) *Deduplicator {
	return &Deduplicator{equivalence: p.EquivalenceIndex()}
}

// Dedup merges duplicate findings and returns the canonical issue set in
// deterministic order: file ASC, line ASC (file-level first), code ASC.
// Running Dedup on its own output yields the same set.
func (d *Deduplicator) Dedup(input []issues.Issue) []issues.Issue {
	type key struct {
		file string
		line int
	}
	groups := make(map[key][]issues.Issue)
	var order []key
	for _, iss := range input {
		k := key{file: iss.File, line: iss.Line}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], iss)
	}

	out := make([]issues.Issue, 0, len(input))
	for _, k := range order {
		out = append(out, d.mergeGroup(groups[k])...)
	}

	issues.SortCanonical(out)
	return out
}

// mergeGroup clusters one (file, line) group and merges each cluster.
// Issues that match no other issue remain standalone.
func (d *Deduplicator) mergeGroup(group []issues.Issue) []issues.Issue {
	n := len(group)
	if n == 1 {
		return group
	}

	// Union-find over group members; matching is transitive by design.
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(i int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		parent[find(i)] = find(j)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d.sameDefect(group[i], group[j]) {
				union(i, j)
			}
		}
	}

	clusters := make(map[int][]issues.Issue)
	var roots []int
	for i := range group {
		root := find(i)
		if _, seen := clusters[root]; !seen {
			roots = append(roots, root)
		}
		clusters[root] = append(clusters[root], group[i])
	}

	out := make([]issues.Issue, 0, len(roots))
	for _, root := range roots {
		out = append(out, merge(clusters[root]))
	}
	return out
}

// sameDefect reports whether two issues at the same (file, line) denote
// the same underlying defect: either their codes share an equivalence
// class, or their normalized messages match and their categories agree.
func (d *Deduplicator) sameDefect(a, b issues.Issue) bool {
	if classA, ok := d.equivalence[a.Code]; ok {
		if classB, ok := d.equivalence[b.Code]; ok && classA == classB {
			return true
		}
	}
	return a.Category == b.Category && normalizeMessage(a.Message) == normalizeMessage(b.Message)
}

// merge collapses one cluster into a single canonical issue: category and
// severity of the highest-severity input, the longest message (tie broken
// by lexicographically first source), and the union of all sources.
func merge(cluster []issues.Issue) issues.Issue {
	if len(cluster) == 1 {
		return cluster[0]
	}

	donor := cluster[0]
	for _, iss := range cluster[1:] {
		if issues.MoreSevere(iss.Severity, donor.Severity) {
			donor = iss
			continue
		}
		// Deterministic pick among equally severe inputs.
		if iss.Severity == donor.Severity && lessBySourceCode(iss, donor) {
			donor = iss
		}
	}

	messageOwner := cluster[0]
	for _, iss := range cluster[1:] {
		if len(iss.Message) > len(messageOwner.Message) {
			messageOwner = iss
			continue
		}
		if len(iss.Message) == len(messageOwner.Message) && firstSource(iss) < firstSource(messageOwner) {
			messageOwner = iss
		}
	}

	sourceSet := make(map[string]bool)
	for _, iss := range cluster {
		for _, src := range iss.Sources {
			sourceSet[src] = true
		}
	}
	sources := make([]string, 0, len(sourceSet))
	for src := range sourceSet {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	suggestion := donor.Suggestion
	if suggestion == "" {
		for _, iss := range cluster {
			if iss.Suggestion != "" {
				suggestion = iss.Suggestion
				break
			}
		}
	}

	return issues.Issue{
		File:       donor.File,
		Line:       donor.Line,
		Column:     donor.Column,
		Code:       donor.Code,
		Category:   donor.Category,
		Severity:   donor.Severity,
		Message:    messageOwner.Message,
		Sources:    sources,
		Suggestion: suggestion,
	}
}

func firstSource(iss issues.Issue) string {
	if len(iss.Sources) == 0 {
		return ""
	}
	sorted := make([]string, len(iss.Sources))
	copy(sorted, iss.Sources)
	sort.Strings(sorted)
	return sorted[0]
}

func lessBySourceCode(a, b issues.Issue) bool {
	if firstSource(a) != firstSource(b) {
		return firstSource(a) < firstSource(b)
	}
	return a.Code < b.Code
}

// normalizeMessage collapses whitespace runs and strips quoting so that
// analyzers phrasing the same defect slightly differently still match.
func normalizeMessage(msg string) string {
	var b strings.Builder
	b.Grow(len(msg))
	lastSpace := false
	for _, r := range msg {
		switch r {
		case '\'', '"', '`':
			continue
		case ' ', '\t', '\n', '\r':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}
