package issues

import (
	"sort"
)

// SortCanonical sorts issues into the canonical report order:
// file ASC, line ASC (file-level issues with line 0 sort before any
// numbered line in the same file), code ASC. This ordering is
// load-bearing for reproducible reports.
func SortCanonical(list []Issue) {
	sort.SliceStable(list, func(i, j int) bool {
		// Primary: file ASC
		if list[i].File != list[j].File {
			return list[i].File < list[j].File
		}
		// Secondary: line ASC
		if list[i].Line != list[j].Line {
			return list[i].Line < list[j].Line
		}
		// Tertiary: code ASC
		return list[i].Code < list[j].Code
	})
}

// SortSources sorts analyzer identifiers lexicographically so merged
// source sets render identically regardless of adapter completion order.
func SortSources(sources []string) {
	sort.Strings(sources)
}
