package ports

import (
	"sort"
	"unicode/utf8"
)

// NewReport pre-seeds a report with a zero entry for every pattern,
// so a pattern that never matches still appears with count 0.
func NewReport(patterns []string) Report {
	r := make(Report, len(patterns))
	for _, p := range patterns {
		r[p] = &Result{Positions: []int{}}
	}
	return r
}

// Record adds one occurrence of pattern ending at end.
// Unknown patterns get an entry on first use.
func (r Report) Record(pattern string, end int) {
	res, ok := r[pattern]
	if !ok {
		res = &Result{Positions: []int{}}
		r[pattern] = res
	}
	res.Count++
	res.Positions = append(res.Positions, end)
}

// Patterns returns the report's keys in sorted order.
func (r Report) Patterns() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total returns the number of occurrences across all patterns.
func (r Report) Total() int {
	n := 0
	for _, res := range r {
		n += res.Count
	}
	return n
}

// Matched returns the number of patterns with at least one occurrence.
func (r Report) Matched() int {
	n := 0
	for _, res := range r {
		if res.Count > 0 {
			n++
		}
	}
	return n
}

// Matches flattens the report into individual occurrences ordered by end
// offset, then start offset (longer matches first), then pattern.
func (r Report) Matches() []Match {
	var out []Match
	for pattern, res := range r {
		n := utf8.RuneCountInString(pattern)
		for _, end := range res.Positions {
			out = append(out, Match{Pattern: pattern, Start: end - n, End: end})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].End != out[j].End {
			return out[i].End < out[j].End
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].Pattern < out[j].Pattern
	})
	return out
}
