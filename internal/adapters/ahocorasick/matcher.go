// Package ahocorasick provides an independent multi-pattern matcher backed by
// the petar-dambovaliev/aho-corasick library. It produces the same Report
// shape as the domain automaton and is used to cross-check it.
package ahocorasick

import (
	"errors"
	"sort"
	"unicode/utf8"

	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/acm/internal/ports"
)

// ErrEmptyPattern is returned when a pattern set contains an empty string.
var ErrEmptyPattern = errors.New("empty pattern")

// Reference implements ports.Searcher with overlapping library matches.
// The library reports byte offsets; Search converts them to rune offsets.
type Reference struct {
	automaton aho.AhoCorasick
	patterns  []string
	built     bool
}

// NewReference builds a reference matcher. Duplicate patterns are collapsed
// keeping first-seen order.
func NewReference(patterns []string) (*Reference, error) {
	seen := make(map[string]bool, len(patterns))
	p := make([]string, 0, len(patterns))
	for _, pat := range patterns {
		if pat == "" {
			return nil, ErrEmptyPattern
		}
		if seen[pat] {
			continue
		}
		seen[pat] = true
		p = append(p, pat)
	}

	r := &Reference{patterns: p}
	if len(p) == 0 {
		return r, nil
	}

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	r.automaton = builder.Build(p)
	r.built = true
	return r, nil
}

// Search reports every overlapping occurrence of every pattern.
// text is expected to be valid UTF-8.
func (r *Reference) Search(text string) (ports.Report, error) {
	report := ports.NewReport(r.patterns)
	if !r.built || text == "" {
		return report, nil
	}

	content := []byte(text)
	runeAt := runeOffsets(text)

	iter := r.automaton.IterOverlappingByte(content)
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		report.Record(r.patterns[m.Pattern()], runeAt[m.End()])
	}

	// Overlapping iteration orders by end offset, but not strictly per pattern
	// when several end together; keep positions sorted.
	for _, res := range report {
		sort.Ints(res.Positions)
	}
	return report, nil
}

// runeOffsets maps every byte offset in text (0..len) to the number of
// runes before it. Offsets inside a multi-byte rune map to that rune's start.
func runeOffsets(text string) []int {
	offsets := make([]int, len(text)+1)
	n := -1
	for i := 0; i < len(text); i++ {
		if utf8.RuneStart(text[i]) {
			n++
		}
		offsets[i] = n
	}
	offsets[len(text)] = n + 1
	return offsets
}

// Patterns returns the distinct patterns in first-seen order.
func (r *Reference) Patterns() []string {
	out := make([]string, len(r.patterns))
	copy(out, r.patterns)
	return out
}

// PatternCount returns the number of distinct patterns.
func (r *Reference) PatternCount() int {
	return len(r.patterns)
}

var _ ports.Searcher = (*Reference)(nil)
