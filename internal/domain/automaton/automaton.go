// Package automaton implements Aho-Corasick multi-pattern matching.
//
// An Automaton is a trie over the inserted patterns plus a failure link per
// node. Patterns are inserted first, then Build computes the failure links and
// the transitively closed output sets breadth-first. After Build the automaton
// is read-only: any number of goroutines may call Search concurrently.
//
// Symbols are Unicode code points. Reported positions are rune offsets,
// end-exclusive.
package automaton

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrInvalidPattern is returned by Insert for empty or non-UTF-8 patterns.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrNotBuilt is returned by Search when patterns were inserted
	// after the last Build (or Build was never called).
	ErrNotBuilt = errors.New("automaton not finalized: call Build before Search")

	// ErrStaleCursor is returned by Cursor.Step when patterns were added
	// to the automaton after the cursor was created.
	ErrStaleCursor = errors.New("pattern set changed since the cursor was created: call Reset")
)

const (
	rootID = 0
	noNode = -1
)

// node is one trie state. Nodes live in a single arena; children, fail and
// output refer to other nodes and patterns by index.
type node struct {
	children map[rune]int32
	parent   int32
	symbol   rune
	depth    int32
	fail     int32 // noNode for the root
	own      int32 // pattern ID ending exactly here, or noNode
	output   []int32
}

func (n *node) terminal() bool {
	return n.own != noNode
}

// Automaton owns the trie arena and the pattern list.
// The zero value is not usable; call New.
type Automaton struct {
	nodes    []node
	patterns []string
	ids      map[string]int32
	built    bool
	version  uint64 // bumped by every Insert that adds a pattern
}

// New returns an empty automaton. With no patterns there is nothing to link,
// so an empty automaton is already finalized and searches return an empty report.
func New() *Automaton {
	a := &Automaton{
		ids:   make(map[string]int32),
		built: true,
	}
	a.nodes = append(a.nodes, node{
		children: make(map[rune]int32),
		parent:   noNode,
		fail:     noNode,
		own:      noNode,
	})
	return a
}

// FromPatterns inserts every pattern and builds the automaton.
func FromPatterns(patterns []string) (*Automaton, error) {
	a := New()
	for _, p := range patterns {
		if err := a.Insert(p); err != nil {
			return nil, err
		}
	}
	a.Build()
	return a, nil
}

// Insert adds pattern to the trie. Inserting a pattern that is already
// present is a no-op. Inserting a new pattern invalidates any previous
// Build; Build must be called again before searching.
func (a *Automaton) Insert(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPattern)
	}
	if !utf8.ValidString(pattern) {
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidPattern, pattern)
	}
	if _, ok := a.ids[pattern]; ok {
		return nil
	}

	cur := int32(rootID)
	for _, r := range pattern {
		next, ok := a.nodes[cur].children[r]
		if !ok {
			next = int32(len(a.nodes))
			a.nodes = append(a.nodes, node{
				children: make(map[rune]int32),
				parent:   cur,
				symbol:   r,
				depth:    a.nodes[cur].depth + 1,
				fail:     noNode,
				own:      noNode,
			})
			a.nodes[cur].children[r] = next
		}
		cur = next
	}

	id := int32(len(a.patterns))
	a.patterns = append(a.patterns, pattern)
	a.ids[pattern] = id
	a.nodes[cur].own = id
	a.nodes[cur].output = []int32{id}
	a.built = false
	a.version++
	return nil
}

// Build computes every node's failure link and closed output set.
// Nodes are processed strictly in order of non-decreasing depth: a node's
// fail target is shallower, so its output is final before it is copied.
// Calling Build again without new inserts reproduces the same links.
func (a *Automaton) Build() {
	root := &a.nodes[rootID]
	root.fail = noNode
	root.output = ownOutput(root)

	queue := make([]int32, 0, len(a.nodes))
	for _, c := range root.children {
		a.nodes[c].fail = rootID
		a.nodes[c].output = ownOutput(&a.nodes[c])
		queue = append(queue, c)
	}

	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for sym, c := range a.nodes[u].children {
			queue = append(queue, c)

			f := a.nodes[u].fail
			for f != noNode {
				if _, ok := a.nodes[f].children[sym]; ok {
					break
				}
				f = a.nodes[f].fail
			}

			child := &a.nodes[c]
			if f == noNode {
				child.fail = rootID
			} else {
				child.fail = a.nodes[f].children[sym]
			}

			// The fail chain only holds strictly shorter patterns, so the
			// union never needs deduplication.
			out := ownOutput(child)
			child.output = append(out, a.nodes[child.fail].output...)
		}
	}

	a.built = true
}

func ownOutput(n *node) []int32 {
	if n.own == noNode {
		return nil
	}
	return []int32{n.own}
}

// Built reports whether the automaton is finalized and safe to search.
func (a *Automaton) Built() bool {
	return a.built
}

// Patterns returns a copy of the distinct patterns in insertion order.
func (a *Automaton) Patterns() []string {
	out := make([]string, len(a.patterns))
	copy(out, a.patterns)
	return out
}

// PatternCount returns the number of distinct patterns.
func (a *Automaton) PatternCount() int {
	return len(a.patterns)
}

// NodeCount returns the number of trie nodes, the root included.
func (a *Automaton) NodeCount() int {
	return len(a.nodes)
}
