// Package matcher holds the current automaton for long-lived consumers.
// Rebuilds are copy-on-write: a new automaton is built off to the side and
// swapped in atomically, so in-flight searches always see a finalized one.
package matcher

import (
	"sync"
	"sync/atomic"

	"github.com/corey/acm/internal/domain/automaton"
	"github.com/corey/acm/internal/ports"
)

// Matcher implements ports.PatternMatcher over a swappable automaton.
// Reads are lock-free; writers are serialized by mu.
type Matcher struct {
	current    atomic.Pointer[automaton.Automaton]
	generation atomic.Uint64
	mu         sync.Mutex
}

// New returns a matcher holding an empty automaton.
func New() *Matcher {
	m := &Matcher{}
	m.current.Store(automaton.New())
	return m
}

// Reset discards every pattern.
func (m *Matcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swap(automaton.New())
}

// AddPatterns inserts patterns on top of the current set and rebuilds.
// On error the current automaton is left untouched.
func (m *Matcher) AddPatterns(patterns []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	merged := append(m.current.Load().Patterns(), patterns...)
	a, err := automaton.FromPatterns(merged)
	if err != nil {
		return err
	}
	m.swap(a)
	return nil
}

// Replace swaps in an automaton built from exactly patterns.
// On error the current automaton is left untouched.
func (m *Matcher) Replace(patterns []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := automaton.FromPatterns(patterns)
	if err != nil {
		return err
	}
	m.swap(a)
	return nil
}

func (m *Matcher) swap(a *automaton.Automaton) {
	m.current.Store(a)
	m.generation.Add(1)
}

// Generation counts successful rebuilds, starting at 0.
func (m *Matcher) Generation() uint64 {
	return m.generation.Load()
}

// Automaton returns the current finalized automaton. Callers must not
// insert into it.
func (m *Matcher) Automaton() *automaton.Automaton {
	return m.current.Load()
}

func (m *Matcher) Search(text string) (ports.Report, error) {
	return m.current.Load().Search(text)
}

func (m *Matcher) Patterns() []string {
	return m.current.Load().Patterns()
}

func (m *Matcher) Nodes() []ports.NodeInfo {
	return m.current.Load().Nodes()
}

func (m *Matcher) Graph() ports.Graph {
	return m.current.Load().Graph()
}

var _ ports.PatternMatcher = (*Matcher)(nil)
