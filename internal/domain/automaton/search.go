package automaton

import "github.com/corey/acm/internal/ports"

// Search scans text once and reports every occurrence of every pattern,
// overlapping and nested ones included. It never mutates the automaton.
func (a *Automaton) Search(text string) (ports.Report, error) {
	c, err := a.NewCursor()
	if err != nil {
		return nil, err
	}
	if _, err := c.Feed(text); err != nil {
		return nil, err
	}
	return c.Report(), nil
}

// Cursor is the externalized traversal state of one scan: current node,
// position, and the report built so far. Feeding a text in chunks yields
// the same report as searching the whole text at once.
//
// A Cursor is bound to the pattern set it was created over. If patterns are
// inserted afterwards, Step refuses to scan until the automaton is rebuilt
// and the cursor is Reset.
//
// A Cursor is not safe for concurrent use; the Automaton it reads is.
type Cursor struct {
	a       *Automaton
	version uint64
	state   int32
	pos     int
	counts  []ports.Result
}

// NewCursor starts a scan at the root, position 0.
func (a *Automaton) NewCursor() (*Cursor, error) {
	if !a.built {
		return nil, ErrNotBuilt
	}
	return &Cursor{
		a:       a,
		version: a.version,
		state:   rootID,
		counts:  make([]ports.Result, len(a.patterns)),
	}, nil
}

func (c *Cursor) check() error {
	if !c.a.built {
		return ErrNotBuilt
	}
	if c.version != c.a.version {
		return ErrStaleCursor
	}
	return nil
}

// Step consumes one symbol. The position advances by exactly one no matter
// how many failure transitions were taken. It returns the number of
// occurrences that end at this symbol. Nothing is consumed when the
// automaton is unbuilt or changed since the cursor was created.
func (c *Cursor) Step(r rune) (int, error) {
	if err := c.check(); err != nil {
		return 0, err
	}
	nodes := c.a.nodes
	cur := c.state

	for cur != rootID {
		if _, ok := nodes[cur].children[r]; ok {
			break
		}
		cur = nodes[cur].fail
	}
	if next, ok := nodes[cur].children[r]; ok {
		cur = next
	}
	c.state = cur
	c.pos++

	out := nodes[cur].output
	for _, id := range out {
		res := &c.counts[id]
		res.Count++
		res.Positions = append(res.Positions, c.pos)
	}
	return len(out), nil
}

// Feed consumes every rune of text in order and returns the number of
// occurrences found in this chunk.
func (c *Cursor) Feed(text string) (int, error) {
	if err := c.check(); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range text {
		k, _ := c.Step(r)
		n += k
	}
	return n, nil
}

// Position returns the number of symbols consumed so far.
func (c *Cursor) Position() int {
	return c.pos
}

// Depth returns the length of the prefix matched at the current state.
func (c *Cursor) Depth() int {
	return int(c.a.nodes[c.state].depth)
}

// Report returns a snapshot of the matches found so far. The snapshot
// is independent of the cursor; further Steps do not change it.
func (c *Cursor) Report() ports.Report {
	r := make(ports.Report, len(c.counts))
	for id, res := range c.counts {
		pos := make([]int, len(res.Positions))
		copy(pos, res.Positions)
		r[c.a.patterns[id]] = &ports.Result{Count: res.Count, Positions: pos}
	}
	return r
}

// Reset rewinds the cursor to the root, clears its results and rebinds it
// to the automaton's current pattern set.
func (c *Cursor) Reset() {
	c.version = c.a.version
	c.state = rootID
	c.pos = 0
	c.counts = make([]ports.Result, len(c.a.patterns))
}
