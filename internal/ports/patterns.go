package ports

// Searcher finds every occurrence of every pattern in a text in a single pass.
// This is O(n + m + z) where n=text length, m=total pattern length, z=number
// of matches. Implementations must not mutate shared state during Search, so
// one Searcher may serve any number of concurrent callers.
type Searcher interface {
	// Search scans text left to right once and returns a fresh Report.
	// The report holds one entry per known pattern, including patterns
	// that never matched (count 0, empty positions).
	Search(text string) (Report, error)

	// Patterns returns the distinct patterns in insertion order.
	Patterns() []string
}

// Inspector exposes the read-only automaton structure for renderers.
// Callers get copies; nothing they do can reach back into the automaton.
type Inspector interface {
	// Nodes lists every node in breadth-first order (depth, then symbol).
	Nodes() []NodeInfo

	// Graph returns the diagram model: nodes, trie edges and failure edges.
	Graph() Graph
}

// PatternMatcher is a Searcher whose structure can also be inspected.
// The web adapter and the CLI consume this; the domain matcher implements it.
type PatternMatcher interface {
	Searcher
	Inspector
}

// Result is the per-pattern record of one search.
// Positions are 0-based rune offsets, end-exclusive: the index of the symbol
// right after the last matched one. They are non-decreasing.
type Result struct {
	Count     int   `json:"count"`
	Positions []int `json:"positions"`
}

// Report maps each known pattern to its Result.
type Report map[string]*Result

// Match is a single occurrence, flattened out of a Report.
type Match struct {
	Pattern string `json:"pattern"`
	Start   int    `json:"start"` // rune offset, inclusive
	End     int    `json:"end"`   // rune offset, exclusive
}
