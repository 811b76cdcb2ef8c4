package ports

// Edge is a symbol-labeled trie edge from a node to one of its children.
type Edge struct {
	Symbol string `json:"symbol"`
	Target string `json:"target"` // prefix of the child node
}

// NodeInfo is a read-only snapshot of one automaton node.
// Prefix is the node's stable identifier ("" for the root); Name is the
// display form, which is "root" for the root.
type NodeInfo struct {
	Prefix   string   `json:"prefix"`
	Name     string   `json:"name"`
	Depth    int      `json:"depth"`
	Terminal bool     `json:"terminal"`
	Children []Edge   `json:"children,omitempty"`
	Fail     string   `json:"fail"` // prefix of the fail target; unused for the root
	Output   []string `json:"output,omitempty"`
}

// Edge kinds in a Graph.
const (
	EdgeTrie = "trie"
	EdgeFail = "fail"
)

// GraphNode is a vertex of the diagram model. ID is the node's prefix.
type GraphNode struct {
	ID       string `json:"id"`
	Label    string `json:"label"` // last symbol of the prefix, "root" for the root
	Depth    int    `json:"depth"`
	Terminal bool   `json:"terminal"`
}

// GraphEdge connects two GraphNodes by ID.
type GraphEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Kind  string `json:"kind"`
	Label string `json:"label,omitempty"` // symbol for trie edges
}

// Graph is what a diagram renderer needs to draw the automaton.
// Failure edges that point at the root are omitted.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
