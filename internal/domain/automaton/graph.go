package automaton

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/corey/acm/internal/ports"
)

const rootName = "root"

// prefix rebuilds the string a node represents by walking parent links.
func (a *Automaton) prefix(id int32) string {
	runes := make([]rune, a.nodes[id].depth)
	for i := len(runes) - 1; id != rootID; i-- {
		runes[i] = a.nodes[id].symbol
		id = a.nodes[id].parent
	}
	return string(runes)
}

func (a *Automaton) name(id int32) string {
	if id == rootID {
		return rootName
	}
	return a.prefix(id)
}

// sortedChildren returns a node's edge symbols in ascending order.
func (a *Automaton) sortedChildren(id int32) []rune {
	syms := make([]rune, 0, len(a.nodes[id].children))
	for r := range a.nodes[id].children {
		syms = append(syms, r)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// bfsOrder lists node IDs by depth, then by symbol within each parent.
func (a *Automaton) bfsOrder() []int32 {
	order := make([]int32, 0, len(a.nodes))
	order = append(order, rootID)
	for head := 0; head < len(order); head++ {
		id := order[head]
		for _, r := range a.sortedChildren(id) {
			order = append(order, a.nodes[id].children[r])
		}
	}
	return order
}

// Nodes returns a read-only snapshot of every node in breadth-first order.
// Nodes are identified by the prefix they represent, which does not depend
// on insertion order.
func (a *Automaton) Nodes() []ports.NodeInfo {
	order := a.bfsOrder()
	prefixes := make([]string, len(a.nodes))
	for _, id := range order {
		prefixes[id] = a.prefix(id)
	}

	out := make([]ports.NodeInfo, 0, len(order))
	for _, id := range order {
		n := &a.nodes[id]
		info := ports.NodeInfo{
			Prefix:   prefixes[id],
			Name:     a.name(id),
			Depth:    int(n.depth),
			Terminal: n.terminal(),
		}
		for _, r := range a.sortedChildren(id) {
			info.Children = append(info.Children, ports.Edge{
				Symbol: string(r),
				Target: prefixes[n.children[r]],
			})
		}
		if n.fail != noNode {
			info.Fail = prefixes[n.fail]
		}
		for _, pid := range n.output {
			info.Output = append(info.Output, a.patterns[pid])
		}
		out = append(out, info)
	}
	return out
}

// Graph returns the diagram model. Every node becomes a vertex labeled with
// its last symbol. A failure edge is added for every non-root node whose
// fail target is not the root; edges back to the root are implied.
func (a *Automaton) Graph() ports.Graph {
	var g ports.Graph
	for _, info := range a.Nodes() {
		label := rootName
		if info.Depth > 0 {
			runes := []rune(info.Prefix)
			label = string(runes[len(runes)-1])
		}
		g.Nodes = append(g.Nodes, ports.GraphNode{
			ID:       info.Prefix,
			Label:    label,
			Depth:    info.Depth,
			Terminal: info.Terminal,
		})
		for _, e := range info.Children {
			g.Edges = append(g.Edges, ports.GraphEdge{
				From:  info.Prefix,
				To:    e.Target,
				Kind:  ports.EdgeTrie,
				Label: e.Symbol,
			})
		}
		if info.Depth > 0 && info.Fail != "" {
			g.Edges = append(g.Edges, ports.GraphEdge{
				From: info.Prefix,
				To:   info.Fail,
				Kind: ports.EdgeFail,
			})
		}
	}
	return g
}

// Dump writes one line per node in depth-first order:
//
//	name: [outputs] * (fail: target)
//
// The * marks terminal nodes.
func (a *Automaton) Dump(w io.Writer) error {
	var walk func(id int32) error
	walk = func(id int32) error {
		n := &a.nodes[id]
		outs := make([]string, len(n.output))
		for i, pid := range n.output {
			outs[i] = a.patterns[pid]
		}
		line := fmt.Sprintf("%s: [%s]", a.name(id), strings.Join(outs, ", "))
		if n.terminal() {
			line += " *"
		}
		if n.fail != noNode {
			line += fmt.Sprintf(" (fail: %s)", a.name(n.fail))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		for _, r := range a.sortedChildren(id) {
			if err := walk(n.children[r]); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(rootID)
}

// WriteDOT renders a Graph in Graphviz DOT. Vertices get positional IDs
// (n0, n1, ...) so that any prefix, including the empty one, is safe.
// Terminal nodes are double circles; failure edges are dashed purple.
func WriteDOT(w io.Writer, g ports.Graph) error {
	ids := make(map[string]string, len(g.Nodes))
	var sb strings.Builder
	sb.WriteString("digraph automaton {\n")
	sb.WriteString("  node [shape=circle];\n")
	for i, n := range g.Nodes {
		ids[n.ID] = fmt.Sprintf("n%d", i)
		shape := "circle"
		if n.Terminal {
			shape = "doublecircle"
		}
		fmt.Fprintf(&sb, "  n%d [label=%s, shape=%s];\n", i, dotQuote(n.Label), shape)
	}
	for _, e := range g.Edges {
		from, okFrom := ids[e.From]
		to, okTo := ids[e.To]
		if !okFrom || !okTo {
			return fmt.Errorf("edge %q -> %q references unknown node", e.From, e.To)
		}
		if e.Kind == ports.EdgeFail {
			fmt.Fprintf(&sb, "  %s -> %s [style=dashed, color=purple];\n", from, to)
			continue
		}
		fmt.Fprintf(&sb, "  %s -> %s [label=%s];\n", from, to, dotQuote(e.Label))
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}
