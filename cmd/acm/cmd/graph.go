package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/acm/internal/domain/automaton"
)

var (
	graphSrc    sourceFlags
	graphFormat string
	graphNodes  bool
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the automaton built from a pattern set",
	Long: "Prints the trie with outputs and failure links. Without a pattern source the\n" +
		"classic {he, she, his, hers} set is used.\n\n" +
		"Formats: text (indented dump), dot (Graphviz), json (diagram model).\n" +
		"Render DOT with:  acm graph --format dot | dot -Tsvg > automaton.svg",
	Args: cobra.NoArgs,
	RunE: runGraph,
}

func init() {
	graphSrc.register(graphCmd)
	f := graphCmd.Flags()
	f.StringVar(&graphFormat, "format", "text", "Output format: text, dot, json")
	f.BoolVar(&graphNodes, "nodes", false, "With --format json, print per-node details instead of the diagram")
}

func runGraph(cmd *cobra.Command, args []string) error {
	patterns, err := graphSrc.load(projectRoot(), true)
	if err != nil {
		return err
	}
	a, err := automaton.FromPatterns(patterns)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch graphFormat {
	case "text":
		return a.Dump(out)
	case "dot":
		return automaton.WriteDOT(out, a.Graph())
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if graphNodes {
			return enc.Encode(a.Nodes())
		}
		return enc.Encode(a.Graph())
	default:
		return fmt.Errorf("unknown format %q (want text, dot or json)", graphFormat)
	}
}
