// acm is a multi-pattern string matcher built on an Aho-Corasick automaton.
// One-shot searches, automaton diagrams, stored pattern sets and an HTTP server.
package main

import (
	"os"

	"github.com/corey/acm/cmd/acm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
