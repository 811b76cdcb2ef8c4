package cmd

import (
	"fmt"
	"os"

	"github.com/corey/acm/internal/app"
)

// diagnoseDBLock checks the server state and returns actionable guidance
// when a bbolt open fails due to lock contention. It distinguishes three
// scenarios: server running, stale PID file, and unknown lock holder.
func diagnoseDBLock(root string) string {
	paths := app.NewPaths(root)

	if url, ok := serverURL(root); ok {
		return "database is locked by the running server at " + url + "\n" +
			"  → stop it first (Ctrl-C in its terminal, or kill $(cat " + paths.PIDFile + "))\n" +
			"  → then retry your command"
	}

	if pid, err := os.ReadFile(paths.PIDFile); err == nil {
		return fmt.Sprintf("database is locked, and a PID file exists but the server is not responding\n"+
			"  → a previous server may have hung\n"+
			"  → kill it:          kill %s\n"+
			"  → clean up:         rm %s", pid, paths.PIDFile)
	}

	return "database is locked by another process\n" +
		"  → find the process:  ps aux | grep 'acm'\n" +
		"  → kill it:           kill <PID>\n" +
		"  → then retry your command"
}
