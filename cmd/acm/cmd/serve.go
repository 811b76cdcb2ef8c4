package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/acm/internal/adapters/bbolt"
	"github.com/corey/acm/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve searches over HTTP",
	Long: "Runs the HTTP API (search, patterns, nodes, graph, metrics) in the foreground.\n" +
		"Patterns come from --file or --set; a pattern file is watched and reloaded on\n" +
		"change. Settings also come from .acm/acm.yaml and ACM_* environment variables.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("listen", "", "Listen address (default 127.0.0.1:<project port>)")
	f.StringP("file", "f", "", "Pattern file to serve and watch")
	f.StringP("set", "s", "", "Stored pattern set to serve")
	f.Bool("watch", true, "Reload when the pattern file changes")
	f.String("log-level", "", "Log level: debug, info, warn, error")
	f.String("db", "", "Pattern store path (default .acm/acm.db)")
}

func runServe(cmd *cobra.Command, args []string) error {
	root := projectRoot()

	if url, ok := serverURL(root); ok {
		fmt.Printf("⚡ server already running at %s\n", url)
		return nil
	}

	cfg, err := app.LoadConfig(root, cmd.Flags())
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		if bbolt.IsLockTimeout(err) {
			return fmt.Errorf("%s", diagnoseDBLock(root))
		}
		return fmt.Errorf("init: %w", err)
	}
	if err := a.Start(); err != nil {
		a.Stop()
		return err
	}

	fmt.Printf("⚡ acm serving %d patterns (%s) at %s\n",
		len(a.Matcher.Patterns()), a.Source(), a.WebServer.URL())
	if cfg.Log.Output == "file" {
		fmt.Printf("  log: %s\n", a.Paths.DaemonLog)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\n⚡ shutting down...")
	return a.Stop()
}
