package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/acm/internal/app"
)

var configColor colorFlags

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the resolved configuration (defaults, acm.yaml, ACM_* env) and server status.",
	RunE:  runConfig,
}

func init() {
	configColor.register(configCmd.Flags())
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := app.NewPaths(root)
	cfg, err := app.LoadConfig(root, nil)
	if err != nil {
		return err
	}
	p := configColor.palette()

	serverStatus := p.paint(colorYellow, "✗ not running")
	url, running := serverURL(root)
	if running {
		serverStatus = p.paint(colorGreen, "✓ running at "+url)
	}

	configFile := paths.Config
	if _, err := os.Stat(configFile); err != nil {
		configFile += " (not present)"
	}

	src := app.Source{File: cfg.Patterns, Set: cfg.Set}

	fmt.Print(p.paint(colorBold, "⚡ acm config") + "\n")
	fmt.Printf("  Root:       %s\n", root)
	fmt.Printf("  Config:     %s\n", configFile)
	fmt.Printf("  DB:         %s\n", cfg.DB)
	fmt.Printf("  Listen:     %s\n", cfg.Listen)
	fmt.Printf("  Patterns:   %s\n", src)
	fmt.Printf("  Watch:      %t (debounce %s)\n", cfg.Watch.Enabled, cfg.Watch.Debounce)
	fmt.Printf("  Log:        %s %s\n", cfg.Log.Level, logTarget(cfg))
	fmt.Printf("  Server:     %s\n", serverStatus)
	return nil
}

func logTarget(cfg app.Config) string {
	if cfg.Log.Output == "file" {
		return cfg.Log.Path + string(os.PathSeparator) + cfg.Log.Filename
	}
	return cfg.Log.Output
}
