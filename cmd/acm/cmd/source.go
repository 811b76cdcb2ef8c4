package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/acm/internal/adapters/bbolt"
	"github.com/corey/acm/internal/app"
)

// sourceFlags are the pattern-source flags shared by search, graph, check and set save.
type sourceFlags struct {
	list string
	file string
	set  string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.list, "patterns", "p", "", "Comma-separated patterns")
	fl.StringVarP(&f.file, "file", "f", "", "Pattern file (.json, .yaml, .txt)")
	fl.StringVarP(&f.set, "set", "s", "", "Stored pattern set name")
}

func (f *sourceFlags) source() app.Source {
	return app.Source{List: f.list, File: f.file, Set: f.set}
}

// load resolves the flags into patterns. With demo set, an empty source
// falls back to app.DemoPatterns instead of failing.
func (f *sourceFlags) load(root string, demo bool) ([]string, error) {
	src := f.source()
	if src.Empty() && demo {
		return append([]string(nil), app.DemoPatterns...), nil
	}
	if src.List != "" || src.File != "" || src.Set == "" {
		return app.LoadPatterns(src, nil)
	}

	store, err := openStore(root)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return app.LoadPatterns(src, store)
}

// openStore opens the project's pattern store at the configured DB path.
func openStore(root string) (*bbolt.Store, error) {
	cfg, err := app.LoadConfig(root, nil)
	if err != nil {
		return nil, err
	}
	if err := app.NewPaths(root).EnsureDirs(); err != nil {
		return nil, err
	}
	store, err := bbolt.NewStore(cfg.DB)
	if err != nil {
		if bbolt.IsLockTimeout(err) {
			return nil, fmt.Errorf("%s", diagnoseDBLock(root))
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}
