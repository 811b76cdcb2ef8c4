package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/acm/internal/app"
	"github.com/corey/acm/internal/domain/automaton"
	"github.com/corey/acm/internal/ports"
)

var (
	setSaveSrc sourceFlags
	setColor   colorFlags
	setJSON    bool
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Manage stored pattern sets",
	Long:  "Pattern sets are saved by name in .acm/acm.db and can be used anywhere with --set.",
}

var setSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save patterns under a name (overwrites)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetSave,
}

var setListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sets",
	Args:  cobra.NoArgs,
	RunE:  runSetList,
}

var setShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored set, one pattern per line",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetShow,
}

var setDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored set",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetDelete,
}

func init() {
	setSaveSrc.register(setSaveCmd)
	setColor.register(setListCmd.Flags())
	setListCmd.Flags().BoolVar(&setJSON, "json", false, "Print as JSON")
	setShowCmd.Flags().BoolVar(&setJSON, "json", false, "Print as JSON")

	setCmd.AddCommand(setSaveCmd)
	setCmd.AddCommand(setListCmd)
	setCmd.AddCommand(setShowCmd)
	setCmd.AddCommand(setDeleteCmd)
}

func runSetSave(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	patterns, err := setSaveSrc.load(root, false)
	if err != nil {
		return err
	}
	// Refuse sets the automaton would reject.
	if _, err := automaton.FromPatterns(patterns); err != nil {
		return err
	}

	store, err := openStore(root)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveSet(&ports.PatternSet{Name: args[0], Patterns: patterns}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ saved set %s (%d patterns)\n", args[0], len(patterns))
	return nil
}

func runSetList(cmd *cobra.Command, args []string) error {
	store, err := openStore(projectRoot())
	if err != nil {
		return err
	}
	defer store.Close()

	sets, err := store.ListSets()
	if err != nil {
		return err
	}
	if setJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(sets)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatSets(sets, setColor.palette()))
	return nil
}

func runSetShow(cmd *cobra.Command, args []string) error {
	store, err := openStore(projectRoot())
	if err != nil {
		return err
	}
	defer store.Close()

	set, err := store.LoadSet(args[0])
	if err != nil {
		return err
	}
	if set == nil {
		return fmt.Errorf("%w: %s", app.ErrSetNotFound, args[0])
	}

	out := cmd.OutOrStdout()
	if setJSON {
		return json.NewEncoder(out).Encode(set)
	}
	for _, p := range set.Patterns {
		fmt.Fprintln(out, p)
	}
	return nil
}

func runSetDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore(projectRoot())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteSet(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ deleted set %s\n", args[0])
	return nil
}
