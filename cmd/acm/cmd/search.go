package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/corey/acm/internal/adapters/web"
	"github.com/corey/acm/internal/domain/automaton"
	"github.com/corey/acm/internal/ports"
)

var (
	searchSrc     sourceFlags
	searchColor   colorFlags
	searchJSON    bool
	searchMatches bool
	searchCount   bool
	searchQuiet   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] [text ...]",
	Short: "Find every pattern occurrence in text",
	Long: "Builds an automaton from the patterns and scans the text once. Text comes from\n" +
		"the arguments (joined by spaces) or, when none are given, streams from stdin.\n" +
		"Exit status is 0 when something matched, 1 when nothing did, 2 on error.",
	Args:          cobra.ArbitraryArgs,
	RunE:          runSearch,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	searchSrc.register(searchCmd)
	f := searchCmd.Flags()
	searchColor.register(f)
	f.BoolVar(&searchJSON, "json", false, "Print the report as JSON")
	f.BoolVarP(&searchMatches, "matches", "m", false, "List each occurrence with its start and end")
	f.BoolVarP(&searchCount, "count", "c", false, "Print only the total number of matches")
	f.BoolVarP(&searchQuiet, "quiet", "q", false, "Quiet mode (exit code only)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	report, elapsed, symbols, err := doSearch(cmd.InOrStdin(), args)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "acm search: %v\n", err)
		return exitError{2}
	}

	out := cmd.OutOrStdout()
	switch {
	case searchQuiet:
	case searchJSON:
		result := web.SearchResult{
			Report:  report,
			Total:   report.Total(),
			Matched: report.Matched(),
			Elapsed: elapsed.String(),
		}
		if searchMatches {
			result.Matches = report.Matches()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	case searchCount:
		fmt.Fprintln(out, report.Total())
	default:
		p := searchColor.palette()
		fmt.Fprint(out, formatReport(report, elapsed, p))
		if searchMatches {
			fmt.Fprint(out, formatMatches(report.Matches(), p))
		}
		fmt.Fprint(out, p.paint(colorGray, fmt.Sprintf("  %d symbols scanned\n", symbols)))
	}

	if report.Total() == 0 {
		return exitError{1}
	}
	return nil
}

// doSearch builds the automaton and scans either the joined args or stdin.
// Stdin is fed rune by rune through a cursor, so input of any size is
// scanned without being held in memory.
func doSearch(stdin io.Reader, args []string) (ports.Report, time.Duration, int, error) {
	patterns, err := searchSrc.load(projectRoot(), false)
	if err != nil {
		return nil, 0, 0, err
	}
	a, err := automaton.FromPatterns(patterns)
	if err != nil {
		return nil, 0, 0, err
	}

	if len(args) > 0 {
		text := strings.Join(args, " ")
		start := time.Now()
		report, err := a.Search(text)
		return report, time.Since(start), utf8.RuneCountInString(text), err
	}

	if f, ok := stdin.(*os.File); ok && f == os.Stdin && !isStdinPipe() {
		return nil, 0, 0, errors.New("no text: pass it as arguments or pipe it on stdin")
	}

	c, err := a.NewCursor()
	if err != nil {
		return nil, 0, 0, err
	}
	start := time.Now()
	r := bufio.NewReader(stdin)
	for {
		ch, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, fmt.Errorf("read stdin: %w", err)
		}
		if _, err := c.Step(ch); err != nil {
			return nil, 0, 0, err
		}
	}
	return c.Report(), time.Since(start), c.Position(), nil
}
