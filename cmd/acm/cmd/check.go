package cmd

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/acm/internal/adapters/ahocorasick"
	"github.com/corey/acm/internal/domain/automaton"
	"github.com/corey/acm/internal/ports"
)

var (
	checkSrc    sourceFlags
	checkColor  colorFlags
	checkRandom int
	checkLength int
	checkSeed   uint64
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [text ...]",
	Short: "Cross-check the automaton against an independent implementation",
	Long: "Searches the given text (and optionally random texts drawn from the patterns'\n" +
		"alphabet) with both the automaton and a reference matcher, and reports any\n" +
		"pattern whose count or positions differ. Exit status 1 on disagreement.",
	Args:          cobra.ArbitraryArgs,
	RunE:          runCheck,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	checkSrc.register(checkCmd)
	f := checkCmd.Flags()
	checkColor.register(f)
	f.IntVarP(&checkRandom, "random", "r", 0, "Number of random texts to check")
	f.IntVar(&checkLength, "length", 64, "Length in runes of each random text")
	f.Uint64Var(&checkSeed, "seed", 1, "Seed for random texts")
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	p := checkColor.palette()

	patterns, err := checkSrc.load(projectRoot(), true)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "acm check: %v\n", err)
		return exitError{2}
	}

	texts := randomTexts(patterns, checkRandom, checkLength, checkSeed)
	if len(args) > 0 {
		texts = append([]string{strings.Join(args, " ")}, texts...)
	}
	if len(texts) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "acm check: no text: pass it as arguments or use --random")
		return exitError{2}
	}

	diffs, matches, err := crossCheck(patterns, texts, p)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "acm check: %v\n", err)
		return exitError{2}
	}
	if len(diffs) > 0 {
		fmt.Fprint(out, p.paint(colorBold, fmt.Sprintf("✗ %d disagreements", len(diffs)))+"\n")
		for _, d := range diffs {
			fmt.Fprint(out, d)
		}
		return exitError{1}
	}

	fmt.Fprintf(out, "%s │ %d texts │ %d patterns │ %d matches\n",
		p.paint(colorGreen, "✓ implementations agree"), len(texts), len(patterns), matches)
	return nil
}

// crossCheck searches every text with both matchers and returns one formatted
// line per disagreeing (text, pattern) pair, plus the total matches seen.
func crossCheck(patterns, texts []string, p palette) ([]string, int, error) {
	a, err := automaton.FromPatterns(patterns)
	if err != nil {
		return nil, 0, err
	}
	ref, err := ahocorasick.NewReference(patterns)
	if err != nil {
		return nil, 0, err
	}

	var diffs []string
	total := 0
	for _, text := range texts {
		got, err := a.Search(text)
		if err != nil {
			return nil, 0, err
		}
		want, err := ref.Search(text)
		if err != nil {
			return nil, 0, err
		}
		total += got.Total()
		for _, pat := range got.Patterns() {
			if !sameResult(got[pat], want[pat]) {
				diffs = append(diffs, formatDiff(text, pat, got[pat], want[pat], p))
			}
		}
	}
	return diffs, total, nil
}

func sameResult(a, b *ports.Result) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Count != b.Count || len(a.Positions) != len(b.Positions) {
		return false
	}
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] {
			return false
		}
	}
	return true
}

// randomTexts draws n texts of length runes from the patterns' alphabet plus
// one rune that appears in no pattern, so misses and restarts get exercised.
func randomTexts(patterns []string, n, length int, seed uint64) []string {
	if n <= 0 || length <= 0 {
		return nil
	}
	seen := map[rune]bool{}
	var alphabet []rune
	for _, pat := range patterns {
		for _, r := range pat {
			if !seen[r] {
				seen[r] = true
				alphabet = append(alphabet, r)
			}
		}
	}
	for _, r := range "#xyz" {
		if !seen[r] {
			alphabet = append(alphabet, r)
			break
		}
	}
	if len(alphabet) == 0 {
		return nil
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	texts := make([]string, n)
	for i := range texts {
		var sb strings.Builder
		for j := 0; j < length; j++ {
			sb.WriteRune(alphabet[rng.IntN(len(alphabet))])
		}
		texts[i] = sb.String()
	}
	return texts
}
