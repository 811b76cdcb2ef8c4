package cmd

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/corey/acm/internal/adapters/web"
	"github.com/corey/acm/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// palette wraps text in ANSI codes when color is on.
type palette struct{ on bool }

func (p palette) paint(code, s string) string {
	if !p.on {
		return s
	}
	return code + s + colorReset
}

// formatReport formats a search report for terminal display.
// Patterns are listed in sorted order; unmatched ones are dimmed.
//
//	⚡ 3 matches │ 3/4 patterns │ 12µs
//	  he    1  [4]
//	  hers  1  [6]
//	  his   0
//	  she   1  [4]
func formatReport(r ports.Report, elapsed time.Duration, p palette) string {
	patterns := r.Patterns()

	var sb strings.Builder
	sb.WriteString(p.paint(colorBold, fmt.Sprintf("⚡ %d matches", r.Total())))
	sb.WriteString(fmt.Sprintf(" │ %d/%d patterns │ %s\n", r.Matched(), len(patterns), elapsed))

	width := 0
	for _, pat := range patterns {
		if n := utf8.RuneCountInString(pat); n > width {
			width = n
		}
	}

	for _, pat := range patterns {
		res := r[pat]
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(pat))
		if res.Count == 0 {
			sb.WriteString("  " + p.paint(colorGray, fmt.Sprintf("%s%s  0", pat, pad)) + "\n")
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s%s  %d  %s\n",
			p.paint(colorCyan, pat), pad, res.Count,
			p.paint(colorGreen, formatPositions(res.Positions))))
	}
	return sb.String()
}

func formatPositions(positions []int) string {
	parts := make([]string, len(positions))
	for i, pos := range positions {
		parts[i] = fmt.Sprint(pos)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// formatMatches lists every occurrence as start-end (rune offsets, end exclusive).
func formatMatches(matches []ports.Match, p palette) string {
	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString(fmt.Sprintf("  %s  %s\n",
			p.paint(colorGray, fmt.Sprintf("%d-%d", m.Start, m.End)),
			p.paint(colorCyan, m.Pattern)))
	}
	return sb.String()
}

// formatSets formats stored pattern sets for terminal display.
func formatSets(sets []ports.SetInfo, p palette) string {
	var sb strings.Builder
	sb.WriteString(p.paint(colorBold, fmt.Sprintf("⚡ %d sets", len(sets))) + "\n")
	for _, s := range sets {
		sb.WriteString(fmt.Sprintf("  %s  %d patterns  %s\n",
			p.paint(colorMagenta, s.Name), s.Count,
			p.paint(colorGray, "updated "+time.Unix(s.UpdatedAt, 0).Format(time.DateTime))))
	}
	return sb.String()
}

// formatHealth formats a HealthResult for terminal display.
func formatHealth(h *web.HealthResult, url string, p palette) string {
	var sb strings.Builder
	sb.WriteString(p.paint(colorBold, "⚡ acm server") + "\n")
	sb.WriteString(fmt.Sprintf("  Status:    %s\n", p.paint(colorGreen, h.Status)))
	sb.WriteString(fmt.Sprintf("  URL:       %s\n", url))
	sb.WriteString(fmt.Sprintf("  Patterns:  %d\n", h.Patterns))
	sb.WriteString(fmt.Sprintf("  Uptime:    %s\n", h.Uptime))
	return sb.String()
}

// formatDiff describes one disagreement found by check.
func formatDiff(text, pattern string, got, want *ports.Result, p palette) string {
	return fmt.Sprintf("  %s %q in %q: automaton %d %s, reference %d %s\n",
		p.paint(colorYellow, "✗"), pattern, text,
		got.Count, formatPositions(got.Positions),
		want.Count, formatPositions(want.Positions))
}
