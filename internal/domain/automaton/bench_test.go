package automaton

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
)

// =============================================================================
// Performance benchmarks
// Search cost should track text length, not pattern count: one transition
// (plus amortized failure hops) per symbol.
// =============================================================================

// benchPatterns returns n distinct lowercase patterns of length 3..10.
func benchPatterns(n int) []string {
	rng := rand.New(rand.NewPCG(1, 2))
	seen := make(map[string]bool, n)
	out := make([]string, 0, n)
	for len(out) < n {
		l := 3 + rng.IntN(8)
		var sb strings.Builder
		for i := 0; i < l; i++ {
			sb.WriteByte(byte('a' + rng.IntN(26)))
		}
		if p := sb.String(); !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func benchText(n int) string {
	rng := rand.New(rand.NewPCG(3, 4))
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		if rng.IntN(8) == 0 {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteByte(byte('a' + rng.IntN(26)))
	}
	return sb.String()
}

func BenchmarkBuild(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		patterns := benchPatterns(n)
		b.Run(fmt.Sprintf("patterns=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := FromPatterns(patterns); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSearch(b *testing.B) {
	text := benchText(1 << 16)
	for _, n := range []int{10, 1000, 10000} {
		a, err := FromPatterns(benchPatterns(n))
		if err != nil {
			b.Fatal(err)
		}
		b.Run(fmt.Sprintf("patterns=%d", n), func(b *testing.B) {
			b.SetBytes(int64(len(text)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := a.Search(text); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCursorStep(b *testing.B) {
	a, err := FromPatterns(demoPatterns)
	if err != nil {
		b.Fatal(err)
	}
	c, err := a.NewCursor()
	if err != nil {
		b.Fatal(err)
	}
	text := []rune(benchText(4096))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Step(text[i%len(text)]); err != nil {
			b.Fatal(err)
		}
	}
}
