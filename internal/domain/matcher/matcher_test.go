package matcher

import (
	"sync"
	"testing"

	"github.com/corey/acm/internal/domain/automaton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_EmptyByDefault(t *testing.T) {
	m := New()
	report, err := m.Search("ushers")
	require.NoError(t, err)
	assert.Empty(t, report)
	assert.Equal(t, uint64(0), m.Generation())
}

func TestMatcher_AddPatternsAccumulates(t *testing.T) {
	m := New()
	require.NoError(t, m.AddPatterns([]string{"he", "she"}))
	require.NoError(t, m.AddPatterns([]string{"his", "hers", "he"}))

	assert.Equal(t, []string{"he", "she", "his", "hers"}, m.Patterns())
	assert.Equal(t, uint64(2), m.Generation())

	report, err := m.Search("ushers")
	require.NoError(t, err)
	assert.Equal(t, []int{6}, report["hers"].Positions)
}

func TestMatcher_InvalidPatternKeepsCurrent(t *testing.T) {
	m := New()
	require.NoError(t, m.Replace([]string{"he"}))

	err := m.AddPatterns([]string{"she", ""})
	require.ErrorIs(t, err, automaton.ErrInvalidPattern)
	assert.Equal(t, []string{"he"}, m.Patterns())

	err = m.Replace([]string{""})
	require.ErrorIs(t, err, automaton.ErrInvalidPattern)
	assert.Equal(t, []string{"he"}, m.Patterns())
	assert.Equal(t, uint64(1), m.Generation())
}

func TestMatcher_ReplaceDropsOldPatterns(t *testing.T) {
	m := New()
	require.NoError(t, m.Replace([]string{"auth"}))
	require.NoError(t, m.Replace([]string{"login"}))

	report, err := m.Search("auth login")
	require.NoError(t, err)
	assert.NotContains(t, report, "auth")
	assert.Equal(t, 1, report["login"].Count)
}

func TestMatcher_Reset(t *testing.T) {
	m := New()
	require.NoError(t, m.Replace([]string{"he"}))
	m.Reset()
	assert.Empty(t, m.Patterns())
	assert.Len(t, m.Nodes(), 1)
}

func TestMatcher_SearchDuringSwap(t *testing.T) {
	m := New()
	require.NoError(t, m.Replace([]string{"he", "she"}))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	failures := make(chan string, 1)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				report, err := m.Search("she")
				if err != nil {
					select {
					case failures <- err.Error():
					default:
					}
					return
				}
				// Every generation contains "he", so it always matches.
				if report["he"] == nil || report["he"].Count != 1 {
					select {
					case failures <- "he not matched":
					default:
					}
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		require.NoError(t, m.Replace([]string{"he", "she", "his"}))
		require.NoError(t, m.Replace([]string{"he"}))
	}
	close(stop)
	wg.Wait()

	select {
	case f := <-failures:
		t.Fatal(f)
	default:
	}
}
