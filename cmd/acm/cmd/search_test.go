package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSearchSource(t *testing.T, list string) {
	t.Helper()
	prev := searchSrc
	searchSrc = sourceFlags{list: list}
	t.Cleanup(func() { searchSrc = prev })
}

func TestDoSearch_Args(t *testing.T) {
	withSearchSource(t, "he,she,his,hers")

	report, _, symbols, err := doSearch(strings.NewReader(""), []string{"ushers"})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total())
	assert.Equal(t, []int{6}, report["hers"].Positions)
	assert.Equal(t, 6, symbols)
}

func TestDoSearch_ArgsJoined(t *testing.T) {
	withSearchSource(t, "a b")

	report, _, _, err := doSearch(strings.NewReader(""), []string{"a", "b", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 7}, report["a b"].Positions)
}

func TestDoSearch_StreamMatchesWholeText(t *testing.T) {
	withSearchSource(t, "he,she,his,hers,ñu")
	text := strings.Repeat("ushers and his gñu ", 200)

	streamed, _, symbols, err := doSearch(strings.NewReader(text), nil)
	require.NoError(t, err)
	whole, _, _, err := doSearch(strings.NewReader(""), []string{text})
	require.NoError(t, err)

	assert.Equal(t, whole, streamed)
	assert.Equal(t, 19*200, symbols)
}

func TestDoSearch_BadSource(t *testing.T) {
	withSearchSource(t, " , ")
	_, _, _, err := doSearch(strings.NewReader("x"), nil)
	assert.Error(t, err)
}
