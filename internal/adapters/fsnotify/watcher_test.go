package fsnotify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// fsnotify watcher: detect pattern file changes, trigger automaton rebuild
// Expectation: edits to the watched file fire one debounced callback; edits
// to sibling files are ignored.
// =============================================================================

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func startWatcher(t *testing.T, path string) <-chan string {
	t.Helper()
	w, err := NewWatcher(nil, 30*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(path, func(p string) { changed <- p }))

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return changed
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "patterns.txt")
	require.NoError(t, os.WriteFile(file, []byte("he\n"), 0644))

	changed := startWatcher(t, file)
	require.NoError(t, os.WriteFile(file, []byte("he\nshe\n"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file change")
	assert.Equal(t, file, path)
}

func TestWatcher_DetectsCreateAfterMissing(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "later.json")

	changed := startWatcher(t, file)
	require.NoError(t, os.WriteFile(file, []byte(`["he"]`), 0644))

	_, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file creation")
}

func TestWatcher_DetectsRenameOver(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "patterns.txt")
	require.NoError(t, os.WriteFile(file, []byte("he\n"), 0644))

	changed := startWatcher(t, file)

	tmp := filepath.Join(dir, ".patterns.txt.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("she\n"), 0644))
	require.NoError(t, os.Rename(tmp, file))

	_, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for rename-over save")
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "patterns.txt")
	require.NoError(t, os.WriteFile(file, []byte("he\n"), 0644))

	changed := startWatcher(t, file)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "sibling file should not trigger callback")
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "patterns.txt")
	require.NoError(t, os.WriteFile(file, []byte("a\n"), 0644))

	changed := startWatcher(t, file)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(file, []byte("a\nb\n"), 0644))
	}

	_, ok := waitForCallback(changed, 2*time.Second)
	require.True(t, ok)
	_, again := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, again, "burst should collapse into one callback")
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := NewWatcher(nil, 0)
	require.NoError(t, err)
	defer w.Stop()

	err = w.Watch(filepath.Join(t.TempDir(), "nope", "patterns.txt"), func(string) {})
	assert.Error(t, err)
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w, err := NewWatcher(nil, 0)
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
