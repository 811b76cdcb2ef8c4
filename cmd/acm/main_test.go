package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// acmBin is the path to the compiled binary, set by TestMain.
var acmBin string

func TestMain(m *testing.M) {
	// Build binary once for all tests.
	tmp, err := os.MkdirTemp("", "acm-integration-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create temp dir: %v\n", err)
		os.Exit(1)
	}

	acmBin = filepath.Join(tmp, "acm")
	cmd := exec.Command("go", "build", "-o", acmBin, "./cmd/acm/")
	cmd.Dir = findModuleRoot()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.RemoveAll(tmp)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

// =============================================================================
// Helpers
// =============================================================================

// findModuleRoot walks up from cwd to find go.mod.
func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("go.mod not found")
		}
		dir = parent
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// runACM executes the acm binary in dir with args, returns stdout, stderr, exit code.
func runACM(t *testing.T, dir, stdin string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	cmd := exec.Command(acmBin, args...)
	cmd.Dir = dir
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		require.True(t, ok, "exec error (not ExitError): %v", err)
		exitCode = exitErr.ExitCode()
	}
	return
}

// startServer runs `acm serve` in the background and waits for the port file.
// Returns the base URL and a cleanup func that stops the server with SIGINT.
func startServer(t *testing.T, dir string, args ...string) (string, func()) {
	t.Helper()

	cmd := exec.Command(acmBin, append([]string{"serve", "--listen", "127.0.0.1:0"}, args...)...)
	cmd.Dir = dir
	var outBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &outBuf
	require.NoError(t, cmd.Start())

	portFile := filepath.Join(dir, ".acm", "run", "http.port")
	var url string
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(portFile)
		if err != nil || len(data) == 0 {
			return false
		}
		url = "http://127.0.0.1:" + strings.TrimSpace(string(data))
		return true
	}, 10*time.Second, 20*time.Millisecond, "server did not start: %s", &outBuf)

	return url, func() {
		cmd.Process.Signal(syscall.SIGINT)
		done := make(chan struct{})
		go func() { cmd.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			cmd.Process.Kill()
			<-done
		}
	}
}

// =============================================================================
// search
// =============================================================================

func TestSearch_Basic(t *testing.T) {
	dir := t.TempDir()
	stdout, _, exit := runACM(t, dir, "", "search", "-p", "he,she,his,hers", "ushers")
	require.Equal(t, 0, exit)
	assert.Contains(t, stdout, "⚡ 3 matches │ 3/4 patterns")
	assert.Contains(t, stdout, "  hers  1  [6]")
	assert.Contains(t, stdout, "  his   0")
}

func TestSearch_NoMatchExit1(t *testing.T) {
	dir := t.TempDir()
	_, _, exit := runACM(t, dir, "", "search", "-q", "-p", "xyz", "ushers")
	assert.Equal(t, 1, exit)
}

func TestSearch_Stdin(t *testing.T) {
	dir := t.TempDir()
	stdout, _, exit := runACM(t, dir, "ushers\nushers\n", "search", "-c", "-p", "he,she,his,hers")
	require.Equal(t, 0, exit)
	assert.Equal(t, "6\n", stdout)
}

func TestSearch_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "words.yaml"), "patterns:\n  - he\n  - she\n")
	stdout, _, exit := runACM(t, dir, "", "search", "--json", "-m", "-f", "words.yaml", "ushers")
	require.Equal(t, 0, exit)

	var result struct {
		Total   int `json:"total"`
		Matches []struct {
			Pattern string `json:"pattern"`
			Start   int    `json:"start"`
			End     int    `json:"end"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Matches, 2)
	assert.Equal(t, "she", result.Matches[0].Pattern)
	assert.Equal(t, 1, result.Matches[0].Start)
}

func TestSearch_NoPatternsExit2(t *testing.T) {
	dir := t.TempDir()
	_, stderr, exit := runACM(t, dir, "", "search", "ushers")
	assert.Equal(t, 2, exit)
	assert.Contains(t, stderr, "no pattern source")
}

// =============================================================================
// graph / check
// =============================================================================

func TestGraph_DefaultDemo(t *testing.T) {
	dir := t.TempDir()
	stdout, _, exit := runACM(t, dir, "", "graph")
	require.Equal(t, 0, exit)
	assert.True(t, strings.HasPrefix(stdout, "root:"))
	assert.Contains(t, stdout, "hers")
}

func TestGraph_DOT(t *testing.T) {
	dir := t.TempDir()
	stdout, _, exit := runACM(t, dir, "", "graph", "--format", "dot", "-p", "ab,b")
	require.Equal(t, 0, exit)
	assert.True(t, strings.HasPrefix(stdout, "digraph automaton {"))
}

func TestGraph_BadFormat(t *testing.T) {
	dir := t.TempDir()
	_, stderr, exit := runACM(t, dir, "", "graph", "--format", "svg")
	assert.NotEqual(t, 0, exit)
	assert.Contains(t, stderr, "unknown format")
}

func TestCheck_Random(t *testing.T) {
	dir := t.TempDir()
	stdout, _, exit := runACM(t, dir, "", "check", "--random", "50", "-p", "a,ab,bab,ñ")
	require.Equal(t, 0, exit)
	assert.Contains(t, stdout, "implementations agree")
	assert.Contains(t, stdout, "50 texts")
}

// =============================================================================
// set
// =============================================================================

func TestSet_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	stdout, _, exit := runACM(t, dir, "", "set", "save", "demo", "-p", "he,she,his,hers")
	require.Equal(t, 0, exit)
	assert.Contains(t, stdout, "saved set demo (4 patterns)")

	stdout, _, exit = runACM(t, dir, "", "set", "list")
	require.Equal(t, 0, exit)
	assert.Contains(t, stdout, "demo  4 patterns")

	stdout, _, exit = runACM(t, dir, "", "set", "show", "demo")
	require.Equal(t, 0, exit)
	assert.Equal(t, "he\nshe\nhis\nhers\n", stdout)

	stdout, _, exit = runACM(t, dir, "", "search", "-c", "-s", "demo", "ushers")
	require.Equal(t, 0, exit)
	assert.Equal(t, "3\n", stdout)

	_, _, exit = runACM(t, dir, "", "set", "delete", "demo")
	require.Equal(t, 0, exit)

	_, stderr, exit := runACM(t, dir, "", "set", "show", "demo")
	assert.NotEqual(t, 0, exit)
	assert.Contains(t, stderr, "pattern set not found")
}

// =============================================================================
// config / health / serve
// =============================================================================

func TestConfig_Basic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".acm", "acm.yaml"), "set: demo\n")
	stdout, _, exit := runACM(t, dir, "", "config")
	require.Equal(t, 0, exit)
	assert.Contains(t, stdout, "Patterns:   set demo")
	assert.Contains(t, stdout, "not running")
}

func TestHealth_NotRunning(t *testing.T) {
	dir := t.TempDir()
	stdout, _, exit := runACM(t, dir, "", "health")
	require.Equal(t, 0, exit)
	assert.Contains(t, stdout, "not running")
}

func TestServe_SearchAndStop(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "words.txt"), "he\nshe\nhis\nhers\n")
	url, stop := startServer(t, dir, "-f", "words.txt")

	resp, err := http.Post(url+"/api/search", "application/json", strings.NewReader(`{"text":"ushers"}`))
	require.NoError(t, err)
	var result struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	resp.Body.Close()
	assert.Equal(t, 3, result.Total)

	stdout, _, exit := runACM(t, dir, "", "health")
	require.Equal(t, 0, exit)
	assert.Contains(t, stdout, "Patterns:  4")

	// The server holds the store lock; one-shot set commands explain why they fail.
	_, stderr, exit := runACM(t, dir, "", "set", "list")
	assert.NotEqual(t, 0, exit)
	assert.Contains(t, stderr, "locked by the running server")

	stop()
	_, err = os.Stat(filepath.Join(dir, ".acm", "run", "http.port"))
	assert.True(t, os.IsNotExist(err), "port file removed on clean shutdown")
}
