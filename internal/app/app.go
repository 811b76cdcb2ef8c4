// Package app wires together all adapters and domain logic.
// It provides lifecycle management for the acm server: create, start, stop, reload.
package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/corey/acm/internal/adapters/bbolt"
	fsw "github.com/corey/acm/internal/adapters/fsnotify"
	"github.com/corey/acm/internal/adapters/logging"
	"github.com/corey/acm/internal/adapters/metrics"
	"github.com/corey/acm/internal/adapters/web"
	"github.com/corey/acm/internal/domain/matcher"
	"github.com/corey/acm/internal/ports"
)

// App is the top-level container wiring all components together.
type App struct {
	ProjectRoot string
	Paths       *Paths

	Log       *zap.Logger
	Store     *bbolt.Store
	Matcher   *matcher.Matcher
	Metrics   *metrics.Metrics
	WebServer *web.Server
	Watcher   ports.Watcher // nil unless a pattern file is watched

	cfg     Config
	mu      sync.Mutex // serializes reloads
	started time.Time
}

// New creates an App with all dependencies wired. Does not start services.
func New(cfg Config) (*App, error) {
	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	paths := NewPaths(cfg.ProjectRoot)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create %s: %w", paths.Root, err)
	}
	if cfg.DB == "" {
		cfg.DB = paths.DB
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	store, err := bbolt.NewStore(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	m := matcher.New()
	met := metrics.New()

	return &App{
		ProjectRoot: cfg.ProjectRoot,
		Paths:       paths,
		Log:         log,
		Store:       store,
		Matcher:     m,
		Metrics:     met,
		WebServer:   web.NewServer(m, met, log.Named("web"), paths.PortFile),
		cfg:         cfg,
	}, nil
}

// Source returns the pattern source the app reloads from.
func (a *App) Source() Source {
	return Source{File: a.cfg.Patterns, Set: a.cfg.Set}
}

// Start loads the initial patterns, then starts the HTTP server and, for
// file sources, the file watcher. A failed initial load is fatal; a failed
// watcher is not.
func (a *App) Start() error {
	a.started = time.Now()

	if err := a.Reload(); err != nil && !errors.Is(err, ErrNoSource) {
		return fmt.Errorf("initial load: %w", err)
	}

	if err := a.WebServer.Start(a.cfg.Listen); err != nil {
		return fmt.Errorf("start http: %w", err)
	}
	if err := os.WriteFile(a.Paths.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		a.Log.Warn("write pid file", zap.String("path", a.Paths.PIDFile), zap.Error(err))
	}

	if a.cfg.Patterns != "" && a.cfg.Watch.Enabled {
		w, err := fsw.NewWatcher(a.Log.Named("watch"), a.cfg.Watch.Debounce)
		if err != nil {
			a.Log.Warn("file watcher unavailable", zap.Error(err))
			return nil
		}
		if err := w.Watch(a.cfg.Patterns, a.onPatternFileChanged); err != nil {
			a.Log.Warn("file watcher unavailable", zap.Error(err))
			w.Stop()
			return nil
		}
		a.Watcher = w
		a.Log.Info("watching pattern file", zap.String("path", a.cfg.Patterns))
	}
	return nil
}

// Stop gracefully shuts down all services. Safe to call after a failed Start.
func (a *App) Stop() error {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	a.WebServer.Stop()
	a.Paths.CleanEphemeral()
	err := a.Store.Close()
	a.Log.Info("stopped", zap.Duration("uptime", time.Since(a.started).Round(time.Second)))
	a.Log.Sync()
	return err
}

// Reload rebuilds the automaton from the configured source and swaps it in.
// On failure the previous automaton keeps serving.
func (a *App) Reload() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	src := a.Source()
	if src.Empty() {
		a.Log.Warn("no pattern source configured; serving an empty automaton")
		return ErrNoSource
	}

	start := time.Now()
	patterns, err := LoadPatterns(src, a.Store)
	if err == nil {
		err = a.Matcher.Replace(patterns)
	}
	if err != nil {
		a.Metrics.RebuildFailed()
		a.Log.Error("rebuild failed", zap.Stringer("source", src), zap.Error(err))
		return err
	}

	au := a.Matcher.Automaton()
	a.Metrics.ObserveRebuild(au.PatternCount(), au.NodeCount())
	a.Log.Info("automaton rebuilt",
		zap.Stringer("source", src),
		zap.Int("patterns", au.PatternCount()),
		zap.Int("nodes", au.NodeCount()),
		zap.Uint64("generation", a.Matcher.Generation()),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// onPatternFileChanged handles a debounced change event from the watcher.
func (a *App) onPatternFileChanged(absPath string) {
	if _, err := os.Stat(absPath); err != nil {
		a.Log.Warn("pattern file gone; keeping current automaton", zap.String("path", absPath))
		return
	}
	// Reload logs its own outcome.
	_ = a.Reload()
}
