// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches the directory containing a pattern file, filters events down to
// that file, and debounces rapid events (editors often trigger multiple writes
// per save, or save by writing a temp file and renaming it over the target).
package fsnotify

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/corey/acm/internal/ports"
)

// DefaultDebounce is the quiet period after the last event before onChange fires.
const DefaultDebounce = 100 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	log      *zap.Logger
	debounce time.Duration
	done     chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a new file watcher. A nil logger discards log output;
// a non-positive debounce uses DefaultDebounce.
func NewWatcher(log *zap.Logger, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fw:       fw,
		log:      log,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// Watch starts monitoring filePath. onChange is called with the absolute path
// once events for the file have been quiet for the debounce interval.
func (w *Watcher) Watch(filePath string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absPath)
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if err := w.fw.Add(dir); err != nil {
		return err
	}

	// Trailing-edge debounce: every relevant event re-arms the timer, so a
	// burst of writes produces one callback after the burst settles.
	var (
		timer *time.Timer
		tmu   sync.Mutex
	)
	fire := func() {
		select {
		case <-w.done:
			return
		default:
		}
		onChange(absPath)
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != absPath {
					continue
				}
				if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
					continue
				}
				w.log.Debug("pattern file event", zap.String("path", absPath), zap.String("op", event.Op.String()))

				tmu.Lock()
				if timer == nil {
					timer = time.AfterFunc(w.debounce, fire)
				} else {
					timer.Reset(w.debounce)
				}
				tmu.Unlock()

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// fsnotify recovers on its own; record and keep going.
				w.log.Warn("watch error", zap.Error(err))

			case <-w.done:
				tmu.Lock()
				if timer != nil {
					timer.Stop()
				}
				tmu.Unlock()
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

var _ ports.Watcher = (*Watcher)(nil)
