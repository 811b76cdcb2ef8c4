package ports

// Watcher monitors a pattern file for changes and triggers an automaton rebuild.
// The adapter (fsnotify) watches the file's directory so that editors which
// save by rename-and-replace are still seen. Only one Watch call should be
// active at a time.
type Watcher interface {
	// Watch starts monitoring filePath. onChange is called with the absolute
	// path of the file after each (debounced) write, create, remove or rename.
	// The callback may be invoked from any goroutine. Returns an error if the
	// directory doesn't exist or permissions are insufficient.
	Watch(filePath string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
