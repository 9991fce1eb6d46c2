package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a chart output directory for manifest changes and emits
// a debounced notification per burst of writes, so a chart regeneration
// touching many files triggers a single re-validation.
type Watcher struct {
	watcher *fsnotify.Watcher
	config  *WatcherConfig
	logger  *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	fire    chan struct{}
	events  chan struct{}
	running bool
	stopCh  chan struct{}
}

// WatcherConfig contains configuration for the manifest watcher.
type WatcherConfig struct {
	// Path is the file or directory to watch.
	Path string

	// DebounceInterval is the quiet period required after the last change
	// before a notification is emitted (default: 250ms).
	DebounceInterval time.Duration

	// Extensions is the list of file extensions that trigger notifications.
	Extensions []string
}

// DefaultWatcherConfig returns the default watcher configuration.
func DefaultWatcherConfig(path string) *WatcherConfig {
	return &WatcherConfig{
		Path:             path,
		DebounceInterval: 250 * time.Millisecond,
		Extensions:       []string{".yaml", ".yml"},
	}
}

// NewWatcher creates a new manifest watcher.
func NewWatcher(config *WatcherConfig, logger *slog.Logger) (*Watcher, error) {
	if config == nil {
		return nil, fmt.Errorf("watcher config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 250 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher: fsw,
		config:  config,
		logger:  logger,
		fire:    make(chan struct{}, 1),
		events:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins watching. The returned channel receives one value per
// debounced change burst and is closed when the watcher stops.
func (w *Watcher) Start(ctx context.Context) (<-chan struct{}, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil, fmt.Errorf("watcher already running")
	}

	if err := w.addPaths(); err != nil {
		return nil, err
	}
	w.running = true

	go w.loop(ctx)

	w.logger.Info("watching for manifest changes",
		"path", w.config.Path,
		"debounce", w.config.DebounceInterval,
	)

	return w.events, nil
}

// Stop stops the watcher and closes the event channel.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.stopCh)
	return w.watcher.Close()
}

// addPaths registers the configured path, and its subdirectories when it
// is a directory, with the underlying fsnotify watcher.
func (w *Watcher) addPaths() error {
	info, err := os.Stat(w.config.Path)
	if err != nil {
		return fmt.Errorf("failed to stat watch path %q: %w", w.config.Path, err)
	}

	if !info.IsDir() {
		return w.watcher.Add(w.config.Path)
	}

	return filepath.Walk(w.config.Path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.watcher.Add(p)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		close(w.events)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("manifest change detected",
				"path", event.Name,
				"op", event.Op.String(),
			)
			w.schedule()

		case <-w.fire:
			select {
			case w.events <- struct{}{}:
			default:
				// A notification is already pending; coalesce.
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// relevant reports whether the event concerns a watched manifest file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, want := range w.config.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.DebounceInterval, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
}
