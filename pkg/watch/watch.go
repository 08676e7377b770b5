// Package watch reports debounced changes to token files below a directory.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Options controls which files are reported and how changes are grouped.
type Options struct {
	// Debounce is the quiet period after the last event before a batch is
	// delivered. Zero means 200ms.
	Debounce time.Duration
	// Patterns are doublestar globs, relative to the root, of files to
	// report. Empty means "**/*.json".
	Patterns []string
	// Ignore are doublestar globs, relative to the root, of directories and
	// files never watched.
	Ignore []string
}

// DefaultOptions watches every JSON file.
func DefaultOptions() Options {
	return Options{
		Debounce: 200 * time.Millisecond,
		Patterns: []string{"**/*.json"},
	}
}

// Watcher groups file events under a root into batches of changed paths.
type Watcher struct {
	root    string
	opts    Options
	fsw     *fsnotify.Watcher
	logger  *slog.Logger
	fire    chan struct{}
	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	closed  bool
}

// New starts watching root and every directory below it.
func New(root string, opts Options, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}
	if len(opts.Patterns) == 0 {
		opts.Patterns = []string{"**/*.json"}
	}
	for _, p := range append(append([]string(nil), opts.Patterns...), opts.Ignore...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid watch pattern: %s", p)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		root:    root,
		opts:    opts,
		fsw:     fsw,
		logger:  logger,
		fire:    make(chan struct{}, 1),
		pending: make(map[string]struct{}),
	}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Run delivers batches of changed paths, sorted, to onChange until ctx is
// done or the watcher is closed. onChange is never called concurrently.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string)) error {
	w.logger.Info("watching for changes", "root", w.root)

	for {
		select {
		case <-ctx.Done():
			w.Close()
			return nil

		case <-w.fire:
			if changed := w.drain(); len(changed) > 0 {
				onChange(changed)
			}

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name
	if w.ignored(path) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if !w.matches(path) {
		return
	}

	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.logger.Debug("file event", "op", event.Op.String(), "path", path)
		w.schedule(path)
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	sort.Strings(changed)
	w.pending = make(map[string]struct{})
	return changed
}

func (w *Watcher) rel(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) matches(path string) bool {
	rel, ok := w.rel(path)
	if !ok {
		return false
	}
	for _, p := range w.opts.Patterns {
		if matched, _ := doublestar.Match(p, rel); matched {
			return true
		}
	}
	return false
}

func (w *Watcher) ignored(path string) bool {
	switch filepath.Base(path) {
	case "node_modules", ".git":
		return true
	}

	rel, ok := w.rel(path)
	if !ok {
		return false
	}
	for _, p := range w.opts.Ignore {
		if matched, _ := doublestar.Match(p, rel); matched {
			return true
		}
	}
	return false
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	return w.fsw.Close()
}
