package watch

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/HenrikKarapetyan/filesystem/internal/logger"
	"github.com/HenrikKarapetyan/filesystem/pkg/fsutil"
)

// DefaultDebounce is how long the tree must stay quiet before onChange fires.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a directory tree, honouring the exclusions in opts
type Watcher struct {
	root     string
	opts     fsutil.Options
	debounce time.Duration
	fs       *fsutil.Filesystem
	watcher  *fsnotify.Watcher
}

// New creates a watcher on root and every non-excluded subdirectory. A
// debounce of zero means DefaultDebounce.
func New(fsys *fsutil.Filesystem, root string, opts fsutil.Options, debounce time.Duration) (*Watcher, error) {
	if fsys == nil {
		fsys = fsutil.Default
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("failed to watch %s: not a directory", root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		opts:     opts,
		debounce: debounce,
		fs:       fsys,
		watcher:  watcher,
	}
	if err := w.addTree(root); err != nil {
		watcher.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers the set of changed paths to onChange once no event has arrived
// for the debounce window. It returns ctx.Err() when ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	pending := make(map[string]struct{})
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.handle(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			fire = time.After(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})
			onChange(paths)
		}
	}
}

// WatchList returns the directories currently watched
func (w *Watcher) WatchList() []string {
	list := w.watcher.WatchList()
	sort.Strings(list)
	return list
}

// Close closes the watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// handle reports whether event counts as a change
func (w *Watcher) handle(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if excluded, _ := w.opts.Excludes(event.Name); excluded {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				logger.Warn("watch: %v", err)
			}
		}
	}
	return true
}

// addTree adds dir and all directories below it
func (w *Watcher) addTree(dir string) error {
	opts := w.opts
	opts.Extension = ""

	dirs, err := w.fs.Walk(dir, fsutil.PreOrder, opts, func(_ string, e fsutil.Entry) (string, error) {
		if !e.IsDir {
			return "", nil
		}
		return e.Path, nil
	})
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	for _, d := range append([]string{dir}, dirs...) {
		if err := w.watcher.Add(d); err != nil {
			return fmt.Errorf("failed to add %s to watcher: %w", d, err)
		}
		logger.Debug("watch: added %s", d)
	}
	return nil
}
