package plan

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hbarrett/planwright/internal/logging"
)

// SnapshotWatcher watches a plan directory and notifies when a new
// snapshot appears or an existing one is rewritten. Useful for the
// interactive flow where a user edits the plan file before approval.
type SnapshotWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	log     *logging.Logger

	// Callback invoked with the snapshot path after a change settles
	onChange func(path string)

	mu       sync.Mutex
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewSnapshotWatcher creates a watcher for the given plan directory.
// The directory must exist before the watcher starts.
func NewSnapshotWatcher(dir string, onChange func(path string), log *logging.Logger) (*SnapshotWatcher, error) {
	if log == nil {
		log = logging.NopLogger()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return &SnapshotWatcher{
		watcher:  watcher,
		dir:      dir,
		log:      log,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching for snapshot changes.
func (w *SnapshotWatcher) Start() {
	go w.watchLoop()
}

// Stop tears down the watcher. Safe to call more than once.
func (w *SnapshotWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()
	})
}

// watchLoop processes filesystem events with a short debounce, since
// editors commonly emit several events per save.
func (w *SnapshotWatcher) watchLoop() {
	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C // drain initial timer

	pending := make(map[string]struct{})

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isSnapshotName(filepath.Base(event.Name)) {
				continue
			}

			w.mu.Lock()
			pending[event.Name] = struct{}{}
			w.mu.Unlock()

			debounceTimer.Reset(50 * time.Millisecond)

		case <-debounceTimer.C:
			w.mu.Lock()
			paths := pending
			pending = make(map[string]struct{})
			w.mu.Unlock()

			for path := range paths {
				if w.onChange != nil {
					w.onChange(path)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("snapshot watcher error", "dir", w.dir, "error", err)
		}
	}
}

func isSnapshotName(name string) bool {
	return strings.HasPrefix(name, snapshotPrefix) && strings.HasSuffix(name, snapshotExt)
}
