// Package watcher provides file system watching for the sync-on-save
// daemon.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"docbridge/internal/domain"
)

// defaultDebounce coalesces editor write bursts (temp-file swaps, double
// saves) into a single event per file.
const defaultDebounce = 500 * time.Millisecond

// Event reports one modified markdown file, vault-relative with "/"
// separators.
type Event struct {
	Path string
}

// Watcher watches a vault recursively and emits debounced events for
// markdown writes. New subdirectories are picked up as they appear.
type Watcher struct {
	watcher  *fsnotify.Watcher
	events   chan Event
	errors   chan error
	done     chan struct{}
	wg       sync.WaitGroup
	root     string
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	running bool
}

// New creates a watcher for the vault rooted at root. The watcher must be
// started with Start before it emits events.
func New(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		watcher:  fsw,
		events:   make(chan Event, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
		root:     root,
		debounce: defaultDebounce,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Start begins watching the vault tree.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if err := w.addRecursive(w.root); err != nil {
		return err
	}
	w.running = true
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop stops the watcher. Pending debounce timers are cancelled; the
// event channels stay open but go quiet.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	for _, t := range w.pending {
		t.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	w.watcher.Close()
	w.wg.Wait()
}

// Events returns the channel of debounced markdown write events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(event.Name), ".") {
				w.addRecursive(event.Name)
			}
			return
		}
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return
	}
	if !strings.HasSuffix(strings.ToLower(event.Name), domain.MarkdownExt) {
		return
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	w.schedule(filepath.ToSlash(rel))
}

// schedule arms (or re-arms) the debounce timer for one file.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		running := w.running
		w.mu.Unlock()
		if !running {
			return
		}
		select {
		case w.events <- Event{Path: path}:
		case <-w.done:
		}
	})
}
