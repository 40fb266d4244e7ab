package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const waitTimeout = 3 * time.Second

func newTestWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	w, err := New(root)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w.debounce = 50 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestWatcher_MarkdownWrite(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root)

	if err := os.WriteFile(filepath.Join(root, "note.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	ev := waitEvent(t, w)
	if ev.Path != "note.md" {
		t.Errorf("event path = %q, want note.md", ev.Path)
	}
}

func TestWatcher_IgnoresNonMarkdown(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root)

	os.WriteFile(filepath.Join(root, "image.png"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(root, "note.md"), []byte("x"), 0644)

	ev := waitEvent(t, w)
	if ev.Path != "note.md" {
		t.Errorf("event path = %q, the png must not produce an event", ev.Path)
	}
}

func TestWatcher_DebounceCoalescesBursts(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root)

	file := filepath.Join(root, "note.md")
	for i := 0; i < 5; i++ {
		os.WriteFile(file, []byte("x"), 0644)
		time.Sleep(10 * time.Millisecond)
	}

	waitEvent(t, w)
	select {
	case ev := <-w.Events():
		t.Errorf("burst produced a second event: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_PicksUpNewSubdirectories(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root)

	sub := filepath.Join(root, "notes")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a moment to register the new directory.
	time.Sleep(200 * time.Millisecond)
	os.WriteFile(filepath.Join(sub, "a.md"), []byte("x"), 0644)

	ev := waitEvent(t, w)
	if ev.Path != "notes/a.md" {
		t.Errorf("event path = %q, want notes/a.md", ev.Path)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}
