package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestPatterns(t *testing.T) {
	w, err := New(Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Stop()
	tests := []struct {
		path     string
		included bool
		excluded bool
	}{
		{"Game.yyp", true, false},
		{"scripts/scr_a/scr_a.gml", true, false},
		{"objects/o_player/Step_0.gml", true, false},
		{"scripts/scr_a/scr_a.yy", false, false},
		{"sprites/spr_a/spr_a.png", false, true},
		{".git/HEAD", false, true},
	}
	for _, tt := range tests {
		if got := w.included(tt.path); got != tt.included {
			t.Fatalf("included(%q) = %v, want %v", tt.path, got, tt.included)
		}
		if got := w.excluded(tt.path); got != tt.excluded {
			t.Fatalf("excluded(%q) = %v, want %v", tt.path, got, tt.excluded)
		}
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(Config{Root: filepath.Join(t.TempDir(), "missing")}); !errors.Is(err, ErrRootNotDirectory) {
		t.Fatalf("missing root: err = %v", err)
	}
	if _, err := New(Config{Root: t.TempDir(), Include: []string{"[unclosed"}}); !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("bad pattern: err = %v", err)
	}
}

func TestDebounceKeepsLastEvent(t *testing.T) {
	root := t.TempDir()
	w, err := New(Config{Root: root, Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Stop()
	name := filepath.Join(root, "scripts", "scr_a", "scr_a.gml")
	w.handle(fsnotify.Event{Name: name, Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: name, Op: fsnotify.Remove})
	w.handle(fsnotify.Event{Name: filepath.Join(root, "sprites", "x.png"), Op: fsnotify.Write})

	select {
	case <-w.wake:
	case <-time.After(2 * time.Second):
		t.Fatalf("no event delivered")
	}
	time.Sleep(100 * time.Millisecond)
	evs := w.take()
	if len(evs) != 1 || evs[0].Path != "scripts/scr_a/scr_a.gml" || evs[0].Op != OpRemove {
		t.Fatalf("events = %+v", evs)
	}
}

func TestReadyQueueCoalescesPaths(t *testing.T) {
	w, err := New(Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Stop()
	w.mu.Lock()
	w.enqueue(Event{Path: "a.gml", Op: OpCreate})
	w.enqueue(Event{Path: "b.gml", Op: OpWrite})
	w.enqueue(Event{Path: "a.gml", Op: OpRemove})
	w.mu.Unlock()
	evs := w.take()
	want := []Event{{Path: "a.gml", Op: OpRemove}, {Path: "b.gml", Op: OpWrite}}
	if len(evs) != len(want) || evs[0] != want[0] || evs[1] != want[1] {
		t.Fatalf("ready = %+v, want %+v", evs, want)
	}
	if rest := w.take(); len(rest) != 0 {
		t.Fatalf("queue not emptied: %+v", rest)
	}
}

func TestBurstReachesSlowHandler(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "scripts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	w, err := New(Config{Root: root, Include: []string{"scripts/*.gml"}, Debounce: 5 * time.Millisecond})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Stop()

	const files = 200
	var mu sync.Mutex
	seen := make(map[string]bool)
	all := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err = w.Start(ctx, func(ev Event) {
		time.Sleep(2 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		seen[ev.Path] = true
		if len(seen) == files {
			close(all)
		}
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < files; i++ {
		name := filepath.Join(dir, fmt.Sprintf("scr_%03d.gml", i))
		if err := os.WriteFile(name, []byte("x = 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-all:
	case <-time.After(20 * time.Second):
		mu.Lock()
		defer mu.Unlock()
		t.Fatalf("delivered %d of %d paths", len(seen), files)
	}
}

func TestStartDeliversFileChanges(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "scripts", "scr_a")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	w, err := New(Config{Root: root, Debounce: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got := make(chan Event, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx, func(ev Event) { got <- ev }); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scr_a.gml"), []byte("x = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-got:
		if ev.Path != "scripts/scr_a/scr_a.gml" {
			t.Fatalf("event path = %q", ev.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no event for written file")
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
