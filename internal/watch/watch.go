// Package watch reports changes to a project's manifest and GML files. It
// wraps fsnotify with recursive directory watching, glob filtering and a
// per-path debounce.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// DefaultDebounce is the quiet period applied when Config.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

var (
	// ErrRootNotDirectory indicates the watch root is missing or a file.
	ErrRootNotDirectory = errors.New("watch root is not a directory")
	// ErrInvalidPattern indicates an include or exclude glob did not compile.
	ErrInvalidPattern = errors.New("invalid watch pattern")
)

// DefaultInclude matches the files a GameMaker project's code lives in.
var DefaultInclude = []string{"*.yyp", "scripts/*/*.gml", "objects/*/*.gml"}

// DefaultExclude skips directories that never hold code.
var DefaultExclude = []string{".git", ".git/**", "sprites/**", "sounds/**", "rooms/**", "tilesets/**", "fonts/**"}

type Op uint8

const (
	OpWrite Op = iota
	OpCreate
	OpRemove
)

func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	}
	return "write"
}

// Event is one debounced change. Path is slash-separated and relative to
// the watch root.
type Event struct {
	Path string
	Op   Op
}

type Config struct {
	Root     string
	Include  []string
	Exclude  []string
	Debounce time.Duration
}

// Watcher delivers Events to a handler one at a time. Events that become
// ready while the handler is busy wait in a queue where later changes to
// the same path replace earlier ones, so no path is ever dropped.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	include  []glob.Glob
	exclude  []glob.Glob
	mu       sync.Mutex
	pending  map[string]*time.Timer
	ready    []Event
	wake     chan struct{}
	quit     chan struct{}
	stopped  bool
	stopOnce sync.Once
	done     chan struct{}
}

func New(cfg Config) (*Watcher, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil || !info.IsDir() {
		return nil, ErrRootNotDirectory
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if len(cfg.Include) == 0 {
		cfg.Include = DefaultInclude
	}
	if cfg.Exclude == nil {
		cfg.Exclude = DefaultExclude
	}
	include, err := compile(cfg.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compile(cfg.Exclude)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		cfg:     cfg,
		fsw:     fsw,
		include: include,
		exclude: exclude,
		pending: make(map[string]*time.Timer),
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

func compile(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.Join(ErrInvalidPattern, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Start watches the root and calls handle for every debounced event until
// ctx is done or Stop is called. handle runs on a single goroutine.
func (w *Watcher) Start(ctx context.Context, handle func(Event)) error {
	if err := w.addTree(w.cfg.Root); err != nil {
		return err
	}
	go w.loop(ctx)
	go func() {
		defer close(w.done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.quit:
				return
			case <-w.wake:
				for _, ev := range w.take() {
					if ctx.Err() != nil || w.isStopped() {
						return
					}
					handle(ev)
				}
			}
		}
	}()
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != w.cfg.Root && w.excluded(w.rel(p)) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	rel := w.rel(ev.Name)
	if w.excluded(rel) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addTree(ev.Name)
			return
		}
	}
	if !w.included(rel) {
		return
	}
	op := OpWrite
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		op = OpRemove
	case ev.Has(fsnotify.Create):
		op = OpCreate
	}
	w.schedule(Event{Path: rel, Op: op})
}

// schedule restarts the path's debounce timer; the last event wins.
func (w *Watcher) schedule(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.pending[ev.Path]; ok {
		t.Stop()
	}
	w.pending[ev.Path] = time.AfterFunc(w.cfg.Debounce, func() { w.emit(ev) })
}

func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	delete(w.pending, ev.Path)
	w.enqueue(ev)
}

// enqueue adds ev to the ready queue and wakes the handler. A path already
// waiting keeps its place and takes the newer Op. The caller holds mu.
func (w *Watcher) enqueue(ev Event) {
	for i := range w.ready {
		if w.ready[i].Path == ev.Path {
			w.ready[i].Op = ev.Op
			return
		}
	}
	w.ready = append(w.ready, ev)
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// take empties the ready queue.
func (w *Watcher) take() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.ready
	w.ready = nil
	return out
}

func (w *Watcher) isStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

func (w *Watcher) rel(p string) string {
	r, err := filepath.Rel(w.cfg.Root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(r)
}

func (w *Watcher) included(rel string) bool {
	return matchAny(w.include, rel)
}

func (w *Watcher) excluded(rel string) bool {
	return matchAny(w.exclude, rel)
}

func matchAny(globs []glob.Glob, rel string) bool {
	for _, g := range globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Stop ends watching and cancels pending events. Safe to call repeatedly.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		for _, t := range w.pending {
			t.Stop()
		}
		w.pending = nil
		w.ready = nil
		w.mu.Unlock()
		err = w.fsw.Close()
		close(w.quit)
	})
	return err
}

// Done is closed once the handler goroutine has returned.
func (w *Watcher) Done() <-chan struct{} { return w.done }
