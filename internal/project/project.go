// Package project is the aggregate of a GameMaker project: it loads the
// manifest, the native spec and every asset, runs the two resolver passes
// over all code, and keeps the model current as files and the manifest
// change.
package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"gmlsem/internal/config"
	"gmlsem/internal/diag"
	"gmlsem/internal/native"
	"gmlsem/internal/observ"
	"gmlsem/internal/source"
	"gmlsem/internal/symbols"
	"gmlsem/internal/watch"
	"gmlsem/internal/yy"
)

var (
	// ErrNoManifest indicates that no .yyp file was found.
	ErrNoManifest = errors.New("no .yyp manifest found")
	// ErrManyManifests indicates a directory with more than one .yyp file.
	ErrManyManifests = errors.New("more than one .yyp manifest")
	// ErrNameCollision indicates a new resource would reuse an asset name.
	ErrNameCollision = errors.New("an asset with that name already exists")
	// ErrRootResource indicates a new resource path without a folder.
	ErrRootResource = errors.New("resources cannot be added to the root folder")
	// ErrInvalidDiagnostic indicates a diagnostic without a valid location.
	ErrInvalidDiagnostic = errors.New("invalid diagnostic")
	// ErrDuplicateAsset indicates two manifest entries with the same name.
	ErrDuplicateAsset = errors.New("duplicate asset")
	// ErrUnknownResourceKind indicates a kind AddResource cannot create.
	ErrUnknownResourceKind = errors.New("unknown resource kind")
	// ErrUnknownFile indicates a path that is not a GML file of the project.
	ErrUnknownFile = errors.New("not a code file of the project")
	// ErrClosed indicates use of a closed project.
	ErrClosed = errors.New("project is closed")
)

// Project owns every piece of semantic state of one GameMaker project.
// A single mutex serialises all operations and queries, so no two resolver
// passes ever interleave.
type Project struct {
	mu sync.Mutex

	fs           billy.Filesystem // rooted at the project directory
	hostDir      string           // set when fs is the host file system
	manifestPath string
	manifest     *yy.Project
	manifestID   source.FileID
	identity     Digest

	cfg  config.Config
	opts options
	log  *slog.Logger

	files   *source.FileSet
	global  *symbols.GlobalSelf
	natives *symbols.Registry
	types   *symbols.Registry
	env     *symbols.Env
	native  *native.Native
	cache   *native.Cache

	assets      map[string]*Asset
	codes       map[source.FileID]*Code
	audioGroups map[string]*symbols.Signifier

	dirty   map[*Code]struct{}
	pending map[*Code]struct{}
	// rediscover holds queued files that must run pass 1 again.
	rediscover map[*Code]struct{}

	// manifestDiags are project-level diagnostics located in the manifest.
	manifestDiags []diag.Diagnostic
	unresolvedSev diag.Severity
	unresolvedOn  bool

	subMu   sync.Mutex
	subs    []subscriber
	nextSub int

	progMu sync.Mutex
	timer  *observ.Timer

	watcher *watch.Watcher
	cancel  context.CancelFunc
	closed  bool
}

// Open loads the project at p: a .yyp file, or a directory holding exactly
// one. The project is fully initialised on return.
func Open(ctx context.Context, p string, opts ...Option) (*Project, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	fsys, hostDir, manifest, err := rootFS(o.fs, p)
	if err != nil {
		return nil, err
	}
	if manifest == "" {
		if manifest, err = findManifest(fsys); err != nil {
			return nil, err
		}
	} else if _, err := fsys.Stat(manifest); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", manifest, ErrNoManifest)
		}
		return nil, err
	}

	proj := newProject(fsys, hostDir, manifest, o)
	if err := proj.loadConfig(); err != nil {
		return nil, err
	}
	if err := proj.Initialize(ctx); err != nil {
		return nil, err
	}
	if o.watch {
		if err := proj.startWatch(); err != nil {
			proj.Close()
			return nil, err
		}
	}
	return proj, nil
}

// rootFS returns fsys rooted at the project directory and the manifest
// file name when p names one.
func rootFS(fsys billy.Filesystem, p string) (billy.Filesystem, string, string, error) {
	var manifest string
	if fsys == nil {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, "", "", err
		}
		dir := abs
		if strings.EqualFold(filepath.Ext(abs), ".yyp") {
			dir, manifest = filepath.Dir(abs), filepath.Base(abs)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, "", "", fmt.Errorf("%s: %w", p, ErrNoManifest)
		}
		return osfs.New(dir), dir, manifest, nil
	}
	dir := path.Clean(filepath.ToSlash(p))
	if strings.EqualFold(path.Ext(dir), ".yyp") {
		dir, manifest = path.Dir(dir), path.Base(dir)
	}
	if dir == "." || dir == "/" || dir == "" {
		return fsys, "", manifest, nil
	}
	rooted, err := fsys.Chroot(dir)
	if err != nil {
		return nil, "", "", err
	}
	return rooted, "", manifest, nil
}

func newProject(fsys billy.Filesystem, hostDir, manifest string, o options) *Project {
	log := o.logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	p := &Project{
		fs:           fsys,
		hostDir:      hostDir,
		manifestPath: manifest,
		opts:         o,
		log:          log.With("project", manifest),
		cfg:          config.Default(),
	}
	for _, fn := range o.onDiag {
		p.OnDiagnostics(fn)
	}
	p.reset()
	return p
}

// reset drops all semantic state. Subscribers are kept.
func (p *Project) reset() {
	p.files = source.NewFileSet()
	p.natives = symbols.NewRegistry(nil)
	p.types = symbols.NewRegistry(p.natives)
	p.global = symbols.NewGlobalSelf()
	p.assets = make(map[string]*Asset)
	p.codes = make(map[source.FileID]*Code)
	p.audioGroups = make(map[string]*symbols.Signifier)
	p.dirty = make(map[*Code]struct{})
	p.pending = nil
	p.rediscover = make(map[*Code]struct{})
	p.manifestDiags = nil
	p.manifestID = source.NoFileID
	p.identity = Digest{}
	p.native = nil
	p.env = &symbols.Env{Global: p.global, Types: p.types, Object: p.objectSelf}
}

func (p *Project) loadConfig() error {
	if p.opts.cfg != nil {
		p.cfg = *p.opts.cfg
	} else {
		cfg, err := config.Load(p.fs, ".")
		if err != nil {
			return err
		}
		p.cfg = cfg
		for _, k := range cfg.Undecoded {
			p.log.Warn("unknown configuration key", "file", cfg.Path, "key", k)
		}
	}
	p.unresolvedSev, p.unresolvedOn = p.cfg.Diagnostics.UnresolvedSeverity()
	p.cache = p.opts.specCache
	if p.cache == nil {
		var disk *native.DiskCache
		if dir, ok := p.cfg.Cache.CacheDir(); ok && p.hostDir != "" {
			d, err := native.OpenDiskCache(dir, "gmlsem")
			if err != nil {
				p.log.Warn("spec disk cache unavailable", "err", err)
			} else {
				disk = d
			}
		}
		p.cache = native.NewCache(0, disk)
	}
	return nil
}

func (p *Project) objectSelf(name string) *symbols.InstanceSelf {
	a := p.assets[foldName(name)]
	if a == nil {
		return nil
	}
	return a.Self
}

func (p *Project) startWatch() error {
	if p.hostDir == "" {
		return errors.New("watching needs a project on the host file system")
	}
	w, err := watch.New(watch.Config{
		Root:     p.hostDir,
		Exclude:  watchExclude(p.cfg.Watch.Ignore),
		Debounce: p.cfg.Watch.Debounce(),
	})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx, func(ev watch.Event) { p.onFileEvent(ctx, ev) }); err != nil {
		cancel()
		return err
	}
	p.mu.Lock()
	p.watcher, p.cancel = w, cancel
	p.mu.Unlock()
	p.log.Info("watching project", "dir", p.hostDir)
	return nil
}

func watchExclude(extra []string) []string {
	if len(extra) == 0 {
		return nil
	}
	return append(append([]string(nil), watch.DefaultExclude...), extra...)
}

func (p *Project) onFileEvent(ctx context.Context, ev watch.Event) {
	log := p.log.With("path", ev.Path, "op", ev.Op.String())
	if strings.EqualFold(path.Ext(ev.Path), ".yyp") {
		if err := p.Reconcile(ctx); err != nil {
			log.Error("reconcile failed", "err", err)
		}
		return
	}
	if ev.Op == watch.OpRemove {
		if err := p.RemoveFile(ev.Path); err != nil && !errors.Is(err, ErrUnknownFile) {
			log.Error("remove failed", "err", err)
		}
		return
	}
	data, err := readText(p.fs, ev.Path)
	if err != nil {
		log.Warn("read failed", "err", err)
		return
	}
	if err := p.ReloadFile(ev.Path, data); err != nil && !errors.Is(err, ErrUnknownFile) {
		log.Error("reload failed", "err", err)
	}
}

// Close stops the watcher, if any. Queries keep working; mutations fail
// with ErrClosed.
func (p *Project) Close() error {
	p.mu.Lock()
	w, cancel := p.watcher, p.cancel
	p.watcher, p.cancel = nil, nil
	p.closed = true
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if w != nil {
		return w.Stop()
	}
	return nil
}

// Dir is the host directory of the project, empty for in-memory projects.
func (p *Project) Dir() string { return p.hostDir }

// ManifestPath is the manifest file name relative to the project directory.
func (p *Project) ManifestPath() string { return p.manifestPath }

// FileSet holds the text of every file the project registered.
func (p *Project) FileSet() *source.FileSet { return p.files }

func (p *Project) Config() config.Config { return p.cfg }

// Global is the global self context.
func (p *Project) Global() *symbols.GlobalSelf { return p.global }

// Native summarises the loaded runtime spec.
func (p *Project) Native() *native.Native { return p.native }

// Timings reports the phases of the last Initialize or Reconcile.
func (p *Project) Timings() observ.Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer == nil {
		return observ.Report{}
	}
	return p.timer.Report()
}

// rel turns a host or project path into the project-relative slash form
// used as FileSet key.
func (p *Project) rel(name string) string {
	if p.hostDir != "" && filepath.IsAbs(name) {
		if r, err := filepath.Rel(p.hostDir, name); err == nil {
			name = r
		}
	}
	name = path.Clean(strings.ReplaceAll(filepath.ToSlash(name), "\\", "/"))
	return strings.TrimPrefix(name, "/")
}
