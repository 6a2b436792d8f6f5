package project

import (
	"log/slog"

	"github.com/go-git/go-billy/v5"

	"gmlsem/internal/config"
	"gmlsem/internal/native"
)

// Progress is one step of Initialize. Increments of a full load add up to
// roughly 93: 5 for the manifest, 5 for the native spec, 80 spread over the
// assets and 1 per resolution phase.
type Progress struct {
	Increment float64
	Message   string
}

type ProgressFunc func(Progress)

type options struct {
	logger      *slog.Logger
	onDiag      []DiagnosticsFunc
	progress    ProgressFunc
	fs          billy.Filesystem
	runtime     string
	searchPaths []string
	specFS      billy.Filesystem
	specCache   *native.Cache
	cfg         *config.Config
	watch       bool
	workers     int
}

type Option func(*options)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOnDiagnostics subscribes fn before the first load so it sees every
// diagnostic Initialize emits.
func WithOnDiagnostics(fn DiagnosticsFunc) Option {
	return func(o *options) { o.onDiag = append(o.onDiag, fn) }
}

// WithProgress receives load progress. fn may be called from several
// goroutines, one call at a time.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

// WithFS opens the project on fsys instead of the host file system. The
// path given to Open is then resolved inside fsys.
func WithFS(fsys billy.Filesystem) Option {
	return func(o *options) { o.fs = fsys }
}

// WithRuntimeVersion pins the runtime whose GmlSpec.xml is loaded,
// overriding gmlsem.toml and stitch.config.json.
func WithRuntimeVersion(v string) Option {
	return func(o *options) { o.runtime = v }
}

// WithSearchPaths replaces the directories searched for runtime-<version>
// folders. fsys may be nil for the host file system.
func WithSearchPaths(fsys billy.Filesystem, paths ...string) Option {
	return func(o *options) {
		o.specFS = fsys
		o.searchPaths = paths
	}
}

// WithSpecCache shares a parsed-spec cache between projects.
func WithSpecCache(c *native.Cache) Option {
	return func(o *options) { o.specCache = c }
}

// WithConfig uses cfg instead of reading gmlsem.toml.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = &cfg }
}

// WithWatch reconciles and reloads files as they change on disk. Only
// projects opened on the host file system can be watched.
func WithWatch() Option {
	return func(o *options) { o.watch = true }
}

// WithWorkers bounds the number of assets loaded at once.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}
