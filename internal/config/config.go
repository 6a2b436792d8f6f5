// Package config reads the per-project gmlsem.toml and the runtime pin of
// stitch.config.json.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"gmlsem/internal/diag"
	"gmlsem/internal/yy"
)

const (
	// FileName is the project configuration file.
	FileName = "gmlsem.toml"
	// StitchFileName carries a runtimeVersion pin shared with other tools.
	StitchFileName = "stitch.config.json"

	// CacheDisabled as cache.dir turns the on-disk spec cache off.
	CacheDisabled = "-"

	defaultMaxDiagnostics = 500
	defaultDebounce       = 100 * time.Millisecond
)

var (
	// ErrBadUnresolved indicates an unknown [diagnostics].unresolved value.
	ErrBadUnresolved = errors.New("diagnostics.unresolved must be \"error\", \"warning\", \"info\" or \"off\"")
	// ErrBadDebounce indicates a negative [watch].debounce_ms.
	ErrBadDebounce = errors.New("watch.debounce_ms must not be negative")
)

// Runtime selects the GameMaker runtime whose GmlSpec.xml is loaded.
type Runtime struct {
	Version     string   `toml:"version"`
	SearchPaths []string `toml:"search_paths"`
}

// Diagnostics tunes what the project reports.
type Diagnostics struct {
	Max        int    `toml:"max"`
	Unresolved string `toml:"unresolved"`
}

// Cache configures the on-disk native spec cache.
type Cache struct {
	Dir string `toml:"dir"`
}

// Watch configures the optional project watcher.
type Watch struct {
	DebounceMS int      `toml:"debounce_ms"`
	Ignore     []string `toml:"ignore"`
}

// Config is the decoded gmlsem.toml with defaults applied.
type Config struct {
	Runtime     Runtime     `toml:"runtime"`
	Diagnostics Diagnostics `toml:"diagnostics"`
	Cache       Cache       `toml:"cache"`
	Watch       Watch       `toml:"watch"`

	// Path is the file the config came from, empty when defaults are used.
	Path string `toml:"-"`
	// VersionSource names where Runtime.Version came from.
	VersionSource string `toml:"-"`
	// Undecoded lists keys present in the file that gmlsem does not know.
	Undecoded []string `toml:"-"`
}

// Default returns the configuration used when no gmlsem.toml exists.
func Default() Config {
	return Config{
		Diagnostics: Diagnostics{Max: defaultMaxDiagnostics, Unresolved: "warning"},
		Watch:       Watch{DebounceMS: int(defaultDebounce / time.Millisecond)},
	}
}

// Load reads dir/gmlsem.toml and dir/stitch.config.json from fsys. Missing
// files are not an error.
func Load(fsys billy.Filesystem, dir string) (Config, error) {
	cfg := Default()
	name := path.Join(dir, FileName)
	data, err := util.ReadFile(fsys, name)
	switch {
	case err == nil:
		if err := cfg.decode(name, data); err != nil {
			return Config{}, err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("%s: %w", name, err)
	}
	if cfg.Runtime.Version == "" {
		v, err := stitchVersion(fsys, path.Join(dir, StitchFileName))
		if err != nil {
			return Config{}, err
		}
		if v != "" {
			cfg.Runtime.Version = v
			cfg.VersionSource = StitchFileName
		}
	}
	return cfg, nil
}

// Parse decodes a gmlsem.toml document on top of the defaults.
func Parse(name string, data []byte) (Config, error) {
	cfg := Default()
	if err := cfg.decode(name, data); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decode(name string, data []byte) error {
	meta, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	c.Path = name
	if meta.IsDefined("runtime", "version") {
		c.Runtime.Version = strings.TrimSpace(c.Runtime.Version)
		if c.Runtime.Version != "" {
			c.VersionSource = FileName
		}
	}
	if meta.IsDefined("diagnostics", "unresolved") {
		c.Diagnostics.Unresolved = strings.ToLower(strings.TrimSpace(c.Diagnostics.Unresolved))
		if _, _, err := parseUnresolved(c.Diagnostics.Unresolved); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if meta.IsDefined("diagnostics", "max") && c.Diagnostics.Max < 0 {
		c.Diagnostics.Max = 0
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("%s: %w", name, ErrBadDebounce)
	}
	for _, k := range meta.Undecoded() {
		c.Undecoded = append(c.Undecoded, k.String())
	}
	return nil
}

func stitchVersion(fsys billy.Filesystem, name string) (string, error) {
	var pin struct {
		RuntimeVersion string `json:"runtimeVersion"`
	}
	data, err := util.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	if err := yy.Unmarshal(data, &pin); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(pin.RuntimeVersion), nil
}

// UnresolvedSeverity reports the severity of unresolved-identifier
// diagnostics; ok is false when they are turned off.
func (d Diagnostics) UnresolvedSeverity() (sev diag.Severity, ok bool) {
	sev, ok, err := parseUnresolved(d.Unresolved)
	if err != nil {
		return diag.SevWarning, true
	}
	return sev, ok
}

func parseUnresolved(s string) (diag.Severity, bool, error) {
	switch s {
	case "", "warning":
		return diag.SevWarning, true, nil
	case "error":
		return diag.SevError, true, nil
	case "info":
		return diag.SevInfo, true, nil
	case "off":
		return 0, false, nil
	}
	return 0, false, ErrBadUnresolved
}

// Debounce is the watcher's quiet period.
func (w Watch) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// CacheDir reports the on-disk cache directory; ok is false when the cache
// is disabled. An empty dir means the user cache directory.
func (c Cache) CacheDir() (dir string, ok bool) {
	if strings.TrimSpace(c.Dir) == CacheDisabled {
		return "", false
	}
	return c.Dir, true
}
