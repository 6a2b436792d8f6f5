package native

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// SpecFileName is the runtime's language definition file.
const SpecFileName = "GmlSpec.xml"

//go:embed GmlSpec.xml
var bundledSpec []byte

// SpecFile is one spec document ready to load.
type SpecFile struct {
	Path string
	Data []byte
	// Fallback is set for the bundled spec, used when no runtime matched.
	Fallback bool
	// Version is the runtime version the file came from, if known.
	Version string
}

type ListOptions struct {
	// RuntimeVersion pins a runtime, e.g. "2024.2.0.163". Empty picks the
	// newest runtime found.
	RuntimeVersion string
	// SearchPaths are directories holding runtime-<version> folders.
	// Empty uses DefaultSearchPaths.
	SearchPaths []string
	// FS is the file system the search paths live on; nil means the host.
	FS billy.Filesystem
}

// DefaultSearchPaths returns where GameMaker caches downloaded runtimes on
// this platform.
func DefaultSearchPaths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{filepath.Join(os.Getenv("ProgramData"), "GameMakerStudio2", "Cache", "runtimes")}
	case "darwin":
		return []string{"/Users/Shared/GameMakerStudio2/Cache/runtimes"}
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		return []string{filepath.Join(home, ".local", "share", "GameMakerStudio2", "Cache", "runtimes")}
	}
}

// ListSpecFiles finds the spec files of the requested runtime. When no
// runtime matches, the bundled spec is returned with Fallback set; an error
// is returned only when a matching file exists but cannot be read.
func ListSpecFiles(opts ListOptions) ([]SpecFile, error) {
	fs := opts.FS
	if fs == nil {
		fs = osfs.New("/")
	}
	paths := opts.SearchPaths
	if len(paths) == 0 {
		paths = DefaultSearchPaths()
	}
	for _, dir := range paths {
		version := opts.RuntimeVersion
		if version == "" {
			version = newestRuntime(fs, hostPath(dir))
			if version == "" {
				continue
			}
		}
		p := path.Join(hostPath(dir), "runtime-"+version, SpecFileName)
		data, err := util.ReadFile(fs, p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		return []SpecFile{{Path: p, Data: data, Version: version}}, nil
	}
	return []SpecFile{Bundled()}, nil
}

// Bundled returns the spec compiled into the binary.
func Bundled() SpecFile {
	return SpecFile{Path: "<bundled>/" + SpecFileName, Data: bundledSpec, Fallback: true}
}

func newestRuntime(fs billy.Filesystem, dir string) string {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return ""
	}
	var versions []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if v, ok := strings.CutPrefix(e.Name(), "runtime-"); ok && v != "" {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return ""
	}
	sort.Slice(versions, func(i, j int) bool { return versionLess(versions[i], versions[j]) })
	return versions[len(versions)-1]
}

// versionLess compares dotted versions numerically, falling back to a
// string comparison for non-numeric parts.
func versionLess(a, b string) bool {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			return an < bn
		}
		return as[i] < bs[i]
	}
	return len(as) < len(bs)
}

// hostPath turns a host path into the slash form billy expects.
func hostPath(p string) string {
	return filepath.ToSlash(p)
}
