// Package diagfmt renders diagnostics for people (Pretty) and for tools
// (JSON).
package diagfmt

import (
	"path"
	"path/filepath"
	"strings"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows project paths as they are and cuts long absolute
	// paths down to the base name.
	PathModeAuto PathMode = iota
	// PathModeAbsolute joins project paths onto BaseDir.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Context is the number of source lines shown above the primary line.
	Context   int8
	PathMode  PathMode
	BaseDir   string
	ShowNotes bool
	// Max stops after that many diagnostics; 0 prints all.
	Max int
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col
	PathMode         PathMode
	BaseDir          string
	Max              int
	IncludeNotes     bool
}

const autoPathLimit = 48

func formatPath(p string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if base == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
			return p
		}
		return filepath.ToSlash(filepath.Join(base, p))
	case PathModeRelative:
		if base != "" {
			if r, err := filepath.Rel(base, p); err == nil && !strings.HasPrefix(r, "..") {
				return filepath.ToSlash(r)
			}
		}
		return p
	case PathModeBasename:
		return path.Base(filepath.ToSlash(p))
	}
	if strings.HasPrefix(p, "/") && len(p) > autoPathLimit {
		return path.Base(p)
	}
	return p
}
