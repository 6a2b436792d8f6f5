package source

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"
)

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// buildLineIndex stores the offset of every '\n'. A preceding '\r' stays
// part of the previous line so offsets match the editor buffer byte for byte.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- bounded by FileSet.Add
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// number of newlines strictly before off == 0-based line
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line + 1), Col: off - startOff + 1} // #nosec G115
}

// NormalizePath gives every path one spelling: forward slashes, cleaned.
func NormalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// PathKey is the lookup key for a path. GameMaker projects are authored on
// case-insensitive file systems, so lookups ignore case.
func PathKey(p string) string {
	return strings.ToLower(NormalizePath(p))
}
