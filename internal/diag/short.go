package diag

import (
	"fmt"
	"strings"

	"gmlsem/internal/source"
)

// FormatShort renders one line per diagnostic:
//
//	warning SEM3001 scripts/a/a.gml:3:5 unresolved identifier "x"
//
// Notes follow their diagnostic when includeNotes is set. Lines keep the
// order of diags; sort first for stable output.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	var b strings.Builder
	for _, d := range diags {
		writeShort(&b, fs, d.Severity.Label(), d.Code, d.Primary, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			writeShort(&b, fs, "note", d.Code, n.Span, n.Msg)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeShort(b *strings.Builder, fs *source.FileSet, label string, code Code, sp source.Span, msg string) {
	path := "<unknown>"
	var pos source.LineCol
	if f := fs.Get(sp.File); f != nil {
		path = f.Path
		pos, _ = fs.Resolve(sp)
	}
	msg = strings.ReplaceAll(msg, "\n", " ")
	fmt.Fprintf(b, "%s %s %s:%d:%d %s\n", label, code.ID(), path, pos.Line, pos.Col, msg)
}
