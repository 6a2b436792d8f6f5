package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"gmlsem/internal/diag"
	"gmlsem/internal/source"
)

const tabWidth = 4

type palette struct {
	on      bool
	err     *color.Color
	warn    *color.Color
	info    *color.Color
	note    *color.Color
	gutter  *color.Color
	message *color.Color
}

func newPalette(on bool) palette {
	return palette{
		on:      on,
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		note:    color.New(color.FgBlue, color.Bold),
		gutter:  color.New(color.FgBlue),
		message: color.New(color.Bold),
	}
}

func (p palette) paint(c *color.Color, s string) string {
	if !p.on {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty writes diags in a human-readable form, in the order given:
//
//	scripts/a/a.gml:3:5: WARNING SEM3001: unresolved identifier "y"
//	   3 | x = y + 1;
//	     |     ^
//
// followed by the notes when ShowNotes is set. Carets account for wide
// characters and tabs.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range diags {
		if opts.Max > 0 && i >= opts.Max {
			fmt.Fprintf(w, "... %d more\n", len(diags)-i)
			return
		}
		sev := pal.paint(pal.severity(d.Severity), d.Severity.String())
		fmt.Fprintf(w, "%s: %s %s: %s\n", location(d.Primary, fs, opts), sev, d.Code.ID(), pal.paint(pal.message, d.Message))
		writeSnippet(w, d.Primary, fs, int(opts.Context), pal, pal.severity(d.Severity))
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s: %s: %s\n", pal.paint(pal.note, "note"), location(n.Span, fs, opts), n.Msg)
		}
	}
}

func location(sp source.Span, fs *source.FileSet, opts PrettyOpts) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

func writeSnippet(w io.Writer, sp source.Span, fs *source.FileSet, context int, pal palette, mark *color.Color) {
	f := fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	first := max(int(start.Line)-context, 1)
	digits := len(fmt.Sprint(start.Line))
	bar := pal.paint(pal.gutter, "|")
	for ln := first; ln <= int(start.Line); ln++ {
		num := pal.paint(pal.gutter, fmt.Sprintf("%*d", digits+2, ln))
		fmt.Fprintf(w, "%s %s %s\n", num, bar, expandTabs(f.GetLine(uint32(ln)))) // #nosec G115 -- ln <= start.Line
	}

	line := f.GetLine(start.Line)
	col := min(int(start.Col)-1, len(line))
	stop := len(line)
	if end.Line == start.Line {
		stop = min(max(int(end.Col)-1, col), len(line))
	}
	pad := runewidth.StringWidth(expandTabs(line[:col]))
	width := max(runewidth.StringWidth(expandTabs(line[col:stop])), 1)
	carets := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s %s%s\n", strings.Repeat(" ", digits+2), bar, strings.Repeat(" ", pad), pal.paint(mark, carets))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
