package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"gmlsem/internal/diag"
	"gmlsem/internal/source"
)

func sample(t *testing.T, path, content string, start, end uint32) (*source.FileSet, []diag.Diagnostic) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(content))
	d := diag.NewWarning(diag.SemaUnresolvedSymbol, source.Span{File: id, Start: start, End: end}, `unresolved identifier "speed_max"`)
	return fs, []diag.Diagnostic{d}
}

func TestPathModes(t *testing.T) {
	fs, diags := sample(t, "scripts/scr_move/scr_move.gml", "x += speed_max;\n", 5, 14)
	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/game/scripts/scr_move/scr_move.gml:1:6"},
		{"Relative path", PathModeRelative, "scripts/scr_move/scr_move.gml:1:6"},
		{"Basename only", PathModeBasename, " scr_move.gml:1:6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, diags, fs, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/game"})
			out := buf.String()
			if !strings.Contains(" "+out, tt.want) {
				t.Fatalf("output lacks %q:\n%s", tt.want, out)
			}
			for _, want := range []string{"WARNING", "SEM3001", "speed_max"} {
				if !strings.Contains(out, want) {
					t.Fatalf("output lacks %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestPathModeAuto(t *testing.T) {
	long := "/very/long/absolute/path/to/some/nested/directory/scripts/a/a.gml"
	if got := formatPath(long, PathModeAuto, ""); got != "a.gml" {
		t.Fatalf("long path = %q", got)
	}
	if got := formatPath("scripts/a/a.gml", PathModeAuto, ""); got != "scripts/a/a.gml" {
		t.Fatalf("project path = %q", got)
	}
}

func TestPrettyCarets(t *testing.T) {
	fs, diags := sample(t, "a.gml", "var a = 1;\n\tx += speed_max;\n", 17, 26)
	var buf bytes.Buffer
	Pretty(&buf, diags, fs, PrettyOpts{Context: 1})
	want := "a.gml:2:7: WARNING SEM3001: unresolved identifier \"speed_max\"\n" +
		"  1 | var a = 1;\n" +
		"  2 |     x += speed_max;\n" +
		"    |          ^~~~~~~~~\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyWideCharacters(t *testing.T) {
	src := "s = \"日本\" + nope;\n"
	start := uint32(strings.Index(src, "nope"))
	fs, diags := sample(t, "a.gml", src, start, start+4)
	var buf bytes.Buffer
	Pretty(&buf, diags, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	// "s = "日本" + " is 13 columns wide
	if lines[2] != "    | "+strings.Repeat(" ", 13)+"^~~~" {
		t.Fatalf("caret line = %q", lines[2])
	}
}

func TestPrettyNotesAndMax(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("scripts/a/a.gml", []byte("function f() {}\n"))
	b := fs.AddVirtual("scripts/b/b.gml", []byte("function f() {}\n"))
	d := diag.NewWarning(diag.SemaDuplicateGlobal, source.Span{File: b, Start: 9, End: 10}, `function "f" is already declared in another file`).
		WithNote(source.Span{File: a, Start: 9, End: 10}, "previous declaration here")
	diags := []diag.Diagnostic{d, d, d}

	var buf bytes.Buffer
	Pretty(&buf, diags, fs, PrettyOpts{ShowNotes: true, Max: 1})
	out := buf.String()
	if !strings.Contains(out, "note: scripts/a/a.gml:1:10: previous declaration here") {
		t.Fatalf("note missing:\n%s", out)
	}
	if !strings.HasSuffix(out, "... 2 more\n") {
		t.Fatalf("max not applied:\n%s", out)
	}
}

func TestPrettyColor(t *testing.T) {
	fs, diags := sample(t, "a.gml", "x = nope;\n", 4, 8)
	var plain, colored bytes.Buffer
	Pretty(&plain, diags, fs, PrettyOpts{})
	Pretty(&colored, diags, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escapes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes")
	}
}
