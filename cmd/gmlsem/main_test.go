package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gmlsem/internal/diag"
	"gmlsem/internal/source"
)

func TestParsePosition(t *testing.T) {
	pos, err := parsePosition("12:7")
	if err != nil || pos.Line != 12 || pos.Col != 7 {
		t.Fatalf("parsePosition = %+v, %v", pos, err)
	}
	for _, bad := range []string{"12", "0:1", "a:b", "3:0", ""} {
		if _, err := parsePosition(bad); err == nil {
			t.Fatalf("parsePosition(%q) accepted", bad)
		}
	}
}

func TestOffsetOf(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("a.gml", []byte("var a = 1;\nreturn a;\n")))
	cases := []struct {
		pos  source.LineCol
		want uint32
	}{
		{source.LineCol{Line: 1, Col: 1}, 0},
		{source.LineCol{Line: 2, Col: 8}, 18},
		{source.LineCol{Line: 2, Col: 99}, 20},
		{source.LineCol{Line: 3, Col: 1}, 21},
	}
	for _, c := range cases {
		got, err := offsetOf(f, c.pos)
		if err != nil || got != c.want {
			t.Fatalf("offsetOf(%+v) = %d, %v; want %d", c.pos, got, err, c.want)
		}
	}
	if _, err := offsetOf(f, source.LineCol{Line: 9, Col: 1}); err == nil {
		t.Fatalf("line past the end accepted")
	}
}

func TestFilterDiagnostics(t *testing.T) {
	diags := []diag.Diagnostic{
		diag.NewWarning(diag.SemaUnresolvedSymbol, source.Span{}, "w"),
		diag.NewError(diag.SynUnexpectedToken, source.Span{}, "e"),
	}
	if got := filterDiagnostics(diags, diagOptions{noWarnings: true}); len(got) != 1 || got[0].Message != "e" {
		t.Fatalf("no-warnings = %v", got)
	}
	got := filterDiagnostics(diags, diagOptions{warningsAsErrors: true})
	if got[0].Severity != diag.SevError || diags[0].Severity != diag.SevWarning {
		t.Fatalf("warnings-as-errors = %v (input %v)", got, diags)
	}
	if s := summary(got); s != "2 error(s), 0 warning(s), 0 info" {
		t.Fatalf("summary = %q", s)
	}
}

// writeProject lays out a host project whose spec lookup falls back to the
// bundled spec and whose disk cache is off.
func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"Demo.yyp": `{"name":"Demo","resources":[
			{"id":{"name":"scr_a","path":"scripts/scr_a/scr_a.yy"}},
			{"id":{"name":"scr_b","path":"scripts/scr_b/scr_b.yy"}}
		],"Folders":[]}`,
		"scripts/scr_a/scr_a.yy":  `{"resourceType":"GMScript","name":"scr_a"}`,
		"scripts/scr_a/scr_a.gml": "function a_fn() {\n  return b_fn() + missing_fn();\n}\n",
		"scripts/scr_b/scr_b.yy":  `{"resourceType":"GMScript","name":"scr_b"}`,
		"scripts/scr_b/scr_b.gml": "function b_fn() { return 1; }\n",
		"gmlsem.toml":             "[runtime]\nsearch_paths = [\"" + filepath.ToSlash(filepath.Join(dir, "none")) + "\"]\n[cache]\ndir = \"-\"\n",
	}
	for name, text := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDiagCommand(t *testing.T) {
	dir := writeProject(t)
	out, err := run(t, "diag", "--color", "off", "--format", "short", dir)
	if err != nil {
		t.Fatalf("diag: %v\n%s", err, out)
	}
	if !strings.Contains(out, "warning SEM3001 scripts/scr_a/scr_a.gml:2:19") || !strings.Contains(out, "missing_fn") {
		t.Fatalf("unresolved warning missing:\n%s", out)
	}
	if strings.Contains(out, `"b_fn"`) {
		t.Fatalf("b_fn reported:\n%s", out)
	}
	if !strings.Contains(out, "PRJ5001") {
		t.Fatalf("fallback warning missing:\n%s", out)
	}

	_, err = run(t, "diag", "--color", "off", "--format", "short", "--warnings-as-errors", dir)
	if !errors.Is(err, errFindings) {
		t.Fatalf("warnings-as-errors: err = %v", err)
	}
	// flags persist on the shared command
	if err := diagCmd.Flags().Set("warnings-as-errors", "false"); err != nil {
		t.Fatalf("reset flag: %v", err)
	}
}

func TestRefsCommand(t *testing.T) {
	dir := writeProject(t)
	file := filepath.Join(dir, "scripts", "scr_b", "scr_b.gml")
	out, err := run(t, "refs", "--project", dir, file, "1:10")
	if err != nil {
		t.Fatalf("refs: %v\n%s", err, out)
	}
	if !strings.Contains(out, "b_fn") || !strings.Contains(out, "scripts/scr_a/scr_a.gml:2:10") {
		t.Fatalf("refs output:\n%s", out)
	}
}

func TestAddScriptCommand(t *testing.T) {
	dir := writeProject(t)
	out, err := run(t, "add", "script", "--project", dir, "Scripts/Utils/scr_new")
	if err != nil {
		t.Fatalf("add script: %v\n%s", err, out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "scripts", "scr_new", "scr_new.gml"))
	if err != nil || string(data) != "/// " {
		t.Fatalf("stub = %q, %v", data, err)
	}
	manifest, _ := os.ReadFile(filepath.Join(dir, "Demo.yyp"))
	if !bytes.Contains(manifest, []byte("folders/Scripts/Utils.yy")) {
		t.Fatalf("folder not in manifest:\n%s", manifest)
	}
	if _, err := run(t, "add", "script", "--project", dir, "Scripts/scr_a"); err == nil {
		t.Fatalf("duplicate name accepted")
	}
}
