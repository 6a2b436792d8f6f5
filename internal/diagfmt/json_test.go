package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"gmlsem/internal/diag"
	"gmlsem/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs, diags := sample(t, "scripts/scr_move/scr_move.gml", "x += 1;\ny = speed_max;\n", 12, 21)
	var buf bytes.Buffer
	if err := JSON(&buf, diags, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || out.Total != 1 {
		t.Fatalf("count=%d total=%d", out.Count, out.Total)
	}
	d := out.Diagnostics[0]
	if d.Severity != "WARNING" || d.Code != "SEM3001" {
		t.Fatalf("diagnostic = %+v", d)
	}
	loc := d.Location
	if loc.File != "scripts/scr_move/scr_move.gml" || loc.StartLine != 2 || loc.StartCol != 5 || loc.EndCol != 14 {
		t.Fatalf("location = %+v", loc)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs, diags := sample(t, "a.gml", "x = nope;\n", 4, 8)
	out := BuildDiagnosticsOutput(diags, fs, JSONOpts{})
	loc := out.Diagnostics[0].Location
	if loc.StartLine != 0 || loc.StartByte != 4 || loc.EndByte != 8 {
		t.Fatalf("location = %+v", loc)
	}
	raw, _ := json.Marshal(loc)
	if bytes.Contains(raw, []byte("start_line")) {
		t.Fatalf("positions leaked: %s", raw)
	}
}

func TestJSONNotesAndMax(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.gml", []byte("enum E { A, A }\n"))
	d := diag.NewWarning(diag.SemaDuplicateDeclaration, source.Span{File: id, Start: 12, End: 13}, "enum member \"A\" is declared twice").
		WithNote(source.Span{File: id, Start: 9, End: 10}, "previous declaration here")
	diags := []diag.Diagnostic{d, d, d}

	out := BuildDiagnosticsOutput(diags, fs, JSONOpts{Max: 2})
	if out.Count != 2 || out.Total != 3 || out.Diagnostics[0].Notes != nil {
		t.Fatalf("max/notes: %+v", out)
	}
	out = BuildDiagnosticsOutput(diags, fs, JSONOpts{IncludeNotes: true})
	if n := out.Diagnostics[0].Notes; len(n) != 1 || n[0].Location.StartByte != 9 {
		t.Fatalf("notes = %+v", n)
	}
}
