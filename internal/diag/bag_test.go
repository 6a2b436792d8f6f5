package diag

import (
	"testing"

	"gmlsem/internal/source"
)

func TestBagSortAndDedup(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("scripts/a/a.gml", []byte("x = y;\nz;"))
	b := NewBag(0)
	b.Add(NewWarning(SemaUnresolvedSymbol, source.Span{File: a, Start: 7, End: 8}, `unresolved identifier "z"`))
	b.Add(NewWarning(SemaUnresolvedSymbol, source.Span{File: a, Start: 4, End: 5}, `unresolved identifier "y"`))
	b.Add(NewWarning(SemaUnresolvedSymbol, source.Span{File: a, Start: 4, End: 5}, `unresolved identifier "y"`))
	b.Add(NewError(SynUnexpectedToken, source.Span{File: a, Start: 4, End: 5}, "unexpected token"))
	b.Sort()
	b.Dedup()

	want := "error SYN2001 scripts/a/a.gml:1:5 unexpected token\n" +
		"warning SEM3001 scripts/a/a.gml:1:5 unresolved identifier \"y\"\n" +
		"warning SEM3001 scripts/a/a.gml:2:1 unresolved identifier \"z\""
	if got := FormatShort(b.Items(), fs, false); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(1)
	if !b.Add(Diagnostic{}) {
		t.Fatalf("first add must succeed")
	}
	if b.Add(Diagnostic{}) {
		t.Fatalf("second add must hit the limit")
	}
}

func TestPendingEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	rb := ReportWarning(BagReporter{Bag: bag}, SemaDuplicateDeclaration, source.Span{File: 1, Start: 0, End: 1}, "dup").
		WithNote(source.Span{File: 1, Start: 2, End: 3}, "first declared here")
	rb.Emit()
	rb.Emit()
	if bag.Len() != 1 || len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("want one diagnostic with one note, got %+v", bag.Items())
	}
}

func TestFirstOnly(t *testing.T) {
	bag := NewBag(0)
	r := NewFirstOnly(BagReporter{Bag: bag})
	sp := source.Span{File: 1, Start: 4, End: 5}
	r.Report(NewError(SynUnexpectedToken, sp, "a"))
	r.Report(NewError(SynUnexpectedToken, sp, "b"))
	r.Report(NewError(SynExpectSemicolon, sp, "c"))
	if bag.Len() != 2 {
		t.Fatalf("want 2 diagnostics, got %d", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	if SemaUnresolvedSymbol.ID() != "SEM3001" || PrjNativeSpecFallback.ID() != "PRJ5001" {
		t.Fatalf("unexpected ids %s %s", SemaUnresolvedSymbol.ID(), PrjNativeSpecFallback.ID())
	}
}
