package symbols

import "testing"

func TestRangeBuilderCollapsesAndDrops(t *testing.T) {
	g := NewGlobalSelf()
	l1, l2 := NewLocalScope(), NewLocalScope()
	b := rangeBuilder{length: 100}

	b.open(0, l1, g)
	b.open(10, l2, g)
	b.open(10, l1, g) // same start: the later context wins and merges back
	if len(b.out) != 1 {
		t.Fatalf("got %d ranges after collapse, want 1", len(b.out))
	}
	b.open(20, l1, g)
	if len(b.out) != 1 {
		t.Fatalf("range with an unchanged context was added")
	}
	b.open(30, l2, g)
	b.open(25, l1, g)
	b.open(100, l1, g)
	if len(b.out) != 2 || b.out[1].Start != 30 {
		t.Fatalf("ranges = %+v", b.out)
	}
	if err := b.out.Validate(100); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if r := b.out.At(29); r.Local != l1 {
		t.Fatalf("At(29) picked the wrong range")
	}
	if r := b.out.At(30); r.Local != l2 {
		t.Fatalf("At(30) picked the wrong range")
	}
	if r := b.out.At(99); r.Local != l2 {
		t.Fatalf("At(99) picked the wrong range")
	}
}

func TestRangeBuilderEmptyFile(t *testing.T) {
	b := rangeBuilder{length: 0}
	b.open(0, NewLocalScope(), NewGlobalSelf())
	if len(b.out) != 1 {
		t.Fatalf("empty file must still get one range")
	}
	if err := b.out.Validate(0); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestScopeRangesValidate(t *testing.T) {
	g := NewGlobalSelf()
	l := NewLocalScope()
	cases := []struct {
		name string
		rs   ScopeRanges
	}{
		{"empty", nil},
		{"late start", ScopeRanges{{Start: 1, Local: l, Self: g}}},
		{"no context", ScopeRanges{{Start: 0, Local: l}}},
		{"not increasing", ScopeRanges{{Start: 0, Local: l, Self: g}, {Start: 0, Local: l, Self: g}}},
		{"past end", ScopeRanges{{Start: 0, Local: l, Self: g}, {Start: 10, Local: l, Self: g}}},
	}
	for _, tc := range cases {
		if err := tc.rs.Validate(10); err == nil {
			t.Fatalf("%s: expected an error", tc.name)
		}
	}
	if ScopeRanges(nil).At(0) != nil {
		t.Fatalf("At on an empty list must be nil")
	}
}
