package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("setup")
	b := tm.Begin("resolve")
	tm.End(b, "12 files")
	tm.End(a, "")
	tm.End(7, "ignored")
	tm.End(b, "closed twice")
	c := tm.Begin("resolve")
	tm.End(c, "3 files")
	tm.Begin("never ended")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %+v, want 2", r.Phases)
	}
	if r.Phases[0].Name != "setup" || r.Phases[1].Runs != 2 || r.Phases[1].Note != "3 files" {
		t.Fatalf("unexpected phases %+v", r.Phases)
	}
	if r.TotalMS < r.Phases[1].DurationMS {
		t.Fatalf("total %.3f below phase %.3f", r.TotalMS, r.Phases[1].DurationMS)
	}
	var sb strings.Builder
	if err := r.WriteText(&sb); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	s := sb.String()
	for _, want := range []string{"timings:", "resolve", " x2", "(3 files)", "total"} {
		if !strings.Contains(s, want) {
			t.Fatalf("text lacks %q:\n%s", want, s)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	r := NewTimer().Report()
	if r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty report = %+v", r)
	}
	var sb strings.Builder
	if err := r.WriteText(&sb); err != nil || sb.Len() != 0 {
		t.Fatalf("empty text = %q, %v", sb.String(), err)
	}
}
