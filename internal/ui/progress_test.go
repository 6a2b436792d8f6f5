package ui

import (
	"strings"
	"testing"

	"gmlsem/internal/project"
)

func TestApplyAccumulates(t *testing.T) {
	m := NewProgressModel("Loading", 10, nil).(*progressModel)
	for i := 0; i < 8; i++ {
		m.apply(project.Progress{Increment: 2, Message: "step " + string(rune('a'+i))})
	}
	if got := m.percent(); got != 1.0 {
		t.Fatalf("percent = %v, want capped at 1", got)
	}
	if len(m.recent) != recentSteps || m.recent[0] != "step c" {
		t.Fatalf("recent = %v", m.recent)
	}
}

func TestViewShowsSteps(t *testing.T) {
	m := NewProgressModel("Loading Demo", 0, nil).(*progressModel)
	m.apply(project.Progress{Increment: 5, Message: "Loaded project file"})
	m.done = true
	view := m.View()
	for _, want := range []string{"done: Loading Demo", "Loaded project file"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("scripts/scr_long_name/scr_long_name.gml", 12); got != "scripts/s..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("日本語のスクリプト", 7); got != "日本..." {
		t.Fatalf("wide truncate = %q", got)
	}
	if got := truncate("short", 0); got != "short" {
		t.Fatalf("no width = %q", got)
	}
}
