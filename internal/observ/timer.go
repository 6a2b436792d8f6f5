// Package observ records how long the phases of a project load take.
package observ

import (
	"fmt"
	"io"
	"time"
)

type phase struct {
	name  string
	began time.Time
	took  time.Duration
	note  string
	done  bool
}

// Timer collects phases in the order they begin. Phases run on the goroutine
// holding the project lock, so Timer does no locking of its own.
type Timer struct {
	phases []phase
}

func NewTimer() *Timer { return &Timer{} }

// Begin starts a phase and returns the handle End takes.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, phase{name: name, began: time.Now()})
	return len(t.phases) - 1
}

// End closes a phase with an optional note. Unknown or closed handles are
// ignored.
func (t *Timer) End(h int, note string) {
	if h < 0 || h >= len(t.phases) || t.phases[h].done {
		return
	}
	p := &t.phases[h]
	p.took, p.note, p.done = time.Since(p.began), note, true
}

// PhaseReport sums every run of one phase name.
type PhaseReport struct {
	Name       string  `json:"name"`
	Runs       int     `json:"runs"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report lists phases by first start. Note is that of the last run.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	var r Report
	at := make(map[string]int)
	for _, p := range t.phases {
		if !p.done {
			continue
		}
		i, ok := at[p.name]
		if !ok {
			i = len(r.Phases)
			at[p.name] = i
			r.Phases = append(r.Phases, PhaseReport{Name: p.name})
		}
		ms := millis(p.took)
		r.Phases[i].Runs++
		r.Phases[i].DurationMS += ms
		r.Phases[i].Note = p.note
		r.TotalMS += ms
	}
	return r
}

// WriteText prints one line per phase and a total line.
func (r Report) WriteText(w io.Writer) error {
	if len(r.Phases) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "timings:"); err != nil {
		return err
	}
	for _, p := range r.Phases {
		line := fmt.Sprintf("  %-10s %8.1f ms", p.Name, p.DurationMS)
		if p.Runs > 1 {
			line += fmt.Sprintf(" x%d", p.Runs)
		}
		if p.Note != "" {
			line += "  (" + p.Note + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  %-10s %8.1f ms\n", "total", r.TotalMS)
	return err
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
