package diag

import "gmlsem/internal/source"

// Reporter receives diagnostics as a phase finds them.
type Reporter interface {
	Report(d Diagnostic)
}

// Pending is a diagnostic under construction. Nothing reaches the
// Reporter until Emit.
type Pending struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

// Start begins a diagnostic for r. A nil r is allowed; Emit then drops it.
func Start(r Reporter, sev Severity, code Code, primary source.Span, msg string) *Pending {
	return &Pending{to: r, d: New(sev, code, primary, msg)}
}

// ReportError starts an error.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return Start(r, SevError, code, primary, msg)
}

// ReportWarning starts a warning.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return Start(r, SevWarning, code, primary, msg)
}

// WithNote attaches a secondary location.
func (p *Pending) WithNote(sp source.Span, msg string) *Pending {
	p.d = p.d.WithNote(sp, msg)
	return p
}

// Emit hands the diagnostic over. Later calls do nothing.
func (p *Pending) Emit() {
	if p.sent {
		return
	}
	p.sent = true
	if p.to != nil {
		p.to.Report(p.d)
	}
}

// BagReporter collects into Bag; a nil Bag drops everything.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

type firstKey struct {
	code  Code
	file  source.FileID
	start uint32
}

// FirstOnly passes on one diagnostic per code and start offset. Parser
// recovery tends to trip over the same token from several productions.
type FirstOnly struct {
	next Reporter
	seen map[firstKey]bool
}

// NewFirstOnly wraps next.
func NewFirstOnly(next Reporter) *FirstOnly {
	return &FirstOnly{next: next, seen: make(map[firstKey]bool)}
}

func (r *FirstOnly) Report(d Diagnostic) {
	k := firstKey{code: d.Code, file: d.Primary.File, start: d.Primary.Start}
	if r.seen[k] {
		return
	}
	r.seen[k] = true
	r.next.Report(d)
}
