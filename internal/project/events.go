package project

import (
	"fmt"

	"gmlsem/internal/diag"
	"gmlsem/internal/source"
)

// DiagnosticsEvent replaces everything previously published for one file.
// An empty list clears the file.
type DiagnosticsEvent struct {
	Path        string
	File        source.FileID
	Diagnostics []diag.Diagnostic
}

// DiagnosticsFunc is called synchronously while the project is locked; it
// must not call back into the Project.
type DiagnosticsFunc func(DiagnosticsEvent)

type subscriber struct {
	id int
	fn DiagnosticsFunc
}

// OnDiagnostics subscribes fn to the diagnostics stream. Subscribers are
// called in subscription order.
func (p *Project) OnDiagnostics(fn DiagnosticsFunc) (unsubscribe func()) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	p.nextSub++
	id := p.nextSub
	p.subs = append(p.subs, subscriber{id: id, fn: fn})
	return func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		for i, s := range p.subs {
			if s.id == id {
				p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
				return
			}
		}
	}
}

// EmitDiagnostics publishes diags for the file at path. Every diagnostic
// must point inside a registered file; otherwise nothing is delivered and
// ErrInvalidDiagnostic is returned.
func (p *Project) EmitDiagnostics(path string, diags []diag.Diagnostic) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	rel := p.rel(path)
	id, ok := p.files.Lookup(rel)
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrUnknownFile)
	}
	return p.emit(rel, id, diags)
}

func (p *Project) emit(path string, file source.FileID, diags []diag.Diagnostic) error {
	for i := range diags {
		if err := p.validate(diags[i]); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	p.subMu.Lock()
	subs := append([]subscriber(nil), p.subs...)
	p.subMu.Unlock()
	ev := DiagnosticsEvent{Path: path, File: file, Diagnostics: diags}
	for _, s := range subs {
		s.fn(ev)
	}
	return nil
}

func (p *Project) validate(d diag.Diagnostic) error {
	if d.Code == diag.UnknownCode {
		return fmt.Errorf("%w: no code: %q", ErrInvalidDiagnostic, d.Message)
	}
	if d.Primary.File == source.NoFileID || !p.files.Contains(d.Primary) {
		return fmt.Errorf("%w: %s at %s has no location in a project file", ErrInvalidDiagnostic, d.Code.ID(), d.Primary)
	}
	return nil
}
