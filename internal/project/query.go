package project

import (
	"fmt"
	"slices"
	"strings"

	"gmlsem/internal/diag"
	"gmlsem/internal/source"
	"gmlsem/internal/symbols"
)

// SymbolAt returns the reference at byte offset off of the file at path.
// The advisory type of the symbol is ref.Sig.Type; TypeAt returns the type
// a name denotes.
func (p *Project) SymbolAt(path string, off uint32) (symbols.RefEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := p.codeAt(p.rel(path))
	if c == nil {
		return symbols.RefEntry{}, false
	}
	return c.resolution.SymbolAt(off)
}

// TypeAt returns the type named by the reference at off: the struct type
// for a constructor, the enum type for an enum, and the signifier's
// advisory type otherwise. It reports false when there is no reference or
// nothing is known about its type.
func (p *Project) TypeAt(path string, off uint32) (*symbols.Type, bool) {
	ref, ok := p.SymbolAt(path, off)
	if !ok || ref.Sig == nil || ref.Sig.Type == nil {
		return nil, false
	}
	t := ref.Sig.Type
	if ref.Sig.Kind == symbols.KindConstructor && t.Constructs != nil {
		t = t.Constructs
	}
	return t, true
}

// ReferencesOf lists every recorded use of sig, in file then offset order.
// The declaration is included when it was recorded as a reference.
func (p *Project) ReferencesOf(sig *symbols.Signifier) []source.Span {
	if sig == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	refs := sig.Refs()
	out := make([]source.Span, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Loc)
	}
	slices.SortFunc(out, func(a, b source.Span) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return out
}

// InScopeSymbolsAt lists what is visible at off in the file at path:
// locals first, then self members, user globals and builtins.
func (p *Project) InScopeSymbolsAt(path string, off uint32) ([]*symbols.Signifier, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := p.codeAt(p.rel(path))
	if c == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFile)
	}
	return c.resolution.InScopeAt(off, p.global), nil
}

// Diagnostics returns the list last emitted for the file at path. The
// manifest path returns the project-level diagnostics.
func (p *Project) Diagnostics(path string) ([]diag.Diagnostic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rel := p.rel(path)
	if strings.EqualFold(rel, p.manifestPath) {
		return slices.Clone(p.manifestDiags), nil
	}
	c := p.codeAt(rel)
	if c == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFile)
	}
	return c.Diagnostics(), nil
}

// AllDiagnostics returns every current diagnostic of the project, sorted.
func (p *Project) AllDiagnostics() []diag.Diagnostic {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := slices.Clone(p.manifestDiags)
	for _, c := range p.codes {
		out = append(out, c.diags...)
	}
	diag.SortDiagnostics(out)
	return out
}

// Asset returns the asset owning path ("objects/o_player/Step_0.gml" or
// the .yy file), or the asset named path.
func (p *Project) Asset(path string) *Asset {
	p.mu.Lock()
	defer p.mu.Unlock()
	parts := strings.Split(p.rel(path), "/")
	if len(parts) >= 2 {
		if a := p.assets[foldName(parts[1])]; a != nil && strings.EqualFold(a.Kind, parts[0]) {
			return a
		}
	}
	return p.assets[foldName(path)]
}

// Code returns the code file at path, or nil.
func (p *Project) Code(path string) *Code {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.codeAt(p.rel(path))
}

// Assets lists every registered asset by name.
func (p *Project) Assets() []*Asset {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sortedAssets()
}

// Codes lists every code file in processing order.
func (p *Project) Codes() []*Code {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.codesInOrder(nil)
}
