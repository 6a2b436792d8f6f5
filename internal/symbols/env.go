// Package symbols holds the semantic model of a GML project (signifiers,
// advisory types, local scopes and self contexts) and the two resolver
// passes that fill it: DiscoverGlobals binds what other files can see,
// ResolveFile binds every identifier of one file and records its scope
// ranges.
package symbols

import (
	"fmt"
	"sort"

	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/source"
)

// Env is the project-wide state every file resolves against.
type Env struct {
	Global *GlobalSelf
	// Types holds user types; its parent is the native registry.
	Types *Registry
	// Object returns the instance context of an object asset, or nil.
	Object func(name string) *InstanceSelf
}

// Unit is one parsed file handed to the resolver.
type Unit struct {
	File *source.File
	Tree *ast.File
	// Self is the top-level context: the global self for scripts, the
	// object's InstanceSelf for event files.
	Self Self
}

// Discovery is the outcome of pass 1 for one file.
type Discovery struct {
	Decls *Decls
	// Created lists names that did not exist before this run.
	Created []*Signifier
	// Released lists signifiers the file declared last time but no longer does.
	Released []*Signifier
	// Lost lists names the file declares but another file already owned.
	// The file must be discovered again once the owner lets go of one.
	Lost        []string
	Diagnostics []diag.Diagnostic
}

// LostAny reports whether the file lost any of names to another declarer.
func (d *Discovery) LostAny(names map[string]struct{}) bool {
	if d == nil {
		return false
	}
	for _, n := range d.Lost {
		if _, ok := names[n]; ok {
			return true
		}
	}
	return false
}

// Release takes every declaration of the file out of the shared tables.
func (d *Discovery) Release(reg *Registry) []*Signifier {
	if d == nil {
		return nil
	}
	return d.Decls.Release(reg)
}

// RefEntry maps one identifier occurrence to its signifier.
type RefEntry struct {
	Loc source.Span
	Sig *Signifier
}

// Unresolved is an identifier that matched nothing.
type Unresolved struct {
	Name string
	Loc  source.Span
}

// Resolution is the outcome of pass 2 for one file. It is rebuilt from
// scratch every time the file is resolved.
type Resolution struct {
	Ranges ScopeRanges
	// Refs is sorted by location.
	Refs       []RefEntry
	Unresolved []Unresolved
	// Touched is every signifier that received a reference from this file.
	Touched []*Signifier
	// Decls are members declared on shared contexts by plain assignment.
	Decls       *Decls
	Created     []*Signifier
	Released    []*Signifier
	Diagnostics []diag.Diagnostic
}

// Forget removes this file's references from every signifier it touched.
func (r *Resolution) Forget(file source.FileID) {
	if r == nil {
		return
	}
	for _, s := range r.Touched {
		s.RemoveRefsIn(file)
	}
	r.Touched = nil
}

// Release forgets the file's references and drops its declarations.
func (r *Resolution) Release(file source.FileID, reg *Registry) []*Signifier {
	if r == nil {
		return nil
	}
	r.Forget(file)
	return r.Decls.Release(reg)
}

// SymbolAt returns the reference entry whose span contains off.
func (r *Resolution) SymbolAt(off uint32) (RefEntry, bool) {
	if r == nil {
		return RefEntry{}, false
	}
	i := sort.Search(len(r.Refs), func(i int) bool { return r.Refs[i].Loc.End >= off })
	for ; i < len(r.Refs); i++ {
		e := r.Refs[i]
		if e.Loc.Start > off {
			break
		}
		if e.Loc.Contains(off) {
			return e, true
		}
	}
	return RefEntry{}, false
}

// InScopeAt lists the signifiers visible at off: locals, then self members,
// then user globals, then builtins. Inner names shadow outer ones.
func (r *Resolution) InScopeAt(off uint32, global *GlobalSelf) []*Signifier {
	var out []*Signifier
	seen := make(map[string]struct{})
	add := func(sigs []*Signifier) {
		for _, s := range sigs {
			if _, ok := seen[s.Name]; ok {
				continue
			}
			seen[s.Name] = struct{}{}
			out = append(out, s)
		}
	}
	if r != nil {
		if sr := r.Ranges.At(off); sr != nil {
			add(sr.Local.Members().All())
			if sr.Self != nil && sr.Self.Kind() != SelfGlobal {
				for t := sr.Self.Type(); t != nil; t = t.Parent {
					add(t.Members().All())
				}
			}
		}
	}
	if global != nil {
		add(global.Members().All())
		add(global.Native().All())
	}
	return out
}

// UnresolvedDiagnostics reports every unresolved identifier with sev.
func (r *Resolution) UnresolvedDiagnostics(sev diag.Severity) []diag.Diagnostic {
	if r == nil {
		return nil
	}
	out := make([]diag.Diagnostic, 0, len(r.Unresolved))
	for _, u := range r.Unresolved {
		out = append(out, diag.New(sev, diag.SemaUnresolvedSymbol, u.Loc, fmt.Sprintf("unresolved identifier %q", u.Name)))
	}
	return out
}
