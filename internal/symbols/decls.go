package symbols

import (
	"slices"
	"strings"

	"gmlsem/internal/source"
)

// Decls records what one pass over one file declared on tables shared with
// other files (global members, instance members, struct and enum types).
// It is what lets a file be re-resolved or removed without a full rebuild.
type Decls struct {
	entries []declEntry
	types   []*Type
}

type declEntry struct {
	owner *Members
	sig   *Signifier
}

type declKey struct {
	owner *Members
	name  string
}

// Signifiers returns the declared signifiers in declaration order.
func (d *Decls) Signifiers() []*Signifier {
	if d == nil {
		return nil
	}
	out := make([]*Signifier, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e.sig)
	}
	return out
}

// Types returns the named types the pass registered.
func (d *Decls) Types() []*Type {
	if d == nil {
		return nil
	}
	return append([]*Type(nil), d.types...)
}

// Len returns the number of declared signifiers.
func (d *Decls) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Release removes every declaration that is still in place and unregisters
// the types. It returns the signifiers taken out of their tables.
func (d *Decls) Release(reg *Registry) []*Signifier {
	if d == nil {
		return nil
	}
	var out []*Signifier
	for _, e := range d.entries {
		if e.owner.Get(e.sig.Name) == e.sig {
			e.owner.Remove(e.sig.Name)
			out = append(out, e.sig)
		}
	}
	if reg != nil {
		for _, t := range d.types {
			reg.Remove(t)
		}
	}
	d.entries, d.types = nil, nil
	return out
}

type declStatus uint8

const (
	// declNew: a fresh signifier was added to the table.
	declNew declStatus = iota
	// declReused: the signifier this file declared last time was kept.
	declReused
	// declRepeat: the same run already declared the name on this table.
	declRepeat
	// declTaken: another file, another pass or a builtin owns the name.
	declTaken
)

// declarer performs declarations for one pass of one file, reusing the
// signifiers of the previous run so references other files hold stay valid.
type declarer struct {
	file      source.FileID
	prev      map[declKey]*Signifier
	prevTypes map[*Type]struct{}
	next      *Decls
	nextKeys  map[declKey]struct{}
	created   []*Signifier
	// lost holds names another file already owned.
	lost map[string]struct{}
}

func newDeclarer(file source.FileID, prev *Decls) *declarer {
	d := &declarer{
		file:      file,
		prev:      make(map[declKey]*Signifier),
		prevTypes: make(map[*Type]struct{}),
		next:      &Decls{},
		nextKeys:  make(map[declKey]struct{}),
	}
	if prev != nil {
		for _, e := range prev.entries {
			d.prev[declKey{e.owner, e.sig.Name}] = e.sig
		}
		for _, t := range prev.types {
			d.prevTypes[t] = struct{}{}
		}
	}
	return d
}

// declare binds name on owner. ownerType is recorded on new signifiers.
func (d *declarer) declare(owner *Members, ownerType *Type, name string, kind Kind, def source.Span) (*Signifier, declStatus) {
	key := declKey{owner, name}
	existing := owner.Get(name)
	if _, ok := d.nextKeys[key]; ok && existing != nil {
		return existing, declRepeat
	}
	if p, ok := d.prev[key]; ok && (existing == nil || existing == p) {
		delete(d.prev, key)
		p.Kind, p.Def = kind, def
		if existing == nil {
			owner.Add(p)
		}
		d.record(key, owner, p)
		return p, declReused
	}
	if existing != nil {
		if existing.Def.IsValid() && existing.Def.File != d.file {
			if d.lost == nil {
				d.lost = make(map[string]struct{})
			}
			d.lost[name] = struct{}{}
		}
		return existing, declTaken
	}
	sig := NewSignifier(name, kind, def)
	sig.Owner = ownerType
	owner.Add(sig)
	d.record(key, owner, sig)
	d.created = append(d.created, sig)
	return sig, declNew
}

func (d *declarer) record(key declKey, owner *Members, sig *Signifier) {
	d.nextKeys[key] = struct{}{}
	d.next.entries = append(d.next.entries, declEntry{owner: owner, sig: sig})
}

// registerType adds t to reg and records it as owned by this pass.
func (d *declarer) registerType(reg *Registry, t *Type) {
	if reg == nil || t == nil || t.Name == "" {
		return
	}
	reg.Add(t)
	delete(d.prevTypes, t)
	for _, have := range d.next.types {
		if have == t {
			return
		}
	}
	d.next.types = append(d.next.types, t)
}

// finish drops the previous declarations this run did not repeat and
// returns them.
func (d *declarer) finish(reg *Registry) (*Decls, []*Signifier) {
	var released []*Signifier
	for key, sig := range d.prev {
		if key.owner.Get(sig.Name) == sig {
			key.owner.Remove(sig.Name)
			released = append(released, sig)
		}
	}
	if reg != nil {
		for t := range d.prevTypes {
			reg.Remove(t)
		}
	}
	sortSignifiers(released)
	return d.next, released
}

// lostNames returns the names this run could not declare because another
// file held them, sorted.
func (d *declarer) lostNames() []string {
	out := make([]string, 0, len(d.lost))
	for name := range d.lost {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// sortSignifiers orders by declaration site so map iteration never leaks
// into results.
func sortSignifiers(sigs []*Signifier) {
	slices.SortStableFunc(sigs, func(a, b *Signifier) int {
		switch {
		case a.Def.Less(b.Def):
			return -1
		case b.Def.Less(a.Def):
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
}
