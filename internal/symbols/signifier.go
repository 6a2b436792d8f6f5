package symbols

import (
	"gmlsem/internal/source"
)

// Kind classifies the binding a Signifier stands for.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindParam
	KindLocal
	KindMember
	KindStatic
	KindGlobalVar
	KindFunction
	KindConstructor
	KindMacro
	KindEnum
	KindEnumMember
	KindAsset
	KindBuiltinFunction
	KindBuiltinConstant
	KindBuiltinVariable
)

func (k Kind) String() string {
	switch k {
	case KindParam:
		return "param"
	case KindLocal:
		return "local"
	case KindMember:
		return "member"
	case KindStatic:
		return "static"
	case KindGlobalVar:
		return "globalvar"
	case KindFunction:
		return "function"
	case KindConstructor:
		return "constructor"
	case KindMacro:
		return "macro"
	case KindEnum:
		return "enum"
	case KindEnumMember:
		return "enum member"
	case KindAsset:
		return "asset"
	case KindBuiltinFunction:
		return "builtin function"
	case KindBuiltinConstant:
		return "builtin constant"
	case KindBuiltinVariable:
		return "builtin variable"
	default:
		return "invalid"
	}
}

// Flags encode misc attributes for quick checks.
type Flags uint16

const (
	FlagWritable Flags = 1 << iota
	FlagNative
	FlagGlobal
	FlagStatic
	// FlagImplicit marks bindings created by a plain assignment, without var.
	FlagImplicit
	FlagDeprecated
	FlagOptional
	// FlagInstance marks native variables that live on instances (x, y, ...).
	FlagInstance
)

// Strings returns a slice of textual flag labels.
func (f Flags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	if f&FlagWritable != 0 {
		labels = append(labels, "writable")
	}
	if f&FlagNative != 0 {
		labels = append(labels, "native")
	}
	if f&FlagGlobal != 0 {
		labels = append(labels, "global")
	}
	if f&FlagStatic != 0 {
		labels = append(labels, "static")
	}
	if f&FlagImplicit != 0 {
		labels = append(labels, "implicit")
	}
	if f&FlagDeprecated != 0 {
		labels = append(labels, "deprecated")
	}
	if f&FlagOptional != 0 {
		labels = append(labels, "optional")
	}
	if f&FlagInstance != 0 {
		labels = append(labels, "instance")
	}
	return labels
}

// Ref is one occurrence of a Signifier in source.
type Ref struct {
	Loc   source.Span
	IsDef bool
}

// Signifier is a named binding: parameter, local, member, global or builtin.
//
// The reference list only holds spans, so a Signifier never keeps a Code
// unit alive; refs into a file are dropped with RemoveRefsIn before that
// file is resolved again.
type Signifier struct {
	Name  string
	Kind  Kind
	Flags Flags
	// Def is the declaring identifier. Native signifiers have a zero span.
	Def  source.Span
	Type *Type
	Doc  string
	// Owner is the type whose member table holds this signifier, if any.
	Owner *Type

	refs []Ref
}

// NewSignifier returns a user signifier declared at def.
func NewSignifier(name string, kind Kind, def source.Span) *Signifier {
	return &Signifier{Name: name, Kind: kind, Def: def}
}

func (s *Signifier) Native() bool   { return s.Flags&FlagNative != 0 }
func (s *Signifier) Writable() bool { return s.Flags&FlagWritable != 0 }
func (s *Signifier) Global() bool   { return s.Flags&FlagGlobal != 0 }

// AddRef appends an occurrence. Refs keep discovery order.
func (s *Signifier) AddRef(loc source.Span, isDef bool) {
	s.refs = append(s.refs, Ref{Loc: loc, IsDef: isDef})
}

// Refs returns a copy of the reference list.
func (s *Signifier) Refs() []Ref {
	out := make([]Ref, len(s.refs))
	copy(out, s.refs)
	return out
}

// RefCount returns the number of recorded occurrences.
func (s *Signifier) RefCount() int { return len(s.refs) }

// RemoveRefsIn drops every reference located in file and returns how many
// were removed.
func (s *Signifier) RemoveRefsIn(file source.FileID) int {
	kept := s.refs[:0]
	for _, r := range s.refs {
		if r.Loc.File != file {
			kept = append(kept, r)
		}
	}
	n := len(s.refs) - len(kept)
	for i := len(kept); i < len(s.refs); i++ {
		s.refs[i] = Ref{}
	}
	s.refs = kept
	return n
}

// Files returns the distinct files holding references, in first-seen order.
func (s *Signifier) Files() []source.FileID {
	var out []source.FileID
	seen := make(map[source.FileID]struct{}, 4)
	for _, r := range s.refs {
		if _, ok := seen[r.Loc.File]; ok {
			continue
		}
		seen[r.Loc.File] = struct{}{}
		out = append(out, r.Loc.File)
	}
	return out
}

// Detail renders a one-line hover summary, e.g. "function foo: Function(a, b)".
func (s *Signifier) Detail() string {
	out := s.Kind.String() + " " + s.Name
	if s.Owner != nil && s.Owner.Name != "" {
		out = s.Kind.String() + " " + s.Owner.Name + "." + s.Name
	}
	if !s.Type.IsUnknown() {
		out += ": " + s.Type.String()
	}
	return out
}
