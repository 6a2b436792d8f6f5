package symbols

// LocalScope is the flat var table of one function body (or of a file's top
// level). GML locals are function scoped and nested functions do not see the
// enclosing function's locals, so there is no parent link.
type LocalScope struct {
	members Members
}

func NewLocalScope() *LocalScope { return &LocalScope{} }

func (l *LocalScope) Members() *Members {
	if l == nil {
		return nil
	}
	return &l.members
}

func (l *LocalScope) Lookup(name string) *Signifier {
	if l == nil {
		return nil
	}
	return l.members.Get(name)
}

// SelfKind tells the Self variants apart.
type SelfKind uint8

const (
	SelfGlobal SelfKind = iota
	SelfInstance
	SelfStruct
)

func (k SelfKind) String() string {
	switch k {
	case SelfInstance:
		return "instance"
	case SelfStruct:
		return "struct"
	default:
		return "global"
	}
}

// Self is the receiver context bare identifiers fall back to. The set of
// variants is closed: *GlobalSelf, *InstanceSelf, *StructSelf.
type Self interface {
	Kind() SelfKind
	// Type is the member table type of the context.
	Type() *Type
	// Members is the context's own member table, without parents.
	Members() *Members
	// Lookup finds name on the context, following parents.
	Lookup(name string) *Signifier
	// MembersWritable reports whether code running under the context adds
	// members by plain assignment.
	MembersWritable() bool
	isSelf()
}

// GlobalSelf is the project-wide "global" struct plus the native table.
type GlobalSelf struct {
	typ    *Type
	native Members
}

func NewGlobalSelf() *GlobalSelf {
	return &GlobalSelf{typ: &Type{Kind: TypeStruct, Name: "global"}}
}

func (*GlobalSelf) Kind() SelfKind        { return SelfGlobal }
func (g *GlobalSelf) Type() *Type         { return g.typ }
func (g *GlobalSelf) Members() *Members   { return &g.typ.members }
func (*GlobalSelf) MembersWritable() bool { return false }
func (*GlobalSelf) isSelf()               {}

// Native is the builtin table filled by the runtime spec loader.
func (g *GlobalSelf) Native() *Members { return &g.native }

// User returns a user-declared global, ignoring builtins.
func (g *GlobalSelf) User(name string) *Signifier { return g.typ.members.Get(name) }

// Lookup checks user globals first, then builtins.
func (g *GlobalSelf) Lookup(name string) *Signifier {
	if s := g.typ.members.Get(name); s != nil {
		return s
	}
	return g.native.Get(name)
}

// InstanceSelf is the context of an object's event code. Instance members
// are shared by every event file of the object and inherited by children.
type InstanceSelf struct {
	Object string
	typ    *Type
	parent *InstanceSelf
}

func NewInstanceSelf(object string) *InstanceSelf {
	return &InstanceSelf{Object: object, typ: NewInstance(object)}
}

func (*InstanceSelf) Kind() SelfKind        { return SelfInstance }
func (s *InstanceSelf) Type() *Type         { return s.typ }
func (s *InstanceSelf) Members() *Members   { return &s.typ.members }
func (*InstanceSelf) MembersWritable() bool { return true }
func (*InstanceSelf) isSelf()               {}

// Parent returns the parent object's context, or nil.
func (s *InstanceSelf) Parent() *InstanceSelf { return s.parent }

// SetParent links the parent object. Links that would form a cycle are refused.
func (s *InstanceSelf) SetParent(p *InstanceSelf) bool {
	for cur := p; cur != nil; cur = cur.parent {
		if cur == s {
			return false
		}
	}
	s.parent = p
	if p != nil {
		s.typ.Parent = p.typ
	} else {
		s.typ.Parent = nil
	}
	return true
}

func (s *InstanceSelf) Lookup(name string) *Signifier {
	return s.typ.Member(name)
}

// StructSelf is the context of a constructor body.
type StructSelf struct {
	typ *Type
}

// NewStructSelf wraps a struct type.
func NewStructSelf(t *Type) *StructSelf { return &StructSelf{typ: t} }

func (*StructSelf) Kind() SelfKind        { return SelfStruct }
func (s *StructSelf) Type() *Type         { return s.typ }
func (s *StructSelf) Members() *Members   { return &s.typ.members }
func (*StructSelf) MembersWritable() bool { return true }
func (*StructSelf) isSelf()               {}

func (s *StructSelf) Lookup(name string) *Signifier {
	return s.typ.Member(name)
}
