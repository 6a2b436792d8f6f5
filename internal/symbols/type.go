package symbols

import (
	"strings"
)

// TypeKind is the advisory tag of a Type.
type TypeKind uint8

const (
	TypeUnknown TypeKind = iota
	TypeAny
	TypeUndefined
	TypeReal
	TypeString
	TypeBool
	TypePointer
	TypeArray
	TypeStruct
	TypeFunction
	TypeEnum
	TypeAsset
	TypeInstance
	TypeUnion
)

var typeKindNames = [...]string{
	TypeUnknown:   "Unknown",
	TypeAny:       "Any",
	TypeUndefined: "Undefined",
	TypeReal:      "Real",
	TypeString:    "String",
	TypeBool:      "Bool",
	TypePointer:   "Pointer",
	TypeArray:     "Array",
	TypeStruct:    "Struct",
	TypeFunction:  "Function",
	TypeEnum:      "Enum",
	TypeAsset:     "Asset",
	TypeInstance:  "Id.Instance",
	TypeUnion:     "Union",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "Unknown"
}

// Type is a name plus either a member table (struct, enum, instance) or a
// primitive/union tag. Types drive hovers and completion, never errors.
type Type struct {
	Kind TypeKind
	// Name is the qualified name for named types: "Struct.Vec2",
	// "Enum.Color", "Asset.GMObject". Empty for anonymous ones.
	Name string
	// Items holds the element type of an array and the variants of a union.
	Items []*Type
	// Params and Returns describe function types.
	Params  []*Signifier
	Returns *Type
	// Constructs points from a constructor's function type to the struct
	// type it builds.
	Constructs *Type
	// Parent is the inherited struct type of a constructor with ": Parent()".
	Parent *Type
	// Native marks types that come from the runtime spec.
	Native bool

	members Members
}

// Shared primitive types. They are never mutated.
var (
	Unknown   = &Type{Kind: TypeUnknown}
	Any       = &Type{Kind: TypeAny}
	Undefined = &Type{Kind: TypeUndefined}
	Real      = &Type{Kind: TypeReal}
	String    = &Type{Kind: TypeString}
	Bool      = &Type{Kind: TypeBool}
	Pointer   = &Type{Kind: TypePointer}
)

// NewStruct returns a struct type. An empty name makes it anonymous.
func NewStruct(name string) *Type {
	t := &Type{Kind: TypeStruct}
	if name != "" {
		t.Name = "Struct." + name
	}
	return t
}

// NewEnum returns an enum type named "Enum.<name>".
func NewEnum(name string) *Type {
	return &Type{Kind: TypeEnum, Name: "Enum." + name}
}

// NewInstance returns the member table type of an object's instances.
func NewInstance(object string) *Type {
	return &Type{Kind: TypeInstance, Name: "Id.Instance." + object}
}

// NewAsset returns the type of an asset reference, e.g. "Asset.GMObject".
func NewAsset(kind string) *Type {
	return &Type{Kind: TypeAsset, Name: "Asset." + kind}
}

// NewArray returns Array<elem>. A nil elem means Array<Any>.
func NewArray(elem *Type) *Type {
	t := &Type{Kind: TypeArray}
	if elem != nil {
		t.Items = []*Type{elem}
	}
	return t
}

// NewFunction returns a function type over params.
func NewFunction(params []*Signifier, returns *Type) *Type {
	return &Type{Kind: TypeFunction, Params: params, Returns: returns}
}

// Members returns the member table of a struct-like type. Primitive types
// return nil.
func (t *Type) Members() *Members {
	if t == nil || !t.HasMembers() {
		return nil
	}
	return &t.members
}

// HasMembers reports whether the type carries a member table.
func (t *Type) HasMembers() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeStruct, TypeEnum, TypeInstance:
		return true
	}
	return false
}

// Member looks name up on the type and then on its parents.
func (t *Type) Member(name string) *Signifier {
	seen := 0
	for cur := t; cur != nil && seen < maxParentDepth; cur = cur.Parent {
		if m := cur.Members(); m != nil {
			if s := m.Get(name); s != nil {
				return s
			}
		}
		seen++
	}
	return nil
}

// Elem returns the element type of an array, or nil.
func (t *Type) Elem() *Type {
	if t == nil || t.Kind != TypeArray || len(t.Items) == 0 {
		return nil
	}
	return t.Items[0]
}

// IsUnknown reports whether t carries no information.
func (t *Type) IsUnknown() bool {
	return t == nil || t.Kind == TypeUnknown
}

func (t *Type) String() string {
	if t == nil {
		return "Unknown"
	}
	var sb strings.Builder
	t.write(&sb, 0)
	return sb.String()
}

func (t *Type) write(sb *strings.Builder, depth int) {
	if depth > 8 {
		sb.WriteString("...")
		return
	}
	switch t.Kind {
	case TypeArray:
		sb.WriteString("Array")
		if e := t.Elem(); e != nil {
			sb.WriteByte('<')
			e.write(sb, depth+1)
			sb.WriteByte('>')
		}
	case TypeUnion:
		for i, it := range t.Items {
			if i > 0 {
				sb.WriteByte('|')
			}
			it.write(sb, depth+1)
		}
	case TypeFunction:
		sb.WriteString("Function(")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.Name)
			if p.Flags&FlagOptional != 0 {
				sb.WriteByte('?')
			}
			if !p.Type.IsUnknown() {
				sb.WriteString(": ")
				p.Type.write(sb, depth+1)
			}
		}
		sb.WriteByte(')')
		if !t.Returns.IsUnknown() {
			sb.WriteString(" -> ")
			t.Returns.write(sb, depth+1)
		}
	default:
		if t.Name != "" {
			sb.WriteString(t.Name)
			return
		}
		sb.WriteString(t.Kind.String())
	}
}

// Union merges a and b. Equal or unknown inputs collapse; unions flatten.
func Union(a, b *Type) *Type {
	switch {
	case a.IsUnknown():
		return b
	case b.IsUnknown():
		return a
	case a == b:
		return a
	}
	var items []*Type
	add := func(t *Type) {
		for _, it := range items {
			if sameType(it, t) {
				return
			}
		}
		items = append(items, t)
	}
	for _, t := range []*Type{a, b} {
		if t.Kind == TypeUnion {
			for _, it := range t.Items {
				add(it)
			}
			continue
		}
		add(t)
	}
	if len(items) == 1 {
		return items[0]
	}
	return &Type{Kind: TypeUnion, Items: items}
}

func sameType(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TypeArray:
		return sameType(a.Elem(), b.Elem())
	case TypeUnion:
		return false
	}
	// Anonymous structs and function types compare by kind alone, so
	// re-inferring the same file never grows a union.
	return a.Name == b.Name
}

const maxParentDepth = 64
