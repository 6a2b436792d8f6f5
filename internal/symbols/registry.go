package symbols

import (
	"sort"
	"strings"
)

// Registry maps qualified type names to types. A registry may fall back to
// a parent, which is how the project registry sees native types.
type Registry struct {
	parent *Registry
	types  map[string]*Type
}

// NewRegistry creates an empty registry on top of parent (may be nil).
func NewRegistry(parent *Registry) *Registry {
	return &Registry{parent: parent, types: make(map[string]*Type)}
}

// Add registers t under its name. Anonymous types are ignored.
func (r *Registry) Add(t *Type) {
	if t == nil || t.Name == "" {
		return
	}
	r.types[t.Name] = t
}

// Remove drops t if it is still the registered type of its name.
func (r *Registry) Remove(t *Type) bool {
	if t == nil {
		return false
	}
	if cur, ok := r.types[t.Name]; ok && cur == t {
		delete(r.types, t.Name)
		return true
	}
	return false
}

// Get looks name up here, then in the parent chain.
func (r *Registry) Get(name string) *Type {
	for cur := r; cur != nil; cur = cur.parent {
		if t, ok := cur.types[name]; ok {
			return t
		}
	}
	return nil
}

// Own reports whether name is registered in r itself.
func (r *Registry) Own(name string) bool {
	_, ok := r.types[name]
	return ok
}

// Names lists the names registered in r itself, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.types))
	for n := range r.types {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of types registered in r itself.
func (r *Registry) Len() int { return len(r.types) }

// ParseType reads a type expression as written in runtime specs and doc
// comments: "Real", "String|Undefined", "Array<Real>", "Array[Struct.Vec2]",
// "Id.Instance", "Asset.GMObject", "Struct.Vec2", "Enum.Color".
// Names the registry does not know become opaque named types.
func (r *Registry) ParseType(text string) *Type {
	text = strings.TrimSpace(text)
	if text == "" {
		return Unknown
	}
	parts := splitTopLevel(text)
	if len(parts) > 1 {
		var out *Type
		for _, p := range parts {
			out = Union(out, r.ParseType(p))
		}
		return out
	}
	if open := strings.IndexAny(text, "<["); open > 0 {
		head := strings.TrimSpace(text[:open])
		inner := strings.TrimSpace(text[open+1:])
		inner = strings.TrimRight(inner, ">]")
		if strings.EqualFold(head, "array") {
			return NewArray(r.ParseType(inner))
		}
		// Id.DsMap[Real] and friends: keep the container name.
		return r.named(head)
	}
	switch strings.ToLower(text) {
	case "any", "mixed", "*":
		return Any
	case "real", "int", "int64", "number", "double", "float":
		return Real
	case "string":
		return String
	case "bool", "boolean":
		return Bool
	case "undefined", "void":
		return Undefined
	case "pointer":
		return Pointer
	case "array":
		return NewArray(nil)
	case "struct":
		return &Type{Kind: TypeStruct, Name: "Struct"}
	case "function", "method":
		return NewFunction(nil, nil)
	case "id.instance":
		return &Type{Kind: TypeInstance, Name: "Id.Instance"}
	}
	return r.named(text)
}

func (r *Registry) named(name string) *Type {
	if t := r.Get(name); t != nil {
		return t
	}
	switch {
	case strings.HasPrefix(name, "Asset."):
		return &Type{Kind: TypeAsset, Name: name}
	case strings.HasPrefix(name, "Struct."):
		return &Type{Kind: TypeStruct, Name: name}
	case strings.HasPrefix(name, "Enum."), strings.HasPrefix(name, "Constant."):
		return &Type{Kind: TypeEnum, Name: name}
	}
	return &Type{Kind: TypeAny, Name: name}
}

// splitTopLevel splits on '|' and ',' outside of brackets.
func splitTopLevel(s string) []string {
	var out []string
	depth, last := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '[':
			depth++
		case '>', ']':
			depth--
		case '|', ',':
			if depth == 0 {
				out = append(out, s[last:i])
				last = i + 1
			}
		}
	}
	return append(out, s[last:])
}
