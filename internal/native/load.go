// Package native loads the GameMaker runtime's language definition
// (GmlSpec.xml) into the builtin table of a project's global context.
package native

import (
	"fmt"
	"strings"

	"gmlsem/internal/source"
	"gmlsem/internal/symbols"
)

// Builtins have no declaration site.
var noSpan source.Span

// Native summarises what Load put into the global context.
type Native struct {
	Files    []string
	Version  string
	Fallback bool

	Functions int
	Variables int
	Constants int
	Types     int
}

// Load parses files and adds every builtin as a native signifier on
// global, and every native struct and enum type to types. Later files win
// on name clashes. cache may be nil.
func Load(files []SpecFile, global *symbols.GlobalSelf, types *symbols.Registry, cache *Cache) (*Native, error) {
	out := &Native{}
	var cacheErr error
	for _, f := range files {
		spec, err := cache.Parse(f.Data)
		if spec == nil {
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}
		if err != nil && cacheErr == nil {
			cacheErr = err
		}
		out.Files = append(out.Files, f.Path)
		out.Fallback = out.Fallback || f.Fallback
		if f.Version != "" {
			out.Version = f.Version
		}
		out.apply(spec, global, types)
	}
	return out, cacheErr
}

func (n *Native) apply(spec *Spec, global *symbols.GlobalSelf, types *symbols.Registry) {
	table := global.Native()

	// types first so signatures can refer to them
	for _, st := range spec.Structures {
		t := &symbols.Type{Kind: symbols.TypeStruct, Name: structName(st.Name), Native: true}
		types.Add(t)
		n.Types++
	}
	for _, en := range spec.Enumerations {
		t := &symbols.Type{Kind: symbols.TypeEnum, Name: enumName(en.Name), Native: true}
		types.Add(t)
		n.Types++
	}
	for _, st := range spec.Structures {
		t := types.Get(structName(st.Name))
		for _, f := range st.Fields {
			sig := symbols.NewSignifier(f.Name, symbols.KindBuiltinVariable, noSpan)
			sig.Flags = symbols.FlagNative
			if f.Set {
				sig.Flags |= symbols.FlagWritable
			}
			sig.Type = types.ParseType(f.Type)
			sig.Doc = clean(f.Description)
			sig.Owner = t
			t.Members().Add(sig)
		}
	}
	for _, en := range spec.Enumerations {
		t := types.Get(enumName(en.Name))
		for _, m := range en.Members {
			sig := symbols.NewSignifier(m.Name, symbols.KindEnumMember, noSpan)
			sig.Flags = symbols.FlagNative
			if m.Deprecated {
				sig.Flags |= symbols.FlagDeprecated
			}
			sig.Type = t
			sig.Doc = clean(m.Description)
			sig.Owner = t
			t.Members().Add(sig)
		}
	}

	for _, fn := range spec.Functions {
		params := make([]*symbols.Signifier, 0, len(fn.Params))
		for _, p := range fn.Params {
			ps := symbols.NewSignifier(p.Name, symbols.KindParam, noSpan)
			ps.Flags = symbols.FlagNative
			if p.Optional {
				ps.Flags |= symbols.FlagOptional
			}
			ps.Type = types.ParseType(p.Type)
			ps.Doc = clean(p.Description)
			params = append(params, ps)
		}
		var ret *symbols.Type
		if fn.ReturnType != "" {
			ret = types.ParseType(fn.ReturnType)
		}
		sig := symbols.NewSignifier(fn.Name, symbols.KindBuiltinFunction, noSpan)
		sig.Flags = symbols.FlagNative
		if fn.Deprecated {
			sig.Flags |= symbols.FlagDeprecated
		}
		sig.Type = symbols.NewFunction(params, ret)
		sig.Doc = clean(fn.Description)
		table.Add(sig)
		n.Functions++
	}
	for _, v := range spec.Variables {
		sig := symbols.NewSignifier(v.Name, symbols.KindBuiltinVariable, noSpan)
		sig.Flags = symbols.FlagNative
		if v.Set {
			sig.Flags |= symbols.FlagWritable
		}
		if v.Instance {
			sig.Flags |= symbols.FlagInstance
		}
		if v.Deprecated {
			sig.Flags |= symbols.FlagDeprecated
		}
		sig.Type = types.ParseType(v.Type)
		sig.Doc = clean(v.Description)
		table.Add(sig)
		n.Variables++
	}
	for _, c := range spec.Constants {
		sig := symbols.NewSignifier(c.Name, symbols.KindBuiltinConstant, noSpan)
		sig.Flags = symbols.FlagNative
		if c.Deprecated {
			sig.Flags |= symbols.FlagDeprecated
		}
		typ := c.Type
		if typ == "" && c.Class != "" {
			typ = "Constant." + c.Class
		}
		sig.Type = types.ParseType(typ)
		sig.Doc = clean(c.Description)
		table.Add(sig)
		n.Constants++
	}
}

func structName(name string) string {
	if strings.HasPrefix(name, "Struct.") {
		return name
	}
	return "Struct." + name
}

func enumName(name string) string {
	if strings.HasPrefix(name, "Enum.") || strings.HasPrefix(name, "Constant.") {
		return name
	}
	return "Enum." + name
}

// clean collapses the indentation XML descriptions carry.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
