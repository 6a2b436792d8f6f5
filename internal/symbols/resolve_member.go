package symbols

import (
	"fmt"

	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/token"
)

// VisitMember resolves a read of x.name.
func (w *walker) VisitMember(n *ast.MemberExpr, c scope) { w.member(n, c, false) }

// member resolves x.name when the receiver is lexically evident: global,
// self, an enum, a constructor (statics), an object asset, or a value whose
// advisory type has a member table. Any other receiver is only traversed.
// write is set for the target of a plain assignment.
func (w *walker) member(n *ast.MemberExpr, c scope, write bool) *Signifier {
	name := n.Name
	switch x := n.X.(type) {
	case *ast.KeywordExpr:
		switch x.Tok {
		case token.KwGlobal:
			if sig := w.env.Global.User(name.Name); sig != nil {
				w.ref(sig, name.Span())
				return sig
			}
			if sig := w.env.Global.Native().Get(name.Name); sig != nil && sig.Flags&FlagInstance == 0 {
				w.ref(sig, name.Span())
				return sig
			}
			w.miss(name)
			return nil
		case token.KwSelf:
			if c.self.Kind() == SelfGlobal {
				return nil
			}
			if sig := c.self.Lookup(name.Name); sig != nil {
				w.ref(sig, name.Span())
				return sig
			}
			if sig := w.env.Global.Native().Get(name.Name); sig != nil && sig.Flags&FlagInstance != 0 && c.self.Kind() == SelfInstance {
				w.ref(sig, name.Span())
				return sig
			}
			if write {
				return w.declareOnSelf(name, KindMember, c)
			}
			w.miss(name)
			return nil
		}
		return nil
	case *ast.Ident:
		base := w.resolve(x, c)
		if base == nil {
			return nil
		}
		return w.memberOf(base, name, true)
	}
	w.visit(n.X, c)
	return nil
}

// memberOf binds name on the value base stands for. record controls whether
// hits are recorded as references and enum misses reported.
func (w *walker) memberOf(base *Signifier, name *ast.Ident, record bool) *Signifier {
	var sig *Signifier
	switch {
	case base.Kind == KindEnum && base.Type != nil:
		sig = base.Type.Members().Get(name.Name)
		if sig == nil && record {
			w.fail(diag.SemaUnknownMember, name.Span(),
				fmt.Sprintf("enum %q has no member %q", base.Name, name.Name)).
				WithNote(base.Def, "enum declared here").
				Emit()
		}
	case base.Kind == KindConstructor && base.Type != nil && base.Type.Constructs != nil:
		if s := base.Type.Constructs.Member(name.Name); s != nil && s.Flags&FlagStatic != 0 {
			sig = s
		}
	case base.Kind == KindAsset && w.env.Object != nil:
		if inst := w.env.Object(base.Name); inst != nil {
			sig = inst.Lookup(name.Name)
		}
	case base.Type.HasMembers() && base.Kind != KindAsset:
		sig = base.Type.Member(name.Name)
	}
	if sig != nil && record {
		w.ref(sig, name.Span())
	}
	return sig
}

// memberTarget is member without side effects; type inference uses it.
func (w *walker) memberTarget(n *ast.MemberExpr, c scope) *Signifier {
	switch x := n.X.(type) {
	case *ast.KeywordExpr:
		switch x.Tok {
		case token.KwGlobal:
			return w.env.Global.User(n.Name.Name)
		case token.KwSelf:
			if c.self.Kind() == SelfGlobal {
				return nil
			}
			return c.self.Lookup(n.Name.Name)
		}
	case *ast.Ident:
		if base := w.lookup(x.Name, c); base != nil {
			return w.memberOf(base, n.Name, false)
		}
	}
	return nil
}
