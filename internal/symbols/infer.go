package symbols

import (
	"gmlsem/internal/ast"
	"gmlsem/internal/token"
)

// literalType infers the type of expressions that need no name lookup.
func literalType(e ast.Expr) *Type {
	switch e := e.(type) {
	case *ast.Literal:
		switch e.Tok {
		case token.NumberLit:
			return Real
		case token.StringLit, token.TemplateLit:
			return String
		case token.KwTrue, token.KwFalse:
			return Bool
		case token.KwUndefined:
			return Undefined
		}
	case *ast.ArrayLit:
		var elem *Type
		for _, it := range e.Elems {
			elem = Union(elem, literalType(it))
		}
		return NewArray(elem)
	case *ast.FuncExpr:
		return NewFunction(nil, nil)
	case *ast.ParenExpr:
		return literalType(e.X)
	case *ast.UnaryExpr:
		switch e.Op {
		case token.Bang:
			return Bool
		case token.Minus, token.Plus, token.Tilde:
			return Real
		}
	case *ast.BinaryExpr:
		return binaryType(e.Op, literalType(e.X), literalType(e.Y))
	}
	return nil
}

func binaryType(op token.Kind, x, y *Type) *Type {
	switch op {
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.AndAnd, token.OrOr, token.XorXor:
		return Bool
	case token.Plus:
		if (x != nil && x.Kind == TypeString) || (y != nil && y.Kind == TypeString) {
			return String
		}
		return Real
	case token.QuestionQuestion:
		return Union(x, y)
	default:
		return Real
	}
}

// exprType infers a type using the signifiers the walker resolved.
func (w *walker) exprType(e ast.Expr, c scope) *Type {
	switch e := e.(type) {
	case *ast.Ident:
		if s := w.lookup(e.Name, c); s != nil {
			return s.Type
		}
		return nil
	case *ast.NewExpr:
		if id, ok := e.Ctor.(*ast.Ident); ok {
			if s := w.lookup(id.Name, c); s != nil && s.Type != nil && s.Type.Constructs != nil {
				return s.Type.Constructs
			}
		}
		return &Type{Kind: TypeStruct, Name: "Struct"}
	case *ast.CallExpr:
		if id, ok := e.Fn.(*ast.Ident); ok {
			if s := w.lookup(id.Name, c); s != nil && s.Type != nil && s.Type.Kind == TypeFunction {
				return s.Type.Returns
			}
		}
		return nil
	case *ast.StructLit:
		return w.structLitType(e)
	case *ast.FuncExpr:
		if t := w.funcTypes[e]; t != nil {
			return t
		}
		return NewFunction(nil, nil)
	case *ast.MemberExpr:
		if s := w.memberTarget(e, c); s != nil {
			return s.Type
		}
		return nil
	case *ast.ParenExpr:
		return w.exprType(e.X, c)
	case *ast.TernaryExpr:
		return Union(w.exprType(e.Then, c), w.exprType(e.Else, c))
	case *ast.BinaryExpr:
		return binaryType(e.Op, w.exprType(e.X, c), w.exprType(e.Y, c))
	case *ast.ArrayLit:
		var elem *Type
		for _, it := range e.Elems {
			elem = Union(elem, w.exprType(it, c))
		}
		return NewArray(elem)
	}
	return literalType(e)
}

// assignType records t on s the first time s gets a type; later different
// types widen it to a union.
func assignType(s *Signifier, t *Type) {
	if s == nil || t.IsUnknown() || s.Native() {
		return
	}
	if s.Kind == KindFunction || s.Kind == KindConstructor || s.Kind == KindEnum || s.Kind == KindEnumMember {
		return
	}
	s.Type = Union(s.Type, t)
}
