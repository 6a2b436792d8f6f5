package ast

import (
	"gmlsem/internal/source"
	"gmlsem/internal/token"
)

type Ident struct {
	ExprBase
	Name string
}

// Literal is a number, string, template string, true, false or undefined.
type Literal struct {
	ExprBase
	Tok   token.Kind
	Value string
}

// KeywordExpr is self, other, all, noone or global used as a value.
type KeywordExpr struct {
	ExprBase
	Tok token.Kind
}

type UnaryExpr struct {
	ExprBase
	Op Op
	X  Expr
}

// UpdateExpr is ++x, x++, --x or x--.
type UpdateExpr struct {
	ExprBase
	Op     Op
	X      Expr
	Prefix bool
}

type BinaryExpr struct {
	ExprBase
	Op Op
	X  Expr
	Y  Expr
}

// AssignExpr covers "=" and every compound assignment. GML assignments are
// statements, but the parser keeps them as expressions inside ExprStmt so
// for headers and macro bodies share one shape.
type AssignExpr struct {
	ExprBase
	Op     Op
	Target Expr
	Value  Expr
}

type TernaryExpr struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

type CallExpr struct {
	ExprBase
	Fn     Expr
	Args   []Expr
	Rparen source.Span
}

type NewExpr struct {
	ExprBase
	Ctor Expr
	Args []Expr
}

type MemberExpr struct {
	ExprBase
	X    Expr
	Name *Ident
}

type IndexExpr struct {
	ExprBase
	X        Expr
	Accessor token.Kind // LBracket, LBracketAt, LBracketQ, ...
	Indices  []Expr
}

type ArrayLit struct {
	ExprBase
	Elems []Expr
}

type StructLit struct {
	ExprBase
	Fields []*StructField
}

type StructField struct {
	Base
	Name  *Ident
	Value Expr // nil for the shorthand {name}
}

// FuncExpr is a function literal; FunctionDecl wraps the named statement form.
type FuncExpr struct {
	ExprBase
	Name          *Ident // nil when anonymous
	Lparen        source.Span
	Params        []*Param
	Inherits      *CallExpr // ": Parent(args)" on constructors
	IsConstructor bool
	Body          *Block
	Doc           string
}

type Param struct {
	Base
	Name    *Ident
	Default Expr // nil without default
}

type ParenExpr struct {
	ExprBase
	X Expr
}

// BadExpr stands in for an expression that failed to parse.
type BadExpr struct{ ExprBase }

func (*Ident) Kind() Kind       { return KindIdent }
func (*Literal) Kind() Kind     { return KindLiteral }
func (*KeywordExpr) Kind() Kind { return KindKeyword }
func (*UnaryExpr) Kind() Kind   { return KindUnary }
func (*UpdateExpr) Kind() Kind  { return KindUpdate }
func (*BinaryExpr) Kind() Kind  { return KindBinary }
func (*AssignExpr) Kind() Kind  { return KindAssign }
func (*TernaryExpr) Kind() Kind { return KindTernary }
func (*CallExpr) Kind() Kind    { return KindCall }
func (*NewExpr) Kind() Kind     { return KindNew }
func (*MemberExpr) Kind() Kind  { return KindMember }
func (*IndexExpr) Kind() Kind   { return KindIndex }
func (*ArrayLit) Kind() Kind    { return KindArrayLit }
func (*StructLit) Kind() Kind   { return KindStructLit }
func (*StructField) Kind() Kind { return KindStructField }
func (*FuncExpr) Kind() Kind    { return KindFunc }
func (*Param) Kind() Kind       { return KindParam }
func (*ParenExpr) Kind() Kind   { return KindParen }
func (*BadExpr) Kind() Kind     { return KindBadExpr }
