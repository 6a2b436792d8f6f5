// Package ast is the syntax tree of one GML file.
//
// Node is a closed union: every concrete node is listed in the Kind enum and
// has a method on Visitor. Adding a kind without extending Visitor, Dispatch
// and Children fails to compile (see the length checks in kind.go) or fails
// the exhaustiveness test.
package ast

import "gmlsem/internal/source"

// Node is implemented only by the types in this package.
type Node interface {
	Span() source.Span
	Kind() Kind
	node()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Base carries the span every node has.
type Base struct {
	Sp source.Span
}

// At builds a Base for sp.
func At(sp source.Span) Base { return Base{Sp: sp} }

func (b *Base) Span() source.Span { return b.Sp }
func (*Base) node()               {}

// StmtBase is embedded by statement nodes.
type StmtBase struct{ Base }

func (*StmtBase) stmt() {}

// StmtAt builds a StmtBase for sp.
func StmtAt(sp source.Span) StmtBase { return StmtBase{Base{Sp: sp}} }

// ExprBase is embedded by expression nodes.
type ExprBase struct{ Base }

func (*ExprBase) expr() {}

// ExprAt builds an ExprBase for sp.
func ExprAt(sp source.Span) ExprBase { return ExprBase{Base{Sp: sp}} }

// SetSpan widens or moves a node after construction, e.g. when the parser
// learns where a postfix chain ends.
func (b *Base) SetSpan(sp source.Span) { b.Sp = sp }
