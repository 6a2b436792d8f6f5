package ast

import "fmt"

// Children returns the direct children of n in source order. Absent
// optional children are skipped.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	switch n := n.(type) {
	case *File:
		for _, s := range n.Stmts {
			add(s)
		}
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *VarDecl:
		for _, d := range n.Items {
			add(d)
		}
	case *VarDeclarator:
		add(n.Name)
		add(n.Init)
	case *FunctionDecl:
		add(n.Func)
	case *EnumDecl:
		add(n.Name)
		for _, m := range n.Members {
			add(m)
		}
	case *EnumMember:
		add(n.Name)
		add(n.Value)
	case *MacroDecl:
		if n.Config != nil {
			add(n.Config)
		}
		add(n.Name)
		add(n.Body)
	case *IfStmt:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *WhileStmt:
		add(n.Cond)
		add(n.Body)
	case *DoUntilStmt:
		add(n.Body)
		add(n.Cond)
	case *RepeatStmt:
		add(n.Count)
		add(n.Body)
	case *ForStmt:
		add(n.Init)
		add(n.Cond)
		add(n.Post)
		add(n.Body)
	case *WithStmt:
		add(n.Target)
		add(n.Body)
	case *SwitchStmt:
		add(n.Tag)
		for _, cc := range n.Cases {
			add(cc)
		}
	case *CaseClause:
		add(n.Value)
		for _, s := range n.Body {
			add(s)
		}
	case *ReturnStmt:
		add(n.Value)
	case *ThrowStmt:
		add(n.Value)
	case *TryStmt:
		add(n.Body)
		if n.CatchParam != nil {
			add(n.CatchParam)
		}
		if n.Catch != nil {
			add(n.Catch)
		}
		if n.Finally != nil {
			add(n.Finally)
		}
	case *DeleteStmt:
		add(n.Target)
	case *ExprStmt:
		add(n.X)
	case *ExitStmt, *BreakStmt, *ContinueStmt, *EmptyStmt, *BadStmt,
		*Ident, *Literal, *KeywordExpr, *BadExpr:
	case *UnaryExpr:
		add(n.X)
	case *UpdateExpr:
		add(n.X)
	case *BinaryExpr:
		add(n.X)
		add(n.Y)
	case *AssignExpr:
		add(n.Target)
		add(n.Value)
	case *TernaryExpr:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *CallExpr:
		add(n.Fn)
		for _, a := range n.Args {
			add(a)
		}
	case *NewExpr:
		add(n.Ctor)
		for _, a := range n.Args {
			add(a)
		}
	case *MemberExpr:
		add(n.X)
		add(n.Name)
	case *IndexExpr:
		add(n.X)
		for _, i := range n.Indices {
			add(i)
		}
	case *ArrayLit:
		for _, e := range n.Elems {
			add(e)
		}
	case *StructLit:
		for _, f := range n.Fields {
			add(f)
		}
	case *StructField:
		add(n.Name)
		add(n.Value)
	case *FuncExpr:
		if n.Name != nil {
			add(n.Name)
		}
		for _, p := range n.Params {
			add(p)
		}
		if n.Inherits != nil {
			add(n.Inherits)
		}
		add(n.Body)
	case *Param:
		add(n.Name)
		add(n.Default)
	case *ParenExpr:
		add(n.X)
	default:
		panic(fmt.Sprintf("ast: unhandled node %T", n))
	}
	return out
}

// Inspect walks the tree depth first, calling f before the children of
// each node. Returning false skips the children.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}
