package ast

import (
	"testing"

	"gmlsem/internal/source"
	"gmlsem/internal/token"
)

func ident(name string, start uint32) *Ident {
	return &Ident{ExprBase: ExprAt(source.Span{File: 1, Start: start, End: start + uint32(len(name))}), Name: name}
}

func sampleNodes() []Node {
	x := ident("x", 0)
	blk := &Block{}
	fn := &FuncExpr{Name: ident("f", 0), Params: []*Param{{Name: ident("p", 0)}}, Body: blk}
	return []Node{
		&File{}, blk, &VarDecl{}, &VarDeclarator{Name: x}, &FunctionDecl{Func: fn},
		&EnumDecl{Name: x}, &EnumMember{Name: x}, &MacroDecl{Name: x},
		&IfStmt{Cond: x, Then: &EmptyStmt{}}, &WhileStmt{Cond: x, Body: blk},
		&DoUntilStmt{Body: blk, Cond: x}, &RepeatStmt{Count: x, Body: blk},
		&ForStmt{Body: blk}, &WithStmt{Target: x, Body: blk},
		&SwitchStmt{Tag: x}, &CaseClause{}, &ReturnStmt{}, &ExitStmt{}, &BreakStmt{},
		&ContinueStmt{}, &ThrowStmt{Value: x}, &TryStmt{Body: blk}, &DeleteStmt{Target: x},
		&ExprStmt{X: x}, &EmptyStmt{}, &BadStmt{}, x, &Literal{Tok: token.NumberLit},
		&KeywordExpr{Tok: token.KwSelf}, &UnaryExpr{X: x}, &UpdateExpr{X: x},
		&BinaryExpr{X: x, Y: x}, &AssignExpr{Target: x, Value: x},
		&TernaryExpr{Cond: x, Then: x, Else: x}, &CallExpr{Fn: x}, &NewExpr{Ctor: x},
		&MemberExpr{X: x, Name: x}, &IndexExpr{X: x}, &ArrayLit{}, &StructLit{},
		&StructField{Name: x}, fn, &Param{Name: x}, &ParenExpr{X: x}, &BadExpr{},
	}
}

func TestEveryKindHasANode(t *testing.T) {
	seen := make(map[Kind]bool)
	for _, n := range sampleNodes() {
		if seen[n.Kind()] {
			t.Fatalf("kind %v listed twice", n.Kind())
		}
		seen[n.Kind()] = true
		// must not panic
		_ = Children(n)
	}
	if len(seen) != NumKinds {
		t.Fatalf("sample covers %d kinds, want %d", len(seen), NumKinds)
	}
}

func TestInspectOrder(t *testing.T) {
	// a = b + c;
	a, b, c := ident("a", 0), ident("b", 4), ident("c", 8)
	file := &File{Stmts: []Stmt{&ExprStmt{X: &AssignExpr{Op: token.Assign, Target: a, Value: &BinaryExpr{Op: token.Plus, X: b, Y: c}}}}}
	var names []string
	Inspect(file, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Fatalf("unexpected order %v", names)
	}
}

func TestInspectSkipsChildren(t *testing.T) {
	inner := ident("inner", 10)
	fn := &FuncExpr{Body: &Block{Stmts: []Stmt{&ExprStmt{X: inner}}}}
	file := &File{Stmts: []Stmt{&ExprStmt{X: fn}}}
	Inspect(file, func(n Node) bool {
		if n == Node(inner) {
			t.Fatalf("children of a function must be skipped")
		}
		_, isFunc := n.(*FuncExpr)
		return !isFunc
	})
}
