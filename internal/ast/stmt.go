package ast

import (
	"gmlsem/internal/source"
	"gmlsem/internal/token"
)

// File is the root of one source file.
type File struct {
	Base
	Stmts []Stmt
}

type Block struct {
	StmtBase
	Stmts  []Stmt
	Rbrace source.Span
}

// DeclKind tells var, static and globalvar declarations apart.
type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclStatic
	DeclGlobalVar
)

func (k DeclKind) String() string {
	switch k {
	case DeclStatic:
		return "static"
	case DeclGlobalVar:
		return "globalvar"
	default:
		return "var"
	}
}

type VarDecl struct {
	StmtBase
	Decl  DeclKind
	Items []*VarDeclarator
}

type VarDeclarator struct {
	Base
	Name *Ident
	Init Expr // nil when absent
	Doc  string
}

// FunctionDecl is the statement form "function name(...) {...}".
type FunctionDecl struct {
	StmtBase
	Func *FuncExpr
}

type EnumDecl struct {
	StmtBase
	Name    *Ident
	Members []*EnumMember
	Doc     string
}

type EnumMember struct {
	Base
	Name  *Ident
	Value Expr // nil when implicit
}

// MacroDecl is "#macro [config:]NAME body".
type MacroDecl struct {
	StmtBase
	Config *Ident // nil without a configuration prefix
	Name   *Ident
	Body   Expr // nil when the body is empty or not an expression
	Doc    string
}

type IfStmt struct {
	StmtBase
	Cond Expr
	Then Stmt
	Else Stmt // nil without else
}

type WhileStmt struct {
	StmtBase
	Cond Expr
	Body Stmt
}

type DoUntilStmt struct {
	StmtBase
	Body Stmt
	Cond Expr
}

type RepeatStmt struct {
	StmtBase
	Count Expr
	Body  Stmt
}

type ForStmt struct {
	StmtBase
	Init Stmt // nil when empty
	Cond Expr // nil when empty
	Post Stmt // nil when empty
	Body Stmt
}

type WithStmt struct {
	StmtBase
	Target Expr
	Body   Stmt
}

type SwitchStmt struct {
	StmtBase
	Tag   Expr
	Cases []*CaseClause
}

type CaseClause struct {
	Base
	Value Expr // nil for default
	Body  []Stmt
}

type ReturnStmt struct {
	StmtBase
	Value Expr // nil for bare return
}

type ExitStmt struct{ StmtBase }

type BreakStmt struct{ StmtBase }

type ContinueStmt struct{ StmtBase }

type ThrowStmt struct {
	StmtBase
	Value Expr
}

type TryStmt struct {
	StmtBase
	Body       *Block
	CatchParam *Ident // nil without catch or without a parameter
	Catch      *Block // nil without catch
	Finally    *Block // nil without finally
}

type DeleteStmt struct {
	StmtBase
	Target Expr
}

type ExprStmt struct {
	StmtBase
	X Expr
}

type EmptyStmt struct{ StmtBase }

// BadStmt covers source the parser skipped while recovering.
type BadStmt struct{ StmtBase }

// Op is shared by unary, binary and assignment nodes.
type Op = token.Kind

func (*File) Kind() Kind          { return KindFile }
func (*Block) Kind() Kind         { return KindBlock }
func (*VarDecl) Kind() Kind       { return KindVarDecl }
func (*VarDeclarator) Kind() Kind { return KindVarDeclarator }
func (*FunctionDecl) Kind() Kind  { return KindFunctionDecl }
func (*EnumDecl) Kind() Kind      { return KindEnumDecl }
func (*EnumMember) Kind() Kind    { return KindEnumMember }
func (*MacroDecl) Kind() Kind     { return KindMacroDecl }
func (*IfStmt) Kind() Kind        { return KindIf }
func (*WhileStmt) Kind() Kind     { return KindWhile }
func (*DoUntilStmt) Kind() Kind   { return KindDoUntil }
func (*RepeatStmt) Kind() Kind    { return KindRepeat }
func (*ForStmt) Kind() Kind       { return KindFor }
func (*WithStmt) Kind() Kind      { return KindWith }
func (*SwitchStmt) Kind() Kind    { return KindSwitch }
func (*CaseClause) Kind() Kind    { return KindCaseClause }
func (*ReturnStmt) Kind() Kind    { return KindReturn }
func (*ExitStmt) Kind() Kind      { return KindExit }
func (*BreakStmt) Kind() Kind     { return KindBreak }
func (*ContinueStmt) Kind() Kind  { return KindContinue }
func (*ThrowStmt) Kind() Kind     { return KindThrow }
func (*TryStmt) Kind() Kind       { return KindTry }
func (*DeleteStmt) Kind() Kind    { return KindDelete }
func (*ExprStmt) Kind() Kind      { return KindExprStmt }
func (*EmptyStmt) Kind() Kind     { return KindEmpty }
func (*BadStmt) Kind() Kind       { return KindBadStmt }
