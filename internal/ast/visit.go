package ast

import "fmt"

// Visitor has one method per node kind. C is a context value the caller
// threads through the traversal.
type Visitor[C any] interface {
	VisitFile(n *File, c C)
	VisitBlock(n *Block, c C)
	VisitVarDecl(n *VarDecl, c C)
	VisitVarDeclarator(n *VarDeclarator, c C)
	VisitFunctionDecl(n *FunctionDecl, c C)
	VisitEnumDecl(n *EnumDecl, c C)
	VisitEnumMember(n *EnumMember, c C)
	VisitMacroDecl(n *MacroDecl, c C)
	VisitIf(n *IfStmt, c C)
	VisitWhile(n *WhileStmt, c C)
	VisitDoUntil(n *DoUntilStmt, c C)
	VisitRepeat(n *RepeatStmt, c C)
	VisitFor(n *ForStmt, c C)
	VisitWith(n *WithStmt, c C)
	VisitSwitch(n *SwitchStmt, c C)
	VisitCaseClause(n *CaseClause, c C)
	VisitReturn(n *ReturnStmt, c C)
	VisitExit(n *ExitStmt, c C)
	VisitBreak(n *BreakStmt, c C)
	VisitContinue(n *ContinueStmt, c C)
	VisitThrow(n *ThrowStmt, c C)
	VisitTry(n *TryStmt, c C)
	VisitDelete(n *DeleteStmt, c C)
	VisitExprStmt(n *ExprStmt, c C)
	VisitEmpty(n *EmptyStmt, c C)
	VisitBadStmt(n *BadStmt, c C)
	VisitIdent(n *Ident, c C)
	VisitLiteral(n *Literal, c C)
	VisitKeyword(n *KeywordExpr, c C)
	VisitUnary(n *UnaryExpr, c C)
	VisitUpdate(n *UpdateExpr, c C)
	VisitBinary(n *BinaryExpr, c C)
	VisitAssign(n *AssignExpr, c C)
	VisitTernary(n *TernaryExpr, c C)
	VisitCall(n *CallExpr, c C)
	VisitNew(n *NewExpr, c C)
	VisitMember(n *MemberExpr, c C)
	VisitIndex(n *IndexExpr, c C)
	VisitArrayLit(n *ArrayLit, c C)
	VisitStructLit(n *StructLit, c C)
	VisitStructField(n *StructField, c C)
	VisitFunc(n *FuncExpr, c C)
	VisitParam(n *Param, c C)
	VisitParen(n *ParenExpr, c C)
	VisitBadExpr(n *BadExpr, c C)
}

// Dispatch calls the Visitor method matching n's concrete type. A nil n is a no-op.
func Dispatch[C any](v Visitor[C], n Node, c C) {
	switch n := n.(type) {
	case nil:
	case *File:
		v.VisitFile(n, c)
	case *Block:
		v.VisitBlock(n, c)
	case *VarDecl:
		v.VisitVarDecl(n, c)
	case *VarDeclarator:
		v.VisitVarDeclarator(n, c)
	case *FunctionDecl:
		v.VisitFunctionDecl(n, c)
	case *EnumDecl:
		v.VisitEnumDecl(n, c)
	case *EnumMember:
		v.VisitEnumMember(n, c)
	case *MacroDecl:
		v.VisitMacroDecl(n, c)
	case *IfStmt:
		v.VisitIf(n, c)
	case *WhileStmt:
		v.VisitWhile(n, c)
	case *DoUntilStmt:
		v.VisitDoUntil(n, c)
	case *RepeatStmt:
		v.VisitRepeat(n, c)
	case *ForStmt:
		v.VisitFor(n, c)
	case *WithStmt:
		v.VisitWith(n, c)
	case *SwitchStmt:
		v.VisitSwitch(n, c)
	case *CaseClause:
		v.VisitCaseClause(n, c)
	case *ReturnStmt:
		v.VisitReturn(n, c)
	case *ExitStmt:
		v.VisitExit(n, c)
	case *BreakStmt:
		v.VisitBreak(n, c)
	case *ContinueStmt:
		v.VisitContinue(n, c)
	case *ThrowStmt:
		v.VisitThrow(n, c)
	case *TryStmt:
		v.VisitTry(n, c)
	case *DeleteStmt:
		v.VisitDelete(n, c)
	case *ExprStmt:
		v.VisitExprStmt(n, c)
	case *EmptyStmt:
		v.VisitEmpty(n, c)
	case *BadStmt:
		v.VisitBadStmt(n, c)
	case *Ident:
		v.VisitIdent(n, c)
	case *Literal:
		v.VisitLiteral(n, c)
	case *KeywordExpr:
		v.VisitKeyword(n, c)
	case *UnaryExpr:
		v.VisitUnary(n, c)
	case *UpdateExpr:
		v.VisitUpdate(n, c)
	case *BinaryExpr:
		v.VisitBinary(n, c)
	case *AssignExpr:
		v.VisitAssign(n, c)
	case *TernaryExpr:
		v.VisitTernary(n, c)
	case *CallExpr:
		v.VisitCall(n, c)
	case *NewExpr:
		v.VisitNew(n, c)
	case *MemberExpr:
		v.VisitMember(n, c)
	case *IndexExpr:
		v.VisitIndex(n, c)
	case *ArrayLit:
		v.VisitArrayLit(n, c)
	case *StructLit:
		v.VisitStructLit(n, c)
	case *StructField:
		v.VisitStructField(n, c)
	case *FuncExpr:
		v.VisitFunc(n, c)
	case *Param:
		v.VisitParam(n, c)
	case *ParenExpr:
		v.VisitParen(n, c)
	case *BadExpr:
		v.VisitBadExpr(n, c)
	default:
		panic(fmt.Sprintf("ast: unhandled node %T", n))
	}
}
