package parser

import (
	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/token"
)

// parseStmt dispatches on the first token. Trailing semicolons are optional in GML.
func (p *Parser) parseStmt() ast.Stmt {
	tok := p.peek()
	var st ast.Stmt
	switch tok.Kind {
	case token.Semicolon:
		p.advance()
		return &ast.EmptyStmt{StmtBase: ast.StmtAt(tok.Span)}
	case token.LBrace:
		st = p.parseBlock()
	case token.KwVar, token.KwGlobalVar, token.KwStatic:
		st = p.parseVarDecl()
	case token.KwFunction:
		if p.isFunctionDecl() {
			st = p.parseFunctionDecl()
		} else {
			st = p.parseSimpleStmt()
		}
	case token.KwEnum:
		st = p.parseEnumDecl()
	case token.HashMacro:
		return p.parseMacroDecl()
	case token.KwIf:
		st = p.parseIf()
	case token.KwWhile:
		st = p.parseWhile()
	case token.KwDo:
		st = p.parseDoUntil()
	case token.KwRepeat:
		st = p.parseRepeat()
	case token.KwFor:
		st = p.parseFor()
	case token.KwWith:
		st = p.parseWith()
	case token.KwSwitch:
		st = p.parseSwitch()
	case token.KwTry:
		st = p.parseTry()
	case token.KwReturn:
		st = p.parseReturn()
	case token.KwExit:
		p.advance()
		st = &ast.ExitStmt{StmtBase: ast.StmtAt(tok.Span)}
	case token.KwBreak:
		p.advance()
		st = &ast.BreakStmt{StmtBase: ast.StmtAt(tok.Span)}
	case token.KwContinue:
		p.advance()
		st = &ast.ContinueStmt{StmtBase: ast.StmtAt(tok.Span)}
	case token.KwThrow:
		p.advance()
		val := p.parseExpr()
		st = &ast.ThrowStmt{StmtBase: ast.StmtAt(p.spanFrom(tok.Span)), Value: val}
	case token.KwDelete:
		p.advance()
		target := p.parseExpr()
		st = &ast.DeleteStmt{StmtBase: ast.StmtAt(p.spanFrom(tok.Span)), Target: target}
	case token.KwCase, token.KwDefault:
		p.advance()
		p.errAt(diag.SynCaseOutsideSwitch, tok.Span, tok.Text+" outside switch")
		return &ast.BadStmt{StmtBase: ast.StmtAt(p.resync(tok.Span))}
	case token.RBrace, token.KwElse, token.KwUntil, token.KwCatch, token.KwFinally, token.RParen, token.RBracket:
		p.advance()
		p.errAt(diag.SynUnexpectedToken, tok.Span, "unexpected "+describe(tok))
		return &ast.BadStmt{StmtBase: ast.StmtAt(tok.Span)}
	default:
		st = p.parseSimpleStmt()
	}
	p.eat(token.Semicolon)
	return st
}

// isFunctionDecl distinguishes "function name(" from an anonymous function
// literal used as an expression statement.
func (p *Parser) isFunctionDecl() bool {
	// the lexer buffers one token; cloning its state is cheaper than a second buffer
	saved := *p.lx
	p.lx.Next()
	next := p.lx.Peek()
	*p.lx = saved
	return next.Kind == token.Ident
}

func (p *Parser) parseBlock() *ast.Block {
	open := p.advance() // '{'
	blk := &ast.Block{}
	for !p.atOr(token.RBrace, token.EOF) {
		blk.Stmts = append(blk.Stmts, p.parseStmtGuarded())
	}
	if closeTok, ok := p.eat(token.RBrace); ok {
		blk.Rbrace = closeTok.Span
	} else {
		p.errAt(diag.SynUnclosedBrace, open.Span, "unclosed '{'")
		blk.Rbrace = p.diagSpan()
	}
	blk.SetSpan(p.spanFrom(open.Span))
	return blk
}

// parseBody parses the body of a control statement: a block or a single statement.
func (p *Parser) parseBody() ast.Stmt {
	if p.at(token.EOF) {
		p.errAt(diag.SynExpectExpression, p.diagSpan(), "expected statement, found end of file")
		return &ast.BadStmt{StmtBase: ast.StmtAt(p.diagSpan())}
	}
	return p.parseStmtGuarded()
}

func (p *Parser) parseVarDecl() ast.Stmt {
	kw := p.advance()
	decl := &ast.VarDecl{Decl: ast.DeclVar}
	switch kw.Kind {
	case token.KwStatic:
		decl.Decl = ast.DeclStatic
	case token.KwGlobalVar:
		decl.Decl = ast.DeclGlobalVar
	}
	doc := kw.Doc()
	for {
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "identifier")
		if !ok {
			return &ast.BadStmt{StmtBase: ast.StmtAt(p.resync(kw.Span))}
		}
		item := &ast.VarDeclarator{Name: identFrom(nameTok), Doc: doc}
		if _, ok := p.eat(token.Assign); ok {
			item.Init = p.parseExpr()
		} else if _, ok := p.eat(token.ColonAssign); ok {
			item.Init = p.parseExpr()
		}
		item.Base = ast.At(p.spanFrom(nameTok.Span))
		decl.Items = append(decl.Items, item)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	decl.SetSpan(p.spanFrom(kw.Span))
	return decl
}

// parseSimpleStmt parses an assignment, an update or a bare expression.
// "=" at statement level assigns; inside expressions it compares.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	start := p.peek().Span
	lhs := p.parseUnary()
	if op := p.peek().Kind; op.IsAssign() {
		p.advance()
		if !isAssignable(lhs) {
			p.errAt(diag.SynBadAssignTarget, lhs.Span(), "cannot assign to this expression")
		}
		val := p.parseExpr()
		asg := &ast.AssignExpr{ExprBase: ast.ExprAt(p.spanFrom(start)), Op: op, Target: lhs, Value: val}
		return &ast.ExprStmt{StmtBase: ast.StmtAt(asg.Span()), X: asg}
	}
	x := p.parseTernaryRest(p.parseBinaryRest(lhs, precNullish))
	if _, bad := x.(*ast.BadExpr); bad {
		return &ast.BadStmt{StmtBase: ast.StmtAt(p.resync(start))}
	}
	return &ast.ExprStmt{StmtBase: ast.StmtAt(p.spanFrom(start)), X: x}
}

func isAssignable(x ast.Expr) bool {
	switch x := x.(type) {
	case *ast.Ident, *ast.MemberExpr, *ast.IndexExpr:
		return true
	case *ast.ParenExpr:
		return isAssignable(x.X)
	}
	return false
}

func (p *Parser) parseReturn() ast.Stmt {
	kw := p.advance()
	st := &ast.ReturnStmt{}
	if !p.atListEnd() && !p.atOr(token.KwCase, token.KwDefault) {
		st.Value = p.parseExpr()
	}
	st.SetSpan(p.spanFrom(kw.Span))
	return st
}
