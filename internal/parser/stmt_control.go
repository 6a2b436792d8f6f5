package parser

import (
	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/token"
)

func (p *Parser) parseIf() ast.Stmt {
	kw := p.advance()
	st := &ast.IfStmt{Cond: p.parseExpr()}
	p.eat(token.KwThen)
	st.Then = p.parseBody()
	p.eat(token.Semicolon)
	if _, ok := p.eat(token.KwElse); ok {
		st.Else = p.parseBody()
	}
	st.SetSpan(p.spanFrom(kw.Span))
	return st
}

func (p *Parser) parseWhile() ast.Stmt {
	kw := p.advance()
	st := &ast.WhileStmt{Cond: p.parseExpr()}
	p.eat(token.KwDo)
	st.Body = p.parseBody()
	st.SetSpan(p.spanFrom(kw.Span))
	return st
}

func (p *Parser) parseDoUntil() ast.Stmt {
	kw := p.advance()
	st := &ast.DoUntilStmt{Body: p.parseBody()}
	p.eat(token.Semicolon)
	if _, ok := p.expect(token.KwUntil, diag.SynUnexpectedToken, "'until'"); ok {
		st.Cond = p.parseExpr()
	} else {
		st.Cond = &ast.BadExpr{ExprBase: ast.ExprAt(p.diagSpan())}
	}
	st.SetSpan(p.spanFrom(kw.Span))
	return st
}

func (p *Parser) parseRepeat() ast.Stmt {
	kw := p.advance()
	st := &ast.RepeatStmt{Count: p.parseExpr()}
	st.Body = p.parseBody()
	st.SetSpan(p.spanFrom(kw.Span))
	return st
}

func (p *Parser) parseWith() ast.Stmt {
	kw := p.advance()
	st := &ast.WithStmt{Target: p.parseExpr()}
	st.Body = p.parseBody()
	st.SetSpan(p.spanFrom(kw.Span))
	return st
}

// parseFor handles for (init; cond; post) body. Every header part may be empty.
func (p *Parser) parseFor() ast.Stmt {
	kw := p.advance()
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'('")
	if !ok {
		return &ast.BadStmt{StmtBase: ast.StmtAt(p.resync(kw.Span))}
	}
	st := &ast.ForStmt{}
	if !p.at(token.Semicolon) {
		if p.atOr(token.KwVar, token.KwStatic, token.KwGlobalVar) {
			st.Init = p.parseVarDecl()
		} else {
			st.Init = p.parseSimpleStmt()
		}
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'")
	if !p.at(token.Semicolon) {
		st.Cond = p.parseExpr()
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'")
	if !p.at(token.RParen) {
		st.Post = p.parseSimpleStmt()
	}
	if _, ok := p.eat(token.RParen); !ok {
		p.errAt(diag.SynUnclosedParen, open.Span, "unclosed '(' in for header")
	}
	st.Body = p.parseBody()
	st.SetSpan(p.spanFrom(kw.Span))
	return st
}

func (p *Parser) parseSwitch() ast.Stmt {
	kw := p.advance()
	st := &ast.SwitchStmt{Tag: p.parseExpr()}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "'{'")
	if !ok {
		st.SetSpan(p.resync(kw.Span))
		return st
	}
	var cur *ast.CaseClause
	for !p.atOr(token.RBrace, token.EOF) {
		if p.atOr(token.KwCase, token.KwDefault) {
			label := p.advance()
			cur = &ast.CaseClause{}
			if label.Kind == token.KwCase {
				cur.Value = p.parseExpr()
			}
			p.expect(token.Colon, diag.SynUnexpectedToken, "':'")
			cur.Base = ast.At(p.spanFrom(label.Span))
			st.Cases = append(st.Cases, cur)
			continue
		}
		s := p.parseStmtGuarded()
		if cur == nil {
			// statements before the first case label
			cur = &ast.CaseClause{Base: ast.At(s.Span())}
			st.Cases = append(st.Cases, cur)
		}
		cur.Body = append(cur.Body, s)
		cur.Base = ast.At(cur.Span().Cover(s.Span()))
	}
	if _, ok := p.eat(token.RBrace); !ok {
		p.errAt(diag.SynUnclosedBrace, open.Span, "unclosed '{' in switch")
	}
	st.SetSpan(p.spanFrom(kw.Span))
	return st
}

func (p *Parser) parseTry() ast.Stmt {
	kw := p.advance()
	st := &ast.TryStmt{Body: p.parseBlockOrBad()}
	if _, ok := p.eat(token.KwCatch); ok {
		if open, ok := p.eat(token.LParen); ok {
			if name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "identifier"); ok {
				st.CatchParam = identFrom(name)
			}
			if _, ok := p.eat(token.RParen); !ok {
				p.errAt(diag.SynUnclosedParen, open.Span, "unclosed '(' in catch")
			}
		}
		st.Catch = p.parseBlockOrBad()
	}
	if _, ok := p.eat(token.KwFinally); ok {
		st.Finally = p.parseBlockOrBad()
	}
	st.SetSpan(p.spanFrom(kw.Span))
	return st
}

// parseBlockOrBad requires a '{' block; without one it returns an empty block.
func (p *Parser) parseBlockOrBad() *ast.Block {
	if p.at(token.LBrace) {
		return p.parseBlock()
	}
	sp := p.diagSpan()
	p.errAt(diag.SynUnexpectedToken, sp, "expected '{', found "+describe(p.peek()))
	return &ast.Block{StmtBase: ast.StmtAt(sp), Rbrace: sp}
}
