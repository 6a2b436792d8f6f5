package parser

import (
	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/token"
)

// parseExpr parses a full expression, ternary included.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseTernaryRest(p.parseBinary(precNullish))
}

func (p *Parser) parseTernaryRest(cond ast.Expr) ast.Expr {
	if _, ok := p.eat(token.Question); !ok {
		return cond
	}
	then := p.parseExpr()
	p.expect(token.Colon, diag.SynUnexpectedToken, "':' in conditional expression")
	els := p.parseExpr()
	return &ast.TernaryExpr{ExprBase: ast.ExprAt(cond.Span().Cover(els.Span())), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	return p.parseBinaryRest(p.parseUnary(), minPrec)
}

// parseBinaryRest is precedence climbing over an already parsed left operand.
func (p *Parser) parseBinaryRest(lhs ast.Expr, minPrec int) ast.Expr {
	for {
		op := p.peek().Kind
		prec := binaryPrec(op)
		if prec == precNone || prec < minPrec {
			return lhs
		}
		p.advance()
		if op == token.Assign {
			op = token.EqEq
		}
		// ?? is right-associative, everything else left
		nextMin := prec + 1
		if op == token.QuestionQuestion {
			nextMin = prec
		}
		rhs := p.parseBinary(nextMin)
		lhs = &ast.BinaryExpr{ExprBase: ast.ExprAt(lhs.Span().Cover(rhs.Span())), Op: op, X: lhs, Y: rhs}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.Minus, token.Plus, token.Bang, token.Tilde:
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{ExprBase: ast.ExprAt(tok.Span.Cover(x.Span())), Op: tok.Kind, X: x}
	case token.PlusPlus, token.MinusMinus:
		p.advance()
		x := p.parseUnary()
		return &ast.UpdateExpr{ExprBase: ast.ExprAt(tok.Span.Cover(x.Span())), Op: tok.Kind, X: x, Prefix: true}
	case token.KwNew:
		return p.parsePostfix(p.parseNew())
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return identFrom(tok)
	case token.NumberLit, token.StringLit, token.TemplateLit, token.KwTrue, token.KwFalse, token.KwUndefined:
		p.advance()
		return &ast.Literal{ExprBase: ast.ExprAt(tok.Span), Tok: tok.Kind, Value: tok.Text}
	case token.KwSelf, token.KwOther, token.KwAll, token.KwNoone, token.KwGlobal:
		p.advance()
		return &ast.KeywordExpr{ExprBase: ast.ExprAt(tok.Span), Tok: tok.Kind}
	case token.LParen:
		p.advance()
		x := p.parseExpr()
		if _, ok := p.eat(token.RParen); !ok {
			p.errAt(diag.SynUnclosedParen, tok.Span, "unclosed '('")
		}
		return &ast.ParenExpr{ExprBase: ast.ExprAt(p.spanFrom(tok.Span)), X: x}
	case token.LBracket:
		return p.parseArrayLit()
	case token.LBrace:
		return p.parseStructLit()
	case token.KwFunction:
		return p.parseFuncExpr(false)
	}
	sp := p.diagSpan()
	p.errAt(diag.SynExpectExpression, sp, "expected expression, found "+describe(tok))
	// leave delimiters for the enclosing construct
	if !p.atStmtBoundary() && !p.atOr(token.RParen, token.RBracket, token.Comma, token.Colon) {
		p.advance()
	}
	return &ast.BadExpr{ExprBase: ast.ExprAt(sp)}
}

func (p *Parser) parseNew() ast.Expr {
	kw := p.advance()
	var ctor ast.Expr
	if name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "constructor name"); ok {
		ctor = identFrom(name)
	} else {
		return &ast.BadExpr{ExprBase: ast.ExprAt(kw.Span)}
	}
	for p.at(token.Dot) {
		p.advance()
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "member name")
		if !ok {
			break
		}
		ctor = &ast.MemberExpr{ExprBase: ast.ExprAt(p.spanFrom(ctor.Span())), X: ctor, Name: identFrom(name)}
	}
	n := &ast.NewExpr{Ctor: ctor}
	if p.at(token.LParen) {
		n.Args, _ = p.parseArgs()
	}
	n.SetSpan(p.spanFrom(kw.Span))
	return n
}

func (p *Parser) parseArrayLit() ast.Expr {
	open := p.advance()
	lit := &ast.ArrayLit{}
	for !p.atOr(token.RBracket, token.EOF) && !p.atListEnd() {
		lit.Elems = append(lit.Elems, p.parseExpr())
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.eat(token.RBracket); !ok {
		p.errAt(diag.SynUnclosedBracket, open.Span, "unclosed '['")
	}
	lit.SetSpan(p.spanFrom(open.Span))
	return lit
}

// parseStructLit parses { name: value, other, "quoted": v }.
func (p *Parser) parseStructLit() ast.Expr {
	open := p.advance()
	lit := &ast.StructLit{}
	for !p.atOr(token.RBrace, token.EOF) {
		tok := p.peek()
		if tok.Kind != token.Ident && tok.Kind != token.StringLit && !token.IsKeywordKind(tok.Kind) {
			p.errAt(diag.SynExpectIdentifier, p.diagSpan(), "expected field name, found "+describe(tok))
			break
		}
		p.advance()
		field := &ast.StructField{Name: fieldIdent(tok)}
		if _, ok := p.eat(token.Colon); ok {
			field.Value = p.parseExpr()
		}
		field.Base = ast.At(p.spanFrom(tok.Span))
		lit.Fields = append(lit.Fields, field)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.eat(token.RBrace); !ok {
		p.errAt(diag.SynUnclosedBrace, open.Span, "unclosed '{' in struct literal")
		for !p.atOr(token.RBrace, token.EOF, token.Semicolon) {
			p.advance()
		}
		p.eat(token.RBrace)
	}
	lit.SetSpan(p.spanFrom(open.Span))
	return lit
}

func identFrom(tok token.Token) *ast.Ident {
	return &ast.Ident{ExprBase: ast.ExprAt(tok.Span), Name: tok.Text}
}

// fieldIdent names a struct field written as an identifier, keyword or string.
func fieldIdent(tok token.Token) *ast.Ident {
	name := tok.Text
	if tok.Kind == token.StringLit && len(name) >= 2 {
		name = name[1 : len(name)-1]
	}
	return &ast.Ident{ExprBase: ast.ExprAt(tok.Span), Name: name}
}
