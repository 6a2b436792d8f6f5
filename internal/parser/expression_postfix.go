package parser

import (
	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/token"
)

// parsePostfix applies calls, member access, accessors and x++ / x--.
func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.LParen:
			args, rparen := p.parseArgs()
			x = &ast.CallExpr{ExprBase: ast.ExprAt(p.spanFrom(x.Span())), Fn: x, Args: args, Rparen: rparen.Span}
		case tok.Kind == token.Dot:
			p.advance()
			name := p.peek()
			// struct fields may be spelled like keywords
			if name.Kind != token.Ident && !token.IsKeywordKind(name.Kind) {
				p.errAt(diag.SynExpectIdentifier, p.diagSpan(), "expected member name, found "+describe(name))
				return x
			}
			p.advance()
			x = &ast.MemberExpr{ExprBase: ast.ExprAt(p.spanFrom(x.Span())), X: x, Name: identFrom(name)}
		case tok.Kind.IsAccessorOpen():
			p.advance()
			idx := &ast.IndexExpr{X: x, Accessor: tok.Kind}
			for !p.atOr(token.RBracket, token.EOF) && !p.atListEnd() {
				idx.Indices = append(idx.Indices, p.parseExpr())
				if _, ok := p.eat(token.Comma); !ok {
					break
				}
			}
			if _, ok := p.eat(token.RBracket); !ok {
				p.errAt(diag.SynUnclosedBracket, tok.Span, "unclosed '"+tok.Text+"'")
			}
			idx.SetSpan(p.spanFrom(x.Span()))
			x = idx
		case tok.Kind == token.PlusPlus || tok.Kind == token.MinusMinus:
			p.advance()
			x = &ast.UpdateExpr{ExprBase: ast.ExprAt(p.spanFrom(x.Span())), Op: tok.Kind, X: x}
		default:
			return x
		}
	}
}

// parseArgs parses "(a, b, , c)". Empty slots are allowed in GML calls and
// become undefined at runtime; they are dropped here.
func (p *Parser) parseArgs() ([]ast.Expr, token.Token) {
	open := p.advance()
	var args []ast.Expr
	for !p.atOr(token.RParen, token.EOF) && !p.atListEnd() {
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		args = append(args, p.parseExpr())
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, ok := p.eat(token.RParen)
	if !ok {
		p.errAt(diag.SynUnclosedParen, open.Span, "unclosed '(' in call")
		closeTok = token.Token{Kind: token.Invalid, Span: p.diagSpan()}
	}
	return args, closeTok
}
