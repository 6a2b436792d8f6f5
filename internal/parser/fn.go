package parser

import (
	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/token"
)

func (p *Parser) parseFunctionDecl() ast.Stmt {
	start := p.peek().Span
	fn, ok := p.parseFuncExpr(true).(*ast.FuncExpr)
	if !ok {
		return &ast.BadStmt{StmtBase: ast.StmtAt(p.resync(start))}
	}
	return &ast.FunctionDecl{StmtBase: ast.StmtAt(fn.Span()), Func: fn}
}

// parseFuncExpr parses
//
//	function [name](a, b = 1) [: Parent(args)] [constructor] { ... }
//
// named requires the name.
func (p *Parser) parseFuncExpr(named bool) ast.Expr {
	kw := p.advance()
	fn := &ast.FuncExpr{Doc: kw.Doc()}
	if name, ok := p.eat(token.Ident); ok {
		fn.Name = identFrom(name)
	} else if named {
		p.expect(token.Ident, diag.SynExpectIdentifier, "function name")
	}

	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'('")
	if !ok {
		return &ast.BadExpr{ExprBase: ast.ExprAt(p.spanFrom(kw.Span))}
	}
	fn.Lparen = open.Span
	for !p.atOr(token.RParen, token.EOF) && !p.atListEnd() {
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "parameter name")
		if !ok {
			break
		}
		param := &ast.Param{Name: identFrom(nameTok)}
		if _, ok := p.eat(token.Assign); ok {
			param.Default = p.parseExpr()
		}
		param.Base = ast.At(p.spanFrom(nameTok.Span))
		fn.Params = append(fn.Params, param)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.eat(token.RParen); !ok {
		p.errAt(diag.SynUnclosedParen, open.Span, "unclosed '(' in parameter list")
		for !p.atOr(token.RParen, token.LBrace, token.Colon, token.KwConstructor) && !p.atListEnd() {
			p.advance()
		}
		p.eat(token.RParen)
	}

	if _, ok := p.eat(token.Colon); ok {
		if parent, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "parent constructor"); ok {
			call := &ast.CallExpr{Fn: identFrom(parent)}
			if p.at(token.LParen) {
				args, rparen := p.parseArgs()
				call.Args = args
				call.Rparen = rparen.Span
			}
			call.SetSpan(p.spanFrom(parent.Span))
			fn.Inherits = call
		}
	}
	if _, ok := p.eat(token.KwConstructor); ok {
		fn.IsConstructor = true
	}
	fn.Body = p.parseBlockOrBad()
	fn.SetSpan(p.spanFrom(kw.Span))
	return fn
}
