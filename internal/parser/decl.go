package parser

import (
	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/token"
)

// parseEnumDecl parses enum Name { A, B = 3, C }.
func (p *Parser) parseEnumDecl() ast.Stmt {
	kw := p.advance()
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "enum name")
	if !ok {
		return &ast.BadStmt{StmtBase: ast.StmtAt(p.resync(kw.Span))}
	}
	decl := &ast.EnumDecl{Name: identFrom(nameTok), Doc: kw.Doc()}
	open, ok := p.expect(token.LBrace, diag.SynEnumExpectBody, "'{'")
	if !ok {
		decl.SetSpan(p.resync(kw.Span))
		return decl
	}
	for !p.atOr(token.RBrace, token.EOF) {
		member, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "enum member")
		if !ok {
			for !p.atOr(token.Comma, token.RBrace, token.EOF) {
				p.advance()
			}
			if _, ok := p.eat(token.Comma); ok {
				continue
			}
			break
		}
		m := &ast.EnumMember{Name: identFrom(member)}
		if _, ok := p.eat(token.Assign); ok {
			m.Value = p.parseExpr()
		}
		m.Base = ast.At(p.spanFrom(member.Span))
		decl.Members = append(decl.Members, m)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.eat(token.RBrace); !ok {
		p.errAt(diag.SynUnclosedBrace, open.Span, "unclosed '{' in enum")
	}
	decl.SetSpan(p.spanFrom(kw.Span))
	return decl
}

// parseMacroDecl parses "#macro [config:]NAME body". The body is arbitrary
// tokens up to the end of the line; it is kept only when it reads as a
// single expression.
func (p *Parser) parseMacroDecl() ast.Stmt {
	kw := p.advance()
	decl := &ast.MacroDecl{Doc: kw.Doc()}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "macro name")
	if !ok {
		p.skipMacro()
		return &ast.BadStmt{StmtBase: ast.StmtAt(p.spanFrom(kw.Span))}
	}
	if _, ok := p.eat(token.Colon); ok {
		decl.Config = identFrom(nameTok)
		nameTok, ok = p.expect(token.Ident, diag.SynExpectIdentifier, "macro name")
		if !ok {
			p.skipMacro()
			return &ast.BadStmt{StmtBase: ast.StmtAt(p.spanFrom(kw.Span))}
		}
	}
	decl.Name = identFrom(nameTok)
	if !p.at(token.MacroEnd) {
		p.quiet++
		body := p.parseExpr()
		p.quiet--
		if _, bad := body.(*ast.BadExpr); !bad && p.at(token.MacroEnd) {
			decl.Body = body
		}
	}
	p.skipMacro()
	decl.SetSpan(p.spanFrom(kw.Span))
	return decl
}

func (p *Parser) skipMacro() {
	for !p.atOr(token.MacroEnd, token.EOF) {
		p.advance()
	}
	p.eat(token.MacroEnd)
}
