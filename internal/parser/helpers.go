package parser

import (
	"fmt"

	"gmlsem/internal/diag"
	"gmlsem/internal/source"
	"gmlsem/internal/token"
)

// advance consumes the next token and updates lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// eat consumes the next token if it has kind k.
func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// diagSpan points at the next token, or just past the previous one at EOF.
func (p *Parser) diagSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF || peek.Kind == token.MacroEnd {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes a token of kind k or reports code and returns false.
func (p *Parser) expect(k token.Kind, code diag.Code, what string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errAt(code, p.diagSpan(), fmt.Sprintf("expected %s, found %s", what, describe(p.peek())))
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	if p.quiet > 0 || p.opts.Reporter == nil {
		return
	}
	p.opts.CurrentErrors++
	if !p.opts.Enough() {
		diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
	}
}

// spanFrom covers start up to the last consumed token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	if p.lastSpan.End < start.Start {
		return start
	}
	return source.Span{File: start.File, Start: start.Start, End: p.lastSpan.End}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.MacroEnd:
		return "end of macro"
	case token.Ident:
		return fmt.Sprintf("identifier %q", tok.Text)
	case token.NumberLit, token.StringLit, token.TemplateLit:
		return tok.Text
	}
	return fmt.Sprintf("%q", tok.Text)
}

// atStmtBoundary reports whether the next token can only start a new statement
// or close the current block.
func (p *Parser) atStmtBoundary() bool {
	switch p.peek().Kind {
	case token.Semicolon, token.RBrace, token.EOF, token.MacroEnd,
		token.KwVar, token.KwGlobalVar, token.KwStatic, token.KwFunction, token.KwReturn,
		token.KwExit, token.KwBreak, token.KwContinue, token.KwIf, token.KwElse, token.KwWhile,
		token.KwDo, token.KwUntil, token.KwRepeat, token.KwFor, token.KwWith, token.KwSwitch,
		token.KwCase, token.KwDefault, token.KwTry, token.KwCatch, token.KwFinally,
		token.KwThrow, token.KwEnum, token.KwDelete, token.HashMacro:
		return true
	}
	return false
}

// resync skips tokens until a statement boundary. Returns the span skipped.
func (p *Parser) resync(start source.Span) source.Span {
	for !p.atStmtBoundary() {
		p.advance()
	}
	p.eat(token.Semicolon)
	return p.spanFrom(start)
}

// atListEnd reports whether the next token cannot continue an argument or
// element list; used to stop runaway lists after a missing ')' or ']'.
func (p *Parser) atListEnd() bool {
	return p.atOr(token.Semicolon, token.RBrace, token.EOF, token.MacroEnd)
}
