package lexer

import (
	"gmlsem/internal/diag"
	"gmlsem/internal/token"
)

// scanString scans "..." with backslash escapes. A raw line break ends the
// string with an error so one bad quote does not swallow the rest of the file.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedString, sp, "unterminated string")
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		}
		b := lx.cursor.Bump()
		if b == '\\' {
			lx.cursor.Bump()
			continue
		}
		if b == '"' {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		}
	}
}

// scanVerbatimString scans @"..." and @'...', which may span lines and have no escapes.
func (lx *Lexer) scanVerbatimString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	quote := lx.cursor.Bump()
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == quote {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnterminatedString, sp, "unterminated verbatim string")
	return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
}

// scanTemplateString scans $"...{expr}...". Braces nest so a quote inside an
// interpolation does not end the literal.
func (lx *Lexer) scanTemplateString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Off += 2
	depth := 0
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		b := lx.cursor.Bump()
		switch {
		case b == '\\':
			lx.cursor.Bump()
		case b == '{':
			depth++
		case b == '}' && depth > 0:
			depth--
		case b == '"' && depth == 0:
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.TemplateLit, Span: sp, Text: lx.text(sp)}
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnterminatedString, sp, "unterminated template string")
	return token.Token{Kind: token.TemplateLit, Span: sp, Text: lx.text(sp)}
}
