package lexer

import (
	"gmlsem/internal/diag"
	"gmlsem/internal/token"
)

// scanHash handles "#macro", "#FF00FF" colour literals and unknown directives.
// #region lines never get here: they are trivia.
func (lx *Lexer) scanHash() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.HasPrefix("#macro") && !isIdentContinueByte(lx.cursor.PeekAt(6)) {
		lx.cursor.Off += 6
		lx.inMacro = true
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.HashMacro, Span: sp, Text: lx.text(sp)}
	}
	lx.cursor.Bump()
	n := uint32(0)
	for isHex(lx.cursor.PeekAt(n)) {
		n++
	}
	if n == 6 && !isIdentContinueByte(lx.cursor.PeekAt(n)) {
		lx.cursor.Off += n
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.NumberLit, Span: sp, Text: lx.text(sp)}
	}
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnknownDirective, sp, "unknown directive "+lx.text(sp))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
