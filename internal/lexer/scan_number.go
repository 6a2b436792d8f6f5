package lexer

import (
	"gmlsem/internal/diag"
	"gmlsem/internal/token"
)

// scanNumber handles 12, 1_000, 1.5, .5, 0xFF, $FF and 0b1010.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	switch {
	case lx.cursor.Peek() == '$':
		lx.cursor.Bump()
		lx.eatDigits(isHex)
	case lx.cursor.HasPrefix("0x") || lx.cursor.HasPrefix("0X"):
		lx.cursor.Off += 2
		if !lx.eatDigits(isHex) {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexBadNumber, sp, "hex literal has no digits")
		}
	case lx.cursor.HasPrefix("0b") || lx.cursor.HasPrefix("0B"):
		lx.cursor.Off += 2
		if !lx.eatDigits(isBin) {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexBadNumber, sp, "binary literal has no digits")
		}
	default:
		lx.eatDigits(isDec)
		if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
			lx.cursor.Bump()
			lx.eatDigits(isDec)
		} else if lx.cursor.Peek() == '.' && !isIdentStartByte(lx.cursor.PeekAt(1)) {
			// "1." is a valid real
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.NumberLit, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) eatDigits(ok func(byte) bool) bool {
	seen := false
	for {
		b := lx.cursor.Peek()
		if b == '_' {
			lx.cursor.Bump()
			continue
		}
		if !ok(b) {
			return seen
		}
		seen = true
		lx.cursor.Bump()
	}
}
