package lexer

import (
	"strings"

	"gmlsem/internal/diag"
	"gmlsem/internal/token"
)

// collectLeadingTrivia gathers trivia before the next significant token.
//   - runs of ' ', '\t', '\r' become one TriviaSpace
//   - runs of '\n' become one TriviaNewline (inside #macro the newline stops collection)
//   - //... and /*...*/ become comments, ///... becomes TriviaDocLine
//   - #region / #endregion lines become TriviaRegion
//   - inside #macro a trailing '\' continues the directive onto the next line
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case b == ' ' || b == '\t' || (b == '\r' && lx.cursor.PeekAt(1) != '\n'):
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' && !(b2 == '\r' && lx.cursor.PeekAt(1) != '\n') {
					break
				}
				lx.cursor.Bump()
			}
			lx.push(token.TriviaSpace, start)

		case b == '\n' || (b == '\r' && lx.cursor.PeekAt(1) == '\n'):
			if lx.inMacro {
				return
			}
			for lx.cursor.Peek() == '\n' || lx.cursor.HasPrefix("\r\n") {
				if !lx.cursor.Eat('\n') {
					lx.cursor.Off += 2
				}
			}
			lx.push(token.TriviaNewline, start)

		case b == '\\' && lx.inMacro && lx.continuesLine():
			lx.cursor.Bump()
			lx.cursor.Eat('\r')
			lx.cursor.Eat('\n')
			lx.push(token.TriviaNewline, start)

		case b == '/' && lx.cursor.PeekAt(1) == '/':
			lx.scanLineComment(start)

		case b == '/' && lx.cursor.PeekAt(1) == '*':
			lx.scanBlockComment(start)

		case b == '#' && !lx.inMacro && (lx.cursor.HasPrefix("#region") || lx.cursor.HasPrefix("#endregion")):
			lx.skipToLineEnd()
			lx.push(token.TriviaRegion, start)

		default:
			return
		}
	}
}

func (lx *Lexer) push(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}

// continuesLine reports whether the '\' under the cursor is the last
// non-blank byte of its line.
func (lx *Lexer) continuesLine() bool {
	for n := uint32(1); ; n++ {
		switch lx.cursor.PeekAt(n) {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
}

func (lx *Lexer) skipToLineEnd() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' && !lx.cursor.HasPrefix("\r\n") {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanLineComment(start Mark) {
	doc := lx.cursor.HasPrefix("///") && !lx.cursor.HasPrefix("////")
	lx.skipToLineEnd()
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if !doc {
		lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaLineComment, Span: sp, Text: text})
		return
	}
	text = strings.TrimPrefix(strings.TrimPrefix(text, "///"), " ")
	lx.hold = append(lx.hold, token.Trivia{Kind: token.TriviaDocLine, Span: sp, Text: text})
}

// GML block comments do not nest.
func (lx *Lexer) scanBlockComment(start Mark) {
	lx.cursor.Off += 2
	for !lx.cursor.EOF() {
		if lx.cursor.HasPrefix("*/") {
			lx.cursor.Off += 2
			lx.push(token.TriviaBlockComment, start)
			return
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnterminatedBlockComment, sp, "unterminated block comment")
	lx.push(token.TriviaBlockComment, start)
}
