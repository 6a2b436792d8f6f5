package lexer

import (
	"unicode/utf8"

	"gmlsem/internal/diag"
	"gmlsem/internal/source"
	"gmlsem/internal/token"
)

type Lexer struct {
	file    *source.File
	cursor  Cursor
	opts    Options
	look    *token.Token   // one token lookahead
	hold    []token.Trivia // leading trivia collected so far
	inMacro bool           // inside a #macro line: the line end is significant
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next significant token with its Leading trivia.
// After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.inMacro && (lx.cursor.EOF() || lx.cursor.Peek() == '\n' || lx.cursor.HasPrefix("\r\n")) {
		lx.inMacro = false
		return lx.withLeading(token.Token{Kind: token.MacroEnd, Span: lx.emptySpan()})
	}

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()
	case isDec(ch), ch == '.' && isDec(lx.cursor.PeekAt(1)):
		tok = lx.scanNumber()
	case ch == '$' && isHex(lx.cursor.PeekAt(1)):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	case ch == '@' && (lx.cursor.PeekAt(1) == '"' || lx.cursor.PeekAt(1) == '\''):
		tok = lx.scanVerbatimString()
	case ch == '$' && lx.cursor.PeekAt(1) == '"':
		tok = lx.scanTemplateString()
	case ch == '#':
		tok = lx.scanHash()
	case ch >= utf8.RuneSelf:
		start := lx.cursor.Mark()
		_, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		lx.cursor.Off += uint32(size) // #nosec G115 -- rune size is at most 4
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexUnknownChar, sp, "unexpected character "+lx.file.Text(sp))
		tok = token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Text(sp)}
	default:
		tok = lx.scanOperatorOrPunct()
	}
	return lx.withLeading(tok)
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the whole file, EOF included.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) withLeading(tok token.Token) token.Token {
	if len(lx.hold) > 0 {
		tok.Leading = lx.hold
		lx.hold = nil
	}
	return tok
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
