package token

import (
	"gmlsem/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NumberLit, StringLit, TemplateLit, KwTrue, KwFalse, KwUndefined:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Doc returns the text of the /// lines directly preceding the token, joined by newlines.
func (t Token) Doc() string {
	var out []byte
	for _, tr := range t.Leading {
		switch tr.Kind {
		case TriviaDocLine:
			if len(out) > 0 {
				out = append(out, '\n')
			}
			out = append(out, tr.Text...)
		case TriviaLineComment, TriviaBlockComment:
			out = out[:0]
		}
	}
	return string(out)
}
