package token

import "gmlsem/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine // text has the leading "///" and one space removed
	TriviaRegion  // #region / #endregion line
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
