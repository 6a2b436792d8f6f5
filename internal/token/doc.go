// Package token defines lexical token kinds and trivia for GML sources.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly.
//   - Comments, whitespace and #region lines are leading Trivia and never
//     appear in the main token stream.
//   - Word operators (and, or, not, div, mod, xor) lex to the same kinds as
//     their symbolic forms; begin/end lex to LBrace/RBrace.
package token
