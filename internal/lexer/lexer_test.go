package lexer

import (
	"testing"

	"gmlsem/internal/diag"
	"gmlsem/internal/source"
	"gmlsem/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.gml", []byte(src))
	bag := diag.NewBag(100)
	lx := New(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func expectKinds(t *testing.T, src string, want ...token.Kind) []token.Token {
	t.Helper()
	toks, bag := lexAll(t, src)
	if bag.Len() != 0 {
		t.Fatalf("%q: unexpected diagnostics: %+v", src, bag.Items())
	}
	got := kinds(toks)
	want = append(want, token.EOF)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v want %v", src, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d: got %v want %v (all: %v)", src, i, got[i], want[i], got)
		}
	}
	return toks
}

func TestLexDeclarations(t *testing.T) {
	expectKinds(t, "var a = 1;",
		token.KwVar, token.Ident, token.Assign, token.NumberLit, token.Semicolon)
	expectKinds(t, "function f(x) constructor {}",
		token.KwFunction, token.Ident, token.LParen, token.Ident, token.RParen,
		token.KwConstructor, token.LBrace, token.RBrace)
}

func TestLexNumbers(t *testing.T) {
	for _, src := range []string{"12", "1_000", "1.5", ".5", "0xFF", "$FF", "0b101", "#FF00AA"} {
		toks := expectKinds(t, src, token.NumberLit)
		if toks[0].Text != src {
			t.Fatalf("number text %q, want %q", toks[0].Text, src)
		}
	}
}

func TestLexAccessors(t *testing.T) {
	expectKinds(t, "a[@ 0] m[? k] l[| 1] g[# 1, 2] s[$ k]",
		token.Ident, token.LBracketAt, token.NumberLit, token.RBracket,
		token.Ident, token.LBracketQ, token.Ident, token.RBracket,
		token.Ident, token.LBracketPipe, token.NumberLit, token.RBracket,
		token.Ident, token.LBracketHash, token.NumberLit, token.Comma, token.NumberLit, token.RBracket,
		token.Ident, token.LBracketDollar, token.Ident, token.RBracket)
}

func TestLexWordOperators(t *testing.T) {
	expectKinds(t, "a and not b or c mod d",
		token.Ident, token.AndAnd, token.Bang, token.Ident, token.OrOr, token.Ident, token.Percent, token.Ident)
}

func TestLexStrings(t *testing.T) {
	expectKinds(t, `"a\"b" @"multi
line" $"x{y}z"`, token.StringLit, token.StringLit, token.TemplateLit)
}

func TestLexUnterminatedString(t *testing.T) {
	toks, bag := lexAll(t, "a = \"oops\nb = 1;")
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("want one unterminated string diagnostic, got %+v", bag.Items())
	}
	// lexing resumes on the next line
	if toks[len(toks)-4].Text != "=" || toks[len(toks)-5].Text != "b" {
		t.Fatalf("lexer did not recover: %v", kinds(toks))
	}
}

func TestLexMacroLine(t *testing.T) {
	expectKinds(t, "#macro SPEED 4 + \\\n 1\nx = SPEED;",
		token.HashMacro, token.Ident, token.NumberLit, token.Plus, token.NumberLit, token.MacroEnd,
		token.Ident, token.Assign, token.Ident, token.Semicolon)
	expectKinds(t, "#macro cfg:NAME 1",
		token.HashMacro, token.Ident, token.Colon, token.Ident, token.NumberLit, token.MacroEnd)
}

func TestLexRegionIsTrivia(t *testing.T) {
	toks := expectKinds(t, "#region Setup\na = 1;\n#endregion", token.Ident, token.Assign, token.NumberLit, token.Semicolon)
	if toks[0].Leading[0].Kind != token.TriviaRegion {
		t.Fatalf("want region trivia, got %+v", toks[0].Leading)
	}
}

func TestLexDocComments(t *testing.T) {
	toks := expectKinds(t, "/// @desc Adds two numbers\n/// @param {Real} a\nfunction add(a) {}",
		token.KwFunction, token.Ident, token.LParen, token.Ident, token.RParen, token.LBrace, token.RBrace)
	if doc := toks[0].Doc(); doc != "@desc Adds two numbers\n@param {Real} a" {
		t.Fatalf("doc = %q", doc)
	}
}

func TestLexSpansAreExact(t *testing.T) {
	toks, _ := lexAll(t, "  foo\r\n  bar")
	if toks[0].Span.Start != 2 || toks[0].Span.End != 5 {
		t.Fatalf("foo span = %v", toks[0].Span)
	}
	if toks[1].Span.Start != 9 || toks[1].Text != "bar" {
		t.Fatalf("bar span = %v text %q", toks[1].Span, toks[1].Text)
	}
}
