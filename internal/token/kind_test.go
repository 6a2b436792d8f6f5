package token

import "testing"

func TestKeywordLookup(t *testing.T) {
	cases := []struct {
		word string
		want Kind
	}{
		{"var", KwVar},
		{"constructor", KwConstructor},
		{"and", AndAnd},
		{"mod", Percent},
		{"begin", LBrace},
	}
	for _, tc := range cases {
		got, ok := LookupKeyword(tc.word)
		if !ok || got != tc.want {
			t.Fatalf("%s: got %v ok=%v", tc.word, got, ok)
		}
	}
	if _, ok := LookupKeyword("Var"); ok {
		t.Fatalf("keywords are case-sensitive")
	}
}

func TestKindNamesComplete(t *testing.T) {
	for k := Invalid; k < kindCount; k++ {
		if k.String() == "Kind(?)" {
			t.Fatalf("kind %d has no name", k)
		}
	}
}

func TestDocStopsAtPlainComment(t *testing.T) {
	tok := Token{Leading: []Trivia{
		{Kind: TriviaDocLine, Text: "stale"},
		{Kind: TriviaLineComment, Text: "// gap"},
		{Kind: TriviaDocLine, Text: "@desc Adds"},
		{Kind: TriviaNewline},
		{Kind: TriviaDocLine, Text: "@param {Real} a"},
	}}
	if got := tok.Doc(); got != "@desc Adds\n@param {Real} a" {
		t.Fatalf("Doc() = %q", got)
	}
}
