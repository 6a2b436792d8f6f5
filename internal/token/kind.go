package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	NumberLit
	StringLit
	TemplateLit // $"..."

	// keywords
	KwVar
	KwGlobalVar
	KwStatic
	KwFunction
	KwConstructor
	KwNew
	KwDelete
	KwReturn
	KwExit
	KwBreak
	KwContinue
	KwIf
	KwThen
	KwElse
	KwWhile
	KwDo
	KwUntil
	KwRepeat
	KwFor
	KwWith
	KwSwitch
	KwCase
	KwDefault
	KwTry
	KwCatch
	KwFinally
	KwThrow
	KwEnum
	KwSelf
	KwOther
	KwAll
	KwNoone
	KwGlobal
	KwTrue
	KwFalse
	KwUndefined

	// directives
	HashMacro // #macro; the directive runs until MacroEnd
	MacroEnd

	// punctuation and operators
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	LBracketAt     // [@
	LBracketQ      // [?
	LBracketPipe   // [|
	LBracketHash   // [#
	LBracketDollar // [$
	Comma
	Semicolon
	Colon
	Dot
	Question
	QuestionQuestion
	QuestionQuestionAssign
	Plus
	Minus
	Star
	Slash
	Percent
	Div
	PlusPlus
	MinusMinus
	Assign
	ColonAssign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	AmpAssign
	PipeAssign
	CaretAssign
	ShlAssign
	ShrAssign
	EqEq
	BangEq
	Lt
	LtEq
	Gt
	GtEq
	Shl
	Shr
	Amp
	Pipe
	Caret
	Tilde
	Bang
	AndAnd
	OrOr
	XorXor

	kindCount
)

var kindNames = [...]string{
	Invalid:                "Invalid",
	EOF:                    "EOF",
	Ident:                  "Ident",
	NumberLit:              "NumberLit",
	StringLit:              "StringLit",
	TemplateLit:            "TemplateLit",
	KwVar:                  "var",
	KwGlobalVar:            "globalvar",
	KwStatic:               "static",
	KwFunction:             "function",
	KwConstructor:          "constructor",
	KwNew:                  "new",
	KwDelete:               "delete",
	KwReturn:               "return",
	KwExit:                 "exit",
	KwBreak:                "break",
	KwContinue:             "continue",
	KwIf:                   "if",
	KwThen:                 "then",
	KwElse:                 "else",
	KwWhile:                "while",
	KwDo:                   "do",
	KwUntil:                "until",
	KwRepeat:               "repeat",
	KwFor:                  "for",
	KwWith:                 "with",
	KwSwitch:               "switch",
	KwCase:                 "case",
	KwDefault:              "default",
	KwTry:                  "try",
	KwCatch:                "catch",
	KwFinally:              "finally",
	KwThrow:                "throw",
	KwEnum:                 "enum",
	KwSelf:                 "self",
	KwOther:                "other",
	KwAll:                  "all",
	KwNoone:                "noone",
	KwGlobal:               "global",
	KwTrue:                 "true",
	KwFalse:                "false",
	KwUndefined:            "undefined",
	HashMacro:              "#macro",
	MacroEnd:               "MacroEnd",
	LParen:                 "(",
	RParen:                 ")",
	LBrace:                 "{",
	RBrace:                 "}",
	LBracket:               "[",
	RBracket:               "]",
	LBracketAt:             "[@",
	LBracketQ:              "[?",
	LBracketPipe:           "[|",
	LBracketHash:           "[#",
	LBracketDollar:         "[$",
	Comma:                  ",",
	Semicolon:              ";",
	Colon:                  ":",
	Dot:                    ".",
	Question:               "?",
	QuestionQuestion:       "??",
	QuestionQuestionAssign: "??=",
	Plus:                   "+",
	Minus:                  "-",
	Star:                   "*",
	Slash:                  "/",
	Percent:                "%",
	Div:                    "div",
	PlusPlus:               "++",
	MinusMinus:             "--",
	Assign:                 "=",
	ColonAssign:            ":=",
	PlusAssign:             "+=",
	MinusAssign:            "-=",
	StarAssign:             "*=",
	SlashAssign:            "/=",
	PercentAssign:          "%=",
	AmpAssign:              "&=",
	PipeAssign:             "|=",
	CaretAssign:            "^=",
	ShlAssign:              "<<=",
	ShrAssign:              ">>=",
	EqEq:                   "==",
	BangEq:                 "!=",
	Lt:                     "<",
	LtEq:                   "<=",
	Gt:                     ">",
	GtEq:                   ">=",
	Shl:                    "<<",
	Shr:                    ">>",
	Amp:                    "&",
	Pipe:                   "|",
	Caret:                  "^",
	Tilde:                  "~",
	Bang:                   "!",
	AndAnd:                 "&&",
	OrOr:                   "||",
	XorXor:                 "^^",
}

// a new Kind without a name fails to compile here
var _ = [1]struct{}{}[len(kindNames)-int(kindCount)]

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsAssign reports whether k is a plain or compound assignment operator.
func (k Kind) IsAssign() bool {
	switch k {
	case Assign, ColonAssign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign,
		AmpAssign, PipeAssign, CaretAssign, ShlAssign, ShrAssign, QuestionQuestionAssign:
		return true
	default:
		return false
	}
}

// IsPlainAssign reports whether k stores a value without reading the target.
func (k Kind) IsPlainAssign() bool { return k == Assign || k == ColonAssign }

// IsAccessorOpen reports whether k opens an index or accessor expression.
func (k Kind) IsAccessorOpen() bool {
	switch k {
	case LBracket, LBracketAt, LBracketQ, LBracketPipe, LBracketHash, LBracketDollar:
		return true
	default:
		return false
	}
}
