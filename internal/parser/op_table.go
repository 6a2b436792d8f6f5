package parser

import (
	"gmlsem/internal/token"
)

// Binary precedence, higher binds tighter. The ternary sits below all of them.
const (
	precNone           = 0
	precNullish        = 1 // ??
	precLogicalOr      = 2 // || or
	precLogicalXor     = 3 // ^^ xor
	precLogicalAnd     = 4 // && and
	precComparison     = 5 // == != < <= > >= and "=" used as a comparison
	precBitwiseOr      = 6 // |
	precBitwiseXor     = 7 // ^
	precBitwiseAnd     = 8 // &
	precShift          = 9 // << >>
	precAdditive       = 10
	precMultiplicative = 11 // * / % div mod
)

func binaryPrec(k token.Kind) int {
	switch k {
	case token.QuestionQuestion:
		return precNullish
	case token.OrOr:
		return precLogicalOr
	case token.XorXor:
		return precLogicalXor
	case token.AndAnd:
		return precLogicalAnd
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq, token.Assign:
		return precComparison
	case token.Pipe:
		return precBitwiseOr
	case token.Caret:
		return precBitwiseXor
	case token.Amp:
		return precBitwiseAnd
	case token.Shl, token.Shr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent, token.Div:
		return precMultiplicative
	}
	return precNone
}
