package token

var keywords = map[string]Kind{
	"var":         KwVar,
	"globalvar":   KwGlobalVar,
	"static":      KwStatic,
	"function":    KwFunction,
	"constructor": KwConstructor,
	"new":         KwNew,
	"delete":      KwDelete,
	"return":      KwReturn,
	"exit":        KwExit,
	"break":       KwBreak,
	"continue":    KwContinue,
	"if":          KwIf,
	"then":        KwThen,
	"else":        KwElse,
	"while":       KwWhile,
	"do":          KwDo,
	"until":       KwUntil,
	"repeat":      KwRepeat,
	"for":         KwFor,
	"with":        KwWith,
	"switch":      KwSwitch,
	"case":        KwCase,
	"default":     KwDefault,
	"try":         KwTry,
	"catch":       KwCatch,
	"finally":     KwFinally,
	"throw":       KwThrow,
	"enum":        KwEnum,
	"self":        KwSelf,
	"other":       KwOther,
	"all":         KwAll,
	"noone":       KwNoone,
	"global":      KwGlobal,
	"true":        KwTrue,
	"false":       KwFalse,
	"undefined":   KwUndefined,

	// word operators
	"and":   AndAnd,
	"or":    OrOr,
	"xor":   XorXor,
	"not":   Bang,
	"div":   Div,
	"mod":   Percent,
	"begin": LBrace,
	"end":   RBrace,
}

// LookupKeyword returns the keyword kind for ident. GML keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsKeywordKind reports whether k is spelled as a word.
func IsKeywordKind(k Kind) bool {
	return k >= KwVar && k <= KwUndefined
}
