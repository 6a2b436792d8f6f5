package ast

// Kind tags every concrete node type.
type Kind uint8

const (
	KindFile Kind = iota
	KindBlock
	KindVarDecl
	KindVarDeclarator
	KindFunctionDecl
	KindEnumDecl
	KindEnumMember
	KindMacroDecl
	KindIf
	KindWhile
	KindDoUntil
	KindRepeat
	KindFor
	KindWith
	KindSwitch
	KindCaseClause
	KindReturn
	KindExit
	KindBreak
	KindContinue
	KindThrow
	KindTry
	KindDelete
	KindExprStmt
	KindEmpty
	KindBadStmt
	KindIdent
	KindLiteral
	KindKeyword
	KindUnary
	KindUpdate
	KindBinary
	KindAssign
	KindTernary
	KindCall
	KindNew
	KindMember
	KindIndex
	KindArrayLit
	KindStructLit
	KindStructField
	KindFunc
	KindParam
	KindParen
	KindBadExpr

	kindCount
)

var kindNames = [...]string{
	KindFile:          "File",
	KindBlock:         "Block",
	KindVarDecl:       "VarDecl",
	KindVarDeclarator: "VarDeclarator",
	KindFunctionDecl:  "FunctionDecl",
	KindEnumDecl:      "EnumDecl",
	KindEnumMember:    "EnumMember",
	KindMacroDecl:     "MacroDecl",
	KindIf:            "If",
	KindWhile:         "While",
	KindDoUntil:       "DoUntil",
	KindRepeat:        "Repeat",
	KindFor:           "For",
	KindWith:          "With",
	KindSwitch:        "Switch",
	KindCaseClause:    "CaseClause",
	KindReturn:        "Return",
	KindExit:          "Exit",
	KindBreak:         "Break",
	KindContinue:      "Continue",
	KindThrow:         "Throw",
	KindTry:           "Try",
	KindDelete:        "Delete",
	KindExprStmt:      "ExprStmt",
	KindEmpty:         "Empty",
	KindBadStmt:       "BadStmt",
	KindIdent:         "Ident",
	KindLiteral:       "Literal",
	KindKeyword:       "Keyword",
	KindUnary:         "Unary",
	KindUpdate:        "Update",
	KindBinary:        "Binary",
	KindAssign:        "Assign",
	KindTernary:       "Ternary",
	KindCall:          "Call",
	KindNew:           "New",
	KindMember:        "Member",
	KindIndex:         "Index",
	KindArrayLit:      "ArrayLit",
	KindStructLit:     "StructLit",
	KindStructField:   "StructField",
	KindFunc:          "Func",
	KindParam:         "Param",
	KindParen:         "Paren",
	KindBadExpr:       "BadExpr",
}

// every Kind needs a name
var _ = [1]struct{}{}[len(kindNames)-int(kindCount)]

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// NumKinds is the number of node kinds.
const NumKinds = int(kindCount)
