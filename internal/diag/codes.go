package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnknownDirective         Code = 1005

	// syntax
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectIdentifier  Code = 2002
	SynExpectExpression  Code = 2003
	SynUnclosedParen     Code = 2004
	SynUnclosedBrace     Code = 2005
	SynUnclosedBracket   Code = 2006
	SynExpectSemicolon   Code = 2007
	SynBadAssignTarget   Code = 2008
	SynMacroOutsideTop   Code = 2009
	SynEnumExpectBody    Code = 2010
	SynCaseOutsideSwitch Code = 2011

	// semantic
	SemaInfo                 Code = 3000
	SemaUnresolvedSymbol     Code = 3001
	SemaDuplicateDeclaration Code = 3002
	SemaDuplicateGlobal      Code = 3003
	SemaDuplicateParam       Code = 3004
	SemaAssignReadonly       Code = 3005
	SemaUnknownMember        Code = 3006
	SemaUnknownParent        Code = 3007

	// project
	PrjInfo                Code = 5000
	PrjNativeSpecFallback  Code = 5001
	PrjMissingResourceFile Code = 5002
	PrjManifestParse       Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number literal",
	LexUnknownDirective:         "Unknown directive",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectExpression:         "Expected expression",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynExpectSemicolon:          "Expected semicolon",
	SynBadAssignTarget:          "Invalid assignment target",
	SynMacroOutsideTop:          "Macro inside a block",
	SynEnumExpectBody:           "Expected enum body",
	SynCaseOutsideSwitch:        "Case label outside switch",
	SemaInfo:                    "Semantic information",
	SemaUnresolvedSymbol:        "Unresolved identifier",
	SemaDuplicateDeclaration:    "Duplicate declaration",
	SemaDuplicateGlobal:         "Global declared in several files",
	SemaDuplicateParam:          "Duplicate parameter",
	SemaAssignReadonly:          "Assignment to a read-only symbol",
	SemaUnknownMember:           "Unknown member",
	SemaUnknownParent:           "Unknown parent object",
	PrjInfo:                     "Project information",
	PrjNativeSpecFallback:       "Bundled native spec in use",
	PrjMissingResourceFile:      "Resource file missing",
	PrjManifestParse:            "Manifest could not be parsed",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
