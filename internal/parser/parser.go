// Package parser builds an ast.File from the token stream of one GML file.
//
// The parser never gives up: a statement that fails to parse becomes a
// BadStmt, an expression becomes a BadExpr, and parsing resumes at the next
// statement boundary so the resolver still sees every node that did parse.
package parser

import (
	"slices"

	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/lexer"
	"gmlsem/internal/source"
	"gmlsem/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit is reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   *ast.File
	Errors uint
}

// Parser holds the state for one file.
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	opts     Options
	lastSpan source.Span // span of the last consumed token
	quiet    int         // >0 while parsing macro bodies: syntax errors are expected there
}

// ParseFile parses f. Lexer and parser diagnostics both go to opts.Reporter.
func ParseFile(f *source.File, opts Options) Result {
	if opts.Reporter != nil {
		opts.Reporter = diag.NewFirstOnly(opts.Reporter)
	}
	p := Parser{
		lx:       lexer.New(f, lexer.Options{Reporter: opts.Reporter}),
		file:     f,
		opts:     opts,
		lastSpan: source.Span{File: f.ID},
	}
	root := &ast.File{Base: ast.At(source.Span{File: f.ID, Start: 0, End: f.Len()})}
	for !p.at(token.EOF) {
		root.Stmts = append(root.Stmts, p.parseStmtGuarded())
	}
	return Result{File: root, Errors: p.opts.CurrentErrors}
}

func (p *Parser) peek() token.Token {
	return p.lx.Peek()
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseStmtGuarded parses one statement and makes sure at least one token
// was consumed, so callers looping until '}' or EOF always terminate.
func (p *Parser) parseStmtGuarded() ast.Stmt {
	before := p.peek().Span.Start
	st := p.parseStmt()
	if p.peek().Span.Start == before && !p.at(token.EOF) {
		tok := p.advance()
		p.errAt(diag.SynUnexpectedToken, tok.Span, "unexpected "+describe(tok))
		return &ast.BadStmt{StmtBase: ast.StmtAt(tok.Span)}
	}
	return st
}
