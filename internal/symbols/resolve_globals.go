package symbols

import (
	"fmt"

	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/source"
	"gmlsem/internal/token"
)

// DiscoverGlobals is pass 1: it binds the file's declarations that other
// files can see, without resolving any reference.
//
// Scripts contribute top-level functions, constructors (with their struct
// type and statics) and top-level assignments as globals. Event files
// contribute top-level assignments and functions to the object's instance.
// Anywhere in a file, enum, #macro, globalvar and global.x = ... declare
// globals. prev is the previous discovery of the same file, if any; its
// signifiers are reused for names declared again.
func DiscoverGlobals(u Unit, env *Env, prev *Discovery) *Discovery {
	var prevDecls *Decls
	if prev != nil {
		prevDecls = prev.Decls
	}
	g := &discoverer{
		unit: u,
		env:  env,
		file: u.File.ID,
		d:    newDeclarer(u.File.ID, prevDecls),
		bag:  diag.NewBag(0),
	}
	if u.Tree != nil {
		g.topLevel(u.Tree.Stmts, g.topSelf(), collectLocals(u.Tree.Stmts, nil))
		ast.Inspect(u.Tree, g.anywhere)
	}
	decls, released := g.d.finish(env.Types)
	return &Discovery{
		Decls:       decls,
		Created:     g.d.created,
		Released:    released,
		Lost:        g.d.lostNames(),
		Diagnostics: g.bag.Items(),
	}
}

type discoverer struct {
	unit Unit
	env  *Env
	file source.FileID
	d    *declarer
	bag  *diag.Bag
}

func (g *discoverer) topSelf() Self {
	if g.unit.Self == nil {
		return g.env.Global
	}
	return g.unit.Self
}

// topLevel walks statements that run directly in self, descending into
// control flow but not into function bodies or with blocks.
func (g *discoverer) topLevel(stmts []ast.Stmt, self Self, locals map[string]struct{}) {
	for _, st := range stmts {
		g.topStmt(st, self, locals)
	}
}

func (g *discoverer) topStmt(st ast.Stmt, self Self, locals map[string]struct{}) {
	switch st := st.(type) {
	case *ast.FunctionDecl:
		g.function(st.Func, self)
	case *ast.ExprStmt:
		if as, ok := st.X.(*ast.AssignExpr); ok && as.Op.IsPlainAssign() {
			g.assign(as, self, locals)
		}
	case *ast.VarDecl:
		if st.Decl == ast.DeclStatic && self.Kind() == SelfStruct {
			for _, it := range st.Items {
				sig, status := g.d.declare(self.Members(), self.Type(), it.Name.Name, KindStatic, it.Name.Span())
				if status == declNew || status == declReused {
					sig.Flags = FlagWritable | FlagStatic
					sig.Doc = it.Doc
					sig.Type = nil
					if fn, ok := it.Init.(*ast.FuncExpr); ok {
						sig.Type = g.funcType(fn)
					}
				}
			}
		}
	case *ast.Block:
		g.topLevel(st.Stmts, self, locals)
	case *ast.IfStmt:
		g.topStmt(st.Then, self, locals)
		if st.Else != nil {
			g.topStmt(st.Else, self, locals)
		}
	case *ast.WhileStmt:
		g.topStmt(st.Body, self, locals)
	case *ast.DoUntilStmt:
		g.topStmt(st.Body, self, locals)
	case *ast.RepeatStmt:
		g.topStmt(st.Body, self, locals)
	case *ast.ForStmt:
		g.topStmt(st.Body, self, locals)
	case *ast.SwitchStmt:
		for _, cc := range st.Cases {
			g.topLevel(cc.Body, self, locals)
		}
	case *ast.TryStmt:
		g.topStmt(st.Body, self, locals)
		if st.Catch != nil {
			g.topStmt(st.Catch, self, locals)
		}
		if st.Finally != nil {
			g.topStmt(st.Finally, self, locals)
		}
	}
}

// assign handles "name = value" and "self.name = value" running in self.
func (g *discoverer) assign(as *ast.AssignExpr, self Self, locals map[string]struct{}) {
	var name *ast.Ident
	switch t := as.Target.(type) {
	case *ast.Ident:
		if _, local := locals[t.Name]; local {
			return
		}
		name = t
	case *ast.MemberExpr:
		if kw, ok := t.X.(*ast.KeywordExpr); ok && kw.Tok == token.KwSelf {
			name = t.Name
		}
	}
	if name == nil {
		return
	}
	if nat := g.env.Global.Native().Get(name.Name); nat != nil && (self.Kind() != SelfStruct || nat.Flags&FlagInstance == 0) {
		return
	}
	var sig *Signifier
	var status declStatus
	switch self.Kind() {
	case SelfGlobal:
		sig, status = g.d.declare(g.env.Global.Members(), nil, name.Name, KindGlobalVar, name.Span())
		if status == declNew || status == declReused {
			sig.Flags = FlagWritable | FlagGlobal
		}
	default:
		if inherited := self.Lookup(name.Name); inherited != nil && self.Members().Get(name.Name) == nil {
			return
		}
		sig, status = g.d.declare(self.Members(), self.Type(), name.Name, KindMember, name.Span())
		if status == declNew || status == declReused {
			sig.Flags = FlagWritable
		}
	}
	if status == declNew || status == declReused {
		sig.Type = nil
		if fn, ok := as.Value.(*ast.FuncExpr); ok {
			sig.Type = g.funcType(fn)
		}
	}
}

// function declares a named function statement running in self.
func (g *discoverer) function(fn *ast.FuncExpr, self Self) {
	if fn == nil || fn.Name == nil {
		return
	}
	name := fn.Name
	kind := KindFunction
	if fn.IsConstructor {
		kind = KindConstructor
	}
	owner, ownerType := self.Members(), self.Type()
	flags := FlagWritable
	if self.Kind() == SelfGlobal {
		ownerType = nil
		flags = FlagGlobal
	}
	sig, status := g.d.declare(owner, ownerType, name.Name, kind, name.Span())
	switch status {
	case declRepeat:
		g.duplicate(name, sig, "function %q is declared twice in this file")
		return
	case declTaken:
		if sig.Def.File != g.file {
			g.duplicate(name, sig, "function %q is already declared in another file")
		}
		return
	}
	var structType *Type
	if fn.IsConstructor && sig.Type != nil && sig.Type.Constructs != nil && sig.Type.Constructs.Name == "Struct."+name.Name {
		structType = sig.Type.Constructs
	}
	sig.Flags = flags
	sig.Doc = fn.Doc
	sig.Type = g.funcType(fn)
	if !fn.IsConstructor {
		return
	}
	if structType == nil {
		structType = NewStruct(name.Name)
	}
	structType.Parent = nil
	sig.Type.Constructs = structType
	sig.Type.Returns = structType
	if self.Kind() == SelfGlobal {
		g.d.registerType(g.env.Types, structType)
	}
	body := NewStructSelf(structType)
	g.topLevel(fn.Body.Stmts, body, collectLocals(fn.Body.Stmts, fn.Params))
}

func (g *discoverer) funcType(fn *ast.FuncExpr) *Type {
	t := NewFunction(nil, nil)
	if fn.Doc != "" {
		if doc := parseDoc(fn.Doc); doc.Returns != "" {
			t.Returns = g.env.Types.ParseType(doc.Returns)
		}
	}
	return t
}

// anywhere declares the globals GML hoists regardless of nesting.
func (g *discoverer) anywhere(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.EnumDecl:
		g.enum(n)
		return false
	case *ast.MacroDecl:
		g.macro(n)
		return false
	case *ast.VarDecl:
		if n.Decl == ast.DeclGlobalVar {
			for _, it := range n.Items {
				g.globalVar(it.Name)
			}
		}
	case *ast.AssignExpr:
		if !n.Op.IsPlainAssign() {
			return true
		}
		if m, ok := n.Target.(*ast.MemberExpr); ok {
			if kw, ok := m.X.(*ast.KeywordExpr); ok && kw.Tok == token.KwGlobal {
				g.globalVar(m.Name)
			}
		}
	}
	return true
}

func (g *discoverer) globalVar(name *ast.Ident) {
	if g.env.Global.Native().Get(name.Name) != nil {
		return
	}
	sig, status := g.d.declare(g.env.Global.Members(), nil, name.Name, KindGlobalVar, name.Span())
	if status == declNew || status == declReused {
		sig.Flags = FlagWritable | FlagGlobal
		sig.Type = nil
	}
}

func (g *discoverer) enum(n *ast.EnumDecl) {
	sig, status := g.d.declare(g.env.Global.Members(), nil, n.Name.Name, KindEnum, n.Name.Span())
	switch status {
	case declRepeat:
		g.duplicate(n.Name, sig, "enum %q is declared twice in this file")
		return
	case declTaken:
		if sig.Def.File != g.file {
			g.duplicate(n.Name, sig, "enum %q is already declared in another file")
		}
		return
	}
	et := sig.Type
	if et == nil || et.Kind != TypeEnum || et.Name != "Enum."+n.Name.Name {
		et = NewEnum(n.Name.Name)
	}
	sig.Flags = FlagGlobal
	sig.Doc = n.Doc
	sig.Type = et
	g.d.registerType(g.env.Types, et)
	for _, m := range n.Members {
		ms, st := g.d.declare(et.Members(), et, m.Name.Name, KindEnumMember, m.Name.Span())
		if st == declRepeat {
			g.duplicate(m.Name, ms, "enum member %q is declared twice")
			continue
		}
		ms.Flags = FlagGlobal
		ms.Type = et
	}
}

func (g *discoverer) macro(n *ast.MacroDecl) {
	sig, status := g.d.declare(g.env.Global.Members(), nil, n.Name.Name, KindMacro, n.Name.Span())
	switch status {
	case declRepeat:
		// Per-configuration variants of one macro.
		if n.Config == nil {
			g.duplicate(n.Name, sig, "macro %q is declared twice in this file")
		}
		return
	case declTaken:
		if sig.Def.File != g.file && n.Config == nil {
			g.duplicate(n.Name, sig, "macro %q is already declared in another file")
		}
		return
	}
	sig.Flags = FlagGlobal
	sig.Doc = n.Doc
	sig.Type = literalType(n.Body)
}

func (g *discoverer) duplicate(name *ast.Ident, prev *Signifier, format string) {
	code := diag.SemaDuplicateGlobal
	if prev.Def.File == g.file {
		code = diag.SemaDuplicateDeclaration
	}
	b := diag.ReportWarning(diag.BagReporter{Bag: g.bag}, code, name.Span(), fmt.Sprintf(format, name.Name))
	if prev.Def.IsValid() {
		b.WithNote(prev.Def, "previous declaration here")
	}
	b.Emit()
}

// collectLocals returns the names bound by var statements and params of one
// function body, without entering nested functions. Pass 1 uses it to tell
// local assignments from member assignments.
func collectLocals(stmts []ast.Stmt, params []*ast.Param) map[string]struct{} {
	out := make(map[string]struct{})
	for _, p := range params {
		out[p.Name.Name] = struct{}{}
	}
	for _, st := range stmts {
		ast.Inspect(st, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.FuncExpr:
				return false
			case *ast.VarDecl:
				if n.Decl == ast.DeclVar {
					for _, it := range n.Items {
						out[it.Name.Name] = struct{}{}
					}
				}
			case *ast.TryStmt:
				if n.CatchParam != nil {
					out[n.CatchParam.Name] = struct{}{}
				}
			}
			return true
		})
	}
	return out
}
