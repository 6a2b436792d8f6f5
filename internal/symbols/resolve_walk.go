package symbols

import (
	"fmt"
	"slices"

	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/source"
)

// scope is the context threaded through the walk. It is passed by value and
// never changed in place: entering a function builds a new one.
type scope struct {
	local *LocalScope
	self  Self
	fn    *ast.FuncExpr // nil at the file's top level
}

// ResolveFile is pass 2: it walks the whole file, builds its scope ranges
// and records a reference for every identifier it can bind. prev is the
// previous resolution of the same file; its references are dropped first,
// so a file never holds stale or duplicated references.
func ResolveFile(u Unit, env *Env, prev *Resolution) *Resolution {
	var prevDecls *Decls
	if prev != nil {
		prev.Forget(u.File.ID)
		prevDecls = prev.Decls
	}
	w := &walker{
		unit:      u,
		env:       env,
		file:      u.File.ID,
		ranges:    rangeBuilder{length: u.File.Len()},
		d:         newDeclarer(u.File.ID, prevDecls),
		bag:       diag.NewBag(0),
		touched:   make(map[*Signifier]struct{}),
		funcTypes: make(map[*ast.FuncExpr]*Type),
		inferRet:  make(map[*ast.FuncExpr]bool),
		structs:   make(map[*ast.StructLit]*Type),
	}
	self := u.Self
	if self == nil {
		self = env.Global
	}
	top := scope{local: NewLocalScope(), self: self}
	w.ranges.open(0, top.local, top.self)
	if u.Tree != nil {
		ast.Dispatch[scope](w, u.Tree, top)
	}
	decls, released := w.d.finish(env.Types)
	slices.SortStableFunc(w.refs, func(a, b RefEntry) int {
		switch {
		case a.Loc.Less(b.Loc):
			return -1
		case b.Loc.Less(a.Loc):
			return 1
		}
		return 0
	})
	return &Resolution{
		Ranges:      w.ranges.out,
		Refs:        w.refs,
		Unresolved:  w.unresolved,
		Touched:     w.touchedOrder,
		Decls:       decls,
		Created:     w.d.created,
		Released:    released,
		Diagnostics: w.bag.Items(),
	}
}

type walker struct {
	unit   Unit
	env    *Env
	file   source.FileID
	ranges rangeBuilder
	d      *declarer
	bag    *diag.Bag

	refs         []RefEntry
	unresolved   []Unresolved
	touched      map[*Signifier]struct{}
	touchedOrder []*Signifier

	funcTypes map[*ast.FuncExpr]*Type
	inferRet  map[*ast.FuncExpr]bool
	structs   map[*ast.StructLit]*Type
}

var _ ast.Visitor[scope] = (*walker)(nil)

func (w *walker) visit(n ast.Node, c scope) {
	ast.Dispatch[scope](w, n, c)
}

func (w *walker) children(n ast.Node, c scope) {
	for _, ch := range ast.Children(n) {
		w.visit(ch, c)
	}
}

func (w *walker) stmts(list []ast.Stmt, c scope) {
	for _, st := range list {
		w.visit(st, c)
	}
}

// ref records one occurrence of sig.
func (w *walker) ref(sig *Signifier, loc source.Span) {
	sig.AddRef(loc, sig.Def == loc)
	w.refs = append(w.refs, RefEntry{Loc: loc, Sig: sig})
	if _, ok := w.touched[sig]; !ok {
		w.touched[sig] = struct{}{}
		w.touchedOrder = append(w.touchedOrder, sig)
	}
}

func (w *walker) miss(id *ast.Ident) {
	w.unresolved = append(w.unresolved, Unresolved{Name: id.Name, Loc: id.Span()})
}

// lookup tries the local scope, a non-global self, user globals and finally
// builtins. The first match wins.
func (w *walker) lookup(name string, c scope) *Signifier {
	if s := c.local.Lookup(name); s != nil {
		return s
	}
	if c.self != nil && c.self.Kind() != SelfGlobal {
		if s := c.self.Lookup(name); s != nil {
			return s
		}
	}
	if s := w.env.Global.User(name); s != nil {
		return s
	}
	s := w.env.Global.Native().Get(name)
	if s != nil && s.Flags&FlagInstance != 0 && c.self != nil && c.self.Kind() == SelfStruct {
		// x, y and friends belong to instances, not to structs.
		return nil
	}
	return s
}

// resolve binds a read of id and returns the signifier, or nil.
func (w *walker) resolve(id *ast.Ident, c scope) *Signifier {
	s := w.lookup(id.Name, c)
	if s == nil {
		w.miss(id)
		return nil
	}
	w.ref(s, id.Span())
	return s
}

func (w *walker) warn(code diag.Code, sp source.Span, msg string) *diag.Pending {
	return diag.ReportWarning(diag.BagReporter{Bag: w.bag}, code, sp, msg)
}

func (w *walker) fail(code diag.Code, sp source.Span, msg string) *diag.Pending {
	return diag.ReportError(diag.BagReporter{Bag: w.bag}, code, sp, msg)
}

// bindLocal declares name in the current local scope. A name already bound
// there is reported and the existing signifier is reused.
func (w *walker) bindLocal(name *ast.Ident, kind Kind, flags Flags, c scope) *Signifier {
	if prev := c.local.Lookup(name.Name); prev != nil {
		w.warn(diag.SemaDuplicateDeclaration, name.Span(),
			fmt.Sprintf("%q is already declared in this scope", name.Name)).
			WithNote(prev.Def, "previous declaration here").
			Emit()
		w.ref(prev, name.Span())
		return prev
	}
	sig := NewSignifier(name.Name, kind, name.Span())
	sig.Flags = flags
	c.local.Members().Add(sig)
	w.ref(sig, name.Span())
	return sig
}

// declareOnSelf adds a member to a non-global self, reusing the member this
// file declared on the previous run.
func (w *walker) declareOnSelf(name *ast.Ident, kind Kind, c scope) *Signifier {
	sig, status := w.d.declare(c.self.Members(), c.self.Type(), name.Name, kind, name.Span())
	if status == declNew || status == declReused {
		sig.Flags = FlagWritable
		if kind == KindStatic {
			sig.Flags |= FlagStatic
		}
		sig.Type = nil
	}
	w.ref(sig, name.Span())
	return sig
}

func (w *walker) checkWritable(sig *Signifier, loc source.Span) {
	if sig == nil || sig.Writable() {
		return
	}
	if !sig.Native() && !sig.Global() {
		return
	}
	w.fail(diag.SemaAssignReadonly, loc,
		fmt.Sprintf("cannot assign to %s %q", sig.Kind, sig.Name)).Emit()
}

func (w *walker) VisitFile(n *ast.File, c scope)   { w.stmts(n.Stmts, c) }
func (w *walker) VisitBlock(n *ast.Block, c scope) { w.stmts(n.Stmts, c) }

func (w *walker) VisitVarDecl(n *ast.VarDecl, c scope) {
	for _, it := range n.Items {
		w.declarator(n.Decl, it, c)
	}
}

func (w *walker) VisitVarDeclarator(n *ast.VarDeclarator, c scope) {
	w.declarator(ast.DeclVar, n, c)
}

func (w *walker) declarator(kind ast.DeclKind, it *ast.VarDeclarator, c scope) {
	var sig *Signifier
	switch kind {
	case ast.DeclGlobalVar:
		sig = w.resolve(it.Name, w.globalScope())
	case ast.DeclStatic:
		if c.fn != nil && c.fn.IsConstructor && c.self.Kind() == SelfStruct {
			if have := c.self.Members().Get(it.Name.Name); have != nil && have.Def.File == w.file {
				sig = have
				w.ref(sig, it.Name.Span())
			} else {
				sig = w.declareOnSelf(it.Name, KindStatic, c)
			}
		} else {
			sig = w.bindLocal(it.Name, KindStatic, FlagWritable|FlagStatic, c)
		}
	default:
		sig = w.bindLocal(it.Name, KindLocal, FlagWritable, c)
	}
	if sig != nil && it.Doc != "" && sig.Def == it.Name.Span() {
		sig.Doc = it.Doc
	}
	if it.Init == nil {
		return
	}
	w.seedFuncType(sig, it.Name.Span(), it.Init)
	w.visit(it.Init, c)
	if sig != nil && sig.Def == it.Name.Span() {
		assignType(sig, w.exprType(it.Init, c))
	}
}

// globalScope is the context of code that always runs on global: macro
// bodies and globalvar names.
func (w *walker) globalScope() scope {
	return scope{local: NewLocalScope(), self: w.env.Global}
}

func (w *walker) VisitFunctionDecl(n *ast.FunctionDecl, c scope) {
	fn := n.Func
	if fn == nil {
		return
	}
	if fn.Name != nil {
		sig := w.bindFunctionName(fn, c)
		if sig != nil && sig.Def == fn.Name.Span() {
			if sig.Type == nil || sig.Type.Kind != TypeFunction {
				sig.Type = NewFunction(nil, nil)
			}
			w.funcTypes[fn] = sig.Type
			if fn.Doc != "" {
				sig.Doc = fn.Doc
			}
		}
	}
	w.visit(fn, c)
}

// bindFunctionName finds or makes the signifier a function statement binds.
// At the top level and directly in a constructor it lives on self (pass 1
// already declared it); inside other functions it is a local.
func (w *walker) bindFunctionName(fn *ast.FuncExpr, c scope) *Signifier {
	name := fn.Name
	onSelf := c.fn == nil || (c.fn.IsConstructor && c.self.Kind() == SelfStruct)
	if !onSelf {
		kind := KindFunction
		if fn.IsConstructor {
			kind = KindConstructor
		}
		return w.bindLocal(name, kind, FlagWritable, c)
	}
	if c.self.Kind() == SelfGlobal {
		if sig := w.env.Global.User(name.Name); sig != nil {
			w.ref(sig, name.Span())
			return sig
		}
		return w.bindLocal(name, KindFunction, FlagWritable, c)
	}
	if sig := c.self.Members().Get(name.Name); sig != nil {
		w.ref(sig, name.Span())
		return sig
	}
	kind := KindFunction
	if fn.IsConstructor {
		kind = KindConstructor
	}
	return w.declareOnSelf(name, kind, c)
}

func (w *walker) VisitFunc(n *ast.FuncExpr, c scope) {
	t := w.funcTypes[n]
	if t == nil {
		t = NewFunction(nil, nil)
		w.funcTypes[n] = t
	}
	doc := parseDoc(n.Doc)
	if t.Returns == nil && doc.Returns != "" {
		t.Returns = w.env.Types.ParseType(doc.Returns)
	}
	w.inferRet[n] = t.Returns == nil

	local := NewLocalScope()
	self := c.self
	var st *Type
	if n.IsConstructor {
		st = t.Constructs
		if st == nil {
			name := ""
			if n.Name != nil {
				name = n.Name.Name
			}
			st = NewStruct(name)
			t.Constructs = st
		}
		t.Returns = st
		w.inferRet[n] = false
		self = NewStructSelf(st)
	}
	inner := scope{local: local, self: self, fn: n}
	w.ranges.open(n.Lparen.Start, local, self)

	params := make([]*Signifier, 0, len(n.Params))
	for _, p := range n.Params {
		if prev := local.Lookup(p.Name.Name); prev != nil {
			w.fail(diag.SemaDuplicateParam, p.Name.Span(),
				fmt.Sprintf("duplicate parameter %q", p.Name.Name)).
				WithNote(prev.Def, "first declared here").
				Emit()
			w.ref(prev, p.Name.Span())
			w.visit(p.Default, inner)
			continue
		}
		sig := NewSignifier(p.Name.Name, KindParam, p.Name.Span())
		sig.Flags = FlagWritable
		if dp, ok := doc.param(p.Name.Name); ok {
			if dp.Type != "" {
				sig.Type = w.env.Types.ParseType(dp.Type)
			}
			if dp.Optional {
				sig.Flags |= FlagOptional
			}
		}
		if p.Default != nil {
			sig.Flags |= FlagOptional
		}
		local.Members().Add(sig)
		w.ref(sig, p.Name.Span())
		params = append(params, sig)
		if p.Default != nil {
			w.visit(p.Default, inner)
			if sig.Type == nil {
				assignType(sig, w.exprType(p.Default, inner))
			}
		}
	}
	t.Params = params

	if n.Inherits != nil {
		w.visit(n.Inherits, inner)
		if id, ok := n.Inherits.Fn.(*ast.Ident); ok && st != nil {
			w.inherit(st, w.lookup(id.Name, inner))
		}
	}
	w.stmts(n.Body.Stmts, inner)

	closeAt := n.Body.Rbrace.End
	if closeAt <= n.Lparen.Start {
		closeAt = n.Span().End
	}
	w.ranges.open(closeAt, c.local, c.self)
}

// inherit links a constructor's struct type to its parent's, refusing cycles.
func (w *walker) inherit(st *Type, parent *Signifier) {
	if parent == nil || parent.Type == nil || parent.Type.Constructs == nil {
		return
	}
	pt := parent.Type.Constructs
	for cur, depth := pt, 0; cur != nil && depth < maxParentDepth; cur, depth = cur.Parent, depth+1 {
		if cur == st {
			return
		}
	}
	st.Parent = pt
}

func (w *walker) VisitParam(n *ast.Param, c scope) { w.visit(n.Default, c) }

func (w *walker) VisitEnumDecl(n *ast.EnumDecl, c scope) {
	sig := w.env.Global.User(n.Name.Name)
	if sig == nil {
		w.miss(n.Name)
	} else {
		w.ref(sig, n.Name.Span())
	}
	own := sig != nil && sig.Def == n.Name.Span() && sig.Type != nil
	for _, m := range n.Members {
		if own {
			if ms := sig.Type.Members().Get(m.Name.Name); ms != nil {
				w.ref(ms, m.Name.Span())
			}
		}
		w.visit(m.Value, c)
	}
}

func (w *walker) VisitEnumMember(n *ast.EnumMember, c scope) { w.visit(n.Value, c) }

func (w *walker) VisitMacroDecl(n *ast.MacroDecl, c scope) {
	if sig := w.env.Global.User(n.Name.Name); sig != nil {
		w.ref(sig, n.Name.Span())
	}
	w.visit(n.Body, w.globalScope())
}

func (w *walker) VisitIf(n *ast.IfStmt, c scope)             { w.children(n, c) }
func (w *walker) VisitWhile(n *ast.WhileStmt, c scope)       { w.children(n, c) }
func (w *walker) VisitDoUntil(n *ast.DoUntilStmt, c scope)   { w.children(n, c) }
func (w *walker) VisitRepeat(n *ast.RepeatStmt, c scope)     { w.children(n, c) }
func (w *walker) VisitFor(n *ast.ForStmt, c scope)           { w.children(n, c) }
func (w *walker) VisitSwitch(n *ast.SwitchStmt, c scope)     { w.children(n, c) }
func (w *walker) VisitCaseClause(n *ast.CaseClause, c scope) { w.children(n, c) }

// VisitWith keeps the current self: the receiver of a with block is a
// runtime value.
func (w *walker) VisitWith(n *ast.WithStmt, c scope) { w.children(n, c) }

func (w *walker) VisitReturn(n *ast.ReturnStmt, c scope) {
	if n.Value == nil {
		return
	}
	w.visit(n.Value, c)
	if c.fn != nil && w.inferRet[c.fn] {
		if t := w.funcTypes[c.fn]; t != nil {
			t.Returns = Union(t.Returns, w.exprType(n.Value, c))
		}
	}
}

func (w *walker) VisitExit(*ast.ExitStmt, scope)         {}
func (w *walker) VisitBreak(*ast.BreakStmt, scope)       {}
func (w *walker) VisitContinue(*ast.ContinueStmt, scope) {}
func (w *walker) VisitEmpty(*ast.EmptyStmt, scope)       {}
func (w *walker) VisitBadStmt(*ast.BadStmt, scope)       {}
func (w *walker) VisitBadExpr(*ast.BadExpr, scope)       {}
func (w *walker) VisitLiteral(*ast.Literal, scope)       {}
func (w *walker) VisitKeyword(*ast.KeywordExpr, scope)   {}

func (w *walker) VisitThrow(n *ast.ThrowStmt, c scope)   { w.children(n, c) }
func (w *walker) VisitDelete(n *ast.DeleteStmt, c scope) { w.children(n, c) }
func (w *walker) VisitExprStmt(n *ast.ExprStmt, c scope) { w.children(n, c) }

func (w *walker) VisitTry(n *ast.TryStmt, c scope) {
	w.visit(n.Body, c)
	if n.CatchParam != nil {
		if have := c.local.Lookup(n.CatchParam.Name); have != nil {
			w.ref(have, n.CatchParam.Span())
		} else {
			w.bindLocal(n.CatchParam, KindLocal, FlagWritable, c)
		}
	}
	if n.Catch != nil {
		w.visit(n.Catch, c)
	}
	if n.Finally != nil {
		w.visit(n.Finally, c)
	}
}

func (w *walker) VisitIdent(n *ast.Ident, c scope) { w.resolve(n, c) }

func (w *walker) VisitUnary(n *ast.UnaryExpr, c scope)     { w.children(n, c) }
func (w *walker) VisitBinary(n *ast.BinaryExpr, c scope)   { w.children(n, c) }
func (w *walker) VisitTernary(n *ast.TernaryExpr, c scope) { w.children(n, c) }
func (w *walker) VisitParen(n *ast.ParenExpr, c scope)     { w.children(n, c) }
func (w *walker) VisitIndex(n *ast.IndexExpr, c scope)     { w.children(n, c) }
func (w *walker) VisitArrayLit(n *ast.ArrayLit, c scope)   { w.children(n, c) }
func (w *walker) VisitCall(n *ast.CallExpr, c scope)       { w.children(n, c) }
func (w *walker) VisitNew(n *ast.NewExpr, c scope)         { w.children(n, c) }

func (w *walker) VisitUpdate(n *ast.UpdateExpr, c scope) { w.readWrite(n.X, c) }

// readWrite resolves the target of ++, -- and compound assignments: the
// name must already exist and be writable.
func (w *walker) readWrite(target ast.Expr, c scope) {
	switch x := target.(type) {
	case *ast.Ident:
		w.checkWritable(w.resolve(x, c), x.Span())
	case *ast.MemberExpr:
		w.checkWritable(w.member(x, c, false), x.Name.Span())
	default:
		w.visit(target, c)
	}
}

func (w *walker) VisitAssign(n *ast.AssignExpr, c scope) {
	if !n.Op.IsPlainAssign() {
		w.visit(n.Value, c)
		w.readWrite(n.Target, c)
		return
	}
	switch t := n.Target.(type) {
	case *ast.Ident:
		if s := w.lookup(t.Name, c); s != nil {
			w.seedFuncType(s, t.Span(), n.Value)
		}
		w.visit(n.Value, c)
		w.assignIdent(t, n.Value, c)
	case *ast.MemberExpr:
		if s := w.memberTarget(t, c); s != nil {
			w.seedFuncType(s, t.Name.Span(), n.Value)
		}
		w.visit(n.Value, c)
		if s := w.member(t, c, true); s != nil {
			w.checkWritable(s, t.Name.Span())
			if s.Def == t.Name.Span() || s.Kind == KindMember || s.Kind == KindGlobalVar {
				assignType(s, w.exprType(n.Value, c))
			}
		}
	default:
		w.visit(n.Value, c)
		w.visit(n.Target, c)
	}
}

// assignIdent binds the target of "name = value". Unknown names become
// members of a non-global self, or implicit locals otherwise.
func (w *walker) assignIdent(id *ast.Ident, value ast.Expr, c scope) {
	sig := w.lookup(id.Name, c)
	switch {
	case sig != nil:
		w.ref(sig, id.Span())
		w.checkWritable(sig, id.Span())
	case c.self.MembersWritable():
		sig = w.declareOnSelf(id, KindMember, c)
	default:
		sig = w.bindLocal(id, KindLocal, FlagWritable|FlagImplicit, c)
	}
	if sig.Writable() {
		assignType(sig, w.exprType(value, c))
	}
}

// seedFuncType lets "name = function() {}" fill the function type the
// declaration of name already carries, instead of building a second one.
func (w *walker) seedFuncType(sig *Signifier, loc source.Span, value ast.Expr) {
	fn, ok := value.(*ast.FuncExpr)
	if !ok || sig == nil || sig.Def != loc {
		return
	}
	if sig.Type == nil || sig.Type.Kind != TypeFunction {
		sig.Type = NewFunction(nil, nil)
	}
	w.funcTypes[fn] = sig.Type
}

func (w *walker) VisitStructLit(n *ast.StructLit, c scope) {
	st := NewStruct("")
	w.structs[n] = st
	for _, f := range n.Fields {
		sig := NewSignifier(f.Name.Name, KindMember, f.Name.Span())
		sig.Flags = FlagWritable
		sig.Owner = st
		st.Members().Add(sig)
		if f.Value == nil {
			// {name} reads the variable called name.
			if src := w.resolve(f.Name, c); src != nil {
				sig.Type = src.Type
			}
			continue
		}
		w.ref(sig, f.Name.Span())
		w.visit(f.Value, c)
		assignType(sig, w.exprType(f.Value, c))
	}
}

func (w *walker) VisitStructField(n *ast.StructField, c scope) { w.visit(n.Value, c) }

func (w *walker) structLitType(n *ast.StructLit) *Type {
	if t := w.structs[n]; t != nil {
		return t
	}
	return NewStruct("")
}
