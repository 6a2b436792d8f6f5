package parser

import (
	"testing"

	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/source"
	"gmlsem/internal/testkit"
	"gmlsem/internal/token"
)

func parse(t *testing.T, src string) (*ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.gml", []byte(src))
	bag := diag.NewBag(0)
	res := ParseFile(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return res.File, bag
}

func parseClean(t *testing.T, src string) *ast.File {
	t.Helper()
	f, bag := parse(t, src)
	if bag.Len() != 0 {
		t.Fatalf("%q: unexpected diagnostics: %+v", src, bag.Items())
	}
	return f
}

func TestParseAssignmentVsComparison(t *testing.T) {
	f := parseClean(t, "a = 1; if a = 1 { b = 2 }")
	asg, ok := f.Stmts[0].(*ast.ExprStmt).X.(*ast.AssignExpr)
	if !ok || asg.Op != token.Assign {
		t.Fatalf("first statement must be an assignment, got %T", f.Stmts[0].(*ast.ExprStmt).X)
	}
	cond, ok := f.Stmts[1].(*ast.IfStmt).Cond.(*ast.BinaryExpr)
	if !ok || cond.Op != token.EqEq {
		t.Fatalf("'=' in a condition must compare, got %#v", f.Stmts[1].(*ast.IfStmt).Cond)
	}
}

func TestParseFunctionDecl(t *testing.T) {
	src := "/// @desc ctor\nfunction Vec2(x, y = 0) : Base(x) constructor {\n  static len = function() { return 0; }\n}"
	f := parseClean(t, src)
	decl, ok := f.Stmts[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("want FunctionDecl, got %T", f.Stmts[0])
	}
	fn := decl.Func
	if fn.Name.Name != "Vec2" || !fn.IsConstructor || len(fn.Params) != 2 || fn.Inherits == nil {
		t.Fatalf("unexpected func %+v", fn)
	}
	if fn.Params[1].Default == nil {
		t.Fatalf("default value lost")
	}
	if fn.Doc != "@desc ctor" {
		t.Fatalf("doc = %q", fn.Doc)
	}
	if got := src[fn.Lparen.Start:fn.Lparen.End]; got != "(" {
		t.Fatalf("Lparen points at %q", got)
	}
	if got := src[fn.Body.Rbrace.Start:fn.Body.Rbrace.End]; got != "}" {
		t.Fatalf("Rbrace points at %q", got)
	}
	static := fn.Body.Stmts[0].(*ast.VarDecl)
	if static.Decl != ast.DeclStatic {
		t.Fatalf("want static decl, got %v", static.Decl)
	}
	if _, ok := static.Items[0].Init.(*ast.FuncExpr); !ok {
		t.Fatalf("static initializer must be a function literal")
	}
}

func TestParseAnonymousFunctionArgument(t *testing.T) {
	f := parseClean(t, "array_foreach(arr, function(v, i) { total += v; });")
	call := f.Stmts[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	if len(call.Args) != 2 {
		t.Fatalf("want 2 args, got %d", len(call.Args))
	}
	if _, ok := call.Args[1].(*ast.FuncExpr); !ok {
		t.Fatalf("second arg must be a function, got %T", call.Args[1])
	}
}

func TestParseControlFlow(t *testing.T) {
	src := `
for (var i = 0; i < 10; i++) { total += i; }
while (x > 0) x--;
do { y++ } until (y > 3);
repeat (3) show_debug_message("hi");
with (obj_enemy) { hp -= 1; }
switch (state) {
	case 0: a = 1; break;
	case 1:
	default: a = 2;
}
try { risky(); } catch (e) { show_debug_message(e); } finally { done = true; }
return;
`
	f := parseClean(t, src)
	want := []ast.Kind{ast.KindFor, ast.KindWhile, ast.KindDoUntil, ast.KindRepeat, ast.KindWith, ast.KindSwitch, ast.KindTry, ast.KindReturn}
	if len(f.Stmts) != len(want) {
		t.Fatalf("got %d statements, want %d", len(f.Stmts), len(want))
	}
	for i, k := range want {
		if f.Stmts[i].Kind() != k {
			t.Fatalf("stmt %d: got %v want %v", i, f.Stmts[i].Kind(), k)
		}
	}
	sw := f.Stmts[5].(*ast.SwitchStmt)
	if len(sw.Cases) != 3 || sw.Cases[2].Value != nil {
		t.Fatalf("unexpected cases %+v", sw.Cases)
	}
	tr := f.Stmts[6].(*ast.TryStmt)
	if tr.CatchParam == nil || tr.CatchParam.Name != "e" || tr.Finally == nil {
		t.Fatalf("unexpected try %+v", tr)
	}
}

func TestParseEnumAndMacro(t *testing.T) {
	f := parseClean(t, "enum Color { Red, Green = 5, Blue }\n#macro SPEED 4 * 2\n#macro cfg:DEBUG true\n#macro LOOP while (true) {\nx = Color.Red;")
	enum := f.Stmts[0].(*ast.EnumDecl)
	if enum.Name.Name != "Color" || len(enum.Members) != 3 || enum.Members[1].Value == nil {
		t.Fatalf("unexpected enum %+v", enum)
	}
	speed := f.Stmts[1].(*ast.MacroDecl)
	if speed.Name.Name != "SPEED" || speed.Body == nil {
		t.Fatalf("unexpected macro %+v", speed)
	}
	debug := f.Stmts[2].(*ast.MacroDecl)
	if debug.Config == nil || debug.Config.Name != "cfg" || debug.Name.Name != "DEBUG" {
		t.Fatalf("unexpected config macro %+v", debug)
	}
	loop := f.Stmts[3].(*ast.MacroDecl)
	if loop.Body != nil {
		t.Fatalf("statement-like macro bodies are not kept")
	}
	if _, ok := f.Stmts[4].(*ast.ExprStmt); !ok {
		t.Fatalf("parsing must continue after the macro, got %T", f.Stmts[4])
	}
}

func TestParseAccessorsAndLiterals(t *testing.T) {
	f := parseClean(t, "m[? \"k\"] = { a: 1, b: [1, 2], c };\nglobal.score += self.bonus;\nvar v = new Vec2(1, 2);")
	asg := f.Stmts[0].(*ast.ExprStmt).X.(*ast.AssignExpr)
	idx := asg.Target.(*ast.IndexExpr)
	if idx.Accessor != token.LBracketQ {
		t.Fatalf("accessor = %v", idx.Accessor)
	}
	lit := asg.Value.(*ast.StructLit)
	if len(lit.Fields) != 3 || lit.Fields[2].Value != nil {
		t.Fatalf("unexpected struct literal %+v", lit)
	}
	glob := f.Stmts[1].(*ast.ExprStmt).X.(*ast.AssignExpr).Target.(*ast.MemberExpr)
	if kw, ok := glob.X.(*ast.KeywordExpr); !ok || kw.Tok != token.KwGlobal {
		t.Fatalf("want global.score target, got %#v", glob.X)
	}
	init := f.Stmts[2].(*ast.VarDecl).Items[0].Init.(*ast.NewExpr)
	if init.Ctor.(*ast.Ident).Name != "Vec2" || len(init.Args) != 2 {
		t.Fatalf("unexpected new %+v", init)
	}
}

func TestParseRecoversAfterErrors(t *testing.T) {
	f, bag := parse(t, "a = ;\nb = 2;\nfunction f( { }\nc = 3;")
	if bag.Len() == 0 {
		t.Fatalf("expected syntax errors")
	}
	var assigned []string
	ast.Inspect(f, func(n ast.Node) bool {
		if asg, ok := n.(*ast.AssignExpr); ok {
			if id, ok := asg.Target.(*ast.Ident); ok {
				assigned = append(assigned, id.Name)
			}
		}
		return true
	})
	found := map[string]bool{}
	for _, n := range assigned {
		found[n] = true
	}
	if !found["b"] || !found["c"] {
		t.Fatalf("statements after errors were lost, assigned=%v", assigned)
	}
}

func TestParseUnclosedBlockTerminates(t *testing.T) {
	f, bag := parse(t, "function f() {\n  var a = 1;\n")
	if bag.Len() == 0 {
		t.Fatalf("expected an unclosed brace diagnostic")
	}
	if len(f.Stmts) != 1 {
		t.Fatalf("want 1 statement, got %d", len(f.Stmts))
	}
}

func TestParseSpansNest(t *testing.T) {
	src := `#macro LIMIT 10
enum Dir { left, right = 3 }
/// @desc mover
function Mover(speed_, dir = Dir.left) : Base(speed_) constructor {
	static step = function() { return self.speed_ * 2; };
	var list = [1, 2, { a: 1, b }];
	switch (dir) {
		case Dir.left: list[@ 0] += 1; break;
		default: list[| 1]--;
	}
	with (other) { try { counter++; } catch (e) { throw e; } }
	for (var i = 0; i < LIMIT; i++) { repeat (2) exit; }
}
`
	fs := source.NewFileSet()
	id := fs.AddVirtual("spans.gml", []byte(src))
	bag := diag.NewBag(0)
	res := ParseFile(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if err := testkit.CheckSpans(res.File, fs.Get(id)); err != nil {
		t.Fatalf("%v", err)
	}
}
