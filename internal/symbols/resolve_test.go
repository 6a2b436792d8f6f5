package symbols

import (
	"reflect"
	"strings"
	"testing"

	"gmlsem/internal/diag"
	"gmlsem/internal/parser"
	"gmlsem/internal/source"
)

type fixture struct {
	t   *testing.T
	fs  *source.FileSet
	env *Env
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := NewGlobalSelf()
	nativeTypes := NewRegistry(nil)
	addNative(g, "show_debug_message", KindBuiltinFunction, 0)
	addNative(g, "instance_destroy", KindBuiltinFunction, 0)
	addNative(g, "c_white", KindBuiltinConstant, 0)
	addNative(g, "x", KindBuiltinVariable, FlagWritable|FlagInstance)
	return &fixture{
		t:   t,
		fs:  source.NewFileSet(),
		env: &Env{Global: g, Types: NewRegistry(nativeTypes)},
	}
}

func addNative(g *GlobalSelf, name string, kind Kind, flags Flags) {
	sig := NewSignifier(name, kind, source.Span{})
	sig.Flags = flags | FlagNative
	g.Native().Add(sig)
}

func (f *fixture) unit(path, src string, self Self) Unit {
	f.t.Helper()
	id, _ := f.fs.Add(path, []byte(src), 0)
	file := f.fs.Get(id)
	bag := diag.NewBag(0)
	res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		f.t.Fatalf("%s: unexpected syntax errors: %v", path, bag.Items())
	}
	return Unit{File: file, Tree: res.File, Self: self}
}

// run does pass 1 over every unit, then pass 2 over every unit.
func (f *fixture) run(units ...Unit) ([]*Discovery, []*Resolution) {
	discs := make([]*Discovery, len(units))
	for i, u := range units {
		discs[i] = DiscoverGlobals(u, f.env, nil)
	}
	res := make([]*Resolution, len(units))
	for i, u := range units {
		res[i] = ResolveFile(u, f.env, nil)
	}
	return discs, res
}

func offsetOf(t *testing.T, src, needle string) uint32 {
	t.Helper()
	i := strings.Index(src, needle)
	if i < 0 {
		t.Fatalf("%q not found", needle)
	}
	return uint32(i)
}

func refsIn(sig *Signifier, file source.FileID) int {
	n := 0
	for _, r := range sig.Refs() {
		if r.Loc.File == file {
			n++
		}
	}
	return n
}

func hasCode(diags []diag.Diagnostic, code diag.Code) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestForwardReferenceAcrossFiles(t *testing.T) {
	f := newFixture(t)
	a := f.unit("scripts/scriptA/scriptA.gml", "scriptB_fn(1);\n", nil)
	b := f.unit("scripts/scriptB/scriptB.gml", "function scriptB_fn(a) {\n    return a;\n}\n", nil)
	_, res := f.run(a, b)

	if len(res[0].Unresolved) != 0 {
		t.Fatalf("scriptA has unresolved names: %v", res[0].Unresolved)
	}
	sig := f.env.Global.User("scriptB_fn")
	if sig == nil || sig.Def.File != b.File.ID {
		t.Fatalf("scriptB_fn not declared by scriptB: %+v", sig)
	}
	if len(res[0].Refs) != 1 || res[0].Refs[0].Sig != sig {
		t.Fatalf("scriptA refs = %+v, want one ref to scriptB_fn", res[0].Refs)
	}
	if got := refsIn(sig, a.File.ID); got != 1 {
		t.Fatalf("refs from scriptA = %d, want 1", got)
	}
	if got := refsIn(sig, b.File.ID); got != 1 {
		t.Fatalf("refs from scriptB = %d, want 1 (the declaration)", got)
	}
}

func TestReferencesReplacedOnReresolve(t *testing.T) {
	f := newFixture(t)
	a := f.unit("scripts/a/a.gml", "helper();\nhelper();\n", nil)
	b := f.unit("scripts/b/b.gml", "function helper() {}\n", nil)
	_, res := f.run(a, b)
	sig := f.env.Global.User("helper")

	again := ResolveFile(a, f.env, res[0])
	if got := refsIn(sig, a.File.ID); got != 2 {
		t.Fatalf("after re-resolve refs from a = %d, want 2", got)
	}
	ResolveFile(a, f.env, again)
	if got := refsIn(sig, a.File.ID); got != 2 {
		t.Fatalf("after second re-resolve refs from a = %d, want 2", got)
	}
	if got := sig.RefCount(); got != 3 {
		t.Fatalf("total refs = %d, want 3", got)
	}
}

func TestScopeRangesNestedFunctions(t *testing.T) {
	f := newFixture(t)
	src := "var top = 1;\n" +
		"function outer(p) {\n" +
		"    var inner = function(q) {\n" +
		"        return q + p;\n" +
		"    };\n" +
		"    return inner;\n" +
		"}\n" +
		"top += 1;\n"
	u := f.unit("scripts/s/s.gml", src, nil)
	_, res := f.run(u)
	r := res[0]

	if err := r.Ranges.Validate(u.File.Len()); err != nil {
		t.Fatalf("invalid ranges: %v", err)
	}
	if len(r.Ranges) != 5 {
		t.Fatalf("got %d ranges, want 5: %+v", len(r.Ranges), r.Ranges)
	}
	innerRange := r.Ranges.At(offsetOf(t, src, "q + p"))
	if innerRange.Local.Lookup("q") == nil {
		t.Fatalf("q not visible inside inner function")
	}
	if innerRange.Local.Lookup("p") != nil {
		t.Fatalf("outer parameter leaked into inner function")
	}
	outerRange := r.Ranges.At(offsetOf(t, src, "return inner"))
	if outerRange.Local.Lookup("inner") == nil || outerRange.Local.Lookup("p") == nil {
		t.Fatalf("outer locals missing after inner function closed")
	}
	topRange := r.Ranges.At(offsetOf(t, src, "top += 1"))
	if topRange.Local != r.Ranges[0].Local {
		t.Fatalf("top-level context not restored after outer function")
	}
	if len(r.Unresolved) != 1 || r.Unresolved[0].Name != "p" {
		t.Fatalf("unresolved = %+v, want only p", r.Unresolved)
	}
}

func TestRangesOpenAtParameterList(t *testing.T) {
	f := newFixture(t)
	src := "function f(a, b = a) {\n    return b;\n}"
	u := f.unit("scripts/f/f.gml", src, nil)
	_, res := f.run(u)
	r := res[0]
	if err := r.Ranges.Validate(u.File.Len()); err != nil {
		t.Fatalf("invalid ranges: %v", err)
	}
	// the closing brace ends the file, so no range follows it
	if len(r.Ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(r.Ranges))
	}
	if r.Ranges[1].Start != offsetOf(t, src, "(") {
		t.Fatalf("function range starts at %d", r.Ranges[1].Start)
	}
	if len(r.Unresolved) != 0 {
		t.Fatalf("default value did not see the earlier parameter: %v", r.Unresolved)
	}
}

func TestLookupOrderLocalFirst(t *testing.T) {
	f := newFixture(t)
	g := f.unit("scripts/g/g.gml", "count = 0;\n", nil)
	s := f.unit("scripts/s/s.gml", "function f() {\n    var count = 1;\n    return count;\n}\nshow_debug_message(count);\n", nil)
	_, res := f.run(g, s)

	global := f.env.Global.User("count")
	if global == nil || global.Kind != KindGlobalVar {
		t.Fatalf("count is not a global variable: %+v", global)
	}
	var local *Signifier
	for _, e := range res[1].Refs {
		if e.Sig.Name == "count" && e.Sig.Kind == KindLocal {
			local = e.Sig
		}
	}
	if local == nil || local.RefCount() != 2 {
		t.Fatalf("local count refs wrong: %+v", local)
	}
	if got := refsIn(global, s.File.ID); got != 1 {
		t.Fatalf("global count refs from s = %d, want 1", got)
	}
	if res[1].Refs[len(res[1].Refs)-1].Sig.Name != "count" {
		t.Fatalf("refs not sorted by location")
	}
}

func TestRediscoveryKeepsSignifier(t *testing.T) {
	f := newFixture(t)
	a := f.unit("scripts/a/a.gml", "helper();\n", nil)
	b := f.unit("scripts/b/b.gml", "function helper() {}\n", nil)
	discs, res := f.run(a, b)
	first := f.env.Global.User("helper")

	b = f.unit("scripts/b/b.gml", "function helper(x) {\n    return x;\n}\n", nil)
	d2 := DiscoverGlobals(b, f.env, discs[1])
	if got := f.env.Global.User("helper"); got != first {
		t.Fatalf("rediscovery replaced the signifier")
	}
	if len(d2.Created) != 0 || len(d2.Released) != 0 {
		t.Fatalf("created=%v released=%v, want none", d2.Created, d2.Released)
	}
	if refsIn(first, a.File.ID) != 1 {
		t.Fatalf("reference from a lost by rediscovery")
	}

	b = f.unit("scripts/b/b.gml", "function other_fn() {}\n", nil)
	d3 := DiscoverGlobals(b, f.env, d2)
	if f.env.Global.User("helper") != nil {
		t.Fatalf("helper still declared after its file dropped it")
	}
	if len(d3.Released) != 1 || d3.Released[0] != first {
		t.Fatalf("released = %v, want helper", d3.Released)
	}
	if len(d3.Created) != 1 || d3.Created[0].Name != "other_fn" {
		t.Fatalf("created = %v, want other_fn", d3.Created)
	}
	r := ResolveFile(a, f.env, res[0])
	if len(r.Unresolved) != 1 || r.Unresolved[0].Name != "helper" {
		t.Fatalf("unresolved = %+v, want helper", r.Unresolved)
	}
	if first.RefCount() != 1 {
		t.Fatalf("stale references kept on released helper: %d", first.RefCount())
	}
}

func TestRemoveFileReleasesGlobals(t *testing.T) {
	f := newFixture(t)
	a := f.unit("scripts/a/a.gml", "var n = LIMIT;\n", nil)
	b := f.unit("scripts/b/b.gml", "#macro LIMIT 10\nenum State { Idle, Run }\n", nil)
	discs, res := f.run(a, b)
	if len(res[0].Unresolved) != 0 {
		t.Fatalf("unexpected unresolved: %v", res[0].Unresolved)
	}

	res[1].Release(b.File.ID, f.env.Types)
	released := discs[1].Release(f.env.Types)
	if len(released) != 4 {
		t.Fatalf("released %d signifiers, want 4 (macro, enum, two members)", len(released))
	}
	if f.env.Types.Get("Enum.State") != nil {
		t.Fatalf("enum type still registered")
	}
	r := ResolveFile(a, f.env, res[0])
	if len(r.Unresolved) != 1 || r.Unresolved[0].Name != "LIMIT" {
		t.Fatalf("unresolved = %+v, want LIMIT", r.Unresolved)
	}
}

func TestDuplicates(t *testing.T) {
	f := newFixture(t)
	src := "var a = 1;\nvar a = 2;\nfunction f(p, p) {}\n"
	u := f.unit("scripts/d/d.gml", src, nil)
	_, res := f.run(u)
	r := res[0]

	if !hasCode(r.Diagnostics, diag.SemaDuplicateDeclaration) {
		t.Fatalf("missing duplicate declaration warning: %v", r.Diagnostics)
	}
	if !hasCode(r.Diagnostics, diag.SemaDuplicateParam) {
		t.Fatalf("missing duplicate parameter error: %v", r.Diagnostics)
	}
	for _, d := range r.Diagnostics {
		if d.Code == diag.SemaDuplicateDeclaration && d.Severity != diag.SevWarning {
			t.Fatalf("duplicate var must be a warning")
		}
		if d.Code == diag.SemaDuplicateParam && d.Severity != diag.SevError {
			t.Fatalf("duplicate parameter must be an error")
		}
	}
	e, ok := r.SymbolAt(offsetOf(t, src, "a = 2"))
	if !ok {
		t.Fatalf("second a has no symbol")
	}
	refs := e.Sig.Refs()
	if len(refs) != 2 || !refs[0].IsDef || refs[1].IsDef {
		t.Fatalf("refs of a = %+v, want definition then use", refs)
	}
}

func TestDuplicateGlobalAcrossFiles(t *testing.T) {
	f := newFixture(t)
	a := f.unit("scripts/a/a.gml", "function dup() {}\n", nil)
	b := f.unit("scripts/b/b.gml", "function dup() {}\n", nil)
	discs, _ := f.run(a, b)
	if len(discs[0].Diagnostics) != 0 {
		t.Fatalf("first declaration reported: %v", discs[0].Diagnostics)
	}
	if !hasCode(discs[1].Diagnostics, diag.SemaDuplicateGlobal) {
		t.Fatalf("missing duplicate global: %v", discs[1].Diagnostics)
	}
	if len(discs[1].Diagnostics[0].Notes) != 1 {
		t.Fatalf("duplicate global has no note pointing at the first declaration")
	}
	if f.env.Global.User("dup").Def.File != a.File.ID {
		t.Fatalf("first file must keep the name")
	}
	if len(discs[0].Lost) != 0 || !reflect.DeepEqual(discs[1].Lost, []string{"dup"}) {
		t.Fatalf("lost = %v / %v, want only the second file to lose dup", discs[0].Lost, discs[1].Lost)
	}

	// once the owner lets go, the other file takes the name over
	released := discs[0].Release(f.env.Types)
	if len(released) != 1 || !discs[1].LostAny(map[string]struct{}{released[0].Name: {}}) {
		t.Fatalf("released %v, or the second file did not lose it", released)
	}
	d := DiscoverGlobals(b, f.env, discs[1])
	if got := f.env.Global.User("dup"); got == nil || got.Def.File != b.File.ID {
		t.Fatalf("dup after takeover = %v", got)
	}
	if len(d.Diagnostics) != 0 || len(d.Lost) != 0 {
		t.Fatalf("takeover kept diagnostics %v lost %v", d.Diagnostics, d.Lost)
	}
}

func TestConstructorAndStatics(t *testing.T) {
	f := newFixture(t)
	src := "function Vec2(_x, _y) constructor {\n" +
		"    x = _x;\n" +
		"    y = _y;\n" +
		"    static zero = function() {\n" +
		"        return new Vec2(0, 0);\n" +
		"    };\n" +
		"}\n" +
		"var v = new Vec2(1, 2);\n" +
		"var z = Vec2.zero;\n" +
		"var vx = v.x;\n"
	u := f.unit("scripts/vec/vec.gml", src, nil)
	_, res := f.run(u)
	r := res[0]
	if len(r.Unresolved) != 0 {
		t.Fatalf("unresolved: %+v", r.Unresolved)
	}

	st := f.env.Types.Get("Struct.Vec2")
	if st == nil {
		t.Fatalf("Struct.Vec2 not registered")
	}
	ctor := f.env.Global.User("Vec2")
	if ctor.Kind != KindConstructor || ctor.Type.Constructs != st {
		t.Fatalf("Vec2 = %s", ctor.Detail())
	}
	x := st.Members().Get("x")
	if x == nil || x.Kind != KindMember {
		t.Fatalf("x is not a member of Vec2")
	}
	if x.RefCount() != 2 {
		t.Fatalf("x refs = %d, want 2 (assignment and v.x)", x.RefCount())
	}
	zero := st.Members().Get("zero")
	if zero == nil || zero.Flags&FlagStatic == 0 {
		t.Fatalf("zero is not a static")
	}
	e, ok := r.SymbolAt(offsetOf(t, src, "zero;"))
	if !ok || e.Sig != zero {
		t.Fatalf("Vec2.zero does not resolve to the static")
	}
	v, _ := r.SymbolAt(offsetOf(t, src, "v = new"))
	if got := v.Sig.Type.String(); got != "Struct.Vec2" {
		t.Fatalf("type of v = %q", got)
	}
	if got := ctor.Type.String(); got != "Function(_x, _y) -> Struct.Vec2" {
		t.Fatalf("constructor type = %q", got)
	}
	// x inside the constructor is the struct member, not the instance builtin
	if e, _ := r.SymbolAt(offsetOf(t, src, "x = _x")); e.Sig != x {
		t.Fatalf("x in constructor bound to %s", e.Sig.Detail())
	}
}

func TestConstructorInheritance(t *testing.T) {
	f := newFixture(t)
	src := "function Shape() constructor {\n" +
		"    area = 0;\n" +
		"}\n" +
		"function Circle(_r) : Shape() constructor {\n" +
		"    r = _r;\n" +
		"}\n" +
		"var c = new Circle(1);\n" +
		"var a = c.area;\n"
	u := f.unit("scripts/shapes/shapes.gml", src, nil)
	_, res := f.run(u)
	if len(res[0].Unresolved) != 0 {
		t.Fatalf("unresolved: %+v", res[0].Unresolved)
	}
	circle := f.env.Types.Get("Struct.Circle")
	shape := f.env.Types.Get("Struct.Shape")
	if circle.Parent != shape {
		t.Fatalf("Circle does not inherit Shape")
	}
	e, ok := res[0].SymbolAt(offsetOf(t, src, "area;"))
	if !ok || e.Sig != shape.Members().Get("area") {
		t.Fatalf("c.area does not resolve to the inherited member")
	}
}

func TestEnumMembers(t *testing.T) {
	f := newFixture(t)
	src := "enum Color { Red, Green }\nvar c = Color.Green;\nvar d = Color.Blue;\n"
	u := f.unit("scripts/colors/colors.gml", src, nil)
	_, res := f.run(u)
	r := res[0]

	green, ok := r.SymbolAt(offsetOf(t, src, "Green;"))
	if !ok || green.Sig.Kind != KindEnumMember {
		t.Fatalf("Color.Green not resolved")
	}
	if green.Sig.RefCount() != 2 {
		t.Fatalf("Green refs = %d, want 2", green.Sig.RefCount())
	}
	if !hasCode(r.Diagnostics, diag.SemaUnknownMember) {
		t.Fatalf("missing unknown member error for Color.Blue: %v", r.Diagnostics)
	}
	c, _ := r.SymbolAt(offsetOf(t, src, "c = "))
	if got := c.Sig.Type.String(); got != "Enum.Color" {
		t.Fatalf("type of c = %q", got)
	}
}

func TestInstanceMembersSharedByEvents(t *testing.T) {
	f := newFixture(t)
	obj := NewInstanceSelf("obj_player")
	create := f.unit("objects/obj_player/Create_0.gml", "hp = 10;\nx = 4;\n", obj)
	step := f.unit("objects/obj_player/Step_0.gml", "hp -= 1;\nif (hp <= 0) instance_destroy();\n", obj)
	_, res := f.run(create, step)

	hp := obj.Members().Get("hp")
	if hp == nil {
		t.Fatalf("hp not declared on the instance")
	}
	if hp.RefCount() != 3 {
		t.Fatalf("hp refs = %d, want 3", hp.RefCount())
	}
	if obj.Members().Get("x") != nil {
		t.Fatalf("builtin instance variable x redeclared as a member")
	}
	for _, r := range res {
		if len(r.Unresolved) != 0 {
			t.Fatalf("unresolved: %+v", r.Unresolved)
		}
	}
}

func TestParentObjectMembers(t *testing.T) {
	f := newFixture(t)
	parent := NewInstanceSelf("obj_enemy")
	child := NewInstanceSelf("obj_boss")
	if !child.SetParent(parent) {
		t.Fatalf("SetParent refused a valid link")
	}
	if parent.SetParent(child) {
		t.Fatalf("SetParent accepted a cycle")
	}
	pc := f.unit("objects/obj_enemy/Create_0.gml", "hp = 5;\n", parent)
	cc := f.unit("objects/obj_boss/Create_0.gml", "hp = 100;\nrage = 0;\n", child)
	f.run(pc, cc)

	hp := parent.Members().Get("hp")
	if child.Members().Get("hp") != nil {
		t.Fatalf("child redeclared an inherited member")
	}
	if child.Lookup("hp") != hp || hp.RefCount() != 2 {
		t.Fatalf("child does not share the parent's hp")
	}
	if child.Members().Get("rage") == nil {
		t.Fatalf("child member rage missing")
	}
}

func TestImplicitLocalUnderGlobalSelf(t *testing.T) {
	f := newFixture(t)
	src := "function f() {\n    tmp = 1;\n    return tmp;\n}\n"
	u := f.unit("scripts/f/f.gml", src, nil)
	_, res := f.run(u)
	if f.env.Global.User("tmp") != nil {
		t.Fatalf("assignment inside a script function declared a global")
	}
	e, ok := res[0].SymbolAt(offsetOf(t, src, "tmp;"))
	if !ok || e.Sig.Flags&FlagImplicit == 0 || e.Sig.Kind != KindLocal {
		t.Fatalf("tmp is not an implicit local")
	}
	if got := f.env.Global.User("f").Type.String(); got != "Function() -> Real" {
		t.Fatalf("inferred type = %q", got)
	}
}

func TestAssignReadonly(t *testing.T) {
	f := newFixture(t)
	a := f.unit("scripts/a/a.gml", "show_debug_message = 1;\nfn = 2;\nx = 3;\n", nil)
	b := f.unit("scripts/b/b.gml", "function fn() {}\n", nil)
	// fn must exist before a is discovered, or a declares it as a variable
	_, res := f.run(b, a)
	n := 0
	for _, d := range res[1].Diagnostics {
		if d.Code == diag.SemaAssignReadonly {
			n++
		}
	}
	if n != 2 {
		t.Fatalf("readonly errors = %d, want 2: %v", n, res[1].Diagnostics)
	}
}

func TestMacroGlobalvarAndGlobalMembers(t *testing.T) {
	f := newFixture(t)
	a := f.unit("scripts/a/a.gml", "#macro MAX_HP 100\nglobalvar score;\nglobal.lives = 3;\n", nil)
	b := f.unit("scripts/b/b.gml", "var m = MAX_HP;\nscore += 1;\nglobal.lives -= 1;\nshow_debug_message(lives);\n", nil)
	_, res := f.run(a, b)
	if len(res[1].Unresolved) != 0 {
		t.Fatalf("unresolved: %+v", res[1].Unresolved)
	}
	lives := f.env.Global.User("lives")
	if lives == nil || lives.Kind != KindGlobalVar || lives.RefCount() != 3 {
		t.Fatalf("lives = %+v", lives)
	}
	if got := lives.Type.String(); got != "Real" {
		t.Fatalf("type of lives = %q", got)
	}
	if got := f.env.Global.User("MAX_HP").Kind; got != KindMacro {
		t.Fatalf("MAX_HP kind = %s", got)
	}
	if f.env.Global.User("score") == nil {
		t.Fatalf("globalvar score not declared")
	}
}

func TestDocCommentTypes(t *testing.T) {
	f := newFixture(t)
	src := "/// @param {Real} a\n/// @param {String} [b]\n/// @return {Real}\nfunction add(a, b) {\n    return a;\n}\n"
	u := f.unit("scripts/add/add.gml", src, nil)
	f.run(u)
	got := f.env.Global.User("add").Type.String()
	if got != "Function(a: Real, b?: String) -> Real" {
		t.Fatalf("type = %q", got)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	src := "var top = 1;\nfunction g(p) {\n    var q = p + top;\n    return q;\n}\nmissing(top);\n"
	u := f.unit("scripts/g/g.gml", src, nil)
	discs, res := f.run(u)

	key := func(r *Resolution) []string {
		var out []string
		for _, e := range r.Refs {
			out = append(out, e.Sig.Name+"@"+e.Loc.String())
		}
		for _, rg := range r.Ranges {
			out = append(out, "range@"+source.Span{Start: rg.Start}.String())
		}
		for _, m := range r.Unresolved {
			out = append(out, "missing:"+m.Name)
		}
		return out
	}
	g := f.env.Global.User("g")
	before := g.RefCount()
	DiscoverGlobals(u, f.env, discs[0])
	again := ResolveFile(u, f.env, res[0])
	if !reflect.DeepEqual(key(res[0]), key(again)) {
		t.Fatalf("second resolution differs:\n%v\n%v", key(res[0]), key(again))
	}
	if !reflect.DeepEqual(res[0].Diagnostics, again.Diagnostics) {
		t.Fatalf("diagnostics differ")
	}
	if g.RefCount() != before {
		t.Fatalf("refs of g grew from %d to %d", before, g.RefCount())
	}
}

func TestInScopeAt(t *testing.T) {
	f := newFixture(t)
	src := "globalThing = 1;\nfunction h(arg) {\n    var loc = arg;\n    return loc;\n}\n"
	u := f.unit("scripts/h/h.gml", src, nil)
	_, res := f.run(u)
	names := map[string]bool{}
	for _, s := range res[0].InScopeAt(offsetOf(t, src, "return loc"), f.env.Global) {
		names[s.Name] = true
	}
	for _, want := range []string{"arg", "loc", "h", "globalThing", "show_debug_message"} {
		if !names[want] {
			t.Fatalf("%s not in scope: %v", want, names)
		}
	}
	if _, ok := res[0].SymbolAt(offsetOf(t, src, "\n    var")); ok {
		t.Fatalf("symbol found on whitespace")
	}
	diags := res[0].UnresolvedDiagnostics(diag.SevWarning)
	if len(diags) != 0 {
		t.Fatalf("unexpected unresolved diagnostics: %v", diags)
	}
}
