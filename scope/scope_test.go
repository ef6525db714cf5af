package scope

import (
	"testing"

	"github.com/deftliang/grass/ast"
	"github.com/deftliang/grass/value"
)

func TestLookupWalksChain(t *testing.T) {
	root := NewRoot()
	root.Define("color", value.Unquoted("red"))

	inner := root.Child().Child()
	v, ok := inner.Lookup("color")
	if !ok {
		t.Fatal("expected outer binding to resolve from inner frame")
	}
	if v.(value.Str).Text != "red" {
		t.Errorf("got %v", v)
	}

	if _, ok := inner.Lookup("missing"); ok {
		t.Error("unbound name resolved")
	}
}

func TestDefineShadows(t *testing.T) {
	root := NewRoot()
	root.Define("x", value.Num(1, ""))

	inner := root.Child()
	inner.Define("x", value.Num(2, ""))

	if v, _ := inner.Lookup("x"); !v.Equal(value.Num(2, "")) {
		t.Errorf("inner lookup = %v, want 2", v)
	}
	if v, _ := root.Lookup("x"); !v.Equal(value.Num(1, "")) {
		t.Errorf("outer binding changed to %v", v)
	}
}

func TestSetWritesOwningFrame(t *testing.T) {
	root := NewRoot()
	root.Define("x", value.Num(1, ""))

	inner := root.Child()
	inner.Set("x", value.Num(10, ""))

	if v, _ := root.Lookup("x"); !v.Equal(value.Num(10, "")) {
		t.Errorf("owning frame not updated, got %v", v)
	}
	if _, owned := inner.vars["x"]; owned {
		t.Error("Set created a shadow binding in the inner frame")
	}
}

func TestSetUnboundDefinesLocally(t *testing.T) {
	root := NewRoot()
	inner := root.Child()
	inner.Set("y", value.Num(5, ""))

	if _, ok := root.Lookup("y"); ok {
		t.Error("unbound Set leaked into root")
	}
	if v, ok := inner.Lookup("y"); !ok || !v.Equal(value.Num(5, "")) {
		t.Errorf("got %v, %v", v, ok)
	}
}

func TestSetGlobal(t *testing.T) {
	root := NewRoot()
	inner := root.Child().Child()
	inner.SetGlobal("brand", value.Unquoted("blue"))

	if v, ok := root.Lookup("brand"); !ok || v.(value.Str).Text != "blue" {
		t.Errorf("root lookup = %v, %v", v, ok)
	}
	if !inner.GlobalVarExists("brand") {
		t.Error("GlobalVarExists is false after SetGlobal")
	}
}

func TestSetDefault(t *testing.T) {
	s := NewRoot()

	s.SetDefault("pad", value.Num(8, "px"))
	if v, _ := s.Lookup("pad"); !v.Equal(value.Num(8, "px")) {
		t.Errorf("unset name not defaulted, got %v", v)
	}

	s.SetDefault("pad", value.Num(16, "px"))
	if v, _ := s.Lookup("pad"); !v.Equal(value.Num(8, "px")) {
		t.Errorf("default overwrote existing binding: %v", v)
	}

	s.Define("gap", value.Null)
	s.SetDefault("gap", value.Num(4, "px"))
	if v, _ := s.Lookup("gap"); !v.Equal(value.Num(4, "px")) {
		t.Errorf("null binding should accept the default, got %v", v)
	}
}

func TestVarExists(t *testing.T) {
	root := NewRoot()
	root.Define("a", value.True)
	inner := root.Child()
	inner.Define("b", value.False)

	if !inner.VarExists("a") || !inner.VarExists("b") {
		t.Error("VarExists missed a bound name")
	}
	if inner.GlobalVarExists("b") {
		t.Error("local binding reported as global")
	}
}

func TestMixinAndFuncResolution(t *testing.T) {
	root := NewRoot()
	mx := &Mixin{Decl: &ast.MixinStmt{Name: "corner"}, Env: root}
	fn := &Function{Decl: &ast.FunctionStmt{Name: "double"}, Env: root}
	root.DefineMixin("corner", mx)
	root.DefineFunc("double", fn)

	inner := root.Child()
	if got, ok := inner.LookupMixin("corner"); !ok || got != mx {
		t.Errorf("LookupMixin = %v, %v", got, ok)
	}
	if got, ok := inner.LookupFunc("double"); !ok || got != fn {
		t.Errorf("LookupFunc = %v, %v", got, ok)
	}
	if _, ok := inner.LookupMixin("double"); ok {
		t.Error("function resolved through the mixin table")
	}
}

func TestClosureEnvSurvivesFrameExit(t *testing.T) {
	root := NewRoot()
	block := root.Child()
	block.Define("captured", value.Num(3, ""))
	mx := &Mixin{Decl: &ast.MixinStmt{Name: "m"}, Env: block}
	root.DefineMixin("m", mx)

	// The defining frame stays reachable through the closure even
	// after the block is left.
	got, _ := root.LookupMixin("m")
	if v, ok := got.Env.Lookup("captured"); !ok || !v.Equal(value.Num(3, "")) {
		t.Errorf("captured binding lost: %v, %v", v, ok)
	}
}

func newModule(t *testing.T, name string) *Module {
	t.Helper()
	root := NewRoot()
	root.Define("size", value.Num(12, "px"))
	root.Define("-secret", value.Num(1, ""))
	root.Define("_hidden", value.Num(2, ""))
	root.DefineMixin("shadow", &Mixin{Decl: &ast.MixinStmt{Name: "shadow"}, Env: root})
	root.DefineFunc("scale", &Function{Decl: &ast.FunctionStmt{Name: "scale"}, Env: root})
	root.DefineFunc("-internal", &Function{Decl: &ast.FunctionStmt{Name: "-internal"}, Env: root})
	return NewModule(name, "lib/"+name+".scss", root)
}

func TestModuleMemberAccess(t *testing.T) {
	m := newModule(t, "theme")

	if v, ok := m.Var("size"); !ok || !v.Equal(value.Num(12, "px")) {
		t.Errorf("Var(size) = %v, %v", v, ok)
	}
	if _, ok := m.Var("-secret"); ok {
		t.Error("private variable visible through namespace")
	}
	if _, ok := m.Var("_hidden"); ok {
		t.Error("underscore-private variable visible through namespace")
	}
	if _, ok := m.Mixin("shadow"); !ok {
		t.Error("member mixin not found")
	}
	if _, ok := m.Func("scale"); !ok {
		t.Error("member function not found")
	}
	if _, ok := m.Func("-internal"); ok {
		t.Error("private function visible through namespace")
	}
}

func TestAddModuleConflicts(t *testing.T) {
	s := NewRoot()
	a := newModule(t, "a")
	b := newModule(t, "b")

	if err := s.AddModule("lib", a); err != nil {
		t.Fatalf("first AddModule: %v", err)
	}
	if err := s.AddModule("lib", a); err != nil {
		t.Errorf("re-adding the same module should be a no-op: %v", err)
	}
	if err := s.AddModule("lib", b); err == nil {
		t.Error("expected a namespace conflict error")
	}

	inner := s.Child()
	if got, ok := inner.LookupModule("lib"); !ok || got != a {
		t.Errorf("LookupModule = %v, %v", got, ok)
	}
	if _, ok := inner.LookupModule("other"); ok {
		t.Error("unknown namespace resolved")
	}
}

func TestMergeAll(t *testing.T) {
	dst := NewRoot()
	dst.Merge(newModule(t, "theme"), nil, nil, "")

	if !dst.VarExists("size") {
		t.Error("variable not merged")
	}
	if dst.VarExists("-secret") || dst.VarExists("_hidden") {
		t.Error("private members merged")
	}
	if _, ok := dst.LookupMixin("shadow"); !ok {
		t.Error("mixin not merged")
	}
	if _, ok := dst.LookupFunc("scale"); !ok {
		t.Error("function not merged")
	}
}

func TestMergeShow(t *testing.T) {
	dst := NewRoot()
	dst.Merge(newModule(t, "theme"), []string{"$size"}, nil, "")

	if !dst.VarExists("size") {
		t.Error("shown variable missing")
	}
	if _, ok := dst.LookupMixin("shadow"); ok {
		t.Error("unlisted mixin merged despite show list")
	}
	if _, ok := dst.LookupFunc("scale"); ok {
		t.Error("unlisted function merged despite show list")
	}
}

func TestMergeHide(t *testing.T) {
	dst := NewRoot()
	dst.Merge(newModule(t, "theme"), nil, []string{"shadow", "$size"}, "")

	if dst.VarExists("size") {
		t.Error("hidden variable merged")
	}
	if _, ok := dst.LookupMixin("shadow"); ok {
		t.Error("hidden mixin merged")
	}
	if _, ok := dst.LookupFunc("scale"); !ok {
		t.Error("unhidden function dropped")
	}
}

func TestMergePrefix(t *testing.T) {
	dst := NewRoot()
	dst.Merge(newModule(t, "theme"), nil, nil, "theme-")

	if !dst.VarExists("theme-size") {
		t.Error("prefixed variable missing")
	}
	if dst.VarExists("size") {
		t.Error("unprefixed variable merged alongside the prefixed one")
	}
	if _, ok := dst.LookupFunc("theme-scale"); !ok {
		t.Error("prefixed function missing")
	}
}
