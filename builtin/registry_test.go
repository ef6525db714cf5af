package builtin

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/scope"
	"github.com/deftliang/grass/value"
)

func testCtx() *Context {
	return &Context{
		Scope:  scope.NewRoot(),
		Rand:   NewRandom(1),
		Format: value.DefaultFormat,
		Log:    zap.NewNop(),
	}
}

func invoke(t *testing.T, namespace, name string, positional ...value.Value) (value.Value, error) {
	t.Helper()
	fn, ok := Default().Lookup(namespace, name)
	if !ok {
		t.Fatalf("function %s.%s not registered", namespace, name)
	}
	return fn.Invoke(testCtx(), &Args{Positional: positional})
}

func mustInvoke(t *testing.T, namespace, name string, positional ...value.Value) value.Value {
	t.Helper()
	v, err := invoke(t, namespace, name, positional...)
	if err != nil {
		t.Fatalf("%s.%s: %v", namespace, name, err)
	}
	return v
}

func wantArity(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	if k, ok := diag.KindOf(err); !ok || k != diag.ArityError {
		t.Fatalf("got %v, want arity error", err)
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Default().Lookup("math", "floor"); !ok {
		t.Error("math.floor not found")
	}
	if _, ok := Default().Lookup("", "floor"); !ok {
		t.Error("legacy global floor not found")
	}
	if _, ok := Default().Lookup("", "pow"); ok {
		t.Error("math.pow must not be reachable without namespace")
	}
	if _, ok := Default().Lookup("nosuch", "floor"); ok {
		t.Error("unknown namespace resolved")
	}
	if !Default().HasModule("math") || Default().HasModule("nosuch") {
		t.Error("HasModule mismatch")
	}
}

func TestModuleVars(t *testing.T) {
	pi, ok := Default().ModuleVar("math", "pi")
	if !ok {
		t.Fatal("math.$pi not registered")
	}
	n := pi.(value.Number)
	if n.Value < 3.14 || n.Value > 3.15 || !n.Unitless() {
		t.Errorf("math.$pi = %v", n)
	}
	if _, ok := Default().ModuleVar("math", "tau"); ok {
		t.Error("unknown module variable resolved")
	}
}

func TestBindNamed(t *testing.T) {
	fn, _ := Default().Lookup("string", "insert")
	args := &Args{Positional: []value.Value{value.QuotedStr("ac")}}
	args.AddNamed("index", value.Num(2, ""))
	args.AddNamed("insert", value.QuotedStr("b"))

	v, err := fn.Invoke(testCtx(), args)
	if err != nil {
		t.Fatal(err)
	}
	if v.(value.Str).Text != "abc" {
		t.Errorf("got %v", v)
	}
}

func TestBindMissingRequired(t *testing.T) {
	_, err := invoke(t, "string", "index", value.QuotedStr("abc"))
	wantArity(t, err)
	if !strings.Contains(err.Error(), "$substring") {
		t.Errorf("error does not name the parameter: %v", err)
	}
}

func TestBindUnknownNamed(t *testing.T) {
	fn, _ := Default().Lookup("math", "abs")
	args := &Args{}
	args.AddNamed("nope", value.Num(1, ""))
	_, err := fn.Invoke(testCtx(), args)
	wantArity(t, err)
}

func TestBindPositionalAndNamedConflict(t *testing.T) {
	fn, _ := Default().Lookup("math", "abs")
	args := &Args{Positional: []value.Value{value.Num(-1, "")}}
	args.AddNamed("number", value.Num(-2, ""))
	_, err := fn.Invoke(testCtx(), args)
	wantArity(t, err)
}

func TestBindTooManyPositional(t *testing.T) {
	_, err := invoke(t, "math", "abs", value.Num(1, ""), value.Num(2, ""))
	wantArity(t, err)
}

func TestBindDefaults(t *testing.T) {
	v := mustInvoke(t, "string", "slice", value.QuotedStr("hello"), value.Num(2, ""))
	if v.(value.Str).Text != "ello" {
		t.Errorf("default end-at not applied: %v", v)
	}
}

func TestBindRestCapturesKeywords(t *testing.T) {
	fn, _ := Default().Lookup("meta", "keywords")

	// build the ArgList the way a spread invocation would
	al := value.NewArgList(nil)
	al.Keywords = value.NewMap()
	al.Keywords.Set(value.Unquoted("color"), value.QuotedStr("blue"))
	v, err := fn.Invoke(testCtx(), &Args{Positional: []value.Value{al}})
	if err != nil {
		t.Fatal(err)
	}
	m := v.(*value.Map)
	got, ok := m.Get(value.Unquoted("color"))
	if !ok || got.(value.Str).Text != "blue" {
		t.Errorf("keywords() = %v", v.Inspect(value.DefaultFormat))
	}
}

func TestRandomDeterministicWithSeed(t *testing.T) {
	a, b := NewRandom(7), NewRandom(7)
	for i := 0; i < 5; i++ {
		if a.Float() != b.Float() {
			t.Fatal("same seed produced different sequences")
		}
	}
	if a.UniqueID() != b.UniqueID() {
		t.Error("unique-id not reproducible under a fixed seed")
	}
	if id1, id2 := a.UniqueID(), a.UniqueID(); id1 == id2 {
		t.Error("consecutive ids collide")
	}
}
