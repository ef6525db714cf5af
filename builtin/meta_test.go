package builtin

import (
	"testing"

	"github.com/deftliang/grass/ast"
	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/scope"
	"github.com/deftliang/grass/value"
)

func TestIf(t *testing.T) {
	v := mustInvoke(t, "", "if", value.True, value.Num(1, ""), value.Num(2, ""))
	wantNum(t, v, 1, "")
	v = mustInvoke(t, "", "if", value.Null, value.Num(1, ""), value.Num(2, ""))
	wantNum(t, v, 2, "")
	v = mustInvoke(t, "", "if", value.QuotedStr(""), value.Num(1, ""), value.Num(2, ""))
	wantNum(t, v, 1, "")
}

func TestTypeOf(t *testing.T) {
	cases := []struct {
		in   value.Value
		want string
	}{
		{value.Num(1, "px"), "number"},
		{value.QuotedStr("a"), "string"},
		{value.RGB(0, 0, 0), "color"},
		{value.List{Items: nums(1, 2)}, "list"},
		{value.NewMap(), "map"},
		{value.True, "bool"},
		{value.Null, "null"},
		{value.Function{Name: "f"}, "function"},
		{value.NewArgList(nil), "arglist"},
	}
	for _, tc := range cases {
		v := mustInvoke(t, "meta", "type-of", tc.in)
		if s := v.(value.Str); s.Text != tc.want || s.Quoted {
			t.Errorf("type-of(%v) = %#v, want %s", tc.in, s, tc.want)
		}
	}
}

func TestInspect(t *testing.T) {
	v := mustInvoke(t, "meta", "inspect", value.QuotedStr("a"))
	if s := v.(value.Str); s.Text != `"a"` || s.Quoted {
		t.Errorf("inspect = %#v", s)
	}
	v = mustInvoke(t, "meta", "inspect", value.Null)
	if v.(value.Str).Text != "null" {
		t.Errorf("inspect(null) = %v", v)
	}
}

func TestFeatureExists(t *testing.T) {
	if !mustInvoke(t, "meta", "feature-exists", value.QuotedStr("units-level-3")).IsTruthy() {
		t.Error("units-level-3 should exist")
	}
	if mustInvoke(t, "meta", "feature-exists", value.QuotedStr("no-such-feature")).IsTruthy() {
		t.Error("unknown feature reported")
	}
}

func TestExistenceQueries(t *testing.T) {
	ctx := testCtx()
	ctx.Scope.Define("known", value.Num(1, ""))
	inner := ctx.Scope.Child()
	inner.Define("local", value.Num(2, ""))
	ctx.Scope = inner
	ctx.Scope.DefineMixin("mx", &scope.Mixin{Decl: &ast.MixinStmt{Name: "mx"}})
	ctx.Scope.DefineFunc("fn", &scope.Function{Decl: &ast.FunctionStmt{Name: "fn"}})

	check := func(name string, arg string, want bool) {
		t.Helper()
		fn, _ := Default().Lookup("meta", name)
		v, err := fn.Invoke(ctx, &Args{Positional: []value.Value{value.QuotedStr(arg)}})
		if err != nil {
			t.Fatal(err)
		}
		if v.IsTruthy() != want {
			t.Errorf("%s(%s) = %v, want %v", name, arg, v, want)
		}
	}
	check("variable-exists", "known", true)
	check("variable-exists", "local", true)
	check("variable-exists", "nope", false)
	check("global-variable-exists", "known", true)
	check("global-variable-exists", "local", false)
	check("mixin-exists", "mx", true)
	check("mixin-exists", "fn", false)
	check("function-exists", "fn", true)
	check("function-exists", "floor", true)
	check("function-exists", "nope", false)
}

func TestGetFunctionAndCall(t *testing.T) {
	ctx := testCtx()
	ctx.GetFunction = func(name, module string) (value.Value, error) {
		if name != "double" || module != "" {
			return nil, diag.Errorf(diag.UndefinedNameError, "undefined function %s", name)
		}
		return value.Function{Name: "double", Ref: name}, nil
	}
	ctx.Call = func(fn value.Function, args *Args) (value.Value, error) {
		n := args.Positional[0].(value.Number)
		return value.Num(n.Value*2, n.Unit.String()), nil
	}

	get, _ := Default().Lookup("meta", "get-function")
	v, err := get.Invoke(ctx, &Args{Positional: []value.Value{value.QuotedStr("double")}})
	if err != nil {
		t.Fatal(err)
	}
	fnVal := v.(value.Function)
	if fnVal.Name != "double" {
		t.Errorf("got %#v", fnVal)
	}

	// $css: true returns a literal reference without consulting the scope
	args := &Args{Positional: []value.Value{value.QuotedStr("translate")}}
	args.AddNamed("css", value.True)
	v, err = get.Invoke(ctx, args)
	if err != nil {
		t.Fatal(err)
	}
	if v.(value.Function).Name != "translate" {
		t.Errorf("got %#v", v)
	}

	call, _ := Default().Lookup("meta", "call")
	v, err = call.Invoke(ctx, &Args{Positional: []value.Value{fnVal, value.Num(21, "px")}})
	if err != nil {
		t.Fatal(err)
	}
	wantNum(t, v, 42, "px")

	// historical string form resolves through the same hook
	v, err = call.Invoke(ctx, &Args{Positional: []value.Value{value.QuotedStr("double"), value.Num(3, "")}})
	if err != nil {
		t.Fatal(err)
	}
	wantNum(t, v, 6, "")
}

func TestContentExists(t *testing.T) {
	ctx := testCtx()
	fn, _ := Default().Lookup("meta", "content-exists")
	if v, _ := fn.Invoke(ctx, &Args{}); v.IsTruthy() {
		t.Error("no content block expected")
	}
	ctx.ContentExists = true
	if v, _ := fn.Invoke(ctx, &Args{}); !v.IsTruthy() {
		t.Error("content block not reported")
	}
}

func TestSelectorParse(t *testing.T) {
	v := mustInvoke(t, "selector", "parse", value.QuotedStr(".a .b, .c"))
	l := v.(value.List)
	if l.Sep != value.CommaSep || len(l.Items) != 2 {
		t.Fatalf("got %v", v.Inspect(value.DefaultFormat))
	}
	first := l.Items[0].(value.List)
	if len(first.Items) != 2 || first.Items[0].(value.Str).Text != ".a" {
		t.Errorf("first member = %v", first.Inspect(value.DefaultFormat))
	}
	if _, err := invoke(t, "selector", "parse", value.QuotedStr("..")); err == nil {
		t.Error("invalid selector must parse-fail")
	}
}

func TestSelectorNest(t *testing.T) {
	v := mustInvoke(t, "selector", "nest",
		value.QuotedStr(".parent"), value.QuotedStr("&:hover, .child"))
	got := selectorListText(t, v)
	if got != ".parent:hover, .parent .child" {
		t.Errorf("nest = %q", got)
	}

	if _, err := invoke(t, "selector", "nest", value.QuotedStr("&.a")); err == nil {
		t.Error("leading parent reference must fail")
	}
	_, err := invoke(t, "selector", "nest")
	wantArity(t, err)
}

func TestSelectorAppend(t *testing.T) {
	v := mustInvoke(t, "selector", "append", value.QuotedStr("a"), value.QuotedStr(".disabled"))
	if got := selectorListText(t, v); got != "a.disabled" {
		t.Errorf("append = %q", got)
	}
	if _, err := invoke(t, "selector", "append",
		value.QuotedStr("a"), value.QuotedStr("&.b")); err == nil {
		t.Error("parent reference in append must fail")
	}
}

func TestSimpleSelectors(t *testing.T) {
	v := mustInvoke(t, "selector", "simple-selectors", value.QuotedStr("a.btn:hover"))
	l := v.(value.List)
	want := []string{"a", ".btn", ":hover"}
	if len(l.Items) != len(want) {
		t.Fatalf("got %v", v.Inspect(value.DefaultFormat))
	}
	for i, w := range want {
		if l.Items[i].(value.Str).Text != w {
			t.Errorf("item %d = %v, want %s", i, l.Items[i], w)
		}
	}
	if _, err := invoke(t, "selector", "simple-selectors", value.QuotedStr("a b")); err == nil {
		t.Error("complex selector must fail")
	}
}

// selectorListText flattens the comma-of-space list form back to
// selector source text.
func selectorListText(t *testing.T, v value.Value) string {
	t.Helper()
	s, err := selectorText(v, "selector")
	if err != nil {
		t.Fatal(err)
	}
	return s
}
