package builtin

import (
	"testing"

	"github.com/deftliang/grass/value"
)

func themeMap() *value.Map {
	m := value.NewMap()
	m.Set(value.QuotedStr("bg"), value.RGB(255, 255, 255))
	m.Set(value.QuotedStr("fg"), value.RGB(0, 0, 0))
	m.Set(value.Num(1, ""), value.QuotedStr("one"))
	return m
}

func TestMapGet(t *testing.T) {
	m := themeMap()
	v := mustInvoke(t, "map", "get", m, value.QuotedStr("fg"))
	if !v.Equal(value.RGB(0, 0, 0)) {
		t.Errorf("got %v", v.Inspect(value.DefaultFormat))
	}
	// quoting does not matter for key identity
	v = mustInvoke(t, "map", "get", m, value.Unquoted("fg"))
	if !v.Equal(value.RGB(0, 0, 0)) {
		t.Errorf("unquoted key missed: %v", v.Inspect(value.DefaultFormat))
	}
	if v = mustInvoke(t, "map", "get", m, value.QuotedStr("nope")); v != value.Null {
		t.Errorf("missing key should yield null, got %v", v)
	}
}

func TestMapHasKey(t *testing.T) {
	m := themeMap()
	if !mustInvoke(t, "map", "has-key", m, value.Num(1, "")).IsTruthy() {
		t.Error("numeric key missed")
	}
	if mustInvoke(t, "map", "has-key", m, value.QuotedStr("nope")).IsTruthy() {
		t.Error("missing key reported present")
	}
}

func TestMapKeysValues(t *testing.T) {
	keys := mustInvoke(t, "map", "keys", themeMap()).(value.List)
	if keys.Sep != value.CommaSep || len(keys.Items) != 3 {
		t.Fatalf("keys = %v", keys.Inspect(value.DefaultFormat))
	}
	// insertion order
	if keys.Items[0].(value.Str).Text != "bg" {
		t.Errorf("first key = %v", keys.Items[0])
	}
	vals := mustInvoke(t, "map", "values", themeMap()).(value.List)
	if len(vals.Items) != 3 || !vals.Items[2].Equal(value.QuotedStr("one")) {
		t.Errorf("values = %v", vals.Inspect(value.DefaultFormat))
	}
}

func TestMapMerge(t *testing.T) {
	a := themeMap()
	b := value.NewMap()
	b.Set(value.QuotedStr("fg"), value.RGB(50, 50, 50))
	b.Set(value.QuotedStr("accent"), value.RGB(255, 0, 0))

	out := mustInvoke(t, "map", "merge", a, b).(*value.Map)
	if out.Len() != 4 {
		t.Fatalf("len = %d", out.Len())
	}
	v, _ := out.Get(value.QuotedStr("fg"))
	if !v.Equal(value.RGB(50, 50, 50)) {
		t.Error("second map should win for shared keys")
	}
	// overridden key keeps its original position
	if out.Keys()[1].(value.Str).Text != "fg" {
		t.Errorf("key order = %v", out.Inspect(value.DefaultFormat))
	}
	if v, _ := a.Get(value.QuotedStr("fg")); !v.Equal(value.RGB(0, 0, 0)) {
		t.Error("merge mutated its input")
	}
}

func TestMapSet(t *testing.T) {
	a := themeMap()
	out := mustInvoke(t, "map", "set", a, value.QuotedStr("bg"), value.RGB(1, 2, 3)).(*value.Map)
	if v, _ := out.Get(value.QuotedStr("bg")); !v.Equal(value.RGB(1, 2, 3)) {
		t.Error("set did not replace the value")
	}
	if v, _ := a.Get(value.QuotedStr("bg")); !v.Equal(value.RGB(255, 255, 255)) {
		t.Error("set mutated its input")
	}
}

func TestMapRemove(t *testing.T) {
	out := mustInvoke(t, "map", "remove", themeMap(),
		value.QuotedStr("bg"), value.QuotedStr("nope"), value.Num(1, "")).(*value.Map)
	if out.Len() != 1 {
		t.Errorf("len = %d, want 1", out.Len())
	}
	if _, ok := out.Get(value.QuotedStr("fg")); !ok {
		t.Error("surviving key dropped")
	}
}

func TestMapAcceptsEmptyList(t *testing.T) {
	out := mustInvoke(t, "map", "keys", value.List{}).(value.List)
	if len(out.Items) != 0 {
		t.Errorf("got %v", out.Inspect(value.DefaultFormat))
	}
	if _, err := invoke(t, "map", "get", value.QuotedStr("x"), value.Num(1, "")); err == nil {
		t.Error("non-map argument must fail")
	}
}
