package builtin

import (
	"testing"

	"github.com/deftliang/grass/value"
)

func spaceList(items ...value.Value) value.List {
	return value.List{Items: items, Sep: value.SpaceSep}
}

func commaList(items ...value.Value) value.List {
	return value.List{Items: items, Sep: value.CommaSep}
}

func nums(vals ...float64) []value.Value {
	out := make([]value.Value, len(vals))
	for i, v := range vals {
		out[i] = value.Num(v, "")
	}
	return out
}

func TestListLength(t *testing.T) {
	wantNum(t, mustInvoke(t, "list", "length", commaList(nums(1, 2, 3)...)), 3, "")
	// any scalar counts as a single-element list
	wantNum(t, mustInvoke(t, "list", "length", value.Num(1, "")), 1, "")
	wantNum(t, mustInvoke(t, "list", "length", spaceList()), 0, "")
}

func TestListNth(t *testing.T) {
	l := commaList(nums(10, 20, 30)...)
	wantNum(t, mustInvoke(t, "list", "nth", l, value.Num(1, "")), 10, "")
	wantNum(t, mustInvoke(t, "list", "nth", l, value.Num(-1, "")), 30, "")

	if _, err := invoke(t, "list", "nth", l, value.Num(0, "")); err == nil {
		t.Error("index 0 must fail")
	}
	if _, err := invoke(t, "list", "nth", l, value.Num(4, "")); err == nil {
		t.Error("out of range index must fail")
	}
	if _, err := invoke(t, "list", "nth", l, value.Num(1.5, "")); err == nil {
		t.Error("fractional index must fail")
	}
}

func TestListSetNth(t *testing.T) {
	orig := spaceList(nums(1, 2, 3)...)
	v := mustInvoke(t, "list", "set-nth", orig, value.Num(2, ""), value.Num(99, ""))
	out := v.(value.List)
	wantNum(t, out.Items[1], 99, "")
	if out.Sep != value.SpaceSep {
		t.Error("separator not preserved")
	}
	wantNum(t, orig.Items[1], 2, "")
}

func TestListJoin(t *testing.T) {
	v := mustInvoke(t, "list", "join", commaList(nums(1, 2)...), spaceList(nums(3)...))
	out := v.(value.List)
	if len(out.Items) != 3 || out.Sep != value.CommaSep {
		t.Errorf("auto separator should follow the first list: %v", v.Inspect(value.DefaultFormat))
	}

	v = mustInvoke(t, "list", "join",
		spaceList(nums(1)...), spaceList(nums(2)...), value.Unquoted("comma"))
	if v.(value.List).Sep != value.CommaSep {
		t.Error("explicit separator ignored")
	}

	v = mustInvoke(t, "list", "join",
		value.List{Items: nums(1), Sep: value.SpaceSep, Bracketed: true}, spaceList(nums(2)...))
	if !v.(value.List).Bracketed {
		t.Error("bracketed auto should follow the first list")
	}

	if _, err := invoke(t, "list", "join",
		spaceList(), spaceList(), value.Unquoted("dash")); err == nil {
		t.Error("unknown separator name must fail")
	}
}

func TestListAppend(t *testing.T) {
	v := mustInvoke(t, "list", "append", commaList(nums(1, 2)...), value.Num(3, ""))
	out := v.(value.List)
	if len(out.Items) != 3 || out.Sep != value.CommaSep {
		t.Errorf("got %v", v.Inspect(value.DefaultFormat))
	}
	// the appended value stays one element even when it is a list
	v = mustInvoke(t, "list", "append", spaceList(nums(1)...), spaceList(nums(2, 3)...))
	if got := len(v.(value.List).Items); got != 2 {
		t.Errorf("len = %d, want 2", got)
	}
}

func TestListIndex(t *testing.T) {
	l := spaceList(value.Num(1, "px"), value.QuotedStr("a"), value.True)
	wantNum(t, mustInvoke(t, "list", "index", l, value.Unquoted("a")), 2, "")
	if v := mustInvoke(t, "list", "index", l, value.Num(9, "")); v != value.Null {
		t.Errorf("missing value should yield null, got %v", v)
	}
}

func TestListZip(t *testing.T) {
	v := mustInvoke(t, "list", "zip",
		spaceList(nums(1, 2, 3)...), spaceList(value.QuotedStr("a"), value.QuotedStr("b")))
	out := v.(value.List)
	if out.Sep != value.CommaSep || len(out.Items) != 2 {
		t.Fatalf("got %v", v.Inspect(value.DefaultFormat))
	}
	pair := out.Items[0].(value.List)
	if pair.Sep != value.SpaceSep || len(pair.Items) != 2 {
		t.Errorf("tuple = %v", pair.Inspect(value.DefaultFormat))
	}
}

func TestListSeparator(t *testing.T) {
	wantStr(t, mustInvoke(t, "list", "separator", commaList(nums(1)...)), "comma", false)
	wantStr(t, mustInvoke(t, "list", "separator", value.Num(1, "")), "space", false)
}

func TestListIsBracketed(t *testing.T) {
	if mustInvoke(t, "list", "is-bracketed", spaceList(nums(1)...)).IsTruthy() {
		t.Error("plain list reported bracketed")
	}
	if !mustInvoke(t, "list", "is-bracketed",
		value.List{Items: nums(1), Bracketed: true}).IsTruthy() {
		t.Error("bracketed list not reported")
	}
}
