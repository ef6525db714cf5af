package builtin

import (
	"testing"

	"github.com/deftliang/grass/value"
)

func wantStr(t *testing.T, v value.Value, text string, quoted bool) {
	t.Helper()
	s, ok := v.(value.Str)
	if !ok {
		t.Fatalf("got %T, want a string", v)
	}
	if s.Text != text || s.Quoted != quoted {
		t.Errorf("got %#v, want text %q quoted %v", s, text, quoted)
	}
}

func TestStringQuoteUnquote(t *testing.T) {
	wantStr(t, mustInvoke(t, "string", "quote", value.Unquoted("sans-serif")), "sans-serif", true)
	wantStr(t, mustInvoke(t, "string", "quote", value.QuotedStr("a")), "a", true)
	wantStr(t, mustInvoke(t, "string", "unquote", value.QuotedStr("a b")), "a b", false)

	// non-strings pass through their inspected form
	wantStr(t, mustInvoke(t, "string", "quote", value.Num(1, "px")), "1px", true)
}

func TestStringLength(t *testing.T) {
	wantNum(t, mustInvoke(t, "string", "length", value.QuotedStr("héllo")), 5, "")
	wantNum(t, mustInvoke(t, "string", "length", value.QuotedStr("")), 0, "")
}

func TestStringIndex(t *testing.T) {
	wantNum(t, mustInvoke(t, "string", "index", value.QuotedStr("abcd"), value.QuotedStr("bc")), 2, "")
	v := mustInvoke(t, "string", "index", value.QuotedStr("abcd"), value.QuotedStr("x"))
	if v != value.Null {
		t.Errorf("missing substring should yield null, got %v", v)
	}
	// index is rune based even after a multibyte prefix
	wantNum(t, mustInvoke(t, "string", "index", value.QuotedStr("äbc"), value.QuotedStr("c")), 3, "")
}

func TestStringInsert(t *testing.T) {
	wantStr(t, mustInvoke(t, "string", "insert",
		value.QuotedStr("abc"), value.QuotedStr("X"), value.Num(2, "")), "aXbc", true)
	wantStr(t, mustInvoke(t, "string", "insert",
		value.QuotedStr("abc"), value.QuotedStr("X"), value.Num(-1, "")), "abcX", true)
	wantStr(t, mustInvoke(t, "string", "insert",
		value.Unquoted("abc"), value.QuotedStr("X"), value.Num(100, "")), "abcX", false)
}

func TestStringSlice(t *testing.T) {
	wantStr(t, mustInvoke(t, "string", "slice",
		value.QuotedStr("abcde"), value.Num(2, ""), value.Num(3, "")), "bc", true)
	wantStr(t, mustInvoke(t, "string", "slice",
		value.QuotedStr("abcde"), value.Num(-2, "")), "de", true)
	wantStr(t, mustInvoke(t, "string", "slice",
		value.QuotedStr("abcde"), value.Num(4, ""), value.Num(2, "")), "", true)
}

func TestStringSplit(t *testing.T) {
	v := mustInvoke(t, "string", "split", value.QuotedStr("a,b,c"), value.QuotedStr(","))
	l := v.(value.List)
	if len(l.Items) != 3 || l.Sep != value.CommaSep || !l.Bracketed {
		t.Fatalf("got %v", v.Inspect(value.DefaultFormat))
	}
	wantStr(t, l.Items[1], "b", true)

	v = mustInvoke(t, "string", "split",
		value.QuotedStr("a,b,c"), value.QuotedStr(","), value.Num(1, ""))
	l = v.(value.List)
	if len(l.Items) != 2 {
		t.Fatalf("limit 1 should split once, got %v", v.Inspect(value.DefaultFormat))
	}
	wantStr(t, l.Items[1], "b,c", true)

	v = mustInvoke(t, "string", "split", value.QuotedStr("abc"), value.QuotedStr(""))
	if l = v.(value.List); len(l.Items) != 3 {
		t.Errorf("empty separator should split per character, got %v", v.Inspect(value.DefaultFormat))
	}

	if _, err := invoke(t, "string", "split",
		value.QuotedStr("a"), value.QuotedStr(","), value.Num(0, "")); err == nil {
		t.Error("limit below 1 must fail")
	}
}

func TestStringCase(t *testing.T) {
	// only ASCII letters change case per the CSS definition
	wantStr(t, mustInvoke(t, "string", "to-upper-case", value.QuotedStr("ähi")), "äHI", true)
	wantStr(t, mustInvoke(t, "string", "to-lower-case", value.Unquoted("ÄHI")), "Ähi", false)
}

func TestStringUniqueID(t *testing.T) {
	ctx := testCtx()
	fn, _ := Default().Lookup("string", "unique-id")
	a, err := fn.Invoke(ctx, &Args{})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := fn.Invoke(ctx, &Args{})
	sa, sb := a.(value.Str), b.(value.Str)
	if sa.Quoted || sa.Text == "" || sa.Text == sb.Text {
		t.Errorf("unique-id() = %q, %q", sa.Text, sb.Text)
	}
	if c := sa.Text[0]; c >= '0' && c <= '9' {
		t.Errorf("unique-id() %q is not a valid identifier", sa.Text)
	}
}
