package value

import (
	"testing"
)

func TestListInspect(t *testing.T) {
	tests := []struct {
		name     string
		l        List
		expected string
	}{
		{"empty", EmptyList(), "()"},
		{"space", List{Items: []Value{Num(1, ""), Num(2, "")}, Sep: SpaceSep}, "1 2"},
		{"comma", List{Items: []Value{Num(1, ""), Num(2, "")}, Sep: CommaSep}, "1, 2"},
		{"bracketed", List{Items: []Value{Num(1, ""), Num(2, "")}, Sep: CommaSep, Bracketed: true}, "[1, 2]"},
		{"empty bracketed", List{Sep: SpaceSep, Bracketed: true}, "[]"},
		{
			"nested comma list parenthesized",
			List{Items: []Value{
				List{Items: []Value{Num(1, ""), Num(2, "")}, Sep: CommaSep},
				Num(3, ""),
			}, Sep: CommaSep},
			"(1, 2), 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.l.Inspect(DefaultFormat); got != tt.expected {
				t.Errorf("Inspect() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestListCSS(t *testing.T) {
	l := List{Items: []Value{Num(1, "px"), Null, Num(2, "px")}, Sep: SpaceSep}
	got, err := l.CSS(DefaultFormat)
	if err != nil {
		t.Fatalf("CSS() error = %v", err)
	}
	if got != "1px 2px" {
		t.Errorf("CSS() = %q, null items should be dropped", got)
	}

	if _, err := EmptyList().CSS(DefaultFormat); err == nil {
		t.Error("expected error rendering () as CSS")
	}

	compressed := List{Items: []Value{Num(1, ""), Num(2, "")}, Sep: CommaSep}
	got, err = compressed.CSS(Format{Precision: 10, Compressed: true})
	if err != nil {
		t.Fatal(err)
	}
	if got != "1,2" {
		t.Errorf("compressed CSS() = %q, want 1,2", got)
	}
}

func TestListEqual(t *testing.T) {
	a := List{Items: []Value{Num(1, ""), Num(2, "")}, Sep: SpaceSep}
	b := List{Items: []Value{Num(1, ""), Num(2, "")}, Sep: SpaceSep}
	if !a.Equal(b) {
		t.Error("identical lists should be equal")
	}
	c := List{Items: []Value{Num(1, ""), Num(2, "")}, Sep: CommaSep}
	if a.Equal(c) {
		t.Error("separator participates in equality")
	}
}

func TestAsSlice(t *testing.T) {
	l := List{Items: []Value{Num(1, ""), Num(2, "")}, Sep: SpaceSep}
	if got := AsSlice(l); len(got) != 2 {
		t.Errorf("AsSlice(list) len = %d, want 2", len(got))
	}

	if got := AsSlice(Num(1, "")); len(got) != 1 {
		t.Errorf("AsSlice(number) len = %d, want 1", len(got))
	}

	m := NewMap()
	m.Set(Unquoted("a"), Num(1, ""))
	m.Set(Unquoted("b"), Num(2, ""))
	pairs := AsSlice(m)
	if len(pairs) != 2 {
		t.Fatalf("AsSlice(map) len = %d, want 2", len(pairs))
	}
	pair, ok := pairs[0].(List)
	if !ok || len(pair.Items) != 2 || pair.Sep != SpaceSep {
		t.Errorf("map entries should iterate as two-element space lists, got %#v", pairs[0])
	}
}

func TestMapSemantics(t *testing.T) {
	m := NewMap()
	m.Set(QuotedStr("a"), Num(1, ""))
	m.Set(Unquoted("b"), Num(2, ""))

	// lookup honors value equality, quoting is irrelevant for strings
	if v, ok := m.Get(Unquoted("a")); !ok || !v.Equal(Num(1, "")) {
		t.Error("unquoted key should find quoted entry")
	}

	// replacing keeps the original position
	m.Set(Unquoted("a"), Num(10, ""))
	keys := m.Keys()
	if len(keys) != 2 || !keys[0].Equal(Unquoted("a")) {
		t.Errorf("replaced key should keep position, keys = %v", keys)
	}
	if v, _ := m.Get(Unquoted("a")); !v.Equal(Num(10, "")) {
		t.Error("replacement should win")
	}

	// numeric keys compare across units
	m.Set(Num(1, "cm"), Unquoted("metric"))
	if _, ok := m.Get(Num(10, "mm")); !ok {
		t.Error("10mm should find the 1cm key")
	}

	if !m.Delete(Unquoted("b")) {
		t.Error("Delete should report removal")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestMapCopyIsShallowIndependent(t *testing.T) {
	m := NewMap()
	m.Set(Unquoted("a"), Num(1, ""))
	c := m.Copy()
	c.Set(Unquoted("b"), Num(2, ""))
	if m.Len() != 1 || c.Len() != 2 {
		t.Errorf("copy should not share entries: orig %d, copy %d", m.Len(), c.Len())
	}
}

func TestMapInspectAndCSS(t *testing.T) {
	m := NewMap()
	m.Set(Unquoted("a"), Num(1, ""))
	if got := m.Inspect(DefaultFormat); got != "(a: 1)" {
		t.Errorf("Inspect() = %q, want (a: 1)", got)
	}
	if _, err := m.CSS(DefaultFormat); err == nil {
		t.Error("maps have no CSS form")
	}
}
