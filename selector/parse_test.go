package selector

import (
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []string{
		"a",
		"*",
		".class",
		"#id",
		"%placeholder",
		"a.b#c",
		"a b",
		"a > b",
		"a + b",
		"a ~ b",
		"ul > li a",
		"a, b, c",
		"a:hover",
		"a::before",
		":not(.excluded)",
		":nth-child(2n+1)",
		"[data-state=open]",
		"input[type=checkbox]:checked + label",
		"&.active",
		"& > li",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			l, err := Parse(src)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", src, err)
			}
			if got := l.String(); got != src {
				t.Errorf("Parse(%q).String() = %q", src, got)
			}
		})
	}
}

func TestParseNormalizesWhitespace(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"a   b", "a b"},
		{"a>b", "a > b"},
		{" a ,  b ", "a, b"},
		{"a   >   b", "a > b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			l, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if got := l.String(); got != tt.expected {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		",",
		"a >",
		"> ",
		".",
		"#",
		"a[unclosed",
		":not(.open",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			if _, err := Parse(src); err == nil {
				t.Errorf("Parse(%q) should fail", src)
			}
		})
	}
}

func TestParseCommaInsideFunctionalPseudo(t *testing.T) {
	l, err := Parse(":is(a, b), c")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if len(l.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(l.Members))
	}
	if got := l.Members[0].String(); got != ":is(a, b)" {
		t.Errorf("first member = %q, want %q", got, ":is(a, b)")
	}
}

func TestCompoundHelpers(t *testing.T) {
	l := MustParse("&.active")
	c := l.Members[0].Segments[0].Compound
	if !c.HasParent() {
		t.Error("HasParent should be true")
	}

	l = MustParse("%base.x")
	c = l.Members[0].Segments[0].Compound
	if !c.HasPlaceholder() {
		t.Error("HasPlaceholder should be true")
	}

	if !c.contains(Compound{Simples: []Simple{{Kind: Class, Name: "x"}}}) {
		t.Error("contains should find .x")
	}
	rest := c.without(Compound{Simples: []Simple{{Kind: Placeholder, Name: "base"}}})
	if rest.String() != ".x" {
		t.Errorf("without placeholder = %q, want .x", rest.String())
	}
}

func TestListContains(t *testing.T) {
	l := MustParse("a, b")
	if !l.Contains(MustParse("b").Members[0]) {
		t.Error("Contains should match by text")
	}
	if l.Contains(MustParse("c").Members[0]) {
		t.Error("Contains should not match absent member")
	}
}
