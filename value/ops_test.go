package value

import (
	"testing"
)

func TestAdd(t *testing.T) {
	t.Run("numbers with unit coercion", func(t *testing.T) {
		got, err := Add(Num(1, "cm"), Num(10, "mm"), DefaultFormat)
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if !got.Equal(Num(2, "cm")) {
			t.Errorf("1cm + 10mm = %v, want 2cm", got.Inspect(DefaultFormat))
		}
	})

	t.Run("unitless adopts unit", func(t *testing.T) {
		got, err := Add(Num(1, "px"), Num(2, ""), DefaultFormat)
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if !got.Equal(Num(3, "px")) {
			t.Errorf("1px + 2 = %v, want 3px", got.Inspect(DefaultFormat))
		}
	})

	t.Run("incompatible units", func(t *testing.T) {
		if _, err := Add(Num(1, "px"), Num(1, "s"), DefaultFormat); err == nil {
			t.Error("expected error adding px and s")
		}
	})

	t.Run("number plus string concatenates", func(t *testing.T) {
		got, err := Add(Num(1, "px"), Unquoted("-wide"), DefaultFormat)
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		s, ok := got.(Str)
		if !ok || s.Text != "1px-wide" || s.Quoted {
			t.Errorf("1px + -wide = %#v", got)
		}
	})

	t.Run("quoting survives concatenation", func(t *testing.T) {
		got, err := Add(QuotedStr("a"), Unquoted("b"), DefaultFormat)
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		s, ok := got.(Str)
		if !ok || s.Text != "ab" || !s.Quoted {
			t.Errorf(`"a" + b = %#v, want quoted "ab"`, got)
		}
	})

	t.Run("colors cannot be added", func(t *testing.T) {
		if _, err := Add(RGB(1, 2, 3), RGB(4, 5, 6), DefaultFormat); err == nil {
			t.Error("expected error adding colors")
		}
	})
}

func TestSubtract(t *testing.T) {
	got, err := Subtract(Num(3, "px"), Num(1, "px"), DefaultFormat)
	if err != nil {
		t.Fatalf("Subtract() error = %v", err)
	}
	if !got.Equal(Num(2, "px")) {
		t.Errorf("3px - 1px = %v", got.Inspect(DefaultFormat))
	}

	// non numbers join with a hyphen
	got, err = Subtract(Unquoted("a"), Unquoted("b"), DefaultFormat)
	if err != nil {
		t.Fatalf("Subtract() error = %v", err)
	}
	if s := got.(Str); s.Text != "a-b" {
		t.Errorf("a - b = %q", s.Text)
	}
}

func TestMultiply(t *testing.T) {
	t.Run("doubling equals self addition", func(t *testing.T) {
		sum, err := Add(Num(2, "px"), Num(2, "px"), DefaultFormat)
		if err != nil {
			t.Fatal(err)
		}
		prod, err := Multiply(Num(2, "px"), Num(2, ""))
		if err != nil {
			t.Fatal(err)
		}
		if !sum.Equal(prod) {
			t.Errorf("a+a = %v, a*2 = %v", sum.Inspect(DefaultFormat), prod.Inspect(DefaultFormat))
		}
	})

	t.Run("units multiply", func(t *testing.T) {
		got, err := Multiply(Num(2, "px"), Num(3, "px"))
		if err != nil {
			t.Fatal(err)
		}
		n := got.(Number)
		if n.Value != 6 || n.Unit.String() != "px*px" {
			t.Errorf("2px * 3px = %v", n.Inspect(DefaultFormat))
		}
	})

	t.Run("non numbers fail", func(t *testing.T) {
		if _, err := Multiply(Unquoted("a"), Num(2, "")); err == nil {
			t.Error("expected error multiplying string")
		}
	})
}

func TestDivide(t *testing.T) {
	t.Run("units cancel", func(t *testing.T) {
		got, err := Divide(Num(6, "px"), Num(2, "px"))
		if err != nil {
			t.Fatal(err)
		}
		n := got.(Number)
		if n.Value != 3 || !n.Unit.IsNone() {
			t.Errorf("6px / 2px = %v", n.Inspect(DefaultFormat))
		}
	})

	t.Run("compatible units convert while cancelling", func(t *testing.T) {
		got, err := Divide(Num(1, "in"), Num(8, "px"))
		if err != nil {
			t.Fatal(err)
		}
		n := got.(Number)
		if roundTo(n.Value, 6) != 12 || !n.Unit.IsNone() {
			t.Errorf("1in / 8px = %v", n.Inspect(DefaultFormat))
		}
	})

	t.Run("division by zero", func(t *testing.T) {
		if _, err := Divide(Num(1, ""), Num(0, "")); err == nil {
			t.Error("expected division by zero error")
		}
	})

	t.Run("ratio unit survives", func(t *testing.T) {
		got, err := Divide(Num(10, "px"), Num(2, "s"))
		if err != nil {
			t.Fatal(err)
		}
		n := got.(Number)
		if n.Value != 5 || n.Unit.String() != "px/s" {
			t.Errorf("10px / 2s = %v", n.Inspect(DefaultFormat))
		}
	})
}

func TestSlashJoin(t *testing.T) {
	got, err := SlashJoin(Num(1, ""), Num(2, ""), DefaultFormat)
	if err != nil {
		t.Fatal(err)
	}
	if s := got.(Str); s.Text != "1/2" {
		t.Errorf("SlashJoin = %q, want 1/2", s.Text)
	}
}

func TestModulo(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Number
		expected float64
	}{
		{"positive", Num(7, ""), Num(3, ""), 1},
		{"sign of divisor", Num(-7, ""), Num(3, ""), 2},
		{"negative divisor", Num(7, ""), Num(-3, ""), -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Modulo(tt.a, tt.b)
			if err != nil {
				t.Fatal(err)
			}
			if n := got.(Number); n.Value != tt.expected {
				t.Errorf("%v %% %v = %v, want %v", tt.a.Value, tt.b.Value, n.Value, tt.expected)
			}
		})
	}

	if _, err := Modulo(Num(1, ""), Num(0, "")); err == nil {
		t.Error("expected modulo by zero error")
	}
}

func TestNegate(t *testing.T) {
	got, err := Negate(Num(3, "px"), DefaultFormat)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(Num(-3, "px")) {
		t.Errorf("-(3px) = %v", got.Inspect(DefaultFormat))
	}

	got, err = Negate(Unquoted("a"), DefaultFormat)
	if err != nil {
		t.Fatal(err)
	}
	if s := got.(Str); s.Text != "-a" {
		t.Errorf("-(a) = %q", s.Text)
	}
}

func TestCompare(t *testing.T) {
	if c, err := Compare(Num(1, "cm"), Num(5, "mm")); err != nil || c != 1 {
		t.Errorf("Compare(1cm, 5mm) = %d, %v, want 1", c, err)
	}
	if c, err := Compare(Num(1, ""), Num(2, "")); err != nil || c != -1 {
		t.Errorf("Compare(1, 2) = %d, %v, want -1", c, err)
	}
	if _, err := Compare(Num(1, "px"), Num(1, "s")); err == nil {
		t.Error("expected error comparing px and s")
	}
	if _, err := Compare(Unquoted("a"), Num(1, "")); err == nil {
		t.Error("expected error comparing string and number")
	}
}
