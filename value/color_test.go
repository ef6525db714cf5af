package value

import (
	"testing"
)

func TestColorHSLRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
	}{
		{"red", 0, 100, 50},
		{"green", 120, 100, 25},
		{"pastel", 210, 30, 70},
		{"gray", 0, 0, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := HSL(tt.h, tt.s, tt.l)
			h, s, l := c.ToHSL()
			if s != 0 && roundTo(h, 3) != roundTo(tt.h, 3) {
				t.Errorf("hue = %v, want %v", h, tt.h)
			}
			if roundTo(s, 3) != roundTo(tt.s, 3) {
				t.Errorf("saturation = %v, want %v", s, tt.s)
			}
			if roundTo(l, 3) != roundTo(tt.l, 3) {
				t.Errorf("lightness = %v, want %v", l, tt.l)
			}
		})
	}
}

func TestColorCSS(t *testing.T) {
	tests := []struct {
		name     string
		c        Color
		f        Format
		expected string
	}{
		{"opaque hex", RGB(255, 0, 0), Format{Precision: 10}, "#ff0000"},
		{"compressed shortens", RGB(255, 0, 0), Format{Precision: 10, Compressed: true}, "#f00"},
		{"not shortenable", RGB(255, 10, 0), Format{Precision: 10, Compressed: true}, "#ff0a00"},
		{"alpha uses rgba", RGBA(255, 0, 0, 0.5), Format{Precision: 10}, "rgba(255, 0, 0, 0.5)"},
		{"original survives", Color{R: 255, A: 1, Original: "red"}, Format{Precision: 10}, "red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.c.CSS(tt.f)
			if err != nil {
				t.Fatalf("CSS() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("CSS() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestColorEqualIgnoresOriginal(t *testing.T) {
	named := Color{R: 255, A: 1, Original: "red"}
	if !named.Equal(RGB(255, 0, 0)) {
		t.Error("red should equal #ff0000")
	}
}

func TestColorAdjustHSL(t *testing.T) {
	c := HSL(120, 50, 50)

	lighter := c.AdjustHSL(0, 0, 20)
	if _, _, l := lighter.ToHSL(); roundTo(l, 3) != 70 {
		t.Errorf("lightness after +20 = %v, want 70", l)
	}

	// clamped at bounds
	white := c.AdjustHSL(0, 0, 100)
	if !white.Equal(RGB(255, 255, 255)) {
		t.Errorf("over-lightened color = %v, want white", white.Inspect(DefaultFormat))
	}

	// any adjustment drops the literal form
	named := Color{R: 255, A: 1, Original: "red"}
	if named.AdjustHSL(0, 0, 1).Original != "" {
		t.Error("adjustment should clear original literal")
	}
}

func TestColorAdjustAlpha(t *testing.T) {
	c := RGB(10, 20, 30).AdjustAlpha(-0.25)
	if roundTo(c.A, 3) != 0.75 {
		t.Errorf("alpha = %v, want 0.75", c.A)
	}
	if c.AdjustAlpha(-2).A != 0 {
		t.Error("alpha should clamp at 0")
	}
}
