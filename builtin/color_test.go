package builtin

import (
	"testing"

	"github.com/deftliang/grass/value"
)

func wantChannel(t *testing.T, c value.Value, name string, want float64) {
	t.Helper()
	col, ok := c.(value.Color)
	if !ok {
		t.Fatalf("got %T, want a color", c)
	}
	wantNum(t, mustInvoke(t, "color", name, col), want, map[string]string{
		"hue": "deg", "saturation": "%", "lightness": "%",
	}[name])
}

func TestRGBConstructors(t *testing.T) {
	c := mustInvoke(t, "", "rgb", value.Num(255, ""), value.Num(0, ""), value.Num(0, ""))
	wantChannel(t, c, "red", 255)
	wantChannel(t, c, "green", 0)
	wantChannel(t, c, "alpha", 1)

	// percentage channels resolve against 255
	c = mustInvoke(t, "", "rgb", value.Num(100, "%"), value.Num(0, "%"), value.Num(50, "%"))
	wantChannel(t, c, "red", 255)
	wantChannel(t, c, "blue", 128)

	c = mustInvoke(t, "", "rgba",
		value.Num(10, ""), value.Num(20, ""), value.Num(30, ""), value.Num(0.5, ""))
	wantChannel(t, c, "alpha", 0.5)

	// two-argument form rewraps an existing color
	c = mustInvoke(t, "", "rgba", value.RGB(255, 0, 0), value.Num(0.3, ""))
	wantChannel(t, c, "red", 255)
	wantChannel(t, c, "alpha", 0.3)

	if _, err := invoke(t, "", "rgb",
		value.QuotedStr("red"), value.Num(0, ""), value.Num(0, "")); err == nil {
		t.Error("string channel must fail")
	}
}

func TestHSLConstructors(t *testing.T) {
	c := mustInvoke(t, "", "hsl", value.Num(0, ""), value.Num(100, "%"), value.Num(50, "%"))
	wantChannel(t, c, "red", 255)
	wantChannel(t, c, "green", 0)
	wantChannel(t, c, "blue", 0)

	c = mustInvoke(t, "", "hsla",
		value.Num(120, "deg"), value.Num(100, "%"), value.Num(50, "%"), value.Num(0.25, ""))
	wantChannel(t, c, "green", 255)
	wantChannel(t, c, "alpha", 0.25)
}

func TestHSLGetters(t *testing.T) {
	c := value.HSL(210, 60, 40)
	wantChannel(t, c, "hue", 210)
	wantChannel(t, c, "saturation", 60)
	wantChannel(t, c, "lightness", 40)
}

func TestMix(t *testing.T) {
	c := mustInvoke(t, "color", "mix", value.RGB(255, 0, 0), value.RGB(0, 0, 255))
	wantChannel(t, c, "red", 128)
	wantChannel(t, c, "blue", 128)

	// full weight keeps the first color
	c = mustInvoke(t, "color", "mix",
		value.RGB(255, 0, 0), value.RGB(0, 0, 255), value.Num(100, "%"))
	wantChannel(t, c, "red", 255)
	wantChannel(t, c, "blue", 0)
}

func TestInvertGrayscale(t *testing.T) {
	c := mustInvoke(t, "color", "invert", value.RGB(255, 0, 0))
	wantChannel(t, c, "red", 0)
	wantChannel(t, c, "green", 255)
	wantChannel(t, c, "blue", 255)

	c = mustInvoke(t, "color", "grayscale", value.RGB(255, 0, 0))
	wantChannel(t, c, "saturation", 0)
	wantChannel(t, c, "lightness", 50)
}

func TestLightenDarken(t *testing.T) {
	c := mustInvoke(t, "", "lighten", value.RGB(0, 0, 0), value.Num(50, "%"))
	wantChannel(t, c, "lightness", 50)

	// a bare number means the same percentage points
	c = mustInvoke(t, "", "darken", value.HSL(0, 0, 60), value.Num(20, ""))
	wantChannel(t, c, "lightness", 40)

	// shifts clamp at the ends of the scale
	c = mustInvoke(t, "", "lighten", value.HSL(0, 0, 90), value.Num(50, "%"))
	wantChannel(t, c, "lightness", 100)
}

func TestSaturateDesaturate(t *testing.T) {
	c := mustInvoke(t, "", "saturate", value.HSL(120, 30, 50), value.Num(20, "%"))
	wantChannel(t, c, "saturation", 50)
	c = mustInvoke(t, "", "desaturate", value.HSL(120, 30, 50), value.Num(40, "%"))
	wantChannel(t, c, "saturation", 0)
}

func TestAdjustHue(t *testing.T) {
	c := mustInvoke(t, "color", "adjust-hue", value.HSL(0, 100, 50), value.Num(120, "deg"))
	wantChannel(t, c, "hue", 120)
	wantChannel(t, c, "green", 255)
}

func TestAlphaShifts(t *testing.T) {
	c := mustInvoke(t, "", "transparentize", value.RGBA(0, 0, 0, 0.8), value.Num(0.3, ""))
	wantChannel(t, c, "alpha", 0.5)
	c = mustInvoke(t, "", "opacify", value.RGBA(0, 0, 0, 0.8), value.Num(0.9, ""))
	wantChannel(t, c, "alpha", 1)
}

func TestColorAdjust(t *testing.T) {
	fn, _ := Default().Lookup("color", "adjust")

	args := &Args{Positional: []value.Value{value.RGB(10, 20, 30)}}
	args.AddNamed("red", value.Num(5, ""))
	args.AddNamed("alpha", value.Num(-0.5, ""))
	v, err := fn.Invoke(testCtx(), args)
	if err != nil {
		t.Fatal(err)
	}
	wantChannel(t, v, "red", 15)
	wantChannel(t, v, "green", 20)
	wantChannel(t, v, "alpha", 0.5)

	args = &Args{Positional: []value.Value{value.HSL(0, 50, 50)}}
	args.AddNamed("lightness", value.Num(25, ""))
	v, err = fn.Invoke(testCtx(), args)
	if err != nil {
		t.Fatal(err)
	}
	wantChannel(t, v, "lightness", 75)

	// positional channel arguments are rejected
	args = &Args{Positional: []value.Value{value.RGB(0, 0, 0), value.Num(1, "")}}
	_, err = fn.Invoke(testCtx(), args)
	wantArity(t, err)
}
