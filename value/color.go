package value

import (
	"fmt"
	"math"
)

// Color is an RGBA color. Channels are kept as float64 in 0..255 so
// HSL round trips do not accumulate truncation error; Alpha is 0..1.
// Original preserves the literal form (hex, name, rgb()/hsl() call)
// for faithful re-emission and is cleared by any computation.
type Color struct {
	R, G, B  float64
	A        float64
	Original string
}

// RGB builds an opaque color from 0..255 channels.
func RGB(r, g, b float64) Color {
	return Color{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b), A: 1}
}

// RGBA builds a color from 0..255 channels and 0..1 alpha.
func RGBA(r, g, b, a float64) Color {
	return Color{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b), A: clampUnit(a)}
}

// HSL builds a color from hue in degrees, saturation and lightness
// in 0..100.
func HSL(h, s, l float64) Color {
	return HSLA(h, s, l, 1)
}

// HSLA builds a color from HSL plus 0..1 alpha.
func HSLA(h, s, l, a float64) Color {
	h = math.Mod(math.Mod(h, 360)+360, 360) / 360
	s = clampUnit(s / 100)
	l = clampUnit(l / 100)
	if s == 0 {
		v := l * 255
		return Color{R: v, G: v, B: v, A: clampUnit(a)}
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return Color{
		R: hueToRGB(p, q, h+1.0/3.0) * 255,
		G: hueToRGB(p, q, h) * 255,
		B: hueToRGB(p, q, h-1.0/3.0) * 255,
		A: clampUnit(a),
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

// ToHSL returns hue in degrees and saturation/lightness in 0..100.
func (c Color) ToHSL() (h, s, l float64) {
	r, g, b := c.R/255, c.G/255, c.B/255
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2
	if max == min {
		return 0, 0, l * 100
	}
	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h * 60, s * 100, l * 100
}

func clampChannel(v float64) float64 { return math.Min(255, math.Max(0, v)) }
func clampUnit(v float64) float64    { return math.Min(1, math.Max(0, v)) }

func (c Color) Kind() Kind     { return KindColor }
func (c Color) IsTruthy() bool { return true }

// Equal compares channels after rounding; the original literal form
// never participates in equality.
func (c Color) Equal(other Value) bool {
	o, ok := other.(Color)
	return ok &&
		math.Round(c.R) == math.Round(o.R) &&
		math.Round(c.G) == math.Round(o.G) &&
		math.Round(c.B) == math.Round(o.B) &&
		roundTo(c.A, 3) == roundTo(o.A, 3)
}

func (c Color) Inspect(f Format) string {
	s, _ := c.CSS(f)
	return s
}

func (c Color) CSS(f Format) (string, error) {
	if c.Original != "" {
		return c.Original, nil
	}
	if c.A >= 1 {
		hex := fmt.Sprintf("#%02x%02x%02x",
			int(math.Round(c.R)), int(math.Round(c.G)), int(math.Round(c.B)))
		if f.Compressed {
			hex = shortenHex(hex)
		}
		return hex, nil
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)",
		int(math.Round(c.R)), int(math.Round(c.G)), int(math.Round(c.B)),
		FormatFloat(c.A, f)), nil
}

// shortenHex collapses #rrggbb to #rgb when possible.
func shortenHex(hex string) string {
	if len(hex) == 7 && hex[1] == hex[2] && hex[3] == hex[4] && hex[5] == hex[6] {
		return "#" + string(hex[1]) + string(hex[3]) + string(hex[5])
	}
	return hex
}

// withoutOriginal returns a copy with the literal form invalidated,
// used by every channel computation.
func (c Color) withoutOriginal() Color {
	c.Original = ""
	return c
}

// AdjustHSL shifts hue/saturation/lightness by deltas, clamping
// saturation and lightness to 0..100.
func (c Color) AdjustHSL(dh, ds, dl float64) Color {
	h, s, l := c.ToHSL()
	nc := HSLA(h+dh, math.Min(100, math.Max(0, s+ds)), math.Min(100, math.Max(0, l+dl)), c.A)
	return nc
}

// AdjustAlpha shifts alpha by delta, clamping to 0..1.
func (c Color) AdjustAlpha(da float64) Color {
	nc := c.withoutOriginal()
	nc.A = clampUnit(c.A + da)
	return nc
}
