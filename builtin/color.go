package builtin

import (
	"math"

	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/value"
)

func init() {
	registerGlobal("rgb", []param{p("red"), p("green"), p("blue")}, rgbImpl)
	registerGlobal("rgba", []param{p("red"), p("green"), pd("blue", value.Null), pd("alpha", value.Null)},
		func(_ *Context, args []value.Value) (value.Value, error) {
			// two-argument form: rgba($color, $alpha)
			if args[2].Kind() == value.KindNull {
				c, err := needColor(args[0], "color")
				if err != nil {
					return nil, err
				}
				a, err := channel(args[1], "alpha", 1)
				if err != nil {
					return nil, err
				}
				return value.RGBA(c.R, c.G, c.B, a), nil
			}
			r, err := channel(args[0], "red", 255)
			if err != nil {
				return nil, err
			}
			g, err := channel(args[1], "green", 255)
			if err != nil {
				return nil, err
			}
			b, err := channel(args[2], "blue", 255)
			if err != nil {
				return nil, err
			}
			a := 1.0
			if args[3].Kind() != value.KindNull {
				if a, err = channel(args[3], "alpha", 1); err != nil {
					return nil, err
				}
			}
			return value.RGBA(r, g, b, a), nil
		})

	registerGlobal("hsl", []param{p("hue"), p("saturation"), p("lightness")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			return hslImpl(args, 1)
		})
	registerGlobal("hsla", []param{p("hue"), p("saturation"), p("lightness"), p("alpha")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			a, err := channel(args[3], "alpha", 1)
			if err != nil {
				return nil, err
			}
			return hslImpl(args[:3], a)
		})

	register("color", "red", []param{p("color")}, channelGetter(func(c value.Color) float64 { return math.Round(c.R) }, ""), "red")
	register("color", "green", []param{p("color")}, channelGetter(func(c value.Color) float64 { return math.Round(c.G) }, ""), "green")
	register("color", "blue", []param{p("color")}, channelGetter(func(c value.Color) float64 { return math.Round(c.B) }, ""), "blue")
	register("color", "alpha", []param{p("color")}, channelGetter(func(c value.Color) float64 { return c.A }, ""), "alpha", "opacity")

	register("color", "hue", []param{p("color")}, channelGetter(func(c value.Color) float64 {
		h, _, _ := c.ToHSL()
		return h
	}, "deg"), "hue")
	register("color", "saturation", []param{p("color")}, channelGetter(func(c value.Color) float64 {
		_, s, _ := c.ToHSL()
		return s
	}, "%"), "saturation")
	register("color", "lightness", []param{p("color")}, channelGetter(func(c value.Color) float64 {
		_, _, l := c.ToHSL()
		return l
	}, "%"), "lightness")

	register("color", "mix", []param{p("color1"), p("color2"), pd("weight", value.Num(50, "%"))},
		func(_ *Context, args []value.Value) (value.Value, error) {
			c1, err := needColor(args[0], "color1")
			if err != nil {
				return nil, err
			}
			c2, err := needColor(args[1], "color2")
			if err != nil {
				return nil, err
			}
			w, err := channel(args[2], "weight", 1)
			if err != nil {
				return nil, err
			}
			return mixColors(c1, c2, w), nil
		}, "mix")

	register("color", "invert", []param{p("color"), pd("weight", value.Num(100, "%"))},
		func(_ *Context, args []value.Value) (value.Value, error) {
			c, err := needColor(args[0], "color")
			if err != nil {
				return nil, err
			}
			w, err := channel(args[1], "weight", 1)
			if err != nil {
				return nil, err
			}
			inv := value.RGBA(255-c.R, 255-c.G, 255-c.B, c.A)
			return mixColors(inv, c, w), nil
		}, "invert")

	register("color", "grayscale", []param{p("color")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			c, err := needColor(args[0], "color")
			if err != nil {
				return nil, err
			}
			_, _, l := c.ToHSL()
			nc := value.HSLA(0, 0, l, c.A)
			return nc, nil
		}, "grayscale")

	// lighten and friends accept either 20% or a bare 20, both
	// meaning twenty percentage points
	hslShift := func(ds, dl float64) func(*Context, []value.Value) (value.Value, error) {
		return func(_ *Context, args []value.Value) (value.Value, error) {
			c, err := needColor(args[0], "color")
			if err != nil {
				return nil, err
			}
			amt, err := channel(args[1], "amount", 100)
			if err != nil {
				return nil, err
			}
			return c.AdjustHSL(0, amt*ds, amt*dl), nil
		}
	}
	register("color", "adjust-hue", []param{p("color"), p("degrees")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			c, err := needColor(args[0], "color")
			if err != nil {
				return nil, err
			}
			deg, err := channel(args[1], "degrees", 360)
			if err != nil {
				return nil, err
			}
			return c.AdjustHSL(deg, 0, 0), nil
		}, "adjust-hue")
	registerGlobal("lighten", []param{p("color"), p("amount")}, hslShift(0, 1))
	registerGlobal("darken", []param{p("color"), p("amount")}, hslShift(0, -1))
	registerGlobal("saturate", []param{p("color"), p("amount")}, hslShift(1, 0))
	registerGlobal("desaturate", []param{p("color"), p("amount")}, hslShift(-1, 0))

	alphaShift := func(sign float64) func(*Context, []value.Value) (value.Value, error) {
		return func(_ *Context, args []value.Value) (value.Value, error) {
			c, err := needColor(args[0], "color")
			if err != nil {
				return nil, err
			}
			amt, err := channel(args[1], "amount", 1)
			if err != nil {
				return nil, err
			}
			return c.AdjustAlpha(sign * amt), nil
		}
	}
	registerGlobal("opacify", []param{p("color"), p("amount")}, alphaShift(1))
	registerGlobal("fade-in", []param{p("color"), p("amount")}, alphaShift(1))
	registerGlobal("transparentize", []param{p("color"), p("amount")}, alphaShift(-1))
	registerGlobal("fade-out", []param{p("color"), p("amount")}, alphaShift(-1))

	register("color", "adjust", []param{p("color"), rest("channels")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			c, err := needColor(args[0], "color")
			if err != nil {
				return nil, err
			}
			al, _ := args[1].(value.ArgList)
			if len(al.Items) > 0 {
				return nil, diag.Errorf(diag.ArityError, "adjust(): only named channel arguments are allowed")
			}
			if al.Keywords == nil {
				return c, nil
			}
			get := func(name string) (float64, bool, error) {
				v, ok := al.Keywords.Get(value.Unquoted(name))
				if !ok {
					return 0, false, nil
				}
				n, err := needNumber(v, name)
				if err != nil {
					return 0, false, err
				}
				return n.Value, true, nil
			}
			out := c
			rgbTouched := false
			for _, ch := range []struct {
				name string
				dst  *float64
			}{{"red", &out.R}, {"green", &out.G}, {"blue", &out.B}} {
				d, ok, err := get(ch.name)
				if err != nil {
					return nil, err
				}
				if ok {
					*ch.dst = math.Min(255, math.Max(0, *ch.dst+d))
					rgbTouched = true
				}
			}
			if rgbTouched {
				out = value.RGBA(out.R, out.G, out.B, out.A)
			}
			dh, okH, err := get("hue")
			if err != nil {
				return nil, err
			}
			ds, okS, err := get("saturation")
			if err != nil {
				return nil, err
			}
			dl, okL, err := get("lightness")
			if err != nil {
				return nil, err
			}
			if okH || okS || okL {
				out = out.AdjustHSL(dh, ds, dl)
			}
			if da, ok, err := get("alpha"); err != nil {
				return nil, err
			} else if ok {
				out = out.AdjustAlpha(da)
			}
			return out, nil
		})
}

func rgbImpl(_ *Context, args []value.Value) (value.Value, error) {
	r, err := channel(args[0], "red", 255)
	if err != nil {
		return nil, err
	}
	g, err := channel(args[1], "green", 255)
	if err != nil {
		return nil, err
	}
	b, err := channel(args[2], "blue", 255)
	if err != nil {
		return nil, err
	}
	return value.RGB(r, g, b), nil
}

func hslImpl(args []value.Value, alpha float64) (value.Value, error) {
	h, err := needNumber(args[0], "hue")
	if err != nil {
		return nil, err
	}
	s, err := channel(args[1], "saturation", 100)
	if err != nil {
		return nil, err
	}
	l, err := channel(args[2], "lightness", 100)
	if err != nil {
		return nil, err
	}
	return value.HSLA(h.Value, s, l, alpha), nil
}

func channelGetter(get func(value.Color) float64, unit string) func(*Context, []value.Value) (value.Value, error) {
	return func(_ *Context, args []value.Value) (value.Value, error) {
		c, err := needColor(args[0], "color")
		if err != nil {
			return nil, err
		}
		return value.Num(get(c), unit), nil
	}
}

// mixColors weights c1 against c2 the way Sass mix() does, taking
// alpha into account.
func mixColors(c1, c2 value.Color, weight float64) value.Color {
	w := weight*2 - 1
	a := c1.A - c2.A
	var w1 float64
	if w*a == -1 {
		w1 = (w + 1) / 2
	} else {
		w1 = (w+a)/(1+w*a)/2 + 0.5
	}
	w2 := 1 - w1
	return value.RGBA(
		c1.R*w1+c2.R*w2,
		c1.G*w1+c2.G*w2,
		c1.B*w1+c2.B*w2,
		c1.A*weight+c2.A*(1-weight),
	)
}
