package builtin

import (
	"math"

	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/value"
)

func init() {
	registerModuleVar("math", "pi", value.Number{Value: math.Pi})
	registerModuleVar("math", "e", value.Number{Value: math.E})

	register("math", "div", []param{p("number1"), p("number2")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			return value.Divide(args[0], args[1])
		})

	register("math", "round", []param{p("number")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			n, err := needNumber(args[0], "number")
			if err != nil {
				return nil, err
			}
			return value.Number{Value: math.Round(n.Value), Unit: n.Unit}, nil
		}, "round")

	register("math", "ceil", []param{p("number")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			n, err := needNumber(args[0], "number")
			if err != nil {
				return nil, err
			}
			return value.Number{Value: math.Ceil(n.Value), Unit: n.Unit}, nil
		}, "ceil")

	register("math", "floor", []param{p("number")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			n, err := needNumber(args[0], "number")
			if err != nil {
				return nil, err
			}
			return value.Number{Value: math.Floor(n.Value), Unit: n.Unit}, nil
		}, "floor")

	register("math", "abs", []param{p("number")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			n, err := needNumber(args[0], "number")
			if err != nil {
				return nil, err
			}
			return value.Number{Value: math.Abs(n.Value), Unit: n.Unit}, nil
		}, "abs")

	register("math", "min", []param{rest("numbers")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			return extremum(args[0], "min", -1)
		}, "min")

	register("math", "max", []param{rest("numbers")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			return extremum(args[0], "max", 1)
		}, "max")

	register("math", "percentage", []param{p("number")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			v, err := needUnitless(args[0], "number")
			if err != nil {
				return nil, err
			}
			return value.Num(v*100, "%"), nil
		}, "percentage")

	register("math", "pow", []param{p("base"), p("exponent")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			base, err := needUnitless(args[0], "base")
			if err != nil {
				return nil, err
			}
			exp, err := needUnitless(args[1], "exponent")
			if err != nil {
				return nil, err
			}
			return value.Num(math.Pow(base, exp), ""), nil
		})

	register("math", "sqrt", []param{p("number")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			v, err := needUnitless(args[0], "number")
			if err != nil {
				return nil, err
			}
			if v < 0 {
				return nil, diag.Errorf(diag.TypeError, "$number: may not be negative, got %v", v)
			}
			return value.Num(math.Sqrt(v), ""), nil
		})

	register("math", "unit", []param{p("number")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			n, err := needNumber(args[0], "number")
			if err != nil {
				return nil, err
			}
			return value.QuotedStr(n.Unit.String()), nil
		}, "unit")

	register("math", "is-unitless", []param{p("number")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			n, err := needNumber(args[0], "number")
			if err != nil {
				return nil, err
			}
			return value.FromBool(n.Unitless()), nil
		}, "unitless")

	register("math", "compatible", []param{p("number1"), p("number2")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			a, err := needNumber(args[0], "number1")
			if err != nil {
				return nil, err
			}
			b, err := needNumber(args[1], "number2")
			if err != nil {
				return nil, err
			}
			return value.FromBool(a.Unit.Compatible(b.Unit)), nil
		}, "comparable")

	register("math", "random", []param{pd("limit", value.Null)},
		func(ctx *Context, args []value.Value) (value.Value, error) {
			if args[0].Kind() == value.KindNull {
				return value.Num(ctx.Rand.Float(), ""), nil
			}
			limit, err := needInt(args[0], "limit")
			if err != nil {
				return nil, err
			}
			if limit < 1 {
				return nil, diag.Errorf(diag.TypeError, "$limit: must be greater than 0, got %d", limit)
			}
			return value.Num(float64(ctx.Rand.IntN(limit)+1), ""), nil
		}, "random")
}

// extremum folds min/max over the arguments with unit conversion
// against the first number's unit.
func extremum(arglist value.Value, fnName string, sign int) (value.Value, error) {
	items := value.AsSlice(arglist)
	if len(items) == 0 {
		return nil, diag.Errorf(diag.ArityError, "%s(): at least one argument must be passed", fnName)
	}
	best, err := needNumber(items[0], "numbers")
	if err != nil {
		return nil, err
	}
	for _, item := range items[1:] {
		n, err := needNumber(item, "numbers")
		if err != nil {
			return nil, err
		}
		cmp, err := value.Compare(n, best)
		if err != nil {
			return nil, err
		}
		if cmp*sign > 0 {
			best = n
		}
	}
	return best, nil
}
