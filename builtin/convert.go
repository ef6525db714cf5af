package builtin

import (
	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/value"
)

func needNumber(v value.Value, arg string) (value.Number, error) {
	n, ok := v.(value.Number)
	if !ok {
		return value.Number{}, diag.Errorf(diag.TypeError, "$%s: %s is not a number", arg, v.Inspect(value.DefaultFormat))
	}
	return n, nil
}

func needUnitless(v value.Value, arg string) (float64, error) {
	n, err := needNumber(v, arg)
	if err != nil {
		return 0, err
	}
	if !n.Unitless() {
		return 0, diag.Errorf(diag.UnitError, "$%s: expected %s to have no units", arg, n.Inspect(value.DefaultFormat))
	}
	return n.Value, nil
}

func needString(v value.Value, arg string) (value.Str, error) {
	s, ok := v.(value.Str)
	if !ok {
		return value.Str{}, diag.Errorf(diag.TypeError, "$%s: %s is not a string", arg, v.Inspect(value.DefaultFormat))
	}
	return s, nil
}

func needColor(v value.Value, arg string) (value.Color, error) {
	c, ok := v.(value.Color)
	if !ok {
		return value.Color{}, diag.Errorf(diag.TypeError, "$%s: %s is not a color", arg, v.Inspect(value.DefaultFormat))
	}
	return c, nil
}

func needMap(v value.Value, arg string) (*value.Map, error) {
	switch m := v.(type) {
	case *value.Map:
		return m, nil
	case value.List:
		if len(m.Items) == 0 {
			return value.NewMap(), nil
		}
	}
	return nil, diag.Errorf(diag.TypeError, "$%s: %s is not a map", arg, v.Inspect(value.DefaultFormat))
}

// needInt extracts a whole unitless number.
func needInt(v value.Value, arg string) (int, error) {
	n, err := needNumber(v, arg)
	if err != nil {
		return 0, err
	}
	if !n.IsInt() {
		return 0, diag.Errorf(diag.TypeError, "$%s: %s is not an integer", arg, n.Inspect(value.DefaultFormat))
	}
	return n.Int(), nil
}

// channel extracts a color channel argument, resolving percentages
// against scale.
func channel(v value.Value, arg string, scale float64) (float64, error) {
	n, err := needNumber(v, arg)
	if err != nil {
		return 0, err
	}
	if n.Unit.IsSimple() && n.Unit.Num[0] == "%" {
		return n.Value / 100 * scale, nil
	}
	return n.Value, nil
}
