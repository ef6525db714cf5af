package value

import (
	"math"

	"github.com/deftliang/grass/diag"
)

func typeErrorf(format string, args ...any) error {
	return diag.Errorf(diag.TypeError, format, args...)
}

// serialize renders a value for string concatenation contexts,
// falling back to the inspect form for values without CSS text.
func serialize(v Value, f Format) string {
	if s, err := v.CSS(f); err == nil {
		return s
	}
	return v.Inspect(f)
}

// coerceRight converts b into a's unit for additive operations. A
// unitless operand adopts the other operand's unit.
func coerceRight(a, b Number) (Number, Number, error) {
	if a.Unit.IsNone() {
		return Number{Value: a.Value, Unit: b.Unit}, b, nil
	}
	if b.Unit.IsNone() {
		return a, Number{Value: b.Value, Unit: a.Unit}, nil
	}
	c, err := b.ConvertTo(a.Unit)
	if err != nil {
		return Number{}, Number{}, err
	}
	return a, c, nil
}

// Add implements the Sass `+` operator.
func Add(a, b Value, f Format) (Value, error) {
	switch x := a.(type) {
	case Number:
		switch y := b.(type) {
		case Number:
			x, y, err := coerceRight(x, y)
			if err != nil {
				return nil, err
			}
			return Number{Value: x.Value + y.Value, Unit: x.Unit}, nil
		case Str:
			return Str{Text: x.Inspect(f) + y.Text, Quoted: y.Quoted}, nil
		default:
			return nil, typeErrorf("cannot add %s and %s", a.Kind(), b.Kind())
		}
	case Str:
		quoted := x.Quoted
		if y, ok := b.(Str); ok {
			quoted = x.Quoted || y.Quoted
			return Str{Text: x.Text + y.Text, Quoted: quoted}, nil
		}
		return Str{Text: x.Text + serialize(b, f), Quoted: quoted}, nil
	case Color:
		return nil, typeErrorf("cannot add colors; use color functions instead")
	default:
		// remaining kinds concatenate their CSS forms
		if y, ok := b.(Str); ok {
			return Str{Text: serialize(a, f) + y.Text, Quoted: y.Quoted}, nil
		}
		return Str{Text: serialize(a, f) + serialize(b, f)}, nil
	}
}

// Subtract implements the Sass `-` operator.
func Subtract(a, b Value, f Format) (Value, error) {
	x, okA := a.(Number)
	y, okB := b.(Number)
	if okA && okB {
		x, y, err := coerceRight(x, y)
		if err != nil {
			return nil, err
		}
		return Number{Value: x.Value - y.Value, Unit: x.Unit}, nil
	}
	if a.Kind() == KindColor || b.Kind() == KindColor {
		return nil, typeErrorf("cannot subtract colors; use color functions instead")
	}
	return Str{Text: serialize(a, f) + "-" + serialize(b, f)}, nil
}

// Multiply implements the Sass `*` operator.
func Multiply(a, b Value) (Value, error) {
	x, okA := a.(Number)
	y, okB := b.(Number)
	if !okA || !okB {
		return nil, typeErrorf("cannot multiply %s and %s", a.Kind(), b.Kind())
	}
	unit, factor := x.Unit.mul(y.Unit)
	return Number{Value: x.Value * y.Value * factor, Unit: unit}, nil
}

// Divide implements forced division (math context or math.div).
func Divide(a, b Value) (Value, error) {
	x, okA := a.(Number)
	y, okB := b.(Number)
	if !okA || !okB {
		return nil, typeErrorf("cannot divide %s by %s", a.Kind(), b.Kind())
	}
	if y.Value == 0 {
		return nil, typeErrorf("division by zero")
	}
	unit, factor := x.Unit.div(y.Unit)
	return Number{Value: x.Value / y.Value * factor, Unit: unit}, nil
}

// SlashJoin renders `a / b` as a slash separated pair when division
// was not forced.
func SlashJoin(a, b Value, f Format) (Value, error) {
	return Str{Text: serialize(a, f) + "/" + serialize(b, f)}, nil
}

// Modulo implements the Sass `%` operator.
func Modulo(a, b Value) (Value, error) {
	x, okA := a.(Number)
	y, okB := b.(Number)
	if !okA || !okB {
		return nil, typeErrorf("cannot take %s modulo %s", a.Kind(), b.Kind())
	}
	x, y, err := coerceRight(x, y)
	if err != nil {
		return nil, err
	}
	if y.Value == 0 {
		return nil, typeErrorf("modulo by zero")
	}
	m := math.Mod(x.Value, y.Value)
	// Sass modulo takes the sign of the divisor
	if m != 0 && (m < 0) != (y.Value < 0) {
		m += y.Value
	}
	return Number{Value: m, Unit: x.Unit}, nil
}

// Negate implements unary minus.
func Negate(v Value, f Format) (Value, error) {
	switch t := v.(type) {
	case Number:
		return Number{Value: -t.Value, Unit: t.Unit}, nil
	case Str:
		return Str{Text: "-" + serialize(v, f), Quoted: false}, nil
	default:
		return Str{Text: "-" + serialize(v, f)}, nil
	}
}

// Compare orders two numbers, failing on any other kind or on
// incompatible units. Result is -1, 0 or 1.
func Compare(a, b Value) (int, error) {
	x, okA := a.(Number)
	y, okB := b.(Number)
	if !okA || !okB {
		return 0, typeErrorf("cannot compare %s and %s", a.Kind(), b.Kind())
	}
	x, y, err := coerceRight(x, y)
	if err != nil {
		return 0, err
	}
	switch {
	case x.Value < y.Value:
		return -1, nil
	case x.Value > y.Value:
		return 1, nil
	default:
		return 0, nil
	}
}
