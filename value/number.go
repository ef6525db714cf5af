package value

import (
	"math"
	"strconv"
	"strings"
)

// Number is a magnitude with a rational unit expression.
type Number struct {
	Value float64
	Unit  Unit
}

// Num builds a number with a simple unit ("" for unitless).
func Num(v float64, unit string) Number {
	return Number{Value: v, Unit: UnitOf(unit)}
}

func (n Number) Kind() Kind     { return KindNumber }
func (n Number) IsTruthy() bool { return true }

// Unitless reports a dimensionless number.
func (n Number) Unitless() bool { return n.Unit.IsNone() }

// IsInt reports whether the magnitude is a whole number within
// formatting precision.
func (n Number) IsInt() bool {
	return n.Value == math.Trunc(n.Value)
}

// Int returns the magnitude as int; callers check IsInt first.
func (n Number) Int() int { return int(n.Value) }

// ConvertTo converts the number into the given unit, failing with a
// UnitError for incompatible units.
func (n Number) ConvertTo(unit Unit) (Number, error) {
	v, err := convertUnits(n.Value, n.Unit, unit)
	if err != nil {
		return Number{}, err
	}
	return Number{Value: v, Unit: unit}, nil
}

// Equal converts across compatible units so 1cm == 10mm holds.
func (n Number) Equal(other Value) bool {
	o, ok := other.(Number)
	if !ok {
		return false
	}
	if n.Unit.IsNone() != o.Unit.IsNone() {
		return false
	}
	c, err := o.ConvertTo(n.Unit)
	if err != nil {
		return false
	}
	return roundTo(n.Value, DefaultFormat.Precision) == roundTo(c.Value, DefaultFormat.Precision)
}

func (n Number) Inspect(f Format) string {
	return FormatFloat(n.Value, f) + n.Unit.String()
}

func (n Number) CSS(f Format) (string, error) {
	if len(n.Unit.Den) > 0 || len(n.Unit.Num) > 1 {
		return "", typeErrorf("%s is not a valid CSS value", n.Inspect(f))
	}
	return n.Inspect(f), nil
}

func roundTo(v float64, digits int) float64 {
	if digits <= 0 {
		return math.Round(v)
	}
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// FormatFloat renders a magnitude: rounded to f.Precision fractional
// digits, trailing zeros trimmed, no exponent form. Compressed output
// drops the zero before the decimal point.
func FormatFloat(v float64, f Format) string {
	prec := f.Precision
	if prec <= 0 {
		prec = DefaultFormat.Precision
	}
	v = roundTo(v, prec)
	if v == 0 {
		// normalize negative zero
		return "0"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if f.Compressed {
		switch {
		case strings.HasPrefix(s, "0."):
			s = s[1:]
		case strings.HasPrefix(s, "-0."):
			s = "-" + s[2:]
		}
	}
	return s
}
