package value

import (
	"sort"
	"strings"

	"github.com/deftliang/grass/diag"
)

// unitClass groups mutually convertible units. Factors convert one of
// the named unit into the class base unit.
type unitClass struct {
	base    string
	factors map[string]float64
}

// Conversion table per CSS Values and Units Level 3. Units absent
// here (em, rem, vw, ...) only combine with themselves.
var unitClasses = []unitClass{
	{base: "px", factors: map[string]float64{
		"px": 1,
		"pt": 96.0 / 72.0,
		"pc": 16,
		"in": 96,
		"cm": 96.0 / 2.54,
		"mm": 96.0 / 25.4,
		"q":  96.0 / 101.6,
	}},
	{base: "deg", factors: map[string]float64{
		"deg":  1,
		"grad": 0.9,
		"rad":  180.0 / 3.141592653589793,
		"turn": 360,
	}},
	{base: "s", factors: map[string]float64{
		"s":  1,
		"ms": 0.001,
	}},
	{base: "hz", factors: map[string]float64{
		"hz":  1,
		"khz": 1000,
	}},
	{base: "dppx", factors: map[string]float64{
		"dppx": 1,
		"dpi":  1.0 / 96.0,
		"dpcm": 2.54 / 96.0,
	}},
}

func classOf(unit string) *unitClass {
	u := strings.ToLower(unit)
	for i := range unitClasses {
		if _, ok := unitClasses[i].factors[u]; ok {
			return &unitClasses[i]
		}
	}
	return nil
}

// conversionFactor returns the multiplier turning a value in from
// into a value in to. ok is false when the units are incompatible.
func conversionFactor(from, to string) (float64, bool) {
	if from == to {
		return 1, true
	}
	cf, ct := classOf(from), classOf(to)
	if cf == nil || ct == nil || cf != ct {
		return 0, false
	}
	return cf.factors[strings.ToLower(from)] / cf.factors[strings.ToLower(to)], true
}

// Unit is a rational unit expression: a multiset of numerator atoms
// over a multiset of denominator atoms, both kept sorted so textually
// equal expressions compare equal.
type Unit struct {
	Num []string
	Den []string
}

// NoUnit is the dimensionless unit expression.
var NoUnit = Unit{}

// UnitOf builds a simple single-atom unit; UnitOf("") is NoUnit.
func UnitOf(name string) Unit {
	if name == "" {
		return Unit{}
	}
	return Unit{Num: []string{name}}
}

// IsNone reports a dimensionless expression.
func (u Unit) IsNone() bool { return len(u.Num) == 0 && len(u.Den) == 0 }

// IsSimple reports a single numerator atom and no denominator.
func (u Unit) IsSimple() bool { return len(u.Num) == 1 && len(u.Den) == 0 }

func (u Unit) String() string {
	if u.IsNone() {
		return ""
	}
	var b strings.Builder
	for i, n := range u.Num {
		if i > 0 {
			b.WriteByte('*')
		}
		b.WriteString(n)
	}
	if len(u.Den) > 0 {
		if len(u.Num) == 0 {
			// leading slash form, e.g. 1/s renders as "s^-1"
			b.WriteString("(")
		}
		b.WriteByte('/')
		for i, d := range u.Den {
			if i > 0 {
				b.WriteByte('*')
			}
			b.WriteString(d)
		}
		if len(u.Num) == 0 {
			b.WriteString(")")
		}
	}
	return b.String()
}

func (u Unit) Equal(other Unit) bool {
	if len(u.Num) != len(other.Num) || len(u.Den) != len(other.Den) {
		return false
	}
	for i := range u.Num {
		if u.Num[i] != other.Num[i] {
			return false
		}
	}
	for i := range u.Den {
		if u.Den[i] != other.Den[i] {
			return false
		}
	}
	return true
}

func (u Unit) clone() Unit {
	return Unit{Num: append([]string(nil), u.Num...), Den: append([]string(nil), u.Den...)}
}

// simplify cancels numerator/denominator pairs, converting between
// compatible atoms, and returns the residual scale factor to apply to
// the magnitude.
func (u *Unit) simplify() float64 {
	factor := 1.0
	var num []string
	den := append([]string(nil), u.Den...)
outer:
	for _, n := range u.Num {
		for i, d := range den {
			if f, ok := conversionFactor(n, d); ok {
				factor *= f
				den = append(den[:i], den[i+1:]...)
				continue outer
			}
		}
		num = append(num, n)
	}
	sort.Strings(num)
	sort.Strings(den)
	u.Num, u.Den = num, den
	return factor
}

// mul multiplies two unit expressions; returned factor scales the
// magnitude product.
func (u Unit) mul(other Unit) (Unit, float64) {
	r := Unit{
		Num: append(append([]string(nil), u.Num...), other.Num...),
		Den: append(append([]string(nil), u.Den...), other.Den...),
	}
	f := r.simplify()
	return r, f
}

// div divides u by other.
func (u Unit) div(other Unit) (Unit, float64) {
	return u.mul(Unit{Num: other.Den, Den: other.Num})
}

// Compatible reports whether a quantity in u can be converted to
// other. Dimensionless is compatible with anything (coercion rule for
// unitless literals).
func (u Unit) Compatible(other Unit) bool {
	if u.IsNone() || other.IsNone() {
		return true
	}
	_, err := convertUnits(1, u, other)
	return err == nil
}

// convertUnits converts magnitude v from unit from into unit to.
func convertUnits(v float64, from, to Unit) (float64, error) {
	if from.Equal(to) || from.IsNone() || to.IsNone() {
		return v, nil
	}
	if len(from.Num) != len(to.Num) || len(from.Den) != len(to.Den) {
		return 0, diag.Errorf(diag.UnitError, "incompatible units %s and %s", from, to)
	}
	// Both sides are sorted; greedily match each atom with a
	// convertible counterpart.
	match := func(as, bs []string, invert bool) (float64, error) {
		factor := 1.0
		remaining := append([]string(nil), bs...)
	outer:
		for _, a := range as {
			for i, b := range remaining {
				if f, ok := conversionFactor(a, b); ok {
					if invert {
						factor /= f
					} else {
						factor *= f
					}
					remaining = append(remaining[:i], remaining[i+1:]...)
					continue outer
				}
			}
			return 0, diag.Errorf(diag.UnitError, "incompatible units %s and %s", from, to)
		}
		return factor, nil
	}
	fn, err := match(from.Num, to.Num, false)
	if err != nil {
		return 0, err
	}
	fd, err := match(from.Den, to.Den, true)
	if err != nil {
		return 0, err
	}
	return v * fn * fd, nil
}
