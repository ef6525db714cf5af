// Package value implements the Sass runtime value model: the closed
// set of value kinds, their equality and truthiness rules, unit
// algebra for numbers and the serialization of values to CSS text.
package value

// Kind enumerates the closed set of runtime value variants. Every
// operator site switches exhaustively over Kind so a new variant
// breaks compilation at each affected site.
type Kind int

const (
	KindNumber Kind = iota
	KindColor
	KindString
	KindList
	KindMap
	KindBool
	KindNull
	KindArgList
	KindFunction
	KindSelector
)

var kindNames = [...]string{
	"number", "color", "string", "list", "map", "bool", "null",
	"arglist", "function", "selector",
}

// Name returns the kind name the way `meta.type-of` reports it.
func (k Kind) Name() string { return kindNames[k] }

func (k Kind) String() string { return k.Name() }

// Format carries the options value serialization depends on.
type Format struct {
	// Precision is the number of fractional digits numbers are
	// rounded to before formatting.
	Precision int
	// Compressed selects minimal output (no leading zero, rgb hex
	// shortening and so on).
	Compressed bool
}

// DefaultFormat matches the compiler defaults.
var DefaultFormat = Format{Precision: 10}

// Value is a Sass runtime value.
type Value interface {
	Kind() Kind
	// Equal implements Sass value equality (== / map keys). Numbers
	// compare equal across compatible units after conversion.
	Equal(other Value) bool
	// IsTruthy reports Sass truthiness: everything except false and
	// null is truthy, including empty lists and empty strings.
	IsTruthy() bool
	// Inspect renders the value the way meta.inspect and @debug do.
	Inspect(f Format) string
	// CSS renders the value as CSS text, failing for values that
	// have no plain CSS representation (maps, null in this position).
	CSS(f Format) (string, error)
}

// Bool is the boolean value; use True and False.
type Bool bool

const (
	True  Bool = true
	False Bool = false
)

// FromBool converts a Go bool to the corresponding singleton.
func FromBool(b bool) Bool { return Bool(b) }

func (b Bool) Kind() Kind     { return KindBool }
func (b Bool) IsTruthy() bool { return bool(b) }

func (b Bool) Equal(other Value) bool {
	o, ok := other.(Bool)
	return ok && o == b
}

func (b Bool) Inspect(Format) string {
	if b {
		return "true"
	}
	return "false"
}

func (b Bool) CSS(f Format) (string, error) { return b.Inspect(f), nil }

// Null is the null value; use the Null singleton.
type nullValue struct{}

// Null is the single null value.
var Null Value = nullValue{}

func (nullValue) Kind() Kind            { return KindNull }
func (nullValue) IsTruthy() bool        { return false }
func (nullValue) Equal(other Value) bool { _, ok := other.(nullValue); return ok }
func (nullValue) Inspect(Format) string { return "null" }

// Null has no CSS representation; declarations with null values are
// dropped before serialization ever sees them.
func (nullValue) CSS(Format) (string, error) { return "", nil }
