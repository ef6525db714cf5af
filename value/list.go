package value

import "strings"

// Separator enumerates list separators.
type Separator int

const (
	SpaceSep Separator = iota
	CommaSep
	SlashSep
)

func (s Separator) String() string {
	switch s {
	case CommaSep:
		return "comma"
	case SlashSep:
		return "slash"
	default:
		return "space"
	}
}

func (s Separator) text(f Format) string {
	switch s {
	case CommaSep:
		if f.Compressed {
			return ","
		}
		return ", "
	case SlashSep:
		return "/"
	default:
		return " "
	}
}

// List is an ordered sequence of values.
type List struct {
	Items     []Value
	Sep       Separator
	Bracketed bool
}

// EmptyList is the canonical empty comma list `()`.
func EmptyList() List { return List{Sep: CommaSep} }

func (l List) Kind() Kind { return KindList }

// IsTruthy is true even for an empty list.
func (l List) IsTruthy() bool { return true }

func (l List) Equal(other Value) bool {
	o, ok := other.(List)
	if !ok || len(o.Items) != len(l.Items) || o.Sep != l.Sep || o.Bracketed != l.Bracketed {
		return false
	}
	for i := range l.Items {
		if !l.Items[i].Equal(o.Items[i]) {
			return false
		}
	}
	return true
}

func (l List) Inspect(f Format) string {
	var b strings.Builder
	if l.Bracketed {
		b.WriteByte('[')
	} else if len(l.Items) == 0 {
		return "()"
	}
	for i, item := range l.Items {
		if i > 0 {
			b.WriteString(l.Sep.text(f))
		}
		// nested comma lists need parens to stay unambiguous
		if inner, ok := item.(List); ok && inner.Sep == CommaSep && l.Sep == CommaSep && !inner.Bracketed {
			b.WriteByte('(')
			b.WriteString(item.Inspect(f))
			b.WriteByte(')')
			continue
		}
		b.WriteString(item.Inspect(f))
	}
	if l.Bracketed {
		b.WriteByte(']')
	}
	return b.String()
}

func (l List) CSS(f Format) (string, error) {
	var b strings.Builder
	if l.Bracketed {
		b.WriteByte('[')
	}
	first := true
	for _, item := range l.Items {
		if item.Kind() == KindNull {
			continue
		}
		if !first {
			b.WriteString(l.Sep.text(f))
		}
		s, err := item.CSS(f)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		first = false
	}
	if l.Bracketed {
		b.WriteByte(']')
	}
	if first && !l.Bracketed {
		return "", typeErrorf("() is not a valid CSS value")
	}
	return b.String(), nil
}

// AsSlice views any value as a list the way Sass iteration does:
// lists iterate their items, maps iterate key/value pairs, everything
// else is a single-element list.
func AsSlice(v Value) []Value {
	switch t := v.(type) {
	case List:
		return t.Items
	case ArgList:
		return t.Items
	case *Map:
		pairs := make([]Value, 0, t.Len())
		for k, val := range t.All() {
			pairs = append(pairs, List{Items: []Value{k, val}, Sep: SpaceSep})
		}
		return pairs
	default:
		return []Value{v}
	}
}

// SeparatorOf returns the separator iteration should report for v.
func SeparatorOf(v Value) Separator {
	switch t := v.(type) {
	case List:
		return t.Sep
	case ArgList:
		return t.Sep
	case *Map:
		return CommaSep
	default:
		return SpaceSep
	}
}
