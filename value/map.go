package value

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
)

// mapEntry keeps the original key value next to the stored value; the
// ordered map itself is keyed by the canonical key string so lookups
// use value equality, not identity.
type mapEntry struct {
	Key Value
	Val Value
}

// Map is an insertion-ordered mapping with value-equality keys and
// last-write-wins semantics. The zero value is not usable; use NewMap.
type Map struct {
	entries *orderedmap.OrderedMap[string, mapEntry]
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{entries: orderedmap.NewOrderedMap[string, mapEntry]()}
}

// Set inserts or replaces the value for key. Replacing keeps the
// original insertion position, matching Sass map semantics.
func (m *Map) Set(key, val Value) {
	m.entries.Set(canonicalKey(key), mapEntry{Key: key, Val: val})
}

// Get looks the key up by value equality.
func (m *Map) Get(key Value) (Value, bool) {
	e, ok := m.entries.Get(canonicalKey(key))
	if !ok {
		return nil, false
	}
	return e.Val, true
}

// Delete removes key, reporting whether it was present.
func (m *Map) Delete(key Value) bool {
	return m.entries.Delete(canonicalKey(key))
}

// Len returns the number of entries.
func (m *Map) Len() int { return m.entries.Len() }

// All iterates entries in insertion order.
func (m *Map) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for el := m.entries.Front(); el != nil; el = el.Next() {
			if !yield(el.Value.Key, el.Value.Val) {
				return
			}
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Value {
	keys := make([]Value, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// Values returns the values in insertion order.
func (m *Map) Values() []Value {
	vals := make([]Value, 0, m.Len())
	for _, v := range m.All() {
		vals = append(vals, v)
	}
	return vals
}

// Copy returns a shallow copy sharing no entry storage.
func (m *Map) Copy() *Map {
	out := NewMap()
	for k, v := range m.All() {
		out.Set(k, v)
	}
	return out
}

func (m *Map) Kind() Kind     { return KindMap }
func (m *Map) IsTruthy() bool { return true }

func (m *Map) Equal(other Value) bool {
	o, ok := other.(*Map)
	if !ok || o.Len() != m.Len() {
		return false
	}
	for k, v := range m.All() {
		ov, found := o.Get(k)
		if !found || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (m *Map) Inspect(f Format) string {
	var b strings.Builder
	b.WriteByte('(')
	first := true
	for k, v := range m.All() {
		if !first {
			b.WriteString(", ")
		}
		b.WriteString(k.Inspect(f))
		b.WriteString(": ")
		b.WriteString(v.Inspect(f))
		first = false
	}
	b.WriteByte(')')
	return b.String()
}

// CSS fails: maps have no CSS representation.
func (m *Map) CSS(f Format) (string, error) {
	return "", typeErrorf("%s is not a valid CSS value", m.Inspect(f))
}

// canonicalKey renders a value to a string that is identical exactly
// for value-equal inputs. Numbers are normalized to their unit class
// base so 1cm and 10mm produce the same key.
func canonicalKey(v Value) string {
	switch t := v.(type) {
	case Number:
		n := t
		if t.Unit.IsSimple() {
			if c := classOf(t.Unit.Num[0]); c != nil {
				if conv, err := t.ConvertTo(UnitOf(c.base)); err == nil {
					n = conv
				}
			}
		}
		return fmt.Sprintf("n:%.10f%s", n.Value, n.Unit)
	case Str:
		return "s:" + t.Text
	case Color:
		return fmt.Sprintf("c:%g,%g,%g,%g", roundTo(t.R, 0), roundTo(t.G, 0), roundTo(t.B, 0), roundTo(t.A, 3))
	case Bool:
		return "b:" + t.Inspect(DefaultFormat)
	case nullValue:
		return "z:null"
	case List:
		parts := make([]string, 0, len(t.Items)+1)
		parts = append(parts, fmt.Sprintf("l:%d:%v", t.Sep, t.Bracketed))
		for _, item := range t.Items {
			parts = append(parts, canonicalKey(item))
		}
		return strings.Join(parts, "\x00")
	case ArgList:
		return canonicalKey(t.List)
	case *Map:
		parts := make([]string, 0, t.Len())
		for k, val := range t.All() {
			parts = append(parts, canonicalKey(k)+"\x01"+canonicalKey(val))
		}
		// maps compare order-independently
		sort.Strings(parts)
		return "m:" + strings.Join(parts, "\x00")
	case Function:
		return fmt.Sprintf("f:%s:%p", t.Name, t.Ref)
	case SelectorValue:
		return "q:" + t.Text()
	default:
		return "?:" + t.Inspect(DefaultFormat)
	}
}
