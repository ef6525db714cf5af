// Package selector implements the selector representation, nesting
// flattening and @extend resolution. It is independent of the value
// model and the evaluator; the evaluator hands it selector text and
// receives flattened selector lists back.
package selector

import "strings"

// Combinator joins two compound selectors within a complex selector.
type Combinator int

const (
	Descendant Combinator = iota
	Child
	NextSibling
	Following
)

func (c Combinator) String() string {
	switch c {
	case Child:
		return ">"
	case NextSibling:
		return "+"
	case Following:
		return "~"
	default:
		return ""
	}
}

// SimpleKind enumerates simple selector variants.
type SimpleKind int

const (
	Type SimpleKind = iota
	Universal
	Class
	ID
	Attribute
	Pseudo
	Placeholder
	Parent // `&` before nesting resolution
)

// Simple is a single simple selector.
type Simple struct {
	Kind SimpleKind
	// Name is the identifier: element name, class/id/placeholder
	// name, pseudo name (with leading colons), or the raw attribute
	// body for Attribute.
	Name string
	// Arg is the functional pseudo argument, raw and balanced.
	Arg string
}

func (s Simple) String() string {
	switch s.Kind {
	case Universal:
		return "*"
	case Class:
		return "." + s.Name
	case ID:
		return "#" + s.Name
	case Placeholder:
		return "%" + s.Name
	case Attribute:
		return "[" + s.Name + "]"
	case Pseudo:
		if s.Arg != "" {
			return s.Name + "(" + s.Arg + ")"
		}
		return s.Name
	case Parent:
		return "&"
	default:
		return s.Name
	}
}

// Compound is a sequence of simple selectors with no combinators.
type Compound struct {
	Simples []Simple
}

func (c Compound) String() string {
	var b strings.Builder
	for _, s := range c.Simples {
		b.WriteString(s.String())
	}
	return b.String()
}

// IsEmpty reports a compound with no simple selectors.
func (c Compound) IsEmpty() bool { return len(c.Simples) == 0 }

// HasParent reports whether the compound references `&`.
func (c Compound) HasParent() bool {
	for _, s := range c.Simples {
		if s.Kind == Parent {
			return true
		}
	}
	return false
}

// HasPlaceholder reports whether the compound contains `%name`.
func (c Compound) HasPlaceholder() bool {
	for _, s := range c.Simples {
		if s.Kind == Placeholder {
			return true
		}
	}
	return false
}

// contains reports whether every simple of other appears in c.
func (c Compound) contains(other Compound) bool {
	for _, want := range other.Simples {
		found := false
		for _, have := range c.Simples {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// without returns c minus the simples of other, preserving order.
func (c Compound) without(other Compound) Compound {
	var out Compound
	removed := make([]bool, len(other.Simples))
outer:
	for _, s := range c.Simples {
		for i, w := range other.Simples {
			if !removed[i] && s == w {
				removed[i] = true
				continue outer
			}
		}
		out.Simples = append(out.Simples, s)
	}
	return out
}

// merge unions two compounds keeping a type/universal selector first
// and dropping exact duplicates.
func merge(a, b Compound) Compound {
	var out Compound
	seen := func(s Simple) bool {
		for _, have := range out.Simples {
			if have == s {
				return true
			}
		}
		return false
	}
	add := func(ss []Simple, kinds ...SimpleKind) {
		for _, s := range ss {
			for _, k := range kinds {
				if s.Kind == k && !seen(s) {
					out.Simples = append(out.Simples, s)
				}
			}
		}
	}
	add(a.Simples, Type, Universal)
	add(b.Simples, Type, Universal)
	add(a.Simples, ID, Class, Attribute, Placeholder, Pseudo, Parent)
	add(b.Simples, ID, Class, Attribute, Placeholder, Pseudo, Parent)
	return out
}

// Segment is one compound selector with the combinator that precedes
// it. The first segment of a complex selector uses Descendant, which
// renders as nothing.
type Segment struct {
	Combinator Combinator
	Compound   Compound
}

// Complex is an ordered sequence of segments.
type Complex struct {
	Segments []Segment
}

func (cx Complex) String() string {
	var b strings.Builder
	for i, seg := range cx.Segments {
		if i > 0 {
			if seg.Combinator == Descendant {
				b.WriteByte(' ')
			} else {
				b.WriteString(" " + seg.Combinator.String() + " ")
			}
		} else if seg.Combinator != Descendant {
			// leading combinator (nested `> .x`)
			b.WriteString(seg.Combinator.String() + " ")
		}
		b.WriteString(seg.Compound.String())
	}
	return b.String()
}

// HasParent reports whether any compound references `&`.
func (cx Complex) HasParent() bool {
	for _, seg := range cx.Segments {
		if seg.Compound.HasParent() {
			return true
		}
	}
	return false
}

// HasPlaceholder reports whether any compound contains `%name`.
func (cx Complex) HasPlaceholder() bool {
	for _, seg := range cx.Segments {
		if seg.Compound.HasPlaceholder() {
			return true
		}
	}
	return false
}

func (cx Complex) clone() Complex {
	out := Complex{Segments: make([]Segment, len(cx.Segments))}
	copy(out.Segments, cx.Segments)
	return out
}

// List is an ordered union of complex selectors.
type List struct {
	Members []Complex
}

func (l List) String() string {
	parts := make([]string, len(l.Members))
	for i, m := range l.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}

// IsEmpty reports a list with no members.
func (l List) IsEmpty() bool { return len(l.Members) == 0 }

// HasParent reports whether any member references `&`.
func (l List) HasParent() bool {
	for _, m := range l.Members {
		if m.HasParent() {
			return true
		}
	}
	return false
}

// Contains reports whether the list already has a member with the
// exact text of cx. Only textual duplicates merge; structurally
// different selectors matching the same elements are kept.
func (l List) Contains(cx Complex) bool {
	text := cx.String()
	for _, m := range l.Members {
		if m.String() == text {
			return true
		}
	}
	return false
}

// WithoutPlaceholders drops complex selectors still containing
// placeholders; they never emit unless extended into concrete
// selectors.
func (l List) WithoutPlaceholders() List {
	var out List
	for _, m := range l.Members {
		if !m.HasPlaceholder() {
			out.Members = append(out.Members, m)
		}
	}
	return out
}
