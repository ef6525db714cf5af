package value

import "github.com/deftliang/grass/selector"

// SelectorValue wraps a parsed selector list, as produced by `&` and
// the selector functions.
type SelectorValue struct {
	List selector.List
}

func (s SelectorValue) Kind() Kind     { return KindSelector }
func (s SelectorValue) IsTruthy() bool { return true }

// Text renders the selector in its canonical source form.
func (s SelectorValue) Text() string { return s.List.String() }

func (s SelectorValue) Equal(other Value) bool {
	switch o := other.(type) {
	case SelectorValue:
		return o.Text() == s.Text()
	case Str:
		return o.Text == s.Text()
	default:
		return false
	}
}

func (s SelectorValue) Inspect(Format) string      { return s.Text() }
func (s SelectorValue) CSS(Format) (string, error) { return s.Text(), nil }

// AsList views the selector the way Sass selector functions do: a
// comma list of space lists of compound selector strings.
func (s SelectorValue) AsList() List {
	members := make([]Value, 0, len(s.List.Members))
	for _, cx := range s.List.Members {
		var inner []Value
		for _, seg := range cx.Segments {
			if seg.Combinator != selector.Descendant {
				inner = append(inner, Unquoted(seg.Combinator.String()))
			}
			inner = append(inner, Unquoted(seg.Compound.String()))
		}
		members = append(members, List{Items: inner, Sep: SpaceSep})
	}
	return List{Items: members, Sep: CommaSep}
}
