package builtin

import (
	"strings"

	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/selector"
	"github.com/deftliang/grass/value"
)

// selectorText flattens a selector argument to source text. Sass
// accepts plain strings, space/comma lists of strings, or a selector
// value produced by another selector function.
func selectorText(v value.Value, arg string) (string, error) {
	switch t := v.(type) {
	case value.SelectorValue:
		return t.Text(), nil
	case value.Str:
		return t.Text, nil
	case value.List:
		sep := " "
		if t.Sep == value.CommaSep {
			sep = ", "
		}
		parts := make([]string, 0, len(t.Items))
		for _, item := range t.Items {
			s, err := selectorText(item, arg)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, sep), nil
	default:
		return "", diag.Errorf(diag.TypeError,
			"$%s: %s is not a valid selector", arg, v.Inspect(value.DefaultFormat))
	}
}

func parseSelectorArg(v value.Value, arg string) (selector.List, error) {
	text, err := selectorText(v, arg)
	if err != nil {
		return selector.List{}, err
	}
	list, err := selector.Parse(text)
	if err != nil {
		return selector.List{}, diag.Errorf(diag.TypeError, "$%s: %v", arg, err)
	}
	return list, nil
}

func init() {
	register("selector", "parse", []param{p("selector")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			list, err := parseSelectorArg(args[0], "selector")
			if err != nil {
				return nil, err
			}
			return value.SelectorValue{List: list}.AsList(), nil
		}, "selector-parse")

	register("selector", "nest", []param{rest("selectors")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			al := args[0].(value.ArgList)
			if len(al.Items) == 0 {
				return nil, diag.Errorf(diag.ArityError, "nest(): expected at least one selector")
			}
			acc, err := parseSelectorArg(al.Items[0], "selectors")
			if err != nil {
				return nil, err
			}
			if acc.HasParent() {
				return nil, diag.Errorf(diag.TypeError,
					"$selectors: the first selector may not reference the parent with &")
			}
			for _, item := range al.Items[1:] {
				next, err := parseSelectorArg(item, "selectors")
				if err != nil {
					return nil, err
				}
				acc = selector.Resolve(acc, next)
			}
			return value.SelectorValue{List: acc}.AsList(), nil
		}, "selector-nest")

	register("selector", "append", []param{rest("selectors")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			al := args[0].(value.ArgList)
			if len(al.Items) == 0 {
				return nil, diag.Errorf(diag.ArityError, "append(): expected at least one selector")
			}
			acc, err := parseSelectorArg(al.Items[0], "selectors")
			if err != nil {
				return nil, err
			}
			for _, item := range al.Items[1:] {
				next, err := parseSelectorArg(item, "selectors")
				if err != nil {
					return nil, err
				}
				acc, err = selector.Append(acc, next)
				if err != nil {
					return nil, diag.Errorf(diag.TypeError, "$selectors: %v", err)
				}
			}
			return value.SelectorValue{List: acc}.AsList(), nil
		}, "selector-append")

	register("selector", "simple-selectors", []param{p("selector")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			list, err := parseSelectorArg(args[0], "selector")
			if err != nil {
				return nil, err
			}
			if len(list.Members) != 1 || len(list.Members[0].Segments) != 1 {
				return nil, diag.Errorf(diag.TypeError,
					"$selector: expected a compound selector, got %s", list.String())
			}
			var out []value.Value
			for _, s := range list.Members[0].Segments[0].Compound.Simples {
				out = append(out, value.Unquoted(s.String()))
			}
			return value.List{Items: out, Sep: value.CommaSep}, nil
		}, "simple-selectors")
}
