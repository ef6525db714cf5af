package builtin

import (
	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/value"
)

func init() {
	register("list", "length", []param{p("list")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			return value.Num(float64(len(value.AsSlice(args[0]))), ""), nil
		}, "length")

	register("list", "nth", []param{p("list"), p("n")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			items := value.AsSlice(args[0])
			idx, err := listIndex(args[1], len(items))
			if err != nil {
				return nil, err
			}
			return items[idx], nil
		}, "nth")

	register("list", "set-nth", []param{p("list"), p("n"), p("value")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			items := append([]value.Value(nil), value.AsSlice(args[0])...)
			idx, err := listIndex(args[1], len(items))
			if err != nil {
				return nil, err
			}
			items[idx] = args[2]
			out := value.List{Items: items, Sep: value.SeparatorOf(args[0])}
			if l, ok := args[0].(value.List); ok {
				out.Bracketed = l.Bracketed
			}
			return out, nil
		}, "set-nth")

	register("list", "join", []param{p("list1"), p("list2"),
		pd("separator", value.Unquoted("auto")), pd("bracketed", value.Unquoted("auto"))},
		func(_ *Context, args []value.Value) (value.Value, error) {
			items := append([]value.Value(nil), value.AsSlice(args[0])...)
			items = append(items, value.AsSlice(args[1])...)
			sep, err := pickSeparator(args[2], args[0], args[1])
			if err != nil {
				return nil, err
			}
			bracketed := false
			if s, ok := args[3].(value.Str); ok && s.Text == "auto" {
				if l, isList := args[0].(value.List); isList {
					bracketed = l.Bracketed
				}
			} else {
				bracketed = args[3].IsTruthy()
			}
			return value.List{Items: items, Sep: sep, Bracketed: bracketed}, nil
		}, "join")

	register("list", "append", []param{p("list"), p("val"), pd("separator", value.Unquoted("auto"))},
		func(_ *Context, args []value.Value) (value.Value, error) {
			items := append([]value.Value(nil), value.AsSlice(args[0])...)
			items = append(items, args[1])
			sep, err := pickSeparator(args[2], args[0], nil)
			if err != nil {
				return nil, err
			}
			out := value.List{Items: items, Sep: sep}
			if l, ok := args[0].(value.List); ok {
				out.Bracketed = l.Bracketed
			}
			return out, nil
		}, "append")

	register("list", "index", []param{p("list"), p("value")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			for i, item := range value.AsSlice(args[0]) {
				if item.Equal(args[1]) {
					return value.Num(float64(i+1), ""), nil
				}
			}
			return value.Null, nil
		}, "index")

	register("list", "zip", []param{rest("lists")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			lists := value.AsSlice(args[0])
			shortest := -1
			cols := make([][]value.Value, len(lists))
			for i, l := range lists {
				cols[i] = value.AsSlice(l)
				if shortest < 0 || len(cols[i]) < shortest {
					shortest = len(cols[i])
				}
			}
			var out value.List
			out.Sep = value.CommaSep
			for row := 0; row < shortest; row++ {
				tuple := make([]value.Value, len(cols))
				for i := range cols {
					tuple[i] = cols[i][row]
				}
				out.Items = append(out.Items, value.List{Items: tuple, Sep: value.SpaceSep})
			}
			return out, nil
		}, "zip")

	register("list", "separator", []param{p("list")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			return value.Unquoted(value.SeparatorOf(args[0]).String()), nil
		}, "list-separator")

	register("list", "is-bracketed", []param{p("list")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			l, ok := args[0].(value.List)
			return value.FromBool(ok && l.Bracketed), nil
		}, "is-bracketed")
}

// listIndex converts a Sass 1 based (negative counts from the end)
// index into a slice index.
func listIndex(v value.Value, n int) (int, error) {
	idx, err := needInt(v, "n")
	if err != nil {
		return 0, err
	}
	if idx == 0 {
		return 0, diag.Errorf(diag.TypeError, "$n: list index may not be 0")
	}
	if idx < 0 {
		idx = n + idx + 1
	}
	if idx < 1 || idx > n {
		return 0, diag.Errorf(diag.TypeError, "$n: invalid index %s for a list with %d elements",
			v.Inspect(value.DefaultFormat), n)
	}
	return idx - 1, nil
}

// pickSeparator resolves the $separator argument: auto keeps the
// first list's separator (falling back to the second, then space).
func pickSeparator(sep value.Value, first, second value.Value) (value.Separator, error) {
	s, ok := sep.(value.Str)
	if !ok {
		return 0, diag.Errorf(diag.TypeError, "$separator: must be comma, space, slash or auto")
	}
	switch s.Text {
	case "comma":
		return value.CommaSep, nil
	case "space":
		return value.SpaceSep, nil
	case "slash":
		return value.SlashSep, nil
	case "auto":
		if l, isList := first.(value.List); isList && len(l.Items) > 0 {
			return l.Sep, nil
		}
		if second != nil {
			if l, isList := second.(value.List); isList && len(l.Items) > 0 {
				return l.Sep, nil
			}
		}
		return value.SpaceSep, nil
	default:
		return 0, diag.Errorf(diag.TypeError, "$separator: must be comma, space, slash or auto, got %q", s.Text)
	}
}
