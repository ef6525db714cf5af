package builtin

import (
	"strings"

	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/value"
)

func init() {
	register("string", "quote", []param{p("string")},
		func(ctx *Context, args []value.Value) (value.Value, error) {
			switch s := args[0].(type) {
			case value.Str:
				return value.QuotedStr(s.Text), nil
			default:
				return value.QuotedStr(args[0].Inspect(ctx.Format)), nil
			}
		}, "quote")

	register("string", "unquote", []param{p("string")},
		func(ctx *Context, args []value.Value) (value.Value, error) {
			switch s := args[0].(type) {
			case value.Str:
				return value.Unquoted(s.Text), nil
			default:
				return value.Unquoted(args[0].Inspect(ctx.Format)), nil
			}
		}, "unquote")

	register("string", "length", []param{p("string")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			s, err := needString(args[0], "string")
			if err != nil {
				return nil, err
			}
			return value.Num(float64(len([]rune(s.Text))), ""), nil
		}, "str-length")

	register("string", "index", []param{p("string"), p("substring")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			s, err := needString(args[0], "string")
			if err != nil {
				return nil, err
			}
			sub, err := needString(args[1], "substring")
			if err != nil {
				return nil, err
			}
			idx := strings.Index(s.Text, sub.Text)
			if idx < 0 {
				return value.Null, nil
			}
			// convert byte index to 1 based rune index
			return value.Num(float64(len([]rune(s.Text[:idx]))+1), ""), nil
		}, "str-index")

	register("string", "insert", []param{p("string"), p("insert"), p("index")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			s, err := needString(args[0], "string")
			if err != nil {
				return nil, err
			}
			ins, err := needString(args[1], "insert")
			if err != nil {
				return nil, err
			}
			idx, err := needInt(args[2], "index")
			if err != nil {
				return nil, err
			}
			runes := []rune(s.Text)
			pos := stringInsertPos(idx, len(runes))
			out := string(runes[:pos]) + ins.Text + string(runes[pos:])
			return value.Str{Text: out, Quoted: s.Quoted}, nil
		}, "str-insert")

	register("string", "slice", []param{p("string"), p("start-at"), pd("end-at", value.Num(-1, ""))},
		func(_ *Context, args []value.Value) (value.Value, error) {
			s, err := needString(args[0], "string")
			if err != nil {
				return nil, err
			}
			start, err := needInt(args[1], "start-at")
			if err != nil {
				return nil, err
			}
			end, err := needInt(args[2], "end-at")
			if err != nil {
				return nil, err
			}
			runes := []rune(s.Text)
			lo, hi := sliceBounds(start, end, len(runes))
			if lo > hi {
				return value.Str{Quoted: s.Quoted}, nil
			}
			return value.Str{Text: string(runes[lo-1 : hi]), Quoted: s.Quoted}, nil
		}, "str-slice")

	register("string", "split", []param{p("string"), p("separator"), pd("limit", value.Null)},
		func(_ *Context, args []value.Value) (value.Value, error) {
			s, err := needString(args[0], "string")
			if err != nil {
				return nil, err
			}
			sep, err := needString(args[1], "separator")
			if err != nil {
				return nil, err
			}
			limit := -1
			if args[2].Kind() != value.KindNull {
				if limit, err = needInt(args[2], "limit"); err != nil {
					return nil, err
				}
				if limit < 1 {
					return nil, diag.Errorf(diag.TypeError, "$limit: must be 1 or greater, got %d", limit)
				}
				limit++
			}
			var pieces []string
			if sep.Text == "" {
				for _, r := range s.Text {
					pieces = append(pieces, string(r))
				}
			} else {
				pieces = strings.SplitN(s.Text, sep.Text, limit)
			}
			items := make([]value.Value, len(pieces))
			for i, piece := range pieces {
				items[i] = value.QuotedStr(piece)
			}
			return value.List{Items: items, Sep: value.CommaSep, Bracketed: true}, nil
		})

	register("string", "to-upper-case", []param{p("string")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			s, err := needString(args[0], "string")
			if err != nil {
				return nil, err
			}
			return value.Str{Text: asciiUpper(s.Text), Quoted: s.Quoted}, nil
		}, "to-upper-case")

	register("string", "to-lower-case", []param{p("string")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			s, err := needString(args[0], "string")
			if err != nil {
				return nil, err
			}
			return value.Str{Text: asciiLower(s.Text), Quoted: s.Quoted}, nil
		}, "to-lower-case")

	register("string", "unique-id", nil,
		func(ctx *Context, _ []value.Value) (value.Value, error) {
			return value.Unquoted(ctx.Rand.UniqueID()), nil
		}, "unique-id")
}

// stringInsertPos maps a Sass 1 based, possibly negative insertion
// index onto 0 based rune position.
func stringInsertPos(idx, n int) int {
	if idx < 0 {
		idx = n + idx + 2
	}
	if idx < 1 {
		idx = 1
	}
	if idx > n+1 {
		idx = n + 1
	}
	return idx - 1
}

// sliceBounds maps Sass slice indices (1 based, negative counts from
// the end) onto inclusive 1 based bounds.
func sliceBounds(start, end, n int) (int, int) {
	if start < 0 {
		start = n + start + 1
	}
	if start < 1 {
		start = 1
	}
	if end < 0 {
		end = n + end + 1
	}
	if end > n {
		end = n
	}
	return start, end
}

// asciiUpper and asciiLower follow the CSS definition: only ASCII
// letters change case.
func asciiUpper(s string) string {
	return strings.Map(func(r rune) rune {
		if 'a' <= r && r <= 'z' {
			return r - 32
		}
		return r
	}, s)
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + 32
		}
		return r
	}, s)
}
