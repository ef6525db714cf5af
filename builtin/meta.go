package builtin

import (
	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/value"
)

var metaFeatures = map[string]bool{
	"global-variable-shadowing":   true,
	"extend-selector-pseudoclass": false,
	"units-level-3":               true,
	"at-error":                    true,
	"custom-property":             false,
}

func init() {
	registerGlobal("if", []param{p("condition"), p("if-true"), p("if-false")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			if args[0].IsTruthy() {
				return args[1], nil
			}
			return args[2], nil
		})

	register("meta", "feature-exists", []param{p("feature")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			s, err := needString(args[0], "feature")
			if err != nil {
				return nil, err
			}
			return value.Bool(metaFeatures[s.Text]), nil
		}, "feature-exists")

	register("meta", "type-of", []param{p("value")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			return value.Unquoted(args[0].Kind().Name()), nil
		}, "type-of")

	register("meta", "inspect", []param{p("value")},
		func(ctx *Context, args []value.Value) (value.Value, error) {
			return value.Unquoted(args[0].Inspect(ctx.Format)), nil
		}, "inspect")

	register("meta", "keywords", []param{p("args")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			al, ok := args[0].(value.ArgList)
			if !ok {
				return nil, diag.Errorf(diag.TypeError,
					"$args: %s is not an argument list", args[0].Inspect(value.DefaultFormat))
			}
			if al.Keywords == nil {
				return value.NewMap(), nil
			}
			return al.Keywords.Copy(), nil
		}, "keywords")

	register("meta", "variable-exists", []param{p("name")},
		func(ctx *Context, args []value.Value) (value.Value, error) {
			s, err := needString(args[0], "name")
			if err != nil {
				return nil, err
			}
			return value.Bool(ctx.Scope.VarExists(s.Text)), nil
		}, "variable-exists")

	register("meta", "global-variable-exists", []param{p("name")},
		func(ctx *Context, args []value.Value) (value.Value, error) {
			s, err := needString(args[0], "name")
			if err != nil {
				return nil, err
			}
			return value.Bool(ctx.Scope.GlobalVarExists(s.Text)), nil
		}, "global-variable-exists")

	register("meta", "mixin-exists", []param{p("name")},
		func(ctx *Context, args []value.Value) (value.Value, error) {
			s, err := needString(args[0], "name")
			if err != nil {
				return nil, err
			}
			_, ok := ctx.Scope.LookupMixin(s.Text)
			return value.Bool(ok), nil
		}, "mixin-exists")

	register("meta", "function-exists", []param{p("name")},
		func(ctx *Context, args []value.Value) (value.Value, error) {
			s, err := needString(args[0], "name")
			if err != nil {
				return nil, err
			}
			if _, ok := ctx.Scope.LookupFunc(s.Text); ok {
				return value.True, nil
			}
			_, ok := std.Lookup("", s.Text)
			return value.Bool(ok), nil
		}, "function-exists")

	register("meta", "get-function", []param{p("name"), pd("css", value.False), pd("module", value.Null)},
		func(ctx *Context, args []value.Value) (value.Value, error) {
			s, err := needString(args[0], "name")
			if err != nil {
				return nil, err
			}
			if args[1].IsTruthy() {
				// a plain-CSS reference renders as a literal call
				return value.Function{Name: s.Text}, nil
			}
			module := ""
			if args[2] != value.Null {
				m, err := needString(args[2], "module")
				if err != nil {
					return nil, err
				}
				module = m.Text
			}
			return ctx.GetFunction(s.Text, module)
		}, "get-function")

	register("meta", "call", []param{p("function"), rest("args")},
		func(ctx *Context, args []value.Value) (value.Value, error) {
			fn, ok := args[0].(value.Function)
			if !ok {
				// historical form took the function name as a string
				s, err := needString(args[0], "function")
				if err != nil {
					return nil, diag.Errorf(diag.TypeError,
						"$function: %s is not a function reference", args[0].Inspect(value.DefaultFormat))
				}
				ref, err := ctx.GetFunction(s.Text, "")
				if err != nil {
					return nil, err
				}
				fn = ref.(value.Function)
			}
			al := args[1].(value.ArgList)
			call := &Args{Positional: al.Items}
			if al.Keywords != nil {
				for k, v := range al.Keywords.All() {
					call.AddNamed(k.(value.Str).Text, v)
				}
			}
			return ctx.Call(fn, call)
		}, "call")

	register("meta", "content-exists", nil,
		func(ctx *Context, _ []value.Value) (value.Value, error) {
			return value.Bool(ctx.ContentExists), nil
		}, "content-exists")
}
