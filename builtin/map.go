package builtin

import "github.com/deftliang/grass/value"

func init() {
	register("map", "get", []param{p("map"), p("key")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			m, err := needMap(args[0], "map")
			if err != nil {
				return nil, err
			}
			if v, ok := m.Get(args[1]); ok {
				return v, nil
			}
			return value.Null, nil
		}, "map-get")

	register("map", "has-key", []param{p("map"), p("key")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			m, err := needMap(args[0], "map")
			if err != nil {
				return nil, err
			}
			_, ok := m.Get(args[1])
			return value.FromBool(ok), nil
		}, "map-has-key")

	register("map", "keys", []param{p("map")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			m, err := needMap(args[0], "map")
			if err != nil {
				return nil, err
			}
			return value.List{Items: m.Keys(), Sep: value.CommaSep}, nil
		}, "map-keys")

	register("map", "values", []param{p("map")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			m, err := needMap(args[0], "map")
			if err != nil {
				return nil, err
			}
			return value.List{Items: m.Values(), Sep: value.CommaSep}, nil
		}, "map-values")

	register("map", "merge", []param{p("map1"), p("map2")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			a, err := needMap(args[0], "map1")
			if err != nil {
				return nil, err
			}
			b, err := needMap(args[1], "map2")
			if err != nil {
				return nil, err
			}
			out := a.Copy()
			for k, v := range b.All() {
				out.Set(k, v)
			}
			return out, nil
		}, "map-merge")

	register("map", "set", []param{p("map"), p("key"), p("value")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			m, err := needMap(args[0], "map")
			if err != nil {
				return nil, err
			}
			out := m.Copy()
			out.Set(args[1], args[2])
			return out, nil
		})

	register("map", "remove", []param{p("map"), rest("keys")},
		func(_ *Context, args []value.Value) (value.Value, error) {
			m, err := needMap(args[0], "map")
			if err != nil {
				return nil, err
			}
			out := m.Copy()
			for _, k := range value.AsSlice(args[1]) {
				out.Delete(k)
			}
			return out, nil
		}, "map-remove")
}
