// Package builtin implements the native Sass function library. The
// dispatch tables are built once at package init and read-only
// afterwards, so concurrent compilations share them freely; all
// mutable state (random sequences) lives in the per-compilation
// Context.
package builtin

import (
	"go.uber.org/zap"

	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/scope"
	"github.com/deftliang/grass/value"
)

// Context carries the per-compilation state builtins may touch.
type Context struct {
	Scope  *scope.Scope
	Rand   *Random
	Format value.Format
	Log    *zap.Logger

	// Call invokes a first-class function value; wired by the
	// evaluator for meta.call.
	Call func(fn value.Function, args *Args) (value.Value, error)
	// GetFunction resolves a function reference by name the way the
	// call site sees it; wired by the evaluator for meta.get-function.
	GetFunction func(name, module string) (value.Value, error)
	// ContentExists reports whether the innermost mixin invocation
	// received a content block.
	ContentExists bool
}

// Args are the already-evaluated arguments of one invocation, with
// spreads expanded by the evaluator.
type Args struct {
	Positional []value.Value
	Named      map[string]value.Value
	NamedOrder []string
}

// AddNamed appends a named argument preserving order.
func (a *Args) AddNamed(name string, v value.Value) {
	if a.Named == nil {
		a.Named = make(map[string]value.Value)
	}
	if _, dup := a.Named[name]; !dup {
		a.NamedOrder = append(a.NamedOrder, name)
	}
	a.Named[name] = v
}

// param is one formal parameter of a builtin signature.
type param struct {
	name string
	def  value.Value // nil means required
	rest bool
}

func p(name string) param                   { return param{name: name} }
func pd(name string, def value.Value) param { return param{name: name, def: def} }
func rest(name string) param                { return param{name: name, rest: true} }

// Fn is a bound native function ready to invoke.
type Fn struct {
	Name   string
	params []param
	impl   func(ctx *Context, args []value.Value) (value.Value, error)
}

// Invoke binds args against the signature and runs the
// implementation. Binding follows the common rules: positional
// arguments fill parameters left to right, named arguments bind by
// name, a rest parameter captures overflow into an ArgList; a missing
// required parameter or an unknown named argument is an ArityError.
func (f *Fn) Invoke(ctx *Context, args *Args) (value.Value, error) {
	bound, err := bind(f.Name, f.params, args)
	if err != nil {
		return nil, err
	}
	return f.impl(ctx, bound)
}

func bind(fnName string, params []param, args *Args) ([]value.Value, error) {
	out := make([]value.Value, len(params))
	usedNamed := make(map[string]bool, len(args.Named))
	positional := args.Positional

	restIdx := -1
	for i, prm := range params {
		if prm.rest {
			restIdx = i
			break
		}
		if i < len(positional) {
			if _, both := args.Named[prm.name]; both {
				return nil, diag.Errorf(diag.ArityError,
					"%s(): argument $%s was passed both by position and by name", fnName, prm.name)
			}
			out[i] = positional[i]
			continue
		}
		if v, ok := args.Named[prm.name]; ok {
			out[i] = v
			usedNamed[prm.name] = true
			continue
		}
		if prm.def != nil {
			out[i] = prm.def
			continue
		}
		return nil, diag.Errorf(diag.ArityError, "%s(): missing argument $%s", fnName, prm.name)
	}

	if restIdx >= 0 {
		var overflow []value.Value
		if len(positional) > restIdx {
			overflow = positional[restIdx:]
		}
		al := value.NewArgList(overflow)
		for _, name := range args.NamedOrder {
			if usedNamed[name] {
				continue
			}
			if al.Keywords == nil {
				al.Keywords = value.NewMap()
			}
			al.Keywords.Set(value.Unquoted(name), args.Named[name])
			usedNamed[name] = true
		}
		out[restIdx] = al
	} else {
		if len(positional) > len(params) {
			return nil, diag.Errorf(diag.ArityError,
				"%s(): takes at most %d arguments, got %d", fnName, len(params), len(positional))
		}
		for _, name := range args.NamedOrder {
			if !usedNamed[name] {
				return nil, diag.Errorf(diag.ArityError, "%s(): no argument named $%s", fnName, name)
			}
		}
	}
	return out, nil
}

// Registry is the dispatch table keyed by optional namespace + name.
type Registry struct {
	groups map[string]map[string]*Fn
	global map[string]*Fn
}

var std = &Registry{
	groups: make(map[string]map[string]*Fn),
	global: make(map[string]*Fn),
}

// Default returns the process-wide table; it is immutable after
// package initialization.
func Default() *Registry { return std }

// Lookup resolves (namespace, name); namespace "" consults the
// global (legacy) table.
func (r *Registry) Lookup(namespace, name string) (*Fn, bool) {
	if namespace == "" {
		fn, ok := r.global[name]
		return fn, ok
	}
	grp, ok := r.groups[namespace]
	if !ok {
		return nil, false
	}
	fn, ok := grp[name]
	return fn, ok
}

// HasModule reports whether namespace names a builtin module
// (`sass:math` and friends).
func (r *Registry) HasModule(namespace string) bool {
	_, ok := r.groups[namespace]
	return ok
}

// moduleVars holds the variables builtin modules export (math.$pi).
var moduleVars = map[string]map[string]value.Value{}

func registerModuleVar(namespace, name string, v value.Value) {
	grp, ok := moduleVars[namespace]
	if !ok {
		grp = make(map[string]value.Value)
		moduleVars[namespace] = grp
	}
	grp[name] = v
}

// ModuleVar resolves a builtin module variable.
func (r *Registry) ModuleVar(namespace, name string) (value.Value, bool) {
	v, ok := moduleVars[namespace][name]
	return v, ok
}

// register adds fn under a namespace plus any legacy global aliases.
func register(namespace, name string, params []param,
	impl func(*Context, []value.Value) (value.Value, error), aliases ...string) {
	fn := &Fn{Name: name, params: params, impl: impl}
	grp, ok := std.groups[namespace]
	if !ok {
		grp = make(map[string]*Fn)
		std.groups[namespace] = grp
	}
	grp[name] = fn
	for _, alias := range aliases {
		std.global[alias] = fn
	}
}

// registerGlobal adds a function only reachable without namespace
// (if, rgb and the other CSS-named ones).
func registerGlobal(name string, params []param,
	impl func(*Context, []value.Value) (value.Value, error)) {
	std.global[name] = &Fn{Name: name, params: params, impl: impl}
}
