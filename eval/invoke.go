package eval

import (
	"strings"

	"github.com/deftliang/grass/ast"
	"github.com/deftliang/grass/builtin"
	"github.com/deftliang/grass/css"
	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/scope"
	"github.com/deftliang/grass/value"
)

// evalArgs evaluates an invocation's arguments, expanding `...`
// spreads into positional and named arguments.
func (e *Evaluator) evalArgs(args []ast.Arg, env *env) (*builtin.Args, error) {
	out := &builtin.Args{}
	for _, a := range args {
		v, err := e.expr(a.Value, env)
		if err != nil {
			return nil, err
		}
		switch {
		case a.Name != "":
			out.AddNamed(a.Name, v)
		case a.Spread:
			switch t := v.(type) {
			case value.ArgList:
				out.Positional = append(out.Positional, t.Items...)
				if t.Keywords != nil {
					for k, kv := range t.Keywords.All() {
						out.AddNamed(k.(value.Str).Text, kv)
					}
				}
			case value.List:
				out.Positional = append(out.Positional, t.Items...)
			case *value.Map:
				for k, kv := range t.All() {
					ks, ok := k.(value.Str)
					if !ok {
						return nil, diag.ErrorfAt(diag.TypeError, a.Span,
							"variable keyword argument map must have string keys, got %s", k.Inspect(e.format))
					}
					out.AddNamed(ks.Text, kv)
				}
			default:
				out.Positional = append(out.Positional, v)
			}
		default:
			out.Positional = append(out.Positional, v)
		}
	}
	return out, nil
}

func (e *Evaluator) call(t *ast.CallExpr, env *env) (value.Value, error) {
	args, err := e.evalArgs(t.Args, env)
	if err != nil {
		return nil, err
	}

	if t.Namespace != "" {
		if builtinName, ok := e.builtinNS[t.Namespace]; ok {
			fn, ok := e.reg.Lookup(builtinName, t.Name)
			if !ok {
				return nil, diag.ErrorfAt(diag.UndefinedNameError, t.Span,
					"undefined function %s.%s()", t.Namespace, t.Name)
			}
			return e.invokeBuiltin(fn, args, env, t.Span)
		}
		mod, ok := env.scope.LookupModule(t.Namespace)
		if !ok {
			return nil, diag.ErrorfAt(diag.UndefinedNameError, t.Span,
				"there is no module with namespace %q", t.Namespace)
		}
		fn, ok := mod.Func(t.Name)
		if !ok {
			return nil, diag.ErrorfAt(diag.UndefinedNameError, t.Span,
				"undefined function %s.%s()", t.Namespace, t.Name)
		}
		return e.invokeFunction(fn, args, t.Span)
	}

	if fn, ok := env.scope.LookupFunc(t.Name); ok {
		return e.invokeFunction(fn, args, t.Span)
	}
	if fn, ok := e.reg.Lookup("", t.Name); ok {
		return e.invokeBuiltin(fn, args, env, t.Span)
	}
	for _, modName := range e.globalBuiltin {
		if fn, ok := e.reg.Lookup(modName, t.Name); ok {
			return e.invokeBuiltin(fn, args, env, t.Span)
		}
	}
	// unknown functions render as literal CSS calls (var, -webkit-*)
	return e.cssCall(t.Name, args, t.Span)
}

func (e *Evaluator) cssCall(name string, args *builtin.Args, span ast.Span) (value.Value, error) {
	if len(args.Named) > 0 {
		return nil, diag.ErrorfAt(diag.TypeError, span,
			"plain CSS function %s() does not support keyword arguments", name)
	}
	parts := make([]string, 0, len(args.Positional))
	for _, v := range args.Positional {
		s, err := v.CSS(e.format)
		if err != nil {
			return nil, diag.At(err, span)
		}
		parts = append(parts, s)
	}
	sep := ", "
	if e.format.Compressed {
		sep = ","
	}
	return value.Unquoted(name + "(" + strings.Join(parts, sep) + ")"), nil
}

func (e *Evaluator) invokeBuiltin(fn *builtin.Fn, args *builtin.Args, env *env, span ast.Span) (value.Value, error) {
	v, err := fn.Invoke(e.builtinCtx(env), args)
	if err != nil {
		return nil, diag.At(err, span)
	}
	return v, nil
}

func (e *Evaluator) builtinCtx(env *env) *builtin.Context {
	return &builtin.Context{
		Scope:         env.scope,
		Rand:          e.rand,
		Format:        e.format,
		Log:           e.log,
		ContentExists: env.content != nil,
		Call: func(fn value.Function, args *builtin.Args) (value.Value, error) {
			return e.callFunctionValue(fn, args, env)
		},
		GetFunction: func(name, module string) (value.Value, error) {
			return e.getFunction(name, module, env)
		},
	}
}

func (e *Evaluator) getFunction(name, module string, env *env) (value.Value, error) {
	if module != "" {
		if builtinName, ok := e.builtinNS[module]; ok {
			if fn, ok := e.reg.Lookup(builtinName, name); ok {
				return value.Function{Name: name, Ref: fn}, nil
			}
			return nil, diag.Errorf(diag.UndefinedNameError, "undefined function %s.%s()", module, name)
		}
		mod, ok := env.scope.LookupModule(module)
		if !ok {
			return nil, diag.Errorf(diag.UndefinedNameError, "there is no module with namespace %q", module)
		}
		fn, ok := mod.Func(name)
		if !ok {
			return nil, diag.Errorf(diag.UndefinedNameError, "undefined function %s.%s()", module, name)
		}
		return value.Function{Name: name, Ref: fn}, nil
	}
	if fn, ok := env.scope.LookupFunc(name); ok {
		return value.Function{Name: name, Ref: fn}, nil
	}
	if fn, ok := e.reg.Lookup("", name); ok {
		return value.Function{Name: name, Ref: fn}, nil
	}
	return nil, diag.Errorf(diag.UndefinedNameError, "undefined function %s()", name)
}

func (e *Evaluator) callFunctionValue(fn value.Function, args *builtin.Args, env *env) (value.Value, error) {
	switch ref := fn.Ref.(type) {
	case *scope.Function:
		return e.invokeFunction(ref, args, ast.Span{})
	case *builtin.Fn:
		return ref.Invoke(e.builtinCtx(env), args)
	case nil:
		return e.cssCall(fn.Name, args, ast.Span{})
	default:
		return nil, diag.Errorf(diag.TypeError, "%s is not callable", fn.Inspect(e.format))
	}
}

// invokeFunction runs a user function body in a frame parented at the
// defining scope. The body must reach @return.
func (e *Evaluator) invokeFunction(fn *scope.Function, args *builtin.Args, span ast.Span) (value.Value, error) {
	frame := fn.Env.Child()
	if err := e.bindParams(fn.Decl.Name, fn.Decl.Params, args, frame); err != nil {
		return nil, diag.At(err, span)
	}
	var scratch []css.Node
	fenv := &env{
		scope:         frame,
		container:     &scratch,
		rootContainer: &scratch,
		ret:           &retSlot{},
	}
	if err := e.stmts(fn.Decl.Body, fenv); err != nil {
		return nil, err
	}
	if !fenv.ret.set {
		return nil, diag.ErrorfAt(diag.TypeError, span,
			"function %s finished without @return", fn.Decl.Name)
	}
	return fenv.ret.v, nil
}

// bindParams binds evaluated arguments against formal parameters in
// frame. Defaults are evaluated inside the new frame, so earlier
// parameters are visible to later defaults.
func (e *Evaluator) bindParams(name string, params []ast.Param, args *builtin.Args, frame *scope.Scope) error {
	var scratch []css.Node
	defEnv := &env{scope: frame, container: &scratch, rootContainer: &scratch}
	usedNamed := make(map[string]bool, len(args.Named))

	restIdx := -1
	for i, prm := range params {
		if prm.Rest {
			restIdx = i
			break
		}
		if i < len(args.Positional) {
			if _, both := args.Named[prm.Name]; both {
				return diag.Errorf(diag.ArityError,
					"%s: argument $%s was passed both by position and by name", name, prm.Name)
			}
			frame.Define(prm.Name, args.Positional[i])
			continue
		}
		if v, ok := args.Named[prm.Name]; ok {
			frame.Define(prm.Name, v)
			usedNamed[prm.Name] = true
			continue
		}
		if prm.Default != nil {
			v, err := e.expr(prm.Default, defEnv)
			if err != nil {
				return err
			}
			frame.Define(prm.Name, v)
			continue
		}
		return diag.Errorf(diag.ArityError, "%s: missing argument $%s", name, prm.Name)
	}

	if restIdx >= 0 {
		var overflow []value.Value
		if len(args.Positional) > restIdx {
			overflow = args.Positional[restIdx:]
		}
		al := value.NewArgList(overflow)
		for _, n := range args.NamedOrder {
			if usedNamed[n] {
				continue
			}
			if al.Keywords == nil {
				al.Keywords = value.NewMap()
			}
			al.Keywords.Set(value.Unquoted(n), args.Named[n])
		}
		frame.Define(params[restIdx].Name, al)
		return nil
	}
	if len(args.Positional) > len(params) {
		return diag.Errorf(diag.ArityError,
			"%s: takes at most %d arguments, got %d", name, len(params), len(args.Positional))
	}
	for _, n := range args.NamedOrder {
		if !usedNamed[n] {
			return diag.Errorf(diag.ArityError, "%s: no argument named $%s", name, n)
		}
	}
	return nil
}

func (e *Evaluator) includeStmt(t *ast.IncludeStmt, env *env) error {
	var mx *scope.Mixin
	if t.Namespace != "" {
		mod, ok := env.scope.LookupModule(t.Namespace)
		if !ok {
			return diag.ErrorfAt(diag.UndefinedNameError, t.Span,
				"there is no module with namespace %q", t.Namespace)
		}
		m, ok := mod.Mixin(t.Name)
		if !ok {
			return diag.ErrorfAt(diag.UndefinedNameError, t.Span,
				"undefined mixin %s.%s", t.Namespace, t.Name)
		}
		mx = m
	} else {
		m, ok := env.scope.LookupMixin(t.Name)
		if !ok {
			return diag.ErrorfAt(diag.UndefinedNameError, t.Span, "undefined mixin %s", t.Name)
		}
		mx = m
	}

	args, err := e.evalArgs(t.Args, env)
	if err != nil {
		return err
	}
	frame := mx.Env.Child()
	if err := e.bindParams(t.Name, mx.Decl.Params, args, frame); err != nil {
		return diag.At(err, t.Span)
	}

	child := env.fork()
	child.scope = frame
	child.inMixin = true
	child.content = nil
	if t.HasBlock {
		// the block evaluates in the caller's lexical scope when the
		// mixin reaches @content
		child.content = &contentBlock{stmts: t.Content, scope: env.scope, outer: env.content}
	}
	return e.stmts(mx.Decl.Body, child)
}

func (e *Evaluator) contentStmt(t *ast.ContentStmt, env *env) error {
	if !env.inMixin {
		return diag.ErrorfAt(diag.TypeError, t.Span, "@content may only be used within a mixin")
	}
	if env.content == nil {
		return nil
	}
	child := env.fork()
	child.scope = env.content.scope.Child()
	child.content = env.content.outer
	child.inMixin = false
	return e.stmts(env.content.stmts, child)
}
