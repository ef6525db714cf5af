// Package scope implements the hierarchical environment the
// evaluator runs in: lexically chained frames holding variable, mixin
// and function bindings, plus the module namespaces created by @use.
package scope

import (
	"github.com/deftliang/grass/ast"
	"github.com/deftliang/grass/value"
)

// Mixin is a mixin closure: the declaration bound to its defining
// frame chain. Invocation parents the new frame at Env, never at the
// call site.
type Mixin struct {
	Decl *ast.MixinStmt
	Env  *Scope
}

// Function is a user function closure.
type Function struct {
	Decl *ast.FunctionStmt
	Env  *Scope
}

// Scope is one frame of the environment chain. The zero value is not
// usable; use NewRoot and Child.
type Scope struct {
	parent  *Scope
	vars    map[string]value.Value
	mixins  map[string]*Mixin
	funcs   map[string]*Function
	modules map[string]*Module
}

// NewRoot returns a fresh outermost frame. Each compilation and each
// loaded module owns exactly one.
func NewRoot() *Scope {
	return &Scope{vars: make(map[string]value.Value)}
}

// Child pushes a frame for block entry; dropping the reference pops
// it.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, vars: make(map[string]value.Value)}
}

// Root walks to the outermost frame of this chain.
func (s *Scope) Root() *Scope {
	r := s
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Lookup resolves a variable walking outward through the chain.
func (s *Scope) Lookup(name string) (value.Value, bool) {
	for f := s; f != nil; f = f.parent {
		if v, ok := f.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Define binds name in the current frame, shadowing outer bindings.
func (s *Scope) Define(name string, v value.Value) {
	s.vars[name] = v
}

// Set writes to the frame owning name; an unbound name is defined in
// the current frame. Ancestor frames are only ever written through
// this ownership rule or SetGlobal.
func (s *Scope) Set(name string, v value.Value) {
	for f := s; f != nil; f = f.parent {
		if _, ok := f.vars[name]; ok {
			f.vars[name] = v
			return
		}
	}
	s.vars[name] = v
}

// SetGlobal forces the write into the outermost frame (!global).
func (s *Scope) SetGlobal(name string, v value.Value) {
	s.Root().vars[name] = v
}

// SetDefault assigns only when the name is unset or bound to null
// (!default).
func (s *Scope) SetDefault(name string, v value.Value) {
	if cur, ok := s.Lookup(name); ok && cur.Kind() != value.KindNull {
		return
	}
	s.Set(name, v)
}

// VarExists reports whether name resolves anywhere in the chain.
func (s *Scope) VarExists(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// GlobalVarExists reports whether name is bound in the outermost
// frame.
func (s *Scope) GlobalVarExists(name string) bool {
	_, ok := s.Root().vars[name]
	return ok
}

// DefineMixin binds a mixin in the current frame.
func (s *Scope) DefineMixin(name string, m *Mixin) {
	if s.mixins == nil {
		s.mixins = make(map[string]*Mixin)
	}
	s.mixins[name] = m
}

// LookupMixin resolves a mixin walking outward.
func (s *Scope) LookupMixin(name string) (*Mixin, bool) {
	for f := s; f != nil; f = f.parent {
		if m, ok := f.mixins[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// DefineFunc binds a user function in the current frame.
func (s *Scope) DefineFunc(name string, fn *Function) {
	if s.funcs == nil {
		s.funcs = make(map[string]*Function)
	}
	s.funcs[name] = fn
}

// LookupFunc resolves a user function walking outward.
func (s *Scope) LookupFunc(name string) (*Function, bool) {
	for f := s; f != nil; f = f.parent {
		if fn, ok := f.funcs[name]; ok {
			return fn, true
		}
	}
	return nil, false
}
