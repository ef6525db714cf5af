package scope

import (
	"fmt"
	"strings"

	"github.com/deftliang/grass/value"
)

// Module is an evaluated stylesheet exposed as a namespace. Members
// live in the module's root frame; access requires the namespace
// prefix unless the module was used `as *` or forwarded.
type Module struct {
	// Name is the default namespace derived from the module path.
	Name string
	// Canonical is the resolved path the module was loaded from;
	// repeated @use of the same canonical path reuses one instance.
	Canonical string
	root      *Scope
}

// NewModule wraps the root frame of an evaluated stylesheet.
func NewModule(name, canonical string, root *Scope) *Module {
	return &Module{Name: name, Canonical: canonical, root: root}
}

// Var resolves a member variable. Private members (leading - or _)
// are not visible through the namespace.
func (m *Module) Var(name string) (value.Value, bool) {
	if isPrivate(name) {
		return nil, false
	}
	v, ok := m.root.vars[name]
	return v, ok
}

// Mixin resolves a member mixin.
func (m *Module) Mixin(name string) (*Mixin, bool) {
	if isPrivate(name) {
		return nil, false
	}
	mx, ok := m.root.mixins[name]
	return mx, ok
}

// Func resolves a member function.
func (m *Module) Func(name string) (*Function, bool) {
	if isPrivate(name) {
		return nil, false
	}
	fn, ok := m.root.funcs[name]
	return fn, ok
}

func isPrivate(name string) bool {
	return strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_")
}

// AddModule binds a module namespace in the current frame. Two
// different modules cannot claim one namespace.
func (s *Scope) AddModule(ns string, m *Module) error {
	if s.modules == nil {
		s.modules = make(map[string]*Module)
	}
	if old, ok := s.modules[ns]; ok && old != m {
		return fmt.Errorf("namespace %q is already used for module %q", ns, old.Canonical)
	}
	s.modules[ns] = m
	return nil
}

// LookupModule resolves a namespace walking outward.
func (s *Scope) LookupModule(ns string) (*Module, bool) {
	for f := s; f != nil; f = f.parent {
		if m, ok := f.modules[ns]; ok {
			return m, true
		}
	}
	return nil, false
}

// Merge copies the visible members of src into the current frame,
// applying a forward visibility filter. show lists the only members
// to take (empty means all), hide removes members, prefix is
// prepended to every member name. Variable names in show/hide keep
// their `$`.
func (s *Scope) Merge(src *Module, show, hide []string, prefix string) {
	visible := func(name string, isVar bool) bool {
		if isPrivate(name) {
			return false
		}
		key := name
		if isVar {
			key = "$" + name
		}
		if len(show) > 0 {
			for _, w := range show {
				if w == key || w == name {
					return true
				}
			}
			return false
		}
		for _, h := range hide {
			if h == key || h == name {
				return false
			}
		}
		return true
	}
	for name, v := range src.root.vars {
		if visible(name, true) {
			s.vars[prefix+name] = v
		}
	}
	for name, m := range src.root.mixins {
		if visible(name, false) {
			s.DefineMixin(prefix+name, m)
		}
	}
	for name, fn := range src.root.funcs {
		if visible(name, false) {
			s.DefineFunc(prefix+name, fn)
		}
	}
}
