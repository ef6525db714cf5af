package eval

import (
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/deftliang/grass/ast"
	"github.com/deftliang/grass/css"
	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/scope"
)

// defaultNamespace derives the namespace @use gives a module when no
// `as` clause is present: the file stem without partial underscore.
func defaultNamespace(p string) string {
	base := path.Base(p)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return strings.TrimPrefix(base, "_")
}

func (e *Evaluator) useStmt(t *ast.UseStmt, env *env) error {
	if name, ok := strings.CutPrefix(t.Path, "sass:"); ok {
		if !e.reg.HasModule(name) {
			return diag.ErrorfAt(diag.UndefinedNameError, t.Span, "unknown built-in module %q", t.Path)
		}
		ns := t.Namespace
		switch ns {
		case "":
			ns = name
		case "*":
			e.globalBuiltin = append(e.globalBuiltin, name)
			return nil
		}
		if prev, ok := e.builtinNS[ns]; ok && prev != name {
			return diag.ErrorfAt(diag.TypeError, t.Span,
				"namespace %q is already used for module %q", ns, "sass:"+prev)
		}
		e.builtinNS[ns] = name
		return nil
	}

	mod, err := e.loadModule(t.Path, t.Span, env)
	if err != nil {
		return err
	}
	if t.Namespace == "*" {
		env.scope.Root().Merge(mod, nil, nil, "")
		return nil
	}
	ns := t.Namespace
	if ns == "" {
		ns = mod.Name
	}
	if err := env.scope.Root().AddModule(ns, mod); err != nil {
		return diag.ErrorfAt(diag.TypeError, t.Span, "%v", err)
	}
	return nil
}

func (e *Evaluator) forwardStmt(t *ast.ForwardStmt, env *env) error {
	if strings.HasPrefix(t.Path, "sass:") {
		return diag.ErrorfAt(diag.TypeError, t.Span, "built-in modules cannot be forwarded")
	}
	mod, err := e.loadModule(t.Path, t.Span, env)
	if err != nil {
		return err
	}
	env.scope.Root().Merge(mod, t.Show, t.Hide, t.Prefix)
	return nil
}

// loadModule resolves and evaluates a module once per canonical path.
// The module's own CSS emits at the first load site.
func (e *Evaluator) loadModule(spec string, span ast.Span, outer *env) (*scope.Module, error) {
	if e.loader == nil {
		return nil, diag.ErrorfAt(diag.IOError, span, "cannot load %q: no loader configured", spec)
	}
	sheet, canonical, err := e.loader.Resolve(spec, e.currentFile(span))
	if err != nil {
		return nil, diag.At(diag.Errorf(diag.IOError, "cannot load %q: %v", spec, err), span)
	}
	if e.loading[canonical] {
		return nil, diag.ErrorfAt(diag.ImportCycleError, span, "module loop: %q is already being loaded", canonical)
	}
	if mod, ok := e.modules[canonical]; ok {
		return mod, nil
	}

	e.loading[canonical] = true
	defer delete(e.loading, canonical)

	e.log.Debug("loading module", zap.String("path", spec), zap.String("canonical", canonical))
	e.depDepth++
	modRoot := scope.NewRoot()
	menv := &env{
		scope:         modRoot,
		container:     outer.rootContainer,
		rootContainer: outer.rootContainer,
	}
	err = e.stmts(sheet.Stmts, menv)
	e.depDepth--
	if err != nil {
		return nil, err
	}
	mod := scope.NewModule(defaultNamespace(canonical), canonical, modRoot)
	e.modules[canonical] = mod
	return mod, nil
}

func (e *Evaluator) importStmt(t *ast.ImportStmt, env *env) error {
	for _, spec := range t.Specs {
		if spec.IsCSS {
			prelude := spec.Path
			if !strings.HasPrefix(prelude, "url(") {
				prelude = "\"" + prelude + "\""
			}
			*env.rootContainer = append(*env.rootContainer, &css.AtRule{
				Name: "import", Prelude: prelude, Span: spec.Span,
			})
			continue
		}
		if !e.allowLegacyImport {
			return diag.ErrorfAt(diag.TypeError, spec.Span,
				"legacy @import of %q is disabled; use @use instead", spec.Path)
		}
		if err := e.importSheet(spec, env); err != nil {
			return err
		}
	}
	return nil
}

// importSheet inlines a legacy import into the current scope and
// emission context: definitions flatten and @extend crosses files.
func (e *Evaluator) importSheet(spec ast.ImportSpec, env *env) error {
	if e.loader == nil {
		return diag.ErrorfAt(diag.IOError, spec.Span, "cannot import %q: no loader configured", spec.Path)
	}
	sheet, canonical, err := e.loader.Resolve(spec.Path, e.currentFile(spec.Span))
	if err != nil {
		return diag.At(diag.Errorf(diag.IOError, "cannot import %q: %v", spec.Path, err), spec.Span)
	}
	if e.loading[canonical] {
		return diag.ErrorfAt(diag.ImportCycleError, spec.Span,
			"import loop: %q is already being loaded", canonical)
	}
	e.loading[canonical] = true
	defer delete(e.loading, canonical)

	e.depDepth++
	err = e.stmts(sheet.Stmts, env)
	e.depDepth--
	return err
}

// currentFile extracts the requesting file for loader resolution.
func (e *Evaluator) currentFile(span ast.Span) string { return span.File }
