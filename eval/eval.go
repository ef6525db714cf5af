// Package eval walks the syntax tree and produces the output CSS node
// tree. Evaluation is strictly sequential and depth first; one
// Evaluator serves one compilation and is not safe for concurrent use.
package eval

import (
	"strings"

	"go.uber.org/zap"

	"github.com/deftliang/grass/ast"
	"github.com/deftliang/grass/builtin"
	"github.com/deftliang/grass/css"
	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/scope"
	"github.com/deftliang/grass/selector"
	"github.com/deftliang/grass/value"
)

// whileLimit bounds @while iterations so a runaway condition fails
// with a diagnostic instead of hanging the host.
const whileLimit = 100000

// Loader resolves @use/@forward/@import targets. The evaluator never
// touches storage itself; hosts inject file system or in-memory
// loaders.
type Loader interface {
	// Resolve returns the parsed stylesheet for specifier as seen from
	// the file `from`, plus the canonical path used for load-once
	// caching and cycle detection.
	Resolve(specifier, from string) (*ast.StyleSheet, string, error)
}

// Options configures one Evaluator.
type Options struct {
	Format            value.Format
	Loader            Loader
	Seed              int64
	QuietDeps         bool
	AllowLegacyImport bool
	Logger            *zap.Logger
}

// Evaluator holds the state of one compilation.
type Evaluator struct {
	log    *zap.Logger
	format value.Format
	loader Loader
	rand   *builtin.Random
	reg    *builtin.Registry

	extends  *selector.ExtendTable
	ruleSels []*selector.List
	warnings []*diag.Diagnostic

	modules       map[string]*scope.Module // canonical path -> evaluated module
	loading       map[string]bool          // cycle detection
	builtinNS     map[string]string        // namespace -> builtin module name
	globalBuiltin []string                 // builtin modules used `as *`

	quietDeps         bool
	allowLegacyImport bool
	depDepth          int
}

// New prepares an evaluator. The zero Format falls back to the default
// precision.
func New(opts Options) *Evaluator {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	f := opts.Format
	if f.Precision == 0 {
		f.Precision = value.DefaultFormat.Precision
	}
	return &Evaluator{
		log:               log.Named("eval"),
		format:            f,
		loader:            opts.Loader,
		rand:              builtin.NewRandom(opts.Seed),
		reg:               builtin.Default(),
		extends:           selector.NewExtendTable(log),
		modules:           make(map[string]*scope.Module),
		loading:           make(map[string]bool),
		builtinNS:         make(map[string]string),
		quietDeps:         opts.QuietDeps,
		allowLegacyImport: opts.AllowLegacyImport,
	}
}

// Warnings returns the diagnostics collected so far, in order.
func (e *Evaluator) Warnings() []*diag.Diagnostic { return e.warnings }

// retSlot carries a function's @return value up the statement walk.
type retSlot struct {
	v   value.Value
	set bool
}

// contentBlock is a @content block captured at an @include call site.
type contentBlock struct {
	stmts []ast.Stmt
	scope *scope.Scope
	outer *contentBlock
}

// env is the walk context of one statement list: the lexical frame,
// the emission targets and the surrounding construct flags.
type env struct {
	scope         *scope.Scope
	container     *[]css.Node // where rules and at-rules are appended
	rootContainer *[]css.Node // the stylesheet root, for @at-root
	rule          *css.Rule   // current rule receiving declarations
	selector      selector.List
	prefix        string // nested property name prefix
	atBody        bool   // directly inside an at-rule body (@font-face)

	content     *contentBlock
	ret         *retSlot // non-nil inside a function body
	inMixin     bool
	inKeyframes bool
}

func (v *env) fork() *env {
	c := *v
	return &c
}

// Evaluate runs the stylesheet and returns the output tree. Warnings
// are collected on the evaluator; a returned error aborts the
// compilation with no partial output.
func (e *Evaluator) Evaluate(sheet *ast.StyleSheet) (*css.StyleSheet, error) {
	out := &css.StyleSheet{}
	root := &env{
		scope:         scope.NewRoot(),
		container:     &out.Nodes,
		rootContainer: &out.Nodes,
	}
	if err := e.stmts(sheet.Stmts, root); err != nil {
		return nil, err
	}
	if err := e.extends.Apply(e.ruleSels); err != nil {
		return nil, diag.Errorf(diag.ExtendTargetError, "%v", err)
	}
	for _, missed := range e.extends.MissedOptional() {
		e.warn(diag.Warningf(ast.Span{}, "optional @extend target %q matched nothing", missed))
	}
	for _, sel := range e.ruleSels {
		*sel = sel.WithoutPlaceholders()
	}
	return out, nil
}

func (e *Evaluator) warn(d *diag.Diagnostic) {
	e.warnings = append(e.warnings, d)
}

// messageText renders a @debug/@warn/@error payload: strings print
// their text without quotes, everything else its inspected form.
func (e *Evaluator) messageText(v value.Value) string {
	if s, ok := v.(value.Str); ok {
		return s.Text
	}
	return v.Inspect(e.format)
}

func (e *Evaluator) stmts(list []ast.Stmt, env *env) error {
	for _, st := range list {
		if env.ret != nil && env.ret.set {
			return nil
		}
		if err := e.stmt(st, env); err != nil {
			return diag.At(err, st.Pos())
		}
	}
	return nil
}

func (e *Evaluator) stmt(st ast.Stmt, env *env) error {
	switch t := st.(type) {
	case *ast.VarDeclStmt:
		return e.varDecl(t, env)
	case *ast.RuleStmt:
		return e.ruleStmt(t, env)
	case *ast.DeclStmt:
		return e.declStmt(t, env)
	case *ast.CommentStmt:
		return e.commentStmt(t, env)
	case *ast.MixinStmt:
		env.scope.DefineMixin(t.Name, &scope.Mixin{Decl: t, Env: env.scope})
		return nil
	case *ast.FunctionStmt:
		env.scope.DefineFunc(t.Name, &scope.Function{Decl: t, Env: env.scope})
		return nil
	case *ast.IncludeStmt:
		return e.includeStmt(t, env)
	case *ast.ContentStmt:
		return e.contentStmt(t, env)
	case *ast.ReturnStmt:
		// a mixin body never returns a value, even when the @include
		// sits inside a function
		if env.ret == nil || env.inMixin {
			return diag.ErrorfAt(diag.TypeError, t.Span, "@return may only be used within a function")
		}
		v, err := e.expr(t.Value, env)
		if err != nil {
			return err
		}
		env.ret.v = v
		env.ret.set = true
		return nil
	case *ast.IfStmt:
		return e.ifStmt(t, env)
	case *ast.EachStmt:
		return e.eachStmt(t, env)
	case *ast.ForStmt:
		return e.forStmt(t, env)
	case *ast.WhileStmt:
		return e.whileStmt(t, env)
	case *ast.ExtendStmt:
		return e.extendStmt(t, env)
	case *ast.UseStmt:
		return e.useStmt(t, env)
	case *ast.ForwardStmt:
		return e.forwardStmt(t, env)
	case *ast.ImportStmt:
		return e.importStmt(t, env)
	case *ast.AtRuleStmt:
		return e.atRuleStmt(t, env)
	case *ast.DebugStmt:
		v, err := e.expr(t.Value, env)
		if err != nil {
			return err
		}
		e.log.Debug("@debug", zap.String("message", e.messageText(v)), zap.String("at", t.Span.String()))
		return nil
	case *ast.WarnStmt:
		v, err := e.expr(t.Value, env)
		if err != nil {
			return err
		}
		if !e.quietDeps || e.depDepth == 0 {
			e.warn(diag.Warningf(t.Span, "%s", e.messageText(v)))
		}
		return nil
	case *ast.ErrorStmt:
		v, err := e.expr(t.Value, env)
		if err != nil {
			return err
		}
		return diag.ErrorfAt(diag.TypeError, t.Span, "%s", e.messageText(v))
	default:
		return diag.ErrorfAt(diag.TypeError, st.Pos(), "unhandled statement")
	}
}

func (e *Evaluator) varDecl(t *ast.VarDeclStmt, env *env) error {
	v, err := e.expr(t.Value, env)
	if err != nil {
		return err
	}
	switch {
	case t.Default && t.Global:
		if !env.scope.GlobalVarExists(t.Name) {
			env.scope.SetGlobal(t.Name, v)
		}
	case t.Global:
		env.scope.SetGlobal(t.Name, v)
	case t.Default:
		env.scope.SetDefault(t.Name, v)
	default:
		env.scope.Set(t.Name, v)
	}
	return nil
}

func (e *Evaluator) ruleStmt(t *ast.RuleStmt, env *env) error {
	text, err := e.interp(t.Selector, env)
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return diag.ErrorfAt(diag.ParseError, t.Span, "empty selector")
	}

	rule := &css.Rule{Span: t.Span}
	if env.inKeyframes {
		rule.Selector = rawSelector(text)
	} else {
		list, err := selector.Parse(text)
		if err != nil {
			return diag.ErrorfAt(diag.ParseError, t.Span, "invalid selector %q: %v", text, err)
		}
		rule.Selector = selector.Resolve(env.selector, list)
		e.ruleSels = append(e.ruleSels, &rule.Selector)
	}
	*env.container = append(*env.container, rule)

	child := env.fork()
	child.scope = env.scope.Child()
	child.rule = rule
	child.selector = rule.Selector
	child.prefix = ""
	return e.stmts(t.Body, child)
}

// rawSelector wraps verbatim selector text (keyframe steps) so it
// round-trips through the writer untouched.
func rawSelector(text string) selector.List {
	var list selector.List
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		list.Members = append(list.Members, selector.Complex{Segments: []selector.Segment{{
			Compound: selector.Compound{Simples: []selector.Simple{{Kind: selector.Type, Name: part}}},
		}}})
	}
	return list
}

func (e *Evaluator) declStmt(t *ast.DeclStmt, env *env) error {
	name, err := e.interp(t.Name, env)
	if err != nil {
		return err
	}
	if env.prefix != "" {
		name = env.prefix + "-" + name
	}
	if t.Value != nil {
		v, err := e.expr(t.Value, env)
		if err != nil {
			return err
		}
		if v.Kind() != value.KindNull {
			text, err := v.CSS(e.format)
			if err != nil {
				return diag.At(err, t.Span)
			}
			if text != "" {
				if err := e.emitDecl(&css.Decl{
					Prop: name, Value: text, Important: t.Important, Span: t.Span,
				}, env, t.Span); err != nil {
					return err
				}
			}
		}
	}

	if t.Body != nil {
		child := env.fork()
		child.scope = env.scope.Child()
		child.prefix = name
		return e.stmts(t.Body, child)
	}
	return nil
}

func (e *Evaluator) emitDecl(d *css.Decl, env *env, span ast.Span) error {
	if env.rule != nil {
		env.rule.Nodes = append(env.rule.Nodes, d)
		return nil
	}
	if env.inAtBody() {
		*env.container = append(*env.container, d)
		return nil
	}
	return diag.ErrorfAt(diag.TypeError, span, "declarations may only appear within rules")
}

// inAtBody reports whether emission currently targets the body of an
// at-rule without an intervening style rule (@font-face).
func (v *env) inAtBody() bool { return v.atBody }

func (e *Evaluator) commentStmt(t *ast.CommentStmt, env *env) error {
	text, err := e.interp(t.Text, env)
	if err != nil {
		return err
	}
	node := &css.Comment{Text: text, Span: t.Span}
	if env.rule != nil {
		env.rule.Nodes = append(env.rule.Nodes, node)
	} else {
		*env.container = append(*env.container, node)
	}
	return nil
}

func (e *Evaluator) ifStmt(t *ast.IfStmt, env *env) error {
	for _, clause := range t.Clauses {
		cond, err := e.expr(clause.Cond, env)
		if err != nil {
			return err
		}
		if cond.IsTruthy() {
			child := env.fork()
			child.scope = env.scope.Child()
			return e.stmts(clause.Body, child)
		}
	}
	if t.Else != nil {
		child := env.fork()
		child.scope = env.scope.Child()
		return e.stmts(t.Else, child)
	}
	return nil
}

func (e *Evaluator) eachStmt(t *ast.EachStmt, env *env) error {
	seq, err := e.expr(t.Seq, env)
	if err != nil {
		return err
	}
	for _, item := range value.AsSlice(seq) {
		child := env.fork()
		child.scope = env.scope.Child()
		if len(t.Vars) == 1 {
			child.scope.Define(t.Vars[0], item)
		} else {
			// destructure: extra variables read null
			parts := value.AsSlice(item)
			for i, name := range t.Vars {
				if i < len(parts) {
					child.scope.Define(name, parts[i])
				} else {
					child.scope.Define(name, value.Null)
				}
			}
		}
		if err := e.stmts(t.Body, child); err != nil {
			return err
		}
		if env.ret != nil && env.ret.set {
			return nil
		}
	}
	return nil
}

func (e *Evaluator) forStmt(t *ast.ForStmt, env *env) error {
	fromV, err := e.expr(t.From, env)
	if err != nil {
		return err
	}
	toV, err := e.expr(t.To, env)
	if err != nil {
		return err
	}
	from, ok := fromV.(value.Number)
	if !ok || !from.IsInt() {
		return diag.ErrorfAt(diag.TypeError, t.Span, "@for bound %s is not an integer", fromV.Inspect(e.format))
	}
	to, ok := toV.(value.Number)
	if !ok || !to.IsInt() {
		return diag.ErrorfAt(diag.TypeError, t.Span, "@for bound %s is not an integer", toV.Inspect(e.format))
	}
	lo, hi := from.Int(), to.Int()
	step := 1
	if lo > hi {
		step = -1
	}
	end := hi
	if t.Inclusive {
		end += step
	}
	for i := lo; i != end; i += step {
		child := env.fork()
		child.scope = env.scope.Child()
		child.scope.Define(t.Var, value.Number{Value: float64(i), Unit: from.Unit})
		if err := e.stmts(t.Body, child); err != nil {
			return err
		}
		if env.ret != nil && env.ret.set {
			return nil
		}
	}
	return nil
}

func (e *Evaluator) whileStmt(t *ast.WhileStmt, env *env) error {
	for n := 0; ; n++ {
		if n >= whileLimit {
			return diag.ErrorfAt(diag.RuntimeLimitError, t.Span,
				"@while exceeded %d iterations", whileLimit)
		}
		cond, err := e.expr(t.Cond, env)
		if err != nil {
			return err
		}
		if !cond.IsTruthy() {
			return nil
		}
		child := env.fork()
		child.scope = env.scope.Child()
		if err := e.stmts(t.Body, child); err != nil {
			return err
		}
		if env.ret != nil && env.ret.set {
			return nil
		}
	}
}

func (e *Evaluator) extendStmt(t *ast.ExtendStmt, env *env) error {
	if env.rule == nil {
		return diag.ErrorfAt(diag.TypeError, t.Span, "@extend may only be used within style rules")
	}
	text, err := e.interp(t.Selector, env)
	if err != nil {
		return err
	}
	if err := e.extends.Add(strings.TrimSpace(text), &env.rule.Selector, t.Optional); err != nil {
		return diag.ErrorfAt(diag.ExtendTargetError, t.Span, "%v", err)
	}
	return nil
}

func (e *Evaluator) atRuleStmt(t *ast.AtRuleStmt, env *env) error {
	if t.Name == "at-root" {
		return e.atRoot(t, env)
	}
	prelude, err := e.interp(t.Prelude, env)
	if err != nil {
		return err
	}
	node := &css.AtRule{Name: t.Name, Prelude: strings.TrimSpace(prelude), HasBody: t.HasBody, Span: t.Span}
	*env.container = append(*env.container, node)
	if !t.HasBody {
		return nil
	}

	child := env.fork()
	child.scope = env.scope.Child()
	child.container = &node.Nodes
	child.rule = nil
	child.atBody = true
	if strings.Contains(t.Name, "keyframes") {
		child.inKeyframes = true
		child.selector = selector.List{}
	} else if env.rule != nil {
		// a nested conditional rule bubbles above the style rule; the
		// declarations inside it stay wrapped in the original selector
		inner := &css.Rule{Selector: env.selector, Span: t.Span}
		e.ruleSels = append(e.ruleSels, &inner.Selector)
		node.Nodes = append(node.Nodes, inner)
		child.rule = inner
		child.atBody = false
	}
	return e.stmts(t.Body, child)
}

func (e *Evaluator) atRoot(t *ast.AtRuleStmt, env *env) error {
	// emission jumps back to the stylesheet root
	child := env.fork()
	child.scope = env.scope.Child()
	child.rule = nil
	child.selector = selector.List{}
	child.atBody = false
	child.container = env.rootContainer
	if child.container == nil {
		child.container = env.container
	}
	if len(t.Prelude.Parts) > 0 {
		sel, err := e.interp(t.Prelude, env)
		if err != nil {
			return err
		}
		rs := &ast.RuleStmt{Selector: ast.Interp{Parts: []ast.InterpPart{{Text: sel}}, Span: t.Span}, Body: t.Body, Span: t.Span}
		return e.ruleStmt(rs, child)
	}
	return e.stmts(t.Body, child)
}
