package eval

import (
	"strings"

	"github.com/deftliang/grass/ast"
	"github.com/deftliang/grass/diag"
	"github.com/deftliang/grass/value"
)

// interp resolves interpolated text. Expression parts serialize the
// way Sass interpolation does: quoted strings lose their quotes.
func (e *Evaluator) interp(in ast.Interp, env *env) (string, error) {
	var b strings.Builder
	for _, part := range in.Parts {
		if part.Expr == nil {
			b.WriteString(part.Text)
			continue
		}
		v, err := e.expr(part.Expr, env)
		if err != nil {
			return "", diag.At(err, part.Expr.Pos())
		}
		b.WriteString(e.toText(v))
	}
	return b.String(), nil
}

// toText renders a value for interpolation and string contexts.
func (e *Evaluator) toText(v value.Value) string {
	if s, ok := v.(value.Str); ok {
		return s.Text
	}
	if v.Kind() == value.KindNull {
		return ""
	}
	if s, err := v.CSS(e.format); err == nil {
		return s
	}
	return v.Inspect(e.format)
}

func (e *Evaluator) expr(x ast.Expr, env *env) (value.Value, error) {
	switch t := x.(type) {
	case *ast.NumberLit:
		return value.Num(t.Value, t.Unit), nil
	case *ast.ColorLit:
		return value.Color{R: t.R, G: t.G, B: t.B, A: t.A, Original: t.Original}, nil
	case *ast.BoolLit:
		return value.Bool(t.Value), nil
	case *ast.NullLit:
		return value.Null, nil
	case *ast.StringLit:
		text, err := e.interp(t.Parts, env)
		if err != nil {
			return nil, err
		}
		return value.Str{Text: text, Quoted: t.Quoted}, nil
	case *ast.VarExpr:
		return e.varExpr(t, env)
	case *ast.ListExpr:
		items := make([]value.Value, 0, len(t.Items))
		for _, item := range t.Items {
			v, err := e.expr(item, env)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return value.List{Items: items, Sep: listSep(t.Sep), Bracketed: t.Bracketed}, nil
	case *ast.MapExpr:
		m := value.NewMap()
		for _, pair := range t.Pairs {
			k, err := e.expr(pair.Key, env)
			if err != nil {
				return nil, err
			}
			v, err := e.expr(pair.Value, env)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	case *ast.UnaryExpr:
		return e.unary(t, env)
	case *ast.BinaryExpr:
		return e.binary(t, env)
	case *ast.ParenExpr:
		return e.exprForced(t.X, env)
	case *ast.CallExpr:
		return e.call(t, env)
	case *ast.ParentExpr:
		if env.selector.IsEmpty() {
			return value.Null, nil
		}
		return value.SelectorValue{List: env.selector}, nil
	default:
		return nil, diag.ErrorfAt(diag.TypeError, x.Pos(), "unhandled expression")
	}
}

// exprForced evaluates in a math context: slash separated pairs turn
// into division (parentheses, arithmetic operands).
func (e *Evaluator) exprForced(x ast.Expr, env *env) (value.Value, error) {
	if bin, ok := x.(*ast.BinaryExpr); ok && bin.Op == ast.OpDiv && bin.SlashSeparated {
		left, err := e.exprForced(bin.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := e.exprForced(bin.Right, env)
		if err != nil {
			return nil, err
		}
		v, err := value.Divide(left, right)
		return v, diag.At(err, bin.Span)
	}
	return e.expr(x, env)
}

func listSep(s ast.ListSep) value.Separator {
	switch s {
	case ast.SepComma:
		return value.CommaSep
	case ast.SepSlash:
		return value.SlashSep
	default:
		return value.SpaceSep
	}
}

func (e *Evaluator) varExpr(t *ast.VarExpr, env *env) (value.Value, error) {
	if t.Namespace != "" {
		if builtinName, ok := e.builtinNS[t.Namespace]; ok {
			if v, ok := e.reg.ModuleVar(builtinName, t.Name); ok {
				return v, nil
			}
			return nil, diag.ErrorfAt(diag.UndefinedNameError, t.Span,
				"undefined variable %s.$%s", t.Namespace, t.Name)
		}
		mod, ok := env.scope.LookupModule(t.Namespace)
		if !ok {
			return nil, diag.ErrorfAt(diag.UndefinedNameError, t.Span,
				"there is no module with namespace %q", t.Namespace)
		}
		v, ok := mod.Var(t.Name)
		if !ok {
			return nil, diag.ErrorfAt(diag.UndefinedNameError, t.Span,
				"undefined variable %s.$%s", t.Namespace, t.Name)
		}
		return v, nil
	}
	v, ok := env.scope.Lookup(t.Name)
	if !ok {
		return nil, diag.ErrorfAt(diag.UndefinedNameError, t.Span, "undefined variable $%s", t.Name)
	}
	return v, nil
}

func (e *Evaluator) unary(t *ast.UnaryExpr, env *env) (value.Value, error) {
	v, err := e.exprForced(t.X, env)
	if err != nil {
		return nil, err
	}
	switch t.Op {
	case "not":
		return value.Bool(!v.IsTruthy()), nil
	case "-":
		out, err := value.Negate(v, e.format)
		return out, diag.At(err, t.Span)
	default: // "+"
		if v.Kind() == value.KindNumber {
			return v, nil
		}
		return value.Str{Text: "+" + e.toText(v)}, nil
	}
}

func (e *Evaluator) binary(t *ast.BinaryExpr, env *env) (value.Value, error) {
	if t.Op == ast.OpAnd || t.Op == ast.OpOr {
		left, err := e.expr(t.Left, env)
		if err != nil {
			return nil, err
		}
		if t.Op == ast.OpAnd && !left.IsTruthy() {
			return left, nil
		}
		if t.Op == ast.OpOr && left.IsTruthy() {
			return left, nil
		}
		return e.expr(t.Right, env)
	}

	if t.Op == ast.OpDiv && t.SlashSeparated {
		left, err := e.expr(t.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := e.expr(t.Right, env)
		if err != nil {
			return nil, err
		}
		v, err := value.SlashJoin(left, right, e.format)
		return v, diag.At(err, t.Span)
	}

	left, err := e.exprForced(t.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := e.exprForced(t.Right, env)
	if err != nil {
		return nil, err
	}
	var v value.Value
	switch t.Op {
	case ast.OpEq:
		v = value.Bool(left.Equal(right))
	case ast.OpNe:
		v = value.Bool(!left.Equal(right))
	case ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		c, cerr := value.Compare(left, right)
		if cerr != nil {
			return nil, diag.At(cerr, t.Span)
		}
		switch t.Op {
		case ast.OpLt:
			v = value.Bool(c < 0)
		case ast.OpGt:
			v = value.Bool(c > 0)
		case ast.OpLe:
			v = value.Bool(c <= 0)
		default:
			v = value.Bool(c >= 0)
		}
	case ast.OpAdd:
		v, err = value.Add(left, right, e.format)
	case ast.OpSub:
		v, err = value.Subtract(left, right, e.format)
	case ast.OpMul:
		v, err = value.Multiply(left, right)
	case ast.OpDiv:
		v, err = value.Divide(left, right)
	case ast.OpMod:
		v, err = value.Modulo(left, right)
	default:
		return nil, diag.ErrorfAt(diag.TypeError, t.Span, "unhandled operator %s", t.Op)
	}
	if err != nil {
		return nil, diag.At(err, t.Span)
	}
	return v, nil
}
