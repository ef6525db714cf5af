package parser

import (
	"strings"

	"github.com/deftliang/grass/ast"
)

func (p *Parser) atRule() (ast.Stmt, error) {
	start := p.here()
	p.advance() // @
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	switch name {
	case "if":
		return p.ifStmt(start)
	case "else":
		return nil, p.errAt(start, "@else without a preceding @if")
	case "each":
		return p.eachStmt(start)
	case "for":
		return p.forStmt(start)
	case "while":
		return p.whileStmt(start)
	case "mixin":
		return p.mixinStmt(start)
	case "function":
		return p.functionStmt(start)
	case "include":
		return p.includeStmt(start)
	case "content":
		if err := p.endStmt(); err != nil {
			return nil, err
		}
		return &ast.ContentStmt{Span: p.spanFrom(start)}, nil
	case "return":
		p.skipWS()
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.endStmt(); err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Value: value, Span: p.spanFrom(start)}, nil
	case "extend":
		return p.extendStmt(start)
	case "use":
		return p.useStmt(start)
	case "forward":
		return p.forwardStmt(start)
	case "import":
		return p.importStmt(start)
	case "debug", "warn", "error":
		p.skipWS()
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.endStmt(); err != nil {
			return nil, err
		}
		span := p.spanFrom(start)
		switch name {
		case "debug":
			return &ast.DebugStmt{Value: value, Span: span}, nil
		case "warn":
			return &ast.WarnStmt{Value: value, Span: span}, nil
		default:
			return &ast.ErrorStmt{Value: value, Span: span}, nil
		}
	case "charset":
		// the output encoding is always UTF-8; drop the directive
		if _, err := p.interpUntil(";}"); err != nil {
			return nil, err
		}
		return nil, p.endStmt()
	default:
		return p.genericAtRule(start, name)
	}
}

func (p *Parser) ifStmt(start ast.Span) (ast.Stmt, error) {
	st := &ast.IfStmt{}
	for {
		p.skipWS()
		cond, err := p.expr()
		if err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		st.Clauses = append(st.Clauses, ast.IfClause{Cond: cond, Body: body})

		m := p.save()
		p.skipWS()
		if !p.matchWordAt("@else") {
			p.restore(m)
			break
		}
		p.advanceN(len("@else"))
		p.skipWS()
		if p.matchWord("if") {
			p.advanceN(2)
			continue
		}
		els, err := p.block()
		if err != nil {
			return nil, err
		}
		st.Else = els
		break
	}
	st.Span = p.spanFrom(start)
	return st, nil
}

// matchWordAt is matchWord for tokens starting with a non-ident byte.
func (p *Parser) matchWordAt(w string) bool {
	return p.hasPrefix(w) && !isIdentByte(p.peekAt(len(w)))
}

func (p *Parser) eachStmt(start ast.Span) (ast.Stmt, error) {
	st := &ast.EachStmt{}
	for {
		p.skipWS()
		if err := p.expect('$', "before loop variable"); err != nil {
			return nil, err
		}
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		st.Vars = append(st.Vars, name)
		p.skipWS()
		if p.peek() != ',' {
			break
		}
		p.advance()
	}
	if !p.matchWord("in") {
		return nil, p.errf("expected \"in\"")
	}
	p.advanceN(2)
	p.skipWS()
	seq, err := p.expr()
	if err != nil {
		return nil, err
	}
	st.Seq = seq
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	st.Body = body
	st.Span = p.spanFrom(start)
	return st, nil
}

func (p *Parser) forStmt(start ast.Span) (ast.Stmt, error) {
	st := &ast.ForStmt{}
	p.skipWS()
	if err := p.expect('$', "before loop variable"); err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	st.Var = name
	p.skipWS()
	if !p.matchWord("from") {
		return nil, p.errf("expected \"from\"")
	}
	p.advanceN(4)
	p.skipWS()
	from, err := p.singleExpr()
	if err != nil {
		return nil, err
	}
	st.From = from
	p.skipWS()
	switch {
	case p.matchWord("through"):
		p.advanceN(7)
		st.Inclusive = true
	case p.matchWord("to"):
		p.advanceN(2)
	default:
		return nil, p.errf("expected \"to\" or \"through\"")
	}
	p.skipWS()
	to, err := p.singleExpr()
	if err != nil {
		return nil, err
	}
	st.To = to
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	st.Body = body
	st.Span = p.spanFrom(start)
	return st, nil
}

func (p *Parser) whileStmt(start ast.Span) (ast.Stmt, error) {
	p.skipWS()
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Span: p.spanFrom(start)}, nil
}

func (p *Parser) mixinStmt(start ast.Span) (ast.Stmt, error) {
	p.skipWS()
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.MixinStmt{Name: name, Params: params, Body: body, Span: p.spanFrom(start)}, nil
}

func (p *Parser) functionStmt(start ast.Span) (ast.Stmt, error) {
	p.skipWS()
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionStmt{Name: name, Params: params, Body: body, Span: p.spanFrom(start)}, nil
}

// paramList parses an optional `($a, $b: default, $rest...)`.
func (p *Parser) paramList() ([]ast.Param, error) {
	p.skipWS()
	if p.peek() != '(' {
		return nil, nil
	}
	p.advance()
	var params []ast.Param
	for {
		p.skipWS()
		if p.peek() == ')' {
			p.advance()
			return params, nil
		}
		pstart := p.here()
		if err := p.expect('$', "before parameter name"); err != nil {
			return nil, err
		}
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		prm := ast.Param{Name: name}
		p.skipWS()
		switch {
		case p.hasPrefix("..."):
			p.advanceN(3)
			prm.Rest = true
		case p.peek() == ':':
			p.advance()
			p.skipWS()
			def, err := p.spaceList()
			if err != nil {
				return nil, err
			}
			prm.Default = def
		}
		prm.Span = p.spanFrom(pstart)
		params = append(params, prm)
		p.skipWS()
		switch p.peek() {
		case ',':
			p.advance()
		case ')':
		default:
			return nil, p.errf("expected \",\" or \")\" in parameter list")
		}
	}
}

func (p *Parser) includeStmt(start ast.Span) (ast.Stmt, error) {
	p.skipWS()
	ns, name, err := p.namespacedIdent()
	if err != nil {
		return nil, err
	}
	st := &ast.IncludeStmt{Namespace: ns, Name: name}
	p.skipWS()
	if p.peek() == '(' {
		args, err := p.argList()
		if err != nil {
			return nil, err
		}
		st.Args = args
	}
	p.skipWS()
	if p.peek() == '{' {
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		st.Content = body
		st.HasBlock = true
	} else if err := p.endStmt(); err != nil {
		return nil, err
	}
	st.Span = p.spanFrom(start)
	return st, nil
}

// namespacedIdent reads `name` or `ns.name`.
func (p *Parser) namespacedIdent() (ns, name string, err error) {
	first, err := p.ident()
	if err != nil {
		return "", "", err
	}
	if p.peek() == '.' && isIdentStart(p.peekAt(1)) {
		p.advance()
		second, err := p.ident()
		if err != nil {
			return "", "", err
		}
		return first, second, nil
	}
	return "", first, nil
}

func (p *Parser) extendStmt(start ast.Span) (ast.Stmt, error) {
	p.skipWS()
	sel, err := p.interpUntil("!;}")
	if err != nil {
		return nil, err
	}
	trimInterp(&sel)
	st := &ast.ExtendStmt{Selector: sel}
	if p.peek() == '!' {
		p.advance()
		flag, err := p.ident()
		if err != nil || flag != "optional" {
			return nil, p.errf("expected !optional")
		}
		st.Optional = true
	}
	if err := p.endStmt(); err != nil {
		return nil, err
	}
	st.Span = p.spanFrom(start)
	return st, nil
}

func (p *Parser) quotedPath() (string, error) {
	if p.peek() != '"' && p.peek() != '\'' {
		return "", p.errf("expected quoted path")
	}
	quote := p.advance()
	start := p.pos
	for !p.eof() && p.peek() != quote {
		p.advance()
	}
	if p.eof() {
		return "", p.errf("unterminated path")
	}
	path := p.src[start:p.pos]
	p.advance()
	return path, nil
}

func (p *Parser) useStmt(start ast.Span) (ast.Stmt, error) {
	p.skipWS()
	path, err := p.quotedPath()
	if err != nil {
		return nil, err
	}
	st := &ast.UseStmt{Path: path}
	p.skipWS()
	if p.matchWord("as") {
		p.advanceN(2)
		p.skipWS()
		if p.peek() == '*' {
			p.advance()
			st.Namespace = "*"
		} else {
			ns, err := p.ident()
			if err != nil {
				return nil, err
			}
			st.Namespace = ns
		}
	}
	if err := p.endStmt(); err != nil {
		return nil, err
	}
	st.Span = p.spanFrom(start)
	return st, nil
}

func (p *Parser) forwardStmt(start ast.Span) (ast.Stmt, error) {
	p.skipWS()
	path, err := p.quotedPath()
	if err != nil {
		return nil, err
	}
	st := &ast.ForwardStmt{Path: path}
	for {
		p.skipWS()
		switch {
		case p.matchWord("show"):
			p.advanceN(4)
			names, err := p.nameList()
			if err != nil {
				return nil, err
			}
			st.Show = names
		case p.matchWord("hide"):
			p.advanceN(4)
			names, err := p.nameList()
			if err != nil {
				return nil, err
			}
			st.Hide = names
		case p.matchWord("as"):
			p.advanceN(2)
			p.skipWS()
			prefix, err := p.ident()
			if err != nil {
				return nil, err
			}
			if err := p.expect('*', "after forward prefix"); err != nil {
				return nil, err
			}
			st.Prefix = prefix
		default:
			if err := p.endStmt(); err != nil {
				return nil, err
			}
			st.Span = p.spanFrom(start)
			return st, nil
		}
	}
}

// nameList reads comma separated member names; `$name` keeps the
// dollar so variables are distinguishable from mixins/functions.
func (p *Parser) nameList() ([]string, error) {
	var out []string
	for {
		p.skipWS()
		dollar := ""
		if p.peek() == '$' {
			p.advance()
			dollar = "$"
		}
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		out = append(out, dollar+name)
		p.skipWS()
		if p.peek() != ',' {
			return out, nil
		}
		p.advance()
	}
}

func (p *Parser) importStmt(start ast.Span) (ast.Stmt, error) {
	st := &ast.ImportStmt{}
	for {
		p.skipWS()
		sstart := p.here()
		var spec ast.ImportSpec
		if p.matchWord("url") && p.peekAt(3) == '(' {
			raw, err := p.rawCall("url")
			if err != nil {
				return nil, err
			}
			spec = ast.ImportSpec{Path: raw, IsCSS: true}
		} else {
			path, err := p.quotedPath()
			if err != nil {
				return nil, err
			}
			spec = ast.ImportSpec{Path: path, IsCSS: isPlainCSSImport(path)}
		}
		spec.Span = p.spanFrom(sstart)
		st.Specs = append(st.Specs, spec)
		p.skipWS()
		if p.peek() != ',' {
			break
		}
		p.advance()
	}
	// trailing media queries make the whole import plain CSS
	p.skipWS()
	if p.peek() != ';' && p.peek() != '}' && !p.eof() {
		media, err := p.interpUntil(";}")
		if err != nil {
			return nil, err
		}
		trimInterp(&media)
		if text := media.Plain(); text != "" {
			for i := range st.Specs {
				st.Specs[i].IsCSS = true
				st.Specs[i].Path += " " + text
			}
		}
	}
	if err := p.endStmt(); err != nil {
		return nil, err
	}
	st.Span = p.spanFrom(start)
	return st, nil
}

func isPlainCSSImport(path string) bool {
	return strings.HasSuffix(path, ".css") ||
		strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//")
}

// rawCall consumes `name(...)` verbatim, returning the full text.
func (p *Parser) rawCall(name string) (string, error) {
	p.advanceN(len(name))
	start := p.pos - len(name)
	depth := 0
	for !p.eof() {
		switch p.peek() {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				p.advance()
				return p.src[start:p.pos], nil
			}
		case '"', '\'':
			quote := p.advance()
			for !p.eof() && p.peek() != quote {
				if p.peek() == '\\' {
					p.advance()
				}
				if !p.eof() {
					p.advance()
				}
			}
			if p.eof() {
				return "", p.errf("unterminated string")
			}
		}
		p.advance()
	}
	return "", p.errf("unterminated %s()", name)
}

// genericAtRule handles @media, @supports, @font-face, @keyframes and
// anything else the evaluator passes through.
func (p *Parser) genericAtRule(start ast.Span, name string) (ast.Stmt, error) {
	p.skipWS()
	prelude, err := p.interpUntil("{;}")
	if err != nil {
		return nil, err
	}
	trimInterp(&prelude)
	st := &ast.AtRuleStmt{Name: name, Prelude: prelude}
	if p.peek() == '{' {
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		st.Body = body
		st.HasBody = true
	} else if err := p.endStmt(); err != nil {
		return nil, err
	}
	st.Span = p.spanFrom(start)
	return st, nil
}
