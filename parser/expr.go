package parser

import (
	"strconv"
	"strings"

	"github.com/deftliang/grass/ast"
)

// expr parses a full expression: a comma separated list of space
// separated lists. A single element without commas stays unwrapped.
func (p *Parser) expr() (ast.Expr, error) {
	start := p.here()
	first, err := p.spaceList()
	if err != nil {
		return nil, err
	}
	m := p.save()
	p.skipWS()
	if p.peek() != ',' {
		p.restore(m)
		return first, nil
	}
	items := []ast.Expr{first}
	for p.peek() == ',' {
		p.advance()
		m = p.save()
		p.skipWS()
		if !p.startsExpr() {
			p.restore(m)
			break
		}
		item, err := p.spaceList()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		m = p.save()
		p.skipWS()
		if p.peek() != ',' {
			p.restore(m)
			break
		}
	}
	return &ast.ListExpr{Items: items, Sep: ast.SepComma, Span: p.spanFrom(start)}, nil
}

// spaceList parses one comma-level element: one or more operator
// expressions joined by whitespace.
func (p *Parser) spaceList() (ast.Expr, error) {
	start := p.here()
	first, err := p.singleExpr()
	if err != nil {
		return nil, err
	}
	items := []ast.Expr{first}
	for {
		m := p.save()
		p.skipWS()
		if !p.startsExpr() {
			p.restore(m)
			break
		}
		item, err := p.singleExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 1 {
		return first, nil
	}
	return &ast.ListExpr{Items: items, Sep: ast.SepSpace, Span: p.spanFrom(start)}, nil
}

// startsExpr reports whether the next byte can begin an expression.
// Statement terminators, operators and flags never do.
func (p *Parser) startsExpr() bool {
	if p.eof() {
		return false
	}
	switch c := p.peek(); {
	case c == ';' || c == '}' || c == '{' || c == ')' || c == ']' || c == ',' || c == ':' || c == '!':
		return false
	case c == '.':
		return isDigit(p.peekAt(1))
	case c == '$' || c == '&' || c == '(' || c == '[' || c == '"' || c == '\'' || c == '#':
		return true
	case c == '+':
		return true
	case c == '-':
		// a lone minus before a terminator is not an expression
		return isIdentByte(p.peekAt(1)) || p.peekAt(1) == '$' ||
			p.peekAt(1) == '(' || p.peekAt(1) == '.' || p.peekAt(1) == '#'
	case isDigit(c), isIdentStart(c):
		// binary keywords continue the current expression instead
		return !p.matchWord("and") && !p.matchWord("or") &&
			!p.matchWord("in") && !p.matchWord("to") && !p.matchWord("through")
	default:
		return false
	}
}

// singleExpr parses one operator expression (no lists).
func (p *Parser) singleExpr() (ast.Expr, error) { return p.orExpr() }

func (p *Parser) orExpr() (ast.Expr, error) {
	start := p.here()
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for {
		m := p.save()
		p.skipWS()
		if !p.matchWord("or") {
			p.restore(m)
			return left, nil
		}
		p.advanceN(2)
		p.skipWS()
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: ast.OpOr, Left: left, Right: right, Span: p.spanFrom(start)}
	}
}

func (p *Parser) andExpr() (ast.Expr, error) {
	start := p.here()
	left, err := p.eqExpr()
	if err != nil {
		return nil, err
	}
	for {
		m := p.save()
		p.skipWS()
		if !p.matchWord("and") {
			p.restore(m)
			return left, nil
		}
		p.advanceN(3)
		p.skipWS()
		right, err := p.eqExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: ast.OpAnd, Left: left, Right: right, Span: p.spanFrom(start)}
	}
}

func (p *Parser) eqExpr() (ast.Expr, error) {
	start := p.here()
	left, err := p.relExpr()
	if err != nil {
		return nil, err
	}
	for {
		m := p.save()
		p.skipWS()
		var op ast.BinOp
		switch {
		case p.hasPrefix("=="):
			op = ast.OpEq
		case p.hasPrefix("!="):
			op = ast.OpNe
		default:
			p.restore(m)
			return left, nil
		}
		p.advanceN(2)
		p.skipWS()
		right, err := p.relExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: p.spanFrom(start)}
	}
}

func (p *Parser) relExpr() (ast.Expr, error) {
	start := p.here()
	left, err := p.addExpr()
	if err != nil {
		return nil, err
	}
	for {
		m := p.save()
		p.skipWS()
		var op ast.BinOp
		var width int
		switch {
		case p.hasPrefix("<="):
			op, width = ast.OpLe, 2
		case p.hasPrefix(">="):
			op, width = ast.OpGe, 2
		case p.peek() == '<':
			op, width = ast.OpLt, 1
		case p.peek() == '>':
			op, width = ast.OpGt, 1
		default:
			p.restore(m)
			return left, nil
		}
		p.advanceN(width)
		p.skipWS()
		right, err := p.addExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: p.spanFrom(start)}
	}
}

func (p *Parser) addExpr() (ast.Expr, error) {
	start := p.here()
	left, err := p.mulExpr()
	if err != nil {
		return nil, err
	}
	for {
		m := p.save()
		spaceBefore := false
		for !p.eof() && (isSpace(p.peek()) || p.hasPrefix("/*") || p.hasPrefix("//")) {
			spaceBefore = true
			p.skipWS()
		}
		c := p.peek()
		if c != '+' && c != '-' {
			p.restore(m)
			return left, nil
		}
		// `1 -2` is a space list, `1-2`, `1 - 2` subtract
		if c == '-' && spaceBefore && !isSpace(p.peekAt(1)) {
			p.restore(m)
			return left, nil
		}
		op := ast.OpAdd
		if c == '-' {
			op = ast.OpSub
		}
		p.advance()
		p.skipWS()
		right, err := p.mulExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: p.spanFrom(start)}
	}
}

func (p *Parser) mulExpr() (ast.Expr, error) {
	start := p.here()
	left, err := p.unaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		m := p.save()
		p.skipWS()
		var op ast.BinOp
		switch p.peek() {
		case '*':
			op = ast.OpMul
		case '/':
			if p.peekAt(1) == '/' || p.peekAt(1) == '*' {
				p.restore(m)
				return left, nil
			}
			op = ast.OpDiv
		case '%':
			op = ast.OpMod
		default:
			p.restore(m)
			return left, nil
		}
		p.advance()
		p.skipWS()
		right, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		bin := &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: p.spanFrom(start)}
		if op == ast.OpDiv {
			bin.SlashSeparated = slashOperand(left) && slashOperand(right)
		}
		left = bin
	}
}

// slashOperand reports operands that keep `/` as a separator: bare
// literals and nested slash pairs. Variables, calls and arithmetic
// force division.
func slashOperand(e ast.Expr) bool {
	switch t := e.(type) {
	case *ast.NumberLit, *ast.ColorLit, *ast.StringLit:
		return true
	case *ast.BinaryExpr:
		return t.Op == ast.OpDiv && t.SlashSeparated
	default:
		return false
	}
}

func (p *Parser) unaryExpr() (ast.Expr, error) {
	start := p.here()
	switch {
	case p.matchWord("not"):
		p.advanceN(3)
		p.skipWS()
		x, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: "not", X: x, Span: p.spanFrom(start)}, nil
	case p.peek() == '-' && !isDigit(p.peekAt(1)) && p.peekAt(1) != '.':
		// `-$x`, `-(1)`, `-foo`; negative number literals lex whole
		if isIdentStart(p.peekAt(1)) && p.peekAt(1) != '\\' {
			// `-foo` is an identifier, not negation
			return p.primary()
		}
		p.advance()
		x, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: "-", X: x, Span: p.spanFrom(start)}, nil
	case p.peek() == '+' && !isDigit(p.peekAt(1)) && p.peekAt(1) != '.':
		p.advance()
		p.skipWS()
		x, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: "+", X: x, Span: p.spanFrom(start)}, nil
	default:
		return p.primary()
	}
}

// rawFunctions keep their argument text verbatim; their contents are
// CSS, not Sass expressions.
var rawFunctions = map[string]bool{
	"url":        true,
	"calc":       true,
	"element":    true,
	"expression": true,
	"var":        true,
	"clamp":      true,
}

func (p *Parser) primary() (ast.Expr, error) {
	start := p.here()
	switch c := p.peek(); {
	case c == '(':
		return p.parenExpr()
	case c == '[':
		return p.bracketList()
	case c == '"' || c == '\'':
		return p.quotedString()
	case c == '$':
		p.advance()
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		return &ast.VarExpr{Name: name, Span: p.spanFrom(start)}, nil
	case c == '&':
		p.advance()
		return &ast.ParentExpr{Span: p.spanFrom(start)}, nil
	case c == '#':
		if p.peekAt(1) == '{' {
			return p.identString()
		}
		return p.hexColor()
	case isDigit(c) || c == '.' || (c == '-' || c == '+') && (isDigit(p.peekAt(1)) || p.peekAt(1) == '.'):
		return p.number()
	case isIdentStart(c) || c == '-':
		return p.identExpr()
	default:
		return nil, p.errf("expected expression, found %q", c)
	}
}

// parenExpr parses `( ... )`: the empty map/list, a map literal, a
// parenthesized comma list, or a grouped expression.
func (p *Parser) parenExpr() (ast.Expr, error) {
	start := p.here()
	p.advance() // (
	p.skipWS()
	if p.peek() == ')' {
		p.advance()
		return &ast.ListExpr{Sep: ast.SepComma, Span: p.spanFrom(start)}, nil
	}
	first, err := p.spaceList()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	switch p.peek() {
	case ':':
		p.advance()
		p.skipWS()
		v, err := p.spaceList()
		if err != nil {
			return nil, err
		}
		pairs := []ast.MapPair{{Key: first, Value: v}}
		for {
			p.skipWS()
			if p.peek() == ')' {
				p.advance()
				return &ast.MapExpr{Pairs: pairs, Span: p.spanFrom(start)}, nil
			}
			if err := p.expect(',', "between map entries"); err != nil {
				return nil, err
			}
			p.skipWS()
			if p.peek() == ')' {
				p.advance()
				return &ast.MapExpr{Pairs: pairs, Span: p.spanFrom(start)}, nil
			}
			k, err := p.spaceList()
			if err != nil {
				return nil, err
			}
			p.skipWS()
			if err := p.expect(':', "after map key"); err != nil {
				return nil, err
			}
			p.skipWS()
			v, err := p.spaceList()
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, ast.MapPair{Key: k, Value: v})
		}
	case ',':
		items := []ast.Expr{first}
		for p.peek() == ',' {
			p.advance()
			p.skipWS()
			if p.peek() == ')' {
				break
			}
			item, err := p.spaceList()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			p.skipWS()
		}
		if err := p.expect(')', "to close list"); err != nil {
			return nil, err
		}
		return &ast.ListExpr{Items: items, Sep: ast.SepComma, Span: p.spanFrom(start)}, nil
	default:
		if err := p.expect(')', "to close parenthesized expression"); err != nil {
			return nil, err
		}
		return &ast.ParenExpr{X: first, Span: p.spanFrom(start)}, nil
	}
}

func (p *Parser) bracketList() (ast.Expr, error) {
	start := p.here()
	p.advance() // [
	out := &ast.ListExpr{Sep: ast.SepSpace, Bracketed: true}
	p.skipWS()
	if p.peek() == ']' {
		p.advance()
		out.Span = p.spanFrom(start)
		return out, nil
	}
	inner, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if err := p.expect(']', "to close bracketed list"); err != nil {
		return nil, err
	}
	switch t := inner.(type) {
	case *ast.ListExpr:
		out.Items = t.Items
		out.Sep = t.Sep
	default:
		out.Items = []ast.Expr{inner}
	}
	out.Span = p.spanFrom(start)
	return out, nil
}

func (p *Parser) quotedString() (ast.Expr, error) {
	start := p.here()
	quote := p.advance()
	parts := ast.Interp{Span: start}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts.Parts = append(parts.Parts, ast.InterpPart{Text: lit.String()})
			lit.Reset()
		}
	}
	for !p.eof() && p.peek() != quote {
		switch {
		case p.hasPrefix("#{"):
			flush()
			e, err := p.interpolation()
			if err != nil {
				return nil, err
			}
			parts.Parts = append(parts.Parts, ast.InterpPart{Expr: e})
		case p.peek() == '\\':
			p.advance()
			if p.eof() {
				break
			}
			lit.WriteString(unescape(p.advance(), p))
		default:
			lit.WriteByte(p.advance())
		}
	}
	if p.eof() {
		return nil, p.errAt(start, "unterminated string")
	}
	p.advance()
	flush()
	parts.Span = p.spanFrom(start)
	return &ast.StringLit{Parts: parts, Quoted: true, Span: parts.Span}, nil
}

// unescape resolves a backslash escape inside a quoted string. Hex
// escapes consume up to six digits plus one optional space.
func unescape(c byte, p *Parser) string {
	isHex := func(b byte) bool {
		return isDigit(b) || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
	}
	if !isHex(c) {
		if c == '\n' {
			return ""
		}
		return string(c)
	}
	hex := []byte{c}
	for len(hex) < 6 && isHex(p.peek()) {
		hex = append(hex, p.advance())
	}
	if p.peek() == ' ' {
		p.advance()
	}
	n, err := strconv.ParseUint(string(hex), 16, 32)
	if err != nil || n == 0 || n > 0x10ffff {
		return "�"
	}
	return string(rune(n))
}

func (p *Parser) hexColor() (ast.Expr, error) {
	start := p.here()
	p.advance() // #
	digits := p.pos
	isHex := func(b byte) bool {
		return isDigit(b) || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
	}
	for !p.eof() && isHex(p.peek()) {
		p.advance()
	}
	hex := p.src[digits:p.pos]
	span := p.spanFrom(start)
	var r, g, b, a uint64
	a = 255
	parse2 := func(s string) uint64 {
		v, _ := strconv.ParseUint(s, 16, 16)
		return v
	}
	switch len(hex) {
	case 3, 4:
		r = parse2(strings.Repeat(hex[0:1], 2))
		g = parse2(strings.Repeat(hex[1:2], 2))
		b = parse2(strings.Repeat(hex[2:3], 2))
		if len(hex) == 4 {
			a = parse2(strings.Repeat(hex[3:4], 2))
		}
	case 6, 8:
		r = parse2(hex[0:2])
		g = parse2(hex[2:4])
		b = parse2(hex[4:6])
		if len(hex) == 8 {
			a = parse2(hex[6:8])
		}
	default:
		return nil, p.errAt(span, "invalid hex color #%s", hex)
	}
	return &ast.ColorLit{
		R: float64(r), G: float64(g), B: float64(b), A: float64(a) / 255,
		Original: "#" + hex, Span: span,
	}, nil
}

func (p *Parser) number() (ast.Expr, error) {
	start := p.here()
	ns := p.pos
	if p.peek() == '-' || p.peek() == '+' {
		p.advance()
	}
	for isDigit(p.peek()) {
		p.advance()
	}
	if p.peek() == '.' && isDigit(p.peekAt(1)) {
		p.advance()
		for isDigit(p.peek()) {
			p.advance()
		}
	}
	// exponent only when unambiguous with an `em`-style unit
	if c := p.peek(); c == 'e' || c == 'E' {
		next := p.peekAt(1)
		if isDigit(next) || (next == '+' || next == '-') && isDigit(p.peekAt(2)) {
			p.advance()
			if p.peek() == '+' || p.peek() == '-' {
				p.advance()
			}
			for isDigit(p.peek()) {
				p.advance()
			}
		}
	}
	text := p.src[ns:p.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errf("invalid number %q", text)
	}
	unit := ""
	if p.peek() == '%' {
		p.advance()
		unit = "%"
	} else if isIdentStart(p.peek()) {
		u, err := p.ident()
		if err != nil {
			return nil, err
		}
		unit = u
	}
	return &ast.NumberLit{Value: v, Unit: unit, Span: p.spanFrom(start)}, nil
}

// identString parses an identifier that begins with interpolation.
func (p *Parser) identString() (ast.Expr, error) {
	in, err := p.identInterp()
	if err != nil {
		return nil, err
	}
	return &ast.StringLit{Parts: in, Span: in.Span}, nil
}

// identExpr parses everything that starts with an identifier: keyword
// literals, named colors, function calls, namespaced members and plain
// unquoted strings.
func (p *Parser) identExpr() (ast.Expr, error) {
	start := p.here()
	in, err := p.identInterp()
	if err != nil {
		return nil, err
	}
	span := p.spanFrom(start)

	if in.IsPlain() {
		name := in.Plain()
		switch name {
		case "true":
			return &ast.BoolLit{Value: true, Span: span}, nil
		case "false":
			return &ast.BoolLit{Value: false, Span: span}, nil
		case "null":
			return &ast.NullLit{Span: span}, nil
		}

		// namespaced member: ns.$var or ns.fn(...)
		if p.peek() == '.' && (p.peekAt(1) == '$' || isIdentStart(p.peekAt(1))) {
			p.advance()
			if p.peek() == '$' {
				p.advance()
				vn, err := p.ident()
				if err != nil {
					return nil, err
				}
				return &ast.VarExpr{Namespace: name, Name: vn, Span: p.spanFrom(start)}, nil
			}
			fn, err := p.ident()
			if err != nil {
				return nil, err
			}
			if p.peek() != '(' {
				return nil, p.errf("expected \"(\" after %s.%s", name, fn)
			}
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			return &ast.CallExpr{Namespace: name, Name: fn, Args: args, Span: p.spanFrom(start)}, nil
		}

		if p.peek() == '(' {
			if rawFunctions[strings.ToLower(name)] {
				raw, err := p.rawCall("")
				if err != nil {
					return nil, err
				}
				text := ast.Interp{Span: p.spanFrom(start),
					Parts: []ast.InterpPart{{Text: name + raw}}}
				return &ast.StringLit{Parts: text, Span: text.Span}, nil
			}
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			return &ast.CallExpr{Name: name, Args: args, Span: p.spanFrom(start)}, nil
		}

		if c, ok := cssColors[strings.ToLower(name)]; ok {
			return &ast.ColorLit{R: c.r, G: c.g, B: c.b, A: 1, Original: name, Span: span}, nil
		}
	}
	return &ast.StringLit{Parts: in, Span: span}, nil
}

// argList parses `( a, $name: b, $rest... )`.
func (p *Parser) argList() ([]ast.Arg, error) {
	if err := p.expect('(', "to open argument list"); err != nil {
		return nil, err
	}
	var args []ast.Arg
	for {
		p.skipWS()
		if p.peek() == ')' {
			p.advance()
			return args, nil
		}
		astart := p.here()
		var arg ast.Arg
		if p.peek() == '$' {
			m := p.save()
			p.advance()
			name, err := p.ident()
			if err != nil {
				return nil, err
			}
			p.skipWS()
			if p.peek() == ':' && p.peekAt(1) != '=' {
				p.advance()
				p.skipWS()
				v, err := p.spaceList()
				if err != nil {
					return nil, err
				}
				arg = ast.Arg{Name: name, Value: v}
			} else {
				p.restore(m)
			}
		}
		if arg.Value == nil {
			v, err := p.spaceList()
			if err != nil {
				return nil, err
			}
			arg = ast.Arg{Value: v}
			p.skipWS()
			if p.hasPrefix("...") {
				p.advanceN(3)
				arg.Spread = true
			}
		}
		arg.Span = p.spanFrom(astart)
		args = append(args, arg)
		p.skipWS()
		switch p.peek() {
		case ',':
			p.advance()
		case ')':
		default:
			return nil, p.errf("expected \",\" or \")\" in argument list")
		}
	}
}
