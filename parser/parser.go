// Package parser turns SCSS source text into the read-only syntax
// tree the evaluator consumes. It is a hand-written recursive descent
// parser working directly on the source bytes; spans carry file,
// offset and line/column for diagnostics.
package parser

import (
	"strings"

	"go.uber.org/zap"

	"github.com/deftliang/grass/ast"
	"github.com/deftliang/grass/diag"
)

// Parser holds the scan state of one source file.
type Parser struct {
	src  string
	file string
	pos  int
	line int
	col  int
	log  *zap.Logger
}

// New prepares a parser over src. file is used in spans only.
func New(src, file string, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{src: src, file: file, line: 1, col: 1, log: log.Named("parser")}
}

// Parse is the convenience entry point for hosts without a logger.
func Parse(src, file string) (*ast.StyleSheet, error) {
	return New(src, file, nil).Parse()
}

// Parse consumes the whole source and returns the stylesheet.
func (p *Parser) Parse() (*ast.StyleSheet, error) {
	stmts, err := p.stmtList(false)
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errf("unexpected %q", p.peek())
	}
	p.log.Debug("parsed", zap.String("file", p.file), zap.Int("statements", len(stmts)))
	return &ast.StyleSheet{Name: p.file, Stmts: stmts}, nil
}

// ---------------------------------------------------------------------------
// scan state

type mark struct{ pos, line, col int }

func (p *Parser) save() mark        { return mark{p.pos, p.line, p.col} }
func (p *Parser) restore(m mark)    { p.pos, p.line, p.col = m.pos, m.line, m.col }
func (p *Parser) eof() bool         { return p.pos >= len(p.src) }
func (p *Parser) peek() byte        { return p.peekAt(0) }

func (p *Parser) peekAt(n int) byte {
	if p.pos+n >= len(p.src) {
		return 0
	}
	return p.src[p.pos+n]
}

func (p *Parser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

// matchWord reports whether the next token is exactly the keyword w.
func (p *Parser) matchWord(w string) bool {
	if !p.hasPrefix(w) {
		return false
	}
	return !isIdentByte(p.peekAt(len(w)))
}

func (p *Parser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return c
}

func (p *Parser) advanceN(n int) {
	for i := 0; i < n && !p.eof(); i++ {
		p.advance()
	}
}

func (p *Parser) here() ast.Span {
	return ast.Span{File: p.file, Offset: p.pos, Line: p.line, Col: p.col}
}

func (p *Parser) spanFrom(start ast.Span) ast.Span {
	start.Len = p.pos - start.Offset
	return start
}

func (p *Parser) errf(format string, args ...any) error {
	return diag.ErrorfAt(diag.ParseError, p.here(), format, args...)
}

func (p *Parser) errAt(span ast.Span, format string, args ...any) error {
	return diag.ErrorfAt(diag.ParseError, span, format, args...)
}

// skipWS skips whitespace and both comment forms. Used inside
// expressions and preludes where comments never reach the output.
func (p *Parser) skipWS() {
	for !p.eof() {
		switch {
		case isSpace(p.peek()):
			p.advance()
		case p.hasPrefix("//"):
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
		case p.hasPrefix("/*"):
			p.advanceN(2)
			for !p.eof() && !p.hasPrefix("*/") {
				p.advance()
			}
			p.advanceN(2)
		default:
			return
		}
	}
}

// skipBlanks skips whitespace and silent comments only; loud comments
// stay for the statement loop to keep.
func (p *Parser) skipBlanks() {
	for !p.eof() {
		switch {
		case isSpace(p.peek()):
			p.advance()
		case p.hasPrefix("//"):
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
		default:
			return
		}
	}
}

func (p *Parser) expect(c byte, what string) error {
	if p.peek() != c {
		return p.errf("expected %q %s", c, what)
	}
	p.advance()
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80 || c == '\\'
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-'
}

// ---------------------------------------------------------------------------
// statements

func (p *Parser) stmtList(nested bool) ([]ast.Stmt, error) {
	var out []ast.Stmt
	for {
		p.skipBlanks()
		if p.eof() {
			return out, nil
		}
		switch {
		case p.peek() == '}':
			if !nested {
				return nil, p.errf("unmatched \"}\"")
			}
			return out, nil
		case p.peek() == ';':
			p.advance()
		case p.hasPrefix("/*"):
			st, err := p.commentStmt()
			if err != nil {
				return nil, err
			}
			out = append(out, st)
		default:
			st, err := p.statement()
			if err != nil {
				return nil, err
			}
			if st != nil {
				out = append(out, st)
			}
		}
	}
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch p.peek() {
	case '$':
		return p.varDecl()
	case '@':
		return p.atRule()
	default:
		return p.ruleOrDecl()
	}
}

func (p *Parser) commentStmt() (ast.Stmt, error) {
	start := p.here()
	text := ast.Interp{Span: start}
	var lit strings.Builder
	p.advanceN(2)
	lit.WriteString("/*")
	for !p.eof() && !p.hasPrefix("*/") {
		if p.hasPrefix("#{") {
			if lit.Len() > 0 {
				text.Parts = append(text.Parts, ast.InterpPart{Text: lit.String()})
				lit.Reset()
			}
			e, err := p.interpolation()
			if err != nil {
				return nil, err
			}
			text.Parts = append(text.Parts, ast.InterpPart{Expr: e})
			continue
		}
		lit.WriteByte(p.advance())
	}
	if p.eof() {
		return nil, p.errAt(start, "unterminated comment")
	}
	p.advanceN(2)
	lit.WriteString("*/")
	text.Parts = append(text.Parts, ast.InterpPart{Text: lit.String()})
	text.Span = p.spanFrom(start)
	return &ast.CommentStmt{Text: text, Span: text.Span}, nil
}

// interpolation consumes `#{expr}` and returns the expression.
func (p *Parser) interpolation() (ast.Expr, error) {
	p.advanceN(2)
	p.skipWS()
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if err := p.expect('}', "to close interpolation"); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) varDecl() (ast.Stmt, error) {
	start := p.here()
	p.advance() // $
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if err := p.expect(':', "after variable name"); err != nil {
		return nil, err
	}
	p.skipWS()
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	st := &ast.VarDeclStmt{Name: name, Value: value}
	for {
		p.skipWS()
		if p.peek() != '!' {
			break
		}
		p.advance()
		flag, err := p.ident()
		if err != nil {
			return nil, err
		}
		switch flag {
		case "default":
			st.Default = true
		case "global":
			st.Global = true
		default:
			return nil, p.errf("invalid flag !%s", flag)
		}
	}
	if err := p.endStmt(); err != nil {
		return nil, err
	}
	st.Span = p.spanFrom(start)
	return st, nil
}

// endStmt consumes an optional ";" and accepts "}" or EOF without
// consuming them.
func (p *Parser) endStmt() error {
	p.skipWS()
	switch {
	case p.eof(), p.peek() == '}':
		return nil
	case p.peek() == ';':
		p.advance()
		return nil
	default:
		return p.errf("expected \";\"")
	}
}

// block consumes `{ ... }`.
func (p *Parser) block() ([]ast.Stmt, error) {
	p.skipWS()
	if err := p.expect('{', "to open a block"); err != nil {
		return nil, err
	}
	stmts, err := p.stmtList(true)
	if err != nil {
		return nil, err
	}
	if err := p.expect('}', "to close the block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

// ident reads a plain identifier without interpolation. Leading
// hyphens are allowed (custom properties, vendor prefixes).
func (p *Parser) ident() (string, error) {
	start := p.pos
	for p.peek() == '-' {
		p.advance()
	}
	if !isIdentStart(p.peek()) {
		return "", p.errf("expected identifier")
	}
	for !p.eof() && isIdentByte(p.peek()) {
		if p.peek() == '\\' {
			p.advance()
			if !p.eof() {
				p.advance()
			}
			continue
		}
		p.advance()
	}
	return p.src[start:p.pos], nil
}

// identInterp reads an identifier that may contain `#{...}` parts.
func (p *Parser) identInterp() (ast.Interp, error) {
	start := p.here()
	out := ast.Interp{Span: start}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			out.Parts = append(out.Parts, ast.InterpPart{Text: lit.String()})
			lit.Reset()
		}
	}
	for !p.eof() {
		switch {
		case p.hasPrefix("#{"):
			flush()
			e, err := p.interpolation()
			if err != nil {
				return out, err
			}
			out.Parts = append(out.Parts, ast.InterpPart{Expr: e})
		case isIdentByte(p.peek()):
			if p.peek() == '\\' {
				lit.WriteByte(p.advance())
				if !p.eof() {
					lit.WriteByte(p.advance())
				}
				continue
			}
			lit.WriteByte(p.advance())
		default:
			flush()
			if len(out.Parts) == 0 {
				return out, p.errf("expected identifier")
			}
			out.Span = p.spanFrom(start)
			return out, nil
		}
	}
	flush()
	out.Span = p.spanFrom(start)
	return out, nil
}

// interpUntil copies raw text into an Interp until one of the stop
// bytes appears outside brackets, quotes and interpolation.
func (p *Parser) interpUntil(stops string) (ast.Interp, error) {
	start := p.here()
	out := ast.Interp{Span: start}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			out.Parts = append(out.Parts, ast.InterpPart{Text: lit.String()})
			lit.Reset()
		}
	}
	depth := 0
	for !p.eof() {
		c := p.peek()
		if depth == 0 && strings.IndexByte(stops, c) >= 0 {
			break
		}
		switch {
		case p.hasPrefix("#{"):
			flush()
			e, err := p.interpolation()
			if err != nil {
				return out, err
			}
			out.Parts = append(out.Parts, ast.InterpPart{Expr: e})
			continue
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == '"' || c == '\'':
			quote := c
			lit.WriteByte(p.advance())
			for !p.eof() && p.peek() != quote {
				if p.peek() == '\\' {
					lit.WriteByte(p.advance())
					if p.eof() {
						break
					}
				}
				lit.WriteByte(p.advance())
			}
			if p.eof() {
				return out, p.errAt(start, "unterminated string")
			}
			lit.WriteByte(p.advance())
			continue
		case p.hasPrefix("//"), p.hasPrefix("/*"):
			p.skipWS()
			lit.WriteByte(' ')
			continue
		}
		lit.WriteByte(p.advance())
	}
	flush()
	out.Span = p.spanFrom(start)
	return out, nil
}

// ---------------------------------------------------------------------------
// rule vs declaration

// looksLikeDecl scans ahead to decide between a style rule and a
// declaration. A "{" seen before ";"/"}" means a rule, unless the text
// up to it reads like `property: value` (nested property block).
func (p *Parser) looksLikeDecl() bool {
	depth := 0
	i := p.pos
	colon := -1
	for i < len(p.src) {
		c := p.src[i]
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '"', '\'':
			quote := c
			i++
			for i < len(p.src) && p.src[i] != quote {
				if p.src[i] == '\\' {
					i++
				}
				i++
			}
		case '#':
			if i+1 < len(p.src) && p.src[i+1] == '{' {
				// skip balanced interpolation
				d := 0
				for ; i < len(p.src); i++ {
					if p.src[i] == '{' {
						d++
					} else if p.src[i] == '}' {
						d--
						if d == 0 {
							break
						}
					}
				}
			}
		case ':':
			if depth == 0 && colon < 0 {
				colon = i
			}
		case ';', '}':
			if depth == 0 {
				return true
			}
		case '{':
			if depth == 0 {
				return p.declWithBlock(colon, i)
			}
		}
		i++
	}
	return true
}

// declWithBlock decides whether text ending in "{" is a nested
// property declaration: an identifier-like name, a colon with trailing
// whitespace, no selector punctuation before it.
func (p *Parser) declWithBlock(colon, brace int) bool {
	if colon < 0 || colon+1 >= len(p.src) || !isSpace(p.src[colon+1]) {
		return false
	}
	name := strings.TrimSpace(p.src[p.pos:colon])
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isIdentByte(name[i]) {
			return false
		}
	}
	_ = brace
	return true
}

func (p *Parser) ruleOrDecl() (ast.Stmt, error) {
	if p.looksLikeDecl() {
		return p.declaration()
	}
	return p.rule()
}

func (p *Parser) rule() (ast.Stmt, error) {
	start := p.here()
	sel, err := p.interpUntil("{;}")
	if err != nil {
		return nil, err
	}
	trimInterp(&sel)
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.RuleStmt{Selector: sel, Body: body, Span: p.spanFrom(start)}, nil
}

func (p *Parser) declaration() (ast.Stmt, error) {
	start := p.here()
	name, err := p.identInterp()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if err := p.expect(':', "after property name"); err != nil {
		return nil, err
	}
	st := &ast.DeclStmt{Name: name}

	if strings.HasPrefix(name.Plain(), "--") && name.IsPlain() {
		// custom properties keep their value verbatim
		raw, err := p.interpUntil(";}")
		if err != nil {
			return nil, err
		}
		trimInterp(&raw)
		st.Value = &ast.StringLit{Parts: raw, Span: raw.Span}
		if err := p.endStmt(); err != nil {
			return nil, err
		}
		st.Span = p.spanFrom(start)
		return st, nil
	}

	p.skipWS()
	if p.peek() != '{' {
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		st.Value = value
		p.skipWS()
		if p.peek() == '!' {
			m := p.save()
			p.advance()
			word, err := p.ident()
			if err != nil || !strings.EqualFold(word, "important") {
				p.restore(m)
				return nil, p.errf("expected !important")
			}
			st.Important = true
			p.skipWS()
		}
	}
	if p.peek() == '{' {
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		st.Body = body
	} else if err := p.endStmt(); err != nil {
		return nil, err
	}
	st.Span = p.spanFrom(start)
	return st, nil
}

// trimInterp strips leading/trailing whitespace from the literal edges
// of an interpolation.
func trimInterp(in *ast.Interp) {
	if len(in.Parts) == 0 {
		return
	}
	first := &in.Parts[0]
	if first.Expr == nil {
		first.Text = strings.TrimLeft(first.Text, " \t\r\n\f")
	}
	last := &in.Parts[len(in.Parts)-1]
	if last.Expr == nil {
		last.Text = strings.TrimRight(last.Text, " \t\r\n\f")
	}
	var parts []ast.InterpPart
	for _, part := range in.Parts {
		if part.Expr == nil && part.Text == "" {
			continue
		}
		parts = append(parts, part)
	}
	in.Parts = parts
}
