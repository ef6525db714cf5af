package selector

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse parses selector text (with interpolation already resolved)
// into a List.
func Parse(text string) (List, error) {
	var list List
	for _, part := range splitTopLevel(text, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cx, err := parseComplex(part)
		if err != nil {
			return List{}, err
		}
		list.Members = append(list.Members, cx)
	}
	if list.IsEmpty() {
		return List{}, fmt.Errorf("empty selector %q", text)
	}
	return list, nil
}

// MustParse is Parse for static selectors in tests and builtins.
func MustParse(text string) List {
	l, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return l
}

// splitTopLevel splits on sep outside quotes, parens and brackets.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

type selScanner struct {
	src string
	pos int
}

func (s *selScanner) eof() bool { return s.pos >= len(s.src) }

func (s *selScanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *selScanner) skipSpace() bool {
	skipped := false
	for !s.eof() && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t' || s.src[s.pos] == '\n' || s.src[s.pos] == '\r') {
		s.pos++
		skipped = true
	}
	return skipped
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' || c == '\\' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func (s *selScanner) ident() string {
	start := s.pos
	for !s.eof() {
		c := s.src[s.pos]
		if c == '\\' && s.pos+1 < len(s.src) {
			s.pos += 2
			continue
		}
		if !isNameByte(c) {
			break
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

// balanced consumes up to the closing delimiter, honoring nesting and
// quotes, and returns the contents.
func (s *selScanner) balanced(open, close byte) (string, error) {
	depth := 1
	var quote byte
	start := s.pos
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case quote != 0:
			if c == '\\' {
				s.pos++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				out := s.src[start:s.pos]
				s.pos++
				return out, nil
			}
		}
		s.pos++
	}
	return "", fmt.Errorf("unterminated %q in selector %q", string(open), s.src)
}

func parseComplex(text string) (Complex, error) {
	sc := &selScanner{src: text}
	var cx Complex
	comb := Descendant
	combSet := false
	for {
		hadSpace := sc.skipSpace()
		if sc.eof() {
			break
		}
		switch sc.peek() {
		case '>':
			sc.pos++
			comb, combSet = Child, true
			continue
		case '+':
			sc.pos++
			comb, combSet = NextSibling, true
			continue
		case '~':
			sc.pos++
			comb, combSet = Following, true
			continue
		}
		if len(cx.Segments) > 0 && !combSet && !hadSpace {
			return Complex{}, fmt.Errorf("invalid selector %q", text)
		}
		compound, err := sc.compound()
		if err != nil {
			return Complex{}, err
		}
		cx.Segments = append(cx.Segments, Segment{Combinator: comb, Compound: compound})
		comb, combSet = Descendant, false
	}
	if len(cx.Segments) == 0 || combSet {
		return Complex{}, fmt.Errorf("invalid selector %q", text)
	}
	return cx, nil
}

func (s *selScanner) compound() (Compound, error) {
	var c Compound
	for !s.eof() {
		ch := s.peek()
		switch {
		case ch == '&':
			s.pos++
			c.Simples = append(c.Simples, Simple{Kind: Parent})
		case ch == '*':
			s.pos++
			c.Simples = append(c.Simples, Simple{Kind: Universal})
		case ch == '.':
			s.pos++
			name := s.ident()
			if name == "" {
				return Compound{}, fmt.Errorf("expected class name in selector %q", s.src)
			}
			c.Simples = append(c.Simples, Simple{Kind: Class, Name: name})
		case ch == '#':
			s.pos++
			name := s.ident()
			if name == "" {
				return Compound{}, fmt.Errorf("expected id in selector %q", s.src)
			}
			c.Simples = append(c.Simples, Simple{Kind: ID, Name: name})
		case ch == '%':
			s.pos++
			name := s.ident()
			if name == "" {
				return Compound{}, fmt.Errorf("expected placeholder name in selector %q", s.src)
			}
			c.Simples = append(c.Simples, Simple{Kind: Placeholder, Name: name})
		case ch == '[':
			s.pos++
			body, err := s.balanced('[', ']')
			if err != nil {
				return Compound{}, err
			}
			c.Simples = append(c.Simples, Simple{Kind: Attribute, Name: strings.TrimSpace(body)})
		case ch == ':':
			start := s.pos
			s.pos++
			if s.peek() == ':' {
				s.pos++
			}
			if s.ident() == "" {
				return Compound{}, fmt.Errorf("expected pseudo name in selector %q", s.src)
			}
			name := s.src[start:s.pos]
			var arg string
			if s.peek() == '(' {
				s.pos++
				body, err := s.balanced('(', ')')
				if err != nil {
					return Compound{}, err
				}
				arg = body
			}
			c.Simples = append(c.Simples, Simple{Kind: Pseudo, Name: name, Arg: arg})
		case isNameByte(ch) && !unicode.IsDigit(rune(ch)):
			name := s.ident()
			c.Simples = append(c.Simples, Simple{Kind: Type, Name: name})
		default:
			if c.IsEmpty() {
				return Compound{}, fmt.Errorf("unexpected %q in selector %q", string(ch), s.src)
			}
			return c, nil
		}
	}
	return c, nil
}
