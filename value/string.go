package value

import "strings"

// Str is a string that remembers whether it was quoted. Interpolation
// always produces unquoted fragments; quote state otherwise survives
// evaluation untouched.
type Str struct {
	Text   string
	Quoted bool
}

// QuotedStr builds a quoted string value.
func QuotedStr(s string) Str { return Str{Text: s, Quoted: true} }

// Unquoted builds an unquoted (identifier-like) string value.
func Unquoted(s string) Str { return Str{Text: s} }

func (s Str) Kind() Kind     { return KindString }
func (s Str) IsTruthy() bool { return true }

// Equal ignores quoting: "a" == a in Sass.
func (s Str) Equal(other Value) bool {
	o, ok := other.(Str)
	return ok && o.Text == s.Text
}

func (s Str) Inspect(Format) string {
	if s.Quoted {
		return quoteText(s.Text)
	}
	return s.Text
}

func (s Str) CSS(Format) (string, error) {
	if s.Quoted {
		return quoteText(s.Text), nil
	}
	return s.Text, nil
}

// quoteText renders text inside double quotes, switching to single
// quotes when that avoids escaping.
func quoteText(text string) string {
	hasDouble := strings.Contains(text, `"`)
	hasSingle := strings.Contains(text, "'")
	quote := byte('"')
	if hasDouble && !hasSingle {
		quote = '\''
	}
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte(quote)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == quote || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\a `)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
