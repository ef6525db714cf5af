// Package css defines the output CSS node tree the evaluator builds
// and the writer that linearizes it to text. The tree is output-only:
// once the evaluator hands it to the writer nothing mutates it.
package css

import (
	"strings"

	"github.com/deftliang/grass/ast"
	"github.com/deftliang/grass/selector"
)

// Node is one node of the output tree.
type Node interface {
	node()
}

// StyleSheet is the root of the produced tree.
type StyleSheet struct {
	Nodes []Node
}

// Rule is a style rule with a flattened selector list.
type Rule struct {
	Selector selector.List
	Nodes    []Node
	Span     ast.Span
}

// AtRule is an at-rule, with or without a block.
type AtRule struct {
	Name    string
	Prelude string
	Nodes   []Node
	HasBody bool
	Span    ast.Span
}

// Decl is a single declaration; Prop and Value carry final text with
// interpolation resolved and values serialized.
type Decl struct {
	Prop      string
	Value     string
	Important bool
	Span      ast.Span
}

// Comment is a loud comment preserved from the source.
type Comment struct {
	Text string
	Span ast.Span
}

func (*Rule) node()    {}
func (*AtRule) node()  {}
func (*Decl) node()    {}
func (*Comment) node() {}

// hasOutput reports whether a node produces any text: rules need at
// least one declaration, comment or non-empty nested rule.
func hasOutput(n Node) bool {
	switch t := n.(type) {
	case *Decl, *Comment:
		return true
	case *Rule:
		if t.Selector.IsEmpty() {
			return false
		}
		for _, c := range t.Nodes {
			if hasOutput(c) {
				return true
			}
		}
		return false
	case *AtRule:
		if !t.HasBody {
			return true
		}
		for _, c := range t.Nodes {
			if hasOutput(c) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// EscapeIdent escapes a string for use as a CSS identifier: code
// points outside [A-Za-z0-9_-] are backslash escaped, and a leading
// digit is escaped numerically.
func EscapeIdent(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || r == '-' ||
			('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') ||
			('0' <= r && r <= '9' && i > 0):
			b.WriteRune(r)
		case '0' <= r && r <= '9':
			// leading digit
			b.WriteString("\\3")
			b.WriteRune(r)
			b.WriteByte(' ')
		case r >= 0x80:
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
