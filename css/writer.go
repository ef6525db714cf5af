package css

import (
	"io"
	"strings"

	"github.com/deftliang/grass/ast"
)

// Mapping links a position in the produced text back to the original
// source span, for source map generation.
type Mapping struct {
	Line   int // 1 based line in the output
	Col    int // 1 based column in the output
	Source ast.Span
}

// Writer serializes a StyleSheet in document order. Rules with no
// declarations and no non-empty nested rules are omitted entirely.
type Writer struct {
	Style     Style
	SourceMap bool

	mappings []Mapping
}

// NewWriter returns a writer for the requested style.
func NewWriter(style Style) *Writer {
	return &Writer{Style: style}
}

// Mappings returns the source map records produced by the last Write.
func (w *Writer) Mappings() []Mapping { return w.mappings }

// Write renders the sheet and returns the text.
func (w *Writer) Write(sheet *StyleSheet) (string, error) {
	var b strings.Builder
	if _, err := w.WriteTo(&b, sheet); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteTo renders the sheet into out.
func (w *Writer) WriteTo(out io.Writer, sheet *StyleSheet) (int64, error) {
	w.mappings = nil
	p := &printer{out: out, style: w.Style}
	for _, n := range sheet.Nodes {
		if !hasOutput(n) {
			continue
		}
		if p.style == StyleExpanded && p.written > 0 {
			p.print("\n")
		}
		w.node(p, n)
		if p.err != nil {
			break
		}
	}
	return p.written, p.err
}

func (w *Writer) node(p *printer, n Node) {
	switch t := n.(type) {
	case *Rule:
		w.rule(p, t)
	case *AtRule:
		w.atRule(p, t)
	case *Decl:
		w.decl(p, t)
	case *Comment:
		// compressed output keeps only /*! comments
		if p.style == StyleCompressed && !strings.HasPrefix(t.Text, "/*!") {
			return
		}
		p.indentIn()
		p.print(t.Text)
		if p.style == StyleExpanded {
			p.print("\n")
		}
	}
}

func (w *Writer) record(p *printer, span ast.Span) {
	if !w.SourceMap || span.IsZero() {
		return
	}
	line, col := p.line, p.col
	if line == 0 {
		// nothing printed yet
		line, col = 1, 1
	}
	w.mappings = append(w.mappings, Mapping{Line: line, Col: col, Source: span})
}

func (w *Writer) rule(p *printer, r *Rule) {
	p.indentIn()
	w.record(p, r.Span)
	sep := ", "
	if p.style == StyleCompressed {
		sep = ","
	}
	members := make([]string, len(r.Selector.Members))
	for i, m := range r.Selector.Members {
		members[i] = m.String()
	}
	p.print(strings.Join(members, sep))
	p.openBlock()
	w.children(p, r.Nodes)
	p.closeBlock()
}

func (w *Writer) atRule(p *printer, r *AtRule) {
	p.indentIn()
	w.record(p, r.Span)
	p.print("@" + r.Name)
	if r.Prelude != "" {
		p.print(" " + r.Prelude)
	}
	if !r.HasBody {
		p.terminate()
		return
	}
	p.openBlock()
	w.children(p, r.Nodes)
	p.closeBlock()
}

func (w *Writer) children(p *printer, nodes []Node) {
	first := true
	for _, c := range nodes {
		if !hasOutput(c) {
			continue
		}
		if !first && p.style == StyleExpanded {
			if _, isRule := c.(*Rule); isRule {
				p.print("\n")
			} else if _, isAt := c.(*AtRule); isAt {
				p.print("\n")
			}
		}
		w.node(p, c)
		first = false
	}
}

func (w *Writer) decl(p *printer, d *Decl) {
	p.indentIn()
	w.record(p, d.Span)
	p.print(EscapeIdent(d.Prop))
	if p.style == StyleCompressed {
		p.print(":")
	} else {
		p.print(": ")
	}
	p.print(d.Value)
	if d.Important {
		if p.style == StyleCompressed {
			p.print("!important")
		} else {
			p.print(" !important")
		}
	}
	p.terminate()
}

// printer tracks output position and indentation while counting
// written bytes for the io.WriterTo contract.
type printer struct {
	out     io.Writer
	style   Style
	depth   int
	written int64
	line    int // 1 based, current position
	col     int
	err     error

	// pendingSemi delays the statement terminator in compressed
	// output so the final declaration of a block ends without one
	pendingSemi bool
}

func (p *printer) print(s string) {
	if p.err != nil || s == "" {
		return
	}
	if p.line == 0 {
		p.line, p.col = 1, 1
	}
	n, err := io.WriteString(p.out, s)
	p.written += int64(n)
	p.err = err
	for _, r := range s {
		if r == '\n' {
			p.line++
			p.col = 1
		} else {
			p.col++
		}
	}
}

func (p *printer) flushSemi() {
	if p.pendingSemi {
		p.pendingSemi = false
		p.print(";")
	}
}

func (p *printer) indentIn() {
	p.flushSemi()
	if p.style == StyleExpanded {
		p.print(strings.Repeat("  ", p.depth))
	}
}

func (p *printer) openBlock() {
	if p.style == StyleCompressed {
		p.print("{")
	} else {
		p.print(" {\n")
	}
	p.depth++
}

func (p *printer) closeBlock() {
	p.pendingSemi = false
	p.depth--
	if p.style == StyleCompressed {
		p.print("}")
	} else {
		p.print(strings.Repeat("  ", p.depth))
		p.print("}\n")
	}
}

func (p *printer) terminate() {
	if p.style == StyleCompressed {
		p.pendingSemi = true
	} else {
		p.print(";\n")
	}
}
