package ast

import "fmt"

// Span locates a node in its source file. Positions are byte based,
// Line and Col are 1 based and computed by the scanner.
type Span struct {
	File   string
	Offset int
	Line   int
	Col    int
	Len    int
}

// IsZero reports whether the span carries no location at all.
func (s Span) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Col == 0
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Col)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// To extends the span to cover everything up to the end of other.
func (s Span) To(other Span) Span {
	if other.Offset+other.Len > s.Offset {
		s.Len = other.Offset + other.Len - s.Offset
	}
	return s
}
