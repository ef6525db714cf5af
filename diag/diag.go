// Package diag defines the structured diagnostics the compiler
// returns. The core never renders diagnostics to a stream; hosts
// format them however they want.
package diag

import (
	"fmt"

	"github.com/deftliang/grass/ast"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// ParseError is surfaced unchanged from the front end.
	ParseError Kind = iota
	TypeError
	UnitError
	UndefinedNameError
	ArityError
	ExtendTargetError
	ImportCycleError
	RuntimeLimitError
	IOError
)

var kindText = [...]string{
	"parse error",
	"type error",
	"unit error",
	"undefined name",
	"arity error",
	"extend target error",
	"import cycle",
	"runtime limit",
	"io error",
}

func (k Kind) String() string {
	if int(k) < len(kindText) {
		return kindText[k]
	}
	return "unknown error"
}

// Severity separates hard failures from collected warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityDeprecation
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityDeprecation:
		return "deprecation"
	default:
		return "error"
	}
}

// Diagnostic is a single structured message with source context.
type Diagnostic struct {
	Kind      Kind
	Severity  Severity
	Message   string
	Primary   ast.Span
	Secondary []ast.Span
}

func (d *Diagnostic) Error() string {
	if d.Primary.IsZero() {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Primary, d.Kind, d.Message)
}

// Errorf builds an error diagnostic without location. The evaluator
// attaches spans with At as errors travel up.
func Errorf(kind Kind, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// ErrorfAt builds an error diagnostic at span.
func ErrorfAt(kind Kind, span ast.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Severity: SeverityError, Message: fmt.Sprintf(format, args...), Primary: span}
}

// Warningf builds a warning diagnostic at span.
func Warningf(span ast.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: TypeError, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...), Primary: span}
}

// Deprecationf builds a deprecation diagnostic at span.
func Deprecationf(span ast.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: SeverityDeprecation, Message: fmt.Sprintf(format, args...), Primary: span}
}

// At attaches span to err when err is a Diagnostic without one, and
// wraps any other error into a diagnostic at span. A diagnostic that
// already carries a primary span is returned unchanged.
func At(err error, span ast.Span) error {
	if err == nil {
		return nil
	}
	if d, ok := err.(*Diagnostic); ok {
		if d.Primary.IsZero() {
			d.Primary = span
		}
		return d
	}
	return &Diagnostic{Kind: TypeError, Severity: SeverityError, Message: err.Error(), Primary: span}
}

// KindOf extracts the kind of err; ok is false for foreign errors.
func KindOf(err error) (Kind, bool) {
	if d, ok := err.(*Diagnostic); ok {
		return d.Kind, true
	}
	return 0, false
}
