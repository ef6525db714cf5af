package value

import "fmt"

// ArgList is the value bound to a `...` rest parameter: a list plus
// any named arguments that were left over after binding.
type ArgList struct {
	List
	Keywords *Map // nil when no keyword overflow; keys are unquoted strings
}

// NewArgList builds an arg list over items with comma separation.
func NewArgList(items []Value) ArgList {
	return ArgList{List: List{Items: items, Sep: CommaSep}}
}

func (a ArgList) Kind() Kind { return KindArgList }

func (a ArgList) Equal(other Value) bool {
	switch o := other.(type) {
	case ArgList:
		return a.List.Equal(o.List)
	case List:
		return a.List.Equal(o)
	default:
		return false
	}
}

// Function is a first-class function reference as produced by
// `meta.get-function`. Ref is an opaque handle owned by the
// evaluator (a user function closure or a builtin entry); equality
// is identity on the handle.
type Function struct {
	Name string
	Ref  any
}

func (fn Function) Kind() Kind     { return KindFunction }
func (fn Function) IsTruthy() bool { return true }

func (fn Function) Equal(other Value) bool {
	o, ok := other.(Function)
	return ok && o.Ref == fn.Ref
}

func (fn Function) Inspect(Format) string {
	return fmt.Sprintf("get-function(%q)", fn.Name)
}

func (fn Function) CSS(f Format) (string, error) {
	return "", typeErrorf("%s is not a valid CSS value", fn.Inspect(f))
}
