// Package ast defines the span-annotated syntax tree produced by the
// parser and consumed by the evaluator. Nodes are never mutated after
// parsing; the evaluator treats the whole tree as read-only input.
package ast

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Span
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// StyleSheet is a parsed source file.
type StyleSheet struct {
	Name  string // file name as given to the parser
	Stmts []Stmt
}

// Interp is interpolated text: a sequence of literal fragments and
// #{...} expressions. Selectors, property names and at-rule preludes
// are kept in this form until the evaluator resolves them.
type Interp struct {
	Span  Span
	Parts []InterpPart
}

// InterpPart is one fragment of an Interp. Exactly one of Text or
// Expr is meaningful; Expr wins when non-nil.
type InterpPart struct {
	Text string
	Expr Expr
}

func (i Interp) Pos() Span { return i.Span }

// IsPlain reports whether the interpolation contains no expressions.
func (i Interp) IsPlain() bool {
	for _, p := range i.Parts {
		if p.Expr != nil {
			return false
		}
	}
	return true
}

// Plain returns the literal text of an interpolation without
// expressions. Expression parts contribute nothing.
func (i Interp) Plain() string {
	var out string
	for _, p := range i.Parts {
		out += p.Text
	}
	return out
}

// ---------------------------------------------------------------------------
// Statements

// RuleStmt is a style rule: selector block with nested statements.
type RuleStmt struct {
	Selector Interp
	Body     []Stmt
	Span     Span
}

// DeclStmt is a CSS declaration. Body is non-nil for nested property
// blocks (`font: { family: serif; }`).
type DeclStmt struct {
	Name      Interp
	Value     Expr // nil when only a nested block is present
	Important bool
	Body      []Stmt
	Span      Span
}

// VarDeclStmt is a `$name: value` assignment.
type VarDeclStmt struct {
	Name    string
	Value   Expr
	Default bool // !default
	Global  bool // !global
	Span    Span
}

// Param is one formal parameter of a mixin or function.
type Param struct {
	Name    string
	Default Expr // nil when required
	Rest    bool // name... captures overflow
	Span    Span
}

// Arg is one actual argument of an invocation.
type Arg struct {
	Name   string // named argument when non-empty
	Value  Expr
	Spread bool // value... expanded into positional/named args
	Span   Span
}

// MixinStmt declares a mixin.
type MixinStmt struct {
	Name   string
	Params []Param
	Body   []Stmt
	Span   Span
}

// FunctionStmt declares a user function.
type FunctionStmt struct {
	Name   string
	Params []Param
	Body   []Stmt
	Span   Span
}

// IncludeStmt invokes a mixin, optionally passing a content block.
type IncludeStmt struct {
	Namespace string
	Name      string
	Args      []Arg
	Content   []Stmt // nil when no block was given
	HasBlock  bool
	Span      Span
}

// ContentStmt is `@content` inside a mixin body.
type ContentStmt struct {
	Span Span
}

// ReturnStmt is `@return` inside a function body.
type ReturnStmt struct {
	Value Expr
	Span  Span
}

// IfClause is one `@if` or `@else if` arm.
type IfClause struct {
	Cond Expr
	Body []Stmt
}

// IfStmt is a chain of `@if`/`@else if` clauses with an optional
// final `@else` body.
type IfStmt struct {
	Clauses []IfClause
	Else    []Stmt
	Span    Span
}

// EachStmt is `@each $a, $b in list { ... }`.
type EachStmt struct {
	Vars []string
	Seq  Expr
	Body []Stmt
	Span Span
}

// ForStmt is `@for $i from a through|to b { ... }`.
type ForStmt struct {
	Var       string
	From      Expr
	To        Expr
	Inclusive bool // through vs to
	Body      []Stmt
	Span      Span
}

// WhileStmt is `@while cond { ... }`.
type WhileStmt struct {
	Cond Expr
	Body []Stmt
	Span Span
}

// ExtendStmt is `@extend selector [!optional]`.
type ExtendStmt struct {
	Selector Interp
	Optional bool
	Span     Span
}

// UseStmt is `@use "path" [as ns|*]`.
type UseStmt struct {
	Path      string
	Namespace string // "" means default (derived from path), "*" means global
	Span      Span
}

// ForwardStmt is `@forward "path" [show ...|hide ...] [as prefix-*]`.
type ForwardStmt struct {
	Path   string
	Show   []string
	Hide   []string
	Prefix string
	Span   Span
}

// ImportSpec is a single target of a legacy `@import`.
type ImportSpec struct {
	Path  string
	IsCSS bool // plain CSS import, emitted verbatim
	Span  Span
}

// ImportStmt is a legacy `@import "a", "b"`.
type ImportStmt struct {
	Specs []ImportSpec
	Span  Span
}

// AtRuleStmt is a generic at-rule the evaluator passes through
// (@media, @supports, @font-face, @keyframes, ...).
type AtRuleStmt struct {
	Name    string
	Prelude Interp
	Body    []Stmt
	HasBody bool
	Span    Span
}

// DebugStmt, WarnStmt and ErrorStmt are the diagnostic directives.
type DebugStmt struct {
	Value Expr
	Span  Span
}

type WarnStmt struct {
	Value Expr
	Span  Span
}

type ErrorStmt struct {
	Value Expr
	Span  Span
}

// CommentStmt is a loud `/* ... */` comment preserved in output.
type CommentStmt struct {
	Text Interp
	Span Span
}

func (s *RuleStmt) Pos() Span     { return s.Span }
func (s *DeclStmt) Pos() Span     { return s.Span }
func (s *VarDeclStmt) Pos() Span  { return s.Span }
func (s *MixinStmt) Pos() Span    { return s.Span }
func (s *FunctionStmt) Pos() Span { return s.Span }
func (s *IncludeStmt) Pos() Span  { return s.Span }
func (s *ContentStmt) Pos() Span  { return s.Span }
func (s *ReturnStmt) Pos() Span   { return s.Span }
func (s *IfStmt) Pos() Span       { return s.Span }
func (s *EachStmt) Pos() Span     { return s.Span }
func (s *ForStmt) Pos() Span      { return s.Span }
func (s *WhileStmt) Pos() Span    { return s.Span }
func (s *ExtendStmt) Pos() Span   { return s.Span }
func (s *UseStmt) Pos() Span      { return s.Span }
func (s *ForwardStmt) Pos() Span  { return s.Span }
func (s *ImportStmt) Pos() Span   { return s.Span }
func (s *AtRuleStmt) Pos() Span   { return s.Span }
func (s *DebugStmt) Pos() Span    { return s.Span }
func (s *WarnStmt) Pos() Span     { return s.Span }
func (s *ErrorStmt) Pos() Span    { return s.Span }
func (s *CommentStmt) Pos() Span  { return s.Span }

func (*RuleStmt) stmtNode()     {}
func (*DeclStmt) stmtNode()     {}
func (*VarDeclStmt) stmtNode()  {}
func (*MixinStmt) stmtNode()    {}
func (*FunctionStmt) stmtNode() {}
func (*IncludeStmt) stmtNode()  {}
func (*ContentStmt) stmtNode()  {}
func (*ReturnStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*EachStmt) stmtNode()     {}
func (*ForStmt) stmtNode()      {}
func (*WhileStmt) stmtNode()    {}
func (*ExtendStmt) stmtNode()   {}
func (*UseStmt) stmtNode()      {}
func (*ForwardStmt) stmtNode()  {}
func (*ImportStmt) stmtNode()   {}
func (*AtRuleStmt) stmtNode()   {}
func (*DebugStmt) stmtNode()    {}
func (*WarnStmt) stmtNode()     {}
func (*ErrorStmt) stmtNode()    {}
func (*CommentStmt) stmtNode()  {}

// ---------------------------------------------------------------------------
// Expressions

// BinOp enumerates binary operators.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpAnd
	OpOr
)

var binOpText = [...]string{"+", "-", "*", "/", "%", "==", "!=", "<", ">", "<=", ">=", "and", "or"}

func (op BinOp) String() string { return binOpText[op] }

// ListSep enumerates list separators.
type ListSep int

const (
	SepSpace ListSep = iota
	SepComma
	SepSlash
)

// NumberLit is a numeric literal with an optional unit as written.
type NumberLit struct {
	Value float64
	Unit  string
	Span  Span
}

// ColorLit is a color literal keeping its original textual form.
type ColorLit struct {
	R, G, B  float64
	A        float64
	Original string // #abc, rgb(...), named, ... as written
	Span     Span
}

// StringLit is a quoted or unquoted string, possibly interpolated.
type StringLit struct {
	Parts  Interp
	Quoted bool
	Span   Span
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
	Span  Span
}

// NullLit is `null`.
type NullLit struct {
	Span Span
}

// VarExpr references a variable, optionally through a module
// namespace (`ns.$name`).
type VarExpr struct {
	Namespace string
	Name      string
	Span      Span
}

// ListExpr is a literal list.
type ListExpr struct {
	Items     []Expr
	Sep       ListSep
	Bracketed bool
	Span      Span
}

// MapPair is one key/value entry of a map literal.
type MapPair struct {
	Key   Expr
	Value Expr
}

// MapExpr is a literal map `(k: v, ...)`.
type MapExpr struct {
	Pairs []MapPair
	Span  Span
}

// UnaryExpr is `-x`, `+x` or `not x`.
type UnaryExpr struct {
	Op   string // "-", "+", "not"
	X    Expr
	Span Span
}

// BinaryExpr is a binary operation. SlashSeparated marks a `/` whose
// operands are bare literals: it renders as a slash separated pair
// unless division is forced (see the evaluator).
type BinaryExpr struct {
	Op             BinOp
	Left, Right    Expr
	SlashSeparated bool
	Span           Span
}

// ParenExpr is a parenthesized expression. A `/` directly inside
// parentheses always divides.
type ParenExpr struct {
	X    Expr
	Span Span
}

// CallExpr invokes a function, optionally through a namespace.
type CallExpr struct {
	Namespace string
	Name      string
	Args      []Arg
	Span      Span
}

// ParentExpr is `&` used as an expression.
type ParentExpr struct {
	Span Span
}

func (e *NumberLit) Pos() Span  { return e.Span }
func (e *ColorLit) Pos() Span   { return e.Span }
func (e *StringLit) Pos() Span  { return e.Span }
func (e *BoolLit) Pos() Span    { return e.Span }
func (e *NullLit) Pos() Span    { return e.Span }
func (e *VarExpr) Pos() Span    { return e.Span }
func (e *ListExpr) Pos() Span   { return e.Span }
func (e *MapExpr) Pos() Span    { return e.Span }
func (e *UnaryExpr) Pos() Span  { return e.Span }
func (e *BinaryExpr) Pos() Span { return e.Span }
func (e *ParenExpr) Pos() Span  { return e.Span }
func (e *CallExpr) Pos() Span   { return e.Span }
func (e *ParentExpr) Pos() Span { return e.Span }

func (*NumberLit) exprNode()  {}
func (*ColorLit) exprNode()   {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*NullLit) exprNode()    {}
func (*VarExpr) exprNode()    {}
func (*ListExpr) exprNode()   {}
func (*MapExpr) exprNode()    {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*ParenExpr) exprNode()  {}
func (*CallExpr) exprNode()   {}
func (*ParentExpr) exprNode() {}
