package sema

import "github.com/google/c99jit/ctype"

// Expr is implemented by every typed expression node. Every node carries
// its own resolved Type and whether it denotes an lvalue, the same way a
// CType-tagged node does in the untyped grammar — the typed tree simply
// bakes the result of that resolution directly into the node instead of a
// side table, since every downstream consumer (emit) needs the type at
// every expression anyway.
type Expr interface {
	isExpr()
	Type() ctype.Type
	Lvalue() bool
}

type exprBase struct {
	typ ctype.Type
	lv  bool
}

func (e exprBase) Type() ctype.Type { return e.typ }
func (e exprBase) Lvalue() bool     { return e.lv }
func (exprBase) isExpr()            {}

// Ident is a resolved reference to a parameter or local variable.
type Ident struct {
	exprBase
	Sym *Symbol
}

// IntConst is a resolved integer-constant, already narrowed to its C99
// 6.4.4.1 smallest-representable type.
type IntConst struct {
	exprBase
	Value uint64
}

// FloatConst is a resolved floating-point constant.
type FloatConst struct {
	exprBase
	Value float64
}

// CharConst is a resolved character constant: Value holds the character's
// code as an int8 and Type() is char, not the int type C99 6.4.4.4 gives
// character constants.
type CharConst struct {
	exprBase
	Value int8
}

// Index is `Base[Subscript]`, resolved against Base's array or
// pointer-decayed element type.
type Index struct {
	exprBase
	Base      Expr
	Subscript Expr
}

// Call is a resolved function call.
type Call struct {
	exprBase
	Callee *Symbol
	Args   []Expr
}

// Member is `Base.Name`, resolved to a field offset within Base's struct
// type.
type Member struct {
	exprBase
	Base  Expr
	Field ctype.Field
}

// IncDec is `Operand++`/`Operand--`/`++Operand`/`--Operand`.
type IncDec struct {
	exprBase
	Operand Expr
	Op      string // "++" or "--"
	Prefix  bool
}

// Unary is a unary `+`, `-`, `!` or `~`.
type Unary struct {
	exprBase
	Op      string
	Operand Expr
}

// Cast is an explicit `(Type)Operand` conversion.
type Cast struct {
	exprBase
	Operand Expr
}

// Binary is a resolved binary arithmetic, bitwise, relational or equality
// operator. Its operands keep their own types; OperandType records the
// common type emit converts both to before applying the operator (for
// relational/equality operators Type() itself is int).
type Binary struct {
	exprBase
	Op           string
	Left, Right  Expr
	OperandType  ctype.Type
}

// Logical is `&&`/`||`, lowered by emit into short-circuiting control flow
// rather than a snippet call.
type Logical struct {
	exprBase
	Op          string
	Left, Right Expr
}

// Conditional is `Cond ? Then : Else`.
type Conditional struct {
	exprBase
	Cond, Then, Else Expr
}

// Assign is `Left = Right` or a compound assignment, already desugared:
// Op is always "=" in the typed tree, with compound operators turned into
// an equivalent Binary computed from a shared read of Left (spec §4.4).
type Assign struct {
	exprBase
	Left, Right Expr
}

// Comma is `Left, Right`; Type() is Right's type.
type Comma struct {
	exprBase
	Left, Right Expr
}
