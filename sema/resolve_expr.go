package sema

import (
	"github.com/google/c99jit/ast"
	"github.com/google/c99jit/cerrors"
	"github.com/google/c99jit/ctype"
)

func (r *Resolver) resolveExpr(n ast.Node) Expr {
	switch e := n.(type) {
	case *ast.Identifier:
		return r.resolveIdentifier(e)
	case *ast.IntLiteral:
		v, t := parseIntLiteral(e.Text)
		return &IntConst{exprBase: exprBase{typ: t}, Value: v}
	case *ast.FloatLiteral:
		v, t := parseFloatLiteral(e.Text)
		return &FloatConst{exprBase: exprBase{typ: t}, Value: v}
	case *ast.CharLiteral:
		inner := e.Text
		if len(inner) >= 2 {
			inner = inner[1 : len(inner)-1]
		}
		return &CharConst{exprBase: exprBase{typ: ctype.CharType}, Value: unescapeChar(inner)}
	case *ast.Index:
		return r.resolveIndex(e)
	case *ast.Call:
		return r.resolveCall(e)
	case *ast.Member:
		return r.resolveMember(e)
	case *ast.Arrow:
		r.errorf(e, cerrors.UnsupportedConstruct, "pointer member access is not supported")
		return &IntConst{exprBase: exprBase{typ: ctype.IntType}}
	case *ast.PostIncDec:
		return r.resolveIncDec(e.Operand, e.Op, false, e)
	case *ast.PreIncDec:
		return r.resolveIncDec(e.Operand, e.Op, true, e)
	case *ast.Unary:
		return r.resolveUnary(e)
	case *ast.Cast:
		return r.resolveCast(e)
	case *ast.Binary:
		return r.resolveBinary(e)
	case *ast.Logical:
		return r.resolveLogical(e)
	case *ast.Conditional:
		return r.resolveConditional(e)
	case *ast.Assign:
		return r.resolveAssign(e)
	case *ast.Comma:
		left := r.resolveExpr(e.Left)
		right := r.resolveExpr(e.Right)
		return &Comma{exprBase: exprBase{typ: right.Type()}, Left: left, Right: right}
	default:
		r.errorf(n, cerrors.UnsupportedConstruct, "unsupported expression %T", n)
		return &IntConst{exprBase: exprBase{typ: ctype.IntType}}
	}
}

func (r *Resolver) resolveIdentifier(e *ast.Identifier) Expr {
	sym, ok := r.scope.resolve(e.Name)
	if !ok {
		r.errorf(e, cerrors.UndeclaredIdentifier, "undeclared identifier %q", e.Name)
		return &IntConst{exprBase: exprBase{typ: ctype.IntType}}
	}
	return &Ident{exprBase: exprBase{typ: sym.Type, lv: true}, Sym: sym}
}

func (r *Resolver) resolveIndex(e *ast.Index) Expr {
	base := r.resolveExpr(e.Base)
	sub := r.resolveExpr(e.Subscript)
	elem := ctype.Type(ctype.IntType)
	switch bt := ctype.ArrayToPointer(base.Type()).(type) {
	case ctype.Pointer:
		elem = bt.Elem
	default:
		r.errorf(e, cerrors.TypeMismatch, "indexed value is not an array or pointer")
	}
	if !ctype.IsInteger(sub.Type()) {
		r.errorf(e, cerrors.TypeMismatch, "array subscript is not an integer")
	}
	return &Index{exprBase: exprBase{typ: elem, lv: true}, Base: base, Subscript: sub}
}

func (r *Resolver) resolveCall(e *ast.Call) Expr {
	ident, ok := e.Callee.(*ast.Identifier)
	if !ok {
		r.errorf(e, cerrors.UnsupportedConstruct, "call target must be a function name")
		return &IntConst{exprBase: exprBase{typ: ctype.IntType}}
	}
	sym, ok := r.scope.resolve(ident.Name)
	if !ok || sym.Kind != SymFunction {
		r.errorf(e, cerrors.UndeclaredIdentifier, "call to undeclared function %q", ident.Name)
		return &IntConst{exprBase: exprBase{typ: ctype.IntType}}
	}
	ft := sym.Type.(*ctype.Function)
	args := make([]Expr, len(e.Args))
	for i, a := range e.Args {
		args[i] = r.resolveExpr(a)
	}
	if len(args) != len(ft.Params) {
		r.errorf(e, cerrors.TypeMismatch, "call to %q has %d arguments, want %d", ident.Name, len(args), len(ft.Params))
	}
	return &Call{exprBase: exprBase{typ: ft.Return}, Callee: sym, Args: args}
}

func (r *Resolver) resolveMember(e *ast.Member) Expr {
	base := r.resolveExpr(e.Base)
	st, ok := base.Type().(*ctype.Struct)
	if !ok {
		r.errorf(e, cerrors.TypeMismatch, "member access on a non-struct value")
		return &IntConst{exprBase: exprBase{typ: ctype.IntType}}
	}
	field, ok := st.FieldByName(e.Name)
	if !ok {
		r.errorf(e, cerrors.UndeclaredIdentifier, "struct has no member %q", e.Name)
		return &IntConst{exprBase: exprBase{typ: ctype.IntType}}
	}
	return &Member{exprBase: exprBase{typ: field.Type, lv: base.Lvalue()}, Base: base, Field: field}
}

func (r *Resolver) resolveIncDec(operand ast.Node, op string, prefix bool, at ast.Node) Expr {
	o := r.resolveExpr(operand)
	if !o.Lvalue() {
		r.errorf(at, cerrors.NotAnLvalue, "operand of %q must be an lvalue", op)
	}
	return &IncDec{exprBase: exprBase{typ: o.Type()}, Operand: o, Op: op, Prefix: prefix}
}

func (r *Resolver) resolveUnary(e *ast.Unary) Expr {
	o := r.resolveExpr(e.Operand)
	t := o.Type()
	switch e.Op {
	case "!":
		t = ctype.IntType
	case "~":
		if !ctype.IsInteger(t) {
			r.errorf(e, cerrors.TypeMismatch, "operand of ~ must be an integer")
		}
		t = ctype.PromoteInteger(t)
	case "+", "-":
		if !ctype.IsArithmetic(t) {
			r.errorf(e, cerrors.TypeMismatch, "operand of unary %s must be arithmetic", e.Op)
		}
		t = ctype.PromoteInteger(t)
	}
	return &Unary{exprBase: exprBase{typ: t}, Op: e.Op, Operand: o}
}

func (r *Resolver) resolveCast(e *ast.Cast) Expr {
	o := r.resolveExpr(e.Operand)
	t := r.resolveTypeSpec(e.Type, e)
	if !ctype.IsScalar(t) && !ctype.IsArithmetic(o.Type()) {
		r.errorf(e, cerrors.TypeMismatch, "invalid cast")
	}
	return &Cast{exprBase: exprBase{typ: t}, Operand: o}
}

var relationalOps = map[string]bool{"<": true, ">": true, "<=": true, ">=": true, "==": true, "!=": true}
var integerOnlyOps = map[string]bool{"%": true, "&": true, "^": true, "|": true, "<<": true, ">>": true}

func (r *Resolver) resolveBinary(e *ast.Binary) Expr {
	left := r.resolveExpr(e.Left)
	right := r.resolveExpr(e.Right)

	lt := ctype.PromoteInteger(left.Type())
	rt := ctype.PromoteInteger(right.Type())

	if integerOnlyOps[e.Op] {
		if !ctype.IsInteger(left.Type()) || !ctype.IsInteger(right.Type()) {
			r.errorf(e, cerrors.TypeMismatch, "operands of %q must be integers", e.Op)
		}
	} else if !ctype.IsArithmetic(left.Type()) || !ctype.IsArithmetic(right.Type()) {
		r.errorf(e, cerrors.TypeMismatch, "operands of %q must be arithmetic", e.Op)
	}

	common := ctype.UsualArithmetic(lt, rt)
	if e.Op == "<<" || e.Op == ">>" {
		// Shift's result type is the (promoted) left operand's type alone;
		// the right operand's type never participates in usual arithmetic
		// conversions for shifts (C99 6.5.7).
		common = lt
	}

	resultType := common
	if relationalOps[e.Op] {
		resultType = ctype.IntType
	}
	return &Binary{exprBase: exprBase{typ: resultType}, Op: e.Op, Left: left, Right: right, OperandType: common}
}

func (r *Resolver) resolveLogical(e *ast.Logical) Expr {
	left := r.resolveExpr(e.Left)
	right := r.resolveExpr(e.Right)
	if !ctype.IsScalar(left.Type()) || !ctype.IsScalar(right.Type()) {
		r.errorf(e, cerrors.TypeMismatch, "operands of %q must be scalar", e.Op)
	}
	return &Logical{exprBase: exprBase{typ: ctype.IntType}, Op: e.Op, Left: left, Right: right}
}

func (r *Resolver) resolveConditional(e *ast.Conditional) Expr {
	cond := r.resolveExpr(e.Cond)
	then := r.resolveExpr(e.Then)
	els := r.resolveExpr(e.Else)
	if !ctype.IsScalar(cond.Type()) {
		r.errorf(e, cerrors.TypeMismatch, "condition must be scalar")
	}
	t := then.Type()
	if ctype.IsArithmetic(then.Type()) && ctype.IsArithmetic(els.Type()) {
		t = ctype.UsualArithmetic(ctype.PromoteInteger(then.Type()), ctype.PromoteInteger(els.Type()))
	}
	return &Conditional{exprBase: exprBase{typ: t}, Cond: cond, Then: then, Else: els}
}

// compoundOps maps a compound-assignment operator to the binary operator it
// desugars to.
var compoundOps = map[string]string{
	"+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%",
	"<<=": "<<", ">>=": ">>", "&=": "&", "^=": "^", "|=": "|",
}

func (r *Resolver) resolveAssign(e *ast.Assign) Expr {
	left := r.resolveExpr(e.Left)
	right := r.resolveExpr(e.Right)
	if !left.Lvalue() {
		r.errorf(e, cerrors.NotAnLvalue, "left side of assignment must be an lvalue")
	}

	if e.Op != "=" {
		baseOp, ok := compoundOps[e.Op]
		if !ok {
			r.errorf(e, cerrors.UnsupportedConstruct, "unsupported assignment operator %q", e.Op)
			baseOp = "+"
		}
		lt := ctype.PromoteInteger(left.Type())
		rt := ctype.PromoteInteger(right.Type())
		common := ctype.UsualArithmetic(lt, rt)
		right = &Binary{exprBase: exprBase{typ: common}, Op: baseOp, Left: left, Right: right, OperandType: common}
	} else if !ctype.IsLvalueCompatibleAssign(left.Type(), right.Type()) {
		r.errorf(e, cerrors.TypeMismatch, "cannot assign %s to %s", right.Type(), left.Type())
	}
	return &Assign{exprBase: exprBase{typ: left.Type()}, Left: left, Right: right}
}
