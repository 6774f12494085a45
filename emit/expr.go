package emit

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/google/c99jit/ctype"
	"github.com/google/c99jit/llvmir"
	"github.com/google/c99jit/sema"
	"github.com/google/c99jit/snippets"
)

// emitExpr evaluates e for its value.
func (fc *funcState) emitExpr(e sema.Expr) value.Value {
	switch e := e.(type) {
	case *sema.Ident:
		return fc.builder.Cur().NewLoad(fc.module.Types.Translate(e.Type()), fc.slot(e.Sym))
	case *sema.IntConst:
		it := fc.module.Types.Translate(e.Type()).(*types.IntType)
		return constant.NewInt(it, int64(e.Value))
	case *sema.FloatConst:
		ft := fc.module.Types.Translate(e.Type()).(*types.FloatType)
		return constant.NewFloat(ft, e.Value)
	case *sema.CharConst:
		return constant.NewInt(types.I8, int64(e.Value))
	case *sema.Index:
		addr := fc.emitAddr(e)
		return fc.builder.Cur().NewLoad(fc.module.Types.Translate(e.Type()), addr)
	case *sema.Member:
		addr := fc.emitAddr(e)
		return fc.builder.Cur().NewLoad(fc.module.Types.Translate(e.Type()), addr)
	case *sema.Call:
		return fc.emitCall(e)
	case *sema.IncDec:
		return fc.emitIncDec(e)
	case *sema.Unary:
		return fc.emitUnary(e)
	case *sema.Cast:
		operand := fc.emitExpr(e.Operand)
		return convert(fc.builder, operand, e.Operand.Type(), e.Type())
	case *sema.Binary:
		left := convert(fc.builder, fc.emitExpr(e.Left), e.Left.Type(), e.OperandType)
		right := convert(fc.builder, fc.emitExpr(e.Right), e.Right.Type(), e.OperandType)
		return emitBinary(fc.builder, e.Op, e.OperandType, left, right)
	case *sema.Logical:
		return fc.emitLogical(e)
	case *sema.Conditional:
		return fc.emitConditional(e)
	case *sema.Assign:
		return fc.emitAssign(e)
	case *sema.Comma:
		fc.emitExpr(e.Left)
		return fc.emitExpr(e.Right)
	default:
		panic(fmt.Sprintf("emit: unsupported expression %T", e))
	}
}

// emitAddr evaluates e as an lvalue, returning the pointer to its storage.
// Only called on expressions sema has already verified are lvalues
// (Ident, Index, Member); any other kind is a bug upstream of emit.
func (fc *funcState) emitAddr(e sema.Expr) value.Value {
	switch e := e.(type) {
	case *sema.Ident:
		return fc.slot(e.Sym)
	case *sema.Index:
		return fc.emitIndexAddr(e)
	case *sema.Member:
		return fc.emitMemberAddr(e)
	default:
		panic(fmt.Sprintf("emit: %T is not an addressable expression", e))
	}
}

// emitIndexAddr computes the address of e.Base[e.Subscript]. Three shapes of
// base, each indexed differently:
//   - a variable-length array: its slot already holds a pointer to the
//     first element (allocaVLA allocates the element type, not the array
//     type, since LLVM has no array type with a non-constant length), so
//     indexing is a single-index GEP directly off that pointer.
//   - a fixed-size array (a local array variable, never decayed): the GEP
//     needs a leading zero index to step "through" the array's own storage.
//   - a pointer value (an array parameter, already decayed to Pointer by
//     sema): the loaded pointer is indexed directly.
func (fc *funcState) emitIndexAddr(e *sema.Index) value.Value {
	sub := fc.emitExpr(e.Subscript)

	if arr, isArray := e.Base.Type().(ctype.Array); isArray {
		if _, isVariable := arr.Extent.(ctype.VariableExtent); isVariable {
			base := fc.emitAddr(e.Base)
			elemType := fc.module.Types.Translate(arr.Elem)
			return fc.builder.Cur().NewGetElementPtr(elemType, base, sub)
		}
		base := fc.emitAddr(e.Base)
		zero := constant.NewInt(types.I32, 0)
		arrType := fc.module.Types.Translate(e.Base.Type())
		return fc.builder.Cur().NewGetElementPtr(arrType, base, zero, sub)
	}

	elemType := fc.module.Types.Translate(e.Type())
	ptr := fc.emitExpr(e.Base)
	return fc.builder.Cur().NewGetElementPtr(elemType, ptr, sub)
}

func (fc *funcState) emitMemberAddr(e *sema.Member) value.Value {
	base := fc.emitAddr(e.Base)
	st := e.Base.Type().(*ctype.Struct)
	idx := fieldIndex(st, e.Field.Name)
	structType := fc.module.Types.Translate(st)
	zero := constant.NewInt(types.I32, 0)
	fieldIdx := constant.NewInt(types.I32, int64(idx))
	return fc.builder.Cur().NewGetElementPtr(structType, base, zero, fieldIdx)
}

func fieldIndex(st *ctype.Struct, name string) int {
	for i, f := range st.Fields {
		if f.Name == name {
			return i
		}
	}
	panic("emit: field " + name + " not found on " + st.String())
}

func (fc *funcState) emitCall(e *sema.Call) value.Value {
	callee, ok := fc.funcs[e.Callee.Name]
	if !ok {
		panic("emit: call to undeclared function " + e.Callee.Name)
	}
	ft := e.Callee.Type.(*ctype.Function)
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		args[i] = convert(fc.builder, fc.emitExpr(a), a.Type(), ft.Params[i])
	}
	return fc.builder.Cur().NewCall(callee, args...)
}

func (fc *funcState) emitIncDec(e *sema.IncDec) value.Value {
	addr := fc.emitAddr(e.Operand)
	t := e.Operand.Type()
	old := fc.builder.Cur().NewLoad(fc.module.Types.Translate(t), addr)

	promoted := promotedArithmetic(t)
	widened := convert(fc.builder, old, t, promoted)
	one := incDecOne(t)
	op := "+"
	if e.Op == "--" {
		op = "-"
	}
	updated := emitBinary(fc.builder, op, promoted, widened, one)
	updated = convert(fc.builder, updated, promoted, t)
	fc.builder.Cur().NewStore(updated, addr)

	if e.Prefix {
		return updated
	}
	return old
}

func incDecOne(t ctype.Type) value.Value {
	if isFloatType(t) {
		ft := floatLLVMType(t)
		return constant.NewFloat(ft, 1)
	}
	it := intLLVMType(promotedArithmetic(t))
	return constant.NewInt(it, 1)
}

// promotedArithmetic returns the type an arithmetic operation on a value of
// type t is actually carried out in: unchanged for float, integer-promoted
// (spec/ctype's PromoteInteger) for everything else. emitIncDec needs this
// to pick the right-width snippet for the +1/-1 itself.
func promotedArithmetic(t ctype.Type) ctype.Type {
	if isFloatType(t) {
		return t
	}
	return ctype.PromoteInteger(t)
}

func intLLVMType(t ctype.Type) *types.IntType {
	switch typeTag(t) {
	case "i8":
		return types.I8
	case "i16":
		return types.I16
	case "i64":
		return types.I64
	default:
		return types.I32
	}
}

func floatLLVMType(t ctype.Type) *types.FloatType {
	if typeTag(t) == "double" {
		return types.Double
	}
	return types.Float
}

func (fc *funcState) emitUnary(e *sema.Unary) value.Value {
	operand := fc.emitExpr(e.Operand)
	switch e.Op {
	case "!":
		operandType := e.Operand.Type()
		zeroAndCmp := emitBinary(fc.builder, "==", promotedArithmetic(operandType),
			convert(fc.builder, operand, operandType, promotedArithmetic(operandType)),
			zeroValue(promotedArithmetic(operandType)))
		return zeroAndCmp
	case "~":
		t := promotedArithmetic(e.Operand.Type())
		allOnes := constant.NewInt(intLLVMType(t), -1)
		converted := convert(fc.builder, operand, e.Operand.Type(), t)
		return emitBinary(fc.builder, "^", t, converted, allOnes)
	case "-":
		t := e.Type()
		converted := convert(fc.builder, operand, e.Operand.Type(), t)
		return emitBinary(fc.builder, "-", t, zeroValue(t), converted)
	case "+":
		return convert(fc.builder, operand, e.Operand.Type(), e.Type())
	default:
		panic("emit: unsupported unary operator " + e.Op)
	}
}

func zeroValue(t ctype.Type) value.Value {
	if isFloatType(t) {
		return constant.NewFloat(floatLLVMType(t), 0)
	}
	return constant.NewInt(intLLVMType(t), 0)
}

func (fc *funcState) emitLogical(e *sema.Logical) value.Value {
	resultSlot := fc.builder.Entry().NewAlloca(types.I32)
	leftVal := fc.toBool(fc.emitExpr(e.Left), e.Left.Type())

	if e.Op == "&&" {
		fc.builder.IfElse(leftVal,
			func(b *llvmir.Builder) {
				rightVal := fc.toBool(fc.emitExpr(e.Right), e.Right.Type())
				b.Cur().NewStore(zext32(b, rightVal), resultSlot)
			},
			func(b *llvmir.Builder) {
				b.Cur().NewStore(constant.NewInt(types.I32, 0), resultSlot)
			},
		)
	} else {
		fc.builder.IfElse(leftVal,
			func(b *llvmir.Builder) {
				b.Cur().NewStore(constant.NewInt(types.I32, 1), resultSlot)
			},
			func(b *llvmir.Builder) {
				rightVal := fc.toBool(fc.emitExpr(e.Right), e.Right.Type())
				b.Cur().NewStore(zext32(b, rightVal), resultSlot)
			},
		)
	}
	return fc.builder.Cur().NewLoad(types.I32, resultSlot)
}

func (fc *funcState) emitConditional(e *sema.Conditional) value.Value {
	cond := fc.toBool(fc.emitExpr(e.Cond), e.Cond.Type())
	resultType := fc.module.Types.Translate(e.Type())
	resultSlot := fc.builder.Entry().NewAlloca(resultType)
	fc.builder.IfElse(cond,
		func(b *llvmir.Builder) {
			v := convert(fc.builder, fc.emitExpr(e.Then), e.Then.Type(), e.Type())
			b.Cur().NewStore(v, resultSlot)
		},
		func(b *llvmir.Builder) {
			v := convert(fc.builder, fc.emitExpr(e.Else), e.Else.Type(), e.Type())
			b.Cur().NewStore(v, resultSlot)
		},
	)
	return fc.builder.Cur().NewLoad(resultType, resultSlot)
}

func (fc *funcState) emitAssign(e *sema.Assign) value.Value {
	addr := fc.emitAddr(e.Left)
	v := convert(fc.builder, fc.emitExpr(e.Right), e.Right.Type(), e.Left.Type())
	fc.builder.Cur().NewStore(v, addr)
	return v
}

// toBool converts an arithmetic scalar value into an i1 truth value, for
// use as a branch condition. Integers widen to int first (comparison
// against zero is invariant under sign/zero extension) since the compare
// catalogue only carries i32/i64 entries.
func (fc *funcState) toBool(v value.Value, t ctype.Type) value.Value {
	promoted := promotedArithmetic(t)
	v = convert(fc.builder, v, t, promoted)
	zero := zeroValue(promoted)
	tag := typeTag(promoted)
	if isFloatType(promoted) {
		ne := fc.builder.CallSnippet(snippets.Key{Op: "fcmp_one", Types: tag}, v, zero)
		return fc.builder.Cur().NewTrunc(ne, types.I1)
	}
	eq := fc.builder.CallSnippet(snippets.Key{Op: "icmp_ne", Types: tag}, v, zero)
	return fc.builder.Cur().NewTrunc(eq, types.I1)
}

func zext32(b *llvmir.Builder, v value.Value) value.Value {
	if bt, ok := v.Type().(*types.IntType); ok && bt.BitSize == 32 {
		return v
	}
	return b.Cur().NewZExt(v, types.I32)
}
