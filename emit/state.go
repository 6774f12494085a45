package emit

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/google/c99jit/ctype"
	"github.com/google/c99jit/llvmir"
	"github.com/google/c99jit/sema"
)

// funcState carries everything the statement/expression walk needs for one
// function body: the module-wide function table (for calls), the current
// Builder, each in-scope Symbol's stack slot, and the variable-length-array
// bookkeeping spec §4.7 requires (vla, vlaSaves, loopMarks).
type funcState struct {
	module  *llvmir.Module
	funcs   map[string]*ir.Func
	builder *llvmir.Builder
	fn      *sema.Function
	slots   map[*sema.Symbol]value.Value

	vla       *vlaRuntime
	vlaSaves  []value.Value // one llvm.stacksave result per live variable-length array
	loopMarks []int         // vlaSaves depth at the start of each enclosing loop
}

// slot returns sym's stack slot, allocating it the first time it's
// requested. Parameters are pre-populated by buildFunc before the body walk
// starts; ordinary locals are pre-slotted by emitBlock/emitFor when their
// enclosing block or loop starts. A variable-length array is never pre-slotted by emitBlock/emitFor (see
// isVLA) — it always allocates here, at the point its DeclStmt actually
// runs, so its length expression sees every local declared before it
// already holding its initialized value.
func (fc *funcState) slot(sym *sema.Symbol) value.Value {
	if v, ok := fc.slots[sym]; ok {
		return v
	}
	v := fc.allocaFor(sym.Type)
	fc.slots[sym] = v
	return v
}

// allocaFor reserves t's stack slot. A fixed-size local's alloca always
// lands in the function's entry block, not whatever block happens to be
// current — an alloca inside a loop or if/else body would otherwise
// re-execute, and therefore re-allocate stack space, on every pass through
// that block instead of once per call. A variable-length array can't follow
// that rule (its size isn't known until the point of declaration), which is
// exactly why it needs its own stacksave/stackrestore bookkeeping instead.
func (fc *funcState) allocaFor(t ctype.Type) value.Value {
	if arr, ok := t.(ctype.Array); ok {
		if ext, ok := arr.Extent.(ctype.VariableExtent); ok {
			return fc.allocaVLA(arr.Elem, ext)
		}
	}
	return fc.builder.Entry().NewAlloca(fc.module.Types.Translate(t))
}

// allocaVLA evaluates the array's length expression, saves the stack
// pointer, and allocates that many elements with a dynamic-count alloca.
// The result addresses the first element rather than an array, since LLVM
// has no array type with a non-constant length (spec §4.7).
func (fc *funcState) allocaVLA(elem ctype.Type, ext ctype.VariableExtent) value.Value {
	lenExpr := fc.fn.VLAExprs[ext.ExprID]
	count := convert(fc.builder, fc.emitExpr(lenExpr), lenExpr.Type(), ctype.LongType)
	fc.pushVLASave()
	alloca := fc.builder.Cur().NewAlloca(fc.module.Types.Translate(elem))
	alloca.NElems = count
	return alloca
}

// isVLA reports whether t is a variable-length array type, the one kind of
// local that emitBlock/emitFor must not pre-slot ahead of its own DeclStmt.
func isVLA(t ctype.Type) bool {
	arr, ok := t.(ctype.Array)
	if !ok {
		return false
	}
	_, ok = arr.Extent.(ctype.VariableExtent)
	return ok
}

func (fc *funcState) declareLocal(sym *sema.Symbol, init value.Value) {
	addr := fc.slot(sym)
	if init != nil {
		fc.builder.Cur().NewStore(init, addr)
	}
}

func (fc *funcState) convertToReturnType(v value.Value, from ctype.Type) value.Value {
	return convert(fc.builder, v, from, fc.fn.ReturnType)
}
