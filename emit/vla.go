package emit

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"github.com/google/c99jit/llvmir"
)

// vlaRuntime caches the llvm.stacksave/llvm.stackrestore intrinsic
// declarations for one output module. Declaration happens at most once per
// module no matter how many functions in it declare a variable-length
// array, mirroring snippets.Linker's per-destination-module idempotent
// caching of the arithmetic snippets.
type vlaRuntime struct {
	stacksave    *ir.Func
	stackrestore *ir.Func
}

func (v *vlaRuntime) stacksaveFunc(module *llvmir.Module) *ir.Func {
	if v.stacksave == nil {
		v.stacksave = module.LLVM.NewFunc("llvm.stacksave", types.NewPointer(types.I8))
	}
	return v.stacksave
}

func (v *vlaRuntime) stackrestoreFunc(module *llvmir.Module) *ir.Func {
	if v.stackrestore == nil {
		ptrType := types.NewPointer(types.I8)
		v.stackrestore = module.LLVM.NewFunc("llvm.stackrestore", types.Void, ir.NewParam("ptr", ptrType))
	}
	return v.stackrestore
}

// pushVLASave records a variable-length array's allocation point by calling
// llvm.stacksave and remembering the result so the scope that declared the
// array can restore the stack on every exit path (spec §4.7).
func (fc *funcState) pushVLASave() {
	call := fc.builder.Cur().NewCall(fc.vla.stacksaveFunc(fc.module))
	fc.vlaSaves = append(fc.vlaSaves, call)
}

// emitVLARestores emits an llvm.stackrestore for every save recorded since
// mark, most recently declared first, without touching the save stack
// itself. break/continue/return call this directly, since their restore
// lands on an already-terminating path; emitBlock's own scope-exit
// restore (the ordinary-fallthrough path) is the one place that also pops
// the save stack, once per block regardless of which exit it took, so the
// bookkeeping stays in sync with lexical nesting.
func (fc *funcState) emitVLARestores(mark int) {
	for i := len(fc.vlaSaves) - 1; i >= mark; i-- {
		fc.builder.Cur().NewCall(fc.vla.stackrestoreFunc(fc.module), fc.vlaSaves[i])
	}
}

// pushLoop and popLoop bracket a loop body so break/continue know how far
// to unwind the VLA save stack: a jump out of (or back to the top of) a
// loop must restore every VLA declared inside the loop body, but none
// declared in an enclosing scope.
func (fc *funcState) pushLoop() {
	fc.loopMarks = append(fc.loopMarks, len(fc.vlaSaves))
}

func (fc *funcState) popLoop() {
	fc.loopMarks = fc.loopMarks[:len(fc.loopMarks)-1]
}

func (fc *funcState) currentLoopMark() int {
	return fc.loopMarks[len(fc.loopMarks)-1]
}
