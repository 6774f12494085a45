package llvmir

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// Function is a declared-but-not-yet-built function.
type Function struct {
	module  *Module
	LLVM    *ir.Func
	retType types.Type
	built   bool
}

// Param returns the i'th parameter value.
func (f *Function) Param(i int) *ir.Param {
	return f.LLVM.Params[i]
}

// Build calls cb with a Builder positioned at the function's entry block.
// Mirrors core/codegen.Function.Build's single-exit-block shape: every
// Return stores into one result slot and branches to a shared exit block,
// so the body can be built with ordinary structured control flow instead of
// tracking every live return point.
func (f *Function) Build(cb func(*Builder)) {
	if f.built {
		panic("llvmir: function " + f.LLVM.Name() + " already built")
	}
	f.built = true

	entry := f.LLVM.NewBlock("entry")
	exit := f.LLVM.NewBlock("exit")

	b := &Builder{fn: f, entry: entry, cur: entry, exit: exit}

	if _, isVoid := f.retType.(*types.VoidType); !isVoid {
		b.result = entry.NewAlloca(f.retType)
	}

	cb(b)

	if b.cur.Term == nil {
		b.cur.NewBr(exit)
	}

	if b.result != nil {
		loaded := exit.NewLoad(f.retType, b.result)
		exit.NewRet(loaded)
	} else {
		exit.NewRet(nil)
	}
}
