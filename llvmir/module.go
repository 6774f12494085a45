package llvmir

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"github.com/google/c99jit/snippets"
)

// Module wraps an *ir.Module with the type translator and snippet linker
// every function built against it shares.
type Module struct {
	LLVM    *ir.Module
	Types   *TypeTranslator
	Linker  *snippets.Linker
}

// NewModule creates an empty module, declaring the fixed target data layout
// every c99jit output module uses (spec §4.2/§6).
func NewModule(linker *snippets.Linker) *Module {
	m := ir.NewModule()
	m.DataLayout = dataLayout
	m.TargetTriple = targetTriple
	return &Module{LLVM: m, Types: NewTypeTranslator(), Linker: linker}
}

const (
	dataLayout   = "e-m:e-i64:64-f80:128-n8:16:32:64-S128"
	targetTriple = "x86_64-unknown-linux-gnu"
)

// NewFunc declares a new function with the given name, C return/parameter
// types, and parameter names (used only for readability of the emitted
// IR), and returns a Function ready for Build.
func (m *Module) NewFunc(name string, ret types.Type, paramNames []string, paramTypes []types.Type) *Function {
	params := make([]*ir.Param, len(paramTypes))
	for i, t := range paramTypes {
		pname := ""
		if i < len(paramNames) {
			pname = paramNames[i]
		}
		params[i] = ir.NewParam(pname, t)
	}
	f := m.LLVM.NewFunc(name, ret, params...)
	return &Function{module: m, LLVM: f, retType: ret}
}
