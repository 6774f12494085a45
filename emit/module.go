package emit

import (
	"fmt"

	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/google/c99jit/llvmir"
	"github.com/google/c99jit/sema"
	"github.com/google/c99jit/snippets"
)

// Emit lowers prog into a fresh LLVM module, linking in whichever snippets
// its arithmetic and conversions need along the way.
//
// Declaration happens in a first pass over every function so that a call to
// a function defined later in the translation unit (or a mutually recursive
// pair) resolves to a real *ir.Func before any body is built; bodies are
// then built in a second pass, matching how core/codegen's own compiler
// separates signature declaration from definition.
func Emit(prog *sema.Program) (*llvmir.Module, error) {
	reg, err := snippets.Load()
	if err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}
	linker := snippets.NewLinker(reg)
	module := llvmir.NewModule(linker)

	funcs := make(map[string]*ir.Func, len(prog.Functions))
	decls := make(map[string]*llvmir.Function, len(prog.Functions))
	for _, fn := range prog.Functions {
		decl := declareFunc(module, fn)
		decls[fn.Name] = decl
		funcs[fn.Name] = decl.LLVM
	}

	vla := &vlaRuntime{}
	for _, fn := range prog.Functions {
		buildFunc(module, decls[fn.Name], funcs, fn, vla)
	}

	return module, nil
}

func declareFunc(module *llvmir.Module, fn *sema.Function) *llvmir.Function {
	retType := module.Types.Translate(fn.ReturnType)
	paramNames := make([]string, len(fn.Params))
	paramTypes := make([]irtypes.Type, len(fn.Params))
	for i, p := range fn.Params {
		paramNames[i] = p.Name
		paramTypes[i] = module.Types.Translate(p.Type)
	}
	return module.NewFunc(fn.Name, retType, paramNames, paramTypes)
}

func buildFunc(module *llvmir.Module, decl *llvmir.Function, funcs map[string]*ir.Func, fn *sema.Function, vla *vlaRuntime) {
	decl.Build(func(b *llvmir.Builder) {
		fc := &funcState{
			module:  module,
			funcs:   funcs,
			builder: b,
			fn:      fn,
			slots:   make(map[*sema.Symbol]value.Value),
			vla:     vla,
		}
		for i, p := range fn.Params {
			addr := fc.slot(p)
			b.Cur().NewStore(decl.Param(i), addr)
		}
		fc.emitBlock(fn.Body)
	})
}
