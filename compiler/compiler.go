// Package compiler is the top-level entry point: it drives
// source text through grammar, ast, sema, and emit, hands the assembled
// module to a jitengine.Backend, and returns a Program whose functions can
// be bound and called with hostcall.
//
// Compile uses the same panic/recover-with-error-limit discipline as
// sema.Resolve: a cerrors.List accumulates diagnostics and a cerrors.Abort
// panic, recovered here, turns an over-limit compile back into a normal
// error return (spec §5/§7).
package compiler

import (
	"context"
	"fmt"

	"github.com/google/c99jit/ast"
	"github.com/google/c99jit/cerrors"
	"github.com/google/c99jit/ctype"
	"github.com/google/c99jit/emit"
	"github.com/google/c99jit/grammar"
	"github.com/google/c99jit/hostcall"
	"github.com/google/c99jit/internal/clog"
	"github.com/google/c99jit/jitengine"
	"github.com/google/c99jit/sema"
)

// Program is a compiled, loaded translation unit: its functions are backed
// by native code and can be bound to callable host handles.
type Program struct {
	sema *sema.Program
	lib  jitengine.Library
}

// Compile parses source as a C99 (subset) translation unit, resolves and
// type-checks it, emits LLVM IR, and loads the result through backend.
//
// The returned error is a cerrors.List: SyntaxError entries when parsing
// fails, the resolver's diagnostics, or a single BackendError entry when
// emission or the backend's Load fails (assembly failure, dlopen failure).
// Only a failure to build the parser itself is returned as a plain error.
func Compile(ctx context.Context, source string, backend jitengine.Backend) (prog *Program, err error) {
	defer cerrors.Recover()

	ctx = clog.With(ctx, "compiler")
	log := clog.From(ctx)

	log.Infof("parsing %d bytes of source", len(source))
	p, err := grammar.NewC99Parser()
	if err != nil {
		return nil, fmt.Errorf("compiler: building parser: %w", err)
	}
	tree, err := p.Parse(source)
	if err != nil {
		return nil, cerrors.List{{Kind: cerrors.SyntaxError, Message: err.Error()}}
	}

	var b ast.Builder
	tu, err := b.Build(tree)
	if err != nil {
		return nil, cerrors.List{{Kind: cerrors.SyntaxError, Message: err.Error()}}
	}

	log.Infof("resolving translation unit")
	sp, err := sema.Resolve(tu, b.Mappings)
	if err != nil {
		return nil, err
	}

	log.Infof("emitting IR for %d functions", len(sp.Functions))
	module, err := emit.Emit(sp)
	if err != nil {
		return nil, cerrors.List{{Kind: cerrors.BackendError, Message: err.Error()}}
	}

	log.Infof("loading module through backend")
	lib, err := backend.Load(ctx, module)
	if err != nil {
		return nil, cerrors.List{{Kind: cerrors.BackendError, Message: err.Error()}}
	}

	return &Program{sema: sp, lib: lib}, nil
}

// Bind resolves name's native address and builds a callable host handle for
// it, using the compiled function's own declared parameter and return
// types so callers never have to repeat them.
func (p *Program) Bind(name string) (*hostcall.Func, error) {
	fn := p.function(name)
	if fn == nil {
		return nil, fmt.Errorf("compiler: no such function %q", name)
	}
	params := make([]ctype.Type, len(fn.Params))
	for i, sym := range fn.Params {
		params[i] = sym.Type
	}
	return hostcall.Bind(p.lib, name, params, fn.ReturnType)
}

func (p *Program) function(name string) *sema.Function {
	for _, fn := range p.sema.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// Close releases the program's loaded native library.
func (p *Program) Close() error {
	return p.lib.Close()
}
