package emit

import (
	"fmt"

	"github.com/llir/llvm/ir/value"

	"github.com/google/c99jit/llvmir"
	"github.com/google/c99jit/sema"
)

// emitStmt emits s into the function currently under construction.
func (fc *funcState) emitStmt(s sema.Stmt) {
	switch s := s.(type) {
	case *sema.Block:
		fc.emitBlock(s)
	case *sema.ExprStmt:
		if s.Expr != nil {
			fc.emitExpr(s.Expr)
		}
	case *sema.DeclStmt:
		var init value.Value
		if s.Init != nil {
			init = convert(fc.builder, fc.emitExpr(s.Init), s.Init.Type(), s.Sym.Type)
		}
		fc.declareLocal(s.Sym, init)
	case *sema.If:
		fc.emitIf(s)
	case *sema.While:
		fc.pushLoop()
		fc.builder.While(
			func(b *llvmir.Builder) value.Value { return fc.toBool(fc.emitExpr(s.Cond), s.Cond.Type()) },
			func(b *llvmir.Builder) { fc.emitStmt(s.Body) },
		)
		fc.popLoop()
	case *sema.DoWhile:
		fc.pushLoop()
		fc.builder.DoWhile(
			func(b *llvmir.Builder) { fc.emitStmt(s.Body) },
			func(b *llvmir.Builder) value.Value { return fc.toBool(fc.emitExpr(s.Cond), s.Cond.Type()) },
		)
		fc.popLoop()
	case *sema.For:
		fc.emitFor(s)
	case *sema.Break:
		fc.emitVLARestores(fc.currentLoopMark())
		fc.builder.Break()
	case *sema.Continue:
		fc.emitVLARestores(fc.currentLoopMark())
		fc.builder.Continue()
	case *sema.Return:
		fc.emitReturn(s)
	case *sema.Labeled:
		// Goto is rejected at resolution time, so nothing ever branches to
		// Label: the label itself carries no codegen weight.
		fc.emitStmt(s.Stmt)
	default:
		panic(fmt.Sprintf("emit: unsupported statement %T", s))
	}
}

// emitBlock walks blk's statements. A variable-length array declared
// directly in blk is never pre-slotted here (see isVLA) since its length
// expression may read an earlier local in the same block that hasn't been
// stored yet; it allocates lazily when its own DeclStmt runs. Every VLA
// opened while walking blk is stack-restored on the way out, either by the
// early-exit statement that terminated the block (break/continue/return,
// each of which does its own restore) or, on ordinary fallthrough, right
// here (spec §4.7's "exactly one stack-restore" invariant).
func (fc *funcState) emitBlock(blk *sema.Block) {
	mark := len(fc.vlaSaves)
	for _, sym := range blk.Locals {
		if !isVLA(sym.Type) {
			fc.slot(sym)
		}
	}
	for _, item := range blk.Items {
		if fc.builder.IsTerminated() {
			break
		}
		fc.emitStmt(item)
	}
	if !fc.builder.IsTerminated() {
		fc.emitVLARestores(mark)
	}
	fc.vlaSaves = fc.vlaSaves[:mark]
}

func (fc *funcState) emitIf(s *sema.If) {
	cond := fc.toBool(fc.emitExpr(s.Cond), s.Cond.Type())
	if s.Else == nil {
		fc.builder.If(cond, func(b *llvmir.Builder) { fc.emitStmt(s.Then) })
		return
	}
	fc.builder.IfElse(cond,
		func(b *llvmir.Builder) { fc.emitStmt(s.Then) },
		func(b *llvmir.Builder) { fc.emitStmt(s.Else) },
	)
}

func (fc *funcState) emitFor(s *sema.For) {
	for _, sym := range s.Locals {
		if !isVLA(sym.Type) {
			fc.slot(sym)
		}
	}

	var initFn func(*llvmir.Builder)
	if s.Init != nil {
		initFn = func(b *llvmir.Builder) { fc.emitStmt(s.Init) }
	}

	var testFn func(*llvmir.Builder) value.Value
	if s.Cond != nil {
		testFn = func(b *llvmir.Builder) value.Value { return fc.toBool(fc.emitExpr(s.Cond), s.Cond.Type()) }
	}

	var stepFn func(*llvmir.Builder)
	if s.Step != nil {
		stepFn = func(b *llvmir.Builder) { fc.emitExpr(s.Step) }
	}

	fc.pushLoop()
	fc.builder.For(initFn, testFn, stepFn, func(b *llvmir.Builder) { fc.emitStmt(s.Body) })
	fc.popLoop()
}

// emitReturn evaluates and converts the return value (if any) before
// restoring any open VLA stack allocations, since the expression may
// itself read from one of them (e.g. `return a[i];`).
func (fc *funcState) emitReturn(s *sema.Return) {
	if s.Expr == nil {
		fc.emitVLARestores(0)
		fc.builder.Return(nil)
		return
	}
	v := fc.convertToReturnType(fc.emitExpr(s.Expr), s.Expr.Type())
	fc.emitVLARestores(0)
	fc.builder.Return(v)
}
