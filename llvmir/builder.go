package llvmir

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/google/c99jit/snippets"
)

// Builder appends instructions to a function body. Unlike core/codegen's
// Builder, which wraps an llvm.Builder holding a stateful global insert
// point, llvmir.Builder just carries the current *ir.Block directly: every
// control-flow helper below switches b.cur to the block it wants
// instructions appended to next, which is all llir/llvm's per-block
// NewXxx() methods need.
type Builder struct {
	fn     *Function
	entry  *ir.Block
	cur    *ir.Block
	exit   *ir.Block
	result *ir.InstAlloca // nil for a void-returning function
	loops  []loopCtx
	seq    int
}

type loopCtx struct {
	continueTarget *ir.Block
	breakTarget    *ir.Block
}

// Cur returns the block instructions are currently appended to.
func (b *Builder) Cur() *ir.Block { return b.cur }

// Entry returns the function's entry block, regardless of which block is
// current. Every local's stack slot is allocated here rather than at Cur()
// (spec.md's "allocate in the function-entry block, not the current block"
// invariant): an alloca inside a loop or if/else body would otherwise
// re-execute on every pass through that block instead of once per call.
func (b *Builder) Entry() *ir.Block { return b.entry }

// IsTerminated reports whether the current block already ends in a
// terminator, meaning no further instruction may be appended to it.
func (b *Builder) IsTerminated() bool { return b.cur.Term != nil }

func (b *Builder) newBlock(name string) *ir.Block {
	b.seq++
	return b.fn.LLVM.NewBlock(fmt.Sprintf("%s.%d", name, b.seq))
}

// br emits an unconditional branch to target unless the current block is
// already terminated (e.g. it ends in its own return or a nested branch).
func (b *Builder) br(target *ir.Block) {
	if b.cur.Term == nil {
		b.cur.NewBr(target)
	}
}

// If builds `if (cond) then`.
func (b *Builder) If(cond value.Value, then func(*Builder)) {
	b.IfElse(cond, then, nil)
}

// IfElse builds `if (cond) then else els`. Either branch may leave its
// block terminated (e.g. via Return); the merge block is only reachable
// from branches that fall through.
func (b *Builder) IfElse(cond value.Value, then, els func(*Builder)) {
	thenBlock := b.newBlock("if_then")
	var elseBlock *ir.Block
	mergeBlock := b.newBlock("if_end")
	if els != nil {
		elseBlock = b.newBlock("if_else")
	} else {
		elseBlock = mergeBlock
	}

	b.cur.NewCondBr(cond, thenBlock, elseBlock)

	b.cur = thenBlock
	then(b)
	b.br(mergeBlock)

	if els != nil {
		b.cur = elseBlock
		els(b)
		b.br(mergeBlock)
	}

	b.cur = mergeBlock
}

// While builds `while (test) body`, with break/continue valid inside body.
func (b *Builder) While(test func(*Builder) value.Value, body func(*Builder)) {
	testBlock := b.newBlock("while_test")
	bodyBlock := b.newBlock("while_body")
	exitBlock := b.newBlock("while_exit")

	b.br(testBlock)

	b.cur = testBlock
	cond := test(b)
	b.cur.NewCondBr(cond, bodyBlock, exitBlock)

	b.pushLoop(testBlock, exitBlock)
	b.cur = bodyBlock
	body(b)
	b.br(testBlock)
	b.popLoop()

	b.cur = exitBlock
}

// DoWhile builds `do body while (test);`.
func (b *Builder) DoWhile(body func(*Builder), test func(*Builder) value.Value) {
	bodyBlock := b.newBlock("do_body")
	testBlock := b.newBlock("do_test")
	exitBlock := b.newBlock("do_exit")

	b.br(bodyBlock)

	b.pushLoop(testBlock, exitBlock)
	b.cur = bodyBlock
	body(b)
	b.br(testBlock)
	b.popLoop()

	b.cur = testBlock
	cond := test(b)
	b.cur.NewCondBr(cond, bodyBlock, exitBlock)

	b.cur = exitBlock
}

// For builds `for (init; test; step) body`. init and step may be nil; test
// nil means "always true".
func (b *Builder) For(init func(*Builder), test func(*Builder) value.Value, step func(*Builder), body func(*Builder)) {
	if init != nil {
		init(b)
	}

	testBlock := b.newBlock("for_test")
	bodyBlock := b.newBlock("for_body")
	stepBlock := b.newBlock("for_step")
	exitBlock := b.newBlock("for_exit")

	b.br(testBlock)

	b.cur = testBlock
	if test != nil {
		cond := test(b)
		b.cur.NewCondBr(cond, bodyBlock, exitBlock)
	} else {
		b.br(bodyBlock)
	}

	b.pushLoop(stepBlock, exitBlock)
	b.cur = bodyBlock
	body(b)
	b.br(stepBlock)
	b.popLoop()

	b.cur = stepBlock
	if step != nil {
		step(b)
	}
	b.br(testBlock)

	b.cur = exitBlock
}

func (b *Builder) pushLoop(continueTarget, breakTarget *ir.Block) {
	b.loops = append(b.loops, loopCtx{continueTarget: continueTarget, breakTarget: breakTarget})
}

func (b *Builder) popLoop() {
	b.loops = b.loops[:len(b.loops)-1]
}

// Break branches to the innermost enclosing loop's exit block. Callers
// (sema, ahead of emit) are responsible for rejecting break outside a loop;
// this panics if called with no loop on the stack, since that indicates a
// bug in emit's walk, not a user error.
func (b *Builder) Break() {
	b.cur.NewBr(b.loops[len(b.loops)-1].breakTarget)
}

// Continue branches to the innermost enclosing loop's continuation point
// (the test block for while/do-while, the step block for for).
func (b *Builder) Continue() {
	b.cur.NewBr(b.loops[len(b.loops)-1].continueTarget)
}

// Return stores val (nil for a void return) into the function's result
// slot and branches to the shared exit block.
func (b *Builder) Return(val value.Value) {
	if b.result != nil && val != nil {
		b.cur.NewStore(val, b.result)
	}
	b.cur.NewBr(b.exit)
}

// CallSnippet links key's catalogue function into the enclosing module (if
// not already linked) and emits a call to it with args.
func (b *Builder) CallSnippet(key snippets.Key, args ...value.Value) value.Value {
	f, ok := b.fn.module.Linker.Link(b.fn.module.LLVM, key)
	if !ok {
		panic("llvmir: no snippet for " + key.Symbol())
	}
	vargs := make([]value.Value, len(args))
	copy(vargs, args)
	return b.cur.NewCall(f, vargs...)
}
