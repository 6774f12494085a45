package llvmir_test

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/google/c99jit/llvmir"
	"github.com/google/c99jit/snippets"
)

func newTestModule(t *testing.T) *llvmir.Module {
	t.Helper()
	reg, err := snippets.Load()
	if err != nil {
		t.Fatalf("snippets.Load: %v", err)
	}
	return llvmir.NewModule(snippets.NewLinker(reg))
}

// TestBuildMaxReturnsIfElseShape exercises IfElse and Return, building the
// equivalent of `int max(int a, int b) { if (a > b) return a; else return
// b; }` and checking the module text contains both branches and a call to
// the comparison snippet.
func TestBuildMaxReturnsIfElseShape(t *testing.T) {
	m := newTestModule(t)
	fn := m.NewFunc("max", types.I32, []string{"a", "b"}, []types.Type{types.I32, types.I32})

	fn.Build(func(b *llvmir.Builder) {
		a, bb := fn.Param(0), fn.Param(1)
		cond := b.CallSnippet(snippets.Key{Op: "icmp_sgt", Types: "i32"}, a, bb)
		truth := b.Cur().NewICmp(enum.IPredNE, cond, constant.NewInt(types.I32, 0))
		b.IfElse(truth,
			func(b *llvmir.Builder) { b.Return(a) },
			func(b *llvmir.Builder) { b.Return(bb) },
		)
	})

	text := m.LLVM.String()
	if !strings.Contains(text, "snippet_icmp_sgt_i32") {
		t.Error("module text missing call to comparison snippet")
	}
	if !strings.Contains(text, "if_then") || !strings.Contains(text, "if_else") {
		t.Error("module text missing expected if/else block labels")
	}
}

func TestBuildLoopCountsToN(t *testing.T) {
	m := newTestModule(t)
	fn := m.NewFunc("sumTo", types.I32, []string{"n"}, []types.Type{types.I32})

	fn.Build(func(b *llvmir.Builder) {
		n := fn.Param(0)
		entry := b.Cur()
		i := entry.NewAlloca(types.I32)
		entry.NewStore(constant.NewInt(types.I32, 0), i)
		sum := entry.NewAlloca(types.I32)
		entry.NewStore(constant.NewInt(types.I32, 0), sum)

		b.For(
			nil,
			func(b *llvmir.Builder) value.Value {
				iv := b.Cur().NewLoad(types.I32, i)
				cmp := b.CallSnippet(snippets.Key{Op: "icmp_slt", Types: "i32"}, iv, n)
				return b.Cur().NewTrunc(cmp, types.I1)
			},
			func(b *llvmir.Builder) {
				iv := b.Cur().NewLoad(types.I32, i)
				next := b.CallSnippet(snippets.Key{Op: "add", Types: "i32"}, iv, constant.NewInt(types.I32, 1))
				b.Cur().NewStore(next, i)
			},
			func(b *llvmir.Builder) {
				sv := b.Cur().NewLoad(types.I32, sum)
				iv := b.Cur().NewLoad(types.I32, i)
				next := b.CallSnippet(snippets.Key{Op: "add", Types: "i32"}, sv, iv)
				b.Cur().NewStore(next, sum)
			},
		)

		result := b.Cur().NewLoad(types.I32, sum)
		b.Return(result)
	})

	text := m.LLVM.String()
	for _, want := range []string{"for_test", "for_body", "for_step", "for_exit", "snippet_add_i32", "snippet_icmp_slt_i32"} {
		if !strings.Contains(text, want) {
			t.Errorf("module text missing %q", want)
		}
	}
}
