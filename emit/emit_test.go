package emit_test

import (
	"strings"
	"testing"

	"github.com/google/c99jit/ast"
	"github.com/google/c99jit/emit"
	"github.com/google/c99jit/grammar"
	"github.com/google/c99jit/sema"
)

// mustEmit parses, resolves, and emits src, failing the test at whichever
// stage breaks first. Mirrors sema_test.mustResolve one layer further down
// the pipeline.
func mustEmit(t *testing.T, src string) string {
	t.Helper()
	p, err := grammar.NewC99Parser()
	if err != nil {
		t.Fatalf("NewC99Parser: %v", err)
	}
	tree, err := p.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	var b ast.Builder
	tu, err := b.Build(tree)
	if err != nil {
		t.Fatalf("Build(%q): %v", src, err)
	}
	prog, err := sema.Resolve(tu, b.Mappings)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", src, err)
	}
	m, err := emit.Emit(prog)
	if err != nil {
		t.Fatalf("Emit(%q): %v", src, err)
	}
	return m.LLVM.String()
}

func requireAll(t *testing.T, text string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(text, w) {
			t.Errorf("module text missing %q:\n%s", w, text)
		}
	}
}

func requireNone(t *testing.T, text string, unwanted ...string) {
	t.Helper()
	for _, w := range unwanted {
		if strings.Contains(text, w) {
			t.Errorf("module text unexpectedly contains %q:\n%s", w, text)
		}
	}
}

func TestEmitF2pow2(t *testing.T) {
	text := mustEmit(t, `float f2pow2(int a){return 2.0f*(a*a);}`)
	requireAll(t, text, "define float @f2pow2", "snippet_mul_i32", "snippet_fmul_float", "snippet_sitofp_i32_float")
}

func TestEmitFfib(t *testing.T) {
	text := mustEmit(t, `int ffib(int a){if(a==0)return 0; else if(a==1)return 1; else return ffib(a-1)+ffib(a-2);}`)
	requireAll(t, text, "define i32 @ffib", "call i32 @ffib", "snippet_icmp_eq_i32", "snippet_sub_i32", "snippet_add_i32", "if_then", "if_else")
}

func TestEmitFfact(t *testing.T) {
	text := mustEmit(t, `int ffact(int a){if(a==0)return 1; return a*ffact(a-1);}`)
	requireAll(t, text, "define i32 @ffact", "call i32 @ffact", "snippet_mul_i32", "snippet_icmp_eq_i32")
}

func TestEmitFforif(t *testing.T) {
	text := mustEmit(t, `int fforif(int a,int b){int s=0;for(int i=0;i<a;i+=1){if(a>b)s+=b;else s+=a;} return s;}`)
	requireAll(t, text, "define i32 @fforif", "for_test", "for_body", "for_step", "for_exit",
		"snippet_icmp_slt_i32", "snippet_icmp_sgt_i32", "snippet_add_i32")
}

func TestEmitFifChainedreturn(t *testing.T) {
	text := mustEmit(t, `int fif_chainedreturn(int a,int b){if(a==1)return 0; else if(b==2)return 5; else return 6;}`)
	requireAll(t, text, "define i32 @fif_chainedreturn", "snippet_icmp_eq_i32", "if_then", "if_else")
}

func TestEmitFstructOfArray(t *testing.T) {
	text := mustEmit(t, `int fstruct_of_array(int a,int b){struct{float f;int i1,i2;int arr[10];}s; s.arr[1]=1.0f; return s.arr[1];}`)
	requireAll(t, text, "define i32 @fstruct_of_array", "getelementptr", "snippet_fptosi_float_i32")
}

// TestEmitVariableLengthArray exercises spec §4.7: a VLA local allocates
// with a dynamic-count alloca, saving and restoring the stack pointer
// around it via the llvm.stacksave/llvm.stackrestore intrinsics.
func TestEmitVariableLengthArray(t *testing.T) {
	src := `int vlasum(int n){int a[n]; int s=0; int i=0; for(;i<n;i+=1)a[i]=i; for(i=0;i<n;i+=1)s+=a[i]; return s;}`
	text := mustEmit(t, src)
	requireAll(t, text,
		"define i32 @vlasum",
		"@llvm.stacksave",
		"@llvm.stackrestore",
		"alloca i32, i64",
	)
}

// TestEmitVLAInLoopRestoresOnEveryIteration declares its VLA inside a loop
// body: the save/restore pair is emitted once, textually, at the body's
// single declaration site, but since the body's block is what the loop
// branches back to, that one pair runs again on every runtime iteration.
func TestEmitVLAInLoopRestoresOnEveryIteration(t *testing.T) {
	src := `int f(int n){int total=0; int i=0; for(;i<n;i+=1){int row[i]; row[0]=i; total+=row[0];} return total;}`
	text := mustEmit(t, src)
	requireAll(t, text, "define i32 @f", "@llvm.stacksave", "@llvm.stackrestore")
}

// TestEmitLocalInsideLoopAllocatesOnlyInEntryBlock guards spec §4.7's
// entry-block invariant: a fixed-size local declared inside a loop body
// must still get exactly one alloca, placed in the function's entry block,
// not one that textually sits in (and so would re-execute on every pass
// through) the loop body itself.
func TestEmitLocalInsideLoopAllocatesOnlyInEntryBlock(t *testing.T) {
	src := `int f(int n){int total=0; int i=0; for(;i<n;i+=1){int x=i*2; total+=x;} return total;}`
	text := mustEmit(t, src)

	entryIdx := strings.Index(text, "entry:")
	bodyIdx := strings.Index(text, "for_body")
	if entryIdx < 0 || bodyIdx < 0 {
		t.Fatalf("missing entry or for_body block:\n%s", text)
	}

	// The return-value slot, parameter n, and the locals total, i, x: five
	// i32 slots, each allocated exactly once regardless of how many times
	// the loop body runs at runtime.
	if n := strings.Count(text, "alloca i32"); n != 5 {
		t.Errorf("alloca i32 count = %d, want 5 (result, n, total, i, x)", n)
	}
	entryBlock := text[entryIdx:bodyIdx]
	if n := strings.Count(entryBlock, "alloca i32"); n != 5 {
		t.Errorf("entry block has %d i32 allocas, want all 5 (including x's) before for_body:\n%s", n, entryBlock)
	}
}

// TestEmitDeadCodeAfterReturnIsDropped checks that a statement unreachable
// after a return inside a nested block is simply never emitted, rather
// than producing an instruction appended after the block's terminator.
func TestEmitDeadCodeAfterReturnIsDropped(t *testing.T) {
	text := mustEmit(t, `int f(int a){if(a){return 1;a=2;}return 0;}`)
	requireAll(t, text, "store i32 1", "store i32 0")
	requireNone(t, text, "store i32 2")
}
