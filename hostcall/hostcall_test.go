package hostcall_test

import (
	"context"
	"os/exec"
	"testing"

	"github.com/llir/llvm/ir/types"

	"github.com/google/c99jit/ctype"
	"github.com/google/c99jit/hostcall"
	"github.com/google/c99jit/jitengine"
	"github.com/google/c99jit/llvmir"
	"github.com/google/c99jit/snippets"
)

func requireClang(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("clang"); err != nil {
		t.Skip("clang not found on PATH")
	}
}

func loadModule(t *testing.T, build func(m *llvmir.Module)) jitengine.Library {
	t.Helper()
	reg, err := snippets.Load()
	if err != nil {
		t.Fatalf("snippets.Load: %v", err)
	}
	m := llvmir.NewModule(snippets.NewLinker(reg))
	build(m)

	tc, err := jitengine.NewToolchain(t.TempDir())
	if err != nil {
		t.Fatalf("NewToolchain: %v", err)
	}
	lib, err := tc.Load(context.Background(), m)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return lib
}

func TestBindCallScalarArgs(t *testing.T) {
	requireClang(t)

	lib := loadModule(t, func(m *llvmir.Module) {
		fn := m.NewFunc("add", types.I32, []string{"a", "b"}, []types.Type{types.I32, types.I32})
		fn.Build(func(b *llvmir.Builder) {
			sum := b.CallSnippet(snippets.Key{Op: "add", Types: "i32"}, fn.Param(0), fn.Param(1))
			b.Return(sum)
		})
	})

	add, err := hostcall.Bind(lib, "add", []ctype.Type{ctype.IntType, ctype.IntType}, ctype.IntType)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	got, err := add.Call(int32(20), int32(22))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got.(int32) != 42 {
		t.Errorf("add(20, 22) = %v, want 42", got)
	}
}

func TestBindCallArgumentCountMismatch(t *testing.T) {
	requireClang(t)

	lib := loadModule(t, func(m *llvmir.Module) {
		fn := m.NewFunc("add", types.I32, []string{"a", "b"}, []types.Type{types.I32, types.I32})
		fn.Build(func(b *llvmir.Builder) {
			sum := b.CallSnippet(snippets.Key{Op: "add", Types: "i32"}, fn.Param(0), fn.Param(1))
			b.Return(sum)
		})
	})

	add, err := hostcall.Bind(lib, "add", []ctype.Type{ctype.IntType, ctype.IntType}, ctype.IntType)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if _, err := add.Call(int32(1)); err == nil {
		t.Error("Call with wrong argument count should have failed")
	}
}

func TestBindCallPointerArgFromSlice(t *testing.T) {
	requireClang(t)

	lib := loadModule(t, func(m *llvmir.Module) {
		ptrType := types.NewPointer(types.I32)
		fn := m.NewFunc("first", types.I32, []string{"arr"}, []types.Type{ptrType})
		fn.Build(func(b *llvmir.Builder) {
			v := b.Cur().NewLoad(types.I32, fn.Param(0))
			b.Return(v)
		})
	})

	first, err := hostcall.Bind(lib, "first",
		[]ctype.Type{ctype.Pointer{Elem: ctype.IntType}}, ctype.IntType)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	got, err := first.Call([]int32{99, 1, 2})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got.(int32) != 99 {
		t.Errorf("first([]int32{99,1,2}) = %v, want 99", got)
	}
}

func TestBindUnknownSymbolFails(t *testing.T) {
	requireClang(t)

	lib := loadModule(t, func(m *llvmir.Module) {
		fn := m.NewFunc("add", types.I32, []string{"a", "b"}, []types.Type{types.I32, types.I32})
		fn.Build(func(b *llvmir.Builder) {
			sum := b.CallSnippet(snippets.Key{Op: "add", Types: "i32"}, fn.Param(0), fn.Param(1))
			b.Return(sum)
		})
	})

	if _, err := hostcall.Bind(lib, "does_not_exist", nil, ctype.IntType); err == nil {
		t.Error("Bind of an unresolved symbol should have failed")
	}
}
