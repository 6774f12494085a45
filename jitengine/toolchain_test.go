package jitengine_test

import (
	"context"
	"os/exec"
	"testing"

	"github.com/llir/llvm/ir/types"

	"github.com/google/c99jit/jitengine"
	"github.com/google/c99jit/llvmir"
	"github.com/google/c99jit/snippets"
)

// requireClang skips the test when no system LLVM toolchain is available,
// since Toolchain.Load genuinely shells out to it rather than asserting
// anything about its absence.
func requireClang(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("clang"); err != nil {
		t.Skip("clang not found on PATH")
	}
}

func addModule(t *testing.T) *llvmir.Module {
	t.Helper()
	reg, err := snippets.Load()
	if err != nil {
		t.Fatalf("snippets.Load: %v", err)
	}
	m := llvmir.NewModule(snippets.NewLinker(reg))
	fn := m.NewFunc("add", types.I32, []string{"a", "b"}, []types.Type{types.I32, types.I32})
	fn.Build(func(b *llvmir.Builder) {
		sum := b.CallSnippet(snippets.Key{Op: "add", Types: "i32"}, fn.Param(0), fn.Param(1))
		b.Return(sum)
	})
	return m
}

func TestToolchainLoadResolvesSymbol(t *testing.T) {
	requireClang(t)

	tc, err := jitengine.NewToolchain(t.TempDir())
	if err != nil {
		t.Fatalf("NewToolchain: %v", err)
	}

	lib, err := tc.Load(context.Background(), addModule(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer lib.Close()

	if _, ok := lib.Symbol("add"); !ok {
		t.Error("Symbol(\"add\") not found in loaded library")
	}
	if _, ok := lib.Symbol("snippet_add_i32"); !ok {
		t.Error("Symbol(\"snippet_add_i32\") not found in loaded library")
	}
	if _, ok := lib.Symbol("does_not_exist"); ok {
		t.Error("Symbol(\"does_not_exist\") unexpectedly resolved")
	}
}
