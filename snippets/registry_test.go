package snippets_test

import (
	"testing"

	"github.com/llir/llvm/ir"

	"github.com/google/c99jit/snippets"
)

func TestLoadParsesCatalogue(t *testing.T) {
	reg, err := snippets.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cases := []snippets.Key{
		{Op: "add", Types: "i32"},
		{Op: "fmul", Types: "double"},
		{Op: "icmp_slt", Types: "i32"},
		{Op: "fcmp_olt", Types: "float"},
		{Op: "sitofp", Types: "i32_float"},
		{Op: "trunc", Types: "i64_i32"},
	}
	for _, key := range cases {
		if _, ok := reg.Lookup(key); !ok {
			t.Errorf("Lookup(%s) missing from catalogue", key.Symbol())
		}
	}
	if _, ok := reg.Lookup(snippets.Key{Op: "nope", Types: "i32"}); ok {
		t.Error("Lookup of a nonexistent key unexpectedly succeeded")
	}
}

func TestLinkIsIdempotentPerModule(t *testing.T) {
	reg, err := snippets.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	linker := snippets.NewLinker(reg)
	dst := ir.NewModule()
	key := snippets.Key{Op: "add", Types: "i32"}

	f1, ok := linker.Link(dst, key)
	if !ok {
		t.Fatal("Link returned ok=false for a real key")
	}
	f2, ok := linker.Link(dst, key)
	if !ok || f1 != f2 {
		t.Fatal("second Link of the same key did not return the same *ir.Func")
	}
	if len(dst.Funcs) != 1 {
		t.Fatalf("dst.Funcs has %d entries, want 1 (no duplicate declaration)", len(dst.Funcs))
	}
}

func TestLinkDoesNotCrossContaminateModules(t *testing.T) {
	reg, err := snippets.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	linker := snippets.NewLinker(reg)
	a, b := ir.NewModule(), ir.NewModule()
	key := snippets.Key{Op: "sub", Types: "i64"}

	if _, ok := linker.Link(a, key); !ok {
		t.Fatal("Link into module a failed")
	}
	if len(b.Funcs) != 0 {
		t.Fatalf("linking into a leaked a definition into b: %d funcs", len(b.Funcs))
	}
	if _, ok := linker.Link(b, key); !ok {
		t.Fatal("Link into module b failed")
	}
	if len(a.Funcs) != 1 || len(b.Funcs) != 1 {
		t.Fatalf("a.Funcs=%d b.Funcs=%d, want 1 each", len(a.Funcs), len(b.Funcs))
	}
}
