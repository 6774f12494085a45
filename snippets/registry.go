// Package snippets is the pre-generated IR catalogue emit draws its
// arithmetic, comparison, and conversion operations from, instead of
// constructing every instruction by hand at lowering time. Each entry is
// ordinary LLVM IR text, grounded on how golint-fixer-exp's cmd/bin2ll and
// cmd/bin2asm hand llir/llvm raw textual fragments through asm.ParseString
// rather than building every ir.Inst field by field; here the fragments are
// checked in as a catalogue instead of produced from disassembly.
//
// A Key names an operation by its mnemonic and operand widths; Lookup
// returns the already-parsed *ir.Func, and Linker.Link adds that function
// (not any functions it calls) to a destination module the first time it is
// needed, by name, so a compiled module only carries the handful of
// snippets its source actually used.
package snippets

import (
	"embed"
	"fmt"
	"sync"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
)

//go:embed catalogue/*.ll
var catalogueFS embed.FS

var catalogueFiles = []string{
	"catalogue/int_arith.ll",
	"catalogue/int_compare.ll",
	"catalogue/float_arith.ll",
	"catalogue/float_compare.ll",
	"catalogue/convert.ll",
}

// Key names one catalogue entry: Op is the snippet's mnemonic (e.g. "add",
// "icmp_slt", "sitofp"), Types is the type suffix attached to the function
// name (e.g. "i32", "i32_double"). Building the symbol name is the only
// thing a Key is used for; emit is free to construct one straight from the
// type tags it already has on hand.
type Key struct {
	Op    string
	Types string
}

// Symbol returns the catalogue function name this Key addresses.
func (k Key) Symbol() string {
	return fmt.Sprintf("snippet_%s_%s", k.Op, k.Types)
}

// Registry is the parsed catalogue, indexed by function name.
type Registry struct {
	funcs map[string]*ir.Func
}

var (
	loadOnce sync.Once
	loadErr  error
	global   *Registry
)

// Load parses every catalogue/*.ll file once and returns the shared
// Registry. Safe to call from multiple goroutines; later calls reuse the
// first call's result.
func Load() (*Registry, error) {
	loadOnce.Do(func() {
		global, loadErr = load()
	})
	return global, loadErr
}

func load() (*Registry, error) {
	reg := &Registry{funcs: make(map[string]*ir.Func)}
	for _, path := range catalogueFiles {
		data, err := catalogueFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("snippets: read %s: %w", path, err)
		}
		m, err := asm.ParseString(path, string(data))
		if err != nil {
			return nil, fmt.Errorf("snippets: parse %s: %w", path, err)
		}
		for _, f := range m.Funcs {
			if _, dup := reg.funcs[f.Name()]; dup {
				return nil, fmt.Errorf("snippets: duplicate snippet symbol %q in %s", f.Name(), path)
			}
			reg.funcs[f.Name()] = f
		}
	}
	return reg, nil
}

// Lookup returns the snippet function for key, or false if no catalogue
// entry has that exact symbol.
func (r *Registry) Lookup(key Key) (*ir.Func, bool) {
	f, ok := r.funcs[key.Symbol()]
	return f, ok
}

// MustLookup is Lookup but panics on a missing entry, for callers that treat
// a miss as this package's own bug rather than a user-facing error.
func (r *Registry) MustLookup(key Key) *ir.Func {
	f, ok := r.Lookup(key)
	if !ok {
		panic(fmt.Sprintf("snippets: no catalogue entry for %s", key.Symbol()))
	}
	return f
}
