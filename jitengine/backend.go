// Package jitengine turns an assembled LLVM module into a loaded, callable
// native library. It shells out to the system LLVM toolchain (`clang`,
// located via os/exec.LookPath) to assemble and link emitted IR text into a
// shared object, then resolves exported function addresses by
// dlopen/dlsym-style dynamic loading via github.com/ebitengine/purego —
// grounded on the `gocpu`/`tinyrange-cc` retrieval-pack manifests, which
// carry purego for exactly this call-native-code-without-cgo role (no
// source file in the retrieved corpus calls purego directly; its public API
// is used here per its documented contract).
//
// jitengine.Backend is the interface emit/compiler code depends on, so the
// front end never imports purego or os/exec directly, matching spec §6's
// framing of the back end as an opaque collaborator.
package jitengine

import (
	"context"

	"github.com/google/c99jit/llvmir"
)

// Backend assembles and loads a compiled module, returning a Library that
// exposes every external function by name.
type Backend interface {
	Load(ctx context.Context, module *llvmir.Module) (Library, error)
}

// Library is a loaded native shared object.
type Library interface {
	// Symbol returns the address of the named exported function, or false
	// if the module never defined it.
	Symbol(name string) (uintptr, bool)
	// Close unloads the library and removes any temporary files backing it.
	Close() error
}
