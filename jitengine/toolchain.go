package jitengine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/google/c99jit/internal/clog"
	"github.com/google/c99jit/llvmir"
)

// Toolchain is the Backend implementation that shells out to clang to
// assemble a module's IR text into a position-independent shared object,
// then dlopens it. Grounded on gapil/executor's "resolve every symbol by
// name out of a loaded module" shape (executor.Executor.symbols/Symbol),
// replacing its cgo runtime bridge with purego.
type Toolchain struct {
	clang string
	dir   string // scratch directory for generated .ll/.so files
}

// NewToolchain locates clang on PATH and returns a Toolchain that writes its
// scratch files under dir (created with os.MkdirTemp if dir is "").
func NewToolchain(dir string) (*Toolchain, error) {
	clang, err := exec.LookPath("clang")
	if err != nil {
		return nil, fmt.Errorf("jitengine: clang not found on PATH: %w", err)
	}
	if dir == "" {
		dir, err = os.MkdirTemp("", "c99jit-")
		if err != nil {
			return nil, fmt.Errorf("jitengine: MkdirTemp: %w", err)
		}
	}
	return &Toolchain{clang: clang, dir: dir}, nil
}

// Load writes module's IR text to a temporary .ll file, assembles it into a
// shared object with clang, and dlopens the result.
func (tc *Toolchain) Load(ctx context.Context, module *llvmir.Module) (Library, error) {
	log := clog.From(ctx)

	id := fmt.Sprintf("mod%p", module)
	llPath := filepath.Join(tc.dir, id+".ll")
	soPath := filepath.Join(tc.dir, id+".so")

	text := module.LLVM.String()
	if err := os.WriteFile(llPath, []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("jitengine: write %s: %w", llPath, err)
	}

	log.Infof("assembling %s -> %s", llPath, soPath)
	cmd := exec.CommandContext(ctx, tc.clang, "-O2", "-shared", "-fPIC", llPath, "-o", soPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("jitengine: clang failed: %w\n%s", err, out)
	}

	handle, err := purego.Dlopen(soPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("jitengine: dlopen %s: %w", soPath, err)
	}

	return &library{handle: handle, llPath: llPath, soPath: soPath, symbols: map[string]uintptr{}}, nil
}

// library is the Backend-agnostic Library implementation backing Toolchain.
type library struct {
	handle         uintptr
	llPath, soPath string

	mu      sync.Mutex
	symbols map[string]uintptr
}

func (l *library) Symbol(name string) (uintptr, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if addr, ok := l.symbols[name]; ok {
		return addr, true
	}
	addr, err := purego.Dlsym(l.handle, name)
	if err != nil {
		return 0, false
	}
	l.symbols[name] = addr
	return addr, true
}

func (l *library) Close() error {
	if err := purego.Dlclose(l.handle); err != nil {
		return fmt.Errorf("jitengine: dlclose: %w", err)
	}
	os.Remove(l.llPath)
	os.Remove(l.soPath)
	return nil
}
