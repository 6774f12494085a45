package snippets

import (
	"sync"

	"github.com/llir/llvm/ir"
)

// Linker tracks, per output module, which catalogue symbols have already
// been copied in, so emit can call Link unconditionally every time an
// operation needs a snippet without producing duplicate definitions.
type Linker struct {
	reg    *Registry
	mu     sync.Mutex
	linked map[*ir.Module]map[string]*ir.Func
}

// NewLinker returns a Linker drawing from reg.
func NewLinker(reg *Registry) *Linker {
	return &Linker{reg: reg, linked: make(map[*ir.Module]map[string]*ir.Func)}
}

// Link ensures dst declares key's snippet function, appending it to dst's
// function list the first time it's requested, and returns the *ir.Func to
// call on every subsequent request (including the first).
func (l *Linker) Link(dst *ir.Module, key Key) (*ir.Func, bool) {
	f, ok := l.reg.Lookup(key)
	if !ok {
		return nil, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	have, ok := l.linked[dst]
	if !ok {
		have = make(map[string]*ir.Func)
		l.linked[dst] = have
	}
	if existing, ok := have[key.Symbol()]; ok {
		return existing, true
	}
	dst.Funcs = append(dst.Funcs, f)
	have[key.Symbol()] = f
	return f, true
}
