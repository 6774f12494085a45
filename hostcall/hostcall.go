// Package hostcall marshals a dynamically typed Go argument list into a
// native C ABI call against a function address resolved by jitengine,
// using github.com/ebitengine/purego's reflect-driven RegisterFunc: a
// reflect.FuncOf signature is built from the function's declared
// ctype.Type parameters and return type, registered against the resolved
// address, and invoked via reflect.Value.Call (spec §6's host-binding
// paragraph). Grounded on the same purego contract jitengine uses for
// symbol resolution; no retrieval-pack source file calls purego directly
// (see jitengine's package doc), so this is written straight from its
// published API rather than adapted from an example call site.
package hostcall

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/ebitengine/purego"

	"github.com/google/c99jit/ctype"
	"github.com/google/c99jit/jitengine"
)

// Sequence is a small indexable view over an array-typed host argument,
// for callers that don't want to materialize a Go slice up front (spec §6:
// "an indexable host sequence"). Any []T or [N]T value is accepted too,
// without implementing this interface, via reflection.
type Sequence interface {
	Len() int
	At(i int) any
}

// Func is one compiled function bound to a resolved native address.
type Func struct {
	name   string
	params []ctype.Type
	ret    ctype.Type
	fn     reflect.Value
}

// Bind resolves name in lib and registers a native call thunk for it with
// the given C parameter/return types.
func Bind(lib jitengine.Library, name string, params []ctype.Type, ret ctype.Type) (*Func, error) {
	addr, ok := lib.Symbol(name)
	if !ok {
		return nil, fmt.Errorf("hostcall: symbol %q not found", name)
	}

	in := make([]reflect.Type, len(params))
	for i, p := range params {
		in[i] = goType(p)
	}
	var out []reflect.Type
	if _, isVoid := ret.(ctype.Void); !isVoid {
		out = []reflect.Type{goType(ret)}
	}

	fnType := reflect.FuncOf(in, out, false)
	fnPtr := reflect.New(fnType)
	purego.RegisterFunc(fnPtr.Interface(), addr)

	return &Func{name: name, params: params, ret: ret, fn: fnPtr.Elem()}, nil
}

// Call invokes the bound function with args, converting each to its
// declared C parameter type. Returns nil for a void-returning function.
func (f *Func) Call(args ...any) (any, error) {
	if len(args) != len(f.params) {
		return nil, fmt.Errorf("hostcall: %s: got %d arguments, want %d", f.name, len(args), len(f.params))
	}

	in := make([]reflect.Value, len(args))
	var keepAlive []any
	for i, a := range args {
		v, ka, err := marshalArg(a, f.params[i])
		if err != nil {
			return nil, fmt.Errorf("hostcall: %s: argument %d: %w", f.name, i, err)
		}
		in[i] = v
		if ka != nil {
			keepAlive = append(keepAlive, ka)
		}
	}

	out := f.fn.Call(in)
	runtime.KeepAlive(keepAlive)

	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}
