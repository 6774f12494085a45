package hostcall

import (
	"fmt"
	"reflect"

	"github.com/google/c99jit/ctype"
)

// goType returns the Go type purego's RegisterFunc should bind t's
// parameter or return slot to: the native-width int/float types for
// scalars, uintptr for a pointer (purego's own convention for a native
// address slot).
func goType(t ctype.Type) reflect.Type {
	switch t := t.(type) {
	case ctype.Bool:
		return reflect.TypeOf(int8(0))
	case ctype.Int:
		return intGoType(t)
	case ctype.Float:
		if t.Rank == ctype.RankFloat {
			return reflect.TypeOf(float32(0))
		}
		return reflect.TypeOf(float64(0))
	case ctype.Pointer:
		return reflect.TypeOf(uintptr(0))
	default:
		panic(fmt.Sprintf("hostcall: unsupported C type %v", t))
	}
}

func intGoType(t ctype.Int) reflect.Type {
	switch t.Rank.Bits() {
	case 8:
		if t.Signed {
			return reflect.TypeOf(int8(0))
		}
		return reflect.TypeOf(uint8(0))
	case 16:
		if t.Signed {
			return reflect.TypeOf(int16(0))
		}
		return reflect.TypeOf(uint16(0))
	case 32:
		if t.Signed {
			return reflect.TypeOf(int32(0))
		}
		return reflect.TypeOf(uint32(0))
	default:
		if t.Signed {
			return reflect.TypeOf(int64(0))
		}
		return reflect.TypeOf(uint64(0))
	}
}

// marshalArg converts a into t's native representation, returning a second
// value to keep alive (via runtime.KeepAlive) until the call completes when
// the conversion allocated a backing buffer (array arguments), nil
// otherwise.
func marshalArg(a any, t ctype.Type) (reflect.Value, any, error) {
	if pt, ok := t.(ctype.Pointer); ok {
		ptr, buf, err := marshalSequence(a, pt.Elem)
		if err != nil {
			return reflect.Value{}, nil, err
		}
		return reflect.ValueOf(ptr), buf, nil
	}

	gt := goType(t)
	v := reflect.ValueOf(a)
	if !v.Type().ConvertibleTo(gt) {
		return reflect.Value{}, nil, fmt.Errorf("cannot use %T as %v", a, t)
	}
	return v.Convert(gt), nil, nil
}

// sliceSequence adapts an ordinary Go slice or array value to Sequence, so
// callers never have to implement the interface themselves for a plain
// []T/[N]T argument.
type sliceSequence struct{ v reflect.Value }

func (s sliceSequence) Len() int     { return s.v.Len() }
func (s sliceSequence) At(i int) any { return s.v.Index(i).Interface() }

func asSequence(a any) (Sequence, bool) {
	if seq, ok := a.(Sequence); ok {
		return seq, true
	}
	v := reflect.ValueOf(a)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		return sliceSequence{v}, true
	}
	return nil, false
}

// marshalSequence builds a native buffer of elem's Go representation from
// a, returning its address (0 for a zero-length sequence) and the backing
// slice itself so the caller can keep it alive until the native call
// returns.
func marshalSequence(a any, elem ctype.Type) (uintptr, any, error) {
	seq, ok := asSequence(a)
	if !ok {
		return 0, nil, fmt.Errorf("%T is not a Sequence, slice, or array", a)
	}

	n := seq.Len()
	gt := goType(elem)
	buf := reflect.MakeSlice(reflect.SliceOf(gt), n, n)
	for i := 0; i < n; i++ {
		v := reflect.ValueOf(seq.At(i))
		if !v.Type().ConvertibleTo(gt) {
			return 0, nil, fmt.Errorf("element %d: cannot use %T as %v", i, seq.At(i), elem)
		}
		buf.Index(i).Set(v.Convert(gt))
	}
	if n == 0 {
		return 0, buf.Interface(), nil
	}
	return buf.Index(0).Addr().Pointer(), buf.Interface(), nil
}
