package hostcall

import (
	"reflect"
	"testing"

	"github.com/google/c99jit/ctype"
)

func TestGoTypeMapsEveryScalarKind(t *testing.T) {
	cases := []struct {
		t    ctype.Type
		want reflect.Type
	}{
		{ctype.Bool{}, reflect.TypeOf(int8(0))},
		{ctype.CharType, reflect.TypeOf(int8(0))},
		{ctype.IntType, reflect.TypeOf(int32(0))},
		{ctype.UIntType, reflect.TypeOf(uint32(0))},
		{ctype.LongType, reflect.TypeOf(int64(0))},
		{ctype.FloatType, reflect.TypeOf(float32(0))},
		{ctype.DoubleType, reflect.TypeOf(float64(0))},
		{ctype.Pointer{Elem: ctype.IntType}, reflect.TypeOf(uintptr(0))},
	}
	for _, c := range cases {
		if got := goType(c.t); got != c.want {
			t.Errorf("goType(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

type intSeq []int

func (s intSeq) Len() int     { return len(s) }
func (s intSeq) At(i int) any { return s[i] }

func TestMarshalSequenceAcceptsSequenceAndPlainSlice(t *testing.T) {
	ptr1, buf1, err := marshalSequence(intSeq{1, 2, 3}, ctype.IntType)
	if err != nil {
		t.Fatalf("marshalSequence(Sequence): %v", err)
	}
	if ptr1 == 0 {
		t.Error("marshalSequence(Sequence) returned a nil pointer for a non-empty sequence")
	}
	if got := buf1.([]int32); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("marshalSequence(Sequence) buffer = %v", got)
	}

	ptr2, buf2, err := marshalSequence([]int32{4, 5}, ctype.IntType)
	if err != nil {
		t.Fatalf("marshalSequence([]int32): %v", err)
	}
	if ptr2 == 0 {
		t.Error("marshalSequence([]int32) returned a nil pointer")
	}
	if got := buf2.([]int32); len(got) != 2 || got[0] != 4 {
		t.Errorf("marshalSequence([]int32) buffer = %v", got)
	}
}

func TestMarshalSequenceRejectsNonSequence(t *testing.T) {
	if _, _, err := marshalSequence(42, ctype.IntType); err == nil {
		t.Error("marshalSequence(42) should have failed: not a Sequence, slice, or array")
	}
}

func TestMarshalArgScalarConverts(t *testing.T) {
	v, keepAlive, err := marshalArg(7, ctype.IntType)
	if err != nil {
		t.Fatalf("marshalArg: %v", err)
	}
	if keepAlive != nil {
		t.Error("marshalArg of a scalar should not need a keepAlive buffer")
	}
	if v.Kind() != reflect.Int32 || v.Int() != 7 {
		t.Errorf("marshalArg(7, int) = %v", v)
	}
}
