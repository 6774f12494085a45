package ctype_test

import (
	"testing"

	"github.com/google/c99jit/ctype"
)

func TestPromoteInteger(t *testing.T) {
	cases := []struct {
		name string
		in   ctype.Type
		want ctype.Type
	}{
		{"bool", ctype.Bool{}, ctype.IntType},
		{"char", ctype.CharType, ctype.IntType},
		{"unsigned char", ctype.UCharType, ctype.IntType},
		{"int unchanged", ctype.IntType, ctype.IntType},
		{"long unchanged", ctype.LongType, ctype.LongType},
		{"float unchanged", ctype.FloatType, ctype.FloatType},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ctype.PromoteInteger(c.in); !ctype.Equal(got, c.want) {
				t.Errorf("PromoteInteger(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestUsualArithmeticFloatDominates(t *testing.T) {
	got := ctype.UsualArithmetic(ctype.IntType, ctype.FloatType)
	if !ctype.Equal(got, ctype.FloatType) {
		t.Errorf("UsualArithmetic(int, float) = %v, want float", got)
	}
	got = ctype.UsualArithmetic(ctype.FloatType, ctype.DoubleType)
	if !ctype.Equal(got, ctype.DoubleType) {
		t.Errorf("UsualArithmetic(float, double) = %v, want double", got)
	}
}

func TestUsualArithmeticSameSignednessPicksWiderRank(t *testing.T) {
	got := ctype.UsualArithmetic(ctype.IntType, ctype.LongType)
	if !ctype.Equal(got, ctype.LongType) {
		t.Errorf("UsualArithmetic(int, long) = %v, want long", got)
	}
}

func TestUsualArithmeticMixedSignUnsignedWins(t *testing.T) {
	// unsigned long vs int: unsigned operand's rank is not less than the
	// signed operand's, so the result is unsigned long.
	got := ctype.UsualArithmetic(ctype.ULongType, ctype.IntType)
	if !ctype.Equal(got, ctype.ULongType) {
		t.Errorf("UsualArithmetic(unsigned long, int) = %v, want unsigned long", got)
	}
}

func TestUsualArithmeticMixedSignSignedWins(t *testing.T) {
	// long vs unsigned int: signed operand can represent every value of the
	// narrower unsigned operand, so the result stays signed long.
	got := ctype.UsualArithmetic(ctype.LongType, ctype.UIntType)
	if !ctype.Equal(got, ctype.LongType) {
		t.Errorf("UsualArithmetic(long, unsigned int) = %v, want long", got)
	}
}

func TestArrayToPointerDecay(t *testing.T) {
	arr := ctype.Array{Elem: ctype.IntType, Extent: ctype.FixedExtent(4)}
	got := ctype.ArrayToPointer(arr)
	want := ctype.Pointer{Elem: ctype.IntType}
	if !ctype.Equal(got, want) {
		t.Errorf("ArrayToPointer(int[4]) = %v, want %v", got, want)
	}
	if got := ctype.ArrayToPointer(ctype.IntType); !ctype.Equal(got, ctype.IntType) {
		t.Errorf("ArrayToPointer(int) = %v, want int unchanged", got)
	}
}

func TestIsArithmeticIntegerFloat(t *testing.T) {
	if !ctype.IsArithmetic(ctype.IntType) || !ctype.IsArithmetic(ctype.FloatType) || !ctype.IsArithmetic(ctype.Bool{}) {
		t.Error("IsArithmetic should accept bool/int/float")
	}
	if ctype.IsArithmetic(ctype.Pointer{Elem: ctype.IntType}) {
		t.Error("IsArithmetic should reject pointer")
	}
	if !ctype.IsInteger(ctype.IntType) || ctype.IsInteger(ctype.FloatType) {
		t.Error("IsInteger should accept int, reject float")
	}
	if !ctype.IsFloat(ctype.DoubleType) || ctype.IsFloat(ctype.IntType) {
		t.Error("IsFloat should accept double, reject int")
	}
}

func TestIsScalar(t *testing.T) {
	if !ctype.IsScalar(ctype.IntType) || !ctype.IsScalar(ctype.Pointer{Elem: ctype.IntType}) {
		t.Error("IsScalar should accept arithmetic and pointer types")
	}
	st := ctype.NewStruct("s", []string{"x"}, []ctype.Type{ctype.IntType})
	if ctype.IsScalar(st) {
		t.Error("IsScalar should reject struct")
	}
}

func TestIsLvalueCompatibleAssign(t *testing.T) {
	if !ctype.IsLvalueCompatibleAssign(ctype.IntType, ctype.FloatType) {
		t.Error("arithmetic-to-arithmetic assignment should be compatible")
	}
	pi := ctype.Pointer{Elem: ctype.IntType}
	pf := ctype.Pointer{Elem: ctype.FloatType}
	if !ctype.IsLvalueCompatibleAssign(pi, pi) {
		t.Error("identical pointer types should be assign-compatible")
	}
	if ctype.IsLvalueCompatibleAssign(pi, pf) {
		t.Error("int* and float* should not be assign-compatible")
	}
	s1 := ctype.NewStruct("s1", []string{"x"}, []ctype.Type{ctype.IntType})
	s2 := ctype.NewStruct("s2", []string{"x"}, []ctype.Type{ctype.IntType})
	if ctype.IsLvalueCompatibleAssign(s1, s2) {
		t.Error("distinct struct types should not be assign-compatible")
	}
	if !ctype.IsLvalueCompatibleAssign(s1, s1) {
		t.Error("a struct type should be assign-compatible with itself")
	}
}

func TestIsUnsigned(t *testing.T) {
	if !ctype.IsUnsigned(ctype.Bool{}) || !ctype.IsUnsigned(ctype.UIntType) {
		t.Error("IsUnsigned should accept bool and unsigned int")
	}
	if ctype.IsUnsigned(ctype.IntType) || ctype.IsUnsigned(ctype.FloatType) {
		t.Error("IsUnsigned should reject signed int and float")
	}
}
