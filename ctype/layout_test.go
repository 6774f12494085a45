package ctype_test

import (
	"testing"

	"github.com/google/c99jit/ctype"
)

func TestSizeAlignScalars(t *testing.T) {
	cases := []struct {
		name       string
		t          ctype.Type
		size, align uint64
	}{
		{"void", ctype.Void{}, 0, 1},
		{"bool", ctype.Bool{}, 1, 1},
		{"char", ctype.CharType, 1, 1},
		{"int", ctype.IntType, 4, 4},
		{"long", ctype.LongType, 8, 8},
		{"float", ctype.FloatType, 4, 4},
		{"double", ctype.DoubleType, 8, 8},
		{"long double", ctype.LongDoubleType, 16, 16},
		{"pointer", ctype.Pointer{Elem: ctype.IntType}, ctype.PointerSize, ctype.PointerAlign},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			size, align := ctype.SizeAlign(c.t)
			if size != c.size || align != c.align {
				t.Errorf("SizeAlign(%v) = (%d, %d), want (%d, %d)", c.t, size, align, c.size, c.align)
			}
		})
	}
}

func TestSizeAlignFixedArray(t *testing.T) {
	arr := ctype.Array{Elem: ctype.IntType, Extent: ctype.FixedExtent(10)}
	size, align := ctype.SizeAlign(arr)
	if size != 40 || align != 4 {
		t.Errorf("SizeAlign(int[10]) = (%d, %d), want (40, 4)", size, align)
	}
}

func TestSizeAlignVariableExtentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("SizeAlign of a variable-extent array should have panicked")
		}
	}()
	ctype.SizeAlign(ctype.Array{Elem: ctype.IntType, Extent: ctype.VariableExtent{}})
}

func TestNewStructNaturalAlignment(t *testing.T) {
	// struct { char c; int i; } -- c at 0, 3 bytes padding, i at 4, size 8.
	s := ctype.NewStruct("", []string{"c", "i"}, []ctype.Type{ctype.CharType, ctype.IntType})
	if s.Size != 8 || s.Align != 4 {
		t.Fatalf("struct{char;int} size/align = %d/%d, want 8/4", s.Size, s.Align)
	}
	cf, ok := s.FieldByName("c")
	if !ok || cf.Offset != 0 {
		t.Errorf("field c offset = %d, want 0", cf.Offset)
	}
	intf, ok := s.FieldByName("i")
	if !ok || intf.Offset != 4 {
		t.Errorf("field i offset = %d, want 4", intf.Offset)
	}
}

func TestNewStructTrailingPadding(t *testing.T) {
	// struct { int i; char c; } -- i at 0 (size 4), c at 4, then padded to 8
	// so an array of this struct keeps every element's int field aligned.
	s := ctype.NewStruct("", []string{"i", "c"}, []ctype.Type{ctype.IntType, ctype.CharType})
	if s.Size != 8 {
		t.Errorf("struct{int;char} size = %d, want 8 (trailing pad)", s.Size)
	}
}

func TestNewStructEmptyOccupiesOneByte(t *testing.T) {
	s := ctype.NewStruct("", nil, nil)
	if s.Size != 1 || s.Align != 1 {
		t.Errorf("empty struct size/align = %d/%d, want 1/1", s.Size, s.Align)
	}
}

func TestComputeLayoutFieldOffsets(t *testing.T) {
	s := ctype.NewStruct("point", []string{"x", "y"}, []ctype.Type{ctype.IntType, ctype.IntType})
	l := ctype.ComputeLayout(s)
	if l.Size != 8 || l.Align != 4 {
		t.Fatalf("ComputeLayout size/align = %d/%d, want 8/4", l.Size, l.Align)
	}
	if l.FieldOffsets["x"] != 0 || l.FieldOffsets["y"] != 4 {
		t.Errorf("ComputeLayout field offsets = %v, want x:0 y:4", l.FieldOffsets)
	}
}

func TestComputeLayoutNonStructHasNoOffsets(t *testing.T) {
	l := ctype.ComputeLayout(ctype.IntType)
	if l.FieldOffsets != nil {
		t.Errorf("ComputeLayout(int).FieldOffsets = %v, want nil", l.FieldOffsets)
	}
}
