package ctype

// DataLayout is the LLVM target data layout string every emitted module
// declares, per spec §4.2/§6: little-endian, 64-bit pointers, natural
// alignment up to the target word, 128-bit (16-byte) long double storage
// and stack alignment.
const DataLayout = "e-m:e-i64:64-f80:128-n8:16:32:64-S128"

// PointerSize and PointerAlign follow from the i64:64 pointer entry of
// DataLayout.
const (
	PointerSize  = 8
	PointerAlign = 8
)

// Layout is the {size, align, field_offsets} triple spec §4.2 names.
// FieldOffsets is nil for non-struct types.
type Layout struct {
	Size         uint64
	Align        uint64
	FieldOffsets map[string]uint64
}

// SizeAlign returns the size and alignment, in bytes, of t under
// DataLayout. It panics on Function and on an Array with a non-Fixed
// extent, neither of which has a compile-time size.
func SizeAlign(t Type) (size, align uint64) {
	switch t := t.(type) {
	case Void:
		return 0, 1
	case Bool:
		return 1, 1
	case Int:
		bytes := uint64(t.Rank.Bits() / 8)
		return bytes, bytes
	case Float:
		switch t.Rank {
		case RankFloat:
			return 4, 4
		case RankDouble:
			return 8, 8
		case RankLongDouble:
			return 16, 16
		}
	case Pointer:
		return PointerSize, PointerAlign
	case Array:
		ext, ok := t.Extent.(FixedExtent)
		if !ok {
			panic("ctype: SizeAlign of an array without a fixed extent")
		}
		elemSize, elemAlign := SizeAlign(t.Elem)
		return elemSize * uint64(ext), elemAlign
	case *Struct:
		return t.Size, t.Align
	}
	panic("ctype: SizeAlign of a type with no compile-time layout")
}

// NewStruct lays out fields in declaration order using the natural-
// alignment rule of spec §4.2: each field is placed at the smallest offset
// ≥ the current offset such that offset % field.align == 0, and the final
// struct size is padded up to a multiple of the struct's own (maximum
// member) alignment.
func NewStruct(name string, fieldNames []string, fieldTypes []Type) *Struct {
	if len(fieldNames) != len(fieldTypes) {
		panic("ctype: NewStruct field name/type length mismatch")
	}
	fields := make([]Field, len(fieldNames))
	var offset, maxAlign uint64 = 0, 1
	for i, t := range fieldTypes {
		size, align := SizeAlign(t)
		if align > maxAlign {
			maxAlign = align
		}
		offset = alignUp(offset, align)
		fields[i] = Field{Name: fieldNames[i], Type: t, Offset: offset}
		offset += size
	}
	size := alignUp(offset, maxAlign)
	if size == 0 {
		// An empty struct still occupies one byte of storage, matching the
		// layout llir/llvm assigns to an empty LLVM struct type in practice.
		size, maxAlign = 1, 1
	}
	return &Struct{Name: name, Fields: fields, Size: size, Align: maxAlign}
}

func alignUp(n, align uint64) uint64 {
	if align == 0 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}

// ComputeLayout returns the full Layout of t, including a name-keyed
// offset table for struct types.
func ComputeLayout(t Type) Layout {
	size, align := SizeAlign(t)
	l := Layout{Size: size, Align: align}
	if s, ok := t.(*Struct); ok {
		l.FieldOffsets = make(map[string]uint64, len(s.Fields))
		for _, f := range s.Fields {
			l.FieldOffsets[f.Name] = f.Offset
		}
	}
	return l
}
