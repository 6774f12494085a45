package emit

import (
	"github.com/llir/llvm/ir/value"

	"github.com/google/c99jit/ctype"
	"github.com/google/c99jit/llvmir"
	"github.com/google/c99jit/snippets"
)

// convert emits whatever snippet call turns v (of type from) into type to,
// or returns v unchanged if the two types already share a representation.
// Every cast sema accepts (integer promotion, usual arithmetic conversion,
// explicit (T) casts) funnels through here.
func convert(b *llvmir.Builder, v value.Value, from, to ctype.Type) value.Value {
	if ctype.Equal(from, to) {
		return v
	}
	fromFloat, toFloat := isFloatType(from), isFloatType(to)
	fromTag, toTag := typeTag(from), typeTag(to)
	// Same-width integers of different signedness, and double vs long
	// double, share one IR representation.
	if fromTag == toTag && fromFloat == toFloat {
		if _, toBool := to.(ctype.Bool); !toBool {
			return v
		}
	}

	switch {
	case !fromFloat && !toFloat:
		return b.CallSnippet(intConvertKey(from, to, fromTag, toTag), v)
	case !fromFloat && toFloat:
		op := "sitofp"
		if !isSignedInt(from) {
			op = "uitofp"
		}
		return b.CallSnippet(snippets.Key{Op: op, Types: fromTag + "_" + toTag}, v)
	case fromFloat && !toFloat:
		op := "fptosi"
		if !isSignedInt(to) {
			op = "fptoui"
		}
		return b.CallSnippet(snippets.Key{Op: op, Types: fromTag + "_" + toTag}, v)
	default: // fromFloat && toFloat
		op := "fpext"
		if fromTag == "double" && toTag == "float" {
			op = "fptrunc"
		}
		return b.CallSnippet(snippets.Key{Op: op, Types: fromTag + "_" + toTag}, v)
	}
}

// intConvertKey picks sext/zext/trunc by comparing bit widths; the catalogue
// carries both signed and unsigned widening variants but only one
// truncation (truncation drops bits regardless of sign).
func intConvertKey(from, to ctype.Type, fromTag, toTag string) snippets.Key {
	fromBits := intBits(from)
	toBits := intBits(to)
	if toBits <= fromBits {
		return snippets.Key{Op: "trunc", Types: fromTag + "_" + toTag}
	}
	if isSignedInt(from) {
		return snippets.Key{Op: "sext", Types: fromTag + "_" + toTag}
	}
	return snippets.Key{Op: "zext", Types: fromTag + "_" + toTag}
}

func intBits(t ctype.Type) int {
	if _, ok := t.(ctype.Bool); ok {
		return 8
	}
	return t.(ctype.Int).Rank.Bits()
}
