// Package emit lowers a *sema.Program into an LLVM IR module via llvmir,
// calling into the snippets catalogue for every arithmetic, comparison, and
// conversion operation instead of constructing instructions for them by
// hand. Grounded on core/codegen's "everything lives in a stack slot,
// loaded/stored explicitly" style (core/codegen.Builder.Local/LocalInit)
// rather than threading SSA values through the walk, which keeps the
// statement walker a direct structural recursion over *sema.Stmt/Expr
// instead of a dominance-aware value-numbering pass.
package emit

import (
	"fmt"

	"github.com/google/c99jit/ctype"
)

// typeTag returns the snippets catalogue's name for t's scalar
// representation ("i8", "i16", "i32", "i64", "float", "double"). Called
// only on types that reach a snippet call site: arithmetic/comparison
// operand types and cast source/destination types, all of which are
// scalar after sema's promotion and lvalue-decay rules.
func typeTag(t ctype.Type) string {
	switch t := t.(type) {
	case ctype.Bool:
		return "i8"
	case ctype.Int:
		switch t.Rank.Bits() {
		case 8:
			return "i8"
		case 16:
			return "i16"
		case 32:
			return "i32"
		default:
			return "i64"
		}
	case ctype.Float:
		if t.Rank == ctype.RankFloat {
			return "float"
		}
		return "double"
	default:
		panic(fmt.Sprintf("emit: typeTag of a non-scalar type %v", t))
	}
}

func isSignedInt(t ctype.Type) bool {
	i, ok := t.(ctype.Int)
	return ok && i.Signed
}

func isFloatType(t ctype.Type) bool {
	_, ok := t.(ctype.Float)
	return ok
}
