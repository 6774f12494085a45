package emit

import (
	"fmt"

	"github.com/llir/llvm/ir/value"

	"github.com/google/c99jit/ctype"
	"github.com/google/c99jit/llvmir"
	"github.com/google/c99jit/snippets"
)

var relationalToIntPred = map[string]struct{ signed, unsigned string }{
	"<":  {"slt", "ult"},
	">":  {"sgt", "ugt"},
	"<=": {"sle", "ule"},
	">=": {"sge", "uge"},
	"==": {"eq", "eq"},
	"!=": {"ne", "ne"},
}

var relationalToFloatPred = map[string]string{
	"<": "olt", ">": "ogt", "<=": "ole", ">=": "oge", "==": "oeq", "!=": "one",
}

// simpleIntMnemonic covers every integer operator whose catalogue mnemonic
// does not depend on signedness.
var simpleIntMnemonic = map[string]string{
	"+": "add", "-": "sub", "*": "mul",
	"&": "and", "|": "or", "^": "xor", "<<": "shl",
}

// emitBinary emits operandType's snippet for op on left/right, both already
// converted to operandType. Relational/equality operators produce an
// already-widened i32, independent of operandType's own width.
func emitBinary(b *llvmir.Builder, op string, operandType ctype.Type, left, right value.Value) value.Value {
	tag := typeTag(operandType)

	if isFloatType(operandType) {
		if pred, ok := relationalToFloatPred[op]; ok {
			return b.CallSnippet(snippets.Key{Op: "fcmp_" + pred, Types: tag}, left, right)
		}
		mnemonic, ok := map[string]string{"+": "fadd", "-": "fsub", "*": "fmul", "/": "fdiv"}[op]
		if !ok {
			panic(fmt.Sprintf("emit: operator %q is not valid on floating operands", op))
		}
		return b.CallSnippet(snippets.Key{Op: mnemonic, Types: tag}, left, right)
	}

	if pred, ok := relationalToIntPred[op]; ok {
		p := pred.signed
		if !isSignedInt(operandType) {
			p = pred.unsigned
		}
		return b.CallSnippet(snippets.Key{Op: "icmp_" + p, Types: tag}, left, right)
	}

	if mnemonic, ok := simpleIntMnemonic[op]; ok {
		return b.CallSnippet(snippets.Key{Op: mnemonic, Types: tag}, left, right)
	}

	signed := isSignedInt(operandType)
	switch op {
	case "/":
		if signed {
			return b.CallSnippet(snippets.Key{Op: "sdiv", Types: tag}, left, right)
		}
		return b.CallSnippet(snippets.Key{Op: "udiv", Types: tag}, left, right)
	case "%":
		if signed {
			return b.CallSnippet(snippets.Key{Op: "srem", Types: tag}, left, right)
		}
		return b.CallSnippet(snippets.Key{Op: "urem", Types: tag}, left, right)
	case ">>":
		if signed {
			return b.CallSnippet(snippets.Key{Op: "ashr", Types: tag}, left, right)
		}
		return b.CallSnippet(snippets.Key{Op: "lshr", Types: tag}, left, right)
	}
	panic(fmt.Sprintf("emit: unsupported binary operator %q", op))
}
