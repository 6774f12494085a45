// Package ast is the untyped abstract syntax tree that the grammar
// package's concrete parse tree is lowered into: spec §3's Declaration,
// Statement and Expression node kinds, before sema resolves identifiers
// and types.
//
// Every concrete variant implements Node via a dummy isNode() method, the
// same tagged-interface idiom gapil/ast uses instead of a class hierarchy.
// Source positions are kept out of the node structs themselves and tracked
// in a side Mappings table keyed by node identity, mirroring gapil/ast's
// Mappings{ASTToCST, CSTToAST} — this is what lets every AST builder return
// a plain node value without also threading span plumbing through every
// constructor.
package ast

import "github.com/google/c99jit/grammar"

// Node is implemented by every concrete AST node.
type Node interface {
	isNode()
}

// Mappings associates AST nodes with the source span of the grammar.Node
// they were built from, for span lookups during diagnostics.
type Mappings struct {
	spans map[Node]grammar.Span
}

func (m *Mappings) add(n Node, span grammar.Span) {
	if m.spans == nil {
		m.spans = make(map[Node]grammar.Span)
	}
	m.spans[n] = span
}

// Span returns the source span n was built from, or the zero Span if n is
// unknown to m (a node synthesized by a later pass, not parsed directly).
func (m *Mappings) Span(n Node) grammar.Span {
	return m.spans[n]
}
