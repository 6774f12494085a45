// Package sema resolves an ast.TranslationUnit into a typed tree: every
// expression annotated with its resolved ctype.Type and lvalue/rvalue
// category, every identifier bound to the declaration it refers to.
//
// The scope manager is grounded on gapil/resolver's scope/with() idiom: a
// singly-linked chain of scopes, pushed and popped around each nested block,
// with struct tags kept in a namespace separate from ordinary identifiers so
// `struct foo` and a variable named `foo` never collide (C99 6.2.3).
package sema

import "github.com/google/c99jit/ctype"

// SymbolKind distinguishes why a Symbol exists, for diagnostics.
type SymbolKind int

const (
	SymParam SymbolKind = iota
	SymLocal
	SymFunction
)

// Symbol is one bound name: a parameter, a local variable, or a function.
type Symbol struct {
	Name  string
	Type  ctype.Type
	Kind  SymbolKind
	Index int // parameter index, assigned by the resolver; zero for locals and functions
}

// scope is one lexical level of the ordinary-identifier and tag namespaces.
type scope struct {
	outer *scope
	vars  map[string]*Symbol
	tags  map[string]*ctype.Struct
}

func newScope(outer *scope) *scope {
	return &scope{outer: outer, vars: map[string]*Symbol{}, tags: map[string]*ctype.Struct{}}
}

// declare binds name to sym in this scope only. Returns false if name is
// already bound in this exact scope (shadowing an outer scope is fine; a
// redeclaration in the same scope is not).
func (s *scope) declare(sym *Symbol) bool {
	if _, exists := s.vars[sym.Name]; exists {
		return false
	}
	s.vars[sym.Name] = sym
	return true
}

// resolve searches this scope and every enclosing scope for name.
func (s *scope) resolve(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if sym, ok := cur.vars[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// declareTag binds a struct tag in this scope only, returning false if it
// is already bound here to a different definition.
func (s *scope) declareTag(name string, t *ctype.Struct) (*ctype.Struct, bool) {
	if existing, ok := s.tags[name]; ok {
		return existing, existing == t
	}
	s.tags[name] = t
	return t, true
}

// resolveTag searches this scope and every enclosing scope for a struct
// tag.
func (s *scope) resolveTag(name string) (*ctype.Struct, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if t, ok := cur.tags[name]; ok {
			return t, true
		}
	}
	return nil, false
}
