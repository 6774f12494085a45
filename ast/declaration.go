package ast

// TypeSpec is the unresolved spelling of a declaration's type: either a
// sequence of type-specifier keywords ("unsigned", "long", "int", ...) or
// a struct specifier. sema's (*Resolver).resolveTypeSpec turns one into a
// ctype.Type.
type TypeSpec struct {
	Keywords  []string     // e.g. ["unsigned", "long"]; empty when Struct != nil
	Struct    *StructSpec  // non-nil for "struct NAME { ... }" or "struct NAME"
}

// StructSpec is a parsed struct-or-union-specifier. Fields is nil for a
// bare "struct NAME" reference to a previously declared tag.
type StructSpec struct {
	Name   string
	Fields []*FieldDecl // nil when this is a reference, not a definition
}

// FieldDecl is one member of a struct definition: `Spec Name ArrayDims;`.
type FieldDecl struct {
	Spec       TypeSpec
	Name       string
	ArrayDims  []Node // nil, or one size expression per array dimension
}

// Declarator is the name plus suffixes (`[]`/`()`) applied to a
// declaration-specifiers sequence.
type Declarator struct {
	Name      string
	ArrayDims []Node   // one entry per `[...]`, nil element for an elided size
	Params    []*Param // non-nil when this is a function declarator
	IsFunc    bool
}

// Param is one entry of a parameter-type-list.
type Param struct {
	Spec       TypeSpec
	Declarator *Declarator
}

// InitDeclarator is one entry of an init-declarator-list: a declarator
// with an optional initializer expression.
type InitDeclarator struct {
	Declarator *Declarator
	Init       Node // nil if there is no initializer
}

// Declaration is a non-function declaration: `Spec InitDeclarators...;`.
type Declaration struct {
	Spec         TypeSpec
	Declarators  []*InitDeclarator
}

func (*Declaration) isNode() {}

// FunctionDef is a function definition: declaration-specifiers declarator
// compound-statement, where the declarator is a function declarator.
type FunctionDef struct {
	Spec       TypeSpec
	Name       string
	Params     []*Param
	Body       *Block
}

func (*FunctionDef) isNode() {}

// TranslationUnit is the root node: an ordered list of FunctionDef and
// Declaration nodes.
type TranslationUnit struct {
	Decls []Node
}

func (*TranslationUnit) isNode() {}
