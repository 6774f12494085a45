package ast

import (
	"fmt"
	"strings"

	"github.com/google/c99jit/grammar"
)

// Builder lowers a grammar.Branch (the concrete parse tree) into an
// untyped ast.Node tree, recording each built node's source span in
// Mappings as it goes.
type Builder struct {
	Mappings
}

// Build lowers the root "translation-unit" parse tree produced by
// grammar.Parser.Parse.
func (b *Builder) Build(tree *grammar.Branch) (*TranslationUnit, error) {
	return b.buildTranslationUnit(tree)
}

func asBranch(n grammar.Node) *grammar.Branch {
	br, _ := n.(*grammar.Branch)
	return br
}

// text concatenates the Text of every Leaf reachable under n, in order,
// skipping absent (nil) optional terms. It reads off the raw matched
// substring of any purely lexical rule (identifier, integer-constant,
// floating-constant, character-constant, a single-keyword rule like
// type-specifier-name, ...) without a bespoke walker per rule.
func text(n grammar.Node) string {
	switch t := n.(type) {
	case nil:
		return ""
	case *grammar.Leaf:
		return t.Text
	case *grammar.Branch:
		var b strings.Builder
		for _, c := range t.Children {
			b.WriteString(text(c))
		}
		return b.String()
	default:
		return ""
	}
}

func (b *Builder) record(n Node, span grammar.Span) Node {
	b.add(n, span)
	return n
}

// ---- top level ------------------------------------------------------

func (b *Builder) buildTranslationUnit(tree *grammar.Branch) (*TranslationUnit, error) {
	tu := &TranslationUnit{}
	decl, err := b.buildExternalDeclaration(tree.Child(1))
	if err != nil {
		return nil, err
	}
	tu.Decls = append(tu.Decls, decl)

	tail := tree.Child(3)
	for {
		tb := asBranch(tail)
		if tb == nil || tb.AltIndex == 1 {
			break
		}
		decl, err := b.buildExternalDeclaration(tb.Child(0))
		if err != nil {
			return nil, err
		}
		tu.Decls = append(tu.Decls, decl)
		tail = tb.Child(2)
	}
	b.record(tu, tree.Span())
	return tu, nil
}

func (b *Builder) buildExternalDeclaration(n grammar.Node) (Node, error) {
	br := asBranch(n)
	switch br.AltIndex {
	case 0:
		return b.buildFunctionDef(asBranch(br.Child(0)))
	case 1:
		return b.buildDeclaration(asBranch(br.Child(0)))
	default:
		return nil, fmt.Errorf("ast: unknown external-declaration alternative %d", br.AltIndex)
	}
}

func (b *Builder) buildFunctionDef(br *grammar.Branch) (*FunctionDef, error) {
	spec, err := b.buildTypeSpec(br.Child(0))
	if err != nil {
		return nil, err
	}
	decl, err := b.buildDeclarator(br.Child(2))
	if err != nil {
		return nil, err
	}
	if !decl.IsFunc {
		return nil, fmt.Errorf("ast: function definition declarator %q is not a function declarator", decl.Name)
	}
	body, err := b.buildBlock(asBranch(br.Child(4)))
	if err != nil {
		return nil, err
	}
	fd := &FunctionDef{Spec: spec, Name: decl.Name, Params: decl.Params, Body: body}
	b.record(fd, br.Span())
	return fd, nil
}

// ---- type specifiers & declarators -----------------------------------

func (b *Builder) typeSpecifierName(n grammar.Node) string {
	return text(n)
}

func (b *Builder) buildTypeSpec(n grammar.Node) (TypeSpec, error) {
	br := asBranch(n)
	switch br.AltIndex {
	case 0:
		kw := b.typeSpecifierName(br.Child(0))
		rest, err := b.buildTypeSpec(br.Child(2))
		if err != nil {
			return TypeSpec{}, err
		}
		rest.Keywords = append([]string{kw}, rest.Keywords...)
		return rest, nil
	case 1:
		return TypeSpec{Keywords: []string{b.typeSpecifierName(br.Child(0))}}, nil
	case 2:
		spec, err := b.buildStructSpec(asBranch(br.Child(0)))
		if err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Struct: spec}, nil
	default:
		return TypeSpec{}, fmt.Errorf("ast: unknown declaration-specifiers alternative %d", br.AltIndex)
	}
}

func (b *Builder) buildStructSpec(br *grammar.Branch) (*StructSpec, error) {
	name := text(br.Child(2))
	spec := &StructSpec{Name: name}
	if br.AltIndex == 0 {
		fields, err := b.buildStructDeclarationList(br.Child(6))
		if err != nil {
			return nil, err
		}
		spec.Fields = fields
	}
	return spec, nil
}

func (b *Builder) buildStructDeclarationList(n grammar.Node) ([]*FieldDecl, error) {
	br := asBranch(n)
	if br.AltIndex == 0 {
		return b.buildStructDeclaration(asBranch(br.Child(0)))
	}
	prior, err := b.buildStructDeclarationList(br.Child(0))
	if err != nil {
		return nil, err
	}
	more, err := b.buildStructDeclaration(asBranch(br.Child(2)))
	if err != nil {
		return nil, err
	}
	return append(prior, more...), nil
}

func (b *Builder) buildStructDeclaration(br *grammar.Branch) ([]*FieldDecl, error) {
	kw := b.typeSpecifierName(br.Child(0))
	spec := TypeSpec{Keywords: []string{kw}}
	decls, err := b.buildStructDeclaratorList(br.Child(2))
	if err != nil {
		return nil, err
	}
	fields := make([]*FieldDecl, len(decls))
	for i, d := range decls {
		fields[i] = &FieldDecl{Spec: spec, Name: d.Name, ArrayDims: d.ArrayDims}
	}
	return fields, nil
}

func (b *Builder) buildStructDeclaratorList(n grammar.Node) ([]*Declarator, error) {
	br := asBranch(n)
	if br.AltIndex == 0 {
		d, err := b.buildDeclarator(br.Child(0))
		if err != nil {
			return nil, err
		}
		return []*Declarator{d}, nil
	}
	prior, err := b.buildStructDeclaratorList(br.Child(0))
	if err != nil {
		return nil, err
	}
	d, err := b.buildDeclarator(br.Child(4))
	if err != nil {
		return nil, err
	}
	return append(prior, d), nil
}

func (b *Builder) buildDeclarator(n grammar.Node) (*Declarator, error) {
	br := asBranch(n)
	if br.Sym == "declarator" || br.Sym == "struct-declarator" {
		return b.buildDeclarator(br.Child(0))
	}
	switch br.AltIndex {
	case 0:
		return &Declarator{Name: text(br.Child(0))}, nil
	case 1:
		return b.buildDeclarator(br.Child(2))
	case 2:
		base, err := b.buildDeclarator(br.Child(0))
		if err != nil {
			return nil, err
		}
		var dim Node
		if c := br.Child(4); c != nil {
			dim, err = b.buildAssignment(c)
			if err != nil {
				return nil, err
			}
		}
		base.ArrayDims = append(base.ArrayDims, dim)
		return base, nil
	case 3:
		base, err := b.buildDeclarator(br.Child(0))
		if err != nil {
			return nil, err
		}
		base.IsFunc = true
		if c := br.Child(4); c != nil {
			params, err := b.buildParameterList(c)
			if err != nil {
				return nil, err
			}
			base.Params = params
		}
		return base, nil
	default:
		return nil, fmt.Errorf("ast: unknown direct-declarator alternative %d", br.AltIndex)
	}
}

func (b *Builder) buildParameterList(n grammar.Node) ([]*Param, error) {
	br := asBranch(n)
	if br.AltIndex == 0 {
		p, err := b.buildParameterDecl(asBranch(br.Child(0)))
		if err != nil {
			return nil, err
		}
		return []*Param{p}, nil
	}
	prior, err := b.buildParameterList(br.Child(0))
	if err != nil {
		return nil, err
	}
	p, err := b.buildParameterDecl(asBranch(br.Child(4)))
	if err != nil {
		return nil, err
	}
	return append(prior, p), nil
}

func (b *Builder) buildParameterDecl(br *grammar.Branch) (*Param, error) {
	spec, err := b.buildTypeSpec(br.Child(0))
	if err != nil {
		return nil, err
	}
	decl, err := b.buildDeclarator(br.Child(2))
	if err != nil {
		return nil, err
	}
	return &Param{Spec: spec, Declarator: decl}, nil
}

func (b *Builder) buildInitDeclaratorList(n grammar.Node) ([]*InitDeclarator, error) {
	br := asBranch(n)
	if br.AltIndex == 0 {
		d, err := b.buildInitDeclarator(asBranch(br.Child(0)))
		if err != nil {
			return nil, err
		}
		return []*InitDeclarator{d}, nil
	}
	prior, err := b.buildInitDeclaratorList(br.Child(0))
	if err != nil {
		return nil, err
	}
	d, err := b.buildInitDeclarator(asBranch(br.Child(4)))
	if err != nil {
		return nil, err
	}
	return append(prior, d), nil
}

func (b *Builder) buildInitDeclarator(br *grammar.Branch) (*InitDeclarator, error) {
	decl, err := b.buildDeclarator(br.Child(0))
	if err != nil {
		return nil, err
	}
	id := &InitDeclarator{Declarator: decl}
	if br.AltIndex == 1 {
		init, err := b.buildAssignment(asBranch(br.Child(4)).Child(0))
		if err != nil {
			return nil, err
		}
		id.Init = init
	}
	return id, nil
}

func (b *Builder) buildDeclaration(br *grammar.Branch) (*Declaration, error) {
	spec, err := b.buildTypeSpec(br.Child(0))
	if err != nil {
		return nil, err
	}
	decl := &Declaration{Spec: spec}
	if br.AltIndex == 0 {
		ids, err := b.buildInitDeclaratorList(br.Child(2))
		if err != nil {
			return nil, err
		}
		decl.Declarators = ids
	}
	b.record(decl, br.Span())
	return decl, nil
}

// ---- statements -------------------------------------------------------

func (b *Builder) buildBlock(br *grammar.Branch) (*Block, error) {
	blk := &Block{}
	if c := br.Child(2); c != nil {
		items, err := b.buildBlockItemList(c)
		if err != nil {
			return nil, err
		}
		blk.Items = items
	}
	b.record(blk, br.Span())
	return blk, nil
}

func (b *Builder) buildBlockItemList(n grammar.Node) ([]Node, error) {
	br := asBranch(n)
	if br.AltIndex == 0 {
		item, err := b.buildBlockItem(asBranch(br.Child(0)))
		if err != nil {
			return nil, err
		}
		return []Node{item}, nil
	}
	prior, err := b.buildBlockItemList(br.Child(0))
	if err != nil {
		return nil, err
	}
	item, err := b.buildBlockItem(asBranch(br.Child(2)))
	if err != nil {
		return nil, err
	}
	return append(prior, item), nil
}

func (b *Builder) buildBlockItem(br *grammar.Branch) (Node, error) {
	switch br.AltIndex {
	case 0:
		d, err := b.buildDeclaration(asBranch(br.Child(0)))
		if err != nil {
			return nil, err
		}
		return &DeclStmt{Decl: d}, nil
	case 1:
		return b.buildStatement(asBranch(br.Child(0)))
	default:
		return nil, fmt.Errorf("ast: unknown block-item alternative %d", br.AltIndex)
	}
}

func (b *Builder) buildStatement(br *grammar.Branch) (Node, error) {
	switch br.AltIndex {
	case 0:
		return b.buildLabeled(asBranch(br.Child(0)))
	case 1:
		return b.buildBlock(asBranch(br.Child(0)))
	case 2:
		return b.buildExprStatement(asBranch(br.Child(0)))
	case 3:
		return b.buildSelection(asBranch(br.Child(0)))
	case 4:
		return b.buildIteration(asBranch(br.Child(0)))
	case 5:
		return b.buildJump(asBranch(br.Child(0)))
	default:
		return nil, fmt.Errorf("ast: unknown statement alternative %d", br.AltIndex)
	}
}

func (b *Builder) buildLabeled(br *grammar.Branch) (Node, error) {
	stmt, err := b.buildStatement(asBranch(br.Child(4)))
	if err != nil {
		return nil, err
	}
	return &Labeled{Label: text(br.Child(0)), Stmt: stmt}, nil
}

func (b *Builder) buildExprStatement(br *grammar.Branch) (Node, error) {
	if c := br.Child(1); c != nil {
		e, err := b.buildExpr(c)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: e}, nil
	}
	return &ExprStmt{}, nil
}

func (b *Builder) buildSelection(br *grammar.Branch) (Node, error) {
	cond, err := b.buildExpr(br.Child(4))
	if err != nil {
		return nil, err
	}
	then, err := b.buildStatement(asBranch(br.Child(8)))
	if err != nil {
		return nil, err
	}
	ifNode := &If{Cond: cond, Then: then}
	if br.AltIndex == 1 {
		els, err := b.buildStatement(asBranch(br.Child(12)))
		if err != nil {
			return nil, err
		}
		ifNode.Else = els
	}
	return ifNode, nil
}

func (b *Builder) buildForInit(n grammar.Node) (Node, error) {
	br := asBranch(n)
	switch br.AltIndex {
	case 0:
		return b.buildExpr(br.Child(0))
	case 1:
		return b.buildDeclaration(asBranch(br.Child(0)))
	default:
		return nil, fmt.Errorf("ast: unknown for-init alternative %d", br.AltIndex)
	}
}

func (b *Builder) buildIteration(br *grammar.Branch) (Node, error) {
	switch br.AltIndex {
	case 0:
		cond, err := b.buildExpr(br.Child(4))
		if err != nil {
			return nil, err
		}
		body, err := b.buildStatement(asBranch(br.Child(8)))
		if err != nil {
			return nil, err
		}
		return &While{Cond: cond, Body: body}, nil
	case 1:
		body, err := b.buildStatement(asBranch(br.Child(2)))
		if err != nil {
			return nil, err
		}
		cond, err := b.buildExpr(br.Child(8))
		if err != nil {
			return nil, err
		}
		return &DoWhile{Body: body, Cond: cond}, nil
	case 2:
		f := &For{}
		if c := br.Child(4); c != nil {
			init, err := b.buildForInit(c)
			if err != nil {
				return nil, err
			}
			f.Init = init
		}
		if c := br.Child(8); c != nil {
			cond, err := b.buildExpr(c)
			if err != nil {
				return nil, err
			}
			f.Cond = cond
		}
		if c := br.Child(12); c != nil {
			step, err := b.buildExpr(c)
			if err != nil {
				return nil, err
			}
			f.Step = step
		}
		body, err := b.buildStatement(asBranch(br.Child(16)))
		if err != nil {
			return nil, err
		}
		f.Body = body
		return f, nil
	default:
		return nil, fmt.Errorf("ast: unknown iteration-statement alternative %d", br.AltIndex)
	}
}

func (b *Builder) buildJump(br *grammar.Branch) (Node, error) {
	switch br.AltIndex {
	case 0:
		return &Goto{Label: text(br.Child(2))}, nil
	case 1:
		return &Continue{}, nil
	case 2:
		return &Break{}, nil
	case 3:
		ret := &Return{}
		if c := br.Child(2); c != nil {
			e, err := b.buildExpr(c)
			if err != nil {
				return nil, err
			}
			ret.Expr = e
		}
		return ret, nil
	default:
		return nil, fmt.Errorf("ast: unknown jump-statement alternative %d", br.AltIndex)
	}
}

// ---- expressions --------------------------------------------------------

func (b *Builder) buildExpr(n grammar.Node) (Node, error) {
	br := asBranch(n)
	if br.AltIndex == 0 {
		return b.buildAssignment(br.Child(0))
	}
	left, err := b.buildExpr(br.Child(0))
	if err != nil {
		return nil, err
	}
	right, err := b.buildAssignment(br.Child(4))
	if err != nil {
		return nil, err
	}
	return &Comma{Left: left, Right: right}, nil
}

func (b *Builder) buildAssignment(n grammar.Node) (Node, error) {
	br := asBranch(n)
	if br.AltIndex == 0 {
		return b.buildConditional(br.Child(0))
	}
	lhs, err := b.buildUnary(br.Child(0))
	if err != nil {
		return nil, err
	}
	rhs, err := b.buildAssignment(br.Child(4))
	if err != nil {
		return nil, err
	}
	return &Assign{Op: text(br.Child(2)), Left: lhs, Right: rhs}, nil
}

func (b *Builder) buildConditional(n grammar.Node) (Node, error) {
	br := asBranch(n)
	if br.AltIndex == 0 {
		return b.buildLogicalOr(br.Child(0))
	}
	cond, err := b.buildLogicalOr(br.Child(0))
	if err != nil {
		return nil, err
	}
	then, err := b.buildExpr(br.Child(4))
	if err != nil {
		return nil, err
	}
	els, err := b.buildConditional(br.Child(8))
	if err != nil {
		return nil, err
	}
	return &Conditional{Cond: cond, Then: then, Else: els}, nil
}

func (b *Builder) buildLogicalOr(n grammar.Node) (Node, error) {
	return buildLogical(n, b.buildLogicalOr, b.buildLogicalAnd)
}

func (b *Builder) buildLogicalAnd(n grammar.Node) (Node, error) {
	return buildLogical(n, b.buildLogicalAnd, b.buildOr)
}

func (b *Builder) buildOr(n grammar.Node) (Node, error) {
	return buildBinary(n, b.buildOr, b.buildXor)
}

func (b *Builder) buildXor(n grammar.Node) (Node, error) {
	return buildBinary(n, b.buildXor, b.buildAnd)
}

func (b *Builder) buildAnd(n grammar.Node) (Node, error) {
	return buildBinary(n, b.buildAnd, b.buildEquality)
}

func (b *Builder) buildEquality(n grammar.Node) (Node, error) {
	return buildBinary(n, b.buildEquality, b.buildRelational)
}

func (b *Builder) buildRelational(n grammar.Node) (Node, error) {
	return buildBinary(n, b.buildRelational, b.buildShift)
}

func (b *Builder) buildShift(n grammar.Node) (Node, error) {
	return buildBinary(n, b.buildShift, b.buildAdditive)
}

func (b *Builder) buildAdditive(n grammar.Node) (Node, error) {
	return buildBinary(n, b.buildAdditive, b.buildMultiplicative)
}

func (b *Builder) buildMultiplicative(n grammar.Node) (Node, error) {
	return buildBinary(n, b.buildMultiplicative, b.buildCast)
}

// buildBinary builds a left-recursive binary precedence level whose
// grammar shape is: alt 0 passes through to next; alt i>0 is
// `self spacing OP spacing next`.
func buildBinary(n grammar.Node, self, next func(grammar.Node) (Node, error)) (Node, error) {
	br := asBranch(n)
	if br.AltIndex == 0 {
		return next(br.Child(0))
	}
	left, err := self(br.Child(0))
	if err != nil {
		return nil, err
	}
	right, err := next(br.Child(4))
	if err != nil {
		return nil, err
	}
	return &Binary{Op: text(br.Child(2)), Left: left, Right: right}, nil
}

func buildLogical(n grammar.Node, self, next func(grammar.Node) (Node, error)) (Node, error) {
	br := asBranch(n)
	if br.AltIndex == 0 {
		return next(br.Child(0))
	}
	left, err := self(br.Child(0))
	if err != nil {
		return nil, err
	}
	right, err := next(br.Child(4))
	if err != nil {
		return nil, err
	}
	return &Logical{Op: text(br.Child(2)), Left: left, Right: right}, nil
}

func (b *Builder) buildTypeName(n grammar.Node) (TypeSpec, error) {
	br := asBranch(n)
	if br.AltIndex == 0 {
		return TypeSpec{Keywords: []string{text(br.Child(0))}}, nil
	}
	return TypeSpec{Struct: &StructSpec{Name: text(br.Child(2))}}, nil
}

func (b *Builder) buildCast(n grammar.Node) (Node, error) {
	br := asBranch(n)
	if br.AltIndex == 0 {
		return b.buildUnary(br.Child(0))
	}
	ts, err := b.buildTypeName(br.Child(2))
	if err != nil {
		return nil, err
	}
	operand, err := b.buildCast(br.Child(6))
	if err != nil {
		return nil, err
	}
	return &Cast{Type: ts, Operand: operand}, nil
}

func (b *Builder) buildUnary(n grammar.Node) (Node, error) {
	br := asBranch(n)
	switch br.AltIndex {
	case 0:
		return b.buildPostfix(br.Child(0))
	case 1:
		operand, err := b.buildUnary(br.Child(2))
		if err != nil {
			return nil, err
		}
		return &PreIncDec{Op: "++", Operand: operand}, nil
	case 2:
		operand, err := b.buildUnary(br.Child(2))
		if err != nil {
			return nil, err
		}
		return &PreIncDec{Op: "--", Operand: operand}, nil
	case 3:
		op := text(br.Child(0))
		operand, err := b.buildCast(br.Child(2))
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil
	default:
		return nil, fmt.Errorf("ast: unknown unary-expression alternative %d", br.AltIndex)
	}
}

func (b *Builder) buildArgList(n grammar.Node) ([]Node, error) {
	br := asBranch(n)
	if br.AltIndex == 0 {
		e, err := b.buildAssignment(br.Child(0))
		if err != nil {
			return nil, err
		}
		return []Node{e}, nil
	}
	prior, err := b.buildArgList(br.Child(0))
	if err != nil {
		return nil, err
	}
	e, err := b.buildAssignment(br.Child(4))
	if err != nil {
		return nil, err
	}
	return append(prior, e), nil
}

func (b *Builder) buildPostfix(n grammar.Node) (Node, error) {
	br := asBranch(n)
	switch br.AltIndex {
	case 0:
		return b.buildPrimary(br.Child(0))
	case 1:
		base, err := b.buildPostfix(br.Child(0))
		if err != nil {
			return nil, err
		}
		idx, err := b.buildExpr(br.Child(4))
		if err != nil {
			return nil, err
		}
		return &Index{Base: base, Subscript: idx}, nil
	case 2:
		callee, err := b.buildPostfix(br.Child(0))
		if err != nil {
			return nil, err
		}
		var args []Node
		if c := br.Child(4); c != nil {
			args, err = b.buildArgList(c)
			if err != nil {
				return nil, err
			}
		}
		return &Call{Callee: callee, Args: args}, nil
	case 3:
		base, err := b.buildPostfix(br.Child(0))
		if err != nil {
			return nil, err
		}
		return &Member{Base: base, Name: text(br.Child(4))}, nil
	case 4:
		base, err := b.buildPostfix(br.Child(0))
		if err != nil {
			return nil, err
		}
		return &Arrow{Base: base, Name: text(br.Child(4))}, nil
	case 5:
		operand, err := b.buildPostfix(br.Child(0))
		if err != nil {
			return nil, err
		}
		return &PostIncDec{Op: "++", Operand: operand}, nil
	case 6:
		operand, err := b.buildPostfix(br.Child(0))
		if err != nil {
			return nil, err
		}
		return &PostIncDec{Op: "--", Operand: operand}, nil
	default:
		return nil, fmt.Errorf("ast: unknown postfix-expression alternative %d", br.AltIndex)
	}
}

func (b *Builder) buildPrimary(n grammar.Node) (Node, error) {
	br := asBranch(n)
	switch br.AltIndex {
	case 0:
		return &Identifier{Name: text(br.Child(0))}, nil
	case 1:
		return &IntLiteral{Text: text(br.Child(0))}, nil
	case 2:
		return &FloatLiteral{Text: text(br.Child(0))}, nil
	case 3:
		return &CharLiteral{Text: text(br.Child(0))}, nil
	case 4:
		// Parens only resolved grouping during parsing; precedence is
		// already baked into the tree shape, so there is nothing left for
		// a Paren node to carry.
		return b.buildExpr(br.Child(2))
	default:
		return nil, fmt.Errorf("ast: unknown primary-expression alternative %d", br.AltIndex)
	}
}
