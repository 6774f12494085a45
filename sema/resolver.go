package sema

import (
	"github.com/google/c99jit/ast"
	"github.com/google/c99jit/cerrors"
	"github.com/google/c99jit/ctype"
)

// Function is one resolved, fully typed function definition.
type Function struct {
	Name       string
	Params     []*Symbol
	ReturnType ctype.Type
	Body       *Block

	// VLAExprs holds, in declaration order, the length expression of every
	// variable-length array declared in this function. A ctype.Array whose
	// Extent is a ctype.VariableExtent names its length expression by
	// indexing this slice with VariableExtent.ExprID.
	VLAExprs []Expr
}

// Program is the typed result of resolving an entire translation unit.
type Program struct {
	Functions []*Function
	Structs   []*ctype.Struct // every struct defined anywhere, named or anonymous, in definition order
}

// Resolver walks an ast.TranslationUnit, accumulating diagnostics in Errors
// and producing a Program. Construct with NewResolver; use Resolve for the
// common case of resolving until either success or cerrors.Abort.
type Resolver struct {
	Errors   cerrors.List
	mappings ast.Mappings
	global   *scope
	scope    *scope
	fn       *funcCtx
	structs  []*ctype.Struct
}

type funcCtx struct {
	returnType ctype.Type
	loopDepth  int
	locals     *[]*Symbol // points at the innermost enclosing Block's Locals
	vlaExprs   *[]Expr    // points at the enclosing Function's VLAExprs
}

// NewResolver creates a Resolver over a tree built with the given Mappings,
// used to recover source spans for diagnostics.
func NewResolver(mappings ast.Mappings) *Resolver {
	g := newScope(nil)
	return &Resolver{mappings: mappings, global: g, scope: g}
}

// Resolve is the package's public entry point: resolves tu into a Program,
// recovering a cerrors.List-wrapped error if resolution aborts after
// accumulating cerrors.Limit diagnostics.
func Resolve(tu *ast.TranslationUnit, mappings ast.Mappings) (prog *Program, err error) {
	r := NewResolver(mappings)
	defer func() {
		if rec := recover(); rec != nil {
			if rec == cerrors.Abort {
				err = r.Errors
				return
			}
			panic(rec)
		}
	}()
	prog = r.resolveTranslationUnit(tu)
	if len(r.Errors) > 0 {
		return prog, r.Errors
	}
	return prog, nil
}

func (r *Resolver) span(n ast.Node) cerrors.Span {
	gs := r.mappings.Span(n)
	return cerrors.Span{Start: gs.Start, End: gs.End, Line: gs.Line, Column: gs.Column}
}

func (r *Resolver) errorf(n ast.Node, kind cerrors.Kind, message string, args ...interface{}) {
	r.Errors.Add(kind, r.span(n), message, args...)
}

// with runs action inside a fresh nested scope, restoring the prior scope
// (and, if locals is non-nil, the prior innermost-locals pointer) once
// action returns — the same push/defer-pop-restore shape as
// gapil/resolver's with().
func (r *Resolver) with(locals *[]*Symbol, action func()) {
	outerScope, outerFn := r.scope, r.fn
	r.scope = newScope(r.scope)
	if locals != nil {
		fn := *r.fn
		fn.locals = locals
		r.fn = &fn
	}
	defer func() { r.scope, r.fn = outerScope, outerFn }()
	action()
}

func (r *Resolver) declareLocal(n ast.Node, name string, t ctype.Type, kind SymbolKind) *Symbol {
	sym := &Symbol{Name: name, Type: t, Kind: kind}
	if !r.scope.declare(sym) {
		r.errorf(n, cerrors.Redeclaration, "redeclaration of %q", name)
		return sym
	}
	if r.fn != nil && r.fn.locals != nil {
		*r.fn.locals = append(*r.fn.locals, sym)
	}
	return sym
}

// ---- translation unit / functions --------------------------------------

// pendingFunction is a function definition whose signature is already
// registered in the global scope but whose body is still unresolved.
type pendingFunction struct {
	fd    *ast.FunctionDef
	fn    *Function
	scope *scope // the parameter scope fd.Body's block nests inside
}

// resolveTranslationUnit resolves tu in two passes so forward references and
// mutual recursion between function definitions work (spec.md §4.3): the
// first pass declares every function's signature — a definition's or a bare
// prototype's — into the global scope without touching any body; the
// second pass resolves each definition's body against that fully-populated
// global scope.
func (r *Resolver) resolveTranslationUnit(tu *ast.TranslationUnit) *Program {
	prog := &Program{}
	var pending []*pendingFunction
	for _, decl := range tu.Decls {
		switch d := decl.(type) {
		case *ast.FunctionDef:
			pending = append(pending, r.declareFunctionDef(d))
		case *ast.Declaration:
			r.resolveTopLevelDeclaration(d)
		}
	}
	for _, pf := range pending {
		outerScope, outerFn := r.scope, r.fn
		r.scope = pf.scope
		r.fn = &funcCtx{returnType: pf.fn.ReturnType, vlaExprs: &pf.fn.VLAExprs}
		pf.fn.Body = r.resolveBlock(pf.fd.Body)
		r.scope, r.fn = outerScope, outerFn
		prog.Functions = append(prog.Functions, pf.fn)
	}
	prog.Structs = r.structs
	return prog
}

// resolveTopLevelDeclaration resolves a non-function top-level declaration.
// A bare struct/tag definition (Declarators empty) needs nothing further; a
// function-typed declarator is a prototype/forward declaration (spec.md
// §4.3) and is registered the same way a definition's signature is; any
// other declarator names a global variable, which this subset rejects.
func (r *Resolver) resolveTopLevelDeclaration(d *ast.Declaration) {
	retType := r.resolveTypeSpec(d.Spec, d)
	for _, id := range d.Declarators {
		if !id.Declarator.IsFunc {
			r.errorf(d, cerrors.UnsupportedConstruct, "global variables are not supported")
			continue
		}
		r.declarePrototype(d, retType, id.Declarator)
	}
}

// declareFunctionDef resolves fd's return type, parameter types, and
// parameter scope, registers the resulting signature in the global scope,
// and returns a pendingFunction for resolveTranslationUnit's second pass to
// resolve fd.Body against — fd's own body is deliberately left untouched
// here so every sibling function gets its global symbol first.
func (r *Resolver) declareFunctionDef(fd *ast.FunctionDef) *pendingFunction {
	retType := r.resolveTypeSpec(fd.Spec, fd)
	fn := &Function{Name: fd.Name, ReturnType: retType}

	outerScope, outerFn := r.scope, r.fn
	r.scope = newScope(r.global)
	r.fn = &funcCtx{returnType: retType, vlaExprs: &fn.VLAExprs}
	defer func() { r.scope, r.fn = outerScope, outerFn }()

	paramTypes := make([]ctype.Type, len(fd.Params))
	for i, p := range fd.Params {
		pt := r.resolveTypeSpec(p.Spec, fd)
		pt = r.applyDeclaratorType(pt, p.Declarator, fd)
		pt = ctype.ArrayToPointer(pt)
		sym := r.declareLocal(fd, p.Declarator.Name, pt, SymParam)
		sym.Index = i
		fn.Params = append(fn.Params, sym)
		paramTypes[i] = pt
	}
	r.declareFunctionSignature(fd, fd.Name, &ctype.Function{Return: retType, Params: paramTypes})

	return &pendingFunction{fd: fd, fn: fn, scope: r.scope}
}

// declarePrototype resolves a function prototype's parameter types in a
// throwaway scope — a prototype has no body to resolve names against later
// — and registers the resulting signature exactly like a definition's.
func (r *Resolver) declarePrototype(at ast.Node, retType ctype.Type, decl *ast.Declarator) {
	outerScope, outerFn := r.scope, r.fn
	r.scope = newScope(r.global)
	var discardedVLAExprs []Expr
	r.fn = &funcCtx{returnType: retType, vlaExprs: &discardedVLAExprs}
	defer func() { r.scope, r.fn = outerScope, outerFn }()

	paramTypes := make([]ctype.Type, len(decl.Params))
	for i, p := range decl.Params {
		pt := r.resolveTypeSpec(p.Spec, at)
		pt = r.applyDeclaratorType(pt, p.Declarator, at)
		pt = ctype.ArrayToPointer(pt)
		paramTypes[i] = pt
		r.declareLocal(at, p.Declarator.Name, pt, SymParam)
	}
	r.declareFunctionSignature(at, decl.Name, &ctype.Function{Return: retType, Params: paramTypes})
}

// declareFunctionSignature registers name's signature (sig) in the global
// scope. A name already bound there — a prior prototype or a prior
// definition — must match exactly (spec.md §4.3's "re-declaration of a
// function with a compatible signature is allowed"); anything else is a
// conflicting redeclaration.
func (r *Resolver) declareFunctionSignature(at ast.Node, name string, sig *ctype.Function) {
	if existing, ok := r.global.resolve(name); ok {
		if existing.Kind != SymFunction || !ctype.Equal(existing.Type, sig) {
			r.errorf(at, cerrors.Redeclaration, "conflicting declaration of %q", name)
		}
		return
	}
	r.global.declare(&Symbol{Name: name, Kind: SymFunction, Type: sig})
}

// applyDeclaratorType wraps base in Array layers for each of d.ArrayDims,
// innermost (rightmost `[...]`) first, so the leftmost dimension ends up
// outermost, per C99's declarator-reading rule. A dimension that isn't an
// integer literal makes this a variable-length
// array: its length expression is recorded in the enclosing function's
// VLAExprs table so emit can evaluate it at the point of declaration
// (spec §4.7).
func (r *Resolver) applyDeclaratorType(base ctype.Type, d *ast.Declarator, at ast.Node) ctype.Type {
	t := base
	for i := len(d.ArrayDims) - 1; i >= 0; i-- {
		dim := d.ArrayDims[i]
		if dim == nil {
			t = ctype.Array{Elem: t, Extent: ctype.IncompleteExtent{}}
			continue
		}
		expr := r.resolveExpr(dim)
		if lit, ok := expr.(*IntConst); ok {
			t = ctype.Array{Elem: t, Extent: ctype.FixedExtent(lit.Value)}
			continue
		}
		if !ctype.IsInteger(expr.Type()) {
			r.errorf(dim, cerrors.TypeMismatch, "array length must have integer type")
		}
		t = ctype.Array{Elem: t, Extent: ctype.VariableExtent{ExprID: r.recordVLAExpr(expr)}}
	}
	return t
}

// recordVLAExpr appends expr to the enclosing function's VLAExprs table and
// returns its index, the ExprID a ctype.VariableExtent names it by.
func (r *Resolver) recordVLAExpr(expr Expr) uint64 {
	id := uint64(len(*r.fn.vlaExprs))
	*r.fn.vlaExprs = append(*r.fn.vlaExprs, expr)
	return id
}

// ---- type specifiers -----------------------------------------------------

func (r *Resolver) resolveTypeSpec(ts ast.TypeSpec, at ast.Node) ctype.Type {
	if ts.Struct != nil {
		return r.resolveStructSpec(ts.Struct, at)
	}
	return r.resolveKeywords(ts.Keywords, at)
}

func (r *Resolver) resolveStructSpec(s *ast.StructSpec, at ast.Node) ctype.Type {
	if s.Fields == nil {
		if s.Name == "" {
			r.errorf(at, cerrors.UnsupportedConstruct, "struct reference with no tag and no body")
			return ctype.VoidType
		}
		if t, ok := r.scope.resolveTag(s.Name); ok {
			return t
		}
		r.errorf(at, cerrors.UndeclaredIdentifier, "undeclared struct tag %q", s.Name)
		return ctype.VoidType
	}

	names := make([]string, 0, len(s.Fields))
	types := make([]ctype.Type, 0, len(s.Fields))
	for _, f := range s.Fields {
		ft := r.resolveTypeSpec(f.Spec, at)
		ft = r.applyArrayDims(ft, f.ArrayDims, at)
		names = append(names, f.Name)
		types = append(types, ft)
	}
	st := ctype.NewStruct(s.Name, names, types)
	r.structs = append(r.structs, st)
	if s.Name != "" {
		if _, ok := r.scope.declareTag(s.Name, st); !ok {
			r.errorf(at, cerrors.Redeclaration, "redeclaration of struct tag %q", s.Name)
		}
	}
	return st
}

// applyArrayDims is applyDeclaratorType's counterpart for struct member
// declarators. A struct's layout must be known at compile time (ctype's
// SizeAlign/ComputeLayout require every field's size fixed), so unlike a
// local declarator, a non-constant dimension here is rejected rather than
// turned into a variable-length array.
func (r *Resolver) applyArrayDims(base ctype.Type, dims []ast.Node, at ast.Node) ctype.Type {
	t := base
	for i := len(dims) - 1; i >= 0; i-- {
		dim := dims[i]
		if dim == nil {
			t = ctype.Array{Elem: t, Extent: ctype.IncompleteExtent{}}
			continue
		}
		expr := r.resolveExpr(dim)
		lit, ok := expr.(*IntConst)
		if !ok {
			r.errorf(at, cerrors.UnsupportedConstruct, "array with non-constant length not allowed in a struct member")
			t = ctype.Array{Elem: t, Extent: ctype.FixedExtent(1)} // placeholder so NewStruct can still lay out the struct
			continue
		}
		t = ctype.Array{Elem: t, Extent: ctype.FixedExtent(lit.Value)}
	}
	return t
}

func (r *Resolver) resolveKeywords(keywords []string, at ast.Node) ctype.Type {
	signed, unsigned, seenSign := false, false, false
	longCount := 0
	base := ""
	for _, kw := range keywords {
		switch kw {
		case "signed":
			signed, seenSign = true, true
		case "unsigned":
			unsigned, seenSign = true, true
		case "long":
			longCount++
		case "short", "char", "int", "float", "double", "void", "_Bool":
			base = kw
		}
	}
	_, _ = signed, seenSign

	switch base {
	case "void":
		return ctype.VoidType
	case "_Bool":
		return ctype.BoolType
	case "float":
		return ctype.FloatType
	case "double":
		if longCount > 0 {
			return ctype.LongDoubleType
		}
		return ctype.DoubleType
	case "char":
		if unsigned {
			return ctype.UCharType
		}
		return ctype.CharType
	case "short":
		if unsigned {
			return ctype.UShortType
		}
		return ctype.ShortType
	case "", "int":
		switch {
		case longCount >= 2 && unsigned:
			return ctype.ULLongType
		case longCount >= 2:
			return ctype.LLongType
		case longCount == 1 && unsigned:
			return ctype.ULongType
		case longCount == 1:
			return ctype.LongType
		case unsigned:
			return ctype.UIntType
		default:
			return ctype.IntType
		}
	default:
		r.errorf(at, cerrors.UnsupportedConstruct, "unsupported type specifier %v", keywords)
		return ctype.IntType
	}
}
