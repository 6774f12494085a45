package sema

import (
	"github.com/google/c99jit/ast"
	"github.com/google/c99jit/cerrors"
	"github.com/google/c99jit/ctype"
)

func (r *Resolver) resolveBlock(b *ast.Block) *Block {
	blk := &Block{}
	r.with(&blk.Locals, func() {
		for _, item := range b.Items {
			blk.Items = append(blk.Items, r.resolveBlockItem(item)...)
		}
	})
	return blk
}

func (r *Resolver) resolveBlockItem(item ast.Node) []Stmt {
	if ds, ok := item.(*ast.DeclStmt); ok {
		return r.resolveLocalDeclaration(ds.Decl)
	}
	return []Stmt{r.resolveStmt(item)}
}

// resolveLocalDeclaration declares one Symbol per init-declarator and
// returns one DeclStmt per declarator, in source order. A multi-declarator
// source line (`int i1, i2;`) therefore becomes several DeclStmts sharing
// one resolved base type.
func (r *Resolver) resolveLocalDeclaration(d *ast.Declaration) []Stmt {
	base := r.resolveTypeSpec(d.Spec, d)
	stmts := make([]Stmt, 0, len(d.Declarators))
	for _, id := range d.Declarators {
		t := r.applyDeclaratorType(base, id.Declarator, d)
		sym := r.declareLocal(d, id.Declarator.Name, t, SymLocal)
		var init Expr
		if id.Init != nil {
			init = r.resolveExpr(id.Init)
			if !ctype.IsLvalueCompatibleAssign(t, init.Type()) {
				r.errorf(d, cerrors.TypeMismatch, "cannot initialize %s with %s", t, init.Type())
			}
		}
		stmts = append(stmts, &DeclStmt{Sym: sym, Init: init})
	}
	return stmts
}

func (r *Resolver) resolveStmt(n ast.Node) Stmt {
	switch s := n.(type) {
	case *ast.Block:
		return r.resolveBlock(s)
	case *ast.ExprStmt:
		if s.Expr == nil {
			return &ExprStmt{}
		}
		return &ExprStmt{Expr: r.resolveExpr(s.Expr)}
	case *ast.If:
		return r.resolveIf(s)
	case *ast.While:
		return r.resolveWhile(s)
	case *ast.DoWhile:
		return r.resolveDoWhile(s)
	case *ast.For:
		return r.resolveFor(s)
	case *ast.Break:
		if r.fn == nil || r.fn.loopDepth == 0 {
			r.errorf(n, cerrors.BreakOutsideLoop, "break outside of a loop")
		}
		return &Break{}
	case *ast.Continue:
		if r.fn == nil || r.fn.loopDepth == 0 {
			r.errorf(n, cerrors.ContinueOutsideLoop, "continue outside of a loop")
		}
		return &Continue{}
	case *ast.Return:
		return r.resolveReturn(s)
	case *ast.Goto:
		r.errorf(n, cerrors.UnsupportedConstruct, "goto is not supported")
		return &Goto{Label: s.Label}
	case *ast.Labeled:
		return &Labeled{Label: s.Label, Stmt: r.resolveStmt(s.Stmt)}
	default:
		r.errorf(n, cerrors.UnsupportedConstruct, "unsupported statement %T", n)
		return &ExprStmt{}
	}
}

func (r *Resolver) resolveIf(s *ast.If) Stmt {
	cond := r.resolveExpr(s.Cond)
	if !ctype.IsScalar(cond.Type()) {
		r.errorf(s.Cond, cerrors.TypeMismatch, "if condition must be scalar")
	}
	then := r.resolveStmt(s.Then)
	var els Stmt
	if s.Else != nil {
		els = r.resolveStmt(s.Else)
	}
	return &If{Cond: cond, Then: then, Else: els}
}

func (r *Resolver) resolveWhile(s *ast.While) Stmt {
	cond := r.resolveExpr(s.Cond)
	if !ctype.IsScalar(cond.Type()) {
		r.errorf(s.Cond, cerrors.TypeMismatch, "while condition must be scalar")
	}
	body := r.resolveLoopBody(s.Body)
	return &While{Cond: cond, Body: body}
}

func (r *Resolver) resolveDoWhile(s *ast.DoWhile) Stmt {
	body := r.resolveLoopBody(s.Body)
	cond := r.resolveExpr(s.Cond)
	if !ctype.IsScalar(cond.Type()) {
		r.errorf(s.Cond, cerrors.TypeMismatch, "do/while condition must be scalar")
	}
	return &DoWhile{Body: body, Cond: cond}
}

// resolveLoopBody resolves body with loopDepth incremented, so break/
// continue inside it are accepted.
func (r *Resolver) resolveLoopBody(body ast.Node) Stmt {
	r.fn.loopDepth++
	defer func() { r.fn.loopDepth-- }()
	return r.resolveStmt(body)
}

func (r *Resolver) resolveFor(s *ast.For) Stmt {
	f := &For{}
	r.with(&f.Locals, func() {
		switch init := s.Init.(type) {
		case nil:
			// no init clause
		case *ast.Declaration:
			f.Init = &Block{Items: r.resolveLocalDeclaration(init)}
		default:
			f.Init = &ExprStmt{Expr: r.resolveExpr(init)}
		}
		if s.Cond != nil {
			cond := r.resolveExpr(s.Cond)
			if !ctype.IsScalar(cond.Type()) {
				r.errorf(s.Cond, cerrors.TypeMismatch, "for condition must be scalar")
			}
			f.Cond = cond
		}
		if s.Step != nil {
			f.Step = r.resolveExpr(s.Step)
		}
		f.Body = r.resolveLoopBody(s.Body)
	})
	return f
}

func (r *Resolver) resolveReturn(s *ast.Return) Stmt {
	ret := &Return{}
	_, wantsVoid := r.fn.returnType.(ctype.Void)
	if s.Expr == nil {
		if !wantsVoid {
			r.errorf(s, cerrors.ReturnTypeMismatch, "missing return value in a non-void function")
		}
		return ret
	}
	if wantsVoid {
		r.errorf(s, cerrors.ReturnTypeMismatch, "void function must not return a value")
	}
	expr := r.resolveExpr(s.Expr)
	if !wantsVoid && !ctype.IsLvalueCompatibleAssign(r.fn.returnType, expr.Type()) {
		r.errorf(s, cerrors.ReturnTypeMismatch, "cannot return %s from a function returning %s", expr.Type(), r.fn.returnType)
	}
	ret.Expr = expr
	return ret
}
