// Package resolver performs the static pass between parsing and
// evaluation. It computes how many scopes separate every local variable
// reference from its declaration and reports misplaced return, this
// and super.
package resolver

import (
	"fmt"

	"github.com/havrydotdev/golox/ast"
	"github.com/havrydotdev/golox/report"
	"github.com/havrydotdev/golox/token"
)

// Binder records resolved scope distances. References that are never
// bound are globals.
type Binder interface {
	Bind(expr ast.Expr, distance int)
}

type functionKind uint8

const (
	functionNone functionKind = iota
	functionPlain
	functionMethod
	functionInitializer
)

type classKind uint8

const (
	classNone classKind = iota
	classPlain
	classSub
)

// initializer is the method name treated as a class constructor.
const initializer = "init"

// scope maps a name to whether its initializer has finished.
type scope map[string]bool

type binding struct {
	expr     ast.Expr
	distance int
}

type Resolver struct {
	binder Binder
	scopes []scope
	errors []error
	// pending holds the distances found by the current Resolve call
	// until it finishes without errors.
	pending []binding

	currentFunction functionKind
	currentClass    classKind
}

func New(binder Binder) *Resolver {
	return &Resolver{binder: binder}
}

// Resolve walks stmts once. It may be called again for later input,
// such as the next REPL line; each call returns only its own errors.
// Distances reach the binder only when the call reports no errors.
func (r *Resolver) Resolve(stmts []ast.Stmt) []error {
	r.errors = nil
	r.pending = r.pending[:0]
	r.resolveStmts(stmts)

	if len(r.errors) == 0 {
		for _, b := range r.pending {
			r.binder.Bind(b.expr, b.distance)
		}
	}

	r.pending = r.pending[:0]

	return r.errors
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()
	case *ast.Class:
		r.class(s)
	case *ast.Expression:
		r.resolveExpr(s.Expr)
	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.function(s, functionPlain)
	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.Print:
		r.resolveExpr(s.Expr)
	case *ast.Return:
		if r.currentFunction == functionNone {
			r.error(s.Keyword, "Can't return from top-level code.")
		}

		if s.Value != nil {
			if r.currentFunction == functionInitializer {
				r.error(s.Keyword, "Can't return a value from an initializer.")
			}

			r.resolveExpr(s.Value)
		}
	case *ast.Var:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)
	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
	default:
		panic(fmt.Sprintf("resolver: unknown statement %T", stmt))
	}
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Grouping:
		r.resolveExpr(e.Expr)
	case *ast.Literal:
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.error(e.Keyword, "Can't use 'super' outside of a class.")
		case classPlain:
			r.error(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}

		r.resolveLocal(e, e.Keyword)
	case *ast.This:
		if r.currentClass == classNone {
			r.error(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}

		r.resolveLocal(e, e.Keyword)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.error(e.Name, "Can't read local variable in its own initializer.")
			}
		}

		r.resolveLocal(e, e.Name)
	default:
		panic(fmt.Sprintf("resolver: unknown expression %T", expr))
	}
}

func (r *Resolver) class(stmt *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosingClass }()

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Lexeme == stmt.Name.Lexeme {
			r.error(stmt.Superclass.Name, "A class can't inherit from itself.")
		}

		r.currentClass = classSub
		r.resolveExpr(stmt.Superclass)

		r.beginScope()
		r.peekScope()["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.peekScope()["this"] = true

	for _, method := range stmt.Methods {
		kind := functionMethod
		if method.Name.Lexeme == initializer {
			kind = functionInitializer
		}

		r.function(method, kind)
	}

	r.endScope()
}

func (r *Resolver) function(fn *ast.Function, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}

	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) peekScope() scope {
	return r.scopes[len(r.scopes)-1]
}

// declare adds name to the innermost scope as not yet initialized.
// Globals are not tracked.
func (r *Resolver) declare(name *token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	s := r.peekScope()
	if _, ok := s[name.Lexeme]; ok {
		r.error(name, "Already a variable with this name in this scope.")
	}

	s[name.Lexeme] = false
}

func (r *Resolver) define(name *token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	r.peekScope()[name.Lexeme] = true
}

func (r *Resolver) resolveLocal(expr ast.Expr, name *token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.pending = append(r.pending, binding{expr, len(r.scopes) - 1 - i})
			return
		}
	}
}

func (r *Resolver) error(tok *token.Token, message string) {
	r.errors = append(r.errors, report.At(tok, message))
}
