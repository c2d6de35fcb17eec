// Package interp evaluates resolved syntax trees.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/havrydotdev/golox/ast"
	env "github.com/havrydotdev/golox/environment"
	"github.com/havrydotdev/golox/token"
)

// DefaultMaxCallDepth bounds nested calls so runaway recursion becomes
// a runtime error instead of exhausting the Go stack.
const DefaultMaxCallDepth = 10000

// MaxCallDepthLimit is the largest accepted MaxCallDepth. Deeper nesting
// would overrun the Go runtime's 1 GB goroutine stack before the
// "Stack overflow." check fires.
const MaxCallDepthLimit = 200000

type Options struct {
	// Stdout receives the output of print statements (default os.Stdout).
	Stdout io.Writer
	// MaxCallDepth limits call nesting (default DefaultMaxCallDepth,
	// capped at MaxCallDepthLimit).
	MaxCallDepth int
}

func (o *Options) normalize() Options {
	var out Options
	if o != nil {
		out = *o
	}

	if out.Stdout == nil {
		out.Stdout = os.Stdout
	}

	if out.MaxCallDepth <= 0 {
		out.MaxCallDepth = DefaultMaxCallDepth
	}

	if out.MaxCallDepth > MaxCallDepthLimit {
		out.MaxCallDepth = MaxCallDepthLimit
	}

	return out
}

// returnSignal unwinds statement execution up to the nearest
// function call. It is never an error.
type returnSignal struct {
	value any
}

type Interpreter struct {
	globals     *env.Env
	environment *env.Env
	locals      map[ast.Expr]int

	stdout   io.Writer
	maxDepth int
	depth    int
}

func New(opt *Options) *Interpreter {
	o := opt.normalize()
	globals := newGlobals()

	return &Interpreter{
		globals:     globals,
		environment: globals,
		locals:      make(map[ast.Expr]int),
		stdout:      o.Stdout,
		maxDepth:    o.MaxCallDepth,
	}
}

// Bind records the scope distance of a local reference. Expressions
// that are never bound are looked up in the global environment.
func (in *Interpreter) Bind(expr ast.Expr, distance int) {
	in.locals[expr] = distance
}

// Interpret runs stmts in order and stops at the first runtime error,
// which is returned as a *RuntimeError. Globals defined before the
// error stay defined for later calls.
func (in *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		ret, err := in.execute(stmt)
		if err != nil {
			return err
		}

		if ret != nil {
			panic("interp: return outside of a function")
		}
	}

	return nil
}

func (in *Interpreter) execute(stmt ast.Stmt) (*returnSignal, error) {
	switch s := stmt.(type) {
	case *ast.Block:
		return in.executeBlock(s.Stmts, env.NewChild(in.environment))
	case *ast.Class:
		return nil, in.class(s)
	case *ast.Expression:
		_, err := in.evaluate(s.Expr)
		return nil, err
	case *ast.Function:
		in.environment.Define(s.Name.Lexeme, NewFunction(s, in.environment, false))
		return nil, nil
	case *ast.If:
		cond, err := in.evaluate(s.Cond)
		if err != nil {
			return nil, err
		}

		if isTruthy(cond) {
			return in.execute(s.Then)
		} else if s.Else != nil {
			return in.execute(s.Else)
		}

		return nil, nil
	case *ast.Print:
		value, err := in.evaluate(s.Expr)
		if err != nil {
			return nil, err
		}

		fmt.Fprintln(in.stdout, Stringify(value))
		return nil, nil
	case *ast.Return:
		var value any
		if s.Value != nil {
			var err error
			value, err = in.evaluate(s.Value)
			if err != nil {
				return nil, err
			}
		}

		return &returnSignal{value: value}, nil
	case *ast.Var:
		var value any
		if s.Init != nil {
			var err error
			value, err = in.evaluate(s.Init)
			if err != nil {
				return nil, err
			}
		}

		in.environment.Define(s.Name.Lexeme, value)
		return nil, nil
	case *ast.While:
		for {
			cond, err := in.evaluate(s.Cond)
			if err != nil {
				return nil, err
			}

			if !isTruthy(cond) {
				return nil, nil
			}

			ret, err := in.execute(s.Body)
			if ret != nil || err != nil {
				return ret, err
			}
		}
	}

	panic(fmt.Sprintf("interp: unknown statement %T", stmt))
}

// executeBlock runs stmts with environment as the current scope and
// restores the previous scope however the block exits.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, environment *env.Env) (*returnSignal, error) {
	prev := in.environment
	in.environment = environment
	defer func() { in.environment = prev }()

	for _, stmt := range stmts {
		ret, err := in.execute(stmt)
		if ret != nil || err != nil {
			return ret, err
		}
	}

	return nil, nil
}

func (in *Interpreter) class(stmt *ast.Class) error {
	var superclass *Class
	if stmt.Superclass != nil {
		value, err := in.evaluate(stmt.Superclass)
		if err != nil {
			return err
		}

		class, ok := value.(*Class)
		if !ok {
			return newRuntimeError(stmt.Superclass.Name, "Superclass must be a class.")
		}

		superclass = class
	}

	in.environment.Define(stmt.Name.Lexeme, nil)

	closure := in.environment
	if superclass != nil {
		closure = env.NewChild(closure)
		closure.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(stmt.Methods))
	for _, method := range stmt.Methods {
		methods[method.Name.Lexeme] = NewFunction(method, closure, method.Name.Lexeme == initializer)
	}

	in.environment.Define(stmt.Name.Lexeme, NewClass(stmt.Name.Lexeme, superclass, methods))

	return nil
}

func (in *Interpreter) evaluate(expr ast.Expr) (any, error) {
	switch e := expr.(type) {
	case *ast.Assign:
		return in.assign(e)
	case *ast.Binary:
		return in.binary(e)
	case *ast.Call:
		return in.call(e)
	case *ast.Get:
		object, err := in.evaluate(e.Object)
		if err != nil {
			return nil, err
		}

		inst, ok := object.(*Instance)
		if !ok {
			return nil, newRuntimeError(e.Name, "Only instances have properties.")
		}

		return inst.Get(e.Name)
	case *ast.Grouping:
		return in.evaluate(e.Expr)
	case *ast.Literal:
		return e.Value, nil
	case *ast.Logical:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return nil, err
		}

		if e.Op.Kind == token.Or {
			if isTruthy(left) {
				return left, nil
			}
		} else {
			if !isTruthy(left) {
				return left, nil
			}
		}

		return in.evaluate(e.Right)
	case *ast.Set:
		object, err := in.evaluate(e.Object)
		if err != nil {
			return nil, err
		}

		inst, ok := object.(*Instance)
		if !ok {
			return nil, newRuntimeError(e.Name, "Only instances have fields.")
		}

		value, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}

		inst.Set(e.Name, value)
		return value, nil
	case *ast.Super:
		return in.super(e)
	case *ast.This:
		return in.lookUpVariable(e.Keyword, e)
	case *ast.Unary:
		return in.unary(e)
	case *ast.Variable:
		return in.lookUpVariable(e.Name, e)
	}

	panic(fmt.Sprintf("interp: unknown expression %T", expr))
}

func (in *Interpreter) lookUpVariable(name *token.Token, expr ast.Expr) (any, error) {
	if distance, ok := in.locals[expr]; ok {
		return in.environment.GetAt(distance, name.Lexeme), nil
	}

	val, err := in.globals.Get(name)
	if err != nil {
		return nil, asRuntimeError(err)
	}

	return val, nil
}

func (in *Interpreter) assign(expr *ast.Assign) (any, error) {
	value, err := in.evaluate(expr.Value)
	if err != nil {
		return nil, err
	}

	if distance, ok := in.locals[expr]; ok {
		in.environment.AssignAt(distance, expr.Name.Lexeme, value)
		return value, nil
	}

	if err := in.globals.Assign(expr.Name, value); err != nil {
		return nil, asRuntimeError(err)
	}

	return value, nil
}

func (in *Interpreter) super(expr *ast.Super) (any, error) {
	distance := in.locals[expr]
	superclass := in.environment.GetAt(distance, "super").(*Class)
	// "this" lives in the scope directly inside the one holding "super"
	object := in.environment.GetAt(distance-1, "this").(*Instance)

	method := superclass.FindMethod(expr.Method.Lexeme)
	if method == nil {
		return nil, newRuntimeError(expr.Method, "Undefined property '%s'.", expr.Method.Lexeme)
	}

	return method.Bind(object), nil
}

func (in *Interpreter) call(expr *ast.Call) (any, error) {
	callee, err := in.evaluate(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]any, 0, len(expr.Args))
	for _, arg := range expr.Args {
		value, err := in.evaluate(arg)
		if err != nil {
			return nil, err
		}

		args = append(args, value)
	}

	fun, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeError(expr.Paren, "Can only call functions and classes.")
	}

	if len(args) != fun.Arity() {
		return nil, newRuntimeError(expr.Paren, "Expected %d arguments but got %d.", fun.Arity(), len(args))
	}

	if in.depth >= in.maxDepth {
		return nil, newRuntimeError(expr.Paren, "Stack overflow.")
	}

	in.depth++
	defer func() { in.depth-- }()

	return fun.Call(in, args)
}

func (in *Interpreter) unary(expr *ast.Unary) (any, error) {
	right, err := in.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Kind {
	case token.Minus:
		num, err := checkNum(expr.Op, right)
		if err != nil {
			return nil, err
		}

		return -num, nil
	case token.Bang:
		return !isTruthy(right), nil
	}

	panic(fmt.Sprintf("interp: unknown unary operator %s", expr.Op.Lexeme))
}

func (in *Interpreter) binary(expr *ast.Binary) (any, error) {
	l, err := in.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}

	r, err := in.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	op := expr.Op
	switch op.Kind {
	case token.BangEqual:
		return !isEqual(l, r), nil
	case token.EqualEqual:
		return isEqual(l, r), nil

	case token.Plus:
		switch lv := l.(type) {
		case float64:
			if rv, ok := r.(float64); ok {
				return lv + rv, nil
			}
		case string:
			if rv, ok := r.(string); ok {
				return lv + rv, nil
			}
		}

		return nil, newRuntimeError(op, "Operands must be two numbers or two strings.")
	}

	lnum, rnum, err := checkNums(op, l, r)
	if err != nil {
		return nil, err
	}

	switch op.Kind {
	case token.Greater:
		return lnum > rnum, nil
	case token.GreaterEqual:
		return lnum >= rnum, nil
	case token.Less:
		return lnum < rnum, nil
	case token.LessEqual:
		return lnum <= rnum, nil

	case token.Minus:
		return lnum - rnum, nil
	case token.Slash:
		return lnum / rnum, nil
	case token.Star:
		return lnum * rnum, nil
	}

	panic(fmt.Sprintf("interp: unknown binary operator %s", op.Lexeme))
}
