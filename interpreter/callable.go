package interp

import (
	"fmt"

	"github.com/havrydotdev/golox/ast"
	env "github.com/havrydotdev/golox/environment"
)

// Callable is implemented by every value that can appear as a callee:
// user functions, classes and native functions.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []any) (any, error)
}

// NativeFunction is a builtin implemented in Go. All natives display
// as <native fn>, so no name is kept.
type NativeFunction struct {
	arity int
	call  func(in *Interpreter, args []any) (any, error)
}

func NewNativeFunction(arity int, call func(in *Interpreter, args []any) (any, error)) *NativeFunction {
	return &NativeFunction{arity, call}
}

func (n *NativeFunction) Arity() int {
	return n.arity
}

func (n *NativeFunction) Call(in *Interpreter, args []any) (any, error) {
	return n.call(in, args)
}

func (n *NativeFunction) String() string {
	return "<native fn>"
}

// Function is a user-defined function or method together with the
// environment it was declared in.
type Function struct {
	declaration   *ast.Function
	closure       *env.Env
	isInitializer bool
}

func NewFunction(declaration *ast.Function, closure *env.Env, isInitializer bool) *Function {
	return &Function{declaration, closure, isInitializer}
}

func (f *Function) Arity() int {
	return len(f.declaration.Params)
}

func (f *Function) Call(in *Interpreter, args []any) (any, error) {
	environment := env.NewChild(f.closure)
	for i, param := range f.declaration.Params {
		environment.Define(param.Lexeme, args[i])
	}

	ret, err := in.executeBlock(f.declaration.Body, environment)
	if err != nil {
		return nil, err
	}

	// initializers always produce the instance, even on a bare return
	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}

	if ret != nil {
		return ret.value, nil
	}

	return nil, nil
}

// Bind returns a copy of f whose closure defines this as instance.
// Every call creates a new function value.
func (f *Function) Bind(instance *Instance) *Function {
	environment := env.NewChild(f.closure)
	environment.Define("this", instance)

	return &Function{f.declaration, environment, f.isInitializer}
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.Name.Lexeme)
}
