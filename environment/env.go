package env

import (
	"errors"
	"fmt"

	"github.com/havrydotdev/golox/token"
)

// ErrUndefined is wrapped by every lookup failure.
var ErrUndefined = errors.New("undefined variable")

// UndefinedError carries the token of the name that failed to resolve.
type UndefinedError struct {
	Name *token.Token
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'.", e.Name.Lexeme)
}

func (e *UndefinedError) Unwrap() error {
	return ErrUndefined
}

// Env is one scope frame. Frames are shared by reference: a closure
// keeps the frame it was created in alive for as long as it lives.
type Env struct {
	outer *Env

	values map[string]any
}

func New() *Env {
	return &Env{values: make(map[string]any), outer: nil}
}

func NewChild(outer *Env) *Env {
	return &Env{values: make(map[string]any), outer: outer}
}

// Define binds name in this frame only, replacing any previous binding.
func (e *Env) Define(name string, value any) {
	e.values[name] = value
}

func (e *Env) Assign(name *token.Token, value any) error {
	_, ok := e.values[name.Lexeme]
	if !ok {
		if e.outer != nil {
			return e.outer.Assign(name, value)
		}

		return &UndefinedError{Name: name}
	}

	e.values[name.Lexeme] = value
	return nil
}

func (e *Env) Get(name *token.Token) (any, error) {
	val, ok := e.values[name.Lexeme]
	if !ok {
		if e.outer != nil {
			return e.outer.Get(name)
		}

		return nil, &UndefinedError{Name: name}
	}

	return val, nil
}

// Ancestor walks exactly distance frames outwards.
func (e *Env) Ancestor(distance int) *Env {
	env := e
	for i := 0; i < distance; i++ {
		env = env.outer
	}

	return env
}

// GetAt reads name from the frame distance links up without checking
// that it exists there; distance must come from the resolver.
func (e *Env) GetAt(distance int, name string) any {
	return e.Ancestor(distance).values[name]
}

func (e *Env) AssignAt(distance int, name string, value any) {
	e.Ancestor(distance).values[name] = value
}
