package interp

import "github.com/havrydotdev/golox/token"

type Instance struct {
	class  *Class
	fields map[string]any
}

func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: make(map[string]any)}
}

func (i *Instance) Class() *Class {
	return i.class
}

func (i *Instance) String() string {
	return i.class.Name + " instance"
}

// Get prefers fields over methods; methods come back bound to i.
func (i *Instance) Get(name *token.Token) (any, error) {
	if val, ok := i.fields[name.Lexeme]; ok {
		return val, nil
	}

	if method := i.class.FindMethod(name.Lexeme); method != nil {
		return method.Bind(i), nil
	}

	return nil, newRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
}

func (i *Instance) Set(name *token.Token, value any) {
	i.fields[name.Lexeme] = value
}
