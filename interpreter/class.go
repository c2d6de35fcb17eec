package interp

// initializer is the method run when a class is called.
const initializer = "init"

type Class struct {
	Name       string
	Superclass *Class

	methods map[string]*Function
}

func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, methods: methods}
}

// FindMethod looks name up in the class and then along its superclass chain.
func (c *Class) FindMethod(name string) *Function {
	if method, ok := c.methods[name]; ok {
		return method
	}

	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}

	return nil
}

// Arity is the arity of the initializer, or zero without one.
func (c *Class) Arity() int {
	if method := c.FindMethod(initializer); method != nil {
		return method.Arity()
	}

	return 0
}

func (c *Class) Call(in *Interpreter, args []any) (any, error) {
	instance := NewInstance(c)
	if method := c.FindMethod(initializer); method != nil {
		if _, err := method.Bind(instance).Call(in, args); err != nil {
			return nil, err
		}
	}

	return instance, nil
}

func (c *Class) String() string {
	return c.Name
}
