package mint

// Environment is one frame of name bindings. Frames form a chain through
// enclosing that ends at the global frame. Frames are plain heap objects and
// stay alive while a closure or an active call still references them.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: make(map[string]Value), enclosing: enclosing}
}

func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

// Define binds name in this frame, replacing any previous binding.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

func (e *Environment) Get(name Token) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}
	return Nil, runtimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

func (e *Environment) Assign(name Token, value Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return nil
		}
	}
	return runtimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// Ancestor walks exactly n enclosing links.
func (e *Environment) Ancestor(n int) *Environment {
	env := e
	for i := 0; i < n; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt reads name from the frame n hops up. The resolver guarantees the
// binding exists there.
func (e *Environment) GetAt(n int, name string) Value {
	return e.Ancestor(n).values[name]
}

func (e *Environment) AssignAt(n int, name string, value Value) {
	e.Ancestor(n).values[name] = value
}
