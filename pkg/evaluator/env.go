package evaluator

import "sort"

// Env is the single global variable namespace of a session.
// There are no nested scopes: every assignment writes here and every
// identifier reads from here.
type Env struct {
	bindings map[string]Value
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{bindings: make(map[string]Value)}
}

// Get looks up a variable by name.
func (e *Env) Get(name string) (Value, bool) {
	val, ok := e.bindings[name]
	return val, ok
}

// Set binds a variable, creating or overwriting it.
func (e *Env) Set(name string, val Value) {
	e.bindings[name] = val
}

// Has checks whether a variable has been assigned.
func (e *Env) Has(name string) bool {
	_, ok := e.bindings[name]
	return ok
}

// Len returns the number of bound variables.
func (e *Env) Len() int {
	return len(e.bindings)
}

// Names returns the bound variable names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of the current bindings.
func (e *Env) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.bindings))
	for k, v := range e.bindings {
		out[k] = v
	}
	return out
}
