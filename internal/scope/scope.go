// Package scope implements nm's lexically-scoped environment per
// spec.md §4.5: a stack during execution, but a persistent tree in
// memory because closures retain a pointer to the scope active when
// they were created, keeping their parents alive past the point the
// executing stack would otherwise have popped them.
package scope

import "github.com/nmlang/nm/internal/object"

// Scope is one lexical frame: a set of variable bindings, a parent link
// for name resolution, and a label namespace for `use`-imported modules.
type Scope struct {
	vars   map[string]object.Value
	labels map[string]*Scope
	parent *Scope
}

// New returns a root scope with no parent, the one an interpreter run or
// REPL session starts in.
func New() *Scope {
	return &Scope{vars: map[string]object.Value{}, labels: map[string]*Scope{}}
}

// Child returns a new scope nested under s, used when entering a block,
// function body, or loop iteration.
func (s *Scope) Child() *Scope {
	return &Scope{vars: map[string]object.Value{}, labels: map[string]*Scope{}, parent: s}
}

// Parent returns the enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Declare binds name to v in this frame, shadowing any binding of the
// same name in an enclosing frame, per spec.md §4.5's `my` semantics.
func (s *Scope) Declare(name string, v object.Value) {
	s.vars[name] = v
}

// DeclaredHere reports whether name is already bound directly in this
// frame (not an enclosing one), the check `my` uses to reject a second
// declaration of the same name per spec.md §3's uniqueness invariant.
func (s *Scope) DeclaredHere(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Lookup walks from s outward through parents looking for name.
func (s *Scope) Lookup(name string) (object.Value, bool) {
	for e := s; e != nil; e = e.parent {
		if v, ok := e.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign rebinds name in the nearest enclosing frame that already
// declares it, reporting false if no such frame exists (an assignment to
// an undeclared name is a NameError at the eval layer).
func (s *Scope) Assign(name string, v object.Value) bool {
	for e := s; e != nil; e = e.parent {
		if _, ok := e.vars[name]; ok {
			e.vars[name] = v
			return true
		}
	}
	return false
}

// DefineLabel binds name to a child scope in this frame's label
// namespace, used by `use` to make an imported module's top-level scope
// reachable by name.
func (s *Scope) DefineLabel(name string, target *Scope) {
	s.labels[name] = target
}

// ResolveLabel walks from s outward looking for a label, mirroring
// Lookup's walk for ordinary variables.
func (s *Scope) ResolveLabel(name string) (*Scope, bool) {
	for e := s; e != nil; e = e.parent {
		if t, ok := e.labels[name]; ok {
			return t, true
		}
	}
	return nil, false
}
