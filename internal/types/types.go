// Package types implements nm's type universe and a Hindley-Milner style
// inferencer (Algorithm W) over it, per spec.md §4.6.
package types

import "fmt"

// Type is the tagged-variant interface every type representation
// implements: type variables, the monomorphic primitives, tuples,
// function types, and named custom types.
type Type interface {
	String() string
	typeNode()
}

// Var is a type variable, possibly already bound to an Instance by
// unification. Id is used only for display and equality of unbound
// variables; prune chases Instance to find the canonical representative.
type Var struct {
	Id       int
	Instance Type
}

func (*Var) typeNode() {}
func (v *Var) String() string {
	if v.Instance != nil {
		return v.Instance.String()
	}
	return fmt.Sprintf("t%d", v.Id)
}

// primitive is a singleton monomorphic type. Int, Real, Char, Str, and
// Void (below) are the only instances.
type primitive struct{ name string }

func (*primitive) typeNode()        {}
func (p *primitive) String() string { return p.name }

// Singleton primitive types, interned once per spec.md §3 ("Int, Real,
// Char, Str, Void are singletons").
var (
	IntType  Type = &primitive{"Int"}
	RealType Type = &primitive{"Real"}
	CharType Type = &primitive{"Char"}
	StrType  Type = &primitive{"Str"}
	VoidType Type = &primitive{"Void"}
)

// Tuple is the type of a fixed-length ordered sequence of values.
type Tuple struct {
	Elements []Type
}

func (*Tuple) typeNode() {}
func (t *Tuple) String() string {
	s := "("
	for i, e := range t.Elements {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ")"
}

// Fun is the type of a one-parameter function: Param -> Return.
type Fun struct {
	Return Type
	Param  Type
}

func (*Fun) typeNode()        {}
func (f *Fun) String() string { return fmt.Sprintf("(%s -> %s)", f.Param, f.Return) }

// Custom is a named type, optionally parameterized over one argument type
// (e.g. `Array(Int)`).
type Custom struct {
	Name string
	Arg  Type // nil if not parameterized
}

func (*Custom) typeNode() {}
func (c *Custom) String() string {
	if c.Arg != nil {
		return fmt.Sprintf("%s(%s)", c.Name, c.Arg)
	}
	return c.Name
}

// nextVarID is the process-wide counter backing fresh type variable
// allocation; the registry itself is the *Registry below, not a global,
// so multiple interpreter instances never share it (spec.md §5).
type Registry struct {
	nextVarID int
}

// NewRegistry returns a fresh, empty type registry.
func NewRegistry() *Registry { return &Registry{} }

// NewVar allocates a fresh, unbound type variable.
func (r *Registry) NewVar() *Var {
	r.nextVarID++
	return &Var{Id: r.nextVarID}
}

// Prune chases a Var's Instance chain to its canonical representative.
// spec.md §3 requires this chain be finite and non-cyclic; the occurs
// check in Unify is what enforces that invariant at bind time.
func Prune(t Type) Type {
	if v, ok := t.(*Var); ok && v.Instance != nil {
		canon := Prune(v.Instance)
		v.Instance = canon // path compression
		return canon
	}
	return t
}
