package types

import "fmt"

// InferenceError reports a failed unification or an unbound name
// encountered during inference. It is always non-fatal at the
// interpreter level per spec.md §7: the caller downgrades the node's
// cached type to nil ("unknown") and the evaluator falls back to runtime
// checks.
type InferenceError struct {
	Context string
	Message string
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference error in %s: %s", e.Context, e.Message)
}

// Env is the inferencer's view of bound names: a simple chain of frames
// mirroring the lexical scope the evaluator itself walks, kept separate
// from eval's runtime Scope so the core components stay decoupled.
type Env struct {
	vars   map[string]Type
	parent *Env
}

// NewEnv returns a root inference environment with no bindings.
func NewEnv() *Env { return &Env{vars: map[string]Type{}} }

// Child returns a new environment nested under e, as Fun bodies need one
// per spec.md §4.6.
func (e *Env) Child() *Env { return &Env{vars: map[string]Type{}, parent: e} }

// Bind records name's type in this frame.
func (e *Env) Bind(name string, t Type) { e.vars[name] = t }

// Lookup walks parent frames for name, mirroring scope.Scope's lookup
// discipline.
func (e *Env) Lookup(name string) (Type, bool) {
	for env := e; env != nil; env = env.parent {
		if t, ok := env.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// NonGen is the non-generic set: type variables pinned by an enclosing
// binding, treated as rigid rather than copied during Fresh. Grounded on
// the same generic/non-generic split github.com/sunholo/ailang's
// InferenceContext implements for its own Hindley-Milner pass.
type NonGen struct {
	vars   map[*Var]bool
	parent *NonGen
}

// NewNonGen returns an empty non-generic set.
func NewNonGen() *NonGen { return &NonGen{vars: map[*Var]bool{}} }

// Add marks v as non-generic in this frame.
func (n *NonGen) Add(v *Var) { n.vars[v] = true }

// Child returns a nested non-generic set that still sees the parent's
// pinned variables.
func (n *NonGen) Child() *NonGen { return &NonGen{vars: map[*Var]bool{}, parent: n} }

func (n *NonGen) contains(v *Var) bool {
	for s := n; s != nil; s = s.parent {
		if s.vars[v] {
			return true
		}
	}
	return false
}

// Fresh copies t, replacing every type variable not pinned by nongen with
// a newly allocated variable. Variables occurring in nongen are rigid:
// they are copied to themselves, not to a fresh variable, which is what
// makes enclosing function parameters monomorphic inside their own body.
func (r *Registry) Fresh(t Type, nongen *NonGen) Type {
	mapping := map[*Var]*Var{}
	var freshen func(Type) Type
	freshen = func(t Type) Type {
		switch t := Prune(t).(type) {
		case *Var:
			if nongen.contains(t) {
				return t
			}
			if fv, ok := mapping[t]; ok {
				return fv
			}
			fv := r.NewVar()
			mapping[t] = fv
			return fv
		case *Tuple:
			elems := make([]Type, len(t.Elements))
			for i, e := range t.Elements {
				elems[i] = freshen(e)
			}
			return &Tuple{Elements: elems}
		case *Fun:
			return &Fun{Return: freshen(t.Return), Param: freshen(t.Param)}
		case *Custom:
			if t.Arg == nil {
				return t
			}
			return &Custom{Name: t.Name, Arg: freshen(t.Arg)}
		default:
			return t // primitives are singletons, nothing to copy
		}
	}
	return freshen(t)
}

// occursIn reports whether v appears anywhere inside t, after pruning.
// Unify consults this before binding a variable so the Instance chain
// spec.md §3 requires to be acyclic never becomes cyclic.
func occursIn(v *Var, t Type) bool {
	switch t := Prune(t).(type) {
	case *Var:
		return t == v
	case *Tuple:
		for _, e := range t.Elements {
			if occursIn(v, e) {
				return true
			}
		}
		return false
	case *Fun:
		return occursIn(v, t.Param) || occursIn(v, t.Return)
	case *Custom:
		return t.Arg != nil && occursIn(v, t.Arg)
	default:
		return false
	}
}

// Unify makes a and b equal by binding type variables, failing with
// InferenceError on a structural mismatch or a failed occurs check.
// Unification is symmetric: Unify(a, b) and Unify(b, a) succeed or fail
// together and bind equivalent substitutions, since the only asymmetric
// case (Var vs. non-Var) is handled by swapping operands recursively.
func Unify(a, b Type) error {
	a, b = Prune(a), Prune(b)

	if av, ok := a.(*Var); ok {
		if bv, ok := b.(*Var); ok && av == bv {
			return nil
		}
		if occursIn(av, b) {
			return &InferenceError{Context: "unify", Message: fmt.Sprintf("recursive type: %s occurs in %s", av, b)}
		}
		av.Instance = b
		return nil
	}
	if _, ok := b.(*Var); ok {
		return Unify(b, a)
	}

	switch a := a.(type) {
	case *primitive:
		if b, ok := b.(*primitive); ok && a == b {
			return nil
		}
	case *Tuple:
		b, ok := b.(*Tuple)
		if !ok || len(a.Elements) != len(b.Elements) {
			break
		}
		for i := range a.Elements {
			if err := Unify(a.Elements[i], b.Elements[i]); err != nil {
				return err
			}
		}
		return nil
	case *Fun:
		b, ok := b.(*Fun)
		if !ok {
			break
		}
		if err := Unify(a.Param, b.Param); err != nil {
			return err
		}
		return Unify(a.Return, b.Return)
	case *Custom:
		b, ok := b.(*Custom)
		if !ok || a.Name != b.Name {
			break
		}
		if a.Arg == nil && b.Arg == nil {
			return nil
		}
		if a.Arg != nil && b.Arg != nil {
			return Unify(a.Arg, b.Arg)
		}
	}
	return &InferenceError{Context: "unify", Message: fmt.Sprintf("cannot unify %s with %s", a, b)}
}
