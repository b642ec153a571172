package eval

import (
	"fmt"

	"github.com/nmlang/nm/internal/ast"
	"github.com/nmlang/nm/internal/object"
	"github.com/nmlang/nm/internal/scope"
)

// Fun is a user-defined closure: a one-parameter function body paired
// with the scope it captured at definition time, per spec.md §4.5 (a
// closure keeps its defining scope alive past the point execution would
// otherwise have popped it).
type Fun struct {
	Param string
	Body  ast.Node
	Env   *scope.Scope
}

func (*Fun) Type() string     { return "Fun" }
func (f *Fun) String() string { return fmt.Sprintf("fn(%s)", f.Param) }
func (*Fun) Truthy() bool     { return true }

// Builtin wraps a host-provided function so it can flow through the same
// Value interface as user code, the registration unit spec.md §6
// describes as `{ name, fn_ptr, arity, typemask, option_chars }`. Builtin
// itself stores no arity: pkg/nm's BuiltinSpec declares it and
// RegisterBuiltins checks it (ArityError) before currying the host
// function into Builtins. Dispatch itself
// is always one nm-level argument, since multi-argument calls already
// desugar to curried single-argument calls before a Builtin ever sees
// them.
type Builtin struct {
	Name string
	Fn   func(arg object.Value) (object.Value, error)
}

func (*Builtin) Type() string     { return "Builtin" }
func (b *Builtin) String() string { return "<builtin " + b.Name + ">" }
func (*Builtin) Truthy() bool     { return true }
