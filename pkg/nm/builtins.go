package nm

import (
	"fmt"
	"reflect"

	"github.com/nmlang/nm/internal/eval"
	"github.com/nmlang/nm/internal/nmerr"
	"github.com/nmlang/nm/internal/object"
	"github.com/nmlang/nm/internal/scope"
	"github.com/nmlang/nm/internal/token"
)

// BuiltinSpec is one entry of the registration table spec.md §6
// describes as `{ name, fn_ptr, arity, typemask, option_chars }`. Fn
// takes the builtin's full, uncurried argument list; RegisterBuiltins
// curries it into nested eval.Builtin closures so it can be called like
// any user-defined function.
type BuiltinSpec struct {
	Name  string
	Fn    interface{}
	Arity int
}

// RegisterBuiltins validates each spec's Fn against its declared Arity
// by reflection (an ArityError per spec.md §7 if they disagree) and
// declares a curried Builtin chain for it in sc.
func RegisterBuiltins(sc *scope.Scope, specs []BuiltinSpec) error {
	for _, s := range specs {
		if err := checkArity(s); err != nil {
			return err
		}
		sc.Declare(s.Name, curryBuiltin(s))
	}
	return nil
}

func checkArity(s BuiltinSpec) error {
	rv := reflect.ValueOf(s.Fn)
	if rv.Kind() != reflect.Func {
		return nmerr.New(nmerr.ArityError, token.Position{}, "", "builtin %q: Fn must be a function, got %s", s.Name, rv.Kind())
	}
	if rv.Type().NumIn() != s.Arity {
		return nmerr.New(nmerr.ArityError, token.Position{}, "", "builtin %q: declared arity %d does not match function signature taking %d arguments", s.Name, s.Arity, rv.Type().NumIn())
	}
	return nil
}

// curryBuiltin wraps a Go func(object.Value, ...) (object.Value, error)
// of s.Arity arguments into a chain of s.Arity nested eval.Builtin
// values, each accepting exactly one nm-level argument, matching the
// curry-style call convention every user function uses.
func curryBuiltin(s BuiltinSpec) *eval.Builtin {
	rv := reflect.ValueOf(s.Fn)
	return curryN(s.Name, rv, s.Arity, nil)
}

func curryN(name string, fn reflect.Value, remaining int, collected []object.Value) *eval.Builtin {
	return &eval.Builtin{
		Name: name,
		Fn: func(arg object.Value) (object.Value, error) {
			args := append(append([]object.Value{}, collected...), arg)
			if remaining > 1 {
				return curryN(name, fn, remaining-1, args), nil
			}
			return callReflect(name, fn, args)
		},
	}
}

func callReflect(name string, fn reflect.Value, args []object.Value) (object.Value, error) {
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = reflect.ValueOf(a)
	}
	out := fn.Call(in)
	if len(out) != 2 {
		return nil, fmt.Errorf("builtin %q: host function must return (object.Value, error)", name)
	}
	var err error
	if e, ok := out[1].Interface().(error); ok {
		err = e
	}
	if err != nil {
		return nil, err
	}
	v, ok := out[0].Interface().(object.Value)
	if !ok {
		return nil, fmt.Errorf("builtin %q: host function's first return value is not an object.Value", name)
	}
	return v, nil
}
