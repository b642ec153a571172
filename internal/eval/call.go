package eval

import (
	"github.com/nmlang/nm/internal/ast"
	"github.com/nmlang/nm/internal/nmerr"
	"github.com/nmlang/nm/internal/object"
	"github.com/nmlang/nm/internal/scope"
)

// evalCall applies a single curried argument to a Fun or Builtin.
// Multi-argument call syntax has already been desugared to nested Call
// nodes by the parser (spec.md §4.4), so this is always exactly one
// application.
func (e *Evaluator) evalCall(n *ast.Call, sc *scope.Scope) (object.Value, error) {
	callee, err := e.Eval(n.Callee, sc)
	if err != nil {
		return nil, err
	}
	arg, err := e.Eval(n.Arg, sc)
	if err != nil {
		return nil, err
	}

	switch fn := callee.(type) {
	case *Fun:
		return e.applyFun(n, fn, arg)
	case *Builtin:
		v, err := fn.Fn(arg)
		if err != nil {
			return nil, toNmErr(n.Pos(), e.Source, err)
		}
		return v, nil
	default:
		return nil, nmerr.New(nmerr.TypeError, n.Pos(), e.Source, "%s is not callable", callee.Type())
	}
}

// applyFun binds fn's parameter to arg in a fresh child of its captured
// scope and evaluates the body there, unwrapping a propagated
// returnSignal into its carried value.
func (e *Evaluator) applyFun(n *ast.Call, fn *Fun, arg object.Value) (object.Value, error) {
	callScope := fn.Env.Child()
	if fn.Param != "" {
		callScope.Declare(fn.Param, arg)
	}
	v, err := e.Eval(fn.Body, callScope)
	if err != nil {
		if rs, ok := err.(returnSignal); ok {
			return rs.value, nil
		}
		return nil, err
	}
	return v, nil
}
