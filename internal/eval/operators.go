package eval

import (
	"strings"

	"github.com/nmlang/nm/internal/ast"
	"github.com/nmlang/nm/internal/nmerr"
	"github.com/nmlang/nm/internal/object"
	"github.com/nmlang/nm/internal/scope"
	"github.com/nmlang/nm/internal/token"
)

func (e *Evaluator) evalIndex(n *ast.Index, sc *scope.Scope) (object.Value, error) {
	arr, err := e.Eval(n.Array, sc)
	if err != nil {
		return nil, err
	}
	at, err := e.Eval(n.At, sc)
	if err != nil {
		return nil, err
	}
	v, err := object.Index(arr, at)
	if err != nil {
		return nil, toNmErr(n.Pos(), e.Source, err)
	}
	return v, nil
}

var assignOps = map[string]bool{"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true}

func (e *Evaluator) evalUnop(n *ast.Unop, sc *scope.Scope) (object.Value, error) {
	switch n.Op {
	case "++", "--":
		return e.evalIncDec(n, sc)
	}
	v, err := e.Eval(n.Child, sc)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "+":
		r, err := object.Plus(v)
		if err != nil {
			return nil, toNmErr(n.Pos(), e.Source, err)
		}
		return r, nil
	case "-":
		r, err := object.Minus(v)
		if err != nil {
			return nil, toNmErr(n.Pos(), e.Source, err)
		}
		return r, nil
	case "!":
		return object.Negate(v), nil
	}
	return nil, nmerr.New(nmerr.SyntaxError, n.Pos(), e.Source, "unknown unary operator %q", n.Op)
}

// evalIncDec implements prefix and postfix '++'/'--'. Both forms require
// an lvalue (a bare Name); the runtime value bound to that name is
// replaced, and the node yields the new value when prefix, the old value
// when postfix, per the usual C-family convention spec.md §3 inherits by
// listing ++/-- alongside the other unary operators without further
// comment.
func (e *Evaluator) evalIncDec(n *ast.Unop, sc *scope.Scope) (object.Value, error) {
	name, ok := n.Child.(*ast.Name)
	if !ok {
		return nil, nmerr.New(nmerr.TypeError, n.Pos(), e.Source, "%s requires a variable operand", n.Op)
	}
	old, ok := sc.Lookup(name.Ident)
	if !ok {
		return nil, nmerr.New(nmerr.NameError, n.Pos(), e.Source, "undefined name %q", name.Ident)
	}
	var updated object.Value
	var err error
	if n.Op == "++" {
		updated, err = object.Increment(old)
	} else {
		updated, err = object.Decrement(old)
	}
	if err != nil {
		return nil, toNmErr(n.Pos(), e.Source, err)
	}
	if !sc.Assign(name.Ident, updated) {
		return nil, nmerr.New(nmerr.NameError, n.Pos(), e.Source, "undefined name %q", name.Ident)
	}
	if n.Postfix {
		return old, nil
	}
	return updated, nil
}

func (e *Evaluator) evalBinop(n *ast.Binop, sc *scope.Scope) (object.Value, error) {
	if assignOps[n.Op] {
		return e.evalAssign(n, sc)
	}
	if n.Op == "&&" {
		left, err := e.Eval(n.Left, sc)
		if err != nil {
			return nil, err
		}
		if !left.Truthy() {
			return object.BoolOf(false), nil
		}
		right, err := e.Eval(n.Right, sc)
		if err != nil {
			return nil, err
		}
		return object.BoolOf(right.Truthy()), nil
	}
	if n.Op == "||" {
		left, err := e.Eval(n.Left, sc)
		if err != nil {
			return nil, err
		}
		if left.Truthy() {
			return object.BoolOf(true), nil
		}
		right, err := e.Eval(n.Right, sc)
		if err != nil {
			return nil, err
		}
		return object.BoolOf(right.Truthy()), nil
	}

	left, err := e.Eval(n.Left, sc)
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(n.Right, sc)
	if err != nil {
		return nil, err
	}
	return e.applyBinop(n, left, right)
}

func (e *Evaluator) applyBinop(n *ast.Binop, left, right object.Value) (object.Value, error) {
	var v object.Value
	var err error
	switch n.Op {
	case "+":
		v, err = object.Add(left, right)
	case "-":
		v, err = object.Sub(left, right)
	case "*":
		v, err = object.Mul(left, right)
	case "/":
		v, err = object.Div(left, right)
	case "%":
		v, err = object.Mod(left, right)
	case "==":
		return object.BoolOf(object.Eq(left, right)), nil
	case "!=":
		return object.BoolOf(!object.Eq(left, right)), nil
	case "<":
		c, cerr := object.Cmp(left, right)
		return cmpResult(c, cerr, func(c int) bool { return c < 0 })
	case ">":
		c, cerr := object.Cmp(left, right)
		return cmpResult(c, cerr, func(c int) bool { return c > 0 })
	case "<=":
		c, cerr := object.Cmp(left, right)
		return cmpResult(c, cerr, func(c int) bool { return c <= 0 })
	case ">=":
		c, cerr := object.Cmp(left, right)
		return cmpResult(c, cerr, func(c int) bool { return c >= 0 })
	case "lt", "gt", "le", "ge", "eq", "ne":
		// Word-spelled comparators compare the operands' string renderings.
		c := strings.Compare(left.String(), right.String())
		return object.BoolOf(map[string]bool{"lt": c < 0, "gt": c > 0, "le": c <= 0, "ge": c >= 0, "eq": c == 0, "ne": c != 0}[n.Op]), nil
	default:
		return nil, nmerr.New(nmerr.SyntaxError, n.Pos(), e.Source, "unknown binary operator %q", n.Op)
	}
	if err != nil {
		return nil, toNmErr(n.Pos(), e.Source, err)
	}
	return v, nil
}

func cmpResult(c int, err error, pred func(int) bool) (object.Value, error) {
	if err != nil {
		return nil, err
	}
	return object.BoolOf(pred(c)), nil
}

// evalAssign handles '=', '+=', '-=', '*=', '/=', '%=' against either a
// bare Name or an Index lvalue; any other left-hand shape is a TypeError,
// the parser's own grammar makes no attempt to rule this out up front
// (see parseAssign's doc comment in package parser).
func (e *Evaluator) evalAssign(n *ast.Binop, sc *scope.Scope) (object.Value, error) {
	rhs, err := e.Eval(n.Right, sc)
	if err != nil {
		return nil, err
	}

	switch target := n.Left.(type) {
	case *ast.Name:
		newVal := rhs
		if n.Op != "=" {
			cur, ok := sc.Lookup(target.Ident)
			if !ok {
				return nil, nmerr.New(nmerr.NameError, n.Pos(), e.Source, "undefined name %q", target.Ident)
			}
			newVal, err = e.applyBinop(&ast.Binop{Op: n.Op[:1]}, cur, rhs)
			if err != nil {
				return nil, err
			}
		}
		if !sc.Assign(target.Ident, newVal) {
			return nil, nmerr.New(nmerr.NameError, n.Pos(), e.Source, "undefined name %q", target.Ident)
		}
		return newVal, nil

	case *ast.Index:
		container, err := e.Eval(target.Array, sc)
		if err != nil {
			return nil, err
		}
		at, err := e.Eval(target.At, sc)
		if err != nil {
			return nil, err
		}
		arr, ok := container.(*object.Array)
		if !ok {
			return nil, nmerr.New(nmerr.TypeError, n.Pos(), e.Source, "cannot assign into %s", container.Type())
		}
		idx, ok := at.(*object.Int)
		if !ok || idx.Value < 0 || idx.Value >= int64(len(arr.Elements)) {
			return nil, nmerr.New(nmerr.IndexError, n.Pos(), e.Source, "index out of range")
		}
		newVal := rhs
		if n.Op != "=" {
			newVal, err = e.applyBinop(&ast.Binop{Op: n.Op[:1]}, arr.Elements[idx.Value], rhs)
			if err != nil {
				return nil, err
			}
		}
		arr.Elements[idx.Value] = newVal
		return newVal, nil

	default:
		return nil, nmerr.New(nmerr.TypeError, n.Pos(), e.Source, "invalid assignment target")
	}
}

func toNmErr(pos token.Position, source string, err error) error {
	switch err.(type) {
	case *object.DivideByZero:
		return nmerr.New(nmerr.DivideByZero, pos, source, "%v", err)
	case *object.IndexError:
		return nmerr.New(nmerr.IndexError, pos, source, "%v", err)
	case *object.IoError:
		return nmerr.New(nmerr.IoError, pos, source, "%v", err)
	default:
		return nmerr.New(nmerr.TypeError, pos, source, "%v", err)
	}
}
