// Package infer drives Algorithm W over nm's AST, the part of
// spec.md §4.6 that actually walks syntax: internal/types owns the type
// universe and the Unify/Fresh/occurs-check machinery, kept free of an
// ast import so the dependency only runs one way.
package infer

import (
	"github.com/nmlang/nm/internal/ast"
	"github.com/nmlang/nm/internal/types"
)

// Context bundles what a single inference pass needs to thread through
// every recursive call.
type Context struct {
	Registry *types.Registry
	Env      *types.Env
	NonGen   *types.NonGen
}

// NewContext returns a root inference context: an empty environment, no
// pinned (non-generic) variables, and a dedicated type-variable registry
// so concurrent inference passes (e.g. one per REPL session) never share
// variable ids.
func NewContext() *Context {
	return &Context{Registry: types.NewRegistry(), Env: types.NewEnv(), NonGen: types.NewNonGen()}
}

func (c *Context) child() *Context {
	return &Context{Registry: c.Registry, Env: c.Env.Child(), NonGen: c.NonGen}
}

// Infer computes node's type under ctx, caching the result on the node
// (via SetCachedType) regardless of whether inference succeeds; a failed
// unification caches nil, which spec.md §7 defines as "unknown" and the
// evaluator treats as license to fall back to its own runtime checks.
func Infer(node ast.Node, ctx *Context) (types.Type, error) {
	t, err := infer(node, ctx)
	if err != nil {
		node.SetCachedType(nil)
		return nil, err
	}
	node.SetCachedType(t)
	return t, nil
}

func infer(node ast.Node, ctx *Context) (types.Type, error) {
	switch n := node.(type) {
	case *ast.Nop:
		return types.VoidType, nil
	case *ast.Int:
		return types.IntType, nil
	case *ast.Real:
		return types.RealType, nil
	case *ast.Str:
		return types.StrType, nil
	case *ast.Char:
		return types.CharType, nil
	case *ast.Name:
		return inferName(n, ctx)
	case *ast.Tuple:
		return inferTuple(n, ctx)
	case *ast.Unop:
		return inferUnop(n, ctx)
	case *ast.Binop:
		return inferBinop(n, ctx)
	case *ast.Index:
		return inferIndex(n, ctx)
	case *ast.Ternop:
		return inferTernop(n, ctx)
	case *ast.If:
		return inferIf(n, ctx)
	case *ast.While:
		return inferWhile(n, ctx)
	case *ast.Decl:
		return inferDecl(n, ctx)
	case *ast.Call:
		return inferCall(n, ctx)
	case *ast.Fun:
		return inferFun(n, ctx)
	case *ast.Use:
		return types.VoidType, nil
	case *ast.Print:
		return inferPrint(n, ctx)
	case *ast.Block:
		return inferBlock(n, ctx)
	case *ast.Return:
		return inferReturn(n, ctx)
	}
	return nil, &types.InferenceError{Context: "infer", Message: "unhandled node type"}
}

func inferName(n *ast.Name, ctx *Context) (types.Type, error) {
	t, ok := ctx.Env.Lookup(n.Ident)
	if !ok {
		return nil, &types.InferenceError{Context: "name", Message: "unbound name " + n.Ident}
	}
	return ctx.Registry.Fresh(t, ctx.NonGen), nil
}

func inferTuple(n *ast.Tuple, ctx *Context) (types.Type, error) {
	elems := make([]types.Type, len(n.Elements))
	for i, e := range n.Elements {
		t, err := Infer(e, ctx)
		if err != nil {
			return nil, err
		}
		elems[i] = t
	}
	return &types.Tuple{Elements: elems}, nil
}

func inferUnop(n *ast.Unop, ctx *Context) (types.Type, error) {
	t, err := Infer(n.Child, ctx)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "!":
		return types.IntType, nil
	default:
		return t, nil
	}
}

func inferBinop(n *ast.Binop, ctx *Context) (types.Type, error) {
	lt, err := Infer(n.Left, ctx)
	if err != nil {
		return nil, err
	}
	rt, err := Infer(n.Right, ctx)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "==", "!=", "<", ">", "<=", ">=", "eq", "ne", "lt", "gt", "le", "ge", "&&", "||":
		return types.IntType, nil
	case "=", "+=", "-=", "*=", "/=", "%=":
		if err := types.Unify(lt, rt); err != nil {
			return nil, err
		}
		return lt, nil
	default:
		if err := types.Unify(lt, rt); err != nil {
			return nil, err
		}
		return lt, nil
	}
}

func inferIndex(n *ast.Index, ctx *Context) (types.Type, error) {
	if _, err := Infer(n.Array, ctx); err != nil {
		return nil, err
	}
	if _, err := Infer(n.At, ctx); err != nil {
		return nil, err
	}
	// Array element type is not tracked per spec.md §3 (Tuple fixes
	// arity, not a homogeneous element type), so indexing always yields a
	// fresh variable: the evaluator is the real authority on the result.
	return ctx.Registry.NewVar(), nil
}

func inferTernop(n *ast.Ternop, ctx *Context) (types.Type, error) {
	if _, err := Infer(n.Cond, ctx); err != nil {
		return nil, err
	}
	tt, err := Infer(n.Then, ctx)
	if err != nil {
		return nil, err
	}
	et, err := Infer(n.Else, ctx)
	if err != nil {
		return nil, err
	}
	if err := types.Unify(tt, et); err != nil {
		return nil, err
	}
	return tt, nil
}

func inferIf(n *ast.If, ctx *Context) (types.Type, error) {
	if _, err := Infer(n.Guard, ctx); err != nil {
		return nil, err
	}
	bt, err := Infer(n.Body, ctx)
	if err != nil {
		return nil, err
	}
	if n.Else != nil {
		et, err := Infer(n.Else, ctx)
		if err != nil {
			return nil, err
		}
		if err := types.Unify(bt, et); err != nil {
			return nil, err
		}
	}
	return bt, nil
}

func inferWhile(n *ast.While, ctx *Context) (types.Type, error) {
	if _, err := Infer(n.Guard, ctx); err != nil {
		return nil, err
	}
	if _, err := Infer(n.Body, ctx); err != nil {
		return nil, err
	}
	if n.Else != nil {
		if _, err := Infer(n.Else, ctx); err != nil {
			return nil, err
		}
	}
	return types.VoidType, nil
}

// inferDecl binds the declared name to its initializer's inferred type,
// or to a fresh variable when there is no initializer. ctx.Env holds that
// raw type; the `let`-style polymorphism spec.md §4.6 draws at `my` comes
// from each later Name lookup, which copies every variable outside the
// non-generic set through Registry.Fresh.
func inferDecl(n *ast.Decl, ctx *Context) (types.Type, error) {
	if n.Init == nil {
		v := ctx.Registry.NewVar()
		ctx.Env.Bind(n.Var, v)
		return types.VoidType, nil
	}
	t, err := Infer(n.Init, ctx)
	if err != nil {
		return nil, err
	}
	ctx.Env.Bind(n.Var, t)
	return t, nil
}

func inferCall(n *ast.Call, ctx *Context) (types.Type, error) {
	ft, err := Infer(n.Callee, ctx)
	if err != nil {
		return nil, err
	}
	at, err := Infer(n.Arg, ctx)
	if err != nil {
		return nil, err
	}
	result := ctx.Registry.NewVar()
	if err := types.Unify(ft, &types.Fun{Param: at, Return: result}); err != nil {
		return nil, err
	}
	return result, nil
}

// inferFun binds a fresh, non-generic type variable to the parameter
// (non-generic because the body must treat it monomorphically, the
// textbook let-polymorphism restriction) and infers the body in a child
// environment, per spec.md §4.6.
func inferFun(n *ast.Fun, ctx *Context) (types.Type, error) {
	child := ctx.child()
	paramVar := ctx.Registry.NewVar()
	childNonGen := child.NonGen.Child()
	childNonGen.Add(paramVar)
	child.NonGen = childNonGen
	child.Env.Bind(n.Param, paramVar)

	bodyType, err := Infer(n.Body, child)
	if err != nil {
		return nil, err
	}

	var paramType types.Type = paramVar
	if n.Param == "" {
		paramType = types.VoidType
	}
	return &types.Fun{Param: paramType, Return: bodyType}, nil
}

func inferPrint(n *ast.Print, ctx *Context) (types.Type, error) {
	for _, a := range n.Args {
		if _, err := Infer(a, ctx); err != nil {
			return nil, err
		}
	}
	return types.VoidType, nil
}

func inferBlock(n *ast.Block, ctx *Context) (types.Type, error) {
	child := ctx.child()
	var last types.Type = types.VoidType
	for _, stmt := range n.Stmts {
		t, err := Infer(stmt, child)
		if err != nil {
			return nil, err
		}
		last = t
	}
	return last, nil
}

func inferReturn(n *ast.Return, ctx *Context) (types.Type, error) {
	if n.Value == nil {
		return types.VoidType, nil
	}
	return Infer(n.Value, ctx)
}
