// Package eval is the tree-walking evaluator: one function per AST
// variant dispatched through a type switch, matching the jump-table
// style spec.md §4.4 describes, over the AST the parser builds.
package eval

import (
	"io"
	"os"

	"github.com/nmlang/nm/internal/ast"
	"github.com/nmlang/nm/internal/nmerr"
	"github.com/nmlang/nm/internal/object"
	"github.com/nmlang/nm/internal/scope"
)

// ModuleLoader resolves a `use NAME;` statement to the module's parsed
// body. Load returns alreadyImported=true (and a nil Block) on a
// reentrant use of the same module, the Nop case spec.md §4.3 requires.
// The concrete implementation (reading NAME.nm off disk, parsing it, and
// remembering which modules were already inlined) lives in
// internal/interp, which depends on both eval and the parser; eval stays
// decoupled from the parser by only knowing this interface.
type ModuleLoader interface {
	Load(name string) (body *ast.Block, alreadyImported bool, err error)
}

// Evaluator holds everything that must survive across statements in one
// run: the arena tracking open files, and the module loader backing
// `use`.
type Evaluator struct {
	Arena    *object.Arena
	Loader   ModuleLoader
	Output   io.Writer
	Source   string
	SourceID string
}

// New returns an Evaluator with a fresh arena and the given module
// loader, writing Print output to os.Stdout by default. loader may be
// nil if the program is known not to use `use` (e.g. a REPL line).
func New(loader ModuleLoader) *Evaluator {
	return &Evaluator{Arena: object.NewArena(), Loader: loader, Output: os.Stdout}
}

// returnSignal unwinds the Go call stack back to the nearest Fun
// invocation boundary, the idiomatic way to implement an early `return`
// in a tree-walking evaluator without threading a control-flow enum
// through every Eval call.
type returnSignal struct{ value object.Value }

func (returnSignal) Error() string { return "return outside function" }

// Eval evaluates node in sc, dispatching by concrete AST type.
func (e *Evaluator) Eval(node ast.Node, sc *scope.Scope) (object.Value, error) {
	switch n := node.(type) {
	case *ast.Nop:
		return object.NullValue, nil
	case *ast.Int:
		return object.NewInt(n.Value), nil
	case *ast.Real:
		return object.NewReal(n.Value), nil
	case *ast.Str:
		return object.NewStr(n.Value), nil
	case *ast.Char:
		return object.NewChar(n.Value), nil
	case *ast.Tuple:
		return e.evalTuple(n, sc)
	case *ast.Name:
		return e.evalName(n, sc)
	case *ast.Unop:
		return e.evalUnop(n, sc)
	case *ast.Binop:
		return e.evalBinop(n, sc)
	case *ast.Index:
		return e.evalIndex(n, sc)
	case *ast.Ternop:
		return e.evalTernop(n, sc)
	case *ast.If:
		return e.evalIf(n, sc)
	case *ast.While:
		return e.evalWhile(n, sc)
	case *ast.Decl:
		return e.evalDecl(n, sc)
	case *ast.Call:
		return e.evalCall(n, sc)
	case *ast.Fun:
		return &Fun{Param: n.Param, Body: n.Body, Env: sc}, nil
	case *ast.Use:
		return e.evalUse(n, sc)
	case *ast.Print:
		return e.evalPrint(n, sc)
	case *ast.Block:
		return e.evalBlock(n, sc)
	case *ast.Return:
		return e.evalReturn(n, sc)
	}
	return nil, nmerr.New(nmerr.TypeError, node.Pos(), e.Source, "cannot evaluate node of type %T", node)
}

func (e *Evaluator) evalTuple(n *ast.Tuple, sc *scope.Scope) (object.Value, error) {
	elems := make([]object.Value, len(n.Elements))
	for i, el := range n.Elements {
		v, err := e.Eval(el, sc)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return object.NewArray(elems), nil
}

func (e *Evaluator) evalName(n *ast.Name, sc *scope.Scope) (object.Value, error) {
	if v, ok := sc.Lookup(n.Ident); ok {
		return v, nil
	}
	return nil, nmerr.New(nmerr.NameError, n.Pos(), e.Source, "undefined name %q", n.Ident)
}

func (e *Evaluator) evalBlock(n *ast.Block, sc *scope.Scope) (object.Value, error) {
	child := sc.Child()
	var result object.Value = object.NullValue
	for _, stmt := range n.Stmts {
		v, err := e.Eval(stmt, child)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (e *Evaluator) evalDecl(n *ast.Decl, sc *scope.Scope) (object.Value, error) {
	if sc.DeclaredHere(n.Var) {
		return nil, nmerr.New(nmerr.NameError, n.Pos(), e.Source, "%q is already declared in this scope", n.Var)
	}
	var v object.Value = object.NullValue
	if n.Init != nil {
		var err error
		v, err = e.Eval(n.Init, sc)
		if err != nil {
			return nil, err
		}
	}
	sc.Declare(n.Var, v)
	return v, nil
}

func (e *Evaluator) evalIf(n *ast.If, sc *scope.Scope) (object.Value, error) {
	guard, err := e.Eval(n.Guard, sc)
	if err != nil {
		return nil, err
	}
	if guard.Truthy() {
		return e.Eval(n.Body, sc)
	}
	if n.Else != nil {
		return e.Eval(n.Else, sc)
	}
	return object.NullValue, nil
}

func (e *Evaluator) evalWhile(n *ast.While, sc *scope.Scope) (object.Value, error) {
	var result object.Value = object.NullValue
	ran := false
	for {
		guard, err := e.Eval(n.Guard, sc)
		if err != nil {
			return nil, err
		}
		if !guard.Truthy() {
			break
		}
		ran = true
		result, err = e.Eval(n.Body, sc)
		if err != nil {
			return nil, err
		}
	}
	if n.Else != nil {
		_ = ran
		return e.Eval(n.Else, sc)
	}
	return result, nil
}

func (e *Evaluator) evalTernop(n *ast.Ternop, sc *scope.Scope) (object.Value, error) {
	cond, err := e.Eval(n.Cond, sc)
	if err != nil {
		return nil, err
	}
	if cond.Truthy() {
		return e.Eval(n.Then, sc)
	}
	return e.Eval(n.Else, sc)
}

func (e *Evaluator) evalReturn(n *ast.Return, sc *scope.Scope) (object.Value, error) {
	var v object.Value = object.NullValue
	if n.Value != nil {
		var err error
		v, err = e.Eval(n.Value, sc)
		if err != nil {
			return nil, err
		}
	}
	return nil, returnSignal{value: v}
}

func (e *Evaluator) evalPrint(n *ast.Print, sc *scope.Scope) (object.Value, error) {
	for _, a := range n.Args {
		v, err := e.Eval(a, sc)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(e.Output, v.String()); err != nil {
			return nil, nmerr.New(nmerr.IoError, n.Pos(), e.Source, "%v", err)
		}
	}
	if n.Newline {
		if _, err := io.WriteString(e.Output, "\n"); err != nil {
			return nil, nmerr.New(nmerr.IoError, n.Pos(), e.Source, "%v", err)
		}
	}
	return object.NullValue, nil
}

func (e *Evaluator) evalUse(n *ast.Use, sc *scope.Scope) (object.Value, error) {
	if e.Loader == nil {
		return nil, nmerr.New(nmerr.IoError, n.Pos(), e.Source, "use %q: no module loader configured", n.Module)
	}
	body, already, err := e.Loader.Load(n.Module)
	if err != nil {
		return nil, nmerr.New(nmerr.IoError, n.Pos(), e.Source, "use %q: %v", n.Module, err)
	}
	if already {
		return object.NullValue, nil
	}
	moduleScope := sc.Child()
	var result object.Value = object.NullValue
	for _, stmt := range body.Stmts {
		v, err := e.Eval(stmt, moduleScope)
		if err != nil {
			return nil, err
		}
		result = v
	}
	sc.DefineLabel(n.Module, moduleScope)
	for _, stmt := range body.Stmts {
		if decl, ok := stmt.(*ast.Decl); ok {
			if v, ok := moduleScope.Lookup(decl.Var); ok {
				sc.Declare(decl.Var, v)
			}
		}
	}
	return result, nil
}
