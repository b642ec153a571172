package parser

import (
	"fmt"

	"github.com/nmlang/nm/internal/ast"
)

// implicitParamName synthesizes the parameter name a `%N` reference binds
// to, used both when the parser builds the curried Fun chain and when it
// rewrites a bare "%N" primary into a Name lookup of that same symbol.
func implicitParamName(n int) string { return fmt.Sprintf("%%%d", n) }

// countImplicitParams is the syntactic pre-pass spec.md §4.6 calls for: it
// walks a zero-parameter function body looking for `%N` references and
// returns the highest N found, so `fn() { %1 + %2 }` can be declared as if
// it had been written `fn(%1, %2) { %1 + %2 }`. A body that never
// references an implicit parameter returns 0, giving the function a Void
// parameter type per spec.md §4.6.
func countImplicitParams(n ast.Node) int {
	max := 0
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		if name, ok := n.(*ast.Name); ok {
			if idx, ok := parseImplicitIndex(name.Ident); ok && idx > max {
				max = idx
			}
			return
		}
		for _, child := range children(n) {
			walk(child)
		}
	}
	walk(n)
	return max
}

func parseImplicitIndex(ident string) (int, bool) {
	if len(ident) < 2 || ident[0] != '%' {
		return 0, false
	}
	n := 0
	for _, r := range ident[1:] {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// children enumerates the immediate AST children of n. Fun bodies are
// deliberately excluded: a nested `fn` introduces its own implicit
// parameter namespace, so an inner function's %1 must never inflate an
// outer function's arity.
func children(n ast.Node) []ast.Node {
	switch n := n.(type) {
	case *ast.Tuple:
		return n.Elements
	case *ast.Unop:
		return []ast.Node{n.Child}
	case *ast.Binop:
		return []ast.Node{n.Left, n.Right}
	case *ast.Index:
		return []ast.Node{n.Array, n.At}
	case *ast.Ternop:
		return []ast.Node{n.Cond, n.Then, n.Else}
	case *ast.If:
		return nonNil(n.Guard, n.Body, n.Else)
	case *ast.While:
		return nonNil(n.Guard, n.Body, n.Else)
	case *ast.Decl:
		return nonNil(n.Init)
	case *ast.Call:
		return []ast.Node{n.Callee, n.Arg}
	case *ast.Use:
		return nil
	case *ast.Print:
		return n.Args
	case *ast.Block:
		return n.Stmts
	case *ast.Return:
		return nonNil(n.Value)
	case *ast.Fun:
		return nil
	default:
		return nil
	}
}

func nonNil(nodes ...ast.Node) []ast.Node {
	out := make([]ast.Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
