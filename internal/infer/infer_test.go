package infer

import (
	"testing"

	"github.com/nmlang/nm/internal/ast"
	"github.com/nmlang/nm/internal/lexer"
	"github.com/nmlang/nm/internal/parser"
	"github.com/nmlang/nm/internal/token"
	"github.com/nmlang/nm/internal/types"
)

func inferSource(t *testing.T, src string) (types.Type, error) {
	t.Helper()
	head, err := lexer.Tokenize(src, "<test>")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	block, err := parser.New(head, "<test>").ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram error: %v", err)
	}
	return Infer(block, NewContext())
}

func TestInferLiteralTypes(t *testing.T) {
	typ, err := inferSource(t, `1;`)
	if err != nil {
		t.Fatal(err)
	}
	if typ != types.IntType {
		t.Errorf("type = %v, want Int", typ)
	}
}

func TestInferArithmeticUnifiesOperands(t *testing.T) {
	typ, err := inferSource(t, `1 + 2;`)
	if err != nil {
		t.Fatal(err)
	}
	if typ != types.IntType {
		t.Errorf("type = %v, want Int", typ)
	}
}

func TestInferArithmeticMismatchFails(t *testing.T) {
	_, err := inferSource(t, `1 + "x";`)
	if err == nil {
		t.Fatal("expected a unification failure for Int + Str")
	}
}

func TestInferComparisonAlwaysInt(t *testing.T) {
	typ, err := inferSource(t, `1 < 2.5;`)
	if err != nil {
		t.Fatal(err)
	}
	if typ != types.IntType {
		t.Errorf("comparison type = %v, want Int", typ)
	}
}

func TestInferFunctionType(t *testing.T) {
	typ, err := inferSource(t, `fn(x) x + 1;`)
	if err != nil {
		t.Fatal(err)
	}
	fn, ok := typ.(*types.Fun)
	if !ok {
		t.Fatalf("type = %T, want *types.Fun", typ)
	}
	if types.Prune(fn.Param) != types.IntType {
		t.Errorf("param type = %v, want Int (pinned by +1)", types.Prune(fn.Param))
	}
}

func TestInferCallUnifiesArgumentAgainstParam(t *testing.T) {
	typ, err := inferSource(t, `
fn identity(x) { x; }
identity(5);
`)
	if err != nil {
		t.Fatal(err)
	}
	if types.Prune(typ) != types.IntType {
		t.Errorf("identity(5) type = %v, want Int", types.Prune(typ))
	}
}

func TestInferUnboundNameFails(t *testing.T) {
	_, err := inferSource(t, `neverDeclared;`)
	if err == nil {
		t.Fatal("expected an InferenceError for an unbound name")
	}
}

func TestInferCachesResultOnNode(t *testing.T) {
	head, err := lexer.Tokenize(`1 + 2;`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	block, err := parser.New(head, "<test>").ParseProgram()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Infer(block, NewContext()); err != nil {
		t.Fatal(err)
	}
	if block.CachedType() == nil {
		t.Error("Infer should cache the block's type")
	}
}

func TestInferFailureCachesNilNotPropagatedAsPanic(t *testing.T) {
	var n ast.Node = ast.NewName(token.Position{SourceID: "<test>"}, "undefined")
	_, err := Infer(n, NewContext())
	if err == nil {
		t.Fatal("expected an error for an unbound name")
	}
	if n.CachedType() != nil {
		t.Error("a failed inference should cache nil, per spec's \"unknown\" convention")
	}
}
