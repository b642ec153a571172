package nm

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nmlang/nm/internal/ast"
	"github.com/nmlang/nm/internal/eval"
	"github.com/nmlang/nm/internal/object"
	"github.com/nmlang/nm/internal/scope"
)

func TestParseStringReturnsAST(t *testing.T) {
	block, err := ParseString(`1 + 2;`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if len(block.Stmts) != 1 {
		t.Fatalf("Stmts = %d, want 1", len(block.Stmts))
	}
	if _, ok := block.Stmts[0].(*ast.Binop); !ok {
		t.Errorf("statement type = %T, want *ast.Binop", block.Stmts[0])
	}
}

func TestParseFileReadsAndParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.nm")
	if err := os.WriteFile(path, []byte(`my x = 41; x + 1;`), 0o644); err != nil {
		t.Fatal(err)
	}
	block, err := ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(block.Stmts) != 2 {
		t.Fatalf("Stmts = %d, want 2", len(block.Stmts))
	}
}

func TestParseFileMissingReturnsError(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.nm")); err == nil {
		t.Fatal("expected an error reading a missing file")
	}
}

func TestEvalBlockEvaluatesParsedProgram(t *testing.T) {
	block, err := ParseString(`my x = 10; x * 2;`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	v, err := EvalBlock(block, scope.New())
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "20"; got != want {
		t.Errorf("result = %s, want %s", got, want)
	}
}

func TestInferAnnotatesAndReturnsBlockType(t *testing.T) {
	block, err := ParseString(`1 + 2;`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	typ, err := Infer(block)
	if err != nil {
		t.Fatal(err)
	}
	if typ == nil {
		t.Fatal("Infer returned a nil type with no error")
	}
	if block.CachedType() == nil {
		t.Error("Infer should cache the block's type on the node")
	}
}

func TestNewAnonymousSourceIDsAreDistinct(t *testing.T) {
	a := NewAnonymousSourceID()
	b := NewAnonymousSourceID()
	if a == b {
		t.Errorf("NewAnonymousSourceID produced identical ids: %s", a)
	}
}

func TestNewSessionConstructsInterpreter(t *testing.T) {
	it := NewSession(".")
	if it == nil {
		t.Fatal("NewSession returned nil")
	}
}

func TestRegisterBuiltinsDeclaresCallableSpecs(t *testing.T) {
	sc := scope.New()
	if err := RegisterBuiltins(sc, DefaultBuiltins(eval.New(nil), sc)); err != nil {
		t.Fatal(err)
	}
	v, ok := sc.Lookup("len")
	if !ok {
		t.Fatal("expected len to be declared")
	}
	if _, ok := v.(*eval.Builtin); !ok {
		t.Errorf("len's registered value type = %T, want *eval.Builtin", v)
	}
}

func TestRegisterBuiltinsRejectsArityMismatch(t *testing.T) {
	sc := scope.New()
	bad := []BuiltinSpec{
		{Name: "broken", Arity: 2, Fn: func(object.Value) (object.Value, error) { return nil, nil }},
	}
	if err := RegisterBuiltins(sc, bad); err == nil {
		t.Fatal("expected an ArityError for a declared arity that doesn't match Fn's signature")
	}
}

func TestBuiltinLenOnStringAndArray(t *testing.T) {
	sc := scope.New()
	if err := RegisterBuiltins(sc, DefaultBuiltins(eval.New(nil), sc)); err != nil {
		t.Fatal(err)
	}
	block, err := ParseString(`len("hello");`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	v, err := EvalBlock(block, sc)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "5"; got != want {
		t.Errorf("len(\"hello\") = %s, want %s", got, want)
	}
}

func TestBuiltinSqrtOnInt(t *testing.T) {
	sc := scope.New()
	if err := RegisterBuiltins(sc, DefaultBuiltins(eval.New(nil), sc)); err != nil {
		t.Fatal(err)
	}
	block, err := ParseString(`sqrt(9);`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	v, err := EvalBlock(block, sc)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "3"; got != want {
		t.Errorf("sqrt(9) = %s, want %s", got, want)
	}
}

func TestBuiltinChrAndOrdRoundTrip(t *testing.T) {
	sc := scope.New()
	if err := RegisterBuiltins(sc, DefaultBuiltins(eval.New(nil), sc)); err != nil {
		t.Fatal(err)
	}
	block, err := ParseString(`ord(chr(65));`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	v, err := EvalBlock(block, sc)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "65"; got != want {
		t.Errorf("ord(chr(65)) = %s, want %s", got, want)
	}
}

func TestBuiltinAssertPassesAndFails(t *testing.T) {
	sc := scope.New()
	e := eval.New(nil)
	if err := RegisterBuiltins(sc, DefaultBuiltins(e, sc)); err != nil {
		t.Fatal(err)
	}
	block, err := ParseString(`assert(2, 2.0);`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := EvalBlock(block, sc); err != nil {
		t.Fatalf("assert(2, 2.0) should pass via Int/Real coercion: %v", err)
	}

	block, err = ParseString(`assert(1, 2);`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := EvalBlock(block, sc); err == nil {
		t.Fatal("assert(1, 2) should fail")
	}
}

func TestBuiltinIDStableForSameValue(t *testing.T) {
	sc := scope.New()
	if err := RegisterBuiltins(sc, DefaultBuiltins(eval.New(nil), sc)); err != nil {
		t.Fatal(err)
	}
	block, err := ParseString(`my a = [1]; id(a) == id(a);`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	v, err := EvalBlock(block, sc)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "1"; got != want {
		t.Errorf("id(a) == id(a) = %s, want %s", got, want)
	}
}

func TestBuiltinOpenWriteThenCloseRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	sc := scope.New()
	e := eval.New(nil)
	if err := RegisterBuiltins(sc, DefaultBuiltins(e, sc)); err != nil {
		t.Fatal(err)
	}
	block, err := ParseString(`my f = open(p, "w"); close(f);`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	sc.Declare("p", object.NewStr(path))
	v, err := EvalBlock(block, sc)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "1"; got != want {
		t.Errorf("close(f) = %s, want %s", got, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("open(path, \"w\") did not create the file: %v", err)
	}
}

func TestBuiltinOpenTracksFileInArena(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracked.txt")

	sc := scope.New()
	e := eval.New(nil)
	if err := RegisterBuiltins(sc, DefaultBuiltins(e, sc)); err != nil {
		t.Fatal(err)
	}
	block, err := ParseString(`open(p, "w");`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	sc.Declare("p", object.NewStr(path))
	if _, err := EvalBlock(block, sc); err != nil {
		t.Fatal(err)
	}
	if err := e.Arena.Release(); err != nil {
		t.Errorf("Arena.Release() after open() without close() = %v, want nil", err)
	}
}

func TestBuiltinEvalRunsAgainstRootScope(t *testing.T) {
	sc := scope.New()
	e := eval.New(nil)
	if err := RegisterBuiltins(sc, DefaultBuiltins(e, sc)); err != nil {
		t.Fatal(err)
	}
	sc.Declare("x", object.NewInt(10))
	block, err := ParseString(`eval("x + 5;");`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	v, err := EvalBlock(block, sc)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "15"; got != want {
		t.Errorf("eval(\"x + 5;\") = %s, want %s", got, want)
	}
}

func TestBuiltinPrintfFormatsAndWrites(t *testing.T) {
	sc := scope.New()
	e := eval.New(nil)
	var out bytes.Buffer
	e.Output = &out
	if err := RegisterBuiltins(sc, DefaultBuiltins(e, sc)); err != nil {
		t.Fatal(err)
	}
	block, err := ParseString(`printf("n=%i s=%s", [1, "x"]);`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := EvalBlock(block, sc); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "n=1 s=x"; got != want {
		t.Errorf("printf output = %q, want %q", got, want)
	}
}

func TestBuiltinPrintfRejectsArgumentCountMismatch(t *testing.T) {
	sc := scope.New()
	e := eval.New(nil)
	if err := RegisterBuiltins(sc, DefaultBuiltins(e, sc)); err != nil {
		t.Fatal(err)
	}
	block, err := ParseString(`printf("n=%i", []);`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := EvalBlock(block, sc); err == nil {
		t.Fatal("printf with too few arguments should fail")
	}
}
