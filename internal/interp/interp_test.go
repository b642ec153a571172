package interp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/nmlang/nm/internal/eval"
	"github.com/nmlang/nm/internal/object"
)

// lenBuiltin is a minimal stand-in for pkg/nm/stdlib.go's registered `len`
// builtin, defined locally so this package doesn't need to import pkg/nm
// (which itself imports internal/interp).
func lenBuiltin() *eval.Builtin {
	return &eval.Builtin{
		Name: "len",
		Fn: func(v object.Value) (object.Value, error) {
			switch x := v.(type) {
			case *object.Str:
				return object.NewInt(int64(len([]rune(x.Value)))), nil
			case *object.Array:
				return object.NewInt(int64(len(x.Elements))), nil
			}
			return nil, &object.OpError{Op: "len", Left: v.Type()}
		},
	}
}

func runAndCapture(t *testing.T, src string) (string, error) {
	t.Helper()
	it := New("")
	var out bytes.Buffer
	it.Eval.Output = &out
	_, err := it.RunSource(src, "<test>")
	return out.String(), err
}

func TestEndToEndArithmetic(t *testing.T) {
	out, err := runAndCapture(t, `my a = 1; my b = 2; print a + b;`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "3" {
		t.Errorf("stdout = %q, want %q", out, "3")
	}
}

func TestEndToEndWhileLoop(t *testing.T) {
	_, err := runAndCapture(t, `my x = 10; while x > 0 { x = x - 1; } x;`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestEndToEndRecursiveFactorial(t *testing.T) {
	it := New("")
	v, err := it.RunSource(`fn fact(n) { if n < 2 1 else n * fact(n - 1); } fact(5);`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "120"; got != want {
		t.Errorf("fact(5) = %s, want %s", got, want)
	}
}

func TestEndToEndStringConcatLength(t *testing.T) {
	it := New("")
	it.Root.Declare("len", lenBuiltin())
	v, err := it.RunSource(`my s = "he" + "llo"; len(s);`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "5"; got != want {
		t.Errorf("len(s) = %s, want %s", got, want)
	}
}

func TestEndToEndArrayConcatAndIndex(t *testing.T) {
	it := New("")
	v, err := it.RunSource(`my a = [1, 2, 3]; my b = [4, 5]; (a + b)[3];`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "4"; got != want {
		t.Errorf("(a+b)[3] = %s, want %s", got, want)
	}
}

func TestEndToEndDivideByZeroHasNoPartialOutput(t *testing.T) {
	out, err := runAndCapture(t, `print "before", n; print 1 / 0;`)
	if err == nil {
		t.Fatal("expected a DivideByZero error")
	}
	if out != "before\n" {
		t.Errorf("stdout = %q, want only the statement preceding the failing one", out)
	}
}

func TestEndToEndLexicalScoping(t *testing.T) {
	it := New("")
	v, err := it.RunSource(`my x = 1; { my x = 2; } x;`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "1"; got != want {
		t.Errorf("x after block = %s, want %s", got, want)
	}
}

func TestEndToEndRedeclarationIsNameError(t *testing.T) {
	it := New("")
	_, err := it.RunSource(`my x = 1; my x = 2;`, "<test>")
	if err == nil {
		t.Fatal("expected a NameError on redeclaration")
	}
}

func TestUseModuleInlinesTopLevelDecls(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "mathutils.nm")
	if err := os.WriteFile(modPath, []byte("fn square(x) { x * x; }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	it := New(dir)
	v, err := it.RunSource(`use mathutils; square(5);`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "25"; got != want {
		t.Errorf("square(5) = %s, want %s", got, want)
	}
}

func TestUseReentryIsNoOp(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "once.nm")
	if err := os.WriteFile(modPath, []byte("my loaded = 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	it := New(dir)
	_, err := it.RunSource(`use once; use once; loaded;`, "<test>")
	if err != nil {
		t.Fatal(err)
	}
}

// TestProgramSnapshot captures a small multi-feature program's printed
// output as a golden snapshot, exercising go-snaps the way the pack's
// fixture-driven interpreter tests do.
func TestProgramSnapshot(t *testing.T) {
	out, err := runAndCapture(t, `
my n = 7;
my parity = n % 2 == 0 ? "even" : "odd";
print parity, n;
my i = 0;
my total = 0;
while i < 5 {
    total += i;
    i += 1;
}
print total, n;
`)
	if err != nil {
		t.Fatal(err)
	}
	snaps.MatchSnapshot(t, "control_flow_output", out)
}
