package object

import "testing"

func TestAddPromotion(t *testing.T) {
	v, err := Add(NewInt(1), NewInt(2))
	if err != nil {
		t.Fatalf("Add(Int, Int) error: %v", err)
	}
	if i, ok := v.(*Int); !ok || i.Value != 3 {
		t.Errorf("Add(1, 2) = %v, want Int(3)", v)
	}

	v, err = Add(NewInt(1), NewReal(2.5))
	if err != nil {
		t.Fatalf("Add(Int, Real) error: %v", err)
	}
	if r, ok := v.(*Real); !ok || r.Value != 3.5 {
		t.Errorf("Add(1, 2.5) = %v, want Real(3.5)", v)
	}
}

func TestAddCommutativity(t *testing.T) {
	a, b := NewInt(7), NewInt(11)
	ab, err := Add(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := Add(b, a)
	if err != nil {
		t.Fatal(err)
	}
	if !Eq(ab, ba) {
		t.Errorf("Add not commutative: %v != %v", ab, ba)
	}
}

func TestMulCommutativity(t *testing.T) {
	a, b := NewReal(2.5), NewInt(4)
	ab, err := Mul(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := Mul(b, a)
	if err != nil {
		t.Fatal(err)
	}
	if !Eq(ab, ba) {
		t.Errorf("Mul not commutative: %v != %v", ab, ba)
	}
}

func TestStringConcatenation(t *testing.T) {
	v, err := Add(NewStr("he"), NewStr("llo"))
	if err != nil {
		t.Fatalf("Add(Str, Str) error: %v", err)
	}
	if s, ok := v.(*Str); !ok || s.Value != "hello" {
		t.Errorf("Add(\"he\", \"llo\") = %v, want \"hello\"", v)
	}
}

func TestStringConcatLengthAdditive(t *testing.T) {
	a, b := "hello ", "world"
	v, err := Add(NewStr(a), NewStr(b))
	if err != nil {
		t.Fatal(err)
	}
	got := len([]rune(v.(*Str).Value))
	want := len([]rune(a)) + len([]rune(b))
	if got != want {
		t.Errorf("concatenated rune length = %d, want %d", got, want)
	}
}

func TestArrayConcatenationOrderAndLength(t *testing.T) {
	a := NewArray([]Value{NewInt(1), NewInt(2), NewInt(3)})
	b := NewArray([]Value{NewInt(4), NewInt(5)})
	v, err := Add(a, b)
	if err != nil {
		t.Fatalf("Add(Array, Array) error: %v", err)
	}
	arr := v.(*Array)
	if len(arr.Elements) != len(a.Elements)+len(b.Elements) {
		t.Fatalf("len = %d, want %d", len(arr.Elements), len(a.Elements)+len(b.Elements))
	}
	want := []int64{1, 2, 3, 4, 5}
	for i, w := range want {
		if got := arr.Elements[i].(*Int).Value; got != w {
			t.Errorf("element %d = %d, want %d", i, got, w)
		}
	}
}

func TestDivNarrowsOnExactQuotient(t *testing.T) {
	v, err := Div(NewInt(10), NewInt(2))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(*Int); !ok {
		t.Errorf("10/2 = %v (%T), want Int", v, v)
	}

	v, err = Div(NewInt(10), NewInt(3))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(*Real); !ok {
		t.Errorf("10/3 = %v (%T), want Real", v, v)
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Div(NewInt(1), NewInt(0)); err == nil {
		t.Fatal("expected DivideByZero")
	} else if _, ok := err.(*DivideByZero); !ok {
		t.Errorf("error type = %T, want *DivideByZero", err)
	}
}

func TestModRequiresInts(t *testing.T) {
	if _, err := Mod(NewReal(1.5), NewInt(2)); err == nil {
		t.Error("Mod(Real, Int) should fail")
	}
	v, err := Mod(NewInt(7), NewInt(3))
	if err != nil {
		t.Fatal(err)
	}
	if v.(*Int).Value != 1 {
		t.Errorf("7 %% 3 = %v, want 1", v)
	}
}

func TestModByZero(t *testing.T) {
	if _, err := Mod(NewInt(1), NewInt(0)); err == nil {
		t.Fatal("expected DivideByZero")
	}
}

func TestIndexArrayAndString(t *testing.T) {
	arr := NewArray([]Value{NewInt(4), NewInt(5), NewInt(6)})
	v, err := Index(arr, NewInt(1))
	if err != nil {
		t.Fatal(err)
	}
	if v.(*Int).Value != 5 {
		t.Errorf("arr[1] = %v, want 5", v)
	}

	s := NewStr("abc")
	v, err = Index(s, NewInt(1))
	if err != nil {
		t.Fatal(err)
	}
	if c, ok := v.(*Char); !ok || c.Value != 'b' {
		t.Errorf("s[1] = %v, want Char('b')", v)
	}
}

func TestIndexOutOfRange(t *testing.T) {
	arr := NewArray([]Value{NewInt(1)})
	_, err := Index(arr, NewInt(5))
	if err == nil {
		t.Fatal("expected IndexError")
	}
	ie, ok := err.(*IndexError)
	if !ok {
		t.Fatalf("error type = %T, want *IndexError", err)
	}
	if ie.Index != 5 || ie.Length != 1 {
		t.Errorf("IndexError = %+v", ie)
	}
}

func TestBoolishnessTotality(t *testing.T) {
	values := []Value{
		NullValue, NewInt(0), NewInt(1), NewReal(0), NewReal(1.2),
		NewStr(""), NewStr("x"), NewArray(nil), NewArray([]Value{NullValue}),
		NewChar(0), NewChar('a'),
	}
	for _, v := range values {
		not := Negate(v)
		notnot := Negate(not)
		if not.Truthy() == notnot.Truthy() {
			t.Errorf("!!%v should differ in truthiness from !%v", v, v)
		}
		if notnot.Truthy() != v.Truthy() {
			t.Errorf("!!%v.Truthy() = %v, want %v", v, notnot.Truthy(), v.Truthy())
		}
	}
}

func TestIncrementDecrementRequireInt(t *testing.T) {
	if _, err := Increment(NewReal(1)); err == nil {
		t.Error("Increment(Real) should fail")
	}
	v, err := Increment(NewInt(1))
	if err != nil || v.(*Int).Value != 2 {
		t.Errorf("Increment(1) = %v, %v", v, err)
	}
	v, err = Decrement(NewInt(1))
	if err != nil || v.(*Int).Value != 0 {
		t.Errorf("Decrement(1) = %v, %v", v, err)
	}
}

func TestCmpPromotesAndOrdersStrings(t *testing.T) {
	c, err := Cmp(NewInt(1), NewReal(2.0))
	if err != nil || c != -1 {
		t.Errorf("Cmp(1, 2.0) = %d, %v, want -1, nil", c, err)
	}
	c, err = Cmp(NewStr("a"), NewStr("b"))
	if err != nil || c != -1 {
		t.Errorf("Cmp(\"a\", \"b\") = %d, %v, want -1, nil", c, err)
	}
}

func TestEqAcrossIntRealPromotion(t *testing.T) {
	if !Eq(NewInt(2), NewReal(2.0)) {
		t.Error("Eq(Int(2), Real(2.0)) should be true")
	}
	if Eq(NewInt(2), NewStr("2")) {
		t.Error("Eq(Int(2), Str(\"2\")) should be false")
	}
}

func TestRealArithmeticNarrowsOnExactInteger(t *testing.T) {
	v, err := Add(NewReal(1.5), NewReal(2.5))
	if err != nil {
		t.Fatal(err)
	}
	if i, ok := v.(*Int); !ok || i.Value != 4 {
		t.Errorf("Add(1.5, 2.5) = %v (%T), want Int(4)", v, v)
	}

	v, err = Mul(NewReal(2.5), NewReal(2.0))
	if err != nil {
		t.Fatal(err)
	}
	if i, ok := v.(*Int); !ok || i.Value != 5 {
		t.Errorf("Mul(2.5, 2.0) = %v (%T), want Int(5)", v, v)
	}

	v, err = Sub(NewReal(5.5), NewReal(1.5))
	if err != nil {
		t.Fatal(err)
	}
	if i, ok := v.(*Int); !ok || i.Value != 4 {
		t.Errorf("Sub(5.5, 1.5) = %v (%T), want Int(4)", v, v)
	}

	v, err = Div(NewReal(5.0), NewReal(2.5))
	if err != nil {
		t.Fatal(err)
	}
	if i, ok := v.(*Int); !ok || i.Value != 2 {
		t.Errorf("Div(5.0, 2.5) = %v (%T), want Int(2)", v, v)
	}

	v, err = Add(NewReal(1.1), NewReal(2.2))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(*Real); !ok {
		t.Errorf("Add(1.1, 2.2) = %v (%T), want Real", v, v)
	}
}

func TestStrConcatenatesWithNumberRenderings(t *testing.T) {
	v, err := Add(NewStr("n="), NewInt(42))
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := v.(*Str); !ok || s.Value != "n=42" {
		t.Errorf("Add(Str, Int) = %v, want \"n=42\"", v)
	}

	v, err = Add(NewStr("x="), NewReal(3.5))
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := v.(*Str); !ok || s.Value != "x=3.50" {
		t.Errorf("Add(Str, Real) = %v, want \"x=3.50\"", v)
	}
}
