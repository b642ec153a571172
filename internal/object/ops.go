package object

import (
	"fmt"
	"math"
	"strconv"
)

// OpError reports an operator applied to operand types that do not
// support it, the runtime counterpart of a TypeError per spec.md §7;
// eval wraps this into nmerr.TypeError with source position attached.
type OpError struct {
	Op          string
	Left, Right string // Right is "" for unary operators
}

func (e *OpError) Error() string {
	if e.Right == "" {
		return fmt.Sprintf("operator %s not defined for %s", e.Op, e.Left)
	}
	return fmt.Sprintf("operator %s not defined for %s and %s", e.Op, e.Left, e.Right)
}

// DivideByZero is returned by Div and Mod when the right operand is the
// additive identity.
type DivideByZero struct{ Op string }

func (e *DivideByZero) Error() string { return e.Op + ": division by zero" }

// IoError reports a failed filesystem operation from a built-in such as
// `open` or `close`, the runtime counterpart of spec.md §7's
// IoError{path, reason}.
type IoError struct {
	Path   string
	Reason error
}

func (e *IoError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Reason) }

// AssertionError reports a failed `assert` call: the two operands
// compared unequal.
type AssertionError struct {
	Left, Right Value
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s != %s", e.Left.String(), e.Right.String())
}

// numeric widens an Int/Real pair to a common Real representation when
// either operand is Real, per spec.md §4.1's promotion rule: Int op Real
// promotes to Real, Real op Real stays Real, Int op Int stays Int.
func numeric(a, b Value) (af, bf float64, bothInt bool, ok bool) {
	switch x := a.(type) {
	case *Int:
		switch y := b.(type) {
		case *Int:
			return float64(x.Value), float64(y.Value), true, true
		case *Real:
			return float64(x.Value), y.Value, false, true
		}
	case *Real:
		switch y := b.(type) {
		case *Int:
			return x.Value, float64(y.Value), false, true
		case *Real:
			return x.Value, y.Value, false, true
		}
	}
	return 0, 0, false, false
}

// narrow implements spec.md §4.1's narrowing rule: every arithmetic
// operator returns Int when the exact result equals a representable
// integer, Real otherwise. bothInt results are always exact Ints;
// a Real-involving result is narrowed only when it lands exactly on
// an integer within int64 range.
func narrow(f float64, bothInt bool) Value {
	if bothInt {
		return NewInt(int64(f))
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
		return NewInt(int64(f))
	}
	return NewReal(f)
}

// decimalRender renders v the way spec.md §4.1 requires for Str + Int /
// Str + Real concatenation: integers verbatim, reals with exactly two
// fractional digits.
func decimalRender(v Value) (string, bool) {
	switch x := v.(type) {
	case *Int:
		return strconv.FormatInt(x.Value, 10), true
	case *Real:
		return strconv.FormatFloat(x.Value, 'f', 2, 64), true
	}
	return "", false
}

// Add implements '+': numeric addition, string/array concatenation, and
// string-with-number concatenation.
func Add(a, b Value) (Value, error) {
	if as, ok := a.(*Str); ok {
		if bs, ok := b.(*Str); ok {
			return NewStr(as.Value + bs.Value), nil
		}
		if rendered, ok := decimalRender(b); ok {
			return NewStr(as.Value + rendered), nil
		}
	}
	if aa, ok := a.(*Array); ok {
		if ba, ok := b.(*Array); ok {
			out := make([]Value, 0, len(aa.Elements)+len(ba.Elements))
			out = append(out, aa.Elements...)
			out = append(out, ba.Elements...)
			return NewArray(out), nil
		}
	}
	if af, bf, bothInt, ok := numeric(a, b); ok {
		return narrow(af+bf, bothInt), nil
	}
	return nil, &OpError{Op: "+", Left: a.Type(), Right: b.Type()}
}

// Sub implements binary '-': numeric subtraction only.
func Sub(a, b Value) (Value, error) {
	if af, bf, bothInt, ok := numeric(a, b); ok {
		return narrow(af-bf, bothInt), nil
	}
	return nil, &OpError{Op: "-", Left: a.Type(), Right: b.Type()}
}

// Mul implements '*': numeric multiplication only.
func Mul(a, b Value) (Value, error) {
	if af, bf, bothInt, ok := numeric(a, b); ok {
		return narrow(af*bf, bothInt), nil
	}
	return nil, &OpError{Op: "*", Left: a.Type(), Right: b.Type()}
}

// Div implements '/'. Int/Int division narrows back to Int only when it
// divides evenly; otherwise the result promotes to Real, matching
// spec.md §4.1's narrowing rule.
func Div(a, b Value) (Value, error) {
	af, bf, bothInt, ok := numeric(a, b)
	if !ok {
		return nil, &OpError{Op: "/", Left: a.Type(), Right: b.Type()}
	}
	if bf == 0 {
		return nil, &DivideByZero{Op: "/"}
	}
	if bothInt {
		ai, bi := int64(af), int64(bf)
		if ai%bi == 0 {
			return NewInt(ai / bi), nil
		}
		return NewReal(af / bf), nil
	}
	return narrow(af/bf, false), nil
}

// Mod implements '%': remainder, defined only for Int operands.
func Mod(a, b Value) (Value, error) {
	ai, ok1 := a.(*Int)
	bi, ok2 := b.(*Int)
	if !ok1 || !ok2 {
		return nil, &OpError{Op: "%", Left: a.Type(), Right: b.Type()}
	}
	if bi.Value == 0 {
		return nil, &DivideByZero{Op: "%"}
	}
	return NewInt(ai.Value % bi.Value), nil
}

// Cmp orders a against b, returning -1, 0, or 1. Numbers compare
// numerically after promotion; strings and chars compare lexically;
// anything else is only comparable for equality via Eq.
func Cmp(a, b Value) (int, error) {
	if af, bf, _, ok := numeric(a, b); ok {
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if as, ok := a.(*Str); ok {
		if bs, ok := b.(*Str); ok {
			return strCompare(as.Value, bs.Value), nil
		}
	}
	if ac, ok := a.(*Char); ok {
		if bc, ok := b.(*Char); ok {
			switch {
			case ac.Value < bc.Value:
				return -1, nil
			case ac.Value > bc.Value:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	return 0, &OpError{Op: "cmp", Left: a.Type(), Right: b.Type()}
}

func strCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Eq implements '==': structural equality, defined for every pairing
// (mismatched types are simply unequal rather than an error).
func Eq(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case *Int:
		if y, ok := b.(*Int); ok {
			return x.Value == y.Value
		}
		if y, ok := b.(*Real); ok {
			return float64(x.Value) == y.Value
		}
	case *Real:
		if y, ok := b.(*Real); ok {
			return x.Value == y.Value
		}
		if y, ok := b.(*Int); ok {
			return x.Value == float64(y.Value)
		}
	case *Str:
		if y, ok := b.(*Str); ok {
			return x.Value == y.Value
		}
	case *Char:
		if y, ok := b.(*Char); ok {
			return x.Value == y.Value
		}
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Eq(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Index implements `array[i]`, defined for Array and Str (which yields
// Char), with negative indices unsupported per spec.md §4.1.
func Index(container, at Value) (Value, error) {
	idx, ok := at.(*Int)
	if !ok {
		return nil, &OpError{Op: "[]", Left: container.Type(), Right: at.Type()}
	}
	switch c := container.(type) {
	case *Array:
		if idx.Value < 0 || idx.Value >= int64(len(c.Elements)) {
			return nil, &IndexError{Index: idx.Value, Length: len(c.Elements)}
		}
		return c.Elements[idx.Value], nil
	case *Str:
		runes := []rune(c.Value)
		if idx.Value < 0 || idx.Value >= int64(len(runes)) {
			return nil, &IndexError{Index: idx.Value, Length: len(runes)}
		}
		return NewChar(runes[idx.Value]), nil
	}
	return nil, &OpError{Op: "[]", Left: container.Type(), Right: at.Type()}
}

// IndexError reports an out-of-bounds access.
type IndexError struct {
	Index  int64
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range (length %d)", e.Index, e.Length)
}

// Plus implements unary '+': numeric identity.
func Plus(v Value) (Value, error) {
	switch v.(type) {
	case *Int, *Real:
		return v, nil
	}
	return nil, &OpError{Op: "unary +", Left: v.Type()}
}

// Minus implements unary '-': numeric negation.
func Minus(v Value) (Value, error) {
	switch x := v.(type) {
	case *Int:
		return NewInt(-x.Value), nil
	case *Real:
		return NewReal(-x.Value), nil
	}
	return nil, &OpError{Op: "unary -", Left: v.Type()}
}

// Negate implements '!': logical negation via Truthy, defined for every
// value since every value has a truthiness.
func Negate(v Value) Value {
	if v.Truthy() {
		return boolFalse()
	}
	return boolTrue()
}

// boolTrue and boolFalse represent logical results as Int 1/0, since
// spec.md §4.1 defines no distinct Bool type; comparisons and logical
// operators all answer in Int.
func boolTrue() Value  { return NewInt(1) }
func boolFalse() Value { return NewInt(0) }

// BoolOf converts a Go bool to the Int 1/0 runtime representation.
func BoolOf(b bool) Value {
	if b {
		return boolTrue()
	}
	return boolFalse()
}

// Increment implements prefix/postfix '++': only defined for Int.
func Increment(v Value) (Value, error) {
	i, ok := v.(*Int)
	if !ok {
		return nil, &OpError{Op: "++", Left: v.Type()}
	}
	return NewInt(i.Value + 1), nil
}

// Decrement implements prefix/postfix '--': only defined for Int.
func Decrement(v Value) (Value, error) {
	i, ok := v.(*Int)
	if !ok {
		return nil, &OpError{Op: "--", Left: v.Type()}
	}
	return NewInt(i.Value - 1), nil
}
