// Package object is nm's runtime value model: the tagged variant every
// evaluated expression produces, per spec.md §4.1. It follows the
// teacher's per-type struct and Type()/String() shape (internal/interp's
// IntegerValue/StringValue/... family) rather than a single boxed
// interface{}, for the same type-safety reason the teacher gives.
package object

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the interface every runtime value implements.
type Value interface {
	Type() string
	String() string
	// Truthy reports whether the value counts as true in a guard
	// position (if/while/ternary), per spec.md §4.1's boolishness rule.
	Truthy() bool
}

// Null is the sole value of Void, and the default value of an
// uninitialized `my` declaration.
type Null struct{}

func (Null) Type() string   { return "Null" }
func (Null) String() string { return "null" }
func (Null) Truthy() bool   { return false }

// NullValue is the single shared Null instance; Null carries no state so
// every occurrence can share it.
var NullValue = Null{}

// Int is a 64-bit signed integer value.
type Int struct{ Value int64 }

func NewInt(v int64) *Int { return &Int{Value: v} }

func (i *Int) Type() string   { return "Int" }
func (i *Int) String() string { return strconv.FormatInt(i.Value, 10) }
func (i *Int) Truthy() bool   { return i.Value != 0 }

// Real is a 64-bit floating point value.
type Real struct{ Value float64 }

func NewReal(v float64) *Real { return &Real{Value: v} }

func (r *Real) Type() string   { return "Real" }
func (r *Real) String() string { return strconv.FormatFloat(r.Value, 'g', -1, 64) }
func (r *Real) Truthy() bool   { return r.Value != 0 }

// Str is an immutable UTF-8 string value.
type Str struct{ Value string }

func NewStr(v string) *Str { return &Str{Value: v} }

func (s *Str) Type() string   { return "Str" }
func (s *Str) String() string { return s.Value }
func (s *Str) Truthy() bool   { return s.Value != "" }

// Char is a single Unicode code point, distinct from a one-rune Str so
// indexing a Str yields Char per spec.md §4.1.
type Char struct{ Value rune }

func NewChar(v rune) *Char { return &Char{Value: v} }

func (c *Char) Type() string   { return "Char" }
func (c *Char) String() string { return string(c.Value) }
func (c *Char) Truthy() bool   { return c.Value != 0 }

// Array is a mutable, ordered, variable-length sequence of values.
type Array struct{ Elements []Value }

func NewArray(elems []Value) *Array { return &Array{Elements: elems} }

func (a *Array) Type() string { return "Array" }
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *Array) Truthy() bool { return len(a.Elements) != 0 }

// File wraps an open file handle so scripts can read and write through
// the same Value interface as every other runtime datum. The `close`
// builtin closes Handle and sets it to nil; Arena.Release closes, in bulk
// at interpreter teardown, every tracked File whose Handle is still
// non-nil, the arena-style reclamation spec.md §5 calls for in place of
// a tracing garbage collector.
type File struct {
	Name   string
	Handle Closer
}

// Closer is the minimal surface File needs from an open OS handle,
// satisfied by *os.File without importing it here, so tests can supply
// an in-memory fake.
type Closer interface {
	Close() error
}

func NewFile(name string, h Closer) *File { return &File{Name: name, Handle: h} }

func (f *File) Type() string   { return "File" }
func (f *File) String() string { return fmt.Sprintf("<file %s>", f.Name) }
func (f *File) Truthy() bool   { return f.Handle != nil }
