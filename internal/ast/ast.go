// Package ast defines the AST node taxonomy for nm: a tagged variant with
// one concrete Go type per syntactic form named in spec.md §3, each
// implementing the Node interface.
package ast

import (
	"fmt"
	"strings"

	"github.com/nmlang/nm/internal/token"
	"github.com/nmlang/nm/internal/types"
)

// Node is the uniform interface every AST node implements: a position for
// diagnostics, a debug string, and a cached inferred type slot the
// inferencer may fill in and the evaluator may fall back past.
type Node interface {
	Pos() token.Position
	String() string
	CachedType() types.Type
	SetCachedType(types.Type)
}

// base is embedded by every node to provide the position and type-cache
// plumbing without repeating it on each variant.
type base struct {
	pos  token.Position
	typ  types.Type
}

func (b *base) Pos() token.Position        { return b.pos }
func (b *base) CachedType() types.Type     { return b.typ }
func (b *base) SetCachedType(t types.Type) { b.typ = t }

// Nop is the empty statement and the result of a no-op `use` reentry.
type Nop struct{ base }

func NewNop(pos token.Position) *Nop { return &Nop{base{pos: pos}} }
func (n *Nop) String() string        { return ";" }

// Int is an integer literal.
type Int struct {
	base
	Value int64
}

func NewInt(pos token.Position, v int64) *Int {
	n := &Int{base: base{pos: pos}, Value: v}
	n.typ = types.IntType
	return n
}
func (n *Int) String() string { return fmt.Sprintf("%d", n.Value) }

// Real is a floating-point literal.
type Real struct {
	base
	Value float64
}

func NewReal(pos token.Position, v float64) *Real {
	n := &Real{base: base{pos: pos}, Value: v}
	n.typ = types.RealType
	return n
}
func (n *Real) String() string { return fmt.Sprintf("%g", n.Value) }

// Str is a string literal.
type Str struct {
	base
	Value string
}

func NewStr(pos token.Position, v string) *Str {
	n := &Str{base: base{pos: pos}, Value: v}
	n.typ = types.StrType
	return n
}
func (n *Str) String() string { return fmt.Sprintf("%q", n.Value) }

// Char is a single-codepoint literal.
type Char struct {
	base
	Value rune
}

func NewChar(pos token.Position, v rune) *Char {
	n := &Char{base: base{pos: pos}, Value: v}
	n.typ = types.CharType
	return n
}
func (n *Char) String() string { return fmt.Sprintf("'%c'", n.Value) }

// Tuple evaluates each element in order and builds an Array value.
type Tuple struct {
	base
	Elements []Node
}

func NewTuple(pos token.Position, elems []Node) *Tuple {
	return &Tuple{base: base{pos: pos}, Elements: elems}
}
func (n *Tuple) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Name references a variable or label by identifier.
type Name struct {
	base
	Ident string
}

func NewName(pos token.Position, ident string) *Name {
	return &Name{base: base{pos: pos}, Ident: ident}
}
func (n *Name) String() string { return n.Ident }

// Unop is a prefix or postfix unary operator application.
type Unop struct {
	base
	Op      string
	Child   Node
	Postfix bool
}

func NewUnop(pos token.Position, op string, child Node, postfix bool) *Unop {
	return &Unop{base: base{pos: pos}, Op: op, Child: child, Postfix: postfix}
}
func (n *Unop) String() string {
	if n.Postfix {
		return n.Child.String() + n.Op
	}
	return n.Op + n.Child.String()
}

// Binop is a binary operator application, including assignment forms
// (whose Left must be a Name or an Index; the evaluator rejects any other
// shape, the parser does not check it).
type Binop struct {
	base
	Op    string
	Left  Node
	Right Node
}

func NewBinop(pos token.Position, op string, left, right Node) *Binop {
	return &Binop{base: base{pos: pos}, Op: op, Left: left, Right: right}
}
func (n *Binop) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

// Index is `array[index]`, a binary operator in spec.md §4.1's terms but
// given its own node because the bracket syntax is not infix-symmetric.
type Index struct {
	base
	Array Node
	At    Node
}

func NewIndex(pos token.Position, arr, at Node) *Index {
	return &Index{base: base{pos: pos}, Array: arr, At: at}
}
func (n *Index) String() string { return fmt.Sprintf("%s[%s]", n.Array.String(), n.At.String()) }

// Ternop is the conditional expression `cond ? then : else`.
type Ternop struct {
	base
	Cond, Then, Else Node
}

func NewTernop(pos token.Position, cond, then, els Node) *Ternop {
	return &Ternop{base: base{pos: pos}, Cond: cond, Then: then, Else: els}
}
func (n *Ternop) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", n.Cond.String(), n.Then.String(), n.Else.String())
}

// If is `if guard body (else else)?` used both as statement and expression.
type If struct {
	base
	Guard Node
	Body  Node
	Else  Node // nil if absent
}

func NewIf(pos token.Position, guard, body, els Node) *If {
	return &If{base: base{pos: pos}, Guard: guard, Body: body, Else: els}
}
func (n *If) String() string {
	if n.Else != nil {
		return fmt.Sprintf("if %s %s else %s", n.Guard, n.Body, n.Else)
	}
	return fmt.Sprintf("if %s %s", n.Guard, n.Body)
}

// While is `while guard body (else else)?`.
type While struct {
	base
	Guard Node
	Body  Node
	Else  Node // nil if absent
}

func NewWhile(pos token.Position, guard, body, els Node) *While {
	return &While{base: base{pos: pos}, Guard: guard, Body: body, Else: els}
}
func (n *While) String() string {
	if n.Else != nil {
		return fmt.Sprintf("while %s %s else %s", n.Guard, n.Body, n.Else)
	}
	return fmt.Sprintf("while %s %s", n.Guard, n.Body)
}

// Decl is `my NAME (= init)?`.
type Decl struct {
	base
	Var  string
	Init Node // nil if absent, evaluates to Null
}

func NewDecl(pos token.Position, v string, init Node) *Decl {
	return &Decl{base: base{pos: pos}, Var: v, Init: init}
}
func (n *Decl) String() string {
	if n.Init != nil {
		return fmt.Sprintf("my %s = %s", n.Var, n.Init)
	}
	return "my " + n.Var
}

// Call applies Callee to a single curried argument; multi-argument source
// syntax is desugared to nested Calls by the parser per spec.md §4.4.
type Call struct {
	base
	Callee Node
	Arg    Node
}

func NewCall(pos token.Position, callee, arg Node) *Call {
	return &Call{base: base{pos: pos}, Callee: callee, Arg: arg}
}
func (n *Call) String() string { return fmt.Sprintf("%s(%s)", n.Callee, n.Arg) }

// Fun is a one-parameter function literal capturing its defining scope.
type Fun struct {
	base
	Param string
	Body  Node
}

func NewFun(pos token.Position, param string, body Node) *Fun {
	return &Fun{base: base{pos: pos}, Param: param, Body: body}
}
func (n *Fun) String() string { return fmt.Sprintf("fn(%s) %s", n.Param, n.Body) }

// Use inlines the named module's parsed block at the `use` site the first
// time it is imported; evaluating a later `use` of the same module yields
// Null without running the module again.
type Use struct {
	base
	Module string
}

func NewUse(pos token.Position, module string) *Use {
	return &Use{base: base{pos: pos}, Module: module}
}
func (n *Use) String() string { return fmt.Sprintf("use %s;", n.Module) }

// Print evaluates each argument and prints it in order.
type Print struct {
	base
	Args    []Node
	Newline bool
}

func NewPrint(pos token.Position, args []Node, newline bool) *Print {
	return &Print{base: base{pos: pos}, Args: args, Newline: newline}
}
func (n *Print) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return "print " + strings.Join(parts, ", ")
}

// Block is a finite ordered sequence of statements; the value of a Block
// is the value of its last statement, or Null if empty.
type Block struct {
	base
	Stmts []Node
}

func NewBlock(pos token.Position, stmts []Node) *Block {
	return &Block{base: base{pos: pos}, Stmts: stmts}
}
func (n *Block) String() string {
	parts := make([]string, len(n.Stmts))
	for i, s := range n.Stmts {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// Return is `return expr?;`, used inside function bodies to exit early.
type Return struct {
	base
	Value Node // nil if bare `return;`
}

func NewReturn(pos token.Position, value Node) *Return {
	return &Return{base: base{pos: pos}, Value: value}
}
func (n *Return) String() string {
	if n.Value != nil {
		return "return " + n.Value.String()
	}
	return "return"
}
