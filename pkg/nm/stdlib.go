package nm

import (
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"strings"

	"github.com/nmlang/nm/internal/eval"
	"github.com/nmlang/nm/internal/lexer"
	"github.com/nmlang/nm/internal/object"
	"github.com/nmlang/nm/internal/parser"
	"github.com/nmlang/nm/internal/scope"
)

// DefaultBuiltins returns the standard library every nm program gets for
// free. len/str/int/real/type/abs/chr/ord/sqrt are pure conversions the
// core grammar has no syntax of its own to express; open/close/assert/
// eval/id/printf are nm's rendition of Nemo's predef.c module_funcs
// table (predef_open, predef_close, predef_assert, predef_eval,
// predef_id, predef_print/predef_printf), the language's standard
// predefined functions per spec.md §5's file-handle contract and §6's
// built-in descriptor. The latter group needs more than a pure
// object.Value -> object.Value mapping (open tracks its handle in the
// interpreter's arena, eval re-enters the evaluator, printf writes to
// its output stream), so DefaultBuiltins takes the owning Evaluator and
// root scope rather than constructing these in a vacuum.
//
// RegisterBuiltins wires the result into a Scope:
// RegisterBuiltins(sc, DefaultBuiltins(e, sc)).
func DefaultBuiltins(e *eval.Evaluator, root *scope.Scope) []BuiltinSpec {
	return []BuiltinSpec{
		{Name: "len", Arity: 1, Fn: builtinLen},
		{Name: "str", Arity: 1, Fn: builtinStr},
		{Name: "int", Arity: 1, Fn: builtinInt},
		{Name: "real", Arity: 1, Fn: builtinReal},
		{Name: "type", Arity: 1, Fn: builtinType},
		{Name: "abs", Arity: 1, Fn: builtinAbs},
		{Name: "chr", Arity: 1, Fn: builtinChr},
		{Name: "ord", Arity: 1, Fn: builtinOrd},
		{Name: "sqrt", Arity: 1, Fn: builtinSqrt},
		{Name: "id", Arity: 1, Fn: builtinID},
		{Name: "assert", Arity: 2, Fn: builtinAssert},
		{Name: "open", Arity: 2, Fn: builtinOpen(e.Arena)},
		{Name: "close", Arity: 1, Fn: builtinClose},
		{Name: "eval", Arity: 1, Fn: builtinEval(e, root)},
		{Name: "printf", Arity: 2, Fn: builtinPrintf(e)},
	}
}

func builtinLen(v object.Value) (object.Value, error) {
	switch x := v.(type) {
	case *object.Str:
		return object.NewInt(int64(len([]rune(x.Value)))), nil
	case *object.Array:
		return object.NewInt(int64(len(x.Elements))), nil
	}
	return nil, &object.OpError{Op: "len", Left: v.Type()}
}

func builtinStr(v object.Value) (object.Value, error) {
	return object.NewStr(v.String()), nil
}

func builtinInt(v object.Value) (object.Value, error) {
	switch x := v.(type) {
	case *object.Int:
		return x, nil
	case *object.Real:
		return object.NewInt(int64(x.Value)), nil
	case *object.Char:
		return object.NewInt(int64(x.Value)), nil
	case *object.Str:
		return nil, &object.OpError{Op: "int", Left: v.Type()}
	}
	return nil, &object.OpError{Op: "int", Left: v.Type()}
}

func builtinReal(v object.Value) (object.Value, error) {
	switch x := v.(type) {
	case *object.Real:
		return x, nil
	case *object.Int:
		return object.NewReal(float64(x.Value)), nil
	}
	return nil, &object.OpError{Op: "real", Left: v.Type()}
}

func builtinType(v object.Value) (object.Value, error) {
	return object.NewStr(v.Type()), nil
}

func builtinAbs(v object.Value) (object.Value, error) {
	switch x := v.(type) {
	case *object.Int:
		if x.Value < 0 {
			return object.NewInt(-x.Value), nil
		}
		return x, nil
	case *object.Real:
		return object.NewReal(math.Abs(x.Value)), nil
	}
	return nil, &object.OpError{Op: "abs", Left: v.Type()}
}

func builtinChr(v object.Value) (object.Value, error) {
	i, ok := v.(*object.Int)
	if !ok {
		return nil, &object.OpError{Op: "chr", Left: v.Type()}
	}
	return object.NewChar(rune(i.Value)), nil
}

func builtinOrd(v object.Value) (object.Value, error) {
	c, ok := v.(*object.Char)
	if !ok {
		return nil, &object.OpError{Op: "ord", Left: v.Type()}
	}
	return object.NewInt(int64(c.Value)), nil
}

func builtinSqrt(v object.Value) (object.Value, error) {
	switch x := v.(type) {
	case *object.Int:
		return object.NewReal(math.Sqrt(float64(x.Value))), nil
	case *object.Real:
		return object.NewReal(math.Sqrt(x.Value)), nil
	}
	return nil, &object.OpError{Op: "sqrt", Left: v.Type()}
}

// builtinID answers predef_id: a stable integer identity for a value,
// Nemo's pointer cast (`(long)obj`) translated to Go's equivalent,
// reflect's Pointer() over the runtime value's backing pointer. Null and
// the Builtin/Fun function values carry no meaningful address an nm
// script could compare against, so they identify as 0.
func builtinID(v object.Value) (object.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr {
		return object.NewInt(0), nil
	}
	return object.NewInt(int64(rv.Pointer())), nil
}

// builtinAssert answers predef_assert: a 2-argument equality check with
// the same Int/Real cross-type coercion object.Eq already performs for
// '==', failing with the values on both sides rather than predef.c's
// print-then-abort.
func builtinAssert(left, right object.Value) (object.Value, error) {
	if !object.Eq(left, right) {
		return nil, &object.AssertionError{Left: left, Right: right}
	}
	return object.NullValue, nil
}

// builtinOpen answers predef_open. Nemo selects the open mode from
// option characters attached at the call site ("rwa"); nm's grammar has
// no call-site option syntax (spec.md §4.3), so the mode travels as an
// explicit second argument: "r" (read, the default open(path, "r")
// equivalent), "w" (truncate or create for writing), or "a" (append).
// The resulting handle is tracked in arena so Arena.Release (and hence
// Interpreter.Close) closes it at teardown even if the script never
// calls `close` itself.
func builtinOpen(arena *object.Arena) func(path, mode object.Value) (object.Value, error) {
	return func(path, mode object.Value) (object.Value, error) {
		ps, ok := path.(*object.Str)
		if !ok {
			return nil, &object.OpError{Op: "open", Left: path.Type(), Right: mode.Type()}
		}
		ms, ok := mode.(*object.Str)
		if !ok {
			return nil, &object.OpError{Op: "open", Left: path.Type(), Right: mode.Type()}
		}
		var flag int
		switch ms.Value {
		case "r":
			flag = os.O_RDONLY
		case "w":
			flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		case "a":
			flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		default:
			return nil, fmt.Errorf("open: mode must be \"r\", \"w\", or \"a\", got %q", ms.Value)
		}
		f, err := os.OpenFile(ps.Value, flag, 0o644)
		if err != nil {
			return nil, &object.IoError{Path: ps.Value, Reason: err}
		}
		file := object.NewFile(ps.Value, f)
		arena.Track(file)
		return file, nil
	}
}

// builtinClose answers predef_close: closes the handle and returns
// Int(1) on success, matching predef_close's `nm_new_int(1)`. The
// handle is nilled out so Arena.Release's teardown pass (which skips a
// File whose Handle is nil) does not double-close it.
func builtinClose(v object.Value) (object.Value, error) {
	f, ok := v.(*object.File)
	if !ok {
		return nil, &object.OpError{Op: "close", Left: v.Type()}
	}
	if f.Handle == nil {
		return object.NewInt(1), nil
	}
	if err := f.Handle.Close(); err != nil {
		return nil, &object.IoError{Path: f.Name, Reason: err}
	}
	f.Handle = nil
	return object.NewInt(1), nil
}

// builtinEval answers predef_eval: parses its string argument as a
// program and executes it as a block
// (predef_eval's `nm_ast_exec_block(nm_parse_string(...))`), returning
// the block's last value. It runs in a fresh child of root rather than
// the call site's local scope, since a Builtin's signature (spec.md §6)
// carries no scope argument the way a user Fun's closure does; this is
// documented as the one place `eval` sees globals only, not locals.
func builtinEval(e *eval.Evaluator, root *scope.Scope) func(src object.Value) (object.Value, error) {
	return func(src object.Value) (object.Value, error) {
		s, ok := src.(*object.Str)
		if !ok {
			return nil, &object.OpError{Op: "eval", Left: src.Type()}
		}
		head, err := lexer.Tokenize(s.Value, "<eval>")
		if err != nil {
			return nil, &object.IoError{Path: "<eval>", Reason: err}
		}
		block, err := parser.New(head, "<eval>").ParseProgram()
		if err != nil {
			return nil, &object.IoError{Path: "<eval>", Reason: err}
		}
		return e.Eval(block, root.Child())
	}
}

// builtinPrintf answers predef_printf: a format string plus an Array of
// arguments (nm has no native varargs at a builtin's call site, since
// multi-argument calls already desugar to curried single-argument calls
// before a Builtin ever sees them, so the variadic argument list predef.c
// receives as a C `va_list` is gathered into one Array by the caller
// instead, e.g. printf("n=%i", [n])). Directives: %i (Int), %f (Real),
// %s (Str), %a (any value's String()), %% (literal percent). Argument
// count and type are checked strictly, the same strictness predef_printf
// enforces against its typemask.
func builtinPrintf(e *eval.Evaluator) func(format, args object.Value) (object.Value, error) {
	return func(format, args object.Value) (object.Value, error) {
		fs, ok := format.(*object.Str)
		if !ok {
			return nil, &object.OpError{Op: "printf", Left: format.Type(), Right: args.Type()}
		}
		arr, ok := args.(*object.Array)
		if !ok {
			return nil, &object.OpError{Op: "printf", Left: format.Type(), Right: args.Type()}
		}

		var out strings.Builder
		argi := 0
		next := func() (object.Value, error) {
			if argi >= len(arr.Elements) {
				return nil, fmt.Errorf("printf: too few arguments for format %q", fs.Value)
			}
			v := arr.Elements[argi]
			argi++
			return v, nil
		}

		runes := []rune(fs.Value)
		for i := 0; i < len(runes); i++ {
			c := runes[i]
			if c != '%' || i+1 >= len(runes) {
				out.WriteRune(c)
				continue
			}
			i++
			switch runes[i] {
			case '%':
				out.WriteByte('%')
			case 'i':
				v, err := next()
				if err != nil {
					return nil, err
				}
				n, ok := v.(*object.Int)
				if !ok {
					return nil, &object.OpError{Op: "printf %i", Left: v.Type()}
				}
				out.WriteString(n.String())
			case 'f':
				v, err := next()
				if err != nil {
					return nil, err
				}
				r, ok := v.(*object.Real)
				if !ok {
					return nil, &object.OpError{Op: "printf %f", Left: v.Type()}
				}
				out.WriteString(r.String())
			case 's':
				v, err := next()
				if err != nil {
					return nil, err
				}
				s, ok := v.(*object.Str)
				if !ok {
					return nil, &object.OpError{Op: "printf %s", Left: v.Type()}
				}
				out.WriteString(s.Value)
			case 'a':
				v, err := next()
				if err != nil {
					return nil, err
				}
				out.WriteString(v.String())
			default:
				return nil, fmt.Errorf("printf: unknown format directive %%%c", runes[i])
			}
		}
		if argi != len(arr.Elements) {
			return nil, fmt.Errorf("printf: too many arguments for format %q", fs.Value)
		}
		if _, err := io.WriteString(e.Output, out.String()); err != nil {
			return nil, &object.IoError{Path: "<stdout>", Reason: err}
		}
		return object.NullValue, nil
	}
}
