// Package nm is the public API for embedding the interpreter: parsing
// source into an AST, evaluating it, running type inference over it, and
// registering host (Go) functions as callable builtins.
package nm

import (
	"os"

	"github.com/google/uuid"

	"github.com/nmlang/nm/internal/ast"
	"github.com/nmlang/nm/internal/eval"
	"github.com/nmlang/nm/internal/infer"
	"github.com/nmlang/nm/internal/interp"
	"github.com/nmlang/nm/internal/lexer"
	"github.com/nmlang/nm/internal/object"
	"github.com/nmlang/nm/internal/parser"
	"github.com/nmlang/nm/internal/scope"
	"github.com/nmlang/nm/internal/types"
)

// ParseFile reads and parses path, returning its AST without evaluating
// it.
func ParseFile(path string) (*ast.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseString(string(data), path)
}

// ParseString parses source text under the given source identifier
// (used only for diagnostics and as the lexer's per-symbol SourceID).
func ParseString(source, sourceID string) (*ast.Block, error) {
	head, err := lexer.Tokenize(source, sourceID)
	if err != nil {
		return nil, err
	}
	return parser.New(head, sourceID).ParseProgram()
}

// NewSession starts a fresh interpreter rooted at searchDir for `use`
// resolution, the type most embedders want: one REPL, one script run, or
// one long-lived host integration. The standard library (len, str, open,
// close, assert, eval, printf, ...) is registered into its root scope
// before it is returned, so a script run through the result immediately
// sees every name DefaultBuiltins declares.
func NewSession(searchDir string) *interp.Interpreter {
	it := interp.New(searchDir)
	if err := RegisterBuiltins(it.Root, DefaultBuiltins(it.Eval, it.Root)); err != nil {
		panic(err)
	}
	return it
}

// NewAnonymousSourceID returns a source identifier suitable for
// evaluating a string that did not come from a file, such as one REPL
// line; each call returns a distinct id so diagnostics from successive
// REPL lines never collide.
func NewAnonymousSourceID() string {
	return "<repl:" + uuid.NewString() + ">"
}

// EvalBlock evaluates block in sc using a throwaway Evaluator with no
// `use` support, for callers that already have a parsed AST (e.g. after
// calling Infer) and want to run it directly.
func EvalBlock(block *ast.Block, sc *scope.Scope) (object.Value, error) {
	e := eval.New(nil)
	return e.Eval(block, sc)
}

// Infer runs Hindley-Milner inference over block, annotating every node's
// cached type as a side effect. The returned error is the first
// unification failure encountered; per spec.md §7 this is always
// non-fatal to evaluation, since Infer and EvalBlock are independent
// passes over the same AST.
func Infer(block *ast.Block) (types.Type, error) {
	ctx := infer.NewContext()
	return infer.Infer(block, ctx)
}
