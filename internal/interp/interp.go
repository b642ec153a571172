// Package interp wires the lexer, parser, and evaluator together into a
// single entry point for running one source file or REPL line, and
// implements the `use` module loader the evaluator depends on through an
// interface (spec.md §4.3's file-resolution and reentry-guard rules).
package interp

import (
	"os"
	"path/filepath"

	"github.com/nmlang/nm/internal/ast"
	"github.com/nmlang/nm/internal/eval"
	"github.com/nmlang/nm/internal/lexer"
	"github.com/nmlang/nm/internal/nmerr"
	"github.com/nmlang/nm/internal/object"
	"github.com/nmlang/nm/internal/parser"
	"github.com/nmlang/nm/internal/scope"
	"github.com/nmlang/nm/internal/token"
)

// Interpreter owns one program's worth of state: the root scope, the
// evaluator (and its arena and `use` bookkeeping), and the search path
// `use` resolves module names against.
type Interpreter struct {
	Root      *scope.Scope
	Eval      *eval.Evaluator
	SearchDir string

	imported map[string]bool
}

// New returns an Interpreter that resolves `use NAME;` to
// searchDir/NAME.nm. searchDir may be "" to disable `use` resolution
// outside the current working directory.
func New(searchDir string) *Interpreter {
	it := &Interpreter{
		Root:      scope.New(),
		SearchDir: searchDir,
		imported:  map[string]bool{},
	}
	it.Eval = eval.New(it)
	return it
}

// Load implements eval.ModuleLoader: it resolves name to
// SearchDir/name.nm, tokenizes and parses it, and remembers that name
// was imported so a second `use name;` inlines nothing (spec.md §4.3's
// reentry-to-Nop rule).
func (it *Interpreter) Load(name string) (*ast.Block, bool, error) {
	if it.imported[name] {
		return nil, true, nil
	}
	path := filepath.Join(it.SearchDir, name+".nm")
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	head, err := lexer.Tokenize(string(src), path)
	if err != nil {
		return nil, false, err
	}
	p := parser.New(head, path)
	block, err := p.ParseProgram()
	if err != nil {
		return nil, false, err
	}
	it.imported[name] = true
	return block, false, nil
}

// RunSource tokenizes, parses, and evaluates source as a whole program in
// the interpreter's root scope, returning the last statement's value.
func (it *Interpreter) RunSource(source, sourceID string) (object.Value, error) {
	head, err := lexer.Tokenize(source, sourceID)
	if err != nil {
		return nil, nmerr.New(nmerr.LexError, lexErrPos(err, sourceID), source, "%v", err)
	}
	p := parser.New(head, sourceID)
	block, err := p.ParseProgram()
	if err != nil {
		return nil, nmerr.New(nmerr.SyntaxError, syntaxErrPos(err, sourceID), source, "%v", err)
	}
	it.Eval.Source = source
	it.Eval.SourceID = sourceID
	return it.Eval.Eval(block, it.Root)
}

// RunFile reads path off disk and runs it with SearchDir defaulted to
// path's directory when the Interpreter was constructed with an empty
// one, matching the CLI's `nm run file.nm` convenience.
func (it *Interpreter) RunFile(path string) (object.Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if it.SearchDir == "" {
		it.SearchDir = filepath.Dir(path)
	}
	return it.RunSource(string(src), path)
}

// Close releases every file handle opened during the run, via the
// evaluator's arena.
func (it *Interpreter) Close() error {
	return it.Eval.Arena.Release()
}

func lexErrPos(err error, sourceID string) token.Position {
	if le, ok := err.(*lexer.LexError); ok {
		return token.Position{Line: le.Line, Column: le.Col, SourceID: sourceID}
	}
	return token.Position{SourceID: sourceID}
}

func syntaxErrPos(err error, sourceID string) token.Position {
	if se, ok := err.(*parser.SyntaxError); ok {
		return se.Pos
	}
	return token.Position{SourceID: sourceID}
}
