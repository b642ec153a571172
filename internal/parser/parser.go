// Package parser implements nm's recursive-descent parser: one token of
// lookahead, no speculative node allocation, grammar fragments per
// spec.md §4.3.
//
// Two details extend the literal grammar in spec.md because the node
// taxonomy and end-to-end scenarios in spec.md require them and the given
// BNF fragments are explicitly partial ("Grammar fragments"):
//
//   - postfix is Kleene-starred, not optional, so curried multi-argument
//     calls (`adder(1)(2)`) and bracket indexing (`(a + b)[3]`, spec.md
//     §8 scenario 5) both parse.
//   - a ternary level (`cond ? then : else`) sits between assignment and
//     comparison, since the AST's Ternop variant has no production in
//     the given grammar fragment otherwise.
//
// See DESIGN.md for the full list of such resolved ambiguities.
package parser

import (
	"fmt"

	"github.com/nmlang/nm/internal/ast"
	"github.com/nmlang/nm/internal/token"
)

// SyntaxError is returned for any malformed input; position is always the
// offending symbol's.
type SyntaxError struct {
	Pos     token.Position
	Message string
	Got     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s (got %q)", e.Pos, e.Message, e.Got)
}

// Parser consumes a doubly-linked token.Symbol stream and builds an AST.
// It never backtracks more than one symbol, using Symbol.Prev for the
// rare cases (none in this grammar, kept for parity with spec.md §4.2's
// "lexer preserves every symbol" note) where a caller wants the token
// just consumed.
type Parser struct {
	cur      *token.Symbol
	sourceID string
}

// New wraps the symbol stream produced by lexer.Tokenize.
func New(head *token.Symbol, sourceID string) *Parser {
	return &Parser{cur: head, sourceID: sourceID}
}

func (p *Parser) advance() *token.Symbol {
	prev := p.cur
	if p.cur.Next() != nil {
		p.cur = p.cur.Next()
	}
	return prev
}

func (p *Parser) peekKind(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) accept(k token.Kind) bool {
	if p.cur.Kind == k {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) force(k token.Kind) (*token.Symbol, error) {
	if p.cur.Kind != k {
		return nil, &SyntaxError{Pos: p.cur.Pos, Message: fmt.Sprintf("expected %s", k), Got: p.cur.Literal}
	}
	return p.advance(), nil
}

// ParseProgram parses the entire token stream as a Block of statements,
// the shape `use`-imported files and top-level programs share.
func (p *Parser) ParseProgram() (*ast.Block, error) {
	start := p.cur.Pos
	var stmts []ast.Node
	for !p.peekKind(token.EOF) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return ast.NewBlock(start, stmts), nil
}

func (p *Parser) parseStmt() (ast.Node, error) {
	switch p.cur.Kind {
	case token.SEMI:
		pos := p.advance().Pos
		return ast.NewNop(pos), nil
	case token.LBRACE:
		return p.parseBlock()
	case token.USE:
		return p.parseUse()
	case token.FN:
		if n := p.cur.Next(); n != nil && n.Kind == token.LPAREN {
			return p.parseExprStmt() // anonymous `fn(...)` literal
		}
		return p.parseFuncDecl()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	start, err := p.force(token.LBRACE)
	if err != nil {
		return nil, err
	}
	var stmts []ast.Node
	for !p.peekKind(token.RBRACE) {
		if p.peekKind(token.EOF) {
			return nil, &SyntaxError{Pos: p.cur.Pos, Message: "unterminated block", Got: p.cur.Literal}
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	p.advance() // consume '}'
	return ast.NewBlock(start.Pos, stmts), nil
}

func (p *Parser) parseUse() (ast.Node, error) {
	pos := p.advance().Pos // 'use'
	name, err := p.force(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.force(token.SEMI); err != nil {
		return nil, err
	}
	return ast.NewUse(pos, name.Literal), nil
}

// parseFuncDecl parses `fn NAME ( param_list? ) (block | ';')` and
// desugars it into `my NAME = <curried Fun chain>;`, matching the
// curry-style call convention of spec.md §4.4: a declaration of N named
// parameters becomes N nested single-parameter Fun nodes.
func (p *Parser) parseFuncDecl() (ast.Node, error) {
	pos := p.advance().Pos // 'fn'
	name, err := p.force(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.force(token.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	if !p.peekKind(token.RPAREN) {
		for {
			id, err := p.force(token.IDENT)
			if err != nil {
				return nil, err
			}
			params = append(params, id.Literal)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.force(token.RPAREN); err != nil {
		return nil, err
	}

	var body ast.Node
	if p.peekKind(token.SEMI) {
		// Forward declaration: no body supplied yet.
		p.advance()
		body = ast.NewNop(pos)
	} else {
		body, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	if len(params) == 0 {
		arity := countImplicitParams(body)
		for i := 1; i <= arity; i++ {
			params = append(params, implicitParamName(i))
		}
	}

	fn := buildCurriedFun(pos, params, body)
	return ast.NewDecl(pos, name.Literal, fn), nil
}

// buildCurriedFun wraps body in nested Fun nodes, one per parameter,
// innermost first matching declaration order, so that `fn(a, b) body`
// becomes `fn(a) fn(b) body` and is invoked as `f(a)(b)`.
func buildCurriedFun(pos token.Position, params []string, body ast.Node) ast.Node {
	if len(params) == 0 {
		return ast.NewFun(pos, "", body)
	}
	node := body
	for i := len(params) - 1; i >= 0; i-- {
		node = ast.NewFun(pos, params[i], node)
	}
	return node
}

func (p *Parser) parseIfStmt() (ast.Node, error) {
	pos := p.advance().Pos // 'if'
	guard, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var els ast.Node
	if p.accept(token.ELSE) {
		els, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIf(pos, guard, body, els), nil
}

func (p *Parser) parseWhileStmt() (ast.Node, error) {
	pos := p.advance().Pos // 'while'
	guard, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var els ast.Node
	if p.accept(token.ELSE) {
		els, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewWhile(pos, guard, body, els), nil
}

// parseExprStmt handles `expr ';'`, an `expr` ended by the `else` of an
// enclosing if/while (`if n < 2 1 else ...`), and the postfix
// conditional/loop modifiers `expr ('if'|'while') expr ';'`.
func (p *Parser) parseExprStmt() (ast.Node, error) {
	pos := p.cur.Pos
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	switch p.cur.Kind {
	case token.IF:
		p.advance()
		guard, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.force(token.SEMI); err != nil {
			return nil, err
		}
		return ast.NewIf(pos, guard, e, nil), nil
	case token.WHILE:
		p.advance()
		guard, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.force(token.SEMI); err != nil {
			return nil, err
		}
		return ast.NewWhile(pos, guard, e, nil), nil
	}
	if p.peekKind(token.ELSE) {
		return e, nil
	}
	if _, err := p.force(token.SEMI); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) parseExpr() (ast.Node, error) {
	switch p.cur.Kind {
	case token.MY:
		return p.parseDecl()
	case token.PRINT:
		return p.parsePrint()
	default:
		return p.parseAssign()
	}
}

func (p *Parser) parseDecl() (ast.Node, error) {
	pos := p.advance().Pos // 'my'
	name, err := p.force(token.IDENT)
	if err != nil {
		return nil, err
	}
	var init ast.Node
	if p.accept(token.ASSIGN) {
		init, err = p.parseAssign()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewDecl(pos, name.Literal, init), nil
}

// parsePrint parses a comma-separated argument list. A trailing bare `n`
// identifier is a newline flag rather than a value, the core's analogue
// of the built-in descriptor's option_chars flags (spec.md §6).
func (p *Parser) parsePrint() (ast.Node, error) {
	pos := p.advance().Pos // 'print'
	var args []ast.Node
	if !p.atStmtEnd() {
		for {
			a, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	newline := false
	if n := len(args); n > 0 {
		if name, ok := args[n-1].(*ast.Name); ok && name.Ident == "n" {
			args = args[:n-1]
			newline = true
		}
	}
	return ast.NewPrint(pos, args, newline), nil
}

func (p *Parser) atStmtEnd() bool {
	return p.peekKind(token.SEMI) || p.peekKind(token.IF) || p.peekKind(token.WHILE) || p.peekKind(token.EOF)
}

var assignOps = map[token.Kind]bool{
	token.ASSIGN: true, token.PLUS_ASSIGN: true, token.MINUS_ASSIGN: true,
	token.STAR_ASSIGN: true, token.SLASH_ASSIGN: true, token.PERCENT_ASSIGN: true,
}

// parseAssign implements `ternary (ASSIGN_OP assign)*`, right-associative.
// Assignment forms require an lvalue per spec.md §3; that check happens
// in the evaluator (Binop dispatch), not here, so a parse-time syntax
// error never masks a runtime NameError/TypeError distinction.
func (p *Parser) parseAssign() (ast.Node, error) {
	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if assignOps[p.cur.Kind] {
		op := p.advance()
		right, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return ast.NewBinop(op.Pos, op.Literal, left, right), nil
	}
	return left, nil
}

// parseTernary implements `logical ('?' assign ':' ternary)?`.
func (p *Parser) parseTernary() (ast.Node, error) {
	cond, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	if p.accept(token.QUESTION) {
		then, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		if _, err := p.force(token.COLON); err != nil {
			return nil, err
		}
		els, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return ast.NewTernop(cond.Pos(), cond, then, els), nil
	}
	return cond, nil
}

var wordCmp = map[string]string{"eq": "eq", "ne": "ne", "gt": "gt", "lt": "lt", "ge": "ge", "le": "le"}

var symbolCmp = map[token.Kind]bool{
	token.EQ: true, token.NOT_EQ: true, token.LESS: true, token.GREATER: true,
	token.LESS_EQ: true, token.GREATER_EQ: true,
}

// parseCond implements `add (CMP_OP add)*`, including the word-spelled
// stringwise comparators (eq ne gt lt ge le) from spec.md §3, recognized
// by literal spelling on an otherwise ordinary identifier token so `eq`
// remains usable as a variable name everywhere else.
func (p *Parser) parseCond() (ast.Node, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for {
		if symbolCmp[p.cur.Kind] {
			op := p.advance()
			right, err := p.parseAdd()
			if err != nil {
				return nil, err
			}
			left = ast.NewBinop(op.Pos, op.Literal, left, right)
			continue
		}
		if p.cur.Kind == token.IDENT {
			if opName, ok := wordCmp[p.cur.Literal]; ok {
				op := p.advance()
				right, err := p.parseAdd()
				if err != nil {
					return nil, err
				}
				left = ast.NewBinop(op.Pos, opName, left, right)
				continue
			}
		}
		break
	}
	return left, nil
}

// parseLogical implements `cond (('&&'|'||') cond)*`, giving `&&`/`||`
// their own precedence level below comparisons and above the ternary,
// since the grammar fragment in spec.md §4.3 never gives them a level of
// their own despite listing them among the binary operators in §3.
func (p *Parser) parseLogical() (ast.Node, error) {
	left, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.AND_AND || p.cur.Kind == token.OR_OR {
		op := p.advance()
		right, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinop(op.Pos, op.Literal, left, right)
	}
	return left, nil
}

func (p *Parser) parseAdd() (ast.Node, error) {
	left, err := p.parseMult()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.PLUS || p.cur.Kind == token.MINUS {
		op := p.advance()
		right, err := p.parseMult()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinop(op.Pos, op.Literal, left, right)
	}
	return left, nil
}

func (p *Parser) parseMult() (ast.Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.STAR || p.cur.Kind == token.SLASH || p.cur.Kind == token.PERCENT {
		op := p.advance()
		right, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinop(op.Pos, op.Literal, left, right)
	}
	return left, nil
}

func (p *Parser) parsePrefix() (ast.Node, error) {
	switch p.cur.Kind {
	case token.PLUS, token.MINUS, token.BANG:
		op := p.advance()
		child, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return ast.NewUnop(op.Pos, op.Literal, child, false), nil
	case token.INC, token.DEC:
		op := p.advance()
		child, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return ast.NewUnop(op.Pos, op.Literal, child, false), nil
	default:
		return p.parsePostfix()
	}
}

// parsePostfix implements `primary (CALL | INDEX | '++' | '--')*`. The
// Kleene star (see package doc) lets curried calls and chained indexing
// both parse.
func (p *Parser) parsePostfix() (ast.Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case token.LPAREN:
			node, err = p.parseCallArgs(node)
			if err != nil {
				return nil, err
			}
		case token.LBRACK:
			pos := p.advance().Pos
			idx, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			if _, err := p.force(token.RBRACK); err != nil {
				return nil, err
			}
			node = ast.NewIndex(pos, node, idx)
		case token.INC, token.DEC:
			op := p.advance()
			node = ast.NewUnop(op.Pos, op.Literal, node, true)
		default:
			return node, nil
		}
	}
}

// parseCallArgs parses `'(' params? ')'` and desugars any N-argument
// call into N nested single-argument Call nodes (spec.md §4.4); a
// zero-argument call supplies Nop as the curry-style unit argument.
func (p *Parser) parseCallArgs(callee ast.Node) (ast.Node, error) {
	pos := p.advance().Pos // '('
	var args []ast.Node
	if !p.peekKind(token.RPAREN) {
		for {
			a, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.force(token.RPAREN); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return ast.NewCall(pos, callee, ast.NewNop(pos)), nil
	}
	node := callee
	for _, a := range args {
		node = ast.NewCall(pos, node, a)
	}
	return node, nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	switch p.cur.Kind {
	case token.INT:
		t := p.advance()
		return ast.NewInt(t.Pos, t.IntVal), nil
	case token.REAL:
		t := p.advance()
		return ast.NewReal(t.Pos, t.RealVal), nil
	case token.STRING:
		t := p.advance()
		return ast.NewStr(t.Pos, t.Literal), nil
	case token.CHAR:
		t := p.advance()
		return ast.NewChar(t.Pos, rune(t.IntVal)), nil
	case token.IDENT:
		t := p.advance()
		return ast.NewName(t.Pos, t.Literal), nil
	case token.LPAREN:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.force(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case token.LBRACK:
		return p.parseTuple()
	case token.FN:
		return p.parseFuncLiteral()
	case token.PERCENT:
		return p.parseImplicitParam()
	case token.RETURN:
		pos := p.advance().Pos
		if p.atStmtEnd() {
			return ast.NewReturn(pos, nil), nil
		}
		v, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return ast.NewReturn(pos, v), nil
	default:
		return nil, &SyntaxError{Pos: p.cur.Pos, Message: "unexpected token in expression", Got: p.cur.Literal}
	}
}

func (p *Parser) parseTuple() (ast.Node, error) {
	pos := p.advance().Pos // '['
	var elems []ast.Node
	if !p.peekKind(token.RBRACK) {
		for {
			e, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.force(token.RBRACK); err != nil {
		return nil, err
	}
	return ast.NewTuple(pos, elems), nil
}

// parseFuncLiteral parses the expression-position forms
// `'fn' '(' (NAME (',' NAME)*)? ')' (block | assign)` and
// `'fn' '(' assign ')'`; in the second form the parenthesized expression
// is the body and its `%N` references are the parameters.
func (p *Parser) parseFuncLiteral() (ast.Node, error) {
	pos := p.advance().Pos // 'fn'
	if _, err := p.force(token.LPAREN); err != nil {
		return nil, err
	}
	if next := p.cur.Next(); !p.peekKind(token.RPAREN) &&
		!(p.peekKind(token.IDENT) && next != nil && (next.Kind == token.COMMA || next.Kind == token.RPAREN)) {
		body, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		if _, err := p.force(token.RPAREN); err != nil {
			return nil, err
		}
		var params []string
		for i := 1; i <= countImplicitParams(body); i++ {
			params = append(params, implicitParamName(i))
		}
		return buildCurriedFun(pos, params, body), nil
	}
	var params []string
	if !p.peekKind(token.RPAREN) {
		for {
			id, err := p.force(token.IDENT)
			if err != nil {
				return nil, err
			}
			params = append(params, id.Literal)
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.force(token.RPAREN); err != nil {
		return nil, err
	}

	var body ast.Node
	var err error
	if p.peekKind(token.LBRACE) {
		body, err = p.parseBlock()
	} else {
		body, err = p.parseAssign()
	}
	if err != nil {
		return nil, err
	}

	if len(params) == 0 {
		arity := countImplicitParams(body)
		for i := 1; i <= arity; i++ {
			params = append(params, implicitParamName(i))
		}
	}
	return buildCurriedFun(pos, params, body), nil
}

func (p *Parser) parseImplicitParam() (ast.Node, error) {
	pos := p.advance().Pos // '%'
	n, err := p.force(token.INT)
	if err != nil {
		return nil, &SyntaxError{Pos: pos, Message: "expected implicit parameter index after '%'", Got: p.cur.Literal}
	}
	return ast.NewName(pos, implicitParamName(int(n.IntVal))), nil
}
