// Package parser implements the recursive-descent parser.
package parser

import (
	"fmt"
	"strconv"

	"github.com/tomtatosauce21/PROGLANG/pkg/ast"
	"github.com/tomtatosauce21/PROGLANG/pkg/diagnostics"
	"github.com/tomtatosauce21/PROGLANG/pkg/lexer"
	"github.com/tomtatosauce21/PROGLANG/pkg/token"
)

// ParseError wraps a diagnostic for token sequences that do not match the
// grammar.
type ParseError struct {
	Diag diagnostics.Diagnostic
}

func (e *ParseError) Error() string {
	return e.Diag.Message
}

// Diagnostic returns the underlying diagnostic.
func (e *ParseError) Diagnostic() diagnostics.Diagnostic {
	return e.Diag
}

// Limits that keep the recursive descent, and every tree walk after it,
// within the goroutine stack.
const (
	// maxDepth bounds nesting of parentheses, unary operators and blocks.
	maxDepth = 1000
	// maxOperators bounds the binary operators in one statement.
	maxOperators = 100000
)

type parser struct {
	tokens    []token.Token
	pos       int
	err       *ParseError
	depth     int
	operators int
}

// Parse tokenizes source and parses it into a statement list. The returned
// error is a *lexer.LexError or a *ParseError; parsing stops at the first one.
func Parse(source, filename string) ([]ast.Stmt, error) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses an already scanned token stream ending in EOF.
func ParseTokens(tokens []token.Token) ([]ast.Stmt, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		tokens = append(tokens, token.Token{Kind: token.EOF})
	}
	p := &parser{tokens: tokens}
	stmts := p.parseProgram()
	if p.err != nil {
		return nil, p.err
	}
	return stmts, nil
}

func (p *parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *parser) peek() token.Kind {
	return p.current().Kind
}

func (p *parser) advance() token.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// eat consumes the current token if it has the given kind.
func (p *parser) eat(kind token.Kind) (token.Token, bool) {
	tok := p.current()
	if tok.Kind != kind {
		p.addError(fmt.Sprintf("expected %s, got %s", kind.Describe(), describe(tok)), tok.Pos)
		return tok, false
	}
	return p.advance(), true
}

func (p *parser) addError(msg string, pos token.Pos) {
	if p.err != nil {
		return
	}
	p.err = &ParseError{Diag: diagnostics.MakeDiag(diagnostics.EParse, msg, &pos, "")}
}

// enter records one more level of nesting and fails past maxDepth. Every
// successful enter is paired with a leave.
func (p *parser) enter(what string, pos token.Pos) bool {
	if p.depth >= maxDepth {
		p.addError(fmt.Sprintf("%s nested too deeply (max %d)", what, maxDepth), pos)
		return false
	}
	p.depth++
	return true
}

func (p *parser) leave() {
	p.depth--
}

// binary builds a binary node, counting it against maxOperators.
func (p *parser) binary(op token.Token, left, right ast.Expr) ast.Expr {
	p.operators++
	if p.operators > maxOperators {
		p.addError(fmt.Sprintf("expression too long (max %d operators)", maxOperators), op.Pos)
		return nil
	}
	return &ast.BinaryExpr{Pos: op.Pos, Op: op.Kind, Left: left, Right: right}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.Identifier:
		return fmt.Sprintf("identifier '%s'", tok.Text)
	case token.Number:
		return fmt.Sprintf("number %s", tok.Text)
	}
	return tok.Kind.Describe()
}

// --- Program ---

func (p *parser) parseProgram() []ast.Stmt {
	var stmts []ast.Stmt
	for p.peek() != token.EOF {
		stmt := p.parseStmt()
		if stmt == nil {
			return nil
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

// --- Statements ---

func (p *parser) parseStmt() ast.Stmt {
	p.operators = 0
	switch p.peek() {
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor()
	case token.Print:
		return p.parsePrint()
	case token.Identifier:
		if s := p.parseAssign(true); s != nil {
			return s
		}
		return nil
	}

	// Bare expression statement: no trailing ';' is consumed.
	start := p.current().Pos
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	return &ast.ExprStmt{Pos: start, Expr: expr}
}

// parseStatements accumulates statements up to the closing '}' of a block,
// which it leaves for the caller to consume.
func (p *parser) parseStatements() ([]ast.Stmt, bool) {
	stmts := []ast.Stmt{}
	for p.peek() != token.RBrace && p.peek() != token.EOF {
		stmt := p.parseStmt()
		if stmt == nil {
			return nil, false
		}
		stmts = append(stmts, stmt)
	}
	return stmts, true
}

func (p *parser) parseBlock() ([]ast.Stmt, bool) {
	open, ok := p.eat(token.LBrace)
	if !ok {
		return nil, false
	}
	if !p.enter("blocks", open.Pos) {
		return nil, false
	}
	defer p.leave()
	body, ok := p.parseStatements()
	if !ok {
		return nil, false
	}
	if _, ok := p.eat(token.RBrace); !ok {
		return nil, false
	}
	return body, true
}

// parseCondition parses '(' expression ')'.
func (p *parser) parseCondition() ast.Expr {
	if _, ok := p.eat(token.LParen); !ok {
		return nil
	}
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	if _, ok := p.eat(token.RParen); !ok {
		return nil
	}
	return cond
}

// parseAssign parses IDENTIFIER '=' expression ';'. With requireSemi false the
// trailing ';' is optional, which is how the update clause of a for-header is
// written.
func (p *parser) parseAssign(requireSemi bool) *ast.AssignStmt {
	name, ok := p.eat(token.Identifier)
	if !ok {
		return nil
	}
	if _, ok := p.eat(token.Equals); !ok {
		return nil
	}
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	if requireSemi || p.peek() == token.Semi {
		if _, ok := p.eat(token.Semi); !ok {
			return nil
		}
	}
	return &ast.AssignStmt{Pos: name.Pos, Name: name.Text, Value: value}
}

func (p *parser) parsePrint() ast.Stmt {
	start := p.advance() // consume 'print'
	expr := p.parseCondition()
	if expr == nil {
		return nil
	}
	if _, ok := p.eat(token.Semi); !ok {
		return nil
	}
	return &ast.PrintStmt{Pos: start.Pos, Expr: expr}
}

func (p *parser) parseIf() ast.Stmt {
	start := p.advance() // consume 'if'
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	then, ok := p.parseBlock()
	if !ok {
		return nil
	}

	var elseBody []ast.Stmt
	if p.peek() == token.Else {
		p.advance()
		elseBody, ok = p.parseBlock()
		if !ok {
			return nil
		}
	}

	return &ast.IfStmt{Pos: start.Pos, Cond: cond, Then: then, Else: elseBody}
}

func (p *parser) parseWhile() ast.Stmt {
	start := p.advance() // consume 'while'
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil
	}
	return &ast.WhileStmt{Pos: start.Pos, Cond: cond, Body: body}
}

func (p *parser) parseFor() ast.Stmt {
	start := p.advance() // consume 'for'
	if _, ok := p.eat(token.LParen); !ok {
		return nil
	}
	init := p.parseAssign(true)
	if init == nil {
		return nil
	}
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	if _, ok := p.eat(token.Semi); !ok {
		return nil
	}
	update := p.parseAssign(false)
	if update == nil {
		return nil
	}
	if _, ok := p.eat(token.RParen); !ok {
		return nil
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil
	}
	return &ast.ForStmt{Pos: start.Pos, Init: init, Cond: cond, Update: update, Body: body}
}

// --- Precedence climbing ---

func (p *parser) parseExpr() ast.Expr {
	return p.parseComparison()
}

func (p *parser) parseComparison() ast.Expr {
	left := p.parseArithmetic()
	if left == nil {
		return nil
	}

	for p.peek().IsComparison() {
		op := p.advance()
		right := p.parseArithmetic()
		if right == nil {
			return nil
		}
		if left = p.binary(op, left, right); left == nil {
			return nil
		}
	}
	return left
}

func (p *parser) parseArithmetic() ast.Expr {
	left := p.parseTerm()
	if left == nil {
		return nil
	}

	for p.peek() == token.Plus || p.peek() == token.Minus {
		op := p.advance()
		right := p.parseTerm()
		if right == nil {
			return nil
		}
		if left = p.binary(op, left, right); left == nil {
			return nil
		}
	}
	return left
}

func (p *parser) parseTerm() ast.Expr {
	left := p.parseFactor()
	if left == nil {
		return nil
	}

	for p.peek() == token.Multiply || p.peek() == token.Divide {
		op := p.advance()
		right := p.parseFactor()
		if right == nil {
			return nil
		}
		if left = p.binary(op, left, right); left == nil {
			return nil
		}
	}
	return left
}

func (p *parser) parseFactor() ast.Expr {
	tok := p.current()
	switch tok.Kind {
	case token.Number:
		p.advance()
		val, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.addError(fmt.Sprintf("invalid number %s", tok.Text), tok.Pos)
			return nil
		}
		return &ast.Number{Pos: tok.Pos, Value: val}

	case token.Identifier:
		p.advance()
		return &ast.Identifier{Pos: tok.Pos, Name: tok.Text}

	case token.LParen:
		// Grouped expression
		p.advance()
		if !p.enter("expression", tok.Pos) {
			return nil
		}
		defer p.leave()
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		if _, ok := p.eat(token.RParen); !ok {
			return nil
		}
		return expr

	case token.Minus, token.Plus:
		p.advance()
		if !p.enter("expression", tok.Pos) {
			return nil
		}
		defer p.leave()
		operand := p.parseFactor()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{Pos: tok.Pos, Op: tok.Kind, Operand: operand}

	default:
		p.addError(fmt.Sprintf("unexpected token %s", describe(tok)), tok.Pos)
		return nil
	}
}
