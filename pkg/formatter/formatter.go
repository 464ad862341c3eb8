// Package formatter pretty-prints a parsed program back to canonical source.
package formatter

import (
	"strconv"
	"strings"

	"github.com/tomtatosauce21/PROGLANG/pkg/ast"
	"github.com/tomtatosauce21/PROGLANG/pkg/token"
)

const indent = "  "

// Precedence table for binary operators (higher = tighter binding)
var precedence = map[token.Kind]int{
	token.Eq: 1, token.Ne: 1, token.Lt: 1, token.Gt: 1, token.Le: 1, token.Ge: 1,
	token.Plus: 2, token.Minus: 2,
	token.Multiply: 3, token.Divide: 3,
}

func needsParens(child ast.Expr, parentOp token.Kind, isRight bool) bool {
	bin, ok := child.(*ast.BinaryExpr)
	if !ok {
		return false
	}
	childPrec := precedence[bin.Op]
	parentPrec := precedence[parentOp]
	if childPrec < parentPrec {
		return true
	}
	// Every operator is left-associative, so an equal-precedence right
	// operand was grouped explicitly.
	return childPrec == parentPrec && isRight
}

// Format pretty-prints a statement list. Keywords come out lower-case, blocks
// are indented two spaces, and the result parses back to the same tree.
func Format(stmts []ast.Stmt) string {
	f := &stmtFormatter{}
	for _, s := range stmts {
		f.stmt(s)
	}
	return f.b.String()
}

// FormatExpr renders a single expression.
func FormatExpr(e ast.Expr) string {
	s, _ := ast.VisitExpr[string](e, exprFormatter{})
	return s
}

// --- Statements ---

type stmtFormatter struct {
	b     strings.Builder
	depth int
}

func (f *stmtFormatter) stmt(s ast.Stmt) {
	_ = ast.VisitStmt(s, f)
}

func (f *stmtFormatter) line(text string) {
	f.b.WriteString(strings.Repeat(indent, f.depth))
	f.b.WriteString(text)
	f.b.WriteByte('\n')
}

// block writes the statements of a braced body; the opening line has
// already been written by the caller.
func (f *stmtFormatter) block(stmts []ast.Stmt) {
	f.depth++
	for _, s := range stmts {
		f.stmt(s)
	}
	f.depth--
}

func assign(s *ast.AssignStmt) string {
	return s.Name + " = " + FormatExpr(s.Value)
}

func (f *stmtFormatter) VisitAssign(s *ast.AssignStmt) error {
	f.line(assign(s) + ";")
	return nil
}

func (f *stmtFormatter) VisitPrint(s *ast.PrintStmt) error {
	f.line("print(" + FormatExpr(s.Expr) + ");")
	return nil
}

// Bare expressions are parenthesized so they cannot read back as an
// assignment or merge into the preceding statement.
func (f *stmtFormatter) VisitExprStmt(s *ast.ExprStmt) error {
	f.line("(" + FormatExpr(s.Expr) + ")")
	return nil
}

func (f *stmtFormatter) VisitIf(s *ast.IfStmt) error {
	f.line("if (" + FormatExpr(s.Cond) + ") {")
	f.block(s.Then)
	if s.Else != nil {
		f.line("} else {")
		f.block(s.Else)
	}
	f.line("}")
	return nil
}

func (f *stmtFormatter) VisitWhile(s *ast.WhileStmt) error {
	f.line("while (" + FormatExpr(s.Cond) + ") {")
	f.block(s.Body)
	f.line("}")
	return nil
}

func (f *stmtFormatter) VisitFor(s *ast.ForStmt) error {
	f.line("for (" + assign(s.Init) + "; " + FormatExpr(s.Cond) + "; " + assign(s.Update) + ") {")
	f.block(s.Body)
	f.line("}")
	return nil
}

// --- Expressions ---

type exprFormatter struct{}

func (exprFormatter) VisitNumber(n *ast.Number) (string, error) {
	return strconv.FormatInt(n.Value, 10), nil
}

func (exprFormatter) VisitIdentifier(n *ast.Identifier) (string, error) {
	return n.Name, nil
}

func (exprFormatter) VisitUnary(n *ast.UnaryExpr) (string, error) {
	operand := FormatExpr(n.Operand)
	if _, isBin := n.Operand.(*ast.BinaryExpr); isBin {
		operand = "(" + operand + ")"
	}
	return n.Op.Symbol() + operand, nil
}

func (exprFormatter) VisitBinary(n *ast.BinaryExpr) (string, error) {
	left := FormatExpr(n.Left)
	right := FormatExpr(n.Right)
	if needsParens(n.Left, n.Op, false) {
		left = "(" + left + ")"
	}
	if needsParens(n.Right, n.Op, true) {
		right = "(" + right + ")"
	}
	return left + " " + n.Op.Symbol() + " " + right, nil
}
