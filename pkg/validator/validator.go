// Package validator implements static checks over a parsed program.
//
// The checks are conservative: a diagnostic means the program is certain to
// fail when the flagged code runs, never that it merely might.
package validator

import (
	"fmt"

	"github.com/tomtatosauce21/PROGLANG/pkg/ast"
	"github.com/tomtatosauce21/PROGLANG/pkg/diagnostics"
	"github.com/tomtatosauce21/PROGLANG/pkg/token"
)

type scope struct {
	bindings map[string]bool
	known    func(name string) bool
}

func newScope(known func(string) bool) *scope {
	return &scope{bindings: make(map[string]bool), known: known}
}

func (s *scope) has(name string) bool {
	if s.bindings[name] {
		return true
	}
	return s.known != nil && s.known(name)
}

func (s *scope) add(name string) {
	s.bindings[name] = true
}

type validator struct {
	diags []diagnostics.Diagnostic
	scope *scope
}

// Validate checks stmts and returns diagnostics in source order. known
// reports names already bound before the program runs, such as variables of
// an ongoing session; it may be nil.
func Validate(stmts []ast.Stmt, known func(name string) bool) []diagnostics.Diagnostic {
	v := &validator{scope: newScope(known)}
	v.validateBlock(stmts)
	return v.diags
}

func (v *validator) addDiag(code, msg string, pos token.Pos, hint string) {
	v.diags = append(v.diags, diagnostics.MakeDiag(code, msg, &pos, hint))
}

func (v *validator) validateBlock(stmts []ast.Stmt) {
	for _, s := range stmts {
		_ = ast.VisitStmt(s, v)
	}
}

// --- Statements ---

func (v *validator) VisitAssign(s *ast.AssignStmt) error {
	v.validateExpr(s.Value)
	v.scope.add(s.Name)
	return nil
}

func (v *validator) VisitPrint(s *ast.PrintStmt) error {
	v.validateExpr(s.Expr)
	return nil
}

func (v *validator) VisitExprStmt(s *ast.ExprStmt) error {
	v.validateExpr(s.Expr)
	return nil
}

// VisitIf treats an assignment in either branch as binding the name from
// then on.
func (v *validator) VisitIf(s *ast.IfStmt) error {
	v.validateExpr(s.Cond)
	v.validateBlock(s.Then)
	v.validateBlock(s.Else)
	return nil
}

// VisitWhile checks the condition first, as its first evaluation sees only
// what came before the loop. Everything the body assigns is then bound before
// checking the body, since a later iteration sees the effects of an earlier one.
func (v *validator) VisitWhile(s *ast.WhileStmt) error {
	v.validateExpr(s.Cond)
	v.bindAll(s.Body)
	v.validateBlock(s.Body)
	return nil
}

// VisitFor follows the order of the first iteration: init, condition, body,
// then the update value before the update binds its name.
func (v *validator) VisitFor(s *ast.ForStmt) error {
	_ = v.VisitAssign(s.Init)
	v.validateExpr(s.Cond)
	v.bindAll(s.Body)
	v.validateBlock(s.Body)
	_ = v.VisitAssign(s.Update)
	return nil
}

func (v *validator) bindAll(stmts []ast.Stmt) {
	c := &assignCollector{names: v.scope.bindings}
	for _, s := range stmts {
		_ = ast.VisitStmt(s, c)
	}
}

// assignCollector records every name assigned anywhere in a statement tree.
type assignCollector struct {
	names map[string]bool
}

func (c *assignCollector) block(stmts []ast.Stmt) {
	for _, s := range stmts {
		_ = ast.VisitStmt(s, c)
	}
}

func (c *assignCollector) VisitAssign(s *ast.AssignStmt) error { c.names[s.Name] = true; return nil }
func (c *assignCollector) VisitPrint(*ast.PrintStmt) error     { return nil }
func (c *assignCollector) VisitExprStmt(*ast.ExprStmt) error   { return nil }

func (c *assignCollector) VisitIf(s *ast.IfStmt) error {
	c.block(s.Then)
	c.block(s.Else)
	return nil
}

func (c *assignCollector) VisitWhile(s *ast.WhileStmt) error {
	c.block(s.Body)
	return nil
}

func (c *assignCollector) VisitFor(s *ast.ForStmt) error {
	c.names[s.Init.Name] = true
	c.names[s.Update.Name] = true
	c.block(s.Body)
	return nil
}

// --- Expressions ---

type exprChecker struct {
	v *validator
}

func (v *validator) validateExpr(e ast.Expr) {
	_, _ = ast.VisitExpr[struct{}](e, exprChecker{v: v})
}

func (x exprChecker) VisitNumber(*ast.Number) (struct{}, error) {
	return struct{}{}, nil
}

func (x exprChecker) VisitIdentifier(n *ast.Identifier) (struct{}, error) {
	if !x.v.scope.has(n.Name) {
		x.v.addDiag(diagnostics.EUnbound,
			fmt.Sprintf("variable '%s' is read before it is ever assigned", n.Name),
			n.Pos, fmt.Sprintf("assign %s before this statement", n.Name))
		// Report each name once.
		x.v.scope.add(n.Name)
	}
	return struct{}{}, nil
}

func (x exprChecker) VisitUnary(n *ast.UnaryExpr) (struct{}, error) {
	x.v.validateExpr(n.Operand)
	return struct{}{}, nil
}

func (x exprChecker) VisitBinary(n *ast.BinaryExpr) (struct{}, error) {
	x.v.validateExpr(n.Left)
	x.v.validateExpr(n.Right)
	if n.Op == token.Divide && isConstZero(n.Right) {
		x.v.addDiag(diagnostics.EDivZero, "division by constant zero", n.Pos, "")
	}
	return struct{}{}, nil
}

// isConstZero reports whether e is a literal 0, possibly signed.
func isConstZero(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.Number:
		return n.Value == 0
	case *ast.UnaryExpr:
		return isConstZero(n.Operand)
	}
	return false
}
