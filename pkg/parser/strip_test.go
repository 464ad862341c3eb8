package parser_test

import "github.com/tomtatosauce21/PROGLANG/pkg/ast"

// stripper rebuilds a tree with zero positions so tests can compare shapes.
type stripper struct {
	out ast.Stmt
}

func (s *stripper) VisitNumber(n *ast.Number) (ast.Expr, error) {
	return &ast.Number{Value: n.Value}, nil
}

func (s *stripper) VisitIdentifier(n *ast.Identifier) (ast.Expr, error) {
	return &ast.Identifier{Name: n.Name}, nil
}

func (s *stripper) VisitUnary(n *ast.UnaryExpr) (ast.Expr, error) {
	return &ast.UnaryExpr{Op: n.Op, Operand: stripExpr(n.Operand)}, nil
}

func (s *stripper) VisitBinary(n *ast.BinaryExpr) (ast.Expr, error) {
	return &ast.BinaryExpr{Op: n.Op, Left: stripExpr(n.Left), Right: stripExpr(n.Right)}, nil
}

func (s *stripper) VisitAssign(n *ast.AssignStmt) error {
	s.out = stripAssign(n)
	return nil
}

func (s *stripper) VisitPrint(n *ast.PrintStmt) error {
	s.out = &ast.PrintStmt{Expr: stripExpr(n.Expr)}
	return nil
}

func (s *stripper) VisitExprStmt(n *ast.ExprStmt) error {
	s.out = &ast.ExprStmt{Expr: stripExpr(n.Expr)}
	return nil
}

func (s *stripper) VisitIf(n *ast.IfStmt) error {
	s.out = &ast.IfStmt{Cond: stripExpr(n.Cond), Then: stripAll(n.Then), Else: stripAll(n.Else)}
	return nil
}

func (s *stripper) VisitWhile(n *ast.WhileStmt) error {
	s.out = &ast.WhileStmt{Cond: stripExpr(n.Cond), Body: stripAll(n.Body)}
	return nil
}

func (s *stripper) VisitFor(n *ast.ForStmt) error {
	s.out = &ast.ForStmt{
		Init:   stripAssign(n.Init),
		Cond:   stripExpr(n.Cond),
		Update: stripAssign(n.Update),
		Body:   stripAll(n.Body),
	}
	return nil
}

func stripAssign(n *ast.AssignStmt) *ast.AssignStmt {
	return &ast.AssignStmt{Name: n.Name, Value: stripExpr(n.Value)}
}

func stripExpr(e ast.Expr) ast.Expr {
	out, _ := ast.VisitExpr[ast.Expr](e, &stripper{})
	return out
}

func stripAll(stmts []ast.Stmt) []ast.Stmt {
	if stmts == nil {
		return nil
	}
	out := make([]ast.Stmt, len(stmts))
	for i, st := range stmts {
		s := &stripper{}
		_ = ast.VisitStmt(st, s)
		out[i] = s.out
	}
	return out
}
