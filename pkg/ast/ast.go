// Package ast defines the AST node types.
//
// The node set is closed: Expr and Stmt carry unexported marker methods, so
// only this package can add variants. Operations over the tree implement
// ExprVisitor and StmtVisitor, which makes the compiler report any visitor
// that does not handle a node kind.
package ast

import "github.com/tomtatosauce21/PROGLANG/pkg/token"

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	NodePos() token.Pos
}

// --- Expr is the interface for all expression nodes ---

type Expr interface {
	Node
	acceptExpr(d exprDispatch)
}

// --- Stmt is the interface for all statement nodes ---

type Stmt interface {
	Node
	acceptStmt(d stmtDispatch)
}

// --- Leaves ---

type Number struct {
	Pos   token.Pos
	Value int64
}

func (n *Number) Kind() string               { return "Number" }
func (n *Number) NodePos() token.Pos         { return n.Pos }
func (n *Number) acceptExpr(d exprDispatch) { d.number(n) }

type Identifier struct {
	Pos  token.Pos
	Name string
}

func (n *Identifier) Kind() string               { return "Identifier" }
func (n *Identifier) NodePos() token.Pos         { return n.Pos }
func (n *Identifier) acceptExpr(d exprDispatch) { d.identifier(n) }

// --- Operators ---

// UnaryExpr is a prefix '-' or '+'. Op is the originating token kind.
type UnaryExpr struct {
	Pos     token.Pos
	Op      token.Kind
	Operand Expr
}

func (n *UnaryExpr) Kind() string               { return "UnaryOp" }
func (n *UnaryExpr) NodePos() token.Pos         { return n.Pos }
func (n *UnaryExpr) acceptExpr(d exprDispatch) { d.unary(n) }

// BinaryExpr is an arithmetic or comparison operation. Op is the originating
// token kind.
type BinaryExpr struct {
	Pos   token.Pos
	Op    token.Kind
	Left  Expr
	Right Expr
}

func (n *BinaryExpr) Kind() string               { return "BinaryOp" }
func (n *BinaryExpr) NodePos() token.Pos         { return n.Pos }
func (n *BinaryExpr) acceptExpr(d exprDispatch) { d.binary(n) }

// --- Simple statements ---

type AssignStmt struct {
	Pos   token.Pos
	Name  string
	Value Expr
}

func (n *AssignStmt) Kind() string               { return "Assign" }
func (n *AssignStmt) NodePos() token.Pos         { return n.Pos }
func (n *AssignStmt) acceptStmt(d stmtDispatch) { d.assign(n) }

type PrintStmt struct {
	Pos  token.Pos
	Expr Expr
}

func (n *PrintStmt) Kind() string               { return "Print" }
func (n *PrintStmt) NodePos() token.Pos         { return n.Pos }
func (n *PrintStmt) acceptStmt(d stmtDispatch) { d.print(n) }

// ExprStmt is a bare expression evaluated for its value, which is discarded.
type ExprStmt struct {
	Pos  token.Pos
	Expr Expr
}

func (n *ExprStmt) Kind() string               { return "ExprStmt" }
func (n *ExprStmt) NodePos() token.Pos         { return n.Pos }
func (n *ExprStmt) acceptStmt(d stmtDispatch) { d.expr(n) }

// --- Control statements ---

// IfStmt has a nil Else when no else-block was written.
type IfStmt struct {
	Pos  token.Pos
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (n *IfStmt) Kind() string               { return "If" }
func (n *IfStmt) NodePos() token.Pos         { return n.Pos }
func (n *IfStmt) acceptStmt(d stmtDispatch) { d.ifStmt(n) }

type WhileStmt struct {
	Pos  token.Pos
	Cond Expr
	Body []Stmt
}

func (n *WhileStmt) Kind() string               { return "While" }
func (n *WhileStmt) NodePos() token.Pos         { return n.Pos }
func (n *WhileStmt) acceptStmt(d stmtDispatch) { d.while(n) }

type ForStmt struct {
	Pos    token.Pos
	Init   *AssignStmt
	Cond   Expr
	Update *AssignStmt
	Body   []Stmt
}

func (n *ForStmt) Kind() string               { return "For" }
func (n *ForStmt) NodePos() token.Pos         { return n.Pos }
func (n *ForStmt) acceptStmt(d stmtDispatch) { d.forStmt(n) }
