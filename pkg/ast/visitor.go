package ast

// ExprVisitor computes a result of type R for every expression kind.
type ExprVisitor[R any] interface {
	VisitNumber(n *Number) (R, error)
	VisitIdentifier(n *Identifier) (R, error)
	VisitUnary(n *UnaryExpr) (R, error)
	VisitBinary(n *BinaryExpr) (R, error)
}

// StmtVisitor handles every statement kind.
type StmtVisitor interface {
	VisitAssign(n *AssignStmt) error
	VisitPrint(n *PrintStmt) error
	VisitExprStmt(n *ExprStmt) error
	VisitIf(n *IfStmt) error
	VisitWhile(n *WhileStmt) error
	VisitFor(n *ForStmt) error
}

// VisitExpr dispatches e to the matching method of v.
func VisitExpr[R any](e Expr, v ExprVisitor[R]) (R, error) {
	a := &exprAdapter[R]{v: v}
	e.acceptExpr(a)
	return a.result, a.err
}

// VisitStmt dispatches s to the matching method of v.
func VisitStmt(s Stmt, v StmtVisitor) error {
	a := &stmtAdapter{v: v}
	s.acceptStmt(a)
	return a.err
}

// exprDispatch and stmtDispatch are the non-generic halves of the visitors.
// Interface methods cannot take type parameters, so nodes call into these and
// the adapters forward to the typed visitor.
type exprDispatch interface {
	number(n *Number)
	identifier(n *Identifier)
	unary(n *UnaryExpr)
	binary(n *BinaryExpr)
}

type stmtDispatch interface {
	assign(n *AssignStmt)
	print(n *PrintStmt)
	expr(n *ExprStmt)
	ifStmt(n *IfStmt)
	while(n *WhileStmt)
	forStmt(n *ForStmt)
}

type exprAdapter[R any] struct {
	v      ExprVisitor[R]
	result R
	err    error
}

func (a *exprAdapter[R]) number(n *Number)         { a.result, a.err = a.v.VisitNumber(n) }
func (a *exprAdapter[R]) identifier(n *Identifier) { a.result, a.err = a.v.VisitIdentifier(n) }
func (a *exprAdapter[R]) unary(n *UnaryExpr)       { a.result, a.err = a.v.VisitUnary(n) }
func (a *exprAdapter[R]) binary(n *BinaryExpr)     { a.result, a.err = a.v.VisitBinary(n) }

type stmtAdapter struct {
	v   StmtVisitor
	err error
}

func (a *stmtAdapter) assign(n *AssignStmt) { a.err = a.v.VisitAssign(n) }
func (a *stmtAdapter) print(n *PrintStmt)   { a.err = a.v.VisitPrint(n) }
func (a *stmtAdapter) expr(n *ExprStmt)     { a.err = a.v.VisitExprStmt(n) }
func (a *stmtAdapter) ifStmt(n *IfStmt)     { a.err = a.v.VisitIf(n) }
func (a *stmtAdapter) while(n *WhileStmt)   { a.err = a.v.VisitWhile(n) }
func (a *stmtAdapter) forStmt(n *ForStmt)   { a.err = a.v.VisitFor(n) }
