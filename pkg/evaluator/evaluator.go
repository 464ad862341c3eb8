package evaluator

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/tomtatosauce21/PROGLANG/pkg/ast"
	"github.com/tomtatosauce21/PROGLANG/pkg/diagnostics"
	"github.com/tomtatosauce21/PROGLANG/pkg/token"
)

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceRunStart       TraceEventType = "run_start"
	TraceRunEnd         TraceEventType = "run_end"
	TraceStmtStart      TraceEventType = "stmt_start"
	TraceStmtEnd        TraceEventType = "stmt_end"
	TraceAssign         TraceEventType = "assign"
	TraceLoopStart      TraceEventType = "loop_start"
	TraceLoopEnd        TraceEventType = "loop_end"
	TraceBudgetExceeded TraceEventType = "budget_exceeded"
)

// TraceEvent represents a single trace event emitted during execution.
type TraceEvent struct {
	Timestamp string            `json:"ts"`
	RunID     string            `json:"runId"`
	Event     TraceEventType    `json:"event"`
	Pos       *token.Pos        `json:"pos,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

// ExecOptions configures program execution.
type ExecOptions struct {
	// Output receives print statement output. Nil means os.Stdout.
	Output io.Writer
	Trace  func(event TraceEvent)
	RunID  string
	Budget Budget
}

// ExecResult reports what one Execute call consumed.
type ExecResult struct {
	Statements int64
	Iterations int64
}

// RuntimeError represents an error raised while evaluating a parsed program.
type RuntimeError struct {
	Code    string
	Message string
	Pos     *token.Pos
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Diagnostic returns the error as a diagnostic.
func (e *RuntimeError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(e.Code, e.Message, e.Pos, "")
}

func runtimeError(code string, pos token.Pos, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...), Pos: &pos}
}

type evaluator struct {
	ctx     context.Context
	opts    ExecOptions
	out     io.Writer
	env     *Env
	tracker BudgetTracker
}

// Execute runs stmts in order against env. Statements that completed before
// an error keep their effects; the failing statement and everything after it
// do not run.
func Execute(ctx context.Context, stmts []ast.Stmt, env *Env, opts ExecOptions) (*ExecResult, error) {
	ev := &evaluator{
		ctx:  ctx,
		opts: opts,
		out:  opts.Output,
		env:  env,
	}
	if ev.out == nil {
		ev.out = os.Stdout
	}

	ev.emit(TraceRunStart, nil, nil)
	err := ev.executeBlock(stmts)
	ev.emit(TraceRunEnd, nil, nil)

	return &ExecResult{
		Statements: ev.tracker.Statements,
		Iterations: ev.tracker.Iterations,
	}, err
}

// Evaluate computes the value of a single expression against env.
func Evaluate(expr ast.Expr, env *Env) (Value, error) {
	ev := &evaluator{ctx: context.Background(), env: env, out: io.Discard}
	return ev.eval(expr)
}

func (ev *evaluator) emit(event TraceEventType, pos *token.Pos, data map[string]string) {
	if ev.opts.Trace == nil {
		return
	}
	ev.opts.Trace(TraceEvent{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		RunID:     ev.opts.RunID,
		Event:     event,
		Pos:       pos,
		Data:      data,
	})
}

func (ev *evaluator) checkCanceled(pos token.Pos) error {
	if ev.ctx.Err() != nil {
		return runtimeError(diagnostics.ECanceled, pos, "execution canceled")
	}
	return nil
}

func (ev *evaluator) checkIterationBudget(pos token.Pos) error {
	limit := ev.opts.Budget.MaxIterations
	if limit > 0 && ev.tracker.Iterations >= limit {
		ev.emit(TraceBudgetExceeded, &pos, nil)
		return runtimeError(diagnostics.EBudget, pos, "iteration budget exceeded (max %d)", limit)
	}
	return nil
}

func (ev *evaluator) executeBlock(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		pos := stmt.NodePos()
		if err := ev.checkCanceled(pos); err != nil {
			return err
		}
		ev.tracker.Statements++
		ev.emit(TraceStmtStart, &pos, map[string]string{"kind": stmt.Kind()})
		if err := ast.VisitStmt(stmt, ev); err != nil {
			return err
		}
		ev.emit(TraceStmtEnd, &pos, nil)
	}
	return nil
}

// --- Statements ---

func (ev *evaluator) VisitAssign(s *ast.AssignStmt) error {
	val, err := ev.eval(s.Value)
	if err != nil {
		return err
	}
	ev.env.Set(s.Name, val)
	ev.emit(TraceAssign, &s.Pos, map[string]string{"name": s.Name, "value": val.String()})
	return nil
}

func (ev *evaluator) VisitPrint(s *ast.PrintStmt) error {
	val, err := ev.eval(s.Expr)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(ev.out, val.String()); err != nil {
		return errors.Wrap(err, "write output")
	}
	return nil
}

func (ev *evaluator) VisitExprStmt(s *ast.ExprStmt) error {
	_, err := ev.eval(s.Expr)
	return err
}

func (ev *evaluator) VisitIf(s *ast.IfStmt) error {
	cond, err := ev.eval(s.Cond)
	if err != nil {
		return err
	}
	if Truthiness(cond) {
		return ev.executeBlock(s.Then)
	}
	return ev.executeBlock(s.Else)
}

func (ev *evaluator) VisitWhile(s *ast.WhileStmt) error {
	ev.emit(TraceLoopStart, &s.Pos, map[string]string{"kind": "while"})
	for {
		if err := ev.checkCanceled(s.Pos); err != nil {
			return err
		}
		cond, err := ev.eval(s.Cond)
		if err != nil {
			return err
		}
		if !Truthiness(cond) {
			break
		}
		if err := ev.iterate(s.Pos, s.Body); err != nil {
			return err
		}
	}
	ev.emit(TraceLoopEnd, &s.Pos, nil)
	return nil
}

func (ev *evaluator) VisitFor(s *ast.ForStmt) error {
	ev.emit(TraceLoopStart, &s.Pos, map[string]string{"kind": "for"})
	if err := ev.VisitAssign(s.Init); err != nil {
		return err
	}
	for {
		if err := ev.checkCanceled(s.Pos); err != nil {
			return err
		}
		cond, err := ev.eval(s.Cond)
		if err != nil {
			return err
		}
		if !Truthiness(cond) {
			break
		}
		if err := ev.iterate(s.Pos, s.Body); err != nil {
			return err
		}
		if err := ev.VisitAssign(s.Update); err != nil {
			return err
		}
	}
	ev.emit(TraceLoopEnd, &s.Pos, nil)
	return nil
}

// iterate runs one loop body, charging it against the iteration budget.
func (ev *evaluator) iterate(pos token.Pos, body []ast.Stmt) error {
	if err := ev.checkIterationBudget(pos); err != nil {
		return err
	}
	ev.tracker.Iterations++
	return ev.executeBlock(body)
}

// --- Expressions ---

// exprEval adapts the evaluator to ast.ExprVisitor.
type exprEval struct {
	ev *evaluator
}

func (ev *evaluator) eval(expr ast.Expr) (Value, error) {
	return ast.VisitExpr[Value](expr, exprEval{ev: ev})
}

func (x exprEval) VisitNumber(n *ast.Number) (Value, error) {
	return NewInt(n.Value), nil
}

func (x exprEval) VisitIdentifier(n *ast.Identifier) (Value, error) {
	val, ok := x.ev.env.Get(n.Name)
	if !ok {
		return nil, runtimeError(diagnostics.EUndefined, n.Pos, "undefined variable '%s'", n.Name)
	}
	return val, nil
}

func (x exprEval) VisitUnary(n *ast.UnaryExpr) (Value, error) {
	operand, err := x.ev.eval(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.Plus:
		if b, ok := operand.(Bool); ok {
			i, _ := asInt(b)
			return NewInt(i), nil
		}
		return operand, nil
	case token.Minus:
		if f, ok := operand.(Float); ok {
			return NewFloat(-f.Value), nil
		}
		i, _ := asInt(operand)
		if i == math.MinInt64 {
			return nil, runtimeError(diagnostics.EOverflow, n.Pos, "integer overflow in unary '-'")
		}
		return NewInt(-i), nil
	}
	return nil, runtimeError(diagnostics.EUnsupportedOp, n.Pos, "unsupported unary operator %s", n.Op.Describe())
}

func (x exprEval) VisitBinary(n *ast.BinaryExpr) (Value, error) {
	left, err := x.ev.eval(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := x.ev.eval(n.Right)
	if err != nil {
		return nil, err
	}

	switch {
	case n.Op.IsArithmetic():
		return arithmetic(n, left, right)
	case n.Op.IsComparison():
		return NewBool(compare(n.Op, left, right)), nil
	}
	return nil, runtimeError(diagnostics.EUnsupportedOp, n.Pos, "unsupported operator %s", n.Op.Describe())
}

func arithmetic(n *ast.BinaryExpr, left, right Value) (Value, error) {
	if n.Op == token.Divide {
		if isZero(right) {
			return nil, runtimeError(diagnostics.EDivZero, n.Pos, "division by zero")
		}
		return NewFloat(divide(left, right)), nil
	}

	l, lok := asInt(left)
	r, rok := asInt(right)
	if !lok || !rok {
		a, b := asFloat(left), asFloat(right)
		switch n.Op {
		case token.Plus:
			return NewFloat(a + b), nil
		case token.Minus:
			return NewFloat(a - b), nil
		default:
			return NewFloat(a * b), nil
		}
	}

	var (
		res      int64
		overflow bool
	)
	switch n.Op {
	case token.Plus:
		res = l + r
		overflow = (l > 0 && r > 0 && res < 0) || (l < 0 && r < 0 && res >= 0)
	case token.Minus:
		res = l - r
		overflow = (l >= 0 && r < 0 && res < 0) || (l < 0 && r > 0 && res >= 0)
	default:
		res = l * r
		overflow = l != 0 && (res/l != r || (l == -1 && r == math.MinInt64))
	}
	if overflow {
		return nil, runtimeError(diagnostics.EOverflow, n.Pos, "integer overflow in %s", n.Op.Describe())
	}
	return NewInt(res), nil
}

// divide returns left / right rounded once to float64, as with an exact
// quotient. Two integer operands go through big.Rat since float64 cannot hold
// every int64.
func divide(left, right Value) float64 {
	l, lok := asInt(left)
	r, rok := asInt(right)
	if lok && rok {
		q, _ := new(big.Rat).SetFrac(big.NewInt(l), big.NewInt(r)).Float64()
		return q
	}
	return asFloat(left) / asFloat(right)
}

// compare applies a comparison operator. Ints, bools and floats compare by
// exact numeric value; NaN is unordered, so only != holds for it.
func compare(op token.Kind, left, right Value) bool {
	c, ok := order(left, right)
	if !ok {
		return op == token.Ne
	}
	switch op {
	case token.Eq:
		return c == 0
	case token.Ne:
		return c != 0
	case token.Lt:
		return c < 0
	case token.Gt:
		return c > 0
	case token.Le:
		return c <= 0
	case token.Ge:
		return c >= 0
	}
	return false
}

// order returns -1, 0 or +1 as left is less than, equal to or greater than
// right. ok is false when either side is NaN.
func order(left, right Value) (c int, ok bool) {
	l, lok := asInt(left)
	r, rok := asInt(right)
	switch {
	case lok && rok:
		return cmp.Compare(l, r), true
	case lok:
		c, ok = orderFloatInt(asFloat(right), l)
		return -c, ok
	case rok:
		return orderFloatInt(asFloat(left), r)
	}
	a, b := asFloat(left), asFloat(right)
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, false
	}
	return cmp.Compare(a, b), true
}

// orderFloatInt compares without converting i to float64, which would round
// above 2^53.
func orderFloatInt(f float64, i int64) (int, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	return new(big.Float).SetFloat64(f).Cmp(new(big.Float).SetInt64(i)), true
}
