package evaluator_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tomtatosauce21/PROGLANG/pkg/ast"
	"github.com/tomtatosauce21/PROGLANG/pkg/diagnostics"
	"github.com/tomtatosauce21/PROGLANG/pkg/evaluator"
	"github.com/tomtatosauce21/PROGLANG/pkg/parser"
)

// --- helpers ---

// runWith parses and executes source against env, returning printed output.
func runWith(t *testing.T, src string, env *evaluator.Env, opts evaluator.ExecOptions) (string, error) {
	t.Helper()
	stmts, err := parser.Parse(src, "test")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var out bytes.Buffer
	opts.Output = &out
	_, err = evaluator.Execute(context.Background(), stmts, env, opts)
	return out.String(), err
}

// run executes source in a fresh environment.
func run(t *testing.T, src string) (string, *evaluator.Env, error) {
	t.Helper()
	env := evaluator.NewEnv()
	out, err := runWith(t, src, env, evaluator.ExecOptions{})
	return out, env, err
}

// mustRun is like run but also fails on runtime errors.
func mustRun(t *testing.T, src string) (string, *evaluator.Env) {
	t.Helper()
	out, env, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	return out, env
}

func expectOutput(t *testing.T, src, want string) {
	t.Helper()
	out, _ := mustRun(t, src)
	if out != want {
		t.Errorf("output of %q:\ngot:  %q\nwant: %q", src, out, want)
	}
}

func expectVar(t *testing.T, env *evaluator.Env, name, want string) {
	t.Helper()
	val, ok := env.Get(name)
	if !ok {
		t.Fatalf("variable %q not set", name)
	}
	if got := val.String(); got != want {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func expectRuntimeError(t *testing.T, err error, expectedCode string) *evaluator.RuntimeError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected runtime error with code %s, got nil", expectedCode)
	}
	var rtErr *evaluator.RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *RuntimeError, got %T: %v", err, err)
	}
	if rtErr.Code != expectedCode {
		t.Errorf("error code = %q, want %q (message: %s)", rtErr.Code, expectedCode, rtErr.Message)
	}
	return rtErr
}

// --- 1. Printing and arithmetic ---

func TestPrint_Int(t *testing.T) {
	expectOutput(t, `print(42);`, "42\n")
}

func TestArithmetic_Precedence(t *testing.T) {
	expectOutput(t, `x = 5; y = x * 2 + 3; print(y);`, "13\n")
}

func TestArithmetic_ParenGrouping(t *testing.T) {
	expectOutput(t, `print((2 + 3) * 4);`, "20\n")
}

func TestArithmetic_LeftAssociative(t *testing.T) {
	expectOutput(t, `print(10 - 3 - 2);`, "5\n")
	expectOutput(t, `print(8 / 2 / 2);`, "2.0\n")
}

func TestArithmetic_DivisionAlwaysFloat(t *testing.T) {
	expectOutput(t, `print(4 / 2);`, "2.0\n")
	expectOutput(t, `print(10 / 4);`, "2.5\n")
	expectOutput(t, `print(10 / 3);`, "3.3333333333333335\n")
}

func TestArithmetic_DivisionRoundsOnce(t *testing.T) {
	// 2^53 + 1 is not a float64, so converting before dividing gives ...330.5.
	expectOutput(t, `print(9007199254740993 / 3);`, "3002399751580331.0\n")
	expectOutput(t, `print(-9223372036854775807 / 1);`, "-9.223372036854776e+18\n")
}

func TestArithmetic_FloatPropagates(t *testing.T) {
	expectOutput(t, `x = 1 / 2; print(x + 1);`, "1.5\n")
	expectOutput(t, `x = 4 / 2; print(x * 3);`, "6.0\n")
}

func TestArithmetic_Unary(t *testing.T) {
	expectOutput(t, `print(-5 + 2);`, "-3\n")
	expectOutput(t, `print(--5);`, "5\n")
	expectOutput(t, `print(+7);`, "7\n")
	expectOutput(t, `print(-(1 / 2));`, "-0.5\n")
}

func TestArithmetic_BoolAsNumber(t *testing.T) {
	expectOutput(t, `print((1 < 2) + 1);`, "2\n")
	expectOutput(t, `print(-(1 < 2));`, "-1\n")
	expectOutput(t, `print(+(1 > 2));`, "0\n")
}

func TestArithmetic_Overflow(t *testing.T) {
	_, _, err := run(t, `x = 9223372036854775807 + 1;`)
	expectRuntimeError(t, err, diagnostics.EOverflow)

	_, _, err = run(t, `x = 3037000500 * 3037000500;`)
	expectRuntimeError(t, err, diagnostics.EOverflow)
}

// --- 2. Comparisons ---

func TestComparison_Results(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`print(3 > 2);`, "True\n"},
		{`print(3 < 2);`, "False\n"},
		{`print(2 <= 2);`, "True\n"},
		{`print(2 >= 3);`, "False\n"},
		{`print(2 == 2);`, "True\n"},
		{`print(2 != 2);`, "False\n"},
		{`print(4 / 2 == 2);`, "True\n"},
		{`print((1 < 2) == 1);`, "True\n"},
	}
	for _, tt := range tests {
		expectOutput(t, tt.src, tt.want)
	}
}

func TestComparison_IntFloatExact(t *testing.T) {
	// f is 2^53 as a float; the int one above it must not round down to it.
	src := `f = 9007199254740992 / 1;
	print(9007199254740993 > f);
	print(9007199254740993 == f);
	print(f < 9007199254740993);
	print(9007199254740992 == f);`
	expectOutput(t, src, "True\nFalse\nTrue\nTrue\n")
}

func TestComparison_NaNIsUnordered(t *testing.T) {
	src := `f = 2 / 1;
	while (f < f * 2) { f = f * f; }
	n = f - f;
	print(f);
	print(n == n);
	print(n != n);
	print(n < 1);
	print(1 >= n);`
	expectOutput(t, src, "inf\nFalse\nTrue\nFalse\nFalse\n")
}

func TestComparison_LeftAssociative(t *testing.T) {
	// (1 < 2) < 3 compares True (1) with 3.
	expectOutput(t, `print(1 < 2 < 3);`, "True\n")
	// (3 > 2) > 1 compares True (1) with 1.
	expectOutput(t, `print(3 > 2 > 1);`, "False\n")
}

// --- 3. Control flow ---

func TestIf_ThenBranch(t *testing.T) {
	expectOutput(t, `x = 5; if (x > 3) { print(1); } else { print(0); }`, "1\n")
}

func TestIf_ElseBranch(t *testing.T) {
	expectOutput(t, `x = 1; if (x > 3) { print(1); } else { print(0); }`, "0\n")
}

func TestIf_NoElseFalse(t *testing.T) {
	expectOutput(t, `if (0) { print(1); }`, "")
}

func TestIf_ZeroFloatIsFalse(t *testing.T) {
	expectOutput(t, `x = 0 / 5; if (x) { print(1); } else { print(2); }`, "2\n")
}

func TestWhile_Counts(t *testing.T) {
	expectOutput(t, `i = 0; while (i < 3) { print(i); i = i + 1; }`, "0\n1\n2\n")
}

func TestWhile_FalseFromStart(t *testing.T) {
	out, env := mustRun(t, `i = 10; while (i < 3) { i = i + 1; }`)
	if out != "" {
		t.Errorf("unexpected output %q", out)
	}
	expectVar(t, env, "i", "10")
}

func TestFor_Counts(t *testing.T) {
	out, env := mustRun(t, `for (i = 0; i < 3; i = i + 1) { print(i); }`)
	if out != "0\n1\n2\n" {
		t.Errorf("output = %q", out)
	}
	// The loop variable lives in the global namespace after the loop.
	expectVar(t, env, "i", "3")
}

func TestFor_UpdateWithSemicolon(t *testing.T) {
	expectOutput(t, `for (i = 0; i < 2; i = i + 1;) { print(i); }`, "0\n1\n")
}

func TestFor_BodyNeverRuns(t *testing.T) {
	out, env := mustRun(t, `for (i = 5; i < 3; i = i + 1) { print(i); }`)
	if out != "" {
		t.Errorf("unexpected output %q", out)
	}
	expectVar(t, env, "i", "5")
}

func TestNestedLoops(t *testing.T) {
	src := `total = 0;
for (i = 0; i < 3; i = i + 1) {
  j = 0;
  while (j < i) { total = total + 1; j = j + 1; }
}
print(total);`
	expectOutput(t, src, "3\n")
}

func TestExprStmt_NoOutput(t *testing.T) {
	expectOutput(t, `x = 1; if (1) { (x + 1) }`, "")
}

// --- 4. Errors ---

func TestUndefinedVariable(t *testing.T) {
	_, _, err := run(t, `print(z);`)
	rtErr := expectRuntimeError(t, err, diagnostics.EUndefined)
	if rtErr.Message != "undefined variable 'z'" {
		t.Errorf("message = %q", rtErr.Message)
	}
	if rtErr.Pos == nil || rtErr.Pos.Col != 7 {
		t.Errorf("pos = %v, want column 7", rtErr.Pos)
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, src := range []string{`y = 10 / 0;`, `y = 1 / (0 / 1);`, `y = 1 / (1 > 2);`} {
		_, env, err := run(t, src)
		rtErr := expectRuntimeError(t, err, diagnostics.EDivZero)
		if rtErr.Message != "division by zero" {
			t.Errorf("message = %q", rtErr.Message)
		}
		if env.Has("y") {
			t.Errorf("%s: y should not be assigned", src)
		}
	}
}

func TestPartialEffectsRetained(t *testing.T) {
	out, env, err := run(t, `a = 1; print(a); b = a / 0; c = 3;`)
	expectRuntimeError(t, err, diagnostics.EDivZero)
	if out != "1\n" {
		t.Errorf("output = %q, want %q", out, "1\n")
	}
	expectVar(t, env, "a", "1")
	if env.Has("b") || env.Has("c") {
		t.Errorf("statements after the failure ran: %v", env.Names())
	}
}

func TestErrorInsideLoopKeepsProgress(t *testing.T) {
	_, env, err := run(t, `i = 0; while (i < 5) { i = i + 1; if (i == 3) { x = y; } }`)
	expectRuntimeError(t, err, diagnostics.EUndefined)
	expectVar(t, env, "i", "3")
}

func TestRuntimeErrorDiagnostic(t *testing.T) {
	_, _, err := run(t, `x = nope;`)
	var carrier diagnostics.Carrier
	if !errors.As(err, &carrier) {
		t.Fatalf("expected diagnostics.Carrier, got %T", err)
	}
	d := carrier.Diagnostic()
	if d.Code != diagnostics.EUndefined {
		t.Errorf("code = %q", d.Code)
	}
	if d.Pos == nil || d.Pos.Line != 1 {
		t.Errorf("pos = %v", d.Pos)
	}
}

// --- 5. Session state ---

func TestEnvPersistsAcrossExecutions(t *testing.T) {
	env := evaluator.NewEnv()
	if _, err := runWith(t, `x = 5;`, env, evaluator.ExecOptions{}); err != nil {
		t.Fatal(err)
	}
	out, err := runWith(t, `print(x * 2);`, env, evaluator.ExecOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if out != "10\n" {
		t.Errorf("output = %q", out)
	}
}

func TestEnvNamesSorted(t *testing.T) {
	_, env := mustRun(t, `b = 1; a = 2; _c = 3;`)
	got := strings.Join(env.Names(), ",")
	if got != "_c,a,b" {
		t.Errorf("Names() = %s", got)
	}
	if env.Len() != 3 {
		t.Errorf("Len() = %d", env.Len())
	}
	snap := env.Snapshot()
	snap["a"] = evaluator.NewInt(99)
	expectVar(t, env, "a", "2")
}

func TestReassignChangesType(t *testing.T) {
	_, env := mustRun(t, `x = 1; x = x / 2;`)
	expectVar(t, env, "x", "0.5")
}

// --- 6. Budget, cancellation, output, trace ---

func TestIterationBudget(t *testing.T) {
	env := evaluator.NewEnv()
	opts := evaluator.ExecOptions{Budget: evaluator.Budget{MaxIterations: 10}}
	_, err := runWith(t, `i = 0; while (1) { i = i + 1; }`, env, opts)
	expectRuntimeError(t, err, diagnostics.EBudget)
	expectVar(t, env, "i", "10")
}

func TestIterationBudgetNotHit(t *testing.T) {
	env := evaluator.NewEnv()
	opts := evaluator.ExecOptions{Budget: evaluator.Budget{MaxIterations: 3}}
	if _, err := runWith(t, `for (i = 0; i < 3; i = i + 1) { }`, env, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	stmts, err := parser.Parse(`x = 1; while (1) { x = x + 1; }`, "test")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	env := evaluator.NewEnv()
	_, err = evaluator.Execute(ctx, stmts, env, evaluator.ExecOptions{Output: &bytes.Buffer{}})
	expectRuntimeError(t, err, diagnostics.ECanceled)
	if env.Has("x") {
		t.Error("no statement should run under a canceled context")
	}
}

func TestCancelDuringLoop(t *testing.T) {
	stmts, err := parser.Parse(`i = 0; while (1) { i = i + 1; }`, "test")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	trace := func(ev evaluator.TraceEvent) {
		if ev.Event == evaluator.TraceAssign && ev.Data["value"] == "100" {
			cancel()
		}
	}
	env := evaluator.NewEnv()
	_, err = evaluator.Execute(ctx, stmts, env, evaluator.ExecOptions{Output: &bytes.Buffer{}, Trace: trace})
	expectRuntimeError(t, err, diagnostics.ECanceled)
	expectVar(t, env, "i", "100")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrintWriteFailure(t *testing.T) {
	stmts, err := parser.Parse(`print(1);`, "test")
	if err != nil {
		t.Fatal(err)
	}
	_, err = evaluator.Execute(context.Background(), stmts, evaluator.NewEnv(), evaluator.ExecOptions{Output: failingWriter{}})
	if err == nil || !strings.Contains(err.Error(), "write output") {
		t.Fatalf("got %v, want write output error", err)
	}
}

func TestExecResultCounts(t *testing.T) {
	stmts, err := parser.Parse(`for (i = 0; i < 4; i = i + 1) { x = i; }`, "test")
	if err != nil {
		t.Fatal(err)
	}
	res, err := evaluator.Execute(context.Background(), stmts, evaluator.NewEnv(), evaluator.ExecOptions{Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Iterations != 4 {
		t.Errorf("Iterations = %d, want 4", res.Iterations)
	}
	// One for-statement plus four body statements.
	if res.Statements != 5 {
		t.Errorf("Statements = %d, want 5", res.Statements)
	}
}

func TestTraceEvents(t *testing.T) {
	stmts, err := parser.Parse(`x = 1; while (x < 2) { x = x + 1; }`, "test")
	if err != nil {
		t.Fatal(err)
	}
	var events []evaluator.TraceEventType
	opts := evaluator.ExecOptions{
		Output: &bytes.Buffer{},
		RunID:  "run-1",
		Trace: func(ev evaluator.TraceEvent) {
			if ev.RunID != "run-1" {
				t.Errorf("RunID = %q", ev.RunID)
			}
			events = append(events, ev.Event)
		},
	}
	if _, err := evaluator.Execute(context.Background(), stmts, evaluator.NewEnv(), opts); err != nil {
		t.Fatal(err)
	}
	want := []evaluator.TraceEventType{
		evaluator.TraceRunStart,
		evaluator.TraceStmtStart, evaluator.TraceAssign, evaluator.TraceStmtEnd,
		evaluator.TraceStmtStart, evaluator.TraceLoopStart,
		evaluator.TraceStmtStart, evaluator.TraceAssign, evaluator.TraceStmtEnd,
		evaluator.TraceLoopEnd, evaluator.TraceStmtEnd,
		evaluator.TraceRunEnd,
	}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, events[i], want[i])
		}
	}
}

func TestEvaluateExpression(t *testing.T) {
	env := evaluator.NewEnv()
	env.Set("x", evaluator.NewInt(4))
	stmts, err := parser.Parse(`print(x * x - 1);`, "test")
	if err != nil {
		t.Fatal(err)
	}
	expr := stmts[0].(*ast.PrintStmt).Expr
	val, err := evaluator.Evaluate(expr, env)
	if err != nil {
		t.Fatal(err)
	}
	if val.String() != "15" {
		t.Errorf("got %s, want 15", val)
	}
}
