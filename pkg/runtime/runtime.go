// Package runtime provides the top-level orchestrator that runs source
// fragments against one persistent environment.
package runtime

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tomtatosauce21/PROGLANG/pkg/diagnostics"
	"github.com/tomtatosauce21/PROGLANG/pkg/evaluator"
	"github.com/tomtatosauce21/PROGLANG/pkg/formatter"
	"github.com/tomtatosauce21/PROGLANG/pkg/parser"
	"github.com/tomtatosauce21/PROGLANG/pkg/validator"
)

// Runtime wires together lexer, parser and evaluator. It owns the global
// environment, so variables assigned by one Run are visible to the next.
type Runtime struct {
	env           *evaluator.Env
	out           io.Writer
	logger        *slog.Logger
	runID         string
	maxIterations int64
	trace         func(event evaluator.TraceEvent)
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithOutput sets the writer that print statements write to.
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.out = w
	}
}

// WithLogger sets the structured logger. Trace events are forwarded to it
// at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = l
	}
}

// WithRunID sets the run ID for trace events and log records.
func WithRunID(id string) Option {
	return func(rt *Runtime) {
		rt.runID = id
	}
}

// WithMaxIterations caps the loop iterations of a single Run. Zero means
// unlimited.
func WithMaxIterations(n int64) Option {
	return func(rt *Runtime) {
		rt.maxIterations = n
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// WithEnv starts the runtime from an existing environment.
func WithEnv(env *evaluator.Env) Option {
	return func(rt *Runtime) {
		rt.env = env
	}
}

// New creates a new Runtime with the given options.
// By default output goes to os.Stdout, logs are discarded and there is no
// iteration limit.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		out:    os.Stdout,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		runID:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.env == nil {
		rt.env = evaluator.NewEnv()
	}
	return rt
}

// Env returns the runtime's global environment.
func (rt *Runtime) Env() *evaluator.Env {
	return rt.env
}

// RunID returns the identifier attached to trace events and log records.
func (rt *Runtime) RunID() string {
	return rt.runID
}

// Run lexes, parses and executes source. A lex or parse error means nothing
// ran. A runtime error leaves the effects of statements that completed
// before it in place.
func (rt *Runtime) Run(ctx context.Context, source, filename string) error {
	stmts, err := parser.Parse(source, filename)
	if err != nil {
		rt.logFailure("parse failed", err)
		return err
	}

	res, err := evaluator.Execute(ctx, stmts, rt.env, rt.buildExecOptions())
	if res != nil {
		rt.logger.Debug("run finished",
			"run_id", rt.runID,
			"statements", humanize.Comma(res.Statements),
			"iterations", humanize.Comma(res.Iterations),
			"variables", rt.env.Len(),
		)
	}
	if err != nil {
		rt.logFailure("execution failed", err)
		return err
	}
	return nil
}

// Check parses and validates source without executing it. Variables already
// bound in the runtime's environment count as assigned.
func (rt *Runtime) Check(source, filename string) []diagnostics.Diagnostic {
	stmts, err := parser.Parse(source, filename)
	if err != nil {
		var carrier diagnostics.Carrier
		if errors.As(err, &carrier) {
			return []diagnostics.Diagnostic{carrier.Diagnostic()}
		}
		return nil
	}
	return validator.Validate(stmts, rt.env.Has)
}

// Format parses source and returns it in canonical form.
func (rt *Runtime) Format(source, filename string) (string, error) {
	stmts, err := parser.Parse(source, filename)
	if err != nil {
		return "", err
	}
	return formatter.Format(stmts), nil
}

func (rt *Runtime) logFailure(msg string, err error) {
	attrs := []any{"run_id", rt.runID, "err", err}
	var carrier diagnostics.Carrier
	if errors.As(err, &carrier) {
		d := carrier.Diagnostic()
		attrs = append(attrs, "code", d.Code)
		if d.Pos != nil {
			attrs = append(attrs, "pos", d.Pos.String())
		}
	}
	rt.logger.Debug(msg, attrs...)
}

// buildExecOptions constructs evaluator options from the runtime's configuration.
func (rt *Runtime) buildExecOptions() evaluator.ExecOptions {
	return evaluator.ExecOptions{
		Output: rt.out,
		RunID:  rt.runID,
		Budget: evaluator.Budget{MaxIterations: rt.maxIterations},
		Trace:  rt.traceHook(),
	}
}

// traceHook combines the user callback with debug logging. It returns nil
// when neither would observe anything so the evaluator skips building events.
func (rt *Runtime) traceHook() func(evaluator.TraceEvent) {
	logTrace := rt.logger.Enabled(context.Background(), slog.LevelDebug)
	if rt.trace == nil && !logTrace {
		return nil
	}
	user := rt.trace
	return func(ev evaluator.TraceEvent) {
		if logTrace {
			attrs := []any{"run_id", ev.RunID, "event", string(ev.Event)}
			if ev.Pos != nil {
				attrs = append(attrs, "pos", ev.Pos.String())
			}
			for k, v := range ev.Data {
				attrs = append(attrs, k, v)
			}
			rt.logger.Debug("trace", attrs...)
		}
		if user != nil {
			user(ev)
		}
	}
}
