// Package repl implements the interactive read-collect-execute loop.
package repl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tomtatosauce21/PROGLANG/pkg/runtime"
)

// Prompt is written before every line read, continuation lines included.
const Prompt = "? "

// Session runs turns against one runtime until exit or end of input.
type Session struct {
	reader  LineReader
	out     io.Writer
	logger  *slog.Logger
	id      string
	rtOpts  []runtime.Option
	rt      *runtime.Runtime
	turns   int
	history interface{ AppendHistory(string) }
}

// Option is a functional option for configuring a Session.
type Option func(*Session)

// WithReader sets the line source. The default reads os.Stdin without line
// editing.
func WithReader(r LineReader) Option {
	return func(s *Session) {
		s.reader = r
	}
}

// WithOutput sets where program output and error reports go.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		s.out = w
	}
}

// WithLogger sets the structured logger shared with the runtime.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithRuntimeOptions passes extra options to the runtime, applied after the
// session's own output, logger and run id.
func WithRuntimeOptions(opts ...runtime.Option) Option {
	return func(s *Session) {
		s.rtOpts = append(s.rtOpts, opts...)
	}
}

// New creates a session. The environment starts empty and lives as long as
// the session.
func New(opts ...Option) *Session {
	s := &Session{
		out:    os.Stdout,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		id:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reader == nil {
		s.reader = NewStreamReader(os.Stdin, s.out)
	}
	if h, ok := s.reader.(interface{ AppendHistory(string) }); ok {
		s.history = h
	}
	base := []runtime.Option{
		runtime.WithOutput(s.out),
		runtime.WithLogger(s.logger),
		runtime.WithRunID(s.id),
	}
	s.rt = runtime.New(append(base, s.rtOpts...)...)
	return s
}

// Runtime returns the runtime that executes the session's turns.
func (s *Session) Runtime() *runtime.Runtime {
	return s.rt
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Run reads and executes turns until the exit command or end of input, both
// of which return nil. Errors raised by a turn are reported on the output
// and the loop continues. Only a failure to read input ends the session with
// an error.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Debug("session started", "session", s.id)
	defer func() {
		s.logger.Debug("session ended", "session", s.id, "turns", humanize.Comma(int64(s.turns)))
	}()

	var c Collector
	for {
		line, err := s.reader.ReadLine(Prompt)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, ErrInterrupted):
			if c.Pending() {
				s.logger.Debug("pending input discarded", "session", s.id, "lines", c.Lines())
			}
			c.Reset()
			continue
		default:
			return errors.Wrap(err, "read input")
		}

		if IsExit(line) {
			return nil
		}
		if !c.Add(line) {
			continue
		}

		if !c.Blank() {
			s.execute(ctx, c.Source(), c.Lines())
		}
		c.Reset()
	}
}

func (s *Session) execute(ctx context.Context, source string, lines int) {
	s.turns++
	s.logger.Debug("turn",
		"session", s.id,
		"turn", s.turns,
		"lines", lines,
	)
	if s.history != nil {
		s.history.AppendHistory(strings.ReplaceAll(source, "\n", " "))
	}
	if err := s.rt.Run(ctx, source, "<stdin>"); err != nil {
		s.report(err)
	}
}

func (s *Session) report(err error) {
	if _, werr := fmt.Fprintf(s.out, "Error: %s\n", err); werr != nil {
		s.logger.Warn("cannot report error", "session", s.id, "err", werr)
	}
}
