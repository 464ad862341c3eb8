package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/tomtatosauce21/PROGLANG/pkg/evaluator"
)

// traceWriter streams trace events as JSON lines. After the first write
// failure it stops writing and keeps that error for close to report.
type traceWriter struct {
	w      io.WriteCloser
	enc    *json.Encoder
	logger *slog.Logger
	err    error
}

func newTraceWriter(w io.WriteCloser, logger *slog.Logger) *traceWriter {
	return &traceWriter{w: w, enc: json.NewEncoder(w), logger: logger}
}

func (t *traceWriter) write(ev evaluator.TraceEvent) {
	if t.err != nil {
		return
	}
	if err := t.enc.Encode(ev); err != nil {
		t.err = errors.Wrap(err, "write trace event")
		t.logger.Warn("trace disabled", "err", t.err)
	}
}

// close closes the underlying writer and returns the first error seen.
func (t *traceWriter) close() error {
	cerr := t.w.Close()
	if t.err != nil {
		return t.err
	}
	return errors.Wrap(cerr, "close trace file")
}
