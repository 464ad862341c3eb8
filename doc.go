// Package proglang is a small imperative language with integer and float
// arithmetic, comparisons, if/while/for control flow and print, driven by a
// line-oriented REPL.
//
// The pipeline lives under pkg/: lexer, parser, evaluator, and the runtime
// and repl packages that tie them together. The proglang command is in
// cmd/proglang.
package proglang
