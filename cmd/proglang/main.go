// Command proglang is the interpreter entry point. With no arguments it starts
// the interactive REPL. The run, check and fmt commands work on whole files,
// and help prints the language reference.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/tomtatosauce21/PROGLANG/pkg/diagnostics"
	"github.com/tomtatosauce21/PROGLANG/pkg/help"
	"github.com/tomtatosauce21/PROGLANG/pkg/lexer"
	"github.com/tomtatosauce21/PROGLANG/pkg/parser"
	"github.com/tomtatosauce21/PROGLANG/pkg/repl"
	"github.com/tomtatosauce21/PROGLANG/pkg/runtime"
)

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl())
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "fmt":
		os.Exit(cmdFmt(os.Args[2:]))
	case "help", "--help", "-h":
		os.Exit(cmdHelp(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage(os.Stderr)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: proglang                 start the interactive REPL")
	fmt.Fprintln(w, "       proglang run <file>      [--pretty] [--debug] [--trace <path>] [--max-iterations <n>]")
	fmt.Fprintln(w, "       proglang check <file>    [--pretty]")
	fmt.Fprintln(w, "       proglang fmt <file>      [--write]")
	fmt.Fprintln(w, "       proglang help [topic]")
}

func cmdHelp(args []string) int {
	if len(args) == 0 {
		fmt.Print(help.QUICKREF)
		fmt.Println()
		printUsage(os.Stdout)
		return 0
	}
	_, content, err := help.MatchTopic(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(content)
	return 0
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func cmdRepl() int {
	var reader repl.LineReader
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		reader = repl.NewLinerReader()
	} else {
		reader = repl.NewStreamReader(os.Stdin, os.Stdout)
	}
	defer reader.Close()

	s := repl.New(
		repl.WithReader(reader),
		repl.WithOutput(os.Stdout),
		repl.WithLogger(newLogger(false)),
	)
	if err := s.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

const runUsage = "usage: proglang run <file> [--pretty] [--debug] [--trace <path>] [--max-iterations <n>]"

func cmdRun(args []string) int {
	var file, tracePath string
	var maxIterations int64
	pretty := false
	debug := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--pretty":
			pretty = true
		case "--debug":
			debug = true
		case "--trace":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--trace requires a path")
				fmt.Fprintln(os.Stderr, runUsage)
				return 1
			}
			i++
			tracePath = args[i]
		case "--max-iterations":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--max-iterations requires a number")
				fmt.Fprintln(os.Stderr, runUsage)
				return 1
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil || n < 0 {
				fmt.Fprintf(os.Stderr, "invalid --max-iterations: %s\n", args[i])
				return 1
			}
			maxIterations = n
		default:
			if !strings.HasPrefix(args[i], "-") || args[i] == "-" {
				file = args[i]
			}
		}
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, runUsage)
		return 1
	}

	source, filename, exitCode := readSource(file, pretty)
	if exitCode != 0 {
		return exitCode
	}

	logger := newLogger(debug)
	opts := []runtime.Option{
		runtime.WithOutput(os.Stdout),
		runtime.WithLogger(logger),
		runtime.WithMaxIterations(maxIterations),
	}
	var trace *traceWriter
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot create trace file: %s\n", err)
			return 1
		}
		trace = newTraceWriter(f, logger)
		opts = append(opts, runtime.WithTrace(trace.write))
	}
	rt := runtime.New(opts...)

	runErr := rt.Run(context.Background(), source, filename)
	if trace != nil {
		if err := trace.close(); err != nil {
			fmt.Fprintf(os.Stderr, "trace file %s: %s\n", tracePath, err)
			if runErr == nil {
				return 1
			}
		}
	}
	if runErr != nil {
		return reportError(runErr, pretty)
	}
	return 0
}

func cmdCheck(args []string) int {
	var file string
	pretty := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--pretty":
			pretty = true
		default:
			if !strings.HasPrefix(args[i], "-") || args[i] == "-" {
				file = args[i]
			}
		}
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: proglang check <file> [--pretty]")
		return 1
	}

	source, filename, exitCode := readSource(file, pretty)
	if exitCode != 0 {
		return exitCode
	}

	rt := runtime.New()
	diags := rt.Check(source, filename)
	if len(diags) > 0 {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, pretty))
		return 2
	}

	if pretty {
		fmt.Println("No errors found.")
	} else {
		fmt.Println("[]")
	}
	return 0
}

func cmdFmt(args []string) int {
	var file string
	write := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--write":
			write = true
		default:
			if !strings.HasPrefix(args[i], "-") {
				file = args[i]
			}
		}
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: proglang fmt <file> [--write]")
		return 1
	}

	source, filename, exitCode := readSource(file, false)
	if exitCode != 0 {
		return exitCode
	}

	rt := runtime.New()
	formatted, err := rt.Format(source, filename)
	if err != nil {
		return reportError(err, false)
	}

	if write {
		if err := os.WriteFile(file, []byte(formatted), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "error writing file: %s\n", err)
			return 1
		}
		return 0
	}
	fmt.Print(formatted)
	return 0
}

func readSource(file string, pretty bool) (string, string, int) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading stdin: %s\n", err)
			return "", "", 1
		}
		return string(data), "<stdin>", 0
	}

	source, err := os.ReadFile(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), nil, "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics([]diagnostics.Diagnostic{diag}, pretty))
		return "", "", 1
	}
	return string(source), file, 0
}

// reportError prints err as a diagnostic and maps it to an exit code:
// 2 for lex and parse errors, 4 for runtime errors.
func reportError(err error, pretty bool) int {
	var carrier diagnostics.Carrier
	if !errors.As(err, &carrier) {
		fmt.Fprintln(os.Stderr, err.Error())
		return 4
	}
	fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics([]diagnostics.Diagnostic{carrier.Diagnostic()}, pretty))

	var lexErr *lexer.LexError
	var parseErr *parser.ParseError
	if errors.As(err, &lexErr) || errors.As(err, &parseErr) {
		return 2
	}
	return 4
}
