// Package diagnostics defines diagnostic types for lex, parse and runtime errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tomtatosauce21/PROGLANG/pkg/token"
)

// Diagnostic code constants.
const (
	ELex           = "E_LEX"
	EParse         = "E_PARSE"
	EDivZero       = "E_DIV_ZERO"
	EUndefined     = "E_UNDEFINED"
	EUnsupportedOp = "E_UNSUPPORTED_OP"
	EBudget        = "E_BUDGET"
	ECanceled      = "E_CANCELED"
	EOverflow      = "E_OVERFLOW"
	EIO            = "E_IO"
	EUnbound       = "E_UNBOUND"
)

// Diagnostic represents a lex, parse, or runtime diagnostic.
type Diagnostic struct {
	Code    string     `json:"code"`
	Message string     `json:"message"`
	Pos     *token.Pos `json:"pos,omitempty"`
	Hint    string     `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, pos *token.Pos, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Pos:     pos,
		Hint:    hint,
	}
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	loc := "<unknown>"
	if d.Pos != nil {
		loc = d.Pos.String()
	}
	out := fmt.Sprintf("error[%s]: %s\n  --> %s", d.Code, d.Message, loc)
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}

// Carrier is implemented by errors that wrap a Diagnostic.
type Carrier interface {
	error
	Diagnostic() Diagnostic
}
