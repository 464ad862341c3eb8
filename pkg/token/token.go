// Package token defines the lexical token kinds shared by the lexer, parser and AST.
package token

import "fmt"

// Kind identifies the type of a lexer token.
type Kind int

const (
	Illegal Kind = iota

	// Keywords
	If
	Else
	While
	For
	Print

	// Literals
	Number
	Identifier

	// Punctuation
	LParen // (
	RParen // )
	LBrace // {
	RBrace // }
	Semi   // ;
	Equals // =

	// Comparison operators
	Eq // ==
	Ne // !=
	Lt // <
	Gt // >
	Le // <=
	Ge // >=

	// Arithmetic operators
	Plus     // +
	Minus    // -
	Multiply // *
	Divide   // /

	// Special
	EOF
)

var names = [...]string{
	Illegal:    "ILLEGAL",
	If:         "IF",
	Else:       "ELSE",
	While:      "WHILE",
	For:        "FOR",
	Print:      "PRINT",
	Number:     "NUMBER",
	Identifier: "IDENTIFIER",
	LParen:     "LPAREN",
	RParen:     "RPAREN",
	LBrace:     "LBRACE",
	RBrace:     "RBRACE",
	Semi:       "SEMI",
	Equals:     "EQUALS",
	Eq:         "EQ",
	Ne:         "NE",
	Lt:         "LT",
	Gt:         "GT",
	Le:         "LE",
	Ge:         "GE",
	Plus:       "PLUS",
	Minus:      "MINUS",
	Multiply:   "MULTIPLY",
	Divide:     "DIVIDE",
	EOF:        "EOF",
}

var symbols = map[Kind]string{
	LParen:   "(",
	RParen:   ")",
	LBrace:   "{",
	RBrace:   "}",
	Semi:     ";",
	Equals:   "=",
	Eq:       "==",
	Ne:       "!=",
	Lt:       "<",
	Gt:       ">",
	Le:       "<=",
	Ge:       ">=",
	Plus:     "+",
	Minus:    "-",
	Multiply: "*",
	Divide:   "/",
}

// String returns the upper-case name of the kind, e.g. "LBRACE".
func (k Kind) String() string {
	if k >= 0 && int(k) < len(names) && names[k] != "" {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Symbol returns the source spelling of an operator or punctuation kind,
// or the empty string for keywords, literals and EOF.
func (k Kind) Symbol() string {
	return symbols[k]
}

// Describe returns a human-readable name for use in error messages.
func (k Kind) Describe() string {
	switch k {
	case Number:
		return "number"
	case Identifier:
		return "identifier"
	case EOF:
		return "end of input"
	}
	if s, ok := symbols[k]; ok {
		return "'" + s + "'"
	}
	return "'" + lowerKeyword(k) + "'"
}

func lowerKeyword(k Kind) string {
	for word, kind := range keywords {
		if kind == k {
			return word
		}
	}
	return k.String()
}

// IsComparison reports whether k is one of == != < > <= >=.
func (k Kind) IsComparison() bool {
	return k >= Eq && k <= Ge
}

// IsArithmetic reports whether k is one of + - * /.
func (k Kind) IsArithmetic() bool {
	return k >= Plus && k <= Divide
}

var keywords = map[string]Kind{
	"if":    If,
	"else":  Else,
	"while": While,
	"for":   For,
	"print": Print,
}

// Keyword looks up a lower-cased word in the keyword table.
func Keyword(lower string) (Kind, bool) {
	k, ok := keywords[lower]
	return k, ok
}

// Pos is a position in source text. Line and Col are 1-based.
type Pos struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Token is a single lexical unit. Text holds the identifier spelling in its
// original case or the digits of a number literal.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos
}

func (t Token) String() string {
	if t.Text == "" {
		return fmt.Sprintf("Token(%s)", t.Kind)
	}
	return fmt.Sprintf("Token(%s, %q)", t.Kind, t.Text)
}
