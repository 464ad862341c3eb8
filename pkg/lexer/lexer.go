// Package lexer implements the tokenizer.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tomtatosauce21/PROGLANG/pkg/diagnostics"
	"github.com/tomtatosauce21/PROGLANG/pkg/token"
)

// LexError wraps a diagnostic for lex errors.
type LexError struct {
	Diag diagnostics.Diagnostic
}

func (e *LexError) Error() string {
	return e.Diag.Message
}

// Diagnostic returns the underlying diagnostic.
func (e *LexError) Diagnostic() diagnostics.Diagnostic {
	return e.Diag
}

// Lexer scans source text one token at a time.
type Lexer struct {
	source   string
	filename string
	pos      int
	line     int
	col      int
}

// New returns a lexer positioned at the start of source.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		col:      1,
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.source)
}

// peek returns the rune at the cursor and its width, or (0, 0) at the end.
func (l *Lexer) peek() (rune, int) {
	if l.atEnd() {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.source[l.pos:])
}

func (l *Lexer) peekByte(offset int) byte {
	p := l.pos + offset
	if p >= len(l.source) {
		return 0
	}
	return l.source[p]
}

func (l *Lexer) advance() rune {
	r, size := l.peek()
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) here() token.Pos {
	return token.Pos{File: l.filename, Line: l.line, Col: l.col}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		r, _ := l.peek()
		if !unicode.IsSpace(r) {
			return
		}
		l.advance()
	}
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (l *Lexer) scanIdentOrKeyword(start token.Pos) token.Token {
	begin := l.pos
	for !l.atEnd() {
		r, _ := l.peek()
		if !isIdentRune(r) {
			break
		}
		l.advance()
	}
	text := l.source[begin:l.pos]

	if kind, ok := token.Keyword(strings.ToLower(text)); ok {
		return token.Token{Kind: kind, Text: text, Pos: start}
	}
	return token.Token{Kind: token.Identifier, Text: text, Pos: start}
}

func (l *Lexer) scanNumber(start token.Pos) (token.Token, error) {
	begin := l.pos
	for !l.atEnd() {
		r, _ := l.peek()
		if !isDigit(r) {
			break
		}
		l.advance()
	}
	text := l.source[begin:l.pos]
	if _, err := strconv.ParseInt(text, 10, 64); err != nil {
		return token.Token{}, l.lexError(start, fmt.Sprintf("integer literal out of range: %s", text))
	}
	return token.Token{Kind: token.Number, Text: text, Pos: start}, nil
}

func (l *Lexer) lexError(pos token.Pos, msg string) error {
	diag := diagnostics.MakeDiag(diagnostics.ELex, msg, &pos, "")
	return &LexError{Diag: diag}
}

// twoChar maps the first byte of a two-character operator to the kind it
// forms when followed by '='.
var twoChar = map[byte]token.Kind{
	'=': token.Eq,
	'!': token.Ne,
	'<': token.Le,
	'>': token.Ge,
}

var oneChar = map[rune]token.Kind{
	'=': token.Equals,
	'<': token.Lt,
	'>': token.Gt,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Multiply,
	'/': token.Divide,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	';': token.Semi,
}

// Next returns the next token and advances past it. At the end of input it
// returns an EOF token; calling Next again keeps returning EOF.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()

	start := l.here()
	if l.atEnd() {
		return token.Token{Kind: token.EOF, Pos: start}, nil
	}

	r, _ := l.peek()

	if isIdentRune(r) {
		return l.scanIdentOrKeyword(start), nil
	}
	if isDigit(r) {
		return l.scanNumber(start)
	}

	// Two-character operators take priority over their one-character prefix.
	if kind, ok := twoChar[l.peekByte(0)]; ok && l.peekByte(1) == '=' {
		l.advance()
		l.advance()
		return token.Token{Kind: kind, Pos: start}, nil
	}
	if kind, ok := oneChar[r]; ok {
		l.advance()
		return token.Token{Kind: kind, Pos: start}, nil
	}

	l.advance()
	return token.Token{}, l.lexError(start, fmt.Sprintf("invalid character %q", r))
}

// Tokenize breaks source code into a slice of tokens ending with EOF.
func Tokenize(source, filename string) ([]token.Token, error) {
	l := New(source, filename)
	var tokens []token.Token

	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	return tokens, nil
}
