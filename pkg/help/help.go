// Package help holds the built-in language reference shown by
// "proglang help".
package help

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// QUICKREF is the one-screen overview printed by "proglang help".
const QUICKREF = `proglang: a tiny imperative language with a line-oriented REPL

  x = 5;                       assignment (statement ends with ';')
  print(x * 2 + 3);            print one value
  if (x > 3) { ... } else { ... }
  while (x < 10) { ... }
  for (i = 0; i < 3; i = i + 1) { ... }

Keywords ignore case; variable names do not. Type "exit" to leave the REPL.

Topics: syntax, values, control, repl, diagnostics, examples
Run "proglang help <topic>" for details. Any unique prefix works.
`

// TopicList is the display order of the help topics.
var TopicList = []string{"syntax", "values", "control", "repl", "diagnostics", "examples"}

// Topics maps each topic name to its text.
var Topics = map[string]string{
	"syntax": `SYNTAX

program    := statement*
statement  := if | while | for | print | assignment | expression
assignment := IDENT '=' expr ';'
print      := 'print' '(' expr ')' ';'
if         := 'if' '(' expr ')' block ('else' block)?
while      := 'while' '(' expr ')' block
for        := 'for' '(' assignment expr ';' IDENT '=' expr ';'? ')' block
block      := '{' statement* '}'

expr       := arith (('==' | '!=' | '<' | '>' | '<=' | '>=') arith)*
arith      := term (('+' | '-') term)*
term       := factor (('*' | '/') factor)*
factor     := NUMBER | IDENT | '(' expr ')' | ('-' | '+') factor

All binary operators are left-associative. Comparisons bind loosest, so
1 < 2 < 3 means (1 < 2) < 3. Identifiers are letters and underscores.
Number literals are non-negative decimal integers.
A statement starting with an identifier is always an assignment, and a bare
expression statement takes no ';'.
`,
	"values": `VALUES

Integers   64-bit, from number literals and integer arithmetic.
Floats     produced by '/', which always divides in floating point:
           print(4 / 2); prints 2.0. Mixing a float into + - * gives a float.
Booleans   produced by comparisons, printed as True and False. In arithmetic
           they count as 1 and 0.

Zero, 0.0 and False are false in conditions; everything else is true.
Dividing by any zero value is an error. Integer overflow is an error.
`,
	"control": `CONTROL FLOW

if (cond) { ... } else { ... }   the else block is optional
while (cond) { ... }             re-checks cond before every iteration
for (init; cond; update) { ... } init and update are assignments

There is one global namespace: variables assigned inside a block, including
a for-loop counter, remain visible after it.
`,
	"repl": `REPL

The prompt "? " is shown before every line. Lines are collected until the
braces balance and the last line is blank or ends with ';' or '}'; then the
whole input runs as one turn. Variables persist from turn to turn.

"exit" (any case) leaves immediately, even in the middle of a block.
Ctrl-D ends the session; Ctrl-C discards the lines typed so far.
Errors print as "Error: <message>" and the session continues. Statements
that ran before the error keep their effects.
`,
	"diagnostics": `DIAGNOSTICS

E_LEX             invalid character or integer literal out of range
E_PARSE           input does not match the grammar; nothing in the turn runs
E_UNDEFINED       a variable was read before it was assigned
E_DIV_ZERO        division by zero
E_OVERFLOW        integer arithmetic overflowed 64 bits
E_UNSUPPORTED_OP  an operator the evaluator does not implement
E_BUDGET          the loop iteration budget (--max-iterations) ran out
E_CANCELED        execution was canceled
E_UNBOUND         (check) a variable is read before any assignment
E_IO              a source file could not be read
`,
	"examples": `EXAMPLES

? x = 5;
? y = x * 2 + 3;
? print(y);
13
? for (i = 0; i < 3; i = i + 1) {
?   print(i);
? }
0
1
2
? print(7 / 2);
3.5
? y = 10 / 0;
Error: division by zero
`,
}

// MatchTopic resolves name to a topic by exact match or unique prefix.
func MatchTopic(name string) (string, string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if content, ok := Topics[key]; ok {
		return key, content, nil
	}
	var matches []string
	for _, topic := range TopicList {
		if key != "" && strings.HasPrefix(topic, key) {
			matches = append(matches, topic)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], Topics[matches[0]], nil
	case 0:
		return "", "", errors.Errorf("unknown help topic %q (topics: %s)", name, strings.Join(TopicList, ", "))
	default:
		sort.Strings(matches)
		return "", "", errors.Errorf("ambiguous help topic %q matches %s", name, strings.Join(matches, ", "))
	}
}
