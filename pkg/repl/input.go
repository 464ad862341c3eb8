package repl

import "strings"

// IsComplete reports whether a pending buffer is ready to execute, given the
// running brace balance after the latest line was added. Braces must not be
// left open, and the latest line must be blank or end with ';' or '}'.
func IsComplete(balance int, line string) bool {
	if balance > 0 {
		return false
	}
	trimmed := strings.TrimSpace(line)
	return trimmed == "" ||
		strings.HasSuffix(trimmed, ";") ||
		strings.HasSuffix(trimmed, "}")
}

// BraceDelta returns the number of '{' minus the number of '}' in line.
func BraceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}

// IsExit reports whether line is the exit command.
func IsExit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "exit")
}

// Collector accumulates input lines until they form a complete turn.
type Collector struct {
	lines   []string
	balance int
}

// Add appends a line and reports whether the buffer is now complete.
func (c *Collector) Add(line string) bool {
	c.lines = append(c.lines, line)
	c.balance += BraceDelta(line)
	return IsComplete(c.balance, line)
}

// Source joins the collected lines with newlines.
func (c *Collector) Source() string {
	return strings.Join(c.lines, "\n")
}

// Blank reports whether the collected text is only whitespace.
func (c *Collector) Blank() bool {
	return strings.TrimSpace(c.Source()) == ""
}

// Pending reports whether any line has been collected since the last Reset.
func (c *Collector) Pending() bool {
	return len(c.lines) > 0
}

// Balance returns the running brace balance.
func (c *Collector) Balance() int {
	return c.balance
}

// Lines returns the number of collected lines.
func (c *Collector) Lines() int {
	return len(c.lines)
}

// Reset discards the buffer and the brace balance.
func (c *Collector) Reset() {
	c.lines = c.lines[:0]
	c.balance = 0
}
