package repl

import (
	"bufio"
	"io"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
)

// ErrInterrupted is returned by a LineReader when the user aborts the
// current line (Ctrl-C).
var ErrInterrupted = errors.New("interrupted")

// LineReader reads one line of input after showing prompt. It returns
// io.EOF at end of input and ErrInterrupted when the line was aborted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// StreamReader reads lines from a plain stream, writing the prompt itself.
// It serves piped input and tests. Lines may be of any length.
type StreamReader struct {
	in     *bufio.Reader
	prompt io.Writer
}

// NewStreamReader reads from r and writes prompts to w.
func NewStreamReader(r io.Reader, w io.Writer) *StreamReader {
	return &StreamReader{in: bufio.NewReader(r), prompt: w}
}

// ReadLine returns the next line without its "\n" or "\r\n" terminator. A
// final line with no terminator is returned before io.EOF.
func (s *StreamReader) ReadLine(prompt string) (string, error) {
	if _, err := io.WriteString(s.prompt, prompt); err != nil {
		return "", errors.Wrap(err, "write prompt")
	}
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

func (s *StreamReader) Close() error {
	return nil
}

// LinerReader provides line editing and in-memory history on a terminal.
type LinerReader struct {
	state *liner.State
}

// NewLinerReader puts the terminal into line-editing mode. Close restores it.
func NewLinerReader() *LinerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &LinerReader{state: state}
}

func (l *LinerReader) ReadLine(prompt string) (string, error) {
	line, err := l.state.Prompt(prompt)
	switch {
	case err == nil:
		return line, nil
	case errors.Is(err, liner.ErrPromptAborted):
		return "", ErrInterrupted
	default:
		return "", err
	}
}

// AppendHistory records an executed turn so it can be recalled with the
// arrow keys.
func (l *LinerReader) AppendHistory(source string) {
	l.state.AppendHistory(source)
}

func (l *LinerReader) Close() error {
	return l.state.Close()
}
