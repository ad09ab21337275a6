package device

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// TermPrompter prompts on a terminal.
type TermPrompter struct {
	in     *os.File
	reader *bufio.Reader
	out    io.Writer
}

// NewTermPrompter prompts on out and reads answers from in.
func NewTermPrompter(in *os.File, out io.Writer) *TermPrompter {
	return &TermPrompter{in: in, reader: bufio.NewReader(in), out: out}
}

// Interactive reports whether in is a terminal.
func (p *TermPrompter) Interactive() bool {
	return term.IsTerminal(int(p.in.Fd()))
}

// Confirm prints reason and accepts "y" or "yes".
func (p *TermPrompter) Confirm(reason string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "%s [y/N]: ", reason); err != nil {
		return false, err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// Verify prints reason and reads a line without echo, comparing it with
// expected.
func (p *TermPrompter) Verify(reason, expected string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "%s\nType %q to confirm: ", reason, expected); err != nil {
		return false, err
	}
	typed, err := readPassword(int(p.in.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(typed)) == expected, nil
}
