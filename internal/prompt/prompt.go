// Package prompt reads operator answers one line at a time.
//
// Answers are accepted verbatim: the only transformation is trimming the line
// terminator and surrounding whitespace, and an empty answer selects the
// default. Nothing is validated.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/naikmubashir/setup-template/internal/logging"
)

// Prompter asks questions on Out and reads answers from In.
type Prompter struct {
	In  *bufio.Reader
	Out io.Writer

	// fd is the terminal file descriptor behind In, or -1.
	fd int
}

// New creates a prompter. When in is a terminal, secrets are read without echo.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{In: bufio.NewReader(in), Out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
	}
	return p
}

// Ask prints "label [def]: " and returns the answer, or def when blank.
// Surrounding whitespace, including the line terminator, is trimmed from the
// answer; nothing else is changed.
func (p *Prompter) Ask(label, def string) (string, error) {
	fmt.Fprint(p.Out, question(label, def))

	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		answer = def
	}
	logging.PromptDebug("%s -> %q", label, answer)
	return answer, nil
}

// AskSecret behaves like Ask but does not echo the answer on a terminal.
// The default is never displayed. Input that was typed ahead and is already
// buffered is consumed first, since it has been echoed anyway.
func (p *Prompter) AskSecret(label, def string) (string, error) {
	hint := ""
	if def != "" {
		hint = "********"
	}
	fmt.Fprint(p.Out, question(label, hint))

	var answer string
	if p.fd >= 0 && p.In.Buffered() == 0 {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", label, err)
		}
		answer = strings.TrimSpace(string(b))
	} else {
		var err error
		if answer, err = p.readLine(); err != nil {
			return "", err
		}
	}

	if answer == "" {
		answer = def
	}
	logging.PromptDebug("%s -> (secret, %d chars)", label, len(answer))
	return answer, nil
}

// Confirm prints "question (y/N): " and returns true only for a single
// "y" or "Y". Empty input, EOF and anything else mean no.
func (p *Prompter) Confirm(q string) (bool, error) {
	fmt.Fprintf(p.Out, "%s (y/N): ", q)

	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	yes := answer == "y" || answer == "Y"
	logging.PromptDebug("%s -> %v", q, yes)
	return yes, nil
}

func question(label, def string) string {
	if def == "" {
		return label + ": "
	}
	return fmt.Sprintf("%s [%s]: ", label, def)
}

// readLine reads one line. EOF after a partial line returns that line; EOF
// with nothing read returns "" so that defaults apply.
func (p *Prompter) readLine() (string, error) {
	line, err := p.In.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
