package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// isTTY reports whether stdin and stdout are terminals. Replaced in tests.
//
//nolint:gochecknoglobals // Test seam for terminal detection.
var isTTY = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// IsTTY reports whether capctl is attached to an interactive terminal.
func IsTTY() bool {
	return isTTY()
}

// LinePrompter asks for a line of text on a terminal.
type LinePrompter struct {
	out     io.Writer
	scanner *bufio.Scanner
	label   string
}

// NewLinePrompter reads answers from in and writes prompts to out.
// label names the requested value, e.g. "Video Title".
func NewLinePrompter(in io.Reader, out io.Writer, label string) *LinePrompter {
	return &LinePrompter{out: out, scanner: bufio.NewScanner(in), label: label}
}

// Prompt prints title and reads one line. An empty line or EOF dismisses
// the prompt.
func (p *LinePrompter) Prompt(ctx context.Context, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if title != "" {
		_, _ = fmt.Fprintln(p.out, title)
	}
	_, _ = fmt.Fprintf(p.out, "? %s (empty to cancel): ", p.label)

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("reading %s: %w", strings.ToLower(p.label), err)
		}
		return "", ErrDismissed
	}

	value := strings.TrimSpace(p.scanner.Text())
	if value == "" {
		return "", ErrDismissed
	}
	return value, nil
}

// ConfirmResult contains the result of a yes/no question.
type ConfirmResult struct {
	// Accepted is true if the operator typed "y" or "yes".
	Accepted bool
	// Cancelled is true if reading input failed.
	Cancelled bool
}

// Confirm asks question with a [y/N] suffix. It returns immediately with
// Accepted=false in non-interactive environments. Empty input means No.
func Confirm(writer io.Writer, reader io.Reader, question string) ConfirmResult {
	if !IsTTY() {
		return ConfirmResult{Accepted: false}
	}

	_, _ = fmt.Fprintf(writer, "? %s [y/N] ", question)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return ConfirmResult{Cancelled: true}
		}
		// EOF without error (Ctrl+D) declines.
		return ConfirmResult{Accepted: false}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return ConfirmResult{Accepted: true}
	default:
		return ConfirmResult{Accepted: false}
	}
}
