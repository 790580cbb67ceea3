// Package prompt asks the operator questions on the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when a secret is requested but stdin is not a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Confirm writes question to out and reads one line from in. Only "y" or
// "yes" (any case) confirms; anything else, including EOF, declines.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprint(out, question); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Terminal reads secrets from a terminal without echo.
type Terminal struct {
	in  *os.File
	out io.Writer
}

// NewTerminal creates a Terminal reading from in and prompting on out.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// ReadSecret prints prompt and reads a line with echo disabled.
func (t *Terminal) ReadSecret(prompt string) (string, error) {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotTerminal
	}

	fmt.Fprint(t.out, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
