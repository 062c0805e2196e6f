package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/term"
)

// terminal is the user-facing I/O of the process.
type terminal struct {
	in        *bufio.Reader
	out       io.Writer // results only
	errOut    io.Writer // prompts and notices
	tty       bool
	fd        int
	clipboard func(string) error
}

func stdTerminal() *terminal {
	fd := int(os.Stdin.Fd())
	return &terminal{
		in:        bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		errOut:    os.Stderr,
		tty:       term.IsTerminal(fd),
		fd:        fd,
		clipboard: clipboard.WriteAll,
	}
}

// readLine returns the next input line without its terminator. io.EOF is returned
// only when no text precedes it.
func (t *terminal) readLine() (string, error) {
	s, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// readSecret prompts on errOut and reads without echo when stdin is a terminal.
func (t *terminal) readSecret(prompt string) (string, error) {
	fmt.Fprint(t.errOut, prompt)
	if !t.tty {
		return t.readLine()
	}
	b, err := term.ReadPassword(t.fd)
	fmt.Fprintln(t.errOut)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (t *terminal) confirm(prompt string) (bool, error) {
	fmt.Fprintf(t.errOut, "%s [y/N]: ", prompt)
	s, err := t.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes", nil
}
