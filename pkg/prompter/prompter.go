package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Prompter reads answers from one buffered reader so consecutive prompts
// don't lose typed-ahead input.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal to read passwords from, or -1
	fd int
}

// New creates a prompter over arbitrary streams. Passwords are read as plain
// lines because there is no terminal to switch echo off on.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
}

var (
	std     *Prompter
	stdOnce sync.Once
)

// Default returns the prompter bound to stdin and stdout
func Default() *Prompter {
	stdOnce.Do(func() {
		std = New(os.Stdin, os.Stdout)
		if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
			std.fd = fd
		}
	})
	return std
}

func (p *Prompter) readLine() (string, error) {
	input, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimRight(input, "\r\n"), nil
}

// String prompts for a single line
func (p *Prompter) String(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password prompts for hidden input
func (p *Prompter) Password(label string) (string, error) {
	fmt.Fprint(p.out, label)

	if p.fd < 0 {
		return p.readLine()
	}

	bytepw, err := term.ReadPassword(p.fd)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(p.out) // New line after password input
	return string(bytepw), nil
}

// Confirm prompts for yes/no
func (p *Prompter) Confirm(label string) (bool, error) {
	fmt.Fprint(p.out, label+" (y/n) ")
	line, err := p.readLine()
	if err != nil {
		return false, err
	}

	response := strings.TrimSpace(strings.ToLower(line))
	return response == "y" || response == "yes", nil
}

// Select prompts for one of options and returns its index
func (p *Prompter) Select(label string, options []string) (int, error) {
	fmt.Fprintln(p.out, label)
	for i, opt := range options {
		fmt.Fprintf(p.out, "%d) %s\n", i+1, opt)
	}

	fmt.Fprint(p.out, "Select option: ")
	line, err := p.readLine()
	if err != nil {
		return -1, err
	}

	var selection int
	if _, err := fmt.Sscanf(strings.TrimSpace(line), "%d", &selection); err != nil {
		return -1, err
	}
	if selection < 1 || selection > len(options) {
		return -1, fmt.Errorf("invalid selection")
	}
	return selection - 1, nil
}

// Multiline reads lines until an empty one or maxLines
func (p *Prompter) Multiline(label string, maxLines int) (string, error) {
	fmt.Fprintf(p.out, "%s (finish with an empty line):\n", label)

	var lines []string
	for i := 0; i < maxLines; i++ {
		line, err := p.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// PromptString prompts user for a string input
func PromptString(label string) (string, error) {
	return Default().String(label)
}

// PromptPassword prompts user for a password (hidden input)
func PromptPassword(label string) (string, error) {
	return Default().Password(label)
}

// PromptConfirm prompts user for yes/no confirmation
func PromptConfirm(label string) (bool, error) {
	return Default().Confirm(label)
}

// PromptSelect prompts user to select from options
func PromptSelect(label string, options []string) (int, error) {
	return Default().Select(label, options)
}

// PromptMultilineString prompts user for multi-line input
func PromptMultilineString(label string, maxLines int) (string, error) {
	return Default().Multiline(label, maxLines)
}
