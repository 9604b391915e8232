package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrNotInteractive is returned by prompts when stdin is not a terminal
var ErrNotInteractive = errors.New("stdin is not a terminal")

var promptStyle = lipgloss.NewStyle().
	Foreground(AccentColor).
	Bold(true)

// PromptPassword reads a password from the terminal without echo.
// An empty answer is allowed; open networks have no password.
func PromptPassword(label string) (string, error) {
	if !IsInteractive() {
		return "", ErrNotInteractive
	}
	fd := int(os.Stdin.Fd())

	fmt.Print(promptStyle.Render(label + ": "))
	data, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(data), nil
}

// Confirm asks a yes/no question on out and reads the answer from in.
// Anything other than "y" or "yes" is a no.
func Confirm(in io.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprint(out, promptStyle.Render(question+" [y/N]: "))

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		_, _ = fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	cancel := lipgloss.NewStyle().Foreground(MutedColor)
	_, _ = fmt.Fprintln(out, cancel.Render("  Operation cancelled."))
	return false
}
