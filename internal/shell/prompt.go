package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"bilancio/internal/core"
)

// errInputClosed means the input stream ended while a prompt was waiting.
var errInputClosed = errors.New("input closed")

// readLine returns the next line without its line terminator. A final line
// without a newline is returned before io.EOF is reported.
func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ask prints prompt and reads one line.
func (s *Shell) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	return s.readLine()
}

// askAmount keeps prompting until the answer parses as a non-negative
// amount.
func (s *Shell) askAmount(prompt string) (core.Money, error) {
	for {
		text, err := s.ask(prompt)
		if err != nil {
			return core.Money{}, err
		}
		m, err := core.ParseAmount(text)
		if err == nil {
			return m, nil
		}
		s.logger.Debug("Rejected amount input", "input", text, "error", err)
		fmt.Fprintln(s.out, "Invalid amount, please enter a non-negative number (e.g. 12.50).")
	}
}

// askDate reads a free-text date, falling back to today when left empty.
func (s *Shell) askDate() (string, error) {
	text, err := s.ask(fmt.Sprintf("Enter the date (%s, or press Enter for today): ", layoutHint(s.dateLayout)))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return s.now().Format(s.dateLayout), nil
	}
	return text, nil
}

var hintReplacer = strings.NewReplacer("2006", "YYYY", "06", "YY", "01", "MM", "02", "DD")

// layoutHint turns a Go reference layout into the DD-MM-YYYY style users
// expect to read.
func layoutHint(layout string) string {
	return hintReplacer.Replace(layout)
}
