package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// readPassword is replaced in tests.
var readPassword = term.ReadPassword

// Accepted departure formats, most specific first.
var dateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ReadLine shows label on w, then returns the next line from r with
// surrounding whitespace removed. A last line without a newline is accepted.
func ReadLine(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s\n> ", label)

	line, err := r.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	default:
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadSecret shows label on w and reads the answer from the terminal
// without echo. Callers wipe the result with common.WipeByteArray.
func ReadSecret(w io.Writer, label string) ([]byte, error) {
	fmt.Fprintf(w, "%s: ", label)
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return secret, nil
}

// ParseDeparture reads a local date ("2006-01-02") or date and time
// ("2006-01-02 15:04").
func ParseDeparture(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid departure %q, expected YYYY-MM-DD [HH:MM]", s)
}
