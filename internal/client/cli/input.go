package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// isTerminal and getSize are test seams for golang.org/x/term.
var (
	isTerminal = term.IsTerminal
	getSize    = term.GetSize
)

// terminalWidth returns the column count of f, or 0 when f is not a
// terminal.
func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !isTerminal(fd) {
		return 0
	}
	w, _, err := getSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askIfEmpty prompts for *v when it is blank.
func (a *App) askIfEmpty(v *string, prompt string) error {
	if strings.TrimSpace(*v) != "" {
		return nil
	}
	text, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return fmt.Errorf("read %s: %w", strings.ToLower(prompt), err)
	}
	*v = text
	return nil
}

var errUnterminatedQuote = errors.New("unterminated quote")

// splitArgs splits a shell line on whitespace. Single or double quotes group
// words; there are no escapes.
func splitArgs(line string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		inArg bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote, inArg = r, true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, errUnterminatedQuote
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
