package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execFunc runs one parsed command line.
type execFunc func(ctx context.Context, args []string) error

// runREPL starts a read–eval–print loop over reader.
//
// Each line is split into arguments and handed to exec. "exit" and "quit"
// leave the loop, as do EOF and ctx cancellation. Errors from exec are
// printed and the loop goes on. The prompt is written only when prompt is
// true, so piped input produces clean output.
func runREPL(ctx context.Context, exec execFunc, statusFn func() string, reader *bufio.Reader, w io.Writer, prompt bool) {
	for {
		if ctx.Err() != nil {
			return
		}
		if prompt {
			fmt.Fprintf(w, "ecosync %s> ", statusFn())
		}

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		args, perr := splitArgs(strings.TrimSpace(line))
		switch {
		case perr != nil:
			fmt.Fprintln(w, "error:", perr)
		case len(args) == 0:
		case args[0] == "exit" || args[0] == "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			if xerr := exec(ctx, args); xerr != nil && !errors.Is(xerr, ErrReported) {
				fmt.Fprintln(w, "error:", xerr)
			}
		}

		if err != nil {
			return
		}
	}
}
