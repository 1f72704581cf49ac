package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/mentormatch/internal/common"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text [Y/n] _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+" "); err != nil {
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

type lineResult struct {
	line string
	err  error
}

// readLine is GetSimpleText returning early when ctx is done. End of input
// aborts the run.
func readLine(ctx context.Context, reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	ch := make(chan lineResult, 1)
	go func() {
		line, err := GetSimpleText(reader, prompt, w)
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(w)
		return "", ctx.Err()
	case res := <-ch:
		if errors.Is(res.err, io.EOF) {
			return "", fmt.Errorf("%w: end of input", common.ErrAborted)
		}
		return res.line, res.err
	}
}
