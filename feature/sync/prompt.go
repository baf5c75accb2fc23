package sync

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/VinniZP/lingx/core/reconcile"
)

// TerminalPrompter asks the operator to pick a winner for each conflict on
// the terminal. Implements the engine's Prompter port.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// NewTerminalPrompter creates a prompter over the given streams.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{In: in, Out: out, reader: bufio.NewReader(in)}
}

// Choose shows both values and reads the decision. Accepted answers are
// "l"/"local", "r"/"remote", and "q"/"quit"; an empty or unknown answer asks
// again. Quit and end-of-input cancel the whole session.
func (p *TerminalPrompter) Choose(ctx context.Context, conflict reconcile.Conflict) (reconcile.Winner, error) {
	fmt.Fprintf(p.Out, "\nConflict on %s/%s\n", conflict.Language, conflict.Key)
	fmt.Fprintf(p.Out, "  local:  %q\n", conflict.SourceValue)
	fmt.Fprintf(p.Out, "  remote: %q\n", conflict.TargetValue)

	for {
		if err := ctx.Err(); err != nil {
			return "", reconcile.ErrCancelled
		}

		fmt.Fprint(p.Out, "Keep [l]ocal, keep [r]emote, or [q]uit? ")
		line, err := p.reader.ReadString('\n')
		if err != nil && line == "" {
			return "", reconcile.ErrCancelled
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "l", "local":
			return reconcile.WinnerSource, nil
		case "r", "remote":
			return reconcile.WinnerTarget, nil
		case "q", "quit":
			return "", reconcile.ErrCancelled
		}
		fmt.Fprintln(p.Out, "Please answer l, r, or q.")
	}
}
