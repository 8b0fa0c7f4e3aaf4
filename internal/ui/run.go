package ui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/kombatant/nvidia-oc/internal/errors"
)

// ErrNoTerminal is returned by Run when stdout is not a terminal.
var ErrNoTerminal = errors.New(errors.Unsupported, "the interactive mode needs a terminal; use the set, get or service commands instead")

// Run starts the UI on the terminal in the alternate screen and blocks
// until the user quits or ctx is done.
func Run(ctx context.Context, deps Deps, opts Options) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNoTerminal
	}

	model := New(ctx, deps, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()

	if fm, ok := final.(Model); ok {
		fm.Shutdown()
	} else {
		model.Shutdown()
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errors.Wrap(errors.Unknown, "interactive mode failed", err).WithOp("ui.Run")
	}
	return nil
}
