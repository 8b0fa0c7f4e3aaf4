package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kombatant/nvidia-oc/internal/app"
	"github.com/kombatant/nvidia-oc/internal/constants"
	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/exec"
	"github.com/kombatant/nvidia-oc/internal/launcher"
	"github.com/kombatant/nvidia-oc/internal/ui"
)

// GUI hosts the interactive front-end in the re-executed child.
type GUI struct {
	app        *app.App
	stderr     io.Writer
	executable func() (string, error)
	run        func(context.Context, ui.Deps, ui.Options) error
}

// NewGUI creates the front-end runner.
func NewGUI(a *app.App, stderr io.Writer) *GUI {
	return &GUI{app: a, stderr: stderr, executable: os.Executable, run: ui.Run}
}

// Run initializes the application without console logging and blocks
// in the UI until the user quits.
func (g *GUI) Run(ctx context.Context, args []string) int {
	err := g.app.Run(ctx, func(ctx context.Context) error {
		if err := g.app.Initialize(ctx, app.InitOptions{Interactive: true}); err != nil {
			return err
		}
		deps, opts, err := g.wire(args)
		if err != nil {
			return err
		}
		return g.run(ctx, deps, opts)
	})
	if err != nil {
		fmt.Fprintf(g.stderr, "Error: %s\n", errors.UserMessage(err))
		return constants.ExitError.Int()
	}
	return constants.ExitSuccess.Int()
}

func (g *GUI) wire(args []string) (ui.Deps, ui.Options, error) {
	c := g.app.Container()
	cfg := g.app.Config()

	exe, err := g.executable()
	if err != nil {
		return ui.Deps{}, ui.Options{}, errors.Wrap(errors.Execution, "failed to resolve executable path", err).WithOp("main.GUI")
	}

	deps := ui.Deps{
		Library:  c.GetGPU(),
		Executor: c.GetExecutor(),
		Lister:   c.GetSMI(),
		Logger:   g.app.Logger(),
	}
	if svc := c.GetService(); svc != nil {
		deps.Service = svc
	}
	opts := ui.Options{
		Version:       g.app.Version(),
		Program:       exe,
		SettingsFile:  launcher.FileArg(args, cfg.SettingsFile),
		Theme:         cfg.Theme,
		PollInterval:  cfg.PollInterval,
		FrameInterval: cfg.FrameInterval,
		HistorySize:   cfg.HistorySize,
	}
	return deps, opts, nil
}

// spawnGUI re-executes the binary as the UI child and returns its exit
// code.
func spawnGUI(ctx context.Context, args []string) int {
	exe, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve executable path: %v\n", err)
		return constants.ExitError.Int()
	}
	code, err := launcher.Spawn(ctx, exec.NewExecutor(exec.DefaultOptions(), nil), exe, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.UserMessage(err))
	}
	return code
}
