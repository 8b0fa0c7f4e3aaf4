package main

import (
	"context"
	"fmt"
	"io"

	"github.com/kombatant/nvidia-oc/internal/app"
	"github.com/kombatant/nvidia-oc/internal/cli"
	"github.com/kombatant/nvidia-oc/internal/constants"
	"github.com/kombatant/nvidia-oc/internal/errors"
)

// CLI runs the nvidia_oc command tree and turns its result into an
// exit code.
type CLI struct {
	app    *app.App
	stderr io.Writer
}

// NewCLI creates a CLI bound to an application.
func NewCLI(a *app.App, stderr io.Writer) *CLI {
	return &CLI{app: a, stderr: stderr}
}

// Run parses and executes args. It returns an exit code suitable for
// os.Exit().
func (c *CLI) Run(ctx context.Context, args []string) int {
	cmd := cli.New(c.app, cli.Options{Args: args})
	err := c.app.Run(ctx, func(ctx context.Context) error {
		return cmd.Execute(ctx, args)
	})
	if err == nil {
		return constants.ExitSuccess.Int()
	}

	c.report(err)
	if cli.IsUsageError(err) {
		fmt.Fprintf(c.stderr, "Run '%s --help' for usage.\n", constants.AppName)
	}
	return cli.ExitCodeFor(err).Int()
}

func (c *CLI) report(err error) {
	c.app.Logger().Debug("command failed", "error", err)
	fmt.Fprintf(c.stderr, "Error: %s\n", errors.UserMessage(err))
}
