package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kombatant/nvidia-oc/internal/app"
	"github.com/kombatant/nvidia-oc/internal/constants"
	"github.com/kombatant/nvidia-oc/internal/errors"
)

// annotationSkipInit marks commands that run without loading config or
// building the application components.
const annotationSkipInit = "nvidia_oc/skip-init"

// Options configures the command tree.
type Options struct {
	// Args are the process arguments without the program name. They are
	// handed to the privilege helper when a command needs root.
	Args []string

	// Executable resolves the program path written into the unit file.
	// os.Executable when nil.
	Executable func() (string, error)
}

// Command is the nvidia_oc command tree bound to an application.
type Command struct {
	app     *app.App
	opts    Options
	root    *cobra.Command
	global  GlobalFlags
	file    string
	gui     bool
	running bool
}

// New builds the command tree.
func New(a *app.App, opts Options) *Command {
	if opts.Executable == nil {
		opts.Executable = os.Executable
	}
	c := &Command{app: a, opts: opts}

	root := &cobra.Command{
		Use:   constants.AppName,
		Short: constants.AppDescription,
		Long: constants.AppDescription + `

Without a command, every parameter set in the configuration file
(--file) is applied to its GPU.`,
		Version:           a.Version(),
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		TraverseChildren:  true,
		PersistentPreRunE: c.initialize,
		RunE:              c.run(c.runDefault),
	}
	root.SetVersionTemplate(c.versionString())
	root.CompletionOptions.DisableDefaultCmd = true

	c.global.register(root.PersistentFlags())
	root.Flags().StringVarP(&c.file, "file", "f", constants.DefaultSettingsFile, "Path to the config file")
	root.Flags().BoolVar(&c.gui, "gui", false, "Launch the interactive interface")

	root.AddCommand(
		c.newSetCmd(),
		c.newGetCmd(),
		c.newCompletionCmd(),
		c.newServiceCmd(),
		c.newWatchCmd(),
		c.newVersionCmd(),
	)

	c.root = root
	return c
}

// Cobra returns the underlying root command.
func (c *Command) Cobra() *cobra.Command { return c.root }

// Execute runs the command line args. Errors raised before a command
// starts running (unknown command, bad or missing flags) are reported
// as usage errors.
func (c *Command) Execute(ctx context.Context, args []string) error {
	c.running = false
	if args == nil {
		args = []string{}
	}
	c.root.SetArgs(args)

	err := c.root.ExecuteContext(ctx)
	if err == nil || c.running {
		return err
	}
	var e *errors.Error
	var fe *FlagError
	if stderrors.As(err, &e) || stderrors.As(err, &fe) {
		return err
	}
	return &usageError{err: err}
}

// IsUsageError reports whether err came from command-line parsing.
func IsUsageError(err error) bool {
	var ue *usageError
	return stderrors.As(err, &ue)
}

func (c *Command) initialize(cmd *cobra.Command, _ []string) error {
	if err := c.global.Validate(); err != nil {
		return err
	}
	if cmd.Annotations[annotationSkipInit] == "true" {
		return nil
	}
	return c.app.Initialize(cmd.Context(), app.InitOptions{
		ConfigPath: c.global.ConfigFile,
		Overrides:  c.global.Apply,
		Console:    cmd.ErrOrStderr(),
	})
}

// run marks the command as running before calling fn.
func (c *Command) run(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c.running = true
		return fn(cmd, args)
	}
}

// escalate re-executes the process as root through the privilege
// helper. It returns only when already root or on failure.
func (c *Command) escalate() error {
	priv := c.app.Container().GetPrivilege()
	if priv == nil {
		return errors.ErrNoElevation
	}
	if !priv.IsRoot() {
		c.app.Logger().Debug("escalating privileges", "helper", priv.Method())
	}
	return priv.Escalate(c.opts.Args)
}

// settingsFile returns --file when given to cmd or ahead of the command
// name, otherwise the configured default.
func (c *Command) settingsFile(cmd *cobra.Command, name string) string {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return f.Value.String()
	}
	if f := cmd.Root().Flags().Lookup(name); f != nil && f.Changed {
		return f.Value.String()
	}
	return c.app.Config().SettingsFile
}

func (c *Command) runDefault(cmd *cobra.Command, _ []string) error {
	path := c.settingsFile(cmd, "file")

	f, err := c.app.LoadFile(path)
	if err != nil {
		return err
	}
	if err := c.escalate(); err != nil {
		return err
	}
	if err := c.app.ApplySets(cmd.Context(), f); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Successfully set GPU parameters.")
	return nil
}

func (c *Command) versionString() string {
	return fmt.Sprintf("%s version %s\n  Build time: %s\n  Git commit: %s\n",
		constants.AppName, c.app.Version(), c.app.BuildTime(), c.app.GitCommit())
}
