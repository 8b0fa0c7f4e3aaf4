package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/service"
)

const flagUnitFile = "unit-file"

func (c *Command) newServiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the systemd unit that applies settings at boot",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		c.newServiceInstallCmd(),
		c.newServiceRemoveCmd(),
		c.newServiceShowCmd(),
	)
	return cmd
}

func (c *Command) newServiceInstallCmd() *cobra.Command {
	var (
		flags    SetFlags
		unitFile string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install or update the unit and (re)start it",
		Example: `  nvidia_oc service install --index 0 --freq-offset 160 --power-limit 200000
  nvidia_oc service install --unit-file /tmp/nvidia_oc.service`,
		Args: cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			var contents string
			if unitFile == "" {
				s := flags.Settings(cmd.Flags())
				if s.IsEmpty() {
					return errors.New(errors.Validation, "at least one parameter flag is required with --index")
				}
				if err := s.Validate(); err != nil {
					return err
				}
				exe, err := c.opts.Executable()
				if err != nil {
					return errors.Wrap(errors.Service, "cannot locate own executable", err)
				}
				contents = service.RenderUnit(service.NewCommand(exe, flags.Index, s))
			}

			if err := c.escalate(); err != nil {
				return err
			}

			mgr := c.app.Container().GetService()
			var (
				action service.Action
				err    error
			)
			if unitFile != "" {
				action, err = mgr.InstallFile(cmd.Context(), unitFile)
			} else {
				action, err = mgr.Install(cmd.Context(), contents)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), action.Message())
			return nil
		}),
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&unitFile, flagUnitFile, "", "install this unit file instead of rendering one")
	cmd.MarkFlagsOneRequired(flagUnitFile, flagIndex)
	cmd.MarkFlagsMutuallyExclusive(flagUnitFile, flagIndex)
	cmd.MarkFlagsRequiredTogether(flagMinClock, flagMaxClock)
	cmd.MarkFlagsRequiredTogether(flagMinMemClock, flagMaxMemClock)
	return cmd
}

func (c *Command) newServiceRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Stop, disable and delete the unit",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			if err := c.escalate(); err != nil {
				return err
			}
			if err := c.app.Container().GetService().Remove(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Service removed.")
			return nil
		}),
	}
}

func (c *Command) newServiceShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the installed unit and the parameters it applies",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			mgr := c.app.Container().GetService()
			contents, err := mgr.Read()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Unit: %s\n", mgr.UnitPath())
			parsed, ok := service.ParseUnitFile(contents)
			if !ok {
				fmt.Fprintln(out, "No ExecStart line found.")
				return nil
			}
			fmt.Fprintf(out, "Command: %s\n", parsed.String())
			if parsed.Index != nil {
				fmt.Fprintf(out, "GPU index: %d\n", *parsed.Index)
			}
			if !parsed.Settings.IsEmpty() {
				fmt.Fprintf(out, "Settings: %s\n", parsed.Settings.String())
			}
			return nil
		}),
	}
}
