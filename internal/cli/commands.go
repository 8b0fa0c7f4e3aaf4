package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kombatant/nvidia-oc/internal/errors"
)

const successMessage = "Successfully set GPU parameters."

func (c *Command) newSetCmd() *cobra.Command {
	var flags SetFlags

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Sets GPU parameters like frequency offset and power limit",
		Example: `  nvidia_oc set --index 0 --freq-offset 160 --mem-offset 850 --power-limit 200000
  nvidia_oc set -i 0 --min-clock 0 --max-clock 2000`,
		Args: cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			s := flags.Settings(cmd.Flags())
			if err := s.Validate(); err != nil {
				return err
			}
			if err := c.escalate(); err != nil {
				return err
			}
			if err := c.app.ApplySettings(cmd.Context(), flags.Index, s); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successMessage)
			return nil
		}),
	}

	flags.register(cmd.Flags())
	_ = cmd.MarkFlagRequired(flagIndex)
	cmd.MarkFlagsOneRequired(valueFlags...)
	cmd.MarkFlagsRequiredTogether(flagMinClock, flagMaxClock)
	cmd.MarkFlagsRequiredTogether(flagMinMemClock, flagMaxMemClock)
	return cmd
}

func (c *Command) newGetCmd() *cobra.Command {
	var index uint32

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Gets GPU parameters",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			readout, err := c.app.Query(cmd.Context(), index)
			if err != nil {
				return err
			}
			for _, line := range readout.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			for _, e := range readout.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), e)
			}
			return nil
		}),
	}

	cmd.Flags().Uint32VarP(&index, flagIndex, "i", 0, "GPU index")
	_ = cmd.MarkFlagRequired(flagIndex)
	return cmd
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

func (c *Command) newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "completion [bash|zsh|fish|powershell]",
		Short:       "Generate shell completion scripts",
		Annotations: map[string]string{annotationSkipInit: "true"},
		ValidArgs:   completionShells,
		Args:        cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return errors.Newf(errors.Validation, "unsupported shell %q", args[0])
		}),
	}
}

func (c *Command) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{annotationSkipInit: "true"},
		Args:        cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), c.versionString())
			return nil
		}),
	}
}
