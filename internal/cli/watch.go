package cli

import (
	"github.com/spf13/cobra"
)

func (c *Command) newWatchCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Apply the configuration file and re-apply it whenever it changes",
		Long: `Apply the configuration file, then keep running and re-apply it after
every change until interrupted. Failures after the first apply are
logged and watching continues.`,
		Args: cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			path := c.settingsFile(cmd, "file")
			if err := c.escalate(); err != nil {
				return err
			}
			c.app.Logger().Info("watching configuration file", "file", path)
			return c.app.Watch(cmd.Context(), path)
		}),
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the config file")
	return cmd
}
