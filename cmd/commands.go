package cmd

import (
	cli "github.com/spf13/cobra"
)

// New constructs the root command housing all sub commands.
func New() *cli.Command {
	cmd := &cli.Command{
		Use:          "meridian",
		Long:         "meridian keeps application config namespaces consistent across environments",
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCommand())
	cmd.AddCommand(versionCommand())
	return cmd
}
