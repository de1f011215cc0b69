package cmd

import (
	"fmt"

	cli "github.com/spf13/cobra"

	"github.com/odpf/meridian/config"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Use:   "version",
		Short: "Print the version information",
		Run: func(c *cli.Command, args []string) {
			fmt.Printf("meridian %s", config.BuildVersion)
			if config.BuildCommit != "" {
				fmt.Printf(" (%s)", config.BuildCommit)
			}
			if config.BuildDate != "" {
				fmt.Printf(" built on %s", config.BuildDate)
			}
			fmt.Println()
		},
	}
}
