package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/spf13/cobra"

	"github.com/odpf/meridian/config"
	"github.com/odpf/meridian/server"
)

func serveCommand() *cli.Command {
	var configFilePath string
	cmd := &cli.Command{
		Use:     "serve",
		Short:   "Starts meridian service",
		Example: "meridian serve",
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", configFilePath, "File path for server configuration")

	cmd.RunE = func(c *cli.Command, args []string) error {
		conf, err := config.LoadServerConfig(configFilePath)
		if err != nil {
			return err
		}

		meridianServer, err := server.New(*conf)
		defer meridianServer.Shutdown()
		if err != nil {
			return fmt.Errorf("unable to create server: %w", err)
		}

		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		<-sigc
		return nil
	}

	return cmd
}
