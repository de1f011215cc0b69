package main

import (
	"fmt"
	"os"

	"github.com/odpf/meridian/cmd"
)

func main() {
	command := cmd.New()
	if err := command.Execute(); err != nil {
		fmt.Printf("ERROR: %s\n", err.Error())
		os.Exit(1)
	}
}
