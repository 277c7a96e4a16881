package main

import (
	"fmt"
	"os"

	"vila-timesheet/internal/cli"
	"vila-timesheet/internal/config"
)

func main() {
	root := cli.NewRootCommand(config.NewLoader(), cli.BuildApp)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
