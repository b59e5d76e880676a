package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/folio/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Command-level failures already reported themselves through the
		// formatter; anything else (flag errors, bad usage) prints here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
