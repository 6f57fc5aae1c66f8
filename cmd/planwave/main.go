package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/felixgeelhaar/planwave/internal/infrastructure/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		var cliErr *cli.CLIError
		if errors.As(err, &cliErr) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", cliErr.Message)
			if cliErr.Hint != "" {
				fmt.Fprintf(os.Stderr, "Hint:  %s\n", cliErr.Hint)
			}
			os.Exit(cliErr.ExitCode)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
