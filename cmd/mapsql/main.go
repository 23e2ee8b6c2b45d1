// Command mapsql compiles column mapping specifications into SQL.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan2951/mapping-specs/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands report ExitErrors themselves; argument and usage errors
		// from cobra are printed here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
