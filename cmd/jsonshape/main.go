// Command jsonshape infers structural type catalogs for JSON and YAML
// documents.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/jsonshape/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		// coded errors were already reported by the command's formatter
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
