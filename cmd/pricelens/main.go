// Command pricelens charts AI model pricing from a CSV file.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rshade/pricelens/internal/cli"
	"github.com/rshade/pricelens/pkg/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stderr io.Writer) int {
	root := cli.NewRootCmd(version.String())
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
