package main

import (
	"os"

	"github.com/de-tools/speed-report/pkg/runtime/terminal"
)

var version = "dev"

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Output:  os.Stdout,
		ErrOut:  os.Stderr,
		Version: version,
	})

	if err := cli.Execute(); err != nil {
		terminal.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
