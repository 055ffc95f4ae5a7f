package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/de-tools/speed-report/pkg/runtime/terminal/commands"
	"github.com/de-tools/speed-report/pkg/services/report"
	"github.com/de-tools/speed-report/pkg/store/archive"
	"github.com/de-tools/speed-report/pkg/store/client"
)

// CLI represents the command-line interface
type CLI struct {
	analyzer commands.Analyzer
	archive  report.Archive
	output   io.Writer
	errOut   io.Writer
	version  string
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Analyzer commands.Analyzer
	Archive  report.Archive
	Output   io.Writer
	ErrOut   io.Writer
	Version  string
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	if opts.Analyzer == nil {
		opts.Analyzer = client.NewPageSpeed()
	}
	if opts.Archive == nil {
		opts.Archive = archive.NewStore(archive.Settings{})
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	cli := &CLI{
		analyzer: opts.Analyzer,
		archive:  opts.Archive,
		output:   opts.Output,
		errOut:   opts.ErrOut,
		version:  opts.Version,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// ExecuteContext runs the CLI with args instead of os.Args.
func (cli *CLI) ExecuteContext(ctx context.Context, args ...string) error {
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "speed-report",
		Short:         "PageSpeed Insights reporting tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.output)
	cmd.SetErr(cli.errOut)

	cmd.AddCommand(commands.NewReportCmd(cli.analyzer, cli.archive, cli.output, cli.errOut))
	cmd.AddCommand(commands.NewVersionCmd(cli.version))

	return cmd
}

// PrintError writes err to w. Errors that mark themselves as user-facing are
// printed as is; anything else is prefixed so it reads as a failure.
func PrintError(w io.Writer, err error) {
	var userFacing interface{ NoStack() bool }
	if errors.As(err, &userFacing) && userFacing.NoStack() {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
