package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/journey/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	os.Exit(report(err, os.Stderr))
}

// run executes the CLI with explicit streams for testing.
func run(ctx context.Context, in io.Reader, out, errOut io.Writer, args []string) error {
	cmd := cli.NewRootCommand()
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// report prints errors the commands did not already print and returns the
// process exit code. ExitErrors were reported by the command's formatter;
// anything else (cobra usage errors, unknown commands) is printed here.
func report(err error, errOut io.Writer) int {
	if err == nil {
		return cli.ExitSuccess
	}
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(errOut, err)
	}
	return cli.GetExitCode(err)
}
