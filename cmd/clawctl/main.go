// Command clawctl is the command-line client for the Clawnch platform.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clawnch/clawctl/internal/cli"
	clawerr "github.com/clawnch/clawctl/pkg/errors"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130 // 128 + SIGINT
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose, quiet bool
	pf := root.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "log requests, receipts and timings")
	pf.BoolVarP(&quiet, "quiet", "q", false, "log warnings and errors only")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// The level must be set before the root pre-run hands the logger to commands.
	next := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch {
		case verbose:
			c.SetLogLevel(cli.LogDebug)
		case quiet:
			c.SetLogLevel(cli.LogWarn)
		}
		if next == nil {
			return nil
		}
		return next(cmd, args)
	}

	err := root.ExecuteContext(ctx)
	if merr := c.WriteMetrics(); merr != nil && err == nil {
		err = merr
	}
	if err == nil {
		return exitOK
	}
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	cli.PrintError(os.Stderr, err)
	return exitCode(err)
}

// exitCode separates mistakes the user can fix by changing the invocation
// or environment from failures of the platform or the chain.
func exitCode(err error) int {
	switch clawerr.GetCode(err) {
	case clawerr.ErrCodeInvalidInput,
		clawerr.ErrCodeInvalidAddress,
		clawerr.ErrCodeInvalidAmount,
		clawerr.ErrCodeInvalidConfig,
		clawerr.ErrCodeWalletRequired,
		clawerr.ErrCodeMoltenKeyRequired:
		return exitUsage
	}
	return exitFailure
}
