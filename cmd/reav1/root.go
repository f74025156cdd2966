package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const appVersion = "0.1.0"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "reav1",
		Short:         "Parallel AV1 re-encoding pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newEncodeCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "reav1 %s\n", appVersion)
			return nil
		},
	}
}

// execute runs the root command under a context cancelled on SIGINT/SIGTERM
// (§7: "Signals SIGINT/SIGSEGV run a terminal-restore handler and exit
// 130"). Go programs cannot catch SIGSEGV as a recoverable signal the way a
// native process can, so this handles the portable equivalent: a clean,
// immediate cancellation on interrupt.
func execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if ctx.Err() != nil {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
