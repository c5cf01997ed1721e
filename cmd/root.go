// Package cmd implements the review-responder command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
)

// configPath holds the --config flag shared by every subcommand.
var configPath string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "review-responder",
		Short:         "Drafts and verifies replies to customer reviews",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default is $CONFIG_PATH or ./config.yml)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newProcessCommand())
	root.AddCommand(newMigrateCommand())
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitSuccess
}
