package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treetable/internal/cli"
	terrors "github.com/matzehuels/treetable/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err == nil {
		return
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Error:", terrors.UserMessage(err))
	}
	os.Exit(exitCode(err))
}

// exitCode maps an error to a process status: 130 for an interrupt, 2 for
// bad input, 1 for anything else.
func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return 130
	case terrors.IsValidation(err):
		return 2
	default:
		return 1
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true

	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")

	// Raise the level before the root hook loads the config, so its debug
	// lines show up.
	setup := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return setup(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
