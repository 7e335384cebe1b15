package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/grovetools/watchers/cli"
	"github.com/grovetools/watchers/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		cli.NewErrorHandler(verbose, os.Stderr).Handle(err)
		os.Exit(1)
	}
}
