package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"trendline-overlay/internal/cli"
	"trendline-overlay/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Configuration is loaded by the root command once --config is known.
	if err := cli.NewRootCmd(nil, logging.NewLogger()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
