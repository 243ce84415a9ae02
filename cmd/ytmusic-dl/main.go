package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(&options{}).ExecuteContext(ctx); err != nil {
		newPrinter(os.Stderr, false).errorf("%v", err)
		stop()
		os.Exit(1)
	}
}
