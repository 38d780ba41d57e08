package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"wdp.dev/cli/internal/interfaces/cli"
	"wdp.dev/cli/internal/interfaces/di"
)

func main() {
	// Interrupts end the run as a cancelled session: the open connection is
	// closed with a normal close frame before the command returns.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx, di.NewContainer(os.Stdout, os.Stderr).GetCLIContainer())
}
