package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tidemark-labs/cbadv/cmd/cbadv/commands"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// Context cancellation propagates to all commands, including a pending
	// authorization wait.
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := commands.Execute(ctx, os.Args, version, commit); err != nil {
		slog.ErrorContext(ctx, "command failed", "error", err)
		os.Exit(1)
	}
}
