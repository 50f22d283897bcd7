package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/engine"
)

// Set via -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("Error: ")+err.Error())
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes configuration problems from runtime failures.
func exitCode(err error) int {
	if engine.IsConfigurationError(err) {
		return 2
	}
	return 1
}
