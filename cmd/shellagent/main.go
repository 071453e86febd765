// Package main provides the shellagent command: it answers a prompt by letting
// a language model run shell commands, subject to a denylist.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Cyclone1070/shellagent/internal/ui"
	"github.com/Cyclone1070/shellagent/internal/workflow/loop"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp(defaultDependencies()).ExecuteContext(ctx)
	stop()

	if err != nil {
		handleExitError(err)
		os.Exit(1)
	}
}

// handleExitError prints err to stderr. A failed run has already been shown
// by the renderer, so only its kind is repeated.
func handleExitError(err error) {
	var f *loop.Failure
	switch {
	case errors.As(err, &f):
		fmt.Fprintf(os.Stderr, "shellagent: run failed (%s)\n", f.Kind)
	case errors.Is(err, ui.ErrInterrupted):
		fmt.Fprintln(os.Stderr, "shellagent: interrupted")
	default:
		fmt.Fprintf(os.Stderr, "shellagent: %v\n", err)
	}
}
