// Package main is the entry point for the retest test selection tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/retest/cmd/retest/commands"
	"go.trai.ch/retest/internal/app"
	"go.trai.ch/retest/internal/core/domain"
	_ "go.trai.ch/retest/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*app.App)) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	// Node outputs depend on the working directory, so nothing is cached across executions.
	components, _, err := graft.ExecuteFor[*app.Components](ctx, graft.DisableCache())
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	// Apply options
	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		// Failures and inaccurate verifications are already in the report.
		if errors.Is(err, domain.ErrTestsFailed) || errors.Is(err, domain.ErrVerificationFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
