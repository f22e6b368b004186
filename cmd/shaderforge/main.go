// Package main is the entry point for the shaderforge build tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"go.trai.ch/shaderforge/cmd/shaderforge/commands"
	"go.trai.ch/shaderforge/internal/app"
	"go.trai.ch/shaderforge/internal/core/domain"
	_ "go.trai.ch/shaderforge/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	// An interrupt cancels the context; workers notice between tasks.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBuildFailed) {
			// Failures were already reported per task.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
