// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/shaderforge/internal/core/domain"
)

// CompileResult is the outcome of a single compiler invocation.
type CompileResult struct {
	// Succeeded is true when the compiler produced valid output.
	Succeeded bool

	// Payload holds the compiled bytecode on success. The orchestrator
	// never interprets it; it only persists it and packs it into containers.
	Payload []byte

	// Diagnostic is the compiler's combined output, if any.
	Diagnostic string

	// LaunchFailed is true when the compiler process could not be started
	// at all. Launch failures are retried while the run's retry budget
	// lasts; compile failures are permanent.
	LaunchFailed bool
}

// Compiler abstracts the external shader compiler. Workers are
// backend-agnostic; the concrete backend is chosen once at startup.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Invoke compiles one task synchronously. The context is consulted
	// before launching; a compile already in flight is never interrupted.
	Invoke(ctx context.Context, task *domain.Task) CompileResult
}
