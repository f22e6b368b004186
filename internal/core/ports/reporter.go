package ports

import "go.trai.ch/shaderforge/internal/core/domain"

// Reporter receives per-task progress from the worker pool. Implementations
// must emit each outcome as one atomic write; workers report concurrently
// and partial lines from different tasks must never interleave.
type Reporter interface {
	// TaskCompleted reports a finished task together with the run progress
	// and an optional warning text from the compiler.
	TaskCompleted(task *domain.Task, done, total uint32, diagnostic string)

	// TaskFailed reports a permanently failed task with the compiler's
	// diagnostic output.
	TaskFailed(task *domain.Task, diagnostic string)

	// Infof emits a run-level message, such as the final summary.
	Infof(format string, args ...any)
}
