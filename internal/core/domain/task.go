package domain

// Task is one unit of scheduled compile work. A task is owned exclusively
// by the worker that popped it from the queue; on a transient launch failure
// ownership moves back to the queue for a retry.
type Task struct {
	// Source is the shader path as written in the config file.
	Source string

	// SourceFile is the resolved on-disk path of the shader.
	SourceFile string

	Profile    string
	EntryPoint string
	Defines    []string

	// CombinedDefines is the permutation label, see Directive.CombinedDefines.
	CombinedDefines string

	OptimizationLevel uint32

	// OutputFileBase is the fully resolved output path without extension.
	// It is unique within a run.
	OutputFileBase string
}
