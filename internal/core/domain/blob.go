package domain

// BlobEntry is one permutation's contribution to a container.
type BlobEntry struct {
	// FileBase is the permutation artifact path without extension.
	FileBase string

	// Permutation is the combined-define key used as the record label.
	Permutation string
}

// BlobGroup collects every permutation of one logical shader that shares a
// base output file. Groups are built during planning and consumed exactly
// once by the container assembler after the compile phase.
type BlobGroup struct {
	// FileBase is the container path without extension.
	FileBase string

	// Entries are in planning order.
	Entries []BlobEntry
}

// Plan is the output of the planning phase: the stale tasks to compile and
// the container groups they belong to. It is complete before the compile
// phase starts and read-only afterwards.
type Plan struct {
	Tasks []*Task
	Blobs []*BlobGroup
}
