package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownPlatform is returned when the requested platform name is not recognized.
	ErrUnknownPlatform = zerr.New("unknown platform")

	// ErrInvalidOptions is returned when the global option set fails validation.
	ErrInvalidOptions = zerr.New("invalid options")

	// ErrConfigParse is returned when a configuration line cannot be parsed.
	ErrConfigParse = zerr.New("can't parse config line")

	// ErrUnterminatedGroup is returned when a '{' choice group is never closed.
	ErrUnterminatedGroup = zerr.New("missing '}'")

	// ErrUnexpectedElse is returned for an '#else' without a matching '#ifdef'/'#if'.
	ErrUnexpectedElse = zerr.New("unexpected '#else'")

	// ErrUnexpectedEndif is returned for an '#endif' without a matching '#ifdef'/'#if'.
	ErrUnexpectedEndif = zerr.New("unexpected '#endif'")

	// ErrIncludeNotFound is returned when an include name resolves to no existing file.
	ErrIncludeNotFound = zerr.New("can't find include file")

	// ErrIncludeCycle is returned when the include graph re-enters a file
	// that is still being scanned.
	ErrIncludeCycle = zerr.New("include cycle detected")

	// ErrDuplicatePermutation is returned when two directives contribute the
	// same combined-define key to one container group.
	ErrDuplicatePermutation = zerr.New("duplicate permutation in container group")

	// ErrMixedBlobGroup is returned when a define-less permutation is grouped
	// with defined permutations under one container.
	ErrMixedBlobGroup = zerr.New("container group mixes define-less and defined permutations")

	// ErrBlobAssembly is returned when a container cannot be assembled from
	// its permutation artifacts.
	ErrBlobAssembly = zerr.New("container assembly failed")

	// ErrBadSignature is returned when a container file does not start with
	// the expected signature bytes.
	ErrBadSignature = zerr.New("not a shader container file")

	// ErrPermutationNotFound is returned when a container holds no record for
	// the requested permutation label.
	ErrPermutationNotFound = zerr.New("permutation not found in container")

	// ErrBuildFailed is returned when at least one task failed permanently or
	// the run was terminated.
	ErrBuildFailed = zerr.New("build failed")
)
