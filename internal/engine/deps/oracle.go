// Package deps computes hierarchical update times over the textual include
// graph of shader sources, which is what the incremental build decisions
// are made from.
package deps

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/shaderforge/internal/core/domain"
)

// includePattern matches both #include "x" and #include <x> forms.
var includePattern = regexp.MustCompile(`^\s*#include\s+["<]([^">]+)[">]`)

// Oracle resolves the hierarchical update time of source files: the maximum
// last-write time over a file and everything it transitively includes.
//
// Times are memoized for the lifetime of the Oracle and never recomputed,
// so staleness decisions stay self-consistent even if files change while a
// run is in progress. The cache is populated during the single-threaded
// planning phase only and needs no locking.
type Oracle struct {
	includeDirs []string
	relaxed     []string
	times       map[string]time.Time
}

// NewOracle creates an Oracle. Include names listed in relaxed are excluded
// from the computation entirely: editing them never triggers a rebuild.
func NewOracle(includeDirs, relaxed []string) *Oracle {
	return &Oracle{
		includeDirs: includeDirs,
		relaxed:     relaxed,
		times:       make(map[string]time.Time),
	}
}

// HierarchicalTime returns the hierarchical update time of the file.
// Unreadable files, unresolvable includes and include cycles are reported
// with the full include call stack.
func (o *Oracle) HierarchicalTime(file string) (time.Time, error) {
	return o.walk(file, nil)
}

func (o *Oracle) walk(file string, callStack []string) (time.Time, error) {
	if t, ok := o.times[file]; ok {
		return t, nil
	}

	if slices.Contains(callStack, file) {
		return time.Time{}, stackError(domain.ErrIncludeCycle, file, callStack)
	}

	info, err := os.Stat(file)
	if err != nil {
		return time.Time{}, stackError(zerr.Wrap(err, "can't open file"), file, callStack)
	}

	f, err := os.Open(file) //nolint:gosec // resolved from user configuration
	if err != nil {
		return time.Time{}, stackError(zerr.Wrap(err, "can't open file"), file, callStack)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	callStack = append(callStack, file)
	updateTime := info.ModTime()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		match := includePattern.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}

		name := match[1]
		if slices.Contains(o.relaxed, name) {
			continue
		}

		included, ok := o.resolve(filepath.Dir(file), name)
		if !ok {
			return time.Time{}, stackError(
				zerr.With(domain.ErrIncludeNotFound, "include", name), file, callStack[:len(callStack)-1])
		}

		dependencyTime, err := o.walk(included, callStack)
		if err != nil {
			return time.Time{}, err
		}
		if dependencyTime.After(updateTime) {
			updateTime = dependencyTime
		}
	}
	if err := scanner.Err(); err != nil {
		return time.Time{}, stackError(zerr.Wrap(err, "can't read file"), file, callStack[:len(callStack)-1])
	}

	o.times[file] = updateTime
	return updateTime, nil
}

// resolve finds an include name first relative to the including file's
// directory, then against the configured include directories in order.
func (o *Oracle) resolve(baseDir, name string) (string, bool) {
	candidate := filepath.Join(baseDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, true
	}

	for _, dir := range o.includeDirs {
		candidate = filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	return "", false
}

func stackError(err error, file string, callStack []string) error {
	err = zerr.With(err, "file", file)
	if len(callStack) > 0 {
		stack := slices.Clone(callStack)
		slices.Reverse(stack)
		err = zerr.With(err, "included_in", strings.Join(stack, " <- "))
	}
	return err
}
