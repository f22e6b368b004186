package domain

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Directive is one fully expanded configuration line: a single shader /
// entry point / define combination to compile. It is transient and consumed
// by the planner as soon as it is produced.
type Directive struct {
	Source     string
	Profile    string
	EntryPoint string
	Defines    []string

	// OutputDir is an optional per-line subdirectory under the global
	// output directory.
	OutputDir string

	// OptimizationLevel is UseGlobalOptimization unless the line carries
	// an explicit override.
	OptimizationLevel uint32

	// Line is the 1-based config file line the directive came from.
	Line int
}

// CombinedDefines joins the directive's defines with single spaces, in
// their textual order. The key doubles as the permutation label and as the
// permutation hash input, so the order is significant and never canonicalized.
func (d *Directive) CombinedDefines() string {
	return strings.Join(d.Defines, " ")
}

// PermutationHash derives the 32-bit permutation hash of a combined-define
// key by folding the two halves of its 64-bit digest.
func PermutationHash(combinedDefines string) uint32 {
	h := xxhash.Sum64String(combinedDefines)
	return uint32(h) ^ uint32(h>>32)
}

// PermutationSuffix renders the hash as the output file name suffix.
func PermutationSuffix(combinedDefines string) string {
	return fmt.Sprintf("_%08X", PermutationHash(combinedDefines))
}
