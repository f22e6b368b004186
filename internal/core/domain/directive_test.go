package domain_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.trai.ch/shaderforge/internal/core/domain"
)

func TestCombinedDefines_OrderIsSignificant(t *testing.T) {
	a := domain.Directive{Defines: []string{"A=1", "B=0"}}
	b := domain.Directive{Defines: []string{"B=0", "A=1"}}

	assert.Equal(t, "A=1 B=0", a.CombinedDefines())
	assert.NotEqual(t, a.CombinedDefines(), b.CombinedDefines())
}

func TestPermutationHash_Deterministic(t *testing.T) {
	assert.Equal(t,
		domain.PermutationHash("A=1 B=0"),
		domain.PermutationHash("A=1 B=0"))
	assert.NotEqual(t,
		domain.PermutationHash("A=1 B=0"),
		domain.PermutationHash("A=0 B=1"))
}

func TestPermutationSuffix_Format(t *testing.T) {
	suffix := domain.PermutationSuffix("SOME_DEFINE=1")
	assert.Regexp(t, regexp.MustCompile(`^_[0-9A-F]{8}$`), suffix)
}
