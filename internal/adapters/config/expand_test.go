package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/shaderforge/internal/adapters/config"
	"go.trai.ch/shaderforge/internal/core/domain"
)

func expand(t *testing.T, text string) []string {
	t.Helper()
	result, err := config.Expand(config.Line{Text: text, Number: 1})
	require.NoError(t, err)
	return result
}

func TestExpand_NoGroups(t *testing.T) {
	assert.Equal(t, []string{"Blit.hlsl -T ps"}, expand(t, "Blit.hlsl -T ps"))
}

func TestExpand_SingleGroup(t *testing.T) {
	assert.Equal(t,
		[]string{"s.hlsl -T ps -D A=0", "s.hlsl -T ps -D A=1"},
		expand(t, "s.hlsl -T ps -D A={0,1}"))
}

func TestExpand_MultipleGroupsKeepLeftToRightOrder(t *testing.T) {
	assert.Equal(t, []string{
		"s.hlsl -D X=0 -D Y=A",
		"s.hlsl -D X=0 -D Y=B",
		"s.hlsl -D X=1 -D Y=A",
		"s.hlsl -D X=1 -D Y=B",
	}, expand(t, "s.hlsl -D X={0,1} -D Y={A,B}"))
}

func TestExpand_NestedGroups(t *testing.T) {
	// The inner group belongs to the first alternative only.
	assert.Equal(t,
		[]string{"pre-a1-post", "pre-a2-post", "pre-b-post"},
		expand(t, "pre-{a{1,2},b}-post"))
}

func TestExpand_TopLevelBraceAndCommaAreLiteral(t *testing.T) {
	assert.Equal(t, []string{"s.hlsl -D LIST=a,b}"}, expand(t, "s.hlsl -D LIST=a,b}"))
}

func TestExpand_UnterminatedGroup(t *testing.T) {
	_, err := config.Expand(config.Line{Text: "s.hlsl -D A={0,1", Number: 7})
	assert.ErrorIs(t, err, domain.ErrUnterminatedGroup)
}

func TestExpand_EmptyAlternative(t *testing.T) {
	assert.Equal(t, []string{"s.hlsl", "s.hlsl -D A"}, expand(t, "s.hlsl{, -D A}"))
}
