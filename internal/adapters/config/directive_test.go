package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/shaderforge/internal/adapters/config"
	"go.trai.ch/shaderforge/internal/core/domain"
)

func TestParseDirective_Defaults(t *testing.T) {
	d, err := config.ParseDirective("Shaders/Blit.hlsl -T ps", 4)
	require.NoError(t, err)

	assert.Equal(t, "Shaders/Blit.hlsl", d.Source)
	assert.Equal(t, "ps", d.Profile)
	assert.Equal(t, "main", d.EntryPoint)
	assert.Empty(t, d.Defines)
	assert.Equal(t, domain.UseGlobalOptimization, d.OptimizationLevel)
	assert.Equal(t, 4, d.Line)
}

func TestParseDirective_AllFlags(t *testing.T) {
	d, err := config.ParseDirective(
		"Lighting.hlsl -T cs -E CSMain -D MODE=2 -D FAST -o Compute -O 1", 1)
	require.NoError(t, err)

	assert.Equal(t, "cs", d.Profile)
	assert.Equal(t, "CSMain", d.EntryPoint)
	assert.Equal(t, []string{"MODE=2", "FAST"}, d.Defines)
	assert.Equal(t, "Compute", d.OutputDir)
	assert.Equal(t, uint32(1), d.OptimizationLevel)
}

func TestParseDirective_InlineAndAttachedForms(t *testing.T) {
	d, err := config.ParseDirective("s.hlsl -T=vs -E=VSMain -O2", 1)
	require.NoError(t, err)

	assert.Equal(t, "vs", d.Profile)
	assert.Equal(t, "VSMain", d.EntryPoint)
	assert.Equal(t, uint32(2), d.OptimizationLevel)
}

func TestParseDirective_QuotedOutputDir(t *testing.T) {
	d, err := config.ParseDirective(`s.hlsl -T ps -o "sub dir"`, 1)
	require.NoError(t, err)
	assert.Equal(t, "sub dir", d.OutputDir)
}

func TestParseDirective_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"missing profile", "s.hlsl -E main"},
		{"unknown profile", "s.hlsl -T xx"},
		{"dangling flag", "s.hlsl -T ps -D"},
		{"unrecognized token", "s.hlsl -T ps --bogus"},
		{"bad optimization level", "s.hlsl -T ps -O 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseDirective(tt.text, 1)
			assert.ErrorIs(t, err, domain.ErrConfigParse)
		})
	}
}
