package dxc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.trai.ch/shaderforge/internal/core/domain"
)

func testTask() *domain.Task {
	return &domain.Task{
		Source:            "Blit.hlsl",
		SourceFile:        "/src/Blit.hlsl",
		Profile:           "ps",
		EntryPoint:        "main",
		Defines:           []string{"MODE=1"},
		CombinedDefines:   "MODE=1",
		OptimizationLevel: 3,
		OutputFileBase:    "/out/Blit_AAAA0000",
	}
}

func testOptions() *domain.Options {
	opts := domain.NewOptions()
	opts.Platform = domain.DXIL
	opts.OutputExt = ".dxil"
	opts.Defines = []string{"GLOBAL=1"}
	opts.IncludeDirs = []string{"/src/include"}
	return opts
}

func TestBuildArgs_DXIL(t *testing.T) {
	c := New(testOptions(), nil)
	args := c.buildArgs(testTask(), "/out/Blit_AAAA0000.dxil")

	assert.Equal(t, "/src/Blit.hlsl", args[0])
	assert.Contains(t, args, "-T")
	assert.Contains(t, args, "ps_6_5")
	assert.Contains(t, args, "-Fo")
	assert.Contains(t, args, "/out/Blit_AAAA0000.dxil")
	assert.Contains(t, args, "MODE=1")
	assert.Contains(t, args, "GLOBAL=1")
	assert.Contains(t, args, "/src/include")
	assert.Contains(t, args, "-O3")
	// Shader model 6_5 allows 16-bit types on the modern backends.
	assert.Contains(t, args, "-enable-16bit-types")
	assert.NotContains(t, args, "-spirv")
}

func TestBuildArgs_DXBCUsesLegacyModel(t *testing.T) {
	opts := testOptions()
	opts.Platform = domain.DXBC
	opts.StripReflection = true

	args := New(opts, nil).buildArgs(testTask(), "/out/Blit.dxbc")

	assert.Contains(t, args, "ps_5_0")
	assert.NotContains(t, args, "-enable-16bit-types")
	assert.Contains(t, args, "-Qstrip_reflect")
}

func TestBuildArgs_SPIRV(t *testing.T) {
	opts := testOptions()
	opts.Platform = domain.SPIRV
	opts.StripReflection = true

	args := New(opts, nil).buildArgs(testTask(), "/out/Blit.spirv")

	assert.Contains(t, args, "-spirv")
	assert.Contains(t, args, "-fspv-target-env=vulkan1.3")
	assert.Contains(t, args, "-fspv-extension=SPV_EXT_descriptor_indexing")
	assert.Contains(t, args, "-fvk-t-shift")
	assert.Contains(t, args, "200")
	// Reflection stripping is a DX-only flag.
	assert.NotContains(t, args, "-Qstrip_reflect")

	// Register shifts are repeated for every descriptor space.
	count := 0
	for _, arg := range args {
		if arg == "-fvk-s-shift" {
			count++
		}
	}
	assert.Equal(t, 8, count)
}

func TestBuildArgs_DebugAndLevelZero(t *testing.T) {
	opts := testOptions()
	opts.PDB = true

	task := testTask()
	task.OptimizationLevel = 0

	args := New(opts, nil).buildArgs(task, "/out/Blit.dxil")

	assert.Contains(t, args, "-Od")
	assert.NotContains(t, args, "-O0")
	assert.Contains(t, args, "-Zi")
	assert.Contains(t, args, "-Zsb")
	assert.Contains(t, args, "-Fd")
}

func TestFilterNoise(t *testing.T) {
	assert.Empty(t, filterNoise("compilation object save succeeded; see /out/x.dxil\n"))
	assert.Empty(t, filterNoise(""))
	assert.Equal(t,
		"warning: something\n",
		filterNoise("warning: something\ncompilation object save succeeded\n"))
}
