package deps_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/shaderforge/internal/core/domain"
	"go.trai.ch/shaderforge/internal/engine/deps"
)

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestHierarchicalTime_NewestIncludeWins(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-2 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)

	writeFile(t, filepath.Join(dir, "common.hlsli"), "float4 c;\n", newer)
	writeFile(t, filepath.Join(dir, "shader.hlsl"), `#include "common.hlsli"`+"\n", old)

	oracle := deps.NewOracle(nil, nil)
	got, err := oracle.HierarchicalTime(filepath.Join(dir, "shader.hlsl"))
	require.NoError(t, err)
	assert.True(t, got.Equal(newer), "expected the include's mtime to govern")
}

func TestHierarchicalTime_TransitiveAndAngleForm(t *testing.T) {
	dir := t.TempDir()
	includeDir := filepath.Join(dir, "inc")
	t0 := time.Now().Add(-3 * time.Hour)
	t1 := time.Now().Add(-1 * time.Hour)

	writeFile(t, filepath.Join(includeDir, "deep.hlsli"), "int d;\n", t1)
	writeFile(t, filepath.Join(dir, "mid.hlsli"), "#include <deep.hlsli>\n", t0)
	writeFile(t, filepath.Join(dir, "shader.hlsl"), `#include "mid.hlsli"`+"\n", t0)

	oracle := deps.NewOracle([]string{includeDir}, nil)
	got, err := oracle.HierarchicalTime(filepath.Join(dir, "shader.hlsl"))
	require.NoError(t, err)
	assert.True(t, got.Equal(t1))
}

func TestHierarchicalTime_RelaxedIncludeIgnored(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-2 * time.Hour)

	// The relaxed include does not even exist on disk.
	writeFile(t, filepath.Join(dir, "shader.hlsl"), `#include "generated.hlsli"`+"\n", old)

	oracle := deps.NewOracle(nil, []string{"generated.hlsli"})
	got, err := oracle.HierarchicalTime(filepath.Join(dir, "shader.hlsl"))
	require.NoError(t, err)
	assert.True(t, got.Equal(old))
}

func TestHierarchicalTime_MissingInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shader.hlsl"), `#include "nope.hlsli"`+"\n", time.Now())

	oracle := deps.NewOracle(nil, nil)
	_, err := oracle.HierarchicalTime(filepath.Join(dir, "shader.hlsl"))
	assert.ErrorIs(t, err, domain.ErrIncludeNotFound)
}

func TestHierarchicalTime_CycleDetected(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeFile(t, filepath.Join(dir, "a.hlsli"), `#include "b.hlsli"`+"\n", now)
	writeFile(t, filepath.Join(dir, "b.hlsli"), `#include "a.hlsli"`+"\n", now)

	oracle := deps.NewOracle(nil, nil)
	_, err := oracle.HierarchicalTime(filepath.Join(dir, "a.hlsli"))
	assert.ErrorIs(t, err, domain.ErrIncludeCycle)
}

func TestHierarchicalTime_Memoized(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-2 * time.Hour)
	file := filepath.Join(dir, "shader.hlsl")
	writeFile(t, file, "float4 x;\n", old)

	oracle := deps.NewOracle(nil, nil)
	first, err := oracle.HierarchicalTime(file)
	require.NoError(t, err)

	// A later touch is invisible to the same oracle instance.
	require.NoError(t, os.Chtimes(file, time.Now(), time.Now()))
	second, err := oracle.HierarchicalTime(file)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}
