package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/shaderforge/cmd/shaderforge/commands"
	"go.trai.ch/shaderforge/internal/adapters/blob"
	"go.trai.ch/shaderforge/internal/core/domain"
	"go.trai.ch/shaderforge/internal/core/ports/mocks"
)

// writeContainer assembles a two-permutation container for the CLI to read.
func writeContainer(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	opts := domain.NewOptions()
	opts.Platform = domain.DXIL
	opts.OutputDir = dir
	opts.OutputExt = ".dxil"
	opts.Blob = true

	base0 := filepath.Join(dir, "Blit_AAAA0000")
	base1 := filepath.Join(dir, "Blit_BBBB1111")
	require.NoError(t, os.WriteFile(base0+".dxil", []byte{1, 2, 3}, 0o600))
	require.NoError(t, os.WriteFile(base1+".dxil", []byte{4, 5}, 0o600))

	group := &domain.BlobGroup{
		FileBase: filepath.Join(dir, "Blit"),
		Entries: []domain.BlobEntry{
			{FileBase: base0, Permutation: "MODE=0"},
			{FileBase: base1, Permutation: "MODE=1"},
		},
	}

	logger := mocks.NewMockLogger(gomock.NewController(t))
	require.NoError(t, blob.NewAssembler(opts, logger).Assemble([]*domain.BlobGroup{group}))
	return group.FileBase + ".dxil"
}

func TestLookupCommand_ExtractsPermutation(t *testing.T) {
	container := writeContainer(t)
	outFile := filepath.Join(t.TempDir(), "extracted.bin")

	cli := commands.New(nil)
	cli.SetArgs([]string{"lookup", container, "MODE=0", "-o", outFile})
	require.NoError(t, cli.Execute(context.Background()))

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestLookupCommand_UnknownPermutation(t *testing.T) {
	container := writeContainer(t)

	cli := commands.New(nil)
	cli.SetArgs([]string{"lookup", container, "MODE=9"})

	err := cli.Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrPermutationNotFound)
}
