package blob

import (
	"os"

	"go.trai.ch/shaderforge/internal/core/domain"
	"go.trai.ch/shaderforge/internal/core/ports"
)

var _ ports.ArtifactWriter = (*ArtifactStore)(nil)

// ArtifactStore finalizes the per-task outputs after a successful compile.
// The compiler backend leaves the raw binary on disk; the store derives the
// remaining artifacts from the reported payload.
type ArtifactStore struct {
	opts   *domain.Options
	logger ports.Logger
}

// NewArtifactStore creates an ArtifactStore for the given run options.
func NewArtifactStore(opts *domain.Options, logger ports.Logger) *ArtifactStore {
	return &ArtifactStore{opts: opts, logger: logger}
}

// WriteArtifacts implements ports.ArtifactWriter. It is called concurrently
// by workers, but each task owns distinct output paths.
func (s *ArtifactStore) WriteArtifacts(task *domain.Task, payload []byte) error {
	binaryFile := task.OutputFileBase + s.opts.OutputExt

	if s.opts.Header {
		if err := WriteHeader(binaryFile, payload); err != nil {
			return err
		}
	}

	// When only headers were requested the raw binary is an intermediate.
	// Container assembly has its own cleanup after packing.
	if !s.opts.Binary && !s.opts.BlobNeeded() {
		if err := os.Remove(binaryFile); err != nil {
			s.logger.Warn("can't remove intermediate shader binary: " + err.Error())
		}
	}

	return nil
}
