package ports

import "go.trai.ch/shaderforge/internal/core/domain"

// ArtifactWriter persists a compiled payload according to the requested
// output kinds (binary file, header file, container member).
//
//go:generate go run go.uber.org/mock/mockgen -source=artifacts.go -destination=mocks/mock_artifacts.go -package=mocks
type ArtifactWriter interface {
	// WriteArtifacts writes the task's output files from the payload bytes.
	WriteArtifacts(task *domain.Task, payload []byte) error
}
