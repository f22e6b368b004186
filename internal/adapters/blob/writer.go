package blob

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"go.trai.ch/zerr"

	"go.trai.ch/shaderforge/internal/core/domain"
	"go.trai.ch/shaderforge/internal/core/ports"
)

// Assembler packs compiled permutations into container files. It runs after
// the compile phase, single-threaded, and only when every task succeeded.
type Assembler struct {
	opts   *domain.Options
	logger ports.Logger
}

// NewAssembler creates an Assembler for the given run options.
func NewAssembler(opts *domain.Options, logger ports.Logger) *Assembler {
	return &Assembler{opts: opts, logger: logger}
}

// Assemble builds the container for every group, emits container headers if
// requested, and removes the per-permutation intermediates unless plain
// binaries were requested too.
func (a *Assembler) Assemble(groups []*domain.BlobGroup) error {
	for _, group := range groups {
		if err := a.assembleGroup(group); err != nil {
			if !a.opts.ContinueOnError {
				return err
			}
			a.logger.Warn(err.Error())
		}
	}
	return nil
}

func (a *Assembler) assembleGroup(group *domain.BlobGroup) error {
	blobFile := group.FileBase + a.opts.OutputExt

	// A single permutation without defines compiles straight to the
	// container path already; wrapping it would only add overhead for
	// consumers that look up the empty key.
	if len(group.Entries) == 1 && group.Entries[0].Permutation == "" {
		if a.opts.BlobHeader {
			payload, err := os.ReadFile(blobFile) //nolint:gosec // path is derived from the build plan
			if err != nil {
				return zerr.With(zerr.Wrap(err, "can't read shader binary"), "file", blobFile)
			}
			return WriteHeader(blobFile, payload)
		}
		return nil
	}

	// Groups mixing a define-less permutation with hashed ones would have
	// that permutation's binary collide with the container path.
	for _, entry := range group.Entries {
		if entry.Permutation == "" {
			return zerr.With(domain.ErrMixedBlobGroup, "blob", blobFile)
		}
	}

	if err := a.writeContainer(blobFile, group.Entries); err != nil {
		return err
	}

	if a.opts.BlobHeader {
		payload, err := os.ReadFile(blobFile) //nolint:gosec // path is derived from the build plan
		if err != nil {
			return zerr.With(zerr.Wrap(err, "can't read container"), "file", blobFile)
		}
		if err := WriteHeader(blobFile, payload); err != nil {
			return err
		}
	}

	if !a.opts.Binary {
		for _, entry := range group.Entries {
			if err := os.Remove(entry.FileBase + a.opts.OutputExt); err != nil {
				a.logger.Warn("can't remove intermediate shader binary: " + err.Error())
			}
		}
	}

	return nil
}

func (a *Assembler) writeContainer(blobFile string, entries []domain.BlobEntry) error {
	f, err := os.Create(blobFile) //nolint:gosec // path is derived from the build plan
	if err != nil {
		return zerr.With(zerr.Wrap(err, "can't create container"), "file", blobFile)
	}

	w := bufio.NewWriter(f)
	err = writeRecords(w, a.opts.OutputExt, entries)
	if err == nil {
		err = w.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(blobFile)
		return zerr.With(zerr.Wrap(err, "container assembly failed"), "file", blobFile)
	}
	return nil
}

func writeRecords(w io.Writer, ext string, entries []domain.BlobEntry) error {
	if _, err := w.Write(Signature[:]); err != nil {
		return err
	}

	for _, entry := range entries {
		payload, err := os.ReadFile(entry.FileBase + ext) //nolint:gosec // path is derived from the build plan
		if err != nil {
			return zerr.Wrap(err, "can't read permutation binary")
		}
		if err := writeRecord(w, entry.Permutation, payload); err != nil {
			return zerr.With(err, "permutation", entry.Permutation)
		}
	}

	return nil
}

func writeRecord(w io.Writer, label string, payload []byte) error {
	if len(label) > math.MaxUint32 || len(payload) > math.MaxUint32 {
		return zerr.Wrap(domain.ErrBlobAssembly, "record too large")
	}

	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:], uint32(len(label)))
	binary.LittleEndian.PutUint32(header[4:], uint32(len(payload)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(w, label); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
