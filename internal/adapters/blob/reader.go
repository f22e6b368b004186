package blob

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/shaderforge/internal/core/domain"
)

// Entry describes one record of a container.
type Entry struct {
	Permutation string
	Size        uint32
}

// List returns the records of a container in file order, without reading
// the payloads into memory.
func List(file string) ([]Entry, error) {
	var entries []Entry
	err := scan(file, func(label string, size uint32, payload io.Reader) (bool, error) {
		entries = append(entries, Entry{Permutation: label, Size: size})
		return false, nil
	})
	return entries, err
}

// Lookup returns the payload stored under the given permutation key. A miss
// reports the keys the container does hold.
func Lookup(file, permutation string) ([]byte, error) {
	var found []byte
	err := scan(file, func(label string, size uint32, payload io.Reader) (bool, error) {
		if label != permutation {
			return false, nil
		}
		found = make([]byte, size)
		if _, err := io.ReadFull(payload, found); err != nil {
			return false, zerr.Wrap(err, "truncated container record")
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		available, _ := List(file)
		labels := make([]string, len(available))
		for i, e := range available {
			labels[i] = "{" + e.Permutation + "}"
		}
		return nil, zerr.With(zerr.With(domain.ErrPermutationNotFound,
			"permutation", permutation), "available", strings.Join(labels, " "))
	}
	return found, nil
}

// scan iterates the container records. The callback may consume the payload
// reader; any remainder is skipped. Returning true stops the scan.
func scan(file string, fn func(label string, size uint32, payload io.Reader) (bool, error)) error {
	f, err := os.Open(file) //nolint:gosec // user supplied lookup target
	if err != nil {
		return zerr.Wrap(err, "can't open container")
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	r := bufio.NewReader(f)

	var signature [8]byte
	if _, err := io.ReadFull(r, signature[:]); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrBadSignature, "file too short"), "file", file)
	}
	if !bytes.Equal(signature[:], Signature[:]) {
		return zerr.With(domain.ErrBadSignature, "file", file)
	}

	for {
		var header [8]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			if err == io.EOF {
				return nil
			}
			return zerr.Wrap(err, "truncated container record")
		}

		labelLen := binary.LittleEndian.Uint32(header[0:])
		payloadLen := binary.LittleEndian.Uint32(header[4:])

		label := make([]byte, labelLen)
		if _, err := io.ReadFull(r, label); err != nil {
			return zerr.Wrap(err, "truncated container record")
		}

		payload := io.LimitReader(r, int64(payloadLen))
		stop, err := fn(string(label), payloadLen, payload)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}

		// Skip whatever the callback left unread.
		if _, err := io.Copy(io.Discard, payload); err != nil {
			return zerr.Wrap(err, "truncated container record")
		}
	}
}
