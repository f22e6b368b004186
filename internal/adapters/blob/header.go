package blob

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// maxHeaderLineLength caps the emitted byte-array lines. Chosen to keep the
// generated headers diffable in ordinary editors.
const maxHeaderLineLength = 129

// WriteHeader emits a C header next to dataFile declaring its contents as a
// byte array. The array is named after the file, with every character that
// is not valid in an identifier replaced by an underscore.
func WriteHeader(dataFile string, payload []byte) error {
	f, err := os.Create(dataFile + ".h") //nolint:gosec // path is derived from the build plan
	if err != nil {
		return zerr.With(zerr.Wrap(err, "can't create header file"), "file", dataFile+".h")
	}

	w := bufio.NewWriter(f)
	writeByteArray(w, arrayName(dataFile), payload)

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return zerr.With(zerr.Wrap(err, "can't write header file"), "file", dataFile+".h")
	}
	if err := f.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "can't write header file"), "file", dataFile+".h")
	}
	return nil
}

func arrayName(dataFile string) string {
	name := filepath.Base(dataFile)
	return "g_" + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}

func writeByteArray(w io.Writer, name string, payload []byte) {
	prefix := fmt.Sprintf("const uint8_t %s[] = {", name)
	fmt.Fprint(w, prefix)

	lineLength := len(prefix)
	for _, b := range payload {
		text := fmt.Sprintf("%d,", b)
		if lineLength+len(text) > maxHeaderLineLength {
			fmt.Fprint(w, "\n")
			lineLength = 0
		}
		fmt.Fprint(w, text)
		lineLength += len(text)
	}

	fmt.Fprint(w, "\n};\n")
}
