// Package config implements the shader list configuration language: a
// line-oriented file with '//' comments, '#ifdef'-style conditional blocks
// and '{a,b,c}' macro-choice groups that expand into concrete compile
// directives.
package config

import (
	"bufio"
	"errors"
	"os"
	"slices"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/shaderforge/internal/core/domain"
	"go.trai.ch/shaderforge/internal/core/ports"
)

// Line is one surviving raw directive line, before permutation expansion.
type Line struct {
	Text string

	// Number is the 1-based line number in the config file.
	Number int
}

// Loader reads the configuration file and evaluates its conditional blocks
// against the global define set.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load returns the directive lines that survive conditional filtering.
// Unbalanced '#else'/'#endif' lines are reported per line; the scan still
// covers the whole file so every problem surfaces at once, but any such
// error fails the load afterwards.
func (l *Loader) Load(path string, globalDefines []string) ([]Line, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "can't open config file"), "config", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	var (
		lines   []Line
		loadErr error
	)

	// Stack of "block active" states, seeded with true for the top level.
	blocks := []bool{true}

	scanner := bufio.NewScanner(f)
	for number := 1; scanner.Scan(); number++ {
		line := normalize(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "#ifdef"):
			name := strings.TrimSpace(strings.TrimPrefix(line, "#ifdef"))
			active := blocks[len(blocks)-1] && slices.Contains(globalDefines, name)
			blocks = append(blocks, active)

		case strings.HasPrefix(line, "#if 1"):
			blocks = append(blocks, blocks[len(blocks)-1])

		case strings.HasPrefix(line, "#if 0"):
			blocks = append(blocks, false)

		case strings.HasPrefix(line, "#endif"):
			if len(blocks) == 1 {
				loadErr = errors.Join(loadErr, lineError(domain.ErrUnexpectedEndif, path, number))
			} else {
				blocks = blocks[:len(blocks)-1]
			}

		case strings.HasPrefix(line, "#else"):
			if len(blocks) < 2 {
				loadErr = errors.Join(loadErr, lineError(domain.ErrUnexpectedElse, path, number))
			} else if blocks[len(blocks)-2] {
				// An '#else' inside an inactive parent block stays inactive.
				blocks[len(blocks)-1] = !blocks[len(blocks)-1]
			}

		default:
			if blocks[len(blocks)-1] {
				lines = append(lines, Line{Text: line, Number: number})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "can't read config file"), "config", path)
	}

	if loadErr != nil {
		return nil, loadErr
	}
	return lines, nil
}

func lineError(err error, path string, number int) error {
	return zerr.With(zerr.With(err, "config", path), "line", number)
}

// normalize trims the line, converts tabs to spaces and collapses repeated
// spaces, so downstream parsing only ever sees single-space separators.
func normalize(s string) string {
	s = strings.TrimSpace(s)

	var b strings.Builder
	b.Grow(len(s))

	lastSpace := false
	for _, r := range s {
		if r == '\t' {
			r = ' '
		}
		if r == ' ' {
			if lastSpace {
				continue
			}
			lastSpace = true
		} else {
			lastSpace = false
		}
		b.WriteRune(r)
	}

	return b.String()
}
