package config

import (
	"go.trai.ch/zerr"

	"go.trai.ch/shaderforge/internal/core/domain"
)

// Permutation expansion: every '{a,b,c}' span in a line multiplies it into
// one concrete line per alternative, combinatorially across groups. The
// line is first parsed into a small AST of literal and choice segments, so
// groups may nest; a '}' inside an inner group no longer closes the outer
// one. At the top level '{' opens a group while '}' and ',' are ordinary
// characters.

// segment is either a literal run (group == nil) or a choice group.
type segment struct {
	literal string
	group   [][]segment
}

// Expand expands all choice groups in a line. A line without groups expands
// to exactly itself.
func Expand(line Line) ([]string, error) {
	segments, _, err := parseSegments(line.Text, 0, false)
	if err != nil {
		return nil, zerr.With(zerr.With(err, "line", line.Number), "text", line.Text)
	}
	return expandSegments(segments), nil
}

// parseSegments consumes the input from pos until the end of the line or,
// inside a group, until a ',' or '}' delimiter. It returns the parsed
// segments and the position of the delimiter that stopped it.
func parseSegments(s string, pos int, inGroup bool) ([]segment, int, error) {
	var (
		segments []segment
		literal  []byte
	)

	flush := func() {
		if len(literal) > 0 {
			segments = append(segments, segment{literal: string(literal)})
			literal = nil
		}
	}

	for pos < len(s) {
		ch := s[pos]

		if inGroup && (ch == ',' || ch == '}') {
			flush()
			return segments, pos, nil
		}

		if ch == '{' {
			flush()

			var alternatives [][]segment
			for {
				alt, next, err := parseSegments(s, pos+1, true)
				if err != nil {
					return nil, 0, err
				}
				alternatives = append(alternatives, alt)
				pos = next
				if s[pos] == '}' {
					break
				}
			}

			segments = append(segments, segment{group: alternatives})
			pos++
			continue
		}

		literal = append(literal, ch)
		pos++
	}

	if inGroup {
		return nil, 0, domain.ErrUnterminatedGroup
	}

	flush()
	return segments, pos, nil
}

// expandSegments produces the cartesian product of all choice groups, in
// left-to-right order.
func expandSegments(segments []segment) []string {
	results := []string{""}

	for _, seg := range segments {
		if seg.group == nil {
			for i := range results {
				results[i] += seg.literal
			}
			continue
		}

		var suffixes []string
		for _, alternative := range seg.group {
			suffixes = append(suffixes, expandSegments(alternative)...)
		}

		expanded := make([]string, 0, len(results)*len(suffixes))
		for _, prefix := range results {
			for _, suffix := range suffixes {
				expanded = append(expanded, prefix+suffix)
			}
		}
		results = expanded
	}

	return results
}
