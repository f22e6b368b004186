package config

import (
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/shaderforge/internal/core/domain"
)

// profiles are the accepted shader stage codes plus the library profile.
var profiles = []string{"vs", "ps", "gs", "hs", "ds", "cs", "ms", "as", "lib"}

// ParseDirective parses one concrete (already expanded) config line into a
// compile directive:
//
//	path/to/shader -T profile [-E entry] [-O level] [-o subdir] [-D NAME[=VALUE]]...
func ParseDirective(text string, number int) (domain.Directive, error) {
	d := domain.Directive{
		EntryPoint:        "main",
		OptimizationLevel: domain.UseGlobalOptimization,
		Line:              number,
	}

	fail := func(err error) (domain.Directive, error) {
		return domain.Directive{}, zerr.With(zerr.With(err, "line", number), "text", text)
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return fail(zerr.Wrap(domain.ErrConfigParse, "empty directive"))
	}

	d.Source = tokens[0]
	tokens = tokens[1:]

	for len(tokens) > 0 {
		flag, value, inline := strings.Cut(tokens[0], "=")
		tokens = tokens[1:]

		next := func() (string, bool) {
			if inline {
				return value, true
			}
			if len(tokens) == 0 {
				return "", false
			}
			v := tokens[0]
			tokens = tokens[1:]
			return v, true
		}

		switch flag {
		case "-T":
			v, ok := next()
			if !ok {
				return fail(zerr.Wrap(domain.ErrConfigParse, "missing profile after -T"))
			}
			if !slices.Contains(profiles, v) {
				return fail(zerr.With(zerr.Wrap(domain.ErrConfigParse, "unknown profile"), "profile", v))
			}
			d.Profile = v

		case "-E":
			v, ok := next()
			if !ok {
				return fail(zerr.Wrap(domain.ErrConfigParse, "missing entry point after -E"))
			}
			d.EntryPoint = v

		case "-D":
			v, ok := next()
			if !ok {
				return fail(zerr.Wrap(domain.ErrConfigParse, "missing define after -D"))
			}
			d.Defines = append(d.Defines, v)

		case "-o":
			v, ok := next()
			if !ok {
				return fail(zerr.Wrap(domain.ErrConfigParse, "missing output directory after -o"))
			}
			d.OutputDir = v

		case "-O":
			v, ok := next()
			if !ok {
				return fail(zerr.Wrap(domain.ErrConfigParse, "missing optimization level after -O"))
			}
			level, err := strconv.ParseUint(v, 10, 32)
			if err != nil || level > uint64(domain.MaxOptimizationLevel) {
				return fail(zerr.With(zerr.Wrap(domain.ErrConfigParse, "bad optimization level"), "level", v))
			}
			d.OptimizationLevel = uint32(level)

		default:
			// The optimization level may also be attached, as in -O2.
			if rest, ok := strings.CutPrefix(flag, "-O"); ok && rest != "" {
				level, err := strconv.ParseUint(rest, 10, 32)
				if err == nil && level <= uint64(domain.MaxOptimizationLevel) {
					d.OptimizationLevel = uint32(level)
					continue
				}
			}
			return fail(zerr.With(zerr.Wrap(domain.ErrConfigParse, "unrecognized token"), "token", flag))
		}
	}

	if d.Profile == "" {
		return fail(zerr.Wrap(domain.ErrConfigParse, "shader profile not specified"))
	}

	return d, nil
}

// tokenize splits a normalized line on spaces, except inside double quotes.
// The quotes themselves are dropped, so `-o "sub dir"` yields the token
// `sub dir`.
func tokenize(s string) []string {
	var (
		tokens   []string
		token    []byte
		inString bool
	)

	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch == '"':
			inString = !inString
		case ch == ' ' && !inString:
			if len(token) > 0 {
				tokens = append(tokens, string(token))
				token = nil
			}
		default:
			token = append(token, ch)
		}
	}
	if len(token) > 0 {
		tokens = append(tokens, string(token))
	}

	return tokens
}
