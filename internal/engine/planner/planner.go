// Package planner turns parsed compile directives into scheduled tasks,
// skipping everything whose outputs are already up to date.
package planner

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/shaderforge/internal/core/domain"
	"go.trai.ch/shaderforge/internal/core/ports"
	"go.trai.ch/shaderforge/internal/engine/deps"
)

// pdbDir is the subdirectory PDB files are emitted to.
const pdbDir = "PDB"

// Planner builds the compile plan for one run.
type Planner struct {
	oracle *deps.Oracle
	logger ports.Logger
}

// New creates a Planner using the given staleness oracle.
func New(oracle *deps.Oracle, logger ports.Logger) *Planner {
	return &Planner{oracle: oracle, logger: logger}
}

// Plan decides, for every directive, whether a compile task is needed, and
// groups container members by their base output file. Directives whose
// profile the platform cannot compile are accepted but produce nothing.
func (p *Planner) Plan(opts *domain.Options, directives []domain.Directive) (*domain.Plan, error) {
	baseline, err := p.baselineTime(opts)
	if err != nil {
		return nil, err
	}

	plan := &domain.Plan{}
	groups := make(map[string]*domain.BlobGroup)
	outputs := make(map[string]int)

	for _, d := range directives {
		if !opts.Platform.SupportsProfile(d.Profile) {
			continue
		}

		combined := d.CombinedDefines()

		// Base output name: the source path relative to the source root
		// with the extension stripped. Flattening and per-line output
		// overrides reduce it to the bare file name.
		compiledName := stripExtension(removeLeadingDotDots(filepath.ToSlash(d.Source)))
		if opts.Flatten || d.OutputDir != "" {
			compiledName = filepath.Base(compiledName)
		}
		if d.EntryPoint != "main" {
			compiledName += "_" + d.EntryPoint
		}

		// The permutation name carries the define hash suffix.
		permutationName := compiledName
		if len(d.Defines) > 0 {
			permutationName += domain.PermutationSuffix(combined)
		}

		destDir := opts.OutputDir
		if d.OutputDir != "" {
			destDir = filepath.Join(destDir, d.OutputDir)
		}

		forced, err := p.ensureOutputDirs(opts, destDir, compiledName)
		if err != nil {
			return nil, err
		}
		forced = forced || opts.Force

		blobBase := filepath.Join(destDir, compiledName)
		permutationBase := filepath.Join(destDir, permutationName)
		sourceFile := filepath.Join(opts.SourceRoot(), d.Source)

		if !forced {
			upToDate, err := p.upToDate(opts, sourceFile, permutationBase, blobBase, baseline)
			if err != nil {
				return nil, err
			}
			if upToDate {
				continue
			}
		}

		if line, ok := outputs[permutationBase]; ok {
			dup := zerr.With(zerr.With(zerr.With(domain.ErrDuplicatePermutation,
				"output", permutationBase), "line", d.Line), "first_line", line)
			if !opts.ContinueOnError {
				return nil, dup
			}
			p.logger.Warn(dup.Error())
			continue
		}
		outputs[permutationBase] = d.Line

		level := d.OptimizationLevel
		if level == domain.UseGlobalOptimization {
			level = opts.OptimizationLevel
		}
		if level > domain.MaxOptimizationLevel {
			level = domain.MaxOptimizationLevel
		}

		plan.Tasks = append(plan.Tasks, &domain.Task{
			Source:            d.Source,
			SourceFile:        sourceFile,
			Profile:           d.Profile,
			EntryPoint:        d.EntryPoint,
			Defines:           d.Defines,
			CombinedDefines:   combined,
			OptimizationLevel: level,
			OutputFileBase:    permutationBase,
		})

		if opts.BlobNeeded() {
			group, ok := groups[blobBase]
			if !ok {
				group = &domain.BlobGroup{FileBase: blobBase}
				groups[blobBase] = group
				plan.Blobs = append(plan.Blobs, group)
			}
			group.Entries = append(group.Entries, domain.BlobEntry{
				FileBase:    permutationBase,
				Permutation: combined,
			})
		}
	}

	return plan, nil
}

// baselineTime is the floor for every staleness comparison: outputs older
// than the config file or the launcher itself are always rebuilt.
func (p *Planner) baselineTime(opts *domain.Options) (time.Time, error) {
	info, err := os.Stat(opts.ConfigFile)
	if err != nil {
		return time.Time{}, zerr.With(zerr.Wrap(err, "can't stat config file"), "config", opts.ConfigFile)
	}
	baseline := info.ModTime()

	if exe, err := os.Executable(); err == nil {
		if info, err := os.Stat(exe); err == nil && info.ModTime().After(baseline) {
			baseline = info.ModTime()
		}
	}

	return baseline, nil
}

// ensureOutputDirs creates missing intermediate output directories. A
// directive whose directory had to be created is forced stale.
func (p *Planner) ensureOutputDirs(opts *domain.Options, destDir, compiledName string) (created bool, err error) {
	endPath := filepath.Join(destDir, filepath.Dir(compiledName))
	if opts.PDB {
		endPath = filepath.Join(endPath, pdbDir)
	}

	if _, statErr := os.Stat(endPath); statErr == nil {
		return false, nil
	}

	if err := os.MkdirAll(endPath, 0o750); err != nil {
		return false, zerr.With(zerr.Wrap(err, "can't create output directory"), "dir", endPath)
	}
	return true, nil
}

// upToDate reports whether every required output artifact is newer than the
// directive's sources. The least recently written artifact governs the
// decision; a missing artifact forces a rebuild.
func (p *Planner) upToDate(opts *domain.Options, sourceFile, permutationBase, blobBase string, baseline time.Time) (bool, error) {
	var outputTime time.Time

	for i, artifact := range requiredArtifacts(opts, permutationBase, blobBase) {
		info, err := os.Stat(artifact)
		if err != nil {
			return false, nil //nolint:nilerr // a missing artifact simply means stale
		}
		if i == 0 || info.ModTime().Before(outputTime) {
			outputTime = info.ModTime()
		}
	}

	sourceTime, err := p.oracle.HierarchicalTime(sourceFile)
	if err != nil {
		return false, err
	}
	if baseline.After(sourceTime) {
		sourceTime = baseline
	}

	return outputTime.After(sourceTime), nil
}

// requiredArtifacts lists the output files the active output kinds demand
// for one permutation.
func requiredArtifacts(opts *domain.Options, permutationBase, blobBase string) []string {
	var artifacts []string
	if opts.Binary {
		artifacts = append(artifacts, permutationBase+opts.OutputExt)
	}
	if opts.Header {
		artifacts = append(artifacts, permutationBase+opts.OutputExt+".h")
	}
	if opts.Blob {
		artifacts = append(artifacts, blobBase+opts.OutputExt)
	}
	if opts.BlobHeader {
		artifacts = append(artifacts, blobBase+opts.OutputExt+".h")
	}
	return artifacts
}

// removeLeadingDotDots drops any leading "../" elements so outputs never
// escape the output directory.
func removeLeadingDotDots(path string) string {
	for {
		rest, ok := strings.CutPrefix(path, "../")
		if !ok {
			return path
		}
		path = rest
	}
}

func stripExtension(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
