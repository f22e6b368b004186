// Package dxc invokes an external DirectX shader compiler executable and
// classifies its outcome for the scheduler.
package dxc

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/shaderforge/internal/core/domain"
	"go.trai.ch/shaderforge/internal/core/ports"
)

var _ ports.Compiler = (*Compiler)(nil)

// Compiler runs one external compiler process per task. The command line is
// derived from the run options and the task; the binary artifact is written
// by the compiler itself through its output flag and read back as the
// payload.
type Compiler struct {
	opts   *domain.Options
	logger ports.Logger
}

// New creates a Compiler for the given run options.
func New(opts *domain.Options, logger ports.Logger) *Compiler {
	return &Compiler{opts: opts, logger: logger}
}

// Invoke implements ports.Compiler. The context is only checked before the
// process starts; a running compile is never killed.
func (c *Compiler) Invoke(ctx context.Context, task *domain.Task) ports.CompileResult {
	if ctx.Err() != nil {
		return ports.CompileResult{Diagnostic: "canceled before launch"}
	}

	outputFile := task.OutputFileBase + c.opts.OutputExt
	args := c.buildArgs(task, outputFile)

	if c.opts.Verbose {
		c.logger.Info(c.opts.Compiler + " " + strings.Join(args, " "))
	}

	// Deliberately not CommandContext: cancellation must not truncate an
	// output file mid-write.
	cmd := exec.Command(c.opts.Compiler, args...) //nolint:gosec // compiler path comes from user configuration
	out, err := cmd.CombinedOutput()
	diagnostic := filterNoise(string(out))

	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return ports.CompileResult{Diagnostic: diagnostic}
		}
		return ports.CompileResult{
			Diagnostic:   err.Error(),
			LaunchFailed: true,
		}
	}

	payload, err := os.ReadFile(outputFile) //nolint:gosec // path is derived from the build plan
	if err != nil {
		return ports.CompileResult{
			Diagnostic: fmt.Sprintf("can't read compiled output %s: %v", outputFile, err),
		}
	}

	return ports.CompileResult{
		Succeeded:  true,
		Payload:    payload,
		Diagnostic: diagnostic,
	}
}

// buildArgs assembles the compiler command line for one task.
func (c *Compiler) buildArgs(task *domain.Task, outputFile string) []string {
	opts := c.opts

	model := opts.ShaderModel
	if opts.Platform == domain.DXBC {
		// The legacy bytecode compiler only understands model 5.0 targets.
		model = "5_0"
	}

	args := []string{
		task.SourceFile,
		"-T", task.Profile + "_" + model,
		"-E", task.EntryPoint,
		"-Fo", outputFile,
	}

	for _, define := range task.Defines {
		args = append(args, "-D", define)
	}
	for _, define := range opts.Defines {
		args = append(args, "-D", define)
	}
	for _, dir := range opts.IncludeDirs {
		args = append(args, "-I", dir)
	}

	if task.OptimizationLevel == 0 {
		args = append(args, "-Od")
	} else {
		args = append(args, fmt.Sprintf("-O%d", task.OptimizationLevel))
	}

	if opts.WarningsAreErrors {
		args = append(args, "-WX")
	}
	if opts.AllResourcesBound {
		args = append(args, "-all_resources_bound")
	}
	if opts.MatrixRowMajor {
		args = append(args, "-Zpr")
	}
	if opts.Platform != domain.DXBC && opts.ShaderModelIndex() >= 62 {
		args = append(args, "-enable-16bit-types")
	}

	if opts.PDB {
		// A trailing separator makes the compiler treat the value as a
		// directory and pick the PDB file name itself.
		args = append(args, "-Zi", "-Zsb",
			"-Fd", filepath.Join(filepath.Dir(outputFile), "PDB")+string(filepath.Separator))
	}

	if opts.Platform == domain.SPIRV {
		args = append(args, "-spirv", "-fspv-target-env=vulkan"+opts.VulkanVersion)
		for _, ext := range opts.SpirvExtensions {
			args = append(args, "-fspv-extension="+ext)
		}
		for space := range uint32(8) {
			s := fmt.Sprint(space)
			args = append(args,
				"-fvk-s-shift", fmt.Sprint(opts.SRegShift), s,
				"-fvk-t-shift", fmt.Sprint(opts.TRegShift), s,
				"-fvk-b-shift", fmt.Sprint(opts.BRegShift), s,
				"-fvk-u-shift", fmt.Sprint(opts.URegShift), s)
		}
	} else if opts.StripReflection {
		args = append(args, "-Qstrip_reflect")
	}

	return args
}

// filterNoise drops the compiler's unconditional save notice so clean
// compiles report an empty diagnostic.
func filterNoise(out string) string {
	var kept []string
	for line := range strings.Lines(out) {
		if strings.Contains(line, "compilation object save succeeded") {
			continue
		}
		kept = append(kept, line)
	}
	s := strings.Join(kept, "")
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
