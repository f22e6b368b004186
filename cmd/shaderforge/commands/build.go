package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"go.trai.ch/shaderforge/internal/adapters/manifest"
	"go.trai.ch/shaderforge/internal/core/domain"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	opts := domain.NewOptions()
	var platformName, projectFile string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile every shader permutation listed in a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed := cmd.Flags().Changed

			m, err := loadManifest(projectFile, changed("project"))
			if err != nil {
				return err
			}

			if changed("platform") {
				opts.Platform, err = domain.ParsePlatform(platformName)
				if err != nil {
					return err
				}
			} else if m == nil || m.Platform == nil {
				return zerr.Wrap(domain.ErrInvalidOptions, "platform not specified")
			}

			if m != nil {
				if err := m.Apply(opts, changed); err != nil {
					return err
				}
			}

			return c.app.Run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.StringVarP(&platformName, "platform", "p", "", "Target platform (DXBC, DXIL or SPIRV)")
	flags.StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file listing the shaders to compile")
	flags.StringVarP(&opts.OutputDir, "out", "o", "", "Output directory")
	flags.StringVar(&projectFile, "project", "", "Project manifest with default options (default \""+manifest.DefaultFile+"\" if present)")
	flags.StringVar(&opts.SourceDir, "sourceDir", "", "Source directory, relative to the config file")
	flags.StringVar(&opts.Compiler, "compiler", "", "Path to the shader compiler executable")
	flags.StringVarP(&opts.ShaderModel, "shaderModel", "m", opts.ShaderModel, "Shader model in 'X_Y' format")
	flags.StringVar(&opts.VulkanVersion, "vulkanVersion", opts.VulkanVersion, "Vulkan environment version (SPIRV only)")
	flags.StringVar(&opts.OutputExt, "outputExt", "", "Extension for compiled outputs (default by platform)")

	flags.StringArrayVarP(&opts.IncludeDirs, "include", "I", nil, "Include directory (can be repeated)")
	flags.StringArrayVar(&opts.RelaxedIncludes, "relaxedInclude", nil, "Include name ignored by dependency tracking (can be repeated)")
	flags.StringArrayVarP(&opts.Defines, "define", "D", nil, "Global define passed to every compile (can be repeated)")
	flags.StringArrayVar(&opts.SpirvExtensions, "spirvExt", opts.SpirvExtensions, "SPIR-V extension to enable (can be repeated)")

	flags.Uint32Var(&opts.SRegShift, "sRegShift", opts.SRegShift, "SPIR-V binding shift for s registers")
	flags.Uint32Var(&opts.TRegShift, "tRegShift", opts.TRegShift, "SPIR-V binding shift for t registers")
	flags.Uint32Var(&opts.BRegShift, "bRegShift", opts.BRegShift, "SPIR-V binding shift for b registers")
	flags.Uint32Var(&opts.URegShift, "uRegShift", opts.URegShift, "SPIR-V binding shift for u registers")

	flags.Uint32VarP(&opts.OptimizationLevel, "optimization", "O", opts.OptimizationLevel, "Optimization level 0-3")
	flags.Uint32Var(&opts.RetryCount, "retryCount", 10, "Total launch retries shared by the whole run")

	flags.BoolVarP(&opts.Binary, "binary", "b", false, "Write compiled binaries")
	flags.BoolVar(&opts.Header, "header", false, "Write C headers embedding each binary")
	flags.BoolVar(&opts.Blob, "blob", false, "Pack permutations of a shader into one container file")
	flags.BoolVar(&opts.BlobHeader, "blobHeader", false, "Write C headers embedding each container")

	flags.BoolVarP(&opts.Force, "force", "f", false, "Rebuild everything regardless of timestamps")
	flags.BoolVar(&opts.Flatten, "flatten", false, "Ignore source subdirectories in output paths")
	flags.BoolVar(&opts.Serial, "serial", false, "Compile on a single worker")
	flags.BoolVar(&opts.ContinueOnError, "continue", false, "Keep compiling after a task fails")

	flags.BoolVar(&opts.WarningsAreErrors, "WX", false, "Treat compiler warnings as errors")
	flags.BoolVar(&opts.AllResourcesBound, "allResourcesBound", false, "Assume all resources are bound for the shader lifetime")
	flags.BoolVar(&opts.PDB, "PDB", false, "Write debug information to a PDB subdirectory")
	flags.BoolVar(&opts.StripReflection, "stripReflection", false, "Strip reflection data from DX outputs")
	flags.BoolVar(&opts.MatrixRowMajor, "matrixRowMajor", false, "Use row-major matrix packing")

	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Log every compiler command line")
	flags.BoolVar(&opts.Colorize, "colorize", false, "Force colored progress output")

	return cmd
}

// loadManifest resolves the project manifest. An explicit path must exist;
// the default file is optional.
func loadManifest(path string, explicit bool) (*manifest.Manifest, error) {
	if explicit {
		return manifest.Load(path)
	}

	if _, err := os.Stat(manifest.DefaultFile); err != nil {
		return nil, nil //nolint:nilnil // no manifest is a valid configuration
	}
	return manifest.Load(manifest.DefaultFile)
}
