// Package manifest loads build options from a project manifest file, so
// invocations don't have to repeat the full flag set.
package manifest

import (
	"os"

	"gopkg.in/yaml.v3"

	"go.trai.ch/zerr"

	"go.trai.ch/shaderforge/internal/core/domain"
)

// DefaultFile is the manifest looked up in the working directory when no
// explicit path is given.
const DefaultFile = "shaderforge.yaml"

// Manifest mirrors the command line options. Scalar fields are pointers so
// an absent key can be told apart from a zero value.
type Manifest struct {
	Platform      *string `yaml:"platform"`
	Config        *string `yaml:"config"`
	Out           *string `yaml:"out"`
	SourceDir     *string `yaml:"sourceDir"`
	Compiler      *string `yaml:"compiler"`
	ShaderModel   *string `yaml:"shaderModel"`
	VulkanVersion *string `yaml:"vulkanVersion"`
	OutputExt     *string `yaml:"outputExt"`

	Include        []string `yaml:"include"`
	RelaxedInclude []string `yaml:"relaxedInclude"`
	Define         []string `yaml:"define"`
	SpirvExt       []string `yaml:"spirvExt"`

	SRegShift *uint32 `yaml:"sRegShift"`
	TRegShift *uint32 `yaml:"tRegShift"`
	BRegShift *uint32 `yaml:"bRegShift"`
	URegShift *uint32 `yaml:"uRegShift"`

	Optimization *uint32 `yaml:"optimization"`
	RetryCount   *uint32 `yaml:"retryCount"`

	Binary     *bool `yaml:"binary"`
	Header     *bool `yaml:"header"`
	Blob       *bool `yaml:"blob"`
	BlobHeader *bool `yaml:"blobHeader"`

	Force             *bool `yaml:"force"`
	Flatten           *bool `yaml:"flatten"`
	Serial            *bool `yaml:"serial"`
	ContinueOnError   *bool `yaml:"continue"`
	WarningsAreErrors *bool `yaml:"warningsAreErrors"`
	AllResourcesBound *bool `yaml:"allResourcesBound"`
	PDB               *bool `yaml:"pdb"`
	StripReflection   *bool `yaml:"stripReflection"`
	MatrixRowMajor    *bool `yaml:"matrixRowMajor"`

	Verbose  *bool `yaml:"verbose"`
	Colorize *bool `yaml:"colorize"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied manifest path
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "can't read manifest"), "manifest", path)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "can't parse manifest"), "manifest", path)
	}
	return &m, nil
}

// Apply merges the manifest into the options. Flags the user set explicitly
// win; changed reports those by flag name. List values are appended.
func (m *Manifest) Apply(opts *domain.Options, changed func(flag string) bool) error {
	if m.Platform != nil && !changed("platform") {
		platform, err := domain.ParsePlatform(*m.Platform)
		if err != nil {
			return err
		}
		opts.Platform = platform
	}

	applyString(&opts.ConfigFile, m.Config, "config", changed)
	applyString(&opts.OutputDir, m.Out, "out", changed)
	applyString(&opts.SourceDir, m.SourceDir, "sourceDir", changed)
	applyString(&opts.Compiler, m.Compiler, "compiler", changed)
	applyString(&opts.ShaderModel, m.ShaderModel, "shaderModel", changed)
	applyString(&opts.VulkanVersion, m.VulkanVersion, "vulkanVersion", changed)
	applyString(&opts.OutputExt, m.OutputExt, "outputExt", changed)

	opts.IncludeDirs = append(opts.IncludeDirs, m.Include...)
	opts.RelaxedIncludes = append(opts.RelaxedIncludes, m.RelaxedInclude...)
	opts.Defines = append(opts.Defines, m.Define...)
	if len(m.SpirvExt) > 0 && !changed("spirvExt") {
		opts.SpirvExtensions = m.SpirvExt
	}

	applyUint32(&opts.SRegShift, m.SRegShift, "sRegShift", changed)
	applyUint32(&opts.TRegShift, m.TRegShift, "tRegShift", changed)
	applyUint32(&opts.BRegShift, m.BRegShift, "bRegShift", changed)
	applyUint32(&opts.URegShift, m.URegShift, "uRegShift", changed)
	applyUint32(&opts.OptimizationLevel, m.Optimization, "optimization", changed)
	applyUint32(&opts.RetryCount, m.RetryCount, "retryCount", changed)

	applyBool(&opts.Binary, m.Binary, "binary", changed)
	applyBool(&opts.Header, m.Header, "header", changed)
	applyBool(&opts.Blob, m.Blob, "blob", changed)
	applyBool(&opts.BlobHeader, m.BlobHeader, "blobHeader", changed)
	applyBool(&opts.Force, m.Force, "force", changed)
	applyBool(&opts.Flatten, m.Flatten, "flatten", changed)
	applyBool(&opts.Serial, m.Serial, "serial", changed)
	applyBool(&opts.ContinueOnError, m.ContinueOnError, "continue", changed)
	applyBool(&opts.WarningsAreErrors, m.WarningsAreErrors, "WX", changed)
	applyBool(&opts.AllResourcesBound, m.AllResourcesBound, "allResourcesBound", changed)
	applyBool(&opts.PDB, m.PDB, "PDB", changed)
	applyBool(&opts.StripReflection, m.StripReflection, "stripReflection", changed)
	applyBool(&opts.MatrixRowMajor, m.MatrixRowMajor, "matrixRowMajor", changed)
	applyBool(&opts.Verbose, m.Verbose, "verbose", changed)
	applyBool(&opts.Colorize, m.Colorize, "colorize", changed)

	return nil
}

func applyString(dst *string, src *string, flag string, changed func(string) bool) {
	if src != nil && !changed(flag) {
		*dst = *src
	}
}

func applyUint32(dst *uint32, src *uint32, flag string, changed func(string) bool) {
	if src != nil && !changed(flag) {
		*dst = *src
	}
}

func applyBool(dst *bool, src *bool, flag string, changed func(string) bool) {
	if src != nil && !changed(flag) {
		*dst = *src
	}
}
