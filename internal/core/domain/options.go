package domain

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// UseGlobalOptimization marks a directive that carries no optimization
// override and inherits the global level.
const UseGlobalOptimization uint32 = 0xFF

// MaxOptimizationLevel is the highest optimization level the compilers accept.
const MaxOptimizationLevel uint32 = 3

// Options is the process-wide build configuration. It is populated once from
// the command line (and optionally a manifest file) and is read-only for the
// rest of the run.
type Options struct {
	Platform      Platform
	ConfigFile    string
	OutputDir     string
	SourceDir     string
	Compiler      string
	ShaderModel   string
	VulkanVersion string
	OutputExt     string

	IncludeDirs     []string
	RelaxedIncludes []string
	Defines         []string
	SpirvExtensions []string

	SRegShift uint32
	TRegShift uint32
	BRegShift uint32
	URegShift uint32

	OptimizationLevel uint32
	RetryCount        uint32

	Binary     bool
	Header     bool
	Blob       bool
	BlobHeader bool

	Force           bool
	Flatten         bool
	Serial          bool
	ContinueOnError bool

	WarningsAreErrors bool
	AllResourcesBound bool
	PDB               bool
	StripReflection   bool
	MatrixRowMajor    bool

	Verbose  bool
	Colorize bool
}

// NewOptions returns Options with the defaults the command line assumes.
func NewOptions() *Options {
	return &Options{
		ShaderModel:       "6_5",
		VulkanVersion:     "1.3",
		SpirvExtensions:   []string{"SPV_EXT_descriptor_indexing", "KHR"},
		SRegShift:         100,
		TRegShift:         200,
		BRegShift:         300,
		URegShift:         400,
		OptimizationLevel: MaxOptimizationLevel,
	}
}

// BlobNeeded reports whether any container encoding was requested.
func (o *Options) BlobNeeded() bool {
	return o.Blob || o.BlobHeader
}

// Validate checks the option set for completeness and normalizes paths:
// the config file becomes absolute and include directories are resolved
// relative to the config file's directory.
func (o *Options) Validate() error {
	if o.ConfigFile == "" {
		return zerr.Wrap(ErrInvalidOptions, "config file not specified")
	}
	if o.OutputDir == "" {
		return zerr.Wrap(ErrInvalidOptions, "output directory not specified")
	}
	if !o.Binary && !o.Header && !o.BlobNeeded() {
		return zerr.Wrap(ErrInvalidOptions, "at least one of 'binary', 'header', 'blob' or 'blobHeader' must be set")
	}
	if o.Compiler == "" {
		return zerr.Wrap(ErrInvalidOptions, "compiler not specified")
	}
	if _, err := os.Stat(o.Compiler); err != nil {
		return zerr.With(zerr.Wrap(ErrInvalidOptions, "compiler does not exist"), "compiler", o.Compiler)
	}
	if len(o.ShaderModel) != 3 || o.ShaderModel[1] != '_' {
		return zerr.With(zerr.Wrap(ErrInvalidOptions, "shader model must have format 'X_Y'"), "shader_model", o.ShaderModel)
	}
	if o.OptimizationLevel > MaxOptimizationLevel {
		o.OptimizationLevel = MaxOptimizationLevel
	}
	if o.OutputExt == "" {
		o.OutputExt = o.Platform.DefaultExt()
	}

	// Source paths must be absolute to keep diagnostics clickable.
	abs, err := filepath.Abs(o.ConfigFile)
	if err != nil {
		return zerr.Wrap(err, "can't resolve config file path")
	}
	o.ConfigFile = abs
	if _, err := os.Stat(o.ConfigFile); err != nil {
		return zerr.With(zerr.Wrap(ErrInvalidOptions, "config file does not exist"), "config", o.ConfigFile)
	}

	configDir := filepath.Dir(o.ConfigFile)
	for i, dir := range o.IncludeDirs {
		if !filepath.IsAbs(dir) {
			o.IncludeDirs[i] = filepath.Join(configDir, dir)
		}
	}

	return nil
}

// SourceRoot returns the directory config-relative shader paths resolve
// against.
func (o *Options) SourceRoot() string {
	return filepath.Join(filepath.Dir(o.ConfigFile), o.SourceDir)
}

// ShaderModelIndex returns the shader model as a comparable number, e.g.
// "6_2" becomes 62.
func (o *Options) ShaderModelIndex() int {
	return int(o.ShaderModel[0]-'0')*10 + int(o.ShaderModel[2]-'0')
}
