package domain

import "go.trai.ch/zerr"

// Platform identifies the shader bytecode target.
type Platform uint8

const (
	// DXBC targets the legacy DirectX bytecode format.
	DXBC Platform = iota
	// DXIL targets the DirectX intermediate language format.
	DXIL
	// SPIRV targets the Vulkan SPIR-V format.
	SPIRV
)

var platformNames = [...]string{"DXBC", "DXIL", "SPIRV"}

var platformExts = [...]string{".dxbc", ".dxil", ".spirv"}

// ParsePlatform resolves a platform name as given on the command line.
func ParsePlatform(name string) (Platform, error) {
	for i, n := range platformNames {
		if n == name {
			return Platform(i), nil
		}
	}
	return DXBC, zerr.With(ErrUnknownPlatform, "platform", name)
}

// String returns the canonical platform name.
func (p Platform) String() string {
	return platformNames[p]
}

// DefaultExt returns the default output file extension for the platform.
func (p Platform) DefaultExt() string {
	return platformExts[p]
}

// SupportsProfile reports whether the platform can compile the given
// shader profile. DXBC has no mesh, amplification or library support.
func (p Platform) SupportsProfile(profile string) bool {
	if p != DXBC {
		return true
	}
	switch profile {
	case "ms", "as", "lib":
		return false
	}
	return true
}
