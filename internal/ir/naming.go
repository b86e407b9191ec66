package ir

import "golang.org/x/text/unicode/norm"

// NormalizeName returns the NFC normalization of a function name. Name
// derivation normalizes at this boundary so that two sources spelling the
// same identifier with different Unicode compositions produce one wrapper,
// one directory, and one manifest key.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// WrapperName derives the wrapper identifier for a scheduled function.
// Pure function of the function name: repeated generations are name-stable.
func WrapperName(functionName string) string {
	return WrapperPrefix + NormalizeName(functionName)
}

// ContainerDirName derives the container subdirectory for a scheduled
// function. Pure function of the function name, like WrapperName, but with
// a distinct prefix so directories and identifiers never collide.
func ContainerDirName(functionName string) string {
	return ContainerDirPrefix + NormalizeName(functionName)
}

// WrapperDescriptor is a planned or synthesized scheduler module.
type WrapperDescriptor struct {
	// FunctionName is the NFC-normalized scheduled function name.
	FunctionName string `json:"function_name"`

	// WrapperName is the exported identifier of the synthesized module.
	WrapperName string `json:"wrapper_name"`

	// ContainerDir is the subdirectory (relative to the container root)
	// holding the synthesized module.
	ContainerDir string `json:"container_dir"`

	// Path is the absolute file path of the synthesized module. Empty until
	// the generator has chosen the container root.
	Path string `json:"path,omitempty"`
}

// DeriveWrapper computes the name-stable parts of a wrapper descriptor.
func DeriveWrapper(functionName string) WrapperDescriptor {
	name := NormalizeName(functionName)
	return WrapperDescriptor{
		FunctionName: name,
		WrapperName:  WrapperName(name),
		ContainerDir: ContainerDirName(name),
	}
}
