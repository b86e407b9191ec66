package ir

import (
	"encoding/json"
	"fmt"
)

// ManifestEntry resolves a scheduled function to its wrapper's identity and
// location. Exactly two string fields; external collaborators parse this
// shape, so the keys are part of the contract (camelCase, JavaScript side).
type ManifestEntry struct {
	WrapperName  string `json:"wrapperName"`
	ContainerDir string `json:"containerDir"`
}

// Manifest maps original function names to their wrapper descriptors.
// Written once per generation pass as manifest.json inside the container;
// read back by external collaborators needing to resolve a scheduled
// function to its wrapper.
type Manifest map[string]ManifestEntry

// BuildManifest assembles the manifest for a set of wrapper descriptors.
func BuildManifest(wrappers []WrapperDescriptor) Manifest {
	m := make(Manifest, len(wrappers))
	for _, w := range wrappers {
		m[w.FunctionName] = ManifestEntry{
			WrapperName:  w.WrapperName,
			ContainerDir: w.ContainerDir,
		}
	}
	return m
}

// MarshalManifest serializes a manifest as indented JSON with a trailing
// newline. Keys are emitted sorted, so equal manifests produce equal bytes.
func MarshalManifest(m Manifest) ([]byte, error) {
	if m == nil {
		m = Manifest{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseManifest decodes manifest bytes written by MarshalManifest.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}
