package ir

// ImportKind describes how a scheduled function was bound at its call site.
// The generator reproduces the same import form in the synthesized wrapper.
type ImportKind string

const (
	// ImportNamed covers `import { fn } from "m"` and its renamed form
	// `import { exported as fn } from "m"`.
	ImportNamed ImportKind = "named"

	// ImportDefault covers `import fn from "m"`.
	ImportDefault ImportKind = "default"

	// ImportLocal marks a function whose origin could not be found in the
	// file's import map. The scanner falls back to a same-file relative
	// origin and the generator imports the name as a named export of that
	// file.
	ImportLocal ImportKind = "local"
)

// CallSite is one discovered scheduling request.
//
// Created by the scanner per matched call expression; consumed, never
// mutated, by the generator and the transformer. Not persisted.
type CallSite struct {
	// FunctionName is the scheduled function's local identifier,
	// NFC-normalized.
	FunctionName string `json:"function_name"`

	// Origin is the module specifier the function was imported from, as
	// written in the source (relative, alias-form, or bare package name).
	// When no import binds the name, Origin is a same-file relative
	// reference: "./" + file basename with its extension stripped.
	Origin string `json:"origin"`

	// File is the absolute path of the source file containing the call.
	File string `json:"file"`

	// Kind records the import form; SourceName carries the exported name
	// when the import renamed it (empty when identical to FunctionName).
	Kind       ImportKind `json:"kind"`
	SourceName string     `json:"source_name,omitempty"`

	// Inferred is true when Origin was synthesized because the import map
	// had no entry for the function. Callers surface this as a diagnostic;
	// it can mask an import written in a form the scanner does not
	// recognize.
	Inferred bool `json:"inferred,omitempty"`
}

// CallSiteKey is the dedup identity of a call site.
type CallSiteKey struct {
	FunctionName string
	Origin       string
}

// Key returns the (function name, origin) pair that uniquely identifies a
// call site across the whole input file set.
func (c CallSite) Key() CallSiteKey {
	return CallSiteKey{FunctionName: c.FunctionName, Origin: c.Origin}
}

// ImportedName returns the exported name the wrapper must import: the
// source name when the call site's import renamed the function, otherwise
// the function name itself.
func (c CallSite) ImportedName() string {
	if c.SourceName != "" {
		return c.SourceName
	}
	return c.FunctionName
}
