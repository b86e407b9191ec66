// Package tspath resolves the project's compiler path-alias configuration.
//
// The configuration lives in tsconfig.json or jsconfig.json (first match
// wins) and is JSONC: line comments, block comments, and trailing commas are
// all tolerated in the wild. Block comments are stripped string-aware; the
// remainder is compiled with CUE, which accepts JSON plus line comments and
// trailing commas natively.
//
// An alias pattern is a glob-like rule with at most one wildcard, mapping
// specifier prefixes to physical directory locations:
//
//	"paths": { "@/*": ["./src/*"] }
//
// Resolution is bidirectional: Resolve turns an alias-form specifier into an
// absolute path, ToAlias re-expresses an absolute path as an alias. The
// generator needs both directions because an import discovered as relative
// in one file must be re-expressed from a different file location,
// preserving whichever form is more stable against restructuring.
//
// Missing or unparsable configuration yields an empty table, never an
// error: alias support degrades to relative paths.
package tspath
