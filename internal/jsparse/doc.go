// Package jsparse is a lexical layer over TypeScript/JavaScript source
// text: enough structure to read import declarations and extract call
// expressions with exactly balanced argument spans, without a syntax tree.
//
// The core primitive is the code mask (Mask): a byte-aligned copy of the
// source in which comment, string, template-text, and regex interiors are
// blanked. Scanning the mask instead of the raw source makes bracket
// balancing and identifier matching immune to brackets, quotes, and
// keywords that appear inside literals. Offsets computed on the mask are
// valid in the original source, which is what makes span-based rewriting
// safe.
//
// The package does not validate syntax. Malformed input yields fewer
// matches, never an error.
package jsparse
