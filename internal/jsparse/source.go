package jsparse

import "strings"

// File bundles source text with its code mask so repeated structural
// queries share a single lexical pass.
type File struct {
	src  string
	mask string
}

// NewFile lexes src once and returns a queryable handle.
func NewFile(src string) *File {
	return &File{src: src, mask: Mask(src)}
}

// Source returns the original text.
func (f *File) Source() string { return f.src }

// CodeMask returns the code mask (see Mask).
func (f *File) CodeMask() string { return f.mask }

// ContainsIdent reports whether name occurs as a whole identifier in code
// position, outside comments and literals.
func (f *File) ContainsIdent(name string) bool {
	for i := 0; ; {
		j := strings.Index(f.mask[i:], name)
		if j < 0 {
			return false
		}
		at := i + j
		if boundedIdent(f.mask, at, len(name)) {
			return true
		}
		i = at + 1
	}
}

// boundedIdent reports whether mask[at:at+n] sits at identifier boundaries
// on both sides.
func boundedIdent(mask string, at, n int) bool {
	if at > 0 && isIdentByte(mask[at-1]) {
		return false
	}
	if end := at + n; end < len(mask) && isIdentByte(mask[end]) {
		return false
	}
	return true
}
