// Package transform rewrites scheduling call sites in place. Given one
// source file's text, it removes the scheduling-call import, injects
// imports for the task-start primitive and every synthesized wrapper, and
// replaces each scheduling call with a start invocation of its wrapper,
// folding the positional arguments into the options object under a single
// configuration key.
//
// The rewrite is pure text to text with no disk access and no shared
// state, safe for concurrent per-file use inside a bundler's loader
// chain. Generation (creating wrapper files) and rewriting are
// deliberately independent passes: they share only the discovered call
// sites and the container location, so one can run as a pre-build
// filesystem pass and the other inside the loader without either knowing
// how the other is invoked.
//
// A call whose shape the matcher cannot fully interpret is left exactly
// as written, and a file containing no interpretable call is returned
// unchanged.
package transform
