// Package harness runs fixture-project conformance scenarios end to end.
//
// A scenario is a YAML file describing a small project inline: its source
// files, which of them the transformer should rewrite, and assertions
// over the discovered call sites, the generated container, and the
// rewritten output. The runner materializes the fixture in a temp
// directory, runs scan, generate, and transform against it, and evaluates
// the assertions.
//
// Results snapshot to canonical JSON with every path re-expressed
// relative to the fixture root, so a scenario's output is byte-stable and
// can be pinned with a golden file (see RunWithGolden).
package harness
