// Package codegen synthesizes scheduler modules from discovered call
// sites: one wrapper per scheduled function, a manifest mapping function
// names to wrapper identities, and a route module that re-exports every
// wrapper for discovery.
//
// Construction is transactional. The container is fully written into a
// token-named stage directory beside its final location, then swapped into
// place; a stage that turns out byte-identical to the existing container is
// discarded without touching it. Each pass therefore yields a completely
// recreated (or proven-identical) container, never an incremental merge,
// and a failed pass leaves the previous container intact.
//
// Wrapper identifiers and directory names are pure functions of the
// scheduled function's name (see ir), so regeneration is name-stable;
// wrapper contents may still differ between runs when the alias table
// changed how an import is best expressed.
package codegen
