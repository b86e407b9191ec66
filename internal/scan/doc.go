// Package scan discovers scheduling call sites in a project's source
// files. A file qualifies only when it both mentions the scheduling
// identifier and imports it from the expected module; qualifying files are
// lexed, their import declarations mapped, and every scheduling call's
// first argument resolved to an origin module. Results are deduplicated by
// (function name, origin) and returned in a deterministic order.
package scan
