// Package testutil provides shared helpers for tests: fixture project
// trees materialized under temp directories and readers that snapshot a
// directory back into a comparable map.
package testutil
