// Package ir provides the core data model for cronweave's generation pass.
//
// This package contains type definitions and pure derivation functions only.
// All other internal packages import ir; ir imports nothing internal. This
// ensures ir remains the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - CallSite identity is (function name, origin); the scanner guarantees
//     downstream consumers never see duplicates
//   - Wrapper and directory names are pure functions of the NFC-normalized
//     function name, so repeated generation runs are name-stable
//   - The manifest schema is consumed by the JavaScript side and therefore
//     uses camelCase keys; everything else uses snake_case JSON tags
package ir
