package jsparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImports(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		module   string
		typeOnly bool
		bindings []Binding
	}{
		{
			name:     "named import",
			src:      `import { cronStart } from "cronweave";`,
			module:   "cronweave",
			bindings: []Binding{{Local: "cronStart", Imported: "cronStart", Kind: BindNamed}},
		},
		{
			name:   "renamed and plain entries",
			src:    `import { cronStart as cs, other } from 'cronweave'`,
			module: "cronweave",
			bindings: []Binding{
				{Local: "cs", Imported: "cronStart", Kind: BindNamed},
				{Local: "other", Imported: "other", Kind: BindNamed},
			},
		},
		{
			name:     "default import",
			src:      `import React from "react";`,
			module:   "react",
			bindings: []Binding{{Local: "React", Kind: BindDefault}},
		},
		{
			name:   "default plus named",
			src:    `import def, { a as b } from "m";`,
			module: "m",
			bindings: []Binding{
				{Local: "def", Kind: BindDefault},
				{Local: "b", Imported: "a", Kind: BindNamed},
			},
		},
		{
			name:     "namespace import",
			src:      `import * as ns from "m";`,
			module:   "m",
			bindings: []Binding{{Local: "ns", Kind: BindNamespace}},
		},
		{
			name:   "side effect import",
			src:    `import "./polyfill";`,
			module: "./polyfill",
		},
		{
			name:     "type-only declaration binds nothing",
			src:      `import type { Config } from "m";`,
			module:   "m",
			typeOnly: true,
		},
		{
			name:     "inline type entry dropped",
			src:      `import { type Config, real } from "m";`,
			module:   "m",
			bindings: []Binding{{Local: "real", Imported: "real", Kind: BindNamed}},
		},
		{
			name:     "default binding named type",
			src:      `import type from "m";`,
			module:   "m",
			bindings: []Binding{{Local: "type", Kind: BindDefault}},
		},
		{
			name:   "multiline list with comments and trailing comma",
			src:    "import {\n  cronStart, // scheduling\n  helper,\n} from \"cronweave\";",
			module: "cronweave",
			bindings: []Binding{
				{Local: "cronStart", Imported: "cronStart", Kind: BindNamed},
				{Local: "helper", Imported: "helper", Kind: BindNamed},
			},
		},
		{
			name:     "string-named export",
			src:      `import { "not-ident" as x } from "m";`,
			module:   "m",
			bindings: []Binding{{Local: "x", Imported: "not-ident", Kind: BindNamed}},
		},
		{
			name:     "import attributes included in span",
			src:      `import data from "./d.json" with { type: "json" };`,
			module:   "./d.json",
			bindings: []Binding{{Local: "data", Kind: BindDefault}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decls := ParseImports(tt.src)
			require.Len(t, decls, 1)

			d := decls[0]
			assert.Equal(t, tt.module, d.Module)
			assert.Equal(t, tt.typeOnly, d.TypeOnly)
			assert.Equal(t, tt.bindings, d.Bindings)
			// The span must cover the whole declaration text.
			assert.Equal(t, tt.src, tt.src[d.Start:d.End])
		})
	}
}

func TestParseImports_NonDeclarations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"dynamic import", `const m = await import("./x");`},
		{"import.meta", `console.log(import.meta.url);`},
		{"commented out", `// import { a } from "b";`},
		{"inside string", `const s = "import { a } from 'b'";`},
		{"identifier containing the word", `const importantThing = 1;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ParseImports(tt.src))
		})
	}
}

func TestParseImports_NamedListSpan(t *testing.T) {
	src := `import def, { a, b as c } from "m";`
	f := NewFile(src)
	decls := f.Imports()
	require.Len(t, decls, 1)

	d := decls[0]
	require.False(t, d.Named.IsZero())
	assert.Equal(t, `{ a, b as c }`, d.Named.Slice(src))

	items := f.ListItems(d.Named)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Slice(src))
	assert.Equal(t, "b as c", items[1].Slice(src))
}

func TestParseImports_NoNamedList(t *testing.T) {
	decls := ParseImports(`import def from "m";`)
	require.Len(t, decls, 1)
	assert.True(t, decls[0].Named.IsZero())
}

func TestParseImports_MultipleDeclarations(t *testing.T) {
	src := `import a from "first";
import { b, c as d } from "second"; // note
const x = 1;
import "./third";`

	decls := ParseImports(src)
	require.Len(t, decls, 3)
	assert.Equal(t, "first", decls[0].Module)
	assert.Equal(t, "second", decls[1].Module)
	assert.Equal(t, "./third", decls[2].Module)
	assert.True(t, decls[0].End <= decls[1].Start)
	assert.True(t, decls[1].End <= decls[2].Start)
}
