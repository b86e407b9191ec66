package jsparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask_BlanksComments(t *testing.T) {
	src := "before // trailing (\nafter /* block ) */ end"
	mask := Mask(src)

	require.Len(t, mask, len(src))
	assert.NotContains(t, mask, "(")
	assert.NotContains(t, mask, ")")
	assert.Contains(t, mask, "before")
	assert.Contains(t, mask, "after")
	assert.Contains(t, mask, "end")
	assert.Equal(t, strings.Count(src, "\n"), strings.Count(mask, "\n"))
}

func TestMask_StringInteriors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "double and single quotes",
			src:  `f("a(b", 'c)d')`,
			want: `f("   ", '   ')`,
		},
		{
			name: "escaped quote stays inside",
			src:  `x = "a\"b("`,
			want: `x = "     "`,
		},
		{
			name: "unterminated string stops at newline",
			src:  "x = \"oops\ny()",
			want: "x = \"    \ny()",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.src))
		})
	}
}

func TestMask_TemplateLiterals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "text blanked expression kept",
			src:  "`a${x}b`",
			want: "` ${x} `",
		},
		{
			name: "nested template inside expression",
			src:  "`a${f(`inner${y}`)}c`",
			want: "` ${f(`     ${y}`)} `",
		},
		{
			name: "object literal inside expression",
			src:  "`v=${ {a: 1} }!`",
			want: "`  ${ {a: 1} } `",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.src))
		})
	}
}

func TestMask_RegexVersusDivision(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "regex after assignment",
			src:  `const re = /a(b/g; x = 1/2;`,
			want: `const re = /   / ; x = 1/2;`,
		},
		{
			name: "division after identifier",
			src:  `const half = total / 2; const r = /x/;`,
			want: `const half = total / 2; const r = / /;`,
		},
		{
			name: "regex after return keyword",
			src:  `return /ab/.test(s);`,
			want: `return /  /.test(s);`,
		},
		{
			name: "character class swallows slash",
			src:  `m = /[/]x/;`,
			want: `m = /    /;`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.src))
		})
	}
}

func TestMask_PreservesLengthAndOffsets(t *testing.T) {
	src := "import { a } from \"m\";\nconst t = `x${a}y`; // done\n"
	mask := Mask(src)

	require.Len(t, mask, len(src))
	for i := 0; i < len(src); i++ {
		if mask[i] != ' ' {
			assert.Equal(t, src[i], mask[i], "offset %d", i)
		}
	}
}

func TestFile_ContainsIdent(t *testing.T) {
	f := NewFile(`const cronStartTime = 1; // cronStart
const s = "cronStart";
run(cronStart);`)

	assert.True(t, f.ContainsIdent("cronStart"))
	assert.True(t, f.ContainsIdent("cronStartTime"))
	assert.False(t, f.ContainsIdent("cron"))
}
