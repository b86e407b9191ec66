package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cronweave/internal/ir"
)

func TestScanSource_ContainmentShortCircuit(t *testing.T) {
	f := ScanSource(`export const n = 1;`, "/p/a.ts", ir.SchedulePackage)
	assert.False(t, f.Qualifies())
	assert.Nil(t, f.Parsed())
	assert.Empty(t, f.ScheduleCalls())
}

func TestScanSource_GateNeedsValueImport(t *testing.T) {
	f := ScanSource(`import type { cronStart } from "cronweave";
cronStart(fn, [], {});
`, "/p/a.ts", ir.SchedulePackage)
	assert.False(t, f.Qualifies())
	require.NotNil(t, f.Parsed())
}

func TestScanSource_CallsOrderedAcrossCallees(t *testing.T) {
	f := ScanSource(`import { cronStart, cronStart as also } from "cronweave";
import { a } from "./a";
import { b } from "./b";
also(b, [], { cron: "1 * * * *" });
cronStart(a, [], { cron: "2 * * * *" });
`, "/p/a.ts", ir.SchedulePackage)
	require.True(t, f.Qualifies())
	assert.Equal(t, []string{"cronStart", "also"}, f.Callees())

	calls := f.ScheduleCalls()
	require.Len(t, calls, 2)
	assert.Less(t, calls[0].Span.Start, calls[1].Span.Start)
	assert.Equal(t, "also", calls[0].Callee)

	sites := f.Sites()
	require.Len(t, sites, 2)
	assert.Equal(t, "b", sites[0].FunctionName)
	assert.Equal(t, "a", sites[1].FunctionName)
}

func TestFileScan_ResolveFallback(t *testing.T) {
	f := ScanSource(`import { cronStart } from "cronweave";
cronStart(local, [], {});
`, "/p/jobs/tasks.ts", ir.SchedulePackage)
	require.True(t, f.Qualifies())

	site := f.Resolve("local")
	assert.Equal(t, "./tasks", site.Origin)
	assert.Equal(t, ir.ImportLocal, site.Kind)
	assert.True(t, site.Inferred)
	assert.Equal(t, "/p/jobs/tasks.ts", site.File)
}
