package harness

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/cronweave/internal/ir"
)

func TestRunWithGolden_SingleWrapper(t *testing.T) {
	// Alias-form origins pass through generation verbatim, so the snapshot
	// bytes carry no machine-dependent paths.
	scenario := &Scenario{
		Name:        "single_wrapper",
		Description: "One named import yields one wrapper in the conventional container",
		Files: map[string]string{
			"src/page.ts": `import { cronStart } from "cronweave";
import { sendReport } from "@/jobs/report";

cronStart(sendReport, ["ops@example.com"], { cron: "0 9 * * *" });
`,
		},
		Assertions: []Assertion{
			{Type: AssertSiteCount, Count: 1},
			{Type: AssertManifest, Function: "sendReport", WrapperName: "cron_sendReport"},
		},
	}

	// Run with golden comparison
	// First run with -update to create golden file:
	//   go test ./internal/harness -run TestRunWithGolden_SingleWrapper -update
	err := RunWithGolden(t, scenario)
	require.NoError(t, err)
}

func TestRunWithGolden_TransformRewrite(t *testing.T) {
	scenario := &Scenario{
		Name:        "transform_rewrite",
		Description: "An app-router fixture is generated and its call site rewritten",
		Files: map[string]string{
			"src/app/page.ts": `import { cronStart } from "cronweave";
import { syncAccounts } from "@/jobs/accounts";

cronStart(syncAccounts, ["eu"], { cron: "*/5 * * * *", onError: "stop" });
`,
		},
		Transform: []string{"src/app/page.ts"},
		Assertions: []Assertion{
			{Type: AssertSite, Function: "syncAccounts", Origin: "@/jobs/accounts", Kind: "named"},
		},
	}

	err := RunWithGolden(t, scenario)
	require.NoError(t, err)
}

func TestAssertGolden_FromResult(t *testing.T) {
	// Run the scenario manually, then compare its result against the same
	// golden file RunWithGolden would use.
	scenario := &Scenario{
		Name:        "single_wrapper",
		Description: "Reuses the single_wrapper golden from an explicit result",
		Files: map[string]string{
			"src/page.ts": `import { cronStart } from "cronweave";
import { sendReport } from "@/jobs/report";

cronStart(sendReport, ["ops@example.com"], { cron: "0 9 * * *" });
`,
		},
		Assertions: []Assertion{
			{Type: AssertSiteCount, Count: 1},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass)

	err = AssertGolden(t, "single_wrapper", result)
	require.NoError(t, err)
}

func TestSnapshot_Determinism(t *testing.T) {
	// Two runs of the same scenario must produce identical canonical bytes;
	// temp fixture roots never leak into the snapshot.
	scenario := &Scenario{
		Name:        "determinism",
		Description: "Snapshot bytes are independent of the fixture root",
		Files: map[string]string{
			"src/page.ts": `import { cronStart } from "cronweave";
import { sendReport } from "@/jobs/report";

cronStart(sendReport, [], { cron: "0 9 * * *" });
`,
		},
		Assertions: []Assertion{
			{Type: AssertSiteCount, Count: 1},
		},
	}

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	json1, err := ir.MarshalCanonical(Snapshot(scenario.Name, first))
	require.NoError(t, err)
	json2, err := ir.MarshalCanonical(Snapshot(scenario.Name, second))
	require.NoError(t, err)

	require.Equal(t, json1, json2, "canonical snapshot must be deterministic")
}

func TestSnapshot_RootRelativePaths(t *testing.T) {
	result := NewResult()
	result.Sites = []SiteRecord{
		{Function: "sendReport", Origin: "@/jobs/report", Kind: "named", File: "src/page.ts"},
	}
	result.Container = "app/cron"
	result.Files = map[string]string{"app/cron/route.ts": "export {};\n"}

	snapshot := Snapshot("paths", result)
	jsonBytes, err := ir.MarshalCanonical(snapshot)
	require.NoError(t, err)

	jsonStr := string(jsonBytes)
	require.Contains(t, jsonStr, `"scenario":"paths"`)
	require.Contains(t, jsonStr, `"container":"app/cron"`)
	require.Contains(t, jsonStr, `"file":"src/page.ts"`)
	require.NotContains(t, jsonStr, "/tmp/")
}

func TestSnapshot_InferredFlagOnlyWhenSet(t *testing.T) {
	result := NewResult()
	result.Sites = []SiteRecord{
		{Function: "cleanup", Origin: "./tasks", Kind: "local", File: "src/tasks.ts", Inferred: true},
		{Function: "sendReport", Origin: "@/jobs/report", Kind: "named", File: "src/page.ts"},
	}
	result.Container = "app/cron"

	jsonBytes, err := ir.MarshalCanonical(Snapshot("inferred", result))
	require.NoError(t, err)

	jsonStr := string(jsonBytes)
	require.Contains(t, jsonStr, `"function":"cleanup","inferred":true`)
	require.NotContains(t, jsonStr, `"function":"sendReport","inferred"`)
}
