package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cronweave/internal/testutil"
)

func TestTransformCommand(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"src/page.ts": `import { cronStart } from "cronweave";
import { sendReport } from "@/jobs/report";

cronStart(sendReport, ["ops@example.com"], { cron: "0 9 * * *" });
`,
	})

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTransformCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(root, "src", "page.ts"), "--root", root})

	err := cmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `import { start } from "workflow";`)
	assert.Contains(t, out, `import { cron_sendReport } from "../app/cron/cron-sendReport/workflow";`)
	assert.Contains(t, out, `start(cron_sendReport, [{ args: ["ops@example.com"], cron: "0 9 * * *" }]);`)
	assert.NotContains(t, out, "cronStart")
	assert.NotContains(t, out, `"cronweave"`)
}

func TestTransformCommandPassThrough(t *testing.T) {
	source := "export default function Page() { return null; }\n"
	root := testutil.WriteProject(t, map[string]string{
		"src/page.ts": source,
	})

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTransformCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(root, "src", "page.ts"), "--root", root})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, source, buf.String())
}

func TestTransformCommandJSON(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"src/page.ts": `import { cronStart } from "cronweave";
import { sendReport } from "@/jobs/report";

cronStart(sendReport, [], { cron: "0 9 * * *" });
`,
	})

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTransformCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(root, "src", "page.ts"), "--root", root})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "src/page.ts", data["file"])
	assert.Equal(t, true, data["changed"])
	assert.Contains(t, data["code"], "start(cron_sendReport,")

	sites, ok := data["sites"].([]interface{})
	require.True(t, ok)
	require.Len(t, sites, 1)
	site := sites[0].(map[string]interface{})
	assert.Equal(t, "sendReport", site["function"])
}

func TestTransformCommandMissingFile(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"src/page.ts": "export {};\n",
	})

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTransformCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(root, "src", "missing.ts"), "--root", root})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E006]")
}

func TestTransformCommandMissingArg(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTransformCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
