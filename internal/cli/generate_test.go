package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cronweave/internal/testutil"
)

// scheduleFixture is a minimal project with one scheduling call site.
var scheduleFixture = map[string]string{
	"src/page.ts": `import { cronStart } from "cronweave";
import { sendReport } from "./jobs/report";

cronStart(sendReport, ["ops@example.com"], { cron: "0 9 * * *" });
`,
	"src/jobs/report.ts": "export async function sendReport(to: string) {}\n",
}

func TestGenerateCommand(t *testing.T) {
	root := testutil.WriteProject(t, scheduleFixture)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewGenerateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{root})

	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "✓ Generated 1 wrapper(s) in app/cron")
	assert.Contains(t, buf.String(), "sendReport → cron_sendReport (cron-sendReport/)")

	// Container materialized on disk
	container := filepath.Join(root, "app", "cron")
	for _, rel := range []string{
		".gitignore",
		"manifest.json",
		"route.ts",
		filepath.Join("cron-sendReport", "workflow.ts"),
	} {
		_, statErr := os.Stat(filepath.Join(container, rel))
		assert.NoError(t, statErr, "expected %s", rel)
	}
}

func TestGenerateCommandIdempotent(t *testing.T) {
	root := testutil.WriteProject(t, scheduleFixture)
	rootOpts := &RootOptions{Format: "text"}

	first := &bytes.Buffer{}
	cmd := NewGenerateCommand(rootOpts)
	cmd.SetOut(first)
	cmd.SetArgs([]string{root})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, first.String(), "✓ Generated")

	second := &bytes.Buffer{}
	cmd = NewGenerateCommand(rootOpts)
	cmd.SetOut(second)
	cmd.SetArgs([]string{root})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, second.String(), "Container up to date")
}

func TestGenerateCommandJSON(t *testing.T) {
	root := testutil.WriteProject(t, scheduleFixture)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewGenerateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{root})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "app/cron", data["container"])
	assert.Equal(t, true, data["changed"])

	wrappers, ok := data["wrappers"].([]interface{})
	require.True(t, ok)
	require.Len(t, wrappers, 1)
	wrapper := wrappers[0].(map[string]interface{})
	assert.Equal(t, "sendReport", wrapper["function"])
	assert.Equal(t, "cron_sendReport", wrapper["wrapper"])
	assert.Equal(t, "cron-sendReport", wrapper["container_dir"])
}

func TestGenerateCommandContainerFlag(t *testing.T) {
	root := testutil.WriteProject(t, scheduleFixture)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewGenerateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{root, "--container", "generated/cron"})

	err := cmd.Execute()
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(root, "generated", "cron", "manifest.json"))
	assert.NoError(t, statErr)
}

func TestGenerateCommandEmptyProject(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"src/page.ts": "export default function Page() { return null; }\n",
	})

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewGenerateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{root})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ Generated 0 wrapper(s)")

	// Even an empty container carries the route and manifest.
	_, statErr := os.Stat(filepath.Join(root, "app", "cron", "route.ts"))
	assert.NoError(t, statErr)
}

func TestGenerateCommandMissingRoot(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewGenerateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E003]")
}

func TestGenerateCommandInvalidConfig(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"cronweave.yaml": "no_such_field: true\n",
	})

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewGenerateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{root})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E004]")
}
