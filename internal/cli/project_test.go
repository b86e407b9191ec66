package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cronweave/internal/ir"
	"github.com/roach88/cronweave/internal/testutil"
)

func TestLoadProjectDefaults(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"src/page.ts": "export {};\n",
	})

	project, err := LoadProject(root, "")
	require.NoError(t, err)

	assert.Equal(t, root, project.Root)
	assert.Equal(t, ir.SchedulePackage, project.Config.SchedulePackage)
	// No src/app in the fixture, so the container falls back to app/cron.
	assert.Equal(t, filepath.Join(root, "app", "cron"), project.Container)
}

func TestLoadProjectAppRouter(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"src/app/page.ts": "export {};\n",
	})

	project, err := LoadProject(root, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "app", "cron"), project.Container)
}

func TestLoadProjectContainerFlag(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"src/app/page.ts": "export {};\n",
	})

	project, err := LoadProject(root, "generated/cron")
	require.NoError(t, err)
	assert.Equal(t, "generated/cron", project.Config.Container)
	assert.Equal(t, filepath.Join(root, "generated", "cron"), project.Container)
}

func TestLoadProjectReadsConfig(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"cronweave.yaml": "schedule_package: \"@acme/cron\"\ncontainer: jobs/cron\n",
	})

	project, err := LoadProject(root, "")
	require.NoError(t, err)
	assert.Equal(t, "@acme/cron", project.Config.SchedulePackage)
	assert.Equal(t, filepath.Join(root, "jobs", "cron"), project.Container)
}

func TestLoadProjectNotFound(t *testing.T) {
	_, err := LoadProject(filepath.Join(t.TempDir(), "missing"), "")
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
	assert.Contains(t, loadErr.Message, "not found")
}

func TestLoadProjectNotADirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "page.ts")
	require.NoError(t, os.WriteFile(file, []byte("export {};\n"), 0o644))

	_, err := LoadProject(file, "")
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
	assert.Contains(t, loadErr.Message, "not a directory")
}

func TestLoadProjectInvalidConfig(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"cronweave.yaml": "watch_debounce: soon\n",
	})

	_, err := LoadProject(root, "")
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeConfigInvalid, loadErr.Code)
}

func TestProjectScanOptionsSkipContainer(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"src/app/page.ts": "export {};\n",
	})

	project, err := LoadProject(root, "")
	require.NoError(t, err)

	opts := project.ScanOptions()
	assert.Equal(t, []string{project.Container}, opts.SkipPaths)
	assert.Equal(t, ir.SchedulePackage, opts.SchedulePackage)
}

func TestProjectDiscover(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"src/page.ts": `import { cronStart } from "cronweave";
import { sendReport } from "./jobs/report";

cronStart(sendReport, [], { cron: "0 9 * * *" });
`,
		"src/jobs/report.ts": "export function sendReport() {}\n",
	})

	project, err := LoadProject(root, "")
	require.NoError(t, err)

	sites, err := project.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "sendReport", sites[0].FunctionName)
	assert.Equal(t, "./jobs/report", sites[0].Origin)
}

func TestProjectRel(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"src/page.ts": "export {};\n",
	})

	project, err := LoadProject(root, "")
	require.NoError(t, err)

	assert.Equal(t, "src/page.ts", project.Rel(filepath.Join(root, "src", "page.ts")))
	assert.Equal(t, ".", project.Rel(root))
}
