package codegen

import (
	"fmt"
	"strings"

	"github.com/roach88/cronweave/internal/ir"
)

// Generated file names inside the container.
const (
	wrapperFileName  = "workflow.ts"
	routeFileName    = "route.ts"
	manifestFileName = "manifest.json"
	gitignoreName    = ".gitignore"
)

// wrapperModuleName is the extensionless specifier importing code uses.
const wrapperModuleName = "workflow"

const generatedHeader = "// Code generated by cronweave; DO NOT EDIT.\n"

// gitignoreContent ignores everything in the container: output is
// regenerated every build, never hand-edited, never committed.
const gitignoreContent = "*\n"

// cronConfigDecl is the configuration shape every wrapper accepts. The
// onError policy defaults to "continue"; the loop treats any other value
// than "stop" the same way.
const cronConfigDecl = `export interface CronConfig {
  args: any[];
  cron: string;
  timezone?: string;
  onError?: "continue" | "stop";
}
`

// wrapperSource renders the scheduler module for one scheduled function:
// log the start of scheduling, then loop forever sleeping until the next
// cron occurrence and starting an independent run of the function. The
// loop never returns; termination comes only from external cancellation
// of the scheduler's own run.
func wrapperSource(site ir.CallSite, w ir.WrapperDescriptor, module string) string {
	fn := site.FunctionName

	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "import { %s } from %q;\n", ir.StartIdent, ir.WorkflowPackage)
	fmt.Fprintf(&b, "import { %s } from %q;\n", ir.SleepIdent, ir.RuntimePackage)
	b.WriteString(scheduledImport(site, module))
	b.WriteString("\n")
	b.WriteString(cronConfigDecl)
	b.WriteString("\n")
	fmt.Fprintf(&b, "export async function %s(config: CronConfig): Promise<never> {\n", w.WrapperName)
	fmt.Fprintf(&b, "  console.log(`[%s] scheduling %s (${config.cron})`);\n", w.WrapperName, fn)
	b.WriteString("  while (true) {\n")
	fmt.Fprintf(&b, "    await %s(config.cron, config.timezone);\n", ir.SleepIdent)
	b.WriteString("    try {\n")
	fmt.Fprintf(&b, "      const run = await %s(%s, config.args);\n", ir.StartIdent, fn)
	fmt.Fprintf(&b, "      console.log(`[%s] started run ${run.runId}`);\n", w.WrapperName)
	b.WriteString("    } catch (err) {\n")
	fmt.Fprintf(&b, "      if (config.onError === %q) {\n", ir.OnErrorStop)
	b.WriteString("        throw err;\n")
	b.WriteString("      }\n")
	fmt.Fprintf(&b, "      console.error(`[%s] failed to start run`, err);\n", w.WrapperName)
	b.WriteString("    }\n")
	b.WriteString("  }\n")
	b.WriteString("}\n")
	return b.String()
}

// scheduledImport renders the import binding the wrapper uses for the
// scheduled function, reproducing the form the call site itself used. An
// inferred local origin imports the name as a named export of the calling
// file.
func scheduledImport(site ir.CallSite, module string) string {
	if site.Kind == ir.ImportDefault {
		return fmt.Sprintf("import %s from %q;\n", site.FunctionName, module)
	}
	if site.SourceName != "" && site.SourceName != site.FunctionName {
		return fmt.Sprintf("import { %s as %s } from %q;\n", site.SourceName, site.FunctionName, module)
	}
	return fmt.Sprintf("import { %s } from %q;\n", site.FunctionName, module)
}

// routeSource renders the discovery aggregator: it imports every wrapper,
// re-exports all of them, and answers GET with the sorted wrapper-name
// list, so an external discovery mechanism scanning for a known export
// shape finds every wrapper without traversing the container tree.
func routeSource(wrappers []ir.WrapperDescriptor) string {
	names := make([]string, len(wrappers))
	for i, w := range wrappers {
		names[i] = w.WrapperName
	}

	var b strings.Builder
	b.WriteString(generatedHeader)
	if len(wrappers) == 0 {
		b.WriteString("export {};\n")
	} else {
		for _, w := range wrappers {
			fmt.Fprintf(&b, "import { %s } from \"./%s/%s\";\n", w.WrapperName, w.ContainerDir, wrapperModuleName)
		}
		fmt.Fprintf(&b, "\nexport { %s };\n", strings.Join(names, ", "))
	}
	b.WriteString("\nexport async function GET(): Promise<Response> {\n")
	fmt.Fprintf(&b, "  return Response.json({ wrappers: [%s] });\n", quotedList(names))
	b.WriteString("}\n")
	return b.String()
}

// quotedList renders names as a double-quoted, comma-separated list.
func quotedList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}
