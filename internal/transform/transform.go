package transform

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/cronweave/internal/codegen"
	"github.com/roach88/cronweave/internal/ir"
	"github.com/roach88/cronweave/internal/jsparse"
	"github.com/roach88/cronweave/internal/scan"
)

// Options configure a transformer. The zero value targets the standard
// scheduling package and the conventional container location.
type Options struct {
	// SchedulePackage is the module specifier a qualifying import must
	// name. Defaults to ir.SchedulePackage.
	SchedulePackage string

	// ContainerDir overrides the container location, relative to the
	// project root. Must match the generator's setting or rewritten
	// imports will point past the generated files.
	ContainerDir string
}

// Transformer rewrites scheduling call sites in source text. One
// transformer serves a whole project; Transform holds no per-call state
// and is safe for concurrent use.
type Transformer struct {
	projectRoot   string
	containerRoot string
	schedulePkg   string
}

// New builds a transformer for a project root. The container location is
// resolved once, the same way the generator resolves it.
func New(projectRoot string, opts Options) (*Transformer, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving project root %q: %w", projectRoot, err)
	}
	pkg := opts.SchedulePackage
	if pkg == "" {
		pkg = ir.SchedulePackage
	}
	return &Transformer{
		projectRoot:   root,
		containerRoot: codegen.ContainerRoot(root, opts.ContainerDir),
		schedulePkg:   pkg,
	}, nil
}

// Result is the outcome of one file rewrite.
type Result struct {
	// Code is the rewritten source, or the input unchanged.
	Code string

	// Changed reports whether Code differs from the input.
	Changed bool

	// Sites lists the call sites whose calls were rewritten, deduplicated
	// by (function name, origin), in call order.
	Sites []ir.CallSite
}

// Transform rewrites every interpretable scheduling call in source. The
// file is a no-op unless it both mentions the scheduling identifier and
// imports it from the expected module, and unless at least one call
// matches the three-argument shape: scheduled-function identifier, array
// literal or identifier, object literal or identifier. A relative
// sourceFile is resolved against the project root; the path locates the
// file for wrapper-import paths and fallback origins, it is never read.
func (t *Transformer) Transform(source, sourceFile string) Result {
	abs := sourceFile
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(t.projectRoot, abs)
	}

	f := scan.ScanSource(source, abs, t.schedulePkg)
	if !f.Qualifies() {
		return Result{Code: source}
	}

	rewrites, sites := planRewrites(f)
	if len(rewrites) == 0 {
		// Calls the matcher cannot interpret keep their imports too;
		// removing them would break what was left unrewritten.
		return Result{Code: source}
	}

	code := applyEdits(source, rewrites)
	code = removeScheduleImports(code, t.schedulePkg)
	code = t.injectImports(code, filepath.Dir(abs), sites)

	return Result{Code: code, Changed: code != source, Sites: sites}
}

// edit is one span replacement in a source text.
type edit struct {
	span jsparse.Span
	text string
}

// applyEdits splices replacements back to front so earlier spans stay
// valid while later ones are rewritten. Spans must not overlap.
func applyEdits(src string, edits []edit) string {
	sorted := make([]edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].span.Start > sorted[j].span.Start
	})
	for _, e := range sorted {
		src = src[:e.span.Start] + e.text + src[e.span.End:]
	}
	return src
}

// planRewrites validates every scheduling call against the rewrite shape
// and returns one edit per match plus the matched call sites. A call
// nested inside another matched call's argument list is skipped; the
// outer rewrite carries its text along verbatim.
func planRewrites(f *scan.FileScan) ([]edit, []ir.CallSite) {
	src := f.Parsed().Source()
	seen := make(map[ir.CallSiteKey]bool)
	var (
		edits   []edit
		sites   []ir.CallSite
		lastEnd int
	)
	for _, call := range f.ScheduleCalls() {
		if call.Span.Start < lastEnd {
			continue
		}
		if len(call.Args) != 3 {
			continue
		}
		fnExpr := call.Args[0].Slice(src)
		if jsparse.ClassifyArg(fnExpr) != jsparse.ArgIdent {
			continue
		}
		argsExpr := call.Args[1].Slice(src)
		if k := jsparse.ClassifyArg(argsExpr); k != jsparse.ArgArrayLiteral && k != jsparse.ArgIdent {
			continue
		}
		optsExpr := call.Args[2].Slice(src)
		optsKind := jsparse.ClassifyArg(optsExpr)
		if optsKind != jsparse.ArgObjectLiteral && optsKind != jsparse.ArgIdent {
			continue
		}

		site := f.Resolve(strings.TrimSpace(fnExpr))
		edits = append(edits, edit{
			span: call.Span,
			text: startInvocation(site.FunctionName, argsExpr, optsExpr, optsKind),
		})
		lastEnd = call.Span.End
		if !seen[site.Key()] {
			seen[site.Key()] = true
			sites = append(sites, site)
		}
	}
	return edits, sites
}

// startInvocation renders the replacement for one scheduling call: the
// task-start primitive invoked with the wrapper identifier and a
// one-element argument list holding the merged configuration.
func startInvocation(functionName, argsExpr, optsExpr string, optsKind jsparse.ArgKind) string {
	return fmt.Sprintf("%s(%s, [%s])",
		ir.StartIdent, ir.WrapperName(functionName), mergeConfig(argsExpr, optsExpr, optsKind))
}

// mergeConfig folds the positional-arguments expression into the options
// under the args key. An object-literal options node has the key spliced
// in before its existing properties; a bare identifier is spread after it.
func mergeConfig(argsExpr, optsExpr string, optsKind jsparse.ArgKind) string {
	if optsKind == jsparse.ArgIdent {
		return fmt.Sprintf("{ %s: %s, ...%s }", ir.ArgsKey, argsExpr, optsExpr)
	}
	interior := strings.TrimSpace(optsExpr[1 : len(optsExpr)-1])
	if interior == "" {
		return fmt.Sprintf("{ %s: %s }", ir.ArgsKey, argsExpr)
	}
	return fmt.Sprintf("{ %s: %s, %s }", ir.ArgsKey, argsExpr, interior)
}
