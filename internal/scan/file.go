package scan

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/cronweave/internal/ir"
	"github.com/roach88/cronweave/internal/jsparse"
)

// FileScan binds the scheduling protocol to one source file. It backs both
// the project-wide Scan pass and the transformer's per-file rewrite, which
// need the same qualification gate, call extraction, and origin
// resolution.
//
// A file qualifies only when its text contains the scheduling identifier
// and an import binds that identifier from the expected module; the
// containment check runs before any lexing, so non-qualifying files cost a
// single substring search.
type FileScan struct {
	path    string
	parsed  *jsparse.File
	decls   []jsparse.ImportDecl
	callees []string
	imports map[string]binding
}

// binding is one locally-bound import the scanner can resolve a scheduled
// function against.
type binding struct {
	module   string
	imported string
	kind     ir.ImportKind
}

// ScanSource lexes src and indexes its import declarations against the
// given scheduling package. The path is recorded on resolved call sites
// and anchors same-file fallback origins; it should be absolute.
func ScanSource(src, path, schedulePackage string) *FileScan {
	f := &FileScan{path: path}
	if !strings.Contains(src, ir.ScheduleIdent) {
		return f
	}
	f.parsed = jsparse.NewFile(src)
	f.decls = f.parsed.Imports()
	f.callees = scheduleCallees(f.decls, schedulePackage)
	if len(f.callees) == 0 {
		return f
	}
	f.imports = importMap(f.decls)
	return f
}

// Qualifies reports whether the file passed the two-stage filter: the
// scheduling identifier occurs in the text and is imported from the
// expected module.
func (f *FileScan) Qualifies() bool { return len(f.callees) > 0 }

// Callees returns the local names the scheduling call is bound to.
// Rename-on-import is honored, so there can be several.
func (f *FileScan) Callees() []string { return f.callees }

// Parsed returns the lexed file, or nil when the containment check already
// disqualified it.
func (f *FileScan) Parsed() *jsparse.File { return f.parsed }

// Imports returns the file's import declarations in source order.
func (f *FileScan) Imports() []jsparse.ImportDecl { return f.decls }

// ScheduleCalls returns every call of a scheduling callee in source order.
// No argument-shape filtering is applied; callers decide how much of the
// call they can interpret.
func (f *FileScan) ScheduleCalls() []jsparse.Call {
	if !f.Qualifies() {
		return nil
	}
	var calls []jsparse.Call
	for _, callee := range f.callees {
		calls = append(calls, f.parsed.Calls(callee)...)
	}
	if len(f.callees) > 1 {
		sortCalls(calls)
	}
	return calls
}

// Sites resolves every scheduling call whose first argument is a bare
// identifier. Results are in source order and not deduplicated; Scan
// deduplicates across the whole file set.
func (f *FileScan) Sites() []ir.CallSite {
	src := f.parsed.Source()
	var sites []ir.CallSite
	for _, call := range f.ScheduleCalls() {
		if len(call.Args) == 0 {
			continue
		}
		first := call.Args[0].Slice(src)
		if jsparse.ClassifyArg(first) != jsparse.ArgIdent {
			// Silent precision limit: only a bare identifier names a
			// schedulable function.
			continue
		}
		sites = append(sites, f.Resolve(strings.TrimSpace(first)))
	}
	return sites
}

// Resolve builds the call site for a scheduled function name. A name with
// no import binding is assumed to be defined in the file itself; the
// returned site carries Inferred=true so callers can surface that
// assumption, which can also mean the import was written in a form the
// scanner does not recognize.
func (f *FileScan) Resolve(functionName string) ir.CallSite {
	name := ir.NormalizeName(functionName)
	site := ir.CallSite{FunctionName: name, File: f.path}

	if b, ok := f.imports[name]; ok {
		site.Origin = b.module
		site.Kind = b.kind
		if b.kind == ir.ImportNamed && b.imported != name {
			site.SourceName = b.imported
		}
		return site
	}

	base := strings.TrimSuffix(filepath.Base(f.path), filepath.Ext(f.path))
	site.Origin = "./" + base
	site.Kind = ir.ImportLocal
	site.Inferred = true
	return site
}

// scheduleCallees returns the local names the scheduling call is bound to
// in a file. Rename-on-import is honored; a type-only import does not
// qualify.
func scheduleCallees(decls []jsparse.ImportDecl, schedulePackage string) []string {
	var out []string
	for _, d := range decls {
		if d.Module != schedulePackage {
			continue
		}
		for _, b := range d.Bindings {
			if b.Kind == jsparse.BindNamed && b.Imported == ir.ScheduleIdent {
				out = append(out, b.Local)
			}
		}
	}
	return out
}

// importMap indexes every named and default import binding by local name.
// Namespace bindings are omitted: a namespace member is not a bare
// identifier and can never appear as the scheduled-function argument.
func importMap(decls []jsparse.ImportDecl) map[string]binding {
	m := make(map[string]binding)
	for _, d := range decls {
		for _, b := range d.Bindings {
			switch b.Kind {
			case jsparse.BindNamed:
				m[b.Local] = binding{module: d.Module, imported: b.Imported, kind: ir.ImportNamed}
			case jsparse.BindDefault:
				m[b.Local] = binding{module: d.Module, kind: ir.ImportDefault}
			}
		}
	}
	return m
}

// sortCalls orders calls by source position. Calls of a single callee
// already arrive ordered; merging several callees' lists needs the sort.
func sortCalls(calls []jsparse.Call) {
	sort.Slice(calls, func(i, j int) bool {
		return calls[i].Span.Start < calls[j].Span.Start
	})
}
