package codegen

import (
	"path/filepath"
	"strings"

	"github.com/roach88/cronweave/internal/ir"
	"github.com/roach88/cronweave/internal/tspath"
)

// modulePath selects the import specifier the synthesized wrapper uses to
// reach the scheduled function. The policy preserves whichever form is
// most stable against restructuring, in order:
//
//  1. an alias-form origin passes through verbatim
//  2. a relative origin is resolved against the call site's directory and
//     re-expressed as an alias when the table covers the target
//  3. otherwise it becomes a relative path from the wrapper's directory
//  4. a bare package origin passes through untouched
func modulePath(site ir.CallSite, wrapperDir string, table *tspath.AliasTable) string {
	if tspath.IsAliasForm(site.Origin, table) {
		return site.Origin
	}
	if tspath.IsRelative(site.Origin) {
		target := filepath.Join(filepath.Dir(site.File), filepath.FromSlash(site.Origin))
		if alias, ok := table.ToAlias(target); ok {
			return alias
		}
		return RelativeSpecifier(wrapperDir, target)
	}
	return site.Origin
}

// WrapperSpecifier renders the import specifier a file in fromDir uses to
// reach the synthesized wrapper module for a scheduled function. The
// transformer and the generator share it so rewritten imports always
// agree with the generated layout.
func WrapperSpecifier(fromDir, containerRoot, functionName string) string {
	target := filepath.Join(containerRoot, ir.ContainerDirName(functionName), wrapperModuleName)
	return RelativeSpecifier(fromDir, target)
}

// RelativeSpecifier renders target as an import specifier relative to
// fromDir: forward slashes, same-directory marker guaranteed.
func RelativeSpecifier(fromDir, target string) string {
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		// Different volumes; nothing relative can reach the target.
		return filepath.ToSlash(target)
	}
	rel = filepath.ToSlash(rel)
	if rel != ".." && !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel
}
