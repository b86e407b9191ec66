package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/cronweave/internal/codegen"
	"github.com/roach88/cronweave/internal/ir"
	"github.com/roach88/cronweave/internal/jsparse"
)

// removeScheduleImports strips the scheduling identifier from every
// import of the expected module. A named list left with other entries is
// re-rendered without a stray comma; a declaration kept alive only by a
// default specifier is rebuilt around it; an emptied declaration is
// removed with its line.
func removeScheduleImports(src, schedulePackage string) string {
	f := jsparse.NewFile(src)
	var edits []edit
	for _, d := range f.Imports() {
		if d.Module != schedulePackage {
			continue
		}
		if e, ok := removalEdit(f, d); ok {
			edits = append(edits, e)
		}
	}
	return applyEdits(src, edits)
}

func removalEdit(f *jsparse.File, d jsparse.ImportDecl) (edit, bool) {
	if d.Named.IsZero() {
		// Only a named binding can carry the scheduling call; a default
		// or namespace import of the package is left alone.
		return edit{}, false
	}
	src := f.Source()

	kept := make([]string, 0, 2)
	removed := false
	for _, item := range f.ListItems(d.Named) {
		if entryImportedName(f, item) == ir.ScheduleIdent {
			removed = true
			continue
		}
		kept = append(kept, item.Slice(src))
	}
	if !removed {
		return edit{}, false
	}

	if len(kept) > 0 {
		return edit{span: d.Named, text: "{ " + strings.Join(kept, ", ") + " }"}, true
	}
	if def, ok := defaultBinding(d); ok {
		// The default specifier survives the emptied named list; the
		// statement is rebuilt in normalized form.
		text := fmt.Sprintf("import %s from %q;", def, d.Module)
		return edit{span: jsparse.Span{Start: d.Start, End: d.End}, text: text}, true
	}
	return edit{span: lineSpan(src, d.Start, d.End), text: ""}, true
}

// entryImportedName returns the exported name a named-import entry binds
// as a value, or "" for type-only entries. Reading the code mask keeps
// comments inside the entry out of the way; string-named entries are read
// back from the source.
func entryImportedName(f *jsparse.File, item jsparse.Span) string {
	src, mask := f.Source(), f.CodeMask()

	i := item.Start
	for i < item.End && isSpaceByte(mask[i]) {
		i++
	}
	if i >= item.End {
		return ""
	}
	if q := mask[i]; q == '"' || q == '\'' {
		for j := i + 1; j < item.End; j++ {
			if mask[j] == q {
				return src[i+1 : j]
			}
		}
		return ""
	}

	name := jsparse.IdentAt(mask, i)
	if name == "type" {
		j := i + len(name)
		for j < item.End && isSpaceByte(mask[j]) {
			j++
		}
		if j < item.End && (mask[j] == '"' || mask[j] == '\'') {
			return ""
		}
		if next := jsparse.IdentAt(mask, j); next != "" && next != "as" {
			return ""
		}
	}
	return name
}

func defaultBinding(d jsparse.ImportDecl) (string, bool) {
	for _, b := range d.Bindings {
		if b.Kind == jsparse.BindDefault {
			return b.Local, true
		}
	}
	return "", false
}

// lineSpan widens a declaration span to its whole line when the line
// holds nothing else, so removal leaves no blank line behind.
func lineSpan(src string, start, end int) jsparse.Span {
	ls := start
	for ls > 0 && (src[ls-1] == ' ' || src[ls-1] == '\t') {
		ls--
	}
	if ls != 0 && src[ls-1] != '\n' {
		return jsparse.Span{Start: start, End: end}
	}
	le := end
	for le < len(src) && (src[le] == ' ' || src[le] == '\t') {
		le++
	}
	if le < len(src) && src[le] == '\r' {
		le++
	}
	if le < len(src) && src[le] == '\n' {
		return jsparse.Span{Start: ls, End: le + 1}
	}
	return jsparse.Span{Start: start, End: end}
}

// injectImports appends the task-start primitive import (unless already
// bound) and one wrapper import per scheduled function after the last
// import declaration, or at the start of the file when none remain.
func (t *Transformer) injectImports(src, fromDir string, sites []ir.CallSite) string {
	f := jsparse.NewFile(src)
	decls := f.Imports()

	var lines []string
	if !bindsStartPrimitive(decls) {
		lines = append(lines, fmt.Sprintf("import { %s } from %q;", ir.StartIdent, ir.WorkflowPackage))
	}
	lines = append(lines, wrapperImports(fromDir, t.containerRoot, sites)...)
	block := strings.Join(lines, "\n") + "\n"

	at := injectionOffset(src, decls)
	if at > 0 && src[at-1] != '\n' {
		block = "\n" + block
	}
	return src[:at] + block + src[at:]
}

// bindsStartPrimitive reports whether the task-start primitive is already
// imported under its own name.
func bindsStartPrimitive(decls []jsparse.ImportDecl) bool {
	for _, d := range decls {
		if d.Module != ir.WorkflowPackage {
			continue
		}
		for _, b := range d.Bindings {
			if b.Kind == jsparse.BindNamed && b.Local == ir.StartIdent && b.Imported == ir.StartIdent {
				return true
			}
		}
	}
	return false
}

// wrapperImports renders one import per unique scheduled function, sorted
// by wrapper name so rewritten output is deterministic.
func wrapperImports(fromDir, containerRoot string, sites []ir.CallSite) []string {
	seen := make(map[string]bool, len(sites))
	var names []string
	for _, s := range sites {
		if !seen[s.FunctionName] {
			seen[s.FunctionName] = true
			names = append(names, s.FunctionName)
		}
	}
	sort.Strings(names)

	out := make([]string, len(names))
	for i, name := range names {
		out[i] = fmt.Sprintf("import { %s } from %q;",
			ir.WrapperName(name), codegen.WrapperSpecifier(fromDir, containerRoot, name))
	}
	return out
}

// injectionOffset returns the offset of the line following the last
// import declaration, or 0 when the file has none.
func injectionOffset(src string, decls []jsparse.ImportDecl) int {
	if len(decls) == 0 {
		return 0
	}
	at := decls[len(decls)-1].End
	for at < len(src) && src[at] != '\n' {
		at++
	}
	if at < len(src) {
		at++
	}
	return at
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
