package harness

import (
	"fmt"
	"sort"
	"strings"
)

// AssertionError is returned when an assertion fails. It includes what was
// expected, what was found, and the discovered sites for context.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Sites    []SiteRecord
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Sites) > 0 {
		fmt.Fprintf(&buf, "\nDiscovered sites:\n")
		for i, s := range e.Sites {
			fmt.Fprintf(&buf, "  [%d] %s from %q (%s) in %s\n", i+1, s.Function, s.Origin, s.Kind, s.File)
		}
	}
	return buf.String()
}

// assertSite checks that a call site for the function was discovered,
// optionally pinning origin, import kind, and the inferred flag.
func assertSite(result *Result, assertion Assertion) error {
	for _, s := range result.Sites {
		if s.Function != assertion.Function {
			continue
		}
		if assertion.Origin != "" && s.Origin != assertion.Origin {
			continue
		}
		if assertion.Kind != "" && s.Kind != assertion.Kind {
			continue
		}
		if assertion.Inferred && !s.Inferred {
			continue
		}
		return nil
	}

	want := fmt.Sprintf("site for %s", assertion.Function)
	if assertion.Origin != "" {
		want += fmt.Sprintf(" from %q", assertion.Origin)
	}
	if assertion.Kind != "" {
		want += fmt.Sprintf(" (%s)", assertion.Kind)
	}
	return &AssertionError{
		Type:     AssertSite,
		Expected: want,
		Actual:   "not discovered",
		Sites:    result.Sites,
	}
}

// assertSiteCount checks the number of deduplicated call sites.
func assertSiteCount(result *Result, assertion Assertion) error {
	if len(result.Sites) == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertSiteCount,
		Expected: fmt.Sprintf("%d call sites", assertion.Count),
		Actual:   fmt.Sprintf("%d call sites", len(result.Sites)),
		Sites:    result.Sites,
	}
}

// assertFileContains checks that a generated or transformed file contains
// a substring.
func assertFileContains(result *Result, assertion Assertion) error {
	content, ok := result.FileContent(assertion.Path)
	if !ok {
		return &AssertionError{
			Type:     AssertFileContains,
			Expected: fmt.Sprintf("file %s", assertion.Path),
			Actual:   fmt.Sprintf("not produced; have %s", strings.Join(producedPaths(result), ", ")),
		}
	}
	if !strings.Contains(content, assertion.Contains) {
		return &AssertionError{
			Type:     AssertFileContains,
			Expected: fmt.Sprintf("%s to contain %q", assertion.Path, assertion.Contains),
			Actual:   "substring not found",
		}
	}
	return nil
}

// assertManifest checks the manifest entry for a scheduled function.
func assertManifest(result *Result, assertion Assertion) error {
	entry, ok := result.Manifest[assertion.Function]
	if !ok {
		return &AssertionError{
			Type:     AssertManifest,
			Expected: fmt.Sprintf("manifest entry for %s", assertion.Function),
			Actual:   fmt.Sprintf("absent; manifest has %d entries", len(result.Manifest)),
			Sites:    result.Sites,
		}
	}
	if assertion.WrapperName != "" && entry.WrapperName != assertion.WrapperName {
		return &AssertionError{
			Type:     AssertManifest,
			Expected: fmt.Sprintf("%s wrapped as %s", assertion.Function, assertion.WrapperName),
			Actual:   fmt.Sprintf("wrapped as %s", entry.WrapperName),
		}
	}
	if assertion.ContainerDir != "" && entry.ContainerDir != assertion.ContainerDir {
		return &AssertionError{
			Type:     AssertManifest,
			Expected: fmt.Sprintf("%s in directory %s", assertion.Function, assertion.ContainerDir),
			Actual:   fmt.Sprintf("in directory %s", entry.ContainerDir),
		}
	}
	return nil
}

// producedPaths lists every produced file path, for failure messages.
func producedPaths(result *Result) []string {
	paths := make([]string, 0, len(result.Files)+len(result.Transformed))
	for rel := range result.Files {
		paths = append(paths, rel)
	}
	for rel := range result.Transformed {
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	return paths
}

// EvaluateAssertions evaluates all assertions against the result,
// returning one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string
	for i, assertion := range assertions {
		var err error
		switch assertion.Type {
		case AssertSite:
			err = assertSite(result, assertion)
		case AssertSiteCount:
			err = assertSiteCount(result, assertion)
		case AssertFileContains:
			err = assertFileContains(result, assertion)
		case AssertManifest:
			err = assertManifest(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}
		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
