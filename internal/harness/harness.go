package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/cronweave/internal/codegen"
	"github.com/roach88/cronweave/internal/ir"
	"github.com/roach88/cronweave/internal/scan"
	"github.com/roach88/cronweave/internal/transform"
)

// Run executes a scenario and returns its result.
//
// Each scenario runs against a fresh temp-dir fixture for isolation:
//
//  1. Materialize the fixture files
//  2. Discover call sites (scan)
//  3. Synthesize the container (generate)
//  4. Rewrite the listed sources (transform)
//  5. Evaluate assertions into the result
//
// Infrastructure failures return an error; assertion failures return a
// result with Pass=false.
func Run(scenario *Scenario) (*Result, error) {
	root, err := os.MkdirTemp("", "cronweave-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("creating fixture root: %w", err)
	}
	defer os.RemoveAll(root)

	for rel, content := range scenario.Files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("materializing %s: %w", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("materializing %s: %w", rel, err)
		}
	}

	ctx := context.Background()
	result := NewResult()

	container := codegen.ContainerRoot(root, scenario.Container)
	scanOpts := scan.Options{SkipPaths: []string{container}}

	files, err := scan.FindSourceFiles(root, scanOpts)
	if err != nil {
		return nil, fmt.Errorf("finding fixture sources: %w", err)
	}
	sites, err := scan.Scan(ctx, files, root, scanOpts)
	if err != nil {
		return nil, fmt.Errorf("scanning fixture: %w", err)
	}
	for _, s := range sites {
		result.Sites = append(result.Sites, toSiteRecord(root, s))
	}

	gen, err := codegen.Generate(ctx, sites, root, codegen.Options{ContainerDir: scenario.Container})
	if err != nil {
		return nil, fmt.Errorf("generating container: %w", err)
	}
	result.Manifest = gen.Manifest
	result.Container = rootRelative(root, gen.ContainerRoot)
	for _, abs := range gen.FilesWritten {
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("reading generated file: %w", err)
		}
		result.Files[rootRelative(root, abs)] = string(data)
	}

	if len(scenario.Transform) > 0 {
		tr, err := transform.New(root, transform.Options{ContainerDir: scenario.Container})
		if err != nil {
			return nil, fmt.Errorf("preparing transformer: %w", err)
		}
		for _, rel := range scenario.Transform {
			out := tr.Transform(scenario.Files[rel], filepath.FromSlash(rel))
			result.Transformed[rel] = out.Code
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// toSiteRecord re-expresses a call site relative to the fixture root.
func toSiteRecord(root string, s ir.CallSite) SiteRecord {
	return SiteRecord{
		Function: s.FunctionName,
		Origin:   s.Origin,
		Kind:     string(s.Kind),
		File:     rootRelative(root, s.File),
		Inferred: s.Inferred,
	}
}

// rootRelative renders an absolute fixture path relative to the root in
// slash form; paths outside the root stay absolute.
func rootRelative(root, abs string) string {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
