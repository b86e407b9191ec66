package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/cronweave/internal/ir"
)

// Snapshot renders a result as the canonical map golden files are built
// from. Every path inside is fixture-root-relative, so the bytes are
// stable across temp directories and machines.
func Snapshot(scenarioName string, result *Result) map[string]any {
	sites := make([]any, len(result.Sites))
	for i, s := range result.Sites {
		site := map[string]any{
			"function": s.Function,
			"origin":   s.Origin,
			"kind":     s.Kind,
			"file":     s.File,
		}
		if s.Inferred {
			site["inferred"] = true
		}
		sites[i] = site
	}

	files := make(map[string]any, len(result.Files))
	for rel, content := range result.Files {
		files[rel] = content
	}
	transformed := make(map[string]any, len(result.Transformed))
	for rel, content := range result.Transformed {
		transformed[rel] = content
	}

	return map[string]any{
		"scenario":    scenarioName,
		"container":   result.Container,
		"sites":       sites,
		"files":       files,
		"transformed": transformed,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against the
// golden file testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error when scenario execution itself fails; assertion and
// golden mismatches fail the test.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-executed result against the golden
// file for the scenario name.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := ir.MarshalCanonical(Snapshot(scenarioName, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
