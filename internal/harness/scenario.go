package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines one fixture-project conformance case: the files of a
// small project, which of them to run through the transformer, and
// assertions over the discovered call sites and produced output.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files are keyed by it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Container optionally overrides the generated container location,
	// relative to the fixture root.
	Container string `yaml:"container,omitempty"`

	// Files is the fixture project: relative path to file contents.
	Files map[string]string `yaml:"files"`

	// Transform lists fixture files to run through the call-site rewriter
	// after generation.
	Transform []string `yaml:"transform,omitempty"`

	// Assertions validate the scenario outcome.
	// Supported types: site, site_count, file_contains, manifest.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of a scenario run.
type Assertion struct {
	// Type selects the check:
	// - "site": a call site for Function was discovered
	// - "site_count": exactly Count call sites were discovered
	// - "file_contains": a produced file contains a substring
	// - "manifest": the manifest maps Function as expected
	Type string `yaml:"type"`

	// Function names the scheduled function (site, manifest).
	Function string `yaml:"function,omitempty"`

	// Origin, Kind and Inferred narrow a site assertion when set.
	Origin   string `yaml:"origin,omitempty"`
	Kind     string `yaml:"kind,omitempty"`
	Inferred bool   `yaml:"inferred,omitempty"`

	// Count is the expected number of deduplicated sites (site_count).
	Count int `yaml:"count,omitempty"`

	// Path and Contains locate a substring in a generated or transformed
	// file (file_contains). Path is relative to the fixture root.
	Path     string `yaml:"path,omitempty"`
	Contains string `yaml:"contains,omitempty"`

	// WrapperName and ContainerDir pin the manifest entry (manifest).
	WrapperName  string `yaml:"wrapper_name,omitempty"`
	ContainerDir string `yaml:"container_dir,omitempty"`
}

// Assertion type constants.
const (
	AssertSite         = "site"
	AssertSiteCount    = "site_count"
	AssertFileContains = "file_contains"
	AssertManifest     = "manifest"
)

// LoadScenario reads and parses a scenario YAML file. Returns an error if
// the file doesn't exist, is malformed, contains unknown fields (typos),
// or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes scenario bytes with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and coherent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Files) == 0 {
		return fmt.Errorf("files map is required and must be non-empty")
	}

	for rel := range s.Files {
		clean := filepath.ToSlash(filepath.Clean(rel))
		if filepath.IsAbs(rel) || clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("files[%s]: path must stay inside the fixture root", rel)
		}
	}

	if s.Container != "" {
		clean := filepath.ToSlash(filepath.Clean(s.Container))
		if filepath.IsAbs(s.Container) || clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("container must be relative to the fixture root, got %q", s.Container)
		}
	}

	for i, rel := range s.Transform {
		if _, ok := s.Files[rel]; !ok {
			return fmt.Errorf("transform[%d]: %q is not a fixture file", i, rel)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSite:
		if a.Function == "" {
			return fmt.Errorf("assertions[%d]: function is required for site", index)
		}
	case AssertSiteCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for site_count", index)
		}
	case AssertFileContains:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for file_contains", index)
		}
		if a.Contains == "" {
			return fmt.Errorf("assertions[%d]: contains is required for file_contains", index)
		}
	case AssertManifest:
		if a.Function == "" {
			return fmt.Errorf("assertions[%d]: function is required for manifest", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
