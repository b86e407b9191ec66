package harness

import "github.com/roach88/cronweave/internal/ir"

// SiteRecord is a discovered call site with its file path re-expressed
// relative to the fixture root, so results are stable across temp
// directories.
type SiteRecord struct {
	Function string `json:"function"`
	Origin   string `json:"origin"`
	Kind     string `json:"kind"`
	File     string `json:"file"`
	Inferred bool   `json:"inferred,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: true until an assertion fails.
	Pass bool `json:"pass"`

	// Sites are the deduplicated call sites in discovery order.
	Sites []SiteRecord `json:"sites"`

	// Container is the generated container location, relative to the
	// fixture root in slash form.
	Container string `json:"container"`

	// Files is the generated container tree: root-relative slash path to
	// contents.
	Files map[string]string `json:"files"`

	// Manifest maps scheduled function names to wrapper identities.
	Manifest ir.Manifest `json:"manifest"`

	// Transformed holds the rewritten sources for every file the scenario
	// listed under transform, keyed by root-relative slash path.
	Transformed map[string]string `json:"transformed"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Files:       make(map[string]string),
		Transformed: make(map[string]string),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// FileContent returns a produced file by root-relative path, preferring
// the transformed rendition when the scenario rewrote that file.
func (r *Result) FileContent(rel string) (string, bool) {
	if content, ok := r.Transformed[rel]; ok {
		return content, true
	}
	content, ok := r.Files[rel]
	return content, ok
}
