package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/cronweave/internal/codegen"
	"github.com/roach88/cronweave/internal/config"
	"github.com/roach88/cronweave/internal/ir"
	"github.com/roach88/cronweave/internal/scan"
)

// Project is the resolved invocation context shared by the commands: an
// absolute project root, its configuration, and the container location.
type Project struct {
	Root      string
	Config    config.Config
	Container string // absolute container path
}

// LoadError represents an error that occurred while resolving a project.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadProject resolves a project root argument into a Project. The root
// defaults to the current directory, must exist and be a directory, and
// its cronweave.yaml (if present) must parse and validate.
func LoadProject(rootArg, containerFlag string) (*Project, error) {
	if rootArg == "" {
		rootArg = "."
	}
	root, err := filepath.Abs(rootArg)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("resolving project root: %v", err)}
	}

	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("project root not found: %s", rootArg)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing project root: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", rootArg)}
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeConfigInvalid, Message: err.Error()}
	}
	// A --container flag wins over the configured location.
	if containerFlag != "" {
		cfg.Container = filepath.ToSlash(containerFlag)
	}

	return &Project{
		Root:      root,
		Config:    cfg,
		Container: codegen.ContainerRoot(root, cfg.Container),
	}, nil
}

// ScanOptions renders the project configuration as scanner options with
// the generated container pruned from discovery.
func (p *Project) ScanOptions() scan.Options {
	opts := p.Config.ScanOptions()
	opts.SkipPaths = []string{p.Container}
	return opts
}

// Discover walks the project tree and scans every source file for
// scheduling call sites.
func (p *Project) Discover(ctx context.Context) ([]ir.CallSite, error) {
	opts := p.ScanOptions()
	files, err := scan.FindSourceFiles(p.Root, opts)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanFailed, Message: fmt.Sprintf("walking project tree: %v", err)}
	}
	sites, err := scan.Scan(ctx, files, p.Root, opts)
	if err != nil {
		return nil, err
	}
	return sites, nil
}

// Rel re-expresses an absolute path relative to the project root in slash
// form, for display. Paths that cannot be made relative pass through
// unchanged.
func (p *Project) Rel(abs string) string {
	rel, err := filepath.Rel(p.Root, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeScanFailed     = "E002" // Project tree walk or scan error
	ErrCodeNotFound       = "E003" // Path not found
	ErrCodeConfigInvalid  = "E004" // cronweave.yaml invalid
	ErrCodeGenerateFailed = "E005" // Container generation failed
	ErrCodeReadFailed     = "E006" // Source file read error
	ErrCodeTransformError = "E007" // Source rewrite error
)
