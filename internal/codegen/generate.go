package codegen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/roach88/cronweave/internal/ir"
	"github.com/roach88/cronweave/internal/tspath"
)

// Options configure a generation pass. The zero value stages under a
// UUIDv7 token into the conventional container with a fresh alias table.
type Options struct {
	// ContainerDir overrides the container location, relative to the
	// project root. Empty selects the conventional src/app or app root.
	ContainerDir string

	// Aliases memoizes alias tables across passes (watch mode re-enters
	// Generate every rebuild). A nil cache loads the table fresh.
	Aliases *tspath.Cache

	// Tokens names the stage directory. Nil selects UUIDv7 tokens; tests
	// inject fixed tokens.
	Tokens TokenGenerator
}

// Result describes one generation pass.
type Result struct {
	// ContainerRoot is the absolute path of the generated container.
	ContainerRoot string

	// FilesWritten lists every generated file by absolute path, sorted.
	FilesWritten []string

	// Manifest maps each scheduled function to its wrapper identity.
	Manifest ir.Manifest

	// Wrappers holds the synthesized descriptors in emission order.
	Wrappers []ir.WrapperDescriptor

	// Changed is false when the freshly staged container was byte-identical
	// to the existing one and the swap was skipped.
	Changed bool
}

// Generate synthesizes the container for a set of call sites. Filesystem
// failures propagate to the caller; a failed pass removes its stage and
// leaves any previous container untouched.
func Generate(ctx context.Context, sites []ir.CallSite, projectRoot string, opts Options) (*Result, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving project root %q: %w", projectRoot, err)
	}

	var table *tspath.AliasTable
	if opts.Aliases != nil {
		table = opts.Aliases.Load(root)
	} else {
		table = tspath.Load(root)
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = UUIDv7Tokens{}
	}

	container := ContainerRoot(root, opts.ContainerDir)
	unique := uniqueSites(sites)

	stage := filepath.Join(filepath.Dir(container), stagePrefix+tokens.Generate())
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return nil, fmt.Errorf("creating stage directory: %w", err)
	}
	// No-op after a successful swap: the rename leaves nothing behind.
	defer os.RemoveAll(stage)

	var written []string
	writeFile := func(rel string, data []byte) error {
		abs := filepath.Join(stage, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(abs), err)
		}
		if err := os.WriteFile(abs, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", rel, err)
		}
		written = append(written, rel)
		return nil
	}

	if err := writeFile(gitignoreName, []byte(gitignoreContent)); err != nil {
		return nil, err
	}

	wrappers := make([]ir.WrapperDescriptor, 0, len(unique))
	for _, site := range unique {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w := ir.DeriveWrapper(site.FunctionName)
		w.Path = filepath.Join(container, w.ContainerDir, wrapperFileName)

		module := modulePath(site, filepath.Join(container, w.ContainerDir), table)
		src := wrapperSource(site, w, module)
		if err := writeFile(path.Join(w.ContainerDir, wrapperFileName), []byte(src)); err != nil {
			return nil, err
		}
		wrappers = append(wrappers, w)
		slog.Debug("wrapper staged", "function", site.FunctionName, "wrapper", w.WrapperName, "module", module)
	}

	manifest := ir.BuildManifest(wrappers)
	manifestData, err := ir.MarshalManifest(manifest)
	if err != nil {
		return nil, err
	}
	if err := writeFile(manifestFileName, manifestData); err != nil {
		return nil, err
	}
	if err := writeFile(routeFileName, []byte(routeSource(wrappers))); err != nil {
		return nil, err
	}

	changed, err := swapIntoPlace(stage, container)
	if err != nil {
		return nil, err
	}

	files := make([]string, len(written))
	for i, rel := range written {
		files[i] = filepath.Join(container, filepath.FromSlash(rel))
	}
	sort.Strings(files)

	slog.Info("generation complete",
		"container", container, "wrappers", len(wrappers), "changed", changed)
	return &Result{
		ContainerRoot: container,
		FilesWritten:  files,
		Manifest:      manifest,
		Wrappers:      wrappers,
		Changed:       changed,
	}, nil
}

// ReadManifest loads the manifest from a generated container. External
// collaborators use it to resolve a scheduled function to its wrapper.
func ReadManifest(containerRoot string) (ir.Manifest, error) {
	data, err := os.ReadFile(filepath.Join(containerRoot, manifestFileName))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ir.ParseManifest(data)
}

// uniqueSites collapses duplicate (name, origin) pairs and orders the rest
// by name then origin. Wrapper identity and the manifest key are the
// function name alone, so when the same name arrives with conflicting
// origins only one can win; the last pair in deterministic order does,
// matching overwrite-on-write semantics, and the conflict is surfaced.
func uniqueSites(sites []ir.CallSite) []ir.CallSite {
	seen := make(map[ir.CallSiteKey]bool, len(sites))
	pairs := make([]ir.CallSite, 0, len(sites))
	for _, s := range sites {
		if seen[s.Key()] {
			continue
		}
		seen[s.Key()] = true
		pairs = append(pairs, s)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].FunctionName != pairs[j].FunctionName {
			return pairs[i].FunctionName < pairs[j].FunctionName
		}
		return pairs[i].Origin < pairs[j].Origin
	})

	byName := make(map[string]int, len(pairs))
	out := make([]ir.CallSite, 0, len(pairs))
	for _, s := range pairs {
		if i, ok := byName[s.FunctionName]; ok {
			slog.Warn("conflicting origins for scheduled function; keeping the last",
				"function", s.FunctionName, "dropped", out[i].Origin, "kept", s.Origin)
			out[i] = s
			continue
		}
		byName[s.FunctionName] = len(out)
		out = append(out, s)
	}
	return out
}
