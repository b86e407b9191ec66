package scan

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/cronweave/internal/ir"
)

// Options configure a scan pass. The zero value scans for the standard
// scheduling package with bounded concurrency.
type Options struct {
	// SchedulePackage is the module specifier a qualifying import must
	// name. Defaults to ir.SchedulePackage.
	SchedulePackage string

	// Concurrency bounds the number of files read in parallel.
	Concurrency int

	// Extensions and ExcludeDirs narrow FindSourceFiles. Extensions are
	// compared case-insensitively and must carry the leading dot.
	Extensions  []string
	ExcludeDirs []string

	// SkipPaths are absolute directories pruned from FindSourceFiles,
	// regardless of name. The generated container belongs here so its own
	// output is never scanned back in.
	SkipPaths []string
}

// DefaultExtensions are the source kinds scanned when the configuration
// does not narrow them.
var DefaultExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// DefaultExcludeDirs are directory names never descended into.
var DefaultExcludeDirs = []string{"node_modules", ".git", ".next", "dist", "build"}

const defaultConcurrency = 8

func (o Options) withDefaults() Options {
	if o.SchedulePackage == "" {
		o.SchedulePackage = ir.SchedulePackage
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
	}
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	if len(o.ExcludeDirs) == 0 {
		o.ExcludeDirs = DefaultExcludeDirs
	}
	return o
}

// Scan reads the given files and returns every scheduling call site,
// deduplicated by (function name, origin) and ordered by function name
// then origin. Unreadable files are skipped, never fatal; the only error
// source is context cancellation. Relative paths are resolved against
// projectRoot.
func Scan(ctx context.Context, files []string, projectRoot string, opts Options) ([]ir.CallSite, error) {
	opts = opts.withDefaults()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	results := make([][]ir.CallSite, len(files))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = scanFile(file, projectRoot, opts.SchedulePackage)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[ir.CallSiteKey]bool)
	var sites []ir.CallSite
	for _, fileSites := range results {
		for _, s := range fileSites {
			if seen[s.Key()] {
				continue
			}
			seen[s.Key()] = true
			sites = append(sites, s)
			if s.Inferred {
				slog.Warn("scheduled function has no matching import; assuming it is defined in the calling file",
					"function", s.FunctionName, "file", s.File)
			}
		}
	}
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].FunctionName != sites[j].FunctionName {
			return sites[i].FunctionName < sites[j].FunctionName
		}
		return sites[i].Origin < sites[j].Origin
	})

	slog.Debug("scan complete", "files", len(files), "call_sites", len(sites))
	return sites, nil
}

func scanFile(path, projectRoot, schedulePackage string) []ir.CallSite {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(projectRoot, abs)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		slog.Debug("source unreadable, skipped", "file", abs, "error", err)
		return nil
	}

	f := ScanSource(string(data), abs, schedulePackage)
	if !f.Qualifies() {
		return nil
	}
	return f.Sites()
}
