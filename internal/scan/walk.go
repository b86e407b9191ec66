package scan

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// FindSourceFiles walks root and returns every file matching the
// configured extensions as absolute paths in lexical order. Directories
// named in ExcludeDirs and subtrees listed in SkipPaths are pruned. An
// unreadable root is an error; deeper walk failures skip the affected
// subtree only.
func FindSourceFiles(root string, opts Options) ([]string, error) {
	opts = opts.withDefaults()

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving scan root %q: %w", root, err)
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = true
	}
	exclude := make(map[string]bool, len(opts.ExcludeDirs))
	for _, d := range opts.ExcludeDirs {
		exclude[d] = true
	}
	skip := make(map[string]bool, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[filepath.Clean(p)] = true
	}

	var files []string
	walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == abs {
				return err
			}
			slog.Debug("walk error, subtree skipped", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if path != abs && exclude[d.Name()] {
				return filepath.SkipDir
			}
			if skip[filepath.Clean(path)] {
				return filepath.SkipDir
			}
			return nil
		}
		if exts[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", abs, walkErr)
	}
	return files, nil
}
