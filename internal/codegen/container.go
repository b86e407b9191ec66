package codegen

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/roach88/cronweave/internal/ir"
)

// stagePrefix names in-progress container builds. The leading dot keeps
// bundlers and routers from picking a stage up as source while it is being
// written.
const stagePrefix = ".cron-stage-"

// ContainerRoot returns the absolute path of the generated container: the
// override joined to the project root when one is configured, otherwise
// the cron directory beneath src/app when src/app exists, else beneath
// app. The transformer uses the same resolution so rewritten imports and
// generated files always agree on the location.
func ContainerRoot(projectRoot, override string) string {
	if override != "" {
		return filepath.Join(projectRoot, filepath.FromSlash(override))
	}
	srcApp := filepath.Join(projectRoot, "src", "app")
	if info, err := os.Stat(srcApp); err == nil && info.IsDir() {
		return filepath.Join(srcApp, ir.ContainerName)
	}
	return filepath.Join(projectRoot, "app", ir.ContainerName)
}

// swapIntoPlace replaces container with the fully written stage. When the
// existing container is byte-identical to the stage, the stage is
// discarded and the container left untouched; regeneration with unchanged
// inputs causes no filesystem churn.
func swapIntoPlace(stage, container string) (bool, error) {
	same, err := treesEqual(stage, container)
	if err != nil {
		return false, err
	}
	if same {
		if err := os.RemoveAll(stage); err != nil {
			return false, fmt.Errorf("removing identical stage: %w", err)
		}
		return false, nil
	}
	if err := os.RemoveAll(container); err != nil {
		return false, fmt.Errorf("removing previous container: %w", err)
	}
	if err := os.Rename(stage, container); err != nil {
		return false, fmt.Errorf("moving stage into place: %w", err)
	}
	return true, nil
}

// treesEqual reports whether two directory trees hold the same files with
// the same contents. A tree that does not exist is never equal.
func treesEqual(a, b string) (bool, error) {
	ta, err := treeFiles(a)
	if err != nil {
		return false, err
	}
	tb, err := treeFiles(b)
	if err != nil {
		return false, err
	}
	if ta == nil || tb == nil || len(ta) != len(tb) {
		return false, nil
	}
	for rel, content := range ta {
		if other, ok := tb[rel]; !ok || other != content {
			return false, nil
		}
	}
	return true, nil
}

// treeFiles reads every regular file beneath root into a map keyed by
// slash-relative path. A missing root yields a nil map, distinguishing
// absence from emptiness.
func treeFiles(root string) (map[string]string, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("inspecting %s: %w", root, err)
	}
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}
	return files, nil
}
