package tspath

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// configCandidates are tried in order; the first file that exists is the
// project's configuration. A jsconfig is only consulted when no tsconfig
// exists.
var configCandidates = []string{"tsconfig.json", "jsconfig.json"}

// Load reads the project's path-alias configuration. A missing or
// unparsable config (or parent config) degrades to an empty table; Load
// never fails.
func Load(projectRoot string) *AliasTable {
	for _, name := range configCandidates {
		path := filepath.Join(projectRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return loadFile(path, projectRoot)
	}
	slog.Debug("no compiler config found", "root", projectRoot)
	return &AliasTable{BaseDir: projectRoot}
}

// loadFile parses one config file and applies single-level inheritance:
// the parent's base directory and patterns serve as defaults beneath the
// child's own entries, child entries winning on key collision.
func loadFile(path, projectRoot string) *AliasTable {
	child, ok := parseConfigFile(path)
	if !ok {
		return &AliasTable{BaseDir: projectRoot}
	}

	if child.Extends != "" {
		if parentPath, ok := resolveExtends(path, child.Extends); ok {
			// Single level only: the parent's own extends is ignored.
			if parent, ok := parseConfigFile(parentPath); ok {
				child = mergeConfigs(child, parent)
			}
		}
	}

	base := child.BaseDir
	if base == "" {
		base = filepath.Dir(path)
	}
	return &AliasTable{BaseDir: base, Patterns: child.Patterns}
}

// rawConfig is one parsed config file before inheritance is applied.
// BaseDir is already resolved against the directory of the declaring file.
type rawConfig struct {
	BaseDir  string
	Patterns []AliasPattern
	Extends  string
}

// parseConfigFile extracts compilerOptions.baseUrl, compilerOptions.paths,
// and extends from a JSONC file. Returns ok=false when the file cannot be
// read or parsed.
func parseConfigFile(path string) (rawConfig, bool) {
	var cfg rawConfig

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("compiler config unreadable", "path", path, "error", err)
		return cfg, false
	}
	data = bytes.TrimPrefix(data, []byte("\uFEFF"))
	data = stripBlockComments(data)

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		slog.Debug("compiler config unparsable", "path", path, "error", err)
		return cfg, false
	}

	if ext := v.LookupPath(cue.ParsePath("extends")); ext.Exists() {
		if s, err := ext.String(); err == nil {
			cfg.Extends = s
		}
	}

	opts := v.LookupPath(cue.ParsePath("compilerOptions"))
	if !opts.Exists() {
		return cfg, true
	}

	if baseVal := opts.LookupPath(cue.ParsePath("baseUrl")); baseVal.Exists() {
		if s, err := baseVal.String(); err == nil {
			cfg.BaseDir = filepath.Join(filepath.Dir(path), filepath.FromSlash(s))
		}
	}

	pathsVal := opts.LookupPath(cue.ParsePath("paths"))
	if !pathsVal.Exists() {
		return cfg, true
	}
	iter, err := pathsVal.Fields()
	if err != nil {
		slog.Debug("compiler config paths not a mapping", "path", path, "error", err)
		return cfg, true
	}
	for iter.Next() {
		pattern := iter.Label()
		targets, err := stringList(iter.Value())
		if err != nil || len(targets) == 0 {
			slog.Debug("alias pattern skipped", "path", path, "pattern", pattern, "error", err)
			continue
		}
		cfg.Patterns = append(cfg.Patterns, AliasPattern{Pattern: pattern, Targets: targets})
	}
	return cfg, true
}

// stringList decodes a CUE list of strings.
func stringList(v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, err
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// resolveExtends locates the parent config named by an extends clause.
// Only relative specifiers are supported; bare package specifiers (npm
// preset configs) are out of reach of a filesystem pass and are ignored.
func resolveExtends(childPath, extends string) (string, bool) {
	if !strings.HasPrefix(extends, "./") && !strings.HasPrefix(extends, "../") {
		slog.Debug("non-relative extends ignored", "path", childPath, "extends", extends)
		return "", false
	}
	parent := filepath.Join(filepath.Dir(childPath), filepath.FromSlash(extends))
	if filepath.Ext(parent) == "" {
		parent += ".json"
	}
	if _, err := os.Stat(parent); err != nil {
		slog.Debug("extends target missing", "path", childPath, "parent", parent)
		return "", false
	}
	return parent, true
}

// mergeConfigs layers a parent config beneath a child: the child's base
// directory and patterns win, parent patterns are appended for keys the
// child does not define.
func mergeConfigs(child, parent rawConfig) rawConfig {
	merged := rawConfig{
		BaseDir:  child.BaseDir,
		Patterns: child.Patterns,
		Extends:  child.Extends,
	}
	if merged.BaseDir == "" {
		merged.BaseDir = parent.BaseDir
	}
	seen := make(map[string]bool, len(child.Patterns))
	for _, p := range child.Patterns {
		seen[p.Pattern] = true
	}
	for _, p := range parent.Patterns {
		if !seen[p.Pattern] {
			merged.Patterns = append(merged.Patterns, p)
		}
	}
	return merged
}

// stripBlockComments removes /* ... */ sequences outside string literals,
// replacing them with a single space. Line comments and trailing commas are
// left for CUE, which accepts both.
func stripBlockComments(src []byte) []byte {
	var (
		out      bytes.Buffer
		inString bool
		i        int
	)
	for i < len(src) {
		c := src[i]
		switch {
		case inString:
			out.WriteByte(c)
			if c == '\\' && i+1 < len(src) {
				out.WriteByte(src[i+1])
				i += 2
				continue
			}
			if c == '"' {
				inString = false
			}
			i++
		case c == '"':
			inString = true
			out.WriteByte(c)
			i++
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := bytes.Index(src[i+2:], []byte("*/"))
			if end < 0 {
				// Unterminated comment: drop the rest, CUE reports the
				// remainder of the line anyway.
				return out.Bytes()
			}
			// Preserve line structure for error positions.
			for _, b := range src[i : i+2+end+2] {
				if b == '\n' {
					out.WriteByte('\n')
				}
			}
			out.WriteByte(' ')
			i += 2 + end + 2
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			// Leave line comments in place for CUE, but skip past them here
			// so a "/*" inside one is not misread as a block comment start.
			for i < len(src) && src[i] != '\n' {
				out.WriteByte(src[i])
				i++
			}
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.Bytes()
}
