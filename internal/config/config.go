// Package config loads the optional per-project cronweave.yaml and
// resolves it against built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cronweave/internal/ir"
	"github.com/roach88/cronweave/internal/scan"
)

// FileName is the optional per-project configuration file, looked up at
// the project root.
const FileName = "cronweave.yaml"

// DefaultWatchDebounce is the settle window applied when the project does
// not configure one.
const DefaultWatchDebounce = 250 * time.Millisecond

// Config is the resolved project configuration. Every field carries a
// usable value after Load; callers never re-apply defaults.
type Config struct {
	// SchedulePackage is the module specifier whose import marks a file as
	// containing scheduling calls.
	SchedulePackage string

	// Container overrides the generated container location, relative to
	// the project root. Empty selects the conventional location.
	Container string

	// IncludeExts are the file extensions scanned, with leading dots.
	IncludeExts []string

	// ExcludeDirs are directory names never descended into.
	ExcludeDirs []string

	// WatchDebounce is how long watch mode lets the filesystem settle
	// before rebuilding.
	WatchDebounce time.Duration
}

// fileConfig is the on-disk YAML shape. Durations travel as strings and
// are parsed during Load.
type fileConfig struct {
	SchedulePackage string   `yaml:"schedule_package"`
	Container       string   `yaml:"container"`
	IncludeExts     []string `yaml:"include_exts"`
	ExcludeDirs     []string `yaml:"exclude_dirs"`
	WatchDebounce   string   `yaml:"watch_debounce"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		SchedulePackage: ir.SchedulePackage,
		IncludeExts:     scan.DefaultExtensions,
		ExcludeDirs:     scan.DefaultExcludeDirs,
		WatchDebounce:   DefaultWatchDebounce,
	}
}

// Load reads cronweave.yaml from the project root. A missing file yields
// the defaults; a present file must decode strictly (unknown fields are
// typos) and validate. Fields left empty in the file keep their defaults.
func Load(projectRoot string) (Config, error) {
	path := filepath.Join(projectRoot, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", FileName, err)
	}
	return Parse(data)
}

// Parse decodes and validates configuration bytes, applying defaults to
// absent fields.
func Parse(data []byte) (Config, error) {
	var fc fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	// An empty file decodes to io.EOF and means all-defaults.
	if err := decoder.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	cfg := Default()
	if fc.SchedulePackage != "" {
		cfg.SchedulePackage = fc.SchedulePackage
	}
	if fc.Container != "" {
		cfg.Container = filepath.ToSlash(fc.Container)
	}
	if len(fc.IncludeExts) > 0 {
		cfg.IncludeExts = fc.IncludeExts
	}
	if len(fc.ExcludeDirs) > 0 {
		cfg.ExcludeDirs = fc.ExcludeDirs
	}
	if fc.WatchDebounce != "" {
		d, err := time.ParseDuration(strings.TrimSpace(fc.WatchDebounce))
		if err != nil {
			return Config{}, fmt.Errorf("invalid config: watch_debounce: %w", err)
		}
		cfg.WatchDebounce = d
	}

	if err := validateConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// validateConfig checks field shapes after defaulting.
func validateConfig(c *Config) error {
	if strings.TrimSpace(c.SchedulePackage) == "" {
		return fmt.Errorf("schedule_package must not be blank")
	}

	if c.Container != "" {
		if filepath.IsAbs(c.Container) {
			return fmt.Errorf("container must be relative to the project root, got %q", c.Container)
		}
		clean := filepath.ToSlash(filepath.Clean(c.Container))
		if clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("container must stay inside the project root, got %q", c.Container)
		}
	}

	for i, ext := range c.IncludeExts {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("include_exts[%d]: extension must carry a leading dot, got %q", i, ext)
		}
	}

	for i, dir := range c.ExcludeDirs {
		if dir == "" || strings.ContainsRune(dir, os.PathSeparator) || strings.ContainsRune(dir, '/') {
			return fmt.Errorf("exclude_dirs[%d]: expected a bare directory name, got %q", i, dir)
		}
	}

	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must be >= 0")
	}
	return nil
}

// ScanOptions renders the configuration as scanner options. SkipPaths is
// left to the caller, which knows the resolved container location.
func (c Config) ScanOptions() scan.Options {
	return scan.Options{
		SchedulePackage: c.SchedulePackage,
		Extensions:      c.IncludeExts,
		ExcludeDirs:     c.ExcludeDirs,
	}
}
