package tspath

import (
	"path/filepath"
	"strings"
)

// AliasPattern is one path-mapping rule: a pattern with at most one `*`
// wildcard and its substitution targets. Only the first target is ever
// substituted; the rest exist because the config format allows them.
type AliasPattern struct {
	Pattern string
	Targets []string
}

// AliasTable is the resolved path-alias configuration for one project.
// Patterns keep their declaration order: the first matching pattern wins,
// matching the compiler's own resolution. Immutable after Load.
type AliasTable struct {
	// BaseDir anchors relative targets; it is the config file's directory
	// joined with compilerOptions.baseUrl when one is declared.
	BaseDir string

	Patterns []AliasPattern
}

// Empty reports whether the table carries no alias patterns.
func (t *AliasTable) Empty() bool { return len(t.Patterns) == 0 }

// Resolve converts an alias-form specifier into an absolute path. Each
// pattern is matched anchored (full-string); on match the captured wildcard
// segment is substituted into the pattern's first target and the result
// resolved against BaseDir. The first matching pattern wins. Returns
// ok=false when no pattern matches.
func (t *AliasTable) Resolve(specifier string) (string, bool) {
	for _, p := range t.Patterns {
		captured, ok := matchPattern(p.Pattern, specifier)
		if !ok || len(p.Targets) == 0 {
			continue
		}
		target := substitute(p.Targets[0], captured)
		return filepath.Join(t.BaseDir, filepath.FromSlash(target)), true
	}
	return "", false
}

// ToAlias re-expresses an absolute path as an alias specifier: the inverse
// of Resolve. For each pattern the first target's absolute base is tested
// for containment of the path (on normalized separators, at a path
// boundary); on containment the remainder is substituted back into the
// pattern's wildcard. The first containing pattern wins.
func (t *AliasTable) ToAlias(absPath string) (string, bool) {
	for _, p := range t.Patterns {
		if len(p.Targets) == 0 {
			continue
		}
		target := p.Targets[0]
		star := strings.IndexByte(target, '*')

		if star < 0 {
			// Exact mapping: the path must equal the target.
			if cleanEqual(filepath.Join(t.BaseDir, filepath.FromSlash(target)), absPath) {
				return p.Pattern, true
			}
			continue
		}

		prefix := target[:star]
		suffix := target[star+1:]
		baseAbs := filepath.Join(t.BaseDir, filepath.FromSlash(prefix))
		remainder, ok := containedRemainder(baseAbs, absPath)
		if !ok {
			continue
		}
		if suffix != "" {
			if !strings.HasSuffix(remainder, suffix) {
				continue
			}
			remainder = strings.TrimSuffix(remainder, suffix)
		}
		return substitute(p.Pattern, remainder), true
	}
	return "", false
}

// Matches reports whether the specifier matches any configured pattern.
func (t *AliasTable) Matches(specifier string) bool {
	for _, p := range t.Patterns {
		if _, ok := matchPattern(p.Pattern, specifier); ok {
			return true
		}
	}
	return false
}

// conventionalAliasPrefixes are treated as alias-form even when the project
// declares no matching pattern; both are widespread conventions and
// preserving them verbatim keeps generated imports stable when the config
// is loaded lazily or lives outside the scanned root.
var conventionalAliasPrefixes = []string{"@/", "~/"}

// IsAliasForm reports whether a specifier is written in alias form: not a
// same/parent-directory relative reference, and either matching a
// configured pattern or carrying a conventional alias prefix.
func IsAliasForm(specifier string, t *AliasTable) bool {
	if IsRelative(specifier) {
		return false
	}
	if t != nil && t.Matches(specifier) {
		return true
	}
	for _, prefix := range conventionalAliasPrefixes {
		if strings.HasPrefix(specifier, prefix) {
			return true
		}
	}
	return false
}

// IsRelative reports whether a specifier is a same- or parent-directory
// reference.
func IsRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// matchPattern matches a specifier against an anchored one-wildcard
// pattern, returning the text captured by the wildcard. A pattern without a
// wildcard must equal the specifier exactly.
func matchPattern(pattern, specifier string) (string, bool) {
	star := strings.IndexByte(pattern, '*')
	if star < 0 {
		return "", specifier == pattern
	}
	prefix := pattern[:star]
	suffix := pattern[star+1:]
	if len(specifier) < len(prefix)+len(suffix) {
		return "", false
	}
	if !strings.HasPrefix(specifier, prefix) || !strings.HasSuffix(specifier, suffix) {
		return "", false
	}
	return specifier[len(prefix) : len(specifier)-len(suffix)], true
}

// substitute replaces the wildcard in a pattern or target with the captured
// segment. Targets without a wildcard are returned unchanged.
func substitute(pattern, captured string) string {
	star := strings.IndexByte(pattern, '*')
	if star < 0 {
		return pattern
	}
	return pattern[:star] + captured + pattern[star+1:]
}

// containedRemainder returns the forward-slash path of absPath relative to
// base when absPath lies inside base ("" when equal). Containment is tested
// at a path boundary so /src/lib does not contain /src/libx.
func containedRemainder(base, absPath string) (string, bool) {
	rel, err := filepath.Rel(base, absPath)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	if rel == "." {
		return "", true
	}
	return rel, true
}

// cleanEqual compares two paths after cleaning and separator normalization.
func cleanEqual(a, b string) bool {
	return filepath.ToSlash(filepath.Clean(a)) == filepath.ToSlash(filepath.Clean(b))
}
