// Package filter decides which relative paths participate in a
// comparison. Rules are layered, most specific first: exclude globs
// beat include globs, include globs beat ignore patterns, and ignore
// patterns beat the hidden-file default.
package filter

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// HiddenPrefix marks hidden files and directories
const HiddenPrefix = "."

// Config holds the filtering rules for a run. The zero value passes
// everything except hidden paths.
type Config struct {
	// IncludeHidden disables the hidden-path rule
	IncludeHidden bool

	// RespectIgnoreFiles enables gitignore-style ignore patterns
	// gathered from the trees being compared
	RespectIgnoreFiles bool

	// IncludeGlobs, when non-empty, require a file to match at least
	// one pattern. Globs support doublestar (**) syntax and apply to
	// files only.
	IncludeGlobs []string

	// ExcludeGlobs exclude any matching file regardless of other rules
	ExcludeGlobs []string
}

// Rules is a compiled, read-only Config. It is safe for concurrent use.
type Rules struct {
	includeHidden bool
	respectIgnore bool
	includeGlobs  []string
	excludeGlobs  []string
}

// New validates the glob patterns and compiles the rules
func New(cfg Config) (*Rules, error) {
	for _, p := range cfg.IncludeGlobs {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid include pattern %q", p)
		}
	}
	for _, p := range cfg.ExcludeGlobs {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return &Rules{
		includeHidden: cfg.IncludeHidden,
		respectIgnore: cfg.RespectIgnoreFiles,
		includeGlobs:  append([]string(nil), cfg.IncludeGlobs...),
		excludeGlobs:  append([]string(nil), cfg.ExcludeGlobs...),
	}, nil
}

// RespectIgnoreFiles reports whether ignore files should be collected
// while walking a tree
func (r *Rules) RespectIgnoreFiles() bool {
	return r.respectIgnore
}

// Included reports whether a slash-separated relative path participates
// in the comparison. The ignore stack carries the gitignore matchers in
// scope for the path's directory; pass an empty stack when ignore files
// are disabled or absent.
//
// For directories the decision controls tree pruning and uses only the
// hidden, ignore, and exclude rules; include globs target files and
// cannot resurrect content beneath a pruned directory.
func (r *Rules) Included(rel string, isDir bool, ignores IgnoreStack) bool {
	rel = strings.TrimPrefix(rel, "./")

	if isDir {
		if r.matchesAny(r.excludeGlobs, rel) {
			return false
		}
		if r.respectIgnore && ignores.Ignored(rel, true) {
			return false
		}
		if !r.includeHidden && isHidden(rel) {
			return false
		}
		return true
	}

	// Most specific rule first: explicit excludes always win.
	if r.matchesAny(r.excludeGlobs, rel) {
		return false
	}

	// Explicit includes win over ignore files and the hidden default.
	if len(r.includeGlobs) > 0 {
		return r.matchesAny(r.includeGlobs, rel)
	}

	if r.respectIgnore && ignores.Ignored(rel, false) {
		return false
	}

	if !r.includeHidden && isHidden(rel) {
		return false
	}

	return true
}

// matchesAny reports whether the path matches at least one pattern.
// Patterns without a separator match against the basename as well, so
// "*.log" behaves like gitignore rather than requiring "**/*.log".
func (r *Rules) matchesAny(patterns []string, rel string) bool {
	if len(patterns) == 0 {
		return false
	}
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	for _, p := range patterns {
		target := rel
		if !strings.Contains(p, "/") {
			target = base
		}
		if ok, err := doublestar.Match(p, target); err == nil && ok {
			return true
		}
	}
	return false
}

// isHidden reports whether any component of the path starts with the
// hidden marker
func isHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, HiddenPrefix) {
			return true
		}
	}
	return false
}
