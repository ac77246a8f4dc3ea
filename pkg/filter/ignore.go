package filter

import (
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFilename is the per-directory ignore file collected during walks
const IgnoreFilename = ".gitignore"

// scopedMatcher is a compiled ignore file anchored at a directory.
// Patterns apply to that directory and its descendants.
type scopedMatcher struct {
	// base is the slash-separated directory relative to the tree root;
	// empty for the root itself
	base    string
	matcher *gitignore.GitIgnore
}

// IgnoreStack is the ordered set of ignore files in scope for a
// directory, shallowest first. It has value semantics: Push returns a
// new stack backed by fresh storage, so sibling subtrees can be walked
// concurrently without sharing mutable state.
type IgnoreStack []scopedMatcher

// Push compiles the lines of an ignore file found at baseDir and
// returns the extended stack. The receiver is left untouched.
func (s IgnoreStack) Push(baseDir string, lines []string) IgnoreStack {
	m := gitignore.CompileIgnoreLines(lines...)
	next := make(IgnoreStack, len(s), len(s)+1)
	copy(next, s)
	return append(next, scopedMatcher{base: baseDir, matcher: m})
}

// Ignored reports whether the path is excluded by the ignore files in
// scope. Matchers are consulted deepest first so that a more specific
// pattern (including a negation) defined closer to the path wins over a
// broader ancestor pattern, per standard gitignore semantics.
func (s IgnoreStack) Ignored(rel string, isDir bool) bool {
	for i := len(s) - 1; i >= 0; i-- {
		local, ok := relativeTo(rel, s[i].base)
		if !ok {
			continue
		}
		if isDir {
			local += "/"
		}
		matched, pattern := s[i].matcher.MatchesPathHow(local)
		if pattern != nil {
			// The deepest file with an opinion decides; a negated
			// match re-includes the path.
			return matched
		}
	}
	return false
}

// relativeTo rewrites rel against a base directory, reporting whether
// rel lives under base
func relativeTo(rel, base string) (string, bool) {
	if base == "" {
		return rel, true
	}
	if !strings.HasPrefix(rel, base+"/") {
		return "", false
	}
	return rel[len(base)+1:], true
}
