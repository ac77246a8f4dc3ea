package filter

import (
	"testing"
)

// TestIgnoreStackScoping verifies that patterns only apply below the
// directory that declared them
func TestIgnoreStackScoping(t *testing.T) {
	stack := IgnoreStack{}.Push("sub", []string{"*.log"})

	if stack.Ignored("app.log", false) {
		t.Error("root-level app.log is outside the sub/ scope")
	}
	if !stack.Ignored("sub/app.log", false) {
		t.Error("sub/app.log should be ignored")
	}
	if !stack.Ignored("sub/nested/app.log", false) {
		t.Error("patterns apply to descendants of the declaring directory")
	}
}

// TestIgnoreStackNegation verifies that a deeper negated pattern
// re-includes a path excluded by an ancestor
func TestIgnoreStackNegation(t *testing.T) {
	stack := IgnoreStack{}.
		Push("", []string{"*.log"}).
		Push("sub", []string{"!keep.log"})

	if !stack.Ignored("app.log", false) {
		t.Error("root app.log should stay ignored")
	}
	if !stack.Ignored("sub/other.log", false) {
		t.Error("sub/other.log matches the ancestor pattern")
	}
	if stack.Ignored("sub/keep.log", false) {
		t.Error("the deeper negation should re-include sub/keep.log")
	}
}

// TestIgnoreStackDirectoryPatterns verifies trailing-slash patterns
// match directories but not files
func TestIgnoreStackDirectoryPatterns(t *testing.T) {
	stack := IgnoreStack{}.Push("", []string{"cache/"})

	if !stack.Ignored("cache", true) {
		t.Error("cache directory should match cache/")
	}
	if stack.Ignored("cache", false) {
		t.Error("a file named cache should not match cache/")
	}
}

// TestIgnoreStackValueSemantics verifies that Push never mutates the
// receiver, so sibling walks can extend the same parent stack
func TestIgnoreStackValueSemantics(t *testing.T) {
	parent := IgnoreStack{}.Push("", []string{"*.log"})

	a := parent.Push("a", []string{"*.tmp"})
	b := parent.Push("b", []string{"*.bak"})

	if len(parent) != 1 {
		t.Fatalf("parent stack grew to %d matchers", len(parent))
	}
	if !a.Ignored("a/x.tmp", false) {
		t.Error("stack a should carry its own pattern")
	}
	if a.Ignored("b/x.bak", false) {
		t.Error("stack a must not see stack b's pattern")
	}
	if !b.Ignored("b/x.bak", false) {
		t.Error("stack b should carry its own pattern")
	}
}
