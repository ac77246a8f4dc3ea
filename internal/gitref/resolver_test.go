package gitref

import (
	"testing"
)

// TestIsRef verifies prefix detection
func TestIsRef(t *testing.T) {
	tests := []struct {
		target   string
		expected bool
	}{
		{"git:HEAD", true},
		{"git:main", true},
		{"git:", true},
		{"/some/path", false},
		{"relative/path", false},
		{"gita", false},
	}

	for _, tt := range tests {
		if got := IsRef(tt.target); got != tt.expected {
			t.Errorf("IsRef(%q) = %t, want %t", tt.target, got, tt.expected)
		}
	}
}

// TestResolvePlainPath verifies non-ref targets pass through untouched
func TestResolvePlainPath(t *testing.T) {
	r := NewResolver("")
	defer r.Cleanup()

	got, err := r.Resolve("/plain/path")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != "/plain/path" {
		t.Errorf("resolved = %q, want the input unchanged", got)
	}
}

// TestResolveRejectsBadRefs verifies empty and option-like refs fail
// before any git command runs
func TestResolveRejectsBadRefs(t *testing.T) {
	r := NewResolver("")
	defer r.Cleanup()

	if _, err := r.Resolve("git:"); err == nil {
		t.Error("expected error for empty ref")
	}
	if _, err := r.Resolve("git:--upload-pack=/bin/false"); err == nil {
		t.Error("expected error for option-like ref")
	}
}

// TestDisplayName verifies filesystem-safe directory naming
func TestDisplayName(t *testing.T) {
	tests := []struct {
		ref      string
		expected string
	}{
		{"main", "main"},
		{"v1.2.3", "v1.2.3"},
		{"feature/login", "feature_login"},
		{"release candidate", "release_candidate"},
	}

	for _, tt := range tests {
		if got := displayName(tt.ref); got != tt.expected {
			t.Errorf("displayName(%q) = %q, want %q", tt.ref, got, tt.expected)
		}
	}

	long := displayName("a-very-long-branch-name-that-goes-on-and-on-and-on-and-on-forever")
	if len(long) > 50 {
		t.Errorf("display name not truncated: %d chars", len(long))
	}
}

// TestCleanupIdempotent verifies Cleanup can run more than once
func TestCleanupIdempotent(t *testing.T) {
	r := NewResolver("")
	r.Cleanup()
	r.Cleanup()
}
