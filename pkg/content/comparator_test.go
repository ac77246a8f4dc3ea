package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmalherbe/deepdiff/pkg/models"
	"github.com/jmalherbe/deepdiff/pkg/storage"
)

// TestHelper provides utilities for content tests
type TestHelper struct {
	t        *testing.T
	tempDir  string
	leftDir  string
	rightDir string
	left     *storage.Local
	right    *storage.Local
}

// NewTestHelper creates a new test helper with temporary directories
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "deepdiff-content-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	leftDir := filepath.Join(tempDir, "left")
	rightDir := filepath.Join(tempDir, "right")

	if err := os.MkdirAll(leftDir, 0755); err != nil {
		t.Fatalf("failed to create left dir: %v", err)
	}
	if err := os.MkdirAll(rightDir, 0755); err != nil {
		t.Fatalf("failed to create right dir: %v", err)
	}

	left, err := storage.NewLocal(leftDir)
	if err != nil {
		t.Fatalf("failed to create left backend: %v", err)
	}
	right, err := storage.NewLocal(rightDir)
	if err != nil {
		t.Fatalf("failed to create right backend: %v", err)
	}

	return &TestHelper{
		t:        t,
		tempDir:  tempDir,
		leftDir:  leftDir,
		rightDir: rightDir,
		left:     left,
		right:    right,
	}
}

// Cleanup removes all temporary files
func (h *TestHelper) Cleanup() {
	os.RemoveAll(h.tempDir)
}

// CreatePair creates the same relative path on both sides
func (h *TestHelper) CreatePair(name string, leftContent, rightContent []byte) {
	h.t.Helper()
	h.createFile(h.leftDir, name, leftContent)
	h.createFile(h.rightDir, name, rightContent)
}

func (h *TestHelper) createFile(root, name string, content []byte) {
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		h.t.Fatalf("failed to create file: %v", err)
	}
}

func bothEntry(rel string) models.StructureEntry {
	return models.StructureEntry{RelativePath: rel, Presence: models.PresenceBoth}
}

func newComparator(t *testing.T, opts Options) *Comparator {
	t.Helper()
	c, err := NewComparator(opts)
	if err != nil {
		t.Fatalf("failed to create comparator: %v", err)
	}
	return c
}

// TestIdenticalFiles verifies matching fingerprints for equal content
func TestIdenticalFiles(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreatePair("a.txt", []byte("same content\n"), []byte("same content\n"))

	c := newComparator(t, Options{})
	entries, err := c.Compare(context.Background(), []models.StructureEntry{bothEntry("a.txt")}, h.left, h.right)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Status != models.ContentIdentical {
		t.Errorf("status = %s, want identical", e.Status)
	}
	if e.FingerprintLeft == "" || e.FingerprintLeft != e.FingerprintRight {
		t.Errorf("identical entries must carry equal non-empty fingerprints: %q vs %q", e.FingerprintLeft, e.FingerprintRight)
	}
	// sha256 hex digest
	if len(e.FingerprintLeft) != 64 {
		t.Errorf("fingerprint length = %d, want 64", len(e.FingerprintLeft))
	}
}

// TestModifiedSameSize verifies that same-size differing content is
// caught by the full digest
func TestModifiedSameSize(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreatePair("a.txt", []byte("abcd"), []byte("abce"))

	c := newComparator(t, Options{})
	entries, err := c.Compare(context.Background(), []models.StructureEntry{bothEntry("a.txt")}, h.left, h.right)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	e := entries[0]
	if e.Status != models.ContentModified {
		t.Errorf("status = %s, want modified", e.Status)
	}
	if e.FingerprintLeft == "" || e.FingerprintRight == "" {
		t.Error("same-size comparison should carry both fingerprints")
	}
	if e.FingerprintLeft == e.FingerprintRight {
		t.Error("fingerprints should differ")
	}
}

// TestSizePrecheck verifies that mismatched sizes short-circuit the
// digests and never produce "identical"
func TestSizePrecheck(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreatePair("a.txt", []byte("short"), []byte("much longer content"))

	c := newComparator(t, Options{})
	entries, err := c.Compare(context.Background(), []models.StructureEntry{bothEntry("a.txt")}, h.left, h.right)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	e := entries[0]
	if e.Status != models.ContentModified {
		t.Errorf("status = %s, want modified", e.Status)
	}
	if e.Reason != "file sizes differ" {
		t.Errorf("reason = %q, want size mismatch", e.Reason)
	}
	if e.FingerprintLeft != "" || e.FingerprintRight != "" {
		t.Error("size precheck must leave fingerprints empty")
	}
	if e.SizeLeft != 5 || e.SizeRight != 19 {
		t.Errorf("sizes = %d/%d, want 5/19", e.SizeLeft, e.SizeRight)
	}
}

// TestMD5Algorithm verifies the alternate digest selection
func TestMD5Algorithm(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreatePair("a.txt", []byte("content"), []byte("content"))

	c := newComparator(t, Options{Algorithm: models.HashMD5})
	if c.Algorithm() != models.HashMD5 {
		t.Fatalf("algorithm = %s, want md5", c.Algorithm())
	}

	entries, err := c.Compare(context.Background(), []models.StructureEntry{bothEntry("a.txt")}, h.left, h.right)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	// md5 hex digest
	if len(entries[0].FingerprintLeft) != 32 {
		t.Errorf("fingerprint length = %d, want 32", len(entries[0].FingerprintLeft))
	}
}

// TestUnsupportedAlgorithm verifies construction fails fast
func TestUnsupportedAlgorithm(t *testing.T) {
	if _, err := NewComparator(Options{Algorithm: "crc32"}); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
}

// TestUnreadableFile verifies per-path error entries instead of an
// aborted run
func TestUnreadableFile(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreatePair("ok.txt", []byte("fine"), []byte("fine"))
	// Claimed by structure but gone before the content stage runs
	entries := []models.StructureEntry{bothEntry("ok.txt"), bothEntry("vanished.txt")}

	c := newComparator(t, Options{Workers: 2})
	results, err := c.Compare(context.Background(), entries, h.left, h.right)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d entries, want 2", len(results))
	}
	// Sorted output: ok.txt then vanished.txt
	if results[0].RelativePath != "ok.txt" || results[0].Status != models.ContentIdentical {
		t.Errorf("unexpected first entry: %+v", results[0])
	}
	if results[1].Status != models.ContentError || results[1].Error == "" {
		t.Errorf("vanished file should be an error entry: %+v", results[1])
	}
}

// TestSkipsNonQualifying verifies that only clean "both" entries are
// fingerprinted
func TestSkipsNonQualifying(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreatePair("a.txt", []byte("x"), []byte("x"))

	entries := []models.StructureEntry{
		bothEntry("a.txt"),
		{RelativePath: "left.txt", Presence: models.PresenceLeftOnly},
		{RelativePath: "conflict", Presence: models.PresenceBoth, TypeConflict: true},
		{RelativePath: "broken", Presence: models.PresenceBoth, Error: "permission denied"},
	}

	c := newComparator(t, Options{})
	results, err := c.Compare(context.Background(), entries, h.left, h.right)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	if len(results) != 1 || results[0].RelativePath != "a.txt" {
		t.Errorf("only a.txt should be fingerprinted, got %+v", results)
	}
}

// TestCompareCancellation verifies that cancellation aborts with the
// context error and no partial result
func TestCompareCancellation(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	var entries []models.StructureEntry
	for i := 0; i < 50; i++ {
		name := filepath.Join("dir", "file"+string(rune('a'+i%26))+".txt")
		h.CreatePair(name, []byte("content"), []byte("content"))
		entries = append(entries, bothEntry(filepath.ToSlash(name)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newComparator(t, Options{Workers: 4})
	results, err := c.Compare(ctx, entries, h.left, h.right)
	if err == nil {
		t.Fatal("expected context error")
	}
	if results != nil {
		t.Error("cancelled compare must not return partial results")
	}
}

// TestCompareFilePair verifies direct file-pair comparison
func TestCompareFilePair(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreatePair("solo.txt", []byte("one"), []byte("two"))

	c := newComparator(t, Options{})
	entry := c.CompareFilePair(context.Background(), "solo.txt", h.left, h.right)

	if entry.Status != models.ContentModified {
		t.Errorf("status = %s, want modified", entry.Status)
	}
}
