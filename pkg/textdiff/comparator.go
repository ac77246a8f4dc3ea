// Package textdiff produces aligned line-level diffs for modified file
// pairs.
package textdiff

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/jmalherbe/deepdiff/pkg/models"
	"github.com/jmalherbe/deepdiff/pkg/storage"
)

// binarySampleBytes is how much of a file is inspected for NUL bytes
const binarySampleBytes = 8192

// DefaultContextLines is the context window used when none is configured
const DefaultContextLines = 3

// Comparator aligns file pairs line by line and trims the result into
// hunks with a configurable context window
type Comparator struct {
	contextLines int
	workers      int
	onFileDone   func(path string)
}

// NewComparator creates a text comparator. contextLines may be zero;
// negative values fall back to the default.
func NewComparator(contextLines, workers int) *Comparator {
	if contextLines < 0 {
		contextLines = DefaultContextLines
	}
	if workers < 1 {
		workers = 1
	}
	return &Comparator{contextLines: contextLines, workers: workers}
}

// SetFileDoneCallback sets a callback invoked after each path finishes,
// used for progress reporting
func (c *Comparator) SetFileDoneCallback(callback func(path string)) {
	c.onFileDone = callback
}

// Compare diffs every content entry marked modified and returns one
// text entry per path, sorted by relative path. Binary pairs are
// reported with the binary marker and no hunks. Per-path diffing fans
// out across a bounded worker pool with a single fan-in lock, and the
// merged output is sorted so it is independent of scheduling.
func (c *Comparator) Compare(ctx context.Context, entries []models.ContentEntry, left, right storage.Backend) ([]models.TextDiffEntry, error) {
	var paths []string
	for _, e := range entries {
		if e.Status == models.ContentModified {
			paths = append(paths, e.RelativePath)
		}
	}

	results := make([]models.TextDiffEntry, 0, len(paths))
	var mu sync.Mutex
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, c.workers)

	for _, rel := range paths {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(rel string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			entry := c.compareOne(ctx, rel, left, right)

			mu.Lock()
			results = append(results, entry)
			mu.Unlock()

			if c.onFileDone != nil {
				c.onFileDone(rel)
			}
		}(rel)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].RelativePath < results[j].RelativePath
	})

	return results, nil
}

// CompareFilePair diffs a single explicit file pair, used when the
// comparison targets are files rather than trees
func (c *Comparator) CompareFilePair(ctx context.Context, rel string, left, right storage.Backend) models.TextDiffEntry {
	return c.compareOne(ctx, rel, left, right)
}

func (c *Comparator) compareOne(ctx context.Context, rel string, left, right storage.Backend) models.TextDiffEntry {
	entry := models.TextDiffEntry{RelativePath: rel}

	leftData, err := readAll(ctx, left, rel)
	if err != nil {
		entry.Status = models.TextError
		entry.Error = fmt.Sprintf("left: %v", err)
		return entry
	}
	rightData, err := readAll(ctx, right, rel)
	if err != nil {
		entry.Status = models.TextError
		entry.Error = fmt.Sprintf("right: %v", err)
		return entry
	}

	return c.DiffBytes(rel, leftData, rightData)
}

// DiffBytes aligns two byte slices as lines. Non-decodable content is
// never passed through line diffing: pairs where either side looks
// binary carry the binary marker and a same/different verdict only.
func (c *Comparator) DiffBytes(rel string, leftData, rightData []byte) models.TextDiffEntry {
	entry := models.TextDiffEntry{RelativePath: rel}

	if isBinary(leftData) || isBinary(rightData) {
		entry.Status = models.TextBinary
		entry.BinaryEqual = bytes.Equal(leftData, rightData)
		return entry
	}

	if bytes.Equal(leftData, rightData) {
		entry.Status = models.TextIdentical
		return entry
	}

	entry.Status = models.TextModified
	entry.Hunks = c.diffLines(string(leftData), string(rightData))
	return entry
}

// diffLines computes a minimal line-level edit script and trims it into
// hunks. Lines keep their original endings throughout, so a missing
// trailing newline survives the round trip as a distinct line.
func (c *Comparator) diffLines(leftText, rightText string) []models.Hunk {
	dmp := diffmatchpatch.New()
	// A timeout would let the algorithm return a non-minimal script
	// that depends on machine speed; disable it so hunk boundaries are
	// stable across runs and platforms.
	dmp.DiffTimeout = 0

	leftChars, rightChars, lineArray := dmp.DiffLinesToChars(leftText, rightText)
	diffs := dmp.DiffMain(leftChars, rightChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	runs := make([]lineRun, 0, len(diffs))
	for _, d := range diffs {
		lines := splitLines(d.Text)
		if len(lines) == 0 {
			continue
		}
		var origin models.LineOrigin
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			origin = models.OriginRemoved
		case diffmatchpatch.DiffInsert:
			origin = models.OriginAdded
		default:
			origin = models.OriginContext
		}
		runs = append(runs, lineRun{origin: origin, lines: lines})
	}

	return buildHunks(runs, c.contextLines)
}

// isBinary detects binary content via a NUL-byte check on the leading
// sample, mirroring git's heuristic
func isBinary(data []byte) bool {
	sample := data
	if len(sample) > binarySampleBytes {
		sample = sample[:binarySampleBytes]
	}
	return bytes.IndexByte(sample, 0) >= 0
}

// splitLines splits text into lines that keep their trailing newline.
// A final segment without one becomes a line of its own, preserving
// the newline-at-EOF distinction.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func readAll(ctx context.Context, backend storage.Backend, rel string) ([]byte, error) {
	rc, err := backend.Read(ctx, rel)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
