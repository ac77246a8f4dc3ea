// Package content classifies file pairs as identical or modified by
// streaming content fingerprints.
package content

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"sort"
	"sync"

	"github.com/jmalherbe/deepdiff/pkg/models"
	"github.com/jmalherbe/deepdiff/pkg/ratelimit"
	"github.com/jmalherbe/deepdiff/pkg/storage"
)

const minBufferSize = 4096

// Options configures a Comparator
type Options struct {
	// Algorithm selects the fingerprint digest; default sha256
	Algorithm models.HashAlgorithm
	// BufferSize is the streaming read buffer size in bytes
	BufferSize int
	// Workers bounds per-path parallelism; default 1
	Workers int
	// Bucket, when non-nil, caps read bandwidth across all workers
	Bucket *ratelimit.Bucket
}

// Comparator fingerprints the "both" entries of a structure pass. The
// digest function is resolved once at construction, never dispatched by
// name in the hot path.
type Comparator struct {
	algorithm  models.HashAlgorithm
	newHash    func() hash.Hash
	bufferSize int
	bufferPool *sync.Pool
	workers    int
	bucket     *ratelimit.Bucket
	onFileDone func(path string)
}

// NewComparator creates a content comparator
func NewComparator(opts Options) (*Comparator, error) {
	algo := opts.Algorithm
	if algo == "" {
		algo = models.HashSHA256
	}

	var newHash func() hash.Hash
	switch algo {
	case models.HashSHA256:
		newHash = sha256.New
	case models.HashMD5:
		newHash = md5.New
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", algo)
	}

	bufferSize := opts.BufferSize
	if bufferSize < minBufferSize {
		bufferSize = minBufferSize
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	return &Comparator{
		algorithm:  algo,
		newHash:    newHash,
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
		workers: workers,
		bucket:  opts.Bucket,
	}, nil
}

// Algorithm returns the configured digest algorithm
func (c *Comparator) Algorithm() models.HashAlgorithm {
	return c.algorithm
}

// SetFileDoneCallback sets a callback invoked after each path finishes,
// used for progress reporting
func (c *Comparator) SetFileDoneCallback(callback func(path string)) {
	c.onFileDone = callback
}

// Compare fingerprints every qualifying structure entry (presence both,
// no type conflict, no scan error) and returns one content entry per
// path, sorted by relative path. Per-path work fans out across a
// bounded worker pool; each worker appends its entry under a single
// lock and the merged slice is sorted before returning, so the output
// is independent of scheduling. Unreadable files become error entries;
// only cancellation aborts the run.
func (c *Comparator) Compare(ctx context.Context, entries []models.StructureEntry, left, right storage.Backend) ([]models.ContentEntry, error) {
	var paths []string
	for _, e := range entries {
		if e.Presence == models.PresenceBoth && !e.TypeConflict && e.Error == "" {
			paths = append(paths, e.RelativePath)
		}
	}

	results := make([]models.ContentEntry, 0, len(paths))
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

// CompareFilePair fingerprints a single explicit file pair, used when
// the comparison targets are files rather than trees
func (c *Comparator) CompareFilePair(ctx context.Context, rel string, left, right storage.Backend) models.ContentEntry {
	return c.compareOne(ctx, rel, left, right)
}

func (c *Comparator) compareOne(ctx context.Context, rel string, left, right storage.Backend) models.ContentEntry {
	entry := models.ContentEntry{RelativePath: rel}

	leftInfo, err := left.Stat(ctx, rel)
	if err != nil {
		entry.Status = models.ContentError
		entry.Error = fmt.Sprintf("left: %v", err)
		return entry
	}
	rightInfo, err := right.Stat(ctx, rel)
	if err != nil {
		entry.Status = models.ContentError
		entry.Error = fmt.Sprintf("right: %v", err)
		return entry
	}
	entry.SizeLeft = leftInfo.Size
	entry.SizeRight = rightInfo.Size

	// Size precheck: mismatched sizes cannot be identical, so the
	// digests are skipped. The precheck only ever produces "modified";
	// "identical" always requires equal full digests.
	if leftInfo.Size != rightInfo.Size {
		entry.Status = models.ContentModified
		entry.Reason = "file sizes differ"
		return entry
	}

	var leftSum, rightSum string
	var leftErr, rightErr error
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		leftSum, leftErr = c.fingerprint(ctx, left, rel)
	}()
	go func() {
		defer wg.Done()
		rightSum, rightErr = c.fingerprint(ctx, right, rel)
	}()
	wg.Wait()

	if leftErr != nil {
		entry.Status = models.ContentError
		entry.Error = fmt.Sprintf("left: %v", leftErr)
		return entry
	}
	if rightErr != nil {
		entry.Status = models.ContentError
		entry.Error = fmt.Sprintf("right: %v", rightErr)
		return entry
	}

	entry.FingerprintLeft = leftSum
	entry.FingerprintRight = rightSum
	if leftSum == rightSum {
		entry.Status = models.ContentIdentical
		entry.Reason = "fingerprints match"
	} else {
		entry.Status = models.ContentModified
		entry.Reason = "fingerprints differ"
	}

	return entry
}

// fingerprint computes the hex digest of a file using streaming reads,
// so file size is never bounded by available memory
func (c *Comparator) fingerprint(ctx context.Context, backend storage.Backend, rel string) (string, error) {
	rc, err := backend.Read(ctx, rel)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var reader io.Reader = ratelimit.NewReadCloser(ctx, rc, c.bucket)

	hasher := c.newHash()

	bufPtr := c.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer c.bufferPool.Put(bufPtr)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
