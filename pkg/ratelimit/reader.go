// Package ratelimit provides a token-bucket reader wrapper used to cap
// read bandwidth while fingerprinting trees on slow or shared storage.
package ratelimit

import (
	"context"
	"io"
	"sync"
	"time"
)

const minBucketSize = 64 * 1024

// Bucket is a token bucket shared by every reader of a run, so the
// limit applies to the run as a whole rather than per file
type Bucket struct {
	bytesPerSecond int64
	capacity       int64

	mu         sync.Mutex
	tokens     int64
	lastRefill time.Time
}

// NewBucket creates a bucket allowing bytesPerSecond of sustained
// throughput. A non-positive rate returns nil, which disables limiting.
func NewBucket(bytesPerSecond int64) *Bucket {
	if bytesPerSecond <= 0 {
		return nil
	}
	capacity := bytesPerSecond
	if capacity < minBucketSize {
		capacity = minBucketSize
	}
	return &Bucket{
		bytesPerSecond: bytesPerSecond,
		capacity:       capacity,
		tokens:         capacity,
		lastRefill:     time.Now(),
	}
}

// take blocks until n tokens are available or the context ends
func (b *Bucket) take(ctx context.Context, n int64) error {
	for {
		b.mu.Lock()
		b.refill()
		if b.tokens >= n {
			b.tokens -= n
			b.mu.Unlock()
			return nil
		}
		deficit := n - b.tokens
		b.mu.Unlock()

		wait := time.Duration(float64(deficit) / float64(b.bytesPerSecond) * float64(time.Second))
		if wait < time.Millisecond {
			wait = time.Millisecond
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// credit returns unused tokens after a short read
func (b *Bucket) credit(n int64) {
	if n <= 0 {
		return
	}
	b.mu.Lock()
	b.tokens += n
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.mu.Unlock()
}

// refill adds tokens for the elapsed time; callers hold the lock
func (b *Bucket) refill() {
	now := time.Now()
	add := int64(float64(now.Sub(b.lastRefill)) / float64(time.Second) * float64(b.bytesPerSecond))
	if add > 0 {
		b.tokens += add
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.lastRefill = now
	}
}

type reader struct {
	ctx    context.Context
	src    io.Reader
	bucket *Bucket
}

func (r *reader) Read(p []byte) (int, error) {
	want := int64(len(p))
	if want > r.bucket.capacity {
		want = r.bucket.capacity
	}
	if err := r.bucket.take(r.ctx, want); err != nil {
		return 0, err
	}
	n, err := r.src.Read(p[:want])
	r.bucket.credit(want - int64(n))
	return n, err
}

// NewReader wraps src so its reads draw from the bucket. A nil bucket
// returns src unchanged.
func NewReader(ctx context.Context, src io.Reader, bucket *Bucket) io.Reader {
	if bucket == nil {
		return src
	}
	return &reader{ctx: ctx, src: src, bucket: bucket}
}

type readCloser struct {
	reader
	closer io.Closer
}

func (rc *readCloser) Close() error {
	return rc.closer.Close()
}

// NewReadCloser wraps rc so its reads draw from the bucket. A nil
// bucket returns rc unchanged.
func NewReadCloser(ctx context.Context, rc io.ReadCloser, bucket *Bucket) io.ReadCloser {
	if bucket == nil {
		return rc
	}
	return &readCloser{reader: reader{ctx: ctx, src: rc, bucket: bucket}, closer: rc}
}
